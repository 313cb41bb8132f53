package thunderstore

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/modbump/modbump/pkg/errors"
)

// fakeRegistry serves the package detail endpoint for a fixed set of
// latest versions, keyed by "namespace-name".
func fakeRegistry(t *testing.T, latest map[string]string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/package/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		segs := strings.Split(strings.Trim(strings.TrimPrefix(r.URL.Path, "/package/"), "/"), "/")
		if len(segs) != 2 {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		namespace, name := segs[0], segs[1]
		key := namespace + "-" + name
		version, ok := latest[key]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		resp := map[string]any{
			"namespace": namespace,
			"name":      name,
			"latest":    map[string]any{"version_number": version},
		}
		json.NewEncoder(w).Encode(resp)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestLatestVersion(t *testing.T) {
	server := fakeRegistry(t, map[string]string{"acme-widget": "1.2.0"})
	client := NewClient(WithBaseURL(server.URL), WithHTTPClient(server.Client()))

	pkg := Package{Namespace: "acme", Name: "widget", Version: "1.0.0"}
	got, err := client.LatestVersion(context.Background(), pkg)
	if err != nil {
		t.Fatalf("LatestVersion() error: %v", err)
	}

	want := Package{Namespace: "acme", Name: "widget", Version: "1.2.0"}
	if got != want {
		t.Errorf("LatestVersion() = %+v, want %+v", got, want)
	}
	if pkg.Version != "1.0.0" {
		t.Errorf("LatestVersion() mutated input: %+v", pkg)
	}
}

func TestLatestVersionNotFound(t *testing.T) {
	server := fakeRegistry(t, nil)
	client := NewClient(WithBaseURL(server.URL), WithHTTPClient(server.Client()))

	_, err := client.LatestVersion(context.Background(), Package{Namespace: "nobody", Name: "nothing", Version: "0.0.1"})
	if err == nil {
		t.Fatal("LatestVersion() expected error for unknown package")
	}
	if !errors.Is(err, errors.ErrCodeLookupFailed) {
		t.Errorf("error = %v, want LOOKUP_FAILED", err)
	}
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("error = %v, want NOT_FOUND in chain", err)
	}
}

func TestLatestVersionServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()
	client := NewClient(WithBaseURL(server.URL), WithHTTPClient(server.Client()))

	_, err := client.LatestVersion(context.Background(), Package{Namespace: "acme", Name: "widget", Version: "1.0.0"})
	if err == nil {
		t.Fatal("LatestVersion() expected error for 500")
	}
	if !errors.Is(err, errors.ErrCodeNetwork) {
		t.Errorf("error = %v, want NETWORK_ERROR in chain", err)
	}
}

func TestLatestVersionMalformedBody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", "<html>oops</html>"},
		{"missing latest", `{"name": "widget"}`},
		{"blank version", `{"latest": {"version_number": ""}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer server.Close()
			client := NewClient(WithBaseURL(server.URL), WithHTTPClient(server.Client()))

			_, err := client.LatestVersion(context.Background(), Package{Namespace: "acme", Name: "widget", Version: "1.0.0"})
			if !errors.Is(err, errors.ErrCodeLookupFailed) {
				t.Errorf("error = %v, want LOOKUP_FAILED", err)
			}
		})
	}
}

func TestLatestVersionContextCancelled(t *testing.T) {
	started := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-r.Context().Done()
	}))
	defer server.Close()
	client := NewClient(WithBaseURL(server.URL), WithHTTPClient(server.Client()))

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	_, err := client.LatestVersion(ctx, Package{Namespace: "acme", Name: "widget", Version: "1.0.0"})
	if err == nil {
		t.Fatal("LatestVersion() expected error after cancellation")
	}
}

func TestNewClientDefaults(t *testing.T) {
	client := NewClient()
	if client.baseURL != DefaultBaseURL {
		t.Errorf("baseURL = %q, want %q", client.baseURL, DefaultBaseURL)
	}
	if client.http.Timeout != DefaultTimeout {
		t.Errorf("timeout = %v, want %v", client.http.Timeout, DefaultTimeout)
	}
}

func TestWithTimeout(t *testing.T) {
	client := NewClient(WithTimeout(3 * time.Second))
	if client.http.Timeout != 3*time.Second {
		t.Errorf("timeout = %v, want 3s", client.http.Timeout)
	}
}
