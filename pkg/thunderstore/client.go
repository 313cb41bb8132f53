package thunderstore

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/modbump/modbump/pkg/errors"
)

const (
	// DefaultBaseURL is the Thunderstore experimental API root.
	DefaultBaseURL = "https://thunderstore.io/api/experimental"

	// DefaultTimeout bounds every registry request. A lookup without a
	// deadline can hang a whole update run, so the zero Option value
	// still produces a client with this timeout.
	DefaultTimeout = 10 * time.Second
)

// Client talks to the Thunderstore experimental API.
//
// All methods are safe for concurrent use by multiple goroutines.
// Requests are never retried and responses are never cached; every call
// is a single HTTP GET bounded by the configured timeout.
type Client struct {
	http    *http.Client
	baseURL string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the registry root, primarily for tests and
// self-hosted registries. Trailing slashes are not expected.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithHTTPClient replaces the underlying HTTP client, keeping whatever
// timeout it carries. Used by httptest-based tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// NewClient creates a registry client with the default base URL and timeout.
func NewClient(opts ...Option) *Client {
	c := &Client{
		http:    &http.Client{Timeout: DefaultTimeout},
		baseURL: DefaultBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// latestResponse mirrors the subset of the package detail payload the
// updater needs.
type latestResponse struct {
	Latest struct {
		VersionNumber string `json:"version_number"`
	} `json:"latest"`
}

// LatestVersion resolves the latest published version of pkg.
//
// It returns a new Package with the version replaced; pkg itself is
// never modified. Failures are reported as ErrCodeLookupFailed errors
// carrying the offending identifier, with the transport or decode
// problem as the cause. A missing package additionally matches
// ErrCodeNotFound.
func (c *Client) LatestVersion(ctx context.Context, pkg Package) (Package, error) {
	url := c.baseURL + "/package/" + pkg.Namespace + "/" + pkg.Name + "/"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Package{}, errors.Wrap(errors.ErrCodeLookupFailed, err, "lookup %s", pkg)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return Package{}, errors.Wrap(errors.ErrCodeLookupFailed,
			errors.Wrap(errors.ErrCodeNetwork, err, "get %s", url),
			"lookup %s", pkg)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp.StatusCode); err != nil {
		return Package{}, errors.Wrap(errors.ErrCodeLookupFailed, err, "lookup %s", pkg)
	}

	var data latestResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return Package{}, errors.Wrap(errors.ErrCodeLookupFailed, err, "lookup %s: decode response", pkg)
	}
	if data.Latest.VersionNumber == "" {
		return Package{}, errors.Wrap(errors.ErrCodeLookupFailed,
			errors.New(errors.ErrCodeInvalidInput, "response missing latest.version_number"),
			"lookup %s", pkg)
	}

	return pkg.WithVersion(data.Latest.VersionNumber), nil
}

func checkStatus(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound:
		return errors.New(errors.ErrCodeNotFound, "package not found")
	default:
		return errors.New(errors.ErrCodeNetwork, "status %d", code)
	}
}
