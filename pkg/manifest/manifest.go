// Package manifest reads and writes Thunderstore mod manifests.
//
// A manifest is a JSON object owned by the mod author. Apart from the
// "dependencies" field (an array of namespace-name-version strings)
// every field is treated as opaque and carried through unchanged, so
// the tool stays compatible with manifest fields it has never heard of.
//
// Manifests are immutable once loaded: WithDependencies returns an
// independent copy, and Save writes through a temporary file so a
// failed run never leaves a truncated manifest behind.
package manifest

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/modbump/modbump/pkg/errors"
)

// dependenciesKey is the one manifest field the tool interprets.
const dependenciesKey = "dependencies"

// Manifest is a parsed manifest document.
type Manifest struct {
	fields map[string]json.RawMessage
}

// Read parses a manifest from r.
//
// The document must be a JSON object containing a "dependencies" array
// of strings; anything else fails with ErrCodeInvalidManifest.
func Read(r io.Reader) (*Manifest, error) {
	var fields map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&fields); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "decode manifest")
	}

	m := &Manifest{fields: fields}
	if _, err := m.Dependencies(); err != nil {
		return nil, err
	}
	return m, nil
}

// Load reads and parses the manifest file at path.
func Load(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	m, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("manifest %s: %w", path, err)
	}
	return m, nil
}

// Dependencies returns the manifest's dependency identifier strings in
// document order.
func (m *Manifest) Dependencies() ([]string, error) {
	raw, ok := m.fields[dependenciesKey]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidManifest, "missing %q field", dependenciesKey)
	}
	var deps []string
	if err := json.Unmarshal(raw, &deps); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "%q is not an array of strings", dependenciesKey)
	}
	return deps, nil
}

// WithDependencies returns a copy of the manifest with the dependency
// list replaced. The receiver is left untouched, so the caller's
// original document remains valid for comparison after an update.
func (m *Manifest) WithDependencies(deps []string) (*Manifest, error) {
	raw, err := json.Marshal(deps)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "encode %q", dependenciesKey)
	}

	fields := maps.Clone(m.fields)
	fields[dependenciesKey] = raw
	return &Manifest{fields: fields}, nil
}

// Write serializes the manifest to w with 4-space indentation.
// Fields are emitted in sorted key order, making output deterministic.
func (m *Manifest) Write(w io.Writer) error {
	data, err := json.MarshalIndent(m.fields, "", "    ")
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

// Save writes the manifest to path atomically.
//
// The document is written to a uniquely named temporary file in the
// target directory and renamed into place, so readers never observe a
// half-written manifest and a failed write leaves any existing file
// untouched.
func (m *Manifest) Save(path string) error {
	dir := filepath.Dir(path)
	tmp := filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", filepath.Base(path), uuid.NewString()))

	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("create %s: %w", tmp, err)
	}

	if err := m.Write(f); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close %s: %w", tmp, err)
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}
