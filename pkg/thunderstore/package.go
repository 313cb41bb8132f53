package thunderstore

import (
	"fmt"
	"strings"

	"github.com/modbump/modbump/pkg/errors"
)

// Package identifies a Thunderstore package at a specific version.
//
// Package is a small immutable value type: operations that change the
// version return a new Package rather than mutating the receiver.
type Package struct {
	Namespace string // Owner team or user (e.g., "bbepis")
	Name      string // Package name (e.g., "BepInExPack")
	Version   string // Version string (e.g., "5.4.21")
}

// ParsePackage parses a dash-joined namespace-name-version identifier.
//
// The string must split on "-" into exactly three components; anything
// else fails with ErrCodeMalformedIdentifier. Components containing
// internal dashes are not representable in this format and are rejected
// the same way, matching the registry's manifest contract.
func ParsePackage(s string) (Package, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return Package{}, errors.New(errors.ErrCodeMalformedIdentifier,
			"failed to parse package identifier %q: want namespace-name-version", s)
	}
	return Package{Namespace: parts[0], Name: parts[1], Version: parts[2]}, nil
}

// String returns the dash-joined identifier. It is the inverse of
// ParsePackage for any Package whose components contain no dash.
func (p Package) String() string {
	return fmt.Sprintf("%s-%s-%s", p.Namespace, p.Name, p.Version)
}

// WithVersion returns a copy of p with the version replaced.
func (p Package) WithVersion(version string) Package {
	p.Version = version
	return p
}
