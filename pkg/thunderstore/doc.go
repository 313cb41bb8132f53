// Package thunderstore provides the package identifier type and a client
// for the Thunderstore experimental API.
//
// A Thunderstore package is addressed by a namespace-name-version triple,
// serialized as a single dash-joined string in mod manifests (e.g.
// "bbepis-BepInExPack-5.4.21"). The registry exposes the latest published
// version of a package via
//
//	GET {base}/package/{namespace}/{name}/
//
// which returns JSON containing a latest.version_number field.
//
// The identifier format is an external contract: exactly three
// dash-separated components. Namespaces, names, or versions containing
// dashes cannot be represented and are rejected at parse time rather
// than guessed at.
//
// The client performs single, uncached, unretried GETs with an explicit
// timeout. Callers that need batching on top of it should use the
// updater package.
package thunderstore
