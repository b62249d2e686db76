// Package demes (github.com/demes-go/resolve) turns a partially specified
// demographic-history document — the Human Data Model, or HDM — into a
// fully resolved, immutable Machine Data Model, and drives a forward-time
// traversal engine over the result.
//
// What it brings together:
//
//	scalar/    — finite, range-checked value types (Time, DemeSize, ...)
//	tree/      — the untyped scalar/mapping/sequence tree parsers hand us
//	hdm/       — the Unresolved model: optional fields, layered defaults
//	resolve/   — the R1-R8 resolution pipeline (HDM -> MDM)
//	mdm/       — the Resolved model: every field present, read-only
//	convert/   — time-unit conversion into a new graph, including integer generations
//	engine/    — generation-by-generation traversal: sizes and ancestry
//	serialize/ — resolved-graph <-> tree round trip
//
// The package does not parse YAML/JSON/TOML itself beyond the minimal
// tree codec in tree/, does not expose a C ABI, and does not simulate
// genealogies or run stochastic sampling — those are external collaborators
// or out of scope entirely.
//
//	go get github.com/demes-go/resolve
package demes
