// Package hdm defines the Human Data Model: the partially specified,
// mutable demographic-history document a caller writes by hand. Every
// field that can be inferred, inherited, or defaulted is optional here
// (represented as a *float64/*string pointer, nil meaning "not set"); the
// resolve package is the only consumer that turns an *hdm.Graph into a
// fully specified mdm.Graph.
//
// Parse builds an *hdm.Graph from a tree.Node, rejecting any top-level or
// per-deme key outside the table in the external-interfaces section of
// the specification this model implements (UnrecognizedField). It does
// not itself apply any defaulting, inheritance, or cross-entity
// validation — that is the resolver's job, staged as R1 through R8.
package hdm
