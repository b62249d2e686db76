// Package mdm defines the Machine Data Model: the fully resolved,
// read-only demographic graph produced by the resolve package. Every field
// that was optional in hdm is present here, every defaulting rule has been
// applied, and every cross-entity invariant (unique names, acyclic
// ancestry, non-overlapping migrations, in-window pulses) has already been
// checked — constructing a Graph through resolve.Resolve is the only
// supported way to obtain one.
//
// Accessors only: this package exposes no mutators. Deme, Epoch,
// AsymmetricMigration, and Pulse all reference other demes by integer
// index into Graph's deme slice rather than by pointer, so the object
// graph has no cycles to own and nothing to deep-copy on clone — mirroring
// the "index, not pointer" back-reference design used throughout this
// module, adapted from the teacher's core.Edge (string From/To indices
// into core.Graph.vertices) generalized to integer indices.
//
// Resolved Graphs are immutable after construction and therefore safe to
// share by reference across goroutines for read-only access (SizeAt,
// accessors); nothing here takes a lock because nothing here ever mutates.
package mdm
