// Package tree is the narrow boundary between a concrete document format
// (YAML, JSON) and the hdm package's Unresolved model. It defines Node, a
// tagged union of scalar/mapping/sequence values mirroring exactly what a
// parser hands the resolver — nothing richer, per the parser/core split
// the resolution pipeline depends on.
//
// Decode* turns a document into a Node for hdm.Parse to consume; the
// serialize package builds a Node from a resolved graph, which Encode*
// turns back into a document. Sequences keep their order, since migration
// expansion order and deme declaration order are load-bearing invariants
// downstream. Mapping keys keep their insertion order: DecodeYAML inserts
// them in source order, DecodeJSON in sorted order.
package tree
