// Package serialize emits a resolved *mdm.Graph back out as a tree.Node,
// the reverse direction of hdm.Parse + resolve.Resolve. Every defaultable
// field is materialized (spec.md §6: "the resolved graph serializes to the
// same tree shape with every defaultable field materialized"), so the
// output is a valid input to hdm.Parse again.
package serialize
