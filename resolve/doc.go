// Package resolve implements the transformation from an Unresolved
// demographic-history document (hdm.Graph) into a fully resolved one
// (mdm.Graph): defaulting, inheritance, expansion, and cross-entity
// validation, staged as eight passes that each either complete or abort
// resolution with a *resolveerr.Error. No partial graph is ever returned.
//
// Resolve is the single entry point; every other function in this
// package is an internal stage called in a fixed order:
//
//	R1 resolveTopLevel    - time_units / generation_time / metadata
//	R2 resolveDemeSkeleton - name uniqueness and syntax, name -> index map
//	R3 resolveAncestors   - ancestor lookup, proportion defaulting/sum
//	R4-R6 resolveDeme     - epoch defaulting, time resolution, size resolution
//	R7 resolveMigrations  - symmetric expansion, window defaulting, conflicts
//	R8 resolvePulses      - source/dest lookup, strict window containment
package resolve
