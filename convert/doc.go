// Package convert implements time-unit conversion of a resolved
// graph: to_generations (dividing every time by generation_time) and
// to_integer_generations (additionally applying a caller-supplied
// rounding function and re-validating every ordering invariant that
// rounding could break). Both return a new *mdm.Graph; the input graph
// is never mutated, consistent with mdm's immutability.
package convert
