// Package engine implements the forward-time traversal of a resolved
// graph: given integer generations and a burn-in length, it iterates
// generation by generation and produces parental/offspring deme sizes and
// each offspring deme's ancestry-proportion vector.
//
// An Engine moves through the state machine {Uninitialized, Iterating,
// AtEnd, ErrorState}. ErrorState is sticky: once entered (a runtime
// invariant violation, not a construction-time error), every accessor
// returns its zero value and the stored error until InitializeTimeIteration
// is called again.
package engine
