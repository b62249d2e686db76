// Package resolveerr defines the shared error taxonomy used across hdm,
// resolve, mdm, convert, and engine: one Kind per category from the
// resolver's error design, and one Error type carrying the offending
// entity's name/index alongside the wrapped cause.
//
// The hdm, resolve, mdm, convert, and engine packages report failures as a
// *resolveerr.Error (or an error wrapping one), so a caller can branch on
// Kind with KindOf, or with errors.Is against a probe built by New (see
// Error.Is), or inspect Entity/Cause directly. The tree and internal
// packages return their own errors.
package resolveerr

import (
	"errors"
	"fmt"
)

// Kind classifies an error by the taxonomy in the resolver's error design:
// the resolution pipeline, the converter, and the forward engine each
// raise one of these, never a bare error.
type Kind int

const (
	// InvalidDomainValue: a scalar is out of its permitted range or not finite.
	InvalidDomainValue Kind = iota
	// UnrecognizedField: an unknown key appeared in a mapping.
	UnrecognizedField
	// MissingRequired: a required field is absent after all defaulting.
	MissingRequired
	// NameError: a duplicate, empty, or malformed deme name, or a reference
	// to an unknown deme.
	NameError
	// TopologyError: an ancestor appears after its descendant, or the deme
	// list is empty.
	TopologyError
	// TimeError: non-monotonic epoch times, a migration/pulse time outside
	// its required window, or start_time not strictly greater than end_time.
	TimeError
	// SizeError: a size is <= 0, size_function is incompatible with the
	// start/end sizes, or a size is non-integer where an integer is required.
	SizeError
	// ProportionError: proportions do not sum to 1 (ancestors) or exceed 1
	// (pulses), or a proportion is out of range.
	ProportionError
	// MigrationConflict: two migrations over the same (source,dest) pair
	// have overlapping time intervals.
	MigrationConflict
	// AncestryInvariantViolated: at runtime, ancestry proportions failed to
	// sum to 1 within tolerance.
	AncestryInvariantViolated
	// ConversionError: integer-generation rounding destroyed a required
	// strict ordering.
	ConversionError
)

// String renders a Kind as the taxonomy name used in error messages.
func (k Kind) String() string {
	switch k {
	case InvalidDomainValue:
		return "InvalidDomainValue"
	case UnrecognizedField:
		return "UnrecognizedField"
	case MissingRequired:
		return "MissingRequired"
	case NameError:
		return "NameError"
	case TopologyError:
		return "TopologyError"
	case TimeError:
		return "TimeError"
	case SizeError:
		return "SizeError"
	case ProportionError:
		return "ProportionError"
	case MigrationConflict:
		return "MigrationConflict"
	case AncestryInvariantViolated:
		return "AncestryInvariantViolated"
	case ConversionError:
		return "ConversionError"
	default:
		return "UnknownErrorKind"
	}
}

// Error is the concrete error type returned by the fallible operations of
// the packages listed in the package comment. Entity identifies the offending object by name and index
// (e.g. "deme[2]:B", "migration[A->B]", "pulse[1]") so messages are
// actionable without a debugger.
type Error struct {
	Kind   Kind
	Entity string
	Cause  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Entity, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Entity)
}

// Unwrap exposes Cause so errors.Is/As can see through to a wrapped
// scalar.ErrInvalidDomainValue or similar sentinel.
func (e *Error) Unwrap() error { return e.Cause }

// Is reports whether target is a *Error with the same Kind, so
// errors.Is(err, resolveerr.New(resolveerr.TimeError, "", nil)) works as a
// kind-only match. Entity and Cause are ignored for matching purposes.
func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) {
		return false
	}
	return e.Kind == other.Kind
}

// New constructs a *Error for the given kind, entity, and optional cause.
func New(kind Kind, entity string, cause error) *Error {
	return &Error{Kind: kind, Entity: entity, Cause: cause}
}

// Newf is New with a formatted entity string.
func Newf(kind Kind, cause error, format string, args ...any) *Error {
	return New(kind, fmt.Sprintf(format, args...), cause)
}

// KindOf extracts the Kind of err if it is (or wraps) a *Error, and
// reports ok=false otherwise.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}
