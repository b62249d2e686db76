package scalar

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidDomainValue is returned when a scalar constructor is given a
// non-finite value (NaN or ±Inf) or a value outside the type's permitted
// range. Every scalar.New* function wraps this with the offending type
// name and value via fmt.Errorf("%w: ..."), so callers can branch with
// errors.Is(err, scalar.ErrInvalidDomainValue) while still getting a
// precise message.
var ErrInvalidDomainValue = errors.New("scalar: invalid domain value")

// ProportionSumTolerance is the absolute tolerance used everywhere a set of
// proportions (ancestor weights, pulse proportions, ancestry composition)
// is checked against an exact target sum. Named so every comparison in the
// module uses one definition instead of a scattered literal.
const ProportionSumTolerance = 1e-9

// InfinitySentinel is the distinguished Time value standing in for "from
// the indefinite past" (a root deme's default start_time). It is the
// largest representable finite float64, not IEEE +Inf: arithmetic that
// would need to propagate +Inf through a resolved graph (size_at, time
// conversion, generation counting) is forbidden by construction, so the
// sentinel must itself be an ordinary finite value callers can compare
// and subtract from without producing NaN.
const InfinitySentinel = math.MaxFloat64

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func domainErr(typeName string, v float64) error {
	return fmt.Errorf("%w: %s value %v is not finite or out of range", ErrInvalidDomainValue, typeName, v)
}

// Time represents an instant in a deme-graph's time axis, measured in the
// graph's declared time_units. Time is non-negative except for the
// distinguished InfinitySentinel value used as a root deme's start_time.
type Time struct {
	v float64
}

// NewTime validates v and returns a Time. v must be finite and >= 0;
// InfinitySentinel is accepted as the one distinguished exception.
func NewTime(v float64) (Time, error) {
	if !finite(v) {
		return Time{}, domainErr("Time", v)
	}
	if v < 0 {
		return Time{}, domainErr("Time", v)
	}
	return Time{v: v}, nil
}

// MustTime is NewTime but panics on error; reserved for internal call
// sites (literal constants) where the value is known valid at compile time.
func MustTime(v float64) Time {
	t, err := NewTime(v)
	if err != nil {
		panic(err)
	}
	return t
}

// Infinity returns the distinguished "indefinite past" Time sentinel.
func Infinity() Time { return Time{v: InfinitySentinel} }

// Value returns the underlying float64.
func (t Time) Value() float64 { return t.v }

// IsInfinite reports whether t is the InfinitySentinel.
func (t Time) IsInfinite() bool { return t.v == InfinitySentinel }

// Equal compares two Time values bitwise (no NaN is ever stored, so this
// is a plain finite-float equality check).
func (t Time) Equal(o Time) bool { return t.v == o.v }

// Less reports whether t occurs strictly before o on the backward
// (past-to-present numerically-decreasing) HDM time axis, i.e. t.v > o.v,
// since larger numeric values are further in the past.
func (t Time) Less(o Time) bool { return t.v > o.v }

// Greater is the converse of Less.
func (t Time) Greater(o Time) bool { return t.v < o.v }

func (t Time) String() string {
	if t.IsInfinite() {
		return "Infinity"
	}
	return fmt.Sprintf("%g", t.v)
}

// DemeSize is a strictly positive population size.
type DemeSize struct{ v float64 }

// NewDemeSize validates v (finite, > 0) and returns a DemeSize.
func NewDemeSize(v float64) (DemeSize, error) {
	if !finite(v) || v <= 0 {
		return DemeSize{}, domainErr("DemeSize", v)
	}
	return DemeSize{v: v}, nil
}

// Value returns the underlying float64.
func (d DemeSize) Value() float64 { return d.v }

func (d DemeSize) String() string { return fmt.Sprintf("%g", d.v) }

// MigrationRate is a per-generation migration fraction in [0,1].
type MigrationRate struct{ v float64 }

// NewMigrationRate validates v (finite, in [0,1]) and returns a MigrationRate.
func NewMigrationRate(v float64) (MigrationRate, error) {
	if !finite(v) || v < 0 || v > 1 {
		return MigrationRate{}, domainErr("MigrationRate", v)
	}
	return MigrationRate{v: v}, nil
}

// Value returns the underlying float64.
func (m MigrationRate) Value() float64 { return m.v }

func (m MigrationRate) String() string { return fmt.Sprintf("%g", m.v) }

// Proportion is a single ancestry/admixture weight in (0,1]. Lists of
// Proportion are checked against ProportionSumTolerance where they are
// resolved and constructed (resolve and mdm.NewDeme for ancestor
// proportions, mdm.NewPulse for pulse proportions); Proportion
// itself only enforces the per-value range.
type Proportion struct{ v float64 }

// NewProportion validates v (finite, in (0,1]) and returns a Proportion.
func NewProportion(v float64) (Proportion, error) {
	if !finite(v) || v <= 0 || v > 1 {
		return Proportion{}, domainErr("Proportion", v)
	}
	return Proportion{v: v}, nil
}

// Value returns the underlying float64.
func (p Proportion) Value() float64 { return p.v }

func (p Proportion) String() string { return fmt.Sprintf("%g", p.v) }

// CloningRate is a per-generation asexual-reproduction fraction in [0,1].
type CloningRate struct{ v float64 }

// NewCloningRate validates v (finite, in [0,1]) and returns a CloningRate.
func NewCloningRate(v float64) (CloningRate, error) {
	if !finite(v) || v < 0 || v > 1 {
		return CloningRate{}, domainErr("CloningRate", v)
	}
	return CloningRate{v: v}, nil
}

// Value returns the underlying float64.
func (c CloningRate) Value() float64 { return c.v }

func (c CloningRate) String() string { return fmt.Sprintf("%g", c.v) }

// SelfingRate is a per-generation self-fertilization fraction in [0,1].
type SelfingRate struct{ v float64 }

// NewSelfingRate validates v (finite, in [0,1]) and returns a SelfingRate.
func NewSelfingRate(v float64) (SelfingRate, error) {
	if !finite(v) || v < 0 || v > 1 {
		return SelfingRate{}, domainErr("SelfingRate", v)
	}
	return SelfingRate{v: v}, nil
}

// Value returns the underlying float64.
func (s SelfingRate) Value() float64 { return s.v }

func (s SelfingRate) String() string { return fmt.Sprintf("%g", s.v) }

// GenerationTime is the number of time_units per generation; it is
// strictly positive and is required whenever a graph's time_units is not
// itself "generations".
type GenerationTime struct{ v float64 }

// NewGenerationTime validates v (finite, > 0) and returns a GenerationTime.
func NewGenerationTime(v float64) (GenerationTime, error) {
	if !finite(v) || v <= 0 {
		return GenerationTime{}, domainErr("GenerationTime", v)
	}
	return GenerationTime{v: v}, nil
}

// Value returns the underlying float64.
func (g GenerationTime) Value() float64 { return g.v }

func (g GenerationTime) String() string { return fmt.Sprintf("%g", g.v) }

// SumWithinTolerance reports whether the given proportions sum to target
// within ProportionSumTolerance.
func SumWithinTolerance(values []float64, target float64) bool {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return math.Abs(sum-target) <= ProportionSumTolerance
}
