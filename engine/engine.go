package engine

import (
	"fmt"
	"math"

	"github.com/demes-go/resolve/convert"
	"github.com/demes-go/resolve/internal/densematrix"
	"github.com/demes-go/resolve/mdm"
	"github.com/demes-go/resolve/resolveerr"
	"github.com/demes-go/resolve/scalar"
)

// Engine performs the forward-time traversal of a resolved graph that has
// been converted to integer generations. There is no explicit deallocate
// operation (unlike the FFI-shaped interface this mirrors): an *Engine is
// ordinary garbage-collected Go memory.
type Engine struct {
	graph    *mdm.Graph
	burnIn   uint64
	endTime  uint64
	numDemes int

	state State
	err   error

	nextGen uint64

	hasCurrentState bool
	parental        []float64
	offspring       []float64
	hasOffspring    bool
	ancestry        *densematrix.Matrix
	ancestryValid   []bool
}

// NewEngine converts g to integer generations via round, validates every
// resulting size is integral, and computes the model's end time
// (burn_in + the maximum finite deme start_time, i.e. the deepest
// explicitly bounded point in the past).
func NewEngine(g *mdm.Graph, burnIn uint64, round func(float64) uint64) (*Engine, error) {
	ig, err := convert.ToIntegerGenerations(g, round)
	if err != nil {
		return nil, err
	}
	for _, d := range ig.Demes() {
		for j, e := range d.Epochs() {
			if !isIntegral(e.StartSize().Value()) || !isIntegral(e.EndSize().Value()) {
				return nil, resolveerr.Newf(resolveerr.SizeError, nil, "deme %q epoch[%d]: size must be integer after conversion to generations", d.Name(), j)
			}
		}
	}

	span := 0.0
	for _, d := range ig.Demes() {
		if !d.StartTime().IsInfinite() && d.StartTime().Value() > span {
			span = d.StartTime().Value()
		}
	}
	endTime := burnIn + uint64(span)

	return &Engine{
		graph:    ig,
		burnIn:   burnIn,
		endTime:  endTime,
		numDemes: len(ig.Demes()),
		state:    Uninitialized,
	}, nil
}

func isIntegral(v float64) bool { return v == math.Trunc(v) }

// ModelEndTime returns the last forward generation the engine will yield.
func (e *Engine) ModelEndTime() uint64 { return e.endTime }

// NumDemes returns the number of demes in the underlying graph.
func (e *Engine) NumDemes() int { return e.numDemes }

// IsErrorState reports whether the engine is stuck in ErrorState.
func (e *Engine) IsErrorState() bool { return e.state == ErrorState }

// ErrorMessage returns the stored error's message, or "" outside ErrorState.
func (e *Engine) ErrorMessage() string {
	if e.err != nil {
		return e.err.Error()
	}
	return ""
}

// InitializeTimeIteration resets the generation counter to 0 and returns
// the engine to Iterating, clearing any prior ErrorState.
func (e *Engine) InitializeTimeIteration() {
	e.state = Iterating
	e.err = nil
	e.nextGen = 0
	e.hasCurrentState = false
}

// IterateTime yields successive generations 0..ModelEndTime() inclusive,
// then ok=false. Calling it outside Iterating (before initialization, or
// in ErrorState) also returns ok=false.
func (e *Engine) IterateTime() (uint64, bool) {
	if e.state != Iterating {
		return 0, false
	}
	if e.nextGen > e.endTime {
		e.state = AtEnd
		return 0, false
	}
	t := e.nextGen
	e.nextGen++
	return t, true
}

func (e *Engine) fail(err error) error {
	e.state = ErrorState
	e.err = err
	return err
}

func (e *Engine) backwardTime(gen uint64) scalar.Time {
	return scalar.MustTime(float64(e.endTime - gen))
}

// UpdateState repositions the engine's buffers for generation t,
// computing parental_deme_sizes, offspring_deme_sizes, and each extant
// offspring deme's ancestry-proportion row. Any invariant violation
// places the engine in ErrorState.
func (e *Engine) UpdateState(t uint64) error {
	if e.state == ErrorState {
		return e.err
	}
	if e.state != Iterating && e.state != AtEnd {
		return e.fail(resolveerr.New(resolveerr.MissingRequired, "engine", fmt.Errorf("UpdateState called before InitializeTimeIteration")))
	}
	if t > e.endTime {
		return e.fail(resolveerr.Newf(resolveerr.TimeError, nil, "generation %d exceeds model end time %d", t, e.endTime))
	}

	demes := e.graph.Demes()
	parentalBackward := e.backwardTime(t)
	parental := make([]float64, e.numDemes)
	for i, d := range demes {
		if d.Exists(parentalBackward) {
			sz, err := d.SizeAt(parentalBackward)
			if err != nil {
				return e.fail(resolveerr.New(resolveerr.SizeError, d.Name(), err))
			}
			parental[i] = sz.Value()
		}
	}

	hasNext := t < e.endTime
	var offspring []float64
	var offspringBackward scalar.Time
	if hasNext {
		offspringBackward = e.backwardTime(t + 1)
		offspring = make([]float64, e.numDemes)
		for i, d := range demes {
			if d.Exists(offspringBackward) {
				sz, err := d.SizeAt(offspringBackward)
				if err != nil {
					return e.fail(resolveerr.New(resolveerr.SizeError, d.Name(), err))
				}
				offspring[i] = sz.Value()
			}
		}
	}

	var ancestry *densematrix.Matrix
	ancestryValid := make([]bool, e.numDemes)
	if hasNext {
		m, err := densematrix.New(e.numDemes, e.numDemes)
		if err != nil {
			return e.fail(resolveerr.New(resolveerr.AncestryInvariantViolated, "engine", err))
		}

		migrations := e.graph.Migrations()
		pulses := e.graph.Pulses()

		for child, d := range demes {
			if !d.Exists(offspringBackward) {
				continue
			}
			ancestryValid[child] = true

			if d.Exists(parentalBackward) {
				_ = m.Set(child, child, 1.0)
				for _, mig := range migrations {
					if mig.Dest() != child || !mig.Active(parentalBackward) {
						continue
					}
					rate := mig.Rate().Value()
					_ = m.Add(child, mig.Source(), rate)
					_ = m.Add(child, child, -rate)
				}
			} else {
				ancestors := d.AncestorIndices()
				props := d.AncestorProportions()
				for k, ai := range ancestors {
					_ = m.Add(child, ai, props[k].Value())
				}
			}

			for _, p := range pulses {
				if p.Dest() != child {
					continue
				}
				pulseForward := float64(e.endTime) - p.Time().Value()
				if !(pulseForward > float64(t) && pulseForward <= float64(t+1)) {
					continue
				}
				sumP := 0.0
				for _, pr := range p.Proportions() {
					sumP += pr.Value()
				}
				_ = m.ScaleRow(child, 1-sumP)
				for k, si := range p.Sources() {
					_ = m.Add(child, si, p.Proportions()[k].Value())
				}
			}

			sum, withinTol, err := m.RenormalizeRow(child, scalar.ProportionSumTolerance)
			if err != nil {
				return e.fail(resolveerr.New(resolveerr.AncestryInvariantViolated, d.Name(), err))
			}
			if !withinTol {
				return e.fail(resolveerr.Newf(resolveerr.AncestryInvariantViolated, nil, "deme %q generation %d: ancestry proportions sum to %v", d.Name(), t, sum))
			}
		}
		ancestry = m
	}

	e.hasCurrentState = true
	e.parental = parental
	e.offspring = offspring
	e.hasOffspring = hasNext
	e.ancestry = ancestry
	e.ancestryValid = ancestryValid
	return nil
}

// ParentalDemeSizes returns the size of every deme at the generation
// UpdateState was last called with; 0 for demes not extant then.
func (e *Engine) ParentalDemeSizes() ([]float64, error) {
	if e.state == ErrorState {
		return nil, e.err
	}
	if !e.hasCurrentState {
		return nil, resolveerr.New(resolveerr.MissingRequired, "engine", fmt.Errorf("UpdateState not yet called"))
	}
	out := make([]float64, len(e.parental))
	copy(out, e.parental)
	return out, nil
}

// OffspringDemeSizes returns the size of every deme at generation t+1, or
// ok=false when t is the model's end time (no next generation).
func (e *Engine) OffspringDemeSizes() (sizes []float64, ok bool, err error) {
	if e.state == ErrorState {
		return nil, false, e.err
	}
	if !e.hasCurrentState {
		return nil, false, resolveerr.New(resolveerr.MissingRequired, "engine", fmt.Errorf("UpdateState not yet called"))
	}
	if !e.hasOffspring {
		return nil, false, nil
	}
	out := make([]float64, len(e.offspring))
	copy(out, e.offspring)
	return out, true, nil
}

// AncestryProportions returns the ancestry-proportion vector for the
// offspring deme child (indices sum to 1 within scalar.ProportionSumTolerance),
// or an error if child is out of range, not extant at t+1, or t is the
// model's end time.
func (e *Engine) AncestryProportions(child int) ([]float64, error) {
	if e.state == ErrorState {
		return nil, e.err
	}
	if !e.hasCurrentState {
		return nil, resolveerr.New(resolveerr.MissingRequired, "engine", fmt.Errorf("UpdateState not yet called"))
	}
	if !e.hasOffspring {
		return nil, resolveerr.New(resolveerr.TimeError, "engine", fmt.Errorf("no next generation at model end time"))
	}
	if child < 0 || child >= e.numDemes {
		return nil, resolveerr.Newf(resolveerr.NameError, nil, "deme index %d out of range", child)
	}
	if !e.ancestryValid[child] {
		return nil, resolveerr.Newf(resolveerr.TimeError, nil, "deme index %d not extant at the next generation", child)
	}
	return e.ancestry.Row(child)
}
