package mdm

import (
	"github.com/demes-go/resolve/resolveerr"
	"github.com/demes-go/resolve/scalar"
)

// NewEpoch constructs a resolved Epoch from fully-defaulted fields.
// Intended for use by the resolve package once stages R4-R6 have
// determined every value; re-checks the invariants that must hold at the
// type level regardless of which stage produced the inputs (strict time
// ordering, Constant => start_size == end_size, and an infinite-span
// epoch must be Constant).
func NewEpoch(startTime, endTime scalar.Time, startSize, endSize scalar.DemeSize, fn SizeFunction, cloning scalar.CloningRate, selfing scalar.SelfingRate) (*Epoch, error) {
	if !(startTime.Value() > endTime.Value()) {
		return nil, resolveerr.Newf(resolveerr.TimeError, nil, "epoch: start_time %s must be strictly greater than end_time %s", startTime, endTime)
	}
	if fn == Constant && startSize.Value() != endSize.Value() {
		return nil, resolveerr.Newf(resolveerr.SizeError, nil, "epoch: size_function Constant requires start_size == end_size (got %s, %s)", startSize, endSize)
	}
	if startTime.IsInfinite() && fn != Constant {
		return nil, resolveerr.Newf(resolveerr.SizeError, nil, "epoch: infinite-span epoch must use size_function Constant")
	}
	return &Epoch{
		startTime:    startTime,
		endTime:      endTime,
		startSize:    startSize,
		endSize:      endSize,
		sizeFunction: fn,
		cloningRate:  cloning,
		selfingRate:  selfing,
	}, nil
}

// NewDeme constructs a resolved Deme from a fully-defaulted ancestor list,
// proportions, start time, and epoch chain. Re-validates the invariants
// that tie these fields together: proportions align 1:1 with ancestors and
// sum to 1 (within scalar.ProportionSumTolerance) when non-empty, the
// epoch chain is non-empty, its first epoch starts at startTime, and
// consecutive epochs abut exactly.
func NewDeme(name, description string, ancestors []int, proportions []scalar.Proportion, startTime scalar.Time, epochs []*Epoch) (*Deme, error) {
	if name == "" {
		return nil, resolveerr.New(resolveerr.NameError, "deme", nil)
	}
	if len(ancestors) != len(proportions) {
		return nil, resolveerr.Newf(resolveerr.ProportionError, nil, "deme %q: %d ancestors but %d proportions", name, len(ancestors), len(proportions))
	}
	if len(proportions) > 0 {
		vals := make([]float64, len(proportions))
		for i, p := range proportions {
			vals[i] = p.Value()
		}
		if !scalar.SumWithinTolerance(vals, 1.0) {
			return nil, resolveerr.Newf(resolveerr.ProportionError, nil, "deme %q: ancestor proportions sum to %v, want 1", name, sum(vals))
		}
	}
	if len(epochs) == 0 {
		return nil, resolveerr.Newf(resolveerr.MissingRequired, nil, "deme %q: must have at least one epoch", name)
	}
	if !epochs[0].StartTime().Equal(startTime) {
		return nil, resolveerr.Newf(resolveerr.TimeError, nil, "deme %q: first epoch start_time %s != deme start_time %s", name, epochs[0].StartTime(), startTime)
	}
	for i := 1; i < len(epochs); i++ {
		if !epochs[i].StartTime().Equal(epochs[i-1].EndTime()) {
			return nil, resolveerr.Newf(resolveerr.TimeError, nil, "deme %q: epoch[%d] start_time %s != epoch[%d] end_time %s",
				name, i, epochs[i].StartTime(), i-1, epochs[i-1].EndTime())
		}
	}
	ancestorsCopy := make([]int, len(ancestors))
	copy(ancestorsCopy, ancestors)
	propsCopy := make([]scalar.Proportion, len(proportions))
	copy(propsCopy, proportions)
	epochsCopy := make([]*Epoch, len(epochs))
	copy(epochsCopy, epochs)

	return &Deme{
		name:        name,
		description: description,
		ancestors:   ancestorsCopy,
		proportions: propsCopy,
		startTime:   startTime,
		epochs:      epochsCopy,
	}, nil
}

func sum(vals []float64) float64 {
	var s float64
	for _, v := range vals {
		s += v
	}
	return s
}

// NewAsymmetricMigration constructs a resolved migration edge.
func NewAsymmetricMigration(source, dest int, rate scalar.MigrationRate, startTime, endTime scalar.Time) (*AsymmetricMigration, error) {
	if source == dest {
		return nil, resolveerr.Newf(resolveerr.NameError, nil, "migration: source and dest both index %d", source)
	}
	if !(startTime.Value() > endTime.Value()) {
		return nil, resolveerr.Newf(resolveerr.TimeError, nil, "migration[%d->%d]: start_time %s must be strictly greater than end_time %s", source, dest, startTime, endTime)
	}
	return &AsymmetricMigration{source: source, dest: dest, rate: rate, startTime: startTime, endTime: endTime}, nil
}

// NewPulse constructs a resolved admixture pulse.
func NewPulse(sources []int, dest int, proportions []scalar.Proportion, time scalar.Time) (*Pulse, error) {
	if len(sources) == 0 {
		return nil, resolveerr.New(resolveerr.TopologyError, "pulse: sources must be non-empty", nil)
	}
	if len(sources) != len(proportions) {
		return nil, resolveerr.Newf(resolveerr.ProportionError, nil, "pulse: %d sources but %d proportions", len(sources), len(proportions))
	}
	vals := make([]float64, len(proportions))
	for i, p := range proportions {
		vals[i] = p.Value()
	}
	if sum(vals) > 1.0+scalar.ProportionSumTolerance {
		return nil, resolveerr.Newf(resolveerr.ProportionError, nil, "pulse: proportions sum to %v, exceeds 1", sum(vals))
	}
	sourcesCopy := make([]int, len(sources))
	copy(sourcesCopy, sources)
	propsCopy := make([]scalar.Proportion, len(proportions))
	copy(propsCopy, proportions)
	return &Pulse{sources: sourcesCopy, dest: dest, proportions: propsCopy, time: time}, nil
}

// NewGraph constructs the resolved Graph from fully resolved components.
// demes must already be declaration-ordered and uniquely named; NewGraph
// re-derives the name index and re-checks uniqueness as a final guard.
func NewGraph(timeUnits string, generationTime scalar.GenerationTime, description string, doi []string, metadata map[string]any, demes []*Deme, migrations []*AsymmetricMigration, pulses []*Pulse) (*Graph, error) {
	if timeUnits == "" {
		return nil, resolveerr.New(resolveerr.MissingRequired, "time_units", nil)
	}
	if len(demes) == 0 {
		return nil, resolveerr.New(resolveerr.TopologyError, "demes: must be non-empty", nil)
	}
	index := make(map[string]int, len(demes))
	for i, d := range demes {
		if _, exists := index[d.name]; exists {
			return nil, resolveerr.Newf(resolveerr.NameError, nil, "duplicate deme name %q", d.name)
		}
		index[d.name] = i
	}

	demesCopy := make([]*Deme, len(demes))
	copy(demesCopy, demes)
	migrationsCopy := make([]*AsymmetricMigration, len(migrations))
	copy(migrationsCopy, migrations)
	pulsesCopy := make([]*Pulse, len(pulses))
	copy(pulsesCopy, pulses)
	doiCopy := make([]string, len(doi))
	copy(doiCopy, doi)
	metaCopy := make(map[string]any, len(metadata))
	for k, v := range metadata {
		metaCopy[k] = v
	}

	return &Graph{
		timeUnits:      timeUnits,
		generationTime: generationTime,
		description:    description,
		doi:            doiCopy,
		metadata:       metaCopy,
		demes:          demesCopy,
		demeIndex:      index,
		migrations:     migrationsCopy,
		pulses:         pulsesCopy,
	}, nil
}
