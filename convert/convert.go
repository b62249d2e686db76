package convert

import (
	"github.com/demes-go/resolve/mdm"
	"github.com/demes-go/resolve/resolveerr"
	"github.com/demes-go/resolve/scalar"
)

// ToGenerations returns a new resolved graph with every time value
// divided by the input graph's generation_time, time_units set to
// "generations", and generation_time set to 1. The infinity sentinel is
// preserved unchanged (dividing it would still be a finite value, but the
// sentinel's identity -- not its arithmetic result -- is what matters).
func ToGenerations(g *mdm.Graph) (*mdm.Graph, error) {
	scale := g.GenerationTime().Value()
	genTime, _ := scalar.NewGenerationTime(1.0)
	return rebuildGraph(g, "generations", genTime, func(t scalar.Time) (scalar.Time, error) {
		if t.IsInfinite() {
			return t, nil
		}
		v := t.Value() / scale
		nt, err := scalar.NewTime(v)
		if err != nil {
			return scalar.Time{}, resolveerr.Newf(resolveerr.InvalidDomainValue, err, "to_generations: converted time %v", v)
		}
		return nt, nil
	})
}

// ToIntegerGenerations is ToGenerations followed by round applied to every
// finite time value, then full re-validation of the resolved graph's
// ordering invariants. round must return a non-negative integer; if
// rounding destroys a required strict ordering (e.g. two epoch boundaries
// collapse to the same generation), the result is a *resolveerr.Error of
// kind ConversionError rather than a silently adjusted graph.
func ToIntegerGenerations(g *mdm.Graph, round func(float64) uint64) (*mdm.Graph, error) {
	scale := g.GenerationTime().Value()
	genTime, _ := scalar.NewGenerationTime(1.0)
	result, err := rebuildGraph(g, "generations", genTime, func(t scalar.Time) (scalar.Time, error) {
		if t.IsInfinite() {
			return t, nil
		}
		r := round(t.Value() / scale)
		nt, err := scalar.NewTime(float64(r))
		if err != nil {
			return scalar.Time{}, resolveerr.Newf(resolveerr.ConversionError, err, "to_integer_generations: rounded time %d", r)
		}
		return nt, nil
	})
	if err != nil {
		return nil, resolveerr.New(resolveerr.ConversionError, "to_integer_generations", err)
	}
	return result, nil
}

// rebuildGraph reconstructs every resolved entity through mdm's
// constructors with transform applied to each time value, so the
// ordering and positivity invariants those constructors enforce are
// re-checked against the converted times rather than assumed to still
// hold.
func rebuildGraph(g *mdm.Graph, timeUnits string, genTime scalar.GenerationTime, transform func(scalar.Time) (scalar.Time, error)) (*mdm.Graph, error) {
	srcDemes := g.Demes()
	demes := make([]*mdm.Deme, len(srcDemes))
	for i, d := range srcDemes {
		startTime, err := transform(d.StartTime())
		if err != nil {
			return nil, err
		}
		srcEpochs := d.Epochs()
		epochs := make([]*mdm.Epoch, 0, len(srcEpochs))
		for _, e := range srcEpochs {
			st, err := transform(e.StartTime())
			if err != nil {
				return nil, err
			}
			et, err := transform(e.EndTime())
			if err != nil {
				return nil, err
			}
			ne, err := mdm.NewEpoch(st, et, e.StartSize(), e.EndSize(), e.SizeFunction(), e.CloningRate(), e.SelfingRate())
			if err != nil {
				return nil, err
			}
			epochs = append(epochs, ne)
		}
		nd, err := mdm.NewDeme(d.Name(), d.Description(), d.AncestorIndices(), d.AncestorProportions(), startTime, epochs)
		if err != nil {
			return nil, err
		}
		demes[i] = nd
	}

	srcMigrations := g.Migrations()
	migrations := make([]*mdm.AsymmetricMigration, 0, len(srcMigrations))
	for _, m := range srcMigrations {
		st, err := transform(m.StartTime())
		if err != nil {
			return nil, err
		}
		et, err := transform(m.EndTime())
		if err != nil {
			return nil, err
		}
		nm, err := mdm.NewAsymmetricMigration(m.Source(), m.Dest(), m.Rate(), st, et)
		if err != nil {
			return nil, err
		}
		migrations = append(migrations, nm)
	}

	srcPulses := g.Pulses()
	pulses := make([]*mdm.Pulse, 0, len(srcPulses))
	for _, p := range srcPulses {
		pt, err := transform(p.Time())
		if err != nil {
			return nil, err
		}
		np, err := mdm.NewPulse(p.Sources(), p.Dest(), p.Proportions(), pt)
		if err != nil {
			return nil, err
		}
		pulses = append(pulses, np)
	}

	return mdm.NewGraph(timeUnits, genTime, g.Description(), g.DOI(), g.Metadata(), demes, migrations, pulses)
}
