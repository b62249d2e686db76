package resolve

import (
	"github.com/demes-go/resolve/hdm"
	"github.com/demes-go/resolve/internal/digraph"
	"github.com/demes-go/resolve/mdm"
	"github.com/demes-go/resolve/resolveerr"
	"github.com/demes-go/resolve/scalar"
)

// Resolve runs the full R1-R8 pipeline over an Unresolved graph and
// returns the resolved, immutable equivalent. Stages run in order and the
// first failing stage aborts resolution; no partial *mdm.Graph is
// returned on error.
func Resolve(g *hdm.Graph) (*mdm.Graph, error) {
	timeUnits, genTime, err := resolveTopLevel(g)
	if err != nil {
		return nil, err
	}

	nameIndex, err := resolveDemeSkeleton(g)
	if err != nil {
		return nil, err
	}

	ancestorsByDeme := make([][]int, len(g.Demes))
	proportionsByDeme := make([][]scalar.Proportion, len(g.Demes))
	for i, hd := range g.Demes {
		ancestorIdx, proportions, err := resolveAncestors(hd, i, nameIndex)
		if err != nil {
			return nil, err
		}
		ancestorsByDeme[i] = ancestorIdx
		proportionsByDeme[i] = proportions
	}

	if err := checkAncestorAcyclic(ancestorsByDeme); err != nil {
		return nil, err
	}

	demes := make([]*mdm.Deme, len(g.Demes))
	for i, hd := range g.Demes {
		d, err := resolveDeme(g, hd, ancestorsByDeme[i], proportionsByDeme[i], demes)
		if err != nil {
			return nil, err
		}
		demes[i] = d
	}

	migrations, err := resolveMigrations(g, nameIndex, demes)
	if err != nil {
		return nil, err
	}

	pulses, err := resolvePulses(g, nameIndex, demes)
	if err != nil {
		return nil, err
	}

	return mdm.NewGraph(timeUnits, genTime, g.Description, g.DOI, g.Metadata, demes, migrations, pulses)
}

// resolveTopLevel implements stage R1.
func resolveTopLevel(g *hdm.Graph) (string, scalar.GenerationTime, error) {
	if g.TimeUnits == "" {
		return "", scalar.GenerationTime{}, resolveerr.New(resolveerr.MissingRequired, "time_units", nil)
	}

	if g.TimeUnits == "generations" {
		if g.GenerationTime == nil {
			gt, _ := scalar.NewGenerationTime(1.0)
			return g.TimeUnits, gt, nil
		}
		gt, err := scalar.NewGenerationTime(*g.GenerationTime)
		if err != nil {
			return "", scalar.GenerationTime{}, resolveerr.New(resolveerr.InvalidDomainValue, "generation_time", err)
		}
		return g.TimeUnits, gt, nil
	}

	if g.GenerationTime == nil {
		return "", scalar.GenerationTime{}, resolveerr.Newf(resolveerr.MissingRequired, nil, "generation_time is required when time_units is %q", g.TimeUnits)
	}
	gt, err := scalar.NewGenerationTime(*g.GenerationTime)
	if err != nil {
		return "", scalar.GenerationTime{}, resolveerr.New(resolveerr.InvalidDomainValue, "generation_time", err)
	}
	return g.TimeUnits, gt, nil
}

// checkAncestorAcyclic runs a defensive topological check over the
// ancestor relation. Stage R3's forward-reference rule already guarantees
// acyclicity, so ErrCycleDetected here would indicate a bug in this
// package rather than bad input.
func checkAncestorAcyclic(ancestorsByDeme [][]int) error {
	g := digraph.New(len(ancestorsByDeme))
	for child, ancestors := range ancestorsByDeme {
		for _, anc := range ancestors {
			if err := g.AddEdge(anc, child); err != nil {
				return resolveerr.Newf(resolveerr.TopologyError, err, "ancestor edge %d->%d out of range", anc, child)
			}
		}
	}
	if _, err := digraph.TopologicalOrder(g); err != nil {
		return resolveerr.New(resolveerr.TopologyError, "ancestor graph", err)
	}
	return nil
}

// layerFloat returns the first non-nil pointer among vals, honoring
// "explicit value wins, then deme-level default, then graph-level
// default" when called in that order.
func layerFloat(vals ...*float64) *float64 {
	for _, v := range vals {
		if v != nil {
			return v
		}
	}
	return nil
}

// layerString is layerFloat for *string fields (size_function).
func layerString(vals ...*string) *string {
	for _, v := range vals {
		if v != nil {
			return v
		}
	}
	return nil
}

func sumFloats(vals []float64) float64 {
	var s float64
	for _, v := range vals {
		s += v
	}
	return s
}
