package resolve

import (
	"github.com/demes-go/resolve/hdm"
	"github.com/demes-go/resolve/resolveerr"
	"github.com/demes-go/resolve/scalar"
)

// resolveAncestors implements stage R3 for one deme: looks up each
// ancestor name, enforces the forward-reference-prohibited rule (which
// also guarantees the ancestor graph is acyclic), and defaults/validates
// the proportion list.
func resolveAncestors(hd *hdm.Deme, idx int, nameIndex map[string]int) ([]int, []scalar.Proportion, error) {
	if len(hd.Ancestors) == 0 {
		if len(hd.Proportions) != 0 {
			return nil, nil, resolveerr.Newf(resolveerr.ProportionError, nil, "deme %q: proportions given without ancestors", hd.Name)
		}
		return nil, nil, nil
	}

	ancestorIdx := make([]int, len(hd.Ancestors))
	for i, name := range hd.Ancestors {
		ai, ok := nameIndex[name]
		if !ok {
			return nil, nil, resolveerr.Newf(resolveerr.NameError, nil, "deme %q: ancestor %q does not exist", hd.Name, name)
		}
		if ai >= idx {
			return nil, nil, resolveerr.Newf(resolveerr.TopologyError, nil, "deme %q: ancestor %q must precede it in declaration order", hd.Name, name)
		}
		ancestorIdx[i] = ai
	}

	propFloats := hd.Proportions
	if len(propFloats) == 0 {
		if len(ancestorIdx) != 1 {
			return nil, nil, resolveerr.Newf(resolveerr.ProportionError, nil, "deme %q: proportions required for %d ancestors", hd.Name, len(ancestorIdx))
		}
		propFloats = []float64{1.0}
	}
	if len(propFloats) != len(ancestorIdx) {
		return nil, nil, resolveerr.Newf(resolveerr.ProportionError, nil, "deme %q: %d ancestors but %d proportions", hd.Name, len(ancestorIdx), len(propFloats))
	}

	proportions := make([]scalar.Proportion, len(propFloats))
	for i, f := range propFloats {
		p, err := scalar.NewProportion(f)
		if err != nil {
			return nil, nil, resolveerr.Newf(resolveerr.ProportionError, err, "deme %q: proportion[%d]", hd.Name, i)
		}
		proportions[i] = p
	}
	if !scalar.SumWithinTolerance(propFloats, 1.0) {
		return nil, nil, resolveerr.Newf(resolveerr.ProportionError, nil, "deme %q: ancestor proportions sum to %v, want 1", hd.Name, sumFloats(propFloats))
	}

	return ancestorIdx, proportions, nil
}
