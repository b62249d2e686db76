package resolve

import (
	"fmt"

	"github.com/demes-go/resolve/hdm"
	"github.com/demes-go/resolve/mdm"
	"github.com/demes-go/resolve/resolveerr"
	"github.com/demes-go/resolve/scalar"
)

// resolvePulses implements stage R8: source/dest lookup, proportion
// validation, time defaulting from defaults.pulse.time, and strict
// (open-interval, unlike the half-open existence window) containment of
// the pulse time within every referenced deme's existence window.
// Declaration order is preserved in the output, carrying the
// same-time-ordering contract through to the forward engine.
func resolvePulses(g *hdm.Graph, nameIndex map[string]int, demes []*mdm.Deme) ([]*mdm.Pulse, error) {
	var out []*mdm.Pulse

	for idx, hp := range g.Pulses {
		entity := fmt.Sprintf("pulse[%d]", idx)

		if len(hp.Sources) == 0 {
			return nil, resolveerr.Newf(resolveerr.TopologyError, nil, "%s: sources must be non-empty", entity)
		}
		sourceIdx := make([]int, len(hp.Sources))
		for i, name := range hp.Sources {
			si, ok := nameIndex[name]
			if !ok {
				return nil, resolveerr.Newf(resolveerr.NameError, nil, "%s: unknown source deme %q", entity, name)
			}
			sourceIdx[i] = si
		}
		destIdx, ok := nameIndex[hp.Dest]
		if !ok {
			return nil, resolveerr.Newf(resolveerr.NameError, nil, "%s: unknown dest deme %q", entity, hp.Dest)
		}

		if len(hp.Proportions) != len(sourceIdx) {
			return nil, resolveerr.Newf(resolveerr.ProportionError, nil, "%s: %d sources but %d proportions", entity, len(sourceIdx), len(hp.Proportions))
		}
		proportions := make([]scalar.Proportion, len(hp.Proportions))
		for i, f := range hp.Proportions {
			p, err := scalar.NewProportion(f)
			if err != nil {
				return nil, resolveerr.Newf(resolveerr.InvalidDomainValue, err, "%s: proportion[%d]", entity, i)
			}
			proportions[i] = p
		}

		timeF := layerFloat(hp.Time, g.Defaults.Pulse.Time)
		if timeF == nil {
			return nil, resolveerr.Newf(resolveerr.MissingRequired, nil, "%s: time required", entity)
		}
		time, err := scalar.NewTime(*timeF)
		if err != nil {
			return nil, resolveerr.Newf(resolveerr.InvalidDomainValue, err, "%s: time", entity)
		}

		check := func(demeIdx int) error {
			d := demes[demeIdx]
			if !(time.Value() > d.EndTime().Value() && time.Value() < d.StartTime().Value()) {
				return resolveerr.Newf(resolveerr.TimeError, nil, "%s: time %s not strictly inside existence window of %q", entity, time, d.Name())
			}
			return nil
		}
		if err := check(destIdx); err != nil {
			return nil, err
		}
		for _, si := range sourceIdx {
			if err := check(si); err != nil {
				return nil, err
			}
		}

		p, err := mdm.NewPulse(sourceIdx, destIdx, proportions, time)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}
