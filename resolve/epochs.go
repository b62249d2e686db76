package resolve

import (
	"strings"

	"github.com/demes-go/resolve/hdm"
	"github.com/demes-go/resolve/mdm"
	"github.com/demes-go/resolve/resolveerr"
	"github.com/demes-go/resolve/scalar"
)

// resolveDeme implements stages R4 (epoch defaulting), R5 (epoch time
// resolution), and R6 (size resolution) for one deme, then constructs the
// resolved mdm.Deme. resolvedDemes holds every deme already resolved at a
// lower index, so ancestor lookups always hit an already-built entry.
func resolveDeme(g *hdm.Graph, hd *hdm.Deme, ancestorIdx []int, proportions []scalar.Proportion, resolvedDemes []*mdm.Deme) (*mdm.Deme, error) {
	startTime, err := resolveDemeStartTime(hd, ancestorIdx, resolvedDemes)
	if err != nil {
		return nil, err
	}

	if len(hd.Epochs) == 0 {
		return nil, resolveerr.Newf(resolveerr.MissingRequired, nil, "deme %q: must have at least one epoch", hd.Name)
	}

	epochs := make([]*mdm.Epoch, 0, len(hd.Epochs))
	prevEndTime := startTime
	var prevEndSize scalar.DemeSize

	for j, he := range hd.Epochs {
		endTimeF := layerFloat(he.EndTime, hd.Defaults.EndTime, g.Defaults.Epoch.EndTime)
		if endTimeF == nil {
			if j == len(hd.Epochs)-1 {
				zero := 0.0
				endTimeF = &zero
			} else {
				return nil, resolveerr.Newf(resolveerr.MissingRequired, nil, "deme %q epoch[%d]: end_time required", hd.Name, j)
			}
		}
		endTime, err := scalar.NewTime(*endTimeF)
		if err != nil {
			return nil, resolveerr.Newf(resolveerr.InvalidDomainValue, err, "deme %q epoch[%d]: end_time", hd.Name, j)
		}

		startSize, err := resolveEpochStartSize(g, hd, he, j, prevEndTime, prevEndSize, ancestorIdx, proportions, resolvedDemes)
		if err != nil {
			return nil, err
		}

		endSizeF := layerFloat(he.EndSize, hd.Defaults.EndSize, g.Defaults.Epoch.EndSize)
		var endSize scalar.DemeSize
		if endSizeF != nil {
			endSize, err = scalar.NewDemeSize(*endSizeF)
			if err != nil {
				return nil, resolveerr.Newf(resolveerr.InvalidDomainValue, err, "deme %q epoch[%d]: end_size", hd.Name, j)
			}
		} else {
			endSize = startSize
		}

		cloningF := layerFloat(he.CloningRate, hd.Defaults.CloningRate, g.Defaults.Epoch.CloningRate)
		cloningVal := 0.0
		if cloningF != nil {
			cloningVal = *cloningF
		}
		cloning, err := scalar.NewCloningRate(cloningVal)
		if err != nil {
			return nil, resolveerr.Newf(resolveerr.InvalidDomainValue, err, "deme %q epoch[%d]: cloning_rate", hd.Name, j)
		}

		selfingF := layerFloat(he.SelfingRate, hd.Defaults.SelfingRate, g.Defaults.Epoch.SelfingRate)
		selfingVal := 0.0
		if selfingF != nil {
			selfingVal = *selfingF
		}
		selfing, err := scalar.NewSelfingRate(selfingVal)
		if err != nil {
			return nil, resolveerr.Newf(resolveerr.InvalidDomainValue, err, "deme %q epoch[%d]: selfing_rate", hd.Name, j)
		}

		sizeFnStr := layerString(he.SizeFunction, hd.Defaults.SizeFunction, g.Defaults.Epoch.SizeFunction)
		var fn mdm.SizeFunction
		if sizeFnStr != nil {
			fn, err = parseSizeFunction(*sizeFnStr)
			if err != nil {
				return nil, resolveerr.Newf(resolveerr.InvalidDomainValue, err, "deme %q epoch[%d]: size_function", hd.Name, j)
			}
		} else if startSize.Value() == endSize.Value() {
			fn = mdm.Constant
		} else {
			fn = mdm.Exponential
		}

		epoch, err := mdm.NewEpoch(prevEndTime, endTime, startSize, endSize, fn, cloning, selfing)
		if err != nil {
			return nil, err
		}
		epochs = append(epochs, epoch)
		prevEndTime = endTime
		prevEndSize = endSize
	}

	return mdm.NewDeme(hd.Name, hd.Description, ancestorIdx, proportions, startTime, epochs)
}

// resolveDemeStartTime implements the start_time half of stage R5: an
// explicit value wins; otherwise a deme with ancestors inherits the
// minimum end_time among them (the most recent instant all ancestors are
// simultaneously present); a root deme defaults to the infinity sentinel.
func resolveDemeStartTime(hd *hdm.Deme, ancestorIdx []int, resolvedDemes []*mdm.Deme) (scalar.Time, error) {
	if hd.StartTime != nil {
		t, err := scalar.NewTime(*hd.StartTime)
		if err != nil {
			return scalar.Time{}, resolveerr.Newf(resolveerr.InvalidDomainValue, err, "deme %q: start_time", hd.Name)
		}
		return t, nil
	}
	if len(ancestorIdx) == 0 {
		return scalar.Infinity(), nil
	}
	minEnd := resolvedDemes[ancestorIdx[0]].EndTime().Value()
	for _, ai := range ancestorIdx[1:] {
		if v := resolvedDemes[ai].EndTime().Value(); v < minEnd {
			minEnd = v
		}
	}
	t, err := scalar.NewTime(minEnd)
	if err != nil {
		return scalar.Time{}, resolveerr.Newf(resolveerr.TimeError, err, "deme %q: inherited start_time", hd.Name)
	}
	return t, nil
}

// resolveEpochStartSize implements the start_size half of stage R6 for
// epoch j: explicit value wins; non-first epochs inherit the prior
// epoch's end_size; a first epoch with a single full-weight ancestor
// inherits that ancestor's size at the deme's start_time; otherwise the
// field is required.
func resolveEpochStartSize(g *hdm.Graph, hd *hdm.Deme, he *hdm.Epoch, j int, startTime scalar.Time, prevEndSize scalar.DemeSize, ancestorIdx []int, proportions []scalar.Proportion, resolvedDemes []*mdm.Deme) (scalar.DemeSize, error) {
	startSizeF := layerFloat(he.StartSize, hd.Defaults.StartSize, g.Defaults.Epoch.StartSize)
	if startSizeF != nil {
		s, err := scalar.NewDemeSize(*startSizeF)
		if err != nil {
			return scalar.DemeSize{}, resolveerr.Newf(resolveerr.InvalidDomainValue, err, "deme %q epoch[%d]: start_size", hd.Name, j)
		}
		return s, nil
	}
	if j > 0 {
		return prevEndSize, nil
	}
	if len(ancestorIdx) == 1 && len(proportions) == 1 && proportions[0].Value() == 1.0 {
		anc := resolvedDemes[ancestorIdx[0]]
		s, err := anc.SizeAt(startTime)
		if err != nil {
			return scalar.DemeSize{}, resolveerr.Newf(resolveerr.SizeError, err, "deme %q epoch[0]: inherit start_size from ancestor %q", hd.Name, anc.Name())
		}
		return s, nil
	}
	return scalar.DemeSize{}, resolveerr.Newf(resolveerr.MissingRequired, nil, "deme %q epoch[0]: start_size required", hd.Name)
}

func parseSizeFunction(s string) (mdm.SizeFunction, error) {
	switch strings.ToLower(s) {
	case "constant":
		return mdm.Constant, nil
	case "exponential":
		return mdm.Exponential, nil
	case "linear":
		return mdm.Linear, nil
	default:
		return 0, resolveerr.Newf(resolveerr.InvalidDomainValue, nil, "unrecognized size_function %q", s)
	}
}
