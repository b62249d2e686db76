package resolve

import (
	"fmt"
	"math"

	"github.com/demes-go/resolve/hdm"
	"github.com/demes-go/resolve/mdm"
	"github.com/demes-go/resolve/resolveerr"
	"github.com/demes-go/resolve/scalar"
)

// resolveMigrations implements stage R7: symmetric-shorthand expansion
// into k(k-1) asymmetric entries in deterministic (outer source, inner
// dest) order, window defaulting to the intersected existence windows,
// and same-pair overlap rejection.
func resolveMigrations(g *hdm.Graph, nameIndex map[string]int, demes []*mdm.Deme) ([]*mdm.AsymmetricMigration, error) {
	var out []*mdm.AsymmetricMigration

	type pairKey struct{ source, dest int }
	windows := make(map[pairKey][][2]float64)

	addOne := func(srcName, dstName string, rateF, startF, endF *float64) error {
		si, ok := nameIndex[srcName]
		if !ok {
			return resolveerr.Newf(resolveerr.NameError, nil, "migration: unknown source deme %q", srcName)
		}
		di, ok := nameIndex[dstName]
		if !ok {
			return resolveerr.Newf(resolveerr.NameError, nil, "migration: unknown dest deme %q", dstName)
		}
		if si == di {
			return resolveerr.Newf(resolveerr.NameError, nil, "migration %s->%s: source and dest must differ", srcName, dstName)
		}
		src, dst := demes[si], demes[di]

		maxEnd := math.Max(src.EndTime().Value(), dst.EndTime().Value())
		minStart := math.Min(src.StartTime().Value(), dst.StartTime().Value())

		rF := layerFloat(rateF, g.Defaults.Migration.Rate)
		if rF == nil {
			return resolveerr.Newf(resolveerr.MissingRequired, nil, "migration %s->%s: rate required", srcName, dstName)
		}
		rate, err := scalar.NewMigrationRate(*rF)
		if err != nil {
			return resolveerr.Newf(resolveerr.InvalidDomainValue, err, "migration %s->%s: rate", srcName, dstName)
		}
		if rate.Value() <= 0 {
			return resolveerr.Newf(resolveerr.InvalidDomainValue, nil, "migration %s->%s: rate must be in (0,1]", srcName, dstName)
		}

		startVal := minStart
		if sF := layerFloat(startF, g.Defaults.Migration.StartTime); sF != nil {
			startVal = *sF
		}
		endVal := maxEnd
		if eF := layerFloat(endF, g.Defaults.Migration.EndTime); eF != nil {
			endVal = *eF
		}

		startTime, err := scalar.NewTime(startVal)
		if err != nil {
			return resolveerr.Newf(resolveerr.InvalidDomainValue, err, "migration %s->%s: start_time", srcName, dstName)
		}
		endTime, err := scalar.NewTime(endVal)
		if err != nil {
			return resolveerr.Newf(resolveerr.InvalidDomainValue, err, "migration %s->%s: end_time", srcName, dstName)
		}
		if startTime.Value() > minStart {
			return resolveerr.Newf(resolveerr.TimeError, nil, "migration %s->%s: start_time exceeds intersected existence window", srcName, dstName)
		}
		if endTime.Value() < maxEnd {
			return resolveerr.Newf(resolveerr.TimeError, nil, "migration %s->%s: end_time precedes intersected existence window", srcName, dstName)
		}

		m, err := mdm.NewAsymmetricMigration(si, di, rate, startTime, endTime)
		if err != nil {
			return err
		}

		key := pairKey{si, di}
		window := [2]float64{endTime.Value(), startTime.Value()}
		for _, existing := range windows[key] {
			if existing[0] < window[1] && window[0] < existing[1] {
				return resolveerr.Newf(resolveerr.MigrationConflict, nil, "migration %s->%s: overlapping time interval with an earlier migration over the same pair", srcName, dstName)
			}
		}
		windows[key] = append(windows[key], window)

		out = append(out, m)
		return nil
	}

	for idx, hm := range g.Migrations {
		if hm.IsSymmetric() {
			names := hm.Demes
			for i, srcName := range names {
				for j, dstName := range names {
					if i == j {
						continue
					}
					if err := addOne(srcName, dstName, hm.Rate, hm.StartTime, hm.EndTime); err != nil {
						return nil, fmt.Errorf("migration[%d]: %w", idx, err)
					}
				}
			}
			continue
		}
		if err := addOne(hm.Source, hm.Dest, hm.Rate, hm.StartTime, hm.EndTime); err != nil {
			return nil, fmt.Errorf("migration[%d]: %w", idx, err)
		}
	}
	return out, nil
}
