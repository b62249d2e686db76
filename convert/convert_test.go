package convert_test

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/demes-go/resolve/convert"
	"github.com/demes-go/resolve/hdm"
	"github.com/demes-go/resolve/resolve"
	"github.com/demes-go/resolve/resolveerr"
	"github.com/demes-go/resolve/tree"
)

func TestToGenerations_ScalesByGenerationTime(t *testing.T) {
	n, err := tree.DecodeYAML(strings.NewReader(`
time_units: years
generation_time: 25
demes:
  - name: A
    start_time: 1000
    epochs:
      - start_size: 10
        end_time: 0
`))
	require.NoError(t, err)
	g, err := hdm.Parse(n)
	require.NoError(t, err)
	mg, err := resolve.Resolve(g)
	require.NoError(t, err)

	converted, err := convert.ToGenerations(mg)
	require.NoError(t, err)
	assert.Equal(t, "generations", converted.TimeUnits())
	assert.Equal(t, 1.0, converted.GenerationTime().Value())
	a := converted.Demes()[0]
	assert.Equal(t, 40.0, a.StartTime().Value())
}

func TestToGenerations_PreservesInfinitySentinel(t *testing.T) {
	n, err := tree.DecodeYAML(strings.NewReader(`
time_units: years
generation_time: 25
demes:
  - name: A
    epochs:
      - start_size: 10
        end_time: 0
`))
	require.NoError(t, err)
	g, err := hdm.Parse(n)
	require.NoError(t, err)
	mg, err := resolve.Resolve(g)
	require.NoError(t, err)

	converted, err := convert.ToGenerations(mg)
	require.NoError(t, err)
	assert.True(t, converted.Demes()[0].StartTime().IsInfinite())
}

func roundHalfAwayFromZero(v float64) uint64 {
	return uint64(math.Floor(v + 0.5))
}

func TestToIntegerGenerations_JouganousStyleModel(t *testing.T) {
	// scenario 6: years-time_units, generation_time=29, several demes and
	// a migration; after rounding all times must be non-negative integers
	// and ordering invariants must still hold.
	n, err := tree.DecodeYAML(strings.NewReader(`
time_units: years
generation_time: 29
demes:
  - name: ANC
    epochs:
      - start_size: 7300
        end_time: 5800
  - name: AMH
    ancestors: [ANC]
    epochs:
      - start_size: 12300
        end_time: 0
  - name: EUR
    ancestors: [AMH]
    start_time: 2000
    epochs:
      - start_size: 1000
        end_size: 1000
        end_time: 0
migrations:
  - source: AMH
    dest: EUR
    rate: 0.0001
    start_time: 2000
    end_time: 1
    `))
	require.NoError(t, err)
	g, err := hdm.Parse(n)
	require.NoError(t, err)
	mg, err := resolve.Resolve(g)
	require.NoError(t, err)

	converted, err := convert.ToIntegerGenerations(mg, roundHalfAwayFromZero)
	require.NoError(t, err)
	assert.Equal(t, "generations", converted.TimeUnits())

	for _, d := range converted.Demes() {
		for _, e := range d.Epochs() {
			if !e.StartTime().IsInfinite() {
				assert.GreaterOrEqual(t, e.StartTime().Value(), 0.0)
				assert.Equal(t, math.Trunc(e.StartTime().Value()), e.StartTime().Value())
			}
			assert.GreaterOrEqual(t, e.EndTime().Value(), 0.0)
			assert.Equal(t, math.Trunc(e.EndTime().Value()), e.EndTime().Value())
		}
	}
}

func TestToIntegerGenerations_RoundingCollapseIsConversionError(t *testing.T) {
	n, err := tree.DecodeYAML(strings.NewReader(`
time_units: years
generation_time: 1
demes:
  - name: A
    start_time: 10
    epochs:
      - start_size: 10
        end_time: 9.6
        end_size: 10
      - start_size: 10
        end_time: 0
`))
	require.NoError(t, err)
	g, err := hdm.Parse(n)
	require.NoError(t, err)
	mg, err := resolve.Resolve(g)
	require.NoError(t, err)

	_, err = convert.ToIntegerGenerations(mg, func(v float64) uint64 { return uint64(math.Round(v)) })
	require.Error(t, err)
	kind, ok := resolveerr.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, resolveerr.ConversionError, kind)
}
