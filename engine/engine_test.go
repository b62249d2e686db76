package engine_test

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/demes-go/resolve/engine"
	"github.com/demes-go/resolve/hdm"
	"github.com/demes-go/resolve/resolve"
	"github.com/demes-go/resolve/tree"
)

func identityRound(v float64) uint64 { return uint64(math.Round(v)) }

func resolveYAML(t *testing.T, doc string) *engine.Engine {
	t.Helper()
	n, err := tree.DecodeYAML(strings.NewReader(doc))
	require.NoError(t, err)
	g, err := hdm.Parse(n)
	require.NoError(t, err)
	mg, err := resolve.Resolve(g)
	require.NoError(t, err)
	e, err := engine.NewEngine(mg, 0, identityRound)
	require.NoError(t, err)
	return e
}

const twoDemePulseDoc = `
time_units: generations
demes:
  - name: A
    start_time: 100
    epochs:
      - start_size: 10
        end_time: 0
  - name: B
    start_time: 100
    epochs:
      - start_size: 10
        end_time: 0
pulses:
  - sources: [A]
    dest: B
    proportions: [0.2]
    time: 50
`

func TestEngine_Scenario5_PulseAncestryProportions(t *testing.T) {
	e := resolveYAML(t, twoDemePulseDoc)
	assert.Equal(t, uint64(100), e.ModelEndTime())
	assert.Equal(t, 2, e.NumDemes())

	e.InitializeTimeIteration()
	var sawGen49 bool
	for {
		gen, ok := e.IterateTime()
		if !ok {
			break
		}
		require.NoError(t, e.UpdateState(gen))
		if gen != 49 {
			continue
		}
		sawGen49 = true

		offspring, hasNext, err := e.OffspringDemeSizes()
		require.NoError(t, err)
		require.True(t, hasNext)
		assert.Equal(t, []float64{10, 10}, offspring)

		propsA, err := e.AncestryProportions(0)
		require.NoError(t, err)
		assert.InDelta(t, 1.0, propsA[0], 1e-9)
		assert.InDelta(t, 0.0, propsA[1], 1e-9)

		propsB, err := e.AncestryProportions(1)
		require.NoError(t, err)
		assert.InDelta(t, 0.2, propsB[0], 1e-9)
		assert.InDelta(t, 0.8, propsB[1], 1e-9)
	}
	assert.True(t, sawGen49, "generation 49 must be visited during iteration")
	assert.False(t, e.IsErrorState())
}

func TestEngine_ProportionsSumToOneAtEveryExtantGeneration(t *testing.T) {
	e := resolveYAML(t, twoDemePulseDoc)
	e.InitializeTimeIteration()
	for {
		gen, ok := e.IterateTime()
		if !ok {
			break
		}
		require.NoError(t, e.UpdateState(gen))
		offspring, hasNext, err := e.OffspringDemeSizes()
		require.NoError(t, err)
		if !hasNext {
			continue
		}
		for child := 0; child < e.NumDemes(); child++ {
			if offspring[child] == 0 {
				// Not extant at the next generation: no ancestry row exists.
				_, err := e.AncestryProportions(child)
				assert.Error(t, err)
				continue
			}
			props, err := e.AncestryProportions(child)
			require.NoError(t, err)
			sum := 0.0
			for _, p := range props {
				sum += p
			}
			assert.InDelta(t, 1.0, sum, 1e-9)
		}
	}
}

func TestEngine_ParentalSizePositiveIffExtant(t *testing.T) {
	e := resolveYAML(t, `
time_units: generations
demes:
  - name: A
    start_time: 50
    epochs:
      - start_size: 10
        end_time: 0
  - name: B
    ancestors: [A]
    start_time: 20
    epochs:
      - start_size: 5
        end_time: 0
`)
	e.InitializeTimeIteration()
	sawBAbsent := false
	sawBPresent := false
	for {
		gen, ok := e.IterateTime()
		if !ok {
			break
		}
		require.NoError(t, e.UpdateState(gen))
		parental, err := e.ParentalDemeSizes()
		require.NoError(t, err)
		if parental[1] == 0 {
			sawBAbsent = true
		} else {
			sawBPresent = true
			assert.Equal(t, 5.0, parental[1])
		}
		if gen < e.ModelEndTime() {
			assert.Equal(t, 10.0, parental[0])
		} else {
			// The final generation is backward time 0, which lies outside
			// every deme's (end_time, start_time] window.
			assert.Equal(t, 0.0, parental[0])
		}
	}
	assert.True(t, sawBAbsent)
	assert.True(t, sawBPresent)
}

func TestEngine_OffspringNullAtModelEndTime(t *testing.T) {
	e := resolveYAML(t, twoDemePulseDoc)
	e.InitializeTimeIteration()
	require.NoError(t, e.UpdateState(0))
	require.NoError(t, e.UpdateState(e.ModelEndTime()))
	_, hasNext, err := e.OffspringDemeSizes()
	require.NoError(t, err)
	assert.False(t, hasNext)

	_, err = e.AncestryProportions(0)
	assert.Error(t, err)
}

func TestEngine_NewlyCreatedDemeAncestryFromAncestorProportions(t *testing.T) {
	n, err := tree.DecodeYAML(strings.NewReader(`
time_units: generations
demes:
  - name: A
    epochs:
      - start_size: 10
        end_time: 0
  - name: B
    ancestors: [A]
    start_time: 30
    epochs:
      - start_size: 4
        end_time: 0
`))
	require.NoError(t, err)
	g, err := hdm.Parse(n)
	require.NoError(t, err)
	mg, err := resolve.Resolve(g)
	require.NoError(t, err)
	e, err := engine.NewEngine(mg, 5, identityRound)
	require.NoError(t, err)

	// B's start_time is 30 == span, so with a 5-generation burn-in its
	// birth is observed as the transition from generation burn_in-1 (not
	// yet extant) to burn_in (extant), i.e. generation 4.
	e.InitializeTimeIteration()
	require.NoError(t, e.UpdateState(4))
	propsB, err := e.AncestryProportions(1)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, propsB[0], 1e-9)
	assert.InDelta(t, 0.0, propsB[1], 1e-9)
}
