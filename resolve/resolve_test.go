package resolve_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/demes-go/resolve/hdm"
	"github.com/demes-go/resolve/mdm"
	"github.com/demes-go/resolve/resolve"
	"github.com/demes-go/resolve/resolveerr"
	"github.com/demes-go/resolve/scalar"
	"github.com/demes-go/resolve/tree"
)

func resolveYAML(t *testing.T, doc string) (*mdm.Graph, error) {
	t.Helper()
	n, err := tree.DecodeYAML(strings.NewReader(doc))
	require.NoError(t, err)
	g, err := hdm.Parse(n)
	require.NoError(t, err)
	return resolve.Resolve(g)
}

func TestResolve_Scenario1_MinimalSingleDeme(t *testing.T) {
	g, err := resolveYAML(t, `
time_units: generations
demes:
  - name: A
    epochs:
      - start_size: 100
`)
	require.NoError(t, err)
	require.Len(t, g.Demes(), 1)
	a := g.Demes()[0]
	assert.True(t, a.StartTime().IsInfinite())
	assert.Equal(t, 0.0, a.EndTime().Value())
	assert.Equal(t, 100.0, a.StartSize().Value())
	assert.Equal(t, 100.0, a.EndSize().Value())
	assert.Equal(t, mdm.Constant, a.Epochs()[0].SizeFunction())
}

func TestResolve_Scenario2_LinearGrowth(t *testing.T) {
	g, err := resolveYAML(t, `
time_units: generations
demes:
  - name: A
    start_time: 100
    epochs:
      - start_size: 10
        end_size: 100
        end_time: 0
        size_function: linear
`)
	require.NoError(t, err)
	a := g.Demes()[0]
	size, err := a.SizeAt(scalar.MustTime(50))
	require.NoError(t, err)
	assert.InDelta(t, 55.0, size.Value(), 1e-9)
}

func TestResolve_Scenario3_BranchStartTimeInheritance(t *testing.T) {
	g, err := resolveYAML(t, `
time_units: generations
demes:
  - name: A
    epochs:
      - start_size: 1000
        end_time: 100
  - name: B
    ancestors: [A]
    epochs:
      - start_size: 500
        end_time: 0
`)
	require.NoError(t, err)
	b, ok := g.DemeByName("B")
	require.True(t, ok)
	assert.Equal(t, 100.0, b.StartTime().Value())
}

func TestResolve_Scenario4_SymmetricMigrationExpansion(t *testing.T) {
	g, err := resolveYAML(t, `
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
migrations:
  - demes: [A, B]
    rate: 0.01
`)
	require.NoError(t, err)
	migs := g.Migrations()
	require.Len(t, migs, 2)
	for _, m := range migs {
		assert.Equal(t, 0.01, m.Rate().Value())
		assert.Equal(t, 100.0, m.StartTime().Value())
		assert.Equal(t, 0.0, m.EndTime().Value())
	}
	ai, _ := g.DemeIndex("A")
	bi, _ := g.DemeIndex("B")
	assert.Equal(t, ai, migs[0].Source())
	assert.Equal(t, bi, migs[0].Dest())
	assert.Equal(t, bi, migs[1].Source())
	assert.Equal(t, ai, migs[1].Dest())
}

func TestResolve_Scenario5_Pulse(t *testing.T) {
	g, err := resolveYAML(t, `
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
`)
	require.NoError(t, err)
	require.Len(t, g.Pulses(), 1)
	p := g.Pulses()[0]
	assert.Equal(t, 0.2, p.Proportions()[0].Value())
	assert.Equal(t, 50.0, p.Time().Value())
}

func TestResolve_DuplicateNameRejected(t *testing.T) {
	_, err := resolveYAML(t, `
time_units: generations
demes:
  - name: A
    epochs:
      - start_size: 1
  - name: A
    epochs:
      - start_size: 1
`)
	require.Error(t, err)
	kind, _ := resolveerr.KindOf(err)
	assert.Equal(t, resolveerr.NameError, kind)
}

func TestResolve_ForwardAncestorReferenceRejected(t *testing.T) {
	_, err := resolveYAML(t, `
time_units: generations
demes:
  - name: A
    ancestors: [B]
    epochs:
      - start_size: 1
  - name: B
    epochs:
      - start_size: 1
`)
	require.Error(t, err)
	kind, _ := resolveerr.KindOf(err)
	assert.Equal(t, resolveerr.TopologyError, kind)
}

func TestResolve_NonGenerationsRequiresGenerationTime(t *testing.T) {
	_, err := resolveYAML(t, `
time_units: years
demes:
  - name: A
    epochs:
      - start_size: 1
`)
	require.Error(t, err)
	kind, _ := resolveerr.KindOf(err)
	assert.Equal(t, resolveerr.MissingRequired, kind)
}

func TestResolve_PulseOutsideWindowRejected(t *testing.T) {
	_, err := resolveYAML(t, `
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
    time: 0
`)
	require.Error(t, err)
	kind, _ := resolveerr.KindOf(err)
	assert.Equal(t, resolveerr.TimeError, kind)
}

func TestResolve_OverlappingMigrationsRejected(t *testing.T) {
	_, err := resolveYAML(t, `
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
migrations:
  - source: A
    dest: B
    rate: 0.01
    start_time: 100
    end_time: 50
  - source: A
    dest: B
    rate: 0.02
    start_time: 60
    end_time: 0
`)
	require.Error(t, err)
	kind, _ := resolveerr.KindOf(err)
	assert.Equal(t, resolveerr.MigrationConflict, kind)
}

func TestResolve_AncestorProportionSumEnforced(t *testing.T) {
	_, err := resolveYAML(t, `
time_units: generations
demes:
  - name: A
    epochs:
      - start_size: 1
        end_time: 50
  - name: B
    epochs:
      - start_size: 1
        end_time: 50
  - name: C
    ancestors: [A, B]
    proportions: [0.5, 0.6]
    epochs:
      - start_size: 1
        end_time: 0
`)
	require.Error(t, err)
	kind, _ := resolveerr.KindOf(err)
	assert.Equal(t, resolveerr.ProportionError, kind)
}
