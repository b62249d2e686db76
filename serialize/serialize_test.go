package serialize_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/demes-go/resolve/hdm"
	"github.com/demes-go/resolve/mdm"
	"github.com/demes-go/resolve/resolve"
	"github.com/demes-go/resolve/serialize"
	"github.com/demes-go/resolve/tree"
)

func resolveYAML(t *testing.T, doc string) *mdm.Graph {
	t.Helper()
	n, err := tree.DecodeYAML(strings.NewReader(doc))
	require.NoError(t, err)
	g, err := hdm.Parse(n)
	require.NoError(t, err)
	resolved, err := resolve.Resolve(g)
	require.NoError(t, err)
	return resolved
}

// reresolve runs a resolved graph back through Encode -> hdm.Parse ->
// resolve.Resolve, the textual form spec.md §8's round-trip law describes.
func reresolve(t *testing.T, g *mdm.Graph) *mdm.Graph {
	t.Helper()
	n, err := serialize.Encode(g)
	require.NoError(t, err)
	hg, err := hdm.Parse(n)
	require.NoError(t, err)
	out, err := resolve.Resolve(hg)
	require.NoError(t, err)
	return out
}

func TestEncode_RoundTrip_MinimalSingleDeme(t *testing.T) {
	g := resolveYAML(t, `
time_units: generations
demes:
  - name: A
    epochs:
      - start_size: 100
`)
	g2 := reresolve(t, g)

	require.Len(t, g2.Demes(), 1)
	a := g2.Demes()[0]
	assert.Equal(t, "A", a.Name())
	assert.True(t, a.StartTime().IsInfinite())
	assert.Equal(t, 0.0, a.EndTime().Value())
	assert.Equal(t, 100.0, a.StartSize().Value())
	assert.Equal(t, 100.0, a.EndSize().Value())
	assert.Equal(t, mdm.Constant, a.Epochs()[0].SizeFunction())
}

func TestEncode_RoundTrip_BranchWithMigrationAndPulse(t *testing.T) {
	g := resolveYAML(t, `
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
  - name: C
    ancestors: [A]
    epochs:
      - start_size: 500
        end_time: 0
migrations:
  - demes: [B, C]
    rate: 0.01
pulses:
  - sources: [B]
    dest: C
    time: 50
    proportions: [0.2]
`)
	g2 := reresolve(t, g)

	require.Len(t, g2.Demes(), 3)
	require.Len(t, g2.Migrations(), 2)
	require.Len(t, g2.Pulses(), 1)

	b, ok := g2.DemeByName("B")
	require.True(t, ok)
	c, ok := g2.DemeByName("C")
	require.True(t, ok)
	assert.Equal(t, 100.0, b.StartTime().Value())
	assert.Equal(t, 100.0, c.StartTime().Value())

	pulse := g2.Pulses()[0]
	srcIdx, _ := g2.DemeIndex("B")
	destIdx, _ := g2.DemeIndex("C")
	assert.Equal(t, []int{srcIdx}, pulse.Sources())
	assert.Equal(t, destIdx, pulse.Dest())
	assert.Equal(t, 50.0, pulse.Time().Value())
	assert.InDelta(t, 0.2, pulse.Proportions()[0].Value(), 1e-12)
}

// TestEncode_Idempotent checks spec.md §8's idempotency law: resolving
// twice through the textual round trip is equivalent to resolving once.
func TestEncode_Idempotent(t *testing.T) {
	g := resolveYAML(t, `
time_units: generations
demes:
  - name: A
    epochs:
      - start_size: 10
        end_size: 100
        end_time: 0
        size_function: linear
    start_time: 100
`)
	once := reresolve(t, g)
	twice := reresolve(t, once)

	a1 := once.Demes()[0]
	a2 := twice.Demes()[0]
	assert.Equal(t, a1.StartTime().Value(), a2.StartTime().Value())
	assert.Equal(t, a1.StartSize().Value(), a2.StartSize().Value())
	assert.Equal(t, a1.EndSize().Value(), a2.EndSize().Value())
	assert.Equal(t, a1.Epochs()[0].SizeFunction(), a2.Epochs()[0].SizeFunction())
}

func ExampleEncode() {
	n, err := tree.DecodeYAML(strings.NewReader(`
time_units: generations
demes:
  - name: A
    epochs:
      - start_size: 100
`))
	if err != nil {
		panic(err)
	}
	hg, err := hdm.Parse(n)
	if err != nil {
		panic(err)
	}
	g, err := resolve.Resolve(hg)
	if err != nil {
		panic(err)
	}
	out, err := serialize.Encode(g)
	if err != nil {
		panic(err)
	}
	yamlBytes, err := tree.EncodeYAML(out)
	if err != nil {
		panic(err)
	}
	_ = yamlBytes
}
