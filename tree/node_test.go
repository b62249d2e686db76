package tree_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/demes-go/resolve/tree"
)

func TestMapping_PreservesOrder(t *testing.T) {
	m := tree.NewMapping()
	m.Set("time_units", tree.NewScalar("generations"))
	m.Set("demes", tree.NewSequence())
	m.Set("description", tree.NewScalar("a test graph"))

	assert.Equal(t, []string{"time_units", "demes", "description"}, m.Keys())
}

func TestDecodeYAML_RoundTrip(t *testing.T) {
	src := `
time_units: generations
demes:
  - name: A
    epochs:
      - start_size: 100
`
	n, err := tree.DecodeYAML(strings.NewReader(src))
	require.NoError(t, err)

	units, err := n.Get("time_units")
	require.NoError(t, err)
	s, err := units.String()
	require.NoError(t, err)
	assert.Equal(t, "generations", s)

	demes, err := n.Get("demes")
	require.NoError(t, err)
	require.Equal(t, tree.SequenceKind, demes.Kind)
	items := demes.Items()
	require.Len(t, items, 1)

	name, err := items[0].Get("name")
	require.NoError(t, err)
	nameStr, _ := name.String()
	assert.Equal(t, "A", nameStr)

	out, err := tree.EncodeYAML(n)
	require.NoError(t, err)

	reparsed, err := tree.DecodeYAML(strings.NewReader(string(out)))
	require.NoError(t, err)
	assert.Equal(t, n.Keys(), reparsed.Keys())
}

func TestDecodeYAML_NumericScalars(t *testing.T) {
	n, err := tree.DecodeYAML(strings.NewReader("rate: 0.01\ncount: 4\nflag: true\nempty: null\n"))
	require.NoError(t, err)

	rate, _ := n.Get("rate")
	f, err := rate.Float64()
	require.NoError(t, err)
	assert.Equal(t, 0.01, f)

	count, _ := n.Get("count")
	cf, err := count.Float64()
	require.NoError(t, err)
	assert.Equal(t, 4.0, cf)

	flag, _ := n.Get("flag")
	b, err := flag.Bool()
	require.NoError(t, err)
	assert.True(t, b)

	empty, _ := n.Get("empty")
	assert.Nil(t, empty.Scalar())
}

func TestDecodeJSON_RoundTrip(t *testing.T) {
	src := `{"time_units": "generations", "generation_time": 29, "demes": ["A", "B"]}`
	n, err := tree.DecodeJSON(strings.NewReader(src))
	require.NoError(t, err)

	gt, err := n.Get("generation_time")
	require.NoError(t, err)
	f, err := gt.Float64()
	require.NoError(t, err)
	assert.Equal(t, 29.0, f)

	out, err := tree.EncodeJSON(n)
	require.NoError(t, err)
	reparsed, err := tree.DecodeJSON(strings.NewReader(string(out)))
	require.NoError(t, err)
	assert.ElementsMatch(t, n.Keys(), reparsed.Keys())
}

func TestGet_MissingKey(t *testing.T) {
	m := tree.NewMapping()
	_, err := m.Get("missing")
	assert.ErrorIs(t, err, tree.ErrKeyNotFound)
}

func TestString_WrongKind(t *testing.T) {
	seq := tree.NewSequence()
	_, err := seq.String()
	assert.ErrorIs(t, err, tree.ErrWrongKind)
}
