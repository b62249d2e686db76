package resolveerr_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/demes-go/resolve/resolveerr"
)

func TestError_IsMatchesOnKind(t *testing.T) {
	err := resolveerr.New(resolveerr.TimeError, "deme[0]:A", nil)
	probe := resolveerr.New(resolveerr.TimeError, "", nil)
	assert.True(t, errors.Is(err, probe))

	other := resolveerr.New(resolveerr.SizeError, "", nil)
	assert.False(t, errors.Is(err, other))
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	err := resolveerr.New(resolveerr.SizeError, "epoch[1]", cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "boom")
	assert.Contains(t, err.Error(), "epoch[1]")
}

func TestKindOf(t *testing.T) {
	err := resolveerr.Newf(resolveerr.NameError, nil, "deme[%d]", 3)
	kind, ok := resolveerr.KindOf(err)
	assert.True(t, ok)
	assert.Equal(t, resolveerr.NameError, kind)

	_, ok = resolveerr.KindOf(errors.New("plain"))
	assert.False(t, ok)
}
