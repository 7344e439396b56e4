package scheme_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulselab/filament/internal/scheme"
)

func TestParse(t *testing.T) {
	s, err := scheme.Parse("rk4")
	require.NoError(t, err)
	assert.Equal(t, scheme.RK4, s)

	s, err = scheme.Parse("Euler")
	require.NoError(t, err)
	assert.Equal(t, scheme.Euler, s)

	_, err = scheme.Parse("leapfrog")
	require.ErrorIs(t, err, scheme.ErrUnknownMethod)
}

func TestString(t *testing.T) {
	assert.Equal(t, "RK4", scheme.RK4.String())
	assert.Equal(t, "Euler", scheme.Euler.String())
}
