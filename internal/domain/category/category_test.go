package category

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeName(t *testing.T) {
	name, err := NormalizeName("  Fasteners ")
	require.NoError(t, err)
	assert.Equal(t, "Fasteners", name)

	_, err = NormalizeName(" ")
	assert.ErrorIs(t, err, ErrInvalidName)

	_, err = NormalizeName(strings.Repeat("a", 101))
	assert.ErrorIs(t, err, ErrInvalidName)

	name, err = NormalizeName(strings.Repeat("类", 100))
	require.NoError(t, err)
	assert.Len(t, []rune(name), 100)
}
