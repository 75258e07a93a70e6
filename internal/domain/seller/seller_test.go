package seller

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSeller(t *testing.T) {
	s, err := NewSeller(" Acme Supplies ", "sales@acme.io", " +1 555 0100 ")
	require.NoError(t, err)
	assert.Equal(t, "Acme Supplies", s.Name)
	assert.Equal(t, "+1 555 0100", s.Phone)

	s, err = NewSeller("No Contact Ltd", "", "")
	require.NoError(t, err)
	assert.Empty(t, s.Email)
}

func TestNewSeller_Validation(t *testing.T) {
	_, err := NewSeller("", "", "")
	assert.ErrorIs(t, err, ErrInvalidName)

	_, err = NewSeller(strings.Repeat("n", 129), "", "")
	assert.ErrorIs(t, err, ErrInvalidName)

	_, err = NewSeller("Acme", "not-an-email", "")
	assert.ErrorIs(t, err, ErrInvalidEmail)

	_, err = NewSeller("Acme", "", strings.Repeat("1", 31))
	assert.ErrorIs(t, err, ErrInvalidPhone)
}
