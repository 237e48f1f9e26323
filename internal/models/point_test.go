package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePoint(t *testing.T) {
	t.Run("ParsesFloats", func(t *testing.T) {
		p, err := ParsePoint("1.5_-2_0.25")
		require.NoError(t, err)
		assert.Equal(t, Point{X: 1.5, Y: -2, Z: 0.25}, p)
	})

	t.Run("ParsesIntegers", func(t *testing.T) {
		p, err := ParsePoint("0_0_0")
		require.NoError(t, err)
		assert.Equal(t, Point{}, p)
	})

	t.Run("RejectsMalformed", func(t *testing.T) {
		for _, in := range []string{
			"",
			"1_2",
			"1_2_3_4",
			"1_2_z",
			"a_b_c",
			"1,2,3",
			"1__3",
			"_",
		} {
			_, err := ParsePoint(in)
			require.Error(t, err, "input %q", in)
			assert.True(t, errors.Is(err, ErrInvalidInput), "input %q", in)
		}
	})
}
