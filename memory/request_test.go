package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIDs(t *testing.T) {
	id1, id2, err := ParseIDs("3", " 7 ")
	require.NoError(t, err)
	assert.Equal(t, 3, id1)
	assert.Equal(t, 7, id2)
}

func TestParseIDsInvalid(t *testing.T) {
	tests := []struct {
		name       string
		raw1, raw2 string
		want       string
	}{
		{"missing both", "", "", "missing id1"},
		{"missing second", "0", "", "missing id2"},
		{"missing first", "", "1", "missing id1"},
		{"not a number", "x", "1", "id1 is not an integer"},
		{"float", "1", "1.5", "id2 is not an integer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ParseIDs(tt.raw1, tt.raw2)
			require.ErrorIs(t, err, ErrInvalidRequest)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestRequireIDs(t *testing.T) {
	one, two := 1, 2

	id1, id2, err := RequireIDs(&one, &two)
	require.NoError(t, err)
	assert.Equal(t, 1, id1)
	assert.Equal(t, 2, id2)

	_, _, err = RequireIDs(&one, nil)
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, _, err = RequireIDs(nil, &two)
	assert.ErrorIs(t, err, ErrInvalidRequest)
}
