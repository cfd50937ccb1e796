package dbtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeSchedule(t *testing.T) {
	s, err := NormalizeSchedule("09:00,18:30")
	require.NoError(t, err)
	assert.Equal(t, "09:00, 18:30", s)

	s, err = NormalizeSchedule("  07:15 ")
	require.NoError(t, err)
	assert.Equal(t, "07:15", s)

	s, err = NormalizeSchedule("")
	require.NoError(t, err)
	assert.Equal(t, "", s)

	_, err = NormalizeSchedule("9am")
	assert.Error(t, err)

	_, err = NormalizeSchedule("09:00, banana")
	assert.Error(t, err)

	_, err = NormalizeSchedule("25:00")
	assert.Error(t, err)
}
