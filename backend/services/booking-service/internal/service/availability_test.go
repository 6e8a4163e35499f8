package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSlotsGrid(t *testing.T) {
	for station := int64(1); station <= 7; station++ {
		slots, err := GenerateSlots(station, "2024-06-15")
		require.NoError(t, err)
		require.Len(t, slots, 30)

		for i, slot := range slots {
			want := fmt.Sprintf("%02d:%02d", 7+i/2, (i%2)*30)
			assert.Equal(t, want, slot.Time)
		}
		assert.Equal(t, "07:00", slots[0].Time)
		assert.Equal(t, "21:30", slots[len(slots)-1].Time)
	}
}

func TestGenerateSlotsAvailability(t *testing.T) {
	// seed = 1 + 15 + 5 = 21: '0' -> 48*21 % 100 = 8, '1' -> 29, '2' -> 50
	slots, err := GenerateSlots(1, "2024-06-15")
	require.NoError(t, err)

	for _, slot := range slots {
		want := slot.Time[0] == '2'
		assert.Equal(t, want, slot.IsAvailable, slot.Time)
	}

	again, err := GenerateSlots(1, "2024-06-15")
	require.NoError(t, err)
	assert.Equal(t, slots, again)
}

func TestGenerateSlotsInvalidDate(t *testing.T) {
	_, err := GenerateSlots(1, "2024-13-01")
	assert.True(t, errors.Is(err, ErrValidation))

	_, err = GenerateSlots(1, "")
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestDaySeed(t *testing.T) {
	day, err := ParseDate("2024-01-31")
	require.NoError(t, err)
	assert.Equal(t, int64(3+31+0), DaySeed(3, day))

	day, err = ParseDate("2024-12-01")
	require.NoError(t, err)
	assert.Equal(t, int64(3+1+11), DaySeed(3, day))
}

func TestOnGrid(t *testing.T) {
	assert.True(t, OnGrid("07:00"))
	assert.True(t, OnGrid("21:30"))
	assert.False(t, OnGrid("06:30"))
	assert.False(t, OnGrid("22:00"))
	assert.False(t, OnGrid("09:15"))
	assert.False(t, OnGrid("9:00"))
	assert.False(t, OnGrid("+9:00"))
	assert.False(t, OnGrid("09:+0"))
}

func TestCanonicalClock(t *testing.T) {
	got, err := CanonicalClock(" 09:30 ")
	require.NoError(t, err)
	assert.Equal(t, "09:30", got)

	_, err = CanonicalClock("+9:30")
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestParseClock(t *testing.T) {
	h, m, err := ParseClock("17:30")
	require.NoError(t, err)
	assert.Equal(t, 17, h)
	assert.Equal(t, 30, m)

	for _, bad := range []string{"", "1730", "17:3", "ab:cd", "24:00", "12:60", "+9:00", "09:+0", "-1:00", " 9:00", "09:0 ", "０9:00"} {
		_, _, err := ParseClock(bad)
		assert.True(t, errors.Is(err, ErrValidation), bad)
	}
}
