package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuotePeakFastCharger(t *testing.T) {
	engine := NewPricingEngine(Tariff{})

	got, err := engine.Quote("2024-06-15", "09:00", 1, "Level 3 DC Fast")
	require.NoError(t, err)

	// seed = 1 + 15 + 5 = 21, hash = 21 * 9 % 100 = 89
	assert.Equal(t, 15.0, got.BasePrice)
	assert.Equal(t, 1.5, got.TimeFactor)
	assert.Equal(t, 1.8, got.DemandFactor)
	assert.Equal(t, 40.5, got.FinalPrice)
}

func TestQuoteIsDeterministic(t *testing.T) {
	engine := NewPricingEngine(Tariff{})
	first, err := engine.Quote("2024-01-10", "14:00", 3, "Level 2 AC")
	require.NoError(t, err)
	second, err := engine.Quote("2024-01-10", "14:00", 3, "Level 2 AC")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 10.0, first.BasePrice)
	assert.Equal(t, 1.0, first.TimeFactor)
	assert.Equal(t, 1.8, first.DemandFactor)
	assert.Equal(t, 18.0, first.FinalPrice)
}

func TestQuoteRounding(t *testing.T) {
	engine := NewPricingEngine(Tariff{StandardBase: 9.99})
	// seed = 2 + 5 + 2 = 9, hash = 9 * 5 % 100 = 45 -> 1.2
	got, err := engine.Quote("2024-03-05", "05:00", 2, "Level 2 AC")
	require.NoError(t, err)
	assert.Equal(t, 1.2, got.DemandFactor)
	assert.Equal(t, 11.99, got.FinalPrice)
}

func TestBasePrice(t *testing.T) {
	engine := NewPricingEngine(Tariff{})
	assert.Equal(t, 15.0, engine.BasePrice("Level 3 DC Fast"))
	assert.Equal(t, 15.0, engine.BasePrice("Level 3"))
	assert.Equal(t, 15.0, engine.BasePrice("Fast AC"))
	assert.Equal(t, 10.0, engine.BasePrice("Level 2 AC"))
}

func TestTimeFactorPeakWindows(t *testing.T) {
	engine := NewPricingEngine(Tariff{})
	peak := map[int]bool{8: true, 9: true, 10: true, 17: true, 18: true, 19: true, 20: true}
	for hour := 0; hour < 24; hour++ {
		want := 1.0
		if peak[hour] {
			want = 1.5
		}
		assert.Equal(t, want, engine.TimeFactor(hour), "hour %d", hour)
	}
}

func TestDemandFactorTiers(t *testing.T) {
	cases := []struct {
		station          int64
		day, month, hour int
		want             float64
	}{
		{station: 2, day: 5, month: 2, hour: 12, want: 1.0}, // 108 % 100 = 8
		{station: 2, day: 5, month: 2, hour: 7, want: 1.5},  // 63
		{station: 2, day: 5, month: 2, hour: 5, want: 1.2},  // 45
		{station: 1, day: 15, month: 5, hour: 9, want: 1.8}, // 89
		{station: 1, day: 19, month: 0, hour: 4, want: 1.5}, // 80 is not above 80
		{station: 1, day: 19, month: 0, hour: 3, want: 1.2}, // 60 is not above 60
		{station: 1, day: 19, month: 0, hour: 2, want: 1.0}, // 40 is not above 40
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, DemandFactor(tc.station, tc.day, tc.month, tc.hour), "%+v", tc)
	}
}

func TestCustomTariff(t *testing.T) {
	engine := NewPricingEngine(Tariff{StandardBase: 8, FastBase: 20, PeakFactor: 2})
	assert.Equal(t, Tariff{StandardBase: 8, FastBase: 20, PeakFactor: 2}, engine.Tariff())

	got, err := engine.Quote("2024-06-15", "20:00", 1, "Level 3 DC Fast")
	require.NoError(t, err)
	// hash = 21 * 20 % 100 = 20
	assert.Equal(t, 40.0, got.FinalPrice)
}

func TestQuoteValidation(t *testing.T) {
	engine := NewPricingEngine(Tariff{})

	_, err := engine.Quote("15/06/2024", "09:00", 1, "Level 2 AC")
	assert.True(t, errors.Is(err, ErrValidation))

	_, err = engine.Quote("2024-06-15", "9am", 1, "Level 2 AC")
	assert.True(t, errors.Is(err, ErrValidation))

	_, err = engine.Quote("2024-06-15", "25:00", 1, "Level 2 AC")
	assert.True(t, errors.Is(err, ErrValidation))

	_, err = engine.Quote("2024-06-15", "09:00", 1, " ")
	assert.True(t, errors.Is(err, ErrValidation))
}
