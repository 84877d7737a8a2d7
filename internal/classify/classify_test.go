package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kvadra-invest/catalog-cli/internal/model"
)

func TestCityTier(t *testing.T) {
	assert.Equal(t, TierResort, CityTier("Сочи"))
	assert.Equal(t, TierCapital, CityTier("Москва"))
	assert.Equal(t, TierRegional, CityTier("Воронеж"))
}

func TestRiskFor(t *testing.T) {
	cases := []struct {
		name   string
		city   string
		format string
		status model.Status
		want   model.RiskLevel
	}{
		{"capital active", "Москва", "apartments", model.StatusActive, model.RiskLow},
		{"resort active", "Сочи", "apartments", model.StatusActive, model.RiskMedium},
		{"resort managed", "Сочи", "apart-hotel", model.StatusActive, model.RiskLow},
		{"resort construction", "Сочи", "apartments", model.StatusConstruction, model.RiskHigh},
		{"managed construction", "Сочи", "apart-hotel", model.StatusConstruction, model.RiskMedium},
		{"planning always high", "Москва", "apart-hotel", model.StatusPlanning, model.RiskHigh},
		{"regional active", "Воронеж", "", model.StatusActive, model.RiskMedium},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, RiskFor(tc.city, tc.format, tc.status))
		})
	}
}

func TestSeasonalCurve_Templates(t *testing.T) {
	resort := SeasonalCurve(TierResort)
	assert.Equal(t, "resort-peak-summer", resort.Template)
	assert.False(t, resort.Synthesized)
	// Summer months must dominate winter months.
	assert.Greater(t, resort.Months[6], resort.Months[1])

	urban := SeasonalCurve(TierCapital)
	assert.Equal(t, "stable-urban", urban.Template)
}

func TestSynthesizeCurve(t *testing.T) {
	c := SynthesizeCurve(40, 90)

	assert.True(t, c.Synthesized)
	assert.Equal(t, 40.0, c.Months[1], "low sample lands in February")
	assert.Equal(t, 90.0, c.Months[6], "high sample lands in July")

	// Rising half interpolates linearly between the samples.
	assert.InDelta(t, 50, c.Months[2], 0.001)
	assert.InDelta(t, 80, c.Months[5], 0.001)

	// Falling half wraps through December back to the trough.
	assert.InDelta(t, 90-50.0/7, c.Months[7], 0.001)
	assert.InDelta(t, 40+50.0/7, c.Months[0], 0.001)

	// Every month stays between the two samples.
	for i, v := range c.Months {
		assert.GreaterOrEqual(t, v, 40.0, "month %d", i)
		assert.LessOrEqual(t, v, 90.0, "month %d", i)
	}
}

func TestScaleToOccupancy(t *testing.T) {
	c := ScaleToOccupancy(SeasonalCurve(TierCapital), 60)
	assert.InDelta(t, 60, CurveMean(c.Months), 0.001)
}

func TestScaleToOccupancy_CapsAt100(t *testing.T) {
	c := ScaleToOccupancy(SeasonalCurve(TierResort), 95)
	for i, v := range c.Months {
		assert.LessOrEqual(t, v, 100.0, "month %d", i)
	}
	assert.InDelta(t, 95, CurveMean(c.Months), 0.001)
}

func TestScaleToOccupancy_RedistributesClippedLoad(t *testing.T) {
	// Resort peaks scaled to 75 push July and August past 100. The
	// clipped load must move to other months; the yearly mean still has
	// to equal the stated occupancy.
	c := ScaleToOccupancy(SeasonalCurve(TierResort), 75)

	assert.Equal(t, 100.0, c.Months[6])
	assert.Equal(t, 100.0, c.Months[7])
	assert.InDelta(t, 75, CurveMean(c.Months), 0.001)
	for i, v := range c.Months {
		assert.LessOrEqual(t, v, 100.0, "month %d", i)
	}
}

func TestScaleToOccupancy_ZeroOccupancyNoop(t *testing.T) {
	orig := SeasonalCurve(TierResort)
	c := ScaleToOccupancy(orig, 0)
	assert.Equal(t, orig.Months, c.Months)
}

func TestCurveMean(t *testing.T) {
	assert.InDelta(t, 72.083, CurveMean(SeasonalCurve(TierCapital).Months), 0.001)
}
