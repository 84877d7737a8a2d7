package classify

// Seasonal load templates, January through December, in percent of
// available nights booked.
var (
	// resortPeakSummer: coastal markets with a pronounced June–September
	// peak and a soft New Year bump.
	resortPeakSummer = [12]float64{45, 45, 50, 55, 65, 85, 95, 95, 80, 60, 50, 55}

	// stableUrban: business-travel markets with shallow seasonality.
	stableUrban = [12]float64{70, 70, 75, 75, 75, 70, 65, 65, 75, 80, 75, 70}
)

// Curve is the result of seasonal curve selection.
type Curve struct {
	Months      [12]float64
	Template    string
	Synthesized bool // built from two seasonal samples, not observed
}

// SeasonalCurve selects the named template for a location tier.
func SeasonalCurve(tier LocationTier) Curve {
	switch tier {
	case TierResort:
		return Curve{Months: resortPeakSummer, Template: "resort-peak-summer"}
	default:
		return Curve{Months: stableUrban, Template: "stable-urban"}
	}
}

// lowMonth and highMonth anchor synthesized curves: the trough sits in
// February, the peak in July (0-based month indexes).
const (
	lowMonth  = 1
	highMonth = 6
)

// SynthesizeCurve builds a 12-month curve from a low-season and a
// high-season figure only. The two known values are placed in their
// months and the remainder is linearly interpolated around the year.
// The result is an estimate, not a 12-month observation, and is flagged
// as such.
func SynthesizeCurve(low, high float64) Curve {
	var months [12]float64
	months[lowMonth] = low
	months[highMonth] = high

	// Rising half: Feb -> Jul.
	rise := highMonth - lowMonth
	for i := 1; i < rise; i++ {
		months[lowMonth+i] = low + (high-low)*float64(i)/float64(rise)
	}
	// Falling half: Jul -> next Feb, wrapping through December.
	fall := 12 - rise
	for i := 1; i < fall; i++ {
		months[(highMonth+i)%12] = high - (high-low)*float64(i)/float64(fall)
	}

	return Curve{Months: months, Template: "custom-interpolated", Synthesized: true}
}

// ScaleToOccupancy rescales a curve so its yearly mean equals the stated
// overall occupancy. Months are capped at 100; load clipped off a capped
// month is redistributed across the uncapped ones, so the mean still
// matches the stated occupancy. With occupancy <= 100 a fixpoint always
// exists before every month caps out.
func ScaleToOccupancy(c Curve, occupancy float64) Curve {
	if CurveMean(c.Months) == 0 || occupancy <= 0 {
		return c
	}

	target := occupancy * 12
	var capped [12]bool
	for {
		var cappedSum, freeSum float64
		for i, v := range c.Months {
			if capped[i] {
				cappedSum += v
			} else {
				freeSum += v
			}
		}
		if freeSum == 0 {
			break
		}

		factor := (target - cappedSum) / freeSum
		overflow := false
		for i := range c.Months {
			if capped[i] {
				continue
			}
			v := c.Months[i] * factor
			if v >= 100 {
				v = 100
				capped[i] = true
				overflow = true
			}
			c.Months[i] = v
		}
		if !overflow {
			break
		}
	}
	return c
}

// CurveMean returns the average monthly load of a curve.
func CurveMean(months [12]float64) float64 {
	sum := 0.0
	for _, v := range months {
		sum += v
	}
	return sum / 12
}
