// Package classify assigns a risk tier and a 12-month seasonal load
// curve from categorical attributes. Pure lookup and arithmetic; no
// state, no I/O.
package classify

import "github.com/kvadra-invest/catalog-cli/internal/model"

// LocationTier buckets a city by market behavior.
type LocationTier string

const (
	TierResort   LocationTier = "resort"
	TierCapital  LocationTier = "capital"
	TierRegional LocationTier = "regional"
)

var cityTiers = map[string]LocationTier{
	"Сочи":            TierResort,
	"Анапа":           TierResort,
	"Геленджик":       TierResort,
	"Ялта":            TierResort,
	"Калининград":     TierResort,
	"Москва":          TierCapital,
	"Санкт-Петербург": TierCapital,
}

// CityTier returns the location tier for a city; unknown cities are
// regional.
func CityTier(city string) LocationTier {
	if t, ok := cityTiers[city]; ok {
		return t
	}
	return TierRegional
}

// managedFormats operate under a professional management company, which
// lowers operator risk.
var managedFormats = map[string]bool{
	"apart-hotel":         true,
	"serviced-apartments": true,
	"hotel":               true,
}

// RiskFor maps location tier, operating model, and lifecycle status onto
// a risk tier.
//
// Base risk by tier: capital low, resort and regional medium. A project
// still under construction moves up one level; one still in planning is
// always high. A managed operating model moves down one level.
func RiskFor(city, format string, status model.Status) model.RiskLevel {
	level := 1 // medium
	if CityTier(city) == TierCapital {
		level = 0
	}

	switch status {
	case model.StatusPlanning:
		return model.RiskHigh
	case model.StatusConstruction:
		level++
	}

	if managedFormats[format] {
		level--
	}

	switch {
	case level <= 0:
		return model.RiskLow
	case level == 1:
		return model.RiskMedium
	default:
		return model.RiskHigh
	}
}
