// Package reconcile fills missing derived financial fields from present
// ones using a fixed derivation precedence, and rejects records that
// remain under-specified. Every fallback constant it consults lives in
// config.ReconcileConfig; no other stage applies defaults.
package reconcile

import (
	"math"

	"go.uber.org/zap"

	"github.com/kvadra-invest/catalog-cli/internal/config"
	"github.com/kvadra-invest/catalog-cli/internal/model"
)

// daysPerYear is used to annualize nightly revenue.
const daysPerYear = 365

// Reconciler derives the full metric set for a candidate.
type Reconciler struct {
	cfg config.ReconcileConfig
}

// New returns a Reconciler bound to the fallback table.
func New(cfg config.ReconcileConfig) *Reconciler {
	return &Reconciler{cfg: cfg}
}

// Reconcile returns the candidate with every derivable metric filled in,
// or a skip entry when no consistent metric set can be produced. A
// directly-extracted value always beats a derived one; derived values
// are tagged on the candidate. Reconciling an already-complete record is
// a no-op, so feeding pipeline output back in is idempotent.
func (r *Reconciler) Reconcile(c model.Candidate) (model.Candidate, *model.SkipEntry) {
	normalizeZeros(&c)
	r.reconcileTriple(&c)

	if c.Price == nil {
		return c, &model.SkipEntry{
			Identifier:   c.SourceID,
			Reason:       model.SkipUnreconcilable,
			QualityScore: c.Score,
			Detail:       "no price present or derivable",
		}
	}

	noi := r.deriveNOI(&c)
	if noi <= 0 {
		return c, &model.SkipEntry{
			Identifier:   c.SourceID,
			Reason:       model.SkipUnreconcilable,
			QualityScore: c.Score,
			Detail:       "no revenue figure present or derivable",
		}
	}

	if c.ROIPercent == nil {
		c.ROIPercent = model.Float(noi / *c.Price * 100)
		c.MarkDerived("roi_percent")
	} else if stated := *c.ROIPercent; relDiff(stated, noi / *c.Price * 100) > r.cfg.ConsistencyTolerance && c.ADR != nil {
		// Observed ADR+occupancy outrank a headline return rate.
		zap.L().Warn("reconcile: stated return rate inconsistent with ADR revenue, replaced",
			zap.String("source_id", c.SourceID),
			zap.Float64("stated", stated),
			zap.Float64("derived", noi / *c.Price * 100),
		)
		c.ROIPercent = model.Float(noi / *c.Price * 100)
		c.MarkDerived("roi_percent")
	}
	if c.RevPerM2Month == nil && c.Area != nil {
		c.RevPerM2Month = model.Float(noi / 12 / *c.Area)
		c.MarkDerived("rev_per_m2_month")
	}
	if c.PaybackYears == nil {
		payback := *c.Price / noi
		switch {
		case payback > r.cfg.PaybackCapYears || math.IsInf(payback, 1):
			payback = r.cfg.PaybackCapYears
		case payback < r.cfg.PaybackFloorYears:
			payback = r.cfg.PaybackFloorYears
		}
		c.PaybackYears = model.Float(payback)
		c.MarkDerived("payback_years")
	}

	return c, nil
}

// NOIYear recomputes annual net operating income from a reconciled
// candidate. Exposed for the project builder.
func (r *Reconciler) NOIYear(c model.Candidate) float64 {
	if c.Price == nil || c.ROIPercent == nil {
		return 0
	}
	return *c.Price * *c.ROIPercent / 100
}

// reconcileTriple enforces price = pricePerM2 × area. Whichever two of
// the three are known produce the third. When all three were extracted
// but disagree beyond tolerance, price and area win and the stated
// price-per-m2 is replaced with the derived one (logged, not silently
// dropped).
func (r *Reconciler) reconcileTriple(c *model.Candidate) {
	switch {
	case c.Price != nil && c.Area != nil && c.PricePerM2 != nil:
		derived := *c.Price / *c.Area
		if relDiff(*c.PricePerM2, derived) > r.cfg.ConsistencyTolerance {
			zap.L().Warn("reconcile: inconsistent price per m2 replaced",
				zap.String("source_id", c.SourceID),
				zap.Float64("stated", *c.PricePerM2),
				zap.Float64("derived", derived),
			)
			c.PricePerM2 = model.Float(derived)
			c.MarkDerived("price_per_m2")
		}
	case c.Price != nil && c.Area != nil:
		c.PricePerM2 = model.Float(*c.Price / *c.Area)
		c.MarkDerived("price_per_m2")
	case c.Price != nil && c.PricePerM2 != nil:
		c.Area = model.Float(*c.Price / *c.PricePerM2)
		c.MarkDerived("area")
	case c.Area != nil && c.PricePerM2 != nil:
		c.Price = model.Float(*c.Area * *c.PricePerM2)
		c.MarkDerived("price")
	}
}

// deriveNOI applies the revenue precedence: observed ADR+occupancy,
// then stated return rate, then stated revenue per m², then the
// fallback annual-yield assumption. The fallback path tags roi_percent
// derived so the output summary can present it as an estimate, never a
// measurement.
func (r *Reconciler) deriveNOI(c *model.Candidate) float64 {
	if c.ADR != nil {
		occ := c.OccupancyPercent
		if occ == nil {
			occ = model.Float(r.cfg.DefaultOccupancyPct)
			c.OccupancyPercent = occ
			c.MarkDerived("occupancy_percent")
		}
		return *c.ADR * daysPerYear * *occ / 100
	}
	if c.ROIPercent != nil && c.Price != nil {
		return *c.Price * *c.ROIPercent / 100
	}
	if c.RevPerM2Month != nil && c.Area != nil {
		return *c.RevPerM2Month * 12 * *c.Area
	}
	if c.Price != nil {
		c.MarkDerived("roi_percent")
		return *c.Price * r.cfg.FallbackAnnualYield
	}
	return 0
}

// normalizeZeros treats zero-valued structured columns as absent. A
// spreadsheet row with price=0 carries no price; deriving from it would
// fabricate data.
func normalizeZeros(c *model.Candidate) {
	for _, f := range []**float64{
		&c.Price, &c.Area, &c.PricePerM2, &c.ROIPercent,
		&c.OccupancyPercent, &c.ADR, &c.PaybackYears, &c.RevPerM2Month,
	} {
		if *f != nil && **f == 0 {
			*f = nil
		}
	}
}

func relDiff(a, b float64) float64 {
	if b == 0 {
		return math.Inf(1)
	}
	return math.Abs(a-b) / math.Abs(b)
}
