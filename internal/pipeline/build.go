package pipeline

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kvadra-invest/catalog-cli/internal/classify"
	"github.com/kvadra-invest/catalog-cli/internal/model"
)

// buildProject converts a reconciled candidate into the canonical record
// handed downstream. Consumers get a value snapshot; nothing aliases
// back into pipeline state.
func (p *Pipeline) buildProject(c model.Candidate) model.CanonicalProject {
	proj := model.CanonicalProject{
		Slug:    c.Slug,
		Title:   c.Title,
		City:    c.City,
		Country: p.cfg.Output.Country,
		Format:  c.Format,
		Status:  c.Status,

		Price:        deref(c.Price),
		Area:         deref(c.Area),
		PricePerM2:   deref(c.PricePerM2),
		PaybackYears: deref(c.PaybackYears),
		Occupancy:    deref(c.OccupancyPercent),
		ADR:          deref(c.ADR),

		NOIYear:      p.reconciler.NOIYear(c),
		RiskLevel:    classify.RiskFor(c.City, c.Format, c.Status),
		Photos:       c.Photos,
		QualityScore: c.Score,
		UpdatedAt:    p.now().UTC(),
	}
	if c.RevPerM2Month != nil {
		proj.RevPerM2Month = *c.RevPerM2Month
	}
	if c.SourceDate != nil {
		proj.UpdatedAt = c.SourceDate.UTC()
	}

	curve := p.seasonalCurve(&c)
	proj.Seasonality = curve.Months
	if c.OccupancyPercent == nil {
		proj.Occupancy = classify.CurveMean(curve.Months)
		c.MarkDerived("occupancy_percent")
	}

	proj.Summary = buildSummary(c)
	proj.Why = buildWhy(c)
	proj.Risks = buildRisks(c, proj.RiskLevel)
	proj.Derived = derivedList(c)

	return proj
}

// seasonalCurve prefers a curve synthesized from stated low/high season
// samples over the location-tier template, and scales either to the
// stated overall occupancy so curve mean and occupancy agree.
func (p *Pipeline) seasonalCurve(c *model.Candidate) classify.Curve {
	var curve classify.Curve
	if c.OccLowSeason != nil && c.OccHighSeason != nil {
		curve = classify.SynthesizeCurve(*c.OccLowSeason, *c.OccHighSeason)
		c.MarkDerived("seasonality")
	} else {
		curve = classify.SeasonalCurve(classify.CityTier(c.City))
		if c.OccupancyPercent != nil {
			c.MarkDerived("seasonality")
		}
	}
	if c.OccupancyPercent != nil {
		curve = classify.ScaleToOccupancy(curve, *c.OccupancyPercent)
	}
	return curve
}

func buildSummary(c model.Candidate) string {
	var parts []string

	lead := formatLabel(c.Format)
	if lead == "" {
		lead = "Объект"
	}
	parts = append(parts, fmt.Sprintf("%s в городе %s", lead, c.City))

	if c.Area != nil {
		parts = append(parts, fmt.Sprintf("%.0f м²", *c.Area))
	}
	if c.Price != nil {
		parts = append(parts, fmt.Sprintf("цена %.1f млн ₽", *c.Price/1e6))
	}
	if c.ROIPercent != nil {
		if c.Derived["roi_percent"] {
			parts = append(parts, fmt.Sprintf("расчётная доходность %.1f%% годовых", *c.ROIPercent))
		} else {
			parts = append(parts, fmt.Sprintf("доходность %.1f%% годовых", *c.ROIPercent))
		}
	}
	if c.PaybackYears != nil {
		parts = append(parts, fmt.Sprintf("окупаемость ~%.0f лет", *c.PaybackYears))
	}

	return strings.Join(parts, ", ") + "."
}

func buildWhy(c model.Candidate) []string {
	var why []string
	if c.ROIPercent != nil && !c.Derived["roi_percent"] {
		why = append(why, fmt.Sprintf("Заявленная доходность %.1f%% годовых", *c.ROIPercent))
	}
	if c.PricePerM2 != nil && !c.Derived["price_per_m2"] {
		why = append(why, fmt.Sprintf("Цена %.0f тыс ₽ за м²", *c.PricePerM2/1000))
	}
	if c.OccupancyPercent != nil && !c.Derived["occupancy_percent"] {
		why = append(why, fmt.Sprintf("Загрузка %.0f%%", *c.OccupancyPercent))
	}
	if c.Format == "apart-hotel" || c.Format == "serviced-apartments" || c.Format == "hotel" {
		why = append(why, "Управление профессиональным оператором")
	}
	if classify.CityTier(c.City) == classify.TierResort {
		why = append(why, "Курортная локация с устойчивым туристическим спросом")
	}
	return why
}

func buildRisks(c model.Candidate, level model.RiskLevel) []string {
	var risks []string
	switch c.Status {
	case model.StatusConstruction:
		risks = append(risks, "Объект в стадии строительства: срок сдачи может сдвигаться")
	case model.StatusPlanning:
		risks = append(risks, "Проект на стадии планирования: ключевые параметры не подтверждены")
	}
	if classify.CityTier(c.City) == classify.TierResort {
		risks = append(risks, "Сезонные колебания загрузки")
	}
	if c.Derived["roi_percent"] {
		risks = append(risks, "Доходность рассчитана по базовой ставке, а не подтверждена оператором")
	}
	if level == model.RiskHigh && len(risks) == 0 {
		risks = append(risks, "Повышенный рыночный риск")
	}
	return risks
}

func derivedList(c model.Candidate) []string {
	if len(c.Derived) == 0 {
		return nil
	}
	fields := make([]string, 0, len(c.Derived))
	for f := range c.Derived {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

var formatLabels = map[string]string{
	"apart-hotel":         "Апарт-отель",
	"serviced-apartments": "Сервисные апартаменты",
	"apartments":          "Апартаменты",
	"hotel":               "Отель",
	"villa":               "Вилла",
	"townhouse":           "Таунхаус",
}

func formatLabel(format string) string {
	return formatLabels[format]
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
