package extract

import (
	"regexp"
	"strings"
)

// Plausible ranges per field. Matches outside these are discarded so that
// unrelated numbers (floor counts, phone digits, fee percentages) never
// land in financial fields.
const (
	minPriceRUB = 1_000_000
	maxPriceRUB = 2_000_000_000
	minAreaM2   = 10
	maxAreaM2   = 200
	minPPM2     = 20_000
	maxPPM2     = 1_500_000
	minROIPct   = 3
	maxROIPct   = 40
	minOccPct   = 20
	maxOccPct   = 100
	minADR      = 1_000
	maxADR      = 100_000
	minPayback  = 2
	maxPayback  = 30
)

// PriceRules find a total price in rubles. The currency rule carries a
// trailing per-m2 marker group so a "N млн руб за м²" mention is rejected
// instead of being misread as a total price (RE2 has no lookahead).
var PriceRules = []NumericRule{
	{
		Name:     "price-mln-anchored",
		Pattern:  regexp.MustCompile(`(?i)(?:цена|стоимость|бюджет|от)\s*[:\-–—]?\s*(\d+(?:[.,]\d+)?)\s*млн`),
		Parse:    func(m []string) (float64, bool) { v, ok := parseNumber(m[1]); return v * 1e6, ok },
		Validate: inRange(minPriceRUB, maxPriceRUB),
	},
	{
		Name:    "price-mln-currency",
		Pattern: regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*млн\.?\s*(?:руб(?:лей|\.)?|₽)?\s*(за|/)?`),
		Parse: func(m []string) (float64, bool) {
			if m[2] != "" {
				return 0, false // per-m2 mention, not a total price
			}
			v, ok := parseNumber(m[1])
			return v * 1e6, ok
		},
		Validate: inRange(minPriceRUB, maxPriceRUB),
	},
	{
		Name:     "price-rub-full",
		Pattern:  regexp.MustCompile(`(?i)(?:цена|стоимость)\s*[:\-–—]?\s*(\d[\d\s\x{00a0}]{6,})\s*(?:руб|₽)`),
		Parse:    firstGroup,
		Validate: inRange(minPriceRUB, maxPriceRUB),
	},
}

// PPM2Rules find a price per square meter.
var PPM2Rules = []NumericRule{
	{
		Name:    "ppm2-currency",
		Pattern: regexp.MustCompile(`(?i)(\d[\d\s\x{00a0}]*(?:[.,]\d+)?)\s*(тыс\.?\s*)?(?:руб(?:лей|\.)?|₽)\.?\s*(?:за|/)\s*(?:кв\.?\s*м|м²|м2)`),
		Parse: func(m []string) (float64, bool) {
			v, ok := parseNumber(m[1])
			if !ok {
				return 0, false
			}
			if m[2] != "" {
				v *= 1000
			}
			return v, true
		},
		Validate: inRange(minPPM2, maxPPM2),
	},
	{
		Name:     "ppm2-thousand-short",
		Pattern:  regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*тыс\.?\s*/?\s*(?:за\s*)?(?:кв\.?\s*м|м²|м2)`),
		Parse:    func(m []string) (float64, bool) { v, ok := parseNumber(m[1]); return v * 1000, ok },
		Validate: inRange(minPPM2, maxPPM2),
	},
}

// AreaRules find a unit area in square meters.
var AreaRules = []NumericRule{
	{
		Name:     "area-keyword",
		Pattern:  regexp.MustCompile(`(?i)площад\S*\s*[:\-–—]?\s*(?:от\s*)?(\d+(?:[.,]\d+)?)`),
		Parse:    firstGroup,
		Validate: inRange(minAreaM2, maxAreaM2),
	},
	{
		Name:     "area-unit",
		Pattern:  regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*(?:кв\.?\s*м|м²|м2)`),
		Parse:    firstGroup,
		Validate: inRange(minAreaM2, maxAreaM2),
	},
}

// ROIRules find a headline return rate. Keyword-anchored on purpose:
// a bare percentage ("Комиссия 23%") must never populate the return rate.
var ROIRules = []NumericRule{
	{
		Name:     "roi-keyword",
		Pattern:  regexp.MustCompile(`(?i)доходност\S*\D{0,20}?(\d+(?:[.,]\d+)?)\s*%`),
		Parse:    firstGroup,
		Validate: inRange(minROIPct, maxROIPct),
	},
	{
		Name:     "roi-annual",
		Pattern:  regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*%\s*(?:годовых|в\s*год)`),
		Parse:    firstGroup,
		Validate: inRange(minROIPct, maxROIPct),
	},
}

// OccupancyRules find an occupancy percentage.
var OccupancyRules = []NumericRule{
	{
		Name:     "occupancy-keyword",
		Pattern:  regexp.MustCompile(`(?i)(?:загрузк|заполняемост)\S*\D{0,15}?(\d+(?:[.,]\d+)?)\s*%`),
		Parse:    firstGroup,
		Validate: inRange(minOccPct, maxOccPct),
	},
}

// ADRRules find an average nightly rate.
var ADRRules = []NumericRule{
	{
		Name:     "adr-keyword",
		Pattern:  regexp.MustCompile(`(?i)ADR\D{0,12}?(\d[\d\s\x{00a0}]*)`),
		Parse:    firstGroup,
		Validate: inRange(minADR, maxADR),
	},
	{
		Name:     "adr-per-night",
		Pattern:  regexp.MustCompile(`(?i)(\d[\d\s\x{00a0}]*)\s*(?:руб(?:лей|\.)?|₽)\.?\s*(?:/|за)\s*(?:сутки|ночь)`),
		Parse:    firstGroup,
		Validate: inRange(minADR, maxADR),
	},
}

// PaybackRules find a stated payback horizon in years.
var PaybackRules = []NumericRule{
	{
		Name:     "payback-keyword",
		Pattern:  regexp.MustCompile(`(?i)окупаемост\S*\D{0,20}?(\d+(?:[.,]\d+)?)\s*(?:лет|год)`),
		Parse:    firstGroup,
		Validate: inRange(minPayback, maxPayback),
	},
}

// --- title rules ---

var (
	namedComplexRe = regexp.MustCompile(`(?i)(?:ЖК|апарт-отель|апарт-комплекс|комплекс|клубный дом|отель)\s*[«"']([^»"'\n]{3,80})[»"']`)
	quotedNameRe   = regexp.MustCompile(`[«"]([^»"\n]{3,80})[»"]`)
	capPhraseRe    = regexp.MustCompile(`[А-ЯЁA-Z][а-яёa-z]+(?:[\s-][А-ЯЁA-Z][а-яёa-z]+){0,4}`)
	trimEdgeRe     = regexp.MustCompile(`^[\s\p{So}\p{Sk}!.,:;–—-]+|[\s\p{So}\p{Sk}!.,:;–—-]+$`)
)

// ExtractTitle applies the ordered title rules: explicit complex naming,
// any quoted name, first non-trivial line, then the generic
// first-capitalized-phrase fallback.
func ExtractTitle(body string) string {
	if m := namedComplexRe.FindStringSubmatch(body); m != nil {
		return cleanTitle(m[0])
	}
	if m := quotedNameRe.FindStringSubmatch(body); m != nil {
		return cleanTitle(m[1])
	}
	for _, line := range strings.SplitN(body, "\n", 4) {
		t := cleanTitle(line)
		if n := len([]rune(t)); n >= 3 && n <= 120 && !startsWithDigit(t) {
			return t
		}
	}
	if m := capPhraseRe.FindString(body); m != "" {
		return cleanTitle(m)
	}
	return ""
}

func cleanTitle(s string) string {
	s = trimEdgeRe.ReplaceAllString(strings.TrimSpace(s), "")
	return strings.Join(strings.Fields(s), " ")
}

func startsWithDigit(s string) bool {
	return len(s) > 0 && s[0] >= '0' && s[0] <= '9'
}

// --- keyword tables ---

// cityKeywords maps lowered substrings onto canonical city names.
var cityKeywords = []struct{ keyword, city string }{
	{"сочи", "Сочи"},
	{"адлер", "Сочи"},
	{"красная поляна", "Сочи"},
	{"санкт-петербург", "Санкт-Петербург"},
	{"петербург", "Санкт-Петербург"},
	{"спб", "Санкт-Петербург"},
	{"москв", "Москва"},
	{"калининград", "Калининград"},
	{"зеленоградск", "Калининград"},
	{"анапа", "Анапа"},
	{"геленджик", "Геленджик"},
	{"казан", "Казань"},
	{"крым", "Ялта"},
	{"ялта", "Ялта"},
}

// InferCity returns the canonical city for the first matching keyword,
// or fallback when nothing matches.
func InferCity(text, fallback string) string {
	lowered := strings.ToLower(text)
	for _, kw := range cityKeywords {
		if strings.Contains(lowered, kw.keyword) {
			return kw.city
		}
	}
	return fallback
}

var (
	constructionKeywords = []string{"строитель", "стройк", "котлован", "сдача в", "до сдачи"}
	planningKeywords     = []string{"старт продаж", "проектн", "бронировани", "скоро в продаже"}
	completedKeywords    = []string{"сдан", "введён в эксплуатацию", "введен в эксплуатацию", "работает"}
)

var formatKeywords = []struct{ keyword, format string }{
	{"апарт-отель", "apart-hotel"},
	{"апарт отель", "apart-hotel"},
	{"сервисные апартаменты", "serviced-apartments"},
	{"апартамент", "apartments"},
	{"гостиниц", "hotel"},
	{"отель", "hotel"},
	{"вилл", "villa"},
	{"таунхаус", "townhouse"},
}

// InferFormat returns the operating format for the first matching keyword.
func InferFormat(text string) string {
	lowered := strings.ToLower(text)
	for _, kw := range formatKeywords {
		if strings.Contains(lowered, kw.keyword) {
			return kw.format
		}
	}
	return ""
}

func containsAny(lowered string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lowered, kw) {
			return true
		}
	}
	return false
}
