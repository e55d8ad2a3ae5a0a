package identity

import (
	"strings"

	"ohelect/internal/util"
)

var summaryLabels = map[string]struct{}{
	"TOTAL":      {},
	"TOTALS":     {},
	"PERCENTAGE": {},
}

// IsSummaryRow reports county cells that label totals rather than a county.
func IsSummaryRow(county string) bool {
	_, ok := summaryLabels[strings.ToUpper(strings.TrimSpace(county))]
	return ok
}

// CanonicalCounty title-cases a county name and applies the roster's fixups
// for known export quirks such as "VANWERT".
func (r *Roster) CanonicalCounty(raw string) string {
	clean := util.NormalizeSpaces(raw)
	if clean == "" {
		return ""
	}
	key := util.SquashKey(clean)
	if fixed, ok := r.State.CountyFixups[key]; ok {
		return fixed
	}
	if known, ok := r.countySet[key]; ok {
		return known
	}
	return util.TitleCase(clean)
}
