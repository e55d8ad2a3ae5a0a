package contest

import (
	"math"

	"ohelect/internal"
)

type band struct {
	min      float64
	category string
	code     string
	repColor string
	demColor string
}

// Most specific first; a margin falls in the first band whose min it meets.
var bands = []band{
	{min: 40, category: "Annihilation", code: "ANNIHILATION", repColor: "#67000d", demColor: "#08306b"},
	{min: 30, category: "Dominant", code: "DOMINANT", repColor: "#a50f15", demColor: "#08519c"},
	{min: 20, category: "Stronghold", code: "STRONGHOLD", repColor: "#cb181d", demColor: "#3182bd"},
	{min: 10, category: "Safe", code: "SAFE", repColor: "#ef3b2c", demColor: "#6baed6"},
	{min: 5.5, category: "Likely", code: "LIKELY", repColor: "#fb6a4a", demColor: "#9ecae1"},
	{min: 1.0, category: "Lean", code: "LEAN", repColor: "#fcae91", demColor: "#c6dbef"},
	{min: 0.5, category: "Tilt", code: "TILT", repColor: "#fee8c8", demColor: "#e1f5fe"},
}

var tossup = band{category: "Tossup", code: "TOSSUP", repColor: "#f7f7f7", demColor: "#f7f7f7"}

const (
	PartyRepublican = "Republican"
	PartyDemocratic = "Democratic"
	PartyEven       = "Even"
)

// Classify maps a signed margin percentage (positive favours the Republican)
// to its competitiveness band.
func Classify(marginPct float64) internal.Competitiveness {
	if marginPct == 0 || math.IsNaN(marginPct) {
		return internal.Competitiveness{Category: tossup.category, Party: PartyEven, Code: tossup.code, Color: tossup.repColor}
	}

	b := tossup
	abs := math.Abs(marginPct)
	for _, candidate := range bands {
		if abs >= candidate.min {
			b = candidate
			break
		}
	}

	if marginPct > 0 {
		return internal.Competitiveness{Category: b.category + " " + PartyRepublican, Party: PartyRepublican, Code: "R_" + b.code, Color: b.repColor}
	}
	return internal.Competitiveness{Category: b.category + " " + PartyDemocratic, Party: PartyDemocratic, Code: "D_" + b.code, Color: b.demColor}
}
