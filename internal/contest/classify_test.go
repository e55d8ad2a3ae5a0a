package contest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name     string
		margin   float64
		category string
		party    string
		code     string
		color    string
	}{
		{name: "annihilation r", margin: 40, category: "Annihilation Republican", party: "Republican", code: "R_ANNIHILATION", color: "#67000d"},
		{name: "dominant d", margin: -35.2, category: "Dominant Democratic", party: "Democratic", code: "D_DOMINANT", color: "#08519c"},
		{name: "stronghold", margin: 20, category: "Stronghold Republican", party: "Republican", code: "R_STRONGHOLD", color: "#cb181d"},
		{name: "safe", margin: 19.6, category: "Safe Republican", party: "Republican", code: "R_SAFE", color: "#ef3b2c"},
		{name: "likely boundary", margin: 5.5, category: "Likely Republican", party: "Republican", code: "R_LIKELY", color: "#fb6a4a"},
		{name: "just under likely", margin: 5.49, category: "Lean Republican", party: "Republican", code: "R_LEAN", color: "#fcae91"},
		{name: "lean boundary d", margin: -1.0, category: "Lean Democratic", party: "Democratic", code: "D_LEAN", color: "#c6dbef"},
		{name: "tilt boundary d", margin: -0.5, category: "Tilt Democratic", party: "Democratic", code: "D_TILT", color: "#e1f5fe"},
		{name: "tossup r side", margin: 0.2, category: "Tossup Republican", party: "Republican", code: "R_TOSSUP", color: "#f7f7f7"},
		{name: "tossup d side", margin: -0.49, category: "Tossup Democratic", party: "Democratic", code: "D_TOSSUP", color: "#f7f7f7"},
		{name: "zero is even", margin: 0, category: "Tossup", party: "Even", code: "TOSSUP", color: "#f7f7f7"},
		{name: "annihilation d", margin: -100, category: "Annihilation Democratic", party: "Democratic", code: "D_ANNIHILATION", color: "#08306b"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Classify(tc.margin)
			assert.Equal(t, tc.category, got.Category)
			assert.Equal(t, tc.party, got.Party)
			assert.Equal(t, tc.code, got.Code)
			assert.Equal(t, tc.color, got.Color)
		})
	}
}
