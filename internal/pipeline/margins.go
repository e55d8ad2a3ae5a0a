package pipeline

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"ohelect/internal"
)

// MarginLine is one county's result in one year for the margins report.
type MarginLine struct {
	County  string
	Year    string
	Contest string
	Found   bool
	Winner  string
	Margin  float64
	DemPct  float64
	RepPct  float64
}

func (m MarginLine) String() string {
	if !m.Found {
		return "no data"
	}
	if m.Winner == internal.PartyREP {
		return fmt.Sprintf("R+%.2f%% (%.2f%% R, %.2f%% D)", m.Margin, m.RepPct, m.DemPct)
	}
	return fmt.Sprintf("D+%.2f%% (%.2f%% D, %.2f%% R)", m.Margin, m.DemPct, m.RepPct)
}

// FindContest picks the contest for an office in one year: the key equal
// to the office, else the first key (in sorted order) that mentions it.
func FindContest(year internal.YearResults, office string) (internal.Contest, bool) {
	contests, ok := year[office]
	if !ok {
		return internal.Contest{}, false
	}
	if c, ok := contests[office]; ok {
		return c, true
	}
	keys := make([]string, 0, len(contests))
	for k := range contests {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if strings.Contains(k, office) {
			return contests[k], true
		}
	}
	return internal.Contest{}, false
}

// Margins lists county margins for an office across years, county-major.
func Margins(doc internal.Document, office string, years, counties []string) []MarginLine {
	var out []MarginLine
	for _, county := range counties {
		for _, year := range years {
			line := MarginLine{County: county, Year: year}
			if c, ok := FindContest(doc.ResultsByYear[year], office); ok {
				line.Contest = c.ContestName
				if r, ok := c.Results[county]; ok && r.TotalVotes > 0 {
					line.Found = true
					line.Winner = r.Winner
					line.Margin = math.Abs(r.MarginPct)
					line.DemPct = float64(r.DemVotes) / float64(r.TotalVotes) * 100
					line.RepPct = float64(r.RepVotes) / float64(r.TotalVotes) * 100
				}
			}
			out = append(out, line)
		}
	}
	return out
}
