package pipeline

import (
	"strings"

	"ohelect/internal"
	"ohelect/internal/identity"
	"ohelect/internal/util"
)

// extractManual reads a hand-transcribed county table for one contest named
// by the manifest entry. Two shapes are accepted:
//
//	long: county, candidate, votes[, party]
//	wide: county, then one column per candidate ("Rob Portman (R)", "Other")
//
// Missing parties come from the roster lookup. Zero cells in the wide shape
// are not emitted.
func (e *Extractor) extractManual(src SourceEntry, records [][]string) (internal.Extraction, error) {
	var ext internal.Extraction

	office := identity.NormalizeOffice(src.Office)
	if strings.TrimSpace(src.Office) == "" {
		return ext, internal.NewFormatError(src.Path, "manual source needs an office", internal.ErrMissingColumns)
	}
	district := util.NormalizeDistrict(src.District)

	headerIdx, countyCol := findCountyHeader(records)
	if headerIdx < 0 {
		return ext, internal.NewFormatError(src.Path, "manual county column", internal.ErrHeaderNotFound)
	}
	header := records[headerIdx]
	idx := headerIndex(header)

	emit := func(county, candidate, party string, votes int) {
		candidate = util.NormalizeSpaces(candidate)
		if candidate == "" {
			candidate = internal.OfficeUnknown
		}
		if party == "" {
			party, _ = e.roster().LookupParty(candidate)
		}
		ext.Rows = append(ext.Rows, internal.Row{
			County:    county,
			Office:    office,
			District:  district,
			Party:     party,
			Candidate: candidate,
			Votes:     votes,
		})
	}

	candCol, hasCand := idx["candidate"]
	votesCol, hasVotes := idx["votes"]
	partyCol, hasParty := idx["party"]
	long := hasCand && hasVotes
	if !hasParty {
		partyCol = -1
	}

	seen := map[string]struct{}{}
	for _, row := range records[headerIdx+1:] {
		county := cell(row, countyCol)
		if county == "" || identity.IsSummaryRow(county) {
			continue
		}
		if long {
			votes, ok := util.ParseVotes(cell(row, votesCol))
			if !ok {
				ext.Diagnostics.ParseWarnings++
			}
			emit(county, cell(row, candCol), identity.NormalizeParty(cell(row, partyCol)), votes)
			seen[county] = struct{}{}
			continue
		}

		if len(row) < len(header) {
			ext.Diagnostics.SkippedRows++
			continue
		}
		for j, h := range header {
			if j == countyCol || strings.TrimSpace(h) == "" {
				continue
			}
			votes, ok := util.ParseVotes(row[j])
			if !ok {
				ext.Diagnostics.ParseWarnings++
			}
			if votes == 0 {
				continue
			}
			name, party, _ := identity.ParseCandidateHeader(h)
			emit(county, name, party, votes)
		}
		seen[county] = struct{}{}
	}
	ext.Counties = len(seen)
	if ext.Counties == 0 {
		return ext, internal.NewFormatError(src.Path, "manual rows", internal.ErrEmptySource)
	}
	return ext, nil
}

// findCountyHeader returns the first row with a cell that is exactly
// "County" or "County Name", so title lines mentioning counties are passed
// over.
func findCountyHeader(records [][]string) (row, col int) {
	for i, r := range records {
		for j, c := range r {
			switch strings.ToLower(util.NormalizeSpaces(c)) {
			case "county", "county name":
				return i, j
			}
		}
	}
	return -1, -1
}
