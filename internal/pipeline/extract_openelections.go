package pipeline

import (
	"strings"

	"ohelect/internal"
	"ohelect/internal/identity"
	"ohelect/internal/util"
)

type oeColumns struct {
	county, office, district, party, candidate, votes int
}

// mapOpenElectionsHeader matches columns loosely: anything mentioning
// county, office, party, candidate or vote (but not registered voters), and
// district only by exact name. The first column wins for each field.
func mapOpenElectionsHeader(header []string) (oeColumns, []string) {
	cols := oeColumns{-1, -1, -1, -1, -1, -1}
	for i, h := range header {
		lower := strings.ToLower(strings.TrimSpace(h))
		switch {
		case strings.Contains(lower, "county") && cols.county < 0:
			cols.county = i
		case strings.Contains(lower, "office") && cols.office < 0:
			cols.office = i
		case lower == "district" && cols.district < 0:
			cols.district = i
		case strings.Contains(lower, "party") && cols.party < 0:
			cols.party = i
		case strings.Contains(lower, "candidate") && cols.candidate < 0:
			cols.candidate = i
		case strings.Contains(lower, "vote") && !strings.Contains(lower, "registered") && cols.votes < 0:
			cols.votes = i
		}
	}

	var missing []string
	for name, i := range map[string]int{"county": cols.county, "office": cols.office, "candidate": cols.candidate, "votes": cols.votes} {
		if i < 0 {
			missing = append(missing, name)
		}
	}
	return cols, missing
}

// extractOpenElections reads a long-format file with one row per
// county/precinct and candidate. It also reads the consolidated CSVs this
// tool writes, whose header is a strict subset of what it accepts.
func (e *Extractor) extractOpenElections(path string, records [][]string) (internal.Extraction, error) {
	var ext internal.Extraction
	if len(records) == 0 {
		return ext, internal.NewFormatError(path, "openelections", internal.ErrEmptySource)
	}

	cols, missing := mapOpenElectionsHeader(records[0])
	if len(missing) > 0 {
		return ext, internal.NewFormatError(path, "missing "+strings.Join(sortedStrings(missing), ", "), internal.ErrMissingColumns)
	}

	seen := map[string]struct{}{}
	for _, row := range records[1:] {
		county := cell(row, cols.county)
		if county == "" || strings.EqualFold(county, "nan") || identity.IsSummaryRow(county) {
			ext.Diagnostics.SkippedRows++
			continue
		}

		candidate := util.NormalizeSpaces(cell(row, cols.candidate))
		if candidate == "" {
			candidate = internal.OfficeUnknown
		}

		party := cell(row, cols.party)
		if cols.party < 0 {
			party, _ = e.roster().LookupParty(candidate)
		}

		votes, ok := util.ParseVotes(cell(row, cols.votes))
		if !ok {
			ext.Diagnostics.ParseWarnings++
		}

		seen[county] = struct{}{}
		ext.Rows = append(ext.Rows, internal.Row{
			County:    county,
			Office:    cell(row, cols.office),
			District:  cell(row, cols.district),
			Party:     party,
			Candidate: candidate,
			Votes:     votes,
		})
	}
	ext.Counties = len(seen)
	return ext, nil
}
