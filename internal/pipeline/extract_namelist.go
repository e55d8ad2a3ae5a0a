package pipeline

import (
	"strings"

	"go.uber.org/zap"

	"ohelect/internal"
	"ohelect/internal/identity"
	"ohelect/internal/util"
)

const namelistCountyColumn = "COUNTY NAME"

// NameEntry maps one results column to the candidate it counts.
type NameEntry struct {
	Column    string
	Office    string
	District  string
	Party     string
	Candidate string
}

// ParseNameList reads the candidate name list: Data Column Name, Office,
// District, Party and Candidate Name. Rows missing a column name or a
// candidate are ignored.
func ParseNameList(path string, records [][]string) ([]NameEntry, error) {
	headerIdx := findHeaderRow(records, "Data Column Name", "Candidate Name")
	if headerIdx < 0 {
		return nil, internal.NewFormatError(path, "name list header", internal.ErrHeaderNotFound)
	}
	idx := headerIndex(records[headerIdx])
	cols := map[string]int{}
	for _, name := range []string{"data column name", "office", "district", "party", "candidate name"} {
		i, ok := idx[name]
		if !ok {
			return nil, internal.NewFormatError(path, "name list column "+name, internal.ErrMissingColumns)
		}
		cols[name] = i
	}

	var out []NameEntry
	for _, row := range records[headerIdx+1:] {
		column := cell(row, cols["data column name"])
		candidate := util.NormalizeSpaces(cell(row, cols["candidate name"]))
		if column == "" || candidate == "" {
			continue
		}
		office, ok := identity.CanonicalOffice(cell(row, cols["office"]))
		if !ok {
			office = internal.OfficeUnknown
		}
		out = append(out, NameEntry{
			Column:    column,
			Office:    office,
			District:  util.NormalizeDistrict(cell(row, cols["district"])),
			Party:     identity.PartyFromCode(cell(row, cols["party"])),
			Candidate: candidate,
		})
	}
	if len(out) == 0 {
		return nil, internal.NewFormatError(path, "name list entries", internal.ErrEmptySource)
	}
	return out, nil
}

// extractNameList joins a wide precinct results file with its name list.
// The results header is found by scanning for the county column, which
// skips any banner line above it. One row is emitted per precinct and
// mapped column; the table collapses them into county totals later.
func (e *Extractor) extractNameList(path string, names []NameEntry, records [][]string) (internal.Extraction, error) {
	var ext internal.Extraction

	headerIdx := findHeaderRow(records, namelistCountyColumn)
	if headerIdx < 0 {
		return ext, internal.NewFormatError(path, "results header", internal.ErrHeaderNotFound)
	}
	header := records[headerIdx]
	idx := headerIndex(header)
	countyCol := idx[strings.ToLower(namelistCountyColumn)]

	type mapped struct {
		index int
		entry NameEntry
	}
	var columns []mapped
	for _, n := range names {
		i, ok := idx[strings.ToLower(util.NormalizeSpaces(n.Column))]
		if !ok {
			e.logger.Debug("name list column absent from results", zap.String("file", baseName(path)), zap.String("column", n.Column))
			continue
		}
		columns = append(columns, mapped{index: i, entry: n})
	}
	if len(columns) == 0 {
		return ext, internal.NewFormatError(path, "no name list column in results", internal.ErrMissingColumns)
	}

	seen := map[string]struct{}{}
	for _, row := range records[headerIdx+1:] {
		if len(row) < len(header) {
			ext.Diagnostics.SkippedRows++
			continue
		}
		raw := cell(row, countyCol)
		if raw == "" || identity.IsSummaryRow(raw) {
			continue
		}
		county := e.roster().CanonicalCounty(raw)
		seen[county] = struct{}{}

		for _, col := range columns {
			votes, ok := util.ParseVotes(row[col.index])
			if !ok {
				ext.Diagnostics.ParseWarnings++
			}
			ext.Rows = append(ext.Rows, internal.Row{
				County:    county,
				Office:    col.entry.Office,
				District:  col.entry.District,
				Party:     col.entry.Party,
				Candidate: col.entry.Candidate,
				Votes:     votes,
			})
		}
	}
	ext.Counties = len(seen)
	if ext.Counties == 0 {
		return ext, internal.NewFormatError(path, "no precinct rows", internal.ErrEmptySource)
	}
	return ext, nil
}
