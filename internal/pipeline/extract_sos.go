package pipeline

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"ohelect/internal"
	"ohelect/internal/identity"
	"ohelect/internal/util"
)

var sosMetadataColumns = map[string]struct{}{
	"":                       {},
	"Precinct Code":          {},
	"Region Name":            {},
	"Media Market":           {},
	"Registered Voters":      {},
	"Ballots Counted":        {},
	"Official Voter Turnout": {},
}

// ColumnOffice is the office a column sits under in the office header row.
type ColumnOffice struct {
	Office   string
	District string
}

// ScanOfficeHeader walks the office label row left to right. A recognised
// label applies to its own column and every later one until the next label.
func ScanOfficeHeader(cells []string) map[int]ColumnOffice {
	out := map[int]ColumnOffice{}
	var current *ColumnOffice
	for i, c := range cells {
		if office, district, ok := identity.ParseOfficeLabel(c); ok {
			current = &ColumnOffice{Office: office, District: district}
		}
		if current != nil {
			out[i] = *current
		}
	}
	return out
}

type sosColumn struct {
	index     int
	candidate string
	party     string
	office    string
	district  string
}

// extractSOS reads a Secretary of State export: an office label row over a
// column header row holding "County Name" and "Precinct Name", then one row
// per precinct. Precincts are summed per county and column; columns that sum
// to zero for a county are dropped.
func (e *Extractor) extractSOS(path, year string, records [][]string) (internal.Extraction, error) {
	var ext internal.Extraction

	headerIdx := findHeaderRow(records, "County Name", "Precinct Name")
	if headerIdx < 0 {
		return ext, internal.NewFormatError(path, "sos header", internal.ErrHeaderNotFound)
	}
	header := records[headerIdx]

	offices := map[int]ColumnOffice{}
	if headerIdx > 0 {
		offices = ScanOfficeHeader(records[headerIdx-1])
	}

	filename := baseName(path)
	var columns []sosColumn
	for i, h := range header {
		if i < 2 {
			continue
		}
		if _, skip := sosMetadataColumns[strings.TrimSpace(h)]; skip {
			continue
		}
		name, party, _ := identity.ParseCandidateHeader(h)
		off := offices[i]
		id := e.resolver.Resolve(identity.Query{
			Candidate:      name,
			Filename:       filename,
			Year:           year,
			HeaderOffice:   off.Office,
			HeaderDistrict: off.District,
		})
		if !id.Resolved() {
			e.logger.Debug("column office unresolved", zap.String("file", filename), zap.String("column", h))
		}
		columns = append(columns, sosColumn{index: i, candidate: name, party: party, office: id.Office, district: id.District})
	}
	if len(columns) == 0 {
		return ext, internal.NewFormatError(path, "sos candidate columns", internal.ErrMissingColumns)
	}

	var countyOrder []string
	sums := map[string][]int{}
	for _, row := range records[headerIdx+1:] {
		if len(row) < len(header) {
			ext.Diagnostics.SkippedRows++
			continue
		}
		county := cell(row, 0)
		if county == "" || identity.IsSummaryRow(county) {
			continue
		}
		totals, ok := sums[county]
		if !ok {
			totals = make([]int, len(columns))
			sums[county] = totals
			countyOrder = append(countyOrder, county)
		}
		for ci, col := range columns {
			v, ok := util.ParseVotes(row[col.index])
			if !ok {
				ext.Diagnostics.ParseWarnings++
				e.logger.Debug("vote cell coerced to 0",
					zap.String("file", filename), zap.String("county", county), zap.String("cell", row[col.index]))
			}
			totals[ci] += v
		}
	}

	for _, county := range countyOrder {
		for ci, col := range columns {
			votes := sums[county][ci]
			if votes == 0 {
				continue
			}
			ext.Rows = append(ext.Rows, internal.Row{
				County:    county,
				Office:    col.office,
				District:  col.district,
				Party:     col.party,
				Candidate: col.candidate,
				Votes:     votes,
			})
		}
	}
	ext.Counties = len(countyOrder)
	if ext.Counties == 0 {
		return ext, internal.NewFormatError(path, fmt.Sprintf("no county rows below header at line %d", headerIdx+1), internal.ErrEmptySource)
	}
	return ext, nil
}
