package table

import (
	"sort"
	"strings"

	"ohelect/internal"
	"ohelect/internal/identity"
	"ohelect/internal/util"
)

// Table is the consolidated row set of one election year. Rows are never
// changed in place: normalising or collapsing derives a new slice.
type Table struct {
	Year string
	rows []internal.Row
}

func New(year string, rows ...internal.Row) *Table {
	t := &Table{Year: year}
	t.Append(rows...)
	return t
}

// Append unions rows into the table. Duplicates are kept; grouping sums them.
func (t *Table) Append(rows ...internal.Row) {
	t.rows = append(t.rows, rows...)
}

// Merge unions another table into this one and re-sorts.
func (t *Table) Merge(other *Table) {
	if other == nil {
		return
	}
	t.Append(other.rows...)
	t.Sort()
}

func (t *Table) Len() int {
	return len(t.rows)
}

// Rows returns a copy of the rows in table order.
func (t *Table) Rows() []internal.Row {
	return append([]internal.Row(nil), t.rows...)
}

type NormalizeStats struct {
	UnknownOffice int
	DroppedRows   int
}

// Normalize canonicalises county, office, district and party text. Running
// it twice gives the same rows. Rows without a county are dropped and
// counted.
func (t *Table) Normalize(roster *identity.Roster) NormalizeStats {
	var stats NormalizeStats
	out := make([]internal.Row, 0, len(t.rows))
	for _, row := range t.rows {
		n := NormalizeRow(roster, row)
		if n.County == "" {
			stats.DroppedRows++
			continue
		}
		if n.Office == internal.OfficeUnknown {
			stats.UnknownOffice++
		}
		out = append(out, n)
	}
	t.rows = out
	return stats
}

func NormalizeRow(roster *identity.Roster, row internal.Row) internal.Row {
	county := util.TitleCase(row.County)
	if roster != nil {
		county = roster.CanonicalCounty(row.County)
	}
	if strings.EqualFold(county, "nan") {
		county = ""
	}
	candidate := util.NormalizeSpaces(row.Candidate)
	if candidate == "" {
		candidate = internal.OfficeUnknown
	}
	votes := row.Votes
	if votes < 0 {
		votes = 0
	}
	return internal.Row{
		County:    county,
		Office:    identity.NormalizeOffice(row.Office),
		District:  util.NormalizeDistrict(row.District),
		Party:     identity.NormalizeParty(row.Party),
		Candidate: candidate,
		Votes:     votes,
	}
}

type rowKey struct {
	county, office, district, party, candidate string
}

// Collapse sums rows sharing county, office, district, party and candidate,
// turning precinct rows into county rows. First-seen order is kept.
func (t *Table) Collapse() {
	index := map[rowKey]int{}
	out := make([]internal.Row, 0, len(t.rows))
	for _, row := range t.rows {
		key := rowKey{row.County, row.Office, row.District, row.Party, row.Candidate}
		if i, ok := index[key]; ok {
			out[i].Votes += row.Votes
			continue
		}
		index[key] = len(out)
		out = append(out, row)
	}
	t.rows = out
}

// Sort orders rows by office, then county, then votes descending. The sort
// is stable so equal rows keep their source order.
func (t *Table) Sort() {
	sort.SliceStable(t.rows, func(i, j int) bool {
		a, b := t.rows[i], t.rows[j]
		if a.Office != b.Office {
			return a.Office < b.Office
		}
		if a.County != b.County {
			return a.County < b.County
		}
		return a.Votes > b.Votes
	})
}

// Offices lists the distinct offices in first-seen order.
func (t *Table) Offices() []string {
	seen := map[string]struct{}{}
	var out []string
	for _, row := range t.rows {
		if _, ok := seen[row.Office]; ok {
			continue
		}
		seen[row.Office] = struct{}{}
		out = append(out, row.Office)
	}
	return out
}

func (t *Table) CountyCount() int {
	seen := map[string]struct{}{}
	for _, row := range t.rows {
		seen[row.County] = struct{}{}
	}
	return len(seen)
}
