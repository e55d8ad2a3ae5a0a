package table

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ohelect/internal"
	"ohelect/internal/identity"
)

func roster(t *testing.T) *identity.Roster {
	t.Helper()
	r, err := identity.Default()
	require.NoError(t, err)
	return r
}

func TestNormalize(t *testing.T) {
	tbl := New("2004",
		internal.Row{County: " VANWERT ", Office: "President/Vice President", Party: "D", Candidate: "Kerry, John", Votes: 10},
		internal.Row{County: "adams", Office: "State Senator", District: "14.0", Party: "Republican", Candidate: " Jane  Doe ", Votes: 3},
		internal.Row{County: "Lake", Office: "Straight Party", Party: "GRN", Candidate: "", Votes: -4},
		internal.Row{County: "  ", Office: "Governor", Party: "R", Candidate: "x", Votes: 1},
	)

	stats := tbl.Normalize(roster(t))
	assert.Equal(t, 1, stats.UnknownOffice)
	assert.Equal(t, 1, stats.DroppedRows)

	want := []internal.Row{
		{County: "Van Wert", Office: "President", Party: "DEM", Candidate: "Kerry, John", Votes: 10},
		{County: "Adams", Office: "State Senate", District: "14", Party: "REP", Candidate: "Jane Doe", Votes: 3},
		{County: "Lake", Office: internal.OfficeUnknown, Party: "GRN", Candidate: internal.OfficeUnknown, Votes: 0},
	}
	if diff := cmp.Diff(want, tbl.Rows()); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	r := roster(t)
	tbl := New("2022",
		internal.Row{County: "CUYAHOGA", Office: "Governor and Lieutenant Governor", Party: "Democrat", Candidate: "Nan Whaley / Cheryl L. Stephens", Votes: 5},
		internal.Row{County: "Van Wert", Office: "U.S. Representative", District: "5", Party: "REP", Candidate: "Bob Latta", Votes: 7},
		internal.Row{County: "Wood", Office: "Unknown", Party: "", Candidate: "Who", Votes: 1},
	)
	tbl.Normalize(r)
	first := tbl.Rows()

	second := New("2022", first...)
	second.Normalize(r)
	if diff := cmp.Diff(first, second.Rows()); diff != "" {
		t.Fatalf("normalize is not a fixed point:\n%s", diff)
	}
}

func TestSortOrder(t *testing.T) {
	tbl := New("2022",
		internal.Row{County: "Adams", Office: "U.S. Senate", Candidate: "A", Votes: 1},
		internal.Row{County: "Allen", Office: "Governor", Candidate: "B", Votes: 5},
		internal.Row{County: "Adams", Office: "Governor", Candidate: "C", Votes: 2},
		internal.Row{County: "Adams", Office: "Governor", Candidate: "D", Votes: 9},
		internal.Row{County: "Adams", Office: "Governor", Candidate: "E", Votes: 2},
	)
	tbl.Sort()

	var got []string
	for _, row := range tbl.Rows() {
		got = append(got, row.Candidate)
	}
	assert.Equal(t, []string{"D", "C", "E", "B", "A"}, got)
}

func TestMergeIsUnion(t *testing.T) {
	a := New("2010", internal.Row{County: "Adams", Office: "Governor", Party: "REP", Candidate: "Kasich, John", Votes: 6000})
	b := New("2010",
		internal.Row{County: "Adams", Office: "U.S. Senate", Party: "REP", Candidate: "Rob Portman", Votes: 6380},
		internal.Row{County: "Adams", Office: "Governor", Party: "REP", Candidate: "Kasich, John", Votes: 6000},
	)
	a.Merge(b)

	require.Equal(t, 3, a.Len())
	assert.Equal(t, []string{"Governor", "U.S. Senate"}, a.Offices())
	assert.Equal(t, 1, a.CountyCount())
	a.Merge(nil)
	assert.Equal(t, 3, a.Len())
}

func TestCollapse(t *testing.T) {
	tbl := New("2004",
		internal.Row{County: "Adams", Office: "President", Party: "DEM", Candidate: "Kerry", Votes: 10},
		internal.Row{County: "Adams", Office: "President", Party: "REP", Candidate: "Bush", Votes: 12},
		internal.Row{County: "Adams", Office: "President", Party: "DEM", Candidate: "Kerry", Votes: 5},
		internal.Row{County: "Allen", Office: "President", Party: "DEM", Candidate: "Kerry", Votes: 1},
	)
	tbl.Collapse()

	want := []internal.Row{
		{County: "Adams", Office: "President", Party: "DEM", Candidate: "Kerry", Votes: 15},
		{County: "Adams", Office: "President", Party: "REP", Candidate: "Bush", Votes: 12},
		{County: "Allen", Office: "President", Party: "DEM", Candidate: "Kerry", Votes: 1},
	}
	if diff := cmp.Diff(want, tbl.Rows()); diff != "" {
		t.Fatalf("collapse mismatch (-want +got):\n%s", diff)
	}
}

func TestRowsReturnsCopy(t *testing.T) {
	tbl := New("2022", internal.Row{County: "Adams", Office: "Governor", Votes: 1})
	rows := tbl.Rows()
	rows[0].Votes = 99
	assert.Equal(t, 1, tbl.Rows()[0].Votes)
}
