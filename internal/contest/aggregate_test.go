package contest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"ohelect/internal"
	"ohelect/internal/identity"
)

func newAggregator(t *testing.T) *Aggregator {
	t.Helper()
	roster, err := identity.Default()
	require.NoError(t, err)
	return NewAggregator(roster, zaptest.NewLogger(t))
}

func TestAggregateAdamsGovernor(t *testing.T) {
	rows := []internal.Row{
		{County: "Adams", Office: "Governor", Party: "DEM", Candidate: "Smith", Votes: 60},
		{County: "Adams", Office: "Governor", Party: "DEM", Candidate: "Smith", Votes: 40},
		{County: "Adams", Office: "Governor", Party: "REP", Candidate: "Jones", Votes: 150},
		{County: "Adams", Office: "Governor", Party: "", Candidate: "Write-in", Votes: 5},
	}

	got, report := newAggregator(t).Aggregate("2022", rows)
	require.Contains(t, got, "Governor")
	contest, ok := got["Governor"]["Governor"]
	require.True(t, ok)
	assert.Equal(t, "Governor", contest.ContestName)
	assert.Empty(t, contest.District)

	res, ok := contest.Results["Adams"]
	require.True(t, ok)
	assert.Equal(t, "Adams", res.County)
	assert.Equal(t, "Governor", res.Contest)
	assert.Equal(t, "2022", res.Year)
	assert.Equal(t, "Smith", res.DemCandidate)
	assert.Equal(t, "Jones", res.RepCandidate)
	assert.Equal(t, 100, res.DemVotes)
	assert.Equal(t, 150, res.RepVotes)
	assert.Equal(t, 5, res.OtherVotes)
	assert.Equal(t, 255, res.TotalVotes)
	assert.Equal(t, 250, res.TwoPartyTotal)
	assert.Equal(t, 50, res.Margin)
	assert.InDelta(t, 19.61, res.MarginPct, 1e-9)
	assert.Equal(t, internal.PartyREP, res.Winner)
	assert.Equal(t, "Safe Republican", res.Competitiveness.Category)

	assert.Equal(t, 1, report.Contests)
	assert.Equal(t, 1, report.Results)
	// a single county cannot cover the state
	assert.Equal(t, 1, report.Diagnostics.AggregationAnomalies)
}

func TestAggregateSkipsUnknownAndNumericOffices(t *testing.T) {
	rows := []internal.Row{
		{County: "Adams", Office: internal.OfficeUnknown, Party: "DEM", Candidate: "A", Votes: 1},
		{County: "Adams", Office: internal.OfficeUnknown, Party: "REP", Candidate: "B", Votes: 2},
		{County: "Adams", Office: "12", Party: "DEM", Candidate: "A", Votes: 1},
		{County: "Adams", Office: "12", Party: "REP", Candidate: "B", Votes: 2},
	}
	got, report := newAggregator(t).Aggregate("2022", rows)
	assert.Empty(t, got)
	assert.Zero(t, report.Contests)
}

func TestAggregateDropsUncontestedAndZeroPartitions(t *testing.T) {
	rows := []internal.Row{
		{County: "Adams", Office: "State Treasurer", Party: "REP", Candidate: "Sprague", Votes: 10},
		{County: "Allen", Office: "State Treasurer", Party: "REP", Candidate: "Sprague", Votes: 0},
		{County: "Allen", Office: "State Treasurer", Party: "DEM", Candidate: "Schertzer", Votes: 0},
	}
	got, report := newAggregator(t).Aggregate("2022", rows)
	assert.Empty(t, got)
	assert.Equal(t, 1, report.Uncontested)
	assert.Equal(t, 1, report.ZeroTotal)
}

func TestAggregateDistrictContests(t *testing.T) {
	rows := []internal.Row{
		{County: "Adams", Office: "U.S. House", District: "2", Party: "DEM", Candidate: "Kerr, Samantha", Votes: 4},
		{County: "Adams", Office: "U.S. House", District: "2", Party: "REP", Candidate: "Wenstrup, Brad", Votes: 9},
		{County: "Brown", Office: "U.S. House", District: "2.0", Party: "DEM", Candidate: "Kerr, Samantha", Votes: 5},
		{County: "Brown", Office: "U.S. House", District: "2.0", Party: "GRN", Candidate: "Lone", Votes: 5},
	}
	got, report := newAggregator(t).Aggregate("2022", rows)

	contest, ok := got["U.S. House"]["U.S. House - District 2"]
	require.True(t, ok)
	assert.Equal(t, "2", contest.District)
	assert.Len(t, contest.Results, 2)

	adams := contest.Results["Adams"]
	assert.Equal(t, "Samantha Kerr", adams.DemCandidate)
	assert.Equal(t, "Brad Wenstrup", adams.RepCandidate)

	brown := contest.Results["Brown"]
	assert.Equal(t, internal.OfficeUnknown, brown.RepCandidate)
	assert.Equal(t, internal.PartyDEM, brown.Winner)
	assert.Equal(t, 5, brown.OtherVotes)
	// district contests are not checked for statewide coverage
	assert.Zero(t, report.Diagnostics.AggregationAnomalies)
}

func TestAggregateFlagsUnknownCounty(t *testing.T) {
	rows := []internal.Row{
		{County: "Atlantis", Office: "U.S. House", District: "1", Party: "DEM", Candidate: "A", Votes: 4},
		{County: "Atlantis", Office: "U.S. House", District: "1", Party: "REP", Candidate: "B", Votes: 3},
	}
	_, report := newAggregator(t).Aggregate("2022", rows)
	assert.Equal(t, 1, report.Diagnostics.AggregationAnomalies)
}

func TestBuildResultInvariants(t *testing.T) {
	cases := []struct {
		name   string
		cands  []CandidateTotal
		winner string
	}{
		{name: "tie goes dem", cands: []CandidateTotal{{"A", "DEM", 10}, {"B", "REP", 10}}, winner: "DEM"},
		{name: "rep strictly ahead", cands: []CandidateTotal{{"A", "DEM", 10}, {"B", "REP", 11}, {"C", "LIB", 3}}, winner: "REP"},
		{name: "same party summed", cands: []CandidateTotal{{"A", "DEM", 10}, {"B", "DEM", 4}, {"C", "REP", 12}}, winner: "DEM"},
		{name: "no major parties", cands: []CandidateTotal{{"A", "LIB", 10}, {"B", "GRN", 4}}, winner: "DEM"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, ok := BuildResult("Adams", "Governor", "2022", tc.cands)
			require.True(t, ok)
			assert.Equal(t, res.TotalVotes, res.DemVotes+res.RepVotes+res.OtherVotes)
			assert.Equal(t, res.TwoPartyTotal, res.DemVotes+res.RepVotes)
			assert.Equal(t, tc.winner, res.Winner)
			assert.GreaterOrEqual(t, res.MarginPct, -100.0)
			assert.LessOrEqual(t, res.MarginPct, 100.0)
		})
	}

	tie, _ := BuildResult("Adams", "Governor", "2022", []CandidateTotal{{"A", "DEM", 10}, {"B", "REP", 10}})
	assert.Equal(t, "Tossup", tie.Competitiveness.Category)
	assert.Equal(t, "Even", tie.Competitiveness.Party)
}

func TestSumCandidatesOrder(t *testing.T) {
	got := SumCandidates([]internal.Row{
		{Candidate: "Zed", Party: "DEM", Votes: 1},
		{Candidate: "Abe", Party: "REP", Votes: 2},
		{Candidate: "Abe", Party: "DEM", Votes: 3},
		{Candidate: "Zed", Party: "DEM", Votes: 4},
	})
	assert.Equal(t, []CandidateTotal{
		{Candidate: "Abe", Party: "DEM", Votes: 3},
		{Candidate: "Abe", Party: "REP", Votes: 2},
		{Candidate: "Zed", Party: "DEM", Votes: 5},
	}, got)
}

func TestFilterDistrictRaces(t *testing.T) {
	rows := []internal.Row{
		{County: "Adams", Office: "Governor", Candidate: "A"},
		{County: "Adams", Office: "State Senate", District: "14", Candidate: "B"},
		{County: "Adams", Office: "State Representative", District: "90", Candidate: "C"},
		{County: "Adams", Office: "U.S. House", District: "2", Candidate: "D"},
	}
	got := FilterDistrictRaces(rows)
	require.Len(t, got, 1)
	assert.Equal(t, "Governor", got[0].Office)
}

func TestContestKey(t *testing.T) {
	assert.Equal(t, "Governor", ContestKey("Governor", ""))
	assert.Equal(t, "State Senate - District 14", ContestKey("State Senate", "14"))
}
