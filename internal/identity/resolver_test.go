package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ohelect/internal"
)

func testResolver(t *testing.T) *Resolver {
	t.Helper()
	roster, err := Default()
	require.NoError(t, err)
	return NewResolver(roster)
}

func TestResolvePriority(t *testing.T) {
	r := testResolver(t)

	cases := []struct {
		name         string
		query        Query
		wantOffice   string
		wantDistrict string
		wantRule     string
	}{
		{
			name:         "header map beats everything",
			query:        Query{Candidate: "Dave Yost", Filename: "2022 U.S. Congress.csv", Year: "2022", HeaderOffice: OfficeUSHouse, HeaderDistrict: "4"},
			wantOffice:   OfficeUSHouse,
			wantDistrict: "4",
			wantRule:     "header",
		},
		{
			name:       "supreme filename",
			query:      Query{Candidate: "Anyone", Filename: "2024 Justice of the Supreme Court.csv", Year: "2024"},
			wantOffice: OfficeSupremeCourt,
			wantRule:   "filename:supreme",
		},
		{
			name:       "president filename",
			query:      Query{Candidate: "Anyone", Filename: "2024 President and Vice President.csv", Year: "2024"},
			wantOffice: OfficePresident,
			wantRule:   "filename:president",
		},
		{
			name:       "congress senate roster",
			query:      Query{Candidate: "JD Vance", Filename: "2022 U.S. Congress.csv", Year: "2022"},
			wantOffice: OfficeUSSenate,
			wantRule:   "congress:senate-roster",
		},
		{
			name:       "congress house roster",
			query:      Query{Candidate: "Marcy Kaptur", Filename: "2024 U.S. Congress.csv", Year: "2024"},
			wantOffice: OfficeUSHouse,
			wantRule:   "congress:house-roster",
		},
		{
			name:       "congress default",
			query:      Query{Candidate: "Somebody New", Filename: "2022 U.S. Congress.csv", Year: "2022"},
			wantOffice: OfficeUSHouse,
			wantRule:   "congress:default",
		},
		{
			name:       "statewide roster",
			query:      Query{Candidate: "Keith Faber", Filename: "2022 Statewide Offices.csv", Year: "2022"},
			wantOffice: OfficeAuditor,
			wantRule:   "roster:2022:State Auditor",
		},
		{
			name:       "ticket needs both surnames",
			query:      Query{Candidate: "Mike DeWine / Jon Husted", Filename: "2022 Statewide Offices.csv", Year: "2022"},
			wantOffice: OfficeGovernor,
			wantRule:   "roster:2022:Governor",
		},
		{
			name:       "supreme court roster",
			query:      Query{Candidate: "Jennifer Brunner", Filename: "2022 Statewide Offices.csv", Year: "2022"},
			wantOffice: OfficeSupremeCourt,
			wantRule:   "roster:2022:State Supreme Court",
		},
		{
			name:       "roster is per year",
			query:      Query{Candidate: "Keith Faber", Filename: "2024 Statewide Offices.csv", Year: "2024"},
			wantOffice: internal.OfficeUnknown,
			wantRule:   "fallback",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := r.Resolve(tc.query)
			assert.Equal(t, tc.wantOffice, got.Office)
			assert.Equal(t, tc.wantDistrict, got.District)
			assert.Equal(t, tc.wantRule, got.Rule)
		})
	}
}

func TestTicketRunningMateAloneDoesNotMatch(t *testing.T) {
	r := testResolver(t)

	// Husted alone (e.g. a Secretary of State race from another cycle) must
	// not be routed into the governor contest.
	got := r.Resolve(Query{Candidate: "Jon Husted", Filename: "2022 Statewide Offices.csv", Year: "2022"})
	assert.False(t, got.Resolved())
}

func TestResolveIsDeterministic(t *testing.T) {
	r := testResolver(t)
	q := Query{Candidate: "Robert F. Kennedy Jr. / Nicole Shanahan", Filename: "2024 Statewide.csv", Year: "2024"}
	first := r.Resolve(q)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, r.Resolve(q))
	}
	assert.Equal(t, OfficePresident, first.Office)
}

func TestRulesIndependentlyTestable(t *testing.T) {
	r := testResolver(t)
	for _, rule := range r.Rules() {
		assert.NotEmpty(t, rule.Name)
		assert.True(t, IsKnownOffice(rule.Office), rule.Name)
		assert.False(t, rule.Match(Query{}), rule.Name)
	}
}

func TestBuildRulesWithoutRoster(t *testing.T) {
	r := NewResolver(nil)
	got := r.Resolve(Query{Candidate: "JD Vance", Filename: "2022 U.S. Congress.csv", Year: "2022"})
	assert.Equal(t, OfficeUSHouse, got.Office)
	assert.Equal(t, "congress:default", got.Rule)
}
