package identity

import (
	"strings"

	"ohelect/internal"
)

// Query is everything known about one results column or row when its office
// has to be worked out.
type Query struct {
	Candidate      string
	Filename       string
	Year           string
	HeaderOffice   string
	HeaderDistrict string
}

// Identity is the resolved office for a Query and the rule that decided it.
type Identity struct {
	Office   string
	District string
	Rule     string
}

func (id Identity) Resolved() bool {
	return id.Office != internal.OfficeUnknown
}

// Rule is one entry of the ordered office inference table.
type Rule struct {
	Name   string
	Match  func(q Query) bool
	Office string
}

// Resolver applies the rule table in order; the first matching rule wins.
type Resolver struct {
	roster *Roster
	rules  []Rule
}

func NewResolver(roster *Roster) *Resolver {
	return &Resolver{roster: roster, rules: BuildRules(roster)}
}

func (r *Resolver) Roster() *Roster {
	return r.roster
}

func (r *Resolver) Rules() []Rule {
	return append([]Rule(nil), r.rules...)
}

// Resolve never fails: an unmatched query resolves to Unknown.
func (r *Resolver) Resolve(q Query) Identity {
	if q.HeaderOffice != "" {
		return Identity{Office: q.HeaderOffice, District: q.HeaderDistrict, Rule: "header"}
	}
	for _, rule := range r.rules {
		if rule.Match(q) {
			return Identity{Office: rule.Office, Rule: rule.Name}
		}
	}
	return Identity{Office: internal.OfficeUnknown, Rule: "fallback"}
}

// BuildRules lays out the inference table: filename hints, then the congress
// rosters for congress files, then each year's office rosters in the order
// the roster lists them.
func BuildRules(roster *Roster) []Rule {
	rules := []Rule{
		{Name: "filename:supreme", Match: filenameHas("Supreme", "Justice"), Office: OfficeSupremeCourt},
		{Name: "filename:president", Match: filenameHas("President"), Office: OfficePresident},
		{
			Name: "congress:senate-roster",
			Match: func(q Query) bool {
				return strings.Contains(q.Filename, "Congress") && anyContained(roster.congress(q.Year).Senate, q.Candidate)
			},
			Office: OfficeUSSenate,
		},
		{
			Name: "congress:house-roster",
			Match: func(q Query) bool {
				return strings.Contains(q.Filename, "Congress") && anyContained(roster.congress(q.Year).House, q.Candidate)
			},
			Office: OfficeUSHouse,
		},
		{Name: "congress:default", Match: filenameHas("Congress"), Office: OfficeUSHouse},
	}

	if roster == nil {
		return rules
	}
	for _, year := range roster.Years() {
		for _, entry := range roster.Elections[year].Offices {
			rules = append(rules, rosterRule(year, entry))
		}
	}
	return rules
}

func rosterRule(year string, entry OfficeRoster) Rule {
	candidates := entry.Candidates
	return Rule{
		Name: "roster:" + year + ":" + entry.Office,
		Match: func(q Query) bool {
			if q.Year != year {
				return false
			}
			for _, c := range candidates {
				if c.Matches(q.Candidate) {
					return true
				}
			}
			return false
		},
		Office: entry.Office,
	}
}

func filenameHas(fragments ...string) func(Query) bool {
	return func(q Query) bool {
		for _, f := range fragments {
			if strings.Contains(q.Filename, f) {
				return true
			}
		}
		return false
	}
}

func anyContained(names []string, display string) bool {
	for _, n := range names {
		if n != "" && strings.Contains(display, n) {
			return true
		}
	}
	return false
}

func (r *Roster) congress(year string) CongressRoster {
	if r == nil {
		return CongressRoster{}
	}
	return r.Elections[year].Congress
}
