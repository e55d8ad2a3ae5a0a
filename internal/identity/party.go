package identity

import (
	"strings"

	"ohelect/internal"
	"ohelect/internal/util"
)

type partyMarker struct {
	markers []string
	party   string
}

var partyMarkers = []partyMarker{
	{markers: []string{" (D)"}, party: internal.PartyDEM},
	{markers: []string{" (R)"}, party: internal.PartyREP},
	{markers: []string{" (L)"}, party: internal.PartyLIB},
	{markers: []string{" (GRP)", " (G)"}, party: internal.PartyGRN},
}

var writeInMarkers = []string{" (WI)*", " (WI)", "(WI)"}

// ParseCandidateHeader splits a results column header such as
// "Mike DeWine and Jon Husted (R)" into display name and party. Write-ins
// carry no party.
func ParseCandidateHeader(header string) (name, party string, writeIn bool) {
	name = strings.TrimSpace(header)

	matched := false
	for _, pm := range partyMarkers {
		for _, m := range pm.markers {
			if strings.Contains(name, m) {
				party = pm.party
				matched = true
				name = strings.ReplaceAll(name, m, "")
			}
		}
		if matched {
			break
		}
	}
	if !matched && strings.Contains(name, "(WI)") {
		writeIn = true
		for _, m := range writeInMarkers {
			name = strings.ReplaceAll(name, m, "")
		}
	}

	name = util.NormalizeSpaces(strings.ReplaceAll(name, " and ", " / "))
	return name, party, writeIn
}

// NormalizeParty maps loose spellings to the canonical codes. Values it does
// not recognise come back trimmed but otherwise untouched.
func NormalizeParty(raw string) string {
	clean := strings.TrimSpace(raw)
	switch strings.ToLower(clean) {
	case "r", "rep", "republican":
		return internal.PartyREP
	case "d", "dem", "democrat", "democratic":
		return internal.PartyDEM
	}
	return clean
}

// PartyFromCode reads the one-letter codes of candidate name lists.
func PartyFromCode(code string) string {
	switch strings.ToUpper(strings.TrimSpace(code)) {
	case "D":
		return internal.PartyDEM
	case "R":
		return internal.PartyREP
	case "L":
		return internal.PartyLIB
	case "G":
		return internal.PartyGRN
	default:
		return internal.PartyIND
	}
}

// LookupParty finds a candidate's party in the roster's "Last, First"
// table, trying the name as given and in "Last, First" form.
func (r *Roster) LookupParty(candidate string) (string, bool) {
	clean := util.NormalizeSpaces(candidate)
	if p, ok := r.Parties[clean]; ok {
		return p, true
	}
	if p, ok := r.Parties[LastFirst(clean)]; ok {
		return p, true
	}
	return "", false
}

// DisplayName turns "Last, First" into "First Last".
func DisplayName(name string) string {
	last, first, ok := strings.Cut(name, ",")
	if !ok {
		return name
	}
	return strings.TrimSpace(first) + " " + strings.TrimSpace(last)
}

// LastFirst turns "First Last" into "Last, First". Names already in that
// form, or single words, are returned as is.
func LastFirst(name string) string {
	if strings.Contains(name, ",") {
		return name
	}
	i := strings.LastIndex(name, " ")
	if i < 0 {
		return name
	}
	return name[i+1:] + ", " + name[:i]
}
