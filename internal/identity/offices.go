package identity

import (
	"regexp"
	"strings"

	"ohelect/internal"
	"ohelect/internal/util"
)

const (
	OfficePresident        = "President"
	OfficeUSSenate         = "U.S. Senate"
	OfficeUSHouse          = "U.S. House"
	OfficeGovernor         = "Governor"
	OfficeLtGovernor       = "Lieutenant Governor"
	OfficeAttorneyGeneral  = "Attorney General"
	OfficeSecretaryOfState = "Secretary of State"
	OfficeAuditor          = "State Auditor"
	OfficeTreasurer        = "State Treasurer"
	OfficeSupremeCourt     = "State Supreme Court"
	OfficeStateSenate      = "State Senate"
	OfficeStateHouse       = "State House"
	OfficeBoardOfEducation = "State Board of Education"
	OfficeCourtOfAppeals   = "Court of Appeals"
)

var knownOffices = map[string]struct{}{
	OfficePresident: {}, OfficeUSSenate: {}, OfficeUSHouse: {}, OfficeGovernor: {},
	OfficeLtGovernor: {}, OfficeAttorneyGeneral: {}, OfficeSecretaryOfState: {},
	OfficeAuditor: {}, OfficeTreasurer: {}, OfficeSupremeCourt: {}, OfficeStateSenate: {},
	OfficeStateHouse: {}, OfficeBoardOfEducation: {}, OfficeCourtOfAppeals: {},
}

var districtOffices = map[string]struct{}{
	OfficeUSHouse: {}, OfficeStateSenate: {}, OfficeStateHouse: {},
}

type officeSynonym struct {
	contains []string
	office   string
}

// Ordered: the first entry with any fragment in the lowercased label wins.
var officeSynonyms = []officeSynonym{
	{contains: []string{"president"}, office: OfficePresident},
	{contains: []string{"u.s. senat", "us senat", "united states senat"}, office: OfficeUSSenate},
	{contains: []string{"u.s. representative", "us representative", "u.s. house", "us house", "representative to congress", "united states representative"}, office: OfficeUSHouse},
	{contains: []string{"state senat"}, office: OfficeStateSenate},
	{contains: []string{"state representative", "state house"}, office: OfficeStateHouse},
	{contains: []string{"supreme court", "chief justice"}, office: OfficeSupremeCourt},
	{contains: []string{"court of appeals"}, office: OfficeCourtOfAppeals},
	{contains: []string{"board of education"}, office: OfficeBoardOfEducation},
	{contains: []string{"attorney general"}, office: OfficeAttorneyGeneral},
	{contains: []string{"auditor"}, office: OfficeAuditor},
	{contains: []string{"secretary of state"}, office: OfficeSecretaryOfState},
	{contains: []string{"treasurer"}, office: OfficeTreasurer},
}

var reDistrict = regexp.MustCompile(`(?i)district\s+(\d+)`)

// CanonicalOffice maps an office label from any source to the canonical
// office name. ok is false when the label names no known office.
func CanonicalOffice(label string) (string, bool) {
	clean := util.NormalizeSpaces(label)
	if clean == "" {
		return "", false
	}
	if _, ok := knownOffices[clean]; ok {
		return clean, true
	}
	lower := strings.ToLower(clean)

	// A governor ticket label names both offices; a bare lieutenant governor
	// label does not.
	if strings.Contains(lower, "governor") {
		if strings.HasPrefix(lower, "lieutenant governor") || strings.HasPrefix(lower, "lt. governor") {
			return OfficeLtGovernor, true
		}
		return OfficeGovernor, true
	}
	for _, syn := range officeSynonyms {
		for _, frag := range syn.contains {
			if strings.Contains(lower, frag) {
				return syn.office, true
			}
		}
	}
	return "", false
}

// NormalizeOffice canonicalises an office and falls back to Unknown.
func NormalizeOffice(label string) string {
	if office, ok := CanonicalOffice(label); ok {
		return office
	}
	return internal.OfficeUnknown
}

// ParseOfficeLabel reads an office header cell such as
// "Representative to Congress - District 3".
func ParseOfficeLabel(cell string) (office, district string, ok bool) {
	office, ok = CanonicalOffice(cell)
	if !ok {
		return "", "", false
	}
	if m := reDistrict.FindStringSubmatch(cell); m != nil {
		district = util.NormalizeDistrict(m[1])
	}
	return office, district, true
}

func IsKnownOffice(office string) bool {
	_, ok := knownOffices[office]
	return ok
}

// IsDistrictRace reports offices elected by district rather than statewide.
func IsDistrictRace(office string) bool {
	canonical, ok := CanonicalOffice(office)
	if !ok {
		return false
	}
	_, district := districtOffices[canonical]
	return district
}
