package contest

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"ohelect/internal"
	"ohelect/internal/identity"
	"ohelect/internal/util"
)

// CandidateTotal is one (candidate, party) sum inside a county partition.
type CandidateTotal struct {
	Candidate string
	Party     string
	Votes     int
}

// Report summarises one year's aggregation.
type Report struct {
	Year        string
	Contests    int
	Results     int
	Uncontested int
	ZeroTotal   int
	Diagnostics internal.Diagnostics
}

type Aggregator struct {
	roster *identity.Roster
	logger *zap.Logger
}

func NewAggregator(roster *identity.Roster, logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{roster: roster, logger: logger}
}

// ContestKey names a contest: the office, or "<office> - District <n>".
func ContestKey(office, district string) string {
	if strings.TrimSpace(district) == "" {
		return office
	}
	return fmt.Sprintf("%s - District %s", office, district)
}

// FilterDistrictRaces drops U.S. House, State Senate and State House rows
// and their synonyms.
func FilterDistrictRaces(rows []internal.Row) []internal.Row {
	out := make([]internal.Row, 0, len(rows))
	for _, row := range rows {
		if identity.IsDistrictRace(row.Office) {
			continue
		}
		out = append(out, row)
	}
	return out
}

type partitionKey struct {
	office, district string
}

// Aggregate groups a normalised year of rows by office, district and county
// and builds one ContestResult per county partition. Offices that are bare
// numbers or Unknown are skipped.
func (a *Aggregator) Aggregate(year string, rows []internal.Row) (internal.YearResults, Report) {
	report := Report{Year: year}

	var order []partitionKey
	counties := map[partitionKey][]string{}
	totals := map[partitionKey]map[string][]internal.Row{}
	for _, row := range rows {
		if row.Office == internal.OfficeUnknown || util.IsDigits(row.Office) {
			continue
		}
		key := partitionKey{office: row.Office, district: util.NormalizeDistrict(row.District)}
		byCounty, ok := totals[key]
		if !ok {
			byCounty = map[string][]internal.Row{}
			totals[key] = byCounty
			order = append(order, key)
		}
		if _, ok := byCounty[row.County]; !ok {
			counties[key] = append(counties[key], row.County)
		}
		byCounty[row.County] = append(byCounty[row.County], row)
	}

	out := internal.YearResults{}
	for _, key := range order {
		contestKey := ContestKey(key.office, key.district)
		results := map[string]internal.ContestResult{}
		for _, county := range counties[key] {
			cands := SumCandidates(totals[key][county])
			res, ok := BuildResult(county, contestKey, year, cands)
			if !ok {
				if len(cands) < 2 {
					report.Uncontested++
				} else {
					report.ZeroTotal++
				}
				continue
			}
			if res.DemVotes+res.RepVotes+res.OtherVotes != res.TotalVotes {
				report.Diagnostics.AggregationAnomalies++
				a.logger.Warn("partition does not reconcile",
					zap.String("year", year), zap.String("contest", contestKey), zap.String("county", county))
			}
			if a.roster != nil && !a.roster.IsCounty(county) {
				report.Diagnostics.AggregationAnomalies++
				a.logger.Debug("county not in state list",
					zap.String("year", year), zap.String("contest", contestKey), zap.String("county", county))
			}
			results[county] = res
		}
		if len(results) == 0 {
			continue
		}
		if key.district == "" {
			report.Diagnostics.AggregationAnomalies += a.coverageGaps(year, contestKey, results)
		}

		if out[key.office] == nil {
			out[key.office] = map[string]internal.Contest{}
		}
		out[key.office][contestKey] = internal.Contest{
			ContestName: contestKey,
			Office:      key.office,
			District:    key.district,
			Results:     results,
		}
		report.Contests++
		report.Results += len(results)
	}
	return out, report
}

// coverageGaps returns 1 when a statewide contest lacks any configured county.
func (a *Aggregator) coverageGaps(year, contestKey string, results map[string]internal.ContestResult) int {
	if a.roster == nil {
		return 0
	}
	var missing []string
	for _, county := range a.roster.Counties() {
		if _, ok := results[county]; !ok {
			missing = append(missing, county)
		}
	}
	if len(missing) == 0 {
		return 0
	}
	a.logger.Debug("statewide contest missing counties",
		zap.String("year", year), zap.String("contest", contestKey),
		zap.Int("missing", len(missing)), zap.Strings("counties", missing))
	return 1
}

// SumCandidates collapses a county partition into (candidate, party) totals
// ordered by candidate then party.
func SumCandidates(rows []internal.Row) []CandidateTotal {
	type key struct{ candidate, party string }
	index := map[key]int{}
	var out []CandidateTotal
	for _, row := range rows {
		k := key{row.Candidate, row.Party}
		if i, ok := index[k]; ok {
			out[i].Votes += row.Votes
			continue
		}
		index[k] = len(out)
		out = append(out, CandidateTotal{Candidate: row.Candidate, Party: row.Party, Votes: row.Votes})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Candidate != out[j].Candidate {
			return out[i].Candidate < out[j].Candidate
		}
		return out[i].Party < out[j].Party
	})
	return out
}

// BuildResult computes one county's contest totals. It reports false for
// partitions with fewer than two candidates or no votes.
func BuildResult(county, contestKey, year string, cands []CandidateTotal) (internal.ContestResult, bool) {
	if len(cands) < 2 {
		return internal.ContestResult{}, false
	}

	var dem, rep, other, total int
	demName, repName := "", ""
	for _, c := range cands {
		total += c.Votes
		switch c.Party {
		case internal.PartyDEM:
			dem += c.Votes
			if demName == "" {
				demName = identity.DisplayName(c.Candidate)
			}
		case internal.PartyREP:
			rep += c.Votes
			if repName == "" {
				repName = identity.DisplayName(c.Candidate)
			}
		default:
			other += c.Votes
		}
	}
	if total <= 0 {
		return internal.ContestResult{}, false
	}
	if demName == "" {
		demName = internal.OfficeUnknown
	}
	if repName == "" {
		repName = internal.OfficeUnknown
	}

	marginPct := float64(rep)/float64(total)*100 - float64(dem)/float64(total)*100
	winner := internal.PartyDEM
	if rep > dem {
		winner = internal.PartyREP
	}

	return internal.ContestResult{
		County:          county,
		Contest:         contestKey,
		Year:            year,
		DemCandidate:    demName,
		RepCandidate:    repName,
		DemVotes:        dem,
		RepVotes:        rep,
		OtherVotes:      other,
		TotalVotes:      total,
		TwoPartyTotal:   dem + rep,
		Margin:          rep - dem,
		MarginPct:       util.RoundTo(marginPct, 2),
		Winner:          winner,
		Competitiveness: Classify(marginPct),
	}, true
}
