package internal

const (
	PartyDEM = "DEM"
	PartyREP = "REP"
	PartyLIB = "LIB"
	PartyGRN = "GRN"
	PartyIND = "IND"

	OfficeUnknown = "Unknown"
)

// Row is one canonical consolidated record. Several rows may share
// county/office/district/candidate; their votes add up.
type Row struct {
	County    string
	Office    string
	District  string
	Party     string
	Candidate string
	Votes     int
}

type SourceFormat string

const (
	FormatSOS           SourceFormat = "sos"
	FormatNameList      SourceFormat = "namelist"
	FormatOpenElections SourceFormat = "openelections"
	FormatManual        SourceFormat = "manual"
)

type Competitiveness struct {
	Category string `json:"category"`
	Party    string `json:"party"`
	Code     string `json:"code"`
	Color    string `json:"color"`
}

type ContestResult struct {
	County          string          `json:"county"`
	Contest         string          `json:"contest"`
	Year            string          `json:"year"`
	DemCandidate    string          `json:"dem_candidate"`
	RepCandidate    string          `json:"rep_candidate"`
	DemVotes        int             `json:"dem_votes"`
	RepVotes        int             `json:"rep_votes"`
	OtherVotes      int             `json:"other_votes"`
	TotalVotes      int             `json:"total_votes"`
	TwoPartyTotal   int             `json:"two_party_total"`
	Margin          int             `json:"margin"`
	MarginPct       float64         `json:"margin_pct"`
	Winner          string          `json:"winner"`
	Competitiveness Competitiveness `json:"competitiveness"`
}

type Contest struct {
	ContestName string                   `json:"contest_name"`
	Office      string                   `json:"office"`
	District    string                   `json:"district"`
	Results     map[string]ContestResult `json:"results"`
}

// YearResults is office -> contest key -> contest.
type YearResults map[string]map[string]Contest

type Metadata struct {
	State         string `json:"state"`
	StateCode     string `json:"state_code"`
	TotalCounties int    `json:"total_counties"`
	YearsCovered  []int  `json:"years_covered"`
	DataSource    string `json:"data_source"`
	GeneratedDate string `json:"generated_date"`
}

type Document struct {
	Metadata      Metadata               `json:"metadata"`
	ResultsByYear map[string]YearResults `json:"results_by_year"`
}

// Diagnostics counts recoverable problems met during a run.
type Diagnostics struct {
	FormatErrors         int `json:"formatErrors"`
	ParseWarnings        int `json:"parseWarnings"`
	UnresolvedIdentity   int `json:"unresolvedIdentity"`
	AggregationAnomalies int `json:"aggregationAnomalies"`
	SkippedRows          int `json:"skippedRows"`
}

func (d *Diagnostics) Add(other Diagnostics) {
	d.FormatErrors += other.FormatErrors
	d.ParseWarnings += other.ParseWarnings
	d.UnresolvedIdentity += other.UnresolvedIdentity
	d.AggregationAnomalies += other.AggregationAnomalies
	d.SkippedRows += other.SkippedRows
}

// Extraction is what a raw format adapter produces for one source.
type Extraction struct {
	Rows        []Row
	Counties    int
	Diagnostics Diagnostics
}
