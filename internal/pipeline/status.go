package pipeline

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"

	"ohelect/internal/storage"
)

// Status is what the ledger knows about previous runs.
type Status struct {
	Years         []string
	Sources       []storage.SourceRecord
	LastConvert   *storage.RunRecord
	LastTransform *storage.RunRecord
	LastOutput    string
}

func LoadStatus(db *storage.DB) (Status, error) {
	var st Status
	years, err := db.ListYears()
	if err != nil {
		return st, err
	}
	st.Years = years
	for _, y := range years {
		sources, err := db.ListSources(y)
		if err != nil {
			return st, err
		}
		st.Sources = append(st.Sources, sources...)
	}
	if st.LastConvert, err = db.LastRun("convert"); err != nil {
		return st, err
	}
	if st.LastTransform, err = db.LastRun("transform"); err != nil {
		return st, err
	}
	out, err := db.GetMetadata("lastTransformOutput")
	if err != nil {
		return st, err
	}
	if out != nil {
		st.LastOutput = *out
	}
	return st, nil
}

// LatestYear is the most recent year with consolidated rows in the ledger.
func LatestYear(db *storage.DB) (string, error) {
	years, err := db.ListYears()
	if err != nil {
		return "", err
	}
	if len(years) == 0 {
		return "", fmt.Errorf("no converted years in the ledger")
	}
	return years[len(years)-1], nil
}

func RenderStatus(w io.Writer, st Status) {
	runs := newTable(w, "command", "trace id", "at", "format errors", "skipped rows", "anomalies")
	for _, r := range []*storage.RunRecord{st.LastConvert, st.LastTransform} {
		if r == nil {
			continue
		}
		runs.Append([]string{
			r.Command,
			r.TraceID,
			r.CreatedAt,
			humanize.Comma(int64(r.Diagnostics.FormatErrors)),
			humanize.Comma(int64(r.Diagnostics.SkippedRows)),
			humanize.Comma(int64(r.Diagnostics.AggregationAnomalies)),
		})
	}
	runs.Render()

	sources := newTable(w, "year", "file", "format", "rows", "status")
	for _, s := range st.Sources {
		sources.Append([]string{s.Year, baseName(s.Path), string(s.Format), humanize.Comma(int64(s.Rows)), s.Status})
	}
	sources.Render()

	if st.LastOutput != "" {
		fmt.Fprintf(w, "last output: %s\n", st.LastOutput)
	}
}
