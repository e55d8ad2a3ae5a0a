package pipeline

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"

	"ohelect/internal"
)

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	t := tablewriter.NewWriter(w)
	t.SetHeader(header)
	t.SetAutoFormatHeaders(false)
	t.SetAutoWrapText(false)
	return t
}

func RenderConvertSummary(w io.Writer, res ConvertResult) {
	t := newTable(w, "year", "sources", "failed", "rows", "counties", "offices", "output")
	for _, y := range res.Years {
		t.Append([]string{
			y.Year,
			humanize.Comma(int64(y.Sources)),
			humanize.Comma(int64(y.Failed)),
			humanize.Comma(int64(y.Rows)),
			humanize.Comma(int64(y.Counties)),
			strings.Join(y.Offices, ", "),
			y.Output,
		})
	}
	t.Render()
	renderDiagnostics(w, res.Diagnostics)
}

func RenderTransformSummary(w io.Writer, res TransformResult) {
	t := newTable(w, "year", "contests", "county results", "uncontested", "zero total", "anomalies")
	for _, r := range res.Reports {
		t.Append([]string{
			r.Year,
			humanize.Comma(int64(r.Contests)),
			humanize.Comma(int64(r.Results)),
			humanize.Comma(int64(r.Uncontested)),
			humanize.Comma(int64(r.ZeroTotal)),
			humanize.Comma(int64(r.Diagnostics.AggregationAnomalies)),
		})
	}
	t.Render()
	renderDiagnostics(w, res.Diagnostics)
	fmt.Fprintf(w, "output: %s\n", res.Output)
}

func RenderMargins(w io.Writer, office string, lines []MarginLine) {
	t := newTable(w, "county", "year", office+" margin")
	for _, l := range lines {
		t.Append([]string{l.County, l.Year, l.String()})
	}
	t.Render()
}

func renderDiagnostics(w io.Writer, d internal.Diagnostics) {
	t := newTable(w, "format errors", "parse warnings", "unknown identity", "skipped rows", "anomalies")
	t.Append([]string{
		humanize.Comma(int64(d.FormatErrors)),
		humanize.Comma(int64(d.ParseWarnings)),
		humanize.Comma(int64(d.UnresolvedIdentity)),
		humanize.Comma(int64(d.SkippedRows)),
		humanize.Comma(int64(d.AggregationAnomalies)),
	})
	t.Render()
}
