package pipeline

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	pdf "github.com/ledongthuc/pdf"
	"github.com/xuri/excelize/v2"

	"ohelect/internal"
	"ohelect/internal/util"
)

var (
	reCellGap   = regexp.MustCompile(`\t|\s{2,}`)
	reVoteToken = regexp.MustCompile(`^[\d,]+$`)
)

// ReadRecords turns a raw table file into rows of cells, picking the reader
// from the file extension. CSV is the default.
func ReadRecords(path string, blob []byte) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return parseXLSXRecords(blob)
	case ".html", ".htm":
		return parseHTMLRecords(blob)
	case ".pdf":
		return parsePDFRecords(blob)
	default:
		return parseCSVRecords(blob)
	}
}

// parseCSVRecords tolerates stray quotes, ragged rows and bad UTF-8.
func parseCSVRecords(blob []byte) ([][]string, error) {
	r := csv.NewReader(strings.NewReader(util.DecodeText(blob)))
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	var out [][]string
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return out, fmt.Errorf("csv: %w", err)
		}
		out = append(out, rec)
	}
	if len(out) == 0 {
		return nil, internal.ErrEmptySource
	}
	return out, nil
}

// parseXLSXRecords reads the first sheet that has any rows.
func parseXLSXRecords(blob []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(blob))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil || len(rows) == 0 {
			continue
		}
		return rows, nil
	}
	return nil, internal.ErrEmptySource
}

// parseHTMLRecords reads the first table with at least two rows.
func parseHTMLRecords(blob []byte) ([][]string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(blob))
	if err != nil {
		return nil, err
	}

	var out [][]string
	doc.Find("table").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		rows := table.Find("tr")
		if rows.Length() < 2 {
			return true
		}
		rows.Each(func(_ int, row *goquery.Selection) {
			cells := []string{}
			row.Find("th,td").Each(func(_ int, cell *goquery.Selection) {
				cells = append(cells, util.NormalizeSpaces(cell.Text()))
			})
			out = append(out, cells)
		})
		return false
	})
	if len(out) == 0 {
		return nil, internal.ErrEmptySource
	}
	return out, nil
}

// parsePDFRecords reads the text layer of a results PDF, one record per
// non-empty line.
func parsePDFRecords(blob []byte) ([][]string, error) {
	r, err := pdf.NewReader(bytes.NewReader(blob), int64(len(blob)))
	if err != nil {
		return nil, err
	}

	var lines []string
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			continue
		}
		lines = append(lines, splitLines(text)...)
	}
	return textRecords(lines)
}

func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	parts := strings.Split(text, "\n")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func textRecords(lines []string) ([][]string, error) {
	out := make([][]string, 0, len(lines))
	for _, line := range lines {
		if cells := lineCells(line); len(cells) > 0 {
			out = append(out, cells)
		}
	}
	if len(out) == 0 {
		return nil, internal.ErrEmptySource
	}
	return out, nil
}

// lineCells splits a text line into cells on tabs or runs of two or more
// spaces. A line without such gaps becomes its leading label followed by
// its trailing vote counts, so "Van Wert 7,000 3,000" keeps the county whole.
func lineCells(line string) []string {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	if reCellGap.MatchString(line) {
		var cells []string
		for _, c := range reCellGap.Split(line, -1) {
			if c = strings.TrimSpace(c); c != "" {
				cells = append(cells, c)
			}
		}
		return cells
	}

	fields := strings.Fields(line)
	k := len(fields)
	for k > 0 && reVoteToken.MatchString(fields[k-1]) {
		k--
	}
	if k == 0 {
		return fields
	}
	return append([]string{strings.Join(fields[:k], " ")}, fields[k:]...)
}

// headerIndex maps lowercased, trimmed header text to its first column.
func headerIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(util.NormalizeSpaces(h))
		if _, ok := idx[key]; !ok {
			idx[key] = i
		}
	}
	return idx
}

// findHeaderRow returns the first row that carries every marker cell.
func findHeaderRow(records [][]string, markers ...string) int {
	for i, row := range records {
		idx := headerIndex(row)
		found := true
		for _, m := range markers {
			if _, ok := idx[strings.ToLower(m)]; !ok {
				found = false
				break
			}
		}
		if found {
			return i
		}
	}
	return -1
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
