package pipeline

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/xuri/excelize/v2"

	"ohelect/internal"
)

var consolidatedHeader = []string{"county", "office", "district", "party", "candidate", "votes"}

// ConsolidatedFileName is the per-year CSV name convert writes and
// transform reads.
func ConsolidatedFileName(year string) string {
	return year + "__oh__general__consolidated.csv"
}

func WriteConsolidatedCSV(path string, rows []internal.Row) error {
	return writeAtomic(path, func(w io.Writer) error {
		cw := csv.NewWriter(w)
		if err := cw.Write(consolidatedHeader); err != nil {
			return err
		}
		for _, r := range rows {
			if err := cw.Write([]string{r.County, r.Office, r.District, r.Party, r.Candidate, strconv.Itoa(r.Votes)}); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	})
}

// WriteDocument writes the combined JSON with two-space indentation and
// unescaped non-ASCII text.
func WriteDocument(path string, doc internal.Document) error {
	return writeAtomic(path, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	})
}

func ReadDocument(path string) (internal.Document, error) {
	var doc internal.Document
	blob, err := os.ReadFile(path)
	if err != nil {
		return doc, err
	}
	if err := json.Unmarshal(blob, &doc); err != nil {
		return doc, fmt.Errorf("parse %s: %w", path, err)
	}
	return doc, nil
}

func ExportRowsToXLSX(year string, rows []internal.Row, outputPath string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := year
	if sheet == "" {
		sheet = "results"
	}
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return err
	}

	for i, h := range consolidatedHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, row := range rows {
		r := i + 2
		set := func(col int, value any) {
			cell, _ := excelize.CoordinatesToCellName(col, r)
			_ = f.SetCellValue(sheet, cell, value)
		}

		set(1, row.County)
		set(2, row.Office)
		set(3, row.District)
		set(4, row.Party)
		set(5, row.Candidate)
		set(6, row.Votes)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}

// writeAtomic writes to a temp file next to path and renames it into place.
func writeAtomic(path string, write func(w io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	bw := bufio.NewWriter(tmp)
	if err := write(bw); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
