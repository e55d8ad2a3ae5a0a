package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"ohelect/internal"
	"ohelect/internal/config"
	"ohelect/internal/identity"
	"ohelect/internal/storage"
	"ohelect/internal/table"
)

// ConvertService turns manifest sources into one consolidated CSV per year.
// db may be nil, in which case nothing is recorded in the ledger.
type ConvertService struct {
	db        *storage.DB
	cfg       config.Config
	roster    *identity.Roster
	extractor *Extractor
	logger    *zap.Logger
}

func NewConvertService(db *storage.DB, cfg config.Config, roster *identity.Roster, logger *zap.Logger) *ConvertService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConvertService{
		db:        db,
		cfg:       cfg,
		roster:    roster,
		extractor: NewExtractor(roster, logger),
		logger:    logger,
	}
}

type ConvertOptions struct {
	Year          string
	MergeExisting bool
}

type YearSummary struct {
	Year        string
	Sources     int
	Failed      int
	Rows        int
	Counties    int
	Offices     []string
	Output      string
	Diagnostics internal.Diagnostics
}

type ConvertResult struct {
	TraceID     string
	Years       []YearSummary
	Diagnostics internal.Diagnostics
}

func (s *ConvertService) Convert(ctx context.Context, sources []SourceEntry, opts ConvertOptions) (ConvertResult, error) {
	start := time.Now()
	var res ConvertResult

	years, byYear := GroupByYear(sources)
	for _, year := range years {
		if opts.Year != "" && year != opts.Year {
			continue
		}
		if err := ctx.Err(); err != nil {
			return res, err
		}
		summary, err := s.convertYear(ctx, year, byYear[year], opts)
		if err != nil {
			return res, err
		}
		res.Years = append(res.Years, summary)
		res.Diagnostics.Add(summary.Diagnostics)
	}

	if s.db != nil {
		traceID, err := s.db.InsertRun("convert", map[string]float64{"totalMs": float64(time.Since(start).Milliseconds())}, res.Diagnostics)
		if err != nil {
			return res, err
		}
		res.TraceID = traceID
	}
	return res, nil
}

func (s *ConvertService) convertYear(ctx context.Context, year string, sources []SourceEntry, opts ConvertOptions) (YearSummary, error) {
	summary := YearSummary{Year: year}
	tbl := table.New(year)
	out := filepath.Join(s.cfg.OutputDir, ConsolidatedFileName(year))

	// Sources already folded into the existing file are not extracted a
	// second time, or their votes would be summed twice by Collapse.
	var merged map[string]string
	if opts.MergeExisting {
		existing, err := s.extractor.ReadConsolidated(out)
		switch {
		case err == nil:
			tbl.Merge(table.New(year, existing...))
			if merged, err = s.mergedSources(year); err != nil {
				return summary, err
			}
		case errors.Is(err, os.ErrNotExist):
		case internal.IsFormatError(err):
			s.logger.Warn("existing consolidated file not merged", zap.String("year", year), zap.String("file", out), zap.Error(err))
			summary.Diagnostics.FormatErrors++
		default:
			return summary, err
		}
	}

	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		summary.Sources++
		log := s.logger.With(zap.String("year", year), zap.String("file", src.Path), zap.String("format", string(src.Format)))

		ext, err := s.extractor.Extract(src)
		if err == nil && merged != nil && merged[filepath.Clean(src.Path)] == ext.SHA256 {
			log.Info("source already in consolidated file, not merged again")
			continue
		}
		record := storage.SourceRecord{Year: year, Path: src.Path, Format: src.Format, SHA256: ext.SHA256, Status: storage.SourceOK}
		if err != nil {
			var fe *internal.FormatError
			if !errors.As(err, &fe) {
				return summary, err
			}
			log.Warn("source skipped", zap.Error(err))
			summary.Failed++
			summary.Diagnostics.FormatErrors++
			record.Status = storage.SourceFormatError
			record.Error = err.Error()
		} else {
			log.Info("source extracted", zap.Int("rows", len(ext.Rows)), zap.Int("counties", ext.Counties))
			tbl.Append(ext.Rows...)
			summary.Diagnostics.Add(ext.Diagnostics)
			record.Rows = len(ext.Rows)
		}
		if s.db != nil {
			if err := s.db.UpsertSource(record); err != nil {
				return summary, err
			}
		}
	}

	stats := tbl.Normalize(s.roster)
	summary.Diagnostics.UnresolvedIdentity += stats.UnknownOffice
	summary.Diagnostics.SkippedRows += stats.DroppedRows
	if stats.UnknownOffice > 0 {
		s.logger.Info("rows kept with unknown office", zap.String("year", year), zap.Int("rows", stats.UnknownOffice))
	}
	tbl.Collapse()
	tbl.Sort()

	if tbl.Len() == 0 {
		s.logger.Warn("no rows for year, nothing written", zap.String("year", year))
		return summary, nil
	}

	rows := tbl.Rows()
	if err := WriteConsolidatedCSV(out, rows); err != nil {
		return summary, err
	}
	if s.db != nil {
		if err := s.db.ReplaceYearRows(year, rows); err != nil {
			return summary, err
		}
	}

	summary.Rows = len(rows)
	summary.Counties = tbl.CountyCount()
	summary.Offices = sortedStrings(tbl.Offices())
	summary.Output = out
	s.logger.Info("year consolidated",
		zap.String("year", year), zap.Int("rows", summary.Rows), zap.Int("counties", summary.Counties), zap.String("output", out))
	return summary, nil
}

// mergedSources maps the cleaned path of every source recorded as converted
// for year to its sha256. Without a ledger nothing is known to be merged.
func (s *ConvertService) mergedSources(year string) (map[string]string, error) {
	out := map[string]string{}
	if s.db == nil {
		return out, nil
	}
	records, err := s.db.ListSources(year)
	if err != nil {
		return nil, err
	}
	for _, r := range records {
		if r.Status == storage.SourceOK && r.SHA256 != "" {
			out[filepath.Clean(r.Path)] = r.SHA256
		}
	}
	return out, nil
}
