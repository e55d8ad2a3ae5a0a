package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"ohelect/internal"
	"ohelect/internal/config"
	"ohelect/internal/contest"
	"ohelect/internal/identity"
	"ohelect/internal/storage"
	"ohelect/internal/table"
)

var (
	ErrNoConsolidated = errors.New("no consolidated files found")

	reConsolidatedFile = regexp.MustCompile(`^(\d{4})__oh__general__consolidated\.csv$`)
)

// TransformService aggregates the consolidated year CSVs into the combined
// JSON document. Years are processed independently and merged before one
// write.
type TransformService struct {
	db        *storage.DB
	cfg       config.Config
	roster    *identity.Roster
	extractor *Extractor
	logger    *zap.Logger
	now       func() time.Time
}

func NewTransformService(db *storage.DB, cfg config.Config, roster *identity.Roster, logger *zap.Logger) *TransformService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TransformService{
		db:        db,
		cfg:       cfg,
		roster:    roster,
		extractor: NewExtractor(roster, logger),
		logger:    logger,
		now:       time.Now,
	}
}

type TransformOptions struct {
	FilterDistrictRaces bool
}

type TransformResult struct {
	TraceID     string
	Output      string
	Document    internal.Document
	Reports     []contest.Report
	Diagnostics internal.Diagnostics
}

// ConsolidatedFiles maps year to consolidated CSV path for files in dir.
func ConsolidatedFiles(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	out := map[string]string{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if m := reConsolidatedFile.FindStringSubmatch(entry.Name()); m != nil {
			out[m[1]] = filepath.Join(dir, entry.Name())
		}
	}
	return out, nil
}

func (s *TransformService) Transform(ctx context.Context, opts TransformOptions) (TransformResult, error) {
	start := time.Now()
	var res TransformResult

	files, err := ConsolidatedFiles(s.cfg.OutputDir)
	if err != nil {
		return res, err
	}
	if len(files) == 0 {
		return res, ErrNoConsolidated
	}

	years := make([]string, 0, len(files))
	for y := range files {
		years = append(years, y)
	}
	sort.Strings(years)

	results := make([]internal.YearResults, len(years))
	reports := make([]contest.Report, len(years))
	failed := make([]bool, len(years))
	agg := contest.NewAggregator(s.roster, s.logger)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, s.cfg.YearWorkers))
	for i, year := range years {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rows, err := s.extractor.ReadConsolidated(files[year])
			if err != nil {
				if !internal.IsFormatError(err) {
					return err
				}
				s.logger.Warn("consolidated file skipped", zap.String("year", year), zap.String("file", files[year]), zap.Error(err))
				reports[i] = contest.Report{Year: year, Diagnostics: internal.Diagnostics{FormatErrors: 1}}
				failed[i] = true
				return nil
			}
			tbl := table.New(year, rows...)
			tbl.Normalize(s.roster)
			rows = tbl.Rows()
			if opts.FilterDistrictRaces {
				rows = contest.FilterDistrictRaces(rows)
			}
			results[i], reports[i] = agg.Aggregate(year, rows)
			s.logger.Info("year aggregated",
				zap.String("year", year), zap.Int("contests", reports[i].Contests), zap.Int("results", reports[i].Results))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return res, err
	}

	covered := make([]int, 0, len(years))
	byYear := make(map[string]internal.YearResults, len(years))
	for i, year := range years {
		res.Diagnostics.Add(reports[i].Diagnostics)
		if failed[i] {
			continue
		}
		n, _ := strconv.Atoi(year)
		covered = append(covered, n)
		byYear[year] = results[i]
	}

	res.Document = internal.Document{
		Metadata:      s.metadata(covered),
		ResultsByYear: byYear,
	}
	res.Reports = reports
	res.Output = s.cfg.JSONOutputPath()
	if err := WriteDocument(res.Output, res.Document); err != nil {
		return res, err
	}

	if s.db != nil {
		traceID, err := s.db.InsertRun("transform", map[string]float64{"totalMs": float64(time.Since(start).Milliseconds())}, res.Diagnostics)
		if err != nil {
			return res, err
		}
		res.TraceID = traceID
		if err := s.db.SetMetadata("lastTransformOutput", res.Output); err != nil {
			return res, err
		}
	}
	return res, nil
}

func (s *TransformService) metadata(years []int) internal.Metadata {
	state := s.roster.State
	return internal.Metadata{
		State:         state.Name,
		StateCode:     state.Code,
		TotalCounties: len(state.Counties),
		YearsCovered:  years,
		DataSource:    state.DataSource,
		GeneratedDate: s.now().Format("2006-01-02"),
	}
}
