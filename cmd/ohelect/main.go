package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ohelect/internal/config"
	"ohelect/internal/identity"
	"ohelect/internal/logging"
	"ohelect/internal/pipeline"
	"ohelect/internal/storage"
)

var (
	defaultMarginYears    = []string{"2008", "2012", "2016", "2020", "2024"}
	defaultMarginCounties = []string{"Mahoning", "Trumbull", "Lorain", "Lucas", "Montgomery", "Ottawa", "Sandusky", "Wood"}
)

// app holds what every subcommand needs once the root pre-run has loaded it.
type app struct {
	verbose bool
	envFile string

	cfg    config.Config
	logger *zap.Logger
	roster *identity.Roster
}

func newRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:   "ohelect",
		Short: "Ohio general election results: raw exports to consolidated CSV and contest JSON",
		Long: `ohelect normalizes Ohio general election exports (Secretary of State wide
files, OpenElections precinct CSVs, name-list files and hand-transcribed tables)
into one consolidated CSV per year, then aggregates those into a per-contest,
per-county JSON document with margins and competitiveness bands.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var envFiles []string
			if a.envFile != "" {
				envFiles = append(envFiles, a.envFile)
			}
			cfg, err := config.Load(envFiles...)
			if err != nil {
				return err
			}
			a.cfg = cfg

			logger, err := logging.New(cfg.LogLevel, cfg.LogEncoding, a.verbose)
			if err != nil {
				return err
			}
			a.logger = logger

			roster, err := identity.Load(cfg.RosterPath)
			if err != nil {
				return err
			}
			a.roster = roster
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}

	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&a.envFile, "env-file", "", "Read configuration from this env file instead of .env")

	root.AddCommand(
		a.convertCmd(),
		a.transformCmd(),
		a.marginsCmd(),
		a.exportCmd(),
		a.statusCmd(),
	)
	return root
}

func (a *app) convertCmd() *cobra.Command {
	var (
		year          string
		mergeExisting bool
	)
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert raw sources into per-year consolidated CSVs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := a.sources()
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				return fmt.Errorf("no sources found (manifest %s, data dir %s)", a.cfg.ManifestPath, a.cfg.DataDir)
			}

			db, err := storage.Open(a.cfg.DBPath)
			if err != nil {
				return err
			}
			defer db.Close()

			svc := pipeline.NewConvertService(db, a.cfg, a.roster, a.logger)
			res, err := svc.Convert(cmd.Context(), entries, pipeline.ConvertOptions{
				Year:          strings.TrimSpace(year),
				MergeExisting: mergeExisting,
			})
			if err != nil {
				return err
			}
			pipeline.RenderConvertSummary(cmd.OutOrStdout(), res)
			return nil
		},
	}
	cmd.Flags().StringVar(&year, "year", "", "Only convert this election year")
	cmd.Flags().BoolVar(&mergeExisting, "merge-existing", false, "Merge with rows already in the year's consolidated CSV")
	return cmd
}

// sources reads the manifest. Without one, OpenElections files in the data
// dir are still picked up.
func (a *app) sources() ([]pipeline.SourceEntry, error) {
	m, err := pipeline.LoadManifest(a.cfg.ManifestPath, a.cfg.DataDir)
	if errors.Is(err, os.ErrNotExist) {
		a.logger.Info("no manifest, discovering openelections files", zap.String("manifest", a.cfg.ManifestPath))
		m = pipeline.Manifest{DiscoverOpenElections: true}
	} else if err != nil {
		return nil, err
	}
	return m.Entries(a.cfg.DataDir)
}

func (a *app) transformCmd() *cobra.Command {
	var noDistrictFilter bool
	cmd := &cobra.Command{
		Use:   "transform",
		Short: "Aggregate consolidated CSVs into the contest JSON document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := storage.Open(a.cfg.DBPath)
			if err != nil {
				return err
			}
			defer db.Close()

			svc := pipeline.NewTransformService(db, a.cfg, a.roster, a.logger)
			res, err := svc.Transform(cmd.Context(), pipeline.TransformOptions{
				FilterDistrictRaces: a.cfg.FilterDistrictRaces && !noDistrictFilter,
			})
			if err != nil {
				return err
			}
			pipeline.RenderTransformSummary(cmd.OutOrStdout(), res)
			return nil
		},
	}
	cmd.Flags().BoolVar(&noDistrictFilter, "no-district-filter", false, "Keep U.S. House and state legislative contests")
	return cmd
}

func (a *app) marginsCmd() *cobra.Command {
	var (
		office   string
		input    string
		years    []string
		counties []string
	)
	cmd := &cobra.Command{
		Use:   "margins",
		Short: "Print county margins for an office across years",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if input == "" {
				input = a.cfg.JSONOutputPath()
			}
			doc, err := pipeline.ReadDocument(input)
			if err != nil {
				return err
			}
			lines := pipeline.Margins(doc, office, years, counties)
			pipeline.RenderMargins(cmd.OutOrStdout(), office, lines)
			return nil
		},
	}
	cmd.Flags().StringVar(&office, "office", "President", "Office to report")
	cmd.Flags().StringVar(&input, "input", "", "Contest JSON document (defaults to the configured output)")
	cmd.Flags().StringSliceVar(&years, "years", defaultMarginYears, "Election years")
	cmd.Flags().StringSliceVar(&counties, "counties", defaultMarginCounties, "Counties")
	return cmd
}

func (a *app) exportCmd() *cobra.Command {
	var year, out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a year's consolidated rows from the ledger to xlsx",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := storage.Open(a.cfg.DBPath)
			if err != nil {
				return err
			}
			defer db.Close()

			if year == "" {
				if year, err = pipeline.LatestYear(db); err != nil {
					return err
				}
			}
			rows, err := db.ListYearRows(year)
			if err != nil {
				return err
			}
			if len(rows) == 0 {
				return fmt.Errorf("no rows for %s in %s; run convert first", year, a.cfg.DBPath)
			}
			if err := pipeline.ExportRowsToXLSX(year, rows, out); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d rows for %s to %s\n", len(rows), year, out)
			return nil
		},
	}
	cmd.Flags().StringVar(&year, "year", "", "Election year (defaults to the latest converted year)")
	cmd.Flags().StringVar(&out, "out", "", "Output xlsx path")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func (a *app) statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the last runs and the sources recorded in the ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := storage.Open(a.cfg.DBPath)
			if err != nil {
				return err
			}
			defer db.Close()

			st, err := pipeline.LoadStatus(db)
			if err != nil {
				return err
			}
			pipeline.RenderStatus(cmd.OutOrStdout(), st)
			return nil
		},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
