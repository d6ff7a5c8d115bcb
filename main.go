package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime/pprof"
	"time"

	"github.com/BRI-EES-House/sap_calc_go/internal/config"
	"github.com/BRI-EES-House/sap_calc_go/internal/livestore"
	"github.com/BRI-EES-House/sap_calc_go/internal/metrics"
	"github.com/BRI-EES-House/sap_calc_go/sap_calc"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "sap_calc",
		Short:        "Dwelling energy performance calculation",
		SilenceUsage: true,
	}
	root.AddCommand(newRunCmd(), newPricesCmd())
	return root
}

type runFlags struct {
	input        string
	notional     string
	output       string
	configPath   string
	tablesDir    string
	liveDB       string
	preferLive   bool
	variants     []string
	metricsFile  string
	pprofEnabled bool
	verbose      bool
}

func newRunCmd() *cobra.Command {
	var f runFlags
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Calculate the variants of one dwelling",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCalculation(cmd, f)
		},
	}
	fl := cmd.Flags()
	fl.StringVarP(&f.input, "input", "i", "", "dwelling JSON file or URL")
	fl.StringVar(&f.notional, "notional", "", "notional dwelling JSON for the TER variant")
	fl.StringVarP(&f.output, "output", "o", "", "output folder")
	fl.StringVar(&f.configPath, "config", "", "YAML run configuration")
	fl.StringVar(&f.tablesDir, "tables", "", "folder of reference table CSV files")
	fl.StringVar(&f.liveDB, "live-db", "", "SQLite database of live fuel prices")
	fl.BoolVar(&f.preferLive, "prefer-live", false, "prefer live fuel prices over the tables")
	fl.StringSliceVar(&f.variants, "variants", nil, "variants to run: sap, fee, der, ter")
	fl.StringVar(&f.metricsFile, "metrics", "", "write Prometheus metrics to this textfile")
	fl.BoolVar(&f.pprofEnabled, "pprof", false, "profile the run and save it to cpu.prof")
	fl.BoolVarP(&f.verbose, "verbose", "v", false, "log every resolver stage")
	cmd.MarkFlagRequired("input")
	return cmd
}

func runCalculation(cmd *cobra.Command, f runFlags) error {
	level := slog.LevelInfo
	if f.verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	sap_calc.SetLogger(log)

	cfg := config.Default()
	if f.configPath != "" {
		var err error
		if cfg, err = config.Load(f.configPath); err != nil {
			return err
		}
	}
	fl := cmd.Flags()
	if fl.Changed("tables") {
		cfg.TablesDir = f.tablesDir
	}
	if fl.Changed("live-db") {
		cfg.LivePriceDB = f.liveDB
	}
	if fl.Changed("prefer-live") {
		cfg.PreferLivePrices = f.preferLive
	}
	if fl.Changed("variants") {
		cfg.Variants = f.variants
	}
	if fl.Changed("output") {
		cfg.OutputDir = f.output
	}
	if fl.Changed("metrics") {
		cfg.MetricsTextfile = f.metricsFile
	}

	if f.pprofEnabled {
		pf, err := os.Create("cpu.prof")
		if err != nil {
			return err
		}
		defer pf.Close()
		if err := pprof.StartCPUProfile(pf); err != nil {
			return err
		}
		defer pprof.StopCPUProfile()
	}

	start := time.Now()

	tables, err := loadTables(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	variants := make([]sap_calc.Variant, 0, len(cfg.Variants))
	for _, s := range cfg.Variants {
		v, err := sap_calc.VariantFromString(s)
		if err != nil {
			return err
		}
		variants = append(variants, v)
	}

	m := metrics.New()
	_, err = sap_calc.Run(sap_calc.Options{
		InputPath:    f.input,
		NotionalPath: f.notional,
		OutputDir:    cfg.OutputDir,
		Tables:       tables,
		Variants:     variants,
		Observe: func(v sap_calc.Variant, err error, elapsed time.Duration) {
			m.ObserveCalculation(v.String(), sap_calc.ErrorClass(err), elapsed)
		},
	})
	if cfg.MetricsTextfile != "" {
		if werr := m.WriteTextfile(cfg.MetricsTextfile); werr != nil {
			log.Error("write metrics", "path", cfg.MetricsTextfile, "err", werr)
		}
	}
	if err != nil {
		return err
	}

	log.Info("elapsed_time", "sec", time.Since(start).Seconds())
	return nil
}

// loadTables reads the reference tables and overlays the live prices when configured.
func loadTables(ctx context.Context, cfg config.Config) (*sap_calc.Tables, error) {
	var t *sap_calc.Tables
	var err error
	if cfg.TablesDir != "" {
		t, err = sap_calc.LoadTablesDir(cfg.TablesDir)
	} else {
		t, err = sap_calc.DefaultTables()
	}
	if err != nil {
		return nil, err
	}

	sap_calc.SetPreferLivePrices(cfg.PreferLivePrices)
	if cfg.LivePriceDB == "" {
		return t, nil
	}
	store, err := livestore.Open(cfg.LivePriceDB)
	if err != nil {
		return nil, err
	}
	defer store.Close()
	live, err := store.Latest(ctx)
	if err != nil {
		return nil, err
	}
	return t.WithFuels(t.Fuels.WithLivePrices(live)), nil
}

//---------------------------------------------------------------------------------------------------//

func newPricesCmd() *cobra.Command {
	var db string
	cmd := &cobra.Command{
		Use:   "prices",
		Short: "Manage live fuel prices",
	}
	cmd.PersistentFlags().StringVar(&db, "db", "prices.db", "SQLite database of live fuel prices")

	cmd.AddCommand(&cobra.Command{
		Use:   "import <csv>",
		Short: "Import fuel_code,price,source rows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := livestore.Open(db)
			if err != nil {
				return err
			}
			defer store.Close()
			r, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer r.Close()
			n, err := store.ImportCSV(cmd.Context(), r)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d prices\n", n)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Show the latest price of every fuel",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := livestore.Open(db)
			if err != nil {
				return err
			}
			defer store.Close()
			snaps, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			seen := map[int]bool{}
			for _, s := range snaps {
				if seen[s.FuelCode] {
					continue
				}
				seen[s.FuelCode] = true
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%.2f\t%s\t%s\n", s.FuelCode, s.Price, s.Source, s.FetchedAt.Format(time.RFC3339))
			}
			return nil
		},
	})
	return cmd
}
