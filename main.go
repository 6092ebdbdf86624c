package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/gigurra/expense-tracker/internal"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Params struct {
	File      string `descr:"Path to the ledger (workbook or database)" optional:"true"`
	Config    string `descr:"Path to config file (default: ~/.expense-tracker/config.yaml)" optional:"true"`
	Backend   string `descr:"Storage backend" alts:"xlsx,sqlite" strict:"true" optional:"true"`
	Currency  string `descr:"Currency code for display (e.g., EUR, USD, SEK). Auto-detected from system locale if not set" optional:"true"`
	Import    string `descr:"Import expenses from a file before anything else ([format:]path, formats: simple-json, csv, xlsx)" optional:"true"`
	Summary   bool   `descr:"Regenerate the summary with charts, print it and exit" optional:"true"`
	Output    string `descr:"Summary output format" alts:"table,json" strict:"true" default:"table"`
	ExportDir string `descr:"Write ledger.csv and summary.csv to this directory and exit" optional:"true"`
	LogLevel  string `descr:"Log level (trace, debug, info, warn, error)" optional:"true"`
	LogFormat string `descr:"Log format" alts:"text,json" strict:"true" optional:"true"`
}

func main() {
	boa.NewCmdT[Params]("expense-tracker").
		WithShort("Track personal expenses in a spreadsheet ledger").
		WithLong("Records dated, categorized expenses with a running total, keeps the ledger sorted by date, and generates a per-category summary with pie and bar charts.").
		WithRunFunc(func(params *Params) {
			if err := run(params, os.Stdin, os.Stdout, os.Stderr); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
		}).
		Run()
}

func run(params *Params, stdin io.Reader, stdout, stderr io.Writer) error {
	loadEnvSilently()

	configPath := params.Config
	if configPath == "" {
		configPath = internal.DefaultConfigPath()
	}

	fileCfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	cfg := *fileCfg
	cfg.ApplyEnv(os.Getenv)
	applyFlags(&cfg, params)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	log := internal.NewLogger(cfg.LogLevel, cfg.LogFormat, stderr)
	currency := internal.ResolveCurrency(cfg.Currency, os.Getenv)

	store, err := internal.OpenStore(cfg.Backend, cfg.File, log)
	if err != nil {
		return fmt.Errorf("opening ledger: %w", err)
	}
	defer store.Close()

	tracker, err := internal.NewTracker(store, internal.NewCategories(cfg.Categories),
		internal.WithLogger(log),
		internal.WithCategorySink(func(categories []string) error {
			if configPath == "" {
				return nil
			}
			fileCfg.Categories = categories
			return fileCfg.Save(configPath)
		}),
	)
	if err != nil {
		return err
	}

	if params.Import != "" {
		expenses, err := internal.ImportFile(params.Import)
		if err != nil {
			return err
		}
		if err := tracker.ImportExpenses(expenses); err != nil {
			return fmt.Errorf("importing %s: %w", params.Import, err)
		}
		format, path := internal.ParseFileArg(params.Import)
		log.WithFields(logrus.Fields{
			internal.FieldFile:   path,
			internal.FieldFormat: format,
			internal.FieldCount:  len(expenses),
		}).Info("Imported expenses")
		fmt.Fprintf(stdout, "Imported %d expenses\n", len(expenses))
	}

	if params.ExportDir != "" {
		return internal.ExportCSV(params.ExportDir, tracker.Rows(), tracker.Summary(), log)
	}

	if params.Summary {
		summary, err := tracker.Summarize()
		if err != nil {
			return err
		}
		if params.Output == "json" {
			return internal.PrintSummaryJSON(stdout, summary, len(tracker.Rows()), currency)
		}
		internal.PrintSummaryTable(stdout, summary, currency)
		return nil
	}

	return internal.NewShell(tracker, stdin, stdout, currency).Run()
}

// loadConfig reads the config file, falling back to defaults when it doesn't exist
func loadConfig(path string) (*internal.Config, error) {
	if path == "" {
		return internal.NewDefaultConfig(), nil
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return internal.NewDefaultConfig(), nil
	}
	cfg, err := internal.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyFlags(cfg *internal.Config, params *Params) {
	if params.File != "" {
		cfg.File = params.File
	}
	if params.Backend != "" {
		cfg.Backend = params.Backend
	}
	if params.Currency != "" {
		cfg.Currency = params.Currency
	}
	if params.LogLevel != "" {
		cfg.LogLevel = params.LogLevel
	}
	if params.LogFormat != "" {
		cfg.LogFormat = params.LogFormat
	}
	if cfg.Backend == internal.BackendSQLite && cfg.File == internal.DefaultLedgerFile {
		cfg.File = internal.DefaultDatabaseFile
	}
}

// loadEnvSilently loads a .env file from the working directory, if present
func loadEnvSilently() {
	envFile := filepath.Join(".", ".env")
	if _, err := os.Stat(envFile); err != nil {
		return
	}
	_ = godotenv.Load(envFile)
}
