// Package cmd provides the CLI commands for bidfix.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/7mit3/BidFix-sub000/core/jobfile"
	"github.com/7mit3/BidFix-sub000/db"
	"github.com/7mit3/BidFix-sub000/internal/config"
	"github.com/7mit3/BidFix-sub000/internal/logging"
)

var (
	cfgFile string
	dbPath  string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "bidfix",
	Short: "Estimate commercial roofing projects",
	Long: `bidfix is a material cost estimator for commercial roofing.

It compiles a roof assembly and field measurements into a priced bid:
material takeoff, penetration kits, labor, and equipment, with tax and
profit applied per section.

Examples:
  bidfix estimate warehouse.roof
  bidfix estimate --format xlsx --out bid.xlsx warehouse.roof
  bidfix catalog list --system tpo
  bidfix pricing set tpo-60 875.50 --system tpo`,
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.bidfix/config.json)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "price database file (default from config or $BIDFIX_DB)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	// Add subcommands
	rootCmd.AddCommand(estimateCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	if cfgFile != "" {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		config.Set(cfg)
	}

	// Initialize logging
	cfg := config.Get()
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
}

// databasePath resolves the price database location: the --db flag,
// then $BIDFIX_DB, then the configured default
func databasePath() string {
	if dbPath != "" {
		return dbPath
	}
	if env := os.Getenv("BIDFIX_DB"); env != "" {
		return env
	}
	return config.Get().Pricing.DatabasePath
}

// openStore opens the price database, creating it on first use
func openStore() (*db.Store, error) {
	store, err := db.NewStore(databasePath())
	if err != nil {
		return nil, fmt.Errorf("opening price database: %w", err)
	}
	return store, nil
}

// versionCmd prints version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("bidfix version 1.0.0")
	},
}

// initCmd scaffolds a new job document
var initCmd = &cobra.Command{
	Use:   "init [file]",
	Short: "Write an example job document to start from",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "job.roof"
		if len(args) > 0 {
			path = args[0]
		}
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists, refusing to overwrite", path)
		}
		if err := os.WriteFile(path, []byte(jobfile.Example()), 0644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		fmt.Printf("Wrote %s - edit it and run: bidfix estimate %s\n", path, path)
		return nil
	},
}
