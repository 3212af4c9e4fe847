// Package cmd - estimate command
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/7mit3/BidFix-sub000/core/catalog"
	"github.com/7mit3/BidFix-sub000/core/export"
	"github.com/7mit3/BidFix-sub000/core/jobfile"
	"github.com/7mit3/BidFix-sub000/core/penetration"
	"github.com/7mit3/BidFix-sub000/core/session"
	"github.com/7mit3/BidFix-sub000/db"
	"github.com/7mit3/BidFix-sub000/internal/logging"
)

var (
	outputFormat string
	outputFile   string
	saveEstimate bool
	showRows     bool
	skipDB       bool
)

// estimateCmd represents the estimate command
var estimateCmd = &cobra.Command{
	Use:   "estimate [job.roof]",
	Short: "Compile a priced bid from a job document",
	Long: `Read a .roof job document and compile it into a priced bid.

The bid is grouped into materials, penetrations, labor, and equipment
sections, each carrying its own tax and profit. Persisted price
overrides are applied when the price database is reachable; otherwise
catalog defaults are used.

Examples:
  bidfix estimate warehouse.roof
  bidfix estimate --format json warehouse.roof
  bidfix estimate --format xlsx --out bid.xlsx warehouse.roof
  bidfix estimate --save warehouse.roof`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEstimate,
}

func init() {
	estimateCmd.Flags().StringVarP(&outputFormat, "format", "f", "cli", "output format (cli, json, csv, xlsx)")
	estimateCmd.Flags().StringVarP(&outputFile, "out", "o", "", "write output to a file instead of stdout")
	estimateCmd.Flags().BoolVar(&saveEstimate, "save", false, "save the compiled bid to the price database")
	estimateCmd.Flags().BoolVarP(&showRows, "details", "d", true, "show per-item rows in cli output")
	estimateCmd.Flags().BoolVar(&skipDB, "no-db", false, "skip the price database and use catalog defaults")
}

func runEstimate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	path := "job.roof"
	if len(args) > 0 {
		path = args[0]
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("job file does not exist: %s", path)
	}

	logging.Info("Starting bid compilation")

	job, err := jobfile.Load(path)
	if err != nil {
		return err
	}

	catalog.Init()
	penetration.Init()

	sess, err := job.NewSession(catalog.GlobalCatalog, penetration.Default())
	if err != nil {
		return err
	}

	// Apply persisted price overrides. A missing or broken database is
	// not fatal: the bid falls back to catalog defaults
	var store *db.Store
	if !skipDB {
		store, err = openStore()
		if err != nil {
			color.Yellow("Warning: %v (using catalog defaults)", err)
		} else {
			defer store.Close()
			if err := sess.RefreshPrices(ctx, store); err != nil {
				color.Yellow("Warning: price refresh failed (using catalog defaults)")
			}
		}
	}

	result := sess.Compile()

	if saveEstimate {
		if store == nil {
			return fmt.Errorf("cannot save: price database not available")
		}
		if err := persistEstimate(ctx, store, sess, result); err != nil {
			return err
		}
		fmt.Printf("Saved estimate %s\n\n", sess.ID())
	}

	switch outputFormat {
	case "cli":
		printBid(job.Name, result)
		return nil
	case "json":
		return writeJSONOutput(result)
	case "csv", "xlsx":
		return writeExport(job.Name, result)
	default:
		return fmt.Errorf("unsupported format: %s (use cli, json, csv, or xlsx)", outputFormat)
	}
}

func persistEstimate(ctx context.Context, store *db.Store, sess *session.Session, result *session.Result) error {
	data, err := sess.Snapshot().Encode()
	if err != nil {
		return err
	}
	return store.SaveEstimate(ctx, db.EstimateRecord{
		ID:         sess.ID(),
		Name:       sess.Name(),
		System:     sess.System(),
		GrandTotal: result.GrandTotal.String(),
		SavedAt:    time.Now().UTC(),
		Data:       data,
	})
}

func writeJSONOutput(result *session.Result) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	if outputFile == "" {
		fmt.Println(string(data))
		return nil
	}
	return os.WriteFile(outputFile, append(data, '\n'), 0644)
}

func writeExport(title string, result *session.Result) error {
	doc := export.Document{
		Title:     title,
		System:    result.System.Label(),
		Date:      time.Now().Format("2006-01-02"),
		Breakdown: result.Breakdown,
	}

	if outputFormat == "csv" {
		if outputFile == "" {
			return export.WriteCSV(os.Stdout, doc)
		}
	} else if outputFile == "" {
		outputFile = "bid.xlsx"
	}

	if err := export.WriteFile(outputFile, doc); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", outputFile)
	return nil
}

func printBid(title string, result *session.Result) {
	if title == "" {
		title = "Untitled job"
	}

	fmt.Println("┌─────────────────────────────────────────────────────────────────────────┐")
	fmt.Printf("│ %-71s │\n", truncate(title+" - "+result.System.Label(), 71))
	fmt.Println("├─────────────────────────────────────────────────────────────────────────┤")

	if result.Insulation.Layers > 0 {
		fmt.Printf("│ %-71s │\n", fmt.Sprintf("Insulation: %s in, R-%s across %d layers",
			trimFloat(result.Insulation.Thickness), trimFloat(result.Insulation.RValue), result.Insulation.Layers))
	}
	if sel := result.Fasteners.Insulation; sel != nil {
		fmt.Printf("│ %-71s │\n", fmt.Sprintf("Insulation screws: %s (%s in) x %d", sel.ProductID, trimFloat(sel.Length), sel.Count))
		if sel.Short {
			fmt.Printf("│ %-71s │\n", fmt.Sprintf("  longest in catalog; %s in required", trimFloat(sel.Required)))
		}
	}
	if sel := result.Fasteners.Membrane; sel != nil {
		fmt.Printf("│ %-71s │\n", fmt.Sprintf("Membrane screws: %s (%s in) x %d", sel.ProductID, trimFloat(sel.Length), sel.Count))
	}
	if result.LaborMinutes > 0 {
		fmt.Printf("│ %-71s │\n", fmt.Sprintf("Penetration labor: %s minutes", trimFloat(result.LaborMinutes)))
	}

	for _, section := range result.Breakdown.Sections {
		fmt.Println("├─────────────────────────────────────────────────────────────────────────┤")
		fmt.Printf("│ %-71s │\n", strings.ToUpper(section.Kind.Label()))

		if showRows {
			for _, row := range section.Rows {
				label := row.Label
				if row.Detail != "" {
					label += " - " + row.Detail
				}
				if !row.Included {
					label += " (off)"
				}
				fmt.Printf("│   └─ %-46s %20s │\n",
					truncate(label, 46),
					money(row.Contribution()))
			}
		}

		fmt.Printf("│ %-50s %20s │\n", "  Subtotal", money(section.Base()))
		if section.Modifiers.TaxEnabled {
			fmt.Printf("│ %-50s %20s │\n",
				fmt.Sprintf("  Tax (%s%%)", trimFloat(section.Modifiers.TaxPercent)), money(section.Tax()))
		}
		if section.Modifiers.ProfitEnabled {
			fmt.Printf("│ %-50s %20s │\n",
				fmt.Sprintf("  Profit (%s%%)", trimFloat(section.Modifiers.ProfitPercent)), money(section.Profit()))
		}
		fmt.Printf("│ %-50s %20s │\n", "  Section Total", money(section.Total()))
	}

	fmt.Println("├─────────────────────────────────────────────────────────────────────────┤")
	fmt.Printf("│ %-50s %20s │\n", "GRAND TOTAL", money(result.GrandTotal))
	fmt.Println("└─────────────────────────────────────────────────────────────────────────┘")

	if result.PricingDegraded {
		color.Yellow("\nPrice database unavailable - catalog defaults were used.")
	}
}

func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

// trimFloat renders a float without trailing zeros
func trimFloat(f float64) string {
	s := fmt.Sprintf("%.2f", f)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
