// Package cmd - price override management
// THIS IS THE ONLY WAY to change persisted pricing
package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/7mit3/BidFix-sub000/core/catalog"
	"github.com/7mit3/BidFix-sub000/core/pricing"
)

var (
	pricingSystem  string
	pricingConfirm bool
	pricingDryRun  bool
)

var pricingCmd = &cobra.Command{
	Use:   "pricing",
	Short: "Manage persisted price overrides",
	Long: `Manage the persisted price overrides applied to every bid.

Overrides live in the price database and survive restarts. Session
price edits made while building a bid are separate and always win
over these.`,
}

var pricingListCmd = &cobra.Command{
	Use:   "list",
	Short: "List price overrides for a roofing system",
	RunE:  runPricingList,
}

var pricingSetCmd = &cobra.Command{
	Use:   "set <product-id> <price>",
	Short: "Set a persisted price override",
	Args:  cobra.ExactArgs(2),
	RunE:  runPricingSet,
}

var pricingUnsetCmd = &cobra.Command{
	Use:   "unset <product-id>",
	Short: "Remove one price override",
	Args:  cobra.ExactArgs(1),
	RunE:  runPricingUnset,
}

var pricingResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Remove every override for a roofing system",
	RunE:  runPricingReset,
}

var pricingImportCmd = &cobra.Command{
	Use:   "import <sheet.yaml>",
	Short: "Import a distributor price sheet",
	Long: `Import a YAML distributor price sheet as persisted overrides.

The sheet names one roofing system and lists prices by catalog id.
Products the catalog does not stock are skipped and reported; existing
overrides are updated in place.`,
	Args: cobra.ExactArgs(1),
	RunE: runPricingImport,
}

func init() {
	rootCmd.AddCommand(pricingCmd)
	pricingCmd.AddCommand(pricingListCmd)
	pricingCmd.AddCommand(pricingSetCmd)
	pricingCmd.AddCommand(pricingUnsetCmd)
	pricingCmd.AddCommand(pricingResetCmd)
	pricingCmd.AddCommand(pricingImportCmd)

	pricingCmd.PersistentFlags().StringVarP(&pricingSystem, "system", "s", "tpo", "roofing system (tpo, pvc, metal)")

	pricingResetCmd.Flags().BoolVar(&pricingConfirm, "confirm", false, "skip the confirmation prompt")
	pricingImportCmd.Flags().BoolVar(&pricingDryRun, "dry-run", false, "validate the sheet without writing")
}

func pricingSystemArg() (catalog.System, error) {
	system := catalog.System(pricingSystem)
	if !catalog.ValidSystem(system) {
		return "", fmt.Errorf("unknown system: %s (use tpo, pvc, or metal)", pricingSystem)
	}
	return system, nil
}

func runPricingList(cmd *cobra.Command, args []string) error {
	system, err := pricingSystemArg()
	if err != nil {
		return err
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	overrides, err := store.PriceMap(context.Background(), system)
	if err != nil {
		return err
	}
	if len(overrides) == 0 {
		fmt.Printf("No price overrides for %s.\n", system.Label())
		return nil
	}

	catalog.Init()
	ids := make([]string, 0, len(overrides))
	for id := range overrides {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	fmt.Printf("%s price overrides\n\n", system.Label())
	fmt.Printf("  %-16s %12s %12s\n", "PRODUCT", "OVERRIDE", "DEFAULT")
	for _, id := range ids {
		def := "-"
		if p, ok := catalog.GlobalCatalog.Get(system, id); ok {
			def = "$" + p.Price.StringFixed(2)
		}
		fmt.Printf("  %-16s %12s %12s\n", id, "$"+overrides[id].StringFixed(2), def)
	}
	return nil
}

func runPricingSet(cmd *cobra.Command, args []string) error {
	system, err := pricingSystemArg()
	if err != nil {
		return err
	}

	price, err := decimal.NewFromString(args[1])
	if err != nil {
		return fmt.Errorf("%q is not a price", args[1])
	}

	catalog.Init()
	if _, ok := catalog.GlobalCatalog.Get(system, args[0]); !ok {
		return fmt.Errorf("product %s not found in %s catalog", args[0], system)
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.SetPrice(context.Background(), system, args[0], price); err != nil {
		return err
	}
	fmt.Printf("Set %s to $%s\n", args[0], price.StringFixed(2))
	return nil
}

func runPricingUnset(cmd *cobra.Command, args []string) error {
	system, err := pricingSystemArg()
	if err != nil {
		return err
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.DeletePrice(context.Background(), system, args[0]); err != nil {
		return err
	}
	fmt.Printf("Removed override for %s\n", args[0])
	return nil
}

func runPricingReset(cmd *cobra.Command, args []string) error {
	system, err := pricingSystemArg()
	if err != nil {
		return err
	}

	// SAFETY: every override for the system goes away
	if !pricingConfirm {
		fmt.Printf("This removes ALL price overrides for %s.\n", system.Label())
		fmt.Print("Type 'yes' to confirm: ")

		reader := bufio.NewReader(os.Stdin)
		input, _ := reader.ReadString('\n')
		input = strings.TrimSpace(strings.ToLower(input))

		if input != "yes" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	removed, err := store.ClearPrices(context.Background(), system)
	if err != nil {
		return err
	}
	fmt.Printf("Removed %d overrides for %s\n", removed, system.Label())
	return nil
}

func runPricingImport(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading price sheet: %w", err)
	}

	sheet, err := pricing.ParseSheet(data)
	if err != nil {
		return err
	}

	catalog.Init()
	prices, skipped := sheet.Overrides(catalog.GlobalCatalog)

	fmt.Printf("Price sheet: %s\n", args[0])
	fmt.Printf("System:      %s\n", sheet.System)
	fmt.Printf("Priced:      %d products\n", len(prices))
	if len(skipped) > 0 {
		color.Yellow("Skipped:     %s (not in catalog)", strings.Join(skipped, ", "))
	}

	if pricingDryRun {
		fmt.Println("\nDry-run - no overrides written.")
		return nil
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	stats, err := store.ImportPrices(context.Background(), catalog.System(sheet.System), prices)
	if err != nil {
		return err
	}
	fmt.Printf("\nImported %d overrides (%d new, %d updated)\n",
		stats.Inserts+stats.Updates, stats.Inserts, stats.Updates)
	return nil
}
