// Package cmd - catalog inspection commands
package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/7mit3/BidFix-sub000/core/catalog"
)

var catalogSystem string

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect the product catalog",
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog products for a roofing system",
	RunE:  runCatalogList,
}

var catalogShowCmd = &cobra.Command{
	Use:   "show <product-id>",
	Short: "Show one catalog product",
	Args:  cobra.ExactArgs(1),
	RunE:  runCatalogShow,
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogShowCmd)

	catalogCmd.PersistentFlags().StringVarP(&catalogSystem, "system", "s", "tpo", "roofing system (tpo, pvc, metal)")
}

// resolveSystem validates the --system flag
func resolveSystem() (catalog.System, error) {
	system := catalog.System(catalogSystem)
	if !catalog.ValidSystem(system) {
		return "", fmt.Errorf("unknown system: %s (use tpo, pvc, or metal)", catalogSystem)
	}
	return system, nil
}

func runCatalogList(cmd *cobra.Command, args []string) error {
	system, err := resolveSystem()
	if err != nil {
		return err
	}

	catalog.Init()
	cat := catalog.GlobalCatalog

	fmt.Printf("%s catalog\n\n", system.Label())
	for _, category := range catalog.Categories() {
		products := cat.ByCategory(system, category)
		if len(products) == 0 {
			continue
		}
		color.Green("%s", category.Label())
		for _, p := range products {
			fmt.Printf("  %-16s %-38s %8s / %s\n",
				p.ID, truncate(p.Name, 38), "$"+p.Price.StringFixed(2), p.Unit)
		}
		fmt.Println()
	}
	return nil
}

func runCatalogShow(cmd *cobra.Command, args []string) error {
	system, err := resolveSystem()
	if err != nil {
		return err
	}

	catalog.Init()
	p, ok := catalog.GlobalCatalog.Get(system, args[0])
	if !ok {
		return fmt.Errorf("product %s not found in %s catalog", args[0], system)
	}

	fmt.Printf("%-12s %s\n", "ID:", p.ID)
	fmt.Printf("%-12s %s\n", "Name:", p.Name)
	fmt.Printf("%-12s %s\n", "System:", p.System.Label())
	fmt.Printf("%-12s %s\n", "Category:", p.Category.Label())
	fmt.Printf("%-12s %s\n", "Unit:", p.Unit)
	fmt.Printf("%-12s %s\n", "Coverage:", trimFloat(p.Coverage))
	fmt.Printf("%-12s $%s\n", "Price:", p.Price.StringFixed(2))
	if p.Thickness > 0 {
		fmt.Printf("%-12s %s in\n", "Thickness:", trimFloat(p.Thickness))
	}
	if p.RValue > 0 {
		fmt.Printf("%-12s %s\n", "R-value:", trimFloat(p.RValue))
	}
	if p.Mil > 0 {
		fmt.Printf("%-12s %d\n", "Mil:", p.Mil)
	}
	if p.Length > 0 {
		fmt.Printf("%-12s %s in (%s series)\n", "Length:", trimFloat(p.Length), p.Series)
	}
	return nil
}
