// Package cmd - saved estimate management
package cmd

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/7mit3/BidFix-sub000/core/breakdown"
	"github.com/7mit3/BidFix-sub000/core/catalog"
	"github.com/7mit3/BidFix-sub000/core/export"
	"github.com/7mit3/BidFix-sub000/core/penetration"
	"github.com/7mit3/BidFix-sub000/core/session"
	"github.com/7mit3/BidFix-sub000/db"
)

var (
	bidsSystem string
	bidsFormat string
	bidsOut    string
)

var bidsCmd = &cobra.Command{
	Use:   "bids",
	Short: "Work with saved estimates",
	Long: `Work with estimates saved in the price database.

A saved estimate stores the full session: assembly, measurements,
price edits, and section toggles. Showing or exporting one replays it
against current persisted prices.`,
}

var bidsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved estimates, newest first",
	RunE:  runBidsList,
}

var bidsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Recompile and display a saved estimate",
	Args:  cobra.ExactArgs(1),
	RunE:  runBidsShow,
}

var bidsExportCmd = &cobra.Command{
	Use:   "export <id>",
	Short: "Export a saved estimate to CSV or Excel",
	Args:  cobra.ExactArgs(1),
	RunE:  runBidsExport,
}

var bidsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a saved estimate",
	Args:  cobra.ExactArgs(1),
	RunE:  runBidsDelete,
}

var bidsDiffCmd = &cobra.Command{
	Use:   "diff <base-id> <head-id>",
	Short: "Compare two saved estimates",
	Args:  cobra.ExactArgs(2),
	RunE:  runBidsDiff,
}

func init() {
	rootCmd.AddCommand(bidsCmd)
	bidsCmd.AddCommand(bidsListCmd)
	bidsCmd.AddCommand(bidsShowCmd)
	bidsCmd.AddCommand(bidsExportCmd)
	bidsCmd.AddCommand(bidsDeleteCmd)
	bidsCmd.AddCommand(bidsDiffCmd)

	bidsListCmd.Flags().StringVarP(&bidsSystem, "system", "s", "", "only list one roofing system")
	bidsExportCmd.Flags().StringVarP(&bidsFormat, "format", "f", "csv", "export format (csv, xlsx)")
	bidsExportCmd.Flags().StringVarP(&bidsOut, "out", "o", "", "output file (default <id>.<format>)")
}

func runBidsList(cmd *cobra.Command, args []string) error {
	system := catalog.System(bidsSystem)
	if bidsSystem != "" && !catalog.ValidSystem(system) {
		return fmt.Errorf("unknown system: %s (use tpo, pvc, or metal)", bidsSystem)
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	summaries, err := store.ListEstimates(context.Background(), system)
	if err != nil {
		return err
	}
	if len(summaries) == 0 {
		fmt.Println("No saved estimates.")
		return nil
	}

	fmt.Printf("%-22s %-28s %-8s %14s  %s\n", "ID", "NAME", "SYSTEM", "TOTAL", "SAVED")
	for _, s := range summaries {
		name := s.Name
		if name == "" {
			name = "-"
		}
		fmt.Printf("%-22s %-28s %-8s %14s  %s\n",
			truncate(s.ID, 22), truncate(name, 28), s.System,
			"$"+s.GrandTotal, s.SavedAt.Local().Format("2006-01-02 15:04"))
	}
	return nil
}

// reopenSession rebuilds the session a saved estimate was compiled
// from and replays current persisted prices over it
func reopenSession(ctx context.Context, store *db.Store, id string) (*session.Session, db.EstimateRecord, error) {
	rec, err := store.LoadEstimate(ctx, id)
	if err != nil {
		return nil, db.EstimateRecord{}, err
	}

	catalog.Init()
	penetration.Init()

	snap, err := session.DecodeSnapshot(rec.Data, rec.System)
	if err != nil {
		return nil, db.EstimateRecord{}, err
	}
	sess, err := session.NewFromSnapshot(catalog.GlobalCatalog, penetration.Default(), snap)
	if err != nil {
		return nil, db.EstimateRecord{}, err
	}
	// Degraded replay still shows the bid, on catalog defaults
	_ = sess.RefreshPrices(ctx, store)
	return sess, rec, nil
}

func runBidsShow(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	sess, rec, err := reopenSession(context.Background(), store, args[0])
	if err != nil {
		return err
	}

	title := rec.Name
	if title == "" {
		title = rec.ID
	}
	printBid(title, sess.Compile())
	return nil
}

func runBidsExport(cmd *cobra.Command, args []string) error {
	if bidsFormat != "csv" && bidsFormat != "xlsx" {
		return fmt.Errorf("unsupported format: %s (use csv or xlsx)", bidsFormat)
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	sess, rec, err := reopenSession(context.Background(), store, args[0])
	if err != nil {
		return err
	}
	result := sess.Compile()

	title := rec.Name
	if title == "" {
		title = rec.ID
	}
	doc := export.Document{
		Title:     title,
		System:    rec.System.Label(),
		Date:      rec.SavedAt.Format("2006-01-02"),
		Breakdown: result.Breakdown,
	}

	out := bidsOut
	if out == "" {
		out = rec.ID + "." + bidsFormat
	}
	if err := export.WriteFile(out, doc); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", out)
	return nil
}

func runBidsDelete(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.DeleteEstimate(context.Background(), args[0]); err != nil {
		return err
	}
	fmt.Printf("Deleted %s\n", args[0])
	return nil
}

func runBidsDiff(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	baseSess, baseRec, err := reopenSession(ctx, store, args[0])
	if err != nil {
		return err
	}
	headSess, headRec, err := reopenSession(ctx, store, args[1])
	if err != nil {
		return err
	}

	base := baseSess.Compile()
	head := headSess.Compile()
	diff := breakdown.Compare(base.Breakdown, head.Breakdown)

	fmt.Printf("Base: %s (%s)  $%s\n", bidLabel(baseRec), baseRec.SavedAt.Local().Format("2006-01-02"), diff.Before.StringFixed(2))
	fmt.Printf("Head: %s (%s)  $%s\n", bidLabel(headRec), headRec.SavedAt.Local().Format("2006-01-02"), diff.After.StringFixed(2))
	fmt.Printf("Delta: %s\n\n", signedAmount(diff.Delta))

	for _, s := range diff.Sections {
		if s.Delta.IsZero() {
			continue
		}
		fmt.Printf("%-14s %s\n", s.Section.Label(), signedAmount(s.Delta))
	}
	if len(diff.Changes) == 0 {
		fmt.Println("No row changes.")
		return nil
	}
	fmt.Println()
	for _, c := range diff.Changes {
		fmt.Printf("  %-8s %-16s %-32s %s\n", c.Type, c.RowID, truncate(c.Label, 32), signedAmount(c.Delta))
	}
	return nil
}

func bidLabel(rec db.EstimateRecord) string {
	if rec.Name != "" {
		return rec.Name
	}
	return rec.ID
}

func signedAmount(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-$" + d.Neg().StringFixed(2)
	}
	return "+$" + d.StringFixed(2)
}
