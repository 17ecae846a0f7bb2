package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"antmart/internal/report"
	"antmart/internal/ui"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print dashboard reports from the analytical store",
	Long: `Query the analytical store built by the transformation tool. The store is
opened read-only; nothing is written back.`,
}

var reportRevenueCmd = &cobra.Command{
	Use:   "revenue",
	Short: "Items sold and revenue per order date",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withReader(cmd, func(ctx context.Context, r *report.Reader) error {
			rows, err := r.DailyRevenue(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(rows) == 0 {
				ui.ShowInfo(out, "No orders in the store yet.")
				return nil
			}

			table := make([][]string, 0, len(rows))
			for _, row := range rows {
				table = append(table, []string{
					row.OrderDate,
					strconv.FormatInt(row.ItemsSold, 10),
					fmt.Sprintf("%.2f", row.Revenue),
				})
			}
			ui.RenderTable(out, []string{"Order date", "Items sold", "Revenue"}, table)
			return nil
		})
	},
}

var reportEventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Event counts by type",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withReader(cmd, func(ctx context.Context, r *report.Reader) error {
			rows, err := r.EventCounts(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(rows) == 0 {
				ui.ShowInfo(out, "No events in the store yet.")
				return nil
			}

			table := make([][]string, 0, len(rows))
			for _, row := range rows {
				table = append(table, []string{row.EventType, strconv.FormatInt(row.Count, 10)})
			}
			ui.RenderTable(out, []string{"Event type", "Count"}, table)
			return nil
		})
	},
}

func init() {
	reportCmd.PersistentFlags().String("db", "", "Path to the file-backed analytical store (overrides warehouse.path)")
	reportCmd.PersistentFlags().String("driver", "", "Store driver: duckdb, sqlite, snowflake or postgres (overrides warehouse.driver)")

	reportCmd.AddCommand(reportRevenueCmd)
	reportCmd.AddCommand(reportEventsCmd)
	rootCmd.AddCommand(reportCmd)
}

func withReader(cmd *cobra.Command, fn func(ctx context.Context, r *report.Reader) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	r, err := report.Open(ctx, app.cfg.Warehouse, app.layout.BaseDir)
	if err != nil {
		return err
	}
	defer r.Close()

	return fn(ctx, r)
}
