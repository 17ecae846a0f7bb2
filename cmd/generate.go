package cmd

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"antmart/internal/config"
	"antmart/internal/generator"
	"antmart/internal/ui"
	"antmart/internal/writer"
	"antmart/pkg/models"
)

var generateFlags struct {
	seed    int64
	confirm bool
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a full batch of synthetic tables",
	Long: `Generate users, products, campaigns, orders and events and write them as
CSV to both the raw batch directory and the seed directory. Events are also
written as JSON lines to the raw event seed directory.

Counts come from flags, USERS_COUNT/PRODUCTS_COUNT/ORDERS_COUNT/EVENTS_COUNT,
the config file or the defaults, in that order.`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	defaults := config.Default()
	generateCmd.Flags().Int("users", defaults.Counts.Users, "Number of users")
	generateCmd.Flags().Int("products", defaults.Counts.Products, "Number of products")
	generateCmd.Flags().Int("orders", defaults.Counts.Orders, "Number of orders")
	generateCmd.Flags().Int("events", defaults.Counts.Events, "Number of events (0 writes empty event files)")
	generateCmd.Flags().Int64Var(&generateFlags.seed, "seed", 0, "Random seed (0 picks one from the clock)")
	generateCmd.Flags().BoolVar(&generateFlags.confirm, "confirm", false, "Ask before overwriting existing seed files")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if generateFlags.confirm && seedsExist(app.layout) {
		ok, err := ui.Confirm("Seed files already exist. Overwrite them?", false)
		if err != nil {
			return err
		}
		if !ok {
			ui.ShowInfo(out, "Generation cancelled.")
			return nil
		}
	}

	results, seed, err := generateBatch(app, generateFlags.seed)
	if err != nil {
		return err
	}

	printWriteSummary(out, results)
	if app.cfg.Counts.Events == 0 {
		ui.ShowWarning(out, "No events were generated; the event files only hold a header.")
	}
	ui.ShowSuccess(out, fmt.Sprintf("Batch written (seed %d, run %s)", seed, app.runID))
	return nil
}

// generateBatch generates a dataset from the configured counts and writes it.
// Counts are validated by the generator before anything is written. It
// returns the write results and the seed used.
func generateBatch(a *appContext, seed int64) ([]writer.Result, int64, error) {
	counts := generator.Counts{
		Users:    a.cfg.Counts.Users,
		Products: a.cfg.Counts.Products,
		Orders:   a.cfg.Counts.Orders,
		Events:   a.cfg.Counts.Events,
	}

	gen := newGenerator(a, seed)
	a.logger.Info().
		Int64("seed", gen.Seed()).
		Int("users", counts.Users).
		Int("products", counts.Products).
		Int("orders", counts.Orders).
		Int("events", counts.Events).
		Msg("generating batch")

	d, err := gen.Generate(counts)
	if err != nil {
		return nil, gen.Seed(), err
	}

	results, err := writer.New(a.layout, a.logger).WriteDataset(d)
	if err != nil {
		return results, gen.Seed(), err
	}
	return results, gen.Seed(), nil
}

func newGenerator(a *appContext, seed int64) *generator.Generator {
	opts := []generator.Option{generator.WithLogger(a.logger)}
	if seed != 0 {
		opts = append(opts, generator.WithSeed(seed))
	}
	return generator.New(opts...)
}

func seedsExist(layout *config.Layout) bool {
	return config.Exists(filepath.Join(layout.MustDir(config.DestSeeds), models.TableUsers+".csv"))
}

func printWriteSummary(w io.Writer, results []writer.Result) {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, []string{r.Table, strconv.Itoa(r.Rows), strings.Join(r.Paths, "\n")})
	}
	ui.RenderTable(w, []string{"Table", "Rows", "Files"}, rows)
}
