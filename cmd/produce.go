package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"antmart/internal/config"
	"antmart/internal/producer"
	"antmart/internal/ui"
)

var produceFlags struct {
	seed int64
}

var produceCmd = &cobra.Command{
	Use:   "produce",
	Short: "Append a micro-batch of clickstream events",
	Long: `Generate a small batch of events stamped with the current time and write
them to a new JSON lines file under the micro-batch landing directory.

User and product ids are drawn up to the largest ids in the seed files. When
the seeds are missing the configured default bounds are used instead.`,
	Args: cobra.NoArgs,
	RunE: runProduce,
}

func init() {
	produceCmd.Flags().Int("count", config.Default().Micro.Count, "Number of events in the batch")
	produceCmd.Flags().Int64Var(&produceFlags.seed, "seed", 0, "Random seed (0 picks one from the clock)")

	rootCmd.AddCommand(produceCmd)
}

func runProduce(cmd *cobra.Command, args []string) error {
	path, err := produceMicro(app, produceFlags.seed)
	if err != nil {
		return err
	}
	ui.ShowSuccess(cmd.OutOrStdout(), fmt.Sprintf("%d events written to %s", app.cfg.Micro.Count, path))
	return nil
}

func produceMicro(a *appContext, seed int64) (string, error) {
	p := producer.New(a.layout, a.cfg.Micro, newGenerator(a, seed), a.logger)
	return p.Produce(a.cfg.Micro.Count)
}
