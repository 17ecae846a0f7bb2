package cmd

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"antmart/internal/common"
	"antmart/internal/pipeline"
	"antmart/internal/ui"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a pipeline: generate data, then the transformation steps",
	Long: `Run the batch or micro pipeline. The generation step always runs first;
the commands listed under pipeline.batch or pipeline.micro in the config run
after it, in order, from pipeline.work_dir. The first failing step stops the
run.`,
}

var runBatchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Generate a full batch, then run pipeline.batch commands",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		gen := pipeline.FuncStep("generate", func(ctx context.Context) error {
			_, _, err := generateBatch(app, 0)
			return err
		})
		return runPipeline(cmd, gen, app.cfg.Pipeline.Batch)
	},
}

var runMicroCmd = &cobra.Command{
	Use:   "micro",
	Short: "Produce a micro-batch, then run pipeline.micro commands",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		produce := pipeline.FuncStep("produce", func(ctx context.Context) error {
			_, err := produceMicro(app, 0)
			return err
		})
		return runPipeline(cmd, produce, app.cfg.Pipeline.Micro)
	},
}

func init() {
	runCmd.AddCommand(runBatchCmd)
	runCmd.AddCommand(runMicroCmd)
	rootCmd.AddCommand(runCmd)
}

func runPipeline(cmd *cobra.Command, first pipeline.Step, commands []string) error {
	out := cmd.OutOrStdout()

	workDir, err := common.ResolveUnder(app.layout.BaseDir, app.cfg.Pipeline.WorkDir)
	if err != nil {
		return err
	}

	steps, err := pipeline.CommandSteps(commands, workDir, out, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	ui.ShowHeader(out, "AntMart "+cmd.Name()+" pipeline")
	runner := pipeline.NewRunner(app.logger, first)
	runner.Add(steps...)
	results, runErr := runner.Run(ctx)
	printStepSummary(out, results)

	if runErr != nil {
		return runErr
	}
	ui.ShowSuccess(out, "Pipeline finished (run "+app.runID+")")
	return nil
}

func printStepSummary(w io.Writer, results []pipeline.StepResult) {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, []string{r.Name, ui.StepStatus(r.Err), ui.FormatDuration(r.Duration)})
	}
	ui.RenderTable(w, []string{"Step", "Status", "Duration"}, rows)
}
