package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"antmart/internal/config"
	"antmart/internal/ui"
	"antmart/pkg/errors"
)

var configInitFlags struct {
	path        string
	interactive bool
	force       bool
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Write or inspect the antmart configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a sample configuration file",
	Long: `Write a configuration file holding the defaults and an example
transformation pipeline (dbt seed, dbt run, dbt test). With --interactive the
table counts are asked for first.`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as YAML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := yaml.Marshal(app.cfg)
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeInternal, "failed to render configuration")
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func init() {
	configInitCmd.Flags().StringVarP(&configInitFlags.path, "path", "p", "antmart.yaml", "Where to write the file")
	configInitCmd.Flags().BoolVarP(&configInitFlags.interactive, "interactive", "i", false, "Prompt for table counts")
	configInitCmd.Flags().BoolVarP(&configInitFlags.force, "force", "f", false, "Overwrite an existing file")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	path := configInitFlags.path

	if config.Exists(path) && !configInitFlags.force {
		if !configInitFlags.interactive {
			return errors.ConfigError(fmt.Sprintf("%s already exists", path), "config").
				WithSuggestions("Pass --force to overwrite it")
		}
		ok, err := ui.Confirm(fmt.Sprintf("%s already exists. Overwrite it?", path), false)
		if err != nil {
			return err
		}
		if !ok {
			ui.ShowInfo(out, "Nothing written.")
			return nil
		}
	}

	cfg := sampleConfig()
	if configInitFlags.interactive {
		if err := askCounts(&cfg.Counts); err != nil {
			return err
		}
	}

	if err := config.Save(cfg, path); err != nil {
		return errors.WriteFailure(path, err)
	}
	ui.ShowSuccess(out, "Configuration written to "+path)
	return nil
}

func sampleConfig() *config.Config {
	cfg := config.Default()
	cfg.Pipeline.WorkDir = "dbt"
	cfg.Pipeline.Batch = []string{"dbt seed", "dbt run", "dbt test"}
	cfg.Pipeline.Micro = []string{"dbt run --select stg_events+"}
	return cfg
}

func askCounts(c *config.Counts) error {
	prompts := []struct {
		message string
		value   *int
		min     int
	}{
		{"Number of users", &c.Users, 1},
		{"Number of products", &c.Products, 1},
		{"Number of orders", &c.Orders, 1},
		{"Number of events", &c.Events, 0},
	}
	for _, p := range prompts {
		v, err := ui.AskInt(p.message, *p.value, p.min)
		if err != nil {
			return err
		}
		*p.value = v
	}
	return nil
}
