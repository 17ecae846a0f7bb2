package cmd

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"antmart/internal/config"
	"antmart/internal/observability"
	"antmart/internal/ui"
	"antmart/pkg/errors"
)

// appContext is built once per invocation and handed to the command bodies
type appContext struct {
	cfg    *config.Config
	layout *config.Layout
	logger zerolog.Logger
	runID  string
}

var (
	cfgFile string
	app     *appContext

	rootCmd = &cobra.Command{
		Use:   "antmart",
		Short: "Generate synthetic e-commerce data for AntMart analytics",
		Long: `antmart generates synthetic users, products, orders, campaigns and
clickstream events for the AntMart analytics pipeline, appends micro-batches
of events, runs the transformation steps and prints the dashboard reports.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: initApp,
	}
)

// flagKeys maps flag names to the configuration keys they override. Only
// the flags a command actually defines are bound.
var flagKeys = map[string]string{
	"log-level":  "log.level",
	"log-format": "log.format",
	"base-dir":   "paths.base_dir",
	"users":      "counts.users",
	"products":   "counts.products",
	"orders":     "counts.orders",
	"events":     "counts.events",
	"count":      "micro.count",
	"db":         "warehouse.path",
	"driver":     "warehouse.driver",
}

// Execute runs the root command and exits non-zero on failure
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		ui.ShowError(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	defaults := config.Default()
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Config file (default ./antmart.yaml or $"+config.EnvConfigFile+")")
	rootCmd.PersistentFlags().String("log-level", defaults.Log.Level, "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", defaults.Log.Format, "Log format (auto, console, json)")
	rootCmd.PersistentFlags().String("base-dir", defaults.Paths.BaseDir, "Directory the data and seed paths resolve under")
}

func initApp(cmd *cobra.Command, args []string) error {
	v := config.NewViper()
	if err := bindFlags(v, cmd.Flags()); err != nil {
		return err
	}
	if err := config.ReadFile(v, cfgFile); err != nil {
		return err
	}

	cfg, err := config.Load(v)
	if err != nil {
		return err
	}

	layout, err := cfg.Paths.Layout()
	if err != nil {
		return errors.ConfigError(err.Error(), "paths")
	}

	base := observability.InitLogger(observability.LoggerConfig{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Output:  cmd.ErrOrStderr(),
		Version: Version,
	})
	logger, runID := observability.WithRun(base, cmd.CommandPath())
	logger.Debug().Str("config", v.ConfigFileUsed()).Str("base_dir", layout.BaseDir).Msg("configuration loaded")

	app = &appContext{cfg: cfg, layout: layout, logger: logger, runID: runID}
	return nil
}

func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return errors.Wrap(err, errors.ErrCodeInternal, "failed to bind flag --"+name)
		}
	}
	return nil
}
