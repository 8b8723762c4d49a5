package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/xkilldash9x/topoforge/internal/config"
	"github.com/xkilldash9x/topoforge/internal/observability"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "topoforge",
	Short: "topoforge synthesizes statistically realistic data-dependency topologies",
	Long: `topoforge samples a referentially consistent graph of collections, datasets,
systems, processing edges and data-integrity records from configured
empirical distributions, so downstream tooling can be benchmarked against
data with the statistical shape of production without exposing real entities.`,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := initializeConfig(); err != nil {
			return fmt.Errorf("failed to initialize configuration: %w", err)
		}

		var cfg config.Config
		if err := viper.Unmarshal(&cfg); err != nil {
			return fmt.Errorf("failed to unmarshal config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		config.Set(&cfg)

		observability.InitializeLogger(cfg.Logger)
		return nil
	},
}

// Execute wires up the subcommands and runs the root command with the context
// passed from main, so signal-driven cancellation reaches every phase.
func Execute(ctx context.Context) error {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if logger := observability.GetLogger(); logger != nil && ctx.Err() == nil {
			logger.Error("Command execution failed", zap.Error(err))
		} else {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		return err
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./config.yaml)")

	rootCmd.AddCommand(newGenerateCmd())
	rootCmd.AddCommand(newInspectCmd())
	rootCmd.AddCommand(newDiffCmd())
	rootCmd.AddCommand(newVersionCmd())
}

// initializeConfig reads the config file and TOPOFORGE_* environment
// variables. A missing config file is fine; the defaults describe a complete
// runnable topology.
func initializeConfig() error {
	config.SetDefaults(viper.GetViper())

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("TOPOFORGE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// The store URL usually arrives from the environment, never a file
	// checked into a repo.
	_ = viper.BindEnv("postgres.url", "TOPOFORGE_POSTGRES_URL")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}
	return nil
}
