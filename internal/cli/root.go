package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/patentia/internal/model"
)

// version is set at build time with -ldflags "-X ...cli.version=..."
var version = "dev"

var (
	cfgFile   string
	verbose   bool
	logFormat string
	noColor   bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "patentia",
	Short: "Patentia - structured data from saved patent pages",
	Long: `Patentia turns saved patent HTML pages into nested JSON.

Labelled metadata, microdata properties, the abstract, the description
(split into headed parts and numbered lines) and the claims are
extracted into a single document per page.

Pages are read from local files or stdin; nothing is fetched.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display the version number of Patentia.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "patentia %s\n", version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.patentia/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output and debug logging")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: console, text or json")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored console logs")

	// Bind flags to viper
	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("log.format", rootCmd.PersistentFlags().Lookup("log-format"))
	_ = viper.BindPFlag("log.no_color", rootCmd.PersistentFlags().Lookup("no-color"))

	rootCmd.AddCommand(versionCmd)
}

// configDir returns the directory holding the default config file
func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("find home directory: %w", err)
	}
	return filepath.Join(home, ".patentia"), nil
}

// initConfig reads in config file and ENV variables
func initConfig() {
	model.SetDefaults(viper.GetViper())

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		dir, err := configDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return
		}
		viper.AddConfigPath(dir)
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// PATENTIA_CACHE_DIR overrides cache.dir, and so on
	viper.SetEnvPrefix("PATENTIA")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// loadConfig returns the effective configuration and a logger built
// from it
func loadConfig(cmd *cobra.Command) (*model.Config, *slog.Logger, error) {
	cfg, err := model.LoadConfig(viper.GetViper())
	if err != nil {
		return nil, nil, err
	}
	if cfg.Output.Verbose {
		cfg.Log.Level = "debug"
	}

	logger, err := newLogger(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}
