// Package cli wires configuration, logging and the pipeline into the
// tendertrack command tree.
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/praeto/tendertrack/internal/model"
)

var (
	cfgFile string
	verbose bool
	logJSON bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "tendertrack",
	Short: "Tendertrack - South African public tender aggregation and alerting",
	Long: `Tendertrack scrapes public procurement portals (eTenders.gov.za,
EasyTenders, Transnet), normalizes the listings into a single canonical
form, categorizes them by keyword, drops what the active policy does
not care about and alerts on the rest.

Every accepted tender is persisted exactly once: runs are idempotent
and a tender never triggers a second alert.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("tendertrack v0.3.1")
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.tendertrack/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "emit logs as JSON instead of console format")

	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}
		viper.AddConfigPath(home + "/.tendertrack")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// TENDERTRACK_HTTP_TIMEOUT overrides http.timeout, and so on.
	viper.SetEnvPrefix("TENDERTRACK")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// loadConfig materializes the effective configuration: defaults overlaid
// with the config file, environment variables and flag bindings. Secrets
// only ever come from the environment.
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse configuration: %w", err)
	}

	cfg.Alerts.Password = os.Getenv("EMAIL_PASSWORD")
	cfg.Digest.APIKey = os.Getenv("OPENAI_API_KEY")
	if pw := os.Getenv("ETENDERS_PASSWORD"); pw != "" {
		cfg.Sources.ETendersPassword = pw
	}

	cfg.Output.Verbose = cfg.Output.Verbose || verbose
	return cfg, nil
}

// newLogger builds the process logger. Console encoding by default,
// JSON when --log-json is set; --verbose lowers the level to debug.
func newLogger() (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if !logJSON {
		zcfg.Encoding = "console"
		zcfg.EncoderConfig = zap.NewDevelopmentEncoderConfig()
		zcfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	if verbose {
		zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return zcfg.Build()
}
