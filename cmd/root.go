package cmd

import (
	"errors"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// envPrefix namespaces environment overrides, e.g. BATCHQ_ARRIVAL_RATE.
const envPrefix = "BATCHQ"

var (
	cfgFile  string // Optional config file
	logLevel string // Log verbosity level
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "batchq-sim",
	Short: "Discrete-event simulator for batch-service queues",
	Long: `batchq-sim simulates a single-server queue with Poisson arrivals and
exponential service in fixed-size batches, for a fixed number of events,
and reports time in system, queue wait, the occupancy distribution and
server utilization.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			return err
		}
		logrus.SetLevel(level)
		return nil
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up persistent flags and subcommands
func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.batchq-sim.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(sweepCmd)
}

// initConfig loads .env, the optional config file and environment overrides into viper.
func initConfig() {
	if err := godotenv.Load(); err == nil {
		logrus.Debug("Loaded environment from .env")
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.SetConfigName(".batchq-sim")
		viper.SetConfigType("yaml")
	}

	configureEnv(viper.GetViper())

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			logrus.Fatalf("Failed to read config file: %v", err)
		}
		return
	}
	logrus.Debugf("Using config file: %s", viper.ConfigFileUsed())
}

// configureEnv makes v resolve keys such as "arrival-rate" from BATCHQ_ARRIVAL_RATE.
func configureEnv(v *viper.Viper) {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
}
