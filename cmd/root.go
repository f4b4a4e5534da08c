package cmd

import (
	"fmt"
	"os"

	"github.com/jensneuse/abstractlogger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configFile string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "persisted-query-ids",
	Short: "Generates persisted query ids for GraphQL operations",
	Long: `persisted-query-ids reads GraphQL documents, resolves the fragments every operation uses
and hashes the resulting query text.

The client view maps operation names to hashes and ships with the client,
the server view maps hashes back to queries and ships with the server.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (yaml or json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log at debug level")
}

func logger() (abstractlogger.Logger, error) {
	zapConfig := zap.NewDevelopmentConfig()
	level := abstractlogger.DebugLevel
	if !verbose {
		zapConfig.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
		level = abstractlogger.WarnLevel
	}

	zapLogger, err := zapConfig.Build()
	if err != nil {
		return nil, err
	}
	return abstractlogger.NewZapLogger(zapLogger, level), nil
}
