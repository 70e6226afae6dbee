package cmd

import (
	"fmt"
	"os"

	"github.com/shopmonkeyus/go-common/logger"
	"github.com/spf13/cobra"

	// registers the implemented dialects
	_ "github.com/schemaforge/schemaforge/internal/dialects/oracle"
)

var Version string // set in main

func mustFlagBool(cmd *cobra.Command, name string, required bool) bool {
	val, err := cmd.Flags().GetBool(name)
	if required && err != nil {
		fmt.Printf("error: %s\n", err)
		os.Exit(1)
	}
	return val
}

func mustFlagString(cmd *cobra.Command, name string, required bool) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		fmt.Printf("error: %s\n", err)
		os.Exit(1)
	}
	if required && val == "" {
		fmt.Printf("error: required flag --%s missing\n", name)
		os.Exit(1)
	}
	return val
}

func newLogger(cmd *cobra.Command) logger.Logger {
	if mustFlagBool(cmd, "verbose", false) {
		return logger.NewConsoleLogger(logger.LevelTrace)
	}
	if mustFlagBool(cmd, "silent", false) {
		return logger.NewConsoleLogger(logger.LevelError)
	}
	return logger.NewConsoleLogger(logger.LevelInfo)
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "schemaforge",
	Short: "Generate ordered DDL scripts and CRUD packages from a declarative schema",
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.Version = Version
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().Bool("verbose", false, "turn on verbose logging")
	rootCmd.PersistentFlags().Bool("silent", false, "turn off all logging")
}
