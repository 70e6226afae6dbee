package cmd

import (
	"fmt"
	"strings"

	"github.com/schemaforge/schemaforge/internal"
	"github.com/schemaforge/schemaforge/internal/util"
	"github.com/spf13/cobra"
)

var dialectsCmd = &cobra.Command{
	Use:   "dialects",
	Short: "List the dialects with a registered implementation",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		names := internal.DialectNames()
		fmt.Println(util.GenerateHelpSection("Dialects", strings.Join(names, "\n")))
	},
}

func init() {
	rootCmd.AddCommand(dialectsCmd)
}
