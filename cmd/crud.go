package cmd

import (
	"github.com/schemaforge/schemaforge/internal"
	"github.com/schemaforge/schemaforge/internal/engine"
	"github.com/schemaforge/schemaforge/internal/util"
	"github.com/spf13/cobra"
)

var crudCmd = &cobra.Command{
	Use:   "crud",
	Short: "Generate the CRUD stored-procedure package for a table",
	Long: `Generate the CRUD stored-procedure package for a table

The generated package implements create/update/delete/get plus a paginated
list operation, and calls an externally-deployed utility package for
pagination validation, sorting validation and response envelopes.

	schemaforge crud --schema schema.json --table employees
	schemaforge crud --schema schema.json --table employees --no-search --package-prefix api_
`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		log := newLogger(cmd)
		defer util.RecoverPanic(log)
		schema := loadSchema(cmd)
		table := mustFlagString(cmd, "table", true)
		opts := internal.PackageOptions{
			NoValidation: mustFlagBool(cmd, "no-validation", false),
			NoExceptions: mustFlagBool(cmd, "no-exceptions", false),
			NoJSON:       mustFlagBool(cmd, "no-json", false),
			NoPagination: mustFlagBool(cmd, "no-pagination", false),
			NoSearch:     mustFlagBool(cmd, "no-search", false),
			AuditColumns: internal.AuditColumnNames{
				CreatedAt: mustFlagString(cmd, "created-at", false),
				UpdatedAt: mustFlagString(cmd, "updated-at", false),
				CreatedBy: mustFlagString(cmd, "created-by", false),
				UpdatedBy: mustFlagString(cmd, "updated-by", false),
			},
			PackagePrefix:  mustFlagString(cmd, "package-prefix", false),
			UtilityPackage: mustFlagString(cmd, "utility-package", false),
		}
		source, err := engine.GenerateCRUDPackage(log, schema, table, &opts)
		if err != nil {
			log.Fatal("%s", err)
		}
		writeOutput(cmd, source)
	},
}

func init() {
	rootCmd.AddCommand(crudCmd)
	crudCmd.Flags().String("schema", "", "path to the schema json file")
	crudCmd.Flags().String("table", "", "table to generate the package for")
	crudCmd.Flags().String("out", "", "write the package to a file instead of stdout")
	crudCmd.Flags().Bool("no-validation", false, "skip the validation helper")
	crudCmd.Flags().Bool("no-exceptions", false, "skip exception handling")
	crudCmd.Flags().Bool("no-json", false, "skip record envelopes on create and update")
	crudCmd.Flags().Bool("no-pagination", false, "skip the list operation")
	crudCmd.Flags().Bool("no-search", false, "skip free-text search in the list operation")
	crudCmd.Flags().String("created-at", "", "name of the created-at audit column")
	crudCmd.Flags().String("updated-at", "", "name of the updated-at audit column")
	crudCmd.Flags().String("created-by", "", "name of the created-by audit column (not injected unless set)")
	crudCmd.Flags().String("updated-by", "", "name of the updated-by audit column (not injected unless set)")
	crudCmd.Flags().String("package-prefix", "", "prefix for the generated package name")
	crudCmd.Flags().String("utility-package", "", "name of the response utility package the generated code calls")
}
