package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/schemaforge/schemaforge/internal"
	"github.com/schemaforge/schemaforge/internal/engine"
	"github.com/schemaforge/schemaforge/internal/util"
	"github.com/spf13/cobra"
)

func loadSchema(cmd *cobra.Command) *internal.Schema {
	log := newLogger(cmd)
	filename := mustFlagString(cmd, "schema", true)
	if !util.Exists(filename) {
		log.Fatal("schema file %s not found", filename)
	}
	var schema internal.Schema
	if err := util.ReadJSONFile(filename, &schema); err != nil {
		log.Fatal("error reading schema file: %s", err)
	}
	return &schema
}

func writeOutput(cmd *cobra.Command, text string) {
	log := newLogger(cmd)
	out := mustFlagString(cmd, "out", false)
	if out == "" {
		fmt.Print(text)
		return
	}
	if ok, err := util.IsDirWritable(filepath.Dir(out)); !ok {
		log.Fatal("cannot write %s: %s", out, err)
	}
	if err := os.WriteFile(out, []byte(text), 0644); err != nil {
		log.Fatal("error writing %s: %s", out, err)
	}
	log.Info("wrote %s", out)
}

var ddlCmd = &cobra.Command{
	Use:   "ddl",
	Short: "Generate the ordered DDL script for a schema",
	Long: `Generate the ordered DDL script for a schema

Tables are emitted in dependency order so that referenced tables are
created before the tables that reference them; drop statements run in
the reverse order.

	schemaforge ddl --schema schema.json
	schemaforge ddl --schema schema.json --out create_all.sql --no-drops
`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		log := newLogger(cmd)
		defer util.RecoverPanic(log)
		schema := loadSchema(cmd)
		opts := internal.GenerateOptions{
			NoDrops:        mustFlagBool(cmd, "no-drops", false),
			NoComments:     mustFlagBool(cmd, "no-comments", false),
			NoAuditColumns: mustFlagBool(cmd, "no-audit", false),
			AuditColumns: internal.AuditColumnNames{
				CreatedAt: mustFlagString(cmd, "created-at", false),
				UpdatedAt: mustFlagString(cmd, "updated-at", false),
				CreatedBy: mustFlagString(cmd, "created-by", false),
				UpdatedBy: mustFlagString(cmd, "updated-by", false),
			},
		}
		script, err := engine.GenerateDatabaseScripts(log, schema, &opts)
		if err != nil {
			log.Fatal("%s", err)
		}
		writeOutput(cmd, script)
	},
}

func init() {
	rootCmd.AddCommand(ddlCmd)
	ddlCmd.Flags().String("schema", "", "path to the schema json file")
	ddlCmd.Flags().String("out", "", "write the script to a file instead of stdout")
	ddlCmd.Flags().Bool("no-drops", false, "skip drop statements")
	ddlCmd.Flags().Bool("no-comments", false, "skip table and column comments")
	ddlCmd.Flags().Bool("no-audit", false, "skip audit column injection")
	ddlCmd.Flags().String("created-at", "", "name of the created-at audit column")
	ddlCmd.Flags().String("updated-at", "", "name of the updated-at audit column")
	ddlCmd.Flags().String("created-by", "", "name of the created-by audit column (not injected unless set)")
	ddlCmd.Flags().String("updated-by", "", "name of the updated-by audit column (not injected unless set)")
}
