// Package validator checks structural and referential invariants on tables
// and schemas. Validation never stops at the first problem; every check
// runs and all problems are accumulated as human-readable messages.
package validator

import (
	"fmt"
	"strings"

	"github.com/schemaforge/schemaforge/internal"
)

// ValidateTable returns every problem found with a single table. Dialect
// specific checks run through the dialect's TableValidator capability when
// it is implemented.
func ValidateTable(dialect internal.Dialect, table *internal.Table, opts internal.GenerateOptions) []string {
	var problems []string
	if strings.TrimSpace(table.Name) == "" {
		problems = append(problems, "table has an empty name")
	}
	if len(table.Fields) == 0 {
		problems = append(problems, fmt.Sprintf("table %s has no fields", table.Name))
	}
	problems = append(problems, duplicateFieldNames(table)...)
	if tv, ok := dialect.(internal.TableValidator); ok {
		problems = append(problems, tv.ValidateTable(table, opts)...)
	}
	return problems
}

// ValidateSchema validates every table plus the schema-level invariants:
// unique table names (case-insensitive) and foreign keys resolving to an
// existing table and column.
func ValidateSchema(dialect internal.Dialect, schema *internal.Schema, opts internal.GenerateOptions) []string {
	var problems []string
	for i := range schema.Tables {
		problems = append(problems, ValidateTable(dialect, &schema.Tables[i], opts)...)
	}
	problems = append(problems, duplicateTableNames(schema)...)
	problems = append(problems, unresolvedForeignKeys(schema)...)
	return problems
}

// ValidateTableInSchema validates a single table including resolution of
// its foreign keys against the schema. Used when generating for one table
// only, where problems in unrelated tables should not fail the call.
func ValidateTableInSchema(dialect internal.Dialect, schema *internal.Schema, table *internal.Table, opts internal.GenerateOptions) []string {
	problems := ValidateTable(dialect, table, opts)
	return append(problems, foreignKeyProblems(schema, table)...)
}

func duplicateFieldNames(table *internal.Table) []string {
	var problems []string
	seen := map[string]int{}
	reported := map[string]bool{}
	for _, f := range table.Fields {
		seen[strings.ToLower(f.Name)]++
	}
	for _, f := range table.Fields {
		key := strings.ToLower(f.Name)
		if seen[key] > 1 && !reported[key] {
			reported[key] = true
			problems = append(problems, fmt.Sprintf("table %s has duplicate field name %s", table.Name, f.Name))
		}
	}
	return problems
}

func duplicateTableNames(schema *internal.Schema) []string {
	var problems []string
	seen := map[string]int{}
	reported := map[string]bool{}
	for _, t := range schema.Tables {
		seen[strings.ToLower(t.Name)]++
	}
	for _, t := range schema.Tables {
		key := strings.ToLower(t.Name)
		if seen[key] > 1 && !reported[key] {
			reported[key] = true
			problems = append(problems, fmt.Sprintf("schema has duplicate table name %s", t.Name))
		}
	}
	return problems
}

func unresolvedForeignKeys(schema *internal.Schema) []string {
	var problems []string
	for i := range schema.Tables {
		problems = append(problems, foreignKeyProblems(schema, &schema.Tables[i])...)
	}
	return problems
}

func foreignKeyProblems(schema *internal.Schema, table *internal.Table) []string {
	var problems []string
	for _, f := range table.Fields {
		if f.ForeignKey == nil {
			continue
		}
		ref := schema.Table(f.ForeignKey.Table)
		if ref == nil {
			problems = append(problems, fmt.Sprintf("table %s field %s references missing table %s", table.Name, f.Name, f.ForeignKey.Table))
			continue
		}
		if !ref.HasField(f.ForeignKey.Column) {
			problems = append(problems, fmt.Sprintf("table %s field %s references missing column %s.%s", table.Name, f.Name, ref.Name, f.ForeignKey.Column))
		}
	}
	return problems
}
