// Package engine is the entry point surrounding code calls: it selects the
// dialect, validates the schema, orders the tables and assembles the
// generated text. Generation is a pure function of (schema, options); two
// invocations produce byte-identical output apart from the dated header.
package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/schemaforge/schemaforge/internal"
	"github.com/schemaforge/schemaforge/internal/resolver"
	"github.com/schemaforge/schemaforge/internal/validator"
	"github.com/shopmonkeyus/go-common/logger"
)

// ValidationError carries every problem found by schema validation. No
// output is produced when validation fails.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Problems, "\n")
}

// GenerateDatabaseScripts generates the full ordered DDL script for a
// schema: drops (reverse dependency order), table creation, constraints,
// indexes, triggers and comments, each in its own labeled section.
func GenerateDatabaseScripts(log logger.Logger, schema *internal.Schema, opts *internal.GenerateOptions) (string, error) {
	dialect, err := internal.NewDialect(schema.Dialect)
	if err != nil {
		return "", err
	}
	log = log.WithPrefix(fmt.Sprintf("[%s]", dialect.Name()))
	runID := uuid.NewString()
	log.Debug("generation %s started for %d tables", runID, len(schema.Tables))

	resolved := internal.ResolveGenerateOptions(opts, dialect.DefaultNaming())
	if problems := validator.ValidateSchema(dialect, schema, resolved); len(problems) > 0 {
		log.Error("generation %s failed validation with %d problems", runID, len(problems))
		return "", &ValidationError{Problems: problems}
	}

	ordered, err := resolver.Order(schema.Tables)
	if err != nil {
		log.Error("generation %s failed: %s", runID, err)
		return "", err
	}

	var creates, constraints, indexes, triggers, comments []string
	for i := range ordered {
		t := &ordered[i]
		creates = append(creates, dialect.CreateStatement(t, resolved))
		constraints = append(constraints, dialect.ConstraintStatements(t, resolved)...)
		indexes = append(indexes, dialect.IndexStatements(t, resolved)...)
		triggers = append(triggers, dialect.TriggerStatements(t, resolved)...)
		if !resolved.NoComments {
			comments = append(comments, dialect.CommentStatements(t)...)
		}
	}

	var drops []string
	if !resolved.NoDrops {
		for _, t := range resolver.Reverse(ordered) {
			drops = append(drops, dialect.DropStatement(&t))
		}
	}

	var script strings.Builder
	script.WriteString(fmt.Sprintf("-- %s database scripts\n", dialect.Name()))
	script.WriteString(fmt.Sprintf("-- generated at %s\n", time.Now().UTC().Format(time.RFC3339)))
	writeSection(&script, "drop tables", drops)
	writeSection(&script, "create tables", creates)
	writeSection(&script, "constraints", constraints)
	writeSection(&script, "indexes", indexes)
	writeSection(&script, "triggers", triggers)
	writeSection(&script, "comments", comments)

	log.Info("generation %s produced %d statements for %d tables", runID,
		len(drops)+len(creates)+len(constraints)+len(indexes)+len(triggers)+len(comments), len(ordered))
	return script.String(), nil
}

// writeSection appends a labeled script section. Empty sections are
// omitted entirely.
func writeSection(script *strings.Builder, name string, statements []string) {
	if len(statements) == 0 {
		return
	}
	script.WriteString(fmt.Sprintf("\n-- %s\n\n", name))
	for i, statement := range statements {
		script.WriteString(statement)
		script.WriteString("\n")
		if i < len(statements)-1 && strings.Contains(statement, "\n") {
			// blank line between multi-line statements
			script.WriteString("\n")
		}
	}
}

// GenerateCRUDPackage generates the stored-procedure package source for a
// single table of the schema.
func GenerateCRUDPackage(log logger.Logger, schema *internal.Schema, tableName string, opts *internal.PackageOptions) (string, error) {
	dialect, err := internal.NewDialect(schema.Dialect)
	if err != nil {
		return "", err
	}
	log = log.WithPrefix(fmt.Sprintf("[%s]", dialect.Name()))
	generator, ok := dialect.(internal.PackageGenerator)
	if !ok {
		return "", fmt.Errorf("dialect %s does not support package generation", dialect.Name())
	}
	table := schema.Table(tableName)
	if table == nil {
		return "", fmt.Errorf("no table named %s in schema", tableName)
	}

	resolved := internal.ResolvePackageOptions(opts)
	genOpts := internal.ResolveGenerateOptions(&internal.GenerateOptions{
		AuditColumns: resolved.AuditColumns,
	}, dialect.DefaultNaming())
	if problems := validator.ValidateTableInSchema(dialect, schema, table, genOpts); len(problems) > 0 {
		log.Error("package generation for table %s failed validation with %d problems", table.Name, len(problems))
		return "", &ValidationError{Problems: problems}
	}
	log.Debug("generating package for table %s", table.Name)
	return generator.GeneratePackage(table, resolved), nil
}
