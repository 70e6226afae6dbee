package oracle

import (
	"fmt"
	"strings"

	"github.com/schemaforge/schemaforge/internal"
	"github.com/schemaforge/schemaforge/internal/naming"
)

func escapeLiteral(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// ddlTable applies audit column injection for DDL emitters.
func (d *oracleDialect) ddlTable(table *internal.Table, opts internal.GenerateOptions) *internal.Table {
	if opts.NoAuditColumns {
		return table
	}
	return d.audited(table, opts.AuditColumns)
}

func (d *oracleDialect) DropStatement(table *internal.Table) string {
	return fmt.Sprintf("DROP TABLE %s CASCADE CONSTRAINTS;", table.Name)
}

func (d *oracleDialect) CreateStatement(table *internal.Table, opts internal.GenerateOptions) string {
	t := d.ddlTable(table, opts)
	var sql strings.Builder
	sql.WriteString("CREATE TABLE ")
	sql.WriteString(t.Name)
	sql.WriteString(" (\n")
	for i, f := range t.Fields {
		sql.WriteString("\t")
		sql.WriteString(f.Name)
		sql.WriteString(" ")
		sql.WriteString(f.Type)
		if f.Default != "" {
			sql.WriteString(" DEFAULT ")
			sql.WriteString(f.Default)
		}
		if i < len(t.Fields)-1 {
			sql.WriteString(",")
		}
		sql.WriteString("\n")
	}
	sql.WriteString(");")
	return sql.String()
}

// ConstraintStatements emits, per table: the primary key, one MODIFY NOT
// NULL per explicitly non-nullable field, unique, check and foreign key
// constraints. Constraints are never inlined in CREATE TABLE.
func (d *oracleDialect) ConstraintStatements(table *internal.Table, opts internal.GenerateOptions) []string {
	t := d.ddlTable(table, opts)
	var statements []string
	keys := t.PrimaryKeys()
	if len(keys) > 0 {
		cols := make([]string, len(keys))
		for i, f := range keys {
			cols[i] = f.Name
		}
		statements = append(statements, fmt.Sprintf("ALTER TABLE %s ADD CONSTRAINT %s PRIMARY KEY (%s);",
			t.Name, opts.Naming.Name(naming.PrimaryKey, t.Name, cols[0]), strings.Join(cols, ", ")))
	}
	for _, f := range t.Fields {
		if !f.PrimaryKey && !f.IsNullable() {
			statements = append(statements, fmt.Sprintf("ALTER TABLE %s MODIFY %s CONSTRAINT %s NOT NULL;",
				t.Name, f.Name, opts.Naming.Name(naming.NotNull, t.Name, f.Name)))
		}
	}
	for _, f := range t.Fields {
		if f.Unique {
			statements = append(statements, fmt.Sprintf("ALTER TABLE %s ADD CONSTRAINT %s UNIQUE (%s);",
				t.Name, opts.Naming.Name(naming.Unique, t.Name, f.Name), f.Name))
		}
	}
	for _, f := range t.Fields {
		if f.Check != "" {
			statements = append(statements, fmt.Sprintf("ALTER TABLE %s ADD CONSTRAINT %s CHECK (%s);",
				t.Name, opts.Naming.Name(naming.Check, t.Name, f.Name), f.Check))
		}
	}
	for _, f := range t.Fields {
		if f.ForeignKey != nil {
			statements = append(statements, fmt.Sprintf("ALTER TABLE %s ADD CONSTRAINT %s FOREIGN KEY (%s) REFERENCES %s (%s);",
				t.Name, opts.Naming.Name(naming.ForeignKey, t.Name, f.Name), f.Name, f.ForeignKey.Table, f.ForeignKey.Column))
		}
	}
	return statements
}

// IndexStatements skips primary key and unique fields since those already
// have backing indexes.
func (d *oracleDialect) IndexStatements(table *internal.Table, opts internal.GenerateOptions) []string {
	t := d.ddlTable(table, opts)
	var statements []string
	for _, f := range t.Fields {
		if f.Index && !f.PrimaryKey && !f.Unique {
			statements = append(statements, fmt.Sprintf("CREATE INDEX %s ON %s (%s);",
				opts.Naming.Name(naming.Index, t.Name, f.Name), t.Name, f.Name))
		}
	}
	return statements
}

func (d *oracleDialect) TriggerStatements(table *internal.Table, opts internal.GenerateOptions) []string {
	if opts.NoAuditColumns {
		return nil
	}
	t := d.ddlTable(table, opts)
	updatedAt := opts.AuditColumns.UpdatedAt
	if updatedAt == "" || !t.HasField(updatedAt) {
		return nil
	}
	var sql strings.Builder
	sql.WriteString(fmt.Sprintf("CREATE OR REPLACE TRIGGER trg_%s_%s\n", t.Name, updatedAt))
	sql.WriteString(fmt.Sprintf("BEFORE UPDATE ON %s\n", t.Name))
	sql.WriteString("FOR EACH ROW\n")
	sql.WriteString("BEGIN\n")
	sql.WriteString(fmt.Sprintf("\t:NEW.%s := %s;\n", updatedAt, d.CurrentTimestamp()))
	sql.WriteString("END;\n/")
	return []string{sql.String()}
}

func (d *oracleDialect) CommentStatements(table *internal.Table) []string {
	var statements []string
	if table.Comment != "" {
		statements = append(statements, fmt.Sprintf("COMMENT ON TABLE %s IS '%s';", table.Name, escapeLiteral(table.Comment)))
	}
	for _, f := range table.Fields {
		if f.Comment != "" {
			statements = append(statements, fmt.Sprintf("COMMENT ON COLUMN %s.%s IS '%s';", table.Name, f.Name, escapeLiteral(f.Comment)))
		}
	}
	return statements
}
