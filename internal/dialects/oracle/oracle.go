// Package oracle implements the Oracle dialect: DDL emission and PL/SQL
// CRUD package generation.
package oracle

import (
	"fmt"
	"strings"

	"github.com/schemaforge/schemaforge/internal"
	"github.com/schemaforge/schemaforge/internal/naming"
)

type oracleDialect struct {
}

var _ internal.Dialect = (*oracleDialect)(nil)
var _ internal.TableValidator = (*oracleDialect)(nil)
var _ internal.PackageGenerator = (*oracleDialect)(nil)

// recognized Oracle column type prefixes, checked case-insensitively so a
// declared type like VARCHAR2(100) or TIMESTAMP(6) matches.
var typePrefixes = []string{
	"VARCHAR2",
	"NVARCHAR2",
	"CHAR",
	"NCHAR",
	"CLOB",
	"NCLOB",
	"BLOB",
	"NUMBER",
	"INTEGER",
	"FLOAT",
	"BINARY_FLOAT",
	"BINARY_DOUBLE",
	"DATE",
	"TIMESTAMP",
	"RAW",
	"LONG",
	"XMLTYPE",
	"INTERVAL",
}

// character and large-text type prefixes eligible for free-text search.
var searchableTypePrefixes = []string{
	"VARCHAR2",
	"NVARCHAR2",
	"CHAR",
	"NCHAR",
	"CLOB",
	"NCLOB",
}

func hasTypePrefix(fieldType string, prefixes []string) bool {
	upper := strings.ToUpper(strings.TrimSpace(fieldType))
	for _, prefix := range prefixes {
		if strings.HasPrefix(upper, prefix) {
			return true
		}
	}
	return false
}

func isSearchable(f internal.Field) bool {
	return hasTypePrefix(f.Type, searchableTypePrefixes)
}

func isNumeric(f internal.Field) bool {
	return hasTypePrefix(f.Type, []string{"NUMBER", "INTEGER", "FLOAT", "BINARY_FLOAT", "BINARY_DOUBLE"})
}

func (d *oracleDialect) Name() string {
	return "oracle"
}

func (d *oracleDialect) TimestampType() string {
	return "TIMESTAMP"
}

func (d *oracleDialect) CurrentTimestamp() string {
	return "CURRENT_TIMESTAMP"
}

// userType is the column type for the created-by/updated-by audit columns.
func (d *oracleDialect) userType() string {
	return "VARCHAR2(255)"
}

func (d *oracleDialect) DefaultNaming() naming.Convention {
	return naming.Convention{
		PrimaryKey: "{table}_pk",
		ForeignKey: "{table}_{column}_fk",
		Unique:     "{table}_{column}_uq",
		Check:      "{table}_{column}_ck",
		NotNull:    "{table}_{column}_nn",
		Index:      "{table}_{column}_idx",
	}
}

// audited returns the table with audit columns injected per the options.
func (d *oracleDialect) audited(table *internal.Table, names internal.AuditColumnNames) *internal.Table {
	return table.WithAuditColumns(names, d.TimestampType(), d.CurrentTimestamp(), d.userType())
}

// ValidateTable runs the Oracle-specific checks: every declared type must
// match a recognized type prefix, the table must end up with at least one
// primary key after audit column injection, and more than one
// self-referencing foreign key is flagged as suspicious.
func (d *oracleDialect) ValidateTable(table *internal.Table, opts internal.GenerateOptions) []string {
	var problems []string
	for _, f := range table.Fields {
		if !hasTypePrefix(f.Type, typePrefixes) {
			problems = append(problems, fmt.Sprintf("table %s field %s has unrecognized oracle type %s", table.Name, f.Name, f.Type))
		}
	}
	checked := table
	if !opts.NoAuditColumns {
		checked = d.audited(table, opts.AuditColumns)
	}
	if len(checked.PrimaryKeys()) == 0 {
		problems = append(problems, fmt.Sprintf("table %s has no primary key", table.Name))
	}
	var selfRefs int
	for _, f := range table.Fields {
		if f.ForeignKey != nil && strings.EqualFold(f.ForeignKey.Table, table.Name) {
			selfRefs++
		}
	}
	if selfRefs > 1 {
		problems = append(problems, fmt.Sprintf("table %s has %d self-referencing foreign keys, which looks suspicious", table.Name, selfRefs))
	}
	return problems
}

func init() {
	internal.RegisterDialect("oracle", &oracleDialect{})
}
