package internal

import (
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/schemaforge/schemaforge/internal/naming"
)

// ErrUnsupportedDialect is returned when a schema requests a dialect that
// has no registered implementation.
var ErrUnsupportedDialect = errors.New("unsupported dialect")

// Dialect is the capability set that must be implemented by every dialect
// implementation. All statement emitters receive the table before audit
// column injection and are responsible for injecting (via
// Table.WithAuditColumns) when the options ask for it.
type Dialect interface {

	// Name is the unique name the dialect is registered under.
	Name() string

	// DropStatement returns the drop statement for a table.
	DropStatement(table *Table) string

	// CreateStatement returns the full table creation statement. Constraints
	// are never inlined; they are emitted separately by ConstraintStatements.
	CreateStatement(table *Table, opts GenerateOptions) string

	// ConstraintStatements returns one statement per primary key, not-null,
	// unique, check and foreign key constraint on the table.
	ConstraintStatements(table *Table, opts GenerateOptions) []string

	// IndexStatements returns index creation statements for fields flagged
	// index, skipping fields already backed by a primary key or unique index.
	IndexStatements(table *Table, opts GenerateOptions) []string

	// TriggerStatements returns trigger statements for the table. At minimum
	// an update-timestamp trigger when audit columns are enabled.
	TriggerStatements(table *Table, opts GenerateOptions) []string

	// CommentStatements returns comment statements for the table and its
	// documented columns.
	CommentStatements(table *Table) []string

	// TimestampType is the dialect's timestamp column type.
	TimestampType() string

	// CurrentTimestamp is the dialect's current-timestamp expression.
	CurrentTimestamp() string

	// DefaultNaming is the dialect's default constraint naming convention.
	DefaultNaming() naming.Convention
}

// TableValidator is an optional interface a Dialect implements to run
// dialect-specific validation. The validator calls it whenever present.
type TableValidator interface {

	// ValidateTable returns human-readable problems with the table, or an
	// empty slice if the table is valid for this dialect.
	ValidateTable(table *Table, opts GenerateOptions) []string
}

// PackageGenerator is an optional interface a Dialect implements to
// generate CRUD stored-procedure packages.
type PackageGenerator interface {

	// PackageSpec returns the package specification block for a table.
	PackageSpec(table *Table, opts PackageOptions) string

	// PackageBody returns the package body block for a table.
	PackageBody(table *Table, opts PackageOptions) string

	// GeneratePackage returns the complete package source: specification
	// followed by body, separated by the dialect's compilation-unit delimiter.
	GeneratePackage(table *Table, opts PackageOptions) string
}

var dialectRegistry = map[string]Dialect{}

// RegisterDialect registers a dialect implementation under a name. Names
// are case-insensitive.
func RegisterDialect(name string, dialect Dialect) {
	dialectRegistry[strings.ToLower(name)] = dialect
}

// NewDialect returns the dialect registered under the given name or an
// ErrUnsupportedDialect error if there is none. Requesting an unimplemented
// dialect fails here, before any validation or generation work.
func NewDialect(name string) (Dialect, error) {
	dialect := dialectRegistry[strings.ToLower(name)]
	if dialect == nil {
		return nil, errors.Wrapf(ErrUnsupportedDialect, "no dialect registered for %q", name)
	}
	return dialect, nil
}

// DialectNames returns the names of all registered dialects, sorted.
func DialectNames() []string {
	names := make([]string, 0, len(dialectRegistry))
	for name := range dialectRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
