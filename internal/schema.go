package internal

import "strings"

// ForeignKey is a reference from a field to a column on another table.
type ForeignKey struct {
	Table  string `json:"table"`
	Column string `json:"column"`
}

// Field is the declarative metadata for a single table column.
type Field struct {
	Name       string      `json:"name"`
	Type       string      `json:"type"`
	Nullable   *bool       `json:"nullable,omitempty"` // nil means nullable
	PrimaryKey bool        `json:"primaryKey,omitempty"`
	Unique     bool        `json:"unique,omitempty"`
	Index      bool        `json:"index,omitempty"`
	Default    string      `json:"default,omitempty"`
	Comment    string      `json:"comment,omitempty"`
	Check      string      `json:"check,omitempty"`
	ForeignKey *ForeignKey `json:"foreignKey,omitempty"`
}

// IsNullable returns whether the field accepts NULL. Fields are nullable
// unless declared otherwise; primary keys are never nullable.
func (f *Field) IsNullable() bool {
	if f.PrimaryKey {
		return false
	}
	if f.Nullable == nil {
		return true
	}
	return *f.Nullable
}

// Table is an ordered collection of fields with optional documentation
// and advisory relationship hints.
type Table struct {
	Name    string  `json:"name"`
	Fields  []Field `json:"fields"`
	Comment string  `json:"comment,omitempty"`

	// ReferencingTo and ReferencedBy are hints supplied by the host tool.
	// They are never used to derive ordering edges; field-level foreign
	// keys are the authoritative source.
	ReferencingTo []string `json:"referencingTo,omitempty"`
	ReferencedBy  []string `json:"referencedBy,omitempty"`
}

// Field returns the field with the given name (case-insensitive) or nil.
func (t *Table) Field(name string) *Field {
	for i := range t.Fields {
		if strings.EqualFold(t.Fields[i].Name, name) {
			return &t.Fields[i]
		}
	}
	return nil
}

// HasField returns true if a field with the given name exists (case-insensitive).
func (t *Table) HasField(name string) bool {
	return t.Field(name) != nil
}

// PrimaryKeys returns the primary key fields in declaration order.
func (t *Table) PrimaryKeys() []Field {
	var keys []Field
	for _, f := range t.Fields {
		if f.PrimaryKey {
			keys = append(keys, f)
		}
	}
	return keys
}

// NonPrimaryKeys returns the non-primary-key fields in declaration order.
func (t *Table) NonPrimaryKeys() []Field {
	var fields []Field
	for _, f := range t.Fields {
		if !f.PrimaryKey {
			fields = append(fields, f)
		}
	}
	return fields
}

// WithAuditColumns returns a copy of the table with the configured audit
// columns appended. A column whose name already exists on the table
// (case-insensitive) is skipped rather than duplicated. Injected timestamp
// columns use the dialect timestamp type, are not nullable and default to
// the dialect's current timestamp expression. The created-by/updated-by
// columns have no default names and are only injected when configured,
// as nullable columns of the dialect user type. The receiver is never
// mutated.
func (t *Table) WithAuditColumns(names AuditColumnNames, timestampType string, currentTimestamp string, userType string) *Table {
	notNull := false
	copied := *t
	copied.Fields = make([]Field, len(t.Fields), len(t.Fields)+4)
	copy(copied.Fields, t.Fields)
	for _, name := range []string{names.CreatedAt, names.UpdatedAt} {
		if name == "" || copied.HasField(name) {
			continue
		}
		copied.Fields = append(copied.Fields, Field{
			Name:     name,
			Type:     timestampType,
			Nullable: &notNull,
			Default:  currentTimestamp,
		})
	}
	for _, name := range []string{names.CreatedBy, names.UpdatedBy} {
		if name == "" || copied.HasField(name) {
			continue
		}
		copied.Fields = append(copied.Fields, Field{
			Name: name,
			Type: userType,
		})
	}
	return &copied
}

// Schema is a dialect tag plus an ordered set of tables.
type Schema struct {
	Dialect string  `json:"dialect"`
	Tables  []Table `json:"tables"`
}

// Table returns the table with the given name (case-insensitive) or nil.
func (s *Schema) Table(name string) *Table {
	for i := range s.Tables {
		if strings.EqualFold(s.Tables[i].Name, name) {
			return &s.Tables[i]
		}
	}
	return nil
}
