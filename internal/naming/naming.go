// Package naming expands constraint naming convention templates into
// concrete database identifiers.
package naming

import "strings"

// Kind is the kind of constraint being named.
type Kind string

const (
	PrimaryKey Kind = "primaryKey"
	ForeignKey Kind = "foreignKey"
	Unique     Kind = "unique"
	Check      Kind = "check"
	NotNull    Kind = "notNull"
	Index      Kind = "index"
)

// Convention holds one template per constraint kind. Templates may contain
// the tokens {table} and {column}.
type Convention struct {
	PrimaryKey string `json:"primaryKey"`
	ForeignKey string `json:"foreignKey"`
	Unique     string `json:"unique"`
	Check      string `json:"check"`
	NotNull    string `json:"notNull"`
	Index      string `json:"index"`
}

func (c Convention) template(kind Kind) string {
	switch kind {
	case PrimaryKey:
		return c.PrimaryKey
	case ForeignKey:
		return c.ForeignKey
	case Unique:
		return c.Unique
	case Check:
		return c.Check
	case NotNull:
		return c.NotNull
	case Index:
		return c.Index
	}
	return ""
}

// Name substitutes {table} and {column} in the template for the given kind.
// The substitution is verbatim: repeated tokens in the inputs are never
// collapsed, so a column named department_fk under the template
// "{table}_{column}_fk" yields employees_department_fk_fk.
func (c Convention) Name(kind Kind, table string, column string) string {
	name := strings.ReplaceAll(c.template(kind), "{table}", table)
	return strings.ReplaceAll(name, "{column}", column)
}

// IsZero returns true if no template is set.
func (c Convention) IsZero() bool {
	return c == Convention{}
}
