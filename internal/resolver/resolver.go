// Package resolver orders tables so that tables referenced by foreign keys
// are emitted before the tables that reference them.
package resolver

import (
	"fmt"
	"strings"

	"github.com/schemaforge/schemaforge/internal"
)

// CycleError is returned when the foreign-key reference graph contains a
// cycle. Table names the table at which the cycle was detected.
type CycleError struct {
	Table string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle detected at table %s", e.Table)
}

type visitState int

const (
	unvisited visitState = iota
	inProgress
	done
)

// Order returns the tables in dependency order: every table referenced via
// a foreign key appears strictly before each of its referencers. Reversed,
// the result is the drop order. Edges are derived only from field-level
// foreign keys; the advisory ReferencingTo/ReferencedBy hints never
// contribute. The traversal follows the input order, so the result is
// deterministic for a given input ordering.
func Order(tables []internal.Table) ([]internal.Table, error) {
	byName := make(map[string]*internal.Table, len(tables))
	states := make(map[string]visitState, len(tables))
	for i := range tables {
		byName[strings.ToLower(tables[i].Name)] = &tables[i]
	}

	ordered := make([]internal.Table, 0, len(tables))

	var visit func(t *internal.Table) error
	visit = func(t *internal.Table) error {
		key := strings.ToLower(t.Name)
		switch states[key] {
		case done:
			return nil
		case inProgress:
			return &CycleError{Table: t.Name}
		}
		states[key] = inProgress
		for _, f := range t.Fields {
			if f.ForeignKey == nil {
				continue
			}
			refKey := strings.ToLower(f.ForeignKey.Table)
			if refKey == key {
				// self-references never affect ordering
				continue
			}
			ref := byName[refKey]
			if ref == nil {
				// unresolved reference, reported by the validator
				continue
			}
			if err := visit(ref); err != nil {
				return err
			}
		}
		states[key] = done
		ordered = append(ordered, *t)
		return nil
	}

	for i := range tables {
		if err := visit(&tables[i]); err != nil {
			return nil, err
		}
	}
	return ordered, nil
}

// Reverse returns a reversed copy of the ordered tables, used for drops.
func Reverse(tables []internal.Table) []internal.Table {
	reversed := make([]internal.Table, len(tables))
	for i, t := range tables {
		reversed[len(tables)-1-i] = t
	}
	return reversed
}
