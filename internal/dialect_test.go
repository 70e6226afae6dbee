package internal

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/schemaforge/schemaforge/internal/naming"
	"github.com/stretchr/testify/assert"
)

type fakeDialect struct{}

func (d *fakeDialect) Name() string                          { return "fake" }
func (d *fakeDialect) DropStatement(t *Table) string         { return "" }
func (d *fakeDialect) TimestampType() string                 { return "TIMESTAMP" }
func (d *fakeDialect) CurrentTimestamp() string              { return "NOW" }
func (d *fakeDialect) DefaultNaming() naming.Convention      { return naming.Convention{} }
func (d *fakeDialect) CommentStatements(t *Table) []string   { return nil }

func (d *fakeDialect) CreateStatement(t *Table, opts GenerateOptions) string { return "" }

func (d *fakeDialect) ConstraintStatements(t *Table, opts GenerateOptions) []string { return nil }

func (d *fakeDialect) IndexStatements(t *Table, opts GenerateOptions) []string { return nil }

func (d *fakeDialect) TriggerStatements(t *Table, opts GenerateOptions) []string { return nil }

func TestNewDialectUnsupported(t *testing.T) {
	dialect, err := NewDialect("mysql")
	assert.Nil(t, dialect)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedDialect))
	assert.Contains(t, err.Error(), `no dialect registered for "mysql"`)
}

func TestRegisterDialect(t *testing.T) {
	RegisterDialect("fake", &fakeDialect{})
	dialect, err := NewDialect("fake")
	assert.NoError(t, err)
	assert.Equal(t, "fake", dialect.Name())
	assert.Contains(t, DialectNames(), "fake")
}

func TestDialectNamesAreCaseInsensitive(t *testing.T) {
	RegisterDialect("Fake", &fakeDialect{})
	dialect, err := NewDialect("FAKE")
	assert.NoError(t, err)
	assert.Equal(t, "fake", dialect.Name())
	// registered under the lowercase name, listed once
	assert.Contains(t, DialectNames(), "fake")
	assert.NotContains(t, DialectNames(), "Fake")
}
