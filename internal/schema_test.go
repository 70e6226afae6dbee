package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var auditNames = AuditColumnNames{CreatedAt: "created_at", UpdatedAt: "updated_at"}

func TestFieldIsNullable(t *testing.T) {
	yes := true
	no := false
	assert.True(t, (&Field{Name: "a"}).IsNullable())
	assert.True(t, (&Field{Name: "a", Nullable: &yes}).IsNullable())
	assert.False(t, (&Field{Name: "a", Nullable: &no}).IsNullable())
	assert.False(t, (&Field{Name: "a", PrimaryKey: true}).IsNullable())
}

func TestTableFieldLookup(t *testing.T) {
	table := Table{Name: "employees", Fields: []Field{{Name: "First_Name", Type: "VARCHAR2(100)"}}}
	assert.NotNil(t, table.Field("first_name"))
	assert.True(t, table.HasField("FIRST_NAME"))
	assert.Nil(t, table.Field("last_name"))
}

func TestPrimaryKeyPartition(t *testing.T) {
	table := Table{Name: "employees", Fields: []Field{
		{Name: "pk", Type: "NUMBER", PrimaryKey: true},
		{Name: "first_name", Type: "VARCHAR2(100)"},
	}}
	keys := table.PrimaryKeys()
	assert.Len(t, keys, 1)
	assert.Equal(t, "pk", keys[0].Name)
	rest := table.NonPrimaryKeys()
	assert.Len(t, rest, 1)
	assert.Equal(t, "first_name", rest[0].Name)
}

func TestWithAuditColumns(t *testing.T) {
	table := Table{Name: "employees", Fields: []Field{
		{Name: "pk", Type: "NUMBER", PrimaryKey: true},
	}}
	audited := table.WithAuditColumns(auditNames, "TIMESTAMP", "CURRENT_TIMESTAMP", "VARCHAR2(255)")
	assert.Len(t, audited.Fields, 3)
	created := audited.Field("created_at")
	assert.NotNil(t, created)
	assert.Equal(t, "TIMESTAMP", created.Type)
	assert.Equal(t, "CURRENT_TIMESTAMP", created.Default)
	assert.False(t, created.IsNullable())
	assert.NotNil(t, audited.Field("updated_at"))
	// the original is never mutated
	assert.Len(t, table.Fields, 1)
}

func TestWithAuditColumnsSkipsExisting(t *testing.T) {
	table := Table{Name: "employees", Fields: []Field{
		{Name: "pk", Type: "NUMBER", PrimaryKey: true},
		{Name: "Updated_At", Type: "DATE"},
	}}
	audited := table.WithAuditColumns(auditNames, "TIMESTAMP", "CURRENT_TIMESTAMP", "VARCHAR2(255)")
	assert.Len(t, audited.Fields, 3)
	assert.NotNil(t, audited.Field("created_at"))
	// the existing updated_at is kept as declared, not duplicated
	assert.Equal(t, "DATE", audited.Field("updated_at").Type)
}

func TestWithAuditColumnsByColumns(t *testing.T) {
	table := Table{Name: "employees", Fields: []Field{
		{Name: "pk", Type: "NUMBER", PrimaryKey: true},
	}}
	names := auditNames
	names.CreatedBy = "created_by"
	names.UpdatedBy = "updated_by"
	audited := table.WithAuditColumns(names, "TIMESTAMP", "CURRENT_TIMESTAMP", "VARCHAR2(255)")
	assert.Len(t, audited.Fields, 5)
	createdBy := audited.Field("created_by")
	assert.NotNil(t, createdBy)
	assert.Equal(t, "VARCHAR2(255)", createdBy.Type)
	assert.Empty(t, createdBy.Default)
	assert.True(t, createdBy.IsNullable())
	// by-columns have no default names
	plain := table.WithAuditColumns(auditNames, "TIMESTAMP", "CURRENT_TIMESTAMP", "VARCHAR2(255)")
	assert.Len(t, plain.Fields, 3)
}

func TestSchemaTableLookup(t *testing.T) {
	schema := Schema{Dialect: "oracle", Tables: []Table{{Name: "Employees"}}}
	assert.NotNil(t, schema.Table("employees"))
	assert.Nil(t, schema.Table("departments"))
}
