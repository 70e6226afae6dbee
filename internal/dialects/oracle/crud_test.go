package oracle

import (
	"strings"
	"testing"

	"github.com/schemaforge/schemaforge/internal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultPackageOpts() internal.PackageOptions {
	return internal.ResolvePackageOptions(nil)
}

func TestPackageSpec(t *testing.T) {
	spec := dialect.PackageSpec(employees(), defaultPackageOpts())
	assert.Equal(t, `CREATE OR REPLACE PACKAGE pkg_employees AS

	PROCEDURE create_employee (
		p_first_name IN employees.first_name%TYPE,
		p_department_fk IN employees.department_fk%TYPE
	);

	PROCEDURE update_employee (
		p_pk IN employees.pk%TYPE,
		p_first_name IN employees.first_name%TYPE,
		p_department_fk IN employees.department_fk%TYPE
	);

	PROCEDURE delete_employee (
		p_pk IN employees.pk%TYPE
	);

	PROCEDURE get_employee (
		p_pk IN employees.pk%TYPE
	);

	PROCEDURE list_employees (
		p_page IN NUMBER DEFAULT 1,
		p_page_size IN NUMBER DEFAULT 20,
		p_sort_column IN VARCHAR2 DEFAULT 'pk',
		p_sort_direction IN VARCHAR2 DEFAULT 'ASC',
		p_query IN VARCHAR2 DEFAULT NULL,
		p_search_mode IN VARCHAR2 DEFAULT 'partial'
	);

	PROCEDURE validate_employee (
		p_department_fk IN employees.department_fk%TYPE
	);

	PROCEDURE handle_error (
		p_code IN NUMBER,
		p_message IN VARCHAR2
	);

END pkg_employees;
/
`, spec)
}

func TestPackageBodyCreate(t *testing.T) {
	body := dialect.PackageBody(employees(), defaultPackageOpts())
	assert.Contains(t, body, "CREATE OR REPLACE PACKAGE BODY pkg_employees AS")
	// surrogate key via max+1
	assert.Contains(t, body, "SELECT NVL(MAX(pk), 0) + 1 INTO v_pk FROM employees;")
	// updated_at is never inserted; created_at is set by the insert itself
	assert.Contains(t, body, "INSERT INTO employees (pk, first_name, department_fk, created_at)")
	assert.Contains(t, body, "VALUES (v_pk, p_first_name, p_department_fk, CURRENT_TIMESTAMP);")
	assert.NotContains(t, body, "INSERT INTO employees (pk, first_name, department_fk, created_at, updated_at)")
	assert.Contains(t, body, "validate_employee(p_department_fk);")
}

func TestPackageBodyUpdateForcesUpdatedAt(t *testing.T) {
	body := dialect.PackageBody(employees(), defaultPackageOpts())
	assert.Contains(t, body, "UPDATE employees SET")
	assert.Contains(t, body, "updated_at = CURRENT_TIMESTAMP")
	assert.NotContains(t, body, "created_at = p_created_at")
	assert.Contains(t, body, "IF SQL%ROWCOUNT = 0 THEN")
}

func TestPackageBodyDeleteChecksExistence(t *testing.T) {
	body := dialect.PackageBody(employees(), defaultPackageOpts())
	assert.Contains(t, body, "SELECT COUNT(*) INTO v_count FROM employees WHERE pk = p_pk;")
	assert.Contains(t, body, "RAISE NO_DATA_FOUND;")
	assert.Contains(t, body, "DELETE FROM employees WHERE pk = p_pk;")
	assert.Contains(t, body, "DBMS_OUTPUT.PUT_LINE('deleted employee ' || 'pk=' || p_pk);")
}

func TestPackageBodyList(t *testing.T) {
	body := dialect.PackageBody(employees(), defaultPackageOpts())
	assert.Contains(t, body, "response_util.validate_pagination(p_page, p_page_size, 1, 100);")
	assert.Contains(t, body, "response_util.validate_sorting(p_sort_column, p_sort_direction, 'pk,first_name,department_fk,created_at,updated_at');")
	// single quotes in the query text are doubled before embedding
	assert.Contains(t, body, "v_where := response_util.build_where_clause(REPLACE(p_query, '''', ''''''), p_search_mode, 'first_name');")
	assert.Contains(t, body, "EXECUTE IMMEDIATE 'SELECT COUNT(*) FROM employees' || v_where INTO v_total;")
	assert.Contains(t, body, "v_pages := CEIL(v_total / p_page_size);")
	assert.Contains(t, body, "' ROWS FETCH NEXT ' || p_page_size || ' ROWS ONLY';")
	// each page key is re-resolved to a full record
	assert.Contains(t, body, "OPEN v_record FOR SELECT * FROM employees WHERE pk = v_pk;")
	assert.Contains(t, body, "response_util.build_paginated_response(v_total, v_pages, p_page, p_page_size, p_sort_column, p_sort_direction, p_query, p_search_mode);")
}

func TestPackageBodyValidationHelper(t *testing.T) {
	body := dialect.PackageBody(employees(), defaultPackageOpts())
	assert.Contains(t, body, "IF p_department_fk IS NOT NULL THEN")
	assert.Contains(t, body, "SELECT COUNT(*) INTO v_count FROM departments WHERE pk = p_department_fk;")
	assert.Contains(t, body, "RAISE_APPLICATION_ERROR(-20404, 'referenced departments.pk not found');")
}

func TestPackageBodyErrorHandler(t *testing.T) {
	body := dialect.PackageBody(employees(), defaultPackageOpts())
	assert.Contains(t, body, "WHEN p_code = -1 THEN v_status := 409;")
	assert.Contains(t, body, "WHEN p_code = 100 OR p_code = -20404 THEN v_status := 404;")
	assert.Contains(t, body, "ELSE v_status := 500;")
	assert.Contains(t, body, "WHEN NO_DATA_FOUND THEN")
	assert.Contains(t, body, "handle_error(100, 'employee not found');")
	assert.Contains(t, body, "handle_error(SQLCODE, SQLERRM);")
}

func TestGeneratePackageSpecPrecedesBody(t *testing.T) {
	source := dialect.GeneratePackage(employees(), defaultPackageOpts())
	spec := strings.Index(source, "CREATE OR REPLACE PACKAGE pkg_employees AS")
	body := strings.Index(source, "CREATE OR REPLACE PACKAGE BODY pkg_employees AS")
	require.GreaterOrEqual(t, spec, 0)
	assert.Greater(t, body, spec)
}

func TestPackageWithoutPagination(t *testing.T) {
	opts := defaultPackageOpts()
	opts.NoPagination = true
	source := dialect.GeneratePackage(employees(), opts)
	assert.NotContains(t, source, "list_employees")
	assert.NotContains(t, source, "validate_pagination")
}

func TestPackageWithoutSearch(t *testing.T) {
	opts := defaultPackageOpts()
	opts.NoSearch = true
	source := dialect.GeneratePackage(employees(), opts)
	assert.NotContains(t, source, "p_query IN VARCHAR2")
	assert.NotContains(t, source, "build_where_clause")
	assert.Contains(t, source, "response_util.build_paginated_response(v_total, v_pages, p_page, p_page_size, p_sort_column, p_sort_direction, NULL, NULL);")
}

func TestPackageWithoutValidation(t *testing.T) {
	opts := defaultPackageOpts()
	opts.NoValidation = true
	source := dialect.GeneratePackage(employees(), opts)
	assert.NotContains(t, source, "validate_employee")
}

func TestPackageWithoutExceptions(t *testing.T) {
	opts := defaultPackageOpts()
	opts.NoExceptions = true
	source := dialect.GeneratePackage(employees(), opts)
	assert.NotContains(t, source, "handle_error")
	assert.NotContains(t, source, "EXCEPTION")
}

func TestPackageWithoutJSON(t *testing.T) {
	opts := defaultPackageOpts()
	opts.NoJSON = true
	source := dialect.GeneratePackage(employees(), opts)
	assert.Contains(t, source, "DBMS_OUTPUT.PUT_LINE('created employee');")
	assert.Contains(t, source, "DBMS_OUTPUT.PUT_LINE('updated employee');")
	// get still serializes the record through the utility envelope
	assert.Contains(t, source, "response_util.build_response(v_cursor);")
}

func TestPackageCompositeKey(t *testing.T) {
	table := &internal.Table{
		Name: "grants",
		Fields: []internal.Field{
			{Name: "user_id", Type: "NUMBER", PrimaryKey: true},
			{Name: "role_id", Type: "NUMBER", PrimaryKey: true},
			{Name: "level_cd", Type: "VARCHAR2(10)"},
		},
	}
	source := dialect.GeneratePackage(table, defaultPackageOpts())
	// composite keys are never generated, so create takes them as parameters
	assert.NotContains(t, source, "NVL(MAX(")
	assert.Contains(t, source, "p_user_id IN grants.user_id%TYPE")
	assert.Contains(t, source, "WHERE user_id = p_user_id AND role_id = p_role_id;")
	assert.Contains(t, source, "DBMS_OUTPUT.PUT_LINE('deleted grant ' || 'user_id=' || p_user_id || ', ' || 'role_id=' || p_role_id);")
}

func TestPackageSharedPrimaryKey(t *testing.T) {
	// a primary key that is also a foreign key is caller-supplied, never
	// generated max+1, so the validation call sees a declared parameter
	table := &internal.Table{
		Name: "profiles",
		Fields: []internal.Field{
			{Name: "pk", Type: "NUMBER", PrimaryKey: true, ForeignKey: &internal.ForeignKey{Table: "users", Column: "pk"}},
			{Name: "bio", Type: "VARCHAR2(4000)"},
		},
	}
	source := dialect.GeneratePackage(table, defaultPackageOpts())
	assert.NotContains(t, source, "NVL(MAX(")
	assert.Contains(t, source, `	PROCEDURE create_profile (
		p_pk IN profiles.pk%TYPE,
		p_bio IN profiles.bio%TYPE
	);`)
	assert.Contains(t, source, "validate_profile(p_pk);")
	assert.Contains(t, source, "INSERT INTO profiles (pk, bio, created_at)")
	assert.Contains(t, source, "VALUES (p_pk, p_bio, CURRENT_TIMESTAMP);")
	assert.Contains(t, source, "SELECT COUNT(*) INTO v_count FROM users WHERE pk = p_pk;")
}

func TestPackageCustomPrefixAndUtility(t *testing.T) {
	opts := defaultPackageOpts()
	opts.PackagePrefix = "api_"
	opts.UtilityPackage = "common_api"
	source := dialect.GeneratePackage(employees(), opts)
	assert.Contains(t, source, "CREATE OR REPLACE PACKAGE api_employees AS")
	assert.Contains(t, source, "common_api.build_response(v_cursor);")
	assert.NotContains(t, source, "response_util")
}
