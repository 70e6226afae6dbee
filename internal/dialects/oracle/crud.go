package oracle

import (
	"fmt"
	"strings"

	"github.com/go-openapi/inflect"
	"github.com/schemaforge/schemaforge/internal"
)

// crudWriter holds the derived naming and field partitions shared by the
// package spec and body emitters for one table.
type crudWriter struct {
	table    *internal.Table // audit columns already injected
	opts     internal.PackageOptions
	name     string // lowercased table name
	singular string
	pkg      string
}

func (d *oracleDialect) newCrudWriter(table *internal.Table, opts internal.PackageOptions) *crudWriter {
	resolved := internal.ResolvePackageOptions(&opts)
	name := strings.ToLower(table.Name)
	return &crudWriter{
		table:    d.audited(table, resolved.AuditColumns),
		opts:     resolved,
		name:     name,
		singular: inflect.Singularize(name),
		pkg:      resolved.PackagePrefix + name,
	}
}

// GeneratePackage returns the package specification followed by the body,
// each terminated by the compilation-unit delimiter.
func (d *oracleDialect) GeneratePackage(table *internal.Table, opts internal.PackageOptions) string {
	return d.PackageSpec(table, opts) + "\n" + d.PackageBody(table, opts)
}

func (d *oracleDialect) PackageSpec(table *internal.Table, opts internal.PackageOptions) string {
	w := d.newCrudWriter(table, opts)
	var b strings.Builder
	b.WriteString(fmt.Sprintf("CREATE OR REPLACE PACKAGE %s AS\n\n", w.pkg))
	for _, proc := range w.procedures() {
		b.WriteString(proc.signature(1))
		b.WriteString(";\n\n")
	}
	b.WriteString(fmt.Sprintf("END %s;\n/\n", w.pkg))
	return b.String()
}

func (d *oracleDialect) PackageBody(table *internal.Table, opts internal.PackageOptions) string {
	w := d.newCrudWriter(table, opts)
	var b strings.Builder
	b.WriteString(fmt.Sprintf("CREATE OR REPLACE PACKAGE BODY %s AS\n\n", w.pkg))
	for _, proc := range w.procedures() {
		b.WriteString(proc.signature(1))
		b.WriteString(" AS\n")
		for _, decl := range proc.declarations {
			b.WriteString("\t\t" + decl + "\n")
		}
		b.WriteString("\tBEGIN\n")
		for _, line := range proc.body {
			if line == "" {
				b.WriteString("\n")
				continue
			}
			b.WriteString("\t\t" + line + "\n")
		}
		if len(proc.exceptions) > 0 {
			b.WriteString("\tEXCEPTION\n")
			for _, line := range proc.exceptions {
				b.WriteString("\t\t" + line + "\n")
			}
		}
		b.WriteString(fmt.Sprintf("\tEND %s;\n\n", proc.name))
	}
	b.WriteString(fmt.Sprintf("END %s;\n/\n", w.pkg))
	return b.String()
}

// procedure is one generated PL/SQL procedure.
type procedure struct {
	name         string
	params       []string // rendered parameter declarations
	declarations []string
	body         []string
	exceptions   []string
}

func (p *procedure) signature(indent int) string {
	tabs := strings.Repeat("\t", indent)
	if len(p.params) == 0 {
		return fmt.Sprintf("%sPROCEDURE %s", tabs, p.name)
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%sPROCEDURE %s (\n", tabs, p.name))
	for i, param := range p.params {
		b.WriteString(tabs + "\t" + param)
		if i < len(p.params)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString(tabs + ")")
	return b.String()
}

func (w *crudWriter) procedures() []*procedure {
	procs := []*procedure{
		w.createProcedure(),
		w.updateProcedure(),
		w.deleteProcedure(),
		w.getProcedure(),
	}
	if !w.opts.NoPagination {
		procs = append(procs, w.listProcedure())
	}
	if !w.opts.NoValidation {
		procs = append(procs, w.validateProcedure())
	}
	if !w.opts.NoExceptions {
		procs = append(procs, w.errorProcedure())
	}
	return procs
}

// field partitions

func (w *crudWriter) isAuditColumn(f internal.Field) bool {
	return strings.EqualFold(f.Name, w.opts.AuditColumns.CreatedAt) ||
		strings.EqualFold(f.Name, w.opts.AuditColumns.UpdatedAt)
}

func (w *crudWriter) primaryKeys() []internal.Field {
	return w.table.PrimaryKeys()
}

// dataFields are the non-primary-key fields supplied by callers: everything
// except the audit timestamp columns, which the generated code manages.
func (w *crudWriter) dataFields() []internal.Field {
	var fields []internal.Field
	for _, f := range w.table.NonPrimaryKeys() {
		if !w.isAuditColumn(f) {
			fields = append(fields, f)
		}
	}
	return fields
}

func (w *crudWriter) foreignKeyFields() []internal.Field {
	var fields []internal.Field
	for _, f := range w.table.Fields {
		if f.ForeignKey != nil {
			fields = append(fields, f)
		}
	}
	return fields
}

func (w *crudWriter) searchableFields() []internal.Field {
	var fields []internal.Field
	for _, f := range w.table.Fields {
		if isSearchable(f) {
			fields = append(fields, f)
		}
	}
	return fields
}

// hasSurrogateKey reports whether the primary key is a single numeric
// column whose next value the create procedure computes as max+1. Not safe
// under concurrent inserts; kept for compatibility with the packages this
// generator replaces. A primary key that is also a foreign key is never
// generated: it must hold an existing parent key, so the caller supplies it.
func (w *crudWriter) hasSurrogateKey() bool {
	keys := w.primaryKeys()
	return len(keys) == 1 && isNumeric(keys[0]) && keys[0].ForeignKey == nil
}

func (w *crudWriter) param(f internal.Field) string {
	return fmt.Sprintf("p_%s IN %s.%s%%TYPE", f.Name, w.name, f.Name)
}

// pkFilter renders the primary key WHERE condition, AND-joining composite
// keys. valueFor maps a key field to the expression holding its value.
func (w *crudWriter) pkFilter(valueFor func(internal.Field) string) string {
	var conditions []string
	for _, f := range w.primaryKeys() {
		conditions = append(conditions, fmt.Sprintf("%s = %s", f.Name, valueFor(f)))
	}
	return strings.Join(conditions, " AND ")
}

func paramValue(f internal.Field) string {
	return "p_" + f.Name
}

func (w *crudWriter) columnList() string {
	var cols []string
	for _, f := range w.table.Fields {
		cols = append(cols, f.Name)
	}
	return strings.Join(cols, ",")
}

// validateCall renders the call into the validation helper, passing the
// foreign key parameters.
func (w *crudWriter) validateCall() string {
	var args []string
	for _, f := range w.foreignKeyFields() {
		args = append(args, paramValue(f))
	}
	if len(args) == 0 {
		return fmt.Sprintf("validate_%s;", w.singular)
	}
	return fmt.Sprintf("validate_%s(%s);", w.singular, strings.Join(args, ", "))
}

func (w *crudWriter) defaultExceptions() []string {
	return []string{
		"WHEN OTHERS THEN",
		"\thandle_error(SQLCODE, SQLERRM);",
	}
}

func (w *crudWriter) notFoundExceptions() []string {
	return []string{
		"WHEN NO_DATA_FOUND THEN",
		fmt.Sprintf("\thandle_error(100, '%s not found');", w.singular),
		"WHEN OTHERS THEN",
		"\thandle_error(SQLCODE, SQLERRM);",
	}
}

func (w *crudWriter) createProcedure() *procedure {
	proc := &procedure{name: "create_" + w.singular}
	surrogate := w.hasSurrogateKey()
	keys := w.primaryKeys()

	if !surrogate {
		for _, f := range keys {
			proc.params = append(proc.params, w.param(f))
		}
	}
	for _, f := range w.dataFields() {
		proc.params = append(proc.params, w.param(f))
	}

	if surrogate {
		proc.declarations = append(proc.declarations, fmt.Sprintf("v_%s %s.%s%%TYPE;", keys[0].Name, w.name, keys[0].Name))
	}
	if !w.opts.NoJSON {
		proc.declarations = append(proc.declarations, "v_cursor SYS_REFCURSOR;")
	}

	if !w.opts.NoValidation {
		proc.body = append(proc.body, w.validateCall())
	}
	if surrogate {
		// max+1 surrogate key generation, not concurrency safe
		proc.body = append(proc.body, fmt.Sprintf("SELECT NVL(MAX(%s), 0) + 1 INTO v_%s FROM %s;", keys[0].Name, keys[0].Name, w.name))
	}

	// all columns except the generated key value and updated_at, which is
	// only ever set on update
	var columns, values []string
	for _, f := range keys {
		columns = append(columns, f.Name)
		if surrogate {
			values = append(values, "v_"+f.Name)
		} else {
			values = append(values, paramValue(f))
		}
	}
	for _, f := range w.table.NonPrimaryKeys() {
		if strings.EqualFold(f.Name, w.opts.AuditColumns.UpdatedAt) {
			continue
		}
		columns = append(columns, f.Name)
		if strings.EqualFold(f.Name, w.opts.AuditColumns.CreatedAt) {
			values = append(values, "CURRENT_TIMESTAMP")
		} else {
			values = append(values, paramValue(f))
		}
	}
	proc.body = append(proc.body,
		fmt.Sprintf("INSERT INTO %s (%s)", w.name, strings.Join(columns, ", ")),
		fmt.Sprintf("VALUES (%s);", strings.Join(values, ", ")),
		"COMMIT;",
	)

	createdFilter := w.pkFilter(func(f internal.Field) string {
		if surrogate {
			return "v_" + f.Name
		}
		return paramValue(f)
	})
	if !w.opts.NoJSON {
		proc.body = append(proc.body,
			fmt.Sprintf("OPEN v_cursor FOR SELECT * FROM %s WHERE %s;", w.name, createdFilter),
			fmt.Sprintf("%s.build_response(v_cursor);", w.opts.UtilityPackage),
		)
	} else {
		proc.body = append(proc.body, fmt.Sprintf("DBMS_OUTPUT.PUT_LINE('created %s');", w.singular))
	}

	if !w.opts.NoExceptions {
		proc.exceptions = w.defaultExceptions()
	}
	return proc
}

func (w *crudWriter) updateProcedure() *procedure {
	proc := &procedure{name: "update_" + w.singular}
	for _, f := range w.primaryKeys() {
		proc.params = append(proc.params, w.param(f))
	}
	for _, f := range w.dataFields() {
		proc.params = append(proc.params, w.param(f))
	}
	if !w.opts.NoJSON {
		proc.declarations = append(proc.declarations, "v_cursor SYS_REFCURSOR;")
	}

	if !w.opts.NoValidation {
		proc.body = append(proc.body, w.validateCall())
	}

	// every non-key column except created_at; updated_at is forced to the
	// current timestamp
	var assignments []string
	for _, f := range w.table.NonPrimaryKeys() {
		if strings.EqualFold(f.Name, w.opts.AuditColumns.CreatedAt) {
			continue
		}
		if strings.EqualFold(f.Name, w.opts.AuditColumns.UpdatedAt) {
			assignments = append(assignments, fmt.Sprintf("%s = CURRENT_TIMESTAMP", f.Name))
			continue
		}
		assignments = append(assignments, fmt.Sprintf("%s = %s", f.Name, paramValue(f)))
	}
	filter := w.pkFilter(paramValue)
	proc.body = append(proc.body, fmt.Sprintf("UPDATE %s SET", w.name))
	for i, assignment := range assignments {
		line := "\t" + assignment
		if i < len(assignments)-1 {
			line += ","
		}
		proc.body = append(proc.body, line)
	}
	proc.body = append(proc.body,
		fmt.Sprintf("WHERE %s;", filter),
		"IF SQL%ROWCOUNT = 0 THEN",
		"\tRAISE NO_DATA_FOUND;",
		"END IF;",
		"COMMIT;",
	)
	if !w.opts.NoJSON {
		proc.body = append(proc.body,
			fmt.Sprintf("OPEN v_cursor FOR SELECT * FROM %s WHERE %s;", w.name, filter),
			fmt.Sprintf("%s.build_response(v_cursor);", w.opts.UtilityPackage),
		)
	} else {
		proc.body = append(proc.body, fmt.Sprintf("DBMS_OUTPUT.PUT_LINE('updated %s');", w.singular))
	}
	if !w.opts.NoExceptions {
		proc.exceptions = w.notFoundExceptions()
	}
	return proc
}

func (w *crudWriter) deleteProcedure() *procedure {
	proc := &procedure{name: "delete_" + w.singular}
	for _, f := range w.primaryKeys() {
		proc.params = append(proc.params, w.param(f))
	}
	proc.declarations = append(proc.declarations, "v_count NUMBER;")
	filter := w.pkFilter(paramValue)

	var keyParts []string
	for _, f := range w.primaryKeys() {
		keyParts = append(keyParts, fmt.Sprintf("'%s=' || %s", f.Name, paramValue(f)))
	}
	proc.body = append(proc.body,
		fmt.Sprintf("SELECT COUNT(*) INTO v_count FROM %s WHERE %s;", w.name, filter),
		"IF v_count = 0 THEN",
		"\tRAISE NO_DATA_FOUND;",
		"END IF;",
		fmt.Sprintf("DELETE FROM %s WHERE %s;", w.name, filter),
		"COMMIT;",
		fmt.Sprintf("DBMS_OUTPUT.PUT_LINE('deleted %s ' || %s);", w.singular, strings.Join(keyParts, " || ', ' || ")),
	)
	if !w.opts.NoExceptions {
		proc.exceptions = w.notFoundExceptions()
	}
	return proc
}

func (w *crudWriter) getProcedure() *procedure {
	proc := &procedure{name: "get_" + w.singular}
	for _, f := range w.primaryKeys() {
		proc.params = append(proc.params, w.param(f))
	}
	proc.declarations = append(proc.declarations,
		"v_count NUMBER;",
		"v_cursor SYS_REFCURSOR;",
	)
	filter := w.pkFilter(paramValue)
	proc.body = append(proc.body,
		fmt.Sprintf("SELECT COUNT(*) INTO v_count FROM %s WHERE %s;", w.name, filter),
		"IF v_count = 0 THEN",
		"\tRAISE NO_DATA_FOUND;",
		"END IF;",
		fmt.Sprintf("OPEN v_cursor FOR SELECT * FROM %s WHERE %s;", w.name, filter),
		fmt.Sprintf("%s.build_response(v_cursor);", w.opts.UtilityPackage),
	)
	if !w.opts.NoExceptions {
		proc.exceptions = w.notFoundExceptions()
	}
	return proc
}

func (w *crudWriter) listProcedure() *procedure {
	keys := w.primaryKeys()
	search := !w.opts.NoSearch && len(w.searchableFields()) > 0
	proc := &procedure{name: "list_" + w.name}
	proc.params = append(proc.params,
		"p_page IN NUMBER DEFAULT 1",
		"p_page_size IN NUMBER DEFAULT 20",
		fmt.Sprintf("p_sort_column IN VARCHAR2 DEFAULT '%s'", keys[0].Name),
		"p_sort_direction IN VARCHAR2 DEFAULT 'ASC'",
	)
	if search {
		proc.params = append(proc.params,
			"p_query IN VARCHAR2 DEFAULT NULL",
			"p_search_mode IN VARCHAR2 DEFAULT 'partial'",
		)
	}

	proc.declarations = append(proc.declarations,
		"v_where VARCHAR2(4000) := '';",
		"v_total NUMBER;",
		"v_pages NUMBER;",
		"v_keys SYS_REFCURSOR;",
		"v_record SYS_REFCURSOR;",
	)
	for _, f := range keys {
		proc.declarations = append(proc.declarations, fmt.Sprintf("v_%s %s.%s%%TYPE;", f.Name, w.name, f.Name))
	}

	util := w.opts.UtilityPackage
	proc.body = append(proc.body,
		fmt.Sprintf("%s.validate_pagination(p_page, p_page_size, 1, 100);", util),
		fmt.Sprintf("%s.validate_sorting(p_sort_column, p_sort_direction, '%s');", util, w.columnList()),
	)
	if search {
		var searchable []string
		for _, f := range w.searchableFields() {
			searchable = append(searchable, f.Name)
		}
		// the query text is embedded inline after doubling single quotes;
		// kept bind-free for compatibility with previously deployed packages
		proc.body = append(proc.body,
			"IF p_query IS NOT NULL THEN",
			fmt.Sprintf("\tv_where := %s.build_where_clause(REPLACE(p_query, '''', ''''''), p_search_mode, '%s');", util, strings.Join(searchable, ",")),
			"END IF;",
		)
	}

	var pkCols, pkVars []string
	for _, f := range keys {
		pkCols = append(pkCols, f.Name)
		pkVars = append(pkVars, "v_"+f.Name)
	}
	recordFilter := w.pkFilter(func(f internal.Field) string { return "v_" + f.Name })

	proc.body = append(proc.body,
		fmt.Sprintf("EXECUTE IMMEDIATE 'SELECT COUNT(*) FROM %s' || v_where INTO v_total;", w.name),
		"v_pages := CEIL(v_total / p_page_size);",
		fmt.Sprintf("OPEN v_keys FOR 'SELECT %s FROM %s' || v_where", strings.Join(pkCols, ", "), w.name),
		"\t|| ' ORDER BY ' || p_sort_column || ' ' || p_sort_direction",
		"\t|| ' OFFSET ' || ((p_page - 1) * p_page_size) || ' ROWS FETCH NEXT ' || p_page_size || ' ROWS ONLY';",
		"LOOP",
		fmt.Sprintf("\tFETCH v_keys INTO %s;", strings.Join(pkVars, ", ")),
		"\tEXIT WHEN v_keys%NOTFOUND;",
		fmt.Sprintf("\tOPEN v_record FOR SELECT * FROM %s WHERE %s;", w.name, recordFilter),
		fmt.Sprintf("\t%s.build_response(v_record);", util),
		"END LOOP;",
		"CLOSE v_keys;",
	)
	if search {
		proc.body = append(proc.body,
			fmt.Sprintf("%s.build_paginated_response(v_total, v_pages, p_page, p_page_size, p_sort_column, p_sort_direction, p_query, p_search_mode);", util))
	} else {
		proc.body = append(proc.body,
			fmt.Sprintf("%s.build_paginated_response(v_total, v_pages, p_page, p_page_size, p_sort_column, p_sort_direction, NULL, NULL);", util))
	}
	if !w.opts.NoExceptions {
		proc.exceptions = w.defaultExceptions()
	}
	return proc
}

// validateProcedure verifies every referenced primary key exists when the
// foreign key value is non-null. It is the extension point for further
// business rules.
func (w *crudWriter) validateProcedure() *procedure {
	proc := &procedure{name: "validate_" + w.singular}
	fks := w.foreignKeyFields()
	for _, f := range fks {
		proc.params = append(proc.params, w.param(f))
	}
	if len(fks) > 0 {
		proc.declarations = append(proc.declarations, "v_count NUMBER;")
	}
	for _, f := range fks {
		proc.body = append(proc.body,
			fmt.Sprintf("IF %s IS NOT NULL THEN", paramValue(f)),
			fmt.Sprintf("\tSELECT COUNT(*) INTO v_count FROM %s WHERE %s = %s;", strings.ToLower(f.ForeignKey.Table), f.ForeignKey.Column, paramValue(f)),
			"\tIF v_count = 0 THEN",
			fmt.Sprintf("\t\tRAISE_APPLICATION_ERROR(-20404, 'referenced %s.%s not found');", strings.ToLower(f.ForeignKey.Table), f.ForeignKey.Column),
			"\tEND IF;",
			"END IF;",
		)
	}
	proc.body = append(proc.body, "NULL; -- additional business rules go here")
	return proc
}

// errorProcedure maps engine error codes onto the standard error envelope:
// 409 for unique constraint violations, 404 for not found, 500 otherwise.
func (w *crudWriter) errorProcedure() *procedure {
	proc := &procedure{name: "handle_error"}
	proc.params = append(proc.params,
		"p_code IN NUMBER",
		"p_message IN VARCHAR2",
	)
	proc.declarations = append(proc.declarations, "v_status NUMBER;")
	proc.body = append(proc.body,
		"CASE",
		"\tWHEN p_code = -1 THEN v_status := 409;",
		"\tWHEN p_code = 100 OR p_code = -20404 THEN v_status := 404;",
		"\tELSE v_status := 500;",
		"END CASE;",
		"DBMS_OUTPUT.PUT_LINE('error ' || v_status || ': ' || p_message);",
	)
	return proc
}
