package internal

import "github.com/schemaforge/schemaforge/internal/naming"

// AuditColumnNames configures the names of the audit columns injected
// into every generated table.
type AuditColumnNames struct {
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
	CreatedBy string `json:"createdBy,omitempty"`
	UpdatedBy string `json:"updatedBy,omitempty"`
}

// GenerateOptions are the toggles for DDL script generation. The zero
// value enables everything; toggles are negated so that an unset option
// takes its default. Use ResolveGenerateOptions to fill in names and the
// naming convention; a nil value means all defaults.
type GenerateOptions struct {
	NoDrops        bool              `json:"noDrops,omitempty"`
	NoComments     bool              `json:"noComments,omitempty"`
	NoAuditColumns bool              `json:"noAuditColumns,omitempty"`
	AuditColumns   AuditColumnNames  `json:"auditColumns,omitempty"`
	Naming         naming.Convention `json:"naming,omitempty"`
}

// ResolveGenerateOptions returns a fully-populated copy of opts, filling
// unset values from the defaults and the dialect's naming convention. The
// caller's value is never mutated.
func ResolveGenerateOptions(opts *GenerateOptions, defaultNaming naming.Convention) GenerateOptions {
	var resolved GenerateOptions
	if opts != nil {
		resolved = *opts
	}
	if resolved.Naming.IsZero() {
		resolved.Naming = defaultNaming
	}
	if resolved.AuditColumns.CreatedAt == "" {
		resolved.AuditColumns.CreatedAt = "created_at"
	}
	if resolved.AuditColumns.UpdatedAt == "" {
		resolved.AuditColumns.UpdatedAt = "updated_at"
	}
	return resolved
}

// PackageOptions are the toggles for CRUD package generation. As with
// GenerateOptions the zero value enables everything; a nil value means
// all defaults.
type PackageOptions struct {
	NoValidation bool             `json:"noValidation,omitempty"`
	NoExceptions bool             `json:"noExceptions,omitempty"`
	NoJSON       bool             `json:"noJSON,omitempty"`
	NoPagination bool             `json:"noPagination,omitempty"`
	NoSearch     bool             `json:"noSearch,omitempty"`
	AuditColumns AuditColumnNames `json:"auditColumns,omitempty"`

	// PackagePrefix is prepended to the table name to form the package name.
	PackagePrefix string `json:"packagePrefix,omitempty"`

	// UtilityPackage is the externally-defined package the generated code
	// calls for pagination/sorting validation and response envelopes. It is
	// assumed to exist at deploy time and is never generated here.
	UtilityPackage string `json:"utilityPackage,omitempty"`
}

// ResolvePackageOptions returns a fully-populated copy of opts. The
// caller's value is never mutated.
func ResolvePackageOptions(opts *PackageOptions) PackageOptions {
	var resolved PackageOptions
	if opts != nil {
		resolved = *opts
	}
	if resolved.PackagePrefix == "" {
		resolved.PackagePrefix = "pkg_"
	}
	if resolved.UtilityPackage == "" {
		resolved.UtilityPackage = "response_util"
	}
	if resolved.AuditColumns.CreatedAt == "" {
		resolved.AuditColumns.CreatedAt = "created_at"
	}
	if resolved.AuditColumns.UpdatedAt == "" {
		resolved.AuditColumns.UpdatedAt = "updated_at"
	}
	return resolved
}
