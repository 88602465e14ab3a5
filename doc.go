// Package formcheck validates form data against a declarative field schema.
//
// A schema lists fields with a model key and optional constraints (required,
// minLength, pattern, and required acknowledgment for checkbox fields). Bind it
// to a Record with UseValidation and read FieldErrors or IsFormValid from the
// returned Form at any time; both always reflect the latest record state.
//
//	record := formcheck.NewRecord(map[string]any{"email": ""})
//	form, err := formcheck.UseValidation(schema, record, formcheck.WithLocale("en"))
//	if err != nil {
//		return err
//	}
//	record.Set("email", "a@b.com")
//	ok := form.IsFormValid()
//
// The subpackages hold the pieces: pkg/validation (checks, Record, Form),
// pkg/schema (JSON/YAML documents), pkg/openapi (schemas from OpenAPI request
// bodies), pkg/report (summaries and server error merging) and pkg/prompt
// (interactive filling).
package formcheck
