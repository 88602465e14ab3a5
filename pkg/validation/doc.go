// Package validation evaluates form fields against the constraints declared in
// a model.Schema and exposes the outcome as derived state.
//
// Each field is checked in a fixed order (required, minimum length, pattern,
// checkbox acknowledgment). Checks never short-circuit each other, so one field
// can collect several messages. The per-field messages form an ErrorMap and the
// form is valid when every entry in that map is empty.
//
// Validator performs a single pass over a data snapshot. Record and Form add
// the live binding: callers keep mutating a Record and read Form.FieldErrors or
// Form.IsFormValid whenever they need to; both are recomputed from one
// consistent snapshot when the record has changed since the last read.
package validation
