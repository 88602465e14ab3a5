// Package model defines the form schema consumed by the validator: an ordered
// list of fields, each naming the data record key it reads (Model) and the
// constraints declared for it (required, minLength, pattern and, for checkbox
// fields, required acknowledgment). Presentation attributes such as Label and
// Placeholder are carried along for callers that render the form but are
// ignored during validation.
package model
