package formcheck

import (
	"context"
	"fmt"
	"os"

	"github.com/goliatone/go-formcheck/pkg/model"
	"github.com/goliatone/go-formcheck/pkg/openapi"
	"github.com/goliatone/go-formcheck/pkg/schema"
	"github.com/goliatone/go-formcheck/pkg/validation"
)

// Schema aliases model.Schema so callers can stay on the root package.
type Schema = model.Schema

// Field aliases model.Field.
type Field = model.Field

// Record is the mutable data record a form reads from.
type Record = validation.Record

// Form exposes the derived FieldErrors/IsFormValid values.
type Form = validation.Form

// Result pairs the error map with the validity flag.
type Result = validation.Result

// ErrorMap maps field models to their messages.
type ErrorMap = validation.ErrorMap

// Option configures the validator behind a form.
type Option = validation.Option

// WithLocale selects a built-in message catalog ("ru" or "en").
func WithLocale(locale string) Option {
	return validation.WithLocale(locale)
}

// WithMessages overrides individual messages.
func WithMessages(messages validation.Messages) Option {
	return validation.WithMessages(messages)
}

// WithFlatKeys looks models up as literal top-level keys only.
func WithFlatKeys() Option {
	return validation.WithFlatKeys()
}

// NewRecord creates a record seeded with a copy of initial.
func NewRecord(initial map[string]any) *Record {
	return validation.NewRecord(initial)
}

// UseValidation binds schema to record and returns the live form. It fails only
// when a field declares a malformed pattern.
func UseValidation(schema Schema, record *Record, opts ...Option) (*Form, error) {
	return validation.NewForm(schema, record, opts...)
}

// Validate evaluates a one-off snapshot without keeping a binding.
func Validate(schema Schema, data map[string]any, opts ...Option) (Result, error) {
	return validation.Validate(schema, data, opts...)
}

// FormFromFile loads a schema document (JSON or YAML) and binds it to record.
// The document's locale and message overrides apply unless locale is set.
func FormFromFile(path string, record *Record, locale string) (*Form, error) {
	doc, err := schema.LoadFile(path)
	if err != nil {
		return nil, err
	}
	v, err := doc.Validator(locale)
	if err != nil {
		return nil, err
	}
	return validation.Bind(v, record)
}

// SchemaFromOpenAPI reads an OpenAPI document from disk and derives the form
// schema for operationID.
func SchemaFromOpenAPI(ctx context.Context, path, operationID string) (Schema, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Schema{}, fmt.Errorf("formcheck: read %s: %w", path, err)
	}
	return openapi.FromOperation(ctx, raw, operationID)
}
