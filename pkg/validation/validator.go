package validation

import (
	"sort"
	"time"
	"unicode/utf8"

	"github.com/dlclark/regexp2"

	"github.com/goliatone/go-formcheck/pkg/model"
)

// patternTimeout bounds a single pattern evaluation. Backtracking patterns can
// otherwise run for an unbounded time on hostile input.
const patternTimeout = 250 * time.Millisecond

// ErrorMap holds the messages produced for each field, keyed by model. Every
// schema field has an entry; an empty slice means the field is valid.
type ErrorMap map[string][]string

// Valid reports whether every entry is empty.
func (m ErrorMap) Valid() bool {
	for _, messages := range m {
		if len(messages) > 0 {
			return false
		}
	}
	return true
}

// For returns the messages recorded for model.
func (m ErrorMap) For(model string) []string {
	if m == nil {
		return nil
	}
	return m[model]
}

// Invalid returns the keys with at least one message, sorted.
func (m ErrorMap) Invalid() []string {
	var keys []string
	for key, messages := range m {
		if len(messages) > 0 {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a deep copy of the map.
func (m ErrorMap) Clone() ErrorMap {
	if m == nil {
		return nil
	}
	out := make(ErrorMap, len(m))
	for key, messages := range m {
		out[key] = append([]string{}, messages...)
	}
	return out
}

// Result is the outcome of validating one data snapshot.
type Result struct {
	Errors ErrorMap `json:"errors"`
	Valid  bool     `json:"valid"`
}

// Clone returns a copy that shares no memory with r.
func (r Result) Clone() Result {
	return Result{Errors: r.Errors.Clone(), Valid: r.Valid}
}

// Option configures a Validator.
type Option func(*Validator)

// WithLocale selects one of the built-in message catalogs.
func WithLocale(locale string) Option {
	return func(v *Validator) {
		v.messages = Catalog(locale)
	}
}

// WithMessages overrides the message catalog. Empty entries keep the value
// from the catalog configured so far.
func WithMessages(messages Messages) Option {
	return func(v *Validator) {
		v.messages = messages.Merge(v.messages)
	}
}

// WithFlatKeys disables the dotted-path fallback: a model is only ever looked
// up as a literal top-level key, so "owner.email" is absent unless the record
// has that exact key.
func WithFlatKeys() Option {
	return func(v *Validator) {
		v.flatKeys = true
	}
}

// Validator checks data records against a schema. Patterns use ECMAScript
// syntax and are compiled once in New; the Validator is immutable afterwards
// and safe for concurrent use.
type Validator struct {
	schema   model.Schema
	messages Messages
	patterns map[string]*regexp2.Regexp
	flatKeys bool
}

// New compiles the schema. A field with a malformed pattern fails construction
// with a *PatternError.
func New(schema model.Schema, opts ...Option) (*Validator, error) {
	v := &Validator{
		schema:   cloneSchema(schema),
		messages: Catalog(DefaultLocale),
		patterns: make(map[string]*regexp2.Regexp),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(v)
	}

	for _, field := range v.schema.Fields {
		if field.Pattern == "" {
			continue
		}
		if _, ok := v.patterns[field.Pattern]; ok {
			continue
		}
		re, err := compilePattern(field)
		if err != nil {
			return nil, err
		}
		v.patterns[field.Pattern] = re
	}

	return v, nil
}

// MustNew is like New but panics on a malformed pattern. Intended for schemas
// declared in code.
func MustNew(schema model.Schema, opts ...Option) *Validator {
	v, err := New(schema, opts...)
	if err != nil {
		panic(err)
	}
	return v
}

// Schema returns a copy of the compiled schema.
func (v *Validator) Schema() model.Schema {
	return cloneSchema(v.schema)
}

// Messages returns the active message catalog.
func (v *Validator) Messages() Messages {
	return v.messages
}

// ValidateField applies every check declared by field to value. Fields that
// were not part of the compiled schema have their pattern compiled on demand,
// which is the only way this method can fail.
func (v *Validator) ValidateField(field model.Field, value any) ([]string, error) {
	var re *regexp2.Regexp
	if field.Pattern != "" {
		re = v.patterns[field.Pattern]
		if re == nil {
			compiled, err := compilePattern(field)
			if err != nil {
				return nil, err
			}
			re = compiled
		}
	}
	return v.check(field, value, re), nil
}

// Validate evaluates every schema field against record. The record is only
// read.
func (v *Validator) Validate(record map[string]any) Result {
	errs := make(ErrorMap, len(v.schema.Fields))
	for _, field := range v.schema.Fields {
		errs[field.Model] = v.check(field, v.lookup(record, field.Model), v.patterns[field.Pattern])
	}
	return Result{Errors: errs, Valid: errs.Valid()}
}

func (v *Validator) lookup(record map[string]any, key string) any {
	if v.flatKeys {
		if record == nil {
			return nil
		}
		return record[key]
	}
	return Lookup(record, key)
}

func (v *Validator) check(field model.Field, value any, re *regexp2.Regexp) []string {
	errs := []string{}
	kind := Classify(value)

	if field.Required && (kind == KindAbsent || value == "") {
		errs = append(errs, v.messages.Required)
	}

	if field.MinLength > 0 && kind == KindText && utf8.RuneCountInString(value.(string)) < field.MinLength {
		errs = append(errs, v.messages.minLength(field.MinLength))
	}

	if re != nil && kind == KindText && !matches(re, value.(string)) {
		errs = append(errs, v.messages.InvalidFormat)
	}

	if field.IsCheckbox() && field.Required && value != true {
		errs = append(errs, v.messages.ConsentRequired)
	}

	return errs
}

// ValidateField checks a single field with the default catalog.
func ValidateField(field model.Field, value any) ([]string, error) {
	v := &Validator{messages: Catalog(DefaultLocale)}
	return v.ValidateField(field, value)
}

// Validate compiles schema and evaluates record in one call.
func Validate(schema model.Schema, record map[string]any, opts ...Option) (Result, error) {
	v, err := New(schema, opts...)
	if err != nil {
		return Result{}, err
	}
	return v.Validate(record), nil
}

func compilePattern(field model.Field) (*regexp2.Regexp, error) {
	re, err := regexp2.Compile(field.Pattern, regexp2.ECMAScript)
	if err != nil {
		return nil, &PatternError{Field: field.Model, Pattern: field.Pattern, Err: err}
	}
	re.MatchTimeout = patternTimeout
	return re, nil
}

// matches reports whether re finds a match anywhere in text. A match that
// times out counts as a mismatch.
func matches(re *regexp2.Regexp, text string) bool {
	ok, err := re.MatchString(text)
	return err == nil && ok
}

func cloneSchema(schema model.Schema) model.Schema {
	out := schema
	out.Fields = append([]model.Field(nil), schema.Fields...)
	return out
}
