package validation_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formcheck/pkg/model"
	"github.com/goliatone/go-formcheck/pkg/validation"
)

var en = validation.Catalog("en")

func TestValidateField_Required(t *testing.T) {
	field := model.Field{Model: "name", Required: true}

	for _, value := range []any{"", nil} {
		got, err := validation.ValidateField(field, value)
		if err != nil {
			t.Fatalf("validate %#v: %v", value, err)
		}
		want := []string{validation.Catalog(validation.DefaultLocale).Required}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("value %#v mismatch (-want +got):\n%s", value, diff)
		}
	}

	for _, value := range []any{"x", " ", false, true, 0, []any{}} {
		got, err := validation.ValidateField(field, value)
		if err != nil {
			t.Fatalf("validate %#v: %v", value, err)
		}
		if len(got) != 0 {
			t.Fatalf("expected no messages for %#v, got %v", value, got)
		}
	}
}

func TestValidateField_MinLength(t *testing.T) {
	v := validation.MustNew(model.Schema{}, validation.WithLocale("en"))
	field := model.Field{Model: "bio", MinLength: 3}

	cases := []struct {
		name  string
		value any
		want  []string
	}{
		{name: "shorter", value: "ab", want: []string{"Minimum 3 characters"}},
		{name: "empty", value: "", want: []string{"Minimum 3 characters"}},
		{name: "exact", value: "abc", want: []string{}},
		{name: "runes", value: "жук", want: []string{}},
		{name: "absent", value: nil, want: []string{}},
		{name: "bool", value: true, want: []string{}},
		{name: "number", value: 12, want: []string{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := v.ValidateField(field, tc.value)
			if err != nil {
				t.Fatalf("validate: %v", err)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("messages mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestValidateField_Pattern(t *testing.T) {
	v := validation.MustNew(model.Schema{}, validation.WithLocale("en"))
	field := model.Field{Model: "zip", Pattern: `^\d{5}$`}

	cases := []struct {
		value any
		want  []string
	}{
		{value: "12345", want: []string{}},
		{value: "1234", want: []string{en.InvalidFormat}},
		{value: "", want: []string{en.InvalidFormat}},
		{value: nil, want: []string{}},
		{value: 12345, want: []string{}},
		{value: false, want: []string{}},
	}
	for _, tc := range cases {
		got, err := v.ValidateField(field, tc.value)
		if err != nil {
			t.Fatalf("validate %#v: %v", tc.value, err)
		}
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Fatalf("value %#v mismatch (-want +got):\n%s", tc.value, diff)
		}
	}
}

func TestValidateField_PatternSearchesUnanchored(t *testing.T) {
	got, err := validation.ValidateField(model.Field{Model: "code", Pattern: `\d`}, "abc1")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected unanchored pattern to match, got %v", got)
	}
}

func TestValidateField_CheckboxConsent(t *testing.T) {
	v := validation.MustNew(model.Schema{}, validation.WithLocale("en"))
	field := model.Field{Model: "agree", Type: model.FieldTypeCheckbox, Required: true}

	cases := []struct {
		name  string
		value any
		want  []string
	}{
		{name: "true", value: true, want: []string{}},
		{name: "false", value: false, want: []string{en.ConsentRequired}},
		{name: "absent", value: nil, want: []string{en.Required, en.ConsentRequired}},
		{name: "truthy string", value: "yes", want: []string{en.ConsentRequired}},
		{name: "truthy number", value: 1, want: []string{en.ConsentRequired}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := v.ValidateField(field, tc.value)
			if err != nil {
				t.Fatalf("validate: %v", err)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("messages mismatch (-want +got):\n%s", diff)
			}
		})
	}

	optional := model.Field{Model: "newsletter", Type: model.FieldTypeCheckbox}
	got, err := v.ValidateField(optional, false)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected optional checkbox to accept false, got %v", got)
	}
}

func TestValidateField_ChecksAccumulateInOrder(t *testing.T) {
	v := validation.MustNew(model.Schema{}, validation.WithLocale("en"))
	field := model.Field{
		Model:     "nick",
		Type:      model.FieldTypeCheckbox,
		Required:  true,
		MinLength: 2,
		Pattern:   `^[a-z]+$`,
	}

	got, err := v.ValidateField(field, "")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	want := []string{en.Required, "Minimum 2 characters", en.InvalidFormat, en.ConsentRequired}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("messages mismatch (-want +got):\n%s", diff)
	}
}

func TestNew_MalformedPatternFails(t *testing.T) {
	schema := model.Schema{Fields: []model.Field{
		{Model: "ok", Pattern: `^a$`},
		{Model: "broken", Pattern: `([a-z`},
	}}

	_, err := validation.New(schema)
	if err == nil {
		t.Fatalf("expected malformed pattern to fail")
	}
	var patternErr *validation.PatternError
	if !errors.As(err, &patternErr) {
		t.Fatalf("expected PatternError, got %T", err)
	}
	if patternErr.Field != "broken" {
		t.Fatalf("expected field broken, got %q", patternErr.Field)
	}
	if patternErr.Err == nil || errors.Unwrap(err) == nil {
		t.Fatalf("expected wrapped compile error, got %v", err)
	}

	if _, err := validation.ValidateField(model.Field{Model: "x", Pattern: `(`}, "value"); err == nil {
		t.Fatalf("expected ad-hoc malformed pattern to fail")
	}
}

func TestMustNew_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	validation.MustNew(model.Schema{Fields: []model.Field{{Model: "x", Pattern: `[`}}})
}

func TestValidate_EndToEnd(t *testing.T) {
	schema := model.Schema{Fields: []model.Field{
		{Model: "email", Required: true, Pattern: `^[^@]+@[^@]+$`},
		{Model: "age", MinLength: 1},
		{Model: "agree", Type: model.FieldTypeCheckbox, Required: true},
	}}

	result, err := validation.Validate(schema, map[string]any{
		"email": "not-an-email",
		"age":   "",
		"agree": false,
	}, validation.WithLocale("en"))
	if err != nil {
		t.Fatalf("validate: %v", err)
	}

	want := validation.ErrorMap{
		"email": {en.InvalidFormat},
		"age":   {"Minimum 1 characters"},
		"agree": {en.ConsentRequired},
	}
	if diff := cmp.Diff(want, result.Errors); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
	if result.Valid {
		t.Fatalf("expected form to be invalid")
	}

	result, err = validation.Validate(schema, map[string]any{
		"email": "a@b.com",
		"age":   "1",
		"agree": true,
	})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	want = validation.ErrorMap{"email": {}, "age": {}, "agree": {}}
	if diff := cmp.Diff(want, result.Errors); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
	if !result.Valid {
		t.Fatalf("expected form to be valid")
	}
}

func TestValidate_ValidityMatchesPerFieldChecks(t *testing.T) {
	schema := model.Schema{Fields: []model.Field{
		{Model: "name", Required: true, MinLength: 2},
		{Model: "code", Pattern: `^[A-Z]{3}$`},
		{Model: "terms", Type: model.FieldTypeCheckbox, Required: true},
	}}
	v := validation.MustNew(schema)

	records := []map[string]any{
		{},
		{"name": "Al", "code": "ABC", "terms": true},
		{"name": "A", "code": "ABC", "terms": true},
		{"name": "Al", "code": "abc", "terms": true},
		{"name": "Al", "terms": true},
		{"name": "Al", "code": 7, "terms": "true"},
	}

	for _, record := range records {
		result := v.Validate(record)

		independent := true
		for _, field := range schema.Fields {
			msgs, err := v.ValidateField(field, record[field.Model])
			if err != nil {
				t.Fatalf("validate field: %v", err)
			}
			if diff := cmp.Diff(msgs, result.Errors[field.Model]); diff != "" {
				t.Fatalf("field %s mismatch (-independent +map):\n%s", field.Model, diff)
			}
			if len(msgs) > 0 {
				independent = false
			}
		}
		if result.Valid != independent || result.Valid != result.Errors.Valid() {
			t.Fatalf("validity mismatch for %#v: result=%v independent=%v", record, result.Valid, independent)
		}
	}
}

func TestValidate_Idempotent(t *testing.T) {
	schema := model.Schema{Fields: []model.Field{
		{Model: "email", Required: true, Pattern: `@`},
		{Model: "agree", Type: model.FieldTypeCheckbox, Required: true},
	}}
	v := validation.MustNew(schema)
	record := map[string]any{"email": "nope", "agree": false}

	first := v.Validate(record)
	second := v.Validate(record)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("results differ (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]any{"email": "nope", "agree": false}, record); diff != "" {
		t.Fatalf("record was mutated (-want +got):\n%s", diff)
	}
}

func TestValidate_DuplicateModelLastWins(t *testing.T) {
	schema := model.Schema{Fields: []model.Field{
		{Model: "code", Required: true},
		{Model: "code", Pattern: `^x$`},
	}}
	result, err := validation.Validate(schema, map[string]any{"code": ""}, validation.WithLocale("en"))
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if diff := cmp.Diff(validation.ErrorMap{"code": {en.InvalidFormat}}, result.Errors); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate_NestedPathLookup(t *testing.T) {
	schema := model.Schema{Fields: []model.Field{
		{Model: "owner.email", Required: true},
		{Model: "plain.key", Required: true},
	}}
	record := map[string]any{
		"owner":     map[string]any{"email": "a@b.c"},
		"plain.key": "flat",
	}
	result, err := validation.Validate(schema, record)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !result.Valid {
		t.Fatalf("expected nested and flat keys to resolve, got %v", result.Errors)
	}
}

func TestMessages_Catalogs(t *testing.T) {
	if got := validation.Catalog("en-US").Required; got != en.Required {
		t.Fatalf("expected en-US to resolve to en, got %q", got)
	}
	if got := validation.Catalog("de").Required; got != validation.Catalog("ru").Required {
		t.Fatalf("expected unknown locale to fall back to ru, got %q", got)
	}
	if got := validation.Catalog("").MinLength; !strings.Contains(got, "%d") {
		t.Fatalf("expected default min length template, got %q", got)
	}

	custom := validation.Messages{MinLength: "at least {min} chars"}
	v := validation.MustNew(model.Schema{}, validation.WithLocale("en"), validation.WithMessages(custom))
	got, err := v.ValidateField(model.Field{Model: "x", Required: true, MinLength: 4}, "")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if diff := cmp.Diff([]string{en.Required, "at least 4 chars"}, got); diff != "" {
		t.Fatalf("messages mismatch (-want +got):\n%s", diff)
	}
}

func TestDefaultMessagesAreRussian(t *testing.T) {
	got, err := validation.ValidateField(model.Field{Model: "x", Required: true, MinLength: 5}, "")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	want := []string{"Обязательное поле", "Минимум 5 символов"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("messages mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateField_PatternUsesECMAScriptSyntax(t *testing.T) {
	field := model.Field{Model: "password", Pattern: `^(?=.*\d)(?=.*[a-z]).{6,}$`}
	v, err := validation.New(model.Schema{Fields: []model.Field{field}}, validation.WithLocale("en"))
	if err != nil {
		t.Fatalf("lookahead pattern should compile: %v", err)
	}

	cases := map[string][]string{
		"abc123": {},
		"abcdef": {en.InvalidFormat},
		"123456": {en.InvalidFormat},
		"a1":     {en.InvalidFormat},
	}
	for value, want := range cases {
		got, err := v.ValidateField(field, value)
		if err != nil {
			t.Fatalf("validate %q: %v", value, err)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("value %q mismatch (-want +got):\n%s", value, diff)
		}
	}

	repeat := model.Field{Model: "pin", Pattern: `^(\d)\1+$`}
	got, err := validation.ValidateField(repeat, "1112")
	if err != nil {
		t.Fatalf("backreference pattern should compile: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected backreference mismatch, got %v", got)
	}
}

func TestValidate_FlatKeysSkipDottedLookup(t *testing.T) {
	schema := model.Schema{Fields: []model.Field{
		{Model: "owner.email", Required: true},
		{Model: "plain.key", Required: true},
	}}
	record := map[string]any{
		"owner":     map[string]any{"email": "a@b.c"},
		"plain.key": "flat",
	}
	result, err := validation.Validate(schema, record, validation.WithLocale("en"), validation.WithFlatKeys())
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	want := validation.ErrorMap{
		"owner.email": {en.Required},
		"plain.key":   {},
	}
	if diff := cmp.Diff(want, result.Errors); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestMessages_MinLengthTemplateKeepsLiteralPercent(t *testing.T) {
	field := model.Field{Model: "name", MinLength: 3}
	cases := map[string]string{
		"100% / %d":           "100% / 3",
		"need {min}, 50% off": "need 3, 50% off",
		"at least %d (%d)":    "at least 3 (3)",
		"too short":           "too short",
	}
	for tpl, want := range cases {
		v, err := validation.New(model.Schema{Fields: []model.Field{field}}, validation.WithMessages(validation.Messages{MinLength: tpl}))
		if err != nil {
			t.Fatalf("new: %v", err)
		}
		got, err := v.ValidateField(field, "ab")
		if err != nil {
			t.Fatalf("validate: %v", err)
		}
		if diff := cmp.Diff([]string{want}, got); diff != "" {
			t.Fatalf("template %q mismatch (-want +got):\n%s", tpl, diff)
		}
	}
}
