package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formcheck/pkg/model"
	"github.com/goliatone/go-formcheck/pkg/validation"
)

// SignupYAML is the signup form used across package tests: an email with a
// pattern, an optional age with a minimum length and a consent checkbox.
const SignupYAML = `id: signup
locale: en
fields:
  - model: email
    label: Email
    type: email
    required: true
    pattern: "^[^@]+@[^@]+$"
  - model: age
    minLength: 1
  - model: agree
    type: checkbox
    required: true
`

// SignupSchema returns the schema described by SignupYAML.
func SignupSchema() model.Schema {
	return model.Schema{
		ID: "signup",
		Fields: []model.Field{
			{Model: "email", Label: "Email", Type: model.FieldTypeEmail, Required: true, Pattern: `^[^@]+@[^@]+$`},
			{Model: "age", MinLength: 1},
			{Model: "agree", Type: model.FieldTypeCheckbox, Required: true},
		},
	}
}

// WriteFixture writes content into dir and returns the full path.
func WriteFixture(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir fixture dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture %s: %v", name, err)
	}
	return path
}

// AssertErrors fails the test when got differs from want.
func AssertErrors(t *testing.T, want, got validation.ErrorMap) {
	t.Helper()

	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("field errors mismatch (-want +got):\n%s", diff)
	}
}

// AssertResult checks both the error map and the validity flag, and that the
// two agree with each other.
func AssertResult(t *testing.T, want validation.ErrorMap, got validation.Result) {
	t.Helper()

	AssertErrors(t, want, got.Errors)
	if got.Valid != want.Valid() {
		t.Fatalf("expected valid=%v, got %v", want.Valid(), got.Valid)
	}
}
