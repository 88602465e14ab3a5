package model

import "strings"

// FieldType is the control kind declared for a field. Only FieldTypeCheckbox
// carries validation meaning; the rest are hints for whoever renders the form.
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeEmail    FieldType = "email"
	FieldTypePassword FieldType = "password"
	FieldTypeTextarea FieldType = "textarea"
	FieldTypeNumber   FieldType = "number"
	FieldTypeSelect   FieldType = "select"
	FieldTypeCheckbox FieldType = "checkbox"
)

const (
	ValidationRuleRequired  = "required"
	ValidationRuleMinLength = "minLength"
	ValidationRulePattern   = "pattern"
	ValidationRuleConsent   = "consent"
)

// Field describes one form input and the constraints declared for it. Model is
// the key used to look the value up in the data record. A zero MinLength and an
// empty Pattern mean the rule is not set.
type Field struct {
	Model       string            `json:"model" yaml:"model"`
	Type        FieldType         `json:"type,omitempty" yaml:"type,omitempty"`
	Required    bool              `json:"required,omitempty" yaml:"required,omitempty"`
	MinLength   int               `json:"minLength,omitempty" yaml:"minLength,omitempty"`
	Pattern     string            `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	Label       string            `json:"label,omitempty" yaml:"label,omitempty"`
	Placeholder string            `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// IsCheckbox reports whether the field is an acknowledgment checkbox.
func (f Field) IsCheckbox() bool {
	return FieldType(strings.ToLower(strings.TrimSpace(string(f.Type)))) == FieldTypeCheckbox
}

// Rules lists the rule identifiers that apply to the field in evaluation order.
func (f Field) Rules() []string {
	var rules []string
	if f.Required {
		rules = append(rules, ValidationRuleRequired)
	}
	if f.MinLength > 0 {
		rules = append(rules, ValidationRuleMinLength)
	}
	if f.Pattern != "" {
		rules = append(rules, ValidationRulePattern)
	}
	if f.IsCheckbox() && f.Required {
		rules = append(rules, ValidationRuleConsent)
	}
	return rules
}

// DisplayName returns the label when present, falling back to the model key.
func (f Field) DisplayName() string {
	if label := strings.TrimSpace(f.Label); label != "" {
		return label
	}
	return f.Model
}

// Schema is the ordered set of fields that make up a form. Model keys are
// expected to be unique; when they are not, later fields win.
type Schema struct {
	ID     string  `json:"id,omitempty" yaml:"id,omitempty"`
	Title  string  `json:"title,omitempty" yaml:"title,omitempty"`
	Fields []Field `json:"fields" yaml:"fields"`
}

// Lookup returns the last field declared for the given model key.
func (s Schema) Lookup(model string) (Field, bool) {
	for i := len(s.Fields) - 1; i >= 0; i-- {
		if s.Fields[i].Model == model {
			return s.Fields[i], true
		}
	}
	return Field{}, false
}

// Models returns the distinct model keys in declaration order.
func (s Schema) Models() []string {
	out := make([]string, 0, len(s.Fields))
	seen := make(map[string]struct{}, len(s.Fields))
	for _, field := range s.Fields {
		if _, ok := seen[field.Model]; ok {
			continue
		}
		seen[field.Model] = struct{}{}
		out = append(out, field.Model)
	}
	return out
}
