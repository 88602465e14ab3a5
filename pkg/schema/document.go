package schema

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formcheck/pkg/model"
	"github.com/goliatone/go-formcheck/pkg/validation"
)

var (
	errSourceMissing = errors.New("schema: source is required")
	errEmptyDocument = errors.New("schema: raw document is empty")
)

// Document is a parsed schema file: the form definition plus optional message
// overrides that apply to it.
type Document struct {
	source   Source
	Schema   model.Schema
	Messages *validation.Messages
	Locale   string
}

type documentFile struct {
	ID       string               `json:"id" yaml:"id"`
	Title    string               `json:"title" yaml:"title"`
	Locale   string               `json:"locale" yaml:"locale"`
	Fields   []model.Field        `json:"fields" yaml:"fields"`
	Messages *validation.Messages `json:"messages" yaml:"messages"`
}

// Parse decodes a JSON or YAML schema document. JSON is attempted first, then
// YAML.
func Parse(src Source, raw []byte) (Document, error) {
	if src == nil {
		return Document{}, errSourceMissing
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return Document{}, fmt.Errorf("%w: %s", errEmptyDocument, src.Location())
	}

	var file documentFile
	if err := json.Unmarshal(raw, &file); err != nil {
		file = documentFile{}
		if yamlErr := yaml.Unmarshal(raw, &file); yamlErr != nil {
			return Document{}, fmt.Errorf("schema: parse %s: invalid JSON or YAML: %w", src.Location(), yamlErr)
		}
	}

	doc := Document{
		source: src,
		Schema: model.Schema{
			ID:     strings.TrimSpace(file.ID),
			Title:  file.Title,
			Fields: file.Fields,
		},
		Messages: file.Messages,
		Locale:   strings.TrimSpace(file.Locale),
	}
	if err := checkFields(doc.Schema, src); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// Source returns the origin of the document.
func (d Document) Source() Source {
	return d.source
}

// Location returns the string identifier for the origin.
func (d Document) Location() string {
	if d.source == nil {
		return ""
	}
	return d.source.Location()
}

// ValidatorOptions returns the options that apply the document's locale and
// message overrides. A non-empty locale replaces the document's own.
func (d Document) ValidatorOptions(locale string) []validation.Option {
	var opts []validation.Option
	if locale = strings.TrimSpace(locale); locale == "" {
		locale = d.Locale
	}
	if locale != "" {
		opts = append(opts, validation.WithLocale(locale))
	}
	if d.Messages != nil {
		opts = append(opts, validation.WithMessages(*d.Messages))
	}
	return opts
}

// Validator compiles the document schema.
func (d Document) Validator(locale string) (*validation.Validator, error) {
	v, err := validation.New(d.Schema, d.ValidatorOptions(locale)...)
	if err != nil {
		return nil, fmt.Errorf("schema: %s: %w", d.Location(), err)
	}
	return v, nil
}

func checkFields(s model.Schema, src Source) error {
	for idx, field := range s.Fields {
		if strings.TrimSpace(field.Model) == "" {
			return fmt.Errorf("schema: %s: field %d has an empty model", src.Location(), idx)
		}
		if field.MinLength < 0 {
			return fmt.Errorf("schema: %s: field %q has a negative minLength", src.Location(), field.Model)
		}
	}
	return nil
}
