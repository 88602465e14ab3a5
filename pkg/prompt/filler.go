package prompt

import (
	"context"
	"errors"
	"strings"

	"github.com/goliatone/go-formcheck/pkg/model"
	"github.com/goliatone/go-formcheck/pkg/validation"
)

const defaultMaxAttempts = 3

// Theme holds the prefixes used for messages printed between prompts.
type Theme struct {
	RequiredMark string
	ErrorPrefix  string
}

// Option configures a Filler.
type Option func(*Filler)

// WithDriver overrides the prompt driver.
func WithDriver(driver Driver) Option {
	return func(f *Filler) {
		if driver != nil {
			f.driver = driver
		}
	}
}

// WithMaxAttempts bounds how many times an invalid field is asked again.
func WithMaxAttempts(n int) Option {
	return func(f *Filler) {
		if n > 0 {
			f.maxAttempts = n
		}
	}
}

// WithTheme applies message prefixes.
func WithTheme(theme Theme) Option {
	return func(f *Filler) {
		f.theme = theme
	}
}

// Filler asks for each schema field in order and writes the answers into the
// record bound to the form. The form's derived errors decide whether a field
// is asked again.
type Filler struct {
	form        *validation.Form
	driver      Driver
	maxAttempts int
	theme       Theme
}

// NewFiller prepares a filler for form.
func NewFiller(form *validation.Form, opts ...Option) (*Filler, error) {
	if form == nil {
		return nil, ErrNilForm
	}
	f := &Filler{
		form:        form,
		maxAttempts: defaultMaxAttempts,
		theme:       Theme{RequiredMark: " *", ErrorPrefix: "! "},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	if f.driver == nil {
		f.driver = NewSurveyDriver()
	}
	return f, nil
}

// Fill walks the schema once. Fields still invalid after the configured
// attempts keep their last answer. The returned result reflects the record
// after the last answer.
func (f *Filler) Fill(ctx context.Context) (validation.Result, error) {
	for _, field := range f.form.Schema().Fields {
		if err := f.fillField(ctx, field); err != nil {
			return f.form.Result(), err
		}
	}
	return f.form.Result(), nil
}

func (f *Filler) fillField(ctx context.Context, field model.Field) error {
	record := f.form.Record()
	for attempt := 0; attempt < f.maxAttempts; attempt++ {
		value, err := f.ask(ctx, field, record.Get(field.Model))
		if err != nil {
			return err
		}
		record.Set(field.Model, value)

		messages := f.form.ErrorsFor(field.Model)
		if len(messages) == 0 {
			return nil
		}
		for _, message := range messages {
			if err := f.driver.Info(ctx, f.theme.ErrorPrefix+message); err != nil {
				return err
			}
		}
	}
	return nil
}

func (f *Filler) ask(ctx context.Context, field model.Field, current any) (any, error) {
	message := field.DisplayName()
	if field.Required {
		message += f.theme.RequiredMark
	}
	help := field.Metadata["description"]

	if field.IsCheckbox() {
		def, _ := current.(bool)
		return f.driver.Confirm(ctx, ConfirmConfig{Message: message, Default: def, Help: help})
	}

	def, _ := current.(string)
	cfg := InputConfig{
		Message:   message,
		Default:   def,
		Help:      help,
		Validator: f.fieldValidator(field),
	}
	if model.FieldType(strings.ToLower(string(field.Type))) == model.FieldTypePassword {
		return f.driver.Password(ctx, cfg)
	}
	return f.driver.Input(ctx, cfg)
}

func (f *Filler) fieldValidator(field model.Field) func(string) error {
	v := f.form.Validator()
	return func(answer string) error {
		messages, err := v.ValidateField(field, answer)
		if err != nil {
			return err
		}
		if len(messages) == 0 {
			return nil
		}
		return errors.New(strings.Join(messages, "; "))
	}
}
