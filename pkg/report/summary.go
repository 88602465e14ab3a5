package report

import (
	"fmt"
	"html"
	"io"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
	json "github.com/goccy/go-json"
	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formcheck/pkg/model"
	"github.com/goliatone/go-formcheck/pkg/validation"
)

// Entry is one invalid field in a Summary.
type Entry struct {
	Model    string   `json:"model"`
	Label    string   `json:"label"`
	Messages []string `json:"messages"`
}

// Summary lists the invalid fields of a result in schema order.
type Summary struct {
	Form   string   `json:"form,omitempty"`
	Valid  bool     `json:"valid"`
	Fields []Entry  `json:"fields,omitempty"`
	Other  []string `json:"formErrors,omitempty"`
}

// Summarize orders the invalid entries of merged by schema declaration.
func Summarize(schema model.Schema, merged Merged) Summary {
	summary := Summary{
		Form:  schema.ID,
		Valid: merged.Result.Valid,
		Other: append([]string(nil), merged.Form...),
	}
	for _, key := range schema.Models() {
		messages := merged.Result.Errors.For(key)
		if len(messages) == 0 {
			continue
		}
		label := key
		if field, ok := schema.Lookup(key); ok {
			label = field.DisplayName()
		}
		summary.Fields = append(summary.Fields, Entry{
			Model:    key,
			Label:    label,
			Messages: append([]string(nil), messages...),
		})
	}
	return summary
}

// FromResult is a shortcut for summarising a result with no server feedback.
func FromResult(schema model.Schema, result validation.Result) Summary {
	return Summarize(schema, Merged{Result: result})
}

// WriteText prints a plain text report, one line per message.
func WriteText(w io.Writer, summary Summary) error {
	var b strings.Builder
	if summary.Valid {
		b.WriteString("valid\n")
	} else {
		b.WriteString("invalid\n")
	}
	for _, entry := range summary.Fields {
		for _, message := range entry.Messages {
			fmt.Fprintf(&b, "  %s: %s\n", entry.Label, message)
		}
	}
	for _, message := range summary.Other {
		fmt.Fprintf(&b, "  form: %s\n", message)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// jsonReport mirrors the ErrorMap shape used by clients.
type jsonReport struct {
	Form       string              `json:"form,omitempty"`
	Valid      bool                `json:"valid"`
	Errors     map[string][]string `json:"errors"`
	FormErrors []string            `json:"formErrors,omitempty"`
}

// WriteJSON encodes {"valid": bool, "errors": {...}} for merged, keeping an
// entry for every field so clients can clear stale messages.
func WriteJSON(w io.Writer, formID string, merged Merged) error {
	payload := jsonReport{
		Form:       formID,
		Valid:      merged.Result.Valid,
		Errors:     merged.Result.Errors,
		FormErrors: merged.Form,
	}
	if payload.Errors == nil {
		payload.Errors = map[string][]string{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload); err != nil {
		return fmt.Errorf("report: encode json: %w", err)
	}
	return nil
}

const summaryTemplate = `<div class="formcheck-summary" data-valid="{{ validAttr }}"{% if summary.Form %} data-form="{{ summary.Form }}"{% endif %} role="alert">
{% if summary.Valid %}
  <p class="formcheck-summary__ok">{{ okText }}</p>
{% else %}
  <ul class="formcheck-summary__list">
{% for entry in summary.Fields %}
    <li data-field="{{ entry.Model }}"><strong>{{ entry.Label }}</strong>
      <ul>
{% for message in entry.Messages %}
        <li>{{ message }}</li>
{% endfor %}
      </ul>
    </li>
{% endfor %}
{% for message in summary.Other %}
    <li data-field="">{{ message }}</li>
{% endfor %}
  </ul>
{% endif %}
</div>
`

var (
	templateOnce sync.Once
	compiled     *pongo2.Template
	compileErr   error

	messagePolicyOnce sync.Once
	messagePolicy     *bluemonday.Policy
)

// HTMLOptions tweaks the HTML fragment.
type HTMLOptions struct {
	// OKText is shown when the form is valid.
	OKText string
}

// HTML renders an error summary fragment. Labels and messages are stripped of
// markup before rendering and escaped by the template engine.
func HTML(summary Summary, opts HTMLOptions) (string, error) {
	tpl, err := summaryTpl()
	if err != nil {
		return "", err
	}

	clean := summary
	clean.Form = sanitize(summary.Form)
	clean.Fields = make([]Entry, 0, len(summary.Fields))
	for _, entry := range summary.Fields {
		messages := make([]string, 0, len(entry.Messages))
		for _, message := range entry.Messages {
			messages = append(messages, sanitize(message))
		}
		clean.Fields = append(clean.Fields, Entry{
			Model:    sanitize(entry.Model),
			Label:    sanitize(entry.Label),
			Messages: messages,
		})
	}
	clean.Other = make([]string, 0, len(summary.Other))
	for _, message := range summary.Other {
		clean.Other = append(clean.Other, sanitize(message))
	}

	okText := strings.TrimSpace(opts.OKText)
	if okText == "" {
		okText = "OK"
	}

	out, err := tpl.Execute(pongo2.Context{
		"summary":   clean,
		"okText":    sanitize(okText),
		"validAttr": fmt.Sprint(summary.Valid),
	})
	if err != nil {
		return "", fmt.Errorf("report: render html: %w", err)
	}
	return out, nil
}

func summaryTpl() (*pongo2.Template, error) {
	templateOnce.Do(func() {
		compiled, compileErr = pongo2.FromString(summaryTemplate)
		if compileErr != nil {
			compileErr = fmt.Errorf("report: parse summary template: %w", compileErr)
		}
	})
	return compiled, compileErr
}

// sanitize strips every tag and returns plain text; the template escapes it
// again on output.
func sanitize(text string) string {
	messagePolicyOnce.Do(func() {
		messagePolicy = bluemonday.StrictPolicy()
	})
	return strings.TrimSpace(html.UnescapeString(messagePolicy.Sanitize(text)))
}
