package openapi

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formcheck/pkg/model"
)

const (
	orderExtensionKey = "x-formcheck-order"
	typeExtensionKey  = "x-formcheck-type"
)

var (
	// ErrOperationNotFound is returned when no operation matches the id.
	ErrOperationNotFound = errors.New("openapi: operation not found")
	// ErrNoRequestBody is returned when the operation declares no usable body.
	ErrNoRequestBody = errors.New("openapi: operation has no request body schema")
)

var mediaTypePreference = []string{"application/json", "application/x-www-form-urlencoded", "multipart/form-data"}

// Options tunes document loading.
type Options struct {
	// AllowExternalRefs lets the loader follow $ref values pointing outside
	// the document.
	AllowExternalRefs bool
}

// FromOperation loads raw (JSON or YAML) and converts the request body of
// operationID into a form schema.
func FromOperation(ctx context.Context, raw []byte, operationID string, opts ...Options) (model.Schema, error) {
	if err := ctx.Err(); err != nil {
		return model.Schema{}, err
	}
	var options Options
	if len(opts) > 0 {
		options = opts[0]
	}

	loader := &openapi3.Loader{
		Context:               ctx,
		IsExternalRefsAllowed: options.AllowExternalRefs,
	}
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return model.Schema{}, fmt.Errorf("openapi: load document: %w", err)
	}

	op := findOperation(doc, strings.TrimSpace(operationID))
	if op == nil {
		return model.Schema{}, fmt.Errorf("%w: %q", ErrOperationNotFound, operationID)
	}

	body := requestSchema(op.RequestBody)
	if body == nil {
		return model.Schema{}, fmt.Errorf("%w: %q", ErrNoRequestBody, operationID)
	}

	return model.Schema{
		ID:     operationID,
		Title:  op.Summary,
		Fields: convertProperties(body),
	}, nil
}

// OperationIDs lists the operation ids declared in raw, sorted.
func OperationIDs(ctx context.Context, raw []byte) ([]string, error) {
	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	var ids []string
	if doc.Paths == nil {
		return ids, nil
	}
	for _, item := range doc.Paths.Map() {
		if item == nil {
			continue
		}
		for _, op := range item.Operations() {
			if op != nil && op.OperationID != "" {
				ids = append(ids, op.OperationID)
			}
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func findOperation(doc *openapi3.T, id string) *openapi3.Operation {
	if doc == nil || doc.Paths == nil || id == "" {
		return nil
	}
	for _, item := range doc.Paths.Map() {
		if item == nil {
			continue
		}
		for _, op := range item.Operations() {
			if op != nil && op.OperationID == id {
				return op
			}
		}
	}
	return nil
}

func requestSchema(ref *openapi3.RequestBodyRef) *openapi3.Schema {
	if ref == nil || ref.Value == nil {
		return nil
	}
	content := ref.Value.Content
	for _, mediaType := range mediaTypePreference {
		if mt, ok := content[mediaType]; ok && mt != nil && mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	keys := make([]string, 0, len(content))
	for key := range content {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if mt := content[key]; mt != nil && mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	return nil
}

type orderedField struct {
	field model.Field
	order int
	set   bool
}

func convertProperties(src *openapi3.Schema) []model.Field {
	if src == nil || len(src.Properties) == 0 {
		return nil
	}
	required := make(map[string]struct{}, len(src.Required))
	for _, name := range src.Required {
		required[name] = struct{}{}
	}

	fields := make([]orderedField, 0, len(src.Properties))
	for name, ref := range src.Properties {
		if ref == nil || ref.Value == nil {
			continue
		}
		prop := ref.Value
		_, isRequired := required[name]
		field := model.Field{
			Model:     name,
			Type:      fieldType(prop),
			Required:  isRequired,
			MinLength: int(prop.MinLength),
			Pattern:   prop.Pattern,
			Label:     prop.Title,
		}
		if desc := strings.TrimSpace(prop.Description); desc != "" {
			field.Metadata = map[string]string{"description": desc}
		}
		order, ok := intExtension(prop.Extensions[orderExtensionKey])
		fields = append(fields, orderedField{field: field, order: order, set: ok})
	}

	sort.SliceStable(fields, func(i, j int) bool {
		a, b := fields[i], fields[j]
		if a.set != b.set {
			return a.set
		}
		if a.set && a.order != b.order {
			return a.order < b.order
		}
		return a.field.Model < b.field.Model
	})

	out := make([]model.Field, 0, len(fields))
	for _, f := range fields {
		out = append(out, f.field)
	}
	return out
}

func fieldType(prop *openapi3.Schema) model.FieldType {
	if override, ok := prop.Extensions[typeExtensionKey].(string); ok && strings.TrimSpace(override) != "" {
		return model.FieldType(strings.TrimSpace(override))
	}
	switch schemaType(prop) {
	case "boolean":
		return model.FieldTypeCheckbox
	case "integer", "number":
		return model.FieldTypeNumber
	}
	if len(prop.Enum) > 0 {
		return model.FieldTypeSelect
	}
	switch strings.ToLower(prop.Format) {
	case "email":
		return model.FieldTypeEmail
	case "password":
		return model.FieldTypePassword
	}
	if prop.MaxLength != nil && *prop.MaxLength > 255 {
		return model.FieldTypeTextarea
	}
	return model.FieldTypeText
}

func schemaType(prop *openapi3.Schema) string {
	if prop.Type == nil {
		return ""
	}
	for _, value := range prop.Type.Slice() {
		if value != "null" {
			return value
		}
	}
	return ""
}

func intExtension(value any) (int, bool) {
	switch typed := value.(type) {
	case int:
		return typed, true
	case int64:
		return int(typed), true
	case float64:
		return int(typed), true
	default:
		return 0, false
	}
}
