package report

import (
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-formcheck/pkg/model"
	"github.com/goliatone/go-formcheck/pkg/validation"
)

// Merged combines client-side results with feedback coming back from a server.
type Merged struct {
	Result validation.Result
	// Form holds messages that could not be attributed to a schema field.
	Form []string
}

// MergeServerErrors folds a server error payload into result. Payload keys may
// be dotted paths, JSON pointers ("/body/email") or JSONPath-like strings
// ("$.body.tags[0]"); common request wrappers are skipped and the longest
// matching schema model wins. Unknown keys become form-level messages.
// Validity is recomputed over the merged map.
func MergeServerErrors(schema model.Schema, result validation.Result, payload map[string][]string) Merged {
	merged := Merged{Result: result.Clone()}
	if merged.Result.Errors == nil {
		merged.Result.Errors = make(validation.ErrorMap, len(schema.Fields))
	}
	for _, key := range schema.Models() {
		if _, ok := merged.Result.Errors[key]; !ok {
			merged.Result.Errors[key] = []string{}
		}
	}

	known := make(map[string]struct{}, len(schema.Fields))
	for _, key := range schema.Models() {
		known[key] = struct{}{}
	}

	for _, rawPath := range sortedKeys(payload) {
		messages := normalizeMessages(payload[rawPath])
		if len(messages) == 0 {
			continue
		}
		target, ok := resolvePath(rawPath, known)
		if !ok {
			merged.Form = append(merged.Form, messages...)
			continue
		}
		merged.Result.Errors[target] = normalizeMessages(append(merged.Result.Errors[target], messages...))
	}

	merged.Form = normalizeMessages(merged.Form)
	merged.Result.Valid = merged.Result.Errors.Valid() && len(merged.Form) == 0
	return merged
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}
	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))
	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, dup := seen[trimmed]; dup {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func resolvePath(raw string, known map[string]struct{}) (string, bool) {
	if isFormLevelKey(raw) {
		return "", false
	}
	segments := splitPath(raw)
	if len(segments) == 0 {
		return "", false
	}

	best := ""
	for _, candidate := range pathVariants(segments) {
		if match := longestKnownPrefix(candidate, known); segmentCount(match) > segmentCount(best) {
			best = match
		}
	}
	return best, best != ""
}

func splitPath(path string) []string {
	clean := strings.TrimSpace(path)
	clean = strings.TrimLeft(clean, "#$/.")
	clean = strings.NewReplacer("[", ".", "]", "").Replace(clean)
	clean = strings.Trim(clean, "./")
	if clean == "" {
		return nil
	}

	parts := strings.FieldsFunc(clean, func(r rune) bool {
		return r == '.' || r == '/'
	})
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		segment := strings.TrimSpace(part)
		if segment == "" {
			continue
		}
		segment = strings.ReplaceAll(segment, "~1", "/")
		segment = strings.ReplaceAll(segment, "~0", "~")
		out = append(out, segment)
	}
	return out
}

var wrapperSegments = map[string]struct{}{
	"body":       {},
	"request":    {},
	"payload":    {},
	"data":       {},
	"attributes": {},
}

func pathVariants(segments []string) [][]string {
	unwrapped := segments
	for len(unwrapped) > 0 {
		if _, ok := wrapperSegments[strings.ToLower(unwrapped[0])]; !ok {
			break
		}
		unwrapped = unwrapped[1:]
	}
	return [][]string{
		segments,
		unwrapped,
		dropIndexes(segments),
		dropIndexes(unwrapped),
	}
}

func dropIndexes(segments []string) []string {
	out := make([]string, 0, len(segments))
	for _, segment := range segments {
		if _, err := strconv.Atoi(segment); err == nil {
			continue
		}
		out = append(out, segment)
	}
	return out
}

func longestKnownPrefix(segments []string, known map[string]struct{}) string {
	for end := len(segments); end > 0; end-- {
		candidate := strings.Join(segments[:end], ".")
		if _, ok := known[candidate]; ok {
			return candidate
		}
	}
	return ""
}

func segmentCount(path string) int {
	if path == "" {
		return 0
	}
	return strings.Count(path, ".") + 1
}

func sortedKeys(payload map[string][]string) []string {
	keys := make([]string, 0, len(payload))
	for key := range payload {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func isFormLevelKey(key string) bool {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "", ".", "/", "#", "$", "form", "__all__", "non_field_errors", "non-field-errors":
		return true
	default:
		return false
	}
}
