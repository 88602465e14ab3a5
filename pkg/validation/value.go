package validation

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind classifies a record value for the purpose of the checks.
type Kind int

const (
	// KindAbsent covers nil values and keys missing from the record.
	KindAbsent Kind = iota
	// KindText covers string values.
	KindText
	// KindBool covers bool values.
	KindBool
	// KindOther covers every other type (numbers, slices, maps, ...).
	KindOther
)

func (k Kind) String() string {
	switch k {
	case KindAbsent:
		return "absent"
	case KindText:
		return "text"
	case KindBool:
		return "bool"
	default:
		return "other"
	}
}

// Classify returns the Kind of value.
func Classify(value any) Kind {
	switch value.(type) {
	case nil:
		return KindAbsent
	case string:
		return KindText
	case bool:
		return KindBool
	default:
		return KindOther
	}
}

// Lookup resolves key in record. An exact key match wins; otherwise a dotted
// key ("owner.email") is walked through nested maps and slices. Missing keys
// yield nil.
func Lookup(record map[string]any, key string) any {
	if record == nil {
		return nil
	}
	if value, ok := record[key]; ok {
		return value
	}
	if !strings.Contains(key, ".") {
		return nil
	}
	value, _ := getPath(record, key)
	return value
}

func cloneValues(src map[string]any) map[string]any {
	out := make(map[string]any, len(src))
	for k, v := range src {
		out[k] = deepCopy(v)
	}
	return out
}

func deepCopy(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		clone := make(map[string]any, len(typed))
		for k, v := range typed {
			clone[k] = deepCopy(v)
		}
		return clone
	case []any:
		clone := make([]any, len(typed))
		for i, v := range typed {
			clone[i] = deepCopy(v)
		}
		return clone
	default:
		return typed
	}
}

func getPath(root map[string]any, path string) (any, bool) {
	if root == nil || path == "" {
		return nil, false
	}
	var current any = root
	for _, segment := range strings.Split(path, ".") {
		switch node := current.(type) {
		case map[string]any:
			next, ok := node[segment]
			if !ok {
				return nil, false
			}
			current = next
		case []any:
			idx, err := strconv.Atoi(segment)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil, false
			}
			current = node[idx]
		default:
			return nil, false
		}
	}
	return current, true
}

// setPath writes value at a dotted path, creating intermediate maps. Numeric
// segments index into existing slices only.
func setPath(root map[string]any, path string, value any) error {
	if root == nil {
		return fmt.Errorf("validation: root map is nil")
	}
	if strings.TrimSpace(path) == "" {
		return ErrEmptyPath
	}
	segments := strings.Split(path, ".")
	var current any = root
	for i, segment := range segments {
		last := i == len(segments)-1
		switch node := current.(type) {
		case map[string]any:
			if last {
				node[segment] = value
				return nil
			}
			next, ok := node[segment]
			switch next.(type) {
			case map[string]any, []any:
			default:
				ok = false
			}
			if !ok {
				next = make(map[string]any)
				node[segment] = next
			}
			current = next
		case []any:
			idx, err := strconv.Atoi(segment)
			if err != nil {
				return fmt.Errorf("validation: expected numeric segment, got %q", segment)
			}
			if idx < 0 || idx >= len(node) {
				return fmt.Errorf("validation: index %d out of range in path %q", idx, path)
			}
			if last {
				node[idx] = value
				return nil
			}
			next := node[idx]
			switch next.(type) {
			case map[string]any, []any:
			default:
				next = make(map[string]any)
				node[idx] = next
			}
			current = next
		default:
			return fmt.Errorf("validation: unexpected container for segment %q", segment)
		}
	}
	return nil
}

func deletePath(root map[string]any, path string) bool {
	idx := strings.LastIndex(path, ".")
	if idx < 0 {
		if _, ok := root[path]; !ok {
			return false
		}
		delete(root, path)
		return true
	}
	parent, ok := getPath(root, path[:idx])
	if !ok {
		return false
	}
	node, ok := parent.(map[string]any)
	if !ok {
		return false
	}
	key := path[idx+1:]
	if _, ok := node[key]; !ok {
		return false
	}
	delete(node, key)
	return true
}
