package validation

import (
	"strconv"
	"strings"
)

// DefaultLocale is used when no locale is configured or the requested one is
// unknown.
const DefaultLocale = "ru"

const minLengthPlaceholder = "{min}"

// Messages is the fixed set of strings emitted by the checks. MinLength may
// reference the configured minimum as %d or {min}; nothing else in it is
// interpreted.
type Messages struct {
	Required        string `json:"required" yaml:"required"`
	MinLength       string `json:"minLength" yaml:"minLength"`
	InvalidFormat   string `json:"invalidFormat" yaml:"invalidFormat"`
	ConsentRequired string `json:"consentRequired" yaml:"consentRequired"`
}

var catalogs = map[string]Messages{
	"ru": {
		Required:        "Обязательное поле",
		MinLength:       "Минимум %d символов",
		InvalidFormat:   "Неверный формат",
		ConsentRequired: "Необходимо согласие",
	},
	"en": {
		Required:        "This field is required",
		MinLength:       "Minimum %d characters",
		InvalidFormat:   "Invalid format",
		ConsentRequired: "Consent is required",
	},
}

// Catalog returns the built-in messages for locale. Region subtags are ignored
// ("en-US" resolves to "en") and unknown locales fall back to DefaultLocale.
func Catalog(locale string) Messages {
	if messages, ok := lookupCatalog(locale); ok {
		return messages
	}
	return catalogs[DefaultLocale]
}

// Locales lists the built-in catalog identifiers.
func Locales() []string {
	return []string{"en", "ru"}
}

func lookupCatalog(locale string) (Messages, bool) {
	tag := strings.ToLower(strings.TrimSpace(locale))
	if tag == "" {
		return Messages{}, false
	}
	if messages, ok := catalogs[tag]; ok {
		return messages, true
	}
	if idx := strings.IndexAny(tag, "-_"); idx > 0 {
		if messages, ok := catalogs[tag[:idx]]; ok {
			return messages, true
		}
	}
	return Messages{}, false
}

// Merge returns m with every empty entry filled from base.
func (m Messages) Merge(base Messages) Messages {
	if strings.TrimSpace(m.Required) == "" {
		m.Required = base.Required
	}
	if strings.TrimSpace(m.MinLength) == "" {
		m.MinLength = base.MinLength
	}
	if strings.TrimSpace(m.InvalidFormat) == "" {
		m.InvalidFormat = base.InvalidFormat
	}
	if strings.TrimSpace(m.ConsentRequired) == "" {
		m.ConsentRequired = base.ConsentRequired
	}
	return m
}

func (m Messages) minLength(n int) string {
	count := strconv.Itoa(n)
	out := strings.ReplaceAll(m.MinLength, "%d", count)
	return strings.ReplaceAll(out, minLengthPlaceholder, count)
}
