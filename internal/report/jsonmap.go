package report

import (
	"encoding/json"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"
)

// CapitalizeKeys walks a decoded JSON value and returns a new tree in which
// every object key has its first letter upper-cased. Arrays and scalars pass
// through; the input is never mutated.
func CapitalizeKeys(value any) any {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, child := range v {
			out[capitalize(key)] = CapitalizeKeys(child)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, child := range v {
			out[i] = CapitalizeKeys(child)
		}
		return out
	default:
		return value
	}
}

func capitalize(key string) string {
	if key == "" {
		return key
	}
	r, size := utf8.DecodeRuneInString(key)
	if unicode.IsUpper(r) {
		return key
	}
	return string(unicode.ToUpper(r)) + key[size:]
}

// calculationData lazily parses an embedded serialized calculation-result
// document. Parsing happens on first access and the result is cached; the
// sync.Once guard makes concurrent template binding safe.
type calculationData struct {
	raw []byte

	once   sync.Once
	parsed map[string]any
}

func newCalculationData(raw []byte) *calculationData {
	if len(raw) == 0 || strings.TrimSpace(string(raw)) == "" {
		return nil
	}
	return &calculationData{raw: raw}
}

// Data returns the capitalized calculation map. The outer document's "Json"
// sub-document is preferred when present. Missing or malformed calculation
// data yields nil rather than an error: reports still render without it.
func (c *calculationData) Data() map[string]any {
	if c == nil {
		return nil
	}
	c.once.Do(func() {
		var decoded map[string]any
		if err := json.Unmarshal(c.raw, &decoded); err != nil {
			return
		}
		if sub, ok := decoded["Json"].(map[string]any); ok {
			decoded = sub
		} else if sub, ok := decoded["json"].(map[string]any); ok {
			decoded = sub
		}
		if transformed, ok := CapitalizeKeys(decoded).(map[string]any); ok {
			c.parsed = transformed
		}
	})
	return c.parsed
}
