package props

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mwantia/textdb/data"
)

// PathVar is the reserved placeholder name bound to the directory
// containing the document being loaded.
const PathVar = "_"

// Placeholders follow the $name / ${name} template form; $$ escapes a
// literal dollar sign.
var placeholder = regexp.MustCompile(`\$(?:(\$)|([_a-zA-Z][_a-zA-Z0-9]*)|\{([_a-zA-Z][_a-zA-Z0-9]*)\})`)

// Substitute expands placeholders in every string leaf of value, at any
// depth, including inside lists. Without strict, unresolved placeholders
// are left verbatim; with strict they fail with ErrSubstitution.
// The value is modified in place.
func Substitute(value any, bindings map[string]string, strict bool) error {
	switch v := value.(type) {
	case *data.Document:
		for _, key := range v.Keys() {
			field, _ := v.Get(key)
			if s, ok := field.(string); ok {
				expanded, err := Expand(s, bindings, strict)
				if err != nil {
					return err
				}
				if expanded != s {
					v.Set(key, expanded)
				}
				continue
			}
			if err := Substitute(field, bindings, strict); err != nil {
				return err
			}
		}
	case []any:
		for i, el := range v {
			if s, ok := el.(string); ok {
				expanded, err := Expand(s, bindings, strict)
				if err != nil {
					return err
				}
				v[i] = expanded
				continue
			}
			if err := Substitute(el, bindings, strict); err != nil {
				return err
			}
		}
	}

	return nil
}

// Expand performs template substitution on a single string.
func Expand(value string, bindings map[string]string, strict bool) (string, error) {
	if !strings.ContainsRune(value, '$') {
		return value, nil
	}

	var unresolved string
	expanded := placeholder.ReplaceAllStringFunc(value, func(match string) string {
		groups := placeholder.FindStringSubmatch(match)
		if groups[1] == "$" {
			return "$"
		}

		name := groups[2]
		if name == "" {
			name = groups[3]
		}

		if bound, ok := bindings[name]; ok {
			return bound
		}

		if unresolved == "" {
			unresolved = name
		}
		return match
	})

	if strict && unresolved != "" {
		return "", fmt.Errorf("%w: $%s in %q", data.ErrSubstitution, unresolved, value)
	}

	return expanded, nil
}
