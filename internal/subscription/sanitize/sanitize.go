// Package sanitize normalizes user-supplied text before it is stored.
package sanitize

import (
	"strings"

	"github.com/smallbiznis/subscriptions/internal/subscription/domain"
)

var angleBrackets = strings.NewReplacer("<", "", ">", "")

// String trims surrounding whitespace and removes angle brackets. The result
// is trimmed again so that String(String(s)) == String(s).
func String(s string) string {
	return strings.TrimSpace(angleBrackets.Replace(strings.TrimSpace(s)))
}

// Input returns a copy of in with every string value passed through String.
// Non-string values are copied unchanged and in is never modified.
func Input(in domain.Input) domain.Input {
	out := make(domain.Input, len(in))
	for k, v := range in {
		if s, ok := v.(string); ok {
			out[k] = String(s)
			continue
		}
		out[k] = v
	}
	return out
}
