package schema

import "strings"

//nolint:gochecknoglobals // Immutable replacer shared by all callers
var sanitizer = strings.NewReplacer("\r", "", "\n", "", `"`, "")

// Sanitize removes carriage returns, newlines, and double quotes from free text
// taken from the registry. Empty input is returned unchanged.
func Sanitize(text string) string {
	if text == "" {
		return text
	}
	return sanitizer.Replace(text)
}
