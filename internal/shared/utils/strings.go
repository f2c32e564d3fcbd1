package utils

import "strings"

// ToCamelCase converts a snake_case identifier (e.g. "publisher_id") to
// camelCase ("publisherId"). The first segment is kept as-is, so input that is
// already camelCase passes through unchanged. Used to map database column
// names from constraint-violation messages back onto request field names.
func ToCamelCase(input string) string {
	if input == "" {
		return ""
	}

	words := strings.Split(input, "_")
	var b strings.Builder
	for i, word := range words {
		if i == 0 {
			b.WriteString(word)
			continue
		}
		if word == "" {
			continue
		}
		b.WriteString(strings.ToUpper(word[:1]))
		b.WriteString(strings.ToLower(word[1:]))
	}
	return b.String()
}
