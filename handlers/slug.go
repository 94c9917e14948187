package handlers

import (
	"strings"
	"unicode"
)

// 將名稱轉為網址用的slug
func MakeSlug(name string) string {
	var builder strings.Builder
	lastDash := true //避免開頭出現dash

	for _, r := range strings.ToLower(name) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			builder.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				builder.WriteRune('-')
				lastDash = true
			}
		}
	}

	return strings.TrimSuffix(builder.String(), "-")
}
