// Package sanitize normalizes free text coming from spreadsheet cells and
// request bodies so the same name always compares equal.
package sanitize

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	// whitespaceRegex matches runs of any Unicode whitespace, NBSP included.
	whitespaceRegex = regexp.MustCompile(`[\s\p{Zs}]+`)
)

// Text removes control characters, collapses whitespace runs to one space and
// trims the ends.
func Text(s string) string {
	result := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && !unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	result = whitespaceRegex.ReplaceAllString(result, " ")
	return strings.TrimSpace(result)
}
