package internal

import (
	"regexp"
	"strings"
)

// whitespaceSet matches the RE2 \s class so trimming and collapsing agree.
const whitespaceSet = " \t\n\f\r"

var (
	reWhitespaceRun = regexp.MustCompile(`\s+`)
	reAfterTag      = regexp.MustCompile(`>[\s,]+`)
	reBeforeTag     = regexp.MustCompile(`[\s,]+<`)
)

// Format removes join artifacts around tag boundaries, collapses whitespace
// runs to one space and trims the result. Format(Format(s)) == Format(s).
func Format(raw string) string {
	if raw == StringValueEmpty {
		return raw
	}
	s := reWhitespaceRun.ReplaceAllString(raw, " ")
	s = reAfterTag.ReplaceAllString(s, ">")
	s = reBeforeTag.ReplaceAllString(s, "<")
	return strings.Trim(s, whitespaceSet)
}
