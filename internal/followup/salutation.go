package followup

import (
	"regexp"
	"strings"
)

// A greeting line: optional indentation, "Hi" or "Hello", a space or comma,
// then a name of letters, apostrophes, hyphens and internal spaces, ended by
// a comma, period, or end of line.
var greetingRE = regexp.MustCompile(`(?mi)^[ \t]*(?:hi|hello)[ \t,]+([a-z][a-z' -]*?)[ \t]*(?:[,.]|$)`)

// ExtractSalutationName recovers the addressee's first name from the plain
// text of a message ("Hello John Smith,\n…" -> "John Smith"). Empty string
// is a valid result meaning no greeting was found; callers fall back to a
// bare "Hi,".
func ExtractSalutationName(body string) string {
	m := greetingRE.FindStringSubmatch(body)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}
