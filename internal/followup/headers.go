package followup

import (
	"strings"

	"mailnudge/internal/model"
)

// GetHeader returns the named header value, matched case-insensitively.
// Provider payloads are not schema-guaranteed, so a nil message, missing
// envelope, or absent header all yield "" rather than an error.
func GetHeader(m *model.Message, name string) string {
	if m == nil {
		return ""
	}
	for _, h := range m.Headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value
		}
	}
	return ""
}

// IsFromSender reports whether the message's From header names the given
// account identity. Substring containment on purpose: Gmail renders From as
// either "addr" or "Name <addr>". Missing structure yields false, never an
// error.
func IsFromSender(m *model.Message, identity string) bool {
	from := GetHeader(m, "From")
	if from == "" || identity == "" {
		return false
	}
	return strings.Contains(from, identity)
}
