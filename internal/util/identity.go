package util

import (
	"net/mail"
	"strings"
)

// NormalizeAddress extracts and normalizes an email address from an RFC 5322
// header value like "Name <User+tag@Example.COM>":
// - lowercases
// - strips +alias in the local part
// Returns empty string if nothing parseable is found.
func NormalizeAddress(header string) string {
	if header == "" {
		return ""
	}
	addr, err := mail.ParseAddress(header)
	if err != nil || addr == nil {
		// The header may be an address list; take the first parseable entry.
		for _, p := range strings.Split(header, ",") {
			if a, e := mail.ParseAddress(strings.TrimSpace(p)); e == nil && a != nil {
				addr = a
				break
			}
		}
		if addr == nil {
			return ""
		}
	}

	email := strings.ToLower(strings.TrimSpace(addr.Address))
	at := strings.LastIndexByte(email, '@')
	if at <= 0 {
		return email
	}
	local := email[:at]
	domain := email[at+1:]
	if plus := strings.IndexByte(local, '+'); plus > -1 {
		local = local[:plus]
	}
	return local + "@" + domain
}

// SenderNameFromAddress derives a human display name from an address when no
// SENDER_NAME override is configured: "john.smith@example.com" -> "John Smith".
func SenderNameFromAddress(addr string) string {
	local := addr
	if at := strings.IndexByte(addr, '@'); at > 0 {
		local = addr[:at]
	}
	parts := strings.Split(local, ".")
	out := parts[:0]
	for _, p := range parts {
		if p == "" {
			continue
		}
		out = append(out, strings.ToUpper(p[:1])+p[1:])
	}
	return strings.Join(out, " ")
}
