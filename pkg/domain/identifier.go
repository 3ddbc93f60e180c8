package domain

import "strings"

// DefaultIdentifierDomain is appended to bare usernames so the identity
// backend, which only knows e-mail addresses, can sign them in.
const DefaultIdentifierDomain = "poltemakademi.com"

// NormalizeIdentifier turns user input from a "username or e-mail" field into
// the e-mail address sent to the identity backend. Input containing "@" is
// only trimmed; anything else gets "@"+domain appended.
func NormalizeIdentifier(raw, domain string) string {
	trimmed := strings.TrimSpace(raw)
	if strings.Contains(trimmed, "@") {
		return trimmed
	}
	if domain == "" {
		domain = DefaultIdentifierDomain
	}
	return trimmed + "@" + domain
}
