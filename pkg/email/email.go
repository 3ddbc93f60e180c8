// Package email derives presentable names from account e-mail addresses for
// accounts that registered without a full name (phone sign-in, older rows).
package email

import (
	"strings"
	"unicode"
)

// DisplayName prefers fullName and otherwise builds one from the local part
// of address: "ayse.yilmaz@x" becomes "Ayse Yilmaz". Empty input yields "".
func DisplayName(fullName, address string) string {
	if name := strings.TrimSpace(fullName); name != "" {
		return name
	}
	parts := localParts(address)
	for i, p := range parts {
		parts[i] = capitalize(p)
	}
	return strings.Join(parts, " ")
}

// Initials returns the upper-case initials of the first and last word of
// DisplayName.
func Initials(fullName, address string) string {
	words := strings.Fields(DisplayName(fullName, address))
	if len(words) == 0 {
		return ""
	}
	out := []rune{unicode.ToUpper([]rune(words[0])[0])}
	if len(words) > 1 {
		out = append(out, unicode.ToUpper([]rune(words[len(words)-1])[0]))
	}
	return string(out)
}

func localParts(address string) []string {
	local := strings.TrimSpace(address)
	if at := strings.IndexByte(local, '@'); at >= 0 {
		local = local[:at]
	}
	return strings.FieldsFunc(local, func(r rune) bool {
		return r == '.' || r == '_' || r == '-' || r == '+' || unicode.IsDigit(r)
	})
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
