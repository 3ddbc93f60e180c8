// Package locale negotiates the response language and holds the localized
// notice catalog shown to end users. Turkish is the default; English is the
// only other supported language.
package locale

import (
	"golang.org/x/text/language"
)

const (
	Turkish = "tr"
	English = "en"

	Default = Turkish
)

var matcher = language.NewMatcher([]language.Tag{language.Turkish, language.English})

// Determine picks the response language. An explicit ?lang= value wins over
// the Accept-Language header; unsupported or malformed input falls back to
// Default.
func Determine(queryLang, acceptLanguage string) string {
	if l, ok := supported(queryLang); ok {
		return l
	}
	if acceptLanguage == "" {
		return Default
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return Default
	}
	_, idx, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return Default
	}
	if idx == 1 {
		return English
	}
	return Turkish
}

// Normalize maps an arbitrary value onto a supported locale.
func Normalize(l string) string {
	if s, ok := supported(l); ok {
		return s
	}
	return Default
}

func supported(raw string) (string, bool) {
	if raw == "" {
		return "", false
	}
	tag, err := language.Parse(raw)
	if err != nil {
		return "", false
	}
	base, _ := tag.Base()
	switch base.String() {
	case Turkish:
		return Turkish, true
	case English:
		return English, true
	}
	return "", false
}
