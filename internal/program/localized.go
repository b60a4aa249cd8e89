package program

import (
	"fmt"
	"sort"

	"golang.org/x/text/language"
)

// DefaultLocale is the locale every program is required to provide
// translations for, and the fallback when an applicant's preferred locale
// has none.
var DefaultLocale = language.AmericanEnglish

// TranslationNotFoundError reports a locale with no stored translation.
type TranslationNotFoundError struct {
	Locale language.Tag
}

func (e *TranslationNotFoundError) Error() string {
	return fmt.Sprintf("no translation for locale %s", e.Locale)
}

// LocalizedStrings maps locales to translated display text. The zero value
// holds no translations. Values are immutable; Update returns a copy.
type LocalizedStrings struct {
	translations map[language.Tag]string
}

// NewLocalizedStrings builds a LocalizedStrings from a translations map.
// The map is copied.
func NewLocalizedStrings(translations map[language.Tag]string) LocalizedStrings {
	copied := make(map[language.Tag]string, len(translations))
	for tag, text := range translations {
		copied[tag] = text
	}
	return LocalizedStrings{translations: copied}
}

// Get returns the translation for the exact locale.
func (s LocalizedStrings) Get(locale language.Tag) (string, error) {
	text, ok := s.translations[locale]
	if !ok {
		return "", &TranslationNotFoundError{Locale: locale}
	}
	return text, nil
}

// GetOrDefault returns the translation for locale, falling back to the
// default locale, then to the empty string.
func (s LocalizedStrings) GetOrDefault(locale language.Tag) string {
	if text, err := s.Get(locale); err == nil {
		return text
	}
	text, _ := s.Get(DefaultLocale)
	return text
}

// Update returns a copy with the translation for locale replaced or added.
func (s LocalizedStrings) Update(locale language.Tag, text string) LocalizedStrings {
	copied := make(map[language.Tag]string, len(s.translations)+1)
	for tag, t := range s.translations {
		copied[tag] = t
	}
	copied[locale] = text
	return LocalizedStrings{translations: copied}
}

// HasTranslation reports whether an exact translation exists for locale.
func (s LocalizedStrings) HasTranslation(locale language.Tag) bool {
	_, ok := s.translations[locale]
	return ok
}

// Locales lists the locales with translations, sorted by tag string so
// callers iterate deterministically.
func (s LocalizedStrings) Locales() []language.Tag {
	tags := make([]language.Tag, 0, len(s.translations))
	for tag := range s.translations {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i].String() < tags[j].String() })
	return tags
}
