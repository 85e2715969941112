// Package i18n provides localized user-facing strings with a fallback
// chain: requested language, then the configured default, then English,
// then the key itself. Translations are embedded at build time.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/text/language"
)

//go:embed lang/*.json
var langFS embed.FS

const englishCode = "en"

// Translator resolves message keys to localized strings. Safe for
// unsynchronized concurrent reads after construction.
type Translator struct {
	defaultLang  string
	translations map[string]map[string]string
	codes        []string
	matcher      language.Matcher
	logger       *zerolog.Logger
}

// New loads all embedded language tables. defaultLang must be one of the
// embedded languages.
func New(defaultLang string, logger *zerolog.Logger) (*Translator, error) {
	entries, err := fs.ReadDir(langFS, "lang")
	if err != nil {
		return nil, fmt.Errorf("read embedded translations: %w", err)
	}

	translations := make(map[string]map[string]string, len(entries))

	for _, entry := range entries {
		code := strings.TrimSuffix(entry.Name(), path.Ext(entry.Name()))

		data, err := langFS.ReadFile(path.Join("lang", entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read language file %s: %w", entry.Name(), err)
		}

		table := make(map[string]string)
		if err := json.Unmarshal(data, &table); err != nil {
			return nil, fmt.Errorf("parse language file %s: %w", entry.Name(), err)
		}

		translations[code] = table
	}

	if _, ok := translations[defaultLang]; !ok {
		return nil, fmt.Errorf("default language %q has no translation table", defaultLang)
	}

	codes := make([]string, 0, len(translations))
	for code := range translations {
		codes = append(codes, code)
	}

	sort.Strings(codes)

	// The matcher prefers earlier tags on ties, so the default goes first.
	ordered := append([]string{defaultLang}, codes...)
	tags := make([]language.Tag, 0, len(ordered))

	for _, code := range ordered {
		tag, err := language.Parse(code)
		if err != nil {
			return nil, fmt.Errorf("parse language code %q: %w", code, err)
		}

		tags = append(tags, tag)
	}

	return &Translator{
		defaultLang:  defaultLang,
		translations: translations,
		codes:        ordered,
		matcher:      language.NewMatcher(tags),
		logger:       logger,
	}, nil
}

// UserLanguage maps a Telegram language code to a supported language,
// falling back to the default for unknown or empty codes.
func (t *Translator) UserLanguage(code string) string {
	if code == "" {
		return t.defaultLang
	}

	tag, err := language.Parse(code)
	if err != nil {
		return t.defaultLang
	}

	_, idx, conf := t.matcher.Match(tag)
	if conf == language.No {
		return t.defaultLang
	}

	return t.codes[idx]
}

// Get returns the translation for key in lang, walking the fallback chain.
// A key missing everywhere degrades to the key itself with a warning.
func (t *Translator) Get(lang, key string) string {
	for _, code := range []string{lang, t.defaultLang, englishCode} {
		if table, ok := t.translations[code]; ok {
			if msg, ok := table[key]; ok {
				return msg
			}
		}
	}

	t.logger.Warn().Str("key", key).Str("lang", lang).Msg("missing translation key")

	return key
}

// Replace substitutes a single {placeholder} in a localized string.
func Replace(msg, placeholder, value string) string {
	return strings.ReplaceAll(msg, "{"+placeholder+"}", value)
}
