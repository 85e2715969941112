package i18n

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func newTranslator(t *testing.T) *Translator {
	t.Helper()

	logger := zerolog.Nop()

	tr, err := New("ru", &logger)
	require.NoError(t, err)

	return tr
}

func TestGetReturnsRequestedLanguage(t *testing.T) {
	tr := newTranslator(t)

	require.Equal(t, "Working on it...", tr.Get("en", "processing"))
	require.Equal(t, "Обрабатываю...", tr.Get("ru", "processing"))
}

func TestGetFallsBackToDefault(t *testing.T) {
	tr := newTranslator(t)

	// Unknown language falls back to the default table.
	require.Equal(t, tr.Get("ru", "welcome"), tr.Get("xx", "welcome"))
}

func TestGetMissingKeyDegradesToKey(t *testing.T) {
	tr := newTranslator(t)

	require.Equal(t, "no_such_key", tr.Get("en", "no_such_key"))
}

func TestUserLanguage(t *testing.T) {
	tr := newTranslator(t)

	tests := []struct {
		code string
		want string
	}{
		{"en", "en"},
		{"ru", "ru"},
		{"de", "de"},
		{"uk", "uk"},
		{"", "ru"},
		{"not-a-code!!", "ru"},
		{"en-US", "en"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			require.Equal(t, tt.want, tr.UserLanguage(tt.code))
		})
	}
}

func TestAllLanguagesShareKeys(t *testing.T) {
	tr := newTranslator(t)

	reference := tr.translations["en"]
	require.NotEmpty(t, reference)

	for code, table := range tr.translations {
		for key := range reference {
			_, ok := table[key]
			require.True(t, ok, "language %s is missing key %s", code, key)
		}
	}
}

func TestReplace(t *testing.T) {
	got := Replace("Subscribe here: {channelLink}", "channelLink", "https://t.me/x")
	require.Equal(t, "Subscribe here: https://t.me/x", got)
}

func TestNewRejectsUnknownDefault(t *testing.T) {
	logger := zerolog.Nop()

	_, err := New("tlh", &logger)
	require.Error(t, err)
}
