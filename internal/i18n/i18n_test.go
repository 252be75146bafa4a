package i18n

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBundledLocale(t *testing.T) {
	require.NoError(t, Initialize("en"))

	assert.Equal(t, "You do not have permission to perform this action", T("en", KeyPermissionDenied))
	assert.Equal(t, "Invalid request", T("en", KeyValidationInvalid, "request"))
	assert.Equal(t, "Notification not found", T("fr", KeyNotificationNotFound), "unknown languages fall back to the default")
	assert.Equal(t, "no.such.key", T("en", "no.such.key"))
	assert.True(t, IsSupported("en"))
	assert.Contains(t, GetSupportedLanguages(), "en")
}

func TestLoadTranslationsFallback(t *testing.T) {
	fsys := fstest.MapFS{
		"locales/en.json":    {Data: []byte(`{"greeting": "Hello %s", "bye": "Bye"}`)},
		"locales/hi.json":    {Data: []byte(`{"greeting": "Namaste %s"}`)},
		"locales/README.txt": {Data: []byte("ignored")},
	}

	tr := New("en")
	require.NoError(t, tr.LoadTranslations(fsys, "locales"))

	assert.Equal(t, "Namaste Asha", tr.T("hi", "greeting", "Asha"))
	assert.Equal(t, "Bye", tr.T("hi", "bye"))
}

func TestLoadTranslationsRejectsBadJSON(t *testing.T) {
	fsys := fstest.MapFS{"locales/en.json": {Data: []byte(`{`)}}
	assert.Error(t, New("en").LoadTranslations(fsys, "locales"))
}
