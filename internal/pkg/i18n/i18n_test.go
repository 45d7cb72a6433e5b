package i18n

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup_EmbeddedCatalog(t *testing.T) {
	msg, ok := Lookup("en", "REPLY_COMMENT")
	require.True(t, ok)
	assert.Equal(t, "%s replied to your comment", msg)
	assert.True(t, HasLocale("en"))
}

func TestLookup_Missing(t *testing.T) {
	_, ok := Lookup("fr", "REACTION_POST")
	assert.False(t, ok)

	_, ok = Lookup("en", "UNKNOWN_KEY")
	assert.False(t, ok)
}

func TestLoadTranslations(t *testing.T) {
	fsys := fstest.MapFS{
		"catalogs/de/notifications.yaml": {Data: []byte("NOTIFICATIONS:\n  COMMENT_POST: \"%s hat kommentiert\"\n")},
		"catalogs/README.md":             {Data: []byte("not a locale")},
	}
	require.NoError(t, LoadTranslations(fsys, "catalogs"))

	msg, ok := Lookup("de", "COMMENT_POST")
	require.True(t, ok)
	assert.Equal(t, "%s hat kommentiert", msg)
}

func TestLoadTranslations_RejectsBrokenYAML(t *testing.T) {
	fsys := fstest.MapFS{
		"catalogs/xx/notifications.yaml": {Data: []byte("NOTIFICATIONS: [unclosed")},
	}
	err := LoadTranslations(fsys, "catalogs")
	assert.Error(t, err)
	assert.False(t, HasLocale("xx"))
}
