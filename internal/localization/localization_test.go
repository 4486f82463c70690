package localization_test

import (
	"os"
	"path/filepath"
	"testing"

	"smartalert/backend/internal/localization"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLocalizer_LoadsBundledFiles(t *testing.T) {
	l, err := localization.NewLocalizer(".", "en")

	require.NoError(t, err)
	assert.Equal(t, []string{"en", "uk"}, l.Languages())
	assert.Equal(t, `Status updated to "Resolved"`, l.Format("en", "comment.status_updated", "Resolved"))
	assert.Equal(t, `Статус змінено на "Resolved"`, l.Format("uk", "comment.status_updated", "Resolved"))
	assert.NotEqual(t, l.GetString("en", "list.empty"), l.GetString("en", "list.no_matches"))
	assert.NotEqual(t, l.GetString("uk", "list.empty"), l.GetString("uk", "list.no_matches"))
}

func TestGetString_Fallbacks(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "en.json"), []byte(`{"greeting":"Hello","only_en":"English"}`), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "uk.json"), []byte(`{"greeting":"Привіт"}`), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte(`ignored`), 0o600))

	l, err := localization.NewLocalizer(dir, "en")
	require.NoError(t, err)

	assert.Equal(t, "Привіт", l.GetString("uk", "greeting"))
	assert.Equal(t, "English", l.GetString("uk", "only_en"), "missing keys fall back to the fallback language")
	assert.Equal(t, "Hello", l.GetString("de", "greeting"), "unknown languages fall back too")
	assert.Equal(t, "missing.key", l.GetString("en", "missing.key"))
}

func TestNewLocalizer_Errors(t *testing.T) {
	_, err := localization.NewLocalizer(filepath.Join(t.TempDir(), "nope"), "en")
	assert.Error(t, err)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "en.json"), []byte(`{broken`), 0o600))
	_, err = localization.NewLocalizer(dir, "en")
	assert.Error(t, err)

	empty := t.TempDir()
	_, err = localization.NewLocalizer(empty, "en")
	assert.Error(t, err, "fallback language must exist")
}

func TestAdd_Merges(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "en.json"), []byte(`{"a":"1"}`), 0o600))
	l, err := localization.NewLocalizer(dir, "en")
	require.NoError(t, err)

	l.Add("en", map[string]string{"b": "2"})

	assert.Equal(t, "1", l.GetString("en", "a"))
	assert.Equal(t, "2", l.GetString("en", "b"))
}
