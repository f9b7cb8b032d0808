package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigStore_SetGetRoundTrip(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	store.Set("embedding_provider", "ollama")
	store.Set("evidence_k", 5)

	assert.Equal(t, "ollama", store.GetString("embedding_provider"))
	assert.Equal(t, 5, store.GetInt("evidence_k"))
}

func TestConfigStore_SaveAndReload(t *testing.T) {
	dir := t.TempDir()

	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	store.Set("openai_api_key", "sk-test")
	store.Set("evidence_k", 7)
	require.NoError(t, store.Save())

	reloaded, err := NewConfigStore(dir)
	require.NoError(t, err)
	assert.Equal(t, "sk-test", reloaded.GetString("openai_api_key"))
	// TOML integers decode as int64; GetInt normalises.
	assert.Equal(t, 7, reloaded.GetInt("evidence_k"))
}

func TestConfigStore_MissingFile(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "", store.GetString("absent"))
	assert.Equal(t, 0, store.GetInt("absent"))
	_, ok := store.Get("absent")
	assert.False(t, ok)
}

func TestConfigStore_TypeMismatch(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	store.Set("evidence_k", "not a number")
	store.Set("provider", 42)

	assert.Equal(t, 0, store.GetInt("evidence_k"))
	assert.Equal(t, "", store.GetString("provider"))
}

func TestConfigStore_Path(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "config.toml"), store.Path())
}

func TestConfigStore_ParsesExistingTOML(t *testing.T) {
	dir := t.TempDir()
	content := "embedding_provider = \"openai\"\nevidence_k = 3\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0600))

	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	assert.Equal(t, "openai", store.GetString("embedding_provider"))
	assert.Equal(t, 3, store.GetInt("evidence_k"))
}
