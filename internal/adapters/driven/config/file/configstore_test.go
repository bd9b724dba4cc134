package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/herring101/docs-mcp/internal/core/domain"
)

func newTestStore(t *testing.T) (*ConfigStore, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	return store, dir
}

func TestNewConfigStore(t *testing.T) {
	t.Run("fresh directory starts empty", func(t *testing.T) {
		store, dir := newTestStore(t)
		assert.Equal(t, filepath.Join(dir, "config.toml"), store.Path())
		_, ok := store.Get(KeyBaseDir)
		assert.False(t, ok)
	})

	t.Run("loads existing file", func(t *testing.T) {
		dir := t.TempDir()
		content := "[library]\nbase_dir = \"/srv/docs\"\n\n[embedding]\nprovider = \"ollama\"\n"
		require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0600))

		store, err := NewConfigStore(dir)
		require.NoError(t, err)
		assert.Equal(t, "/srv/docs", store.GetString(KeyBaseDir))
		assert.Equal(t, "ollama", store.GetString(KeyEmbeddingProvider))
	})

	t.Run("malformed file is rejected", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("not = [valid"), 0600))

		_, err := NewConfigStore(dir)
		assert.Error(t, err)
	})
}

func TestConfigStore_SetAndReload(t *testing.T) {
	store, dir := newTestStore(t)

	require.NoError(t, store.Set(KeyBaseDir, "/srv/docs"))
	require.NoError(t, store.Set(KeyAllowedFolders, []string{"guides", "api"}))

	// Set persists immediately; a fresh store sees the values.
	reloaded, err := NewConfigStore(dir)
	require.NoError(t, err)
	assert.Equal(t, "/srv/docs", reloaded.GetString(KeyBaseDir))
	assert.Equal(t, []string{"guides", "api"}, reloaded.GetStringSlice(KeyAllowedFolders))
}

func TestConfigStore_FilePermissions(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.Set(KeyEmbeddingAPIKey, "sk-secret"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store, _ := newTestStore(t)

	t.Run("string", func(t *testing.T) {
		require.NoError(t, store.Set(KeyEmbeddingModel, "text-embedding-3-small"))
		assert.Equal(t, "text-embedding-3-small", store.GetString(KeyEmbeddingModel))
		assert.Equal(t, "", store.GetString("missing.key"))
	})

	t.Run("int", func(t *testing.T) {
		require.NoError(t, store.Set("import.depth", 3))
		assert.Equal(t, 3, store.GetInt("import.depth"))
		assert.Equal(t, 0, store.GetInt("missing.key"))
	})

	t.Run("bool", func(t *testing.T) {
		require.NoError(t, store.Set("import.progress", true))
		assert.True(t, store.GetBool("import.progress"))
		assert.False(t, store.GetBool("missing.key"))
	})

	t.Run("wrong type yields zero value", func(t *testing.T) {
		require.NoError(t, store.Set("import.depth", 3))
		assert.Equal(t, "", store.GetString("import.depth"))
		assert.False(t, store.GetBool("import.depth"))
	})

	t.Run("string slice from reloaded toml array", func(t *testing.T) {
		store, dir := newTestStore(t)
		require.NoError(t, store.Set(KeyAllowedExtensions, []string{".md", ".txt"}))

		reloaded, err := NewConfigStore(dir)
		require.NoError(t, err)
		assert.Equal(t, []string{".md", ".txt"}, reloaded.GetStringSlice(KeyAllowedExtensions))
	})
}

func TestConfigStore_LibraryConfig(t *testing.T) {
	t.Run("resolves stored settings", func(t *testing.T) {
		store, _ := newTestStore(t)
		base := t.TempDir()
		require.NoError(t, store.Set(KeyBaseDir, base))
		require.NoError(t, store.Set(KeyAllowedFolders, []string{"guides"}))
		require.NoError(t, store.Set(KeyAllowedExtensions, []string{".md"}))

		cfg, err := store.LibraryConfig()
		require.NoError(t, err)
		assert.Equal(t, base, cfg.BaseDir)
		assert.Equal(t, []string{"guides"}, cfg.AllowedFolders)
		assert.Equal(t, []string{".md"}, cfg.AllowedExtensions)
		assert.Equal(t, filepath.Join(base, "docs"), cfg.DocsDir)
	})

	t.Run("base dir defaults to working directory", func(t *testing.T) {
		store, _ := newTestStore(t)

		cfg, err := store.LibraryConfig()
		require.NoError(t, err)
		wd, err := os.Getwd()
		require.NoError(t, err)
		assert.Equal(t, wd, cfg.BaseDir)
		assert.Equal(t, domain.DefaultExtensions, cfg.AllowedExtensions)
	})

	t.Run("malformed extension is rejected", func(t *testing.T) {
		store, _ := newTestStore(t)
		require.NoError(t, store.Set(KeyBaseDir, t.TempDir()))
		require.NoError(t, store.Set(KeyAllowedExtensions, []string{"md"}))

		_, err := store.LibraryConfig()
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestFlattenMap(t *testing.T) {
	nested := map[string]any{
		"library": map[string]any{
			"base_dir": "/srv/docs",
			"nested": map[string]any{
				"deep": int64(1),
			},
		},
		"flat": "value",
	}

	flat := flattenMap(nested, "")
	assert.Equal(t, "/srv/docs", flat["library.base_dir"])
	assert.Equal(t, int64(1), flat["library.nested.deep"])
	assert.Equal(t, "value", flat["flat"])
}
