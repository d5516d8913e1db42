package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsernameFromProfileURL(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected string
	}{
		{"标准链接", "https://github.com/alice", "alice"},
		{"带尾斜杠", "https://github.com/alice/", "alice"},
		{"带仓库路径", "https://github.com/alice/portfolio", "alice"},
		{"不是 GitHub 链接", "https://gitlab.com/alice", ""},
		{"空串", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, UsernameFromProfileURL(tt.url))
		})
	}
}

func TestLoadFeatured(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "featured.json")

	payload := `[
		{"name": "Estrella", "summary": "Proyecto destacado", "url": "https://github.com/alice/estrella", "image": "/home/estrella.webp"},
		{"name": "Otro", "summary": "Otro proyecto", "url": "https://github.com/alice/otro"}
	]`
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o644))

	projects, err := LoadFeatured(path)
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, "Estrella", projects[0].Name)
	assert.Equal(t, "/home/estrella.webp", projects[0].Image)
	// 打标是合并层的事，加载时保持原样
	assert.False(t, projects[0].IsFeatured)
}

func TestLoadFeatured_MissingFileIsEmpty(t *testing.T) {
	projects, err := LoadFeatured(filepath.Join(t.TempDir(), "no-existe.json"))
	assert.NoError(t, err)
	assert.Empty(t, projects)
}

func TestLoadFeatured_EmptyPath(t *testing.T) {
	projects, err := LoadFeatured("")
	assert.NoError(t, err)
	assert.Empty(t, projects)
}

func TestLoadFeatured_InvalidJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "roto.json")
	require.NoError(t, os.WriteFile(path, []byte("{no es json"), 0o644))

	_, err := LoadFeatured(path)
	assert.Error(t, err)
}

func TestLoad_Defaults(t *testing.T) {
	// 切到空目录，避免读到仓库里的 config.yaml
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "portfolio-cache.db", cfg.CachePath)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "@every 30m", cfg.RefreshSpec)
	assert.Equal(t, 3, cfg.Workers)
}

func TestLoad_UsernameDerivedFromProfileURL(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("GITHUB_USERNAME", "")

	yaml := "github:\n  profile_url: https://github.com/alice\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "alice", cfg.Username)
}
