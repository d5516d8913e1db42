package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCacheKey(t *testing.T) {
	assert.Equal(t, "github_repos_cache_alice", CacheKey("alice"))
	assert.Equal(t, "github_repos_cache_Bob-99", CacheKey("Bob-99"))
}

func TestFallbackImage(t *testing.T) {
	assert.Equal(t,
		"https://opengraph.githubassets.com/1/alice/tool",
		FallbackImage("alice", "tool"))
}

func TestCacheEntry_Fresh(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name  string
		age   time.Duration
		fresh bool
	}{
		{"刚写入", 0, true},
		{"窗口内", 29 * time.Minute, true},
		{"正好到期", 30 * time.Minute, false},
		{"已过期", 45 * time.Minute, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := &CacheEntry{Timestamp: now.Add(-tt.age).UnixMilli()}
			assert.Equal(t, tt.fresh, entry.Fresh(now))
		})
	}
}

// 时间戳在未来说明时钟有问题，按不新鲜处理
func TestCacheEntry_FutureTimestampIsStale(t *testing.T) {
	now := time.Now()
	entry := &CacheEntry{Timestamp: now.Add(10 * time.Minute).UnixMilli()}
	assert.False(t, entry.Fresh(now))
}

func TestProject_Clone(t *testing.T) {
	original := &Project{
		Name:         "tool",
		Summary:      "Una herramienta",
		URL:          "https://github.com/alice/tool",
		Image:        "https://opengraph.githubassets.com/1/alice/tool",
		Stars:        7,
		Language:     "Go",
		IsGitHubRepo: true,
	}

	cloned := original.Clone()
	cloned.Summary = "otra cosa"
	cloned.IsFeatured = true

	assert.Equal(t, "Una herramienta", original.Summary)
	assert.False(t, original.IsFeatured)
	assert.Equal(t, original.URL, cloned.URL)
}
