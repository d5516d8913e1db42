package domain

import (
	"fmt"
	"time"
)

// Project 代表作品集页面上的一个项目卡片
// 既可以来自 GitHub 仓库，也可以来自手工维护的精选列表
type Project struct {
	// 基础信息 (来自 GitHub 或精选列表)
	Name      string `json:"name"`
	Summary   string `json:"summary"` // 降级链: README 描述 → 平台描述 → 占位文案
	URL       string `json:"url"`     // 去重键 (忽略大小写)
	Image     string `json:"image,omitempty"`
	Stars     int    `json:"stars"`
	Language  string `json:"language,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`

	// 来源标记
	IsGitHubRepo bool `json:"isGitHubRepo"`
	IsFeatured   bool `json:"isFeatured"` // 仅由合并层对精选项目打标
}

// DefaultSummary 没有任何描述时的占位文案 (与页面文案一致)
const DefaultSummary = "Sin descripción"

// Clone 返回项目的副本，发布快照时用它保证外部不可变
func (p *Project) Clone() *Project {
	c := *p
	return &c
}

// RepoRecord 是平台返回的原始仓库记录，过滤策略作用在它身上
type RepoRecord struct {
	Name        string
	Description string
	HTMLURL     string
	Fork        bool
	Private     bool
	Stars       int
	Language    string
	UpdatedAt   time.Time
}

// RateInfo GitHub 在响应头里带回的限流信息
type RateInfo struct {
	Remaining int
	Reset     time.Time
}

// CacheEntry 持久化缓存的包装结构，按用户名存一条
type CacheEntry struct {
	Timestamp int64      `json:"timestamp"` // epoch 毫秒
	Data      []*Project `json:"data"`
}

// CacheTTL 缓存新鲜窗口，过期按未命中处理
const CacheTTL = 30 * time.Minute

// CacheKey 拼出某个用户名对应的缓存键
func CacheKey(username string) string {
	return fmt.Sprintf("github_repos_cache_%s", username)
}

// Fresh 判断缓存条目是否还在新鲜窗口内
func (e *CacheEntry) Fresh(now time.Time) bool {
	age := now.UnixMilli() - e.Timestamp
	return age >= 0 && time.Duration(age)*time.Millisecond < CacheTTL
}

// State 是一次采集周期对外暴露的响应式状态
type State struct {
	Projects []*Project
	Loading  bool
	Err      error // 仅主列表请求的错误会出现在这里
}

// FallbackImage 根据 (owner, repo) 构造社交预览图地址，不需要额外请求
func FallbackImage(owner, repo string) string {
	return fmt.Sprintf("https://opengraph.githubassets.com/1/%s/%s", owner, repo)
}
