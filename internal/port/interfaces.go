package port

import (
	"context"

	"portfolio-projects/internal/domain"
)

// RepoSource (侦察兵): 负责从 GitHub 拉取某个用户的公开仓库列表
// 除了仓库记录，还要带回响应头里的限流信息
type RepoSource interface {
	// 例如: ListRepos(ctx, "alice")
	ListRepos(ctx context.Context, username string) ([]*domain.RepoRecord, *domain.RateInfo, error)
}

// ReadmeSource (矿工): 负责抓取单个仓库的原始 README 文本
// 仓库没有 README 属于正常情况，返回空串而不是错误
type ReadmeSource interface {
	FetchReadme(ctx context.Context, owner, repo string) (string, error)
}

// RecordFilter (守门员): 在构造项目卡片之前剔除不该展示的仓库
type RecordFilter interface {
	Apply(username string, records []*domain.RepoRecord) []*domain.RepoRecord
}

// CacheStore (仓库管理员): 按用户名持久化最终的项目列表
// Get 只返回新鲜窗口内的非空条目，过期等同于未命中
type CacheStore interface {
	Get(ctx context.Context, username string) ([]*domain.Project, bool, error)
	Put(ctx context.Context, username string, projects []*domain.Project) error
}
