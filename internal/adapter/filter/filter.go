package filter

import (
	"strings"

	"portfolio-projects/internal/domain"
)

// RepoFilter 在构造项目卡片之前剔除不该展示的仓库
type RepoFilter struct {
	denylist []string
}

// defaultDenylist 自指的作品集仓库变体 + 课程作业标记
// 按子串匹配，忽略大小写
var defaultDenylist = []string{
	"portfolio",
	"portfolio_v",
	"portfolio-main",
	"my-portfolio",
	"curso",
}

// NewRepoFilter 创建带默认黑名单的过滤器实例
func NewRepoFilter() *RepoFilter {
	return &RepoFilter{denylist: defaultDenylist}
}

// Apply 执行四条排除规则:
// 1. fork 仓库
// 2. 私有仓库
// 3. 个人资料 README 仓库 (仓库名等于用户名)
// 4. 黑名单子串命中的仓库
func (f *RepoFilter) Apply(username string, records []*domain.RepoRecord) []*domain.RepoRecord {
	lowerUser := strings.ToLower(username)

	var filtered []*domain.RepoRecord
	for _, record := range records {
		if record.Fork || record.Private {
			continue
		}

		lowerName := strings.ToLower(record.Name)
		if lowerName == lowerUser {
			continue
		}

		if f.denied(lowerName) {
			continue
		}

		filtered = append(filtered, record)
	}

	return filtered
}

func (f *RepoFilter) denied(lowerName string) bool {
	for _, marker := range f.denylist {
		if strings.Contains(lowerName, marker) {
			return true
		}
	}
	return false
}
