package service

import (
	"strings"

	"portfolio-projects/internal/domain"
)

// 展示视图。页面上的三个过滤按钮各对应一个
const (
	ViewAll      = "all"
	ViewFeatured = "featured"
	ViewGitHub   = "github"
)

// MergeProjects 合并精选列表和引擎产出的 GitHub 列表
// 纯函数：没有自己的状态，也不做任何缓存
//   - 精选条目统一打上 IsFeatured 标记
//   - URL (忽略大小写) 和精选条目撞车的 GitHub 条目被剔除，手工维护的胜出
//   - all 视图精选在前，GitHub 在后
//
// 未知的 view 按 all 处理
func MergeProjects(featured, githubProjects []*domain.Project, view string) []*domain.Project {
	tagged := make([]*domain.Project, 0, len(featured))
	featuredURLs := make(map[string]struct{}, len(featured))
	for _, p := range featured {
		c := p.Clone()
		c.IsFeatured = true
		tagged = append(tagged, c)
		featuredURLs[strings.ToLower(c.URL)] = struct{}{}
	}

	unique := make([]*domain.Project, 0, len(githubProjects))
	for _, p := range githubProjects {
		if _, dup := featuredURLs[strings.ToLower(p.URL)]; dup {
			continue
		}
		unique = append(unique, p.Clone())
	}

	switch view {
	case ViewFeatured:
		return tagged
	case ViewGitHub:
		return unique
	default:
		return append(tagged, unique...)
	}
}
