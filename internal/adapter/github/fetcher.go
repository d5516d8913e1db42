package github

import (
	"context"
	"time"

	"portfolio-projects/internal/common"
	"portfolio-projects/internal/domain"

	"github.com/google/go-github/v53/github"
	"golang.org/x/oauth2"
)

// readmeTimeout 单个 README 抓取的超时，超时按未命中处理
const readmeTimeout = 5 * time.Second

// Fetcher 实现了 port.RepoSource 和 port.ReadmeSource 接口
type Fetcher struct {
	client *github.Client
}

// NewFetcher 初始化 GitHub 客户端
// token: GitHub Personal Access Token (空字符串则匿名访问，限制 60次/小时)
func NewFetcher(token string) *Fetcher {
	var client *github.Client

	if token == "" {
		client = github.NewClient(nil)
	} else {
		ctx := context.Background()
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: token},
		)
		tc := oauth2.NewClient(ctx, ts)
		client = github.NewClient(tc)
	}

	return &Fetcher{client: client}
}

// ListRepos 拉取某个用户的公开仓库，按更新时间倒序，一页 100 个
// 返回的错误已经按四类分好，页面文案可以直接用
func (f *Fetcher) ListRepos(ctx context.Context, username string) ([]*domain.RepoRecord, *domain.RateInfo, error) {
	opts := &github.RepositoryListOptions{
		Sort: "updated",
		ListOptions: github.ListOptions{
			PerPage: 100,
		},
	}

	var repos []*github.Repository
	var resp *github.Response
	err := common.Do(ctx, func() error {
		var apiErr error
		repos, resp, apiErr = f.client.Repositories.List(ctx, username, opts)
		if apiErr != nil {
			cls := classify(username, resp, apiErr)
			if common.CodeOf(cls) == common.ErrCodeNetwork {
				// 网络层失败值得再试几次
				return cls
			}
			// 带状态码的失败重试也不会有不同结果，直接终止
			return common.Permanent(cls)
		}
		return nil
	},
		common.WithMaxRetries(2),
		common.WithInitialDelay(time.Second),
	)
	if err != nil {
		return nil, nil, err
	}

	// 把 GitHub 的数据结构转换成我们的原始记录 (DTO 转换)
	var records []*domain.RepoRecord
	for _, item := range repos {
		records = append(records, &domain.RepoRecord{
			Name:        item.GetName(),
			Description: item.GetDescription(),
			HTMLURL:     item.GetHTMLURL(),
			Fork:        item.GetFork(),
			Private:     item.GetPrivate(),
			Stars:       item.GetStargazersCount(),
			Language:    item.GetLanguage(),
			UpdatedAt:   item.GetUpdatedAt().Time,
		})
	}

	rate := &domain.RateInfo{
		Remaining: resp.Rate.Remaining,
		Reset:     resp.Rate.Reset.Time,
	}
	return records, rate, nil
}

// FetchReadme 抓取仓库的原始 README 文本
// 仓库没有 README (404) 返回空串，不算错误；其他失败由调用方静默吞掉
func (f *Fetcher) FetchReadme(ctx context.Context, owner, repo string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, readmeTimeout)
	defer cancel()

	content, resp, err := f.client.Repositories.GetReadme(ctx, owner, repo, nil)
	if err != nil {
		if resp != nil && resp.StatusCode == 404 {
			return "", nil
		}
		return "", err
	}

	text, err := content.GetContent()
	if err != nil {
		return "", err
	}
	return text, nil
}

// classify 把 go-github 的错误翻译成应用级错误分类
func classify(username string, resp *github.Response, err error) error {
	if rateErr, ok := err.(*github.RateLimitError); ok {
		return common.NewRateLimited(rateErr.Rate.Reset.Time, err)
	}

	// 没有响应说明请求根本没到服务端
	if resp == nil {
		return common.NewNetworkError(err)
	}

	switch resp.StatusCode {
	case 403, 429:
		return common.NewRateLimited(resp.Rate.Reset.Time, err)
	case 404:
		return common.NewUserNotFound(username, err)
	default:
		return common.NewFetchFailed(resp.StatusCode, err)
	}
}
