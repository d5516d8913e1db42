package service

import (
	"context"
	"log"
	"sync"
	"time"

	"portfolio-projects/internal/adapter/readme"
	"portfolio-projects/internal/common"
	"portfolio-projects/internal/domain"
	"portfolio-projects/internal/port"

	"github.com/google/uuid"
)

const (
	// maxEnrichment 只给列表前 N 个仓库抓 README，控制 API 消耗
	maxEnrichment = 15
	// rateFloor 剩余配额低于这个水位就跳过整个 README 阶段
	rateFloor = 5
	// updateBuffer 装得下一个周期的全部快照 (初始 + 列表 + 15 次补丁 + 收尾)
	updateBuffer = 32
)

// Engine 是项目采集引擎
// 一次 LoadProjects 调用对应一个周期: 读缓存 → 拉列表 → 过滤 →
// 兜底图 → 后台 README 丰富 → 写缓存。新周期开始时旧周期被取消
type Engine struct {
	source  port.RepoSource
	readmes port.ReadmeSource
	cache   port.CacheStore
	filter  port.RecordFilter

	workers int // README 抓取并发数

	mu      sync.Mutex
	current *cycle
	latest  domain.State
}

// cycle 一次采集周期，持有自己的取消句柄和可变工作缓冲
type cycle struct {
	id       string
	username string
	ctx      context.Context
	cancel   context.CancelFunc
	updates  chan domain.State

	mu     sync.Mutex
	buffer []*domain.Project // 按下标原地打补丁
}

// NewEngine 创建采集引擎
func NewEngine(source port.RepoSource, readmes port.ReadmeSource, cache port.CacheStore, recFilter port.RecordFilter) *Engine {
	return &Engine{
		source:  source,
		readmes: readmes,
		cache:   cache,
		filter:  recFilter,
		workers: 3, // 默认并发数为3
	}
}

// SetMaxWorkers 设置 README 抓取的最大并发数
func (e *Engine) SetMaxWorkers(max int) {
	if max > 0 {
		e.workers = max
	}
}

// LoadProjects 启动一个采集周期
// 同步返回初始状态 (缓存命中时直接带数据且不展示加载中)，
// 之后的快照从返回的通道陆续到达，周期结束时通道关闭。
// 空用户名直接返回已结算的空状态和已关闭的通道
func (e *Engine) LoadProjects(ctx context.Context, username string) (domain.State, <-chan domain.State) {
	updates := make(chan domain.State, updateBuffer)

	if username == "" {
		close(updates)
		settled := domain.State{Loading: false}
		e.mu.Lock()
		e.latest = settled
		e.mu.Unlock()
		return settled, updates
	}

	cctx, cancel := context.WithCancel(ctx)
	c := &cycle{
		id:       uuid.NewString(),
		username: username,
		ctx:      cctx,
		cancel:   cancel,
		updates:  updates,
	}

	// 新周期上位，旧周期作废
	e.mu.Lock()
	if e.current != nil {
		e.current.cancel()
	}
	e.current = c
	e.mu.Unlock()

	// 同步读缓存；读失败按未命中处理，不能挡住页面
	cached, hit, err := e.cache.Get(cctx, username)
	if err != nil {
		log.Printf("[Engine] 读取缓存失败 (cycle %s): %v", c.id, err)
		cached, hit = nil, false
	}

	var initial domain.State
	if hit {
		initial = domain.State{Projects: cloneAll(cached), Loading: false}
	} else {
		initial = domain.State{Loading: true}
	}

	e.mu.Lock()
	e.latest = initial
	e.mu.Unlock()

	go e.run(c, hit, cached)

	return initial, updates
}

// Latest 当前最近一次发布的状态，给 HTTP 层直接读
func (e *Engine) Latest() domain.State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.latest
}

// Close 停掉在途的采集周期
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.current != nil {
		e.current.cancel()
	}
}

// run 周期的异步部分：主列表请求、过滤、兜底图、README 丰富、写缓存
func (e *Engine) run(c *cycle, hadCache bool, cached []*domain.Project) {
	defer close(c.updates)

	records, rate, err := e.source.ListRepos(c.ctx, c.username)
	if c.cancelled() {
		// 周期已被取代，结果整个丢弃
		return
	}

	if err != nil {
		e.settleFetchError(c, hadCache, cached, err)
		return
	}

	filtered := e.filter.Apply(c.username, records)

	// 先构造不含 README 信息的基础卡片，让页面尽快有东西可渲染
	basic := make([]*domain.Project, 0, len(filtered))
	for _, r := range filtered {
		summary := r.Description
		if summary == "" {
			summary = domain.DefaultSummary
		}
		basic = append(basic, &domain.Project{
			Name:         r.Name,
			Summary:      summary,
			URL:          r.HTMLURL,
			Image:        domain.FallbackImage(c.username, r.Name),
			Stars:        r.Stars,
			Language:     r.Language,
			UpdatedAt:    r.UpdatedAt.Format(time.RFC3339),
			IsGitHubRepo: true,
		})
	}

	c.mu.Lock()
	c.buffer = basic
	c.mu.Unlock()

	e.publish(c, c.snapshot())

	// 配额见底：跳过 README 阶段，基础列表就是最终结果
	if rate != nil && rate.Remaining < rateFloor {
		log.Printf("[Engine] 剩余配额 %d 低于水位 %d，跳过 README 丰富 (cycle %s)", rate.Remaining, rateFloor, c.id)
		e.finish(c)
		return
	}

	e.enrich(c, filtered)
	if c.cancelled() {
		return
	}
	e.finish(c)
}

// settleFetchError 主列表请求失败时的收尾
// 有可用缓存时 403 和网络错误被静默吞掉，继续供应缓存数据；
// 其余情况把错误抛到状态里并清空列表
func (e *Engine) settleFetchError(c *cycle, hadCache bool, cached []*domain.Project, err error) {
	code := common.CodeOf(err)
	if hadCache && (code == common.ErrCodeRateLimited || code == common.ErrCodeNetwork) {
		log.Printf("[Engine] 主列表请求失败但缓存可用，静默降级 (cycle %s): %v", c.id, err)
		e.publish(c, domain.State{Projects: cloneAll(cached), Loading: false})
		return
	}

	log.Printf("[Engine] 主列表请求失败 (cycle %s): %v", c.id, err)
	e.publish(c, domain.State{Loading: false, Err: err})
}

// enrichJob 单个 README 抓取任务，idx 指向工作缓冲里的卡片
type enrichJob struct {
	idx  int
	name string
	url  string
}

// enrich 并发抓取前 N 个仓库的 README 并提取图片/描述
// 每个任务独立结算：失败静默跳过，成功立即打补丁并发布新快照
func (e *Engine) enrich(c *cycle, filtered []*domain.RepoRecord) {
	n := min(maxEnrichment, len(filtered))
	if n == 0 {
		return
	}

	jobs := make(chan enrichJob, n)
	var wg sync.WaitGroup

	for w := 0; w < e.workers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for job := range jobs {
				e.enrichOne(c, workerID, job)
			}
		}(w + 1)
	}

	for i := 0; i < n; i++ {
		jobs <- enrichJob{idx: i, name: filtered[i].Name, url: filtered[i].HTMLURL}
	}
	close(jobs)

	wg.Wait()
}

// enrichOne 处理单个仓库：抓 README、提取、打补丁、发布
func (e *Engine) enrichOne(c *cycle, workerID int, job enrichJob) {
	if c.cancelled() {
		return
	}

	text, err := e.readmes.FetchReadme(c.ctx, c.username, job.name)
	if err != nil {
		// README 抓不到是正常结局，保持兜底图和描述不动
		log.Printf("   [Worker-%d] 跳过 %s 的 README: %v", workerID, job.name, err)
		return
	}
	if text == "" {
		return
	}

	image := readme.ExtractImage(text, job.url)
	description := readme.ExtractDescription(text)
	if image == "" && description == "" {
		return
	}

	if !c.patch(job.idx, image, description) {
		return
	}
	e.publish(c, c.snapshot())
}

// finish 周期收尾：最终列表落缓存，再发布最后一个快照
func (e *Engine) finish(c *cycle) {
	final := c.snapshot()
	if err := e.cache.Put(c.ctx, c.username, final.Projects); err != nil {
		log.Printf("[Engine] 写入缓存失败 (cycle %s): %v", c.id, err)
	}
	e.publish(c, final)
}

// publish 发布一个快照
// 整个动作在引擎锁里完成，被取代或取消的周期绝不会再发声
func (e *Engine) publish(c *cycle, st domain.State) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.current != c || c.ctx.Err() != nil {
		return
	}

	// Latest 持有自己的副本，订阅方改快照不影响它
	e.latest = domain.State{Projects: cloneAll(st.Projects), Loading: st.Loading, Err: st.Err}
	select {
	case c.updates <- st:
	default:
		// 缓冲按周期内发布次数上限设定，这里只是防御消费者完全不读
	}
}

func (c *cycle) cancelled() bool {
	return c.ctx.Err() != nil
}

// patch 单调升级：只覆盖确实有改进的字段，两个都为空时什么都不做
func (c *cycle) patch(idx int, image, summary string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if idx < 0 || idx >= len(c.buffer) {
		return false
	}

	patched := false
	if image != "" {
		c.buffer[idx].Image = image
		patched = true
	}
	if summary != "" {
		c.buffer[idx].Summary = summary
		patched = true
	}
	return patched
}

// snapshot 把工作缓冲复制成对外不可变的状态
func (c *cycle) snapshot() domain.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return domain.State{Projects: cloneAll(c.buffer), Loading: false}
}

func cloneAll(projects []*domain.Project) []*domain.Project {
	if projects == nil {
		return nil
	}
	cloned := make([]*domain.Project, len(projects))
	for i, p := range projects {
		cloned[i] = p.Clone()
	}
	return cloned
}
