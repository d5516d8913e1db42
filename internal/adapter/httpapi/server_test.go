package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"portfolio-projects/internal/adapter/filter"
	"portfolio-projects/internal/common"
	"portfolio-projects/internal/domain"
	"portfolio-projects/internal/service"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 轻量桩实现，让引擎跑完一个真实周期
type stubSource struct {
	records []*domain.RepoRecord
	err     error
}

func (s *stubSource) ListRepos(ctx context.Context, username string) ([]*domain.RepoRecord, *domain.RateInfo, error) {
	if s.err != nil {
		return nil, nil, s.err
	}
	return s.records, &domain.RateInfo{Remaining: 100, Reset: time.Now().Add(time.Hour)}, nil
}

type stubReadme struct{}

func (s *stubReadme) FetchReadme(ctx context.Context, owner, repo string) (string, error) {
	return "", nil
}

type stubCache struct{}

func (s *stubCache) Get(ctx context.Context, username string) ([]*domain.Project, bool, error) {
	return nil, false, nil
}

func (s *stubCache) Put(ctx context.Context, username string, projects []*domain.Project) error {
	return nil
}

// settleEngine 让引擎跑完一个周期，保证 Latest 是最终状态
func settleEngine(t *testing.T, engine *service.Engine, username string) {
	t.Helper()
	_, updates := engine.LoadProjects(context.Background(), username)
	timeout := time.After(5 * time.Second)
	for {
		select {
		case _, ok := <-updates:
			if !ok {
				return
			}
		case <-timeout:
			t.Fatal("周期没有按时结束")
		}
	}
}

func setupApp(t *testing.T, source *stubSource, featured []*domain.Project) (*fiber.App, *service.Engine) {
	t.Helper()
	engine := service.NewEngine(source, &stubReadme{}, &stubCache{}, filter.NewRepoFilter())

	app := fiber.New()
	SetupRoutes(app, NewHandler(engine, featured, "alice"))
	return app, engine
}

func getJSON(t *testing.T, app *fiber.App, url string) map[string]interface{} {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", url, nil))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var parsed map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &parsed))
	return parsed
}

func TestHealth(t *testing.T) {
	app, _ := setupApp(t, &stubSource{}, nil)

	parsed := getJSON(t, app, "/health")
	assert.Equal(t, "ok", parsed["status"])
	assert.Equal(t, "portfolio-projects", parsed["service"])
}

func TestGetProjects_AllView(t *testing.T) {
	source := &stubSource{records: []*domain.RepoRecord{
		{Name: "tool", HTMLURL: "https://github.com/alice/tool", Stars: 3},
		{Name: "estrella", HTMLURL: "https://github.com/alice/estrella"},
	}}
	featured := []*domain.Project{
		{Name: "Estrella", Summary: "Destacado", URL: "https://github.com/alice/Estrella"},
	}

	app, engine := setupApp(t, source, featured)
	settleEngine(t, engine, "alice")

	parsed := getJSON(t, app, "/api/projects")

	projects := parsed["projects"].([]interface{})
	require.Len(t, projects, 2, "撞车的 GitHub 条目被精选顶掉")

	first := projects[0].(map[string]interface{})
	assert.Equal(t, "Estrella", first["name"])
	assert.Equal(t, true, first["isFeatured"])

	counts := parsed["counts"].(map[string]interface{})
	assert.Equal(t, float64(2), counts["all"])
	assert.Equal(t, float64(1), counts["featured"])
	assert.Equal(t, float64(2), counts["github"])

	assert.Equal(t, false, parsed["loading"])
	assert.Nil(t, parsed["error"])
}

func TestGetProjects_GitHubView(t *testing.T) {
	source := &stubSource{records: []*domain.RepoRecord{
		{Name: "tool", HTMLURL: "https://github.com/alice/tool"},
	}}

	app, engine := setupApp(t, source, nil)
	settleEngine(t, engine, "alice")

	parsed := getJSON(t, app, "/api/projects?view=github")
	projects := parsed["projects"].([]interface{})
	require.Len(t, projects, 1)

	p := projects[0].(map[string]interface{})
	assert.Equal(t, "tool", p["name"])
	assert.Equal(t, true, p["isGitHubRepo"])
	assert.Equal(t, "https://opengraph.githubassets.com/1/alice/tool", p["image"])
	assert.Equal(t, "Sin descripción", p["summary"])
}

func TestGetProjects_FeaturedView(t *testing.T) {
	featured := []*domain.Project{
		{Name: "Uno", URL: "https://github.com/alice/uno"},
		{Name: "Dos", URL: "https://github.com/alice/dos"},
	}

	app, _ := setupApp(t, &stubSource{}, featured)

	parsed := getJSON(t, app, "/api/projects?view=featured")
	assert.Len(t, parsed["projects"].([]interface{}), 2)
}

func TestGetProjects_ErrorSurfaced(t *testing.T) {
	source := &stubSource{err: common.NewUserNotFound("alice", nil)}

	app, engine := setupApp(t, source, nil)
	settleEngine(t, engine, "alice")

	parsed := getJSON(t, app, "/api/projects")
	assert.Equal(t, `Usuario "alice" no encontrado en GitHub`, parsed["error"])
	assert.Len(t, parsed["projects"].([]interface{}), 0)
}

func TestRefresh(t *testing.T) {
	source := &stubSource{records: []*domain.RepoRecord{
		{Name: "tool", HTMLURL: "https://github.com/alice/tool"},
	}}
	app, _ := setupApp(t, source, nil)

	resp, err := app.Test(httptest.NewRequest("POST", "/api/projects/refresh", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var parsed map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &parsed))
	assert.Equal(t, true, parsed["started"])
}
