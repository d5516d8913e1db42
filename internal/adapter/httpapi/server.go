package httpapi

import (
	"context"

	"portfolio-projects/internal/common"
	"portfolio-projects/internal/domain"
	"portfolio-projects/internal/service"

	"github.com/gofiber/fiber/v3"
)

// Handler 把引擎状态和精选列表拼成渲染层要的 JSON
type Handler struct {
	engine   *service.Engine
	featured []*domain.Project
	username string
}

func NewHandler(engine *service.Engine, featured []*domain.Project, username string) *Handler {
	return &Handler{
		engine:   engine,
		featured: featured,
		username: username,
	}
}

// SetupRoutes 注册全部路由
func SetupRoutes(app *fiber.App, h *Handler) {
	app.Get("/health", h.Health)

	api := app.Group("/api")
	api.Get("/projects", h.GetProjects)
	api.Post("/projects/refresh", h.Refresh)
}

// Health 健康检查
func (h *Handler) Health(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"service": "portfolio-projects",
	})
}

// GetProjects 返回合并后的项目列表
// ?view=all|featured|github 选择视图，默认 all
func (h *Handler) GetProjects(c fiber.Ctx) error {
	view := c.Query("view", service.ViewAll)
	state := h.engine.Latest()

	merged := service.MergeProjects(h.featured, state.Projects, view)
	if merged == nil {
		merged = []*domain.Project{}
	}

	// 页面按钮上展示的各视图数量
	githubOnly := service.MergeProjects(h.featured, state.Projects, service.ViewGitHub)

	resp := fiber.Map{
		"projects": merged,
		"loading":  state.Loading,
		"counts": fiber.Map{
			"all":      len(h.featured) + len(githubOnly),
			"featured": len(h.featured),
			"github":   len(state.Projects),
		},
	}
	if state.Err != nil {
		resp["error"] = common.MessageOf(state.Err)
	}

	return c.JSON(resp)
}

// Refresh 手动触发一次采集周期
// 快照通道的缓冲装得下整个周期，这里不需要消费它
func (h *Handler) Refresh(c fiber.Ctx) error {
	if h.username == "" {
		return c.Status(400).JSON(fiber.Map{"error": "no hay usuario de GitHub configurado"})
	}

	state, _ := h.engine.LoadProjects(context.Background(), h.username)
	return c.JSON(fiber.Map{
		"started": true,
		"cached":  !state.Loading,
	})
}
