package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"portfolio-projects/internal/adapter/cache"
	"portfolio-projects/internal/adapter/filter"
	"portfolio-projects/internal/adapter/github"
	"portfolio-projects/internal/adapter/httpapi"
	"portfolio-projects/internal/common"
	"portfolio-projects/internal/config"
	"portfolio-projects/internal/domain"
	"portfolio-projects/internal/service"

	"github.com/gofiber/fiber/v3"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

func main() {
	// .env 是可选的，没有就直接用进程环境
	godotenv.Load()

	// 1. 定义命令行参数
	mode := flag.String("mode", "serve", "运行模式: serve (常驻服务) 或 fetch (单次抓取)")
	user := flag.String("user", "", "覆盖配置里的 GitHub 用户名")
	concurrency := flag.Int("concurrency", 0, "README 抓取并发数 (0 使用配置值)")
	flag.Parse()

	// 2. 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ 配置加载失败: %v", err)
	}
	if *user != "" {
		cfg.Username = *user
	}
	if *concurrency > 0 {
		cfg.Workers = *concurrency
	}

	if cfg.Username == "" {
		fmt.Println("❌ 没有配置 GitHub 用户名，请设置 GITHUB_USERNAME 或 -user")
		os.Exit(1)
	}

	// 3. 初始化公共依赖 (缓存、GitHub 客户端、过滤器)
	store, err := cache.New(cfg.CachePath)
	if err != nil {
		log.Fatalf("❌ 缓存初始化失败: %v", err)
	}
	defer store.Close()

	fetcher := github.NewFetcher(cfg.Token)
	engine := service.NewEngine(fetcher, fetcher, store, filter.NewRepoFilter())
	engine.SetMaxWorkers(cfg.Workers)
	defer engine.Close()

	// 4. 根据模式分流
	switch *mode {
	case "serve":
		runServer(cfg, engine)
	case "fetch":
		runFetch(cfg, engine)
	default:
		fmt.Println("❌ 未知模式，请使用 -mode=serve 或 -mode=fetch")
	}
}

// runServer 常驻模式：HTTP API + 定时刷新缓存
func runServer(cfg *config.Config, engine *service.Engine) {
	featured, err := config.LoadFeatured(cfg.FeaturedFile)
	if err != nil {
		log.Fatalf("❌ 精选项目加载失败: %v", err)
	}
	fmt.Printf("⭐ 已加载 %d 个精选项目\n", len(featured))

	app := fiber.New(fiber.Config{
		AppName: "Portfolio Projects API",
	})
	httpapi.SetupRoutes(app, httpapi.NewHandler(engine, featured, cfg.Username))

	// 启动时先灌一次数据
	engine.LoadProjects(context.Background(), cfg.Username)

	// 定时刷新，和缓存的新鲜窗口对齐
	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.RefreshSpec, func() {
		fmt.Printf("🔄 定时刷新用户 %s 的项目列表\n", cfg.Username)
		engine.LoadProjects(context.Background(), cfg.Username)
	}); err != nil {
		log.Fatalf("❌ 定时刷新注册失败: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	go func() {
		fmt.Printf("🚀 服务启动，端口 %s，用户 %s\n", cfg.Port, cfg.Username)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("❌ HTTP 服务启动失败: %v", err)
		}
	}()

	// 优雅关闭
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	fmt.Println("\n👋 收到停止信号，正在退出...")
	if err := app.Shutdown(); err != nil {
		log.Printf("⚠️ HTTP 服务关闭出错: %v", err)
	}
}

// runFetch 单次模式：跑完一个采集周期，把结果打印出来
func runFetch(cfg *config.Config, engine *service.Engine) {
	fmt.Printf("📥 正在抓取用户 %s 的仓库列表...\n", cfg.Username)

	state, updates := engine.LoadProjects(context.Background(), cfg.Username)
	if !state.Loading {
		fmt.Printf("💾 缓存命中，先展示 %d 个项目\n", len(state.Projects))
	}

	// 消费到周期结束，最后一个快照就是最终列表
	final := state
	for st := range updates {
		final = st
	}

	if final.Err != nil {
		fmt.Printf("❌ %s\n", common.MessageOf(final.Err))
		return
	}

	fmt.Printf("✅ 共 %d 个项目:\n", len(final.Projects))
	for _, p := range final.Projects {
		marker := " "
		if p.Image != domain.FallbackImage(cfg.Username, p.Name) {
			marker = "🖼"
		}
		fmt.Printf("  %s %-30s ⭐%-5d %s\n", marker, p.Name, p.Stars, p.Summary)
	}
}
