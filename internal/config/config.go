package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"portfolio-projects/internal/domain"

	"github.com/spf13/viper"
)

// Config 汇总运行所需的全部配置
type Config struct {
	Username     string // GitHub 用户名，留空时从 ProfileURL 推导
	ProfileURL   string // 个人主页在简历里配置的 GitHub 链接
	Token        string // 可选的 GitHub Token，匿名模式完全可用
	CachePath    string // SQLite 缓存文件位置
	Port         string // HTTP 服务端口
	FeaturedFile string // 精选项目 JSON 文件
	RefreshSpec  string // 定时刷新的 cron 表达式
	Workers      int    // README 抓取并发数
}

// Load 读取配置：默认值 < 可选的 config.yaml < 环境变量
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("github.username", "")
	v.SetDefault("github.profile_url", "")
	v.SetDefault("cache.path", "portfolio-cache.db")
	v.SetDefault("server.port", "8080")
	v.SetDefault("projects.featured_file", "featured.json")
	v.SetDefault("refresh.spec", "@every 30m")
	v.SetDefault("readme.workers", 3)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		// 配置文件是可选的，没有就全靠默认值和环境变量
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
	}

	v.BindEnv("github.token", "GITHUB_TOKEN")
	v.BindEnv("github.username", "GITHUB_USERNAME")
	v.BindEnv("server.port", "PORT")

	cfg := &Config{
		Username:     v.GetString("github.username"),
		ProfileURL:   v.GetString("github.profile_url"),
		Token:        v.GetString("github.token"),
		CachePath:    v.GetString("cache.path"),
		Port:         v.GetString("server.port"),
		FeaturedFile: v.GetString("projects.featured_file"),
		RefreshSpec:  v.GetString("refresh.spec"),
		Workers:      v.GetInt("readme.workers"),
	}

	if cfg.Username == "" {
		cfg.Username = UsernameFromProfileURL(cfg.ProfileURL)
	}

	return cfg, nil
}

// UsernameFromProfileURL 从 GitHub 主页链接里抠出用户名
// 例如 https://github.com/alice/ → alice；不是 GitHub 链接时返回空串
func UsernameFromProfileURL(profileURL string) string {
	_, after, found := strings.Cut(profileURL, "github.com/")
	if !found {
		return ""
	}
	name, _, _ := strings.Cut(strings.TrimLeft(after, "/"), "/")
	return name
}

// LoadFeatured 读取手工维护的精选项目列表
// 路径为空返回空列表；文件里就是 Project 的 JSON 数组
func LoadFeatured(path string) ([]*domain.Project, error) {
	if path == "" {
		return nil, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("读取精选项目文件失败: %w", err)
	}

	var projects []*domain.Project
	if err := json.Unmarshal(raw, &projects); err != nil {
		return nil, fmt.Errorf("解析精选项目文件失败: %w", err)
	}
	return projects, nil
}
