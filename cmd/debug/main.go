package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"portfolio-projects/internal/adapter/github"
	"portfolio-projects/internal/adapter/readme"
)

// 调试工具：抓一个仓库的 README，打印提取出的图片和描述
// 用来核对提取规则在真实 README 上的表现
func main() {
	owner := flag.String("owner", "", "仓库拥有者")
	repo := flag.String("repo", "", "仓库名")
	flag.Parse()

	if *owner == "" || *repo == "" {
		fmt.Println("用法: debug -owner=<usuario> -repo=<repositorio>")
		os.Exit(1)
	}

	githubToken := os.Getenv("GITHUB_TOKEN")
	fetcher := github.NewFetcher(githubToken)

	fmt.Printf("🔍 调试模式：抓取 %s/%s 的 README\n", *owner, *repo)

	text, err := fetcher.FetchReadme(context.Background(), *owner, *repo)
	if err != nil {
		fmt.Printf("❌ README 抓取失败: %v\n", err)
		return
	}
	if text == "" {
		fmt.Println("📭 这个仓库没有 README")
		return
	}

	repoURL := fmt.Sprintf("https://github.com/%s/%s", *owner, *repo)
	image := readme.ExtractImage(text, repoURL)
	description := readme.ExtractDescription(text)

	fmt.Printf("✅ README 长度: %d 字符\n", len([]rune(text)))
	if image != "" {
		fmt.Printf("🖼 提取到图片: %s\n", image)
	} else {
		fmt.Println("🖼 没有提取到图片，会使用社交预览图兜底")
	}
	if description != "" {
		fmt.Printf("📝 提取到描述: %s\n", description)
	} else {
		fmt.Println("📝 没有提取到描述，会回退到平台描述或占位文案")
	}
}
