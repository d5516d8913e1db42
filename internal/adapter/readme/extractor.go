package readme

import (
	"regexp"
	"strings"
)

// 提取规则是一组顺序敏感的文本模式，不是 Markdown 解析器
// 规则的先后顺序是要保留的行为：图片先试 Markdown 语法再试 HTML；
// 描述先去主标题，再去徽章，再去图片，最后把链接折叠成可见文本
var (
	mdImageRe   = regexp.MustCompile(`!\[.*?\]\((.*?)\)`)
	htmlImageRe = regexp.MustCompile(`(?i)<img[^>]+src=["']([^"']+)["']`)
	headingRe   = regexp.MustCompile(`(?m)^#\s+.*$`)
	badgeLinkRe = regexp.MustCompile(`\[!\[.*?\]\(.*?\)\]\(.*?\)`)
	shieldsRe   = regexp.MustCompile(`!\[.*?\]\(https://img\.shields\.io.*?\)`)
	linkRe      = regexp.MustCompile(`\[([^\]]+)\]\([^\)]+\)`)
)

// maxDescription 描述截断长度，超出时加省略号
const maxDescription = 200

// ExtractImage 从 README 里找第一张图片
// 相对路径按默认分支 main 的 raw 地址补全；找不到返回空串
func ExtractImage(markdown, repoURL string) string {
	if markdown == "" {
		return ""
	}

	if m := mdImageRe.FindStringSubmatch(markdown); m != nil && m[1] != "" {
		return resolveImageURL(m[1], repoURL)
	}

	if m := htmlImageRe.FindStringSubmatch(markdown); m != nil && m[1] != "" {
		return resolveImageURL(m[1], repoURL)
	}

	return ""
}

// resolveImageURL 绝对地址原样返回，相对路径拼到仓库的 raw 内容地址下
// 默认分支不是 main 的仓库会得到一个坏链接，由渲染端降级成默认图
func resolveImageURL(imageURL, repoURL string) string {
	if strings.HasPrefix(imageURL, "http") {
		return imageURL
	}
	return repoURL + "/raw/main/" + strings.TrimPrefix(imageURL, "/")
}

// ExtractDescription 把 README 浓缩成一段项目描述
// 找不到像样的内容时返回空串，调用方继续走降级链
func ExtractDescription(markdown string) string {
	if markdown == "" {
		return ""
	}

	// 去掉第一个主标题 (# Título)
	content := markdown
	if loc := headingRe.FindStringIndex(content); loc != nil {
		content = content[:loc[0]] + content[loc[1]:]
	}

	// 去掉徽章: [![..](..)](..) 和 shields.io 图片
	content = badgeLinkRe.ReplaceAllString(content, "")
	content = shieldsRe.ReplaceAllString(content, "")

	// 去掉剩余图片
	content = mdImageRe.ReplaceAllString(content, "")

	// [texto](url) 折叠成 texto
	content = linkRe.ReplaceAllString(content, "$1")

	// 拼接足够长的普通行 (跳过标题和代码块围栏)
	var parts []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if len([]rune(line)) <= 20 {
			continue
		}
		if strings.HasPrefix(line, "#") || strings.HasPrefix(line, "```") {
			continue
		}
		parts = append(parts, line)
	}

	joined := strings.TrimSpace(strings.Join(parts, " "))
	runes := []rune(joined)
	if len(runes) > maxDescription {
		return string(runes[:maxDescription]) + "..."
	}
	return joined
}
