package utils

import (
	"errors"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
	"github.com/russross/blackfriday"
)

var (
	ErrEmptyContent = errors.New("内容不能为空")

	// ugcPolicy 允许常见排版标签，移除脚本与事件属性
	ugcPolicy = bluemonday.UGCPolicy()
)

// ConvertMarkdownToHTML 将 Markdown 内容转换为 HTML 并移除可能的恶意标签
func ConvertMarkdownToHTML(content string) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", ErrEmptyContent
	}
	unsafe := blackfriday.MarkdownCommon([]byte(content))
	return string(ugcPolicy.SanitizeBytes(unsafe)), nil
}

// SanitizeHTML 按 UGC 策略清洗 HTML
func SanitizeHTML(html string) string {
	return ugcPolicy.Sanitize(html)
}

// ConvertHTMLToMarkdown 将 HTML 内容转换回 Markdown 格式
func ConvertHTMLToMarkdown(htmlContent string) (string, error) {
	if strings.TrimSpace(htmlContent) == "" {
		return "", ErrEmptyContent
	}
	converter := md.NewConverter("", true, nil)
	return converter.ConvertString(htmlContent)
}

// HTMLToText 提取 HTML 中的纯文本并合并空白
func HTMLToText(htmlContent string) string {
	if !strings.Contains(htmlContent, "<") {
		return strings.Join(strings.Fields(htmlContent), " ")
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return strings.Join(strings.Fields(htmlContent), " ")
	}
	doc.Find("script,style").Remove()
	return strings.Join(strings.Fields(doc.Text()), " ")
}
