// Package web 内嵌的页面模板
package web

import (
	"embed"
	"html/template"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

// FuncMap 模板函数
var FuncMap = template.FuncMap{
	// 文章正文由管理员通过富文本编辑器提交，按 HTML 原样输出
	"safe": func(s string) template.HTML { return template.HTML(s) },
	"year": func() int { return time.Now().Year() },
}

// Templates 解析全部内嵌模板
func Templates() (*template.Template, error) {
	return template.New("").Funcs(FuncMap).ParseFS(templateFS, "templates/*.html")
}
