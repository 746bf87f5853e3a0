package api

import (
	"html/template"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/d60-Lab/gin-blog/internal/api/handler"
	"github.com/d60-Lab/gin-blog/internal/api/middleware"
	"github.com/d60-Lab/gin-blog/internal/session"
	"github.com/d60-Lab/gin-blog/pkg/metrics"
	"github.com/d60-Lab/gin-blog/pkg/response"
)

// Options 路由依赖
type Options struct {
	Handler   *handler.Handler
	Sessions  *session.Manager
	Users     middleware.UserLoader
	DB        handler.Pinger
	Templates *template.Template

	// Sentry 已初始化时挂载 sentrygin
	Sentry bool
	// TracingService 非空时挂载 otelgin
	TracingService string
	// Metrics 开启时统计请求并暴露 /metrics
	Metrics bool
}

func NewRouter(opts Options) *gin.Engine {
	r := gin.New()
	r.SetHTMLTemplate(opts.Templates)

	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	if opts.Metrics {
		r.Use(metrics.Middleware())
	}
	// gzip 包在 Recovery 外层，panic 时 500 页面经压缩写出
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))
	r.Use(middleware.Recovery())
	if opts.Sentry {
		r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	if opts.TracingService != "" {
		r.Use(otelgin.Middleware(opts.TracingService))
	}

	if opts.Metrics {
		r.GET("/metrics", gin.WrapH(metrics.Handler()))
	}
	r.GET("/healthz", handler.Health(opts.DB))

	h := opts.Handler
	sessionMW := middleware.Session(opts.Sessions, opts.Users)

	pages := r.Group("/", sessionMW)
	{
		pages.GET("/", h.Index)
		pages.GET("/register", h.RegisterPage)
		pages.POST("/register", h.Register)
		pages.GET("/login", h.LoginPage)
		pages.POST("/login", h.Login)
		pages.GET("/logout", h.Logout)
		pages.GET("/post/:id", h.ShowPost)
		pages.POST("/post/:id", h.AddComment)
		pages.GET("/about", h.About)
		pages.GET("/contact", h.Contact)
	}

	// 管理员操作：权限检查先于 404 判断
	admin := pages.Group("/", middleware.RequireAdmin())
	{
		admin.GET("/new-post", h.NewPostPage)
		admin.POST("/new-post", h.CreatePost)
		admin.GET("/edit-post/:id", h.EditPostPage)
		admin.POST("/edit-post/:id", h.UpdatePost)
		admin.GET("/delete/:id", h.DeletePost)
		admin.GET("/delete_comment/:id", h.DeleteComment)
	}

	r.NoRoute(sessionMW, response.NotFound)
	return r
}
