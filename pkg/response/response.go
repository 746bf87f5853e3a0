package response

import (
	"net/http"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/gin-blog/pkg/logger"
)

// LayoutKey 中间件写入的公共页面数据（当前用户等）
const LayoutKey = "layout"

// ErrorTemplate 错误页模板名
const ErrorTemplate = "error.html"

// HTML 渲染模板并合并公共页面数据
func HTML(c *gin.Context, status int, name string, data gin.H) {
	c.HTML(status, name, WithLayout(c, data))
}

// WithLayout 将公共页面数据合并进 data（data 中已有的键优先）
func WithLayout(c *gin.Context, data gin.H) gin.H {
	out := gin.H{}
	if v, ok := c.Get(LayoutKey); ok {
		if layout, ok := v.(gin.H); ok {
			for k, val := range layout {
				out[k] = val
			}
		}
	}
	for k, v := range data {
		out[k] = v
	}
	return out
}

func abortWithPage(c *gin.Context, status int, message string) {
	HTML(c, status, ErrorTemplate, gin.H{
		"Status":  status,
		"Title":   http.StatusText(status),
		"Message": message,
	})
	c.Abort()
}

func BadRequest(c *gin.Context, message string) {
	abortWithPage(c, http.StatusBadRequest, message)
}

// Forbidden 非管理员访问管理操作
func Forbidden(c *gin.Context) {
	abortWithPage(c, http.StatusForbidden, "You don't have permission to access this page.")
}

func NotFound(c *gin.Context) {
	abortWithPage(c, http.StatusNotFound, "The requested page could not be found.")
}

// InternalError 记录错误并上报 Sentry，不向用户暴露细节
func InternalError(c *gin.Context, err error) {
	logger.Error("request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	)
	if hub := sentrygin.GetHubFromContext(c); hub != nil {
		hub.CaptureException(err)
	} else if sentry.CurrentHub().Client() != nil {
		sentry.CaptureException(err)
	}
	_ = c.Error(err)
	abortWithPage(c, http.StatusInternalServerError, "Something went wrong. Please try again later.")
}
