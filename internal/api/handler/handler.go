package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/gin-blog/internal/service"
	"github.com/d60-Lab/gin-blog/internal/session"
	"github.com/d60-Lab/gin-blog/pkg/response"
)

// Handler 页面处理器
type Handler struct {
	authService    service.AuthService
	postService    service.PostService
	commentService service.CommentService
	sessions       *session.Manager
}

func NewHandler(
	authService service.AuthService,
	postService service.PostService,
	commentService service.CommentService,
	sessions *session.Manager,
) *Handler {
	setupValidator()
	return &Handler{
		authService:    authService,
		postService:    postService,
		commentService: commentService,
		sessions:       sessions,
	}
}

// render 渲染页面，附带待显示的 flash 消息
func (h *Handler) render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	if _, ok := data["Errors"]; !ok {
		data["Errors"] = fieldErrors{}
	}
	data["Flashes"] = h.sessions.PopFlashes(c.Writer, c.Request)
	response.HTML(c, status, name, data)
}

func (h *Handler) redirect(c *gin.Context, location string, flashes ...string) {
	if len(flashes) > 0 {
		h.sessions.Flash(c.Writer, flashes...)
	}
	c.Redirect(http.StatusFound, location)
}

// pathID 解析路径中的 ID；非法 ID 按不存在处理
func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.NotFound(c)
		return 0, false
	}
	return uint(id), true
}
