package middleware

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/gin-blog/internal/model"
	"github.com/d60-Lab/gin-blog/internal/service"
	"github.com/d60-Lab/gin-blog/internal/session"
	"github.com/d60-Lab/gin-blog/pkg/logger"
	"github.com/d60-Lab/gin-blog/pkg/response"
)

const (
	identityKey = "identity"
	userKey     = "current_user"
)

// UserLoader 按 ID 加载当前用户
type UserLoader interface {
	GetUser(ctx context.Context, id uint) (*model.User, error)
}

// Session 解析会话 Cookie，把身份放进请求上下文；匿名请求照常放行
func Session(m *session.Manager, users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := m.Resolve(c.Request)
		if err != nil {
			response.InternalError(c, err)
			return
		}

		var user *model.User
		if id.Authenticated() {
			user, err = users.GetUser(c.Request.Context(), id.UserID)
			switch {
			case errors.Is(err, service.ErrUserNotFound):
				// 用户已被删除，按匿名处理
				logger.Warn("session refers to missing user", zap.Uint("user_id", id.UserID))
				id, user = nil, nil
			case err != nil:
				response.InternalError(c, err)
				return
			}
		} else {
			id = nil
		}

		if id != nil {
			c.Set(identityKey, id)
			c.Set(userKey, user)
		}
		c.Set(response.LayoutKey, gin.H{
			"CurrentUser": user,
			"IsAdmin":     session.IsAdmin(id),
		})
		c.Next()
	}
}

// RequireAdmin 非管理员一律 403，先于任何数据访问执行
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := CurrentIdentity(c)
		if !session.IsAdmin(id) {
			response.Forbidden(c)
			return
		}
		c.Next()
	}
}

// CurrentIdentity 当前请求的已登录身份
func CurrentIdentity(c *gin.Context) (*session.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil, false
	}
	id, ok := v.(*session.Identity)
	return id, ok && id.Authenticated()
}

// CurrentUser 当前登录用户，匿名时为 nil
func CurrentUser(c *gin.Context) *model.User {
	if v, ok := c.Get(userKey); ok {
		if u, ok := v.(*model.User); ok {
			return u
		}
	}
	return nil
}
