package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/gin-blog/pkg/logger"
)

func (h *Handler) About(c *gin.Context) {
	h.render(c, http.StatusOK, "about.html", gin.H{"Title": "About"})
}

func (h *Handler) Contact(c *gin.Context) {
	h.render(c, http.StatusOK, "contact.html", gin.H{"Title": "Contact"})
}

// Pinger 健康检查依赖，*sql.DB 满足该接口
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Health 存活探针：数据库可达即返回 200
func Health(db Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			logger.Error("health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
