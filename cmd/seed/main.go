// seed 初始化管理员账号并写入示例文章
//
//	ADMIN_EMAIL=admin@example.com ADMIN_PASSWORD=secret N=5 go run ./cmd/seed
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"go.uber.org/zap"

	"github.com/d60-Lab/gin-blog/config"
	"github.com/d60-Lab/gin-blog/internal/model"
	"github.com/d60-Lab/gin-blog/internal/repository"
	"github.com/d60-Lab/gin-blog/internal/service"
	"github.com/d60-Lab/gin-blog/pkg/database"
	"github.com/d60-Lab/gin-blog/pkg/logger"
	"github.com/d60-Lab/gin-blog/pkg/password"
)

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func main() {
	cfg := must(config.Load())
	if err := logger.Init(cfg.Log.Level, "console"); err != nil {
		panic(err)
	}
	defer logger.Sync()

	db := must(database.InitDB(cfg))
	defer database.Close(db)
	if err := database.Migrate(db, model.All()...); err != nil {
		panic(err)
	}

	N := 3
	if s := os.Getenv("N"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n >= 0 {
			N = n
		}
	}

	ctx := context.Background()
	users := repository.NewUserRepository(db)
	hasher := password.NewHasher(password.Params{
		N: cfg.Password.N, R: cfg.Password.R, P: cfg.Password.P, SaltLength: cfg.Password.SaltLength,
	})
	auth := service.NewAuthService(users, hasher)
	posts := service.NewPostService(repository.NewPostRepository(db))

	// 第一个注册的账号即管理员，库里已有用户时不再创建
	if must(users.Count(ctx)) == 0 {
		admin := must(auth.Register(ctx, service.RegisterInput{
			Email:    env("ADMIN_EMAIL", "admin@example.com"),
			Password: env("ADMIN_PASSWORD", "admin"),
			Name:     env("ADMIN_NAME", "Admin"),
		}))
		logger.Info("admin created", zap.Uint("user_id", admin.ID), zap.String("email", admin.Email))
	}

	created := 0
	for i := 1; i <= N; i++ {
		_, err := posts.Create(ctx, 1, service.PostInput{
			Title:    fmt.Sprintf("Sample post #%d", i),
			Subtitle: "Seeded content",
			Body:     fmt.Sprintf("<p>This is sample post number %d.</p>", i),
			ImgURL:   fmt.Sprintf("https://picsum.photos/seed/%d/1200/600", i),
		})
		if errors.Is(err, service.ErrTitleTaken) {
			continue
		}
		if err != nil {
			panic(err)
		}
		created++
	}
	logger.Info("seed finished", zap.Int("posts_created", created))
}
