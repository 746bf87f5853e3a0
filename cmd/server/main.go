package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/d60-Lab/gin-blog/config"
	"github.com/d60-Lab/gin-blog/internal/api"
	"github.com/d60-Lab/gin-blog/internal/api/handler"
	"github.com/d60-Lab/gin-blog/internal/model"
	"github.com/d60-Lab/gin-blog/internal/repository"
	"github.com/d60-Lab/gin-blog/internal/service"
	"github.com/d60-Lab/gin-blog/internal/session"
	"github.com/d60-Lab/gin-blog/pkg/database"
	"github.com/d60-Lab/gin-blog/pkg/logger"
	"github.com/d60-Lab/gin-blog/pkg/password"
	"github.com/d60-Lab/gin-blog/pkg/tracing"
	"github.com/d60-Lab/gin-blog/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	if err := run(cfg); err != nil {
		logger.Error("server exited", zap.Error(err))
		logger.Sync()
		log.Fatal(err)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gin.SetMode(cfg.Server.Mode)

	sentryOn := cfg.Sentry.DSN != ""
	if sentryOn {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.Sentry.Environment,
			SampleRate:  cfg.Sentry.SampleRate,
		}); err != nil {
			return err
		}
		defer sentry.Flush(2 * time.Second)
	}

	shutdownTracing, err := tracing.Init(ctx, cfg.Tracing)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			logger.Warn("shutdown tracing", zap.Error(err))
		}
	}()

	db, err := database.InitDB(cfg)
	if err != nil {
		return err
	}
	defer database.Close(db)
	if err := database.Migrate(db, model.All()...); err != nil {
		return err
	}

	store, closeStore, err := newSessionStore(ctx, cfg, db)
	if err != nil {
		return err
	}
	defer closeStore()

	hasher := password.NewHasher(password.Params{
		N:          cfg.Password.N,
		R:          cfg.Password.R,
		P:          cfg.Password.P,
		SaltLength: cfg.Password.SaltLength,
	})

	posts := repository.NewPostRepository(db)
	authService := service.NewAuthService(repository.NewUserRepository(db), hasher)
	postService := service.NewPostService(posts)
	commentService := service.NewCommentService(repository.NewCommentRepository(db), posts)
	sessions := session.NewManager(cfg.App.SecretKey, store, session.Options{
		CookieName: cfg.Session.CookieName,
		TTL:        cfg.Session.TTL,
		Secure:     cfg.Session.Secure,
	})

	tmpl, err := web.Templates()
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	opts := api.Options{
		Handler:   handler.NewHandler(authService, postService, commentService, sessions),
		Sessions:  sessions,
		Users:     authService,
		DB:        sqlDB,
		Templates: tmpl,
		Sentry:    sentryOn,
		Metrics:   cfg.Metrics.Enabled,
	}
	if cfg.Tracing.Enabled {
		opts.TracingService = cfg.Tracing.ServiceName
	}

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      api.NewRouter(opts),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server started", zap.String("addr", srv.Addr), zap.String("session_store", cfg.Session.Store))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(sctx)
}

// newSessionStore 按配置选择会话存储；数据库存储在启动时清理过期会话
func newSessionStore(ctx context.Context, cfg *config.Config, db *gorm.DB) (session.Store, func(), error) {
	switch cfg.Session.Store {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, err
		}
		return session.NewRedisStore(client), func() { _ = client.Close() }, nil
	default:
		store := session.NewDatabaseStore(repository.NewSessionRepository(db))
		n, err := store.Cleanup(ctx)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("expired sessions removed", zap.Int64("count", n))
		return store, func() {}, nil
	}
}
