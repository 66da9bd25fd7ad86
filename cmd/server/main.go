package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"courtier_backend/internal/app/di"
	"courtier_backend/internal/app/router"
	authhandler "courtier_backend/internal/feature/auth/transport/handler"
	authusecase "courtier_backend/internal/feature/auth/usecase"
	chatbothandler "courtier_backend/internal/feature/chatbot/transport/handler"
	chatbotusecase "courtier_backend/internal/feature/chatbot/usecase"
	leadentity "courtier_backend/internal/feature/lead/domain/entity"
	leadhandler "courtier_backend/internal/feature/lead/transport/handler"
	leadusecase "courtier_backend/internal/feature/lead/usecase"
	useradapters "courtier_backend/internal/feature/user/adapters"
	userentity "courtier_backend/internal/feature/user/domain/entity"
	userhandler "courtier_backend/internal/feature/user/transport/handler"
	userusecase "courtier_backend/internal/feature/user/usecase"
	"courtier_backend/internal/platform/config"
	platformdb "courtier_backend/internal/platform/db"
	"courtier_backend/internal/platform/http/handler"
	jwtmw "courtier_backend/internal/platform/jwt"
	"courtier_backend/internal/platform/logging"
	platformredis "courtier_backend/internal/platform/redis"
	"courtier_backend/internal/platform/storage"
	"courtier_backend/internal/shared/ratelimiter"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logging.Setup(cfg.App.LogFormat, os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// db
	db, err := platformdb.OpenDB(cfg.DB, &userentity.User{}, &leadentity.Lead{})
	if err != nil {
		return err
	}
	checks := []handler.Check{{
		Name: "db",
		Ping: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}}

	// Redis
	var rdb *redisv9.Client
	if tmp, err := platformredis.NewRedisClient(ctx, cfg.Redis); err != nil {
		slog.Warn("Redis unavailable. Running without cache.", "error", err)
	} else if tmp != nil {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				slog.Error("failed to close Redis client", "error", err)
			}
		}()
		checks = append(checks, handler.Check{
			Name: "redis",
			Ping: func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		})
	}

	// 外部サービス
	mailer, err := di.NewMailer(cfg.Mail)
	if err != nil {
		return err
	}
	uploader, err := storage.NewS3Uploader(ctx, cfg.S3)
	if err != nil {
		return err
	}
	chatProvider, err := di.NewChatProvider(ctx, cfg.Chat)
	if err != nil {
		return err
	}
	tokens := jwtmw.NewGenerator(cfg.JWT.Secret, cfg.JWT.ExpiresIn, cfg.JWT.ResetExpiresIn)

	// Repository
	userRepo := useradapters.NewUserRepository(db)
	leadRepo, leadCache := di.NewLeadRepository(rdb, db, cfg.Redis.TTL)

	// Usecase
	authUC := authusecase.NewAuthUsecase(userRepo, tokens, mailer, cfg.App.ResetPasswordURL)
	userUC := userusecase.NewUserUsecase(userRepo, leadRepo, leadCache, mailer, cfg.Mail.User)
	leadUC := leadusecase.NewLeadUsecase(leadRepo, userRepo, uploader)
	chatbotUC, err := chatbotusecase.NewChatbotUsecase(chatProvider, ratelimiter.NewRateLimiter(cfg.Chat.RatePerMin, time.Minute))
	if err != nil {
		return err
	}

	// ルータ生成
	r := router.NewRouter(router.Handlers{
		Auth:    authhandler.NewAuthHandler(authUC),
		User:    userhandler.NewUserHandler(userUC),
		Lead:    leadhandler.NewLeadHandler(leadUC),
		Chatbot: chatbothandler.NewChatbotHandler(chatbotUC),
	}, router.Guard{Tokens: tokens, Users: userRepo}, checks...)

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", srv.Addr)
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

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
