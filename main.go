package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "hoops_signup/docs"
	"hoops_signup/internal/auth"
	"hoops_signup/internal/config"
	"hoops_signup/internal/handlers"
	"hoops_signup/internal/logger"
	"hoops_signup/internal/notify"
	"hoops_signup/internal/ratelimit"
	"hoops_signup/internal/roster"
	"hoops_signup/internal/schedules"
	"hoops_signup/internal/signups"
	"hoops_signup/internal/storage"
	"hoops_signup/internal/store"
	"hoops_signup/internal/tasks"
	"hoops_signup/internal/ws"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// @Title						Pickup basketball signups
// @securityDefinitions.apikey	BearerAuth
// @in							header
// @name						Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config: ", err)
	}

	lg, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatal("logger: ", err)
	}
	defer lg.Sync()

	if cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.EphemeralSecrets {
		lg.Warn("JWT secrets not set, using random ones; tokens will not survive a restart")
	}

	db, err := storage.ConnectDatabase(cfg, lg)
	if err != nil {
		lg.Fatal("database connection failed", zap.Error(err))
	}
	if err := storage.Migrate(db); err != nil {
		lg.Fatal("migration failed", zap.Error(err))
	}
	rdb := storage.InitRedis(cfg, lg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st := store.New(db)

	var mailer notify.Notifier = notify.NewLog(lg)
	if cfg.ResendAPIKey != "" {
		mailer = notify.NewResend(cfg.ResendAPIKey, cfg.ResendFrom, lg)
	} else {
		lg.Warn("RESEND_API_KEY not set, emails are only logged")
	}
	mailer = notify.NewAsync(mailer, lg)

	hub := ws.NewHub(lg)
	go hub.Run(ctx)

	rosterSvc := roster.NewService(st, lg)
	signupSvc := signups.NewService(st, rosterSvc, mailer, hub, cfg.SiteName, lg)
	scheduleSvc := schedules.NewService(st, lg)

	scheduler, err := tasks.InitScheduler(tasks.NewPlanner(scheduleSvc, st, lg))
	if err != nil {
		lg.Fatal("cron scheduler failed", zap.Error(err))
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.CORSOrigins) == 1 && cfg.CORSOrigins[0] == "*" {
		corsCfg.AllowOriginFunc = func(string) bool { return true }
	} else {
		corsCfg.AllowOrigins = cfg.CORSOrigins
	}

	r := handlers.NewRouter(handlers.Deps{
		Store:       st,
		Signups:     signupSvc,
		Schedules:   scheduleSvc,
		Tokens:      auth.NewTokens(cfg.JWTAccessSecret, cfg.JWTRefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL),
		Notifier:    mailer,
		Limiter:     ratelimit.New(rdb, "password-reset", cfg.ResetRequestsPerHour, time.Hour),
		Hub:         hub,
		Log:         lg,
		AdminEmails: cfg.AdminEmails,
		SiteName:    cfg.SiteName,
		BaseURL:     cfg.BaseURL,
		Middleware:  []gin.HandlerFunc{cors.New(corsCfg)},
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		lg.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Fatal("http server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	lg.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		lg.Error("http shutdown", zap.Error(err))
	}
	<-scheduler.Stop().Done()
	if rdb != nil {
		_ = rdb.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
