package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/dathuynh/watch-store-api/internal/config"
	"github.com/dathuynh/watch-store-api/internal/es"
	"github.com/dathuynh/watch-store-api/internal/events"
	"github.com/dathuynh/watch-store-api/internal/httpserver"
	"github.com/dathuynh/watch-store-api/internal/logging"
	"github.com/dathuynh/watch-store-api/internal/mailer"
	"github.com/dathuynh/watch-store-api/internal/oauth"
	"github.com/dathuynh/watch-store-api/internal/repo"
	"github.com/dathuynh/watch-store-api/internal/service"
	"github.com/dathuynh/watch-store-api/internal/uploader"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)

	config.MustNonEmpty(cfg.DBHost, "DB_HOST")
	config.MustNonEmpty(cfg.DBName, "DB_NAME")
	config.MustNonEmptyBytes(cfg.JWTSecret, "JWT_SECRET")
	config.MustNonEmptyBytes(cfg.RefreshSecret, "REFRESH_SECRET")

	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}
	store := repo.New(db)

	producer := events.NewProducer(cfg.KafkaBrokers)
	if producer == nil {
		logger.Warn("kafka brokers not configured, events disabled")
	}

	var searchSvc *service.SearchService
	var indexer *service.ProductIndexer
	if cfg.ESURL != "" {
		esClient, err := es.NewClient(cfg)
		if err != nil {
			log.Fatalf("elasticsearch init: %v", err)
		}
		searchSvc = &service.SearchService{Client: esClient}
		indexer = service.NewProductIndexer(esClient)
	} else {
		logger.Warn("elasticsearch not configured, search disabled")
		searchSvc = &service.SearchService{}
	}

	var upl uploader.Uploader
	if cfg.CloudinaryName != "" {
		cld, err := uploader.NewCloudinary(cfg.CloudinaryName, cfg.CloudinaryKey, cfg.CloudinarySecret)
		if err != nil {
			log.Fatalf("cloudinary init: %v", err)
		}
		upl = cld
	} else {
		logger.Warn("cloudinary not configured, image uploads disabled")
	}

	var google *oauth.GoogleClient
	if cfg.GoogleClientID != "" {
		google = oauth.NewGoogle(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL)
	} else {
		logger.Warn("google oauth not configured")
	}

	smtp := mailer.NewSMTP(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.MailFrom)

	deps := httpserver.Deps{
		Auth: &service.AuthService{
			Repo:          store,
			JWTSecret:     cfg.JWTSecret,
			RefreshSecret: cfg.RefreshSecret,
			Mailer:        smtp,
			Google:        google,
			Events:        producer,
		},
		Catalog: &service.CatalogService{
			Repo:     store,
			Uploader: upl,
			Indexer:  indexer,
			Events:   producer,
		},
		Cart:        &service.CartService{Repo: store},
		Orders:      &service.OrderService{Repo: store, Events: producer},
		Search:      searchSvc,
		JWTSecret:   cfg.JWTSecret,
		FrontendURL: cfg.FrontendURL,
	}

	e := echo.New()
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := logging.IntoContext(c.Request().Context(), logger)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	})

	httpserver.Register(e, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		logger.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown", "error", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Error("db close", "error", err)
		}
	}
	if err := producer.Close(); err != nil {
		logger.Error("kafka close", "error", err)
	}

	logger.Info("shutdown complete")
}
