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
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/jmehta/storefront/internal/config"
	"github.com/jmehta/storefront/internal/es"
	"github.com/jmehta/storefront/internal/events"
	"github.com/jmehta/storefront/internal/handlers"
	"github.com/jmehta/storefront/internal/httpserver"
	"github.com/jmehta/storefront/internal/logging"
	"github.com/jmehta/storefront/internal/middleware"
	"github.com/jmehta/storefront/internal/repo"
	"github.com/jmehta/storefront/internal/search"
	"github.com/jmehta/storefront/internal/service"
	"github.com/jmehta/storefront/internal/upload"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LogLevel)

	db, err := config.InitDB(configuration)
	if err != nil {
		log.Fatalf("database init error: %v", err)
	}

	uploads, err := upload.NewStore(configuration.UploadDir)
	if err != nil {
		log.Fatalf("upload dir error: %v", err)
	}

	producer := events.NewProducer(configuration.KafkaBrokers)

	var indexer *search.Indexer
	if configuration.ESURL != "" {
		esClient, err := es.NewClient(configuration)
		if err != nil {
			log.Fatalf("elasticsearch init error: %v", err)
		}
		indexer = search.NewIndexer(esClient)
	}

	store := repo.New(db)
	authSvc := &service.AuthService{
		Repo:      store,
		JWTSecret: configuration.JWTSecret,
		Producer:  producer,
	}
	catalogSvc := &service.CatalogService{
		Repo:     store,
		Uploads:  uploads,
		Producer: producer,
		Indexer:  indexer,
	}

	seedCtx := logging.IntoContext(context.Background(), logger)
	if err := authSvc.SeedAdmin(seedCtx, configuration.AdminUsername, configuration.AdminPassword); err != nil {
		log.Fatalf("admin seed error: %v", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover(), echomw.RequestID(), echomw.CORS())
	e.Use(middleware.RequestLogger(logger))

	deps := httpserver.Deps{
		AuthHandler:    &handlers.AuthHandler{Svc: authSvc},
		ProductHandler: &handlers.ProductHandler{Svc: catalogSvc},
		Guard:          middleware.NewGuard(configuration.JWTSecret),
		UploadDir:      configuration.UploadDir,
	}
	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", configuration.ServerPort),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()
	logger.Info("server started", "port", configuration.ServerPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	} else {
		log.Printf("db() error: %v", err)
	}

	if err := producer.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	logger.Info("shutdown complete")
}
