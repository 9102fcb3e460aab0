package main

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v3"

	"github.com/0ui-labs/smart-youtube-bookmarks-sub001/internal/config"
	"github.com/0ui-labs/smart-youtube-bookmarks-sub001/internal/db"
	"github.com/0ui-labs/smart-youtube-bookmarks-sub001/internal/handler"
	"github.com/0ui-labs/smart-youtube-bookmarks-sub001/internal/middleware"
	"github.com/0ui-labs/smart-youtube-bookmarks-sub001/internal/repository"
	"github.com/0ui-labs/smart-youtube-bookmarks-sub001/internal/router"
	"github.com/0ui-labs/smart-youtube-bookmarks-sub001/internal/service"
)

func main() {
	cfg := config.Load()

	middleware.InitLogger(cfg.LogLevel, "bookmarks-fields")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := db.EnsureSchema(ctx, pool); err != nil {
		log.Fatalf("failed to ensure database schema: %v", err)
	}

	cache := service.NewCacheService(cfg.RedisURL)
	defer cache.Close()

	fieldRepo := repository.NewFieldRepo(pool)
	schemaRepo := repository.NewSchemaRepo(pool)
	valueRepo := repository.NewValueRepo(pool)

	fieldSvc := service.NewFieldService(fieldRepo, cache)
	schemaSvc := service.NewSchemaService(schemaRepo)
	valueSvc := service.NewValueService(valueRepo, cache)

	handler.InitMetrics(pool)

	h := &router.Handlers{
		Field:  handler.NewFieldHandler(fieldSvc),
		Schema: handler.NewSchemaHandler(schemaSvc),
		Value:  handler.NewValueHandler(valueSvc),
		Stats:  handler.NewStatsHandler(fieldSvc),
		Health: handler.NewHealthHandler(pool, cache.Client()),
	}

	app := fiber.New(fiber.Config{
		AppName:      "Smart YouTube Bookmarks API",
		ServerHeader: "bookmarks",
	})

	router.Setup(app, h, cfg.CORSOrigins)

	// Drops cached per-video field views after composition changes.
	worker := service.NewInvalidationWorker(pool, cache)
	go worker.Start(ctx)

	log.Printf("custom-fields backend starting on :%s (env=%s)", cfg.Port, cfg.Environment)
	log.Fatal(app.Listen(":" + cfg.Port))
}
