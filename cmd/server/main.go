package main

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/example/rewardscan/internal/config"
	"github.com/example/rewardscan/internal/database"
	"github.com/example/rewardscan/internal/handlers"
	"github.com/example/rewardscan/internal/routes"
)

func main() {
	cfg := config.Load()
	setupLogging(cfg.LogLevel)

	db := database.Connect(cfg.DatabaseURL)

	rdb := connectRedis(cfg.RedisURL)

	app := fiber.New(fiber.Config{
		AppName:      "RewardScan Backend",
		ErrorHandler: handlers.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New())

	routes.Register(app, db, rdb, cfg)

	log.Infof("Starting server on :%s", cfg.AppPort)
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		log.WithError(err).Fatal("fiber.Listen error")
	}
}

func setupLogging(level string) {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	if parsed, err := log.ParseLevel(level); err == nil {
		log.SetLevel(parsed)
	}
}

func connectRedis(url string) *redis.Client {
	opts, err := redis.ParseURL(url)
	if err != nil {
		log.WithError(err).Fatal("invalid REDIS_URL")
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.WithError(err).Fatal("failed to connect to redis")
	}

	return client
}
