package main // Entry point package

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"docnest/internal/config"
	"docnest/internal/handler"
	"docnest/internal/middleware"
	"docnest/internal/queue"
	"docnest/internal/router"
	"docnest/internal/service"
	"docnest/internal/store"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env vars win
	cfg := config.Load()

	// Core stores. All state lives here; handlers only hold references.
	users := store.NewUserStore(cfg.BcryptCost)
	sessions := store.NewSessionStore(time.Duration(cfg.SessionTTLHours) * time.Hour)
	tree := store.NewTreeStore()
	index := store.NewSearchIndex(tree)

	// Optional collaborators. A nil Redis client disables caching and rate
	// limiting; an empty broker URL disables event publishing.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; cache and rate limiting disabled")
	}
	events := service.NewEventPublisher(cfg.BrokerURL)

	if cfg.ConsumeEvents {
		go func() {
			if err := queue.StartActivityConsumer(cfg.BrokerURL); err != nil {
				log.Printf("activity consumer stopped: %v", err)
			}
		}()
	}

	e := echo.New()
	router.Register(e, router.Deps{
		Auth:        handler.NewAuthHandler(users, sessions),
		Users:       handler.NewUserHandler(users),
		Docs:        handler.NewDocumentHandler(tree, events),
		Folders:     handler.NewFolderHandler(tree),
		Search:      handler.NewSearchHandler(index),
		SessionAuth: middleware.SessionAuth(users, sessions),
		Extra: []echo.MiddlewareFunc{
			middleware.RateLimit(config.LoadRateLimitConfig(), rdb),
			middleware.ResponseCache(config.LoadCacheConfig(), rdb),
		},
	})

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
