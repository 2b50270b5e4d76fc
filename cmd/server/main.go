package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/LuiggiAmaralX/STAR-QUIZ/config"
	"github.com/LuiggiAmaralX/STAR-QUIZ/internal/catalog"
	"github.com/LuiggiAmaralX/STAR-QUIZ/internal/game"
	"github.com/LuiggiAmaralX/STAR-QUIZ/internal/question"
	"github.com/LuiggiAmaralX/STAR-QUIZ/internal/service"
	"github.com/LuiggiAmaralX/STAR-QUIZ/internal/stats"
	"github.com/LuiggiAmaralX/STAR-QUIZ/internal/store"
	"github.com/LuiggiAmaralX/STAR-QUIZ/internal/transport/rest"
	"github.com/LuiggiAmaralX/STAR-QUIZ/internal/transport/ws"
)

func main() {
	log.Println("started")
	ctx := context.Background()
	cfg := config.Load()

	var st store.Client
	switch cfg.Store {
	case "memory":
		st = store.NewMemoryStore()
		log.Println("Using in-memory document store")
	default:
		rdb := redis.NewClient(&redis.Options{
			Addr: strings.TrimPrefix(cfg.RedisURI, "redis://"),
		})
		defer rdb.Close()
		if _, err := rdb.Ping(ctx).Result(); err != nil {
			log.Fatal("Failed to ping Redis:", err)
		}
		log.Println("Connected to Redis")
		st = store.NewRedisStore(rdb)
	}

	// MongoDB backs the match archive and, optionally, the question catalog
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer mongoClient.Disconnect(ctx)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		log.Fatal("Failed to ping MongoDB:", err)
	}
	log.Println("Connected to MongoDB")
	db := mongoClient.Database(cfg.MongoDB)

	var src question.Source
	switch cfg.Source {
	case "sampled":
		var cat catalog.Catalog
		if cfg.Catalog == "mongo" {
			cat = catalog.NewMongoCatalog(db)
		} else {
			cat = catalog.NewStoreCatalog(st)
		}
		src = question.NewSampledSource(cat)
		log.Printf("Question source: sampled (catalog=%s, match size=%d)", cfg.Catalog, cfg.MatchSize)
	default:
		src = question.NewStaticSource()
		log.Println("Question source: static")
	}

	statsRepo := stats.NewRepo(db)
	tracker := stats.NewTracker(statsRepo)

	authSvc := service.NewAuthService()
	lobby := game.NewLobby(st)

	wsHub := ws.NewHub()
	wsHandler := ws.NewHandler(wsHub, authSvc, st, src, cfg.MatchSize, tracker)

	container := &rest.Container{
		AuthService: authSvc,
		Lobby:       lobby,
		Store:       st,
		StatsRepo:   statsRepo,
		WSHandler:   wsHandler,
	}
	router := rest.NewRouter(container)

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.HTTPPort)
		log.Println("Endpoints:")
		log.Println("  POST /v1/auth/login")
		log.Println("  POST /v1/rooms")
		log.Println("  POST /v1/rooms/{code}/join")
		log.Println("  GET  /v1/rooms/{code}")
		log.Println("  GET  /v1/stats/{nickname}")
		log.Println("  WS   /v1/ws/rooms/{code}")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ListenAndServe:", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	wsHub.Shutdown()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
