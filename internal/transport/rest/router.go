package rest

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"github.com/LuiggiAmaralX/STAR-QUIZ/internal/game"
	"github.com/LuiggiAmaralX/STAR-QUIZ/internal/service"
	"github.com/LuiggiAmaralX/STAR-QUIZ/internal/stats"
	"github.com/LuiggiAmaralX/STAR-QUIZ/internal/store"
	"github.com/LuiggiAmaralX/STAR-QUIZ/internal/transport/rest/handler"
	"github.com/LuiggiAmaralX/STAR-QUIZ/internal/transport/rest/middleware"
	"github.com/LuiggiAmaralX/STAR-QUIZ/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService *service.AuthService
	Lobby       *game.Lobby
	Store       store.Client
	StatsRepo   stats.Repo
	WSHandler   *ws.Handler
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	authHandler := handler.NewAuthHandler(c.AuthService)
	roomHandler := handler.NewRoomHandler(c.Lobby, c.Store)

	authMW := middleware.NewAuthMiddleware(c.AuthService)

	r.Use(corsMiddleware)

	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")
	v1.HandleFunc("/rooms/{code}", roomHandler.Get).Methods("GET", "OPTIONS")

	if c.StatsRepo != nil {
		statsHandler := handler.NewStatsHandler(c.StatsRepo)
		v1.HandleFunc("/stats/{nickname}", statsHandler.Get).Methods("GET", "OPTIONS")
		v1.HandleFunc("/stats/{nickname}/history", statsHandler.History).Methods("GET", "OPTIONS")
	}

	// WebSocket route (token in query param)
	v1.HandleFunc("/ws/rooms/{code}", c.WSHandler.GameWS).Methods("GET")

	// Player routes (require player auth)
	playerRoutes := v1.NewRoute().Subrouter()
	playerRoutes.Use(authMW.RequirePlayer)
	playerRoutes.HandleFunc("/rooms", roomHandler.Create).Methods("POST", "OPTIONS")
	playerRoutes.HandleFunc("/rooms/{code}/join", roomHandler.Join).Methods("POST", "OPTIONS")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
