package main

import (
	"fmt"
	"log"
	"net/http"

	"gallery-backend/internal/config"
	"gallery-backend/internal/database"
	"gallery-backend/internal/handlers"
	"gallery-backend/internal/middleware"
	"gallery-backend/internal/services"
	"gallery-backend/internal/storage"

	"github.com/redis/go-redis/v9"
)

func main() {
	cfg := config.Load()

	db, err := database.Init(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer rdb.Close()

	store := storage.NewLocalStorage(cfg.UploadDir)

	sessions := services.NewSessionService(rdb, cfg.JWTSecret)
	authMiddleware := middleware.NewAuthMiddleware(sessions)
	authHandler := handlers.NewAuthHandler(db, sessions)
	imageHandler := handlers.NewImageHandler(db, store)

	router := http.NewServeMux()

	router.HandleFunc("POST /api/auth/register", authHandler.RegisterUser)
	router.HandleFunc("POST /api/auth/login", authHandler.LoginUser)

	router.Handle("POST /api/auth/logout", authMiddleware.RequireAuth(http.HandlerFunc(authHandler.LogoutUser)))
	router.Handle("GET /api/auth/me", authMiddleware.RequireAuth(http.HandlerFunc(authHandler.GetMe)))

	router.Handle("POST /api/images/upload", authMiddleware.RequireAuth(http.HandlerFunc(imageHandler.UploadImage)))
	router.Handle("GET /api/images", authMiddleware.RequireAuth(http.HandlerFunc(imageHandler.ListImages)))
	router.Handle("GET /api/images/{filename}", authMiddleware.RequireAuth(http.HandlerFunc(imageHandler.GetImage)))

	handler := corsMiddleware(cfg.CORSOrigin, router)

	addr := fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)
	fmt.Printf("Server starting on http://%s\n", addr)
	log.Fatal(http.ListenAndServe(addr, handler))
}

func corsMiddleware(origin string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Must be strict, because of http-only cookies, otherwise won't work
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Allow-Credentials", "true")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
