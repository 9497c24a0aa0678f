// This is the main entry point of the inkwell application.
// It is responsible for initializing configuration, the database pool and
// Redis cache, services, handlers, the HTTP router and middleware, and
// starting the HTTP server with graceful shutdown.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/user/inkwell-go/apperror"
	"github.com/user/inkwell-go/auth"
	"github.com/user/inkwell-go/cache"
	"github.com/user/inkwell-go/config"
	"github.com/user/inkwell-go/db"
	"github.com/user/inkwell-go/posts"
)

func main() {
	// .env is a development convenience; in production the variables are set
	// directly.
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading it: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pool, err := db.NewPool(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to create database pool: %v", err)
	}
	defer pool.Close()

	if err := db.EnableExtensions(pool); err != nil {
		log.Fatalf("Failed to enable extensions: %v", err)
	}

	if err := db.RunMigrations(cfg.Database, "./migrations"); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// The post cache is optional; without REDIS_ADDR every read goes to
	// Postgres directly.
	var postCache *cache.Cache
	if cfg.Cache.Addr != "" {
		postCache = cache.New(cfg.Cache.Addr, cfg.Cache.DB, cfg.Cache.TTL)
		defer postCache.Close()
		log.Printf("Post cache enabled at %s (ttl %s)", cfg.Cache.Addr, cfg.Cache.TTL)
	}

	// Services hold the business logic; handlers translate HTTP to service
	// calls. Dependencies are injected explicitly through constructors.
	authService := auth.NewAuthService(auth.NewUserStore(pool), cfg.Auth)
	authHandlers := auth.NewHandlers(authService)

	postService := posts.NewPostService(pool, postCache)
	postHandlers := posts.NewPostHandler(postService)

	r := chi.NewRouter()

	// Chi requires all middleware to be registered before any routes.
	r.Use(middleware.Logger)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Use(recoverJSON)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandlers.HandleRegister())
		r.Post("/login", authHandlers.HandleLogin())
	})

	r.Route("/posts", func(r chi.Router) {
		postHandlers.RegisterRoutes(r, cfg.Auth)
	})

	addr := fmt.Sprintf(":%s", cfg.Server.Port)

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}
	log.Println("Server stopped gracefully")
}

// recoverJSON is the panic guard: anything escaping a handler becomes a
// generic JSON 500 with no internal detail in the payload. It replaces chi's
// middleware.Recoverer, which writes a plain-text response.
func recoverJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		defer func() {
			if rvr := recover(); rvr != nil {
				log.Printf("Panic: %+v", rvr)
				writeError(ww, apperror.NewInternalError("Server error", nil))
			}
		}()
		next.ServeHTTP(ww, r)
	})
}

// writeError is a local helper for the panic recovery middleware, kept here
// to avoid pulling handler helpers into main.
func writeError(w http.ResponseWriter, appErr *apperror.AppError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.StatusCode())
	if err := json.NewEncoder(w).Encode(appErr.ToResponse()); err != nil {
		http.Error(w, `{"message":"Failed to encode error response"}`, http.StatusInternalServerError)
	}
}
