package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/taskvault/taskvault-go/internal/config"
	"github.com/taskvault/taskvault-go/internal/handler"
	"github.com/taskvault/taskvault-go/internal/middleware"
	"github.com/taskvault/taskvault-go/internal/repository"
	"github.com/taskvault/taskvault-go/internal/seed"
	"github.com/taskvault/taskvault-go/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg := config.Load()

	db, err := repository.NewDB(cfg.DatabaseDSN)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	if err := repository.EnsureSchema(ctx, db); err != nil {
		slog.Error("schema setup failed", "error", err)
		os.Exit(1)
	}

	userRepo := repository.NewUserRepository(db)
	todoRepo := repository.NewTodoRepository(db)

	if err := seed.New(userRepo, todoRepo).Run(ctx); err != nil {
		slog.Error("seeding failed", "error", err)
		os.Exit(1)
	}

	userService := service.NewUserService(userRepo, cfg.JWTSecret, cfg.JWTExpiry)
	todoService := service.NewTodoService(todoRepo)

	authHandler := handler.NewAuthHandler(userService)
	userHandler := handler.NewUserHandler(userService)
	todoHandler := handler.NewTodoHandler(todoService)

	r := chi.NewRouter()
	r.Use(middleware.CorrelationID)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(5, 10))
		r.Post("/auth/login", authHandler.HandleLogin)
		r.Post("/auth/register", authHandler.HandleRegister)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWTSecret, userRepo))

		r.Get("/auth/profile", authHandler.HandleProfile)

		r.Route("/user", func(r chi.Router) {
			r.Post("/", userHandler.HandleCreate)
			r.Get("/", userHandler.HandleFindAll)
			r.Get("/{id}", userHandler.HandleFindOne)
			r.Patch("/{id}/admin", userHandler.HandleUpdateAdmin)
			r.Patch("/{id}", userHandler.HandleUpdateAdmin)
			r.Put("/{id}", userHandler.HandleReplace)
			r.Delete("/{id}", userHandler.HandleRemove)
		})

		r.Route("/todo", func(r chi.Router) {
			r.Post("/", todoHandler.HandleCreate)
			r.Get("/", todoHandler.HandleFindAll)
			r.Get("/{id}", todoHandler.HandleFindOne)
			r.Patch("/{id}/admin", todoHandler.HandleUpdateAdmin)
			r.Patch("/{id}", todoHandler.HandleUpdate)
			r.Put("/{id}", todoHandler.HandleReplace)
			r.Delete("/{id}", todoHandler.HandleRemove)
		})
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}
