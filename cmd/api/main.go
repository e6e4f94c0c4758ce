package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/rahman-03/todoapp/internal/auth"
	"github.com/rahman-03/todoapp/internal/config"
	"github.com/rahman-03/todoapp/internal/db"
	"github.com/rahman-03/todoapp/internal/handlers"
	"github.com/rahman-03/todoapp/internal/middleware"
	"github.com/rahman-03/todoapp/internal/repository"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
)

func main() {
	setupSlog()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	dbConn, err := db.Connect(cfg.DatabaseURL, db.Pool{
		MaxOpen:     cfg.DBMaxOpen,
		MaxIdle:     cfg.DBMaxIdle,
		MaxLifetime: cfg.DBMaxLifetime,
	})
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer dbConn.Close()

	tokens, err := auth.NewTokenService(cfg.JWTSecret, cfg.JWTAlgorithm, cfg.TokenTTL)
	if err != nil {
		log.Fatalf("token service: %v", err)
	}

	users := repository.NewUserStore(dbConn)
	todos := repository.NewTodoStore(dbConn)

	h := handlers.New(users, todos, tokens)
	authmw := middleware.NewAuthenticator(tokens)

	r := chi.NewRouter()
	r.Use(middleware.RequestLogger)

	// Public
	r.Get("/healthy", handlers.Healthy)
	r.Route("/auth", func(r chi.Router) {
		r.Post("/", h.Auth.Register)
		r.Post("/token", h.Auth.Login)
	})

	// Protected API
	r.Group(func(r chi.Router) {
		r.Use(authmw.RequireUser)

		r.Route("/users", func(r chi.Router) {
			r.Get("/", h.Users.Me)
			r.Put("/change_pass", h.Users.ChangePassword)
			r.Put("/details_change", h.Users.ChangeDetails)
		})

		r.Route("/todos", func(r chi.Router) {
			r.Get("/", h.Todos.List)
			r.Post("/todo", h.Todos.Create)
			r.Get("/todo/{id}", h.Todos.Get)
			r.Put("/todo/{id}", h.Todos.Update)
			r.Delete("/todo/{id}", h.Todos.Delete)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Get("/", h.Admin.List)
			r.Post("/todo", h.Admin.Create)
			r.Get("/todo/{id}", h.Admin.Get)
			r.Put("/todo/{id}", h.Admin.Update)
			r.Delete("/todo/{id}", h.Admin.Delete)
		})
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Printf("listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	log.Println("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server exited")
}

func setupSlog() {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
}
