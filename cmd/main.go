// cmd/main.go is the application entry point.
// It wires together all layers and starts the HTTP server.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/msc-org/msc-backend/internal/auth"
	"github.com/msc-org/msc-backend/internal/config"
	"github.com/msc-org/msc-backend/internal/database"
	"github.com/msc-org/msc-backend/internal/handler"
	"github.com/msc-org/msc-backend/internal/repository"
	"github.com/msc-org/msc-backend/internal/service"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// ── 1. Connect to PostgreSQL ──────────────────────────────────────────
	pool, err := database.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()
	log.Println("connected to PostgreSQL")

	// ── 2. Wire up layers ────────────────────────────────────────────────
	studentRepo := repository.NewStudentRepository(pool)
	eventRepo := repository.NewEventRepository(pool)
	regRepo := repository.NewRegistrationRepository(pool)
	blacklistRepo := repository.NewBlacklistRepository(pool)

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiryHours)
	guard := handler.NewGuard(tokens, blacklistRepo)

	authSvc := service.NewAuthService(studentRepo, blacklistRepo, tokens, cfg.SchoolYearCode)
	studentSvc := service.NewStudentService(studentRepo)
	eventSvc := service.NewEventService(eventRepo, regRepo)

	authHandler := handler.NewAuthHandler(authSvc)
	studentHandler := handler.NewStudentHandler(studentSvc)
	eventHandler := handler.NewEventHandler(eventSvc)

	// ── 3. Build the router ───────────────────────────────────────────────
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(handler.Logger)
	r.Use(handler.CORS)

	r.Get("/health", handler.HealthCheck)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", authHandler.Login)
		r.Post("/register", authHandler.Register)
		r.Post("/forgot-password", authHandler.ForgotPassword)
		r.Group(func(r chi.Router) {
			r.Use(guard.Authenticate)
			r.Post("/logout", authHandler.Logout)
			r.Get("/profile", authHandler.Profile)
			r.Put("/password", authHandler.ChangePassword)
		})
	})

	r.Route("/events", func(r chi.Router) {
		r.Get("/", eventHandler.List)
		r.Get("/upcoming", eventHandler.Upcoming)
		r.Get("/calendar", eventHandler.Calendar)
		r.Get("/{id}", eventHandler.Get)
		r.Group(func(r chi.Router) {
			r.Use(guard.Authenticate)
			r.Post("/{id}/register", eventHandler.Register)
		})
		r.Group(func(r chi.Router) {
			r.Use(guard.Authenticate, guard.RequireOfficer)
			r.Post("/", eventHandler.Create)
			r.Put("/{id}", eventHandler.Update)
			r.Delete("/{id}", eventHandler.Delete)
			r.Get("/{id}/registrations", eventHandler.Registrations)
			r.Put("/{id}/attendance/{studentID}", eventHandler.Attendance)
		})
	})

	r.Route("/students", func(r chi.Router) {
		r.Use(guard.Authenticate)
		r.Get("/dashboard", studentHandler.Dashboard)
		r.Get("/{id}", studentHandler.Get)
		r.Put("/{id}/profile", studentHandler.UpdateProfile)
		r.Group(func(r chi.Router) {
			r.Use(guard.RequireOfficer)
			r.Get("/", studentHandler.List)
			r.Get("/search", studentHandler.Search)
			r.Put("/{id}/toggle-active", studentHandler.ToggleActive)
		})
	})

	// ── 4. Start server with graceful shutdown ────────────────────────────
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("server listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("graceful shutdown failed: %v", err)
	}
	log.Println("server stopped")
}
