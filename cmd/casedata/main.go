package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	_ "github.com/denisenkom/go-mssqldb"

	"github.com/justice-gov/casedata/internal/accesscontrol"
	"github.com/justice-gov/casedata/internal/api"
	"github.com/justice-gov/casedata/internal/audit"
	"github.com/justice-gov/casedata/internal/caseaccess"
	"github.com/justice-gov/casedata/internal/casedetails"
	"github.com/justice-gov/casedata/internal/createevent"
	"github.com/justice-gov/casedata/internal/definition"
	"github.com/justice-gov/casedata/internal/getevents"
	"github.com/justice-gov/casedata/internal/profile"
	"github.com/justice-gov/casedata/internal/shared/auth"
	"github.com/justice-gov/casedata/internal/shared/config"
	"github.com/justice-gov/casedata/internal/shared/database"
	"github.com/justice-gov/casedata/internal/shared/metrics"
	secmiddleware "github.com/justice-gov/casedata/internal/shared/middleware"
)

// App holds all application dependencies
type App struct {
	Config      *config.Config
	DB          *database.DB
	Definitions *sql.DB
}

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	app := &App{Config: cfg}

	// Case data store
	db, err := database.New(ctx, cfg.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect to case data store: %v\n", err)
		os.Exit(1)
	}
	app.DB = db
	defer db.Close()

	if err := database.Migrate(ctx, db.Pool); err != nil {
		fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
		os.Exit(1)
	}

	// Definition store (SQL Server, read-only)
	definitionDB, err := sql.Open("sqlserver", cfg.DefinitionStore.DSN())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open definition store: %v\n", err)
		os.Exit(1)
	}
	app.Definitions = definitionDB
	defer definitionDB.Close()

	// Audit trail (EventStore, append-only)
	eventStoreClient, err := audit.NewClient(cfg.EventStore.ConnectionString())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect to event store: %v\n", err)
		os.Exit(1)
	}
	defer eventStoreClient.Close()

	// Wiring
	roleSource := auth.ContextRoleSource{}

	definitionRepo := definition.NewSQLServerRepository(definitionDB)
	classificationDir := definition.NewClassificationDirectory(definitionRepo)
	classifications := accesscontrol.NewClassificationService(roleSource, classificationDir)

	caseRepo := casedetails.NewPostgresRepository(db.Pool)
	caseService := casedetails.NewService(caseRepo)

	grantRepo := caseaccess.NewPostgresGrantRepository(db.Pool)
	accessService := caseaccess.NewService(grantRepo)

	auditStore := audit.NewStore(eventStoreClient)
	eventsOp := getevents.NewClassifiedOperation(
		getevents.NewDefaultOperation(auditStore, caseService),
		classifications,
	)

	profileOp := profile.NewAuthorisedOperation(
		profile.NewDefaultOperation(definitionRepo, api.AuthIdentity{}),
		roleSource,
		accesscontrol.CanRead,
	)

	invoker := createevent.NewHTTPInvoker(time.Duration(cfg.Callback.TimeoutSeconds) * time.Second)
	midEvent := createevent.NewMidEventCallback(definitionRepo, invoker)

	handler := api.NewHandler(profileOp, eventsOp, caseService, accessService, midEvent, definitionRepo)

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(secmiddleware.SecurityHeaders)
	r.Use(secmiddleware.BodyLimit)
	r.Use(metrics.Middleware)

	rateLimiter := secmiddleware.NewIPRateLimiter(100, 200)
	r.Use(rateLimiter.Middleware)
	r.Use(corsMiddleware)

	// Health checks (unauthenticated)
	r.Get("/health", healthHandler)
	r.Get("/ready", readyHandler(app))
	r.Handle("/metrics", metrics.Handler())

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(auth.Middleware(cfg.Auth))
		r.Mount("/caseworkers", handler.Routes())
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	done := make(chan bool)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		fmt.Println("\nShutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			fmt.Printf("Server shutdown error: %v\n", err)
		}
		close(done)
	}()

	fmt.Println("============================================")
	fmt.Println("Case Data Service")
	fmt.Println("============================================")
	fmt.Printf("Environment:      %s\n", cfg.Server.Env)
	fmt.Printf("Server:           http://localhost:%d\n", cfg.Server.Port)
	fmt.Printf("API:              http://localhost:%d/api/v1\n", cfg.Server.Port)
	fmt.Printf("Health:           http://localhost:%d/health\n", cfg.Server.Port)
	fmt.Printf("Definition store: %s:%d\n", cfg.DefinitionStore.Host, cfg.DefinitionStore.Port)
	fmt.Printf("Event store:      %s:%d\n", cfg.EventStore.Host, cfg.EventStore.Port)
	fmt.Println("============================================")

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}

	<-done
	fmt.Println("Server stopped")
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Authorization, Content-Type, X-Request-ID")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status": "healthy",
	})
}

func readyHandler(app *App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := map[string]string{
			"server": "ready",
		}

		if err := app.DB.Health(r.Context()); err != nil {
			checks["database"] = "not ready: " + err.Error()
		} else {
			checks["database"] = "ready"
		}

		if err := app.Definitions.PingContext(r.Context()); err != nil {
			checks["definition_store"] = "not ready: " + err.Error()
		} else {
			checks["definition_store"] = "ready"
		}

		allReady := true
		for _, status := range checks {
			if status != "ready" {
				allReady = false
				break
			}
		}

		status := http.StatusOK
		if !allReady {
			status = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]any{
			"status": map[bool]string{true: "ready", false: "not ready"}[allReady],
			"checks": checks,
		})
	}
}
