// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/securevote/securevote/config"
	"github.com/securevote/securevote/db"
	"github.com/securevote/securevote/middleware"
	"github.com/securevote/securevote/router"
	"github.com/securevote/securevote/session"
	"github.com/securevote/securevote/storage"
)

func main() {
	// Parse configuration
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		slog.Error("Error loading configuration", "error", err)
		os.Exit(1)
	}

	driver := "postgres"
	if cfg.DatabaseType == "sqlite" {
		driver = "sqlite"
	}

	dbConn, err := sql.Open(driver, cfg.DatabaseURL)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	// Verify connection
	if err := dbConn.Ping(); err != nil {
		slog.Error("database ping failed", "error", err)
		os.Exit(1)
	}

	// Create schema (tables)
	if err := db.CreateSchema(dbConn); err != nil {
		slog.Error("schema creation failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database schema ready")

	store := storage.NewSQLStore(dbConn)

	ctx := context.Background()
	if err := storage.EnsureAdminUser(ctx, store, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		slog.Error("admin bootstrap failed", "error", err)
		os.Exit(1)
	}
	if cfg.SeedDemoData {
		if err := storage.SeedDemoData(ctx, store); err != nil {
			slog.Error("demo data seeding failed", "error", err)
			os.Exit(1)
		}
	}

	var sessionStore session.Store
	if cfg.SessionStore == "postgres" {
		sessionStore = session.NewDBStore(dbConn)
	} else {
		sessionStore = session.NewMemStore()
	}
	sessions := session.NewManager(sessionStore, cfg.SessionSecret, cfg.Production())

	// Create router
	mux := router.NewRouter(store, sessions)

	// Create server
	server := http.Server{
		Handler: middleware.CORS(mux),
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		server.Close()
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port, "env", cfg.AppEnv)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}
