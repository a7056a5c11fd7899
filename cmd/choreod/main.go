package main

import (
	"log"
	"os"

	"github.com/seantiz/choreo/internal/api"
	"github.com/seantiz/choreo/internal/config"
	"github.com/seantiz/choreo/internal/session"
	"github.com/seantiz/choreo/internal/store"
)

func main() {
	cfg := config.Load()
	logger := config.NewLogger(os.Stdout, cfg.LogLevel)

	logger.Info("choreod: starting",
		"listen_addr", cfg.ListenAddr,
		"db_path", cfg.DBPath,
	)

	db, err := store.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	mgr := session.NewManager(db, logger)
	srv := api.NewServer(cfg.ListenAddr, mgr, db, logger)

	if err := srv.Run(); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
