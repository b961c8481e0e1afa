// Command bgserver runs the backgammon realtime server.
package main

import (
	"log"

	"github.com/yourusername/bgserver/internal/config"
	"github.com/yourusername/bgserver/internal/storage"
	"github.com/yourusername/bgserver/pkg/api"
)

const version = "0.1.0"

func main() {
	cfg := config.FromEnv()

	log.Printf("bgserver v%s", version)
	log.Printf("opening database at %s", cfg.DatabasePath)

	db, err := storage.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("opening database: %v", err)
	}
	defer db.Close()

	pool := api.NewWorkerPool(api.DefaultPoolConfig())
	dispatcher := api.NewDispatcher(cfg, db, db, pool)
	server := api.NewServer(cfg, dispatcher)

	if err := server.ListenAndServeWithGracefulShutdown(); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
