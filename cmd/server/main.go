package main

import (
	"go.uber.org/zap"

	httpapi "checkers-server/internal/api/http"
	"checkers-server/internal/api/ws"
	"checkers-server/internal/config"
	"checkers-server/internal/logging"
	"checkers-server/internal/room"
	"checkers-server/internal/store"
)

func main() {
	cfg := config.Load()
	log := logging.New(cfg.LogLevel, cfg.LogFormat)
	defer func() { _ = log.Sync() }()

	mem := store.NewMemoryStore()
	registry := room.NewRegistry(mem, cfg.RoomGrace, log)
	hub := ws.NewHub(registry, cfg.AllowedOrigin, log)
	r := httpapi.NewRouter(hub)

	log.Info("listening", zap.String("addr", cfg.HTTPAddr))
	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
