package api

import (
	"net/http"

	"grocery-route-service/internal/api/handlers"
	"grocery-route-service/internal/ports"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(repo ports.StoreRepository, optimize *handlers.OptimizeHandler) http.Handler {
	mux := http.NewServeMux()

	storeHandler := &handlers.StoreHandler{Repo: repo}
	if optimize.Repo == nil {
		optimize.Repo = repo
	}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/stores", storeHandler.List)
	mux.HandleFunc("/optimize", optimize.Optimize)

	return requestIDMiddleware(loggingMiddleware(mux))
}
