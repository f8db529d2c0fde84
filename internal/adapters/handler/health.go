package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

type StoragePinger interface {
	Ping(ctx context.Context) error
}

type CounterSource interface {
	Snapshot() map[string]uint64
}

type HealthHandler struct {
	storage  StoragePinger
	driver   string
	counters CounterSource
	logger   *slog.Logger
	now      func() time.Time
}

type HealthStatus struct {
	Status      string            `json:"status"`
	Timestamp   time.Time         `json:"timestamp"`
	Storage     StorageStatus     `json:"storage"`
	DataQuality map[string]uint64 `json:"dataQuality"`
}

type StorageStatus struct {
	Driver    string `json:"driver"`
	Reachable bool   `json:"reachable"`
}

func NewHealthHandler(storage StoragePinger, driver string, counters CounterSource, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		storage:  storage,
		driver:   driver,
		counters: counters,
		logger:   logger,
		now:      time.Now,
	}
}

func (h *HealthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/health/ping", h.HandlePing)
	mux.HandleFunc("GET /api/health/status", h.HandleStatus)
}

func (h *HealthHandler) HandlePing(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, "pong", nil)
}

// HandleStatus reports storage reachability and the data-quality counters.
func (h *HealthHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := HealthStatus{
		Status:      "UP",
		Timestamp:   h.now().UTC(),
		Storage:     StorageStatus{Driver: h.driver, Reachable: true},
		DataQuality: h.counters.Snapshot(),
	}

	code := http.StatusOK
	if err := h.storage.Ping(ctx); err != nil {
		h.logger.Warn("storage health check failed", "driver", h.driver, "error", err)
		status.Status = "DEGRADED"
		status.Storage.Reachable = false
		code = http.StatusServiceUnavailable
	}

	// A 503 still carries the body so operators can read the counters.
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(APIResponse{Success: code == http.StatusOK, Data: status})
}
