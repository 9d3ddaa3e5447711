package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"iliad-account/internal/components/assert"
	"iliad-account/internal/components/state"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const defaultHistoryLimit = 50

// StateSource is the latest published value of every key.
type StateSource interface {
	All() []state.State
	Get(key string) (value any, ok bool)
}

// HistorySource lists the previous values of a key, newest first.
type HistorySource interface {
	History(ctx context.Context, key string, limit int) ([]state.StoredState, error)
}

type Options struct {
	States StateSource
	// History can be nil, /states/{key}/history is not served without it.
	History  HistorySource
	Registry *prometheus.Registry
	Logger   *slog.Logger
}

// NewRouter creates the handler serving published states and metrics.
func NewRouter(opts Options) (http.Handler, error) {
	assert.NotNil(opts.States)
	assert.NotNil(opts.Registry)

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	requests, err := newRequestMetrics(opts.Registry)
	if err != nil {
		return nil, err
	}

	h := handlers{states: opts.States, history: opts.History, logger: logger}

	r := chi.NewRouter()
	r.Use(chiMiddleware.Recoverer)
	r.Use(requests.middleware)

	r.Get("/healthz", h.healthz)
	r.Get("/states", h.listStates)
	r.Get("/states/{key}", h.getState)
	if opts.History != nil {
		r.Get("/states/{key}/history", h.getHistory)
	}
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{}))

	return r, nil
}

type handlers struct {
	states  StateSource
	history HistorySource
	logger  *slog.Logger
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h handlers) writeJson(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(body)
	if err != nil {
		h.logger.Warn("failed to write response", "err", err)
	}
}

func (h handlers) healthz(w http.ResponseWriter, _ *http.Request) {
	h.writeJson(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h handlers) listStates(w http.ResponseWriter, _ *http.Request) {
	states := h.states.All()
	if states == nil {
		states = []state.State{}
	}
	h.writeJson(w, http.StatusOK, states)
}

func (h handlers) getState(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	value, ok := h.states.Get(key)
	if !ok {
		h.writeJson(w, http.StatusNotFound, errorResponse{Error: "unknown key " + key})
		return
	}
	h.writeJson(w, http.StatusOK, state.State{Key: key, Value: value})
}

type historyEntry struct {
	Value any       `json:"value"`
	Time  time.Time `json:"time"`
}

func (h handlers) getHistory(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			h.writeJson(w, http.StatusBadRequest, errorResponse{Error: "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	stored, err := h.history.History(r.Context(), key, limit)
	if err != nil {
		h.logger.Error("failed to read state history", "key", key, "err", err)
		h.writeJson(w, http.StatusInternalServerError, errorResponse{Error: "failed to read history"})
		return
	}
	if len(stored) == 0 {
		h.writeJson(w, http.StatusNotFound, errorResponse{Error: "unknown key " + key})
		return
	}

	entries := make([]historyEntry, len(stored))
	for i, s := range stored {
		entries[i] = historyEntry{Value: s.Value, Time: s.Time}
	}
	h.writeJson(w, http.StatusOK, entries)
}
