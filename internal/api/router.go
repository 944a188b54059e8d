// Package api exposes the alert engine and the pipeline over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/sheikh-saqib/balance-alerts/internal/alerts"
	interfaces "github.com/sheikh-saqib/balance-alerts/internal/interfaces"
	"github.com/sheikh-saqib/balance-alerts/internal/logger"
	"github.com/sheikh-saqib/balance-alerts/internal/models"
)

const maxBodyBytes = 1 << 20

// EntryHandler feeds a single entry through the pipeline.
type EntryHandler interface {
	HandleEntry(ctx context.Context, entry models.LedgerEntry) (int, error)
}

// Invalidator drops cached settings after they change.
type Invalidator interface {
	Invalidate(ctx context.Context, customerID string) error
}

type Dependencies struct {
	Generator *alerts.Generator
	Entries   EntryHandler
	Settings  interfaces.SettingsWriter
	Cache     Invalidator // optional
}

type handlers struct {
	deps Dependencies
	log  zerolog.Logger
}

func NewRouter(deps Dependencies) http.Handler {
	if deps.Generator == nil {
		deps.Generator = alerts.NewGenerator()
	}
	h := &handlers{deps: deps, log: logger.WithComponent("api")}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", h.health)
	r.Handle("/metrics", promhttp.Handler())
	r.Post("/alerts/preview", h.preview)
	if deps.Entries != nil {
		r.Post("/account-entries", h.postEntry)
	}
	if deps.Settings != nil {
		r.Put("/customers/{customerID}/alert-settings", h.putSettings)
	}
	return r
}

func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type previewRequest struct {
	Entry   models.LedgerEntry           `json:"entry"`
	Profile *models.CustomerAlertProfile `json:"profile"`
}

// preview evaluates an entry against a profile without publishing anything.
func (h *handlers) preview(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if !decodeBody(w, r, &req) {
		return
	}

	addressed, err := h.deps.Generator.GenerateAlerts(req.Entry, req.Profile)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, addressed)
}

func (h *handlers) postEntry(w http.ResponseWriter, r *http.Request) {
	var entry models.LedgerEntry
	if !decodeBody(w, r, &entry) {
		return
	}
	if entry.AccountID == "" {
		writeError(w, http.StatusBadRequest, "account_id is a mandatory field")
		return
	}

	published, err := h.deps.Entries.HandleEntry(r.Context(), entry)
	if err != nil {
		h.log.Error().Err(err).Str("account_id", entry.AccountID).Msg("failed to process posted entry")
		status := http.StatusInternalServerError
		if errors.Is(err, alerts.ErrMalformedAmount) || errors.Is(err, models.ErrUnknownIndicator) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]int{"published": published})
}

func (h *handlers) putSettings(w http.ResponseWriter, r *http.Request) {
	customerID := chi.URLParam(r, "customerID")

	var profile models.CustomerAlertProfile
	if !decodeBody(w, r, &profile) {
		return
	}
	if profile.CustomerID != "" && profile.CustomerID != customerID {
		writeError(w, http.StatusBadRequest, "customer_id does not match the path")
		return
	}
	profile.CustomerID = customerID
	if err := alerts.ValidateProfile(profile); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.deps.Settings.SaveAlertSettings(r.Context(), profile); err != nil {
		h.log.Error().Err(err).Str("customer_id", customerID).Msg("failed to save alert settings")
		writeError(w, http.StatusInternalServerError, "failed to save alert settings")
		return
	}
	if h.deps.Cache != nil {
		if err := h.deps.Cache.Invalidate(r.Context(), customerID); err != nil {
			h.log.Warn().Err(err).Str("customer_id", customerID).Msg("failed to invalidate cached settings")
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
