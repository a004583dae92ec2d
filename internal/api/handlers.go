package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/EkaterinaGorbunova/aviasales-scraper/internal/apperr"
	"github.com/EkaterinaGorbunova/aviasales-scraper/internal/travelpayouts"
	"github.com/EkaterinaGorbunova/aviasales-scraper/internal/usecase"
)

type Handlers struct {
	searchUC     *usecase.SearchFlights
	priceCheckUC *usecase.RunPriceCheck
	environment  string
	production   bool
}

func NewHandlers(searchUC *usecase.SearchFlights, priceCheckUC *usecase.RunPriceCheck, environment string) *Handlers {
	return &Handlers{
		searchUC:     searchUC,
		priceCheckUC: priceCheckUC,
		environment:  environment,
		production:   environment == "production",
	}
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"message":   "Service is healthy",
	})
}

func (h *Handlers) Test(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"message":     "API is working",
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
		"environment": h.environment,
	})
}

func (h *Handlers) RunPriceCheck(w http.ResponseWriter, r *http.Request) {
	res, err := h.priceCheckUC.Execute(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"message":   fmt.Sprintf("Price check complete: %d new tickets, %d duplicates", res.Stats.NewTickets, res.Stats.Duplicates),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *Handlers) SearchFlights(w http.ResponseWriter, r *http.Request) {
	var params travelpayouts.Params
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		h.writeError(w, r, apperr.Wrap(apperr.Validation, "invalid request body", err))
		return
	}

	// Reject incomplete searches here so they never reach the network.
	if missing := params.Missing(); len(missing) > 0 {
		h.writeError(w, r, apperr.Newf(apperr.Validation, "missing required fields: %s", strings.Join(missing, ", ")))
		return
	}

	res, err := h.searchUC.Execute(r.Context(), params)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": fmt.Sprintf("Found %d tickets", len(res.Trips)),
		"tickets": res.Trips,
		"dbStats": res.Stats,
	})
}

// writeError maps an error kind to a status and decides how much detail
// leaves the process. In production everything except caller mistakes is
// reduced to a generic message plus a correlation id; the full error stays
// in the server log either way.
func (h *Handlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	kind, known := apperr.KindOf(err)

	status := http.StatusInternalServerError
	kindName := "internal"
	if known {
		kindName = kind.String()
		if kind == apperr.Validation {
			status = http.StatusBadRequest
		}
	}

	requestID := uuid.NewString()
	slog.Error("request failed",
		"request_id", requestID,
		"method", r.Method,
		"path", r.URL.Path,
		"kind", kindName,
		"error", err,
	)

	message := err.Error()
	if h.production && status >= http.StatusInternalServerError {
		message = "An internal error occurred. Reference: " + requestID
	}

	writeJSON(w, status, map[string]any{
		"success":   false,
		"error":     kindName,
		"message":   message,
		"requestId": requestID,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("encode response", "error", err)
	}
}
