package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"tracker/internal/core"
)

type setBudgetRequest struct {
	Amount json.Number `json:"amount"`
}

func (s *Server) handleGetBudget(w http.ResponseWriter, r *http.Request) {
	budget, ok := s.store.Budget()
	writeJSON(w, http.StatusOK, map[string]any{
		"set":          ok,
		"budget_cents": budget.Cents,
	})
}

// handleSetBudget stores a non-negative monthly budget. Invalid input is
// rejected before anything is persisted, leaving the prior value intact.
func (s *Server) handleSetBudget(w http.ResponseWriter, r *http.Request) {
	var req setBudgetRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cents, err := core.ParseBudgetCents(req.Amount.String())
	if err != nil {
		writeFieldErrors(w, map[string]string{"amount": "budget must be a non-negative number"})
		return
	}

	if err := s.store.SetBudget(r.Context(), core.Money{Cents: cents}); err != nil {
		slog.ErrorContext(r.Context(), "Budget update failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update budget")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"set":          true,
		"budget_cents": cents,
	})
}
