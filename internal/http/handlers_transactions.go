package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"tracker/internal/core"
)

// createTransactionRequest is the add-form payload. Amount accepts either
// a JSON number or a decimal string ("4.50" or "4,50"). Date is optional
// and defaults to today.
type createTransactionRequest struct {
	Description string      `json:"description"`
	Amount      json.Number `json:"amount"`
	Date        string      `json:"date"`
	Category    string      `json:"category"`
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"categories": core.Categories()})
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := decodeJSONBody(r, &req); err != nil {
		slog.ErrorContext(r.Context(), "Bad transaction payload", "error", err)
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// Field-scoped validation happens here, before the ledger store is
	// ever invoked.
	fields := map[string]string{}

	desc := sanitizeInput(req.Description)
	if len(strings.TrimSpace(desc)) < 2 {
		fields["description"] = "description must be at least 2 characters"
	}

	var amount core.Money
	if cents, err := core.ParseDecimalToCents(req.Amount.String()); err != nil {
		fields["amount"] = "amount must be a positive number"
	} else {
		amount = core.Money{Cents: cents}
	}

	date := core.Today(s.now())
	if v := strings.TrimSpace(req.Date); v != "" {
		parsed, err := core.ParseDate(v)
		if err != nil {
			fields["date"] = "date must be YYYY-MM-DD"
		} else if err := parsed.Validate(); err != nil {
			fields["date"] = "date is not a valid calendar date"
		} else {
			date = parsed
		}
	}

	if len(fields) > 0 {
		slog.WarnContext(r.Context(), "Transaction rejected by validation", "fields", len(fields))
		writeFieldErrors(w, fields)
		return
	}

	draft := core.Draft{
		Description: desc,
		Amount:      amount,
		Date:        date,
		Category:    sanitizeInput(req.Category),
	}

	t, err := s.store.Add(r.Context(), draft)
	if err != nil {
		slog.ErrorContext(r.Context(), "Transaction add failed", "error", err, "description", draft.Description)
		writeError(w, http.StatusInternalServerError, "failed to record transaction")
		return
	}

	s.invalidateDerived()
	writeJSON(w, http.StatusCreated, t)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid transaction id")
		return
	}

	found, err := s.store.Delete(r.Context(), id)
	if err != nil {
		slog.ErrorContext(r.Context(), "Transaction delete failed", "error", err, "id", id)
		writeError(w, http.StatusInternalServerError, "failed to delete transaction")
		return
	}

	if found {
		s.invalidateDerived()
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": found, "id": id})
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	list := s.store.List()

	if v := strings.TrimSpace(r.URL.Query().Get("date")); v != "" {
		date, err := core.ParseDate(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		writeJSON(w, http.StatusOK, core.FilterByExactDate(list, date))
		return
	}

	term := r.URL.Query().Get("search")
	matched := core.FilterBySearchTerm(list, term)
	if matched == nil {
		matched = []core.Transaction{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items": matched,
		"count": len(matched),
	})
}
