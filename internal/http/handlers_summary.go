package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"tracker/internal/core"
)

func (s *Server) handleTodaySummary(w http.ResponseWriter, r *http.Request) {
	today := core.Today(s.now())
	writeJSON(w, http.StatusOK, core.TodayTotal(s.store.List(), today))
}

func (s *Server) handleMonthSummary(w http.ResponseWriter, r *http.Request) {
	year, month := s.parseYearMonth(r)
	if month < 1 || month > 12 {
		writeError(w, http.StatusBadRequest, "month must be between 1 and 12")
		return
	}

	key := cacheKey(year, month)
	if summary, found := s.summaryCache.Get(key); found {
		slog.DebugContext(r.Context(), "Month summary cache hit", "year", year, "month", month)
		writeJSON(w, http.StatusOK, summary)
		return
	}

	summary := core.MonthOverview(s.store.List(), year, month)
	s.summaryCache.Set(key, summary)
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleBudgetSummary(w http.ResponseWriter, r *http.Request) {
	year, month := s.parseYearMonth(r)
	if month < 1 || month > 12 {
		writeError(w, http.StatusBadRequest, "month must be between 1 and 12")
		return
	}

	budget, _ := s.store.Budget()
	writeJSON(w, http.StatusOK, core.BudgetStatus(s.store.List(), budget, year, month))
}

func (s *Server) handleRecent(w http.ResponseWriter, r *http.Request) {
	n := 5
	if v := strings.TrimSpace(r.URL.Query().Get("n")); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 || parsed > 100 {
			writeError(w, http.StatusBadRequest, "n must be between 1 and 100")
			return
		}
		n = parsed
	}

	recent := core.RecentN(s.store.List(), n)
	if recent == nil {
		recent = []core.Transaction{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items": recent,
		"count": len(recent),
	})
}

// handleBreakdown serves the chart's data: computed category aggregates
// only, never raw transactions.
func (s *Server) handleBreakdown(w http.ResponseWriter, r *http.Request) {
	const key = "breakdown"
	if entries, found := s.breakdownCache.Get(key); found {
		slog.DebugContext(r.Context(), "Breakdown cache hit")
		writeBreakdown(w, entries)
		return
	}

	entries := core.CategoryBreakdown(s.store.List())
	s.breakdownCache.Set(key, entries)
	writeBreakdown(w, entries)
}

func writeBreakdown(w http.ResponseWriter, entries []core.BreakdownEntry) {
	if len(entries) == 0 {
		// "no data" signal for the chart, distinct from a zero-valued slice
		writeJSON(w, http.StatusOK, map[string]any{"no_data": true, "entries": []core.BreakdownEntry{}})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"no_data": false, "entries": entries})
}

func cacheKey(year, month int) string {
	return strconv.Itoa(year) + "-" + strconv.Itoa(month)
}
