package http

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"smartspend/internal/core"
	"smartspend/internal/log"
)

const maxDailyRange = 366

func (s *Server) handleDailyStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	end := core.DateOf(time.Now())
	if v := strings.TrimSpace(r.URL.Query().Get("date")); v != "" {
		parsed, err := core.ParseDate(v)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
			return
		}
		end = parsed
	}

	days := queryInt(r, "days", 7)
	if days < 1 || days > maxDailyRange {
		respondError(w, http.StatusBadRequest,
			fmt.Sprintf("days must be between 1 and %d", maxDailyRange))
		return
	}

	key := fmt.Sprintf("daily|%s|%d", end, days)
	stats, err := s.dailyCache.GetOrCompute(key, func() ([]core.DailyStat, error) {
		txs, err := s.store.Transactions(r.Context())
		if err != nil {
			return nil, err
		}
		return core.DailyRange(end, days, txs), nil
	})
	if err != nil {
		reqLog(r).ErrorContext(r.Context(), "Failed to compute daily stats", log.FieldError, err)
		respondError(w, http.StatusInternalServerError, "failed to compute daily stats")
		return
	}

	respondJSON(w, http.StatusOK, stats)
}

func (s *Server) handleAggregateStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	mode := core.AggregateMode(strings.TrimSpace(r.URL.Query().Get("mode")))
	if mode == "" {
		mode = core.ModeOverview
	}
	if !mode.Valid() {
		respondError(w, http.StatusBadRequest, "mode must be overview, byMember, or byCategory")
		return
	}

	filter := strings.TrimSpace(r.URL.Query().Get("filter"))
	if mode != core.ModeOverview && filter == "" {
		respondError(w, http.StatusBadRequest, "filter is required for "+string(mode))
		return
	}

	key := fmt.Sprintf("agg|%s|%s", mode, filter)
	summary, err := s.aggregateCache.GetOrCompute(key, func() (core.Summary, error) {
		data, err := s.store.Snapshot(r.Context())
		if err != nil {
			return core.Summary{}, err
		}
		tags, err := s.store.ReflectionTags(r.Context())
		if err != nil {
			return core.Summary{}, err
		}
		return core.Aggregate(data.Transactions, data.Categories, data.Members, tags, mode, filter), nil
	})
	if err != nil {
		reqLog(r).ErrorContext(r.Context(), "Failed to compute aggregate stats",
			log.FieldError, err,
			log.FieldMode, string(mode),
			log.FieldFilterID, filter)
		respondError(w, http.StatusInternalServerError, "failed to compute aggregate stats")
		return
	}

	respondJSON(w, http.StatusOK, summary)
}
