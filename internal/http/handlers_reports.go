package http

import (
	"fmt"
	"net/http"
	"time"

	"finpocket/internal/core"
)

const defaultTrendMonths = 6

// handleMonthlyReport reports on ?year=&month=, defaulting to the current
// month.
func (s *Server) handleMonthlyReport(w http.ResponseWriter, r *http.Request) {
	year, err := queryInt(r, "year", 0)
	if err != nil {
		writeError(w, r, err)
		return
	}
	month, err := queryInt(r, "month", 0)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ctx, cancel := s.readContext(r)
	defer cancel()

	key := fmt.Sprintf("monthly:%d:%d", year, month)
	v, err := s.cached(key, func() (any, error) {
		rep, err := s.ledger.MonthlyReport(ctx, year, time.Month(month))
		if err != nil {
			return nil, err
		}
		return s.render.monthlyReport(rep), nil
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleTrend(w http.ResponseWriter, r *http.Request) {
	months, err := queryInt(r, "months", defaultTrendMonths)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ctx, cancel := s.readContext(r)
	defer cancel()

	v, err := s.cached(fmt.Sprintf("trend:%d", months), func() (any, error) {
		trend, err := s.ledger.Trend(ctx, months)
		if err != nil {
			return nil, err
		}
		return s.render.trend(trend), nil
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// handleCategories lists one kind's catalog, or both keyed by kind when
// ?kind= is absent.
func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("kind") == "" {
		writeJSON(w, http.StatusOK, map[string][]categoryJSON{
			string(core.Income):  categoriesJSON(s.ledger.Categories(core.Income)),
			string(core.Expense): categoriesJSON(s.ledger.Categories(core.Expense)),
		})
		return
	}
	kind, err := queryKind(r, "")
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, categoriesJSON(s.ledger.Categories(kind)))
}

func (s *Server) handleTips(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, tipsJSON(s.ledger.Tips()))
}
