package http

import (
	"fmt"
	"net/http"

	"finpocket/internal/core"
	"finpocket/internal/ledger"
	"finpocket/internal/services"
)

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	period, err := ledger.ParsePeriod(r.URL.Query().Get("period"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	ctx, cancel := s.readContext(r)
	defer cancel()

	txs, err := s.ledger.Transactions(ctx, period)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.render.transactions(txs))
}

// handleCreateTransaction accepts JSON or a url-encoded form with kind,
// category, amount and the optional occurred_at and note.
func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	body, err := parseBody(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	draft, err := services.TransactionInput{
		Kind:       body.Get("kind"),
		Category:   body.Get("category"),
		Amount:     body.Get("amount"),
		OccurredAt: body.Get("occurred_at"),
		Note:       body.Get("note"),
	}.Draft()
	if err != nil {
		writeError(w, r, err)
		return
	}

	tx, err := s.ledger.AddTransaction(r.Context(), draft)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidate(r.Context())
	w.Header().Set("Location", "/api/transactions/"+tx.ID)
	writeJSON(w, http.StatusCreated, s.render.transaction(tx))
}

// handleDeleteTransaction answers 204 whether or not the id existed.
func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	removed, err := s.ledger.RemoveTransaction(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if removed {
		s.invalidate(r.Context())
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	period, err := ledger.ParsePeriod(r.URL.Query().Get("period"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	ctx, cancel := s.readContext(r)
	defer cancel()

	v, err := s.cached("summary:"+string(period), func() (any, error) {
		totals, err := s.ledger.Summary(ctx, period)
		if err != nil {
			return nil, err
		}
		return summaryJSON{Period: string(period), totalsJSON: s.render.totals(totals)}, nil
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// handleBreakdown defaults to expenses, the view the dashboard chart shows.
func (s *Server) handleBreakdown(w http.ResponseWriter, r *http.Request) {
	kind, err := queryKind(r, core.Expense)
	if err != nil {
		writeError(w, r, err)
		return
	}
	period, err := ledger.ParsePeriod(r.URL.Query().Get("period"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	ctx, cancel := s.readContext(r)
	defer cancel()

	key := fmt.Sprintf("breakdown:%s:%s", kind, period)
	v, err := s.cached(key, func() (any, error) {
		shares, err := s.ledger.Breakdown(ctx, kind, period)
		if err != nil {
			return nil, err
		}
		return breakdownJSON{Kind: string(kind), Period: string(period), Shares: s.render.shares(shares)}, nil
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleStatDetail(w http.ResponseWriter, r *http.Request) {
	kind, err := core.ParseKind(r.PathValue("kind"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	limit, err := queryInt(r, "limit", ledger.DefaultStatLimit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ctx, cancel := s.readContext(r)
	defer cancel()

	key := fmt.Sprintf("stats:%s:%d", kind, limit)
	v, err := s.cached(key, func() (any, error) {
		d, err := s.ledger.StatDetail(ctx, kind, limit)
		if err != nil {
			return nil, err
		}
		return s.render.statDetail(d), nil
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}
