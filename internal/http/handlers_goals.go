package http

import (
	"net/http"

	"finpocket/internal/core"
	"finpocket/internal/services"
)

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.readContext(r)
	defer cancel()

	goals, err := s.ledger.Goals(ctx)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.render.goals(goals))
}

func (s *Server) handleGetGoal(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.readContext(r)
	defer cancel()

	g, err := s.ledger.Goal(ctx, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.render.goal(g))
}

// handleCreateGoal accepts title, target and the optional icon and color.
func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	body, err := parseBody(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	draft, err := services.GoalInput{
		Title:  body.Get("title"),
		Target: body.Get("target"),
		Icon:   body.Get("icon"),
		Color:  body.Get("color"),
	}.Draft()
	if err != nil {
		writeError(w, r, err)
		return
	}

	g, err := s.ledger.AddGoal(r.Context(), draft)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/goals/"+g.ID)
	writeJSON(w, http.StatusCreated, s.render.goal(g))
}

func (s *Server) handleContribute(w http.ResponseWriter, r *http.Request) {
	body, err := parseBody(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	amount, err := core.ParseAmount(body.Get("amount"))
	if err != nil {
		writeError(w, r, core.Invalid("amount", err))
		return
	}

	g, err := s.ledger.Contribute(r.Context(), r.PathValue("id"), amount)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.render.goal(g))
}
