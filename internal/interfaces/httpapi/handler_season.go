package httpapi

import (
	"net/http"

	"github.com/riskibarqy/season-sim/internal/usecase"
)

func (h *Handler) AdvanceSeason(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AdvanceSeason")
	defer span.End()

	var req managerRequest
	if err := h.decodeJSON(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	managerTeamID := h.managerOrDefault(req.ManagerTeamID)

	report, err := h.seasonService.Advance(ctx, usecase.AdvanceInput{
		ManagerTeamID: managerTeamID,
		Progress: func(p usecase.Progress) {
			h.logger.DebugContext(ctx, "advance progress",
				"kind", p.Kind,
				"done", p.Done,
				"total", p.Total,
				"team_id", p.TeamID,
				"fixture_id", p.FixtureID,
				"failed", p.Failed,
			)
		},
	})
	if err != nil {
		h.logger.WarnContext(ctx, "advance season failed", "manager_team_id", managerTeamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, advancementReportToDTO(report))
}

func (h *Handler) StartMatchday(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.StartMatchday")
	defer span.End()

	var req managerRequest
	if err := h.decodeJSON(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	managerTeamID := h.managerOrDefault(req.ManagerTeamID)

	day, err := h.matchService.StartMatchday(ctx, managerTeamID)
	if err != nil {
		h.logger.WarnContext(ctx, "start matchday failed", "manager_team_id", managerTeamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, matchdayToDTO(day))
}
