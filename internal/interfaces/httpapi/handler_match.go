package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/riskibarqy/season-sim/internal/domain/lineup"
	"github.com/riskibarqy/season-sim/internal/domain/match"
	"github.com/riskibarqy/season-sim/internal/usecase"
)

func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span, matchID := startMatchSpan(r, "httpapi.Handler.GetMatch")
	defer span.End()

	view, err := h.matchService.Snapshot(ctx, matchID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchViewToDTO(view))
}

func (h *Handler) TickMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span, matchID := startMatchSpan(r, "httpapi.Handler.TickMatch")
	defer span.End()

	events, err := h.matchService.SimulateTick(ctx, matchID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	view, err := h.matchService.Snapshot(ctx, matchID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, tickDTO{
		Clock:  view.Clock,
		Phase:  view.Phase.String(),
		Events: eventsToDTO(events),
	})
}

func (h *Handler) RequestSubstitution(w http.ResponseWriter, r *http.Request) {
	ctx, span, matchID := startMatchSpan(r, "httpapi.Handler.RequestSubstitution")
	defer span.End()

	var req substitutionRequest
	if err := h.decodeJSON(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	side, err := match.ParseSide(req.Side)
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err))
		return
	}

	changes := make([]lineup.Change, 0, len(req.Changes))
	for _, item := range req.Changes {
		changes = append(changes, lineup.Change{
			Kind:        lineup.ChangeKind(item.Kind),
			PlayerOutID: item.PlayerOutID,
			PlayerInID:  item.PlayerInID,
			Slot:        lineup.Slot(item.Slot),
		})
	}

	result, err := h.matchService.RequestSubstitution(ctx, matchID, side, changes)
	if err != nil {
		h.logger.WarnContext(ctx, "substitution failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, substitutionResultToDTO(result))
}

func (h *Handler) EndMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span, matchID := startMatchSpan(r, "httpapi.Handler.EndMatch")
	defer span.End()

	result, err := h.matchService.EndMatch(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "end match failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchResultToDTO(result))
}

func (h *Handler) StartLive(w http.ResponseWriter, r *http.Request) {
	ctx, span, matchID := startMatchSpan(r, "httpapi.Handler.StartLive")
	defer span.End()

	var req liveStartRequest
	if err := h.decodeJSON(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	speed := time.Duration(req.SpeedMS) * time.Millisecond
	if err := h.matchService.StartLive(ctx, matchID, speed); err != nil {
		writeError(ctx, w, err)
		return
	}
	h.writeLiveState(w, r.WithContext(ctx), matchID)
}

func (h *Handler) PauseLive(w http.ResponseWriter, r *http.Request) {
	ctx, span, matchID := startMatchSpan(r, "httpapi.Handler.PauseLive")
	defer span.End()

	if err := h.matchService.PauseLive(ctx, matchID); err != nil {
		writeError(ctx, w, err)
		return
	}
	h.writeLiveState(w, r.WithContext(ctx), matchID)
}

func (h *Handler) ResumeLive(w http.ResponseWriter, r *http.Request) {
	ctx, span, matchID := startMatchSpan(r, "httpapi.Handler.ResumeLive")
	defer span.End()

	if err := h.matchService.ResumeLive(ctx, matchID); err != nil {
		writeError(ctx, w, err)
		return
	}
	h.writeLiveState(w, r.WithContext(ctx), matchID)
}

func (h *Handler) SetLiveSpeed(w http.ResponseWriter, r *http.Request) {
	ctx, span, matchID := startMatchSpan(r, "httpapi.Handler.SetLiveSpeed")
	defer span.End()

	var req liveSpeedRequest
	if err := h.decodeJSON(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.matchService.SetLiveSpeed(ctx, matchID, time.Duration(req.SpeedMS)*time.Millisecond); err != nil {
		writeError(ctx, w, err)
		return
	}
	h.writeLiveState(w, r.WithContext(ctx), matchID)
}

func (h *Handler) writeLiveState(w http.ResponseWriter, r *http.Request, matchID string) {
	ctx := r.Context()
	view, err := h.matchService.Snapshot(ctx, matchID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, liveStateToDTO(view))
}
