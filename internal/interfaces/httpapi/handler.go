package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/season-sim/internal/platform/logging"
	"github.com/riskibarqy/season-sim/internal/usecase"
)

type Handler struct {
	seasonService *usecase.SeasonService
	matchService  *usecase.MatchService
	managerTeamID string
	logger        *logging.Logger
	validator     *validator.Validate
}

func NewHandler(
	seasonService *usecase.SeasonService,
	matchService *usecase.MatchService,
	managerTeamID string,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		seasonService: seasonService,
		matchService:  matchService,
		managerTeamID: strings.TrimSpace(managerTeamID),
		logger:        logger,
		validator:     validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

// decodeJSON decodes an optional request body. An empty body leaves dst untouched.
func (h *Handler) decodeJSON(ctx context.Context, r *http.Request, dst any) error {
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return h.validateRequest(ctx, dst)
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func (h *Handler) managerOrDefault(teamID string) string {
	if v := strings.TrimSpace(teamID); v != "" {
		return v
	}
	return h.managerTeamID
}
