package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/league-history/internal/platform/logging"
	"github.com/riskibarqy/league-history/internal/usecase"
)

type Handler struct {
	historyService *usecase.HistoryService
	logger         *logging.Logger
	validator      *validator.Validate
}

func NewHandler(historyService *usecase.HistoryService, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		historyService: historyService,
		logger:         logger,
		validator:      validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

// yearRangeQuery leaves a bound zero when the parameter is absent so the
// service can apply its defaults.
type yearRangeQuery struct {
	StartYear int `validate:"omitempty,gte=1990,lte=2100"`
	EndYear   int `validate:"omitempty,gte=1990,lte=2100"`
}

type seasonPath struct {
	Year int `validate:"required,gte=1990,lte=2100"`
}

func (h *Handler) bindYearRange(ctx context.Context, r *http.Request) (usecase.YearRange, error) {
	query := r.URL.Query()

	var req yearRangeQuery
	var err error
	if req.StartYear, err = optionalYearParam(query.Get("startYear"), "startYear"); err != nil {
		return usecase.YearRange{}, err
	}
	if req.EndYear, err = optionalYearParam(query.Get("endYear"), "endYear"); err != nil {
		return usecase.YearRange{}, err
	}
	if err := h.validateRequest(ctx, req); err != nil {
		return usecase.YearRange{}, err
	}

	return h.historyService.ResolveRange(req.StartYear, req.EndYear)
}

func (h *Handler) bindSeasonYear(ctx context.Context, r *http.Request) (int, error) {
	raw := strings.TrimSpace(r.PathValue("year"))
	year, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: year must be an integer, got %q", usecase.ErrInvalidInput, raw)
	}

	req := seasonPath{Year: year}
	if err := h.validateRequest(ctx, req); err != nil {
		return 0, err
	}
	return req.Year, nil
}

func optionalYearParam(raw, name string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer, got %q", usecase.ErrInvalidInput, name, raw)
	}
	return value, nil
}
