package httpapi

import (
	"net/http"
)

func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetStats")
	defer span.End()

	yearRange, err := h.bindYearRange(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	stats, err := h.historyService.Stats(ctx, yearRange)
	if err != nil {
		h.logger.WarnContext(ctx, "get stats failed", "start_year", yearRange.StartYear, "end_year", yearRange.EndYear, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, stats)
}

func (h *Handler) GetFinishes(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetFinishes")
	defer span.End()

	yearRange, err := h.bindYearRange(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	finishes, err := h.historyService.Finishes(ctx, yearRange)
	if err != nil {
		h.logger.WarnContext(ctx, "get finishes failed", "start_year", yearRange.StartYear, "end_year", yearRange.EndYear, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, finishes)
}

func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetHistory")
	defer span.End()

	yearRange, err := h.bindYearRange(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	history, err := h.historyService.History(ctx, yearRange)
	if err != nil {
		h.logger.WarnContext(ctx, "get history failed", "start_year", yearRange.StartYear, "end_year", yearRange.EndYear, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, history)
}

func (h *Handler) GetSeason(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSeason")
	defer span.End()

	year, err := h.bindSeasonYear(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	record, err := h.historyService.Season(ctx, year)
	if err != nil {
		h.logger.WarnContext(ctx, "get season failed", "year", year, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, record)
}

func (h *Handler) GetWeeklyScores(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetWeeklyScores")
	defer span.End()

	year, err := h.bindSeasonYear(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	weeks, err := h.historyService.WeeklyScores(ctx, year)
	if err != nil {
		h.logger.WarnContext(ctx, "get weekly scores failed", "year", year, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, weeks)
}

func (h *Handler) RefreshSeason(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RefreshSeason")
	defer span.End()

	year, err := h.bindSeasonYear(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	record, err := h.historyService.RefreshSeason(ctx, year)
	if err != nil {
		h.logger.WarnContext(ctx, "refresh season failed", "year", year, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, record)
}
