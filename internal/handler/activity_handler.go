package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/babytrack/internal/model"
	"github.com/hitoshi/babytrack/internal/tracker"
)

// ActivityServiceInterface はアクティビティハンドラーが必要とするサービスインターフェース。
type ActivityServiceInterface interface {
	// Now は現在時刻を返す。
	Now() time.Time
	// View は表示用のスナップショットを返す。
	View() tracker.View
	// Timeline は表示対象から新しい順に最大limit件を返す。
	Timeline(limit int) []model.Activity
	// StartActivity は記録可否を確認してからセッションを開始する。
	StartActivity(ctx context.Context, kind model.Kind) (model.Activity, bool, error)
	// StopActivity は計測中のセッションを終了する。
	StopActivity(ctx context.Context, kind model.Kind) *model.Activity
}

// ActivityHandler はアクティビティ記録のHTTPハンドラー。
type ActivityHandler struct {
	service ActivityServiceInterface
}

// NewActivityHandler はActivityHandlerを生成する。
func NewActivityHandler(service ActivityServiceInterface) *ActivityHandler {
	return &ActivityHandler{service: service}
}

// Snapshot は表示対象の記録、計測中セッション、プロフィール、記録可否をまとめて返す。
// GET /api/snapshot
func (h *ActivityHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	view := h.service.View()

	writeJSON(w, http.StatusOK, snapshotResponse{
		Now:         view.Now,
		Activities:  toActivityResponses(view.Visible),
		OpenSleep:   toOpenSessionPtr(view.OpenSleep, view.Now),
		OpenFeeding: toOpenSessionPtr(view.OpenFeeding, view.Now),
		Profile:     toProfileResponse(view.Profile),
		Gate:        toGateResponse(view.Gate),
		Premium:     view.Premium,
		Plan:        view.Plan,
	})
}

// ListActivities はタイムラインを返す。limit省略時は表示対象の全件。
// GET /api/activities?limit=N
func (h *ActivityHandler) ListActivities(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeAPIErrorResponse(w, http.StatusBadRequest, newInvalidRequestError(
				"limitの値が正しくありません。",
				"0以上の整数を指定してください。",
			))
			return
		}
		limit = n
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"activities": toActivityResponses(h.service.Timeline(limit)),
	})
}

// Start はセッションを開始する。
// 新規作成時は201、既に計測中の場合は既存セッションを200で返す。
// POST /api/activities/{kind}/start
func (h *ActivityHandler) Start(w http.ResponseWriter, r *http.Request) {
	kind, ok := parseKindParam(w, r)
	if !ok {
		return
	}

	a, created, err := h.service.StartActivity(r.Context(), kind)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, toOpenSessionResponse(a, h.service.Now()))
}

// Stop は計測中のセッションを終了し、確定した記録を返す。
// 計測中でなければ何もせず204を返す。
// POST /api/activities/{kind}/stop
func (h *ActivityHandler) Stop(w http.ResponseWriter, r *http.Request) {
	kind, ok := parseKindParam(w, r)
	if !ok {
		return
	}

	record := h.service.StopActivity(r.Context(), kind)
	if record == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, toActivityResponse(*record))
}

// parseKindParam はURLパラメータの種別を解析する。不正な場合は400を書き込みfalseを返す。
func parseKindParam(w http.ResponseWriter, r *http.Request) (model.Kind, bool) {
	raw := chi.URLParam(r, "kind")
	kind, err := model.ParseKind(raw)
	if err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidKindError(raw))
		return "", false
	}
	return kind, true
}
