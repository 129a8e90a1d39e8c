package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/babytrack/internal/model"
)

// PlanServiceInterface は料金プランハンドラーが必要とするサービスインターフェース。
type PlanServiceInterface interface {
	Plans() []model.Plan
	IsPremium() bool
	// Upgrade は指定プランへ切り替える。決済は行わない。
	Upgrade(ctx context.Context, name string) (model.Plan, error)
}

// PlanHandler は料金プランのHTTPハンドラー。
type PlanHandler struct {
	service PlanServiceInterface
}

// NewPlanHandler はPlanHandlerを生成する。
func NewPlanHandler(service PlanServiceInterface) *PlanHandler {
	return &PlanHandler{service: service}
}

// ListPlans は料金プランの一覧と現在のプレミアム状態を返す。
// GET /api/plans
func (h *PlanHandler) ListPlans(w http.ResponseWriter, r *http.Request) {
	plans := h.service.Plans()
	resp := plansResponse{
		Plans:   make([]planResponse, len(plans)),
		Premium: h.service.IsPremium(),
	}
	for i, p := range plans {
		resp.Plans[i] = toPlanResponse(p)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Upgrade は指定プランへアップグレードする。
// POST /api/plans/{name}/upgrade
func (h *PlanHandler) Upgrade(w http.ResponseWriter, r *http.Request) {
	plan, err := h.service.Upgrade(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, upgradeResponse{
		Plan:    toPlanResponse(plan),
		Premium: h.service.IsPremium(),
	})
}
