package handler

import (
	"net/http"

	"github.com/hitoshi/babytrack/internal/stats"
)

// InsightServiceInterface は統計・ヒントハンドラーが必要とするサービスインターフェース。
type InsightServiceInterface interface {
	// Dashboard は現在時刻時点の導出値を返す。
	Dashboard() stats.Dashboard
}

// InsightHandler は統計とヒントのHTTPハンドラー。
type InsightHandler struct {
	service InsightServiceInterface
}

// NewInsightHandler はInsightHandlerを生成する。
func NewInsightHandler(service InsightServiceInterface) *InsightHandler {
	return &InsightHandler{service: service}
}

// Stats は今日の時間帯別集計、種別ごとの合計、概要を返す。
// GET /api/stats
func (h *InsightHandler) Stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toStatsResponse(h.service.Dashboard()))
}

// Tips は基本ヒントとプレミアムヒントを返す。
// GET /api/tips
func (h *InsightHandler) Tips(w http.ResponseWriter, r *http.Request) {
	d := h.service.Dashboard()
	writeJSON(w, http.StatusOK, tipsResponse{
		Tips:        toTipResponses(d.Tips),
		PremiumTips: toTipResponses(d.PremiumTips),
	})
}
