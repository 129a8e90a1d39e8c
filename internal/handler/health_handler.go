package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/hitoshi/babytrack/internal/repository"
)

// healthCheckTimeout は永続化先への疎通確認のタイムアウト。
const healthCheckTimeout = 3 * time.Second

// HealthHandler はヘルスチェックのHTTPハンドラー。
type HealthHandler struct {
	checker repository.Pinger
}

// NewHealthHandler はHealthHandlerを生成する。checkerがnilの場合は常にokを返す。
func NewHealthHandler(checker repository.Pinger) *HealthHandler {
	return &HealthHandler{checker: checker}
}

// Health は稼働状態を返す。永続化先に疎通できない場合は503を返す。
// GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if h.checker != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()

		if err := h.checker.PingContext(ctx); err != nil {
			slog.Warn("ヘルスチェックで永続化先に接続できません", slog.String("error", err.Error()))
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
