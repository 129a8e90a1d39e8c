package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/hitoshi/babytrack/internal/model"
	"github.com/hitoshi/babytrack/internal/timer"
)

// TimerServiceInterface はタイマーハンドラーが必要とするサービスインターフェース。
type TimerServiceInterface interface {
	Now() time.Time
	OpenSession(kind model.Kind) (model.Activity, bool)
}

// TimerHandler は計測中セッションの経過時間をServer-Sent Eventsで配信する。
type TimerHandler struct {
	service  TimerServiceInterface
	interval time.Duration
	logger   *slog.Logger
}

// NewTimerHandler はTimerHandlerを生成する。
func NewTimerHandler(service TimerServiceInterface, interval time.Duration, logger *slog.Logger) *TimerHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TimerHandler{service: service, interval: interval, logger: logger}
}

type tickEvent struct {
	ID             string `json:"id"`
	ElapsedSeconds int64  `json:"elapsedSeconds"`
	Elapsed        string `json:"elapsed"`
}

// Stream は経過時間を tick イベントとして送り続ける。
// クライアントの切断、またはセッションの終了で配信を終える。終了時は stopped イベントを送る。
// GET /api/activities/{kind}/timer
func (h *TimerHandler) Stream(w http.ResponseWriter, r *http.Request) {
	kind, ok := parseKindParam(w, r)
	if !ok {
		return
	}

	session, open := h.service.OpenSession(kind)
	if !open {
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewNoOpenSessionError(kind))
		return
	}

	rc := http.NewResponseController(w)
	// サーバーのWriteTimeoutで長時間の配信が切られないようにする
	_ = rc.SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	ticker := timer.NewTicker(h.interval, h.service.Now, h.logger)
	err := ticker.Run(r.Context(), session.StartTime, func(t timer.Tick) error {
		current, open := h.service.OpenSession(kind)
		if !open || current.ID != session.ID {
			if err := writeEvent(w, "stopped", map[string]string{"id": session.ID}); err != nil {
				return err
			}
			rc.Flush()
			return timer.ErrDone
		}

		if err := writeEvent(w, "tick", tickEvent{
			ID:             session.ID,
			ElapsedSeconds: int64(t.Elapsed / time.Second),
			Elapsed:        t.Display,
		}); err != nil {
			return err
		}
		return rc.Flush()
	})
	if err != nil {
		h.logger.Debug("timer stream closed",
			slog.String("kind", string(kind)),
			slog.String("error", err.Error()),
		)
	}
}

// writeEvent はSSEの1イベントを書き込む。
func writeEvent(w io.Writer, name string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, payload)
	return err
}
