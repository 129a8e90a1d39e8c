// Package timer は計測中セッションの経過時間表示を提供する。
// 表示専用であり、記録される長さはストアの停止時刻から算出される。
package timer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// DefaultInterval は表示の更新間隔。
const DefaultInterval = time.Second

// ErrDone はemitが表示の終了を要求するときに返す。Runはこれをエラーとして扱わない。
var ErrDone = errors.New("timer done")

// Tick は1回分の表示内容。
type Tick struct {
	Elapsed time.Duration
	Display string
}

// FormatElapsed は経過時間を MM:SS、1時間以上は HH:MM:SS で返す。
// 1秒未満は切り捨て、負の値は0として扱う。
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

// Ticker は一定間隔で経過時間を通知する。
type Ticker struct {
	interval time.Duration
	now      func() time.Time
	logger   *slog.Logger
}

// NewTicker はTickerを生成する。intervalが0以下の場合は1秒を使う。
func NewTicker(interval time.Duration, now func() time.Time, logger *slog.Logger) *Ticker {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Ticker{interval: interval, now: now, logger: logger}
}

// Run は開始直後と以降interval毎にemitを呼び出す。
// ctxのキャンセル、またはemitがエラーを返すまでブロックする。
// 内部のtime.Tickerはどの経路で終了しても解放される。
func (t *Ticker) Run(ctx context.Context, start time.Time, emit func(Tick) error) error {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	send := func() error {
		elapsed := t.now().Sub(start)
		if elapsed < 0 {
			elapsed = 0
		}
		return emit(Tick{Elapsed: elapsed, Display: FormatElapsed(elapsed)})
	}

	if err := send(); err != nil {
		return t.finish(err)
	}

	for {
		select {
		case <-ctx.Done():
			t.logger.Debug("timer stopped", slog.String("reason", ctx.Err().Error()))
			return nil
		case <-ticker.C:
			if err := send(); err != nil {
				return t.finish(err)
			}
		}
	}
}

func (t *Ticker) finish(err error) error {
	if errors.Is(err, ErrDone) {
		return nil
	}
	return err
}
