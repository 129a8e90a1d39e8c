package timer

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00"},
		{999 * time.Millisecond, "00:00"},
		{65 * time.Second, "01:05"},
		{59*time.Minute + 59*time.Second, "59:59"},
		{time.Hour, "01:00:00"},
		{2*time.Hour + 3*time.Minute + 4*time.Second, "02:03:04"},
		{-time.Second, "00:00"},
	}
	for _, tt := range tests {
		if got := FormatElapsed(tt.d); got != tt.want {
			t.Errorf("FormatElapsed(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

// TestTicker_EmitsImmediatelyAndStopsOnDone は開始直後に通知し、ErrDoneで正常終了することを検証する。
func TestTicker_EmitsImmediatelyAndStopsOnDone(t *testing.T) {
	start := time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)
	now := start.Add(75 * time.Second)
	tk := NewTicker(time.Millisecond, func() time.Time { return now }, nil)

	var ticks []Tick
	err := tk.Run(context.Background(), start, func(tick Tick) error {
		ticks = append(ticks, tick)
		if len(ticks) == 3 {
			return ErrDone
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(ticks) != 3 {
		t.Fatalf("ticks = %d, want 3", len(ticks))
	}
	if ticks[0].Display != "01:15" || ticks[0].Elapsed != 75*time.Second {
		t.Errorf("first tick = %+v", ticks[0])
	}
}

func TestTicker_ReturnsEmitError(t *testing.T) {
	boom := errors.New("write failed")
	tk := NewTicker(time.Millisecond, nil, nil)

	err := tk.Run(context.Background(), time.Now(), func(Tick) error { return boom })
	if !errors.Is(err, boom) {
		t.Errorf("Run() = %v, want %v", err, boom)
	}
}

// TestTicker_StopsOnContextCancel はコンテキストのキャンセルで終了することを検証する。
func TestTicker_StopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	tk := NewTicker(time.Hour, nil, nil)

	done := make(chan error, 1)
	emitted := make(chan struct{}, 1)
	go func() {
		done <- tk.Run(ctx, time.Now(), func(Tick) error {
			select {
			case emitted <- struct{}{}:
			default:
			}
			return nil
		})
	}()

	<-emitted
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() = %v, want nil", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
