// Package stats はアクティビティ記録から表示用の集計値を導出する純粋関数群を提供する。
//
// すべての関数は入力スナップショットと基準時刻 now のみに依存し、
// 内部状態や乱数を持たない。時刻の「今日」「時」は now のロケーションで判定する。
package stats

import (
	"fmt"
	"time"

	"github.com/hitoshi/babytrack/internal/model"
)

// 無料プランの既定値
const (
	DefaultTrialWindowDays = 3
	DefaultTrialCap        = 10
	HomeTimelineSize       = 5
)

// Input は導出処理の入力。Activities は終了済みセッションを新しい順に並べたもの。
type Input struct {
	Activities      []model.Activity
	Now             time.Time
	TrialWindowDays int
	TrialCap        int
	IsPremium       bool
}

// WindowStart は無料プランの表示・記録制限の起点時刻を返す。
// 暦日単位で遡るため、夏時間の切り替えがあっても時刻部分は保たれる。
func WindowStart(now time.Time, windowDays int) time.Time {
	return now.AddDate(0, 0, -windowDays)
}

// Visible は表示対象のアクティビティを返す。
// プレミアムの場合は全件、無料の場合は制限期間内に開始したものだけを返す。
// 並び順は入力のまま保持する。
func Visible(in Input) []model.Activity {
	if in.IsPremium {
		return append([]model.Activity(nil), in.Activities...)
	}
	start := WindowStart(in.Now, in.TrialWindowDays)
	visible := make([]model.Activity, 0, len(in.Activities))
	for _, a := range in.Activities {
		if !a.StartTime.Before(start) {
			visible = append(visible, a)
		}
	}
	return visible
}

// Gate は無料プランの記録可否を表す。
type Gate struct {
	CanAdd     bool
	Unlimited  bool
	Used       int
	Remaining  int
	Limit      int
	WindowDays int
}

// TrialGate は新しいセッションを開始できるかどうかを判定する。
func TrialGate(in Input) Gate {
	start := WindowStart(in.Now, in.TrialWindowDays)
	used := 0
	for _, a := range in.Activities {
		if !a.StartTime.Before(start) {
			used++
		}
	}

	g := Gate{
		Unlimited:  in.IsPremium,
		Used:       used,
		Limit:      in.TrialCap,
		WindowDays: in.TrialWindowDays,
	}
	g.CanAdd = in.IsPremium || used < in.TrialCap
	if !in.IsPremium && used < in.TrialCap {
		g.Remaining = in.TrialCap - used
	}
	return g
}

// Timeline は表示対象のうち新しいものから最大n件を返す。nが0以下なら全件を返す。
func Timeline(visible []model.Activity, n int) []model.Activity {
	if n <= 0 || n > len(visible) {
		n = len(visible)
	}
	return append([]model.Activity(nil), visible[:n]...)
}

// FormatDuration はタイムライン表示用に秒数を "1h 5m" / "45m" 形式へ変換する。
func FormatDuration(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}

// sameDay は t が now と同じ暦日（now のロケーション）かどうかを返す。
func sameDay(t, now time.Time) bool {
	t = t.In(now.Location())
	y1, m1, d1 := t.Date()
	y2, m2, d2 := now.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// localHour は t の now のロケーションでの時(0-23)を返す。
func localHour(t, now time.Time) int {
	return t.In(now.Location()).Hour()
}

// byKind は記録済み（Durationあり）のアクティビティを種別で絞り込む。
func byKind(activities []model.Activity, kind model.Kind) []model.Activity {
	out := make([]model.Activity, 0, len(activities))
	for _, a := range activities {
		if a.Kind == kind && a.Duration != nil {
			out = append(out, a)
		}
	}
	return out
}

func meanSeconds(activities []model.Activity) float64 {
	if len(activities) == 0 {
		return 0
	}
	var sum int64
	for _, a := range activities {
		sum += a.DurationSeconds()
	}
	return float64(sum) / float64(len(activities))
}
