package stats

import (
	"time"

	"github.com/hitoshi/babytrack/internal/model"
)

// Dashboard は画面表示に必要な導出値をまとめたもの。
type Dashboard struct {
	Now         time.Time
	Visible     []model.Activity
	Timeline    []model.Activity
	Gate        Gate
	Today       []HourBucket
	Totals      []KindTotal
	Overview    Overview
	Tips        []model.Tip
	PremiumTips []model.Tip
}

// Derive は入力から全ての導出値を計算する。同じ入力には常に同じ結果を返す。
func Derive(in Input) Dashboard {
	visible := Visible(in)

	d := Dashboard{
		Now:      in.Now,
		Visible:  visible,
		Timeline: Timeline(visible, HomeTimelineSize),
		Gate:     TrialGate(in),
		Today:    TodayBuckets(visible, in.Now),
		Totals:   Totals(visible),
		Overview: Summarize(visible, in.Now),
		Tips:     BasicTips(visible, in.Now),
	}
	if in.IsPremium {
		d.PremiumTips = PremiumTips(visible, in.Now)
	}
	return d
}
