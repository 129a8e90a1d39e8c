package stats

import (
	"reflect"
	"testing"
	"time"

	"github.com/hitoshi/babytrack/internal/model"
)

var jst = time.FixedZone("JST", 9*60*60)

// closed は終了済みのアクティビティを生成するテストヘルパー。
func closed(id string, kind model.Kind, start time.Time, seconds int64) model.Activity {
	end := start.Add(time.Duration(seconds) * time.Second)
	d := seconds
	return model.Activity{ID: id, Kind: kind, StartTime: start, EndTime: &end, Duration: &d}
}

func at(day, hour, minute int) time.Time {
	return time.Date(2026, 10, day, hour, minute, 0, 0, jst)
}

func ids(activities []model.Activity) []string {
	out := make([]string, 0, len(activities))
	for _, a := range activities {
		out = append(out, a.ID)
	}
	return out
}

func TestVisible_FiltersByTrialWindow(t *testing.T) {
	now := at(17, 12, 0)
	activities := []model.Activity{
		closed("today", model.KindSleep, at(17, 9, 0), 600),
		closed("boundary", model.KindFeeding, at(14, 12, 0), 600),
		closed("old", model.KindSleep, at(14, 11, 59), 600),
	}

	in := Input{Activities: activities, Now: now, TrialWindowDays: 3, TrialCap: 10}
	if got, want := ids(Visible(in)), []string{"today", "boundary"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Visible(free) = %v, want %v", got, want)
	}

	in.IsPremium = true
	if got := Visible(in); len(got) != 3 {
		t.Errorf("Visible(premium) len = %d, want 3", len(got))
	}
}

func TestTrialGate(t *testing.T) {
	now := at(17, 12, 0)
	var activities []model.Activity
	for i := 0; i < 10; i++ {
		activities = append(activities, closed("a", model.KindSleep, now.Add(-time.Duration(i+1)*time.Hour), 60))
	}
	// 期間外の記録は上限に数えない
	activities = append(activities, closed("old", model.KindSleep, at(10, 12, 0), 60))

	tests := []struct {
		name          string
		activities    []model.Activity
		premium       bool
		wantCanAdd    bool
		wantRemaining int
	}{
		{"上限到達", activities, false, false, 0},
		{"残り1件", activities[1:], false, true, 1},
		{"空", nil, false, true, 10},
		{"プレミアムは無制限", activities, true, true, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := TrialGate(Input{Activities: tt.activities, Now: now, TrialWindowDays: 3, TrialCap: 10, IsPremium: tt.premium})
			if g.CanAdd != tt.wantCanAdd {
				t.Errorf("CanAdd = %v, want %v", g.CanAdd, tt.wantCanAdd)
			}
			if g.Remaining != tt.wantRemaining {
				t.Errorf("Remaining = %d, want %d", g.Remaining, tt.wantRemaining)
			}
			if g.Unlimited != tt.premium {
				t.Errorf("Unlimited = %v, want %v", g.Unlimited, tt.premium)
			}
		})
	}
}

func TestTimeline(t *testing.T) {
	var visible []model.Activity
	for _, id := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		visible = append(visible, model.Activity{ID: id})
	}
	if got, want := ids(Timeline(visible, 5)), []string{"a", "b", "c", "d", "e"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Timeline(5) = %v, want %v", got, want)
	}
	if got := Timeline(visible[:2], 5); len(got) != 2 {
		t.Errorf("Timeline(short) len = %d, want 2", len(got))
	}
	if got := Timeline(visible, 0); len(got) != 7 {
		t.Errorf("Timeline(0) len = %d, want 7", len(got))
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		seconds int64
		want    string
	}{
		{0, "0m"},
		{59, "0m"},
		{2700, "45m"},
		{3600, "1h 0m"},
		{3900, "1h 5m"},
		{-5, "0m"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.seconds); got != tt.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

// TestDerive_Idempotent は同じ入力から同じ結果が得られることを検証する。
func TestDerive_Idempotent(t *testing.T) {
	now := at(17, 23, 0)
	activities := []model.Activity{
		closed("1", model.KindFeeding, at(17, 20, 0), 900),
		closed("2", model.KindSleep, at(17, 14, 10), 1800),
		closed("3", model.KindFeeding, at(17, 11, 0), 1200),
		closed("4", model.KindSleep, at(16, 21, 0), 14400),
		closed("5", model.KindFeeding, at(16, 18, 0), 600),
		closed("6", model.KindSleep, at(16, 13, 0), 3600),
	}
	in := Input{Activities: activities, Now: now, TrialWindowDays: 3, TrialCap: 10, IsPremium: true}

	first := Derive(in)
	second := Derive(in)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Derive is not deterministic:\nfirst  = %+v\nsecond = %+v", first, second)
	}
	if len(first.PremiumTips) == 0 {
		t.Error("expected premium tips for premium input")
	}
}

// TestDerive_EmptyLog は記録が空の場合の導出結果を検証する。
func TestDerive_EmptyLog(t *testing.T) {
	d := Derive(Input{Now: at(17, 12, 0), TrialWindowDays: 3, TrialCap: 10})

	if len(d.Tips) != 1 || d.Tips[0].RuleID != TipWelcome {
		t.Errorf("Tips = %+v, want single welcome tip", d.Tips)
	}
	if d.Overview != (Overview{}) {
		t.Errorf("Overview = %+v, want zero", d.Overview)
	}
	if len(d.Today) != 0 {
		t.Errorf("Today = %+v, want empty", d.Today)
	}
	if len(d.PremiumTips) != 0 {
		t.Errorf("PremiumTips = %+v, want none for free plan", d.PremiumTips)
	}
	if !d.Gate.CanAdd || d.Gate.Remaining != 10 {
		t.Errorf("Gate = %+v", d.Gate)
	}
}
