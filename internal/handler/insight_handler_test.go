package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hitoshi/babytrack/internal/model"
	"github.com/hitoshi/babytrack/internal/stats"
)

func TestInsightHandler_Stats(t *testing.T) {
	now := time.Date(2026, 10, 17, 15, 0, 0, 0, jst)
	svc := &mockInsightService{
		dashboardFn: func() stats.Dashboard {
			return stats.Dashboard{
				Now:   now,
				Today: []stats.HourBucket{{Hour: 14, Label: "14:00", SleepMinutes: 70}},
				Totals: []stats.KindTotal{
					{Kind: model.KindSleep, Hours: 2, Color: stats.ColorSleep},
					{Kind: model.KindFeeding, Hours: 0, Color: stats.ColorFeeding},
				},
				Overview: stats.Overview{TotalSleepSessions: 3, AvgSleepMinutes: 45},
			}
		},
	}
	h := NewInsightHandler(svc)

	w := httptest.NewRecorder()
	h.Stats(w, httptest.NewRequest(http.MethodGet, "/api/stats", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	resp := decodeJSON[statsResponse](t, w)
	if len(resp.Today) != 1 || resp.Today[0].Label != "14:00" || resp.Today[0].SleepMinutes != 70 {
		t.Errorf("today = %+v", resp.Today)
	}
	if len(resp.Totals) != 2 || resp.Totals[0].Color != "#A855F7" || resp.Totals[1].Type != "feeding" {
		t.Errorf("totals = %+v", resp.Totals)
	}
	if resp.Overview.TotalSleepSessions != 3 || resp.Overview.AvgSleepMinutes != 45 {
		t.Errorf("overview = %+v", resp.Overview)
	}
}

// TestInsightHandler_Tips は無料プランでもpremiumTipsが空配列になることを検証する。
func TestInsightHandler_Tips(t *testing.T) {
	svc := &mockInsightService{
		dashboardFn: func() stats.Dashboard {
			return stats.Dashboard{
				Tips: []model.Tip{{RuleID: stats.TipWelcome, Title: "ようこそ", Body: "記録を始めましょう", Style: "info"}},
			}
		},
	}
	h := NewInsightHandler(svc)

	w := httptest.NewRecorder()
	h.Tips(w, httptest.NewRequest(http.MethodGet, "/api/tips", nil))

	resp := decodeJSON[map[string][]map[string]any](t, w)
	if len(resp["tips"]) != 1 || resp["tips"][0]["ruleId"] != stats.TipWelcome {
		t.Errorf("tips = %v", resp["tips"])
	}
	if resp["premiumTips"] == nil || len(resp["premiumTips"]) != 0 {
		t.Errorf("premiumTips = %v, want []", resp["premiumTips"])
	}
}
