package handler

import (
	"time"

	"github.com/hitoshi/babytrack/internal/model"
	"github.com/hitoshi/babytrack/internal/stats"
	"github.com/hitoshi/babytrack/internal/timer"
)

// activityResponse はアクティビティのAPIレスポンス。
type activityResponse struct {
	ID           string     `json:"id"`
	Type         string     `json:"type"`
	StartTime    time.Time  `json:"startTime"`
	EndTime      *time.Time `json:"endTime,omitempty"`
	Duration     *int64     `json:"duration,omitempty"`
	DurationText string     `json:"durationText,omitempty"`
	Notes        string     `json:"notes,omitempty"`
}

// openSessionResponse は計測中セッションのAPIレスポンス。
type openSessionResponse struct {
	activityResponse
	ElapsedSeconds int64  `json:"elapsedSeconds"`
	Elapsed        string `json:"elapsed"`
}

type profileResponse struct {
	Name      string `json:"name"`
	AgeMonths int    `json:"ageMonths"`
	BirthDate string `json:"birthDate"`
}

type gateResponse struct {
	CanAdd     bool `json:"canAdd"`
	Unlimited  bool `json:"unlimited"`
	Used       int  `json:"used"`
	Remaining  int  `json:"remaining"`
	Limit      int  `json:"limit"`
	WindowDays int  `json:"windowDays"`
}

// snapshotResponse は画面の初期表示に必要な状態をまとめたレスポンス。
type snapshotResponse struct {
	Now         time.Time            `json:"now"`
	Activities  []activityResponse   `json:"activities"`
	OpenSleep   *openSessionResponse `json:"openSleep"`
	OpenFeeding *openSessionResponse `json:"openFeeding"`
	Profile     profileResponse      `json:"profile"`
	Gate        gateResponse         `json:"gate"`
	Premium     bool                 `json:"premium"`
	Plan        string               `json:"plan"`
}

type hourBucketResponse struct {
	Hour           int    `json:"hour"`
	Label          string `json:"label"`
	SleepMinutes   int64  `json:"sleepMinutes"`
	FeedingMinutes int64  `json:"feedingMinutes"`
}

type kindTotalResponse struct {
	Type  string `json:"type"`
	Hours int64  `json:"hours"`
	Color string `json:"color"`
}

type overviewResponse struct {
	TotalSleepSessions   int   `json:"totalSleepSessions"`
	TotalFeedingSessions int   `json:"totalFeedingSessions"`
	TodaySleepSessions   int   `json:"todaySleepSessions"`
	TodayFeedingSessions int   `json:"todayFeedingSessions"`
	AvgSleepMinutes      int64 `json:"avgSleepMinutes"`
	AvgFeedingMinutes    int64 `json:"avgFeedingMinutes"`
}

// statsResponse は統計画面のレスポンス。
type statsResponse struct {
	Now      time.Time            `json:"now"`
	Today    []hourBucketResponse `json:"today"`
	Totals   []kindTotalResponse  `json:"totals"`
	Overview overviewResponse     `json:"overview"`
}

type tipResponse struct {
	RuleID  string `json:"ruleId"`
	Title   string `json:"title"`
	Body    string `json:"body"`
	Style   string `json:"style"`
	Premium bool   `json:"premium"`
}

type tipsResponse struct {
	Tips        []tipResponse `json:"tips"`
	PremiumTips []tipResponse `json:"premiumTips"`
}

type planResponse struct {
	Name        string   `json:"name"`
	DisplayName string   `json:"displayName"`
	PriceYen    int      `json:"priceYen"`
	Period      string   `json:"period,omitempty"`
	Features    []string `json:"features"`
	Purchasable bool     `json:"purchasable"`
}

type plansResponse struct {
	Plans   []planResponse `json:"plans"`
	Premium bool           `json:"premium"`
}

type upgradeResponse struct {
	Plan    planResponse `json:"plan"`
	Premium bool         `json:"premium"`
}

// --- 変換 ---

func toActivityResponse(a model.Activity) activityResponse {
	resp := activityResponse{
		ID:        a.ID,
		Type:      string(a.Kind),
		StartTime: a.StartTime,
		EndTime:   a.EndTime,
		Duration:  a.Duration,
		Notes:     a.Notes,
	}
	if a.Duration != nil {
		resp.DurationText = stats.FormatDuration(*a.Duration)
	}
	return resp
}

func toActivityResponses(activities []model.Activity) []activityResponse {
	out := make([]activityResponse, len(activities))
	for i, a := range activities {
		out[i] = toActivityResponse(a)
	}
	return out
}

func toOpenSessionResponse(a model.Activity, now time.Time) openSessionResponse {
	elapsed := a.Elapsed(now)
	return openSessionResponse{
		activityResponse: toActivityResponse(a),
		ElapsedSeconds:   int64(elapsed / time.Second),
		Elapsed:          timer.FormatElapsed(elapsed),
	}
}

func toOpenSessionPtr(a *model.Activity, now time.Time) *openSessionResponse {
	if a == nil {
		return nil
	}
	resp := toOpenSessionResponse(*a, now)
	return &resp
}

func toProfileResponse(p model.BabyProfile) profileResponse {
	return profileResponse{Name: p.Name, AgeMonths: p.AgeMonths, BirthDate: p.BirthDate}
}

func toGateResponse(g stats.Gate) gateResponse {
	return gateResponse{
		CanAdd:     g.CanAdd,
		Unlimited:  g.Unlimited,
		Used:       g.Used,
		Remaining:  g.Remaining,
		Limit:      g.Limit,
		WindowDays: g.WindowDays,
	}
}

func toStatsResponse(d stats.Dashboard) statsResponse {
	resp := statsResponse{
		Now:    d.Now,
		Today:  make([]hourBucketResponse, len(d.Today)),
		Totals: make([]kindTotalResponse, len(d.Totals)),
		Overview: overviewResponse{
			TotalSleepSessions:   d.Overview.TotalSleepSessions,
			TotalFeedingSessions: d.Overview.TotalFeedingSessions,
			TodaySleepSessions:   d.Overview.TodaySleepSessions,
			TodayFeedingSessions: d.Overview.TodayFeedingSessions,
			AvgSleepMinutes:      d.Overview.AvgSleepMinutes,
			AvgFeedingMinutes:    d.Overview.AvgFeedingMinutes,
		},
	}
	for i, b := range d.Today {
		resp.Today[i] = hourBucketResponse{
			Hour:           b.Hour,
			Label:          b.Label,
			SleepMinutes:   b.SleepMinutes,
			FeedingMinutes: b.FeedingMinutes,
		}
	}
	for i, t := range d.Totals {
		resp.Totals[i] = kindTotalResponse{Type: string(t.Kind), Hours: t.Hours, Color: t.Color}
	}
	return resp
}

func toTipResponses(tips []model.Tip) []tipResponse {
	out := make([]tipResponse, len(tips))
	for i, t := range tips {
		out[i] = tipResponse{
			RuleID:  t.RuleID,
			Title:   t.Title,
			Body:    t.Body,
			Style:   t.Style,
			Premium: t.Premium,
		}
	}
	return out
}

func toPlanResponse(p model.Plan) planResponse {
	features := p.Features
	if features == nil {
		features = []string{}
	}
	return planResponse{
		Name:        p.Name,
		DisplayName: p.DisplayName,
		PriceYen:    p.PriceYen,
		Period:      p.Period,
		Features:    features,
		Purchasable: p.Purchasable,
	}
}
