package tracker

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hitoshi/babytrack/internal/model"
)

// timestampLayout はミリ秒精度のUTC ISO-8601形式。
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// activityRecord は永続化スロット上のアクティビティ表現。
type activityRecord struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Duration  *int64 `json:"duration"`
	Notes     string `json:"notes,omitempty"`
}

// profileRecord は永続化スロット上のプロフィール表現。
type profileRecord struct {
	Name      string `json:"name"`
	AgeMonths int    `json:"ageMonths"`
	BirthDate string `json:"birthDate"`
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func toRecord(a model.Activity) activityRecord {
	r := activityRecord{
		ID:        a.ID,
		Type:      string(a.Kind),
		StartTime: formatTimestamp(a.StartTime),
		Duration:  a.Duration,
		Notes:     a.Notes,
	}
	if a.EndTime != nil {
		r.EndTime = formatTimestamp(*a.EndTime)
	}
	return r
}

func fromRecord(r activityRecord) (model.Activity, error) {
	if r.ID == "" {
		return model.Activity{}, errors.New("missing id")
	}
	kind, err := model.ParseKind(r.Type)
	if err != nil {
		return model.Activity{}, err
	}
	start, err := time.Parse(time.RFC3339Nano, r.StartTime)
	if err != nil {
		return model.Activity{}, fmt.Errorf("invalid startTime: %w", err)
	}
	end, err := time.Parse(time.RFC3339Nano, r.EndTime)
	if err != nil {
		return model.Activity{}, fmt.Errorf("invalid endTime: %w", err)
	}
	if r.Duration == nil || *r.Duration < 0 {
		return model.Activity{}, errors.New("missing or negative duration")
	}
	d := *r.Duration
	return model.Activity{
		ID:        r.ID,
		Kind:      kind,
		StartTime: start,
		EndTime:   &end,
		Duration:  &d,
		Notes:     r.Notes,
	}, nil
}

// encodeActivities は終了済みアクティビティの一覧をJSON配列に変換する。
func encodeActivities(activities []model.Activity) ([]byte, error) {
	records := make([]activityRecord, 0, len(activities))
	for _, a := range activities {
		records = append(records, toRecord(a))
	}
	return json.Marshal(records)
}

// decodeActivities はJSON配列を復元する。1件でも不正なレコードがあればエラーを返す。
func decodeActivities(data []byte) ([]model.Activity, error) {
	var records []activityRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to unmarshal activities: %w", err)
	}
	activities := make([]model.Activity, 0, len(records))
	for i, r := range records {
		a, err := fromRecord(r)
		if err != nil {
			return nil, fmt.Errorf("invalid activity at index %d: %w", i, err)
		}
		activities = append(activities, a)
	}
	return activities, nil
}

func encodeProfile(p model.BabyProfile) ([]byte, error) {
	return json.Marshal(profileRecord{Name: p.Name, AgeMonths: p.AgeMonths, BirthDate: p.BirthDate})
}

func decodeProfile(data []byte) (model.BabyProfile, error) {
	var r profileRecord
	if err := json.Unmarshal(data, &r); err != nil {
		return model.BabyProfile{}, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	return model.BabyProfile{Name: r.Name, AgeMonths: r.AgeMonths, BirthDate: r.BirthDate}, nil
}
