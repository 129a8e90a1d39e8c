package stats

import (
	"fmt"
	"math"
	"time"

	"github.com/hitoshi/babytrack/internal/model"
)

// 種別ごとの表示色
const (
	ColorSleep   = "#A855F7"
	ColorFeeding = "#EC4899"
)

// HourBucket は今日の1時間あたりの合計分数。
type HourBucket struct {
	Hour           int
	Label          string
	SleepMinutes   int64
	FeedingMinutes int64
}

// KindTotal は種別ごとの合計時間（時間単位、切り捨て）。
type KindTotal struct {
	Kind  model.Kind
	Hours int64
	Color string
}

// Overview は件数と平均時間の概要。
type Overview struct {
	TotalSleepSessions   int
	TotalFeedingSessions int
	TodaySleepSessions   int
	TodayFeedingSessions int
	AvgSleepMinutes      int64
	AvgFeedingMinutes    int64
}

// roundMinutes は秒数を最も近い整数分に丸める。
func roundMinutes(seconds float64) int64 {
	return int64(math.Round(seconds / 60))
}

// TodayBuckets は now と同じ暦日に開始したアクティビティを開始時刻の「時」で集計する。
// 両種別とも0分の時間帯は結果に含めず、0時から昇順に並べる。
func TodayBuckets(visible []model.Activity, now time.Time) []HourBucket {
	var sleep, feeding [24]int64
	for _, a := range visible {
		if a.Duration == nil || !sameDay(a.StartTime, now) {
			continue
		}
		h := localHour(a.StartTime, now)
		minutes := roundMinutes(float64(*a.Duration))
		switch a.Kind {
		case model.KindSleep:
			sleep[h] += minutes
		case model.KindFeeding:
			feeding[h] += minutes
		}
	}

	var buckets []HourBucket
	for h := 0; h < 24; h++ {
		if sleep[h] == 0 && feeding[h] == 0 {
			continue
		}
		buckets = append(buckets, HourBucket{
			Hour:           h,
			Label:          fmt.Sprintf("%02d:00", h),
			SleepMinutes:   sleep[h],
			FeedingMinutes: feeding[h],
		})
	}
	return buckets
}

// Totals は表示対象全体の種別ごとの合計時間を返す。
func Totals(visible []model.Activity) []KindTotal {
	var sleepSec, feedingSec int64
	for _, a := range visible {
		switch a.Kind {
		case model.KindSleep:
			sleepSec += a.DurationSeconds()
		case model.KindFeeding:
			feedingSec += a.DurationSeconds()
		}
	}
	return []KindTotal{
		{Kind: model.KindSleep, Hours: sleepSec / 3600, Color: ColorSleep},
		{Kind: model.KindFeeding, Hours: feedingSec / 3600, Color: ColorFeeding},
	}
}

// Summarize は件数と平均時間（分）を集計する。セッションが無い種別の平均は0。
func Summarize(visible []model.Activity, now time.Time) Overview {
	sleeps := byKind(visible, model.KindSleep)
	feedings := byKind(visible, model.KindFeeding)

	o := Overview{
		TotalSleepSessions:   len(sleeps),
		TotalFeedingSessions: len(feedings),
		AvgSleepMinutes:      roundMinutes(meanSeconds(sleeps)),
		AvgFeedingMinutes:    roundMinutes(meanSeconds(feedings)),
	}
	for _, a := range sleeps {
		if sameDay(a.StartTime, now) {
			o.TodaySleepSessions++
		}
	}
	for _, a := range feedings {
		if sameDay(a.StartTime, now) {
			o.TodayFeedingSessions++
		}
	}
	return o
}
