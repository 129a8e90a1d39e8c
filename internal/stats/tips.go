package stats

import (
	"fmt"
	"math"
	"time"

	"github.com/hitoshi/babytrack/internal/model"
)

// MaxBasicTips は基本ヒントの最大件数。
const MaxBasicTips = 3

// ForecastOffset は次回授乳予測に使う固定の間隔。
// 授乳間隔ヒントの平均値とは連動しない。
const ForecastOffset = 3 * time.Hour

// ヒントのルールID
const (
	TipShortSleep       = "short_sleep"
	TipGoodSleep        = "good_sleep"
	TipNightAdapted     = "night_adapted"
	TipEfficientFeeding = "efficient_feeding"
	TipUnhurriedFeeding = "unhurried_feeding"
	TipGrowthSpurt      = "growth_spurt"
	TipGoodRhythm       = "good_rhythm"
	TipNightMode        = "night_mode"
	TipEncouragement    = "encouragement"
	TipWelcome          = "welcome"

	TipNightSleepQuality = "night_sleep_quality"
	TipFeedingInterval   = "feeding_interval"
	TipFeedingForecast   = "feeding_forecast"
)

// BasicTips は優先順位順にルールを評価し、先頭から最大3件のヒントを返す。
func BasicTips(visible []model.Activity, now time.Time) []model.Tip {
	sleeps := byKind(visible, model.KindSleep)
	feedings := byKind(visible, model.KindFeeding)

	var tips []model.Tip

	if len(sleeps) > 0 {
		hours := meanSeconds(sleeps) / 3600
		switch {
		case hours < 2:
			tips = append(tips, model.Tip{
				RuleID: TipShortSleep,
				Title:  "睡眠の分析",
				Body:   "1回あたりの睡眠が短めです。照明を落として静かな音楽を流すなど、落ち着ける環境を整えてみましょう。",
				Style:  "purple",
			})
		case hours > 4:
			tips = append(tips, model.Tip{
				RuleID: TipGoodSleep,
				Title:  "すばらしい睡眠リズム",
				Body:   "よく眠れています。この生活リズムを続けて、休息と成長をサポートしましょう。",
				Style:  "green",
			})
		}
	}

	if len(sleeps) >= 3 {
		var sum int
		for _, a := range sleeps {
			sum += localHour(a.StartTime, now)
		}
		// 日付をまたぐ時刻も単純平均する
		meanHour := float64(sum) / float64(len(sleeps))
		if meanHour > 22 || meanHour < 6 {
			tips = append(tips, model.Tip{
				RuleID: TipNightAdapted,
				Title:  "夜型リズムに順応",
				Body:   "夜の睡眠リズムにうまく慣れてきています。健やかな睡眠・覚醒サイクルにつながります。",
				Style:  "indigo",
			})
		}
	}

	if len(feedings) > 0 {
		minutes := meanSeconds(feedings) / 60
		switch {
		case minutes < 15:
			tips = append(tips, model.Tip{
				RuleID: TipEfficientFeeding,
				Title:  "効率的な授乳",
				Body:   "授乳時間が短めなのは、母乳がよく出ているサインかもしれません。体重の推移も見守りましょう。",
				Style:  "orange",
			})
		case minutes > 30:
			tips = append(tips, model.Tip{
				RuleID: TipUnhurriedFeeding,
				Title:  "ゆったり授乳",
				Body:   "授乳に時間をかけるのは、穏やかな気質やスキンシップを求めているサインかもしれません。",
				Style:  "pink",
			})
		}
	}

	today := 0
	for _, a := range feedings {
		if sameDay(a.StartTime, now) {
			today++
		}
	}
	if today >= 8 {
		tips = append(tips, model.Tip{
			RuleID: TipGrowthSpurt,
			Title:  "授乳の多い一日",
			Body:   "今日は授乳回数が多めです。成長期にはよくあることで、発達の節目を迎えているのかもしれません。",
			Style:  "emerald",
		})
	}

	if alternates(visible, 5) {
		tips = append(tips, model.Tip{
			RuleID: TipGoodRhythm,
			Title:  "よいリズムです",
			Body:   "睡眠と授乳の予測しやすいリズムができつつあります。赤ちゃんの安心感につながります。",
			Style:  "violet",
		})
	}

	if h := now.Hour(); h >= 22 || h <= 5 {
		tips = append(tips, model.Tip{
			RuleID: TipNightMode,
			Title:  "夜の時間帯",
			Body:   "静かに過ごす時間です。照明を落とし、小さな声で話すと眠りやすくなります。",
			Style:  "slate",
		})
	}

	if len(visible) > 10 {
		tips = append(tips, model.Tip{
			RuleID: TipEncouragement,
			Title:  "がんばっていますね",
			Body:   "こまめな記録は赤ちゃんのニーズを理解する助けになります。",
			Style:  "pink",
		})
	}

	if len(visible) == 0 {
		tips = append(tips, model.Tip{
			RuleID: TipWelcome,
			Title:  "ようこそ",
			Body:   "睡眠と授乳の記録を始めると、あなたの赤ちゃんに合わせたヒントが表示されます。",
			Style:  "blue",
		})
	}

	if len(tips) > MaxBasicTips {
		tips = tips[:MaxBasicTips]
	}
	return tips
}

// alternates は先頭n件の種別が隣り合うもの同士ですべて異なる場合にtrueを返す。
func alternates(visible []model.Activity, n int) bool {
	if len(visible) < n {
		return false
	}
	for i := 1; i < n; i++ {
		if visible[i].Kind == visible[i-1].Kind {
			return false
		}
	}
	return true
}

// PremiumTips はプレミアム向けの詳細ヒントを返す。件数の上限はない。
func PremiumTips(visible []model.Activity, now time.Time) []model.Tip {
	sleeps := byKind(visible, model.KindSleep)
	feedings := byKind(visible, model.KindFeeding)

	var tips []model.Tip

	if tip, ok := nightSleepTip(sleeps, now); ok {
		tips = append(tips, tip)
	}
	if tip, ok := feedingIntervalTip(feedings); ok {
		tips = append(tips, tip)
	}
	if len(feedings) > 0 {
		next := feedings[0].StartTime.Add(ForecastOffset).In(now.Location())
		tips = append(tips, model.Tip{
			RuleID:  TipFeedingForecast,
			Title:   "次の授乳予測",
			Body:    fmt.Sprintf("次の授乳は%s頃の見込みです。", next.Format("15:04")),
			Style:   "emerald",
			Premium: true,
		})
	}
	return tips
}

// nightSleepTip は直近7件の睡眠のうち19時以降または6時以前に始まったものの平均時間を評価する。
// 夜間の睡眠が1件もない場合はヒントを出さない。
func nightSleepTip(sleeps []model.Activity, now time.Time) (model.Tip, bool) {
	if len(sleeps) < 3 {
		return model.Tip{}, false
	}
	recent := sleeps
	if len(recent) > 7 {
		recent = recent[:7]
	}

	var sum int64
	count := 0
	for _, a := range recent {
		if h := localHour(a.StartTime, now); h >= 19 || h <= 6 {
			sum += a.DurationSeconds()
			count++
		}
	}
	if count == 0 {
		return model.Tip{}, false
	}

	avg := float64(sum) / float64(count) / 3600
	verdict := "夜間の睡眠時間を少し長くできるとよいでしょう。"
	if avg > 3 {
		verdict = "とてもよい数値です。"
	}
	return model.Tip{
		RuleID:  TipNightSleepQuality,
		Title:   "睡眠の質の分析",
		Body:    fmt.Sprintf("夜間の平均睡眠: %.1f時間。%s", avg, verdict),
		Style:   "purple",
		Premium: true,
	}, true
}

// feedingIntervalTip は隣り合う授乳開始時刻の差（絶対値）の平均を時間単位で評価する。
func feedingIntervalTip(feedings []model.Activity) (model.Tip, bool) {
	if len(feedings) < 5 {
		return model.Tip{}, false
	}

	var sum float64
	for i := 1; i < len(feedings); i++ {
		d := feedings[i-1].StartTime.Sub(feedings[i].StartTime).Hours()
		sum += math.Abs(d)
	}
	avg := sum / float64(len(feedings)-1)

	verdict := "もう少し規則的なスケジュールを意識してみましょう。"
	if avg > 2 && avg < 4 {
		verdict = "安定したリズムです。"
	}
	return model.Tip{
		RuleID:  TipFeedingInterval,
		Title:   "授乳のリズム",
		Body:    fmt.Sprintf("授乳の間隔: %.1f時間。%s", avg, verdict),
		Style:   "orange",
		Premium: true,
	}, true
}
