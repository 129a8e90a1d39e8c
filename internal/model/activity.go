package model

import (
	"fmt"
	"time"
)

// Kind はアクティビティの種別を表す。
type Kind string

const (
	KindSleep   Kind = "sleep"
	KindFeeding Kind = "feeding"
)

// Kinds は定義済みの全種別を表示順で返す。
func Kinds() []Kind {
	return []Kind{KindSleep, KindFeeding}
}

// ParseKind は文字列をKindに変換する。未知の種別の場合はエラーを返す。
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindSleep, KindFeeding:
		return Kind(s), nil
	}
	return "", fmt.Errorf("unknown activity kind: %q", s)
}

// Activity は1回分の計測セッションを表す。
// EndTime と Duration は計測中はnilで、停止時に一度だけ設定される。
type Activity struct {
	ID        string
	Kind      Kind
	StartTime time.Time
	EndTime   *time.Time
	Duration  *int64 // 秒
	Notes     string
}

// Closed はセッションが終了済みかどうかを返す。
func (a Activity) Closed() bool {
	return a.EndTime != nil && a.Duration != nil
}

// DurationSeconds は記録済みの秒数を返す。計測中は0を返す。
func (a Activity) DurationSeconds() int64 {
	if a.Duration == nil {
		return 0
	}
	return *a.Duration
}

// Elapsed は計測中のセッションについて now 時点の経過時間を返す。
func (a Activity) Elapsed(now time.Time) time.Duration {
	if d := now.Sub(a.StartTime); d > 0 {
		return d
	}
	return 0
}

// BabyProfile は赤ちゃんのプロフィールを表す。
type BabyProfile struct {
	Name      string
	AgeMonths int
	BirthDate string
}

// ProfilePatch はプロフィールの部分更新内容を表す。nilのフィールドは変更しない。
type ProfilePatch struct {
	Name      *string
	AgeMonths *int
	BirthDate *string
}

// Apply はpatchをprofileに浅くマージした結果を返す。
func (p ProfilePatch) Apply(profile BabyProfile) BabyProfile {
	if p.Name != nil {
		profile.Name = *p.Name
	}
	if p.AgeMonths != nil {
		profile.AgeMonths = *p.AgeMonths
	}
	if p.BirthDate != nil {
		profile.BirthDate = *p.BirthDate
	}
	return profile
}
