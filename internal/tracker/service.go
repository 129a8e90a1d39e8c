package tracker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/hitoshi/babytrack/internal/metrics"
	"github.com/hitoshi/babytrack/internal/model"
	"github.com/hitoshi/babytrack/internal/stats"
)

// Options はServiceの設定。ゼロ値のフィールドには既定値が使われる。
type Options struct {
	TrialWindowDays int
	TrialCap        int
	Location        *time.Location
	Now             func() time.Time
}

// Service はストアに課金状態と導出処理を組み合わせたユースケース層。
type Service struct {
	store      *Store
	logger     *slog.Logger
	metrics    metrics.MetricsCollector
	clock      func() time.Time
	loc        *time.Location
	windowDays int
	trialCap   int

	mu      sync.RWMutex
	premium bool
	plan    string
}

// View はスナップショットに表示対象の絞り込みと記録可否を加えたもの。
type View struct {
	Now         time.Time
	Visible     []model.Activity
	OpenSleep   *model.Activity
	OpenFeeding *model.Activity
	Profile     model.BabyProfile
	Gate        stats.Gate
	Premium     bool
	Plan        string
}

// NewService はServiceを生成する。
func NewService(store *Store, opts Options, logger *slog.Logger, mc metrics.MetricsCollector) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if mc == nil {
		mc = metrics.Nop{}
	}
	if opts.TrialWindowDays <= 0 {
		opts.TrialWindowDays = stats.DefaultTrialWindowDays
	}
	if opts.TrialCap <= 0 {
		opts.TrialCap = stats.DefaultTrialCap
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{
		store:      store,
		logger:     logger,
		metrics:    mc,
		clock:      opts.Now,
		loc:        opts.Location,
		windowDays: opts.TrialWindowDays,
		trialCap:   opts.TrialCap,
		plan:       PlanBasic,
	}
}

// Now は設定されたタイムゾーンでの現在時刻を返す。
func (s *Service) Now() time.Time {
	return s.clock().In(s.loc)
}

// IsPremium はプレミアムプランが有効かどうかを返す。
func (s *Service) IsPremium() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.premium
}

func (s *Service) entitlement() (bool, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.premium, s.plan
}

func (s *Service) input(snap Snapshot, now time.Time, premium bool) stats.Input {
	return stats.Input{
		Activities:      snap.Activities,
		Now:             now,
		TrialWindowDays: s.windowDays,
		TrialCap:        s.trialCap,
		IsPremium:       premium,
	}
}

// StartActivity は記録可否を確認してからセッションを開始する。
// 同じ種別が計測中の場合は既存のセッションを created=false で返す。
func (s *Service) StartActivity(ctx context.Context, kind model.Kind) (model.Activity, bool, error) {
	now := s.Now()
	snap := s.store.Snapshot()
	if open := snap.Open(kind); open != nil {
		return *open, false, nil
	}

	premium, _ := s.entitlement()
	gate := stats.TrialGate(s.input(snap, now, premium))
	if !gate.CanAdd {
		s.metrics.RecordTrialRejected()
		s.logger.Info("trial limit reached",
			slog.String("kind", string(kind)),
			slog.Int("used", gate.Used),
			slog.Int("limit", gate.Limit),
		)
		return model.Activity{}, false, model.NewTrialLimitReachedError(s.windowDays, s.trialCap)
	}

	a, created := s.store.Start(ctx, kind, now)
	return a, created, nil
}

// StopActivity は計測中のセッションを終了する。計測中でなければnilを返す。
func (s *Service) StopActivity(ctx context.Context, kind model.Kind) *model.Activity {
	return s.store.Stop(ctx, kind, s.Now())
}

// OpenSession は指定種別の計測中セッションを返す。
func (s *Service) OpenSession(kind model.Kind) (model.Activity, bool) {
	open := s.store.Snapshot().Open(kind)
	if open == nil {
		return model.Activity{}, false
	}
	return *open, true
}

// View は現在時刻時点の表示用スナップショットを返す。
func (s *Service) View() View {
	now := s.Now()
	snap := s.store.Snapshot()
	premium, plan := s.entitlement()
	in := s.input(snap, now, premium)

	return View{
		Now:         now,
		Visible:     stats.Visible(in),
		OpenSleep:   snap.OpenSleep,
		OpenFeeding: snap.OpenFeeding,
		Profile:     snap.Profile,
		Gate:        stats.TrialGate(in),
		Premium:     premium,
		Plan:        plan,
	}
}

// Dashboard は現在時刻時点のすべての導出値を返す。
func (s *Service) Dashboard() stats.Dashboard {
	premium, _ := s.entitlement()
	return stats.Derive(s.input(s.store.Snapshot(), s.Now(), premium))
}

// Timeline は表示対象から新しい順に最大limit件を返す。
func (s *Service) Timeline(limit int) []model.Activity {
	premium, _ := s.entitlement()
	visible := stats.Visible(s.input(s.store.Snapshot(), s.Now(), premium))
	return stats.Timeline(visible, limit)
}

// Profile は現在のプロフィールを返す。
func (s *Service) Profile() model.BabyProfile {
	return s.store.Snapshot().Profile
}

// UpdateProfile は入力値を検証してプロフィールを部分更新する。
func (s *Service) UpdateProfile(ctx context.Context, patch model.ProfilePatch) (model.BabyProfile, error) {
	if patch.AgeMonths != nil && *patch.AgeMonths < 0 {
		return model.BabyProfile{}, model.NewInvalidProfileError("月齢は0以上で指定してください")
	}
	if patch.BirthDate != nil && *patch.BirthDate != "" {
		if _, err := time.Parse(time.DateOnly, *patch.BirthDate); err != nil {
			return model.BabyProfile{}, model.NewInvalidProfileError("生年月日はYYYY-MM-DD形式で指定してください")
		}
	}
	return s.store.SetProfile(ctx, patch), nil
}
