// Package tracker はアクティビティ記録のストアと、それを利用するサービス層を提供する。
package tracker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/babytrack/internal/metrics"
	"github.com/hitoshi/babytrack/internal/model"
	"github.com/hitoshi/babytrack/internal/repository"
)

// Snapshot はストアの状態のコピー。
type Snapshot struct {
	Activities  []model.Activity // 新しい順
	OpenSleep   *model.Activity
	OpenFeeding *model.Activity
	Profile     model.BabyProfile
}

// Open は指定種別の計測中セッションを返す。
func (s Snapshot) Open(kind model.Kind) *model.Activity {
	switch kind {
	case model.KindSleep:
		return s.OpenSleep
	case model.KindFeeding:
		return s.OpenFeeding
	}
	return nil
}

// Store は終了済みアクティビティ・計測中セッション・プロフィールを保持する。
//
// 変更は終了時とプロフィール更新時にスロットへ丸ごと書き込む。
// 計測中セッションは永続化しないため、再起動すると失われる。
// 書き込みの順序を保つため、永続化もロックを保持したまま行う。
type Store struct {
	slots   repository.SlotRepository
	logger  *slog.Logger
	metrics metrics.MetricsCollector
	newID   func() string

	mu         sync.Mutex
	activities []model.Activity
	open       map[model.Kind]model.Activity
	profile    model.BabyProfile
}

// NewStore はStoreを生成する。loggerとmcがnilの場合は既定値を使う。
func NewStore(slots repository.SlotRepository, logger *slog.Logger, mc metrics.MetricsCollector) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	if mc == nil {
		mc = metrics.Nop{}
	}
	return &Store{
		slots:   slots,
		logger:  logger,
		metrics: mc,
		newID:   uuid.NewString,
		open:    make(map[model.Kind]model.Activity),
	}
}

// Load は永続化スロットから状態を復元する。
// 読み込みや復元に失敗した場合は空の状態で続行し、エラーは返さない。
func (s *Store) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.activities = nil
	s.profile = model.BabyProfile{}

	if data := s.read(ctx, repository.SlotActivities); data != nil {
		activities, err := decodeActivities(data)
		if err != nil {
			s.recovered(repository.SlotActivities, err)
		} else {
			s.activities = activities
		}
	}

	if data := s.read(ctx, repository.SlotProfile); data != nil {
		profile, err := decodeProfile(data)
		if err != nil {
			s.recovered(repository.SlotProfile, err)
		} else {
			s.profile = profile
		}
	}

	s.logger.Info("store loaded",
		slog.Int("activities", len(s.activities)),
	)
}

func (s *Store) read(ctx context.Context, slot string) []byte {
	data, err := s.slots.Get(ctx, slot)
	if err != nil {
		s.recovered(slot, err)
		return nil
	}
	return data
}

func (s *Store) recovered(slot string, err error) {
	s.logger.Warn("スロットの読み込みに失敗したため既定値を使用します",
		slog.String("slot", slot),
		slog.String("error", err.Error()),
	)
	s.metrics.RecordSlotLoadRecovered(slot)
}

// Start は指定種別のセッションを開始する。
// 同じ種別の計測中セッションが既にある場合は新規作成せず、既存のものを created=false で返す。
func (s *Store) Start(_ context.Context, kind model.Kind, now time.Time) (model.Activity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a, ok := s.open[kind]; ok {
		return a, false
	}

	a := model.Activity{ID: s.newID(), Kind: kind, StartTime: now}
	s.open[kind] = a
	s.metrics.RecordActivityStarted(string(kind))
	return a, true
}

// Stop は指定種別の計測中セッションを終了し、記録の先頭に追加して永続化する。
// 計測中セッションが無い場合はnilを返す。
// now が開始時刻より前の場合は長さ0のセッションとして記録する。
func (s *Store) Stop(ctx context.Context, kind model.Kind, now time.Time) *model.Activity {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.open[kind]
	if !ok {
		return nil
	}
	delete(s.open, kind)

	end := now
	if end.Before(a.StartTime) {
		end = a.StartTime
	}
	elapsed := end.Sub(a.StartTime)
	seconds := int64(elapsed / time.Second)
	a.EndTime = &end
	a.Duration = &seconds

	activities := make([]model.Activity, 0, len(s.activities)+1)
	activities = append(activities, a)
	s.activities = append(activities, s.activities...)

	s.metrics.RecordActivityStopped(string(kind), time.Duration(seconds)*time.Second)
	s.persistActivities(ctx)
	return &a
}

// SetProfile はpatchをプロフィールに浅くマージし、即座に永続化する。
func (s *Store) SetProfile(ctx context.Context, patch model.ProfilePatch) model.BabyProfile {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.profile = patch.Apply(s.profile)

	data, err := encodeProfile(s.profile)
	if err == nil {
		err = s.slots.Put(context.WithoutCancel(ctx), repository.SlotProfile, data)
	}
	if err != nil {
		s.writeFailed(repository.SlotProfile, err)
	}
	return s.profile
}

// Snapshot は現在の状態のコピーを返す。
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Activities: append([]model.Activity(nil), s.activities...),
		Profile:    s.profile,
	}
	if a, ok := s.open[model.KindSleep]; ok {
		snap.OpenSleep = &a
	}
	if a, ok := s.open[model.KindFeeding]; ok {
		snap.OpenFeeding = &a
	}
	return snap
}

// persistActivities は終了済みの一覧全体を書き込む。失敗はログとメトリクスに残して握りつぶす。
// リクエストが切断されても書き込みは中断しない。
func (s *Store) persistActivities(ctx context.Context) {
	data, err := encodeActivities(s.activities)
	if err == nil {
		err = s.slots.Put(context.WithoutCancel(ctx), repository.SlotActivities, data)
	}
	if err != nil {
		s.writeFailed(repository.SlotActivities, err)
	}
}

func (s *Store) writeFailed(slot string, err error) {
	s.logger.Error("スロットへの書き込みに失敗しました",
		slog.String("slot", slot),
		slog.String("error", err.Error()),
	)
	s.metrics.RecordSlotWriteFailure(slot)
}
