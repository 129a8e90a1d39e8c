package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/babytrack/internal/model"
	"github.com/hitoshi/babytrack/internal/stats"
	"github.com/hitoshi/babytrack/internal/tracker"
)

// --- モック定義 ---

// mockActivityService はActivityServiceInterfaceとTimerServiceInterfaceのモック実装。
type mockActivityService struct {
	now           time.Time
	viewFn        func() tracker.View
	timelineFn    func(limit int) []model.Activity
	startFn       func(ctx context.Context, kind model.Kind) (model.Activity, bool, error)
	stopFn        func(ctx context.Context, kind model.Kind) *model.Activity
	openSessionFn func(kind model.Kind) (model.Activity, bool)
}

func (m *mockActivityService) Now() time.Time { return m.now }

func (m *mockActivityService) View() tracker.View {
	if m.viewFn != nil {
		return m.viewFn()
	}
	return tracker.View{Now: m.now}
}

func (m *mockActivityService) Timeline(limit int) []model.Activity {
	if m.timelineFn != nil {
		return m.timelineFn(limit)
	}
	return nil
}

func (m *mockActivityService) StartActivity(ctx context.Context, kind model.Kind) (model.Activity, bool, error) {
	if m.startFn != nil {
		return m.startFn(ctx, kind)
	}
	return model.Activity{}, false, nil
}

func (m *mockActivityService) StopActivity(ctx context.Context, kind model.Kind) *model.Activity {
	if m.stopFn != nil {
		return m.stopFn(ctx, kind)
	}
	return nil
}

func (m *mockActivityService) OpenSession(kind model.Kind) (model.Activity, bool) {
	if m.openSessionFn != nil {
		return m.openSessionFn(kind)
	}
	return model.Activity{}, false
}

// mockInsightService はInsightServiceInterfaceのモック実装。
type mockInsightService struct {
	dashboardFn func() stats.Dashboard
}

func (m *mockInsightService) Dashboard() stats.Dashboard {
	if m.dashboardFn != nil {
		return m.dashboardFn()
	}
	return stats.Dashboard{}
}

// mockProfileService はProfileServiceInterfaceのモック実装。
type mockProfileService struct {
	profileFn func() model.BabyProfile
	updateFn  func(ctx context.Context, patch model.ProfilePatch) (model.BabyProfile, error)
}

func (m *mockProfileService) Profile() model.BabyProfile {
	if m.profileFn != nil {
		return m.profileFn()
	}
	return model.BabyProfile{}
}

func (m *mockProfileService) UpdateProfile(ctx context.Context, patch model.ProfilePatch) (model.BabyProfile, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, patch)
	}
	return model.BabyProfile{}, nil
}

// mockPlanService はPlanServiceInterfaceのモック実装。
type mockPlanService struct {
	premium   bool
	plansFn   func() []model.Plan
	upgradeFn func(ctx context.Context, name string) (model.Plan, error)
}

func (m *mockPlanService) Plans() []model.Plan {
	if m.plansFn != nil {
		return m.plansFn()
	}
	return nil
}

func (m *mockPlanService) IsPremium() bool { return m.premium }

func (m *mockPlanService) Upgrade(ctx context.Context, name string) (model.Plan, error) {
	if m.upgradeFn != nil {
		return m.upgradeFn(ctx, name)
	}
	return model.Plan{}, nil
}

// mockExportService はExportServiceInterfaceのモック実装。
type mockExportService struct {
	exportFn func(ctx context.Context, format string) (*tracker.Export, error)
}

func (m *mockExportService) Export(ctx context.Context, format string) (*tracker.Export, error) {
	if m.exportFn != nil {
		return m.exportFn(ctx, format)
	}
	return nil, nil
}

// mockPinger はrepository.Pingerのモック実装。
type mockPinger struct {
	err error
}

func (m *mockPinger) PingContext(ctx context.Context) error { return m.err }

// --- テストヘルパー ---

var jst = time.FixedZone("JST", 9*60*60)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// withChiURLParam はテスト用にchiのURLパラメータを注入するヘルパー。
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	ctx := context.WithValue(r.Context(), chi.RouteCtxKey, rctx)
	return r.WithContext(ctx)
}

// parseAPIErrorResponse はレスポンスボディからAPIErrorレスポンスをパースするヘルパー。
func parseAPIErrorResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var result map[string]string
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	return result
}

// decodeJSON はレスポンスボディを任意の型にデコードするヘルパー。
func decodeJSON[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(w.Body).Decode(&v); err != nil {
		t.Fatalf("failed to decode response: %v\nbody: %s", err, w.Body.String())
	}
	return v
}

func closedActivity(id string, kind model.Kind, start time.Time, seconds int64) model.Activity {
	end := start.Add(time.Duration(seconds) * time.Second)
	return model.Activity{ID: id, Kind: kind, StartTime: start, EndTime: &end, Duration: &seconds}
}
