package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/hitoshi/babytrack/internal/metrics"
	"github.com/hitoshi/babytrack/internal/middleware"
	"github.com/hitoshi/babytrack/internal/repository"
	"github.com/hitoshi/babytrack/internal/security"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	Logger            *slog.Logger
	Metrics           metrics.MetricsCollector

	// 運用
	HealthChecker  repository.Pinger
	MetricsHandler http.Handler

	// 記録
	ActivityService ActivityServiceInterface
	TimerService    TimerServiceInterface
	TimerInterval   time.Duration

	// 統計・ヒント
	InsightService InsightServiceInterface

	// プロフィール
	ProfileService ProfileServiceInterface
	Sanitizer      security.TextSanitizerService

	// 料金プラン・エクスポート
	PlanService   PlanServiceInterface
	ExportService ExportServiceInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	RequestID → RealIP → Recovery → StatusMetrics → Logging → SecurityHeaders → CORS
//
// /api 以下には更にクライアント単位のレート制限(General)を適用し、
// 更新系エンドポイントには更新系のレート制限を重ねる。
func NewRouter(deps *RouterDeps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	mc := deps.Metrics
	if mc == nil {
		mc = metrics.Nop{}
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.NewRecoveryMiddleware(logger))
	r.Use(middleware.NewStatusMetricsMiddleware(mc))
	r.Use(middleware.NewLoggingMiddleware(logger))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))

	activityHandler := NewActivityHandler(deps.ActivityService)
	timerHandler := NewTimerHandler(deps.TimerService, deps.TimerInterval, logger)
	insightHandler := NewInsightHandler(deps.InsightService)
	profileHandler := NewProfileHandler(deps.ProfileService, deps.Sanitizer)
	planHandler := NewPlanHandler(deps.PlanService)
	exportHandler := NewExportHandler(deps.ExportService)
	healthHandler := NewHealthHandler(deps.HealthChecker)

	// --- 運用エンドポイント（レート制限なし） ---
	r.Get("/health", healthHandler.Health)
	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	// 更新系は個別のレート制限を追加する
	mutation := func(h http.HandlerFunc) http.Handler { return h }
	if deps.RateLimiter != nil {
		mw := deps.RateLimiter.MutationMiddleware()
		mutation = func(h http.HandlerFunc) http.Handler { return mw(h) }
	}

	r.Route("/api", func(r chi.Router) {
		if deps.RateLimiter != nil {
			r.Use(deps.RateLimiter.GeneralMiddleware())
		}

		r.Get("/snapshot", activityHandler.Snapshot)

		r.Route("/activities", func(r chi.Router) {
			r.Get("/", activityHandler.ListActivities)

			r.Route("/{kind}", func(r chi.Router) {
				r.Method(http.MethodPost, "/start", mutation(activityHandler.Start))
				r.Method(http.MethodPost, "/stop", mutation(activityHandler.Stop))
				r.Get("/timer", timerHandler.Stream)
			})
		})

		r.Get("/stats", insightHandler.Stats)
		r.Get("/tips", insightHandler.Tips)

		r.Get("/profile", profileHandler.GetProfile)
		r.Method(http.MethodPut, "/profile", mutation(profileHandler.UpdateProfile))

		r.Route("/plans", func(r chi.Router) {
			r.Get("/", planHandler.ListPlans)
			r.Method(http.MethodPost, "/{name}/upgrade", mutation(planHandler.Upgrade))
		})

		r.Get("/export", exportHandler.Export)
	})

	return r
}
