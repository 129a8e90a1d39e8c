package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/hitoshi/babytrack/internal/config"
	"github.com/hitoshi/babytrack/internal/database"
	"github.com/hitoshi/babytrack/internal/handler"
	"github.com/hitoshi/babytrack/internal/logger"
	"github.com/hitoshi/babytrack/internal/metrics"
	"github.com/hitoshi/babytrack/internal/middleware"
	"github.com/hitoshi/babytrack/internal/repository"
	"github.com/hitoshi/babytrack/internal/security"
	"github.com/hitoshi/babytrack/internal/tracker"
)

// Init はアプリケーションの初期化を行う。
// 環境変数からConfigを読み込み、JSON構造化ログをセットアップする。
// writerが指定された場合はログ出力先としてそのwriterを使用する。
func Init(w io.Writer) (*config.Config, error) {
	// 1. ログの初期化（設定読み込み前にログを使えるようにする）
	logger.SetupDefault(w, nil)

	// 2. 環境変数から設定を読み込む
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// 3. 設定されたログレベルで再初期化する
	logger.SetupDefault(w, cfg.LogLevel)

	return cfg, nil
}

// Run はアプリケーションのメインエントリーポイント。
// コマンドライン引数からサブコマンドを解析し、対応するモードで起動する。
// argsにはos.Args[1:]を渡す。
func Run(w io.Writer, args []string) error {
	cmd := ParseCommand(args)

	// healthcheck は軽量サブコマンドのため、フル初期化をスキップする
	if cmd == CommandHealthcheck {
		port := os.Getenv("SERVER_PORT")
		if port == "" {
			port = "8080"
		}
		return runHealthcheck(port)
	}

	cfg, err := Init(w)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	slog.Info("starting application",
		slog.String("command", string(cmd)),
		slog.String("port", cfg.ServerPort),
		slog.String("storage", cfg.StorageBackend),
	)

	switch cmd {
	case CommandMigrate:
		return runMigrate(cfg)
	default:
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return runServe(ctx, cfg)
	}
}

// storage は選択されたバックエンドの永続化スロットと疎通確認、後始末をまとめたもの。
type storage struct {
	slots  repository.SlotRepository
	pinger repository.Pinger
	close  func() error
}

// openStorage は設定に応じて永続化スロットを開く。
func openStorage(ctx context.Context, cfg *config.Config) (*storage, error) {
	switch cfg.StorageBackend {
	case config.BackendMemory:
		repo := repository.NewMemorySlotRepo()
		slog.Warn("メモリバックエンドを使用します。再起動すると記録は失われます")
		return &storage{slots: repo, pinger: repo, close: func() error { return nil }}, nil

	case config.BackendPostgres:
		db, err := database.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		version, dirty, err := database.Version(cfg.DatabaseURL)
		if err != nil {
			db.Close()
			return nil, err
		}
		if version == 0 || dirty {
			db.Close()
			return nil, fmt.Errorf("database schema is not ready (version=%d, dirty=%t): run the migrate command first", version, dirty)
		}
		slog.Info("database connection established", slog.Uint64("schema_version", uint64(version)))
		repo := repository.NewPostgresSlotRepo(db)
		return &storage{slots: repo, pinger: repo, close: db.Close}, nil

	default:
		db, err := database.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		repo, err := repository.NewSQLiteSlotRepo(ctx, db)
		if err != nil {
			db.Close()
			return nil, err
		}
		slog.Info("sqlite storage opened", slog.String("path", cfg.SQLitePath))
		return &storage{slots: repo, pinger: repo, close: db.Close}, nil
	}
}

// buildHandler はストア、サービス、メトリクス、ルーターを組み立てる。
// 戻り値のcleanupはレートリミッターのバックグラウンド処理を停止する。
func buildHandler(ctx context.Context, cfg *config.Config, st *storage) (http.Handler, func()) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	mc := metrics.NewCollector(reg)

	store := tracker.NewStore(st.slots, slog.Default(), mc)
	store.Load(ctx)

	svc := tracker.NewService(store, tracker.Options{
		TrialWindowDays: cfg.TrialWindowDays,
		TrialCap:        cfg.TrialCap,
		Location:        cfg.Location,
	}, slog.Default(), mc)

	rl := middleware.NewRateLimiter(
		middleware.PerMinuteRateLimiterConfig(cfg.RateLimitGeneral, cfg.RateLimitMutation),
		slog.Default(),
	)

	router := handler.NewRouter(&handler.RouterDeps{
		CORSAllowedOrigin: cfg.CORSAllowedOrigin,
		RateLimiter:       rl,
		Logger:            slog.Default(),
		Metrics:           mc,

		HealthChecker:  st.pinger,
		MetricsHandler: metrics.Handler(reg),

		ActivityService: svc,
		TimerService:    svc,
		TimerInterval:   cfg.TimerInterval,
		InsightService:  svc,
		ProfileService:  svc,
		Sanitizer:       security.NewTextSanitizer(security.DefaultMaxRunes),
		PlanService:     svc,
		ExportService:   svc,
	})

	return router, rl.Stop
}

// runServe はAPIサーバーモードで起動する。
// 永続化先を開き、全依存関係をワイヤリングし、HTTPサーバーを起動する。
// ctxがキャンセルされるとグレースフルシャットダウンを行う。
func runServe(ctx context.Context, cfg *config.Config) error {
	st, err := openStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.close()

	router, cleanup := buildHandler(ctx, cfg, st)
	defer cleanup()

	// シャットダウン開始時にSSE配信中のリクエストも終了させる
	baseCtx, cancelBase := context.WithCancel(context.Background())
	defer cancelBase()

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
		BaseContext:  func(net.Listener) context.Context { return baseCtx },
	}
	server.RegisterOnShutdown(cancelBase)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("API server starting", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server listen error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down API server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("API server stopped gracefully")
	return nil
}

// runMigrate はデータベースマイグレーションを実行する。
// PostgreSQLバックエンド以外はスキーマを起動時に作成するため何もしない。
func runMigrate(cfg *config.Config) error {
	if cfg.StorageBackend != config.BackendPostgres {
		slog.Info("migrations are only needed for the postgres backend",
			slog.String("storage", cfg.StorageBackend),
		)
		return nil
	}

	slog.Info("running database migrations",
		slog.String("database_url", maskDatabaseURL(cfg.DatabaseURL)),
	)

	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	version, _, err := database.Version(cfg.DatabaseURL)
	if err != nil {
		return err
	}

	slog.Info("database migrations completed successfully", slog.Uint64("version", uint64(version)))
	return nil
}

// runHealthcheck はヘルスチェックを実行する。
// distroless環境でのDockerヘルスチェック用サブコマンド。
// /health エンドポイントにHTTPリクエストを送り、結果を返す。
func runHealthcheck(port string) error {
	target := fmt.Sprintf("http://localhost:%s/health", port)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(target)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}

// maskDatabaseURL はデータベースURLのパスワードをマスクする。
func maskDatabaseURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "***"
	}
	return u.Redacted()
}
