// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// トラッカーやサービス層から利用する。
type MetricsCollector interface {
	RecordActivityStarted(kind string)
	RecordActivityStopped(kind string, duration time.Duration)
	RecordTrialRejected()
	RecordSlotWriteFailure(slot string)
	RecordSlotLoadRecovered(slot string)
	RecordUpgrade(plan string)
	RecordHTTPStatus(statusCode int)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	activityStarted  *prometheus.CounterVec
	activityStopped  *prometheus.CounterVec
	activityDuration *prometheus.HistogramVec
	trialRejected    prometheus.Counter
	slotWriteFail    *prometheus.CounterVec
	slotRecovered    *prometheus.CounterVec
	upgrades         *prometheus.CounterVec
	httpStatus       *prometheus.CounterVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		activityStarted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "babytrack_activity_started_total",
			Help: "開始されたセッションの合計数",
		}, []string{"kind"}),
		activityStopped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "babytrack_activity_stopped_total",
			Help: "終了したセッションの合計数",
		}, []string{"kind"}),
		activityDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: "babytrack_activity_duration_seconds",
			Help: "終了したセッションの長さ（秒）",
			// 1分から8時間
			Buckets: []float64{60, 300, 900, 1800, 3600, 7200, 14400, 28800},
		}, []string{"kind"}),
		trialRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "babytrack_trial_rejected_total",
			Help: "無料プランの上限により拒否された開始操作の合計数",
		}),
		slotWriteFail: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "babytrack_slot_write_fail_total",
			Help: "永続化スロットへの書き込み失敗の合計数",
		}, []string{"slot"}),
		slotRecovered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "babytrack_slot_load_recovered_total",
			Help: "読み込みに失敗し既定値で復旧したスロットの合計数",
		}, []string{"slot"}),
		upgrades: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "babytrack_upgrade_total",
			Help: "プランのアップグレード回数",
		}, []string{"plan"}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "babytrack_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
	}

	reg.MustRegister(
		c.activityStarted,
		c.activityStopped,
		c.activityDuration,
		c.trialRejected,
		c.slotWriteFail,
		c.slotRecovered,
		c.upgrades,
		c.httpStatus,
	)

	return c
}

// RecordActivityStarted はセッション開始を記録する。
func (c *Collector) RecordActivityStarted(kind string) {
	c.activityStarted.WithLabelValues(kind).Inc()
}

// RecordActivityStopped はセッション終了と長さを記録する。
func (c *Collector) RecordActivityStopped(kind string, duration time.Duration) {
	c.activityStopped.WithLabelValues(kind).Inc()
	c.activityDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// RecordTrialRejected は無料プラン上限による拒否を記録する。
func (c *Collector) RecordTrialRejected() {
	c.trialRejected.Inc()
}

// RecordSlotWriteFailure は書き込み失敗を記録する。
func (c *Collector) RecordSlotWriteFailure(slot string) {
	c.slotWriteFail.WithLabelValues(slot).Inc()
}

// RecordSlotLoadRecovered は読み込み失敗からの復旧を記録する。
func (c *Collector) RecordSlotLoadRecovered(slot string) {
	c.slotRecovered.WithLabelValues(slot).Inc()
}

// RecordUpgrade はアップグレードを記録する。
func (c *Collector) RecordUpgrade(plan string) {
	c.upgrades.WithLabelValues(plan).Inc()
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Nop は何も記録しないMetricsCollector。テストやメトリクス無効時に使う。
type Nop struct{}

func (Nop) RecordActivityStarted(string) {}
func (Nop) RecordActivityStopped(string, time.Duration) {}
func (Nop) RecordTrialRejected() {}
func (Nop) RecordSlotWriteFailure(string) {}
func (Nop) RecordSlotLoadRecovered(string) {}
func (Nop) RecordUpgrade(string) {}
func (Nop) RecordHTTPStatus(int) {}

var (
	_ MetricsCollector = (*Collector)(nil)
	_ MetricsCollector = Nop{}
)
