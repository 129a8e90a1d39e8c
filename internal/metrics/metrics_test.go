package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// findMetric は指定名・ラベルのメトリクスを返す。見つからない場合はnil。
func findMetric(t *testing.T, reg *prometheus.Registry, name, labelName, labelValue string) *dto.Metric {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			if labelName == "" {
				return m
			}
			for _, lp := range m.GetLabel() {
				if lp.GetName() == labelName && lp.GetValue() == labelValue {
					return m
				}
			}
		}
	}
	return nil
}

// TestNewCollector_ReturnsNonNil はCollectorが正常に生成されることを検証する。
func TestNewCollector_ReturnsNonNil(t *testing.T) {
	reg := prometheus.NewRegistry()
	if c := NewCollector(reg); c == nil {
		t.Fatal("expected non-nil Collector")
	}
}

// TestRecordActivity は開始・終了カウンタとヒストグラムが種別ごとに記録されることを検証する。
func TestRecordActivity(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordActivityStarted("sleep")
	c.RecordActivityStarted("sleep")
	c.RecordActivityStarted("feeding")
	c.RecordActivityStopped("sleep", 30*time.Minute)

	m := findMetric(t, reg, "babytrack_activity_started_total", "kind", "sleep")
	if m == nil {
		t.Fatal("babytrack_activity_started_total{kind=sleep} not found")
	}
	if got := m.GetCounter().GetValue(); got != 2 {
		t.Errorf("started{sleep} = %v, want 2", got)
	}

	m = findMetric(t, reg, "babytrack_activity_duration_seconds", "kind", "sleep")
	if m == nil {
		t.Fatal("babytrack_activity_duration_seconds{kind=sleep} not found")
	}
	if got := m.GetHistogram().GetSampleSum(); got != 1800 {
		t.Errorf("duration sum = %v, want 1800", got)
	}
	if got := m.GetHistogram().GetSampleCount(); got != 1 {
		t.Errorf("duration count = %v, want 1", got)
	}
}

func TestRecordSlotEvents(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordSlotWriteFailure("babyActivities")
	c.RecordSlotLoadRecovered("babyProfile")
	c.RecordTrialRejected()
	c.RecordUpgrade("annual")

	if m := findMetric(t, reg, "babytrack_slot_write_fail_total", "slot", "babyActivities"); m == nil || m.GetCounter().GetValue() != 1 {
		t.Errorf("slot_write_fail_total{babyActivities} = %v, want 1", m)
	}
	if m := findMetric(t, reg, "babytrack_slot_load_recovered_total", "slot", "babyProfile"); m == nil || m.GetCounter().GetValue() != 1 {
		t.Errorf("slot_load_recovered_total{babyProfile} = %v, want 1", m)
	}
	if m := findMetric(t, reg, "babytrack_trial_rejected_total", "", ""); m == nil || m.GetCounter().GetValue() != 1 {
		t.Errorf("trial_rejected_total = %v, want 1", m)
	}
	if m := findMetric(t, reg, "babytrack_upgrade_total", "plan", "annual"); m == nil || m.GetCounter().GetValue() != 1 {
		t.Errorf("upgrade_total{annual} = %v, want 1", m)
	}
}

func TestRecordHTTPStatus_IncrementsCounterWithLabel(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordHTTPStatus(200)
	c.RecordHTTPStatus(200)
	c.RecordHTTPStatus(402)

	if m := findMetric(t, reg, "babytrack_http_status_total", "status_code", "200"); m == nil || m.GetCounter().GetValue() != 2 {
		t.Errorf("http_status_total{200} = %v, want 2", m)
	}
	if m := findMetric(t, reg, "babytrack_http_status_total", "status_code", "402"); m == nil || m.GetCounter().GetValue() != 1 {
		t.Errorf("http_status_total{402} = %v, want 1", m)
	}
}

// TestMetricsHandler_ReturnsPrometheusFormat はPrometheus形式で出力されることを検証する。
func TestMetricsHandler_ReturnsPrometheusFormat(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordActivityStarted("feeding")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	Handler(reg).ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), `babytrack_activity_started_total{kind="feeding"} 1`) {
		t.Errorf("response should contain started counter, got:\n%s", body)
	}
}

// TestMultipleCollectors_IndependentRegistries は別レジストリへの登録が衝突しないことを検証する。
func TestMultipleCollectors_IndependentRegistries(t *testing.T) {
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("NewCollector panicked with separate registries: %v", r)
		}
	}()
	_ = NewCollector(prometheus.NewRegistry())
	_ = NewCollector(prometheus.NewRegistry())
}
