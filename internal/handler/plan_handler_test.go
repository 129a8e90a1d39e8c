package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hitoshi/babytrack/internal/model"
)

func TestPlanHandler_ListPlans(t *testing.T) {
	svc := &mockPlanService{
		plansFn: func() []model.Plan {
			return []model.Plan{
				{Name: "basic", DisplayName: "ベーシック"},
				{Name: "premium", DisplayName: "プレミアム", PriceYen: 299, Period: "month", Features: []string{"無制限"}, Purchasable: true},
			}
		},
	}
	h := NewPlanHandler(svc)

	w := httptest.NewRecorder()
	h.ListPlans(w, httptest.NewRequest(http.MethodGet, "/api/plans", nil))

	resp := decodeJSON[plansResponse](t, w)
	if len(resp.Plans) != 2 || resp.Premium {
		t.Fatalf("response = %+v", resp)
	}
	if resp.Plans[0].Features == nil {
		t.Error("features must be an empty array, not null")
	}
	if resp.Plans[1].PriceYen != 299 || !resp.Plans[1].Purchasable {
		t.Errorf("plans[1] = %+v", resp.Plans[1])
	}
}

func TestPlanHandler_Upgrade(t *testing.T) {
	svc := &mockPlanService{}
	svc.upgradeFn = func(ctx context.Context, name string) (model.Plan, error) {
		svc.premium = true
		return model.Plan{Name: name, PriceYen: 1999, Period: "year", Purchasable: true}, nil
	}
	h := NewPlanHandler(svc)

	req := withChiURLParam(httptest.NewRequest(http.MethodPost, "/", nil), "name", "annual")
	w := httptest.NewRecorder()
	h.Upgrade(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	resp := decodeJSON[upgradeResponse](t, w)
	if resp.Plan.Name != "annual" || !resp.Premium {
		t.Errorf("response = %+v", resp)
	}
}

func TestPlanHandler_Upgrade_Errors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"unknown plan", model.NewPlanNotFoundError("gold"), http.StatusNotFound},
		{"free plan", model.NewPlanNotPurchasableError("basic"), http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewPlanHandler(&mockPlanService{
				upgradeFn: func(ctx context.Context, name string) (model.Plan, error) {
					return model.Plan{}, tt.err
				},
			})

			req := withChiURLParam(httptest.NewRequest(http.MethodPost, "/", nil), "name", "x")
			w := httptest.NewRecorder()
			h.Upgrade(w, req)

			if w.Code != tt.status {
				t.Errorf("status = %d, want %d", w.Code, tt.status)
			}
		})
	}
}
