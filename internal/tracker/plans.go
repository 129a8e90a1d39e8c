package tracker

import (
	"context"
	"log/slog"

	"github.com/hitoshi/babytrack/internal/model"
)

// プラン名
const (
	PlanBasic   = "basic"
	PlanPremium = "premium"
	PlanAnnual  = "annual"
)

var plans = []model.Plan{
	{
		Name:        PlanBasic,
		DisplayName: "ベーシック",
		PriceYen:    0,
		Features: []string{
			"直近3日間の記録",
			"3日間で最大10件まで記録",
			"基本的な統計",
		},
	},
	{
		Name:        PlanPremium,
		DisplayName: "プレミアム",
		PriceYen:    299,
		Period:      "month",
		Features: []string{
			"無制限の記録と履歴",
			"詳細なAI分析と予測",
			"データのエクスポート",
		},
		Purchasable: true,
	},
	{
		Name:        PlanAnnual,
		DisplayName: "プレミアム年間",
		PriceYen:    1999,
		Period:      "year",
		Features: []string{
			"プレミアムの全機能",
			"月額より約45%お得",
		},
		Purchasable: true,
	},
}

// Plans は料金プランの一覧を返す。
func (s *Service) Plans() []model.Plan {
	out := make([]model.Plan, len(plans))
	for i, p := range plans {
		p.Features = append([]string(nil), p.Features...)
		out[i] = p
	}
	return out
}

// Upgrade は指定プランへ切り替える。
// 決済は行わず、プロセス内のプレミアムフラグを立てるだけで再起動すると元に戻る。
func (s *Service) Upgrade(_ context.Context, name string) (model.Plan, error) {
	var plan *model.Plan
	for i := range plans {
		if plans[i].Name == name {
			plan = &plans[i]
			break
		}
	}
	if plan == nil {
		return model.Plan{}, model.NewPlanNotFoundError(name)
	}
	if !plan.Purchasable {
		return model.Plan{}, model.NewPlanNotPurchasableError(name)
	}

	s.mu.Lock()
	s.premium = true
	s.plan = plan.Name
	s.mu.Unlock()

	s.metrics.RecordUpgrade(plan.Name)
	s.logger.Info("plan upgraded", slog.String("plan", plan.Name))

	p := *plan
	p.Features = append([]string(nil), plan.Features...)
	return p, nil
}
