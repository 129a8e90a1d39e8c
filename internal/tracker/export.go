package tracker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hitoshi/babytrack/internal/model"
	"github.com/hitoshi/babytrack/internal/stats"
)

// エクスポート形式
const (
	ExportJSON   = "json"
	ExportPDF    = "pdf"
	ExportDoctor = "doctor"
)

// Export はエクスポート結果。
type Export struct {
	Filename    string
	ContentType string
	Body        []byte
}

// Export は表示対象のアクティビティを指定形式で書き出す。プレミアム限定。
// JSON以外の形式は未実装。
func (s *Service) Export(_ context.Context, format string) (*Export, error) {
	switch format {
	case ExportJSON, ExportPDF, ExportDoctor:
	default:
		return nil, model.NewInvalidExportFormatError(format)
	}

	premium, _ := s.entitlement()
	if !premium {
		return nil, model.NewPremiumRequiredError("データのエクスポート")
	}
	if format != ExportJSON {
		return nil, model.NewExportUnavailableError(format)
	}

	now := s.Now()
	visible := stats.Visible(s.input(s.store.Snapshot(), now, premium))

	records := make([]activityRecord, 0, len(visible))
	for _, a := range visible {
		records = append(records, toRecord(a))
	}
	body, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal export: %w", err)
	}

	return &Export{
		Filename:    fmt.Sprintf("baby_activities_%s.json", now.UTC().Format("2006-01-02")),
		ContentType: "application/json; charset=utf-8",
		Body:        body,
	}, nil
}
