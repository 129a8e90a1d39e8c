package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/hitoshi/babytrack/internal/tracker"
)

// ExportServiceInterface はエクスポートハンドラーが必要とするサービスインターフェース。
type ExportServiceInterface interface {
	Export(ctx context.Context, format string) (*tracker.Export, error)
}

// ExportHandler はデータエクスポートのHTTPハンドラー。
type ExportHandler struct {
	service ExportServiceInterface
}

// NewExportHandler はExportHandlerを生成する。
func NewExportHandler(service ExportServiceInterface) *ExportHandler {
	return &ExportHandler{service: service}
}

// Export は記録を添付ファイルとして返す。formatの既定はjson。
// GET /api/export?format=json|pdf|doctor
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = tracker.ExportJSON
	}

	exp, err := h.service.Export(r.Context(), format)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", exp.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exp.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(exp.Body)))
	w.WriteHeader(http.StatusOK)
	w.Write(exp.Body)
}
