package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/hitoshi/babytrack/internal/model"
	"github.com/hitoshi/babytrack/internal/security"
)

// maxProfileBodyBytes はプロフィール更新リクエストの最大サイズ。
const maxProfileBodyBytes = 16 << 10

// ProfileServiceInterface はプロフィールハンドラーが必要とするサービスインターフェース。
type ProfileServiceInterface interface {
	Profile() model.BabyProfile
	UpdateProfile(ctx context.Context, patch model.ProfilePatch) (model.BabyProfile, error)
}

// ProfileHandler は赤ちゃんのプロフィールのHTTPハンドラー。
type ProfileHandler struct {
	service   ProfileServiceInterface
	sanitizer security.TextSanitizerService
}

// NewProfileHandler はProfileHandlerを生成する。
func NewProfileHandler(service ProfileServiceInterface, sanitizer security.TextSanitizerService) *ProfileHandler {
	if sanitizer == nil {
		sanitizer = security.NewTextSanitizer(0)
	}
	return &ProfileHandler{service: service, sanitizer: sanitizer}
}

// updateProfileRequest はプロフィール更新リクエストのボディ。
// 省略したフィールドは変更しない。
type updateProfileRequest struct {
	Name      *string `json:"name"`
	AgeMonths *int    `json:"ageMonths"`
	BirthDate *string `json:"birthDate"`
}

// GetProfile は現在のプロフィールを返す。
// GET /api/profile
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toProfileResponse(h.service.Profile()))
}

// UpdateProfile はプロフィールを部分更新する。
// PUT /api/profile
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxProfileBodyBytes)

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, newInvalidRequestError(
			"リクエストボディの解析に失敗しました。",
			"正しいJSON形式でリクエストしてください。",
		))
		return
	}

	patch := model.ProfilePatch{AgeMonths: req.AgeMonths}
	if req.Name != nil {
		name := h.sanitizer.Sanitize(*req.Name)
		patch.Name = &name
	}
	if req.BirthDate != nil {
		birthDate := h.sanitizer.Sanitize(*req.BirthDate)
		patch.BirthDate = &birthDate
	}

	profile, err := h.service.UpdateProfile(r.Context(), patch)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProfileResponse(profile))
}
