// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: validation, activity, premium, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeInvalidKind         = "INVALID_KIND"
	ErrCodeInvalidProfile      = "INVALID_PROFILE"
	ErrCodeTrialLimitReached   = "TRIAL_LIMIT_REACHED"
	ErrCodePremiumRequired     = "PREMIUM_REQUIRED"
	ErrCodePlanNotFound        = "PLAN_NOT_FOUND"
	ErrCodePlanNotPurchasable  = "PLAN_NOT_PURCHASABLE"
	ErrCodeInvalidExportFormat = "INVALID_EXPORT_FORMAT"
	ErrCodeExportUnavailable   = "EXPORT_UNAVAILABLE"
	ErrCodeNoOpenSession       = "NO_OPEN_SESSION"
)

// NewInvalidKindError は未知のアクティビティ種別エラーを生成する。
func NewInvalidKindError(kind string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidKind,
		Message:  fmt.Sprintf("無効なアクティビティ種別です: %s", kind),
		Category: "validation",
		Action:   "種別には sleep または feeding を指定してください。",
	}
}

// NewInvalidProfileError はプロフィール入力値エラーを生成する。
func NewInvalidProfileError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidProfile,
		Message:  fmt.Sprintf("プロフィールの入力内容が正しくありません: %s", reason),
		Category: "validation",
		Action:   "入力内容を確認してください。",
	}
}

// NewTrialLimitReachedError は無料プランの記録上限エラーを生成する。
func NewTrialLimitReachedError(windowDays, limit int) *APIError {
	return &APIError{
		Code:     ErrCodeTrialLimitReached,
		Message:  fmt.Sprintf("無料プランでは直近%d日間に%d件まで記録できます。", windowDays, limit),
		Category: "premium",
		Action:   "プレミアムプランにアップグレードすると無制限に記録できます。",
	}
}

// NewPremiumRequiredError はプレミアム限定機能のエラーを生成する。
func NewPremiumRequiredError(feature string) *APIError {
	return &APIError{
		Code:     ErrCodePremiumRequired,
		Message:  fmt.Sprintf("%sはプレミアムプラン限定の機能です。", feature),
		Category: "premium",
		Action:   "プレミアムプランにアップグレードしてください。",
	}
}

// NewPlanNotFoundError はプラン未検出エラーを生成する。
func NewPlanNotFoundError(name string) *APIError {
	return &APIError{
		Code:     ErrCodePlanNotFound,
		Message:  fmt.Sprintf("指定されたプランが見つかりません: %s", name),
		Category: "premium",
		Action:   "プラン名を確認してください。",
	}
}

// NewPlanNotPurchasableError は購入できないプランを指定した場合のエラーを生成する。
func NewPlanNotPurchasableError(name string) *APIError {
	return &APIError{
		Code:     ErrCodePlanNotPurchasable,
		Message:  fmt.Sprintf("このプランは購入できません: %s", name),
		Category: "premium",
		Action:   "premium または annual を選択してください。",
	}
}

// NewInvalidExportFormatError は未知のエクスポート形式エラーを生成する。
func NewInvalidExportFormatError(format string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidExportFormat,
		Message:  fmt.Sprintf("無効なエクスポート形式です: %s", format),
		Category: "validation",
		Action:   "形式には json、pdf、doctor のいずれかを指定してください。",
	}
}

// NewExportUnavailableError は未対応のエクスポート形式エラーを生成する。
func NewExportUnavailableError(format string) *APIError {
	return &APIError{
		Code:     ErrCodeExportUnavailable,
		Message:  fmt.Sprintf("%s形式のエクスポートは準備中です。", format),
		Category: "system",
		Action:   "JSON形式をご利用ください。",
	}
}

// NewNoOpenSessionError は計測中セッションが存在しない場合のエラーを生成する。
func NewNoOpenSessionError(kind Kind) *APIError {
	return &APIError{
		Code:     ErrCodeNoOpenSession,
		Message:  fmt.Sprintf("計測中の%sはありません。", kind),
		Category: "activity",
		Action:   "先に計測を開始してください。",
	}
}
