// Package security はアプリケーションのセキュリティ機能を提供する。
//
// TextSanitizer はプロフィールなどのユーザー入力からHTMLを取り除き、
// プレーンテキストとして保存できる形に整える。
// bluemondayのStrictPolicyで全てのタグを除去する。
package security

import (
	"html"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

// DefaultMaxRunes はテキスト項目の既定の最大文字数。
const DefaultMaxRunes = 100

// TextSanitizerService はプレーンテキスト入力のサニタイズ機能のインターフェース。
type TextSanitizerService interface {
	// Sanitize はHTMLタグを除去し、前後の空白を取り除いたテキストを返す。
	// 最大文字数を超える部分は切り捨てる。
	Sanitize(raw string) string
}

// textSanitizer はTextSanitizerServiceの実装。
// bluemondayのポリシーはスレッドセーフに共有できる。
type textSanitizer struct {
	policy   *bluemonday.Policy
	maxRunes int
}

// NewTextSanitizer はTextSanitizerServiceを生成する。maxRunesが0以下の場合は既定値を使う。
func NewTextSanitizer(maxRunes int) *textSanitizer {
	if maxRunes <= 0 {
		maxRunes = DefaultMaxRunes
	}
	return &textSanitizer{
		policy:   bluemonday.StrictPolicy(),
		maxRunes: maxRunes,
	}
}

// Sanitize はHTMLタグを除去したプレーンテキストを返す。
// エンティティで書かれたタグも復元後に除去されるよう、結果が変わらなくなるまで繰り返す。
func (s *textSanitizer) Sanitize(raw string) string {
	out := raw
	for i := 0; i < 3; i++ {
		next := html.UnescapeString(s.policy.Sanitize(out))
		if next == out {
			break
		}
		out = next
	}
	out = strings.TrimSpace(out)

	if utf8.RuneCountInString(out) > s.maxRunes {
		runes := []rune(out)
		out = string(runes[:s.maxRunes])
	}
	return out
}

var _ TextSanitizerService = (*textSanitizer)(nil)
