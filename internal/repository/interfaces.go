// Package repository はデータ永続化のインターフェースを定義する。
package repository

import "context"

// 永続化スロットのキー
const (
	SlotActivities = "babyActivities"
	SlotProfile    = "babyProfile"
)

// SlotRepository はキーごとにJSONブロブを丸ごと保存する永続化インターフェース。
// 差分更新は行わず、Putは常にスロット全体を上書きする。
type SlotRepository interface {
	// Get は指定キーの値を取得する。存在しない場合はnil, nilを返す。
	Get(ctx context.Context, key string) ([]byte, error)

	// Put は指定キーの値を上書き保存する。
	Put(ctx context.Context, key string, value []byte) error
}

// Pinger は永続化先の疎通確認インターフェース。
type Pinger interface {
	PingContext(ctx context.Context) error
}
