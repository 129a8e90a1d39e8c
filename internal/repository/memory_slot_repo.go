package repository

import (
	"context"
	"sync"
)

// MemorySlotRepo はプロセス内メモリに値を保持するスロットリポジトリ。
// 再起動すると内容は失われる。
type MemorySlotRepo struct {
	mu    sync.RWMutex
	slots map[string][]byte
}

// NewMemorySlotRepo はMemorySlotRepoを生成する。
func NewMemorySlotRepo() *MemorySlotRepo {
	return &MemorySlotRepo{slots: make(map[string][]byte)}
}

// Get は指定キーの値のコピーを返す。存在しない場合はnilを返す。
func (r *MemorySlotRepo) Get(_ context.Context, key string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.slots[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), v...), nil
}

// Put は指定キーの値を上書きする。
func (r *MemorySlotRepo) Put(_ context.Context, key string, value []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.slots[key] = append([]byte(nil), value...)
	return nil
}

// PingContext は常に成功する。
func (r *MemorySlotRepo) PingContext(context.Context) error {
	return nil
}

var (
	_ SlotRepository = (*MemorySlotRepo)(nil)
	_ Pinger         = (*MemorySlotRepo)(nil)
)
