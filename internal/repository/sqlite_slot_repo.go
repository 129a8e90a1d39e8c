package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS slots (
    key        TEXT PRIMARY KEY,
    value      BLOB NOT NULL,
    updated_at DATETIME NOT NULL
);`

// SQLiteSlotRepo はローカルのSQLiteファイルを使用したスロットリポジトリ。
type SQLiteSlotRepo struct {
	db *sql.DB
}

// NewSQLiteSlotRepo はスキーマを作成してSQLiteSlotRepoを生成する。
func NewSQLiteSlotRepo(ctx context.Context, db *sql.DB) (*SQLiteSlotRepo, error) {
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		return nil, fmt.Errorf("failed to initialize slot schema: %w", err)
	}
	return &SQLiteSlotRepo{db: db}, nil
}

// Get は指定キーの値を取得する。見つからない場合はnilを返す。
func (r *SQLiteSlotRepo) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := r.db.QueryRowContext(ctx, `SELECT value FROM slots WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get slot %s: %w", key, err)
	}
	return value, nil
}

// Put は指定キーの値をUPSERTする。
func (r *SQLiteSlotRepo) Put(ctx context.Context, key string, value []byte) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO slots (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to put slot %s: %w", key, err)
	}
	return nil
}

// PingContext はデータベースへの疎通を確認する。
func (r *SQLiteSlotRepo) PingContext(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

var (
	_ SlotRepository = (*SQLiteSlotRepo)(nil)
	_ Pinger         = (*SQLiteSlotRepo)(nil)
)
