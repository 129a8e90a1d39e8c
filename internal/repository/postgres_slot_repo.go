package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// PostgresSlotRepo はPostgreSQLを使用したスロットリポジトリ。
// slotsテーブルはマイグレーションで作成される。
type PostgresSlotRepo struct {
	db *sql.DB
}

// NewPostgresSlotRepo はPostgresSlotRepoを生成する。
func NewPostgresSlotRepo(db *sql.DB) *PostgresSlotRepo {
	return &PostgresSlotRepo{db: db}
}

// Get は指定キーの値を取得する。見つからない場合はnilを返す。
func (r *PostgresSlotRepo) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT value FROM slots WHERE key = $1`,
		key,
	).Scan(&value)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get slot %s: %w", key, err)
	}

	return value, nil
}

// Put は指定キーの値をUPSERTする。
func (r *PostgresSlotRepo) Put(ctx context.Context, key string, value []byte) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO slots (key, value, updated_at)
		 VALUES ($1, $2, NOW())
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("failed to put slot %s: %w", key, err)
	}
	return nil
}

// PingContext はデータベースへの疎通を確認する。
func (r *PostgresSlotRepo) PingContext(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// compile-time interface check
var (
	_ SlotRepository = (*PostgresSlotRepo)(nil)
	_ Pinger         = (*PostgresSlotRepo)(nil)
)
