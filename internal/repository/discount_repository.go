package repository

import (
	"context"
	"database/sql"

	"qrmenu-backend/internal/model"
)

// DiscountRepo manages the single-row discount settings table.
type DiscountRepo struct{ DB *sql.DB }

func NewDiscountRepo(db *sql.DB) *DiscountRepo { return &DiscountRepo{DB: db} }

// Get returns the current discount settings. When no row exists yet the
// provided default cutoff is returned with the promotion disabled, so the
// public menu endpoint always has something to report.
func (r *DiscountRepo) Get(ctx context.Context, defaultCutoff string) (*model.Discount, error) {
	const q = `SELECT id, enabled, percent, cutoff, updated_at FROM discount_settings WHERE id = 1`
	var d model.Discount
	err := r.DB.QueryRowContext(ctx, q).Scan(&d.ID, &d.Enabled, &d.Percent, &d.Cutoff, &d.UpdatedAt)
	if err == sql.ErrNoRows {
		return &model.Discount{ID: 1, Enabled: false, Percent: 0, Cutoff: defaultCutoff}, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Upsert writes the discount settings row.
func (r *DiscountRepo) Upsert(ctx context.Context, d *model.Discount) error {
	const q = `INSERT INTO discount_settings (id, enabled, percent, cutoff)
	           VALUES (1, ?, ?, ?)
	           ON DUPLICATE KEY UPDATE enabled = VALUES(enabled), percent = VALUES(percent), cutoff = VALUES(cutoff)`
	_, err := r.DB.ExecContext(ctx, q, d.Enabled, d.Percent, d.Cutoff)
	return err
}
