package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"qrmenu-backend/internal/model"
)

var ErrMenuItemNotFound = errors.New("menu item not found")

// MenuRepo provides CRUD for menu items.
type MenuRepo struct{ DB *sql.DB }

func NewMenuRepo(db *sql.DB) *MenuRepo { return &MenuRepo{DB: db} }

const menuItemCols = `id, category_id, name, description, price_cents, available, prep_minutes, image_url, created_at, updated_at`

func scanMenuItem(row interface{ Scan(...any) error }) (*model.MenuItem, error) {
	var (
		it  model.MenuItem
		img sql.NullString
	)
	err := row.Scan(&it.ID, &it.CategoryID, &it.Name, &it.Description, &it.PriceCents,
		&it.Available, &it.PrepMinutes, &img, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if img.Valid {
		it.ImageURL = &img.String
	}
	return &it, nil
}

// Create inserts a menu item and populates its generated ID. A missing
// category surfaces as ErrCategoryNotFound through the foreign key.
func (r *MenuRepo) Create(ctx context.Context, it *model.MenuItem) error {
	const q = `INSERT INTO menu_items (category_id, name, description, price_cents, available, prep_minutes, image_url)
	           VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := r.DB.ExecContext(ctx, q, it.CategoryID, it.Name, it.Description,
		it.PriceCents, it.Available, it.PrepMinutes, it.ImageURL)
	if err != nil {
		if strings.Contains(err.Error(), "1452") { // FK parent row missing
			return ErrCategoryNotFound
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	it.ID = uint64(id)
	return nil
}

// GetByID returns a menu item or ErrMenuItemNotFound.
func (r *MenuRepo) GetByID(ctx context.Context, id uint64) (*model.MenuItem, error) {
	it, err := scanMenuItem(r.DB.QueryRowContext(ctx,
		`SELECT `+menuItemCols+` FROM menu_items WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, ErrMenuItemNotFound
	}
	return it, err
}

// List returns menu items, optionally filtered to one category and/or to
// available items only.
func (r *MenuRepo) List(ctx context.Context, categoryID *uint64, availableOnly bool) ([]model.MenuItem, error) {
	q := `SELECT ` + menuItemCols + ` FROM menu_items`
	var (
		conds []string
		args  []any
	)
	if categoryID != nil {
		conds = append(conds, "category_id = ?")
		args = append(args, *categoryID)
	}
	if availableOnly {
		conds = append(conds, "available = 1")
	}
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY category_id, name"

	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.MenuItem
	for rows.Next() {
		it, err := scanMenuItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *it)
	}
	return out, rows.Err()
}

// GetManyTx loads the menu items with the given IDs inside a transaction,
// locking the rows so availability cannot flip while an order that uses
// them is being written. Missing IDs are simply absent from the result.
func (r *MenuRepo) GetManyTx(ctx context.Context, tx *sql.Tx, ids []uint64) (map[uint64]*model.MenuItem, error) {
	if len(ids) == 0 {
		return map[uint64]*model.MenuItem{}, nil
	}
	q := `SELECT ` + menuItemCols + ` FROM menu_items WHERE id IN (?` +
		strings.Repeat(",?", len(ids)-1) + `) FOR UPDATE`
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	rows, err := tx.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[uint64]*model.MenuItem, len(ids))
	for rows.Next() {
		it, err := scanMenuItem(rows)
		if err != nil {
			return nil, err
		}
		out[it.ID] = it
	}
	return out, rows.Err()
}

// Update rewrites all editable fields of a menu item.
func (r *MenuRepo) Update(ctx context.Context, it *model.MenuItem) error {
	const q = `UPDATE menu_items
	           SET category_id = ?, name = ?, description = ?, price_cents = ?, available = ?, prep_minutes = ?, image_url = ?
	           WHERE id = ?`
	res, err := r.DB.ExecContext(ctx, q, it.CategoryID, it.Name, it.Description,
		it.PriceCents, it.Available, it.PrepMinutes, it.ImageURL, it.ID)
	if err != nil {
		if strings.Contains(err.Error(), "1452") {
			return ErrCategoryNotFound
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrMenuItemNotFound
	}
	return nil
}

// SetAvailability flips the available flag without touching other fields.
func (r *MenuRepo) SetAvailability(ctx context.Context, id uint64, available bool) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE menu_items SET available = ? WHERE id = ?`, available, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrMenuItemNotFound
	}
	return nil
}

// Delete removes a menu item. Historical orders keep their snapshot of the
// item's name and price, so deletion never rewrites order history.
func (r *MenuRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM menu_items WHERE id = ?`, id)
	if err != nil {
		if isFKBlocked(err) {
			return ErrConflict
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrMenuItemNotFound
	}
	return nil
}
