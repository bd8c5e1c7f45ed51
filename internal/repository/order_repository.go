package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"qrmenu-backend/internal/model"
)

var ErrOrderNotFound = errors.New("order not found")

// OrderRepo provides access to orders and their line items. Writes that
// must stay atomic with table state (creation, status transitions) are
// exposed as ...Tx methods and composed by the order service inside a
// single transaction.
type OrderRepo struct{ db *sql.DB }

func NewOrderRepo(db *sql.DB) *OrderRepo { return &OrderRepo{db: db} }

// DB exposes the underlying handle for transaction orchestration.
func (r *OrderRepo) DB() *sql.DB { return r.db }

const orderCols = `id, reference, table_id, status, subtotal_cents, tax_cents, total_cents,
	customer_name, customer_phone, business_day, created_at, updated_at`

func scanOrder(row interface{ Scan(...any) error }) (*model.Order, error) {
	var (
		o           model.Order
		name, phone sql.NullString
	)
	err := row.Scan(&o.ID, &o.Reference, &o.TableID, &o.Status,
		&o.SubtotalCents, &o.TaxCents, &o.TotalCents,
		&name, &phone, &o.BusinessDay, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if name.Valid {
		o.CustomerName = &name.String
	}
	if phone.Valid {
		o.CustomerPhone = &phone.String
	}
	return &o, nil
}

// CreateTx inserts an order and its line items within the caller's
// transaction and populates generated IDs. The caller commits only after
// the table has been occupied, so an order row never exists without its
// table side effect.
func (r *OrderRepo) CreateTx(ctx context.Context, tx *sql.Tx, o *model.Order) error {
	const q = `INSERT INTO orders
	           (reference, table_id, status, subtotal_cents, tax_cents, total_cents,
	            customer_name, customer_phone, business_day, created_at)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, o.Reference, o.TableID, o.Status,
		o.SubtotalCents, o.TaxCents, o.TotalCents,
		o.CustomerName, o.CustomerPhone, o.BusinessDay, o.CreatedAt.UTC())
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	o.ID = uint64(id)

	const iq = `INSERT INTO order_items
	            (order_id, menu_item_id, menu_item_name, price_cents, quantity, instructions, prep_minutes)
	            VALUES (?, ?, ?, ?, ?, ?, ?)`
	for i := range o.Items {
		it := &o.Items[i]
		it.OrderID = o.ID
		res, err := tx.ExecContext(ctx, iq, o.ID, it.MenuItemID, it.MenuItemName,
			it.PriceCents, it.Quantity, it.Instructions, it.PrepMinutes)
		if err != nil {
			return err
		}
		iid, err := res.LastInsertId()
		if err != nil {
			return err
		}
		it.ID = uint64(iid)
	}
	return nil
}

// GetByID returns an order with its items, or ErrOrderNotFound.
func (r *OrderRepo) GetByID(ctx context.Context, id uint64) (*model.Order, error) {
	o, err := scanOrder(r.db.QueryRowContext(ctx,
		`SELECT `+orderCols+` FROM orders WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	if o.Items, err = r.itemsFor(ctx, o.ID); err != nil {
		return nil, err
	}
	return o, nil
}

// GetByIDTx reads an order inside a transaction with a row lock so a
// status transition sees a stable current status.
func (r *OrderRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Order, error) {
	o, err := scanOrder(tx.QueryRowContext(ctx,
		`SELECT `+orderCols+` FROM orders WHERE id = ? FOR UPDATE`, id))
	if err == sql.ErrNoRows {
		return nil, ErrOrderNotFound
	}
	return o, err
}

// GetByReference returns an order by its public tracking reference.
func (r *OrderRepo) GetByReference(ctx context.Context, ref string) (*model.Order, error) {
	o, err := scanOrder(r.db.QueryRowContext(ctx,
		`SELECT `+orderCols+` FROM orders WHERE reference = ?`, ref))
	if err == sql.ErrNoRows {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	if o.Items, err = r.itemsFor(ctx, o.ID); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *OrderRepo) itemsFor(ctx context.Context, orderID uint64) ([]model.OrderItem, error) {
	const q = `SELECT id, order_id, menu_item_id, menu_item_name, price_cents, quantity, instructions, prep_minutes
	           FROM order_items WHERE order_id = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []model.OrderItem
	for rows.Next() {
		var (
			it    model.OrderItem
			instr sql.NullString
		)
		if err := rows.Scan(&it.ID, &it.OrderID, &it.MenuItemID, &it.MenuItemName,
			&it.PriceCents, &it.Quantity, &instr, &it.PrepMinutes); err != nil {
			return nil, err
		}
		if instr.Valid {
			it.Instructions = &instr.String
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// ListByBusinessDay returns orders for one trading day, newest first,
// optionally filtered by status. Items are not loaded for listings.
func (r *OrderRepo) ListByBusinessDay(ctx context.Context, day string, status *model.OrderStatus) ([]model.Order, error) {
	q := `SELECT ` + orderCols + ` FROM orders WHERE business_day = ?`
	args := []any{day}
	if status != nil {
		q += ` AND status = ?`
		args = append(args, *status)
	}
	q += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

// UpdateStatusTx moves an order to a new status within the caller's
// transaction. The WHERE clause re-checks the expected current status so
// two concurrent transitions cannot both succeed.
func (r *OrderRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uint64, from, to model.OrderStatus) error {
	const q = `UPDATE orders SET status = ? WHERE id = ? AND status = ?`
	res, err := tx.ExecContext(ctx, q, to, id, from)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrConflict
	}
	return nil
}

// PurgeStalePending deletes PENDING orders created before the cutoff:
// abandoned orders that never reached the kitchen. Tables still pointing
// at a purged order are released back to EMPTY in the same transaction,
// and line items go with the orders via ON DELETE CASCADE. Safe to re-run.
func (r *OrderRepo) PurgeStalePending(ctx context.Context, olderThan time.Time) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	const release = `UPDATE tables t
	                 JOIN orders o ON o.id = t.current_order_id
	                 SET t.status = ?, t.current_order_id = NULL
	                 WHERE o.status = ? AND o.created_at < ?`
	if _, err := tx.ExecContext(ctx, release, model.TableEmpty, model.OrderPending, olderThan.UTC()); err != nil {
		return 0, err
	}

	const del = `DELETE FROM orders WHERE status = ? AND created_at < ?`
	res, err := tx.ExecContext(ctx, del, model.OrderPending, olderThan.UTC())
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return n, tx.Commit()
}
