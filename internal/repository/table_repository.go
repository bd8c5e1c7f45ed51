package repository

import (
	"context"
	"database/sql"
	"errors"

	"qrmenu-backend/internal/model"
)

var (
	ErrTableNotFound     = errors.New("table not found")
	ErrTableNumberExists = errors.New("table number already exists")
	ErrTableOccupied     = errors.New("table already has an open order")
)

// TableRepo provides access to dining tables. The pairing of a table's
// status with its current_order_id is only ever changed through the ...Tx
// methods so both fields move together inside the caller's transaction.
type TableRepo struct{ db *sql.DB }

func NewTableRepo(db *sql.DB) *TableRepo { return &TableRepo{db: db} }

// DB exposes the underlying handle so services can open transactions that
// span tables and orders.
func (r *TableRepo) DB() *sql.DB { return r.db }

const tableCols = `id, number, capacity, location, qr_code, status, current_order_id, created_at, updated_at`

func scanTable(row interface{ Scan(...any) error }) (*model.Table, error) {
	var (
		t   model.Table
		cur sql.NullInt64
	)
	err := row.Scan(&t.ID, &t.Number, &t.Capacity, &t.Location, &t.QRCode,
		&t.Status, &cur, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if cur.Valid {
		id := uint64(cur.Int64)
		t.CurrentOrderID = &id
	}
	return &t, nil
}

// Create inserts a table and populates its generated ID.
func (r *TableRepo) Create(ctx context.Context, t *model.Table) error {
	const q = `INSERT INTO tables (number, capacity, location, qr_code, status) VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, t.Number, t.Capacity, t.Location, t.QRCode, t.Status)
	if err != nil {
		if isDuplicate(err) {
			return ErrTableNumberExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	return nil
}

// GetByID returns a table or ErrTableNotFound.
func (r *TableRepo) GetByID(ctx context.Context, id uint64) (*model.Table, error) {
	t, err := scanTable(r.db.QueryRowContext(ctx,
		`SELECT `+tableCols+` FROM tables WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, ErrTableNotFound
	}
	return t, err
}

// GetByQRCode resolves the code embedded in a table's QR sticker.
func (r *TableRepo) GetByQRCode(ctx context.Context, code string) (*model.Table, error) {
	t, err := scanTable(r.db.QueryRowContext(ctx,
		`SELECT `+tableCols+` FROM tables WHERE qr_code = ?`, code))
	if err == sql.ErrNoRows {
		return nil, ErrTableNotFound
	}
	return t, err
}

// GetByIDTx reads a table inside a transaction with a row lock, serializing
// concurrent order creation against the same table.
func (r *TableRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Table, error) {
	t, err := scanTable(tx.QueryRowContext(ctx,
		`SELECT `+tableCols+` FROM tables WHERE id = ? FOR UPDATE`, id))
	if err == sql.ErrNoRows {
		return nil, ErrTableNotFound
	}
	return t, err
}

// List returns all tables ordered by number.
func (r *TableRepo) List(ctx context.Context) ([]model.Table, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+tableCols+` FROM tables ORDER BY number`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Table
	for rows.Next() {
		t, err := scanTable(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

// Update rewrites a table's number, capacity and location.
func (r *TableRepo) Update(ctx context.Context, t *model.Table) error {
	const q = `UPDATE tables SET number = ?, capacity = ?, location = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, t.Number, t.Capacity, t.Location, t.ID)
	if err != nil {
		if isDuplicate(err) {
			return ErrTableNumberExists
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrTableNotFound
	}
	return nil
}

// SetStatus sets a table's status directly (staff board actions such as
// marking a cleaned table EMPTY or taking one into MAINTENANCE). It
// refuses to touch a table that still has an open order.
func (r *TableRepo) SetStatus(ctx context.Context, id uint64, status model.TableStatus) error {
	const q = `UPDATE tables SET status = ? WHERE id = ? AND current_order_id IS NULL`
	res, err := r.db.ExecContext(ctx, q, status, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Distinguish a missing table from one with an open order.
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return ErrTableOccupied
	}
	return nil
}

// OccupyTx marks a table OCCUPIED and links the order in one conditional
// write. The current_order_id IS NULL guard makes double occupation
// impossible even under concurrent creation: the second transaction
// affects zero rows and gets ErrTableOccupied.
func (r *TableRepo) OccupyTx(ctx context.Context, tx *sql.Tx, tableID, orderID uint64) error {
	const q = `UPDATE tables SET status = ?, current_order_id = ?
	           WHERE id = ? AND current_order_id IS NULL`
	res, err := tx.ExecContext(ctx, q, model.TableOccupied, orderID, tableID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrTableOccupied
	}
	return nil
}

// ReleaseTx clears the table's current-order reference and sets the given
// follow-up status (CLEANING after completion, EMPTY after cancellation).
// It only releases from the given order, so a stale transition can never
// detach a newer order.
func (r *TableRepo) ReleaseTx(ctx context.Context, tx *sql.Tx, tableID, orderID uint64, status model.TableStatus) error {
	const q = `UPDATE tables SET status = ?, current_order_id = NULL
	           WHERE id = ? AND current_order_id = ?`
	_, err := tx.ExecContext(ctx, q, status, tableID, orderID)
	return err
}
