package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"qrmenu-backend/internal/model"
)

var ErrReservationNotFound = errors.New("reservation not found")

// Retention windows for the reservation sweep, measured against the
// reservation's target date rather than its creation date.
const (
	completedRetention = 30 * 24 * time.Hour
	cancelledRetention = 7 * 24 * time.Hour
)

// ReservationRepo provides CRUD for reservations and the retention sweep.
type ReservationRepo struct{ DB *sql.DB }

func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{DB: db} }

const reservationCols = `id, number, customer_name, customer_phone, party_size, reserved_at,
	status, table_id, notes, created_at, updated_at`

func scanReservation(row interface{ Scan(...any) error }) (*model.Reservation, error) {
	var (
		res     model.Reservation
		tableID sql.NullInt64
		notes   sql.NullString
	)
	err := row.Scan(&res.ID, &res.Number, &res.CustomerName, &res.CustomerPhone,
		&res.PartySize, &res.ReservedAt, &res.Status, &tableID, &notes,
		&res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if tableID.Valid {
		id := uint64(tableID.Int64)
		res.TableID = &id
	}
	if notes.Valid {
		res.Notes = &notes.String
	}
	return &res, nil
}

// Create inserts a reservation and populates its generated ID.
func (r *ReservationRepo) Create(ctx context.Context, res *model.Reservation) error {
	const q = `INSERT INTO reservations
	           (number, customer_name, customer_phone, party_size, reserved_at, status, table_id, notes)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	out, err := r.DB.ExecContext(ctx, q, res.Number, res.CustomerName, res.CustomerPhone,
		res.PartySize, res.ReservedAt.UTC(), res.Status, res.TableID, res.Notes)
	if err != nil {
		if isDuplicate(err) {
			return ErrConflict
		}
		return err
	}
	id, err := out.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)
	return nil
}

// GetByID returns a reservation or ErrReservationNotFound.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
	res, err := scanReservation(r.DB.QueryRowContext(ctx,
		`SELECT `+reservationCols+` FROM reservations WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, ErrReservationNotFound
	}
	return res, err
}

// List returns reservations with target dates inside [from, to), oldest
// first, optionally filtered by status.
func (r *ReservationRepo) List(ctx context.Context, from, to time.Time, status *model.ReservationStatus) ([]model.Reservation, error) {
	q := `SELECT ` + reservationCols + ` FROM reservations WHERE reserved_at >= ? AND reserved_at < ?`
	args := []any{from.UTC(), to.UTC()}
	if status != nil {
		q += ` AND status = ?`
		args = append(args, *status)
	}
	q += ` ORDER BY reserved_at`

	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *res)
	}
	return out, rows.Err()
}

// Update rewrites the customer-editable fields of a reservation.
func (r *ReservationRepo) Update(ctx context.Context, res *model.Reservation) error {
	const q = `UPDATE reservations
	           SET customer_name = ?, customer_phone = ?, party_size = ?, reserved_at = ?, table_id = ?, notes = ?
	           WHERE id = ?`
	out, err := r.DB.ExecContext(ctx, q, res.CustomerName, res.CustomerPhone,
		res.PartySize, res.ReservedAt.UTC(), res.TableID, res.Notes, res.ID)
	if err != nil {
		return err
	}
	n, err := out.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrReservationNotFound
	}
	return nil
}

// UpdateStatus moves a reservation to a new status.
func (r *ReservationRepo) UpdateStatus(ctx context.Context, id uint64, status model.ReservationStatus) error {
	out, err := r.DB.ExecContext(ctx,
		`UPDATE reservations SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return err
	}
	n, err := out.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrReservationNotFound
	}
	return nil
}

// PurgeExpired deletes reservations past their retention window as of now:
// COMPLETED ones whose target date is more than a month old, CANCELLED and
// NO_SHOW ones more than a week old. Both deletes are plain filtered bulk
// deletes, so re-running the sweep is harmless.
func (r *ReservationRepo) PurgeExpired(ctx context.Context, now time.Time) (completed, cancelled int64, err error) {
	const qc = `DELETE FROM reservations WHERE status = ? AND reserved_at < ?`
	res, err := r.DB.ExecContext(ctx, qc, model.ReservationCompleted, now.UTC().Add(-completedRetention))
	if err != nil {
		return 0, 0, err
	}
	if completed, err = res.RowsAffected(); err != nil {
		return 0, 0, err
	}

	const qx = `DELETE FROM reservations WHERE status IN (?, ?) AND reserved_at < ?`
	res, err = r.DB.ExecContext(ctx, qx, model.ReservationCancelled, model.ReservationNoShow,
		now.UTC().Add(-cancelledRetention))
	if err != nil {
		return completed, 0, err
	}
	if cancelled, err = res.RowsAffected(); err != nil {
		return completed, 0, err
	}
	return completed, cancelled, nil
}
