package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qrmenu-backend/internal/model"
)

func newReservationRepo(t *testing.T) (*ReservationRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, dbmock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewReservationRepo(db), dbmock
}

func TestReservationCreateDuplicateNumber(t *testing.T) {
	repo, dbmock := newReservationRepo(t)

	dbmock.ExpectExec("INSERT INTO reservations").
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry"))

	err := repo.Create(context.Background(), &model.Reservation{
		Number:        "RES-20240115-190000-0001",
		CustomerName:  "Mei Lin",
		CustomerPhone: "+65 8123 4567",
		PartySize:     4,
		ReservedAt:    time.Date(2024, 1, 20, 19, 0, 0, 0, time.UTC),
		Status:        model.ReservationPending,
	})
	assert.ErrorIs(t, err, ErrConflict)
	assert.NoError(t, dbmock.ExpectationsWereMet())
}

// The retention sweep measures age from the reservation's target date:
// COMPLETED rows survive a month, CANCELLED and NO_SHOW rows a week.
func TestPurgeExpiredThresholds(t *testing.T) {
	repo, dbmock := newReservationRepo(t)
	now := time.Date(2024, 2, 15, 12, 0, 0, 0, time.UTC)

	dbmock.ExpectExec("DELETE FROM reservations WHERE status = ").
		WithArgs(string(model.ReservationCompleted), now.Add(-30*24*time.Hour)).
		WillReturnResult(sqlmock.NewResult(0, 4))
	dbmock.ExpectExec("DELETE FROM reservations WHERE status IN").
		WithArgs(string(model.ReservationCancelled), string(model.ReservationNoShow), now.Add(-7*24*time.Hour)).
		WillReturnResult(sqlmock.NewResult(0, 2))

	completed, cancelled, err := repo.PurgeExpired(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, int64(4), completed)
	assert.Equal(t, int64(2), cancelled)
	assert.NoError(t, dbmock.ExpectationsWereMet())
}

func TestPurgeExpiredIsRerunnable(t *testing.T) {
	repo, dbmock := newReservationRepo(t)
	now := time.Now().UTC()

	dbmock.ExpectExec("DELETE FROM reservations WHERE status = ").
		WillReturnResult(sqlmock.NewResult(0, 0))
	dbmock.ExpectExec("DELETE FROM reservations WHERE status IN").
		WillReturnResult(sqlmock.NewResult(0, 0))

	completed, cancelled, err := repo.PurgeExpired(context.Background(), now)
	require.NoError(t, err)
	assert.Zero(t, completed)
	assert.Zero(t, cancelled)
	assert.NoError(t, dbmock.ExpectationsWereMet())
}

func TestReservationUpdateStatusNotFound(t *testing.T) {
	repo, dbmock := newReservationRepo(t)

	dbmock.ExpectExec("UPDATE reservations SET status").
		WithArgs(string(model.ReservationSeated), uint64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), 99, model.ReservationSeated)
	assert.ErrorIs(t, err, ErrReservationNotFound)
	assert.NoError(t, dbmock.ExpectationsWereMet())
}
