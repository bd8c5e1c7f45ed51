package repository

import (
	"context"
	"database/sql/driver"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qrmenu-backend/internal/model"
)

func newMockDB(t *testing.T) (*OrderRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, dbmock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewOrderRepo(db), dbmock
}

func orderRows(rows ...[]any) *sqlmock.Rows {
	r := sqlmock.NewRows([]string{
		"id", "reference", "table_id", "status", "subtotal_cents", "tax_cents", "total_cents",
		"customer_name", "customer_phone", "business_day", "created_at", "updated_at",
	})
	for _, row := range rows {
		vals := make([]driver.Value, len(row))
		for i, v := range row {
			vals[i] = v
		}
		r.AddRow(vals...)
	}
	return r
}

func TestGetByReferenceLoadsItems(t *testing.T) {
	repo, dbmock := newMockDB(t)
	now := time.Now()

	dbmock.ExpectQuery("FROM orders WHERE reference").WithArgs("ref-1").
		WillReturnRows(orderRows(
			[]any{42, "ref-1", 3, "PENDING", 2540, 254, 2794, nil, nil, "2024-01-15", now, now},
		))
	dbmock.ExpectQuery("FROM order_items WHERE order_id").WithArgs(uint64(42)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "order_id", "menu_item_id", "menu_item_name", "price_cents", "quantity", "instructions", "prep_minutes",
		}).
			AddRow(1, 42, 10, "Laksa", 650, 2, nil, 12).
			AddRow(2, 42, 11, "Satay", 890, 1, "no peanuts", 15))

	o, err := repo.GetByReference(context.Background(), "ref-1")
	require.NoError(t, err)
	assert.Equal(t, uint64(42), o.ID)
	require.Len(t, o.Items, 2)
	assert.Equal(t, "Laksa", o.Items[0].MenuItemName)
	require.NotNil(t, o.Items[1].Instructions)
	assert.Equal(t, "no peanuts", *o.Items[1].Instructions)
	assert.NoError(t, dbmock.ExpectationsWereMet())
}

func TestGetByReferenceNotFound(t *testing.T) {
	repo, dbmock := newMockDB(t)

	dbmock.ExpectQuery("FROM orders WHERE reference").WithArgs("nope").
		WillReturnRows(orderRows())

	_, err := repo.GetByReference(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrOrderNotFound)
	assert.NoError(t, dbmock.ExpectationsWereMet())
}

func TestListByBusinessDayFiltersStatus(t *testing.T) {
	repo, dbmock := newMockDB(t)
	now := time.Now()

	status := model.OrderPreparing
	dbmock.ExpectQuery("FROM orders WHERE business_day").
		WithArgs("2024-01-15", string(status)).
		WillReturnRows(orderRows(
			[]any{43, "ref-2", 4, "PREPARING", 890, 89, 979, nil, nil, "2024-01-15", now, now},
		))

	out, err := repo.ListByBusinessDay(context.Background(), "2024-01-15", &status)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, model.OrderPreparing, out[0].Status)
	assert.NoError(t, dbmock.ExpectationsWereMet())
}

func TestPurgeStalePendingReleasesTables(t *testing.T) {
	repo, dbmock := newMockDB(t)
	cutoff := time.Date(2024, 1, 15, 3, 0, 0, 0, time.UTC)

	dbmock.ExpectBegin()
	dbmock.ExpectExec("UPDATE tables t").
		WithArgs(string(model.TableEmpty), string(model.OrderPending), cutoff).
		WillReturnResult(sqlmock.NewResult(0, 2))
	dbmock.ExpectExec("DELETE FROM orders WHERE status").
		WithArgs(string(model.OrderPending), cutoff).
		WillReturnResult(sqlmock.NewResult(0, 3))
	dbmock.ExpectCommit()

	n, err := repo.PurgeStalePending(context.Background(), cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.NoError(t, dbmock.ExpectationsWereMet())
}

func TestPurgeStalePendingRollsBackOnFailure(t *testing.T) {
	repo, dbmock := newMockDB(t)
	cutoff := time.Now().UTC()

	dbmock.ExpectBegin()
	dbmock.ExpectExec("UPDATE tables t").
		WillReturnResult(sqlmock.NewResult(0, 1))
	dbmock.ExpectExec("DELETE FROM orders WHERE status").
		WillReturnError(assert.AnError)
	dbmock.ExpectRollback()

	_, err := repo.PurgeStalePending(context.Background(), cutoff)
	assert.Error(t, err)
	assert.NoError(t, dbmock.ExpectationsWereMet())
}
