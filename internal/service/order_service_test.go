package service

import (
	"context"
	"database/sql/driver"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"qrmenu-backend/internal/businessday"
	"qrmenu-backend/internal/model"
	"qrmenu-backend/internal/queue"
	"qrmenu-backend/internal/repository"
)

type mockPublisher struct{ mock.Mock }

func (m *mockPublisher) OrderPlaced(ctx context.Context, ev queue.OrderPlacedEvent) error {
	return m.Called(ctx, ev).Error(0)
}

func (m *mockPublisher) OrderStatusChanged(ctx context.Context, ev queue.OrderStatusChangedEvent) error {
	return m.Called(ctx, ev).Error(0)
}

func newTestService(t *testing.T) (*OrderService, sqlmock.Sqlmock, *mockPublisher) {
	t.Helper()
	db, dbmock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	pub := &mockPublisher{}
	svc := NewOrderService(
		repository.NewOrderRepo(db),
		repository.NewTableRepo(db),
		repository.NewMenuRepo(db),
		businessday.New(8),
		pub,
	)
	svc.now = func() time.Time {
		return time.Date(2024, 1, 15, 5, 0, 0, 0, time.UTC) // 13:00 local (+8)
	}
	return svc, dbmock, pub
}

func tableRows(status model.TableStatus) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "number", "capacity", "location", "qr_code", "status", "current_order_id", "created_at", "updated_at",
	}).AddRow(3, 7, 4, "terrace", "abc123", string(status), nil, now, now)
}

func menuRows(rows ...[]any) *sqlmock.Rows {
	r := sqlmock.NewRows([]string{
		"id", "category_id", "name", "description", "price_cents", "available", "prep_minutes", "image_url", "created_at", "updated_at",
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

func TestCreateOrder(t *testing.T) {
	svc, dbmock, pub := newTestService(t)
	now := time.Now()

	dbmock.ExpectBegin()
	dbmock.ExpectQuery("FROM tables WHERE id").WithArgs(uint64(3)).
		WillReturnRows(tableRows(model.TableEmpty))
	dbmock.ExpectQuery("FROM menu_items WHERE id IN").
		WillReturnRows(menuRows(
			[]any{10, 1, "Laksa", "", 650, true, 12, nil, now, now},
			[]any{11, 1, "Satay", "", 890, true, 15, nil, now, now},
			[]any{12, 2, "Iced Tea", "", 350, true, 2, nil, now, now},
		))
	dbmock.ExpectExec("INSERT INTO orders").WillReturnResult(sqlmock.NewResult(42, 1))
	dbmock.ExpectExec("INSERT INTO order_items").WillReturnResult(sqlmock.NewResult(1, 1))
	dbmock.ExpectExec("INSERT INTO order_items").WillReturnResult(sqlmock.NewResult(2, 1))
	dbmock.ExpectExec("INSERT INTO order_items").WillReturnResult(sqlmock.NewResult(3, 1))
	dbmock.ExpectExec("UPDATE tables SET status").
		WithArgs(string(model.TableOccupied), uint64(42), uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	dbmock.ExpectCommit()

	pub.On("OrderPlaced", mock.Anything, mock.Anything).Return(nil)

	order, err := svc.Create(context.Background(), CreateOrderInput{
		TableID: 3,
		Lines: []OrderLine{
			{MenuItemID: 10, Quantity: 2},
			{MenuItemID: 11, Quantity: 1},
			{MenuItemID: 12, Quantity: 1},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(2540), order.SubtotalCents)
	assert.Equal(t, int64(254), order.TaxCents)
	assert.Equal(t, int64(2794), order.TotalCents)
	assert.Equal(t, order.SubtotalCents+order.TaxCents, order.TotalCents)
	assert.Equal(t, model.OrderPending, order.Status)
	assert.Equal(t, "2024-01-15", order.BusinessDay)
	assert.NotEmpty(t, order.Reference)
	// snapshot, not a live menu reference
	assert.Equal(t, "Laksa", order.Items[0].MenuItemName)
	assert.Equal(t, int64(650), order.Items[0].PriceCents)
	// max prep 15 + 2×3 lines
	assert.Equal(t, 21, svc.EstimatePrep(order))

	assert.NoError(t, dbmock.ExpectationsWereMet())
	pub.AssertCalled(t, "OrderPlaced", mock.Anything, mock.Anything)
}

func TestCreateOrderRejectsUnavailableItem(t *testing.T) {
	svc, dbmock, pub := newTestService(t)
	now := time.Now()

	dbmock.ExpectBegin()
	dbmock.ExpectQuery("FROM tables WHERE id").WithArgs(uint64(3)).
		WillReturnRows(tableRows(model.TableEmpty))
	dbmock.ExpectQuery("FROM menu_items WHERE id IN").
		WillReturnRows(menuRows(
			[]any{10, 1, "Laksa", "", 650, true, 12, nil, now, now},
			[]any{11, 1, "Satay", "", 890, false, 15, nil, now, now},
		))
	dbmock.ExpectRollback()

	_, err := svc.Create(context.Background(), CreateOrderInput{
		TableID: 3,
		Lines:   []OrderLine{{MenuItemID: 10, Quantity: 1}, {MenuItemID: 11, Quantity: 1}},
	})
	assert.ErrorIs(t, err, ErrItemUnavailable)

	// nothing was persisted and no table state changed
	assert.NoError(t, dbmock.ExpectationsWereMet())
	pub.AssertNotCalled(t, "OrderPlaced", mock.Anything, mock.Anything)
}

func TestCreateOrderRejectsMissingItem(t *testing.T) {
	svc, dbmock, _ := newTestService(t)
	now := time.Now()

	dbmock.ExpectBegin()
	dbmock.ExpectQuery("FROM tables WHERE id").WithArgs(uint64(3)).
		WillReturnRows(tableRows(model.TableEmpty))
	dbmock.ExpectQuery("FROM menu_items WHERE id IN").
		WillReturnRows(menuRows([]any{10, 1, "Laksa", "", 650, true, 12, nil, now, now}))
	dbmock.ExpectRollback()

	_, err := svc.Create(context.Background(), CreateOrderInput{
		TableID: 3,
		Lines:   []OrderLine{{MenuItemID: 10, Quantity: 1}, {MenuItemID: 99, Quantity: 1}},
	})
	assert.ErrorIs(t, err, repository.ErrMenuItemNotFound)
	assert.NoError(t, dbmock.ExpectationsWereMet())
}

func TestCreateOrderRejectsOccupiedTable(t *testing.T) {
	svc, dbmock, _ := newTestService(t)

	rows := sqlmock.NewRows([]string{
		"id", "number", "capacity", "location", "qr_code", "status", "current_order_id", "created_at", "updated_at",
	}).AddRow(3, 7, 4, "terrace", "abc123", string(model.TableOccupied), 41, time.Now(), time.Now())

	dbmock.ExpectBegin()
	dbmock.ExpectQuery("FROM tables WHERE id").WithArgs(uint64(3)).WillReturnRows(rows)
	dbmock.ExpectRollback()

	_, err := svc.Create(context.Background(), CreateOrderInput{
		TableID: 3,
		Lines:   []OrderLine{{MenuItemID: 10, Quantity: 1}},
	})
	assert.ErrorIs(t, err, repository.ErrTableOccupied)
	assert.NoError(t, dbmock.ExpectationsWereMet())
}

func TestCreateOrderLosesOccupationRace(t *testing.T) {
	svc, dbmock, pub := newTestService(t)
	now := time.Now()

	// The conditional table update affects zero rows: a concurrent order
	// claimed the table first. The whole transaction rolls back.
	dbmock.ExpectBegin()
	dbmock.ExpectQuery("FROM tables WHERE id").WithArgs(uint64(3)).
		WillReturnRows(tableRows(model.TableEmpty))
	dbmock.ExpectQuery("FROM menu_items WHERE id IN").
		WillReturnRows(menuRows([]any{10, 1, "Laksa", "", 650, true, 12, nil, now, now}))
	dbmock.ExpectExec("INSERT INTO orders").WillReturnResult(sqlmock.NewResult(42, 1))
	dbmock.ExpectExec("INSERT INTO order_items").WillReturnResult(sqlmock.NewResult(1, 1))
	dbmock.ExpectExec("UPDATE tables SET status").WillReturnResult(sqlmock.NewResult(0, 0))
	dbmock.ExpectRollback()

	_, err := svc.Create(context.Background(), CreateOrderInput{
		TableID: 3,
		Lines:   []OrderLine{{MenuItemID: 10, Quantity: 1}},
	})
	assert.ErrorIs(t, err, repository.ErrTableOccupied)
	assert.NoError(t, dbmock.ExpectationsWereMet())
	pub.AssertNotCalled(t, "OrderPlaced", mock.Anything, mock.Anything)
}

func TestCreateOrderValidation(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Create(context.Background(), CreateOrderInput{TableID: 3})
	assert.ErrorIs(t, err, ErrEmptyOrder)

	_, err = svc.Create(context.Background(), CreateOrderInput{
		TableID: 3,
		Lines:   []OrderLine{{MenuItemID: 10, Quantity: 0}},
	})
	assert.ErrorIs(t, err, ErrBadQuantity)
}

func orderRow(id uint64, status model.OrderStatus) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "reference", "table_id", "status", "subtotal_cents", "tax_cents", "total_cents",
		"customer_name", "customer_phone", "business_day", "created_at", "updated_at",
	}).AddRow(id, "ref-1", 3, string(status), 2540, 254, 2794, nil, nil, "2024-01-15", now, now)
}

func TestTransitionCompletedReleasesTable(t *testing.T) {
	svc, dbmock, pub := newTestService(t)

	dbmock.ExpectBegin()
	dbmock.ExpectQuery("FROM orders WHERE id").WithArgs(uint64(42)).
		WillReturnRows(orderRow(42, model.OrderServed))
	dbmock.ExpectExec("UPDATE orders SET status").
		WithArgs(string(model.OrderCompleted), uint64(42), string(model.OrderServed)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	dbmock.ExpectExec("UPDATE tables SET status").
		WithArgs(string(model.TableCleaning), uint64(3), uint64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	dbmock.ExpectCommit()

	pub.On("OrderStatusChanged", mock.Anything, mock.Anything).Return(nil)

	order, err := svc.Transition(context.Background(), 42, model.OrderCompleted)
	require.NoError(t, err)
	assert.Equal(t, model.OrderCompleted, order.Status)
	assert.NoError(t, dbmock.ExpectationsWereMet())
}

func TestTransitionCancelledFreesTable(t *testing.T) {
	svc, dbmock, pub := newTestService(t)

	dbmock.ExpectBegin()
	dbmock.ExpectQuery("FROM orders WHERE id").WithArgs(uint64(42)).
		WillReturnRows(orderRow(42, model.OrderPreparing))
	dbmock.ExpectExec("UPDATE orders SET status").
		WithArgs(string(model.OrderCancelled), uint64(42), string(model.OrderPreparing)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	dbmock.ExpectExec("UPDATE tables SET status").
		WithArgs(string(model.TableEmpty), uint64(3), uint64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	dbmock.ExpectCommit()

	pub.On("OrderStatusChanged", mock.Anything, mock.Anything).Return(nil)

	_, err := svc.Transition(context.Background(), 42, model.OrderCancelled)
	require.NoError(t, err)
	assert.NoError(t, dbmock.ExpectationsWereMet())
}

func TestTransitionForwardKeepsTable(t *testing.T) {
	svc, dbmock, pub := newTestService(t)

	dbmock.ExpectBegin()
	dbmock.ExpectQuery("FROM orders WHERE id").WithArgs(uint64(42)).
		WillReturnRows(orderRow(42, model.OrderPending))
	dbmock.ExpectExec("UPDATE orders SET status").
		WithArgs(string(model.OrderPreparing), uint64(42), string(model.OrderPending)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	dbmock.ExpectCommit()

	pub.On("OrderStatusChanged", mock.Anything, mock.Anything).Return(nil)

	_, err := svc.Transition(context.Background(), 42, model.OrderPreparing)
	require.NoError(t, err)
	assert.NoError(t, dbmock.ExpectationsWereMet())
}

func TestTransitionRejectsInvalid(t *testing.T) {
	svc, dbmock, pub := newTestService(t)

	for from, to := range map[model.OrderStatus]model.OrderStatus{
		model.OrderPending:   model.OrderReady,     // skipping ahead
		model.OrderCompleted: model.OrderCancelled, // leaving a terminal state
		model.OrderReady:     model.OrderPreparing, // moving backwards
	} {
		dbmock.ExpectBegin()
		dbmock.ExpectQuery("FROM orders WHERE id").WithArgs(uint64(42)).
			WillReturnRows(orderRow(42, from))
		dbmock.ExpectRollback()

		_, err := svc.Transition(context.Background(), 42, to)
		assert.ErrorIs(t, err, ErrInvalidTransition, "%s -> %s", from, to)
	}

	_, err := svc.Transition(context.Background(), 42, model.OrderStatus("BURNT"))
	assert.ErrorIs(t, err, ErrInvalidTransition)

	assert.NoError(t, dbmock.ExpectationsWereMet())
	pub.AssertNotCalled(t, "OrderStatusChanged", mock.Anything, mock.Anything)
}
