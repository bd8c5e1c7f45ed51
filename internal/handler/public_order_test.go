package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"qrmenu-backend/internal/model"
	"qrmenu-backend/internal/repository"
	"qrmenu-backend/internal/service"
)

type mockOrderSvc struct{ mock.Mock }

func (m *mockOrderSvc) Create(ctx context.Context, in service.CreateOrderInput) (*model.Order, error) {
	args := m.Called(ctx, in)
	if o := args.Get(0); o != nil {
		return o.(*model.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockOrderSvc) EstimatePrep(order *model.Order) int {
	return m.Called(order).Int(0)
}

func newPublicOrderHandler(t *testing.T) (*PublicOrderHandler, sqlmock.Sqlmock, *mockOrderSvc) {
	t.Helper()
	db, dbmock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	svc := &mockOrderSvc{}
	h := &PublicOrderHandler{
		Svc:    svc,
		Orders: repository.NewOrderRepo(db),
		Tables: repository.NewTableRepo(db),
	}
	return h, dbmock, svc
}

func tableByCodeRows() *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "number", "capacity", "location", "qr_code", "status", "current_order_id", "created_at", "updated_at",
	}).AddRow(3, 7, 4, "terrace", "abc123", "EMPTY", nil, now, now)
}

func TestCreateOrderResolvesTableCode(t *testing.T) {
	h, dbmock, svc := newPublicOrderHandler(t)

	dbmock.ExpectQuery("FROM tables WHERE qr_code").WithArgs("abc123").
		WillReturnRows(tableByCodeRows())

	placed := &model.Order{ID: 42, Reference: "ref-1", TableID: 3, Status: model.OrderPending,
		SubtotalCents: 650, TaxCents: 65, TotalCents: 715}
	svc.On("Create", mock.Anything, mock.MatchedBy(func(in service.CreateOrderInput) bool {
		return in.TableID == 3 && len(in.Lines) == 1 && in.Lines[0].MenuItemID == 10
	})).Return(placed, nil)
	svc.On("EstimatePrep", placed).Return(14)

	e := echo.New()
	body := `{"items":[{"menu_item_id":10,"quantity":1}]}`
	req := httptest.NewRequest(http.MethodPost, "/v1/t/abc123/orders", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("code")
	c.SetParamValues("abc123")

	require.NoError(t, h.CreateOrder(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ref-1"`)
	assert.Contains(t, rec.Body.String(), `"est_prep_minutes":14`)
	assert.NoError(t, dbmock.ExpectationsWereMet())
}

func TestCreateOrderUnknownCode(t *testing.T) {
	h, dbmock, svc := newPublicOrderHandler(t)

	dbmock.ExpectQuery("FROM tables WHERE qr_code").WithArgs("nope").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "number", "capacity", "location", "qr_code", "status", "current_order_id", "created_at", "updated_at",
		}))

	e := echo.New()
	body := `{"items":[{"menu_item_id":10,"quantity":1}]}`
	req := httptest.NewRequest(http.MethodPost, "/v1/t/nope/orders", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("code")
	c.SetParamValues("nope")

	require.NoError(t, h.CreateOrder(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateOrderOccupiedTableConflicts(t *testing.T) {
	h, dbmock, svc := newPublicOrderHandler(t)

	dbmock.ExpectQuery("FROM tables WHERE qr_code").WithArgs("abc123").
		WillReturnRows(tableByCodeRows())
	svc.On("Create", mock.Anything, mock.Anything).
		Return(nil, repository.ErrTableOccupied)

	e := echo.New()
	body := `{"items":[{"menu_item_id":10,"quantity":1}]}`
	req := httptest.NewRequest(http.MethodPost, "/v1/t/abc123/orders", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("code")
	c.SetParamValues("abc123")

	require.NoError(t, h.CreateOrder(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCreateOrderEmptyItems(t *testing.T) {
	h, _, svc := newPublicOrderHandler(t)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/t/abc123/orders", strings.NewReader(`{"items":[]}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("code")
	c.SetParamValues("abc123")

	require.NoError(t, h.CreateOrder(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
