package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"qrmenu-backend/internal/businessday"
	"qrmenu-backend/internal/logger"
	"qrmenu-backend/internal/metrics"
	"qrmenu-backend/internal/model"
	"qrmenu-backend/internal/pricing"
	"qrmenu-backend/internal/queue"
	"qrmenu-backend/internal/repository"
)

var (
	// ErrEmptyOrder rejects a checkout with no line items.
	ErrEmptyOrder = errors.New("order has no items")
	// ErrBadQuantity rejects a line with a non-positive quantity.
	ErrBadQuantity = errors.New("quantity must be at least 1")
	// ErrItemUnavailable rejects the whole order when any requested menu
	// item is currently unavailable. There is no partial order creation.
	ErrItemUnavailable = errors.New("menu item unavailable")
	// ErrInvalidTransition signals a status change the lifecycle does not
	// allow (skipping ahead, moving backwards, or leaving a terminal state).
	ErrInvalidTransition = errors.New("invalid status transition")
)

// OrderLine is one requested line of a new order.
type OrderLine struct {
	MenuItemID   uint64
	Quantity     int
	Instructions *string
}

// CreateOrderInput carries everything needed to open an order on a table.
// Contact fields are optional; customers order anonymously by default.
type CreateOrderInput struct {
	TableID       uint64
	Lines         []OrderLine
	CustomerName  *string
	CustomerPhone *string
}

// OrderService implements the order lifecycle: creation with the coupled
// table write, and staff-driven status transitions with their table side
// effects. Both run inside a single database transaction so the order and
// its table can never disagree.
type OrderService struct {
	orders *repository.OrderRepo
	tables *repository.TableRepo
	menu   *repository.MenuRepo
	days   businessday.Resolver
	pub    Publisher
	now    func() time.Time
}

func NewOrderService(orders *repository.OrderRepo, tables *repository.TableRepo,
	menu *repository.MenuRepo, days businessday.Resolver, pub Publisher) *OrderService {
	return &OrderService{
		orders: orders,
		tables: tables,
		menu:   menu,
		days:   days,
		pub:    pub,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Create opens a new order on a table. The table row is locked first, every
// requested menu item must exist and be available, prices are snapshotted
// onto the order, and the order insert plus the table's OCCUPIED/current
// order write commit together or not at all. A table that already has an
// open order (or is being cleaned / under maintenance) rejects with
// repository.ErrTableOccupied.
func (s *OrderService) Create(ctx context.Context, in CreateOrderInput) (*model.Order, error) {
	if len(in.Lines) == 0 {
		return nil, ErrEmptyOrder
	}
	for _, l := range in.Lines {
		if l.Quantity < 1 {
			return nil, fmt.Errorf("%w: menu item %d", ErrBadQuantity, l.MenuItemID)
		}
	}

	tx, err := s.orders.DB().BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	table, err := s.tables.GetByIDTx(ctx, tx, in.TableID)
	if err != nil {
		return nil, err
	}
	if table.CurrentOrderID != nil || !table.Status.AcceptsOrders() {
		return nil, repository.ErrTableOccupied
	}

	ids := make([]uint64, 0, len(in.Lines))
	for _, l := range in.Lines {
		ids = append(ids, l.MenuItemID)
	}
	available, err := s.menu.GetManyTx(ctx, tx, ids)
	if err != nil {
		return nil, err
	}

	now := s.now()
	order := &model.Order{
		Reference:     uuid.NewString(),
		TableID:       table.ID,
		Status:        model.OrderPending,
		CustomerName:  in.CustomerName,
		CustomerPhone: in.CustomerPhone,
		BusinessDay:   s.days.Date(now),
		CreatedAt:     now,
	}

	lines := make([]pricing.Line, 0, len(in.Lines))
	for _, l := range in.Lines {
		item, ok := available[l.MenuItemID]
		if !ok {
			return nil, fmt.Errorf("%w: id %d", repository.ErrMenuItemNotFound, l.MenuItemID)
		}
		if !item.Available {
			return nil, fmt.Errorf("%w: %s", ErrItemUnavailable, item.Name)
		}
		order.Items = append(order.Items, model.OrderItem{
			MenuItemID:   item.ID,
			MenuItemName: item.Name,
			PriceCents:   item.PriceCents,
			Quantity:     l.Quantity,
			Instructions: l.Instructions,
			PrepMinutes:  item.PrepMinutes,
		})
		lines = append(lines, pricing.Line{PriceCents: item.PriceCents, Quantity: l.Quantity})
	}
	order.SubtotalCents = pricing.Subtotal(lines)
	order.TaxCents = pricing.Tax(order.SubtotalCents)
	order.TotalCents = order.SubtotalCents + order.TaxCents

	if err := s.orders.CreateTx(ctx, tx, order); err != nil {
		return nil, err
	}
	if err := s.tables.OccupyTx(ctx, tx, table.ID, order.ID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true

	metrics.OrdersCreated.Inc()
	s.publishPlaced(ctx, order, table)
	return order, nil
}

// Transition moves an order to a new status. Completing an order clears the
// table's current-order reference and sends the table to CLEANING in the
// same transaction; cancelling returns the table to EMPTY. Disallowed
// transitions fail with ErrInvalidTransition and change nothing.
func (s *OrderService) Transition(ctx context.Context, orderID uint64, to model.OrderStatus) (*model.Order, error) {
	if !model.ValidOrderStatus(to) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, to)
	}

	tx, err := s.orders.DB().BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	order, err := s.orders.GetByIDTx(ctx, tx, orderID)
	if err != nil {
		return nil, err
	}
	from := order.Status
	if !from.CanTransition(to) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}

	if err := s.orders.UpdateStatusTx(ctx, tx, order.ID, from, to); err != nil {
		return nil, err
	}
	switch to {
	case model.OrderCompleted:
		err = s.tables.ReleaseTx(ctx, tx, order.TableID, order.ID, model.TableCleaning)
	case model.OrderCancelled:
		err = s.tables.ReleaseTx(ctx, tx, order.TableID, order.ID, model.TableEmpty)
	}
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true

	order.Status = to
	metrics.OrderTransitions.WithLabelValues(string(to)).Inc()
	s.publishStatus(ctx, order, from, to)
	return order, nil
}

// EstimatePrep returns the advisory preparation estimate for an order's
// lines: slowest item plus two minutes per distinct line.
func (s *OrderService) EstimatePrep(order *model.Order) int {
	mins := make([]int, 0, len(order.Items))
	for _, it := range order.Items {
		mins = append(mins, it.PrepMinutes)
	}
	return pricing.EstimatePrepMinutes(mins)
}

func (s *OrderService) publishPlaced(ctx context.Context, o *model.Order, t *model.Table) {
	items := make([]queue.PlacedItem, 0, len(o.Items))
	for _, it := range o.Items {
		pi := queue.PlacedItem{Name: it.MenuItemName, Quantity: it.Quantity}
		if it.Instructions != nil {
			pi.Instructions = *it.Instructions
		}
		items = append(items, pi)
	}
	ev := queue.OrderPlacedEvent{
		OrderID:        o.ID,
		Reference:      o.Reference,
		TableNumber:    t.Number,
		Items:          items,
		TotalCents:     o.TotalCents,
		EstPrepMinutes: s.EstimatePrep(o),
		BusinessDay:    o.BusinessDay,
		PlacedAt:       o.CreatedAt.Format(time.RFC3339),
	}
	if err := s.pub.OrderPlaced(ctx, ev); err != nil {
		logger.L().Warn("order placed event not published",
			zap.Uint64("order_id", o.ID), zap.Error(err))
	}
}

func (s *OrderService) publishStatus(ctx context.Context, o *model.Order, from, to model.OrderStatus) {
	ev := queue.OrderStatusChangedEvent{
		OrderID:   o.ID,
		Reference: o.Reference,
		From:      string(from),
		To:        string(to),
		ChangedAt: s.now().Format(time.RFC3339),
	}
	if err := s.pub.OrderStatusChanged(ctx, ev); err != nil {
		logger.L().Warn("status event not published",
			zap.Uint64("order_id", o.ID), zap.Error(err))
	}
}
