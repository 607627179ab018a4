package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/vuxducgiang/restaurant-pos/internal/model"
	"github.com/vuxducgiang/restaurant-pos/internal/queue"
	"github.com/vuxducgiang/restaurant-pos/internal/store"
)

// LineItem is one requested menu position within an order request.
// Multiple line items referencing the same variant are summed into a
// single order detail.
type LineItem struct {
	VariantID uuid.UUID
	Quantity  int
	Note      string // optional special instruction, e.g. "No ice"
}

// OrderResult identifies the order created by CreateOrderAndNotifyKitchen.
type OrderResult struct {
	OrderID     uuid.UUID
	OrderNumber string
}

// CheckoutResult carries the invoice produced by Checkout together
// with the amounts needed for change calculation at the till.
type CheckoutResult struct {
	InvoiceNumber string
	SubTotal      int64
	Discount      int64
	VAT           int64
	Total         int64
	AmountPaid    int64
	Change        int64
}

// KitchenNotifier publishes the fire-and-forget "order created" signal.
// Delivery is neither awaited nor guaranteed; a failed publish is
// logged and the order stands.
type KitchenNotifier interface {
	PublishOrderCreated(ctx context.Context, ev queue.OrderCreatedEvent) error
}

// OrderService coordinates dining sessions, orders, stock deduction
// and table occupancy.  Every mutating operation runs as one atomic
// unit of work; operations touching the same table additionally
// serialize on a per-table lock so two concurrent orders can never
// create two Active sessions for one table.
type OrderService struct {
	store    store.Store
	notifier KitchenNotifier // may be nil when no broker is configured
	locks    *keyedLocks
	now      func() time.Time
}

// NewOrderService constructs an OrderService.  lockWait bounds how
// long an operation waits for its table lock before failing with
// ErrTableBusy.
func NewOrderService(st store.Store, notifier KitchenNotifier, lockWait time.Duration) *OrderService {
	if st == nil {
		panic("nil store passed to NewOrderService")
	}
	return &OrderService{
		store:    st,
		notifier: notifier,
		locks:    newKeyedLocks(lockWait),
		now:      time.Now,
	}
}

// lockKey scopes the per-table lock.  Take-away and delivery orders
// have no table, so their sessions serialize on the invoice name.
func lockKey(tableID *uuid.UUID, invoiceName string) string {
	if tableID != nil {
		return "table:" + tableID.String()
	}
	return "invoice:" + invoiceName
}

// aggregatedLine is one order detail in the making: line items for the
// same variant collapsed into a single quantity.
type aggregatedLine struct {
	variantID uuid.UUID
	quantity  int
	note      string
}

// aggregateItems validates quantities and collapses duplicate variants
// while preserving first-seen order.  The first non-empty note per
// variant wins.
func aggregateItems(items []LineItem) ([]aggregatedLine, error) {
	if len(items) == 0 {
		return nil, ErrEmptyItems
	}
	index := make(map[uuid.UUID]int, len(items))
	lines := make([]aggregatedLine, 0, len(items))
	for _, it := range items {
		if it.Quantity < 1 {
			return nil, fmt.Errorf("%w: got %d", ErrInvalidQuantity, it.Quantity)
		}
		if i, ok := index[it.VariantID]; ok {
			lines[i].quantity += it.Quantity
			if lines[i].note == "" {
				lines[i].note = it.Note
			}
			continue
		}
		index[it.VariantID] = len(lines)
		lines = append(lines, aggregatedLine{variantID: it.VariantID, quantity: it.Quantity, note: it.Note})
	}
	return lines, nil
}

// CreateOrderAndNotifyKitchen creates an order for a table (or for a
// virtual take-away scope when tableID is nil), reusing the table's
// Active session or opening a new one.  Stock is deducted and the
// table flipped to Occupied inside the same transaction as the order
// write.  The discount parameter is accepted for API symmetry with
// checkout; its effect on the payable total is applied at checkout.
func (s *OrderService) CreateOrderAndNotifyKitchen(ctx context.Context, tableID *uuid.UUID, items []LineItem, discount *Discount, invoiceName, note string) (*OrderResult, error) {
	lines, err := aggregateItems(items)
	if err != nil {
		return nil, err
	}
	if err := discount.validate(); err != nil {
		return nil, err
	}

	release, err := s.locks.acquire(ctx, lockKey(tableID, invoiceName))
	if err != nil {
		return nil, err
	}
	defer release()

	tx, err := s.store.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin order transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var table *model.DiningTable
	if tableID != nil {
		table, err = tx.GetTableForUpdate(ctx, *tableID)
		if err != nil {
			return nil, err
		}
	}

	session, err := s.resolveSession(ctx, tx, tableID, invoiceName)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	order := &model.Order{
		ID:          uuid.New(),
		SessionID:   session.ID,
		OrderNumber: newDocumentNumber("ORD", now),
		Status:      model.OrderPending,
		Notes:       note,
		OrderDate:   now,
	}

	details := make([]model.OrderDetail, 0, len(lines))
	eventItems := make([]queue.OrderItem, 0, len(lines))
	var subtotal int64
	for _, line := range lines {
		variant, err := tx.GetVariant(ctx, line.variantID)
		if err != nil {
			return nil, err
		}
		if _, err := tx.DeductStock(ctx, line.variantID, line.quantity); err != nil {
			return nil, err
		}
		subtotal += variant.Price * int64(line.quantity)
		details = append(details, model.OrderDetail{
			ID:                  uuid.New(),
			OrderID:             order.ID,
			VariantID:           line.variantID,
			Quantity:            line.quantity,
			UnitPrice:           variant.Price,
			SpecialInstructions: line.note,
		})
		eventItems = append(eventItems, queue.OrderItem{
			VariantID: line.variantID.String(),
			Quantity:  line.quantity,
			Note:      line.note,
		})
	}

	order.SubTotal = subtotal
	order.VAT = vatOf(subtotal)
	order.TotalAmount = order.SubTotal + order.VAT

	if err := tx.InsertOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}
	if err := tx.InsertOrderDetails(ctx, details); err != nil {
		return nil, fmt.Errorf("insert order details: %w", err)
	}
	if err := tx.UpdateSessionTotal(ctx, session.ID, session.TotalAmount+order.TotalAmount); err != nil {
		return nil, fmt.Errorf("update session total: %w", err)
	}
	if table != nil && table.Status != model.TableOccupied {
		if err := tx.UpdateTableStatus(ctx, table.ID, model.TableOccupied); err != nil {
			return nil, fmt.Errorf("occupy table: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit order: %w", err)
	}

	s.notifyKitchen(ctx, order, tableID, invoiceName, eventItems)
	return &OrderResult{OrderID: order.ID, OrderNumber: order.OrderNumber}, nil
}

// resolveSession finds the Active session for the table or take-away
// scope, creating one when none exists.  The caller holds the table
// lock and the transaction, so lookup-or-create is race free.
func (s *OrderService) resolveSession(ctx context.Context, tx store.Tx, tableID *uuid.UUID, invoiceName string) (*model.TableSession, error) {
	var session *model.TableSession
	var err error
	if tableID != nil {
		session, err = tx.ActiveSessionByTable(ctx, *tableID)
	} else {
		session, err = tx.ActiveSessionByInvoiceName(ctx, invoiceName)
	}
	if err == nil {
		return session, nil
	}
	if !errors.Is(err, store.ErrSessionNotFound) {
		return nil, err
	}
	session = &model.TableSession{
		ID:          uuid.New(),
		TableID:     tableID,
		Status:      model.SessionActive,
		InvoiceName: invoiceName,
		TotalAmount: 0,
		OpenedAt:    s.now().UTC(),
	}
	if err := tx.InsertSession(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return session, nil
}

func (s *OrderService) notifyKitchen(ctx context.Context, order *model.Order, tableID *uuid.UUID, invoiceName string, items []queue.OrderItem) {
	if s.notifier == nil {
		return
	}
	ev := queue.OrderCreatedEvent{
		OrderID:     order.ID.String(),
		OrderNumber: order.OrderNumber,
		InvoiceName: invoiceName,
		Items:       items,
		Notes:       order.Notes,
		TotalAmount: order.TotalAmount,
		CreatedAt:   order.OrderDate.Format(time.RFC3339),
	}
	if tableID != nil {
		ev.TableID = tableID.String()
	}
	if err := s.notifier.PublishOrderCreated(ctx, ev); err != nil {
		log.Printf("order-service: kitchen notify failed for %s: %v", order.OrderNumber, err)
	}
}

// Checkout closes the table's Active session: it aggregates the
// session's orders, applies the discount to the subtotal, recomputes
// VAT on the discounted base, finalizes the orders, frees the table
// and issues an invoice number.  All of it happens in one atomic unit.
// For take-away scopes pass a nil tableID and the invoice name.
func (s *OrderService) Checkout(ctx context.Context, tableID *uuid.UUID, invoiceName, paymentMethod string, amountPaid int64, discount *Discount) (*CheckoutResult, error) {
	if paymentMethod == "" {
		return nil, fmt.Errorf("%w: payment method is required", ErrValidation)
	}
	if err := discount.validate(); err != nil {
		return nil, err
	}

	release, err := s.locks.acquire(ctx, lockKey(tableID, invoiceName))
	if err != nil {
		return nil, err
	}
	defer release()

	tx, err := s.store.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin checkout transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if tableID != nil {
		if _, err := tx.GetTableForUpdate(ctx, *tableID); err != nil {
			return nil, err
		}
	}

	var session *model.TableSession
	if tableID != nil {
		session, err = tx.ActiveSessionByTable(ctx, *tableID)
	} else {
		session, err = tx.ActiveSessionByInvoiceName(ctx, invoiceName)
	}
	if err != nil {
		if errors.Is(err, store.ErrSessionNotFound) {
			return nil, ErrNoActiveSession
		}
		return nil, err
	}

	orders, err := tx.ListOrdersBySession(ctx, session.ID)
	if err != nil {
		return nil, err
	}
	var subtotal int64
	billableIDs := make([]uuid.UUID, 0, len(orders))
	weights := make([]int64, 0, len(orders))
	for _, o := range orders {
		if o.Status == model.OrderCancelled {
			continue
		}
		billableIDs = append(billableIDs, o.ID)
		weights = append(weights, o.SubTotal)
		subtotal += o.SubTotal
	}
	if len(billableIDs) == 0 {
		return nil, ErrNoOrders
	}

	base := discount.applyTo(subtotal)
	vat := vatOf(base)
	total := base + vat
	if amountPaid < total {
		return nil, fmt.Errorf("%w: need %d, got %d", ErrInsufficientPayment, total, amountPaid)
	}

	now := s.now().UTC()
	if err := tx.FinalizeSessionOrders(ctx, session.ID); err != nil {
		return nil, fmt.Errorf("finalize orders: %w", err)
	}
	// Persist each order's share of the discount, split in proportion
	// to its subtotal.
	for i, share := range apportion(subtotal-base, weights) {
		if share == 0 {
			continue
		}
		if err := tx.UpdateOrderDiscount(ctx, billableIDs[i], share); err != nil {
			return nil, fmt.Errorf("record order discount: %w", err)
		}
	}
	if err := tx.UpdateSessionTotal(ctx, session.ID, total); err != nil {
		return nil, fmt.Errorf("update session total: %w", err)
	}
	if err := tx.CloseSession(ctx, session.ID, now); err != nil {
		return nil, fmt.Errorf("close session: %w", err)
	}
	if tableID != nil {
		if err := tx.UpdateTableStatus(ctx, *tableID, model.TableAvailable); err != nil {
			return nil, fmt.Errorf("free table: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit checkout: %w", err)
	}

	return &CheckoutResult{
		InvoiceNumber: newDocumentNumber("INV", now),
		SubTotal:      subtotal,
		Discount:      subtotal - base,
		VAT:           vat,
		Total:         total,
		AmountPaid:    amountPaid,
		Change:        amountPaid - total,
	}, nil
}

// UpdateOrderStatus moves an order to a new kitchen status.  The
// status set is closed; anything outside it is rejected without
// touching the order.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status model.OrderStatus) error {
	if !model.ValidOrderStatus(status) {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	tx, err := s.store.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin status update: %w", err)
	}
	defer func() { _ = tx.Rollback() }()
	if err := tx.UpdateOrderStatus(ctx, orderID, status); err != nil {
		return err
	}
	return tx.Commit()
}
