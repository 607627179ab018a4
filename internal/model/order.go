package model

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus enumerates the kitchen lifecycle of an order.  The set is
// closed: any other string is rejected at the service layer.
type OrderStatus string

const (
	OrderPending   OrderStatus = "Pending"
	OrderPreparing OrderStatus = "Preparing"
	OrderReady     OrderStatus = "Ready"
	OrderServed    OrderStatus = "Served"
	OrderCancelled OrderStatus = "Cancelled"
)

// ValidOrderStatus reports whether s belongs to the closed order status set.
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderPending, OrderPreparing, OrderReady, OrderServed, OrderCancelled:
		return true
	}
	return false
}

// Order is one billable kitchen request within a session.  A session
// accumulates any number of orders before checkout.  All monetary
// fields are whole VND; VND has no minor unit, so int64 arithmetic is
// exact.
//
// Fields:
//  ID          - primary key identifier.
//  SessionID   - owning table session.
//  OrderNumber - human-readable, time-ordered number ("ORD..." prefix).
//  Status      - kitchen lifecycle status.
//  SubTotal    - sum of line totals in VND.
//  VAT         - 10% tax on the subtotal in VND.
//  Discount    - this order's share of the checkout discount in VND,
//                split across the session's orders in proportion to
//                their subtotals; zero until checkout.
//  TotalAmount - payable amount in VND.
//  Notes       - free-text note passed to the kitchen.
//  OrderDate   - creation timestamp (UTC).
type Order struct {
	ID          uuid.UUID   // orders.id
	SessionID   uuid.UUID   // orders.session_id
	OrderNumber string      // orders.order_number
	Status      OrderStatus // orders.status
	SubTotal    int64       // orders.sub_total (VND)
	VAT         int64       // orders.vat (VND)
	Discount    int64       // orders.discount (VND)
	TotalAmount int64       // orders.total_amount (VND)
	Notes       string      // orders.notes
	OrderDate   time.Time   // orders.order_date
}

// OrderDetail is one line of an order: a single product variant with
// its quantity and the unit price snapshotted at order time.  Repeated
// selections of the same variant within one request are summed into
// one line rather than duplicated.
//
// Fields:
//  ID                  - primary key identifier.
//  OrderID             - owning order.
//  VariantID           - product variant being sold.
//  Quantity            - number of units, always >= 1.
//  UnitPrice           - price per unit in VND at order time.
//  SpecialInstructions - optional per-line note ("No ice").
type OrderDetail struct {
	ID                  uuid.UUID // order_details.id
	OrderID             uuid.UUID // order_details.order_id
	VariantID           uuid.UUID // order_details.variant_id
	Quantity            int       // order_details.quantity
	UnitPrice           int64     // order_details.unit_price (VND)
	SpecialInstructions string    // order_details.special_instructions
}
