package model

import (
	"time"

	"github.com/google/uuid"
)

// SessionStatus enumerates the lifecycle states of a table session.
type SessionStatus string

const (
	SessionActive SessionStatus = "Active"
	SessionClosed SessionStatus = "Closed"
)

// TableSession represents one continuous occupancy of a table, from the
// first order until checkout.  TableID is nil for virtual take-away or
// delivery sessions, which are scoped by their invoice name instead.
// At most one Active session exists per physical table at any time.
//
// Fields:
//  ID          - primary key identifier.
//  TableID     - occupied table, nil for take-away/delivery.
//  Status      - Active until checkout closes the session.
//  InvoiceName - display name shown on the running bill.
//  TotalAmount - running total in VND across the session's orders.
//  OpenedAt    - when the session was created (UTC).
//  ClosedAt    - when checkout closed it (nil while Active).
type TableSession struct {
	ID          uuid.UUID     // table_sessions.id
	TableID     *uuid.UUID    // table_sessions.table_id (nullable)
	Status      SessionStatus // table_sessions.status
	InvoiceName string        // table_sessions.invoice_name
	TotalAmount int64         // table_sessions.total_amount (VND)
	OpenedAt    time.Time     // table_sessions.opened_at
	ClosedAt    *time.Time    // table_sessions.closed_at (nullable)
}
