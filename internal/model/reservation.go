package model

import (
	"time"

	"github.com/google/uuid"
)

// ReservationStatus enumerates the booking lifecycle.  The upper-case
// values match the strings stored in reservations.status.
type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "PENDING"
	ReservationConfirmed ReservationStatus = "CONFIRMED"
	ReservationSeated    ReservationStatus = "SEATED"
	ReservationCancelled ReservationStatus = "CANCELLED"
)

// Reservation records a future booking request.  A reservation may be
// created without a table; assignment can happen later through the
// allocator, which also records the table's room for display.  The
// reservation references its table but does not own it.
//
// Fields:
//  ID              - primary key identifier.
//  ReservationCode - unique human-facing code matching ^RS-[A-Z0-9]{8}$.
//  CustomerName    - guest name.
//  CustomerPhone   - validated Vietnamese phone number.
//  CustomerEmail   - optional contact email.
//  ArrivalTime     - requested arrival time (UTC).
//  NumberOfGuests  - party size, always >= 1.
//  Status          - booking lifecycle status.
//  TableID         - assigned table, nil until allocation.
//  RoomID          - room of the assigned table, nil until allocation.
//  CreatedAt       - creation timestamp (UTC).
type Reservation struct {
	ID              uuid.UUID         // reservations.id
	ReservationCode string            // reservations.reservation_code
	CustomerName    string            // reservations.customer_name
	CustomerPhone   string            // reservations.customer_phone
	CustomerEmail   string            // reservations.customer_email
	ArrivalTime     time.Time         // reservations.arrival_time
	NumberOfGuests  int               // reservations.number_of_guests
	Status          ReservationStatus // reservations.status
	TableID         *uuid.UUID        // reservations.table_id (nullable)
	RoomID          *uuid.UUID        // reservations.room_id (nullable)
	CreatedAt       time.Time         // reservations.created_at
}
