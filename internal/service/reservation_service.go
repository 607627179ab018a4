package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vuxducgiang/restaurant-pos/internal/model"
	"github.com/vuxducgiang/restaurant-pos/internal/store"
)

// Vietnamese phone numbers: a local number is "0" plus 9-10 further
// digits with a non-zero network prefix; the international form swaps
// the leading "0" for "+84".  No separators are allowed inside the
// digit run.
var (
	localPhoneRe = regexp.MustCompile(`^0[1-9][0-9]{8,9}$`)
	intlPhoneRe  = regexp.MustCompile(`^\+84[1-9][0-9]{8,9}$`)
)

// reservation codes look like RS-7F3K9Q2M.
const reservationCodeLen = 8

// codeRetries bounds the collision retry loop in
// GenerateReservationCode before giving up with a system error.
const codeRetries = 10

// ReservationService allocates tables to bookings: it issues
// reservation codes, validates contact input, answers house-wide
// availability questions and assigns tables under capacity and
// availability constraints.
type ReservationService struct {
	store store.Store
	now   func() time.Time
}

// NewReservationService constructs a ReservationService.
func NewReservationService(st store.Store) *ReservationService {
	if st == nil {
		panic("nil store passed to NewReservationService")
	}
	return &ReservationService{store: st, now: time.Now}
}

// GenerateReservationCode returns a fresh code matching
// ^RS-[A-Z0-9]{8}$ that does not collide with any already-issued code.
// The date names the booking day the code is issued for; codes are
// unique across days as well, so the collision check is global.
func (s *ReservationService) GenerateReservationCode(ctx context.Context, date time.Time) (string, error) {
	for i := 0; i < codeRetries; i++ {
		code := "RS-" + randAlnum(reservationCodeLen)
		exists, err := s.store.ReservationCodeExists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("check reservation code: %w", err)
		}
		if !exists {
			return code, nil
		}
	}
	return "", fmt.Errorf("could not generate a unique reservation code for %s", date.Format("2006-01-02"))
}

// ValidatePhoneNumber reports whether the input is an acceptable
// Vietnamese phone number.  Surrounding whitespace is trimmed first;
// anything else (dashes, inner spaces, letters, wrong length or
// prefix) is rejected.
func (s *ReservationService) ValidatePhoneNumber(input string) bool {
	phone := strings.TrimSpace(input)
	if phone == "" {
		return false
	}
	return localPhoneRe.MatchString(phone) || intlPhoneRe.MatchString(phone)
}

// ValidateAvailability reports whether the house can currently seat
// guestCount: it sums the capacity of every active table in Available
// status across all rooms and compares.  The check is a snapshot; it
// does not reserve capacity for the arrival time.
func (s *ReservationService) ValidateAvailability(ctx context.Context, arrivalTime time.Time, guestCount int) (bool, error) {
	if guestCount < 1 {
		return false, fmt.Errorf("%w: guest count must be at least 1", ErrValidation)
	}
	capacity, err := s.store.AvailableCapacity(ctx)
	if err != nil {
		return false, fmt.Errorf("sum available capacity: %w", err)
	}
	return guestCount <= capacity, nil
}

// AssignTable binds a table to a reservation.  It fails with distinct
// errors when the reservation or the table is missing, when the
// table's capacity is below the guest count, and when the table is not
// Available.  On success the reservation records the table and its
// room, and the table moves to Reserved so a second allocator cannot
// grab it.  Assigning a table whose capacity exactly equals the guest
// count succeeds.
func (s *ReservationService) AssignTable(ctx context.Context, reservationID, tableID uuid.UUID) error {
	tx, err := s.store.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin assignment: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.GetReservation(ctx, reservationID)
	if err != nil {
		return err
	}
	table, err := tx.GetTableForUpdate(ctx, tableID)
	if err != nil {
		return err
	}
	if table.Capacity < res.NumberOfGuests {
		return ErrInsufficientCapacity
	}
	if table.Status != model.TableAvailable {
		return ErrTableNotAvailable
	}
	if err := tx.AssignReservationTable(ctx, res.ID, table.ID, table.RoomID); err != nil {
		return err
	}
	if err := tx.UpdateTableStatus(ctx, table.ID, model.TableReserved); err != nil {
		return err
	}
	return tx.Commit()
}

// BookingRequest is the input of CreateReservation.
type BookingRequest struct {
	CustomerName   string
	CustomerPhone  string
	CustomerEmail  string
	ArrivalTime    time.Time
	NumberOfGuests int
	TableID        *uuid.UUID // optional immediate assignment
}

// CreateReservation validates a booking request, issues a code and
// persists the reservation with status PENDING.  When a table is
// requested up front the same capacity and availability checks as
// AssignTable apply inside the same unit of work.
func (s *ReservationService) CreateReservation(ctx context.Context, req BookingRequest) (*model.Reservation, error) {
	if strings.TrimSpace(req.CustomerName) == "" {
		return nil, fmt.Errorf("%w: customer name is required", ErrValidation)
	}
	if !s.ValidatePhoneNumber(req.CustomerPhone) {
		return nil, fmt.Errorf("%w: invalid phone number", ErrValidation)
	}
	if req.NumberOfGuests < 1 {
		return nil, fmt.Errorf("%w: guest count must be at least 1", ErrValidation)
	}

	code, err := s.GenerateReservationCode(ctx, req.ArrivalTime)
	if err != nil {
		return nil, err
	}

	tx, err := s.store.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin booking: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res := &model.Reservation{
		ID:              uuid.New(),
		ReservationCode: code,
		CustomerName:    strings.TrimSpace(req.CustomerName),
		CustomerPhone:   strings.TrimSpace(req.CustomerPhone),
		CustomerEmail:   strings.TrimSpace(req.CustomerEmail),
		ArrivalTime:     req.ArrivalTime.UTC(),
		NumberOfGuests:  req.NumberOfGuests,
		Status:          model.ReservationPending,
		CreatedAt:       s.now().UTC(),
	}

	if req.TableID != nil {
		table, err := tx.GetTableForUpdate(ctx, *req.TableID)
		if err != nil {
			return nil, err
		}
		if table.Capacity < req.NumberOfGuests {
			return nil, ErrInsufficientCapacity
		}
		if table.Status != model.TableAvailable {
			return nil, ErrTableNotAvailable
		}
		res.TableID = &table.ID
		res.RoomID = &table.RoomID
		if err := tx.UpdateTableStatus(ctx, table.ID, model.TableReserved); err != nil {
			return nil, err
		}
	}

	if err := tx.InsertReservation(ctx, res); err != nil {
		return nil, fmt.Errorf("insert reservation: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit booking: %w", err)
	}
	return res, nil
}

// ConfirmReservation moves a PENDING reservation to CONFIRMED.
func (s *ReservationService) ConfirmReservation(ctx context.Context, id uuid.UUID) error {
	return s.setStatus(ctx, id, model.ReservationConfirmed)
}

// SeatReservation records that the party has arrived.  The reservation
// moves to SEATED and, when a table was held for it, that table goes
// straight to Occupied.
func (s *ReservationService) SeatReservation(ctx context.Context, id uuid.UUID) error {
	tx, err := s.store.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin seating: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.GetReservation(ctx, id)
	if err != nil {
		return err
	}
	if res.Status == model.ReservationCancelled {
		return fmt.Errorf("%w: reservation is cancelled", ErrValidation)
	}
	if err := tx.UpdateReservationStatus(ctx, id, model.ReservationSeated); err != nil {
		return err
	}
	if res.TableID != nil {
		table, err := tx.GetTableForUpdate(ctx, *res.TableID)
		if err != nil {
			return err
		}
		if table.Status == model.TableReserved {
			if err := tx.UpdateTableStatus(ctx, table.ID, model.TableOccupied); err != nil {
				return err
			}
		}
	}
	return tx.Commit()
}

// CancelReservation cancels a reservation and, when a table had been
// reserved for it, releases that table back to Available.
func (s *ReservationService) CancelReservation(ctx context.Context, id uuid.UUID) error {
	tx, err := s.store.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin cancellation: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.GetReservation(ctx, id)
	if err != nil {
		return err
	}
	if err := tx.UpdateReservationStatus(ctx, id, model.ReservationCancelled); err != nil {
		return err
	}
	if res.TableID != nil {
		table, err := tx.GetTableForUpdate(ctx, *res.TableID)
		if err != nil && !errors.Is(err, store.ErrTableNotFound) {
			return err
		}
		if err == nil && table.Status == model.TableReserved {
			if err := tx.UpdateTableStatus(ctx, table.ID, model.TableAvailable); err != nil {
				return err
			}
		}
	}
	return tx.Commit()
}

func (s *ReservationService) setStatus(ctx context.Context, id uuid.UUID, status model.ReservationStatus) error {
	tx, err := s.store.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin status update: %w", err)
	}
	defer func() { _ = tx.Rollback() }()
	if err := tx.UpdateReservationStatus(ctx, id, status); err != nil {
		return err
	}
	return tx.Commit()
}
