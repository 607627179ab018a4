package mysql

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/vuxducgiang/restaurant-pos/internal/model"
	"github.com/vuxducgiang/restaurant-pos/internal/store"
)

const reservationColumns = `id, reservation_code, customer_name, customer_phone, customer_email,
       arrival_time, number_of_guests, status, table_id, room_id, created_at`

func scanReservation(scan func(dest ...any) error) (*model.Reservation, error) {
	var r model.Reservation
	var id, status string
	var tableID, roomID sql.NullString
	err := scan(&id, &r.ReservationCode, &r.CustomerName, &r.CustomerPhone, &r.CustomerEmail,
		&r.ArrivalTime, &r.NumberOfGuests, &status, &tableID, &roomID, &r.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrReservationNotFound
		}
		return nil, err
	}
	if r.ID, err = uuid.Parse(id); err != nil {
		return nil, err
	}
	r.Status = model.ReservationStatus(status)
	if tableID.Valid {
		tid, err := uuid.Parse(tableID.String)
		if err != nil {
			return nil, err
		}
		r.TableID = &tid
	}
	if roomID.Valid {
		rid, err := uuid.Parse(roomID.String)
		if err != nil {
			return nil, err
		}
		r.RoomID = &rid
	}
	return &r, nil
}

// GetReservation returns a reservation or store.ErrReservationNotFound.
func (s *Store) GetReservation(ctx context.Context, id uuid.UUID) (*model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + ` FROM reservations WHERE id = ?`
	return scanReservation(s.db.QueryRowContext(ctx, q, id.String()).Scan)
}

func (t *Tx) GetReservation(ctx context.Context, id uuid.UUID) (*model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + ` FROM reservations WHERE id = ?`
	return scanReservation(t.tx.QueryRowContext(ctx, q, id.String()).Scan)
}

// ReservationCodeExists reports whether a code has already been issued.
func (s *Store) ReservationCodeExists(ctx context.Context, code string) (bool, error) {
	const q = `SELECT EXISTS(SELECT 1 FROM reservations WHERE reservation_code = ?)`
	var exists bool
	err := s.db.QueryRowContext(ctx, q, code).Scan(&exists)
	return exists, err
}

func (t *Tx) InsertReservation(ctx context.Context, r *model.Reservation) error {
	const q = `INSERT INTO reservations
	           (id, reservation_code, customer_name, customer_phone, customer_email,
	            arrival_time, number_of_guests, status, table_id, room_id, created_at)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	var tableID, roomID any
	if r.TableID != nil {
		tableID = r.TableID.String()
	}
	if r.RoomID != nil {
		roomID = r.RoomID.String()
	}
	_, err := t.tx.ExecContext(ctx, q,
		r.ID.String(), r.ReservationCode, r.CustomerName, r.CustomerPhone, r.CustomerEmail,
		r.ArrivalTime.UTC(), r.NumberOfGuests, string(r.Status), tableID, roomID, r.CreatedAt.UTC())
	return err
}

// AssignReservationTable records the allocator's table and room choice.
func (t *Tx) AssignReservationTable(ctx context.Context, reservationID, tableID, roomID uuid.UUID) error {
	const q = `UPDATE reservations SET table_id = ?, room_id = ? WHERE id = ?`
	res, err := t.tx.ExecContext(ctx, q, tableID.String(), roomID.String(), reservationID.String())
	if err != nil {
		return err
	}
	return noneToNotFound(res, store.ErrReservationNotFound)
}

func (t *Tx) UpdateReservationStatus(ctx context.Context, id uuid.UUID, status model.ReservationStatus) error {
	const q = `UPDATE reservations SET status = ? WHERE id = ?`
	res, err := t.tx.ExecContext(ctx, q, string(status), id.String())
	if err != nil {
		return err
	}
	return noneToNotFound(res, store.ErrReservationNotFound)
}
