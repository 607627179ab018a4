package mysql

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/vuxducgiang/restaurant-pos/internal/model"
	"github.com/vuxducgiang/restaurant-pos/internal/store"
)

const roomColumns = `id, name, description, table_count, total_capacity, created_at`

func scanRoom(row *sql.Row) (*model.Room, error) {
	var r model.Room
	var id string
	err := row.Scan(&id, &r.Name, &r.Description, &r.TableCount, &r.TotalCapacity, &r.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrRoomNotFound
		}
		return nil, err
	}
	r.ID, err = uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// GetRoom returns a single room or store.ErrRoomNotFound.
func (s *Store) GetRoom(ctx context.Context, id uuid.UUID) (*model.Room, error) {
	const q = `SELECT ` + roomColumns + ` FROM rooms WHERE id = ?`
	return scanRoom(s.db.QueryRowContext(ctx, q, id.String()))
}

// ListRooms returns every room ordered by name.
func (s *Store) ListRooms(ctx context.Context) ([]model.Room, error) {
	const q = `SELECT ` + roomColumns + ` FROM rooms ORDER BY name`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Room, 0)
	for rows.Next() {
		var r model.Room
		var id string
		if err := rows.Scan(&id, &r.Name, &r.Description, &r.TableCount, &r.TotalCapacity, &r.CreatedAt); err != nil {
			return nil, err
		}
		if r.ID, err = uuid.Parse(id); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// CountRooms returns the total number of rooms.
func (s *Store) CountRooms(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM rooms`).Scan(&n)
	return n, err
}

func (t *Tx) InsertRoom(ctx context.Context, room *model.Room) error {
	const q = `INSERT INTO rooms (id, name, description, table_count, total_capacity, created_at)
	           VALUES (?, ?, ?, ?, ?, ?)`
	_, err := t.tx.ExecContext(ctx, q,
		room.ID.String(), room.Name, room.Description,
		room.TableCount, room.TotalCapacity, room.CreatedAt.UTC())
	return err
}

func (t *Tx) UpdateRoom(ctx context.Context, room *model.Room) error {
	const q = `UPDATE rooms SET name = ?, description = ?, table_count = ?, total_capacity = ?
	           WHERE id = ?`
	res, err := t.tx.ExecContext(ctx, q,
		room.Name, room.Description, room.TableCount, room.TotalCapacity, room.ID.String())
	if err != nil {
		return err
	}
	return noneToNotFound(res, store.ErrRoomNotFound)
}

func (t *Tx) DeleteRoom(ctx context.Context, id uuid.UUID) error {
	res, err := t.tx.ExecContext(ctx, `DELETE FROM rooms WHERE id = ?`, id.String())
	if err != nil {
		return err
	}
	return noneToNotFound(res, store.ErrRoomNotFound)
}

// noneToNotFound maps a zero-row update or delete to the entity's
// not-found sentinel.
func noneToNotFound(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}
