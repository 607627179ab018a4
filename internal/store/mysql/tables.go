package mysql

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/vuxducgiang/restaurant-pos/internal/model"
	"github.com/vuxducgiang/restaurant-pos/internal/store"
)

const tableColumns = `id, room_id, table_number, table_name, capacity, status, is_active, created_at, updated_at`

func scanTableRow(scan func(dest ...any) error) (*model.DiningTable, error) {
	var tb model.DiningTable
	var id, roomID, status string
	err := scan(&id, &roomID, &tb.TableNumber, &tb.TableName, &tb.Capacity,
		&status, &tb.IsActive, &tb.CreatedAt, &tb.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTableNotFound
		}
		return nil, err
	}
	if tb.ID, err = uuid.Parse(id); err != nil {
		return nil, err
	}
	if tb.RoomID, err = uuid.Parse(roomID); err != nil {
		return nil, err
	}
	tb.Status = model.TableStatus(status)
	return &tb, nil
}

// GetTable returns a single table or store.ErrTableNotFound.
func (s *Store) GetTable(ctx context.Context, id uuid.UUID) (*model.DiningTable, error) {
	const q = `SELECT ` + tableColumns + ` FROM tables WHERE id = ?`
	return scanTableRow(s.db.QueryRowContext(ctx, q, id.String()).Scan)
}

// GetTableForUpdate reads a table inside the transaction and takes a
// row lock so concurrent units of work on the same table serialize.
func (t *Tx) GetTableForUpdate(ctx context.Context, id uuid.UUID) (*model.DiningTable, error) {
	const q = `SELECT ` + tableColumns + ` FROM tables WHERE id = ? FOR UPDATE`
	return scanTableRow(t.tx.QueryRowContext(ctx, q, id.String()).Scan)
}

func listTables(ctx context.Context, db querier, q string, args ...any) ([]model.DiningTable, error) {
	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.DiningTable, 0)
	for rows.Next() {
		tb, err := scanTableRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *tb)
	}
	return out, rows.Err()
}

// ListTables returns every table, including soft-deleted ones, ordered
// by table number.
func (s *Store) ListTables(ctx context.Context) ([]model.DiningTable, error) {
	return listTables(ctx, s.db, `SELECT `+tableColumns+` FROM tables ORDER BY table_number`)
}

// ListTablesByRoom returns the tables of a room ordered by table number.
func (s *Store) ListTablesByRoom(ctx context.Context, roomID uuid.UUID) ([]model.DiningTable, error) {
	return listTables(ctx, s.db,
		`SELECT `+tableColumns+` FROM tables WHERE room_id = ? ORDER BY table_number`, roomID.String())
}

// ActiveTableCount counts the active tables assigned to a room.
// Soft-deleted tables are excluded.
func (s *Store) ActiveTableCount(ctx context.Context, roomID uuid.UUID) (int, error) {
	const q = `SELECT COUNT(*) FROM tables WHERE room_id = ? AND is_active = 1`
	var n int
	err := s.db.QueryRowContext(ctx, q, roomID.String()).Scan(&n)
	return n, err
}

// ActiveTotalCapacity sums the seat capacity of a room's active tables.
func (s *Store) ActiveTotalCapacity(ctx context.Context, roomID uuid.UUID) (int, error) {
	const q = `SELECT COALESCE(SUM(capacity), 0) FROM tables WHERE room_id = ? AND is_active = 1`
	var n int
	err := s.db.QueryRowContext(ctx, q, roomID.String()).Scan(&n)
	return n, err
}

// AvailableCapacity sums the capacity of every active table currently
// in Available status across the whole house.
func (s *Store) AvailableCapacity(ctx context.Context) (int, error) {
	const q = `SELECT COALESCE(SUM(capacity), 0) FROM tables WHERE status = ? AND is_active = 1`
	var n int
	err := s.db.QueryRowContext(ctx, q, string(model.TableAvailable)).Scan(&n)
	return n, err
}

func (t *Tx) InsertTable(ctx context.Context, tb *model.DiningTable) error {
	const q = `INSERT INTO tables
	           (id, room_id, table_number, table_name, capacity, status, is_active, created_at, updated_at)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := t.tx.ExecContext(ctx, q,
		tb.ID.String(), tb.RoomID.String(), tb.TableNumber, tb.TableName,
		tb.Capacity, string(tb.Status), tb.IsActive, tb.CreatedAt.UTC(), tb.UpdatedAt.UTC())
	return err
}

func (t *Tx) UpdateTable(ctx context.Context, tb *model.DiningTable) error {
	const q = `UPDATE tables SET room_id = ?, table_number = ?, table_name = ?, capacity = ?,
	           status = ?, is_active = ?, updated_at = UTC_TIMESTAMP()
	           WHERE id = ?`
	res, err := t.tx.ExecContext(ctx, q,
		tb.RoomID.String(), tb.TableNumber, tb.TableName, tb.Capacity,
		string(tb.Status), tb.IsActive, tb.ID.String())
	if err != nil {
		return err
	}
	return noneToNotFound(res, store.ErrTableNotFound)
}

// UpdateTableStatus persists a status value without any transition
// policy; callers decide whether the transition is legal.
func (t *Tx) UpdateTableStatus(ctx context.Context, id uuid.UUID, status model.TableStatus) error {
	const q = `UPDATE tables SET status = ?, updated_at = UTC_TIMESTAMP() WHERE id = ?`
	res, err := t.tx.ExecContext(ctx, q, string(status), id.String())
	if err != nil {
		return err
	}
	return noneToNotFound(res, store.ErrTableNotFound)
}

// TableHasSessions reports whether any session, active or closed, ever
// referenced the table.
func (t *Tx) TableHasSessions(ctx context.Context, id uuid.UUID) (bool, error) {
	const q = `SELECT EXISTS(SELECT 1 FROM table_sessions WHERE table_id = ?)`
	var exists bool
	err := t.tx.QueryRowContext(ctx, q, id.String()).Scan(&exists)
	return exists, err
}

func (t *Tx) DeleteTable(ctx context.Context, id uuid.UUID) error {
	res, err := t.tx.ExecContext(ctx, `DELETE FROM tables WHERE id = ?`, id.String())
	if err != nil {
		return err
	}
	return noneToNotFound(res, store.ErrTableNotFound)
}

// DeactivateTable soft deletes a table that has session history.
func (t *Tx) DeactivateTable(ctx context.Context, id uuid.UUID) error {
	const q = `UPDATE tables SET is_active = 0, updated_at = UTC_TIMESTAMP() WHERE id = ?`
	res, err := t.tx.ExecContext(ctx, q, id.String())
	if err != nil {
		return err
	}
	return noneToNotFound(res, store.ErrTableNotFound)
}
