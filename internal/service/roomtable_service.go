package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vuxducgiang/restaurant-pos/internal/model"
	"github.com/vuxducgiang/restaurant-pos/internal/store"
)

// RoomTableService owns room and table administration: CRUD, the
// permissive table status machine and the capacity aggregates other
// components use as preconditions.
//
// Room limits are advisory by default: a room declares how many tables
// and seats it should hold, and the aggregates let the UI warn when a
// new table pushes past them.  With enforceLimits on, AddTable rejects
// such a table with ErrRoomLimitExceeded instead.
type RoomTableService struct {
	store         store.Store
	enforceLimits bool
	now           func() time.Time
}

// NewRoomTableService constructs a RoomTableService.
func NewRoomTableService(st store.Store, enforceLimits bool) *RoomTableService {
	if st == nil {
		panic("nil store passed to NewRoomTableService")
	}
	return &RoomTableService{store: st, enforceLimits: enforceLimits, now: time.Now}
}

// ---- rooms ----

// GetAllRooms returns every room.
func (s *RoomTableService) GetAllRooms(ctx context.Context) ([]model.Room, error) {
	return s.store.ListRooms(ctx)
}

// GetRoomByID returns a room or store.ErrRoomNotFound.
func (s *RoomTableService) GetRoomByID(ctx context.Context, id uuid.UUID) (*model.Room, error) {
	return s.store.GetRoom(ctx, id)
}

// TotalRooms returns the number of rooms, used by the dashboard.
func (s *RoomTableService) TotalRooms(ctx context.Context) (int, error) {
	return s.store.CountRooms(ctx)
}

// AddRoom validates and persists a new room.  The declared limits must
// be positive; they describe intent, not current occupancy.
func (s *RoomTableService) AddRoom(ctx context.Context, room *model.Room) error {
	if strings.TrimSpace(room.Name) == "" {
		return fmt.Errorf("%w: room name is required", ErrValidation)
	}
	if room.TableCount < 1 || room.TotalCapacity < 1 {
		return fmt.Errorf("%w: room limits must be positive", ErrValidation)
	}
	if room.ID == uuid.Nil {
		room.ID = uuid.New()
	}
	if room.CreatedAt.IsZero() {
		room.CreatedAt = s.now().UTC()
	}
	tx, err := s.store.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin add room: %w", err)
	}
	defer func() { _ = tx.Rollback() }()
	if err := tx.InsertRoom(ctx, room); err != nil {
		return fmt.Errorf("insert room: %w", err)
	}
	return tx.Commit()
}

// UpdateRoom persists changes to an existing room.
func (s *RoomTableService) UpdateRoom(ctx context.Context, room *model.Room) error {
	if strings.TrimSpace(room.Name) == "" {
		return fmt.Errorf("%w: room name is required", ErrValidation)
	}
	if room.TableCount < 1 || room.TotalCapacity < 1 {
		return fmt.Errorf("%w: room limits must be positive", ErrValidation)
	}
	tx, err := s.store.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin update room: %w", err)
	}
	defer func() { _ = tx.Rollback() }()
	if err := tx.UpdateRoom(ctx, room); err != nil {
		return err
	}
	return tx.Commit()
}

// DeleteRoom removes a room.  A room that still has active tables is a
// conflict; its tables must be deleted or moved first.
func (s *RoomTableService) DeleteRoom(ctx context.Context, id uuid.UUID) error {
	count, err := s.store.ActiveTableCount(ctx, id)
	if err != nil {
		return fmt.Errorf("count room tables: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("%w: room still has %d active tables", store.ErrConflict, count)
	}
	tx, err := s.store.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin delete room: %w", err)
	}
	defer func() { _ = tx.Rollback() }()
	if err := tx.DeleteRoom(ctx, id); err != nil {
		return err
	}
	return tx.Commit()
}

// ---- tables ----

// GetAllTables returns every table, soft-deleted ones included.
func (s *RoomTableService) GetAllTables(ctx context.Context) ([]model.DiningTable, error) {
	return s.store.ListTables(ctx)
}

// GetTablesByRoomID returns the tables assigned to a room.
func (s *RoomTableService) GetTablesByRoomID(ctx context.Context, roomID uuid.UUID) ([]model.DiningTable, error) {
	return s.store.ListTablesByRoom(ctx, roomID)
}

// GetTableByID returns a table or store.ErrTableNotFound.
func (s *RoomTableService) GetTableByID(ctx context.Context, id uuid.UUID) (*model.DiningTable, error) {
	return s.store.GetTable(ctx, id)
}

// CurrentTableCount returns how many active tables a room holds.
func (s *RoomTableService) CurrentTableCount(ctx context.Context, roomID uuid.UUID) (int, error) {
	return s.store.ActiveTableCount(ctx, roomID)
}

// CurrentTotalCapacity returns the summed seat capacity of a room's
// active tables.
func (s *RoomTableService) CurrentTotalCapacity(ctx context.Context, roomID uuid.UUID) (int, error) {
	return s.store.ActiveTotalCapacity(ctx, roomID)
}

// AddTable validates and persists a new table.  The owning room must
// exist.  New tables start Available and active unless the caller
// provides a status.  With limit enforcement on, a table that would
// push the room past its declared table count or total capacity is
// rejected as a conflict.
func (s *RoomTableService) AddTable(ctx context.Context, table *model.DiningTable) error {
	if strings.TrimSpace(table.TableNumber) == "" || strings.TrimSpace(table.TableName) == "" {
		return fmt.Errorf("%w: table number and name are required", ErrValidation)
	}
	if table.Capacity < 1 {
		return fmt.Errorf("%w: table capacity must be positive", ErrValidation)
	}
	if table.Status == "" {
		table.Status = model.TableAvailable
	}
	if !model.ValidTableStatus(table.Status) {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, table.Status)
	}

	room, err := s.store.GetRoom(ctx, table.RoomID)
	if err != nil {
		return err
	}
	if s.enforceLimits {
		count, err := s.store.ActiveTableCount(ctx, room.ID)
		if err != nil {
			return fmt.Errorf("count room tables: %w", err)
		}
		capacity, err := s.store.ActiveTotalCapacity(ctx, room.ID)
		if err != nil {
			return fmt.Errorf("sum room capacity: %w", err)
		}
		if count+1 > room.TableCount || capacity+table.Capacity > room.TotalCapacity {
			return ErrRoomLimitExceeded
		}
	}

	if table.ID == uuid.Nil {
		table.ID = uuid.New()
	}
	table.IsActive = true
	now := s.now().UTC()
	if table.CreatedAt.IsZero() {
		table.CreatedAt = now
	}
	table.UpdatedAt = now

	tx, err := s.store.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin add table: %w", err)
	}
	defer func() { _ = tx.Rollback() }()
	if err := tx.InsertTable(ctx, table); err != nil {
		return fmt.Errorf("insert table: %w", err)
	}
	return tx.Commit()
}

// UpdateTable persists changes to an existing table.
func (s *RoomTableService) UpdateTable(ctx context.Context, table *model.DiningTable) error {
	if strings.TrimSpace(table.TableNumber) == "" || strings.TrimSpace(table.TableName) == "" {
		return fmt.Errorf("%w: table number and name are required", ErrValidation)
	}
	if table.Capacity < 1 {
		return fmt.Errorf("%w: table capacity must be positive", ErrValidation)
	}
	if !model.ValidTableStatus(table.Status) {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, table.Status)
	}
	tx, err := s.store.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin update table: %w", err)
	}
	defer func() { _ = tx.Rollback() }()
	if err := tx.UpdateTable(ctx, table); err != nil {
		return err
	}
	return tx.Commit()
}

// DeleteTable removes a table.  Tables with session history are soft
// deleted (deactivated) so historic orders keep a valid reference;
// tables that never hosted a session are removed outright.
func (s *RoomTableService) DeleteTable(ctx context.Context, id uuid.UUID) error {
	tx, err := s.store.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin delete table: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	hasHistory, err := tx.TableHasSessions(ctx, id)
	if err != nil {
		return fmt.Errorf("check session history: %w", err)
	}
	if hasHistory {
		err = tx.DeactivateTable(ctx, id)
	} else {
		err = tx.DeleteTable(ctx, id)
	}
	if err != nil {
		return err
	}
	return tx.Commit()
}

// UpdateTableStatus stores a new status for a table.  The machine is
// deliberately permissive: it verifies the table exists and the value
// is one of the four recognised statuses, then applies the transition
// unconditionally.  Policy about when a transition is legal lives in
// the coordinator and allocator, which are the authority on business
// legality; staff overrides come through here directly.
func (s *RoomTableService) UpdateTableStatus(ctx context.Context, id uuid.UUID, status model.TableStatus) error {
	if !model.ValidTableStatus(status) {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	tx, err := s.store.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin status update: %w", err)
	}
	defer func() { _ = tx.Rollback() }()
	if err := tx.UpdateTableStatus(ctx, id, status); err != nil {
		return err
	}
	return tx.Commit()
}
