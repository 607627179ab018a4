package model

import (
	"time"

	"github.com/google/uuid"
)

// TableStatus enumerates the occupancy states a table can be in.  The
// values match the strings stored in the tables.status column.
type TableStatus string

const (
	TableAvailable   TableStatus = "Available"
	TableOccupied    TableStatus = "Occupied"
	TableReserved    TableStatus = "Reserved"
	TableMaintenance TableStatus = "Maintenance"
)

// ValidTableStatus reports whether s is one of the four recognised
// table statuses.  The status machine is permissive about transitions
// but strict about the value set itself.
func ValidTableStatus(s TableStatus) bool {
	switch s {
	case TableAvailable, TableOccupied, TableReserved, TableMaintenance:
		return true
	}
	return false
}

// DiningTable represents a physical seating unit.  Every table belongs
// to exactly one room.  Tables are created Available and are soft
// deleted (IsActive = false) once they have accumulated session
// history, so historic orders keep a valid reference.
//
// Fields:
//  ID          - primary key identifier.
//  RoomID      - owning room.
//  TableNumber - unique human-facing number such as "V001".
//  TableName   - display name such as "VIP Table 1".
//  Capacity    - number of seats.
//  Status      - current occupancy status.
//  IsActive    - false once soft deleted.
//  CreatedAt   - creation timestamp (UTC).
//  UpdatedAt   - last update timestamp (UTC).
type DiningTable struct {
	ID          uuid.UUID   // tables.id
	RoomID      uuid.UUID   // tables.room_id
	TableNumber string      // tables.table_number
	TableName   string      // tables.table_name
	Capacity    int         // tables.capacity
	Status      TableStatus // tables.status
	IsActive    bool        // tables.is_active
	CreatedAt   time.Time   // tables.created_at
	UpdatedAt   time.Time   // tables.updated_at
}
