package model

import (
	"time"

	"github.com/google/uuid"
)

// Room represents a dining area inside the restaurant.  A room declares
// how many tables it is meant to hold and how many guests those tables
// may seat in total.  The declared limits are advisory by default; see
// the room/table service for the optional hard enforcement policy.
//
// Fields:
//  ID            - primary key identifier.
//  Name          - human-facing room name, unique in practice.
//  Description   - optional free-text description.
//  TableCount    - declared maximum number of tables.
//  TotalCapacity - declared maximum seating capacity.
//  CreatedAt     - creation timestamp (UTC).
type Room struct {
	ID            uuid.UUID // rooms.id
	Name          string    // rooms.name
	Description   string    // rooms.description
	TableCount    int       // rooms.table_count
	TotalCapacity int       // rooms.total_capacity
	CreatedAt     time.Time // rooms.created_at
}
