package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/vuxducgiang/restaurant-pos/internal/model"
)

// Store is the storage handle injected into the domain services.  It
// serves point lookups and aggregate reads outside a transaction and
// opens transactions for every mutating unit of work.  Implementations
// must be safe for concurrent use.
type Store interface {
	Reader

	// Begin opens a transaction.  All multi-entity mutations run
	// through a Tx so they commit or roll back as one atomic unit.
	Begin(ctx context.Context) (Tx, error)
}

// Reader bundles the read operations available without a transaction.
// Aggregate queries over tables only count active (not soft-deleted)
// rows.
type Reader interface {
	GetRoom(ctx context.Context, id uuid.UUID) (*model.Room, error)
	ListRooms(ctx context.Context) ([]model.Room, error)
	CountRooms(ctx context.Context) (int, error)

	GetTable(ctx context.Context, id uuid.UUID) (*model.DiningTable, error)
	ListTables(ctx context.Context) ([]model.DiningTable, error)
	ListTablesByRoom(ctx context.Context, roomID uuid.UUID) ([]model.DiningTable, error)

	// ActiveTableCount and ActiveTotalCapacity aggregate a single
	// room; AvailableCapacity sums the capacity of every active table
	// currently in Available status across the whole house.
	ActiveTableCount(ctx context.Context, roomID uuid.UUID) (int, error)
	ActiveTotalCapacity(ctx context.Context, roomID uuid.UUID) (int, error)
	AvailableCapacity(ctx context.Context) (int, error)

	GetOrder(ctx context.Context, id uuid.UUID) (*model.Order, error)
	GetVariant(ctx context.Context, id uuid.UUID) (*model.ProductVariant, error)

	GetReservation(ctx context.Context, id uuid.UUID) (*model.Reservation, error)
	ReservationCodeExists(ctx context.Context, code string) (bool, error)

	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetRefreshToken(ctx context.Context, tokenHash string) (*model.RefreshToken, error)
}

// Tx is one atomic unit of work.  Reads performed through a Tx observe
// the transaction's own writes; GetTableForUpdate additionally takes a
// row lock so concurrent units of work serialize on the same table.
// Callers must finish every Tx with Commit or Rollback; Rollback after
// Commit is a no-op so it can sit in a defer.
type Tx interface {
	Commit() error
	Rollback() error

	GetTableForUpdate(ctx context.Context, id uuid.UUID) (*model.DiningTable, error)
	GetVariant(ctx context.Context, id uuid.UUID) (*model.ProductVariant, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*model.Order, error)
	GetReservation(ctx context.Context, id uuid.UUID) (*model.Reservation, error)

	// ActiveSessionByTable and ActiveSessionByInvoiceName resolve the
	// single Active session for a physical table or for a take-away
	// scope.  Both return ErrSessionNotFound when none exists.
	ActiveSessionByTable(ctx context.Context, tableID uuid.UUID) (*model.TableSession, error)
	ActiveSessionByInvoiceName(ctx context.Context, invoiceName string) (*model.TableSession, error)
	ListOrdersBySession(ctx context.Context, sessionID uuid.UUID) ([]model.Order, error)

	InsertRoom(ctx context.Context, room *model.Room) error
	UpdateRoom(ctx context.Context, room *model.Room) error
	DeleteRoom(ctx context.Context, id uuid.UUID) error

	InsertTable(ctx context.Context, table *model.DiningTable) error
	UpdateTable(ctx context.Context, table *model.DiningTable) error
	UpdateTableStatus(ctx context.Context, id uuid.UUID, status model.TableStatus) error
	// TableHasSessions decides between hard delete and soft delete: a
	// table with session history is deactivated, never removed.
	TableHasSessions(ctx context.Context, id uuid.UUID) (bool, error)
	DeleteTable(ctx context.Context, id uuid.UUID) error
	DeactivateTable(ctx context.Context, id uuid.UUID) error

	InsertSession(ctx context.Context, session *model.TableSession) error
	UpdateSessionTotal(ctx context.Context, sessionID uuid.UUID, total int64) error
	CloseSession(ctx context.Context, sessionID uuid.UUID, closedAt time.Time) error

	InsertOrder(ctx context.Context, order *model.Order) error
	InsertOrderDetails(ctx context.Context, details []model.OrderDetail) error
	UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status model.OrderStatus) error
	// UpdateOrderDiscount records an order's share of the checkout
	// discount.
	UpdateOrderDiscount(ctx context.Context, orderID uuid.UUID, discount int64) error
	// FinalizeSessionOrders moves every non-cancelled order of the
	// session to Served as part of checkout.
	FinalizeSessionOrders(ctx context.Context, sessionID uuid.UUID) error

	// DeductStock atomically decrements a variant's stock and returns
	// the remaining quantity.  It fails with ErrVariantNotFound when
	// no stock record exists and ErrInsufficientStock when quantity
	// would go negative.
	DeductStock(ctx context.Context, variantID uuid.UUID, quantity int) (int, error)

	InsertReservation(ctx context.Context, res *model.Reservation) error
	AssignReservationTable(ctx context.Context, reservationID, tableID, roomID uuid.UUID) error
	UpdateReservationStatus(ctx context.Context, id uuid.UUID, status model.ReservationStatus) error
}

// UserWriter covers the account mutations used by the auth service.
// They are single-row writes, so they live on the Store directly
// rather than behind Begin.
type UserWriter interface {
	InsertUser(ctx context.Context, user *model.User) error
	InsertRefreshToken(ctx context.Context, token *model.RefreshToken) error
	RevokeRefreshToken(ctx context.Context, tokenHash string, at time.Time) error
}
