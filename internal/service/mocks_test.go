package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vuxducgiang/restaurant-pos/internal/model"
	"github.com/vuxducgiang/restaurant-pos/internal/queue"
	"github.com/vuxducgiang/restaurant-pos/internal/store"
)

// fakeStore is an in-memory store.Store with snapshot transactions:
// Begin clones the committed state, the Tx mutates the clone, Commit
// swaps it in.  A rolled back Tx therefore leaves the committed state
// untouched, which is what the conflict tests assert on.
type fakeStore struct {
	mu    sync.Mutex
	state *fakeState

	beginErr error // injected failure for error paths
}

type fakeState struct {
	rooms        map[uuid.UUID]model.Room
	tables       map[uuid.UUID]model.DiningTable
	sessions     map[uuid.UUID]model.TableSession
	orders       map[uuid.UUID]model.Order
	details      map[uuid.UUID][]model.OrderDetail
	variants     map[uuid.UUID]model.ProductVariant
	stock        map[uuid.UUID]int
	reservations map[uuid.UUID]model.Reservation
	users        map[uuid.UUID]model.User
	tokens       map[string]model.RefreshToken
}

func newFakeStore() *fakeStore {
	return &fakeStore{state: newFakeState()}
}

func newFakeState() *fakeState {
	return &fakeState{
		rooms:        map[uuid.UUID]model.Room{},
		tables:       map[uuid.UUID]model.DiningTable{},
		sessions:     map[uuid.UUID]model.TableSession{},
		orders:       map[uuid.UUID]model.Order{},
		details:      map[uuid.UUID][]model.OrderDetail{},
		variants:     map[uuid.UUID]model.ProductVariant{},
		stock:        map[uuid.UUID]int{},
		reservations: map[uuid.UUID]model.Reservation{},
		users:        map[uuid.UUID]model.User{},
		tokens:       map[string]model.RefreshToken{},
	}
}

func (s *fakeState) clone() *fakeState {
	c := newFakeState()
	for k, v := range s.rooms {
		c.rooms[k] = v
	}
	for k, v := range s.tables {
		c.tables[k] = v
	}
	for k, v := range s.sessions {
		c.sessions[k] = v
	}
	for k, v := range s.orders {
		c.orders[k] = v
	}
	for k, v := range s.details {
		c.details[k] = append([]model.OrderDetail(nil), v...)
	}
	for k, v := range s.variants {
		c.variants[k] = v
	}
	for k, v := range s.stock {
		c.stock[k] = v
	}
	for k, v := range s.reservations {
		c.reservations[k] = v
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.tokens {
		c.tokens[k] = v
	}
	return c
}

// ---- seeding helpers ----

func (s *fakeStore) addRoom(r model.Room) model.Room {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	s.mu.Lock()
	s.state.rooms[r.ID] = r
	s.mu.Unlock()
	return r
}

func (s *fakeStore) addTable(t model.DiningTable) model.DiningTable {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.Status == "" {
		t.Status = model.TableAvailable
	}
	s.mu.Lock()
	s.state.tables[t.ID] = t
	s.mu.Unlock()
	return t
}

func (s *fakeStore) addVariant(price int64, stock int) model.ProductVariant {
	v := model.ProductVariant{ID: uuid.New(), ProductID: uuid.New(), Size: "M", Price: price}
	s.mu.Lock()
	s.state.variants[v.ID] = v
	s.state.stock[v.ID] = stock
	s.mu.Unlock()
	return v
}

func (s *fakeStore) addSession(sess model.TableSession) model.TableSession {
	if sess.ID == uuid.Nil {
		sess.ID = uuid.New()
	}
	if sess.Status == "" {
		sess.Status = model.SessionActive
	}
	s.mu.Lock()
	s.state.sessions[sess.ID] = sess
	s.mu.Unlock()
	return sess
}

func (s *fakeStore) addReservation(r model.Reservation) model.Reservation {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.Status == "" {
		r.Status = model.ReservationPending
	}
	s.mu.Lock()
	s.state.reservations[r.ID] = r
	s.mu.Unlock()
	return r
}

func (s *fakeStore) table(id uuid.UUID) model.DiningTable {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.tables[id]
}

func (s *fakeStore) stockOf(id uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.stock[id]
}

func (s *fakeStore) sessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.state.sessions)
}

func (s *fakeStore) activeSessions(tableID uuid.UUID) []model.TableSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.TableSession
	for _, sess := range s.state.sessions {
		if sess.Status == model.SessionActive && sess.TableID != nil && *sess.TableID == tableID {
			out = append(out, sess)
		}
	}
	return out
}

func (s *fakeStore) detailsOf(orderID uuid.UUID) []model.OrderDetail {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.OrderDetail(nil), s.state.details[orderID]...)
}

func (s *fakeStore) ordersOf(sessionID uuid.UUID) []model.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Order
	for _, o := range s.state.orders {
		if o.SessionID == sessionID {
			out = append(out, o)
		}
	}
	return out
}

// ---- store.Reader ----

func (s *fakeStore) GetRoom(_ context.Context, id uuid.UUID) (*model.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.state.rooms[id]
	if !ok {
		return nil, store.ErrRoomNotFound
	}
	return &r, nil
}

func (s *fakeStore) ListRooms(context.Context) ([]model.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Room, 0, len(s.state.rooms))
	for _, r := range s.state.rooms {
		out = append(out, r)
	}
	return out, nil
}

func (s *fakeStore) CountRooms(context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.state.rooms), nil
}

func (s *fakeStore) GetTable(_ context.Context, id uuid.UUID) (*model.DiningTable, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.state.tables[id]
	if !ok {
		return nil, store.ErrTableNotFound
	}
	return &t, nil
}

func (s *fakeStore) ListTables(context.Context) ([]model.DiningTable, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.DiningTable, 0, len(s.state.tables))
	for _, t := range s.state.tables {
		out = append(out, t)
	}
	return out, nil
}

func (s *fakeStore) ListTablesByRoom(_ context.Context, roomID uuid.UUID) ([]model.DiningTable, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.DiningTable
	for _, t := range s.state.tables {
		if t.RoomID == roomID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *fakeStore) ActiveTableCount(_ context.Context, roomID uuid.UUID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.state.tables {
		if t.RoomID == roomID && t.IsActive {
			n++
		}
	}
	return n, nil
}

func (s *fakeStore) ActiveTotalCapacity(_ context.Context, roomID uuid.UUID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sum := 0
	for _, t := range s.state.tables {
		if t.RoomID == roomID && t.IsActive {
			sum += t.Capacity
		}
	}
	return sum, nil
}

func (s *fakeStore) AvailableCapacity(context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sum := 0
	for _, t := range s.state.tables {
		if t.IsActive && t.Status == model.TableAvailable {
			sum += t.Capacity
		}
	}
	return sum, nil
}

func (s *fakeStore) GetOrder(_ context.Context, id uuid.UUID) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.state.orders[id]
	if !ok {
		return nil, store.ErrOrderNotFound
	}
	return &o, nil
}

func (s *fakeStore) GetVariant(_ context.Context, id uuid.UUID) (*model.ProductVariant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.state.variants[id]
	if !ok {
		return nil, store.ErrVariantNotFound
	}
	return &v, nil
}

func (s *fakeStore) GetReservation(_ context.Context, id uuid.UUID) (*model.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.state.reservations[id]
	if !ok {
		return nil, store.ErrReservationNotFound
	}
	return &r, nil
}

func (s *fakeStore) ReservationCodeExists(_ context.Context, code string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.state.reservations {
		if r.ReservationCode == code {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeStore) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.state.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (s *fakeStore) GetUserByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.state.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return &u, nil
}

func (s *fakeStore) GetRefreshToken(_ context.Context, tokenHash string) (*model.RefreshToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.state.tokens[tokenHash]
	if !ok {
		return nil, store.ErrTokenNotFound
	}
	return &t, nil
}

// ---- store.UserWriter ----

func (s *fakeStore) InsertUser(_ context.Context, u *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.state.users {
		if existing.Email == u.Email {
			return store.ErrConflict
		}
	}
	s.state.users[u.ID] = *u
	return nil
}

func (s *fakeStore) InsertRefreshToken(_ context.Context, t *model.RefreshToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.tokens[t.TokenHash] = *t
	return nil
}

func (s *fakeStore) RevokeRefreshToken(_ context.Context, tokenHash string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.state.tokens[tokenHash]
	if !ok || t.RevokedAt != nil {
		return store.ErrTokenNotFound
	}
	t.RevokedAt = &at
	s.state.tokens[tokenHash] = t
	return nil
}

// ---- transactions ----

func (s *fakeStore) Begin(context.Context) (store.Tx, error) {
	if s.beginErr != nil {
		return nil, s.beginErr
	}
	s.mu.Lock()
	clone := s.state.clone()
	s.mu.Unlock()
	return &fakeTx{store: s, state: clone}, nil
}

type fakeTx struct {
	store *fakeStore
	state *fakeState
	done  bool
}

func (t *fakeTx) Commit() error {
	t.store.mu.Lock()
	t.store.state = t.state
	t.store.mu.Unlock()
	t.done = true
	return nil
}

func (t *fakeTx) Rollback() error { return nil }

func (t *fakeTx) GetTableForUpdate(_ context.Context, id uuid.UUID) (*model.DiningTable, error) {
	tab, ok := t.state.tables[id]
	if !ok {
		return nil, store.ErrTableNotFound
	}
	return &tab, nil
}

func (t *fakeTx) GetVariant(_ context.Context, id uuid.UUID) (*model.ProductVariant, error) {
	v, ok := t.state.variants[id]
	if !ok {
		return nil, store.ErrVariantNotFound
	}
	return &v, nil
}

func (t *fakeTx) GetOrder(_ context.Context, id uuid.UUID) (*model.Order, error) {
	o, ok := t.state.orders[id]
	if !ok {
		return nil, store.ErrOrderNotFound
	}
	return &o, nil
}

func (t *fakeTx) GetReservation(_ context.Context, id uuid.UUID) (*model.Reservation, error) {
	r, ok := t.state.reservations[id]
	if !ok {
		return nil, store.ErrReservationNotFound
	}
	return &r, nil
}

func (t *fakeTx) ActiveSessionByTable(_ context.Context, tableID uuid.UUID) (*model.TableSession, error) {
	for _, sess := range t.state.sessions {
		if sess.Status == model.SessionActive && sess.TableID != nil && *sess.TableID == tableID {
			sess := sess
			return &sess, nil
		}
	}
	return nil, store.ErrSessionNotFound
}

func (t *fakeTx) ActiveSessionByInvoiceName(_ context.Context, invoiceName string) (*model.TableSession, error) {
	for _, sess := range t.state.sessions {
		if sess.Status == model.SessionActive && sess.TableID == nil && sess.InvoiceName == invoiceName {
			sess := sess
			return &sess, nil
		}
	}
	return nil, store.ErrSessionNotFound
}

func (t *fakeTx) ListOrdersBySession(_ context.Context, sessionID uuid.UUID) ([]model.Order, error) {
	var out []model.Order
	for _, o := range t.state.orders {
		if o.SessionID == sessionID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (t *fakeTx) InsertRoom(_ context.Context, room *model.Room) error {
	t.state.rooms[room.ID] = *room
	return nil
}

func (t *fakeTx) UpdateRoom(_ context.Context, room *model.Room) error {
	if _, ok := t.state.rooms[room.ID]; !ok {
		return store.ErrRoomNotFound
	}
	t.state.rooms[room.ID] = *room
	return nil
}

func (t *fakeTx) DeleteRoom(_ context.Context, id uuid.UUID) error {
	if _, ok := t.state.rooms[id]; !ok {
		return store.ErrRoomNotFound
	}
	delete(t.state.rooms, id)
	return nil
}

func (t *fakeTx) InsertTable(_ context.Context, table *model.DiningTable) error {
	t.state.tables[table.ID] = *table
	return nil
}

func (t *fakeTx) UpdateTable(_ context.Context, table *model.DiningTable) error {
	if _, ok := t.state.tables[table.ID]; !ok {
		return store.ErrTableNotFound
	}
	t.state.tables[table.ID] = *table
	return nil
}

func (t *fakeTx) UpdateTableStatus(_ context.Context, id uuid.UUID, status model.TableStatus) error {
	tab, ok := t.state.tables[id]
	if !ok {
		return store.ErrTableNotFound
	}
	tab.Status = status
	t.state.tables[id] = tab
	return nil
}

func (t *fakeTx) TableHasSessions(_ context.Context, id uuid.UUID) (bool, error) {
	for _, sess := range t.state.sessions {
		if sess.TableID != nil && *sess.TableID == id {
			return true, nil
		}
	}
	return false, nil
}

func (t *fakeTx) DeleteTable(_ context.Context, id uuid.UUID) error {
	if _, ok := t.state.tables[id]; !ok {
		return store.ErrTableNotFound
	}
	delete(t.state.tables, id)
	return nil
}

func (t *fakeTx) DeactivateTable(_ context.Context, id uuid.UUID) error {
	tab, ok := t.state.tables[id]
	if !ok {
		return store.ErrTableNotFound
	}
	tab.IsActive = false
	t.state.tables[id] = tab
	return nil
}

func (t *fakeTx) InsertSession(_ context.Context, session *model.TableSession) error {
	t.state.sessions[session.ID] = *session
	return nil
}

func (t *fakeTx) UpdateSessionTotal(_ context.Context, sessionID uuid.UUID, total int64) error {
	sess, ok := t.state.sessions[sessionID]
	if !ok {
		return store.ErrSessionNotFound
	}
	sess.TotalAmount = total
	t.state.sessions[sessionID] = sess
	return nil
}

func (t *fakeTx) CloseSession(_ context.Context, sessionID uuid.UUID, closedAt time.Time) error {
	sess, ok := t.state.sessions[sessionID]
	if !ok || sess.Status != model.SessionActive {
		return store.ErrSessionNotFound
	}
	sess.Status = model.SessionClosed
	sess.ClosedAt = &closedAt
	t.state.sessions[sessionID] = sess
	return nil
}

func (t *fakeTx) InsertOrder(_ context.Context, order *model.Order) error {
	t.state.orders[order.ID] = *order
	return nil
}

func (t *fakeTx) InsertOrderDetails(_ context.Context, details []model.OrderDetail) error {
	for _, d := range details {
		t.state.details[d.OrderID] = append(t.state.details[d.OrderID], d)
	}
	return nil
}

func (t *fakeTx) UpdateOrderStatus(_ context.Context, orderID uuid.UUID, status model.OrderStatus) error {
	o, ok := t.state.orders[orderID]
	if !ok {
		return store.ErrOrderNotFound
	}
	o.Status = status
	t.state.orders[orderID] = o
	return nil
}

func (t *fakeTx) UpdateOrderDiscount(_ context.Context, orderID uuid.UUID, discount int64) error {
	o, ok := t.state.orders[orderID]
	if !ok {
		return store.ErrOrderNotFound
	}
	o.Discount = discount
	t.state.orders[orderID] = o
	return nil
}

func (t *fakeTx) FinalizeSessionOrders(_ context.Context, sessionID uuid.UUID) error {
	for id, o := range t.state.orders {
		if o.SessionID == sessionID && o.Status != model.OrderCancelled {
			o.Status = model.OrderServed
			t.state.orders[id] = o
		}
	}
	return nil
}

func (t *fakeTx) DeductStock(_ context.Context, variantID uuid.UUID, quantity int) (int, error) {
	have, ok := t.state.stock[variantID]
	if !ok {
		return 0, store.ErrVariantNotFound
	}
	if have < quantity {
		return 0, store.ErrInsufficientStock
	}
	t.state.stock[variantID] = have - quantity
	return have - quantity, nil
}

func (t *fakeTx) InsertReservation(_ context.Context, res *model.Reservation) error {
	t.state.reservations[res.ID] = *res
	return nil
}

func (t *fakeTx) AssignReservationTable(_ context.Context, reservationID, tableID, roomID uuid.UUID) error {
	r, ok := t.state.reservations[reservationID]
	if !ok {
		return store.ErrReservationNotFound
	}
	r.TableID = &tableID
	r.RoomID = &roomID
	t.state.reservations[reservationID] = r
	return nil
}

func (t *fakeTx) UpdateReservationStatus(_ context.Context, id uuid.UUID, status model.ReservationStatus) error {
	r, ok := t.state.reservations[id]
	if !ok {
		return store.ErrReservationNotFound
	}
	r.Status = status
	t.state.reservations[id] = r
	return nil
}

// fakeNotifier records kitchen events.
type fakeNotifier struct {
	mu     sync.Mutex
	events []queue.OrderCreatedEvent
	err    error
}

func (n *fakeNotifier) PublishOrderCreated(_ context.Context, ev queue.OrderCreatedEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, ev)
	return n.err
}
