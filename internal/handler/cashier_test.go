package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/vuxducgiang/restaurant-pos/internal/model"
	"github.com/vuxducgiang/restaurant-pos/internal/service"
	"github.com/vuxducgiang/restaurant-pos/internal/store"
)

// orderStore backs the cashier endpoint tests.  Only the calls the
// create-order path makes are implemented; everything else panics
// through the embedded nil interface, which is exactly what we want
// from an endpoint that strays off that path.
type orderStore struct {
	store.Store
	tables   map[uuid.UUID]model.DiningTable
	variants map[uuid.UUID]model.ProductVariant
	stock    map[uuid.UUID]int
	sessions map[uuid.UUID]model.TableSession
}

func (s *orderStore) Begin(context.Context) (store.Tx, error) { return &orderTx{s: s}, nil }

type orderTx struct {
	store.Tx
	s *orderStore
}

func (t *orderTx) Commit() error   { return nil }
func (t *orderTx) Rollback() error { return nil }

func (t *orderTx) GetTableForUpdate(_ context.Context, id uuid.UUID) (*model.DiningTable, error) {
	table, ok := t.s.tables[id]
	if !ok {
		return nil, store.ErrTableNotFound
	}
	return &table, nil
}

func (t *orderTx) GetVariant(_ context.Context, id uuid.UUID) (*model.ProductVariant, error) {
	v, ok := t.s.variants[id]
	if !ok {
		return nil, store.ErrVariantNotFound
	}
	return &v, nil
}

func (t *orderTx) DeductStock(_ context.Context, variantID uuid.UUID, quantity int) (int, error) {
	have, ok := t.s.stock[variantID]
	if !ok {
		return 0, store.ErrVariantNotFound
	}
	if have < quantity {
		return 0, store.ErrInsufficientStock
	}
	t.s.stock[variantID] = have - quantity
	return have - quantity, nil
}

func (t *orderTx) ActiveSessionByTable(_ context.Context, tableID uuid.UUID) (*model.TableSession, error) {
	for _, sess := range t.s.sessions {
		if sess.TableID != nil && *sess.TableID == tableID && sess.Status == model.SessionActive {
			return &sess, nil
		}
	}
	return nil, store.ErrSessionNotFound
}

func (t *orderTx) InsertSession(_ context.Context, sess *model.TableSession) error {
	t.s.sessions[sess.ID] = *sess
	return nil
}

func (t *orderTx) UpdateSessionTotal(_ context.Context, sessionID uuid.UUID, total int64) error {
	sess := t.s.sessions[sessionID]
	sess.TotalAmount = total
	t.s.sessions[sessionID] = sess
	return nil
}

func (t *orderTx) InsertOrder(context.Context, *model.Order) error { return nil }

func (t *orderTx) InsertOrderDetails(context.Context, []model.OrderDetail) error { return nil }

func (t *orderTx) UpdateTableStatus(_ context.Context, id uuid.UUID, status model.TableStatus) error {
	table := t.s.tables[id]
	table.Status = status
	t.s.tables[id] = table
	return nil
}

func newCashierFixture() (*CashierHandler, model.DiningTable, model.ProductVariant) {
	table := model.DiningTable{
		ID: uuid.New(), RoomID: uuid.New(), TableNumber: "T001", TableName: "Table 1",
		Capacity: 4, Status: model.TableAvailable, IsActive: true,
	}
	variant := model.ProductVariant{ID: uuid.New(), ProductID: uuid.New(), Size: "M", Price: 45000}
	st := &orderStore{
		tables:   map[uuid.UUID]model.DiningTable{table.ID: table},
		variants: map[uuid.UUID]model.ProductVariant{variant.ID: variant},
		stock:    map[uuid.UUID]int{variant.ID: 10},
		sessions: map[uuid.UUID]model.TableSession{},
	}
	h := NewCashierHandler(service.NewOrderService(st, nil, time.Second))
	return h, table, variant
}

func postOrder(t *testing.T, h *CashierHandler, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/orders", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	if err := h.CreateOrder(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler returned %v", err)
	}
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response %q is not JSON: %v", rec.Body.String(), err)
	}
	return rec, resp
}

func TestCreateOrderEndpoint(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		h, table, variant := newCashierFixture()
		body := `{"table_id":"` + table.ID.String() + `","items":[{"variant_id":"` + variant.ID.String() + `","quantity":2}]}`
		rec, resp := postOrder(t, h, body)
		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201 (body %s)", rec.Code, rec.Body.String())
		}
		id, _ := resp["order_id"].(string)
		if _, err := uuid.Parse(id); err != nil {
			t.Errorf("order_id %q is not a UUID", id)
		}
		number, _ := resp["order_number"].(string)
		if !strings.HasPrefix(number, "ORD-") {
			t.Errorf("order_number = %q, want ORD- prefix", number)
		}
	})

	t.Run("empty items rejected", func(t *testing.T) {
		h, table, _ := newCashierFixture()
		body := `{"table_id":"` + table.ID.String() + `","items":[]}`
		rec, resp := postOrder(t, h, body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
		if resp["error"] != "item list must not be empty" {
			t.Errorf("error = %q, want the empty-item-list message", resp["error"])
		}
	})

	t.Run("malformed table id rejected", func(t *testing.T) {
		h, _, variant := newCashierFixture()
		body := `{"table_id":"not-a-uuid","items":[{"variant_id":"` + variant.ID.String() + `","quantity":1}]}`
		rec, _ := postOrder(t, h, body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("unknown variant is not found", func(t *testing.T) {
		h, table, _ := newCashierFixture()
		body := `{"table_id":"` + table.ID.String() + `","items":[{"variant_id":"` + uuid.NewString() + `","quantity":1}]}`
		rec, _ := postOrder(t, h, body)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", rec.Code)
		}
	})

	t.Run("insufficient stock conflicts", func(t *testing.T) {
		h, table, variant := newCashierFixture()
		body := `{"table_id":"` + table.ID.String() + `","items":[{"variant_id":"` + variant.ID.String() + `","quantity":99}]}`
		rec, resp := postOrder(t, h, body)
		if rec.Code != http.StatusConflict {
			t.Fatalf("status = %d, want 409", rec.Code)
		}
		if resp["error"] == "" {
			t.Error("conflict response carries no error message")
		}
	})
}
