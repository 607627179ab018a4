package mysql

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/vuxducgiang/restaurant-pos/internal/model"
	"github.com/vuxducgiang/restaurant-pos/internal/store"
)

const orderColumns = `id, session_id, order_number, status, sub_total, vat, discount, total_amount, notes, order_date`

func scanOrder(scan func(dest ...any) error) (*model.Order, error) {
	var o model.Order
	var id, sessionID, status string
	err := scan(&id, &sessionID, &o.OrderNumber, &status,
		&o.SubTotal, &o.VAT, &o.Discount, &o.TotalAmount, &o.Notes, &o.OrderDate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrOrderNotFound
		}
		return nil, err
	}
	if o.ID, err = uuid.Parse(id); err != nil {
		return nil, err
	}
	if o.SessionID, err = uuid.Parse(sessionID); err != nil {
		return nil, err
	}
	o.Status = model.OrderStatus(status)
	return &o, nil
}

// GetOrder returns a single order or store.ErrOrderNotFound.
func (s *Store) GetOrder(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	const q = `SELECT ` + orderColumns + ` FROM orders WHERE id = ?`
	return scanOrder(s.db.QueryRowContext(ctx, q, id.String()).Scan)
}

// GetOrder inside a transaction observes the transaction's own writes.
func (t *Tx) GetOrder(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	const q = `SELECT ` + orderColumns + ` FROM orders WHERE id = ?`
	return scanOrder(t.tx.QueryRowContext(ctx, q, id.String()).Scan)
}

// ListOrdersBySession returns a session's orders oldest first.
func (t *Tx) ListOrdersBySession(ctx context.Context, sessionID uuid.UUID) ([]model.Order, error) {
	const q = `SELECT ` + orderColumns + ` FROM orders WHERE session_id = ? ORDER BY order_date`
	rows, err := t.tx.QueryContext(ctx, q, sessionID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

func (t *Tx) InsertOrder(ctx context.Context, o *model.Order) error {
	const q = `INSERT INTO orders
	           (id, session_id, order_number, status, sub_total, vat, discount, total_amount, notes, order_date)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := t.tx.ExecContext(ctx, q,
		o.ID.String(), o.SessionID.String(), o.OrderNumber, string(o.Status),
		o.SubTotal, o.VAT, o.Discount, o.TotalAmount, o.Notes, o.OrderDate.UTC())
	return err
}

// InsertOrderDetails bulk-inserts the lines of one order in a single
// statement.  Passing an empty slice has no effect.
func (t *Tx) InsertOrderDetails(ctx context.Context, details []model.OrderDetail) error {
	if len(details) == 0 {
		return nil
	}
	q := `INSERT INTO order_details (id, order_id, variant_id, quantity, unit_price, special_instructions) VALUES `
	args := make([]any, 0, len(details)*6)
	for i, d := range details {
		if i > 0 {
			q += ","
		}
		q += "(?, ?, ?, ?, ?, ?)"
		args = append(args, d.ID.String(), d.OrderID.String(), d.VariantID.String(),
			d.Quantity, d.UnitPrice, d.SpecialInstructions)
	}
	_, err := t.tx.ExecContext(ctx, q, args...)
	return err
}

func (t *Tx) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status model.OrderStatus) error {
	const q = `UPDATE orders SET status = ? WHERE id = ?`
	res, err := t.tx.ExecContext(ctx, q, string(status), orderID.String())
	if err != nil {
		return err
	}
	return noneToNotFound(res, store.ErrOrderNotFound)
}

// UpdateOrderDiscount records an order's share of the checkout
// discount.
func (t *Tx) UpdateOrderDiscount(ctx context.Context, orderID uuid.UUID, discount int64) error {
	const q = `UPDATE orders SET discount = ? WHERE id = ?`
	res, err := t.tx.ExecContext(ctx, q, discount, orderID.String())
	if err != nil {
		return err
	}
	return noneToNotFound(res, store.ErrOrderNotFound)
}

// FinalizeSessionOrders moves every non-cancelled order of a session to
// Served as part of checkout.  Zero affected rows is fine here: the
// empty-session case is rejected before the write.
func (t *Tx) FinalizeSessionOrders(ctx context.Context, sessionID uuid.UUID) error {
	const q = `UPDATE orders SET status = 'Served' WHERE session_id = ? AND status <> 'Cancelled'`
	_, err := t.tx.ExecContext(ctx, q, sessionID.String())
	return err
}
