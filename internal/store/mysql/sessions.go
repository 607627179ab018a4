package mysql

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/vuxducgiang/restaurant-pos/internal/model"
	"github.com/vuxducgiang/restaurant-pos/internal/store"
)

const sessionColumns = `id, table_id, status, invoice_name, total_amount, opened_at, closed_at`

func scanSession(scan func(dest ...any) error) (*model.TableSession, error) {
	var s model.TableSession
	var id string
	var tableID sql.NullString
	var status string
	var closedAt sql.NullTime
	err := scan(&id, &tableID, &status, &s.InvoiceName, &s.TotalAmount, &s.OpenedAt, &closedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrSessionNotFound
		}
		return nil, err
	}
	if s.ID, err = uuid.Parse(id); err != nil {
		return nil, err
	}
	if tableID.Valid {
		tid, err := uuid.Parse(tableID.String)
		if err != nil {
			return nil, err
		}
		s.TableID = &tid
	}
	s.Status = model.SessionStatus(status)
	if closedAt.Valid {
		t := closedAt.Time
		s.ClosedAt = &t
	}
	return &s, nil
}

// ActiveSessionByTable returns the single Active session of a physical
// table.  The FOR UPDATE lock makes session-lookup-or-create serialize
// with concurrent orders and checkouts on the same table.
func (t *Tx) ActiveSessionByTable(ctx context.Context, tableID uuid.UUID) (*model.TableSession, error) {
	const q = `SELECT ` + sessionColumns + ` FROM table_sessions
	           WHERE table_id = ? AND status = 'Active' FOR UPDATE`
	return scanSession(t.tx.QueryRowContext(ctx, q, tableID.String()).Scan)
}

// ActiveSessionByInvoiceName resolves the Active session of a virtual
// take-away or delivery scope, which carries no table reference.
func (t *Tx) ActiveSessionByInvoiceName(ctx context.Context, invoiceName string) (*model.TableSession, error) {
	const q = `SELECT ` + sessionColumns + ` FROM table_sessions
	           WHERE table_id IS NULL AND invoice_name = ? AND status = 'Active' FOR UPDATE`
	return scanSession(t.tx.QueryRowContext(ctx, q, invoiceName).Scan)
}

func (t *Tx) InsertSession(ctx context.Context, s *model.TableSession) error {
	const q = `INSERT INTO table_sessions (id, table_id, status, invoice_name, total_amount, opened_at)
	           VALUES (?, ?, ?, ?, ?, ?)`
	var tableID any
	if s.TableID != nil {
		tableID = s.TableID.String()
	}
	_, err := t.tx.ExecContext(ctx, q,
		s.ID.String(), tableID, string(s.Status), s.InvoiceName, s.TotalAmount, s.OpenedAt.UTC())
	return err
}

func (t *Tx) UpdateSessionTotal(ctx context.Context, sessionID uuid.UUID, total int64) error {
	const q = `UPDATE table_sessions SET total_amount = ? WHERE id = ?`
	res, err := t.tx.ExecContext(ctx, q, total, sessionID.String())
	if err != nil {
		return err
	}
	return noneToNotFound(res, store.ErrSessionNotFound)
}

// CloseSession marks a session Closed at the given time.  Only Active
// sessions match, so closing twice reports ErrSessionNotFound.
func (t *Tx) CloseSession(ctx context.Context, sessionID uuid.UUID, closedAt time.Time) error {
	const q = `UPDATE table_sessions SET status = 'Closed', closed_at = ? WHERE id = ? AND status = 'Active'`
	res, err := t.tx.ExecContext(ctx, q, closedAt.UTC(), sessionID.String())
	if err != nil {
		return err
	}
	return noneToNotFound(res, store.ErrSessionNotFound)
}
