package mysql

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/vuxducgiang/restaurant-pos/internal/model"
	"github.com/vuxducgiang/restaurant-pos/internal/store"
)

const variantColumns = `id, product_id, size, price`

func scanVariant(scan func(dest ...any) error) (*model.ProductVariant, error) {
	var v model.ProductVariant
	var id, productID string
	err := scan(&id, &productID, &v.Size, &v.Price)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrVariantNotFound
		}
		return nil, err
	}
	if v.ID, err = uuid.Parse(id); err != nil {
		return nil, err
	}
	if v.ProductID, err = uuid.Parse(productID); err != nil {
		return nil, err
	}
	return &v, nil
}

// GetVariant returns a product variant or store.ErrVariantNotFound.
func (s *Store) GetVariant(ctx context.Context, id uuid.UUID) (*model.ProductVariant, error) {
	const q = `SELECT ` + variantColumns + ` FROM product_variants WHERE id = ?`
	return scanVariant(s.db.QueryRowContext(ctx, q, id.String()).Scan)
}

func (t *Tx) GetVariant(ctx context.Context, id uuid.UUID) (*model.ProductVariant, error) {
	const q = `SELECT ` + variantColumns + ` FROM product_variants WHERE id = ?`
	return scanVariant(t.tx.QueryRowContext(ctx, q, id.String()).Scan)
}

// DeductStock decrements a variant's stock inside the transaction and
// returns the remaining quantity.  The decrement is guarded in SQL so
// the quantity can never go negative: a zero-row update means either
// the stock record is missing (ErrVariantNotFound) or the quantity is
// short (ErrInsufficientStock), distinguished by a follow-up read.
func (t *Tx) DeductStock(ctx context.Context, variantID uuid.UUID, quantity int) (int, error) {
	const upd = `UPDATE product_stocks SET quantity = quantity - ?
	             WHERE variant_id = ? AND quantity >= ?`
	res, err := t.tx.ExecContext(ctx, upd, quantity, variantID.String(), quantity)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n == 0 {
		const sel = `SELECT quantity FROM product_stocks WHERE variant_id = ?`
		var have int
		switch err := t.tx.QueryRowContext(ctx, sel, variantID.String()).Scan(&have); {
		case errors.Is(err, sql.ErrNoRows):
			return 0, store.ErrVariantNotFound
		case err != nil:
			return 0, err
		default:
			return have, store.ErrInsufficientStock
		}
	}
	const sel = `SELECT quantity FROM product_stocks WHERE variant_id = ?`
	var remaining int
	if err := t.tx.QueryRowContext(ctx, sel, variantID.String()).Scan(&remaining); err != nil {
		return 0, err
	}
	return remaining, nil
}
