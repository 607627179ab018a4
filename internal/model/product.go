package model

import (
	"time"

	"github.com/google/uuid"
)

// Product is a sellable menu item.  Pricing lives on the variant level
// so one product can be sold in several sizes.
type Product struct {
	ID          uuid.UUID // products.id
	Name        string    // products.name
	Description string    // products.description
	ProductType string    // products.product_type (e.g. "Beverage")
	Unit        string    // products.unit (e.g. "Cup")
	Status      string    // products.status ("Active"/"Inactive")
	CreatedAt   time.Time // products.created_at
}

// ProductVariant is the sellable unit of a product: a concrete size
// with a price.  Orders reference variants, never products directly.
//
// Fields:
//  ID        - primary key identifier.
//  ProductID - owning product.
//  Size      - variant label such as "M" or "L".
//  Price     - current selling price in VND.
type ProductVariant struct {
	ID        uuid.UUID // product_variants.id
	ProductID uuid.UUID // product_variants.product_id
	Size      string    // product_variants.size
	Price     int64     // product_variants.price (VND)
}

// ProductStock tracks the sellable quantity of a variant held in an
// inventory location.  Quantity must never go negative; deductions are
// guarded in SQL and rejected when insufficient.
type ProductStock struct {
	ID            uuid.UUID // product_stocks.id
	VariantID     uuid.UUID // product_stocks.variant_id
	StoreLocation string    // product_stocks.store_location
	Quantity      int       // product_stocks.quantity
}
