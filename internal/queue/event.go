// Package queue defines message payloads exchanged over the message broker.
package queue

// OrderCreatedEvent is published when an order is committed. It carries
// enough for the kitchen display and downstream analytics to act
// without querying the primary database.
type OrderCreatedEvent struct {
	OrderID     string      `json:"order_id"`
	OrderNumber string      `json:"order_number"`
	TableID     string      `json:"table_id,omitempty"` // empty for take-away
	InvoiceName string      `json:"invoice_name,omitempty"`
	Items       []OrderItem `json:"items"`
	Notes       string      `json:"notes,omitempty"`
	TotalAmount int64       `json:"total_amount"`
	CreatedAt   string      `json:"created_at"`
}

// OrderItem is one aggregated line of the order.
type OrderItem struct {
	VariantID string `json:"variant_id"`
	Quantity  int    `json:"quantity"`
	Note      string `json:"note,omitempty"`
}
