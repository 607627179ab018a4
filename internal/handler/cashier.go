package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/vuxducgiang/restaurant-pos/internal/model"
	"github.com/vuxducgiang/restaurant-pos/internal/service"
)

// CashierHandler exposes the order lifecycle: placing orders, moving
// them through kitchen statuses and settling the bill.
type CashierHandler struct {
	Orders *service.OrderService
}

func NewCashierHandler(orders *service.OrderService) *CashierHandler {
	if orders == nil {
		panic("nil order service passed to NewCashierHandler")
	}
	return &CashierHandler{Orders: orders}
}

// ----- DTOs -----

type lineItemReq struct {
	VariantID string `json:"variant_id"`
	Quantity  int    `json:"quantity"`
	Note      string `json:"note"`
}

type discountReq struct {
	Percent int64 `json:"percent"`
	Amount  int64 `json:"amount"`
}

func (d *discountReq) toService() *service.Discount {
	if d == nil {
		return nil
	}
	return &service.Discount{Percent: d.Percent, Amount: d.Amount}
}

type createOrderReq struct {
	TableID     string        `json:"table_id"` // empty for take-away
	InvoiceName string        `json:"invoice_name"`
	Items       []lineItemReq `json:"items"`
	Discount    *discountReq  `json:"discount"`
	Note        string        `json:"note"`
}

type checkoutReq struct {
	TableID       string       `json:"table_id"` // empty for take-away
	InvoiceName   string       `json:"invoice_name"`
	PaymentMethod string       `json:"payment_method"`
	AmountPaid    int64        `json:"amount_paid"`
	Discount      *discountReq `json:"discount"`
}

type orderStatusReq struct {
	Status string `json:"status"`
}

// parseScope resolves the table/take-away scope shared by order
// creation and checkout.
func parseScope(c echo.Context, rawTableID string) (*uuid.UUID, bool) {
	if rawTableID == "" {
		return nil, true
	}
	id, err := uuid.Parse(rawTableID)
	if err != nil {
		_ = c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid table_id"})
		return nil, false
	}
	return &id, true
}

// CreateOrder handles POST /v1/orders.
func (h *CashierHandler) CreateOrder(c echo.Context) error {
	var req createOrderReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	tableID, ok := parseScope(c, req.TableID)
	if !ok {
		return nil
	}
	if tableID == nil && req.InvoiceName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "table_id or invoice_name required"})
	}

	items := make([]service.LineItem, 0, len(req.Items))
	for _, it := range req.Items {
		variantID, err := uuid.Parse(it.VariantID)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid variant_id"})
		}
		items = append(items, service.LineItem{VariantID: variantID, Quantity: it.Quantity, Note: it.Note})
	}

	res, err := h.Orders.CreateOrderAndNotifyKitchen(c.Request().Context(),
		tableID, items, req.Discount.toService(), req.InvoiceName, req.Note)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"order_id":     res.OrderID.String(),
		"order_number": res.OrderNumber,
	})
}

// Checkout handles POST /v1/checkout.
func (h *CashierHandler) Checkout(c echo.Context) error {
	var req checkoutReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	tableID, ok := parseScope(c, req.TableID)
	if !ok {
		return nil
	}
	if tableID == nil && req.InvoiceName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "table_id or invoice_name required"})
	}

	res, err := h.Orders.Checkout(c.Request().Context(),
		tableID, req.InvoiceName, req.PaymentMethod, req.AmountPaid, req.Discount.toService())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"invoice_number": res.InvoiceNumber,
		"sub_total":      res.SubTotal,
		"discount":       res.Discount,
		"vat":            res.VAT,
		"total":          res.Total,
		"amount_paid":    res.AmountPaid,
		"change":         res.Change,
	})
}

// UpdateOrderStatus handles PATCH /v1/orders/:id/status.
func (h *CashierHandler) UpdateOrderStatus(c echo.Context) error {
	orderID, ok := paramUUID(c, "id")
	if !ok {
		return nil
	}
	var req orderStatusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := h.Orders.UpdateOrderStatus(c.Request().Context(), orderID, model.OrderStatus(req.Status)); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
