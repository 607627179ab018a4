package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/vuxducgiang/restaurant-pos/internal/model"
	"github.com/vuxducgiang/restaurant-pos/internal/service"
)

// ReservationHandler exposes the booking flow.  Booking and the
// availability probe are public; table assignment and status changes
// are staff operations.
type ReservationHandler struct {
	Reservations *service.ReservationService
}

func NewReservationHandler(reservations *service.ReservationService) *ReservationHandler {
	if reservations == nil {
		panic("nil reservation service passed to NewReservationHandler")
	}
	return &ReservationHandler{Reservations: reservations}
}

// ----- DTOs -----

type bookingReq struct {
	CustomerName   string    `json:"customer_name"`
	CustomerPhone  string    `json:"customer_phone"`
	CustomerEmail  string    `json:"customer_email"`
	ArrivalTime    time.Time `json:"arrival_time"`
	NumberOfGuests int       `json:"number_of_guests"`
	TableID        string    `json:"table_id"` // optional immediate assignment
}

type reservationResp struct {
	ID              string    `json:"id"`
	ReservationCode string    `json:"reservation_code"`
	CustomerName    string    `json:"customer_name"`
	CustomerPhone   string    `json:"customer_phone"`
	CustomerEmail   string    `json:"customer_email,omitempty"`
	ArrivalTime     time.Time `json:"arrival_time"`
	NumberOfGuests  int       `json:"number_of_guests"`
	Status          string    `json:"status"`
	TableID         string    `json:"table_id,omitempty"`
	RoomID          string    `json:"room_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

func toReservationResp(r *model.Reservation) reservationResp {
	resp := reservationResp{
		ID:              r.ID.String(),
		ReservationCode: r.ReservationCode,
		CustomerName:    r.CustomerName,
		CustomerPhone:   r.CustomerPhone,
		CustomerEmail:   r.CustomerEmail,
		ArrivalTime:     r.ArrivalTime,
		NumberOfGuests:  r.NumberOfGuests,
		Status:          string(r.Status),
		CreatedAt:       r.CreatedAt,
	}
	if r.TableID != nil {
		resp.TableID = r.TableID.String()
	}
	if r.RoomID != nil {
		resp.RoomID = r.RoomID.String()
	}
	return resp
}

type assignTableReq struct {
	TableID string `json:"table_id"`
}

// CreateReservation handles POST /v1/reservations (public).
func (h *ReservationHandler) CreateReservation(c echo.Context) error {
	var req bookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	booking := service.BookingRequest{
		CustomerName:   req.CustomerName,
		CustomerPhone:  req.CustomerPhone,
		CustomerEmail:  req.CustomerEmail,
		ArrivalTime:    req.ArrivalTime,
		NumberOfGuests: req.NumberOfGuests,
	}
	if req.TableID != "" {
		tableID, err := uuid.Parse(req.TableID)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid table_id"})
		}
		booking.TableID = &tableID
	}
	res, err := h.Reservations.CreateReservation(c.Request().Context(), booking)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, toReservationResp(res))
}

// CheckAvailability handles GET /v1/reservations/availability (public).
// Query: guests (required), arrival_time (RFC 3339, optional).
func (h *ReservationHandler) CheckAvailability(c echo.Context) error {
	guests := 0
	if err := echo.QueryParamsBinder(c).Int("guests", &guests).BindError(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid guests"})
	}
	arrival := time.Now().UTC()
	if raw := c.QueryParam("arrival_time"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid arrival_time"})
		}
		arrival = t
	}
	available, err := h.Reservations.ValidateAvailability(c.Request().Context(), arrival, guests)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"available": available, "guests": guests})
}

// AssignTable handles POST /v1/reservations/:id/table (staff).
func (h *ReservationHandler) AssignTable(c echo.Context) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return nil
	}
	var req assignTableReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	tableID, err := uuid.Parse(req.TableID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid table_id"})
	}
	if err := h.Reservations.AssignTable(c.Request().Context(), id, tableID); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Confirm handles POST /v1/reservations/:id/confirm (staff).
func (h *ReservationHandler) Confirm(c echo.Context) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return nil
	}
	if err := h.Reservations.ConfirmReservation(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Seat handles POST /v1/reservations/:id/seat (staff).
func (h *ReservationHandler) Seat(c echo.Context) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return nil
	}
	if err := h.Reservations.SeatReservation(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Cancel handles POST /v1/reservations/:id/cancel (staff).
func (h *ReservationHandler) Cancel(c echo.Context) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return nil
	}
	if err := h.Reservations.CancelReservation(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
