// Package router wires handlers, auth middleware, rate limiting and
// response caching onto the Echo instance.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/vuxducgiang/restaurant-pos/internal/handler"
	"github.com/vuxducgiang/restaurant-pos/internal/middleware"
	"github.com/vuxducgiang/restaurant-pos/internal/service"
)

// Handlers bundles everything RegisterRoutes mounts.
type Handlers struct {
	Auth          *handler.AuthHandler
	Cashier       *handler.CashierHandler
	RoomTable     *handler.RoomTableHandler
	Reservation   *handler.ReservationHandler
	JWTSecret     string
	RateLimiter   echo.MiddlewareFunc // nil-safe: pass-through when absent
	ResponseCache echo.MiddlewareFunc
}

// RegisterRoutes mounts the full API surface.
//
// Public: health, booking creation and the availability probe.
// Staff (STAFF or MANAGER): the order lifecycle, the floor view and
// reservation management.  Manager only: room/table administration and
// staff registration.
func RegisterRoutes(e *echo.Echo, h Handlers) {
	rateLimit := orPassThrough(h.RateLimiter)
	cached := orPassThrough(h.ResponseCache)

	e.GET("/healthz", handler.Health)

	// Session endpoints.
	auth := e.Group("/v1/auth")
	auth.POST("/login", h.Auth.Login)
	auth.POST("/refresh", h.Auth.Refresh)
	auth.POST("/logout", h.Auth.Logout)

	// Public booking flow, rate limited per IP since callers are
	// anonymous.
	public := e.Group("/v1", rateLimit)
	public.POST("/reservations", h.Reservation.CreateReservation)
	public.GET("/reservations/availability", h.Reservation.CheckAvailability)

	// Staff endpoints.
	staff := e.Group("/v1", middleware.JWTAuth(h.JWTSecret),
		middleware.RequireRole(service.RoleManager, service.RoleStaff), rateLimit)
	staff.GET("/me", h.Auth.Me)

	staff.POST("/orders", h.Cashier.CreateOrder)
	staff.PATCH("/orders/:id/status", h.Cashier.UpdateOrderStatus)
	staff.POST("/checkout", h.Cashier.Checkout)

	staff.GET("/rooms", h.RoomTable.ListRooms, cached)
	staff.GET("/rooms/stats", h.RoomTable.Stats)
	staff.GET("/rooms/:id", h.RoomTable.GetRoom)
	staff.GET("/rooms/:id/tables", h.RoomTable.ListRoomTables, cached)
	staff.GET("/tables", h.RoomTable.ListTables, cached)
	staff.GET("/tables/:id", h.RoomTable.GetTable)
	staff.PATCH("/tables/:id/status", h.RoomTable.UpdateTableStatus)

	staff.POST("/reservations/:id/table", h.Reservation.AssignTable)
	staff.POST("/reservations/:id/confirm", h.Reservation.Confirm)
	staff.POST("/reservations/:id/seat", h.Reservation.Seat)
	staff.POST("/reservations/:id/cancel", h.Reservation.Cancel)

	// Floor administration is manager territory.
	manager := e.Group("/v1", middleware.JWTAuth(h.JWTSecret),
		middleware.RequireRole(service.RoleManager))
	manager.POST("/auth/register", h.Auth.Register)
	manager.POST("/rooms", h.RoomTable.CreateRoom)
	manager.PUT("/rooms/:id", h.RoomTable.UpdateRoom)
	manager.DELETE("/rooms/:id", h.RoomTable.DeleteRoom)
	manager.POST("/tables", h.RoomTable.CreateTable)
	manager.PUT("/tables/:id", h.RoomTable.UpdateTable)
	manager.DELETE("/tables/:id", h.RoomTable.DeleteTable)
}

func orPassThrough(mw echo.MiddlewareFunc) echo.MiddlewareFunc {
	if mw != nil {
		return mw
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error { return next(c) }
	}
}
