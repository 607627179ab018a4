package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/vuxducgiang/restaurant-pos/internal/model"
	"github.com/vuxducgiang/restaurant-pos/internal/service"
)

// RoomTableHandler exposes floor administration: rooms, tables and the
// table status board.
type RoomTableHandler struct {
	Rooms *service.RoomTableService
}

func NewRoomTableHandler(rooms *service.RoomTableService) *RoomTableHandler {
	if rooms == nil {
		panic("nil room/table service passed to NewRoomTableHandler")
	}
	return &RoomTableHandler{Rooms: rooms}
}

// ----- DTOs -----

type roomReq struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	TableCount    int    `json:"table_count"`
	TotalCapacity int    `json:"total_capacity"`
}

type roomResp struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	TableCount    int       `json:"table_count"`
	TotalCapacity int       `json:"total_capacity"`
	CreatedAt     time.Time `json:"created_at"`
}

func toRoomResp(r *model.Room) roomResp {
	return roomResp{
		ID:            r.ID.String(),
		Name:          r.Name,
		Description:   r.Description,
		TableCount:    r.TableCount,
		TotalCapacity: r.TotalCapacity,
		CreatedAt:     r.CreatedAt,
	}
}

type tableReq struct {
	RoomID      string `json:"room_id"`
	TableNumber string `json:"table_number"`
	TableName   string `json:"table_name"`
	Capacity    int    `json:"capacity"`
	Status      string `json:"status"`
}

type tableResp struct {
	ID          string    `json:"id"`
	RoomID      string    `json:"room_id"`
	TableNumber string    `json:"table_number"`
	TableName   string    `json:"table_name"`
	Capacity    int       `json:"capacity"`
	Status      string    `json:"status"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toTableResp(t *model.DiningTable) tableResp {
	return tableResp{
		ID:          t.ID.String(),
		RoomID:      t.RoomID.String(),
		TableNumber: t.TableNumber,
		TableName:   t.TableName,
		Capacity:    t.Capacity,
		Status:      string(t.Status),
		IsActive:    t.IsActive,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

type tableStatusReq struct {
	Status string `json:"status"`
}

// ----- rooms -----

// ListRooms handles GET /v1/rooms.
func (h *RoomTableHandler) ListRooms(c echo.Context) error {
	rooms, err := h.Rooms.GetAllRooms(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	out := make([]roomResp, 0, len(rooms))
	for i := range rooms {
		out = append(out, toRoomResp(&rooms[i]))
	}
	return c.JSON(http.StatusOK, out)
}

// GetRoom handles GET /v1/rooms/:id, returning the room together with
// its live aggregates for the dashboard.
func (h *RoomTableHandler) GetRoom(c echo.Context) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return nil
	}
	ctx := c.Request().Context()
	room, err := h.Rooms.GetRoomByID(ctx, id)
	if err != nil {
		return writeError(c, err)
	}
	count, err := h.Rooms.CurrentTableCount(ctx, id)
	if err != nil {
		return writeError(c, err)
	}
	capacity, err := h.Rooms.CurrentTotalCapacity(ctx, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"room":                   toRoomResp(room),
		"current_table_count":    count,
		"current_total_capacity": capacity,
	})
}

// CreateRoom handles POST /v1/rooms.
func (h *RoomTableHandler) CreateRoom(c echo.Context) error {
	var req roomReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	room := &model.Room{
		Name:          req.Name,
		Description:   req.Description,
		TableCount:    req.TableCount,
		TotalCapacity: req.TotalCapacity,
	}
	if err := h.Rooms.AddRoom(c.Request().Context(), room); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, toRoomResp(room))
}

// UpdateRoom handles PUT /v1/rooms/:id.
func (h *RoomTableHandler) UpdateRoom(c echo.Context) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return nil
	}
	var req roomReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	room := &model.Room{
		ID:            id,
		Name:          req.Name,
		Description:   req.Description,
		TableCount:    req.TableCount,
		TotalCapacity: req.TotalCapacity,
	}
	if err := h.Rooms.UpdateRoom(c.Request().Context(), room); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toRoomResp(room))
}

// DeleteRoom handles DELETE /v1/rooms/:id.
func (h *RoomTableHandler) DeleteRoom(c echo.Context) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return nil
	}
	if err := h.Rooms.DeleteRoom(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Stats handles GET /v1/rooms/stats.
func (h *RoomTableHandler) Stats(c echo.Context) error {
	total, err := h.Rooms.TotalRooms(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"total_rooms": total})
}

// ----- tables -----

// ListTables handles GET /v1/tables and GET /v1/rooms/:id/tables.
func (h *RoomTableHandler) ListTables(c echo.Context) error {
	tables, err := h.Rooms.GetAllTables(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toTableResps(tables))
}

func (h *RoomTableHandler) ListRoomTables(c echo.Context) error {
	roomID, ok := paramUUID(c, "id")
	if !ok {
		return nil
	}
	tables, err := h.Rooms.GetTablesByRoomID(c.Request().Context(), roomID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toTableResps(tables))
}

func toTableResps(tables []model.DiningTable) []tableResp {
	out := make([]tableResp, 0, len(tables))
	for i := range tables {
		out = append(out, toTableResp(&tables[i]))
	}
	return out
}

// GetTable handles GET /v1/tables/:id.
func (h *RoomTableHandler) GetTable(c echo.Context) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return nil
	}
	table, err := h.Rooms.GetTableByID(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toTableResp(table))
}

func (h *RoomTableHandler) bindTable(c echo.Context, req tableReq) (*model.DiningTable, bool) {
	roomID, err := uuid.Parse(req.RoomID)
	if err != nil {
		_ = c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room_id"})
		return nil, false
	}
	return &model.DiningTable{
		RoomID:      roomID,
		TableNumber: req.TableNumber,
		TableName:   req.TableName,
		Capacity:    req.Capacity,
		Status:      model.TableStatus(req.Status),
	}, true
}

// CreateTable handles POST /v1/tables.
func (h *RoomTableHandler) CreateTable(c echo.Context) error {
	var req tableReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	table, ok := h.bindTable(c, req)
	if !ok {
		return nil
	}
	if err := h.Rooms.AddTable(c.Request().Context(), table); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, toTableResp(table))
}

// UpdateTable handles PUT /v1/tables/:id.
func (h *RoomTableHandler) UpdateTable(c echo.Context) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return nil
	}
	var req tableReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	table, ok := h.bindTable(c, req)
	if !ok {
		return nil
	}
	table.ID = id
	if err := h.Rooms.UpdateTable(c.Request().Context(), table); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toTableResp(table))
}

// DeleteTable handles DELETE /v1/tables/:id.
func (h *RoomTableHandler) DeleteTable(c echo.Context) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return nil
	}
	if err := h.Rooms.DeleteTable(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// UpdateTableStatus handles PATCH /v1/tables/:id/status, the staff
// override board.
func (h *RoomTableHandler) UpdateTableStatus(c echo.Context) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return nil
	}
	var req tableStatusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := h.Rooms.UpdateTableStatus(c.Request().Context(), id, model.TableStatus(req.Status)); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
