package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/MoisesNEY/hotel-management-system-sub000/models"
	"github.com/MoisesNEY/hotel-management-system-sub000/services"
	"github.com/MoisesNEY/hotel-management-system-sub000/utils"
)

type RoomPayload struct {
	RoomNumber string `json:"roomNumber" binding:"required"`
	RoomTypeID uint   `json:"roomTypeId" binding:"required"`
	Floor      string `json:"floor"`
	Status     string `json:"status"`
}

type RoomUpdatePayload struct {
	RoomNumber *string `json:"roomNumber"`
	RoomTypeID *uint   `json:"roomTypeId"`
	Floor      *string `json:"floor"`
	Status     *string `json:"status"`
}

type RoomController struct {
	Rooms  *services.RoomService
	Logger *zap.Logger
}

func NewRoomController(svc *services.RoomService, logger *zap.Logger) *RoomController {
	return &RoomController{Rooms: svc, Logger: logger}
}

// ----------------------------------------------------
// GET /api/rooms?roomTypeId=
// ----------------------------------------------------
func (rc *RoomController) GetRooms(c *gin.Context) {
	roomTypeID, ok := queryID(c, "roomTypeId")
	if !ok {
		return
	}
	rooms, err := rc.Rooms.GetAll(c.Request.Context(), roomTypeID)
	if err != nil {
		respondError(c, rc.Logger, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rooms)
}

// GET /api/rooms/:id
func (rc *RoomController) GetRoom(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	room, err := rc.Rooms.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, rc.Logger, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, room)
}

// ----------------------------------------------------
// POST /api/rooms
// ----------------------------------------------------
func (rc *RoomController) CreateRoom(c *gin.Context) {
	var payload RoomPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		invalidPayload(c, err)
		return
	}
	room := models.Room{
		RoomNumber: payload.RoomNumber,
		RoomTypeID: payload.RoomTypeID,
		Floor:      strings.TrimSpace(payload.Floor),
		Status:     strings.ToUpper(strings.TrimSpace(payload.Status)),
	}
	if err := rc.Rooms.Create(c.Request.Context(), &room); err != nil {
		if isDuplicateError(err) {
			utils.JSONError(c, http.StatusConflict, "error.duplicateRoomNumber",
				"Room number already exists", room.RoomNumber)
			return
		}
		respondError(c, rc.Logger, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, room)
}

// ----------------------------------------------------
// PUT /api/rooms/:id
// ----------------------------------------------------
func (rc *RoomController) UpdateRoom(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var payload RoomUpdatePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		invalidPayload(c, err)
		return
	}
	if payload.Status != nil {
		s := strings.ToUpper(strings.TrimSpace(*payload.Status))
		payload.Status = &s
	}
	room, err := rc.Rooms.Update(c.Request.Context(), id, services.RoomUpdate{
		RoomNumber: payload.RoomNumber,
		RoomTypeID: payload.RoomTypeID,
		Floor:      payload.Floor,
		Status:     payload.Status,
	})
	if err != nil {
		if isDuplicateError(err) {
			utils.JSONError(c, http.StatusConflict, "error.duplicateRoomNumber", "Room number already exists", nil)
			return
		}
		respondError(c, rc.Logger, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, room)
}

// ----------------------------------------------------
// DELETE /api/rooms/:id
// ----------------------------------------------------
func (rc *RoomController) DeleteRoom(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := rc.Rooms.Delete(c.Request.Context(), id); err != nil {
		respondError(c, rc.Logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "room deleted"})
}
