package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/MoisesNEY/hotel-management-system-sub000/models"
	"github.com/MoisesNEY/hotel-management-system-sub000/services"
	"github.com/MoisesNEY/hotel-management-system-sub000/utils"
)

type RoomTypePayload struct {
	Name         string           `json:"name" binding:"required"`
	Description  string           `json:"description"`
	BasePrice    *decimal.Decimal `json:"basePrice"`
	MaxOccupancy int              `json:"maxOccupancy" binding:"required"`
}

type RoomTypeUpdatePayload struct {
	Name         *string          `json:"name"`
	Description  *string          `json:"description"`
	BasePrice    *decimal.Decimal `json:"basePrice"`
	MaxOccupancy *int             `json:"maxOccupancy"`
}

type RoomTypeController struct {
	RoomTypes *services.RoomTypeService
	Logger    *zap.Logger
}

func NewRoomTypeController(svc *services.RoomTypeService, logger *zap.Logger) *RoomTypeController {
	return &RoomTypeController{RoomTypes: svc, Logger: logger}
}

// GET /api/room-types
func (rc *RoomTypeController) GetRoomTypes(c *gin.Context) {
	list, err := rc.RoomTypes.GetAll(c.Request.Context())
	if err != nil {
		respondError(c, rc.Logger, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, list)
}

// GET /api/room-types/:id
func (rc *RoomTypeController) GetRoomType(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	rt, err := rc.RoomTypes.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, rc.Logger, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rt)
}

// POST /api/room-types
func (rc *RoomTypeController) CreateRoomType(c *gin.Context) {
	var payload RoomTypePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		invalidPayload(c, err)
		return
	}
	rt := models.RoomType{
		Name:         payload.Name,
		Description:  payload.Description,
		MaxOccupancy: payload.MaxOccupancy,
	}
	if payload.BasePrice != nil {
		rt.BasePrice = decimal.NewNullDecimal(*payload.BasePrice)
	}
	if err := rc.RoomTypes.Create(c.Request.Context(), &rt); err != nil {
		respondError(c, rc.Logger, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, rt)
}

// PUT /api/room-types/:id
func (rc *RoomTypeController) UpdateRoomType(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var payload RoomTypeUpdatePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		invalidPayload(c, err)
		return
	}
	rt, err := rc.RoomTypes.Update(c.Request.Context(), id, services.RoomTypeUpdate{
		Name:         payload.Name,
		Description:  payload.Description,
		BasePrice:    payload.BasePrice,
		MaxOccupancy: payload.MaxOccupancy,
	})
	if err != nil {
		respondError(c, rc.Logger, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rt)
}

// DELETE /api/room-types/:id
func (rc *RoomTypeController) DeleteRoomType(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := rc.RoomTypes.Delete(c.Request.Context(), id); err != nil {
		respondError(c, rc.Logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "room type deleted"})
}
