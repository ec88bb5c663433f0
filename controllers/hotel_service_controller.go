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

type HotelServicePayload struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	IsActive    *bool           `json:"isActive"`
}

type ServiceRequestPayload struct {
	BookingID uint             `json:"bookingId" binding:"required"`
	ServiceID uint             `json:"serviceId" binding:"required"`
	Quantity  int              `json:"quantity"`
	TotalCost *decimal.Decimal `json:"totalCost"`
	Details   string           `json:"details"`
}

type HotelServiceController struct {
	Catalog  *services.HotelServiceCatalog
	Requests *services.ServiceRequestService
	Logger   *zap.Logger
}

func NewHotelServiceController(catalog *services.HotelServiceCatalog, requests *services.ServiceRequestService, logger *zap.Logger) *HotelServiceController {
	return &HotelServiceController{Catalog: catalog, Requests: requests, Logger: logger}
}

// GET /api/services?active=true
func (hc *HotelServiceController) GetServices(c *gin.Context) {
	list, err := hc.Catalog.GetAll(c.Request.Context(), c.Query("active") == "true")
	if err != nil {
		respondError(c, hc.Logger, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, list)
}

// POST /api/services
func (hc *HotelServiceController) CreateService(c *gin.Context) {
	var payload HotelServicePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		invalidPayload(c, err)
		return
	}
	svc := models.HotelService{
		Name:        payload.Name,
		Description: payload.Description,
		Price:       payload.Price,
		IsActive:    payload.IsActive == nil || *payload.IsActive,
	}
	if err := hc.Catalog.Create(c.Request.Context(), &svc); err != nil {
		respondError(c, hc.Logger, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, svc)
}

// POST /api/service-requests
func (hc *HotelServiceController) CreateServiceRequest(c *gin.Context) {
	var payload ServiceRequestPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		invalidPayload(c, err)
		return
	}
	req, inv, err := hc.Requests.Create(c.Request.Context(), services.ServiceRequestInput{
		BookingID: payload.BookingID,
		ServiceID: payload.ServiceID,
		Quantity:  payload.Quantity,
		TotalCost: payload.TotalCost,
		Details:   payload.Details,
	})
	if err != nil {
		respondError(c, hc.Logger, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, gin.H{"request": req, "invoice": inv})
}

// GET /api/bookings/:id/service-requests
func (hc *HotelServiceController) GetBookingServiceRequests(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	list, err := hc.Requests.ListForBooking(c.Request.Context(), id)
	if err != nil {
		respondError(c, hc.Logger, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, list)
}

// POST /api/service-requests/:id/complete
func (hc *HotelServiceController) CompleteServiceRequest(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	req, err := hc.Requests.Complete(c.Request.Context(), id)
	if err != nil {
		respondError(c, hc.Logger, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, req)
}

// POST /api/service-requests/:id/cancel
func (hc *HotelServiceController) CancelServiceRequest(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	req, err := hc.Requests.Cancel(c.Request.Context(), id)
	if err != nil {
		respondError(c, hc.Logger, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, req)
}
