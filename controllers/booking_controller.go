// controllers/booking_controller.go
package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/MoisesNEY/hotel-management-system-sub000/services"
	"github.com/MoisesNEY/hotel-management-system-sub000/utils"
)

// ---------------------------
// Payload / DTOs
// ---------------------------

type BookingItemPayload struct {
	RoomTypeID   uint   `json:"roomTypeId" binding:"required"`
	RoomID       *uint  `json:"roomId"`
	OccupantName string `json:"occupantName"`
}

// BookingPayload accepts either items or the single-room shorthand roomTypeId/roomId.
type BookingPayload struct {
	CustomerID   uint                 `json:"customerId"`
	CheckInDate  string               `json:"checkInDate" binding:"required"`
	CheckOutDate string               `json:"checkOutDate" binding:"required"`
	GuestCount   int                  `json:"guestCount" binding:"required"`
	Status       string               `json:"status"`
	Notes        string               `json:"notes"`
	Items        []BookingItemPayload `json:"items"`
	RoomTypeID   uint                 `json:"roomTypeId"`
	RoomID       *uint                `json:"roomId"`
	TotalPrice   *decimal.Decimal     `json:"totalPrice"`
}

type BookingPatchPayload struct {
	CheckInDate  *string          `json:"checkInDate"`
	CheckOutDate *string          `json:"checkOutDate"`
	GuestCount   *int             `json:"guestCount"`
	Notes        *string          `json:"notes"`
	Status       *string          `json:"status"`
	CustomerID   *uint            `json:"customerId"`
	TotalPrice   *decimal.Decimal `json:"totalPrice"`
}

type StatusPayload struct {
	Status string `json:"status" binding:"required"`
}

type ChargePayload struct {
	Description string          `json:"description" binding:"required"`
	Amount      decimal.Decimal `json:"amount"`
	Date        string          `json:"date"`
}

// ---------------------------
// Controller
// ---------------------------

type BookingController struct {
	Bookings *services.BookingService
	Queries  *services.BookingQueryService
	Invoices *services.InvoiceService
	Logger   *zap.Logger
}

func NewBookingController(bookings *services.BookingService, queries *services.BookingQueryService, invoices *services.InvoiceService, logger *zap.Logger) *BookingController {
	return &BookingController{Bookings: bookings, Queries: queries, Invoices: invoices, Logger: logger}
}

func (p BookingPayload) toRequest() (services.BookingRequest, error) {
	ci, err := utils.ParseDate(p.CheckInDate)
	if err != nil {
		return services.BookingRequest{}, err
	}
	co, err := utils.ParseDate(p.CheckOutDate)
	if err != nil {
		return services.BookingRequest{}, err
	}

	items := make([]services.BookingItemRequest, 0, len(p.Items)+1)
	for _, it := range p.Items {
		items = append(items, services.BookingItemRequest{
			RoomTypeID:   it.RoomTypeID,
			RoomID:       it.RoomID,
			OccupantName: strings.TrimSpace(it.OccupantName),
		})
	}
	if len(items) == 0 && p.RoomTypeID != 0 {
		items = append(items, services.BookingItemRequest{RoomTypeID: p.RoomTypeID, RoomID: p.RoomID})
	}

	return services.BookingRequest{
		CustomerID:   p.CustomerID,
		CheckInDate:  ci,
		CheckOutDate: co,
		GuestCount:   p.GuestCount,
		Status:       strings.ToUpper(strings.TrimSpace(p.Status)),
		Notes:        p.Notes,
		Items:        items,
		TotalPrice:   p.TotalPrice,
	}, nil
}

func (p BookingPatchPayload) toPatch() (services.BookingPatch, error) {
	patch := services.BookingPatch{
		GuestCount: p.GuestCount,
		Notes:      p.Notes,
		CustomerID: p.CustomerID,
		TotalPrice: p.TotalPrice,
	}
	if p.Status != nil {
		s := strings.ToUpper(strings.TrimSpace(*p.Status))
		patch.Status = &s
	}
	if p.CheckInDate != nil {
		t, err := utils.ParseDate(*p.CheckInDate)
		if err != nil {
			return patch, err
		}
		patch.CheckInDate = &t
	}
	if p.CheckOutDate != nil {
		t, err := utils.ParseDate(*p.CheckOutDate)
		if err != nil {
			return patch, err
		}
		patch.CheckOutDate = &t
	}
	return patch, nil
}

// POST /api/bookings
func (bc *BookingController) CreateBooking(c *gin.Context) {
	var payload BookingPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		invalidPayload(c, err)
		return
	}
	if payload.CustomerID == 0 {
		utils.JSONError(c, http.StatusBadRequest, "error.invalidPayload", "customerId is required", nil)
		return
	}
	req, err := payload.toRequest()
	if err != nil {
		invalidPayload(c, err)
		return
	}
	booking, err := bc.Bookings.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, bc.Logger, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, booking)
}

// GET /api/bookings
func (bc *BookingController) GetBookings(c *gin.Context) {
	var f services.BookingFilter
	var ok bool
	if f.CustomerID, ok = queryID(c, "customerId"); !ok {
		return
	}
	if f.RoomTypeID, ok = queryID(c, "roomTypeId"); !ok {
		return
	}
	f.Status = strings.ToUpper(strings.TrimSpace(c.Query("status")))
	f.Code = c.Query("code")
	for name, dst := range map[string]**time.Time{"from": &f.From, "to": &f.To} {
		raw := c.Query(name)
		if raw == "" {
			continue
		}
		t, err := utils.ParseDate(raw)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "error.invalidQuery", err.Error(), name)
			return
		}
		*dst = &t
	}

	list, err := bc.Queries.List(c.Request.Context(), f)
	if err != nil {
		respondError(c, bc.Logger, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, list)
}

// GET /api/bookings/:id
func (bc *BookingController) GetBooking(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	booking, err := bc.Bookings.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, bc.Logger, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, booking)
}

// PUT /api/bookings/:id
func (bc *BookingController) UpdateBooking(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var payload BookingPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		invalidPayload(c, err)
		return
	}
	req, err := payload.toRequest()
	if err != nil {
		invalidPayload(c, err)
		return
	}
	booking, err := bc.Bookings.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, bc.Logger, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, booking)
}

// PATCH /api/bookings/:id
func (bc *BookingController) PatchBooking(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var payload BookingPatchPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		invalidPayload(c, err)
		return
	}
	patch, err := payload.toPatch()
	if err != nil {
		invalidPayload(c, err)
		return
	}
	booking, err := bc.Bookings.PartialUpdate(c.Request.Context(), id, patch)
	if err != nil {
		respondError(c, bc.Logger, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, booking)
}

// PATCH /api/bookings/:id/status
func (bc *BookingController) ChangeStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var payload StatusPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		invalidPayload(c, err)
		return
	}
	booking, err := bc.Bookings.ChangeStatus(c.Request.Context(), id, strings.ToUpper(strings.TrimSpace(payload.Status)))
	if err != nil {
		respondError(c, bc.Logger, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, booking)
}

// DELETE /api/bookings/:id
func (bc *BookingController) DeleteBooking(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := bc.Bookings.Delete(c.Request.Context(), id); err != nil {
		respondError(c, bc.Logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "booking deleted"})
}

// GET /api/bookings/:id/invoices
func (bc *BookingController) GetInvoices(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	list, err := bc.Invoices.ListForBooking(c.Request.Context(), id)
	if err != nil {
		respondError(c, bc.Logger, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, list)
}

// POST /api/bookings/:id/charges
func (bc *BookingController) AddCharge(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var payload ChargePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		invalidPayload(c, err)
		return
	}
	charge := services.ChargeRequest{
		Description: payload.Description,
		Amount:      payload.Amount,
	}
	if payload.Date != "" {
		t, err := utils.ParseDate(payload.Date)
		if err != nil {
			invalidPayload(c, err)
			return
		}
		charge.Date = t
	}
	inv, err := bc.Invoices.AddCharge(c.Request.Context(), id, charge)
	if err != nil {
		respondError(c, bc.Logger, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, inv)
}
