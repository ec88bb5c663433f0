package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/MoisesNEY/hotel-management-system-sub000/services"
	"github.com/MoisesNEY/hotel-management-system-sub000/utils"
)

type PaymentPayload struct {
	Reference string `json:"reference" binding:"required"`
}

type InvoiceController struct {
	Invoices *services.InvoiceService
	Payments *services.PaymentService
	Logger   *zap.Logger
}

func NewInvoiceController(invoices *services.InvoiceService, payments *services.PaymentService, logger *zap.Logger) *InvoiceController {
	return &InvoiceController{Invoices: invoices, Payments: payments, Logger: logger}
}

// GET /api/invoices/:id
func (ic *InvoiceController) GetInvoice(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	inv, err := ic.Invoices.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, ic.Logger, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, inv)
}

// POST /api/invoices/:id/payment
func (ic *InvoiceController) ConfirmPayment(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var payload PaymentPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		invalidPayload(c, err)
		return
	}
	inv, err := ic.Payments.ConfirmPayment(c.Request.Context(), id, payload.Reference)
	if err != nil {
		respondError(c, ic.Logger, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, inv)
}
