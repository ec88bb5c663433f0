package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/MoisesNEY/hotel-management-system-sub000/models"
	"github.com/MoisesNEY/hotel-management-system-sub000/services"
	"github.com/MoisesNEY/hotel-management-system-sub000/utils"
)

type CustomerPayload struct {
	FullName string `json:"fullName" binding:"required"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

type CustomerController struct {
	Customers *services.CustomerService
	Logger    *zap.Logger
}

func NewCustomerController(svc *services.CustomerService, logger *zap.Logger) *CustomerController {
	return &CustomerController{Customers: svc, Logger: logger}
}

// POST /api/customers
func (cc *CustomerController) CreateCustomer(c *gin.Context) {
	var payload CustomerPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		invalidPayload(c, err)
		return
	}
	customer := models.Customer{FullName: payload.FullName, Email: payload.Email, Phone: payload.Phone}
	if err := cc.Customers.Create(c.Request.Context(), &customer); err != nil {
		respondError(c, cc.Logger, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, customer)
}

// GET /api/customers/:id
func (cc *CustomerController) GetCustomer(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	customer, err := cc.Customers.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, cc.Logger, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, customer)
}
