package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	mysql "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/MoisesNEY/hotel-management-system-sub000/services"
	"github.com/MoisesNEY/hotel-management-system-sub000/utils"
)

func isDuplicateError(err error) bool {
	var me *mysql.MySQLError
	if errors.As(err, &me) && me.Number == 1062 {
		return true
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

func isForeignKeyError(err error) bool {
	var me *mysql.MySQLError
	if errors.As(err, &me) && me.Number == 1452 {
		return true
	}
	return errors.Is(err, gorm.ErrForeignKeyViolated)
}

// respondError maps service errors to the {"error":{code,message,details}} envelope.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	var (
		availErr *services.AvailabilityError
		capErr   *services.CapacityError
	)
	switch {
	case errors.As(err, &availErr):
		utils.JSONError(c, http.StatusConflict, "error.insufficientAvailability", err.Error(), gin.H{
			"roomType":  availErr.RoomTypeName,
			"requested": availErr.Requested,
			"available": availErr.Available,
		})
	case errors.As(err, &capErr):
		utils.JSONError(c, http.StatusUnprocessableEntity, "error.capacityExceeded", err.Error(), gin.H{
			"guestCount":  capErr.GuestCount,
			"maxCapacity": capErr.MaxCapacity,
		})
	case errors.Is(err, services.ErrInvalidDateRange):
		utils.JSONError(c, http.StatusBadRequest, "error.invalidDateRange", err.Error(), nil)
	case errors.Is(err, services.ErrMissingBaseRate):
		utils.JSONError(c, http.StatusUnprocessableEntity, "error.missingBaseRate", err.Error(), nil)
	case errors.Is(err, services.ErrBusinessRuleViolation):
		utils.JSONError(c, http.StatusUnprocessableEntity, "error.businessRuleViolation", err.Error(), nil)
	case errors.Is(err, services.ErrRoomTypeNotFound):
		utils.JSONError(c, http.StatusNotFound, "error.roomTypeNotFound", err.Error(), nil)
	case errors.Is(err, services.ErrBookingNotFound):
		utils.JSONError(c, http.StatusNotFound, "error.bookingNotFound", err.Error(), nil)
	case errors.Is(err, services.ErrInvoiceNotFound):
		utils.JSONError(c, http.StatusNotFound, "error.invoiceNotFound", err.Error(), nil)
	case errors.Is(err, services.ErrNotFound):
		utils.JSONError(c, http.StatusNotFound, "error.notFound", err.Error(), nil)
	case errors.Is(err, services.ErrLockTimeout):
		utils.JSONError(c, http.StatusServiceUnavailable, "error.busy", "the room type is busy, please retry", nil)
	case isDuplicateError(err):
		utils.JSONError(c, http.StatusConflict, "error.duplicate", "a record with the same unique value already exists", nil)
	case isForeignKeyError(err):
		utils.JSONError(c, http.StatusBadRequest, "error.invalidReference", "a referenced record does not exist", nil)
	default:
		logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "error.internal", "internal server error", nil)
	}
}

func invalidPayload(c *gin.Context, err error) {
	utils.JSONError(c, http.StatusBadRequest, "error.invalidPayload", "Invalid request payload", err.Error())
}

// paramID parses a positive numeric path parameter, answering 400 otherwise.
func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		utils.JSONError(c, http.StatusBadRequest, "error.invalidId", "invalid "+name, c.Param(name))
		return 0, false
	}
	return uint(id), true
}

func queryID(c *gin.Context, name string) (*uint, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		utils.JSONError(c, http.StatusBadRequest, "error.invalidQuery", "invalid "+name, raw)
		return nil, false
	}
	v := uint(id)
	return &v, true
}
