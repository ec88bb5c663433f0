package controllers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/MoisesNEY/hotel-management-system-sub000/services"
)

func setupRoomTypeController(t *testing.T) (*RoomTypeController, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gdb, err := gorm.Open(mysql.New(mysql.Config{Conn: db, SkipInitializeWithVersion: true}),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	return NewRoomTypeController(services.NewRoomTypeService(gdb), zap.NewNop()), mock
}

func TestRoomTypeController_GetRoomTypes(t *testing.T) {
	rc, mock := setupRoomTypeController(t)
	mock.ExpectQuery("SELECT \\* FROM `room_types` WHERE `room_types`.`deleted_at` IS NULL ORDER BY id").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "base_price", "max_occupancy"}).
			AddRow(1, "Standard", "60.00", 2).
			AddRow(2, "Suite", nil, 4))

	w := serve(t, http.MethodGet, "/api/room-types", "/api/room-types", "", rc.GetRoomTypes)

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Status string `json:"status"`
		Data   []struct {
			ID        uint             `json:"id"`
			Name      string           `json:"name"`
			BasePrice *decimal.Decimal `json:"basePrice"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "success", body.Status)
	require.Len(t, body.Data, 2)
	assert.Equal(t, "Standard", body.Data[0].Name)
	require.NotNil(t, body.Data[0].BasePrice)
	assert.Equal(t, "60.00", body.Data[0].BasePrice.StringFixed(2))
	assert.Nil(t, body.Data[1].BasePrice)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomTypeController_GetRoomType_NotFound(t *testing.T) {
	rc, mock := setupRoomTypeController(t)
	mock.ExpectQuery("SELECT \\* FROM `room_types` WHERE `room_types`.`id` = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	w := serve(t, http.MethodGet, "/api/room-types/:id", "/api/room-types/9", "", rc.GetRoomType)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "error.roomTypeNotFound", decodeError(t, w).Error.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomTypeController_CreateRoomType_Validation(t *testing.T) {
	rc, mock := setupRoomTypeController(t)

	w := serve(t, http.MethodPost, "/api/room-types", "/api/room-types",
		`{"name":"Loft","maxOccupancy":2,"basePrice":"-5"}`, rc.CreateRoomType)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "error.businessRuleViolation", decodeError(t, w).Error.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}
