package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/MoisesNEY/hotel-management-system-sub000/controllers"
	"github.com/MoisesNEY/hotel-management-system-sub000/middleware"
)

func parseCorsOrigins(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// Controllers groups the handlers mounted under /api.
type Controllers struct {
	Bookings  *controllers.BookingController
	Invoices  *controllers.InvoiceController
	RoomTypes *controllers.RoomTypeController
	Rooms     *controllers.RoomController
	Customers *controllers.CustomerController
	Services  *controllers.HotelServiceController
}

func SetupRouter(ctl Controllers, logger *zap.Logger, corsOrigins string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Logger(logger))

	origins := parseCorsOrigins(corsOrigins)
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		bookings := api.Group("/bookings")
		{
			bookings.GET("", ctl.Bookings.GetBookings)
			bookings.POST("", ctl.Bookings.CreateBooking)
			bookings.GET("/:id", ctl.Bookings.GetBooking)
			bookings.PUT("/:id", ctl.Bookings.UpdateBooking)
			bookings.PATCH("/:id", ctl.Bookings.PatchBooking)
			bookings.DELETE("/:id", ctl.Bookings.DeleteBooking)
			bookings.PATCH("/:id/status", ctl.Bookings.ChangeStatus)
			bookings.GET("/:id/invoices", ctl.Bookings.GetInvoices)
			bookings.POST("/:id/charges", ctl.Bookings.AddCharge)
			bookings.GET("/:id/service-requests", ctl.Services.GetBookingServiceRequests)
		}

		invoices := api.Group("/invoices")
		{
			invoices.GET("/:id", ctl.Invoices.GetInvoice)
			invoices.POST("/:id/payment", ctl.Invoices.ConfirmPayment)
		}

		roomTypes := api.Group("/room-types")
		{
			roomTypes.GET("", ctl.RoomTypes.GetRoomTypes)
			roomTypes.POST("", ctl.RoomTypes.CreateRoomType)
			roomTypes.GET("/:id", ctl.RoomTypes.GetRoomType)
			roomTypes.PUT("/:id", ctl.RoomTypes.UpdateRoomType)
			roomTypes.DELETE("/:id", ctl.RoomTypes.DeleteRoomType)
		}

		rooms := api.Group("/rooms")
		{
			rooms.GET("", ctl.Rooms.GetRooms)
			rooms.POST("", ctl.Rooms.CreateRoom)
			rooms.GET("/:id", ctl.Rooms.GetRoom)
			rooms.PUT("/:id", ctl.Rooms.UpdateRoom)
			rooms.DELETE("/:id", ctl.Rooms.DeleteRoom)
		}

		customers := api.Group("/customers")
		{
			customers.POST("", ctl.Customers.CreateCustomer)
			customers.GET("/:id", ctl.Customers.GetCustomer)
		}

		hotelServices := api.Group("/services")
		{
			hotelServices.GET("", ctl.Services.GetServices)
			hotelServices.POST("", ctl.Services.CreateService)
		}

		requests := api.Group("/service-requests")
		{
			requests.POST("", ctl.Services.CreateServiceRequest)
			requests.POST("/:id/complete", ctl.Services.CompleteServiceRequest)
			requests.POST("/:id/cancel", ctl.Services.CancelServiceRequest)
		}
	}

	return r
}
