package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/MoisesNEY/hotel-management-system-sub000/config"
	"github.com/MoisesNEY/hotel-management-system-sub000/controllers"
	"github.com/MoisesNEY/hotel-management-system-sub000/routes"
	"github.com/MoisesNEY/hotel-management-system-sub000/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := config.NewLogger(cfg.LogLevel, cfg.LogFormat, cfg.ServiceName)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	db, err := config.ConnectDatabase(cfg.Database, logger)
	if err != nil {
		logger.Fatal("database connect failed", zap.Error(err))
	}

	// Room-type locker: Redis when configured, in-process otherwise
	var locker services.RoomTypeLocker = services.NewLocalLocker(cfg.LockTimeout)
	redisClient, err := config.NewRedisClient(context.Background(), cfg.Redis)
	if err != nil {
		logger.Fatal("redis connect failed", zap.Error(err))
	}
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
		locker = services.NewRedisLocker(redisClient, cfg.LockTimeout)
		logger.Info("using redis room-type locker", zap.String("addr", cfg.Redis.Addr))
	}

	// Notifications
	var sms services.SMSSender
	if cfg.Twilio.Enabled() {
		sms = services.NewTwilioSender(cfg.Twilio.AccountSID, cfg.Twilio.AuthToken, cfg.Twilio.From)
	}
	mailer := &services.SMTPMailer{Config: cfg.SMTP, Logger: logger}
	notifier := services.NewNotificationService(&services.GormNotificationLogStore{DB: db}, mailer, sms, logger, 256)
	notifier.Start()
	retry, err := notifier.StartRetryScheduler(cfg.NotifyRetrySchedule)
	if err != nil {
		logger.Fatal("notification retry scheduler", zap.Error(err))
	}

	// Services
	store := services.NewGormStore(db)
	tax := services.TaxPolicy{InitialRate: cfg.Invoice.TaxRate, ChargeRate: cfg.Invoice.ChargeTaxRate}
	invoiceService := services.NewInvoiceService(store, tax, cfg.Invoice.Currency, logger)
	bookingService := services.NewBookingService(store, locker, invoiceService, notifier, logger)
	paymentService := services.NewPaymentService(store, notifier, logger)
	requestService := services.NewServiceRequestService(store, invoiceService, logger)

	router := routes.SetupRouter(routes.Controllers{
		Bookings:  controllers.NewBookingController(bookingService, services.NewBookingQueryService(db), invoiceService, logger),
		Invoices:  controllers.NewInvoiceController(invoiceService, paymentService, logger),
		RoomTypes: controllers.NewRoomTypeController(services.NewRoomTypeService(db), logger),
		Rooms:     controllers.NewRoomController(services.NewRoomService(db), logger),
		Customers: controllers.NewCustomerController(services.NewCustomerService(db), logger),
		Services:  controllers.NewHotelServiceController(services.NewHotelServiceCatalog(db), requestService, logger),
	}, logger, cfg.CORSOrigins)

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("server starting", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with timeout
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}
	<-retry.Stop().Done()
	if err := notifier.Stop(ctx); err != nil {
		logger.Warn("notification queue not drained", zap.Error(err))
	}

	logger.Info("server stopped")
}
