package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/MoisesNEY/hotel-management-system-sub000/models"
)

func mysqlDSNFromURL(raw string) (string, string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", err
	}

	user := u.User.Username()
	pass, _ := u.User.Password()
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "3306"
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", "", fmt.Errorf("mysql url missing database name")
	}

	q := u.Query()
	if q.Get("charset") == "" {
		q.Set("charset", "utf8mb4")
	}
	if q.Get("parseTime") == "" {
		q.Set("parseTime", "True")
	}
	if q.Get("loc") == "" {
		q.Set("loc", "UTC")
	}

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", user, pass, host, port, dbName, q.Encode())
	return dsn, dbName, nil
}

// resolveDatabase picks the driver from DB_DRIVER and the DSN from
// MYSQL_URL / DATABASE_URL, falling back to DB_* parts.
func resolveDatabase(env func(key, def string) string) (DatabaseConfig, error) {
	driver := strings.ToLower(env("DB_DRIVER", "mysql"))

	switch driver {
	case "mysql":
		raw := env("MYSQL_URL", env("DATABASE_URL", ""))
		if raw != "" {
			if strings.HasPrefix(raw, "mysql://") {
				dsn, name, err := mysqlDSNFromURL(raw)
				if err != nil {
					return DatabaseConfig{}, fmt.Errorf("MYSQL_URL: %w", err)
				}
				return DatabaseConfig{Driver: driver, DSN: dsn, Name: name}, nil
			}
			return DatabaseConfig{Driver: driver, DSN: raw, Name: env("DB_NAME", "")}, nil
		}
		name := env("DB_NAME", "hotel_db")
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			env("DB_USER", "root"), env("DB_PASS", ""), env("DB_HOST", "127.0.0.1"), env("DB_PORT", "3306"), name)
		return DatabaseConfig{Driver: driver, DSN: dsn, Name: name}, nil

	case "postgres":
		if raw := env("DATABASE_URL", ""); raw != "" {
			return DatabaseConfig{Driver: driver, DSN: raw, Name: env("DB_NAME", "")}, nil
		}
		name := env("DB_NAME", "hotel_db")
		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
			env("DB_HOST", "127.0.0.1"), env("DB_PORT", "5432"), env("DB_USER", "postgres"),
			env("DB_PASS", ""), name, env("DB_SSLMODE", "disable"))
		return DatabaseConfig{Driver: driver, DSN: dsn, Name: name}, nil
	}
	return DatabaseConfig{}, fmt.Errorf("DB_DRIVER: unsupported driver %q", driver)
}

func dialector(cfg DatabaseConfig) gorm.Dialector {
	if cfg.Driver == "postgres" {
		return postgres.Open(cfg.DSN)
	}
	return mysql.Open(cfg.DSN)
}

// ConnectDatabase opens the database, migrates the schema and seeds catalog data.
func ConnectDatabase(cfg DatabaseConfig, zl *zap.Logger) (*gorm.DB, error) {
	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(dialector(cfg), &gorm.Config{Logger: gormLogger})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("raw sql handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err := Migrate(db); err != nil {
		return nil, err
	}
	if err := SeedDatabase(db, zl); err != nil {
		return nil, err
	}
	zl.Info("database ready", zap.String("driver", cfg.Driver), zap.String("database", cfg.Name))
	return db, nil
}

// Migrate runs AutoMigrate in parent->child order.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.RoomType{},
		&models.Customer{},
		&models.HotelService{},
		&models.Room{},
		&models.Booking{},
		&models.BookingItem{},
		&models.ServiceRequest{},
		&models.Invoice{},
		&models.InvoiceItem{},
		&models.NotificationLog{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

func price(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

// SeedDatabase fills the room type and hotel service catalogs when they are empty.
func SeedDatabase(db *gorm.DB, zl *zap.Logger) error {
	var rtCount int64
	if err := db.Model(&models.RoomType{}).Count(&rtCount).Error; err != nil {
		return fmt.Errorf("count room types: %w", err)
	}
	if rtCount == 0 {
		roomTypes := []models.RoomType{
			{Name: "Standard", Description: "Standard Room", BasePrice: price("60.00"), MaxOccupancy: 2},
			{Name: "Superior", Description: "Superior Room", BasePrice: price("80.00"), MaxOccupancy: 3},
			{Name: "Deluxe", Description: "Deluxe Room", BasePrice: price("100.00"), MaxOccupancy: 4},
			{Name: "Connecting", Description: "Connecting Room", BasePrice: price("150.00"), MaxOccupancy: 5},
		}
		if err := db.Create(&roomTypes).Error; err != nil {
			return fmt.Errorf("seed room types: %w", err)
		}
		zl.Info("room types seeded", zap.Int("count", len(roomTypes)))
	}

	var svcCount int64
	if err := db.Model(&models.HotelService{}).Count(&svcCount).Error; err != nil {
		return fmt.Errorf("count hotel services: %w", err)
	}
	if svcCount == 0 {
		services := []models.HotelService{
			{Name: "Breakfast", Description: "Buffet breakfast per person", Price: decimal.RequireFromString("12.00"), IsActive: true},
			{Name: "Laundry", Description: "Laundry bag, same day", Price: decimal.RequireFromString("8.50"), IsActive: true},
			{Name: "Airport Transfer", Description: "One-way airport transfer", Price: decimal.RequireFromString("35.00"), IsActive: true},
			{Name: "Late Checkout", Description: "Checkout until 16:00", Price: decimal.RequireFromString("20.00"), IsActive: true},
		}
		if err := db.Create(&services).Error; err != nil {
			return fmt.Errorf("seed hotel services: %w", err)
		}
		zl.Info("hotel services seeded", zap.Int("count", len(services)))
	}
	return nil
}
