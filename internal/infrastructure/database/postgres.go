package database

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/retailops/backoffice-api/internal/config"
	"github.com/retailops/backoffice-api/internal/domain/entity"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewPostgresDB creates a new PostgreSQL database connection.
// TranslateError is enabled so unique-index violations surface as
// gorm.ErrDuplicatedKey and can be mapped to conflict errors.
func NewPostgresDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Info().Str("host", cfg.Host).Str("database", cfg.Name).Msg("Connected to PostgreSQL")
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	log.Info().Msg("Running database migrations")

	err := db.AutoMigrate(
		// Tenancy and access
		&entity.Company{},
		&entity.User{},

		// Catalog and CRM
		&entity.Product{},
		&entity.Customer{},
		&entity.PaymentMethod{},

		// Financial documents
		&entity.POSTransaction{},
		&entity.POSTransactionItem{},
		&entity.POSPayment{},
		&entity.Invoice{},
		&entity.InvoiceItem{},

		// System entities
		&entity.IdempotencyKey{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info().Msg("Database migrations completed")
	return nil
}

// SeedDefaultData creates a default company, admin user and payment methods
// when ADMIN_EMAIL/ADMIN_PASSWORD are configured. Safe to run repeatedly.
func SeedDefaultData(db *gorm.DB) error {
	adminEmail := viper.GetString("ADMIN_EMAIL")
	adminPassword := viper.GetString("ADMIN_PASSWORD")
	companyName := viper.GetString("DEFAULT_COMPANY_NAME")

	if adminEmail == "" || adminPassword == "" {
		return nil
	}
	if companyName == "" {
		companyName = "Default Store"
	}

	var company entity.Company
	if err := db.Where("slug = ?", "default").First(&company).Error; err != nil {
		company = entity.Company{
			ID:   uuid.New(),
			Name: companyName,
			Slug: "default",
		}
		if err := db.Create(&company).Error; err != nil {
			return fmt.Errorf("failed to create default company: %w", err)
		}
	}

	var existing entity.User
	if err := db.Where("email = ?", adminEmail).First(&existing).Error; err != nil {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash admin password: %w", err)
		}
		admin := entity.User{
			ID:        uuid.New(),
			CompanyID: company.ID,
			FirstName: "Admin",
			Email:     adminEmail,
			Password:  string(hashedPassword),
			Role:      entity.RoleAdmin,
		}
		if err := db.Create(&admin).Error; err != nil {
			return fmt.Errorf("failed to create admin user: %w", err)
		}
		log.Info().Str("email", adminEmail).Msg("Admin user created")
	}

	for _, name := range []string{"Cash", "Card", "Mobile Money"} {
		var method entity.PaymentMethod
		if err := db.Where("company_id = ? AND name = ?", company.ID, name).First(&method).Error; err != nil {
			method = entity.PaymentMethod{
				CompanyID: company.ID,
				Name:      name,
				Active:    true,
			}
			if err := db.Create(&method).Error; err != nil {
				log.Warn().Err(err).Str("method", name).Msg("Failed to seed payment method")
			}
		}
	}

	return nil
}
