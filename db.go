package main

import (
	"os"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"budgsmart/models"
)

var db *gorm.DB

func initDB(cfg Config) error {
	var err error
	db, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		return err
	}
	if cfg.AutoMigrate {
		// Migrate models individually so a failure on one doesn't block others.
		for _, m := range []any{
			&models.User{},
			&models.Transaction{},
			&models.RefreshToken{},
			&models.Receipt{},
		} {
			if err := db.AutoMigrate(m); err != nil {
				appLog.Warn().Err(err).Msgf("migration warning: %T", m)
			}
		}
	}
	seedDB()
	ensureUploadBase(cfg)
	return nil
}

// seedDB creates a demo account in development so the frontend has something
// to log into out of the box.
func seedDB() {
	var count int64
	db.Model(&models.User{}).Where("email = ?", "demo@budgsmart.app").Count(&count)
	if count > 0 {
		return
	}
	hashed, _ := bcrypt.GenerateFromPassword([]byte("demo123"), bcryptCost)
	demo := models.User{
		Email:          "demo@budgsmart.app",
		HashedPassword: hashed,
		FirstName:      "Demo",
		LastName:       "User",
		Balance:        decimal.Zero,
	}
	if err := db.Create(&demo).Error; err != nil {
		appLog.Warn().Err(err).Msg("failed to seed demo user")
		return
	}
	appLog.Info().Str("email", demo.Email).Msg("seeded demo user")
}

func ensureUploadBase(cfg Config) {
	if err := os.MkdirAll(cfg.UploadBase, 0o755); err != nil {
		appLog.Warn().Err(err).Str("dir", cfg.UploadBase).Msg("failed to create upload base dir")
	}
}
