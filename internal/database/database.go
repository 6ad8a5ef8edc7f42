package database

import (
	"log"
	"os"

	"bdsev/config"
	"bdsev/internal/domain"
	"bdsev/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Error),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	return db, nil
}

// AutoMigrate runs Gorm auto-migration for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.MemberProfile{},
		&models.Event{},
		&models.EventMember{},
		&models.EventCoupon{},
		&models.EventCouponUsage{},
		&models.AuditLog{},
	)
}

// SeedAdmin creates the initial admin account when none exists. Password
// comes from ADMIN_PASSWORD; without it no account is created.
func SeedAdmin(db *gorm.DB) {
	var n int64
	if err := db.Model(&models.User{}).Where("role = ?", domain.RoleAdmin).Count(&n).Error; err != nil || n > 0 {
		return
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		log.Printf("[seed] no admin account and ADMIN_PASSWORD unset; skipping admin seed")
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("[seed] admin password hash failed: %v", err)
		return
	}
	admin := &models.User{
		FullName:       "Administrator",
		Email:          "admin@bds.org.bh",
		PasswordHash:   string(hash),
		Role:           domain.RoleAdmin,
		MembershipType: domain.MembershipPaid,
	}
	if err := db.Create(admin).Error; err != nil {
		log.Printf("[seed] admin create failed: %v", err)
		return
	}
	log.Printf("[seed] admin account created: %s", admin.Email)
}
