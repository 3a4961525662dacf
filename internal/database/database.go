package database

import (
	"fmt"

	"github.com/whanarchyven/drsarha-conf/internal/config"
	"github.com/whanarchyven/drsarha-conf/internal/models"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Connect(cfg *config.Config, log *zap.Logger) *gorm.DB {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	log.Info("database connected")
	return db
}

func AutoMigrate(db *gorm.DB, log *zap.Logger) {
	err := db.AutoMigrate(
		&models.User{},
		&models.Quiz{},
		&models.Question{},
		&models.Option{},
		&models.Session{},
		&models.ScheduledAdvance{},
		&models.Answer{},
		&models.Score{},
		&models.ChatTicket{},
		&models.ChatHistoryEntry{},
		&models.ChatSource{},
		&models.ChatPhrase{},
		&models.ChatSettings{},
		&models.ChatAnnouncement{},
	)
	if err != nil {
		log.Fatal("failed to auto-migrate", zap.Error(err))
	}
	log.Info("database migrated")
}
