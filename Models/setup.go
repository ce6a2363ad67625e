package Models

import (
	"fmt"
	"log"

	"Crane/Config"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var DB *gorm.DB

// Connect opens the database and runs migrations. Postgres when DB_HOST is
// set, otherwise a local sqlite file.
func Connect() {
	cfg := Config.AppConfig

	var connection *gorm.DB
	var err error
	if cfg.DBHost != "" {
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort)
		connection, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	} else {
		connection, err = gorm.Open(sqlite.Open(cfg.SQLitePath), &gorm.Config{})
	}
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	DB = connection
	if err := Migrate(DB); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
}

// Migrate runs AutoMigrate in dependency order.
func Migrate(db *gorm.DB) error {
	// 1. Models with no foreign keys
	if err := db.AutoMigrate(
		&User{},
		&FCMToken{},
		&Lead{},
		&APIKey{},
	); err != nil {
		return err
	}

	// 2. Models keyed to users or leads
	if err := db.AutoMigrate(
		&Project{},
		&LeadMessage{},
		&LeadFact{},
		&Proposal{},
	); err != nil {
		return err
	}

	// 3. Project children
	return db.AutoMigrate(
		&Task{},
		&ScheduleItem{},
		&Quote{},
		&QuoteLineItem{},
		&Invoice{},
		&InvoiceLineItem{},
		&Payment{},
		&Document{},
		&MediaItem{},
		&DailyLog{},
		&PunchListItem{},
		&Expense{},
	)
}
