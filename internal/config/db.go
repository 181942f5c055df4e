package config

import (
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/jmehta/storefront/internal/models"
)

// InitDB opens Postgres when DATABASE_URL is set and otherwise falls back to
// an embedded SQLite database, so the server stays usable without any
// external infrastructure.
func InitDB(cfg *Config) (*gorm.DB, error) {
	var dial gorm.Dialector
	if cfg.DatabaseURL != "" {
		dial = postgres.Open(cfg.DatabaseURL)
	} else {
		dial = sqlite.Open(EnvDefault("SQLITE_PATH", "storefront.db"))
	}

	db, err := gorm.Open(dial, &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.AutoMigrate(&models.Account{}, &models.Product{}); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}
	return db, nil
}
