package database

import (
	"fmt"
	"log"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/attendance/internal/entities"
)

type Database struct {
	DB *gorm.DB
}

// NewDatabase opens the database named by DATABASE_URL and migrates the
// schema. URLs may carry a sqlite:// prefix (as Render's env groups tend
// to); anything after the prefix is treated as a file path or DSN.
func NewDatabase(databaseURL string) (*Database, error) {
	dsn := ParseDSN(databaseURL)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	err = db.AutoMigrate(
		&entities.User{},
		&entities.Course{},
		&entities.Attendance{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Printf("Database initialized at %s", dsn)

	return &Database{DB: db}, nil
}

// ParseDSN strips an optional sqlite:// or file:// scheme from a
// DATABASE_URL value, leaving a DSN the sqlite driver accepts.
func ParseDSN(databaseURL string) string {
	for _, prefix := range []string{"sqlite://", "sqlite3://", "file://"} {
		if strings.HasPrefix(databaseURL, prefix) {
			return strings.TrimPrefix(databaseURL, prefix)
		}
	}
	return databaseURL
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
