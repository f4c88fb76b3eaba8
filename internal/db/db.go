// Package db holds the persistence surface: the knownDevices table that
// lets the core rehydrate its learned device set at startup without
// relying on teach-in traffic happening again, and the globs table that
// tracks schema version across migrations.
package db

import (
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/evdc-project/enocean-vdc/internal/config"
	"github.com/evdc-project/enocean-vdc/internal/db/migration"
	"github.com/evdc-project/enocean-vdc/internal/db/models"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// Open opens (creating if necessary) the sqlite database at
// cfg.Persistence.Path and runs any pending gormigrate migrations.
func Open(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(cfg.Persistence.Path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := migration.Migrate(db); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("unwrap sql.DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(runtime.GOMAXPROCS(0))
	const connsPerCPU = 10
	sqlDB.SetMaxOpenConns(runtime.GOMAXPROCS(0) * connsPerCPU)
	const maxIdleTime = 10 * time.Minute
	sqlDB.SetConnMaxIdleTime(maxIdleTime)

	return db, nil
}

// LoadKnownDevices returns every persisted device address/profile row, used
// at startup to rehydrate the device registry without waiting for another
// teach-in.
func LoadKnownDevices(db *gorm.DB) ([]models.KnownDevice, error) {
	var rows []models.KnownDevice
	if err := db.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load known devices: %w", err)
	}
	return rows, nil
}

// SaveKnownDevice upserts one learned device's addressing info, called once
// per successful learn-in.
func SaveKnownDevice(db *gorm.DB, row models.KnownDevice) error {
	if err := db.Save(&row).Error; err != nil {
		return fmt.Errorf("save known device: %w", err)
	}
	return nil
}

// DeleteKnownDevice removes a previously learned device's persisted row,
// called when a learned-out event clears a device from the registry.
func DeleteKnownDevice(db *gorm.DB, enoceanAddress uint32, subDevice uint8) error {
	err := db.Delete(&models.KnownDevice{}, "enocean_address = ? AND subdevice = ?", enoceanAddress, subDevice).Error
	if err != nil {
		return fmt.Errorf("delete known device: %w", err)
	}
	return nil
}

// LogOpenResult logs how many devices were rehydrated at startup.
func LogOpenResult(log *slog.Logger, rows []models.KnownDevice) {
	log.Info("rehydrated known devices from persistence", slog.Int("count", len(rows)))
}
