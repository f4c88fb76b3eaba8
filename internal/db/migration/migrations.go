// Package migration holds the gormigrate migration chain for the
// knownDevices/globs persistence surface.
package migration

import (
	"github.com/evdc-project/enocean-vdc/internal/db/models"
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

// Migrate runs every pending migration against db, creating the schema on
// a fresh database.
func Migrate(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		{
			ID: "202601010000_known_devices_and_globs",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.KnownDevice{}, &models.Glob{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable(&models.KnownDevice{}, &models.Glob{})
			},
		},
	})
	return m.Migrate()
}
