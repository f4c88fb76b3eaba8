package db_test

import (
	"path/filepath"
	"testing"

	"github.com/evdc-project/enocean-vdc/internal/config"
	"github.com/evdc-project/enocean-vdc/internal/db"
	"github.com/evdc-project/enocean-vdc/internal/db/models"
)

func openTestDB(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{Persistence: config.Persistence{Path: filepath.Join(t.TempDir(), "test.db")}}
}

func TestOpenRunsMigrations(t *testing.T) {
	t.Parallel()
	cfg := openTestDB(t)
	gdb, err := db.Open(cfg)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if !gdb.Migrator().HasTable(&models.KnownDevice{}) {
		t.Fatalf("expected known_devices table to exist after migration")
	}
	if !gdb.Migrator().HasTable(&models.Glob{}) {
		t.Fatalf("expected globs table to exist after migration")
	}
}

func TestSaveLoadDeleteKnownDevice(t *testing.T) {
	t.Parallel()
	cfg := openTestDB(t)
	gdb, err := db.Open(cfg)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	row := models.KnownDevice{EnoceanAddress: 0x01020304, SubDevice: 0, EEProfile: 0xA5020100, EEManufacturer: 0x00D}
	if err := db.SaveKnownDevice(gdb, row); err != nil {
		t.Fatalf("SaveKnownDevice() error = %v", err)
	}

	rows, err := db.LoadKnownDevices(gdb)
	if err != nil {
		t.Fatalf("LoadKnownDevices() error = %v", err)
	}
	if len(rows) != 1 || rows[0].EnoceanAddress != row.EnoceanAddress {
		t.Fatalf("expected 1 row matching %+v, got %+v", row, rows)
	}

	if err := db.DeleteKnownDevice(gdb, row.EnoceanAddress, row.SubDevice); err != nil {
		t.Fatalf("DeleteKnownDevice() error = %v", err)
	}
	rows, err = db.LoadKnownDevices(gdb)
	if err != nil {
		t.Fatalf("LoadKnownDevices() error = %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected 0 rows after delete, got %d", len(rows))
	}
}
