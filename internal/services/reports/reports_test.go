package reports

import (
	"path/filepath"
	"testing"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xelth-com/eckassetgo/internal/models"
)

func newTestGenerator(t *testing.T) (*Generator, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.Device{},
		&models.TransferLog{},
		&models.HostnameAssignment{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test schema: %v", err)
	}
	return NewGenerator(db), db
}

func seedUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username: username,
		Password: "hashed",
		Email:    username + "@example.com",
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create user %s: %v", username, err)
	}
	return user
}

func seedDevice(t *testing.T, db *gorm.DB, hostname, serial, uniqueID string) *models.Device {
	t.Helper()
	device := &models.Device{
		Category: models.CategoryDesktop,
		UniqueID: uniqueID,
		Token:    "token-" + uniqueID,
	}
	if hostname != "" {
		device.Hostname = &hostname
	}
	if serial != "" {
		device.SerialNumber = &serial
	}
	if err := db.Create(device).Error; err != nil {
		t.Fatalf("Failed to create device %s: %v", hostname, err)
	}
	return device
}

func seedAssignment(t *testing.T, db *gorm.DB, hostname string, userID uint, assigned time.Time) *models.HostnameAssignment {
	t.Helper()
	a := &models.HostnameAssignment{
		Hostname:     hostname,
		UserID:       userID,
		AssignedDate: datatypes.Date(assigned),
		Status:       models.StatusAssigned,
	}
	if err := db.Create(a).Error; err != nil {
		t.Fatalf("Failed to create assignment %s: %v", hostname, err)
	}
	return a
}
