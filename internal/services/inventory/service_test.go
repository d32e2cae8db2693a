package inventory

import (
	"path/filepath"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xelth-com/eckassetgo/internal/models"
)

// newTestService opens a throwaway sqlite database and an inventory
// service writing barcode images into a temp dir.
func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	dir := t.TempDir()
	db, err := gorm.Open(sqlite.Open(filepath.Join(dir, "test.db")), &gorm.Config{
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
		&models.StockInvoice{},
		&models.StockReceiveItem{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test schema: %v", err)
	}

	return NewService(db, dir), db
}

// tokenSequence returns a newToken func handing out the given values
// in order, then failing the test if it runs dry.
func tokenSequence(t *testing.T, values ...string) func() string {
	t.Helper()
	i := 0
	return func() string {
		if i >= len(values) {
			t.Fatalf("token sequence exhausted after %d values", len(values))
		}
		v := values[i]
		i++
		return v
	}
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username: username,
		Password: "hashed",
		Email:    username + "@example.com",
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create test user %s: %v", username, err)
	}
	return user
}
