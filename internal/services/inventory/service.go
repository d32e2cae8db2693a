package inventory

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service owns the write paths for devices, transfers, hostname
// assignments and stock intake. All multi-row writes run inside a
// single transaction.
type Service struct {
	db       *gorm.DB
	mediaDir string

	// Overridable in tests
	newToken func() string
	now      func() time.Time
}

// NewService creates an inventory service writing barcode images under mediaDir
func NewService(db *gorm.DB, mediaDir string) *Service {
	return &Service{
		db:       db,
		mediaDir: mediaDir,
		newToken: uuid.NewString,
		now:      time.Now,
	}
}
