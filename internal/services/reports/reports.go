package reports

import (
	"time"

	"gorm.io/gorm"
)

// Generator produces CSV, PDF and Excel exports from the ledgers
type Generator struct {
	db *gorm.DB

	// Overridable in tests
	now func() time.Time
}

// NewGenerator creates a report generator reading from db
func NewGenerator(db *gorm.DB) *Generator {
	return &Generator{db: db, now: time.Now}
}
