package reports

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// UpdatedWindow names a device list filter on the updated_at column
type UpdatedWindow string

const (
	WindowHourly    UpdatedWindow = "hourly"
	WindowToday     UpdatedWindow = "today"
	WindowPast7Days UpdatedWindow = "past_7_days"
	WindowThisMonth UpdatedWindow = "this_month"
	WindowThisYear  UpdatedWindow = "this_year"
)

// UpdatedWithin returns a query scope restricting devices to those
// updated inside the named window. Read-only predicate, no side
// effects.
func UpdatedWithin(window UpdatedWindow, now time.Time) (func(*gorm.DB) *gorm.DB, error) {
	var since time.Time
	switch window {
	case WindowHourly:
		since = now.Add(-time.Hour)
	case WindowToday:
		since = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	case WindowPast7Days:
		since = now.AddDate(0, 0, -7)
	case WindowThisMonth:
		since = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	case WindowThisYear:
		since = time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
	default:
		return nil, fmt.Errorf("unknown update window %q", window)
	}
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("updated_at >= ?", since)
	}, nil
}

// TransferredWithinDays restricts devices to those with at least one
// transfer inside the last n days.
func TransferredWithinDays(n int, now time.Time) func(*gorm.DB) *gorm.DB {
	since := now.AddDate(0, 0, -n)
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(
			"id IN (?)",
			db.Session(&gorm.Session{NewDB: true}).
				Table("transfer_logs").
				Select("device_id").
				Where("transferred_at >= ?", since),
		)
	}
}

// AssignedBetween restricts hostname assignments to an assigned-date
// range; either bound may be nil.
func AssignedBetween(from, to *time.Time) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if from != nil {
			db = db.Where("assigned_date >= ?", *from)
		}
		if to != nil {
			db = db.Where("assigned_date <= ?", *to)
		}
		return db
	}
}
