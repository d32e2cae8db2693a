package inventory

import (
	"crypto/sha256"
	"encoding/base32"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/xelth-com/eckassetgo/internal/models"
)

// SerialNotAvailable is the sentinel returned when no device matches
// an assignment's hostname.
const SerialNotAvailable = "N/A"

// SaveAssignment persists a hostname assignment and then runs the
// explicit device-hostname synchronization step. The sync is a
// separate, independently callable operation rather than a save-time
// trigger.
func (s *Service) SaveAssignment(a *models.HostnameAssignment) error {
	if !a.Status.Valid() {
		return fmt.Errorf("invalid assignment status %q", a.Status)
	}
	if time.Time(a.AssignedDate).IsZero() {
		a.AssignedDate = datatypes.Date(s.now())
	}
	if err := s.db.Save(a).Error; err != nil {
		return err
	}
	return s.SyncDeviceHostname(a)
}

// Unassign revokes an assignment: status flips to Unassigned and the
// unassignment date is stamped, then the device hostname is synced.
func (s *Service) Unassign(assignmentID uint) (*models.HostnameAssignment, error) {
	var a models.HostnameAssignment
	if err := s.db.First(&a, assignmentID).Error; err != nil {
		return nil, err
	}
	a.Status = models.StatusUnassigned
	stamp := datatypes.Date(s.now())
	a.UnassignedDate = &stamp
	if err := s.SaveAssignment(&a); err != nil {
		return nil, err
	}
	return &a, nil
}

// SyncDeviceHostname mirrors an assignment onto the matching device.
// Assigned sets the device hostname (no-op when already equal);
// Unassigned clears it only when no other Assigned row for the same
// hostname remains. A hostname with no matching device is a documented
// no-op, not an error.
func (s *Service) SyncDeviceHostname(a *models.HostnameAssignment) error {
	var device models.Device
	err := s.db.Where("hostname = ?", a.Hostname).First(&device).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	switch a.Status {
	case models.StatusAssigned:
		if device.Hostname != nil && *device.Hostname == a.Hostname {
			return nil
		}
		return s.db.Model(&device).Update("hostname", a.Hostname).Error
	case models.StatusUnassigned:
		var active int64
		err := s.db.Model(&models.HostnameAssignment{}).
			Where("hostname = ? AND status = ? AND id <> ?", a.Hostname, models.StatusAssigned, a.ID).
			Count(&active).Error
		if err != nil {
			return err
		}
		if active == 0 {
			return s.db.Model(&device).Update("hostname", nil).Error
		}
	}
	return nil
}

// CurrentAssignment returns the most recent Assigned row for the
// hostname, or nil when the hostname is not held by anyone.
func (s *Service) CurrentAssignment(hostname string) (*models.HostnameAssignment, error) {
	var a models.HostnameAssignment
	err := s.db.Preload("User").
		Where("hostname = ? AND status = ?", hostname, models.StatusAssigned).
		Order("assigned_date DESC").
		First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// SerialNumberFor resolves a hostname to its device's serial number,
// or the "N/A" sentinel when no device matches.
func (s *Service) SerialNumberFor(hostname string) string {
	var device models.Device
	if err := s.db.Where("hostname = ?", hostname).First(&device).Error; err != nil {
		return SerialNotAvailable
	}
	if device.SerialNumber == nil || *device.SerialNumber == "" {
		return SerialNotAvailable
	}
	return *device.SerialNumber
}

// ShortCode derives an 8-character base32 code from the serial number
// of the device holding the hostname. Returns "" when no device or
// serial exists.
func (s *Service) ShortCode(hostname string) string {
	serial := s.SerialNumberFor(hostname)
	if serial == SerialNotAvailable {
		return ""
	}
	sum := sha256.Sum256([]byte(serial))
	return base32.StdEncoding.EncodeToString(sum[:])[:8]
}

// ListAssignments returns assignments newest first, optionally
// filtered to an assigned-date range.
func (s *Service) ListAssignments(from, to *time.Time) ([]models.HostnameAssignment, error) {
	q := s.db.Preload("User").Order("assigned_date DESC")
	if from != nil {
		q = q.Where("assigned_date >= ?", datatypes.Date(*from))
	}
	if to != nil {
		q = q.Where("assigned_date <= ?", datatypes.Date(*to))
	}
	var assignments []models.HostnameAssignment
	err := q.Find(&assignments).Error
	return assignments, err
}
