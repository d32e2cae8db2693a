package inventory

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/xelth-com/eckassetgo/internal/barcode"
	"github.com/xelth-com/eckassetgo/internal/models"
)

const (
	// Bounded retry caps for token generation and persist collisions
	tokenAttempts = 5
	saveAttempts  = 3

	// List views show at most this many devices per owner group
	maxPerOwnerGroup = 7
)

// ErrTokenExhausted is returned when no unused token could be found
// within the retry cap.
var ErrTokenExhausted = errors.New("token generation exhausted retries")

// SaveDevice runs the full device save path: token generation with
// store-wide uniqueness check, barcode regeneration, hourly-throttled
// timestamp refresh, then persist with a bounded retry on uniqueness
// collisions.
func (s *Service) SaveDevice(d *models.Device) error {
	return s.SaveDeviceTx(s.db, d)
}

// SaveDeviceTx is SaveDevice running against the given transaction
// handle. The bulk importer uses it to keep a whole batch atomic.
func (s *Service) SaveDeviceTx(tx *gorm.DB, d *models.Device) error {
	if d.UniqueID == "" {
		d.UniqueID = s.newToken()
	}

	if d.Token == "" {
		token, err := s.generateToken(tx)
		if err != nil {
			return err
		}
		d.Token = token
	}

	// Barcode is always regenerated from the current payload
	relPath, err := barcode.WriteImage(s.mediaDir, d.Token, d.BarcodePayload())
	if err != nil {
		return fmt.Errorf("device barcode: %w", err)
	}
	d.BarcodePath = relPath

	now := s.now()
	if d.LastUpdatedHourly == nil || now.Sub(*d.LastUpdatedHourly) >= time.Hour {
		stamp := now
		d.LastUpdatedHourly = &stamp
	}

	var lastErr error
	for attempt := 0; attempt < saveAttempts; attempt++ {
		err := tx.Save(d).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
		// Expected path: token collision under concurrent creation.
		// Swap in a fresh token and retry.
		lastErr = err
		d.Token = s.newToken()
	}
	return fmt.Errorf("device save exhausted %d attempts: %w", saveAttempts, lastErr)
}

// generateToken returns a token unused by any device, trying up to
// tokenAttempts candidates.
func (s *Service) generateToken(tx *gorm.DB) (string, error) {
	for attempt := 0; attempt < tokenAttempts; attempt++ {
		candidate := s.newToken()
		var count int64
		if err := tx.Model(&models.Device{}).Where("token = ?", candidate).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return candidate, nil
		}
	}
	return "", ErrTokenExhausted
}

// GetDevice loads a device with its owner and assigned users
func (s *Service) GetDevice(id uint) (*models.Device, error) {
	var device models.Device
	err := s.db.Preload("Owner").Preload("AssignedUsers").First(&device, id).Error
	if err != nil {
		return nil, err
	}
	return &device, nil
}

// GetDeviceByUniqueID loads a device by its external identifier
func (s *Service) GetDeviceByUniqueID(uniqueID string) (*models.Device, error) {
	var device models.Device
	err := s.db.Preload("Owner").Where("unique_id = ?", uniqueID).First(&device).Error
	if err != nil {
		return nil, err
	}
	return &device, nil
}

// UpdateDepartment mutates only the department label of a device.
// Deliberately bypasses the full save path so an unrelated write does
// not churn token or barcode.
func (s *Service) UpdateDepartment(id uint, department string) error {
	res := s.db.Model(&models.Device{}).Where("id = ?", id).Update("department", department)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// OwnerGroup is one owner with their devices, capped for list views
type OwnerGroup struct {
	Owner   *models.User    `json:"owner"`
	Devices []models.Device `json:"devices"`
}

// ListGroupedByOwner returns devices grouped by owning user, at most
// maxPerOwnerGroup devices per group. Unowned devices form their own
// group with a nil owner.
func (s *Service) ListGroupedByOwner() ([]OwnerGroup, error) {
	var devices []models.Device
	if err := s.db.Preload("Owner").Order("owner_id, id").Find(&devices).Error; err != nil {
		return nil, err
	}

	var groups []OwnerGroup
	index := map[uint]int{}
	unowned := -1
	for _, d := range devices {
		var pos int
		if d.OwnerID == nil {
			if unowned == -1 {
				groups = append(groups, OwnerGroup{})
				unowned = len(groups) - 1
			}
			pos = unowned
		} else {
			p, ok := index[*d.OwnerID]
			if !ok {
				groups = append(groups, OwnerGroup{Owner: d.Owner})
				p = len(groups) - 1
				index[*d.OwnerID] = p
			}
			pos = p
		}
		if len(groups[pos].Devices) < maxPerOwnerGroup {
			groups[pos].Devices = append(groups[pos].Devices, d)
		}
	}
	return groups, nil
}
