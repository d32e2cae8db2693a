package inventory

import (
	"gorm.io/gorm"

	"github.com/xelth-com/eckassetgo/internal/models"
)

// RecordTransfer appends a custody-change entry to the ledger and adds
// the receiver to the device's assigned-users set, atomically. Sender
// is the device's current owner. The transfer path deliberately does
// not run the full device save path: a membership change must not
// regenerate token or barcode.
func (s *Service) RecordTransfer(deviceID, receiverID uint) (*models.TransferLog, error) {
	var entry models.TransferLog
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var device models.Device
		if err := tx.First(&device, deviceID).Error; err != nil {
			return err
		}
		var receiver models.User
		if err := tx.First(&receiver, receiverID).Error; err != nil {
			return err
		}

		entry = models.TransferLog{
			DeviceID:      device.ID,
			ReceiverID:    &receiver.ID,
			TransferredAt: s.now(),
		}
		// Copy the owner id: aliasing device.OwnerID would let the
		// ownership update below rewrite the sender on the returned
		// entry.
		if device.OwnerID != nil {
			sender := *device.OwnerID
			entry.SenderID = &sender
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}

		if err := tx.Model(&device).Association("AssignedUsers").Append(&receiver); err != nil {
			return err
		}
		return tx.Model(&device).Update("owner_id", receiver.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// TransferHistory returns the device's custody ledger, newest first
func (s *Service) TransferHistory(deviceID uint) ([]models.TransferLog, error) {
	var entries []models.TransferLog
	err := s.db.
		Preload("Sender").
		Preload("Receiver").
		Where("device_id = ?", deviceID).
		Order("transferred_at DESC").
		Find(&entries).Error
	return entries, err
}
