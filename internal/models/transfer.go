package models

import (
	"time"
)

// TransferLog records a single custody change for a device.
// Rows are append-only: they are never updated or deleted outside
// of a cascading device delete.
type TransferLog struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	DeviceID      uint      `gorm:"not null;index" json:"deviceId"`
	SenderID      *uint     `gorm:"index" json:"senderId,omitempty"`
	ReceiverID    *uint     `gorm:"index" json:"receiverId,omitempty"`
	TransferredAt time.Time `gorm:"autoCreateTime" json:"transferredAt"`

	// Relations
	Device   Device `gorm:"foreignKey:DeviceID;constraint:OnDelete:CASCADE" json:"device,omitempty"`
	Sender   *User  `gorm:"foreignKey:SenderID;constraint:OnDelete:SET NULL" json:"sender,omitempty"`
	Receiver *User  `gorm:"foreignKey:ReceiverID;constraint:OnDelete:SET NULL" json:"receiver,omitempty"`
}

// TableName specifies the table name for TransferLog model
func (TransferLog) TableName() string {
	return "transfer_logs"
}
