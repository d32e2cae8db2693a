package models

import (
	"strconv"
	"time"

	"gorm.io/gorm"
)

// DeviceCategory classifies a device by host form factor
type DeviceCategory string

const (
	CategoryDesktop DeviceCategory = "Desktop"
	CategoryLaptop  DeviceCategory = "Laptop"
)

// Valid reports whether the category is one of the closed set
func (c DeviceCategory) Valid() bool {
	switch c {
	case CategoryDesktop, CategoryLaptop:
		return true
	}
	return false
}

// ItemType classifies the physical item attached to a device record
type ItemType string

const (
	ItemMonitor  ItemType = "Monitor"
	ItemMouse    ItemType = "Mouse"
	ItemPrinter  ItemType = "Printer"
	ItemPhone    ItemType = "Phone"
	ItemKeyboard ItemType = "Keyboard"
	ItemCPU      ItemType = "CPU"
	ItemScanner  ItemType = "Scanner"
)

// Valid reports whether the item type is one of the closed set
func (t ItemType) Valid() bool {
	switch t {
	case ItemMonitor, ItemMouse, ItemPrinter, ItemPhone, ItemKeyboard, ItemCPU, ItemScanner:
		return true
	}
	return false
}

// Device represents a tracked physical asset
type Device struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	UniqueID     string         `gorm:"type:uuid;uniqueIndex;not null" json:"uniqueId"`
	Hostname     *string        `gorm:"index" json:"hostname,omitempty"`
	Category     DeviceCategory `gorm:"type:varchar(10);not null" json:"category"`
	ModelNumber  string         `gorm:"size:13" json:"modelNumber,omitempty"`
	SerialNumber *string        `gorm:"size:13;uniqueIndex" json:"serialNumber,omitempty"`
	LanIP        string         `json:"lanIp,omitempty"`
	WanIP        string         `json:"wanIp,omitempty"`
	MACAddress   string         `gorm:"size:17" json:"macAddress,omitempty"`
	Location     string         `json:"location,omitempty"`
	BarcodePath  string         `json:"barcodePath,omitempty"`
	Token        string         `gorm:"size:36;uniqueIndex" json:"token"`
	ItemType     ItemType       `gorm:"type:varchar(100)" json:"itemType"`
	NumberID     string         `gorm:"size:5" json:"numberId,omitempty"`
	Department   string         `gorm:"size:100" json:"department,omitempty"`
	OwnerID      *uint          `gorm:"index" json:"ownerId,omitempty"`

	CreatedAt         time.Time      `json:"createdAt"`
	UpdatedAt         time.Time      `json:"updatedAt"`
	LastUpdatedHourly *time.Time     `json:"lastUpdatedHourly,omitempty"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Owner         *User  `gorm:"foreignKey:OwnerID;constraint:OnDelete:SET NULL" json:"owner,omitempty"`
	AssignedUsers []User `gorm:"many2many:device_users" json:"assignedUsers,omitempty"`
}

// TableName specifies the table name for Device model
func (Device) TableName() string {
	return "devices"
}

// BarcodePayload returns the value encoded into the device barcode.
// Precedence: serial number, model number, token, numeric id.
func (d *Device) BarcodePayload() string {
	if d.SerialNumber != nil && *d.SerialNumber != "" {
		return *d.SerialNumber
	}
	if d.ModelNumber != "" {
		return d.ModelNumber
	}
	if d.Token != "" {
		return d.Token
	}
	return strconv.FormatUint(uint64(d.ID), 10)
}
