package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AssignmentStatus is the lifecycle state of a hostname grant
type AssignmentStatus string

const (
	StatusAssigned   AssignmentStatus = "Assigned"
	StatusUnassigned AssignmentStatus = "Unassigned"
)

// Valid reports whether the status is one of the closed set
func (s AssignmentStatus) Valid() bool {
	return s == StatusAssigned || s == StatusUnassigned
}

// HostnameAssignment is a time-bounded grant of a hostname to a user.
// Assignments reference devices only by hostname string; there is no
// foreign key into the devices table.
type HostnameAssignment struct {
	ID             uint             `gorm:"primaryKey" json:"id"`
	Hostname       string           `gorm:"size:255;not null;index" json:"hostname"`
	UserID         uint             `gorm:"not null;index" json:"userId"`
	AssignedDate   datatypes.Date   `json:"assignedDate"`
	UnassignedDate *datatypes.Date  `json:"unassignedDate,omitempty"`
	Status         AssignmentStatus `gorm:"type:varchar(20);not null" json:"status"`
	DeletedAt      gorm.DeletedAt   `gorm:"index" json:"-"`

	// Relations
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
}

// TableName specifies the table name for HostnameAssignment model
func (HostnameAssignment) TableName() string {
	return "hostname_assignments"
}

// IsActive reports whether the grant currently holds: status Assigned
// and no unassignment date recorded yet.
func (a *HostnameAssignment) IsActive() bool {
	return a.Status == StatusAssigned && a.UnassignedDate == nil
}
