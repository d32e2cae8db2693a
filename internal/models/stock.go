package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// UnitOfMeasure is the purchasing unit on a stock line
type UnitOfMeasure string

const (
	UnitPieces   UnitOfMeasure = "pcs"
	UnitBox      UnitOfMeasure = "box"
	UnitKilogram UnitOfMeasure = "kg"
	UnitLitre    UnitOfMeasure = "ltr"
	UnitUnit     UnitOfMeasure = "unit"
)

// Valid reports whether the unit is one of the closed set
func (u UnitOfMeasure) Valid() bool {
	switch u {
	case UnitPieces, UnitBox, UnitKilogram, UnitLitre, UnitUnit:
		return true
	}
	return false
}

// StockCategory classifies a received stock line
type StockCategory string

const (
	StockDesktop      StockCategory = "Desktop"
	StockLaptop       StockCategory = "Laptop"
	StockPrinter      StockCategory = "Printer"
	StockYealinkPhone StockCategory = "YealinkPhone"
)

// Valid reports whether the category is one of the closed set
func (c StockCategory) Valid() bool {
	switch c {
	case StockDesktop, StockLaptop, StockPrinter, StockYealinkPhone:
		return true
	}
	return false
}

// StockInvoice records a supplier delivery of new stock
type StockInvoice struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	SupplierName string         `gorm:"size:255;not null" json:"supplierName"`
	InvoiceNo    string         `gorm:"size:255;unique;not null" json:"invoiceNo"`
	ReceivedByID *uint          `gorm:"index" json:"receivedById,omitempty"`
	DateReceived datatypes.Date `json:"dateReceived"`
	CreatedAt    time.Time      `json:"createdAt"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	ReceivedBy *User              `gorm:"foreignKey:ReceivedByID;constraint:OnDelete:SET NULL" json:"receivedBy,omitempty"`
	Items      []StockReceiveItem `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// TableName specifies the table name for StockInvoice model
func (StockInvoice) TableName() string {
	return "stock_invoices"
}

// TotalAmount sums the line totals of the loaded items
func (inv *StockInvoice) TotalAmount() float64 {
	var total float64
	for _, item := range inv.Items {
		total += item.TotalAmount
	}
	return total
}

// TotalItems counts the loaded line items
func (inv *StockInvoice) TotalItems() int {
	return len(inv.Items)
}

// StockReceiveItem is one line on a stock invoice. TotalAmount is
// denormalized: recomputed from UnitPrice and Quantity on every write.
type StockReceiveItem struct {
	ID            uint          `gorm:"primaryKey" json:"id"`
	InvoiceID     uint          `gorm:"not null;index" json:"invoiceId"`
	ItemCategory  StockCategory `gorm:"type:varchar(20);not null" json:"itemCategory"`
	ModelNumber   string        `gorm:"size:20" json:"modelNumber,omitempty"`
	Quantity      int           `gorm:"not null" json:"quantity"`
	UnitOfMeasure UnitOfMeasure `gorm:"type:varchar(10);not null" json:"unitOfMeasure"`
	UnitPrice     float64       `gorm:"not null" json:"unitPrice"`
	TotalAmount   float64       `json:"totalAmount"`
}

// TableName specifies the table name for StockReceiveItem model
func (StockReceiveItem) TableName() string {
	return "stock_receive_items"
}
