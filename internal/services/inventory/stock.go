package inventory

import (
	"fmt"
	"time"

	"gorm.io/datatypes"

	"github.com/xelth-com/eckassetgo/internal/models"
)

// CreateInvoice persists a stock invoice with its line items. Line
// totals are computed before the write, never trusted from the caller.
func (s *Service) CreateInvoice(inv *models.StockInvoice) error {
	if inv.InvoiceNo == "" {
		return fmt.Errorf("invoice number is required")
	}
	if time.Time(inv.DateReceived).IsZero() {
		inv.DateReceived = datatypes.Date(s.now())
	}
	for i := range inv.Items {
		if err := validateStockItem(&inv.Items[i]); err != nil {
			return err
		}
		computeLineTotal(&inv.Items[i])
	}
	return s.db.Create(inv).Error
}

// SaveStockItem creates or updates one invoice line. The denormalized
// total is recomputed on every write, not only at creation, so edits
// to price or quantity can never leave a stale total behind.
func (s *Service) SaveStockItem(item *models.StockReceiveItem) error {
	if err := validateStockItem(item); err != nil {
		return err
	}
	computeLineTotal(item)
	return s.db.Save(item).Error
}

func validateStockItem(item *models.StockReceiveItem) error {
	if !item.ItemCategory.Valid() {
		return fmt.Errorf("invalid stock category %q", item.ItemCategory)
	}
	if !item.UnitOfMeasure.Valid() {
		return fmt.Errorf("invalid unit of measure %q", item.UnitOfMeasure)
	}
	if item.Quantity < 0 {
		return fmt.Errorf("quantity must not be negative")
	}
	return nil
}

func computeLineTotal(item *models.StockReceiveItem) {
	item.TotalAmount = item.UnitPrice * float64(item.Quantity)
}

// GetInvoice loads an invoice with its items and receiving user
func (s *Service) GetInvoice(id uint) (*models.StockInvoice, error) {
	var inv models.StockInvoice
	err := s.db.Preload("Items").Preload("ReceivedBy").First(&inv, id).Error
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// InvoiceTotalAmount sums the line totals at call time
func (s *Service) InvoiceTotalAmount(invoiceID uint) (float64, error) {
	var total float64
	err := s.db.Model(&models.StockReceiveItem{}).
		Where("invoice_id = ?", invoiceID).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&total).Error
	return total, err
}

// InvoiceTotalItems counts the invoice's lines at call time
func (s *Service) InvoiceTotalItems(invoiceID uint) (int64, error) {
	var count int64
	err := s.db.Model(&models.StockReceiveItem{}).
		Where("invoice_id = ?", invoiceID).
		Count(&count).Error
	return count, err
}

// ListInvoices returns invoices newest first with their items loaded
func (s *Service) ListInvoices() ([]models.StockInvoice, error) {
	var invoices []models.StockInvoice
	err := s.db.Preload("Items").Preload("ReceivedBy").
		Order("created_at DESC").Find(&invoices).Error
	return invoices, err
}
