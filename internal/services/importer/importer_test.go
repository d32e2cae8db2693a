package importer

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xelth-com/eckassetgo/internal/models"
	"github.com/xelth-com/eckassetgo/internal/services/inventory"
)

func newTestImporter(t *testing.T) (*Importer, *gorm.DB) {
	t.Helper()

	dir := t.TempDir()
	db, err := gorm.Open(sqlite.Open(filepath.Join(dir, "test.db")), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Device{}); err != nil {
		t.Fatalf("Failed to migrate test schema: %v", err)
	}

	inv := inventory.NewService(db, dir)
	return New(db, inv), db
}

func TestImportFile_UnsupportedFormat(t *testing.T) {
	im, _ := newTestImporter(t)

	_, err := im.ImportFile([]byte("whatever"), "devices.pdf")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("Expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestImportFile_CSVCreatesAndUpdates(t *testing.T) {
	im, db := newTestImporter(t)

	csv := "serial_number,host_name_category,model_number,department,location\n" +
		"SN-001,Desktop,DX-100,Finance,HQ\n" +
		"SN-002,Laptop,LT-200,IT,Branch\n"
	res, err := im.ImportFile([]byte(csv), "devices.csv")
	if err != nil {
		t.Fatalf("Failed to import csv: %v", err)
	}
	if res.Created != 2 || res.Updated != 0 {
		t.Fatalf("Expected 2 created / 0 updated, got %d / %d", res.Created, res.Updated)
	}

	// Second pass with a changed department must update, not duplicate
	csv = "serial_number,host_name_category,model_number,department,location\n" +
		"SN-001,Desktop,DX-100,Legal,HQ\n"
	res, err = im.ImportFile([]byte(csv), "devices.csv")
	if err != nil {
		t.Fatalf("Failed to re-import csv: %v", err)
	}
	if res.Created != 0 || res.Updated != 1 {
		t.Fatalf("Expected 0 created / 1 updated, got %d / %d", res.Created, res.Updated)
	}

	var count int64
	if err := db.Model(&models.Device{}).Count(&count).Error; err != nil {
		t.Fatalf("Failed to count devices: %v", err)
	}
	if count != 2 {
		t.Fatalf("Expected 2 devices after re-import, got %d", count)
	}

	var device models.Device
	if err := db.Where("serial_number = ?", "SN-001").First(&device).Error; err != nil {
		t.Fatalf("Failed to load SN-001: %v", err)
	}
	if device.Department != "Legal" {
		t.Errorf("Expected department Legal after update, got %s", device.Department)
	}
	if device.Token == "" || device.BarcodePath == "" {
		t.Error("Imported device must pass through the full save path")
	}
}

func TestImportFile_MissingColumnsReadAsEmpty(t *testing.T) {
	im, db := newTestImporter(t)

	csv := "serial_number\nSN-100\n"
	res, err := im.ImportFile([]byte(csv), "minimal.csv")
	if err != nil {
		t.Fatalf("Failed to import minimal csv: %v", err)
	}
	if res.Created != 1 {
		t.Fatalf("Expected 1 created, got %d", res.Created)
	}

	var device models.Device
	if err := db.Where("serial_number = ?", "SN-100").First(&device).Error; err != nil {
		t.Fatalf("Failed to load SN-100: %v", err)
	}
	if device.Department != "" || device.Location != "" {
		t.Error("Missing columns must read as empty strings")
	}
}

func TestImportFile_EmptyCSV(t *testing.T) {
	im, _ := newTestImporter(t)

	res, err := im.ImportFile([]byte(""), "empty.csv")
	if err != nil {
		t.Fatalf("Failed to import empty csv: %v", err)
	}
	if res.Created != 0 || res.Updated != 0 {
		t.Fatalf("Expected no rows, got %d / %d", res.Created, res.Updated)
	}
}

func TestImportFile_Excel(t *testing.T) {
	im, db := newTestImporter(t)

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]string{
		{"serial_number", "host_name_category", "model_number"},
		{"SN-X1", "Desktop", "DX-900"},
		{"SN-X2", "Laptop", "LT-900"},
	}
	for i, row := range rows {
		for j, value := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				t.Fatalf("Failed to build cell name: %v", err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				t.Fatalf("Failed to set cell %s: %v", cell, err)
			}
		}
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("Failed to serialize workbook: %v", err)
	}

	res, err := im.ImportFile(buf.Bytes(), "devices.xlsx")
	if err != nil {
		t.Fatalf("Failed to import workbook: %v", err)
	}
	if res.Created != 2 {
		t.Fatalf("Expected 2 created, got %d", res.Created)
	}

	var count int64
	if err := db.Model(&models.Device{}).Count(&count).Error; err != nil {
		t.Fatalf("Failed to count devices: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected 2 devices, got %d", count)
	}
}

func TestImportFile_RowErrorAbortsBatch(t *testing.T) {
	im, db := newTestImporter(t)

	// A soft-deleted device keeps its serial in the unique index while
	// staying invisible to the importer's lookup. Row 2 therefore tries
	// to insert and collides, after row 1 already landed in the
	// transaction. The rollback must discard row 1 too.
	serial := "SN-COLLIDE"
	seed := &models.Device{
		Category:     models.CategoryDesktop,
		UniqueID:     "seed-uid",
		Token:        "seed-token",
		SerialNumber: &serial,
	}
	if err := db.Create(seed).Error; err != nil {
		t.Fatalf("Failed to seed device: %v", err)
	}
	if err := db.Delete(seed).Error; err != nil {
		t.Fatalf("Failed to soft-delete seed: %v", err)
	}

	csv := "serial_number,host_name_category\n" +
		"SN-OK,Desktop\n" +
		serial + ",Desktop\n"
	_, err := im.ImportFile([]byte(csv), "devices.csv")
	if err == nil {
		t.Fatal("Expected the batch to fail on the colliding row")
	}

	var count int64
	if err := db.Model(&models.Device{}).Count(&count).Error; err != nil {
		t.Fatalf("Failed to count devices: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected a full rollback, found %d live devices", count)
	}
}
