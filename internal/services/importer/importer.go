package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/xelth-com/eckassetgo/internal/models"
	"github.com/xelth-com/eckassetgo/internal/services/inventory"
)

// ErrUnsupportedFormat is returned before any row is processed when
// the uploaded file is neither CSV nor Excel.
var ErrUnsupportedFormat = errors.New("unsupported file format: please upload a CSV or Excel file")

// Result summarizes a completed import
type Result struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
}

// Importer maps spreadsheet rows onto device records
type Importer struct {
	db  *gorm.DB
	inv *inventory.Service
}

// New creates an importer writing devices through the inventory service
func New(db *gorm.DB, inv *inventory.Service) *Importer {
	return &Importer{db: db, inv: inv}
}

// ImportFile parses the uploaded file and upserts one device per row,
// keyed on serial number. The whole batch runs in one transaction and
// aborts on the first row error: either every row lands or none does.
func (im *Importer) ImportFile(data []byte, filename string) (*Result, error) {
	var rows []map[string]string
	var err error

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		rows, err = parseCSV(data)
	case ".xlsx", ".xls":
		rows, err = parseExcel(data)
	default:
		return nil, ErrUnsupportedFormat
	}
	if err != nil {
		return nil, err
	}

	res := &Result{}
	err = im.db.Transaction(func(tx *gorm.DB) error {
		for i, row := range rows {
			if err := im.upsertRow(tx, row, res); err != nil {
				return fmt.Errorf("row %d: %w", i+1, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// upsertRow creates a device, or updates the mutable attributes of the
// one matching the row's serial number. Missing columns read as "".
func (im *Importer) upsertRow(tx *gorm.DB, row map[string]string, res *Result) error {
	serial := row["serial_number"]

	var device models.Device
	found := false
	if serial != "" {
		err := tx.Where("serial_number = ?", serial).First(&device).Error
		switch {
		case err == nil:
			found = true
		case errors.Is(err, gorm.ErrRecordNotFound):
		default:
			return err
		}
	}

	device.Category = models.DeviceCategory(row["host_name_category"])
	device.ModelNumber = row["model_number"]
	device.NumberID = row["number_id"]
	device.Department = row["department"]
	device.Location = row["location"]
	if t := row["item_type"]; t != "" {
		device.ItemType = models.ItemType(t)
	}
	if serial != "" {
		device.SerialNumber = &serial
	}

	if err := im.inv.SaveDeviceTx(tx, &device); err != nil {
		return err
	}
	if found {
		res.Updated++
	} else {
		res.Created++
	}
	return nil
}

// parseCSV reads comma-separated data with a header row into one map
// per data row.
func parseCSV(data []byte) ([]map[string]string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	var rows []map[string]string
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}
		rows = append(rows, rowMap(header, record))
	}
	return rows, nil
}

// parseExcel reads the first sheet of an Excel workbook, first row as
// header.
func parseExcel(data []byte) ([]map[string]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	records, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	header := records[0]
	var rows []map[string]string
	for _, record := range records[1:] {
		rows = append(rows, rowMap(header, record))
	}
	return rows, nil
}

func rowMap(header, record []string) map[string]string {
	row := make(map[string]string, len(header))
	for i, col := range header {
		col = strings.TrimSpace(col)
		if i < len(record) {
			row[col] = strings.TrimSpace(record[i])
		} else {
			row[col] = ""
		}
	}
	return row
}
