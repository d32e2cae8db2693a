package reports

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/xelth-com/eckassetgo/internal/models"
)

// AssignmentReportFilename is the attachment name for the Excel download
const AssignmentReportFilename = "hostname_assignments.xlsx"

var assignmentColumns = []string{"No.", "Hostname", "Serial Number", "User", "Assigned Date", "Unassigned Date", "Status"}

// AssignmentsExcel exports all hostname assignments, newest first, as
// an xlsx workbook.
func (g *Generator) AssignmentsExcel() ([]byte, error) {
	var assignments []models.HostnameAssignment
	err := g.db.Preload("User").Order("assigned_date DESC").Find(&assignments).Error
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	for col, name := range assignmentColumns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, name); err != nil {
			return nil, err
		}
	}

	for i, a := range assignments {
		values := []interface{}{
			i + 1,
			a.Hostname,
			g.serialFor(a.Hostname),
			assignmentUser(&a),
			time.Time(a.AssignedDate).Format("2006-01-02"),
			dateOrNA(a.UnassignedDate, "2006-01-02"),
			string(a.Status),
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
