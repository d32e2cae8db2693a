package reports

import (
	"bytes"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"
	"gorm.io/datatypes"

	"github.com/xelth-com/eckassetgo/internal/models"
)

// Layout constants shared by both reports. Coordinates are expressed
// with a bottom-left origin, matching the printed layouts downstream
// consumers already cut and file.
const (
	titleX      = 200.0
	titleY      = 800.0
	headerY     = 780.0
	rowPitch    = 20.0
	pageBreakAt = 50.0
	pageResetY  = 800.0
)

// canvas wraps gofpdf with bottom-left-origin coordinates
type canvas struct {
	pdf    *gofpdf.Fpdf
	height float64
}

func newCanvas() *canvas {
	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	_, h := pdf.GetPageSize()
	return &canvas{pdf: pdf, height: h}
}

func (c *canvas) text(x, y float64, s string) {
	c.pdf.Text(x, c.height-y, s)
}

func (c *canvas) line(x1, y1, x2, y2 float64) {
	c.pdf.Line(x1, c.height-y1, x2, c.height-y2)
}

func (c *canvas) newPage() {
	c.pdf.AddPage()
	c.pdf.SetFont("Helvetica", "", 10)
}

func (c *canvas) output() ([]byte, error) {
	var buf bytes.Buffer
	if err := c.pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UsedItemsPDF renders the hostname assignments of the past 7 days as
// a paginated fixed-column report.
func (g *Generator) UsedItemsPDF() ([]byte, error) {
	sevenDaysAgo := g.now().AddDate(0, 0, -7)
	var assignments []models.HostnameAssignment
	err := g.db.Preload("User").
		Where("assigned_date >= ?", sevenDaysAgo).
		Order("assigned_date DESC").
		Find(&assignments).Error
	if err != nil {
		return nil, err
	}

	c := newCanvas()
	c.pdf.SetFont("Helvetica", "", 12)
	c.text(titleX, titleY, "ITEMS ASSIGNED REPORT FOR PAST 7 DAYS")

	y := headerY
	c.pdf.SetFont("Helvetica", "", 10)
	c.text(50, y, "Host Name")
	c.text(70, y, "Serial Number")
	c.text(200, y, "User")
	c.text(350, y, "Assigned Date")
	c.text(500, y, "Returned Date")
	y -= rowPitch

	for _, a := range assignments {
		c.text(50, y, a.Hostname)
		c.text(70, y, g.serialFor(a.Hostname))
		c.text(200, y, assignmentUser(&a))
		c.text(350, y, time.Time(a.AssignedDate).Format("2006-01-02 15:04"))
		c.text(500, y, dateOrNA(a.UnassignedDate, "2006-01-02 15:04"))
		y -= rowPitch

		if y < pageBreakAt {
			c.newPage()
			y = pageResetY
		}
	}
	return c.output()
}

// AssignmentReportPDF renders the given assignments as the numbered
// hostname-assignment report layout.
func (g *Generator) AssignmentReportPDF(assignments []models.HostnameAssignment) ([]byte, error) {
	c := newCanvas()
	c.pdf.SetFont("Helvetica", "B", 14)
	c.text(titleX, titleY, "HOSTNAME ASSIGNMENT REPORT")
	c.line(200, 795, 420, 795)

	y := headerY
	c.pdf.SetFont("Helvetica", "", 10)
	c.text(30, y, "No.")
	c.text(70, y, "Hostname")
	c.text(150, y, "Serial Number")
	c.text(250, y, "User")
	c.text(350, y, "Assigned Date")
	c.text(500, y, "Unassigned Date")
	y -= rowPitch

	for i, a := range assignments {
		c.text(30, y, strconv.Itoa(i+1))
		c.text(70, y, a.Hostname)
		c.text(150, y, g.serialFor(a.Hostname))
		c.text(250, y, assignmentUser(&a))
		c.text(350, y, time.Time(a.AssignedDate).Format("2006-01-02"))
		c.text(500, y, dateOrNA(a.UnassignedDate, "2006-01-02"))
		y -= rowPitch

		if y < pageBreakAt {
			c.newPage()
			y = pageResetY
		}
	}
	return c.output()
}

func (g *Generator) serialFor(hostname string) string {
	var device models.Device
	if err := g.db.Where("hostname = ?", hostname).First(&device).Error; err != nil {
		return "N/A"
	}
	if device.SerialNumber == nil || *device.SerialNumber == "" {
		return "N/A"
	}
	return *device.SerialNumber
}

func assignmentUser(a *models.HostnameAssignment) string {
	if a.User.Username == "" {
		return "N/A"
	}
	return a.User.Username
}

func dateOrNA(d *datatypes.Date, layout string) string {
	if d == nil {
		return "N/A"
	}
	return time.Time(*d).Format(layout)
}
