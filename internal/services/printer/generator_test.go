package printer

import (
	"bytes"
	"testing"

	"github.com/xelth-com/eckassetgo/internal/models"
)

func TestGenerateDeviceLabels(t *testing.T) {
	serial := "SN-001"
	devices := []models.Device{
		{ID: 1, Category: models.CategoryDesktop, Token: "token-1", SerialNumber: &serial},
		{ID: 2, Category: models.CategoryLaptop, Token: "token-2"},
	}

	data, err := GenerateDeviceLabels(devices, DefaultLabelConfig)
	if err != nil {
		t.Fatalf("Failed to generate labels: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatal("Expected a PDF document")
	}
}

func TestGenerateDeviceLabels_MultiPage(t *testing.T) {
	perPage := DefaultLabelConfig.Cols * DefaultLabelConfig.Rows
	var devices []models.Device
	for i := 0; i < perPage+1; i++ {
		devices = append(devices, models.Device{
			ID:       uint(i + 1),
			Category: models.CategoryDesktop,
			Token:    "token",
		})
	}

	data, err := GenerateDeviceLabels(devices, DefaultLabelConfig)
	if err != nil {
		t.Fatalf("Failed to generate labels: %v", err)
	}
	// One label past a full sheet must open a second page. The count
	// includes the single /Type /Pages tree node.
	if bytes.Count(data, []byte("/Type /Page")) <= 2 {
		t.Error("Expected a second page for the overflow label")
	}
}

func TestGenerateDeviceLabels_InvalidGrid(t *testing.T) {
	if _, err := GenerateDeviceLabels(nil, LabelConfig{Cols: 0, Rows: 7}); err == nil {
		t.Fatal("Expected an error for a zero-column grid")
	}
}

func TestLabelCaption(t *testing.T) {
	serial := "SN-001"
	hostname := "PC-001"

	d := &models.Device{Token: "token-1", SerialNumber: &serial, Hostname: &hostname}
	if got := labelCaption(d); got != "SN-001" {
		t.Errorf("Expected serial first, got %q", got)
	}

	d.SerialNumber = nil
	if got := labelCaption(d); got != "PC-001" {
		t.Errorf("Expected hostname when serial missing, got %q", got)
	}

	d.Hostname = nil
	if got := labelCaption(d); got != "token-1" {
		t.Errorf("Expected token as last resort, got %q", got)
	}
}
