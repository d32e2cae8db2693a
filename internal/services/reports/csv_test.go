package reports

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/xelth-com/eckassetgo/internal/models"
)

func TestTransferReportCSV(t *testing.T) {
	g, db := newTestGenerator(t)

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	device := seedDevice(t, db, "PC-001", "SN-001", "uid-1")
	other := seedDevice(t, db, "PC-002", "", "uid-2")

	t0 := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	logs := []models.TransferLog{
		{DeviceID: device.ID, ReceiverID: &alice.ID, TransferredAt: t0},
		{DeviceID: device.ID, SenderID: &alice.ID, ReceiverID: &bob.ID, TransferredAt: t0.Add(time.Hour)},
		{DeviceID: other.ID, ReceiverID: &bob.ID, TransferredAt: t0},
	}
	for i := range logs {
		if err := db.Create(&logs[i]).Error; err != nil {
			t.Fatalf("Failed to create ledger row %d: %v", i, err)
		}
	}

	data, err := g.TransferReportCSV([]uint{device.ID})
	if err != nil {
		t.Fatalf("Failed to generate report: %v", err)
	}

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("Failed to parse generated csv: %v", err)
	}

	// Header plus the two rows of the requested device
	if len(records) != 3 {
		t.Fatalf("Expected 3 csv records, got %d", len(records))
	}

	header := records[0]
	want := []string{"Host Name", "Sender", "Receiver", "Transferred At"}
	for i, col := range want {
		if header[i] != col {
			t.Errorf("Expected header column %q, got %q", col, header[i])
		}
	}

	first := records[1]
	if first[0] != "PC-001" {
		t.Errorf("Expected hostname PC-001, got %q", first[0])
	}
	if first[1] != "N/A" {
		t.Errorf("Expected N/A for a missing sender, got %q", first[1])
	}
	if first[2] != "alice" {
		t.Errorf("Expected receiver alice, got %q", first[2])
	}
	if first[3] != "2026-03-14 09:30:00" {
		t.Errorf("Unexpected timestamp format: %q", first[3])
	}

	second := records[2]
	if second[1] != "alice" || second[2] != "bob" {
		t.Errorf("Expected alice -> bob, got %q -> %q", second[1], second[2])
	}
}

func TestTransferReportCSV_EmptyLedger(t *testing.T) {
	g, _ := newTestGenerator(t)

	data, err := g.TransferReportCSV([]uint{42})
	if err != nil {
		t.Fatalf("Failed to generate report: %v", err)
	}
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("Failed to parse generated csv: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("Expected header only, got %d records", len(records))
	}
}
