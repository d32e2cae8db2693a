package reports

import (
	"bytes"
	"encoding/csv"

	"github.com/xelth-com/eckassetgo/internal/models"
)

// TransferReportFilename is the attachment name for the CSV download
const TransferReportFilename = "transfer_report.csv"

// TransferReportCSV emits the custody ledger for the given devices as
// CSV: fixed header, one row per transfer, "N/A" for missing users.
func (g *Generator) TransferReportCSV(deviceIDs []uint) ([]byte, error) {
	var logs []models.TransferLog
	err := g.db.
		Preload("Device").
		Preload("Sender").
		Preload("Receiver").
		Where("device_id IN ?", deviceIDs).
		Order("transferred_at").
		Find(&logs).Error
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"Host Name", "Sender", "Receiver", "Transferred At"}); err != nil {
		return nil, err
	}
	for _, entry := range logs {
		hostname := ""
		if entry.Device.Hostname != nil {
			hostname = *entry.Device.Hostname
		}
		if err := w.Write([]string{
			hostname,
			usernameOrNA(entry.Sender),
			usernameOrNA(entry.Receiver),
			entry.TransferredAt.Format("2006-01-02 15:04:05"),
		}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func usernameOrNA(u *models.User) string {
	if u == nil {
		return "N/A"
	}
	return u.Username
}
