package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/xelth-com/eckassetgo/internal/models"
	"github.com/xelth-com/eckassetgo/internal/services/reports"
)

// downloadUsedItemsPDF streams the past-7-days assignment report
func (r *Router) downloadUsedItemsPDF(w http.ResponseWriter, req *http.Request) {
	pdfBytes, err := r.rep.UsedItemsPDF()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to generate PDF")
		return
	}
	sendAttachment(w, pdfBytes, "application/pdf", "used_items_report.pdf")
}

// downloadAssignmentPDF streams the hostname-assignment report for an
// optional assigned-date range.
func (r *Router) downloadAssignmentPDF(w http.ResponseWriter, req *http.Request) {
	from, to, err := parseDateRange(req)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	assignments, err := r.inv.ListAssignments(from, to)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch assignments")
		return
	}

	pdfBytes, err := r.rep.AssignmentReportPDF(assignments)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to generate PDF")
		return
	}
	sendAttachment(w, pdfBytes, "application/pdf", "item_assignment_report.pdf")
}

// downloadAssignmentsExcel streams all assignments as an xlsx workbook
func (r *Router) downloadAssignmentsExcel(w http.ResponseWriter, req *http.Request) {
	data, err := r.rep.AssignmentsExcel()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to generate workbook")
		return
	}
	sendAttachment(w, data,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		reports.AssignmentReportFilename)
}

// downloadTransferCSV streams the custody ledger for the selected
// devices (ids query param, comma separated; empty means all).
func (r *Router) downloadTransferCSV(w http.ResponseWriter, req *http.Request) {
	deviceIDs, err := parseIDList(req.URL.Query().Get("ids"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid ids parameter")
		return
	}
	if len(deviceIDs) == 0 {
		if err := r.db.Model(&models.Device{}).Pluck("id", &deviceIDs).Error; err != nil {
			respondError(w, http.StatusInternalServerError, "Failed to fetch devices")
			return
		}
	}

	data, err := r.rep.TransferReportCSV(deviceIDs)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to generate report")
		return
	}
	sendAttachment(w, data, "text/csv", reports.TransferReportFilename)
}

func sendAttachment(w http.ResponseWriter, data []byte, contentType, filename string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Write(data)
}

func parseIDList(raw string) ([]uint, error) {
	if raw == "" {
		return nil, nil
	}
	var ids []uint
	for _, part := range strings.Split(raw, ",") {
		id, err := strconv.ParseUint(strings.TrimSpace(part), 10, 32)
		if err != nil {
			return nil, err
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}

func parseDateRange(req *http.Request) (*time.Time, *time.Time, error) {
	var from, to *time.Time
	if raw := req.URL.Query().Get("from"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid from date %q", raw)
		}
		from = &t
	}
	if raw := req.URL.Query().Get("to"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid to date %q", raw)
		}
		to = &t
	}
	return from, to, nil
}
