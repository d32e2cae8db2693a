package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/xelth-com/eckassetgo/internal/models"
	"github.com/xelth-com/eckassetgo/internal/services/printer"
	"github.com/xelth-com/eckassetgo/internal/services/reports"
)

// listDevices returns devices, optionally filtered by update window or
// recent transfer activity.
func (r *Router) listDevices(w http.ResponseWriter, req *http.Request) {
	q := r.db.Preload("Owner").Order("created_at DESC")

	if window := req.URL.Query().Get("updated"); window != "" {
		scope, err := reports.UpdatedWithin(reports.UpdatedWindow(window), time.Now())
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		q = q.Scopes(scope)
	}
	if req.URL.Query().Get("past_7_days") == "true" {
		q = q.Scopes(reports.TransferredWithinDays(7, time.Now()))
	}

	var devices []models.Device
	if err := q.Find(&devices).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch devices")
		return
	}
	respondJSON(w, http.StatusOK, devices)
}

// createDevice runs the full save path on a new device record
func (r *Router) createDevice(w http.ResponseWriter, req *http.Request) {
	var device models.Device
	if err := json.NewDecoder(req.Body).Decode(&device); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if !device.Category.Valid() {
		respondError(w, http.StatusBadRequest, "Invalid device category")
		return
	}
	if device.ItemType != "" && !device.ItemType.Valid() {
		respondError(w, http.StatusBadRequest, "Invalid item type")
		return
	}

	if err := r.inv.SaveDevice(&device); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to save device")
		return
	}
	respondJSON(w, http.StatusCreated, device)
}

// getDevice returns a single device by numeric id
func (r *Router) getDevice(w http.ResponseWriter, req *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(req)["id"], 10, 32)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid device ID")
		return
	}
	device, err := r.inv.GetDevice(uint(id))
	if err != nil {
		respondError(w, http.StatusNotFound, "Device not found")
		return
	}
	respondJSON(w, http.StatusOK, device)
}

// updateDevice applies mutable attributes and re-runs the save path
func (r *Router) updateDevice(w http.ResponseWriter, req *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(req)["id"], 10, 32)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid device ID")
		return
	}
	device, err := r.inv.GetDevice(uint(id))
	if err != nil {
		respondError(w, http.StatusNotFound, "Device not found")
		return
	}

	if err := json.NewDecoder(req.Body).Decode(device); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := r.inv.SaveDevice(device); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to save device")
		return
	}
	r.hub.Broadcast("device.updated", map[string]interface{}{"deviceId": device.UniqueID})
	respondJSON(w, http.StatusOK, device)
}

// deviceLabels renders a printable QR label sheet for the requested devices
func (r *Router) deviceLabels(w http.ResponseWriter, req *http.Request) {
	var body struct {
		DeviceIDs []uint              `json:"deviceIds"`
		Layout    printer.LabelConfig `json:"layout"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if body.Layout.Cols == 0 || body.Layout.Rows == 0 {
		body.Layout = printer.DefaultLabelConfig
	}

	var devices []models.Device
	if err := r.db.Where("id IN ?", body.DeviceIDs).Find(&devices).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch devices")
		return
	}

	pdfBytes, err := printer.GenerateDeviceLabels(devices, body.Layout)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to generate labels")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="device_labels.pdf"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(pdfBytes)))
	w.Write(pdfBytes)
}
