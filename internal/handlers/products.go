package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/xelth-com/eckassetgo/internal/models"
)

// deviceFromPath resolves the {deviceId} path segment, which must be a
// well-formed UUID matching a device's external identifier. Writes the
// error response itself and returns false when resolution fails.
func (r *Router) deviceFromPath(w http.ResponseWriter, req *http.Request) (*models.Device, bool) {
	raw := mux.Vars(req)["deviceId"]
	if _, err := uuid.Parse(raw); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid device id format")
		return nil, false
	}
	device, err := r.inv.GetDeviceByUniqueID(raw)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondError(w, http.StatusNotFound, "Device not found")
		return nil, false
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch device")
		return nil, false
	}
	return device, true
}

// listProducts returns all devices grouped by owning user, capped per group
func (r *Router) listProducts(w http.ResponseWriter, req *http.Request) {
	groups, err := r.inv.ListGroupedByOwner()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch devices")
		return
	}
	respondJSON(w, http.StatusOK, groups)
}

// printDevice validates the id and returns a plain-text confirmation
func (r *Router) printDevice(w http.ResponseWriter, req *http.Request) {
	raw := mux.Vars(req)["deviceId"]
	if _, err := uuid.Parse(raw); err != nil {
		http.Error(w, "Invalid Product ID format", http.StatusBadRequest)
		return
	}
	device, err := r.inv.GetDeviceByUniqueID(raw)
	if err != nil {
		http.Error(w, "Device not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "Printing product: %s", device.Category)
}

// transferForm returns the data the transfer form renders from: the
// device and the candidate receivers (everyone but the current owner).
func (r *Router) transferForm(w http.ResponseWriter, req *http.Request) {
	device, ok := r.deviceFromPath(w, req)
	if !ok {
		return
	}

	q := r.db.Model(&models.User{})
	if device.OwnerID != nil {
		q = q.Where("id <> ?", *device.OwnerID)
	}
	var users []models.User
	if err := q.Find(&users).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch users")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"device": device,
		"users":  users,
	})
}

// transferDevice records a custody transfer and redirects with a
// confirmation message.
func (r *Router) transferDevice(w http.ResponseWriter, req *http.Request) {
	device, ok := r.deviceFromPath(w, req)
	if !ok {
		return
	}

	if err := req.ParseForm(); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid form payload")
		return
	}

	var newOwner models.User
	if err := r.db.First(&newOwner, "id = ?", req.PostFormValue("new_owner")).Error; err != nil {
		respondError(w, http.StatusNotFound, "Receiver not found")
		return
	}

	entry, err := r.inv.RecordTransfer(device.ID, newOwner.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to record transfer")
		return
	}

	r.hub.Broadcast("device.transferred", entry)
	redirectWithMessage(w, req, "/products/", "msg",
		fmt.Sprintf("Product %s transferred to %s", device.Category, newOwner.Username))
}

// transferHistory renders the device's custody ledger, newest first
func (r *Router) transferHistory(w http.ResponseWriter, req *http.Request) {
	device, ok := r.deviceFromPath(w, req)
	if !ok {
		return
	}

	history, err := r.inv.TransferHistory(device.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch history")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"device":    device,
		"transfers": history,
	})
}

// updateDepartment mutates only the department label
func (r *Router) updateDepartment(w http.ResponseWriter, req *http.Request) {
	device, ok := r.deviceFromPath(w, req)
	if !ok {
		return
	}

	var body struct {
		Department string `json:"department"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := r.inv.UpdateDepartment(device.ID, body.Department); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(w, http.StatusNotFound, "Device not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to update department")
		return
	}

	r.hub.Broadcast("device.updated", map[string]interface{}{
		"deviceId":   device.UniqueID,
		"department": body.Department,
	})
	respondJSON(w, http.StatusOK, map[string]string{
		"message": "Department updated",
	})
}
