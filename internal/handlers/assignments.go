package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/xelth-com/eckassetgo/internal/models"
)

// listAssignments returns hostname assignments, newest first, with an
// optional assigned-date range (from/to query params).
func (r *Router) listAssignments(w http.ResponseWriter, req *http.Request) {
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
	respondJSON(w, http.StatusOK, assignments)
}

// createAssignment grants a hostname to a user and syncs the matching device
func (r *Router) createAssignment(w http.ResponseWriter, req *http.Request) {
	var assignment models.HostnameAssignment
	if err := json.NewDecoder(req.Body).Decode(&assignment); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if assignment.Hostname == "" || assignment.UserID == 0 {
		respondError(w, http.StatusBadRequest, "Hostname and user are required")
		return
	}
	if assignment.Status == "" {
		assignment.Status = models.StatusAssigned
	}

	if err := r.inv.SaveAssignment(&assignment); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, assignment)
}

// unassignHostname revokes an assignment and syncs the device hostname
func (r *Router) unassignHostname(w http.ResponseWriter, req *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(req)["id"], 10, 32)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid assignment ID")
		return
	}

	assignment, err := r.inv.Unassign(uint(id))
	if err != nil {
		respondError(w, http.StatusNotFound, "Assignment not found")
		return
	}
	respondJSON(w, http.StatusOK, assignment)
}

// currentAssignment resolves who currently holds a hostname
func (r *Router) currentAssignment(w http.ResponseWriter, req *http.Request) {
	hostname := mux.Vars(req)["hostname"]

	assignment, err := r.inv.CurrentAssignment(hostname)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch assignment")
		return
	}
	if assignment == nil {
		respondError(w, http.StatusNotFound, "Hostname is not assigned")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"assignment":   assignment,
		"serialNumber": r.inv.SerialNumberFor(hostname),
		"shortCode":    r.inv.ShortCode(hostname),
	})
}
