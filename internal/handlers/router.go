package handlers

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/gorilla/mux"

	"github.com/xelth-com/eckassetgo/internal/config"
	"github.com/xelth-com/eckassetgo/internal/database"
	"github.com/xelth-com/eckassetgo/internal/middleware"
	"github.com/xelth-com/eckassetgo/internal/services/importer"
	"github.com/xelth-com/eckassetgo/internal/services/inventory"
	"github.com/xelth-com/eckassetgo/internal/services/reports"
	"github.com/xelth-com/eckassetgo/internal/websocket"
)

// Router wraps the mux router, the database and the domain services
type Router struct {
	*mux.Router
	db  *database.DB
	cfg *config.Config
	inv *inventory.Service
	imp *importer.Importer
	rep *reports.Generator
	hub *websocket.Hub
}

// NewRouter creates a new HTTP router with all routes
func NewRouter(db *database.DB, cfg *config.Config, hub *websocket.Hub) *Router {
	inv := inventory.NewService(db.DB, cfg.MediaDir)
	r := &Router{
		Router: mux.NewRouter(),
		db:     db,
		cfg:    cfg,
		inv:    inv,
		imp:    importer.New(db.DB, inv),
		rep:    reports.NewGenerator(db.DB),
		hub:    hub,
	}

	// Health check endpoint
	r.HandleFunc("/health", r.healthCheck).Methods("GET")

	// Auth routes
	auth := r.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/login", r.login).Methods("POST")
	auth.HandleFunc("/register", r.register).Methods("POST")

	// Server-rendered style surface
	r.HandleFunc("/", r.listProducts).Methods("GET")
	r.HandleFunc("/products/", r.listProducts).Methods("GET")
	r.HandleFunc("/print/{deviceId}/", r.printDevice).Methods("GET")
	r.HandleFunc("/upload/", r.uploadSpreadsheet).Methods("POST")
	r.HandleFunc("/products/{deviceId}/transfer/", r.transferForm).Methods("GET")
	r.HandleFunc("/products/{deviceId}/transfer/", r.transferDevice).Methods("POST")
	r.HandleFunc("/products/{deviceId}/history/", r.transferHistory).Methods("GET")
	r.HandleFunc("/update-department/{deviceId}/", r.updateDepartment).Methods("POST")

	// Admin report downloads (protected)
	admin := r.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.Auth(cfg.JWTSecret))
	admin.HandleFunc("/products/download-pdf/", r.downloadUsedItemsPDF).Methods("GET")
	admin.HandleFunc("/products/download-excel/", r.downloadAssignmentsExcel).Methods("GET")
	admin.HandleFunc("/products/transfer-report/", r.downloadTransferCSV).Methods("GET")
	admin.HandleFunc("/assignments/report-pdf/", r.downloadAssignmentPDF).Methods("GET")

	// JSON API (protected)
	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.Auth(cfg.JWTSecret))
	api.HandleFunc("/devices", r.listDevices).Methods("GET")
	api.HandleFunc("/devices", r.createDevice).Methods("POST")
	api.HandleFunc("/devices/{id}", r.getDevice).Methods("GET")
	api.HandleFunc("/devices/{id}", r.updateDevice).Methods("PUT")
	api.HandleFunc("/devices/labels", r.deviceLabels).Methods("POST")
	api.HandleFunc("/assignments", r.listAssignments).Methods("GET")
	api.HandleFunc("/assignments", r.createAssignment).Methods("POST")
	api.HandleFunc("/assignments/{id}/unassign", r.unassignHostname).Methods("POST")
	api.HandleFunc("/assignments/current/{hostname}", r.currentAssignment).Methods("GET")
	api.HandleFunc("/stock/invoices", r.listInvoices).Methods("GET")
	api.HandleFunc("/stock/invoices", r.createInvoice).Methods("POST")
	api.HandleFunc("/stock/invoices/{id}", r.getInvoice).Methods("GET")
	api.HandleFunc("/stock/items", r.saveStockItem).Methods("POST")

	// Live event feed
	r.HandleFunc("/ws", func(w http.ResponseWriter, req *http.Request) {
		websocket.ServeWs(hub, w, req)
	})

	return r
}

// healthCheck returns the health status of the API
func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}

// redirectWithMessage sends the browser back with a flash-style query
// parameter, matching the server-rendered surface's conventions.
func redirectWithMessage(w http.ResponseWriter, req *http.Request, target, key, message string) {
	http.Redirect(w, req, target+"?"+key+"="+url.QueryEscape(message), http.StatusSeeOther)
}
