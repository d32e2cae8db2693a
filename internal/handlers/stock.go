package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/xelth-com/eckassetgo/internal/models"
)

// listInvoices returns all stock invoices with their line items
func (r *Router) listInvoices(w http.ResponseWriter, req *http.Request) {
	invoices, err := r.inv.ListInvoices()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch invoices")
		return
	}
	respondJSON(w, http.StatusOK, invoices)
}

// createInvoice records a supplier delivery with its line items
func (r *Router) createInvoice(w http.ResponseWriter, req *http.Request) {
	var invoice models.StockInvoice
	if err := json.NewDecoder(req.Body).Decode(&invoice); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := r.inv.CreateInvoice(&invoice); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, invoice)
}

// getInvoice returns one invoice with computed totals
func (r *Router) getInvoice(w http.ResponseWriter, req *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(req)["id"], 10, 32)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid invoice ID")
		return
	}

	invoice, err := r.inv.GetInvoice(uint(id))
	if err != nil {
		respondError(w, http.StatusNotFound, "Invoice not found")
		return
	}

	total, err := r.inv.InvoiceTotalAmount(invoice.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to compute totals")
		return
	}
	count, err := r.inv.InvoiceTotalItems(invoice.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to compute totals")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"invoice":     invoice,
		"totalAmount": total,
		"totalItems":  count,
	})
}

// saveStockItem creates or updates one invoice line; the line total is
// recomputed server-side on every write.
func (r *Router) saveStockItem(w http.ResponseWriter, req *http.Request) {
	var item models.StockReceiveItem
	if err := json.NewDecoder(req.Body).Decode(&item); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if item.InvoiceID == 0 {
		respondError(w, http.StatusBadRequest, "Invoice is required")
		return
	}

	if err := r.inv.SaveStockItem(&item); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, item)
}
