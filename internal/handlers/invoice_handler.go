package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"inn-backend/internal/models"
	"inn-backend/internal/services"
)

type InvoiceHandler struct {
	Service *services.LedgerService
}

func NewInvoiceHandler(s *services.LedgerService) *InvoiceHandler {
	return &InvoiceHandler{Service: s}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func paramError(w http.ResponseWriter, name string) {
	writeJSON(w, http.StatusBadRequest, map[string]interface{}{
		"success": false,
		"message": "missing parameter " + name,
	})
}

func serverError(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
		"success": false,
		"message": err.Error(),
	})
}

// Overview returns the outstanding charges for a guest. A missing guest
// name is answered with 404, matching the historical behavior of this
// route.
func (h *InvoiceHandler) Overview(w http.ResponseWriter, r *http.Request) {
	guestName := r.URL.Query().Get("name")
	if guestName == "" {
		writeJSON(w, http.StatusNotFound, map[string]interface{}{"success": false})
		return
	}

	invoices, err := h.Service.ListCharges(guestName, false)
	if err != nil {
		serverError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"invoices": invoices,
	})
}

// AddToBill accounts a new charge from a form-encoded request.
func (h *InvoiceHandler) AddToBill(w http.ResponseWriter, r *http.Request) {
	guestName := r.FormValue("name")
	if guestName == "" {
		paramError(w, "name")
		return
	}

	item := r.FormValue("item")
	if item == "" {
		paramError(w, "item")
		return
	}

	method := models.PaymentMethod(r.FormValue("payment-method"))
	if method == "" {
		method = models.PaymentOnAccount
	}
	note := r.FormValue("note")

	invoiceNumber, err := h.Service.Charge(guestName, item, note, method)
	if err != nil {
		if errors.Is(err, services.ErrInvalidArgument) {
			writeJSON(w, http.StatusBadRequest, map[string]interface{}{"success": false})
			return
		}
		serverError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":        true,
		"invoice_number": invoiceNumber,
	})
}

// Storno cancels an outstanding invoice with a compensating entry.
func (h *InvoiceHandler) Storno(w http.ResponseWriter, r *http.Request) {
	numberStr := r.FormValue("number")
	if numberStr == "" {
		paramError(w, "number")
		return
	}

	number, err := strconv.ParseUint(numberStr, 10, 32)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"message": "invalid invoice number",
		})
		return
	}

	cancelled, err := h.Service.Cancel(uint32(number))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]interface{}{"success": false})
			return
		}
		serverError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":        true,
		"invoice_number": cancelled.InvoiceNumber,
		"storno_number":  cancelled.StornoNumber,
	})
}

// RequestBill assembles and settles the guest's bill.
func (h *InvoiceHandler) RequestBill(w http.ResponseWriter, r *http.Request) {
	guestName := r.URL.Query().Get("name")
	if guestName == "" {
		paramError(w, "name")
		return
	}

	bill, err := h.Service.RequestBill(guestName)
	if err != nil {
		serverError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"total":   bill.Total,
		"items":   bill.Items,
	})
}

// InvoiceDetails returns a single outstanding invoice. A miss is a normal
// outcome rendered as an empty invoice object.
func (h *InvoiceHandler) InvoiceDetails(w http.ResponseWriter, r *http.Request) {
	numberStr := r.URL.Query().Get("invoice_number")
	if numberStr == "" {
		paramError(w, "invoice_number")
		return
	}

	guestName := r.URL.Query().Get("guest_name")
	if guestName == "" {
		paramError(w, "guest_name")
		return
	}

	number, err := strconv.ParseUint(numberStr, 10, 32)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"message": "invalid invoice number",
		})
		return
	}

	invoice, err := h.Service.Lookup(uint32(number), guestName)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			writeJSON(w, http.StatusOK, map[string]interface{}{
				"success": true,
				"invoice": map[string]interface{}{},
			})
			return
		}
		serverError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"invoice": invoice,
	})
}

// ListCharges returns a guest's charges, optionally including settled ones.
func (h *InvoiceHandler) ListCharges(w http.ResponseWriter, r *http.Request) {
	guestName := r.URL.Query().Get("name")
	if guestName == "" {
		paramError(w, "name")
		return
	}

	includeSettled, _ := strconv.ParseBool(r.URL.Query().Get("include_settled"))

	invoices, err := h.Service.ListCharges(guestName, includeSettled)
	if err != nil {
		serverError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"invoices": invoices,
	})
}
