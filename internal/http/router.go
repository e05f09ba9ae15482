package http

import (
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"inn-backend/internal/handlers"
)

func NewRouter(
	invoiceHandler *handlers.InvoiceHandler,
	reportHandler *handlers.ReportHandler,
	healthHandler *handlers.HealthHandler,
) *mux.Router {
	r := mux.NewRouter()

	// Historical routes, shapes preserved for existing front-desk clients
	r.HandleFunc("/", invoiceHandler.Overview).Methods("GET")
	r.HandleFunc("/add", invoiceHandler.AddToBill).Methods("POST")
	r.HandleFunc("/storno", invoiceHandler.Storno).Methods("POST")
	r.HandleFunc("/request-bill", invoiceHandler.RequestBill).Methods("GET")
	r.HandleFunc("/invoice_details", invoiceHandler.InvoiceDetails).Methods("GET")

	// API routes
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/invoices", invoiceHandler.ListCharges).Methods("GET")
	api.HandleFunc("/bill/pdf", reportHandler.GuestBillPDF).Methods("GET")

	// Operational routes
	r.HandleFunc("/health", healthHandler.Health).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	return r
}
