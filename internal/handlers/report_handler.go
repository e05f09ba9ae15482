package handlers

import (
	"fmt"
	"net/http"

	"inn-backend/internal/services"
)

type ReportHandler struct {
	Service *services.ReportService
}

func NewReportHandler(s *services.ReportService) *ReportHandler {
	return &ReportHandler{Service: s}
}

// GuestBillPDF streams a printable PDF of the guest's charges.
func (h *ReportHandler) GuestBillPDF(w http.ResponseWriter, r *http.Request) {
	guestName := r.URL.Query().Get("name")
	if guestName == "" {
		paramError(w, "name")
		return
	}

	pdf, err := h.Service.GenerateGuestBillPDF(guestName)
	if err != nil {
		serverError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=bill_%s.pdf", guestName))
	w.Write(pdf)
}
