package services

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf/v2"
	"github.com/shopspring/decimal"
)

// ReportService renders printable guest bills.
type ReportService struct {
	Ledger *LedgerService
}

func NewReportService(ledger *LedgerService) *ReportService {
	return &ReportService{Ledger: ledger}
}

// GenerateGuestBillPDF renders all charges for a guest (outstanding and
// settled) as a printable A4 bill. The PDF is a read-only view; nothing is
// settled by generating it.
func (s *ReportService) GenerateGuestBillPDF(guestName string) ([]byte, error) {
	if guestName == "" {
		return nil, ErrInvalidArgument
	}

	charges, err := s.Ledger.ListCharges(guestName, true)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	// Header
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, "Guest Bill", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(190, 6, fmt.Sprintf("Generated: %s", time.Now().Format("02-Jan-2006 03:04 PM")), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	// Guest Info Box
	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Guest Information", "1", 1, "L", true, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(190, 7, fmt.Sprintf("Name: %s", guestName), "LRB", 1, "L", false, 0, "")
	pdf.Ln(5)

	// Charges table
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Charges", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(200, 200, 200)
	pdf.CellFormat(60, 7, "Item", "1", 0, "C", true, 0, "")
	pdf.CellFormat(45, 7, "Date", "1", 0, "C", true, 0, "")
	pdf.CellFormat(45, 7, "Payment", "1", 0, "C", true, 0, "")
	pdf.CellFormat(40, 7, "Amount", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	total := decimal.Zero
	for _, charge := range charges {
		item := charge.Item
		if len(item) > 28 {
			item = item[:25] + "..."
		}
		pdf.CellFormat(60, 6, item, "1", 0, "L", false, 0, "")
		pdf.CellFormat(45, 6, charge.Timestamp.Format("02-Jan-2006 15:04"), "1", 0, "C", false, 0, "")
		pdf.CellFormat(45, 6, string(charge.PaymentMethod), "1", 0, "C", false, 0, "")
		pdf.CellFormat(40, 6, charge.Amount.StringFixed(2), "1", 1, "R", false, 0, "")
		total = total.Add(charge.Amount)
	}

	// Total - highlight if something is still owed
	if total.IsPositive() {
		pdf.SetFillColor(255, 200, 200)
	} else {
		pdf.SetFillColor(200, 255, 200)
	}
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(150, 8, "Total", "1", 0, "R", true, 0, "")
	pdf.CellFormat(40, 8, total.StringFixed(2), "1", 1, "R", true, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("rendering bill PDF for %s: %w", guestName, err)
	}
	return buf.Bytes(), nil
}
