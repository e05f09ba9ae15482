package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Journal lines and API responses carry plain numeric amounts,
	// matching the historical record format.
	decimal.MarshalJSONWithoutQuotes = true
}

// PaymentMethod determines which journal a charge is accounted in.
type PaymentMethod string

const (
	PaymentOnAccount PaymentMethod = "room-bill" // charged to the guest's running bill
	PaymentCash      PaymentMethod = "cash"      // paid at time of charge
	PaymentDebit     PaymentMethod = "debit"     // paid at time of charge
)

// Settled reports whether a charge with this payment method is paid
// immediately and therefore never enters the outstanding journal.
func (p PaymentMethod) Settled() bool {
	return p == PaymentCash || p == PaymentDebit
}

// InvoiceRecord is one line item in a journal. Records are immutable once
// appended; corrections happen via new compensating records.
type InvoiceRecord struct {
	InvoiceNumber uint32          `json:"invoice_number"`
	GuestName     string          `json:"guest_name"`
	Item          string          `json:"item"`
	Amount        decimal.Decimal `json:"amount"`
	Note          string          `json:"note"`
	Timestamp     time.Time       `json:"timestamp"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
}

// Storno derives the compensating record that nets this charge out. The
// receiver is left untouched; the result carries the fresh invoice number,
// the negated amount and a new timestamp.
func (r InvoiceRecord) Storno(number uint32, now time.Time) InvoiceRecord {
	storno := r
	storno.InvoiceNumber = number
	storno.Amount = r.Amount.Neg()
	storno.Timestamp = now
	return storno
}

// ChargeView is the redacted form of an invoice record handed to callers of
// the charge listing: the invoice number and note are stripped.
type ChargeView struct {
	GuestName     string          `json:"guest_name"`
	Item          string          `json:"item"`
	Amount        decimal.Decimal `json:"amount"`
	Timestamp     time.Time       `json:"timestamp"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
}

// Redact converts a record to its presentation form.
func Redact(r InvoiceRecord) ChargeView {
	return ChargeView{
		GuestName:     r.GuestName,
		Item:          r.Item,
		Amount:        r.Amount,
		Timestamp:     r.Timestamp,
		PaymentMethod: r.PaymentMethod,
	}
}

// CancelledInvoice describes the outcome of a storno: the number of the
// cancelled charge and the number of the compensating entry.
type CancelledInvoice struct {
	InvoiceNumber uint32 `json:"invoice_number"`
	StornoNumber  uint32 `json:"storno_number"`
}

// Bill is the result of requesting (and thereby settling) a guest's bill.
type Bill struct {
	GuestName string          `json:"guest_name"`
	Total     decimal.Decimal `json:"total"`
	Items     []string        `json:"items"`
}
