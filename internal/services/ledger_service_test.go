package services

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"inn-backend/internal/catalog"
	"inn-backend/internal/journal"
	"inn-backend/internal/models"
)

// seqGenerator hands out deterministic invoice numbers for tests.
type seqGenerator struct {
	next uint32
}

func (g *seqGenerator) Next() (uint32, error) {
	g.next++
	return g.next, nil
}

func newTestService(t *testing.T) *LedgerService {
	t.Helper()
	store, err := journal.Open(t.TempDir())
	if err != nil {
		t.Fatalf("journal.Open: %v", err)
	}
	return NewLedgerService(store, catalog.New(nil), &seqGenerator{})
}

func TestChargeValidation(t *testing.T) {
	svc := newTestService(t)

	tests := []struct {
		name  string
		guest string
		item  string
	}{
		{"empty guest", "", "fish"},
		{"empty item", "smith", ""},
		{"both empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Charge(tt.guest, tt.item, "", models.PaymentOnAccount)
			if !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("got %v, want ErrInvalidArgument", err)
			}
		})
	}

	// No side effects from rejected charges
	records, err := svc.Store.ScanAll(journal.Outstanding)
	if err != nil {
		t.Fatalf("ScanAll: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("rejected charges left %d records in outstanding", len(records))
	}
}

func TestChargeUnknownItemIsZeroPriced(t *testing.T) {
	svc := newTestService(t)

	number, err := svc.Charge("smith", "midnight-snack", "", models.PaymentOnAccount)
	if err != nil {
		t.Fatalf("Charge: %v", err)
	}

	rec, err := svc.Lookup(number, "smith")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if !rec.Amount.IsZero() {
		t.Errorf("unknown item priced at %s, want 0", rec.Amount)
	}
}

func TestCashChargeBypassesOutstanding(t *testing.T) {
	svc := newTestService(t)

	if _, err := svc.Charge("smith", "wine", "", models.PaymentCash); err != nil {
		t.Fatalf("Charge: %v", err)
	}

	outstanding, err := svc.ListCharges("smith", false)
	if err != nil {
		t.Fatalf("ListCharges: %v", err)
	}
	if len(outstanding) != 0 {
		t.Errorf("cash charge appeared in outstanding: %v", outstanding)
	}

	all, err := svc.ListCharges("smith", true)
	if err != nil {
		t.Fatalf("ListCharges: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("got %d charges with settled included, want 1", len(all))
	}
	if all[0].Item != "wine" || all[0].PaymentMethod != models.PaymentCash {
		t.Errorf("unexpected settled charge: %+v", all[0])
	}
}

func TestRequestBillConservationAndSettlement(t *testing.T) {
	svc := newTestService(t)

	if _, err := svc.Charge("smith", "fish", "", models.PaymentOnAccount); err != nil {
		t.Fatalf("Charge: %v", err)
	}
	if _, err := svc.Charge("smith", "pizza", "", models.PaymentOnAccount); err != nil {
		t.Fatalf("Charge: %v", err)
	}
	// Another guest's charge must be untouched by smith's checkout
	if _, err := svc.Charge("jones", "wine", "", models.PaymentOnAccount); err != nil {
		t.Fatalf("Charge: %v", err)
	}

	bill, err := svc.RequestBill("smith")
	if err != nil {
		t.Fatalf("RequestBill: %v", err)
	}
	if want := decimal.RequireFromString("21.00"); !bill.Total.Equal(want) {
		t.Errorf("total %s, want %s", bill.Total, want)
	}
	if len(bill.Items) != 2 || bill.Items[0] != "fish" || bill.Items[1] != "pizza" {
		t.Errorf("items %v, want [fish pizza]", bill.Items)
	}

	// Requesting the bill settles it: a second request is a zero bill
	again, err := svc.RequestBill("smith")
	if err != nil {
		t.Fatalf("RequestBill: %v", err)
	}
	if !again.Total.IsZero() {
		t.Errorf("second bill total %s, want 0", again.Total)
	}
	if len(again.Items) != 0 {
		t.Errorf("second bill items %v, want none", again.Items)
	}

	// Settled records moved, not copied
	outstanding, err := svc.ListCharges("smith", false)
	if err != nil {
		t.Fatalf("ListCharges: %v", err)
	}
	if len(outstanding) != 0 {
		t.Errorf("settled charges still outstanding: %v", outstanding)
	}
	settled, err := svc.ListCharges("smith", true)
	if err != nil {
		t.Fatalf("ListCharges: %v", err)
	}
	if len(settled) != 2 {
		t.Errorf("got %d settled charges, want 2", len(settled))
	}

	// The other guest's charge survived the rewrite
	jones, err := svc.ListCharges("jones", false)
	if err != nil {
		t.Fatalf("ListCharges: %v", err)
	}
	if len(jones) != 1 {
		t.Errorf("jones has %d outstanding charges, want 1", len(jones))
	}
}

func TestRequestBillEmptyGuest(t *testing.T) {
	svc := newTestService(t)

	if _, err := svc.RequestBill(""); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("got %v, want ErrInvalidArgument", err)
	}
}

func TestRequestBillNothingOutstanding(t *testing.T) {
	svc := newTestService(t)

	bill, err := svc.RequestBill("ghost")
	if err != nil {
		t.Fatalf("RequestBill: %v", err)
	}
	if !bill.Total.IsZero() || len(bill.Items) != 0 {
		t.Errorf("got total %s items %v, want zero bill", bill.Total, bill.Items)
	}
}

func TestCancelPreservesHistory(t *testing.T) {
	svc := newTestService(t)

	number, err := svc.Charge("smith", "fish", "", models.PaymentOnAccount)
	if err != nil {
		t.Fatalf("Charge: %v", err)
	}

	cancelled, err := svc.Cancel(number)
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if cancelled.InvoiceNumber != number {
		t.Errorf("cancelled number %d, want %d", cancelled.InvoiceNumber, number)
	}
	if cancelled.StornoNumber == number {
		t.Error("storno must carry a fresh invoice number")
	}

	records, err := svc.Store.ScanAll(journal.Outstanding)
	if err != nil {
		t.Fatalf("ScanAll: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want original plus storno", len(records))
	}

	original, storno := records[0], records[1]
	if original.InvoiceNumber != number {
		t.Errorf("original record number %d, want %d", original.InvoiceNumber, number)
	}
	if want := decimal.RequireFromString("15.00"); !original.Amount.Equal(want) {
		t.Errorf("original amount %s changed, want %s", original.Amount, want)
	}
	if want := decimal.RequireFromString("-15.00"); !storno.Amount.Equal(want) {
		t.Errorf("storno amount %s, want %s", storno.Amount, want)
	}
	if storno.GuestName != original.GuestName || storno.Item != original.Item {
		t.Errorf("storno guest/item %s/%s, want %s/%s", storno.GuestName, storno.Item, original.GuestName, original.Item)
	}

	// Balance nets to zero
	bill, err := svc.RequestBill("smith")
	if err != nil {
		t.Fatalf("RequestBill: %v", err)
	}
	if !bill.Total.IsZero() {
		t.Errorf("balance after storno %s, want 0", bill.Total)
	}
}

func TestCancelUnknownInvoice(t *testing.T) {
	svc := newTestService(t)

	if _, err := svc.Cancel(424242); !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}

	// No side effect on a miss
	records, err := svc.Store.ScanAll(journal.Outstanding)
	if err != nil {
		t.Fatalf("ScanAll: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("failed cancel left %d records", len(records))
	}
}

func TestCancelSettledInvoiceNotFound(t *testing.T) {
	svc := newTestService(t)

	// Cash charges settle immediately and are not cancellable
	number, err := svc.Charge("smith", "wine", "", models.PaymentCash)
	if err != nil {
		t.Fatalf("Charge: %v", err)
	}
	if _, err := svc.Cancel(number); !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestLookup(t *testing.T) {
	svc := newTestService(t)

	number, err := svc.Charge("smith", "fish", "sea view table", models.PaymentOnAccount)
	if err != nil {
		t.Fatalf("Charge: %v", err)
	}

	rec, err := svc.Lookup(number, "smith")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if rec.Item != "fish" || rec.Note != "sea view table" {
		t.Errorf("unexpected record: %+v", rec)
	}

	// Wrong guest is a miss, not an error
	if _, err := svc.Lookup(number, "jones"); !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
	if _, err := svc.Lookup(424242, "smith"); !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestSettleReappendIsDuplicated(t *testing.T) {
	svc := newTestService(t)

	number, err := svc.Charge("smith", "fish", "", models.PaymentOnAccount)
	if err != nil {
		t.Fatalf("Charge: %v", err)
	}
	rec, err := svc.Lookup(number, "smith")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}

	if _, err := svc.RequestBill("smith"); err != nil {
		t.Fatalf("RequestBill: %v", err)
	}

	// A retried settle after a partial failure re-appends the record; the
	// settled journal ends up with a duplicate rather than exactly-once.
	if err := svc.settle([]models.InvoiceRecord{*rec}); err != nil {
		t.Fatalf("settle: %v", err)
	}

	settled, err := svc.Store.ScanAll(journal.Settled)
	if err != nil {
		t.Fatalf("ScanAll: %v", err)
	}
	if len(settled) != 2 {
		t.Errorf("got %d settled records, want 2 (duplication is the accepted failure mode)", len(settled))
	}
}
