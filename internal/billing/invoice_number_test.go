package billing

import (
	"regexp"
	"testing"
	"time"
)

func TestNewInvoiceNumberFormat(t *testing.T) {
	issuedAt := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	pattern := regexp.MustCompile(`^INV-20260831-[0-9A-F]{8}$`)

	for i := 0; i < 20; i++ {
		got := NewInvoiceNumber("INV", issuedAt)
		if !pattern.MatchString(got) {
			t.Fatalf("invoice number %q does not match %s", got, pattern)
		}
	}
}

func TestNewInvoiceNumberUnique(t *testing.T) {
	issuedAt := time.Now()
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		n := NewInvoiceNumber("INV", issuedAt)
		if seen[n] {
			t.Fatalf("duplicate invoice number %q", n)
		}
		seen[n] = true
	}
}

func TestNewInvoiceNumberPrefix(t *testing.T) {
	got := NewInvoiceNumber("BILL", time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC))
	if got[:14] != "BILL-20250102-" {
		t.Errorf("invoice number %q does not carry the configured prefix", got)
	}
}
