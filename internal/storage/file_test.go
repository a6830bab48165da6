package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"expenses/internal/core"
)

func sampleLedger() *core.Ledger {
	return &core.Ledger{
		NextID: 4,
		Expenses: []core.Expense{
			{
				ID: 1, Date: core.NewDate(2025, 1, 5), Description: "Coffee",
				Amount: core.MustMoney("4.50"), OriginalAmount: core.MustMoney("4.50"),
				Category: "General", Currency: "USD",
			},
			{
				ID: 3, Date: core.NewDate(2025, 2, 1), Description: "Hotel",
				Amount: core.MustMoney("90"), OriginalAmount: core.MustMoney("100"),
				Category: "Travel", Currency: "EUR",
			},
		},
	}
}

func assertSameLedger(t *testing.T, got, want *core.Ledger) {
	t.Helper()
	if got.NextID != want.NextID {
		t.Fatalf("next id: got %d want %d", got.NextID, want.NextID)
	}
	if len(got.Expenses) != len(want.Expenses) {
		t.Fatalf("len: got %d want %d", len(got.Expenses), len(want.Expenses))
	}
	for i := range want.Expenses {
		g, w := got.Expenses[i], want.Expenses[i]
		if g.ID != w.ID || g.Date.String() != w.Date.String() || g.Description != w.Description ||
			g.Category != w.Category || g.Currency != w.Currency ||
			!g.Amount.Equal(w.Amount) || !g.OriginalAmount.Equal(w.OriginalAmount) {
			t.Fatalf("record %d: got %+v want %+v", i, g, w)
		}
	}
}

func TestFileStoreMissingFileIsEmpty(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "expenses.json"), nil)
	l, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if l.Len() != 0 || l.NextID != 1 {
		t.Fatalf("expected empty ledger, got %+v", l)
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "expenses.json")
	s := NewFileStore(path, nil)

	if err := s.Save(ctx, sampleLedger()); err != nil {
		t.Fatalf("save: %v", err)
	}
	first, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	assertSameLedger(t, first, sampleLedger())

	// save(load()) leaves the contents unchanged
	before, _ := os.ReadFile(path)
	if err := s.Save(ctx, first); err != nil {
		t.Fatalf("second save: %v", err)
	}
	after, _ := os.ReadFile(path)
	if string(before) != string(after) {
		t.Fatalf("round trip changed the document:\n%s\n---\n%s", before, after)
	}

	// no temp files left behind
	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Fatalf("expected only the ledger file, got %d entries", len(entries))
	}
}

func TestFileStoreDocumentLayout(t *testing.T) {
	payload, err := EncodeLedger(sampleLedger())
	if err != nil {
		t.Fatal(err)
	}
	doc := string(payload)
	for _, want := range []string{
		`"next_id": 4`,
		`"expenses": [`,
		`"date": "2025-01-05"`,
		`"amount": 4.50`,
		`"original_amount": 100.00`,
		`"currency": "EUR"`,
	} {
		if !strings.Contains(doc, want) {
			t.Fatalf("document missing %s:\n%s", want, doc)
		}
	}
	if !strings.HasSuffix(doc, "\n") {
		t.Fatalf("document should end with a newline")
	}
}

func TestDecodeLegacyArray(t *testing.T) {
	legacy := `[
    {
        "id": 1,
        "date": "2024-10-01",
        "description": "Coffee",
        "amount": 4.5,
        "category": "General",
        "currency": "USD",
        "original_amount": 4.5
    },
    {
        "id": 2,
        "date": "2024-10-02",
        "description": "Taxi",
        "amount": 9.0,
        "category": "Travel",
        "currency": "EUR",
        "original_amount": 10
    }
]`
	l, err := DecodeLedger([]byte(legacy))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if l.Len() != 2 || l.NextID != 3 {
		t.Fatalf("unexpected ledger %+v", l)
	}
	if l.Expenses[0].Amount.String() != "4.50" || l.Expenses[1].OriginalAmount.String() != "10.00" {
		t.Fatalf("unexpected amounts %+v", l.Expenses)
	}
}

func TestDecodeEmptyAndInvalid(t *testing.T) {
	l, err := DecodeLedger([]byte("  \n"))
	if err != nil || l.Len() != 0 {
		t.Fatalf("empty document: %+v %v", l, err)
	}
	if _, err := DecodeLedger([]byte("{not json")); err == nil {
		t.Fatalf("expected error for corrupt document")
	}
}

func TestFileStoreCorruptFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "expenses.json")
	if err := os.WriteFile(path, []byte("{broken"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewFileStore(path, nil).Load(context.Background()); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestFileStoreUnwritableDestination(t *testing.T) {
	dir := t.TempDir()
	// a regular file where the parent directory should be
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, nil, 0644); err != nil {
		t.Fatal(err)
	}
	s := NewFileStore(filepath.Join(blocker, "expenses.json"), nil)
	if err := s.Save(context.Background(), sampleLedger()); err == nil {
		t.Fatalf("expected save to fail")
	}
}
