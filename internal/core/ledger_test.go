package core

import "testing"

func ids(es []Expense) []int64 {
	out := make([]int64, len(es))
	for i, e := range es {
		out[i] = e.ID
	}
	return out
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestAllocateIDNeverReuses(t *testing.T) {
	l := NewLedger()
	for i := 0; i < 3; i++ {
		l.Append(Expense{ID: l.AllocateID()})
	}
	if got := ids(l.Expenses); !equalIDs(got, []int64{1, 2, 3}) {
		t.Fatalf("unexpected ids %v", got)
	}
	l.Remove(3)
	if id := l.AllocateID(); id != 4 {
		t.Fatalf("expected 4 after deleting the last record, got %d", id)
	}
}

func TestAllocateIDWithoutCounter(t *testing.T) {
	// legacy collections carry no counter
	l := &Ledger{Expenses: []Expense{{ID: 1}, {ID: 5}, {ID: 2}}}
	if id := l.AllocateID(); id != 6 {
		t.Fatalf("expected max+1 = 6, got %d", id)
	}
	if l.NextID != 7 {
		t.Fatalf("expected counter 7, got %d", l.NextID)
	}
}

func TestRemoveDropsEveryMatch(t *testing.T) {
	l := &Ledger{Expenses: []Expense{{ID: 1}, {ID: 2}, {ID: 1}, {ID: 3}}}
	if n := l.Remove(1); n != 2 {
		t.Fatalf("expected 2 removed, got %d", n)
	}
	if got := ids(l.Expenses); !equalIDs(got, []int64{2, 3}) {
		t.Fatalf("unexpected remaining ids %v", got)
	}
	if n := l.Remove(42); n != 0 {
		t.Fatalf("expected nothing removed, got %d", n)
	}
	if got := ids(l.Expenses); !equalIDs(got, []int64{2, 3}) {
		t.Fatalf("unknown id changed the ledger: %v", got)
	}
}

func TestFindReturnsFirstMatch(t *testing.T) {
	l := &Ledger{Expenses: []Expense{{ID: 2, Description: "a"}, {ID: 2, Description: "b"}}}
	if i := l.Find(2); i != 0 {
		t.Fatalf("expected index 0, got %d", i)
	}
	if i := l.Find(9); i != -1 {
		t.Fatalf("expected -1, got %d", i)
	}
}

func TestNormalize(t *testing.T) {
	l := (&Ledger{}).Normalize()
	if l.Expenses == nil || l.NextID != 1 {
		t.Fatalf("unexpected empty normalize: %+v", l)
	}
	l = (&Ledger{NextID: 2, Expenses: []Expense{{ID: 9}}}).Normalize()
	if l.NextID != 10 {
		t.Fatalf("expected counter raised to 10, got %d", l.NextID)
	}
	l = (&Ledger{NextID: 20, Expenses: []Expense{{ID: 9}}}).Normalize()
	if l.NextID != 20 {
		t.Fatalf("counter must not go backwards, got %d", l.NextID)
	}
}

func TestSummarize(t *testing.T) {
	es := []Expense{
		{ID: 1, Date: NewDate(2025, 1, 3), Category: "Food", Amount: MustMoney("4.50")},
		{ID: 2, Date: NewDate(2025, 2, 1), Category: "Travel", Amount: MustMoney("100")},
		{ID: 3, Date: NewDate(2024, 1, 9), Category: "General", Amount: MustMoney("1.25")},
		{ID: 4, Date: NewDate(2025, 1, 20), Category: "Food", Amount: MustMoney("0.75")},
	}

	all := Summarize(es, 0)
	if all.Total.String() != "106.50" || all.Count != 4 {
		t.Fatalf("unexpected total %s (count %d)", all.Total, all.Count)
	}
	wantOrder := []string{"Food", "Travel", "General"}
	if len(all.ByCategory) != len(wantOrder) {
		t.Fatalf("unexpected breakdown %+v", all.ByCategory)
	}
	for i, name := range wantOrder {
		if all.ByCategory[i].Name != name {
			t.Fatalf("breakdown order: got %s at %d, want %s", all.ByCategory[i].Name, i, name)
		}
	}
	if all.ByCategory[0].Amount.String() != "5.25" {
		t.Fatalf("Food subtotal: %s", all.ByCategory[0].Amount)
	}

	jan := Summarize(es, 1)
	if jan.Total.String() != "6.50" || jan.Count != 3 {
		t.Fatalf("january total %s (count %d)", jan.Total, jan.Count)
	}
	if len(jan.ByCategory) != 2 || jan.ByCategory[0].Name != "Food" || jan.ByCategory[1].Name != "General" {
		t.Fatalf("january breakdown %+v", jan.ByCategory)
	}

	none := Summarize(es, 7)
	if !none.Total.IsZero() || len(none.ByCategory) != 0 || none.Count != 0 {
		t.Fatalf("expected empty july summary, got %+v", none)
	}
}

func TestSummarizeSkipsUndatedRecordsInMonthFilter(t *testing.T) {
	es := []Expense{
		{ID: 1, Category: "General", Amount: MustMoney("3.00")},
		{ID: 2, Date: NewDate(2025, 1, 9), Category: "Food", Amount: MustMoney("2.00")},
	}

	jan := Summarize(es, 1)
	if jan.Count != 1 || jan.Total.String() != "2.00" {
		t.Fatalf("january should only hold the dated record, got %+v", jan)
	}
	if all := Summarize(es, 0); all.Count != 2 || all.Total.String() != "5.00" {
		t.Fatalf("unfiltered summary should count every record, got %+v", all)
	}
}
