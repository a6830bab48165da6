package core

// Ledger is the ordered collection of expense records together with the id
// counter persisted next to it.
//
// NextID is the smallest id the ledger will hand out. Stores that cannot
// persist it leave it at zero and the ledger falls back to max(id)+1.
type Ledger struct {
	NextID   int64     `json:"next_id"`
	Expenses []Expense `json:"expenses"`
}

// NewLedger returns an empty ledger whose first id is 1.
func NewLedger() *Ledger {
	return &Ledger{NextID: 1, Expenses: []Expense{}}
}

// Len returns the number of records.
func (l *Ledger) Len() int { return len(l.Expenses) }

// MaxID returns the highest id in the collection, 0 when empty.
func (l *Ledger) MaxID() int64 {
	var max int64
	for _, e := range l.Expenses {
		if e.ID > max {
			max = e.ID
		}
	}
	return max
}

// AllocateID returns a fresh id and advances the counter past it. Ids handed
// out this way are never reused, even after the record that held the highest
// id is deleted.
func (l *Ledger) AllocateID() int64 {
	id := l.NextID
	if m := l.MaxID() + 1; m > id {
		id = m
	}
	l.NextID = id + 1
	return id
}

// Append adds e at the end of the collection.
func (l *Ledger) Append(e Expense) {
	l.Expenses = append(l.Expenses, e)
}

// Find returns the index of the first record with the given id, or -1.
func (l *Ledger) Find(id int64) int {
	for i, e := range l.Expenses {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// Remove deletes every record carrying id and reports how many were dropped.
// Relative order of the remaining records is preserved.
func (l *Ledger) Remove(id int64) int {
	kept := l.Expenses[:0]
	removed := 0
	for _, e := range l.Expenses {
		if e.ID == id {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	// clear the tail so dropped records are not retained by the backing array
	for i := len(kept); i < len(l.Expenses); i++ {
		l.Expenses[i] = Expense{}
	}
	l.Expenses = kept
	return removed
}

// Filter returns the records for which keep returns true, in stored order.
func (l *Ledger) Filter(keep func(Expense) bool) []Expense {
	out := []Expense{}
	for _, e := range l.Expenses {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

// Normalize fills in what older stores leave out: a nil slice becomes empty
// and a missing counter is derived from the highest id.
func (l *Ledger) Normalize() *Ledger {
	if l.Expenses == nil {
		l.Expenses = []Expense{}
	}
	if m := l.MaxID() + 1; l.NextID < m {
		l.NextID = m
	}
	return l
}

// Clone returns a copy that shares no backing storage with l.
func (l *Ledger) Clone() *Ledger {
	out := &Ledger{NextID: l.NextID, Expenses: make([]Expense, len(l.Expenses))}
	copy(out.Expenses, l.Expenses)
	return out
}
