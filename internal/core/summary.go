package core

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string
	Amount Money
}

// Summary is the total of base amounts over an optionally month-filtered
// ledger, with the per-category breakdown in first-seen order.
type Summary struct {
	Month      int // 1-12, 0 when unfiltered
	Count      int
	Total      Money
	ByCategory []CategoryAmount
}

// Summarize scans expenses once. A month of 0 keeps every record, otherwise
// only records dated in that month (of any year) are counted.
func Summarize(expenses []Expense, month int) Summary {
	s := Summary{Month: month, ByCategory: []CategoryAmount{}}
	index := map[string]int{}
	for _, e := range expenses {
		if month != 0 && e.Date.Month() != month {
			continue
		}
		s.Count++
		s.Total = s.Total.Add(e.Amount)
		i, ok := index[e.Category]
		if !ok {
			i = len(s.ByCategory)
			index[e.Category] = i
			s.ByCategory = append(s.ByCategory, CategoryAmount{Name: e.Category})
		}
		s.ByCategory[i].Amount = s.ByCategory[i].Amount.Add(e.Amount)
	}
	return s
}
