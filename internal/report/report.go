// Package report renders ledger results as console text.
package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"expenses/internal/core"
)

// Printer writes reports to w. Base amounts are shown in base currency;
// original amounts in the currency recorded on each expense.
type Printer struct {
	w    io.Writer
	base string
}

func New(w io.Writer, baseCurrency string) *Printer {
	if baseCurrency == "" {
		baseCurrency = core.DefaultCurrency
	}
	return &Printer{w: w, base: baseCurrency}
}

func (p *Printer) Added(e core.Expense) {
	fmt.Fprintf(p.w, "Expense added successfully (ID: %d)\n", e.ID)
}

func (p *Printer) Updated(e core.Expense) {
	fmt.Fprintf(p.w, "Expense %d updated successfully\n", e.ID)
}

func (p *Printer) Deleted() {
	fmt.Fprintln(p.w, "Expense deleted successfully")
}

func (p *Printer) NotFound(id int64) {
	fmt.Fprintf(p.w, "Expense with ID %d not found\n", id)
}

// Expenses prints every record as a table, or a notice when there are none.
func (p *Printer) Expenses(expenses []core.Expense) error {
	if len(expenses) == 0 {
		fmt.Fprintln(p.w, "No expenses found.")
		return nil
	}
	return p.table(expenses)
}

// SearchResults prints the records matching keyword.
func (p *Printer) SearchResults(keyword string, matches []core.Expense) error {
	if len(matches) == 0 {
		fmt.Fprintf(p.w, "No expenses found matching '%s'.\n", keyword)
		return nil
	}
	fmt.Fprintf(p.w, "Search results for '%s':\n", keyword)
	return p.table(matches)
}

// Summary prints the total followed by the per-category breakdown.
func (p *Printer) Summary(s core.Summary) {
	if s.Month != 0 {
		fmt.Fprintf(p.w, "Total expenses for month %d: %s\n", s.Month, s.Total.Format(p.base))
	} else {
		fmt.Fprintf(p.w, "Total expenses: %s\n", s.Total.Format(p.base))
	}
	fmt.Fprintln(p.w)
	fmt.Fprintln(p.w, "Category breakdown:")
	for _, c := range s.ByCategory {
		fmt.Fprintf(p.w, "%s: %s\n", c.Name, c.Amount.Format(p.base))
	}
}

func (p *Printer) table(expenses []core.Expense) error {
	tw := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDate\tDescription\tCategory\tAmount\tOriginal\tCurrency")
	for _, e := range expenses {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t(%s)\n",
			e.ID, e.Date, e.Description, e.Category,
			e.Amount.Format(p.base), e.OriginalAmount.Format(e.Currency), e.Currency)
	}
	return tw.Flush()
}
