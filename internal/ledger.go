package internal

import (
	"errors"
	"fmt"
	"slices"
	"sort"

	"github.com/shopspring/decimal"
)

var ErrRowOutOfRange = errors.New("row number out of range")

// Ledger is the ordered set of expense rows plus the derived running total.
// Every structural change rewrites the totals as a prefix sum over the
// current order; totals are never patched incrementally.
type Ledger struct {
	rows []Row
}

// NewLedger builds a ledger from expenses in the given (stored) order.
// The order is kept as is; only totals are recomputed.
func NewLedger(expenses []Expense) *Ledger {
	l := &Ledger{rows: make([]Row, 0, len(expenses))}
	for _, e := range expenses {
		l.rows = append(l.rows, Row{Expense: e})
	}
	l.recalculate()
	return l
}

// Len returns the number of data rows
func (l *Ledger) Len() int {
	return len(l.rows)
}

// Rows returns a copy of the rows in stored order
func (l *Ledger) Rows() []Row {
	return slices.Clone(l.rows)
}

// Total returns the running total of the last row, or zero for an empty ledger
func (l *Ledger) Total() decimal.Decimal {
	if len(l.rows) == 0 {
		return decimal.Zero
	}
	return l.rows[len(l.rows)-1].Total
}

// Add appends an expense and leaves the ledger date-sorted with fresh totals
func (l *Ledger) Add(e Expense) {
	l.AddAll([]Expense{e})
}

// AddAll appends several expenses and sorts once. The result is the same as
// calling Add for each expense in order.
func (l *Ledger) AddAll(expenses []Expense) {
	if len(expenses) == 0 {
		return
	}
	for _, e := range expenses {
		l.rows = append(l.rows, Row{Expense: e})
	}
	l.recalculate()
	l.Sort()
}

// Delete removes the row with the given 1-based data row number.
// Remaining rows keep their order; totals are recomputed.
func (l *Ledger) Delete(rowNumber int) (Row, error) {
	if rowNumber < 1 || rowNumber > len(l.rows) {
		return Row{}, fmt.Errorf("%w: %d (valid: 1-%d)", ErrRowOutOfRange, rowNumber, len(l.rows))
	}
	idx := rowNumber - 1
	removed := l.rows[idx]
	l.rows = slices.Delete(l.rows, idx, idx+1)
	l.recalculate()
	return removed, nil
}

// DeleteCategory removes every row in category and returns how many were removed
func (l *Ledger) DeleteCategory(category string) int {
	var matches []int
	for i, r := range l.rows {
		if r.Category == category {
			matches = append(matches, i)
		}
	}

	// delete high to low so collected indices stay valid
	for i := len(matches) - 1; i >= 0; i-- {
		idx := matches[i]
		l.rows = slices.Delete(l.rows, idx, idx+1)
	}

	l.recalculate()
	return len(matches)
}

// Recategorize rewrites the category of every matching row in place and
// returns how many rows changed
func (l *Ledger) Recategorize(old, new string) int {
	changed := 0
	for i := range l.rows {
		if l.rows[i].Category == old {
			l.rows[i].Category = new
			changed++
		}
	}
	return changed
}

// Sort orders rows by date ascending, keeping the relative order of rows
// with the same date, then rewrites the running totals
func (l *Ledger) Sort() {
	sort.SliceStable(l.rows, func(i, j int) bool {
		return l.rows[i].Date.Before(l.rows[j].Date)
	})
	l.recalculate()
}

// Summary aggregates amounts per category in a single pass.
// Categories appear in order of first occurrence.
func (l *Ledger) Summary() Summary {
	var s Summary
	index := make(map[string]int)
	for _, r := range l.rows {
		i, ok := index[r.Category]
		if !ok {
			index[r.Category] = len(s.Entries)
			s.Entries = append(s.Entries, CategoryTotal{Category: r.Category, Total: r.Amount})
			continue
		}
		s.Entries[i].Total = s.Entries[i].Total.Add(r.Amount)
	}
	return s
}

func (l *Ledger) recalculate() {
	total := decimal.Zero
	for i := range l.rows {
		total = total.Add(l.rows[i].Amount)
		l.rows[i].Total = total
	}
}

func (l *Ledger) snapshot() []Row {
	return slices.Clone(l.rows)
}

func (l *Ledger) restore(rows []Row) {
	l.rows = rows
}
