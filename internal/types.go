package internal

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the only accepted textual date format (YYYY-MM-DD)
const DateLayout = "2006-01-02"

// Expense is a single dated, categorized spending entry
type Expense struct {
	Date     time.Time
	Category string
	Amount   decimal.Decimal
}

// Row is an Expense as stored in the ledger, with the running total up to and including it
type Row struct {
	Expense
	Total decimal.Decimal
}

// CategoryTotal is one line of the summary table
type CategoryTotal struct {
	Category string
	Total    decimal.Decimal
}

// Summary holds per-category totals, ordered by first appearance in the ledger
type Summary struct {
	Entries []CategoryTotal
}

// Total returns the sum over all categories
func (s Summary) Total() decimal.Decimal {
	total := decimal.Zero
	for _, e := range s.Entries {
		total = total.Add(e.Total)
	}
	return total
}

// NewExpense builds an expense from already parsed values.
// The date is truncated to a calendar date in UTC.
func NewExpense(date time.Time, category string, amount decimal.Decimal) Expense {
	y, m, d := date.Date()
	return Expense{
		Date:     time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
		Category: category,
		Amount:   amount,
	}
}
