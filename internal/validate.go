package internal

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidDate       = errors.New("incorrect date format, expected YYYY-MM-DD")
	ErrInvalidCategory   = errors.New("category is not registered")
	ErrInvalidAmount     = errors.New("amount is not a number")
	ErrNonPositiveAmount = errors.New("amount must be positive")
)

// ValidateDate parses s as a YYYY-MM-DD calendar date
func ValidateDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return d, nil
}

// ValidateCategory checks that c is registered
func ValidateCategory(c string, registry *Categories) error {
	if !registry.Contains(c) {
		return ErrInvalidCategory
	}
	return nil
}

// ValidateAmount parses s as a decimal number and requires it to be strictly positive.
// Both "12.50" and "12,50" are accepted. A comma is only read as the decimal
// separator when it is followed by one or two digits and there is no dot, so
// "1,234" is rejected rather than read as 1.234.
func ValidateAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	if i := strings.IndexByte(s, ','); i >= 0 {
		frac := s[i+1:]
		if strings.Contains(frac, ",") || strings.Contains(s, ".") || len(frac) == 0 || len(frac) > 2 {
			return decimal.Zero, ErrInvalidAmount
		}
		s = s[:i] + "." + frac
	}
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if !amount.IsPositive() {
		return decimal.Zero, ErrNonPositiveAmount
	}
	return amount, nil
}

// ValidateExpense runs the domain checks that apply to an already parsed expense
func ValidateExpense(e Expense, registry *Categories) error {
	if e.Date.IsZero() {
		return ErrInvalidDate
	}
	if err := ValidateCategory(e.Category, registry); err != nil {
		return err
	}
	if !e.Amount.IsPositive() {
		return ErrNonPositiveAmount
	}
	return nil
}

// validateStoredRow applies the checks a row read back from a store must pass
func validateStoredRow(category string, amount decimal.Decimal) error {
	if strings.TrimSpace(category) == "" {
		return ErrBlankCategory
	}
	if !amount.IsPositive() {
		return fmt.Errorf("amount %s: %w", amount, ErrNonPositiveAmount)
	}
	return nil
}
