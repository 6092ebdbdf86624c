package internal

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
)

// SimpleJSONFormat is a minimal JSON format for importing expenses
// Example:
//
//	{
//	  "expenses": [
//	    {"date": "2024-03-01", "category": "Food", "amount": 20},
//	    {"date": "2024-02-15", "category": "Transport", "amount": "10.50"}
//	  ]
//	}
type SimpleJSONFormat struct {
	Expenses []SimpleJSONExpense `json:"expenses"`
}

type SimpleJSONExpense struct {
	Date     string          `json:"date"` // YYYY-MM-DD format
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"` // number or numeric string
}

// ImportSimpleJSON reads a file in the simple JSON format
func ImportSimpleJSON(path string) ([]Expense, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	var doc SimpleJSONFormat
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}

	expenses := make([]Expense, 0, len(doc.Expenses))
	for i, item := range doc.Expenses {
		e, err := parseEntry(item.Date, item.Category, item.Amount.String())
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i+1, err)
		}
		expenses = append(expenses, e)
	}

	return expenses, nil
}
