package internal

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"
)

// csvExpense maps one line of a Date,Category,Amount file
type csvExpense struct {
	Date     string `csv:"Date"`
	Category string `csv:"Category"`
	Amount   string `csv:"Amount"`
}

// ImportCSV reads a CSV file with a Date,Category,Amount header
func ImportCSV(path string) ([]Expense, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer file.Close()

	var rows []csvExpense
	if err := gocsv.UnmarshalFile(file, &rows); err != nil {
		return nil, fmt.Errorf("parsing CSV: %w", err)
	}

	expenses := make([]Expense, 0, len(rows))
	for i, row := range rows {
		e, err := parseEntry(row.Date, row.Category, row.Amount)
		if err != nil {
			// header is line 1
			return nil, fmt.Errorf("line %d: %w", i+2, err)
		}
		expenses = append(expenses, e)
	}

	return expenses, nil
}
