package internal

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ImportXLSX reads expenses from the first sheet of a workbook. The header
// row is located by the cells Date, Category and Amount, so title rows
// above it and extra columns are tolerated. A ledger workbook written by
// this program imports as is.
func ImportXLSX(path string) ([]Expense, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets found in file")
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("reading sheet: %w", err)
	}

	// Find header row and column indices
	dateCol, categoryCol, amountCol := -1, -1, -1
	dataStartRow := -1

	for i, row := range rows {
		for j, c := range row {
			switch strings.TrimSpace(c) {
			case "Date":
				dateCol = j
			case "Category":
				categoryCol = j
			case "Amount":
				amountCol = j
			}
		}
		if dateCol >= 0 && categoryCol >= 0 && amountCol >= 0 {
			dataStartRow = i + 1
			break
		}
		dateCol, categoryCol, amountCol = -1, -1, -1
	}

	if dataStartRow < 0 {
		return nil, fmt.Errorf("could not find required columns (Date, Category, Amount)")
	}

	var expenses []Expense
	maxCol := max(dateCol, categoryCol, amountCol)
	for i := dataStartRow; i < len(rows); i++ {
		row := rows[i]
		for len(row) <= maxCol {
			row = append(row, "")
		}

		dateStr := strings.TrimSpace(row[dateCol])
		category := strings.TrimSpace(row[categoryCol])
		amountStr := strings.TrimSpace(row[amountCol])

		if dateStr == "" && category == "" && amountStr == "" {
			continue
		}

		date, err := parseDateCell(dateStr)
		if err != nil {
			return nil, fmt.Errorf("row %d: date %q: %w", i+1, dateStr, ErrInvalidDate)
		}
		amount, err := ValidateAmount(amountStr)
		if err != nil {
			return nil, fmt.Errorf("row %d: amount %q: %w", i+1, amountStr, err)
		}

		expenses = append(expenses, NewExpense(date, category, amount))
	}

	return expenses, nil
}
