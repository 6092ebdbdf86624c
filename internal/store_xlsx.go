package internal

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

const ExpensesSheet = "Expenses"

var expensesHeader = []any{"Date", "Category", "Amount", "Total"}

// XLSXStore keeps the ledger in the Expenses sheet of a workbook and the
// summary with its charts in the Summary sheet. Every save writes the whole
// workbook afresh; other sheets are carried over by value.
type XLSXStore struct {
	path    string
	file    *excelize.File
	rows    []Row
	loaded  bool
	summary *Summary
	log     logrus.FieldLogger
}

// OpenXLSXStore opens the workbook at path. A missing file is created with
// an empty Expenses sheet; an existing workbook without one gets it added.
func OpenXLSXStore(path string, log logrus.FieldLogger) (*XLSXStore, error) {
	if log == nil {
		log = discardLogger()
	}
	log = log.WithField(FieldFile, path)

	s := &XLSXStore{path: path, log: log}

	f, err := excelize.OpenFile(path)
	switch {
	case err == nil:
		s.file = f
		if err := s.ensureExpensesSheet(); err != nil {
			f.Close()
			return nil, err
		}
		if err := s.loadStoredSummary(); err != nil {
			f.Close()
			return nil, err
		}
	case errors.Is(err, os.ErrNotExist):
		if err := s.create(); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("opening workbook: %w", err)
	}

	return s, nil
}

func (s *XLSXStore) create() error {
	s.file = newLedgerWorkbook()

	sheet := s.file.GetSheetName(0)
	if err := s.file.SetSheetName(sheet, ExpensesSheet); err != nil {
		return fmt.Errorf("naming expenses sheet: %w", err)
	}
	if err := writeExpensesSheet(s.file, nil); err != nil {
		return err
	}
	if err := s.file.SaveAs(s.path); err != nil {
		return fmt.Errorf("creating workbook: %w", err)
	}
	s.loaded = true

	s.log.Info("Created ledger workbook")
	return nil
}

func (s *XLSXStore) ensureExpensesSheet() error {
	idx, err := s.file.GetSheetIndex(ExpensesSheet)
	if err != nil {
		return fmt.Errorf("looking up expenses sheet: %w", err)
	}
	if idx != -1 {
		return nil
	}

	if _, err := s.file.NewSheet(ExpensesSheet); err != nil {
		return fmt.Errorf("creating expenses sheet: %w", err)
	}
	if err := writeExpensesSheet(s.file, nil); err != nil {
		return err
	}
	if err := s.file.Save(); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}

	s.log.Info("Added missing expenses sheet")
	return nil
}

// loadStoredSummary keeps the totals of an existing Summary sheet so that
// saving the ledger alone rewrites it with its charts
func (s *XLSXStore) loadStoredSummary() error {
	idx, err := s.file.GetSheetIndex(SummarySheet)
	if err != nil {
		return fmt.Errorf("looking up summary sheet: %w", err)
	}
	if idx == -1 {
		return nil
	}
	summary, err := readSummarySheet(s.file)
	if err != nil {
		return err
	}
	s.summary = &summary
	return nil
}

func newLedgerWorkbook() *excelize.File {
	f := excelize.NewFile()
	_ = f.SetAppProps(&excelize.AppProperties{
		Application: "expense-tracker",
	})
	return f
}

// writeExpensesSheet writes the header and rows into the Expenses sheet of f
func writeExpensesSheet(f *excelize.File, rows []Row) error {
	if err := f.SetSheetRow(ExpensesSheet, "A1", &expensesHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	_ = f.SetColWidth(ExpensesSheet, "A", "A", 15)
	_ = f.SetColWidth(ExpensesSheet, "B", "B", 20)
	_ = f.SetColWidth(ExpensesSheet, "C", "D", 15)

	styles, err := newSheetStyles(f)
	if err != nil {
		return err
	}
	_ = f.SetCellStyle(ExpensesSheet, cell('A', 1), cell('B', 1), styles.header)
	_ = f.SetCellStyle(ExpensesSheet, cell('C', 1), cell('D', 1), styles.headerAmount)

	for i, r := range rows {
		row := i + 2
		if err := f.SetSheetRow(ExpensesSheet, cell('A', row), &[]any{r.Date.Format(DateLayout), r.Category}); err != nil {
			return fmt.Errorf("writing row %d: %w", row, err)
		}
		if err := setAmountCell(f, ExpensesSheet, cell('C', row), r.Amount); err != nil {
			return fmt.Errorf("writing row %d: %w", row, err)
		}
		if err := setAmountCell(f, ExpensesSheet, cell('D', row), r.Total); err != nil {
			return fmt.Errorf("writing row %d: %w", row, err)
		}
	}

	if len(rows) > 0 {
		_ = f.SetCellStyle(ExpensesSheet, cell('C', 2), cell('D', len(rows)+1), styles.amount)
	}
	return nil
}

// copySheetValues copies cell values and formulas of sheet from src to dst.
// Cell formatting is not carried over.
func copySheetValues(src, dst *excelize.File, sheet string) error {
	rows, err := src.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return fmt.Errorf("reading sheet %s: %w", sheet, err)
	}
	for r, row := range rows {
		for c, v := range row {
			ref, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return err
			}
			if formula, _ := src.GetCellFormula(sheet, ref); formula != "" {
				if err := dst.SetCellFormula(sheet, ref, formula); err != nil {
					return fmt.Errorf("copying %s!%s: %w", sheet, ref, err)
				}
				continue
			}
			if v == "" {
				continue
			}
			if err := dst.SetCellDefault(sheet, ref, v); err != nil {
				return fmt.Errorf("copying %s!%s: %w", sheet, ref, err)
			}
		}
	}
	return nil
}

// Load reads the data rows of the Expenses sheet in stored order.
// Blank rows are skipped; stored totals are ignored since they are derived.
func (s *XLSXStore) Load() ([]Expense, error) {
	rows, err := s.file.GetRows(ExpensesSheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("reading expenses sheet: %w", err)
	}

	var expenses []Expense
	for i := 1; i < len(rows); i++ {
		sheetRow := i + 1
		row := rows[i]
		for len(row) < 3 {
			row = append(row, "")
		}

		dateStr := strings.TrimSpace(row[0])
		category := strings.TrimSpace(row[1])
		amountStr := strings.TrimSpace(row[2])

		if dateStr == "" && category == "" && amountStr == "" {
			continue
		}

		date, err := parseDateCell(dateStr)
		if err != nil {
			return nil, fmt.Errorf("row %d: parsing date %q: %w", sheetRow, dateStr, err)
		}
		amount, err := decimal.NewFromString(amountStr)
		if err != nil {
			return nil, fmt.Errorf("row %d: parsing amount %q: %w", sheetRow, amountStr, err)
		}
		if err := validateStoredRow(category, amount); err != nil {
			return nil, fmt.Errorf("row %d: %w", sheetRow, err)
		}

		expenses = append(expenses, NewExpense(date, category, amount))
	}

	s.rows = NewLedger(expenses).Rows()
	s.loaded = true

	s.log.WithField(FieldCount, len(expenses)).Debug("Loaded ledger")
	return expenses, nil
}

// parseDateCell accepts YYYY-MM-DD text or an Excel date serial number
func parseDateCell(v string) (time.Time, error) {
	if t, err := time.Parse(DateLayout, v); err == nil {
		return t, nil
	}
	serial, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return excelize.ExcelDateToTime(serial, false)
}

// Save rewrites the Expenses sheet with rows
func (s *XLSXStore) Save(rows []Row) error {
	rows = slices.Clone(rows)
	if err := s.rewrite(rows, s.summary); err != nil {
		return err
	}
	s.rows = rows
	s.loaded = true

	s.log.WithField(FieldCount, len(rows)).Debug("Saved ledger")
	return nil
}

// SaveSummary replaces the Summary sheet and its charts and keeps Expenses
// as the active sheet
func (s *XLSXStore) SaveSummary(summary Summary) error {
	if !s.loaded {
		if _, err := s.Load(); err != nil {
			return err
		}
	}
	if err := s.rewrite(s.rows, &summary); err != nil {
		return err
	}
	s.summary = &summary

	s.log.WithField(FieldCount, len(summary.Entries)).Debug("Saved summary")
	return nil
}

// rewrite builds a new workbook from rows and summary, copies every other
// sheet of the current one in its original order, and replaces the file at
// path. A nil summary means there is no Summary sheet.
func (s *XLSXStore) rewrite(rows []Row, summary *Summary) error {
	names := s.file.GetSheetList()
	if summary != nil && !slices.Contains(names, SummarySheet) {
		names = append(names, SummarySheet)
	}

	f := newLedgerWorkbook()
	if err := s.fillWorkbook(f, names, rows, summary); err != nil {
		f.Close()
		return err
	}
	if idx, err := f.GetSheetIndex(ExpensesSheet); err == nil && idx != -1 {
		f.SetActiveSheet(idx)
	}
	if err := f.SaveAs(s.path); err != nil {
		f.Close()
		return fmt.Errorf("saving workbook: %w", err)
	}

	if err := s.file.Close(); err != nil {
		s.log.WithError(err).Warn("Closing previous workbook failed")
	}
	s.file = f
	return nil
}

func (s *XLSXStore) fillWorkbook(f *excelize.File, names []string, rows []Row, summary *Summary) error {
	for i, name := range names {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
				return fmt.Errorf("naming sheet %s: %w", name, err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("creating sheet %s: %w", name, err)
		}

		var err error
		switch name {
		case ExpensesSheet:
			err = writeExpensesSheet(f, rows)
		case SummarySheet:
			var sum Summary
			if summary != nil {
				sum = *summary
			}
			err = writeSummarySheet(f, sum)
		default:
			err = copySheetValues(s.file, f, name)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *XLSXStore) Close() error {
	return s.file.Close()
}
