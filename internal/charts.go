package internal

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	SummarySheet = "Summary"

	pieChartTitle = "Expense Distribution by Category"
	barChartTitle = "Total Expenses per Category"
	pieChartCell  = "D2"
	barChartCell  = "D20"
)

// writeSummarySheet writes s into the Summary sheet of f, creating the sheet
// when missing, and adds both charts. f must not hold earlier summary charts.
// An empty summary gets the header only.
func writeSummarySheet(f *excelize.File, s Summary) error {
	if _, err := f.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("creating summary sheet: %w", err)
	}

	styles, err := newSheetStyles(f)
	if err != nil {
		return err
	}

	_ = f.SetColWidth(SummarySheet, "A", "A", 20)
	_ = f.SetColWidth(SummarySheet, "B", "B", 15)

	if err := f.SetSheetRow(SummarySheet, "A1", &[]any{"Category", "Total Amount"}); err != nil {
		return fmt.Errorf("writing summary header: %w", err)
	}
	_ = f.SetCellStyle(SummarySheet, cell('A', 1), cell('A', 1), styles.header)
	_ = f.SetCellStyle(SummarySheet, cell('B', 1), cell('B', 1), styles.headerAmount)

	for i, e := range s.Entries {
		row := i + 2
		if err := f.SetCellStr(SummarySheet, cell('A', row), e.Category); err != nil {
			return fmt.Errorf("writing summary row %d: %w", row, err)
		}
		if err := setAmountCell(f, SummarySheet, cell('B', row), e.Total); err != nil {
			return fmt.Errorf("writing summary row %d: %w", row, err)
		}
	}

	if len(s.Entries) == 0 {
		return nil
	}

	last := len(s.Entries) + 1
	_ = f.SetCellStyle(SummarySheet, cell('B', 2), cell('B', last), styles.amount)

	return addSummaryCharts(f, last)
}

// readSummarySheet reads back the category totals of the Summary sheet.
// Rows without a category or a numeric total are skipped.
func readSummarySheet(f *excelize.File) (Summary, error) {
	rows, err := f.GetRows(SummarySheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return Summary{}, fmt.Errorf("reading summary sheet: %w", err)
	}

	var s Summary
	for i := 1; i < len(rows); i++ {
		if len(rows[i]) < 2 || strings.TrimSpace(rows[i][0]) == "" {
			continue
		}
		total, err := decimal.NewFromString(strings.TrimSpace(rows[i][1]))
		if err != nil {
			continue
		}
		s.Entries = append(s.Entries, CategoryTotal{Category: strings.TrimSpace(rows[i][0]), Total: total})
	}
	return s, nil
}

func addSummaryCharts(f *excelize.File, lastRow int) error {
	series := []excelize.ChartSeries{
		{
			Name:       fmt.Sprintf("%s!$B$1", SummarySheet),
			Categories: fmt.Sprintf("%s!$A$2:$A$%d", SummarySheet, lastRow),
			Values:     fmt.Sprintf("%s!$B$2:$B$%d", SummarySheet, lastRow),
		},
	}

	pie := &excelize.Chart{
		Type:   excelize.Pie,
		Series: series,
		Title:  []excelize.RichTextRun{{Text: pieChartTitle}},
		Legend: excelize.ChartLegend{Position: "right"},
		PlotArea: excelize.ChartPlotArea{
			ShowPercent: true,
		},
	}
	if err := f.AddChart(SummarySheet, pieChartCell, pie); err != nil {
		return fmt.Errorf("adding pie chart: %w", err)
	}

	bar := &excelize.Chart{
		Type:   excelize.Col,
		Series: series,
		Title:  []excelize.RichTextRun{{Text: barChartTitle}},
		Legend: excelize.ChartLegend{Position: "none"},
		XAxis: excelize.ChartAxis{
			Title: []excelize.RichTextRun{{Text: "Category"}},
		},
		YAxis: excelize.ChartAxis{
			Title: []excelize.RichTextRun{{Text: "Amount"}},
		},
	}
	if err := f.AddChart(SummarySheet, barChartCell, bar); err != nil {
		return fmt.Errorf("adding bar chart: %w", err)
	}

	return nil
}

// summaryWorkbook builds a standalone workbook holding only the Summary sheet
func summaryWorkbook(s Summary) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), SummarySheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("naming summary sheet: %w", err)
	}
	if err := writeSummarySheet(f, s); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}
