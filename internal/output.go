package internal

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/shopspring/decimal"
)

// JSONSummaryOutput is the root JSON output object of --summary --output json
type JSONSummaryOutput struct {
	Categories []JSONCategoryTotal `json:"categories"`
	Total      decimal.Decimal     `json:"total"`
	Count      int                 `json:"count"`
	Currency   string              `json:"currency"`
}

type JSONCategoryTotal struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
	Share    decimal.Decimal `json:"share"` // percent of the grand total
}

// PrintSummaryJSON outputs the summary in JSON format
func PrintSummaryJSON(w io.Writer, s Summary, rowCount int, currency Currency) error {
	total := s.Total()
	categories := make([]JSONCategoryTotal, 0, len(s.Entries))
	for _, e := range s.Entries {
		categories = append(categories, JSONCategoryTotal{
			Category: e.Category,
			Total:    e.Total,
			Share:    share(e.Total, total),
		})
	}

	output := JSONSummaryOutput{
		Categories: categories,
		Total:      total,
		Count:      rowCount,
		Currency:   currency.Code,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(output)
}

func share(part, total decimal.Decimal) decimal.Decimal {
	if total.IsZero() {
		return decimal.Zero
	}
	return part.Div(total).Mul(decimal.NewFromInt(100)).Round(1)
}

// PrintLedgerTable outputs the ledger with the row numbers used by delete
func PrintLedgerTable(w io.Writer, rows []Row, currency Currency) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "No expenses recorded yet.")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"#", "Date", "Category", "Amount", "Total"})

	for i, r := range rows {
		t.AppendRow(table.Row{
			i + 1,
			r.Date.Format(DateLayout),
			r.Category,
			currency.Format(r.Amount),
			currency.Format(r.Total),
		})
	}

	t.AppendSeparator()
	t.AppendFooter(table.Row{"", "", "", text.Bold.Sprint("Total"), text.Bold.Sprint(currency.Format(rows[len(rows)-1].Total))})

	t.SetStyle(table.StyleRounded)
	t.Style().Format.Header = text.FormatDefault
	t.Style().Format.Footer = text.FormatDefault
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})
	t.Render()
}

// PrintSummaryTable outputs per-category totals with their share of the whole
func PrintSummaryTable(w io.Writer, s Summary, currency Currency) {
	if len(s.Entries) == 0 {
		fmt.Fprintln(w, "No expenses to summarize.")
		return
	}

	total := s.Total()

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Category", "Total Amount", "Share"})
	for _, e := range s.Entries {
		t.AppendRow(table.Row{
			e.Category,
			currency.Format(e.Total),
			share(e.Total, total).StringFixed(1) + "%",
		})
	}
	t.AppendSeparator()
	t.AppendFooter(table.Row{text.Bold.Sprint("Total"), text.Bold.Sprint(currency.Format(total)), ""})

	t.SetStyle(table.StyleRounded)
	t.Style().Format.Header = text.FormatDefault
	t.Style().Format.Footer = text.FormatDefault
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
	})
	t.Render()
}

// PrintCategories lists the registered categories, numbered
func PrintCategories(w io.Writer, categories []string) {
	fmt.Fprintln(w, "Available categories:")
	for i, c := range categories {
		fmt.Fprintf(w, "  %d. %s\n", i+1, c)
	}
}
