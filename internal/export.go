package internal

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"github.com/sirupsen/logrus"
)

const (
	LedgerCSV  = "ledger.csv"
	SummaryCSV = "summary.csv"
)

type ledgerRecord struct {
	Date     string `csv:"Date"`
	Category string `csv:"Category"`
	Amount   string `csv:"Amount"`
	Total    string `csv:"Total"`
}

type summaryRecord struct {
	Category string `csv:"Category"`
	Total    string `csv:"Total Amount"`
}

// ExportCSV writes ledger.csv and summary.csv into dir, creating it if needed
func ExportCSV(dir string, rows []Row, summary Summary, log logrus.FieldLogger) error {
	if log == nil {
		log = discardLogger()
	}

	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("creating export directory: %w", err)
	}

	ledger := make([]ledgerRecord, 0, len(rows))
	for _, r := range rows {
		ledger = append(ledger, ledgerRecord{
			Date:     r.Date.Format(DateLayout),
			Category: r.Category,
			Amount:   r.Amount.StringFixed(2),
			Total:    r.Total.StringFixed(2),
		})
	}
	if err := writeCSV(filepath.Join(dir, LedgerCSV), &ledger); err != nil {
		return err
	}

	totals := make([]summaryRecord, 0, len(summary.Entries))
	for _, e := range summary.Entries {
		totals = append(totals, summaryRecord{
			Category: e.Category,
			Total:    e.Total.StringFixed(2),
		})
	}
	if err := writeCSV(filepath.Join(dir, SummaryCSV), &totals); err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		FieldFile:  dir,
		FieldCount: len(rows),
	}).Info("Exported ledger to CSV")
	return nil
}

func writeCSV(path string, records any) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer file.Close()

	if err := gocsv.MarshalFile(records, file); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
