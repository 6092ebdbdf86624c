package internal

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps the ledger in the expenses table and the summary in the
// summary table of a SQLite database. Charts cannot live in a database, so
// SaveSummary also writes a companion workbook next to it.
type SQLiteStore struct {
	path string
	db   *sql.DB
	log  logrus.FieldLogger
}

// OpenSQLiteStore opens (creating when absent) the database at path and
// migrates it to the current schema
func OpenSQLiteStore(path string, log logrus.FieldLogger) (*SQLiteStore, error) {
	if log == nil {
		log = discardLogger()
	}
	log = log.WithField(FieldFile, path)

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(path); err != nil {
		db.Close()
		return nil, err
	}

	log.Debug("Opened ledger database")
	return &SQLiteStore{path: path, db: db, log: log}, nil
}

func (s *SQLiteStore) Load() ([]Expense, error) {
	rows, err := s.db.Query(`SELECT position, date, category, amount FROM expenses ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	defer rows.Close()

	var expenses []Expense
	for rows.Next() {
		var (
			position                  int
			dateStr, category, amount string
		)
		if err := rows.Scan(&position, &dateStr, &category, &amount); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}

		date, err := time.Parse(DateLayout, dateStr)
		if err != nil {
			return nil, fmt.Errorf("row %d: parsing date %q: %w", position, dateStr, err)
		}
		value, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("row %d: parsing amount %q: %w", position, amount, err)
		}
		if err := validateStoredRow(category, value); err != nil {
			return nil, fmt.Errorf("row %d: %w", position, err)
		}

		expenses = append(expenses, NewExpense(date, category, value))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}

	s.log.WithField(FieldCount, len(expenses)).Debug("Loaded ledger")
	return expenses, nil
}

func (s *SQLiteStore) Save(rows []Row) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM expenses`); err != nil {
		return fmt.Errorf("clear expenses: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO expenses (position, date, category, amount, total) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range rows {
		if _, err := stmt.Exec(i+1, r.Date.Format(DateLayout), r.Category, r.Amount.String(), r.Total.String()); err != nil {
			return fmt.Errorf("insert expense %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit expenses: %w", err)
	}

	s.log.WithField(FieldCount, len(rows)).Debug("Saved ledger")
	return nil
}

func (s *SQLiteStore) SaveSummary(summary Summary) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM summary`); err != nil {
		return fmt.Errorf("clear summary: %w", err)
	}
	for i, e := range summary.Entries {
		if _, err := tx.Exec(`INSERT INTO summary (position, category, total_amount) VALUES (?, ?, ?)`,
			i+1, e.Category, e.Total.String()); err != nil {
			return fmt.Errorf("insert summary %q: %w", e.Category, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit summary: %w", err)
	}

	if err := s.writeChartWorkbook(summary); err != nil {
		return err
	}

	s.log.WithField(FieldCount, len(summary.Entries)).Debug("Saved summary")
	return nil
}

func (s *SQLiteStore) writeChartWorkbook(summary Summary) error {
	f, err := summaryWorkbook(summary)
	if err != nil {
		return err
	}
	defer f.Close()

	path := s.ChartPath()
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving summary workbook %s: %w", path, err)
	}
	return nil
}

// ChartPath is where SaveSummary writes the summary charts
func (s *SQLiteStore) ChartPath() string {
	return strings.TrimSuffix(s.path, filepath.Ext(s.path)) + "-summary.xlsx"
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
