package internal

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

const (
	BackendXLSX   = "xlsx"
	BackendSQLite = "sqlite"
)

// Store persists the ledger and its summary table.
// Save and SaveSummary rewrite their table wholesale.
type Store interface {
	// Load returns the stored expenses in stored order
	Load() ([]Expense, error)
	// Save replaces the stored ledger with rows
	Save(rows []Row) error
	// SaveSummary deletes any previous summary table and writes s with its charts
	SaveSummary(s Summary) error
	Close() error
}

// AvailableBackends lists the storage backends OpenStore understands
func AvailableBackends() []string {
	return []string{BackendXLSX, BackendSQLite}
}

// OpenStore opens (creating when absent) the store for backend at path
func OpenStore(backend, path string, log logrus.FieldLogger) (Store, error) {
	if log == nil {
		log = discardLogger()
	}
	log = log.WithField(FieldBackend, backend)

	switch backend {
	case BackendXLSX, "":
		s, err := OpenXLSXStore(path, log)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendSQLite:
		s, err := OpenSQLiteStore(path, log)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown backend: %s (available: %v)", backend, AvailableBackends())
	}
}
