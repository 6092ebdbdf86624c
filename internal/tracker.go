package internal

import (
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// CategorySink is told the full category list after every registry change
type CategorySink func(categories []string) error

// Tracker applies mutations to the ledger and the category registry and
// persists the result. A mutation either fully applies or, when persisting
// fails, leaves both ledger and registry as they were.
type Tracker struct {
	store      Store
	ledger     *Ledger
	categories *Categories
	log        logrus.FieldLogger
	sink       CategorySink
}

type TrackerOption func(*Tracker)

func WithLogger(log logrus.FieldLogger) TrackerOption {
	return func(t *Tracker) {
		if log != nil {
			t.log = log
		}
	}
}

// WithCategorySink registers a callback that persists the registry
func WithCategorySink(sink CategorySink) TrackerOption {
	return func(t *Tracker) {
		t.sink = sink
	}
}

// NewTracker loads the ledger from store. The stored order is kept.
func NewTracker(store Store, categories *Categories, opts ...TrackerOption) (*Tracker, error) {
	t := &Tracker{
		store:      store,
		categories: categories,
		log:        discardLogger(),
	}
	for _, opt := range opts {
		opt(t)
	}

	expenses, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("loading ledger: %w", err)
	}
	t.ledger = NewLedger(expenses)

	t.log.WithField(FieldCount, t.ledger.Len()).Info("Ledger loaded")
	return t, nil
}

// Rows returns the current ledger rows
func (t *Tracker) Rows() []Row {
	return t.ledger.Rows()
}

// Total returns the running total of the whole ledger
func (t *Tracker) Total() decimal.Decimal {
	return t.ledger.Total()
}

// Categories returns the registered category names
func (t *Tracker) Categories() []string {
	return t.categories.List()
}

// AddExpenseInput validates raw user input and adds the resulting expense
func (t *Tracker) AddExpenseInput(date, category, amount string) (Expense, error) {
	d, err := ValidateDate(date)
	if err != nil {
		return Expense{}, err
	}
	if err := ValidateCategory(category, t.categories); err != nil {
		return Expense{}, err
	}
	a, err := ValidateAmount(amount)
	if err != nil {
		return Expense{}, err
	}

	e := NewExpense(d, category, a)
	return e, t.AddExpense(e)
}

// AddExpense adds one validated expense, keeping the ledger date-sorted
func (t *Tracker) AddExpense(e Expense) error {
	if err := ValidateExpense(e, t.categories); err != nil {
		return err
	}
	return t.mutate("add", func() error {
		t.ledger.Add(e)
		return nil
	}, logrus.Fields{FieldCategory: e.Category})
}

// ImportExpenses validates every expense first and adds none if any fails
func (t *Tracker) ImportExpenses(expenses []Expense) error {
	for i, e := range expenses {
		if err := ValidateExpense(e, t.categories); err != nil {
			return fmt.Errorf("expense %d (%s, %s): %w", i+1, e.Date.Format(DateLayout), e.Category, err)
		}
	}
	return t.mutate("import", func() error {
		t.ledger.AddAll(expenses)
		return nil
	}, logrus.Fields{FieldCount: len(expenses)})
}

// DeleteExpense removes the row with the given 1-based row number
func (t *Tracker) DeleteExpense(rowNumber int) (Row, error) {
	var removed Row
	err := t.mutate("delete", func() error {
		var err error
		removed, err = t.ledger.Delete(rowNumber)
		return err
	}, logrus.Fields{FieldRow: rowNumber})
	return removed, err
}

// AddCategory registers a new category
func (t *Tracker) AddCategory(name string) error {
	return t.mutate("add_category", func() error {
		return t.categories.Add(name)
	}, logrus.Fields{FieldCategory: name})
}

// ModifyCategory renames old to new in the registry and in every ledger row,
// then rebuilds the summary. Returns the number of rows recategorized.
func (t *Tracker) ModifyCategory(old, new string) (int, error) {
	new = strings.TrimSpace(new)
	changed := 0
	err := t.mutate("modify_category", func() error {
		if err := t.categories.Modify(old, new); err != nil {
			return err
		}
		changed = t.ledger.Recategorize(old, new)
		return nil
	}, logrus.Fields{FieldCategory: old, "new_category": new})
	if err != nil {
		return 0, err
	}
	if _, err := t.Summarize(); err != nil {
		return changed, err
	}
	return changed, nil
}

// RemoveCategory unregisters name and deletes every ledger row using it,
// then rebuilds the summary. Returns the number of rows removed.
func (t *Tracker) RemoveCategory(name string) (int, error) {
	removed := 0
	err := t.mutate("remove_category", func() error {
		if err := t.categories.Remove(name); err != nil {
			return err
		}
		removed = t.ledger.DeleteCategory(name)
		return nil
	}, logrus.Fields{FieldCategory: name})
	if err != nil {
		return 0, err
	}
	if _, err := t.Summarize(); err != nil {
		return removed, err
	}
	return removed, nil
}

// Summary returns the current per-category totals without storing them
func (t *Tracker) Summary() Summary {
	return t.ledger.Summary()
}

// Summarize rebuilds the per-category totals and replaces the stored summary
func (t *Tracker) Summarize() (Summary, error) {
	s := t.ledger.Summary()
	if err := t.store.SaveSummary(s); err != nil {
		return Summary{}, fmt.Errorf("saving summary: %w", err)
	}
	t.log.WithField(FieldCount, len(s.Entries)).Debug("Summary regenerated")
	return s, nil
}

func (t *Tracker) mutate(op string, apply func() error, fields logrus.Fields) error {
	rows := t.ledger.snapshot()
	names := t.categories.List()
	log := t.log.WithFields(fields).WithField(FieldOperation, op)

	if err := apply(); err != nil {
		t.ledger.restore(rows)
		t.categories.restore(names)
		log.WithError(err).Debug("Mutation rejected")
		return err
	}

	if err := t.persist(names); err != nil {
		t.ledger.restore(rows)
		t.categories.restore(names)
		if rerr := t.store.Save(rows); rerr != nil {
			log.WithError(rerr).Warn("Could not write back previous ledger")
		}
		log.WithError(err).Error("Persisting failed, changes reverted")
		return err
	}

	log.Info("Ledger updated")
	return nil
}

func (t *Tracker) persist(previousCategories []string) error {
	if err := t.store.Save(t.ledger.Rows()); err != nil {
		return fmt.Errorf("saving ledger: %w", err)
	}
	if t.sink != nil && !slices.Equal(previousCategories, t.categories.List()) {
		if err := t.sink(t.categories.List()); err != nil {
			return fmt.Errorf("saving categories: %w", err)
		}
	}
	return nil
}
