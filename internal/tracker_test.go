package internal

import (
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryStore is an in-memory Store that can be told to fail
type memoryStore struct {
	expenses    []Expense
	saved       []Row
	summary     *Summary
	saves       int
	summaries   int
	failSave    bool
	failSummary bool
}

var errDiskFull = errors.New("disk full")

func (m *memoryStore) Load() ([]Expense, error) {
	return m.expenses, nil
}

func (m *memoryStore) Save(rows []Row) error {
	if m.failSave {
		return errDiskFull
	}
	m.saves++
	m.saved = rows
	return nil
}

func (m *memoryStore) SaveSummary(s Summary) error {
	if m.failSummary {
		return errDiskFull
	}
	m.summaries++
	m.summary = &s
	return nil
}

func (m *memoryStore) Close() error {
	return nil
}

func newTestTracker(t *testing.T, store *memoryStore, categories ...string) *Tracker {
	t.Helper()
	if len(categories) == 0 {
		categories = DefaultCategories
	}
	tr, err := NewTracker(store, NewCategories(categories))
	require.NoError(t, err)
	return tr
}

func TestTracker_AddExpensePersists(t *testing.T) {
	store := &memoryStore{}
	tr := newTestTracker(t, store)

	require.NoError(t, tr.AddExpense(expense("2024-03-01", "Food", "20")))
	require.NoError(t, tr.AddExpense(expense("2024-02-15", "Transport", "10")))

	assert.Equal(t, 2, store.saves)
	require.Len(t, store.saved, 2)
	assert.Equal(t, "Transport", store.saved[0].Category)
	assert.True(t, store.saved[1].Total.Equal(dec("30")))
	assert.True(t, tr.Total().Equal(dec("30")))
}

func TestTracker_AddExpenseInput(t *testing.T) {
	tests := []struct {
		name                   string
		date, category, amount string
		wantErr                error
	}{
		{"valid", "2024-01-01", "Food", "12,5", nil},
		{"bad date", "2024-13-01", "Food", "1", ErrInvalidDate},
		{"bad category", "2024-01-01", "Yachts", "1", ErrInvalidCategory},
		{"bad amount", "2024-01-01", "Food", "x", ErrInvalidAmount},
		{"zero amount", "2024-01-01", "Food", "0", ErrNonPositiveAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &memoryStore{}
			tr := newTestTracker(t, store)

			e, err := tr.AddExpenseInput(tt.date, tt.category, tt.amount)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, tr.Rows())
				assert.Equal(t, 0, store.saves)
				return
			}
			require.NoError(t, err)
			assert.True(t, e.Amount.Equal(dec("12.5")))
			assert.Len(t, tr.Rows(), 1)
		})
	}
}

func TestTracker_SaveFailureRestoresState(t *testing.T) {
	store := &memoryStore{expenses: []Expense{expense("2024-01-01", "Food", "10")}}
	tr := newTestTracker(t, store)
	before := tr.Rows()

	store.failSave = true

	err := tr.AddExpense(expense("2024-01-02", "Food", "5"))
	assert.ErrorIs(t, err, errDiskFull)
	assert.Equal(t, before, tr.Rows())

	_, err = tr.DeleteExpense(1)
	assert.ErrorIs(t, err, errDiskFull)
	assert.Equal(t, before, tr.Rows())

	_, err = tr.RemoveCategory("Food")
	assert.ErrorIs(t, err, errDiskFull)
	assert.Equal(t, before, tr.Rows())
	assert.Contains(t, tr.Categories(), "Food")

	_, err = tr.ModifyCategory("Food", "Dining")
	assert.ErrorIs(t, err, errDiskFull)
	assert.Equal(t, "Food", tr.Rows()[0].Category)
	assert.Equal(t, DefaultCategories, tr.Categories())
}

func TestTracker_CategorySinkFailureRestoresState(t *testing.T) {
	store := &memoryStore{}
	tr, err := NewTracker(store, NewCategories([]string{"Food"}),
		WithCategorySink(func([]string) error { return errDiskFull }))
	require.NoError(t, err)

	assert.ErrorIs(t, tr.AddCategory("Books"), errDiskFull)
	assert.Equal(t, []string{"Food"}, tr.Categories())
}

func TestTracker_CategorySinkCalledOnRegistryChangeOnly(t *testing.T) {
	var calls [][]string
	store := &memoryStore{}
	tr, err := NewTracker(store, NewCategories([]string{"Food"}),
		WithCategorySink(func(c []string) error {
			calls = append(calls, c)
			return nil
		}))
	require.NoError(t, err)

	require.NoError(t, tr.AddExpense(expense("2024-01-01", "Food", "1")))
	assert.Empty(t, calls)

	require.NoError(t, tr.AddCategory("Books"))
	require.Len(t, calls, 1)
	assert.Equal(t, []string{"Food", "Books"}, calls[0])
}

func TestTracker_DeleteExpense(t *testing.T) {
	store := &memoryStore{expenses: []Expense{
		expense("2024-01-01", "Food", "10"),
		expense("2024-01-02", "Food", "20"),
	}}
	tr := newTestTracker(t, store)

	removed, err := tr.DeleteExpense(1)
	require.NoError(t, err)
	assert.True(t, removed.Amount.Equal(dec("10")))
	require.Len(t, store.saved, 1)
	assert.True(t, store.saved[0].Total.Equal(dec("20")))

	_, err = tr.DeleteExpense(5)
	assert.ErrorIs(t, err, ErrRowOutOfRange)
	assert.Equal(t, 1, store.saves)
}

func TestTracker_ImportIsAllOrNothing(t *testing.T) {
	store := &memoryStore{}
	tr := newTestTracker(t, store)

	err := tr.ImportExpenses([]Expense{
		expense("2024-01-01", "Food", "1"),
		expense("2024-01-02", "Yachts", "2"),
	})
	assert.ErrorIs(t, err, ErrInvalidCategory)
	assert.Empty(t, tr.Rows())
	assert.Equal(t, 0, store.saves)

	require.NoError(t, tr.ImportExpenses([]Expense{
		expense("2024-02-01", "Food", "1"),
		expense("2024-01-01", "Transport", "2"),
	}))
	assert.Equal(t, 1, store.saves, "an import saves once")
	assert.Equal(t, "Transport", tr.Rows()[0].Category)
}

func TestTracker_ModifyCategoryCascades(t *testing.T) {
	store := &memoryStore{expenses: []Expense{
		expense("2024-01-01", "Food", "12"),
		expense("2024-01-02", "Transport", "3"),
		expense("2024-01-03", "Food", "8"),
	}}
	tr := newTestTracker(t, store)

	changed, err := tr.ModifyCategory("Food", " Dining ")
	require.NoError(t, err)
	assert.Equal(t, 2, changed)

	assert.Contains(t, tr.Categories(), "Dining")
	assert.NotContains(t, tr.Categories(), "Food")

	require.NotNil(t, store.summary)
	totals := summaryMap(*store.summary)
	assert.True(t, totals["Dining"].Equal(dec("20")))
	_, hasFood := totals["Food"]
	assert.False(t, hasFood)

	_, err = tr.ModifyCategory("Food", "Dining")
	assert.ErrorIs(t, err, ErrUnknownCategory)
}

func TestTracker_ModifyCategoryMergesIntoExisting(t *testing.T) {
	store := &memoryStore{expenses: []Expense{
		expense("2024-01-01", "Food", "1"),
		expense("2024-01-02", "Groceries", "2"),
	}}
	tr := newTestTracker(t, store, "Food", "Groceries")

	_, err := tr.ModifyCategory("Food", "Groceries")
	require.NoError(t, err)

	assert.Equal(t, []string{"Groceries"}, tr.Categories())
	assert.True(t, summaryMap(*store.summary)["Groceries"].Equal(dec("3")))
}

func TestTracker_RemoveCategoryCascades(t *testing.T) {
	store := &memoryStore{expenses: []Expense{
		expense("2024-01-01", "Food", "1"),
		expense("2024-01-02", "Transport", "2"),
		expense("2024-01-03", "Food", "4"),
	}}
	tr := newTestTracker(t, store)

	removed, err := tr.RemoveCategory("Food")
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	rows := tr.Rows()
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Total.Equal(dec("2")))
	assert.NotContains(t, tr.Categories(), "Food")
	assert.Equal(t, 1, store.summaries)

	_, err = tr.RemoveCategory("Food")
	assert.ErrorIs(t, err, ErrUnknownCategory)
}

func TestTracker_AddCategory(t *testing.T) {
	tr := newTestTracker(t, &memoryStore{}, "Food")

	require.NoError(t, tr.AddCategory("Books"))
	assert.ErrorIs(t, tr.AddCategory("Books"), ErrCategoryExists)
	assert.ErrorIs(t, tr.AddCategory(""), ErrBlankCategory)
	assert.Equal(t, []string{"Food", "Books"}, tr.Categories())
}

func TestTracker_SummarizeIsIdempotent(t *testing.T) {
	store := &memoryStore{expenses: []Expense{
		expense("2024-01-01", "Food", "1.1"),
		expense("2024-01-02", "Transport", "2.2"),
	}}
	tr := newTestTracker(t, store)

	first, err := tr.Summarize()
	require.NoError(t, err)
	second, err := tr.Summarize()
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 2, store.summaries)

	store.failSummary = true
	_, err = tr.Summarize()
	assert.ErrorIs(t, err, errDiskFull)
}

func TestTracker_LogsMutations(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	tr, err := NewTracker(&memoryStore{}, NewCategories(DefaultCategories), WithLogger(logger))
	require.NoError(t, err)
	hook.Reset()

	require.NoError(t, tr.AddExpense(expense("2024-01-01", "Food", "1")))

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "Ledger updated", entry.Message)
	assert.Equal(t, "add", entry.Data[FieldOperation])
	assert.Equal(t, "Food", entry.Data[FieldCategory])
}
