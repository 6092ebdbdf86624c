package internal

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Shell is the interactive menu driving a Tracker from line-based input.
// End of input behaves like choosing Exit.
type Shell struct {
	tracker  *Tracker
	in       *bufio.Scanner
	out      io.Writer
	currency Currency
}

func NewShell(tracker *Tracker, in io.Reader, out io.Writer, currency Currency) *Shell {
	return &Shell{
		tracker:  tracker,
		in:       bufio.NewScanner(in),
		out:      out,
		currency: currency,
	}
}

// Run shows the main menu until the user exits or input ends.
// Only a failure to read input is returned.
func (s *Shell) Run() error {
	err := s.mainMenu()
	if errors.Is(err, io.EOF) {
		fmt.Fprintln(s.out)
		s.goodbye()
		return nil
	}
	return err
}

func (s *Shell) mainMenu() error {
	for {
		fmt.Fprintln(s.out, "\n........Expense Tracker Menu........")
		fmt.Fprintln(s.out, "1. Add Expense")
		fmt.Fprintln(s.out, "2. Delete Expense")
		fmt.Fprintln(s.out, "3. Category Management")
		fmt.Fprintln(s.out, "4. View Summary Report")
		fmt.Fprintln(s.out, "5. Exit")

		choice, err := s.prompt("Enter your choice (1-5): ")
		if err != nil {
			return err
		}

		switch choice {
		case "1":
			err = s.addExpenses()
		case "2":
			err = s.deleteExpense()
		case "3":
			err = s.categoryMenu()
		case "4":
			s.showSummary()
		case "5":
			s.goodbye()
			return nil
		default:
			fmt.Fprintln(s.out, "Invalid choice. Please select a valid option from the menu.")
		}
		if err != nil {
			return err
		}
	}
}

func (s *Shell) addExpenses() error {
	if len(s.tracker.Categories()) == 0 {
		fmt.Fprintln(s.out, "No categories registered. Add one under Category Management first.")
		return nil
	}

	for {
		date, err := s.promptValid("Enter the Date (YYYY-MM-DD): ", func(v string) error {
			_, err := ValidateDate(v)
			return err
		})
		if err != nil {
			return err
		}

		fmt.Fprintf(s.out, "Available Categories: %s\n", strings.Join(s.tracker.Categories(), ", "))
		category, err := s.promptValid("Enter the expense category: ", func(v string) error {
			return ValidateCategory(v, s.tracker.categories)
		})
		if err != nil {
			return err
		}

		amount, err := s.promptValid("Enter the amount spent: ", func(v string) error {
			_, err := ValidateAmount(v)
			return err
		})
		if err != nil {
			return err
		}

		if _, err := s.tracker.AddExpenseInput(date, category, amount); err != nil {
			s.report(err)
		} else {
			fmt.Fprintln(s.out, "Expense added successfully and sorted by date!")
		}

		cont, err := s.prompt("Do you want to add another expense? (yes/no): ")
		if err != nil {
			return err
		}
		if strings.ToLower(cont) != "yes" {
			fmt.Fprintln(s.out, "Expenses Added! Check them out in the ledger.")
			return nil
		}
	}
}

func (s *Shell) deleteExpense() error {
	rows := s.tracker.Rows()
	PrintLedgerTable(s.out, rows, s.currency)
	if len(rows) == 0 {
		return nil
	}

	input, err := s.prompt("Enter the row number to be removed: ")
	if err != nil {
		return err
	}
	rowNumber, err := strconv.Atoi(input)
	if err != nil {
		fmt.Fprintln(s.out, "Invalid input. Please enter a numeric row number.")
		return nil
	}

	if _, err := s.tracker.DeleteExpense(rowNumber); err != nil {
		s.report(err)
		return nil
	}
	fmt.Fprintf(s.out, "Row %d deleted successfully and totals recalculated.\n", rowNumber)

	s.regenerateSummary()
	return nil
}

func (s *Shell) categoryMenu() error {
	for {
		fmt.Fprintln(s.out, "\n----Category Management----")
		fmt.Fprintln(s.out, "1. Add Category")
		fmt.Fprintln(s.out, "2. Modify Category")
		fmt.Fprintln(s.out, "3. Remove Category")
		fmt.Fprintln(s.out, "4. Back to Main Menu")

		choice, err := s.prompt("Enter your choice: ")
		if err != nil {
			return err
		}

		switch choice {
		case "1":
			err = s.addCategory()
		case "2":
			err = s.modifyCategory()
		case "3":
			err = s.removeCategory()
		case "4":
			return nil
		default:
			fmt.Fprintln(s.out, "Invalid choice. Please try again.")
		}
		if err != nil {
			return err
		}
	}
}

func (s *Shell) addCategory() error {
	name, err := s.prompt("Enter the new category: ")
	if err != nil {
		return err
	}

	switch err := s.tracker.AddCategory(name); {
	case errors.Is(err, ErrCategoryExists):
		fmt.Fprintf(s.out, "Category '%s' already exists.\n", name)
	case err != nil:
		s.report(err)
	default:
		fmt.Fprintf(s.out, "Category '%s' added successfully.\n", name)
		s.regenerateSummary()
	}
	return nil
}

func (s *Shell) modifyCategory() error {
	PrintCategories(s.out, s.tracker.Categories())
	old, err := s.prompt("Enter the category to modify: ")
	if err != nil {
		return err
	}
	name, err := s.prompt("Enter the new name for the category: ")
	if err != nil {
		return err
	}

	changed, err := s.tracker.ModifyCategory(old, name)
	switch {
	case errors.Is(err, ErrUnknownCategory):
		fmt.Fprintf(s.out, "Category '%s' does not exist.\n", old)
	case err != nil:
		s.report(err)
	default:
		fmt.Fprintf(s.out, "Category '%s' modified to '%s'.\n", old, name)
		fmt.Fprintf(s.out, "%d expense(s) recategorized. Summary with charts generated successfully!\n", changed)
	}
	return nil
}

func (s *Shell) removeCategory() error {
	PrintCategories(s.out, s.tracker.Categories())
	name, err := s.prompt("Enter the category to remove: ")
	if err != nil {
		return err
	}

	removed, err := s.tracker.RemoveCategory(name)
	switch {
	case errors.Is(err, ErrUnknownCategory):
		fmt.Fprintf(s.out, "Category '%s' does not exist.\n", name)
	case err != nil:
		s.report(err)
	default:
		fmt.Fprintf(s.out, "All expenses under the category '%s' have been deleted (%d).\n", name, removed)
		fmt.Fprintf(s.out, "Category '%s' removed successfully.\n", name)
	}
	return nil
}

func (s *Shell) showSummary() {
	summary, err := s.tracker.Summarize()
	if err != nil {
		s.report(err)
		return
	}
	PrintSummaryTable(s.out, summary, s.currency)
	fmt.Fprintln(s.out, "Summary with charts generated successfully!")
}

func (s *Shell) regenerateSummary() {
	if _, err := s.tracker.Summarize(); err != nil {
		s.report(err)
		return
	}
	fmt.Fprintln(s.out, "Summary with charts generated successfully!")
}

func (s *Shell) goodbye() {
	fmt.Fprintln(s.out, "Thank you for using the Expense Tracker! Goodbye!")
}

// prompt writes label and reads one trimmed line. io.EOF signals end of input.
func (s *Shell) prompt(label string) (string, error) {
	fmt.Fprint(s.out, label)
	if !s.in.Scan() {
		if err := s.in.Err(); err != nil {
			return "", fmt.Errorf("reading input: %w", err)
		}
		return "", io.EOF
	}
	return strings.TrimSpace(s.in.Text()), nil
}

// promptValid re-prompts until validate accepts the input
func (s *Shell) promptValid(label string, validate func(string) error) (string, error) {
	for {
		v, err := s.prompt(label)
		if err != nil {
			return "", err
		}
		if err := validate(v); err != nil {
			s.report(err)
			continue
		}
		return v, nil
	}
}

func (s *Shell) report(err error) {
	fmt.Fprintln(s.out, describe(err))
}

// describe turns an error into the message shown to the user
func describe(err error) string {
	switch {
	case errors.Is(err, ErrInvalidDate):
		return "Incorrect date format. Please use YYYY-MM-DD."
	case errors.Is(err, ErrInvalidCategory):
		return "Invalid category. Please choose from the list."
	case errors.Is(err, ErrInvalidAmount):
		return "Invalid expense amount. Please enter a number."
	case errors.Is(err, ErrNonPositiveAmount):
		return "Expense amount must be positive."
	case errors.Is(err, ErrRowOutOfRange):
		return "Invalid row number. Please enter a valid row."
	case errors.Is(err, ErrBlankCategory):
		return "Category name cannot be empty."
	case errors.Is(err, ErrCategoryExists):
		return "Category already exists."
	case errors.Is(err, ErrUnknownCategory):
		return "Category does not exist."
	default:
		return fmt.Sprintf("Error: %v", err)
	}
}
