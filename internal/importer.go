package internal

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
)

// Importer reads expenses from a file
type Importer interface {
	Import(path string) ([]Expense, error)
}

// ImporterFunc is a function that implements Importer
type ImporterFunc func(path string) ([]Expense, error)

func (f ImporterFunc) Import(path string) ([]Expense, error) {
	return f(path)
}

// importers is the registry of available import formats
var importers = map[string]Importer{}

// extensions maps file extensions to the format used when no prefix is given
var extensions = map[string]string{}

// RegisterImporter registers an importer under name, optionally claiming file extensions
func RegisterImporter(name string, imp Importer, exts ...string) {
	importers[name] = imp
	for _, ext := range exts {
		extensions[strings.ToLower(ext)] = name
	}
}

// GetImporter returns the importer for the given format
func GetImporter(format string) (Importer, error) {
	imp, ok := importers[format]
	if !ok {
		return nil, fmt.Errorf("unknown import format: %s (available: %v)", format, AvailableFormats())
	}
	return imp, nil
}

// AvailableFormats returns the registered format names, sorted
func AvailableFormats() []string {
	var formats []string
	for name := range importers {
		formats = append(formats, name)
	}
	slices.Sort(formats)
	return formats
}

// IsKnownFormat returns true if the name is a registered format
func IsKnownFormat(name string) bool {
	_, ok := importers[name]
	return ok
}

// ParseFileArg parses a file argument that may have a format prefix.
// Returns (format, path). Without a valid prefix the format is inferred
// from the file extension, or left empty when that is unknown too.
// Example: "csv:data.txt" → ("csv", "data.txt")
// Example: "data.json" → ("simple-json", "data.json")
// Example: "C:\path\file.xlsx" → ("xlsx", "C:\path\file.xlsx")
func ParseFileArg(arg string) (format, path string) {
	if idx := strings.Index(arg, ":"); idx != -1 {
		prefix := arg[:idx]
		if IsKnownFormat(prefix) {
			return prefix, arg[idx+1:]
		}
	}
	return extensions[strings.ToLower(filepath.Ext(arg))], arg
}

// ImportFile resolves the format of arg and reads its expenses
func ImportFile(arg string) ([]Expense, error) {
	format, path := ParseFileArg(arg)
	if format == "" {
		return nil, fmt.Errorf("cannot infer import format of %s, use a prefix like csv:%s (available: %v)", path, path, AvailableFormats())
	}
	imp, err := GetImporter(format)
	if err != nil {
		return nil, err
	}
	expenses, err := imp.Import(path)
	if err != nil {
		return nil, fmt.Errorf("importing %s as %s: %w", path, format, err)
	}
	return expenses, nil
}

// parseEntry validates the textual fields every import format shares
func parseEntry(date, category, amount string) (Expense, error) {
	d, err := ValidateDate(date)
	if err != nil {
		return Expense{}, fmt.Errorf("date %q: %w", date, err)
	}
	a, err := ValidateAmount(amount)
	if err != nil {
		return Expense{}, fmt.Errorf("amount %q: %w", amount, err)
	}
	return NewExpense(d, strings.TrimSpace(category), a), nil
}

func init() {
	RegisterImporter("simple-json", ImporterFunc(ImportSimpleJSON), ".json")
	RegisterImporter("csv", ImporterFunc(ImportCSV), ".csv")
	RegisterImporter("xlsx", ImporterFunc(ImportXLSX), ".xlsx")
}
