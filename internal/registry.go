package internal

import (
	"errors"
	"slices"
	"strings"
)

var (
	ErrCategoryExists  = errors.New("category already exists")
	ErrUnknownCategory = errors.New("category does not exist")
	ErrBlankCategory   = errors.New("category name is empty")
)

// DefaultCategories seeds the registry when no config provides one
var DefaultCategories = []string{"Food", "Transport", "Entertainment", "Groceries", "Others"}

// Categories is the insertion-ordered set of allowed category labels.
// It is independent of the ledger; cascading changes into ledger rows is
// done by the Tracker.
type Categories struct {
	names []string
}

// NewCategories creates a registry from names, dropping blanks and duplicates
func NewCategories(names []string) *Categories {
	c := &Categories{}
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" || c.Contains(n) {
			continue
		}
		c.names = append(c.names, n)
	}
	return c
}

// Contains reports whether name is registered
func (c *Categories) Contains(name string) bool {
	return slices.Contains(c.names, name)
}

// List returns a copy of the registered names in insertion order
func (c *Categories) List() []string {
	return slices.Clone(c.names)
}

// Add appends name unless it is already registered
func (c *Categories) Add(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrBlankCategory
	}
	if c.Contains(name) {
		return ErrCategoryExists
	}
	c.names = append(c.names, name)
	return nil
}

// Modify renames old to new in place. If new is already registered the
// entries are merged so the registry never holds duplicates.
func (c *Categories) Modify(old, new string) error {
	new = strings.TrimSpace(new)
	if new == "" {
		return ErrBlankCategory
	}
	idx := slices.Index(c.names, old)
	if idx == -1 {
		return ErrUnknownCategory
	}
	if old == new {
		return nil
	}
	if c.Contains(new) {
		c.names = slices.Delete(c.names, idx, idx+1)
		return nil
	}
	c.names[idx] = new
	return nil
}

// Remove deletes name from the registry
func (c *Categories) Remove(name string) error {
	idx := slices.Index(c.names, name)
	if idx == -1 {
		return ErrUnknownCategory
	}
	c.names = slices.Delete(c.names, idx, idx+1)
	return nil
}

func (c *Categories) restore(names []string) {
	c.names = names
}
