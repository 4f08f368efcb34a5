package models

import "strings"

// Reserved contact dataset columns used for channel discovery.
const (
	ColumnEmail = "email"
	ColumnPhone = "telephone"
)

// Contact is one row of an uploaded contact dataset: a loose mapping from
// column name to raw cell value. The dispatch engine never mutates a
// contact in place.
type Contact map[string]string

// Get returns the raw cell value for a column, or "" when absent.
func (c Contact) Get(column string) string {
	return c[column]
}

// Has reports whether the column exists on this record.
func (c Contact) Has(column string) bool {
	_, ok := c[column]
	return ok
}

// Email returns the trimmed value of the reserved email column.
func (c Contact) Email() string {
	return strings.TrimSpace(c[ColumnEmail])
}

// Phone returns the trimmed value of the reserved telephone column.
func (c Contact) Phone() string {
	return strings.TrimSpace(c[ColumnPhone])
}

// ContactList is an ordered contact dataset.
type ContactList []Contact
