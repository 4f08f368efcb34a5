// Package contacts loads uploaded contact datasets and inspects which
// channels they can feed.
package contacts

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/ulrichyv/mailing/internal/models"
	"github.com/ulrichyv/mailing/internal/validator"
)

// ParseCSV reads a contact dataset from CSV. The first row is the header;
// every following row becomes one Contact keyed by the header columns.
// Short rows are tolerated (missing cells read as empty).
func ParseCSV(r io.Reader) (models.ContactList, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, models.ErrInvalidInput("contact file is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read contact file header: %w", err)
	}

	for i, col := range header {
		header[i] = strings.TrimSpace(col)
	}

	list := models.ContactList{}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read contact row %d: %w", len(list)+2, err)
		}

		contact := make(models.Contact, len(header))
		for i, col := range header {
			if col == "" {
				continue
			}
			if i < len(row) {
				contact[col] = row[i]
			} else {
				contact[col] = ""
			}
		}
		list = append(list, contact)
	}

	return list, nil
}

// Stats describes a dataset's channel eligibility.
type Stats struct {
	Total         int      `json:"total"`
	EmailEligible int      `json:"email_eligible"`
	SMSEligible   int      `json:"sms_eligible"`
	InvalidPhones []string `json:"invalid_phones,omitempty"`
	Columns       []string `json:"columns"`
}

// HasChannel reports whether the dataset can feed the given channel.
func (s *Stats) HasChannel(ch models.Channel) bool {
	switch ch {
	case models.ChannelEmail:
		return s.EmailEligible > 0
	case models.ChannelSMS:
		return s.SMSEligible > 0
	default:
		return false
	}
}

// Inspect computes per-channel eligibility for a dataset: a record is
// email-eligible iff its email cell is non-empty, SMS-eligible iff its
// telephone cell is a valid Cameroonian number. Non-empty but invalid
// phone numbers are collected for display.
func Inspect(list models.ContactList) *Stats {
	stats := &Stats{Total: len(list)}

	columns := map[string]bool{}
	for _, contact := range list {
		for col := range contact {
			if !columns[col] {
				columns[col] = true
				stats.Columns = append(stats.Columns, col)
			}
		}

		if contact.Email() != "" {
			stats.EmailEligible++
		}
		if phone := contact.Phone(); phone != "" {
			if validator.ValidCameroonPhone(phone) {
				stats.SMSEligible++
			} else {
				stats.InvalidPhones = append(stats.InvalidPhones, phone)
			}
		}
	}
	sort.Strings(stats.Columns)

	return stats
}
