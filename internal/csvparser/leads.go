package csvparser

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"

	"LeadPulse/internal/models"
)

// ParseLeads parses leads from a CSV. The CSV must contain a header row with
// "Name" and "Email" columns (case-insensitive). Rows with a missing email
// or a column count that does not match the header are skipped.
//
// maxRows limits how many data rows are parsed (excluding header).
func ParseLeads(r io.Reader, maxRows int) ([]models.Lead, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	// encoding/csv otherwise errors on any row whose width differs from the
	// header's, instead of letting us skip it.
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		return nil, err
	}
	if len(headers) == 0 {
		return nil, errors.New("csv header row is empty")
	}

	nameIdx, emailIdx := -1, -1
	for i, h := range headers {
		h = strings.TrimSpace(h)
		if strings.EqualFold(h, "name") {
			nameIdx = i
		}
		if strings.EqualFold(h, "email") {
			emailIdx = i
		}
	}
	if nameIdx == -1 || emailIdx == -1 {
		return nil, errors.New("csv must contain Name and Email columns")
	}

	if maxRows <= 0 {
		maxRows = 1000
	}

	leads := make([]models.Lead, 0)
	for len(leads) < maxRows {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(record) != len(headers) {
			// skip malformed row
			continue
		}

		email := strings.TrimSpace(record[emailIdx])
		if email == "" {
			continue
		}

		leads = append(leads, models.Lead{
			Name:  strings.TrimSpace(record[nameIdx]),
			Email: email,
		})
	}

	if len(leads) == 0 {
		return nil, errors.New("csv must contain at least one data row")
	}

	return leads, nil
}
