package models

import (
	"strings"
	"time"
)

// Timestamp carries an instant that may have failed to parse. When Valid is
// false the raw capture string is kept so downstream normalization can
// propagate it without crashing the batch.
type Timestamp struct {
	Time  time.Time
	Valid bool
	Raw   string
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseTimestamp parses an ISO-8601 instant, accepting a trailing Z as the
// UTC offset. An empty or unparseable value keeps the raw string verbatim.
func ParseTimestamp(s string) Timestamp {
	if s == "" {
		return Timestamp{}
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Timestamp{Time: t, Valid: true, Raw: s}
		}
	}
	return Timestamp{Raw: s}
}

// OrderEvent is a single product-quantity placement on a table.
type OrderEvent struct {
	Request        string
	Response       int
	Product        string
	Quantity       int
	UnitPrice      float64
	LineTotal      float64 // always Quantity * UnitPrice, never trusted from upstream
	Timestamp      Timestamp
	Table          string
	SourceFile     string
	ConfirmationID string // numeric string echoed by the server, "" if absent

	// Assigned once by the consolidator.
	Seq        int
	Date       string // YYYY-MM-DD in the business timezone, "" if unparseable
	TimeOfDay  string // HH:MM:SS in the business timezone, "" if unparseable
	DeleteFlag string // manual spreadsheet annotation, always initialized empty
}

// RegistrationEvent is a table-opening event.
type RegistrationEvent struct {
	Table      string
	Timestamp  Timestamp
	Request    string
	Response   int
	SourceFile string
}

// DeletionEvent is a removal of a previously placed order. Table may be
// empty when it could not be derived from the referring page URL.
type DeletionEvent struct {
	DeleteID   string
	Table      string
	Timestamp  Timestamp
	Status     int
	Request    string
	SourceFile string
	LineTotal  float64 // not populated by extraction; summed defensively
}

// ExtractedEvents is the extractor output for one capture file, in record
// order.
type ExtractedEvents struct {
	Orders        []OrderEvent
	Registrations []RegistrationEvent
	Deletions     []DeletionEvent
}

// Empty reports whether extraction yielded nothing for the file.
func (e ExtractedEvents) Empty() bool {
	return len(e.Orders) == 0 && len(e.Registrations) == 0 && len(e.Deletions) == 0
}

// ConsolidatedDataset is the deduplicated, time-normalized union of all
// events across an upload batch.
type ConsolidatedDataset struct {
	Orders        []OrderEvent
	Registrations []RegistrationEvent
	Deletions     []DeletionEvent
	TotalDeleted  float64
}

// IsHARFile reports whether an uploaded file name should be processed.
func IsHARFile(name string) bool {
	return strings.HasSuffix(name, ".har")
}
