// Package consolidate merges per-file extraction results into a single
// dataset: timestamps are normalized to the business timezone, duplicate
// events recorded by overlapping captures are dropped, and sequence numbers
// are assigned.
package consolidate

import (
	"errors"
	"sort"
	"time"

	"vendas-report/models"
	"vendas-report/utils"
)

// ErrEmptyBatch signals that an entire upload batch yielded zero events
// across all three categories.
var ErrEmptyBatch = errors.New("no events extracted from batch")

// BusinessZone is the fixed reference civil timezone for all displayed
// dates and times. UTC-3 with no daylight-saving adjustment.
var BusinessZone = time.FixedZone("UTC-3", -3*60*60)

type orderKey struct {
	table    string
	product  string
	quantity int
	request  string
	norm     string
}

// normalize converts a parsed instant into the business timezone and
// returns display date, display time and the second-truncated naive instant
// used as a deduplication key component. Unparseable timestamps propagate
// as empty fields, so identical unparseable rows still collapse together.
func normalize(ts models.Timestamp) (date, timeOfDay, norm string) {
	if !ts.Valid {
		return "", "", ""
	}
	t := ts.Time.In(BusinessZone)
	return t.Format("2006-01-02"), t.Format("15:04:05"), t.Format("2006-01-02T15:04:05")
}

// Consolidate merges the extractor output of every uploaded document.
// Returns ErrEmptyBatch when nothing at all was extracted.
func Consolidate(perFile []models.ExtractedEvents) (*models.ConsolidatedDataset, error) {
	var orders []models.OrderEvent
	var registrations []models.RegistrationEvent
	var deletions []models.DeletionEvent
	for _, events := range perFile {
		orders = append(orders, events.Orders...)
		registrations = append(registrations, events.Registrations...)
		deletions = append(deletions, events.Deletions...)
	}

	if len(orders) == 0 && len(registrations) == 0 && len(deletions) == 0 {
		return nil, ErrEmptyBatch
	}

	dataset := &models.ConsolidatedDataset{
		Orders:        consolidateOrders(orders),
		Registrations: consolidateRegistrations(registrations),
		Deletions:     deletions,
	}
	for _, d := range deletions {
		dataset.TotalDeleted += d.LineTotal
	}
	return dataset, nil
}

// consolidateOrders keeps the first occurrence of each real-world event.
// Two orders are the same event when table, product, quantity, request URL
// and second-truncated normalized instant all match; overlapping capture
// files record the same transaction more than once.
func consolidateOrders(orders []models.OrderEvent) []models.OrderEvent {
	seen := make(map[orderKey]struct{}, len(orders))
	kept := make([]models.OrderEvent, 0, len(orders))
	for _, o := range orders {
		date, timeOfDay, norm := normalize(o.Timestamp)
		key := orderKey{
			table:    o.Table,
			product:  o.Product,
			quantity: o.Quantity,
			request:  o.Request,
			norm:     norm,
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		o.Date = date
		o.TimeOfDay = timeOfDay
		o.DeleteFlag = ""
		// Never trusted from upstream.
		o.LineTotal = utils.Round2(float64(o.Quantity) * o.UnitPrice)
		o.Seq = len(kept) + 1
		kept = append(kept, o)
	}
	return kept
}

// consolidateRegistrations keeps the earliest registration per table.
// Unparseable registration instants sort after parseable ones, stable.
func consolidateRegistrations(registrations []models.RegistrationEvent) []models.RegistrationEvent {
	sorted := make([]models.RegistrationEvent, len(registrations))
	copy(sorted, registrations)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].Timestamp, sorted[j].Timestamp
		if a.Valid != b.Valid {
			return a.Valid
		}
		if !a.Valid {
			return false
		}
		return a.Time.Before(b.Time)
	})

	seen := make(map[string]struct{}, len(sorted))
	kept := make([]models.RegistrationEvent, 0, len(sorted))
	for _, r := range sorted {
		if _, dup := seen[r.Table]; dup {
			continue
		}
		seen[r.Table] = struct{}{}
		kept = append(kept, r)
	}
	return kept
}
