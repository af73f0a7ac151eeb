package consolidate

import (
	"errors"
	"testing"

	"vendas-report/models"

	"github.com/rs/zerolog"
)

func init() {
	zerolog.SetGlobalLevel(zerolog.Disabled)
}

func order(table, product string, qty int, price float64, url, ts string) models.OrderEvent {
	return models.OrderEvent{
		Request:    url,
		Response:   200,
		Product:    product,
		Quantity:   qty,
		UnitPrice:  price,
		LineTotal:  float64(qty) * price,
		Timestamp:  models.ParseTimestamp(ts),
		Table:      table,
		SourceFile: "cap.har",
	}
}

func TestConsolidateDeduplicatesAcrossFiles(t *testing.T) {
	// Two overlapping captures recorded the same transaction.
	same := order("Mesa01", "Pizza", 2, 30, "http://x/add?nomeprod=Pizza&mesa=Mesa01&quant=2", "2025-03-01T15:04:05Z")
	other := order("Mesa01", "Pizza", 1, 30, "http://x/add?nomeprod=Pizza&mesa=Mesa01&quant=1", "2025-03-01T15:04:05Z")

	dataset, err := Consolidate([]models.ExtractedEvents{
		{Orders: []models.OrderEvent{same, other}},
		{Orders: []models.OrderEvent{same}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(dataset.Orders) != 2 {
		t.Fatalf("expected 2 orders after dedup, got %d", len(dataset.Orders))
	}
	for i, o := range dataset.Orders {
		if o.Seq != i+1 {
			t.Errorf("sequence numbers must be 1..N in order, got %d at %d", o.Seq, i)
		}
		if o.DeleteFlag != "" {
			t.Errorf("delete flag must initialize empty, got %q", o.DeleteFlag)
		}
	}
}

func TestConsolidateSubSecondDuplicates(t *testing.T) {
	// The dedup key truncates to the second.
	a := order("Mesa01", "Pizza", 2, 30, "http://x/add", "2025-03-01T15:04:05.200Z")
	b := order("Mesa01", "Pizza", 2, 30, "http://x/add", "2025-03-01T15:04:05.700Z")

	dataset, err := Consolidate([]models.ExtractedEvents{{Orders: []models.OrderEvent{a, b}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(dataset.Orders) != 1 {
		t.Fatalf("expected sub-second duplicates to collapse, got %d orders", len(dataset.Orders))
	}
}

func TestConsolidateIdempotent(t *testing.T) {
	events := models.ExtractedEvents{Orders: []models.OrderEvent{
		order("Mesa01", "Pizza", 2, 30, "u1", "2025-03-01T15:04:05Z"),
		order("Mesa02", "Suco", 1, 8, "u2", "2025-03-01T15:05:00Z"),
		order("Mesa01", "Pizza", 2, 30, "u1", "2025-03-01T15:04:05Z"),
	}}

	first, err := Consolidate([]models.ExtractedEvents{events})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Consolidate([]models.ExtractedEvents{{Orders: first.Orders}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(first.Orders) != 2 || len(second.Orders) != len(first.Orders) {
		t.Fatalf("dedup must be idempotent: first %d, second %d", len(first.Orders), len(second.Orders))
	}
}

func TestConsolidateNormalizesToBusinessZone(t *testing.T) {
	o := order("Mesa01", "Pizza", 1, 10, "u1", "2025-03-02T01:30:00Z")

	dataset, err := Consolidate([]models.ExtractedEvents{{Orders: []models.OrderEvent{o}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := dataset.Orders[0]
	if got.Date != "2025-03-01" {
		t.Errorf("date: expected 2025-03-01 (UTC-3), got %q", got.Date)
	}
	if got.TimeOfDay != "22:30:00" {
		t.Errorf("time: expected 22:30:00 (UTC-3), got %q", got.TimeOfDay)
	}
}

func TestConsolidateUnparseableTimestamps(t *testing.T) {
	a := order("Mesa01", "Pizza", 1, 10, "u1", "late afternoon")
	b := order("Mesa01", "Pizza", 1, 10, "u1", "late afternoon")

	dataset, err := Consolidate([]models.ExtractedEvents{{Orders: []models.OrderEvent{a, b}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(dataset.Orders) != 1 {
		t.Fatalf("identical unparseable rows must still dedup, got %d", len(dataset.Orders))
	}
	if dataset.Orders[0].Date != "" || dataset.Orders[0].TimeOfDay != "" {
		t.Errorf("unparseable timestamps must propagate as empty fields, got %q %q",
			dataset.Orders[0].Date, dataset.Orders[0].TimeOfDay)
	}
}

func TestConsolidateRecomputesLineTotal(t *testing.T) {
	o := order("Mesa01", "Pizza", 2, 10, "u1", "2025-03-01T15:04:05Z")
	o.LineTotal = 999 // upstream value is never trusted

	dataset, err := Consolidate([]models.ExtractedEvents{{Orders: []models.OrderEvent{o}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dataset.Orders[0].LineTotal != 20 {
		t.Fatalf("line total must be recomputed, got %v", dataset.Orders[0].LineTotal)
	}
}

func registration(table, ts, file string) models.RegistrationEvent {
	return models.RegistrationEvent{
		Table:      table,
		Timestamp:  models.ParseTimestamp(ts),
		Request:    "http://x/inc/connect.php?mesa=" + table + "&id=1",
		Response:   200,
		SourceFile: file,
	}
}

func TestConsolidateRegistrationsEarliestWins(t *testing.T) {
	dataset, err := Consolidate([]models.ExtractedEvents{
		{Registrations: []models.RegistrationEvent{
			registration("Mesa01", "2025-03-01T18:00:00Z", "b.har"),
			registration("Mesa02", "2025-03-01T17:00:00Z", "b.har"),
		}},
		{Registrations: []models.RegistrationEvent{
			registration("Mesa01", "2025-03-01T16:00:00Z", "a.har"),
		}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(dataset.Registrations) != 2 {
		t.Fatalf("expected one registration per table, got %d", len(dataset.Registrations))
	}
	if dataset.Registrations[0].Table != "Mesa01" || dataset.Registrations[0].SourceFile != "a.har" {
		t.Errorf("earliest registration must win, got %+v", dataset.Registrations[0])
	}
	if dataset.Registrations[1].Table != "Mesa02" {
		t.Errorf("expected Mesa02 second, got %+v", dataset.Registrations[1])
	}
}

func TestConsolidateRegistrationsUnparseableSortLast(t *testing.T) {
	dataset, err := Consolidate([]models.ExtractedEvents{
		{Registrations: []models.RegistrationEvent{
			registration("Mesa01", "no clock", "a.har"),
			registration("Mesa01", "2025-03-01T18:00:00Z", "b.har"),
		}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dataset.Registrations[0].SourceFile != "b.har" {
		t.Fatalf("parseable instant must beat unparseable, got %+v", dataset.Registrations[0])
	}
}

func TestConsolidateDeletionsPassThrough(t *testing.T) {
	deletions := []models.DeletionEvent{
		{DeleteID: "12", Table: "Mesa01", Status: 200, SourceFile: "a.har"},
		{DeleteID: "13", Table: "", Status: 200, SourceFile: "a.har", LineTotal: 15},
	}

	dataset, err := Consolidate([]models.ExtractedEvents{{Deletions: deletions}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(dataset.Deletions) != 2 {
		t.Fatalf("deletions must pass through, got %d", len(dataset.Deletions))
	}
	if dataset.TotalDeleted != 15 {
		t.Fatalf("expected deleted total 15, got %v", dataset.TotalDeleted)
	}
}

func TestConsolidateEmptyBatch(t *testing.T) {
	_, err := Consolidate([]models.ExtractedEvents{{}, {}})
	if !errors.Is(err, ErrEmptyBatch) {
		t.Fatalf("expected ErrEmptyBatch, got %v", err)
	}

	_, err = Consolidate(nil)
	if !errors.Is(err, ErrEmptyBatch) {
		t.Fatalf("expected ErrEmptyBatch for no documents, got %v", err)
	}
}
