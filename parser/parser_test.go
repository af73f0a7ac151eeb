package parser

import (
	"strconv"
	"testing"

	"vendas-report/models"

	"github.com/rs/zerolog"
)

func init() {
	zerolog.SetGlobalLevel(zerolog.Disabled)
}

func harDoc(entries string) []byte {
	return []byte(`{"log":{"entries":[` + entries + `]}}`)
}

func orderEntry(url, startedDateTime, responseBody string) string {
	return `{
		"startedDateTime": "` + startedDateTime + `",
		"request": {"url": "` + url + `", "method": "GET", "headers": []},
		"response": {"status": 200, "content": {"text": "` + responseBody + `"}}
	}`
}

func TestParseDocumentOrder(t *testing.T) {
	url := "http://pos.local/inc/add_produtos.php?nomeprod=Hamburguer%20R%24%2025%2C00&mesa=Mesa01&quant=2"
	events, err := ParseDocument(harDoc(orderEntry(url, "2025-03-01T15:04:05Z", "8812")), "cap.har")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events.Orders) != 1 || len(events.Registrations) != 0 || len(events.Deletions) != 0 {
		t.Fatalf("expected exactly one order, got %+v", events)
	}

	o := events.Orders[0]
	if o.Product != "Hamburguer" {
		t.Errorf("product: expected %q, got %q", "Hamburguer", o.Product)
	}
	if o.Quantity != 2 {
		t.Errorf("quantity: expected 2, got %d", o.Quantity)
	}
	if o.UnitPrice != 25.0 {
		t.Errorf("unit price: expected 25.00, got %v", o.UnitPrice)
	}
	if o.LineTotal != 50.0 {
		t.Errorf("line total: expected 50.00, got %v", o.LineTotal)
	}
	if o.Table != "Mesa01" {
		t.Errorf("table: expected Mesa01, got %q", o.Table)
	}
	if o.ConfirmationID != "8812" {
		t.Errorf("confirmation id: expected 8812, got %q", o.ConfirmationID)
	}
	if o.SourceFile != "cap.har" {
		t.Errorf("source file: expected cap.har, got %q", o.SourceFile)
	}
	if !o.Timestamp.Valid {
		t.Errorf("timestamp should have parsed: %+v", o.Timestamp)
	}
}

func TestParseDocumentOrderVariants(t *testing.T) {
	cases := []struct {
		name        string
		url         string
		body        string
		wantProduct string
		wantPrice   float64
		wantQty     int
		wantConfID  string
	}{
		{
			name:        "no price marker",
			url:         "http://pos.local/add?nomeprod=Agua%20Mineral&mesa=M2&quant=3",
			wantProduct: "Agua Mineral",
			wantPrice:   0,
			wantQty:     3,
		},
		{
			name:        "thousands separator and spaces",
			url:         "http://pos.local/add?nomeprod=Combo%20R%24%201.250%2C50&mesa=M3&quant=1",
			wantProduct: "Combo",
			wantPrice:   1250.50,
			wantQty:     1,
		},
		{
			name:        "unparseable price falls back to raw field",
			url:         "http://pos.local/add?nomeprod=Suco%20R%24abc&mesa=M4&quant=1",
			wantProduct: "Suco%20R%24abc",
			wantPrice:   0,
			wantQty:     1,
		},
		{
			name:        "uppercase query keys",
			url:         "http://pos.local/add?NOMEPROD=Pizza&MESA=Mesa05&QUANT=4",
			wantProduct: "Pizza",
			wantPrice:   0,
			wantQty:     4,
		},
		{
			name:        "non-numeric response body yields no confirmation id",
			url:         "http://pos.local/add?nomeprod=Pastel&mesa=M6&quant=1",
			body:        "ok",
			wantProduct: "Pastel",
			wantQty:     1,
			wantConfID:  "",
		},
		{
			name:        "confirmation id trimmed",
			url:         "http://pos.local/add?nomeprod=Pastel&mesa=M6&quant=1",
			body:        "  4501  ",
			wantProduct: "Pastel",
			wantQty:     1,
			wantConfID:  "4501",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			events, err := ParseDocument(harDoc(orderEntry(c.url, "2025-03-01T15:04:05Z", c.body)), "cap.har")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(events.Orders) != 1 {
				t.Fatalf("expected one order, got %d", len(events.Orders))
			}
			o := events.Orders[0]
			if o.Product != c.wantProduct {
				t.Errorf("product: expected %q, got %q", c.wantProduct, o.Product)
			}
			if o.UnitPrice != c.wantPrice {
				t.Errorf("unit price: expected %v, got %v", c.wantPrice, o.UnitPrice)
			}
			if o.Quantity != c.wantQty {
				t.Errorf("quantity: expected %d, got %d", c.wantQty, o.Quantity)
			}
			if o.ConfirmationID != c.wantConfID {
				t.Errorf("confirmation id: expected %q, got %q", c.wantConfID, o.ConfirmationID)
			}
			if o.LineTotal != float64(c.wantQty)*c.wantPrice {
				t.Errorf("line total must be quantity*unit price, got %v", o.LineTotal)
			}
		})
	}
}

func TestParseDocumentRegistration(t *testing.T) {
	entry := func(url string, status int) string {
		return `{
			"startedDateTime": "2025-03-01T18:00:00Z",
			"request": {"url": "` + url + `", "method": "GET", "headers": []},
			"response": {"status": ` + strconv.Itoa(status) + `, "content": {"text": ""}}
		}`
	}

	events, err := ParseDocument(harDoc(
		entry("http://pos.local/inc/connect.php?mesa=Mesa%2001&id=9", 200)+","+
			entry("http://pos.local/inc/connect.php?mesa=Mesa02&id=10", 404)+","+
			entry("http://pos.local/inc/CONNECT.PHP?MESA=Mesa03&ID=11", 200),
	), "cap.har")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(events.Registrations) != 2 {
		t.Fatalf("expected 2 registrations (non-200 skipped), got %d", len(events.Registrations))
	}
	if events.Registrations[0].Table != "Mesa 01" {
		t.Errorf("table should be decoded and trimmed, got %q", events.Registrations[0].Table)
	}
	if events.Registrations[1].Table != "Mesa03" {
		t.Errorf("matching must be case-insensitive, got %q", events.Registrations[1].Table)
	}
}

func TestParseDocumentDeletion(t *testing.T) {
	entry := func(method, body, referer string) string {
		headers := `[]`
		if referer != "" {
			headers = `[{"name": "Referer", "value": "` + referer + `"}]`
		}
		return `{
			"startedDateTime": "2025-03-01T18:00:00Z",
			"request": {
				"url": "http://pos.local/inc/del_produtos.php",
				"method": "` + method + `",
				"headers": ` + headers + `,
				"postData": {"text": "` + body + `"}
			},
			"response": {"status": 200, "content": {"text": ""}}
		}`
	}

	events, err := ParseDocument(harDoc(
		entry("POST", "delete=123", "http://pos.local/mesa.php?mesa=Mesa02&foo=1")+","+
			entry("post", "x=1&DELETE=77", "")+","+
			entry("GET", "delete=5", "")+","+
			entry("POST", "delete=", ""),
	), "cap.har")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(events.Deletions) != 2 {
		t.Fatalf("expected 2 deletions, got %d", len(events.Deletions))
	}
	if events.Deletions[0].DeleteID != "123" || events.Deletions[0].Table != "Mesa02" {
		t.Errorf("expected id 123 table Mesa02, got %+v", events.Deletions[0])
	}
	if events.Deletions[1].DeleteID != "77" || events.Deletions[1].Table != "" {
		t.Errorf("expected id 77 with empty table, got %+v", events.Deletions[1])
	}
}

func TestParseDocumentMalformed(t *testing.T) {
	events, err := ParseDocument([]byte("not json at all"), "bad.har")
	if err == nil {
		t.Fatal("expected a document error")
	}
	if _, ok := err.(*DocumentError); !ok {
		t.Fatalf("expected *DocumentError, got %T", err)
	}
	if !events.Empty() {
		t.Fatalf("malformed document must yield empty lists, got %+v", events)
	}
}

func TestParseDocumentRecordSkip(t *testing.T) {
	// A quantity too large for an int is a record-local failure; the rest
	// of the document still extracts.
	bad := orderEntry("http://pos.local/add?nomeprod=X&mesa=M1&quant=99999999999999999999", "2025-03-01T18:00:00Z", "")
	good := orderEntry("http://pos.local/add?nomeprod=Y&mesa=M1&quant=1", "2025-03-01T18:00:01Z", "")

	events, err := ParseDocument(harDoc(bad+","+good), "cap.har")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events.Orders) != 1 || events.Orders[0].Product != "Y" {
		t.Fatalf("expected only the good record, got %+v", events.Orders)
	}
}

func TestParseDocumentTimestampFallback(t *testing.T) {
	events, err := ParseDocument(harDoc(orderEntry("http://pos.local/add?nomeprod=X&mesa=M1&quant=1", "yesterday evening", "")), "cap.har")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ts := events.Orders[0].Timestamp
	if ts.Valid {
		t.Fatal("timestamp should not have parsed")
	}
	if ts.Raw != "yesterday evening" {
		t.Fatalf("raw timestamp must be preserved verbatim, got %q", ts.Raw)
	}
}

func TestParseTimestampZulu(t *testing.T) {
	ts := models.ParseTimestamp("2025-03-01T15:04:05Z")
	if !ts.Valid {
		t.Fatal("trailing Z must parse as UTC")
	}
	if zone, offset := ts.Time.Zone(); offset != 0 {
		t.Fatalf("expected UTC offset 0, got %s %d", zone, offset)
	}
}
