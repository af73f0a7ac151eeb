package parser

import (
	"fmt"
	"strconv"
	"strings"

	"vendas-report/models"

	"github.com/rs/zerolog/log"
)

// DocumentError reports a capture file that could not be parsed at all.
// The batch carries on without it.
type DocumentError struct {
	File    string
	Message string
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("document error: %s in file: %s", e.Message, e.File)
}

// ParseDocument extracts the three event lists from one capture document.
// A document that is not well-formed JSON (or lacks the expected top-level
// shape) yields empty lists and a *DocumentError; a record that fails to
// extract is skipped and never aborts the batch.
func ParseDocument(content []byte, fileName string) (models.ExtractedEvents, error) {
	har, err := models.ParseHAR(content)
	if err != nil {
		return models.ExtractedEvents{}, &DocumentError{File: fileName, Message: err.Error()}
	}

	var events models.ExtractedEvents
	for _, entry := range har.Log.Entries {
		classifyEntry(models.NewRawLogEntry(entry), fileName, &events)
	}
	return events, nil
}

// classifyEntry tries the three transaction shapes in priority order: an
// order match short-circuits registration and deletion, a registration
// match short-circuits deletion.
func classifyEntry(raw models.RawLogEntry, fileName string, events *models.ExtractedEvents) {
	ts := models.ParseTimestamp(raw.StartedDateTime)

	if product, table, quantity, ok := matchOrder(raw.URL); ok {
		order, err := buildOrder(raw, fileName, ts, product, table, quantity)
		if err != nil {
			log.Warn().
				Err(err).
				Str("url", raw.URL).
				Str("file", fileName).
				Msg("Skipping unextractable order record")
			return
		}
		events.Orders = append(events.Orders, order)
		return
	}

	if table, ok := matchRegistration(raw.URL); ok && raw.Status == 200 {
		events.Registrations = append(events.Registrations, models.RegistrationEvent{
			Table:      strings.TrimSpace(formDecode(table)),
			Timestamp:  ts,
			Request:    raw.URL,
			Response:   raw.Status,
			SourceFile: fileName,
		})
		return
	}

	if strings.Contains(raw.URL, "/inc/del_produtos.php") && strings.EqualFold(raw.Method, "POST") {
		deleteID, ok := matchDeleteID(raw.RequestBody)
		if !ok {
			return
		}
		table := ""
		if ref, found := raw.Headers["referer"]; found {
			table = refererTable(ref)
		}
		events.Deletions = append(events.Deletions, models.DeletionEvent{
			DeleteID:   deleteID,
			Table:      table,
			Timestamp:  ts,
			Status:     raw.Status,
			Request:    raw.URL,
			SourceFile: fileName,
		})
	}
}

func buildOrder(raw models.RawLogEntry, fileName string, ts models.Timestamp, product, table, quantity string) (models.OrderEvent, error) {
	qty, err := strconv.Atoi(quantity)
	if err != nil {
		return models.OrderEvent{}, fmt.Errorf("bad quantity %q: %w", quantity, err)
	}

	name, unitPrice := parseProductField(product)

	confirmationID := ""
	if body := strings.TrimSpace(raw.ResponseBody); isDigits(body) {
		confirmationID = body
	}

	return models.OrderEvent{
		Request:        raw.URL,
		Response:       raw.Status,
		Product:        name,
		Quantity:       qty,
		UnitPrice:      unitPrice,
		LineTotal:      float64(qty) * unitPrice,
		Timestamp:      ts,
		Table:          table,
		SourceFile:     fileName,
		ConfirmationID: confirmationID,
	}, nil
}
