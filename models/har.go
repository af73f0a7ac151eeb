package models

import (
	"encoding/json"
	"strings"
)

// HAR is the top-level shape of a capture file. Only the fields the
// extractor reads are declared; everything else in the document is ignored.
type HAR struct {
	Log HARLog `json:"log"`
}

type HARLog struct {
	Entries []HAREntry `json:"entries"`
}

type HAREntry struct {
	StartedDateTime string      `json:"startedDateTime"`
	Request         HARRequest  `json:"request"`
	Response        HARResponse `json:"response"`
}

type HARRequest struct {
	URL      string      `json:"url"`
	Method   string      `json:"method"`
	Headers  []HARHeader `json:"headers"`
	PostData HARPostData `json:"postData"`
}

type HARHeader struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type HARPostData struct {
	Text string `json:"text"`
}

type HARResponse struct {
	Status  int        `json:"status"`
	Content HARContent `json:"content"`
}

type HARContent struct {
	Text string `json:"text"`
}

// RawLogEntry is one captured HTTP transaction, lifted out of the HAR
// document into a flat shape. Header names are lowercased.
type RawLogEntry struct {
	URL             string
	Method          string
	Status          int
	ResponseBody    string
	RequestBody     string
	Headers         map[string]string
	StartedDateTime string
}

// NewRawLogEntry flattens a HAR entry.
func NewRawLogEntry(e HAREntry) RawLogEntry {
	headers := make(map[string]string, len(e.Request.Headers))
	for _, h := range e.Request.Headers {
		headers[strings.ToLower(h.Name)] = h.Value
	}
	return RawLogEntry{
		URL:             e.Request.URL,
		Method:          e.Request.Method,
		Status:          e.Response.Status,
		ResponseBody:    e.Response.Content.Text,
		RequestBody:     e.Request.PostData.Text,
		Headers:         headers,
		StartedDateTime: e.StartedDateTime,
	}
}

// ParseHAR decodes a capture document. Callers treat any error as "this
// document contributes no events".
func ParseHAR(content []byte) (*HAR, error) {
	var har HAR
	if err := json.Unmarshal(content, &har); err != nil {
		return nil, err
	}
	return &har, nil
}
