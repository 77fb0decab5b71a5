// Package extract recovers structured JSON payloads from free-form
// oracle output. Models are asked to answer inside a fenced ```json
// block but may omit the fence, prepend prose, or return broken JSON.
// Extraction is a two-step parser: fence detection, then JSON decode.
// The single failure mode is ErrMalformedDocument.
package extract

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedDocument reports that no structured payload could be
// recovered from the oracle text.
var ErrMalformedDocument = errors.New("malformed document")

const (
	fenceOpen  = "```json"
	fenceClose = "```"
)

// Extract parses a structured document out of raw oracle text.
//
// If the text contains a ```json fence, the substring strictly between
// the first opening fence and its closer is the payload; otherwise the
// whole text is. An opener without a closer, an empty fence body, or a
// JSON syntax error all fail with ErrMalformedDocument.
func Extract(raw string) (Document, error) {
	payload, err := fencedPayload(raw)
	if err != nil {
		return Document{}, err
	}

	var value any
	if err := json.Unmarshal([]byte(payload), &value); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	return Document{value: value}, nil
}

// fencedPayload returns the candidate payload for JSON parsing. The
// first fenced block wins when several are present.
func fencedPayload(raw string) (string, error) {
	start := strings.Index(raw, fenceOpen)
	if start == -1 {
		return raw, nil
	}

	rest := raw[start+len(fenceOpen):]
	end := strings.Index(rest, fenceClose)
	if end == -1 {
		return "", fmt.Errorf("%w: fence opened but never closed", ErrMalformedDocument)
	}

	payload := strings.TrimSpace(rest[:end])
	if payload == "" {
		return "", fmt.Errorf("%w: empty fenced block", ErrMalformedDocument)
	}
	return payload, nil
}
