package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
)

const maxRequestBody = 1 << 20

const (
	msgInvalidMethod      = "Invalid request method. Please use POST."
	msgInvalidContentType = "Invalid content type. Please send a JSON payload."
	msgMissingCardName    = "Missing 'card_name' in JSON payload."
)

// ErrorResponse is the body of every non-200 response.
type ErrorResponse struct {
	Error string `json:"error"`
}

func notFoundMessage(cardName string) string {
	return fmt.Sprintf("Card '%s' not found or API is unavailable.", cardName)
}

// CardHandler answers card lookups posted as {"card_name": "..."}.
type CardHandler struct {
	finder CardFinder
	log    *zerolog.Logger
}

// NewCardHandler creates a CardHandler backed by finder.
func NewCardHandler(finder CardFinder, log *zerolog.Logger) *CardHandler {
	return &CardHandler{finder: finder, log: log}
}

func (h *CardHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.log.Debug().Str("method", r.Method).Msg("Rejected request method")
		writeJSON(w, http.StatusMethodNotAllowed, ErrorResponse{Error: msgInvalidMethod})
		return
	}

	if !isJSONContentType(r.Header.Get("Content-Type")) {
		h.log.Debug().Str("content_type", r.Header.Get("Content-Type")).Msg("Rejected content type")
		writeJSON(w, http.StatusUnsupportedMediaType, ErrorResponse{Error: msgInvalidContentType})
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err != nil {
		h.log.Debug().Err(err).Msg("Failed to read request body")
		body = nil
	}

	cardName, ok := cardNameFromPayload(body)
	if !ok {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: msgMissingCardName})
		return
	}

	h.log.Info().Str("card_name", cardName).Msg("Looking up card")

	// The upstream call outlives a client disconnect.
	ctx := context.WithoutCancel(r.Context())

	card, found := h.finder.Find(ctx, cardName)
	if !found {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: notFoundMessage(cardName)})
		return
	}

	writeJSON(w, http.StatusOK, card)
}

// isJSONContentType accepts application/json and application/*+json.
// Only the media type counts; malformed parameters are ignored.
func isJSONContentType(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil && !errors.Is(err, mime.ErrInvalidMediaParameter) {
		return false
	}
	if mediaType == "application/json" {
		return true
	}
	return strings.HasPrefix(mediaType, "application/") && strings.HasSuffix(mediaType, "+json")
}

// cardNameFromPayload extracts card_name from a JSON object body. Malformed
// JSON, non-objects and empty objects count as a missing key. Non-string
// values are used as their JSON text.
func cardNameFromPayload(body []byte) (string, bool) {
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil || len(payload) == 0 {
		return "", false
	}

	raw, ok := payload["card_name"]
	if !ok {
		return "", false
	}

	raw = bytes.TrimSpace(raw)
	var name string
	if !bytes.Equal(raw, []byte("null")) && json.Unmarshal(raw, &name) == nil {
		return name, true
	}
	return string(raw), true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
