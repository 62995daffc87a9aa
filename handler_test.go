package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

// stubFinder records lookups and answers from a fixed table.
type stubFinder struct {
	cards map[string]CardInfo
	calls []string
}

func (s *stubFinder) Find(_ context.Context, cardName string) (CardInfo, bool) {
	s.calls = append(s.calls, cardName)
	card, ok := s.cards[cardName]
	return card, ok
}

func strPtr(s string) *string {
	return &s
}

func testLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

func TestCardHandler(t *testing.T) {
	blackLotus := CardInfo{
		Name:     strPtr("Black Lotus"),
		ManaCost: strPtr("{0}"),
		Type:     strPtr("Artifact"),
		Text:     strPtr("{T}, Sacrifice Black Lotus: Add three mana of any one color."),
		ImageURL: strPtr("http://gatherer.wizards.com/Handlers/Image.ashx?multiverseid=3&type=card"),
	}

	tests := []struct {
		name        string
		method      string
		contentType string
		body        string
		wantStatus  int
		wantError   string
		wantCalls   []string
	}{
		{
			name:        "GET is rejected",
			method:      http.MethodGet,
			contentType: "application/json",
			body:        `{"card_name":"Black Lotus"}`,
			wantStatus:  http.StatusMethodNotAllowed,
			wantError:   "Invalid request method. Please use POST.",
		},
		{
			name:        "PUT with no content type is rejected as method first",
			method:      http.MethodPut,
			contentType: "",
			body:        "garbage",
			wantStatus:  http.StatusMethodNotAllowed,
			wantError:   "Invalid request method. Please use POST.",
		},
		{
			name:        "form content type",
			method:      http.MethodPost,
			contentType: "application/x-www-form-urlencoded",
			body:        "card_name=Black+Lotus",
			wantStatus:  http.StatusUnsupportedMediaType,
			wantError:   "Invalid content type. Please send a JSON payload.",
		},
		{
			name:        "missing content type",
			method:      http.MethodPost,
			contentType: "",
			body:        `{"card_name":"Black Lotus"}`,
			wantStatus:  http.StatusUnsupportedMediaType,
			wantError:   "Invalid content type. Please send a JSON payload.",
		},
		{
			name:        "empty object",
			method:      http.MethodPost,
			contentType: "application/json",
			body:        `{}`,
			wantStatus:  http.StatusBadRequest,
			wantError:   "Missing 'card_name' in JSON payload.",
		},
		{
			name:        "other keys only",
			method:      http.MethodPost,
			contentType: "application/json",
			body:        `{"name":"Black Lotus"}`,
			wantStatus:  http.StatusBadRequest,
			wantError:   "Missing 'card_name' in JSON payload.",
		},
		{
			name:        "malformed json",
			method:      http.MethodPost,
			contentType: "application/json",
			body:        `{"card_name":`,
			wantStatus:  http.StatusBadRequest,
			wantError:   "Missing 'card_name' in JSON payload.",
		},
		{
			name:        "json array",
			method:      http.MethodPost,
			contentType: "application/json",
			body:        `["card_name"]`,
			wantStatus:  http.StatusBadRequest,
			wantError:   "Missing 'card_name' in JSON payload.",
		},
		{
			name:        "found",
			method:      http.MethodPost,
			contentType: "application/json; charset=utf-8",
			body:        `{"card_name":"Black Lotus"}`,
			wantStatus:  http.StatusOK,
			wantCalls:   []string{"Black Lotus"},
		},
		{
			name:        "malformed content type parameter",
			method:      http.MethodPost,
			contentType: "application/json; charset",
			body:        `{"card_name":"Black Lotus"}`,
			wantStatus:  http.StatusOK,
			wantCalls:   []string{"Black Lotus"},
		},
		{
			name:        "vendor json content type",
			method:      http.MethodPost,
			contentType: "application/vnd.api+json",
			body:        `{"card_name":"Black Lotus"}`,
			wantStatus:  http.StatusOK,
			wantCalls:   []string{"Black Lotus"},
		},
		{
			name:        "not found",
			method:      http.MethodPost,
			contentType: "application/json",
			body:        `{"card_name":"Nonexistent Card XYZ"}`,
			wantStatus:  http.StatusNotFound,
			wantError:   "Card 'Nonexistent Card XYZ' not found or API is unavailable.",
			wantCalls:   []string{"Nonexistent Card XYZ"},
		},
		{
			name:        "empty card name is still looked up",
			method:      http.MethodPost,
			contentType: "application/json",
			body:        `{"card_name":""}`,
			wantStatus:  http.StatusNotFound,
			wantError:   "Card '' not found or API is unavailable.",
			wantCalls:   []string{""},
		},
		{
			name:        "numeric card name uses its json text",
			method:      http.MethodPost,
			contentType: "application/json",
			body:        `{"card_name": 42}`,
			wantStatus:  http.StatusNotFound,
			wantError:   "Card '42' not found or API is unavailable.",
			wantCalls:   []string{"42"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			finder := &stubFinder{cards: map[string]CardInfo{"Black Lotus": blackLotus}}
			handler := NewCardHandler(finder, testLogger())

			req := httptest.NewRequest(tt.method, "/", strings.NewReader(tt.body))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q, want application/json", ct)
			}

			if tt.wantError != "" {
				var errResp ErrorResponse
				if err := json.NewDecoder(rec.Body).Decode(&errResp); err != nil {
					t.Fatalf("failed to decode error body: %v", err)
				}
				if errResp.Error != tt.wantError {
					t.Errorf("error = %q, want %q", errResp.Error, tt.wantError)
				}
			}

			if len(finder.calls) != len(tt.wantCalls) {
				t.Fatalf("lookup calls = %v, want %v", finder.calls, tt.wantCalls)
			}
			for i := range tt.wantCalls {
				if finder.calls[i] != tt.wantCalls[i] {
					t.Errorf("lookup call %d = %q, want %q", i, finder.calls[i], tt.wantCalls[i])
				}
			}
		})
	}
}

func TestCardHandler_FoundBody(t *testing.T) {
	finder := &stubFinder{cards: map[string]CardInfo{
		"Black Lotus": {
			Name:     strPtr("Black Lotus"),
			ManaCost: strPtr("{0}"),
			Type:     strPtr("Artifact"),
			Text:     strPtr("..."),
			ImageURL: strPtr("http://example.com/lotus.jpg"),
		},
	}}
	handler := NewCardHandler(finder, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"card_name": "Black Lotus"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var got map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}

	want := map[string]any{
		"name":      "Black Lotus",
		"mana_cost": "{0}",
		"type":      "Artifact",
		"text":      "...",
		"power":     nil,
		"toughness": nil,
		"image_url": "http://example.com/lotus.jpg",
	}
	if len(got) != len(want) {
		t.Errorf("body has %d keys, want %d: %v", len(got), len(want), got)
	}
	for key, wantVal := range want {
		gotVal, ok := got[key]
		if !ok {
			t.Errorf("body missing key %q", key)
			continue
		}
		if gotVal != wantVal {
			t.Errorf("body[%q] = %v, want %v", key, gotVal, wantVal)
		}
	}
}

// cancelObservingFinder reports whether its context was already cancelled.
type cancelObservingFinder struct {
	ctxErr error
}

func (f *cancelObservingFinder) Find(ctx context.Context, _ string) (CardInfo, bool) {
	f.ctxErr = ctx.Err()
	return CardInfo{}, false
}

func TestCardHandler_LookupIgnoresClientCancellation(t *testing.T) {
	finder := &cancelObservingFinder{}
	handler := NewCardHandler(finder, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"card_name":"Sol Ring"}`)).WithContext(ctx)
	req.Header.Set("Content-Type", "application/json")

	handler.ServeHTTP(httptest.NewRecorder(), req)

	if finder.ctxErr != nil {
		t.Errorf("lookup context error = %v, want nil", finder.ctxErr)
	}
}

func TestCardNameFromPayload(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantName string
		wantOK   bool
	}{
		{name: "string value", body: `{"card_name":"Sol Ring"}`, wantName: "Sol Ring", wantOK: true},
		{name: "empty string", body: `{"card_name":""}`, wantName: "", wantOK: true},
		{name: "null value", body: `{"card_name":null}`, wantName: "null", wantOK: true},
		{name: "boolean value", body: `{"card_name":true}`, wantName: "true", wantOK: true},
		{name: "json null body", body: `null`, wantOK: false},
		{name: "empty body", body: ``, wantOK: false},
		{name: "string body", body: `"card_name"`, wantOK: false},
		{name: "missing key", body: `{"cardName":"Sol Ring"}`, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotName, gotOK := cardNameFromPayload([]byte(tt.body))
			if gotOK != tt.wantOK {
				t.Fatalf("cardNameFromPayload() ok = %v, want %v", gotOK, tt.wantOK)
			}
			if gotName != tt.wantName {
				t.Errorf("cardNameFromPayload() name = %q, want %q", gotName, tt.wantName)
			}
		})
	}
}

func TestIsJSONContentType(t *testing.T) {
	tests := []struct {
		contentType string
		want        bool
	}{
		{"application/json", true},
		{"Application/JSON", true},
		{"application/json; charset=utf-8", true},
		{"application/problem+json", true},
		{"application/json; charset", true},
		{"text/json", false},
		{"text/plain", false},
		{"", false},
		{"invalid", false},
	}

	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			if got := isJSONContentType(tt.contentType); got != tt.want {
				t.Errorf("isJSONContentType(%q) = %v, want %v", tt.contentType, got, tt.want)
			}
		})
	}
}
