package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/rs/zerolog"
)

const mtgioBaseURL = "https://api.magicthegathering.io/v1/cards"

var errNoCards = errors.New("search returned no cards")

// CardSource searches an upstream card database and returns its first match.
type CardSource interface {
	Search(ctx context.Context, cardName string) (CardInfo, error)
}

// CardFinder resolves a card name to a CardInfo. ok is false when the card
// was not found or the upstream could not be used; the two are not told apart.
type CardFinder interface {
	Find(ctx context.Context, cardName string) (card CardInfo, ok bool)
}

// Lookup folds every CardSource failure into a plain miss.
type Lookup struct {
	source CardSource
	log    *zerolog.Logger
}

// NewLookup creates a Lookup over source.
func NewLookup(source CardSource, log *zerolog.Logger) *Lookup {
	return &Lookup{source: source, log: log}
}

// Find never returns an error; failures are logged and reported as a miss.
func (l *Lookup) Find(ctx context.Context, cardName string) (card CardInfo, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			l.log.Error().Interface("panic", r).Str("card_name", cardName).Msg("Card search panicked")
			card, ok = CardInfo{}, false
		}
	}()

	card, err := l.source.Search(ctx, cardName)
	switch {
	case errors.Is(err, errNoCards):
		l.log.Info().Str("card_name", cardName).Msg("No cards found")
		return CardInfo{}, false
	case err != nil:
		l.log.Warn().Err(err).Str("card_name", cardName).Msg("Card search failed")
		return CardInfo{}, false
	}

	l.log.Debug().
		Str("card_name", cardName).
		Str("found", valueOr(card.Name, "")).
		Msg("Card found")

	return card, true
}

// mtgioSource queries the magicthegathering.io cards endpoint.
type mtgioSource struct {
	baseURL string
	client  *http.Client
}

func newMTGIOSource(baseURL string, client *http.Client) *mtgioSource {
	if baseURL == "" {
		baseURL = mtgioBaseURL
	}
	return &mtgioSource{baseURL: baseURL, client: client}
}

func (s *mtgioSource) Search(ctx context.Context, cardName string) (CardInfo, error) {
	u, err := url.Parse(s.baseURL)
	if err != nil {
		return CardInfo{}, fmt.Errorf("invalid base URL: %w", err)
	}
	q := u.Query()
	q.Set("name", cardName)
	u.RawQuery = q.Encode()

	resp, err := HTTPGet(ctx, s.client, u.String())
	if err != nil {
		return CardInfo{}, fmt.Errorf("card search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return CardInfo{}, fmt.Errorf("card API returned status %d for %s", resp.StatusCode, cardName)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return CardInfo{}, fmt.Errorf("failed to read response: %w", err)
	}

	// The whole body must be one JSON object; "cards" is matched exactly.
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return CardInfo{}, fmt.Errorf("failed to decode response: %w", err)
	}

	rawCards := bytes.TrimSpace(envelope["cards"])
	if len(rawCards) == 0 || bytes.Equal(rawCards, []byte("null")) {
		return CardInfo{}, errNoCards
	}

	// Only the first card is decoded.
	var cards []json.RawMessage
	if err := json.Unmarshal(rawCards, &cards); err != nil {
		return CardInfo{}, fmt.Errorf("failed to decode cards: %w", err)
	}
	if len(cards) == 0 {
		return CardInfo{}, errNoCards
	}

	first := bytes.TrimSpace(cards[0])
	if bytes.Equal(first, []byte("null")) {
		return CardInfo{}, errors.New("first card is null")
	}

	var card MTGCard
	if err := json.Unmarshal(first, &card); err != nil {
		return CardInfo{}, fmt.Errorf("failed to decode card: %w", err)
	}

	return card.CardInfo(), nil
}

// newCardSource builds the CardSource selected by cfg.
func newCardSource(cfg UpstreamConfig) (CardSource, error) {
	client := newUpstreamClient(cfg.Timeout.Duration)

	switch cfg.Provider {
	case ProviderMTGIO, "":
		return newMTGIOSource(cfg.BaseURL, client), nil
	case ProviderScryfall:
		return newScryfallSource(cfg.BaseURL, client)
	default:
		return nil, fmt.Errorf("unknown upstream provider %q", cfg.Provider)
	}
}
