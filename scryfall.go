package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	scryfall "github.com/BlueMonday/go-scryfall"
)

// scryfallSource searches Scryfall instead of magicthegathering.io.
type scryfallSource struct {
	client *scryfall.Client
}

func newScryfallSource(baseURL string, httpClient *http.Client) (*scryfallSource, error) {
	opts := []scryfall.ClientOption{scryfall.WithHTTPClient(httpClient)}
	if baseURL != "" {
		opts = append(opts, scryfall.WithBaseURL(baseURL))
	}

	client, err := scryfall.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Scryfall client: %w", err)
	}

	return &scryfallSource{client: client}, nil
}

func (s *scryfallSource) Search(ctx context.Context, cardName string) (CardInfo, error) {
	result, err := s.client.SearchCards(ctx, cardName, scryfall.SearchCardsOptions{})
	if isScryfallNotFound(err) {
		return CardInfo{}, errNoCards
	}
	if err != nil {
		return CardInfo{}, fmt.Errorf("scryfall search failed: %w", err)
	}

	if len(result.Cards) == 0 {
		return CardInfo{}, errNoCards
	}

	return scryfallCardInfo(result.Cards[0]), nil
}

// isScryfallNotFound reports whether err is Scryfall's answer to a search
// with no matches.
func isScryfallNotFound(err error) bool {
	var scryfallErr *scryfall.Error
	if !errors.As(err, &scryfallErr) {
		return false
	}
	return scryfallErr.Status == http.StatusNotFound || scryfallErr.Code == "not_found"
}

func scryfallCardInfo(card scryfall.Card) CardInfo {
	info := CardInfo{
		Name:      optional(card.Name),
		ManaCost:  optional(card.ManaCost),
		Type:      optional(card.TypeLine),
		Text:      optional(card.OracleText),
		Power:     card.Power,
		Toughness: card.Toughness,
	}
	if card.ImageURIs != nil {
		info.ImageURL = optional(card.ImageURIs.Normal)
	}
	return info
}
