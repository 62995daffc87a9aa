package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Card mirrors the JSON record returned by the card endpoint.
type Card struct {
	Name      *string `json:"name"`
	ManaCost  *string `json:"mana_cost"`
	Type      *string `json:"type"`
	Text      *string `json:"text"`
	Power     *string `json:"power"`
	Toughness *string `json:"toughness"`
	ImageURL  *string `json:"image_url"`
}

// CardClient looks up cards on behalf of the chat model.
type CardClient interface {
	LookupCard(ctx context.Context, cardName string) (*Card, error)
}

// HTTPCardClient posts lookups to a running mtg-card-tool server.
type HTTPCardClient struct {
	endpoint   string
	httpClient *http.Client
}

func NewHTTPCardClient(endpoint string) *HTTPCardClient {
	return &HTTPCardClient{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type errorBody struct {
	Error string `json:"error"`
}

func (c *HTTPCardClient) LookupCard(ctx context.Context, cardName string) (*Card, error) {
	reqBody, err := json.Marshal(map[string]string{"card_name": cardName})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr errorBody
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err != nil || apiErr.Error == "" {
			return nil, fmt.Errorf("card endpoint returned status %d", resp.StatusCode)
		}
		return nil, errors.New(apiErr.Error)
	}

	var card Card
	if err := json.NewDecoder(resp.Body).Decode(&card); err != nil {
		return nil, fmt.Errorf("failed to decode card: %w", err)
	}

	return &card, nil
}
