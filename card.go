package main

import (
	"bytes"
	"encoding/json"
)

// CardInfo is the simplified card record returned to the calling agent.
// Fields missing upstream are nil and serialize as null.
type CardInfo struct {
	Name      *string `json:"name"`
	ManaCost  *string `json:"mana_cost"`
	Type      *string `json:"type"`
	Text      *string `json:"text"`
	Power     *string `json:"power"`
	Toughness *string `json:"toughness"`
	ImageURL  *string `json:"image_url"`
}

// MTGCard is a magicthegathering.io card keyed by its exact field names.
// Keys are matched case-sensitively.
type MTGCard map[string]json.RawMessage

// CardInfo converts the upstream card into the outbound shape.
func (c MTGCard) CardInfo() CardInfo {
	return CardInfo{
		Name:      c.field("name"),
		ManaCost:  c.field("manaCost"),
		Type:      c.field("type"),
		Text:      c.field("text"),
		Power:     c.field("power"),
		Toughness: c.field("toughness"),
		ImageURL:  c.field("imageUrl"),
	}
}

// field returns a string value as-is, null or absent as nil, and any other
// JSON value as its text, so one odd field never drops the whole card.
func (c MTGCard) field(key string) *string {
	raw := bytes.TrimSpace(c[key])
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return &s
	}

	text := string(raw)
	return &text
}

// optional maps the empty string to an absent value.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func valueOr(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}
