// Package catalog loads the product catalog and prepares items for display.
package catalog

import (
	"encoding/json"
	"fmt"
	"html"
	"strings"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/currency"
)

// itemNamespace seeds deterministic ids for items that carry none.
var itemNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("gallery/catalog-item"))

var stripPolicy = bluemonday.StrictPolicy()

// Item is one catalog entry. Items are read-only once loaded.
type Item struct {
	ID         string
	Name       string
	Price      float64
	Currency   currency.Unit
	Image      string // URL or path, relative paths resolve against the catalog source
	ProductURL string // optional external link
	Available  bool
}

// rawItem mirrors the JSON document.
type rawItem struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	Currency   string  `json:"currency"`
	Image      string  `json:"image"`
	ProductURL string  `json:"product_url"`
	Available  bool    `json:"available"`
}

// HasLink reports whether the item carries an external product link.
func (it Item) HasLink() bool {
	return it.ProductURL != ""
}

// Decode parses a catalog document: a JSON array of items.
func Decode(data []byte) ([]Item, error) {
	var raw []rawItem
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}

	items := make([]Item, 0, len(raw))
	for _, r := range raw {
		items = append(items, r.item())
	}
	return items, nil
}

// item converts a raw entry. Unknown currency codes fall back to EUR.
func (r rawItem) item() Item {
	unit := currency.EUR
	if u, err := currency.ParseISO(strings.TrimSpace(r.Currency)); err == nil {
		unit = u
	}

	name := CleanText(r.Name)
	id := strings.TrimSpace(r.ID)
	if id == "" {
		id = uuid.NewSHA1(itemNamespace, []byte(name+"\x00"+r.Image)).String()
	}

	return Item{
		ID:         id,
		Name:       name,
		Price:      r.Price,
		Currency:   unit,
		Image:      strings.TrimSpace(r.Image),
		ProductURL: strings.TrimSpace(r.ProductURL),
		Available:  r.Available,
	}
}

// Available returns the items flagged as available, preserving order.
func Available(items []Item) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if it.Available {
			out = append(out, it)
		}
	}
	return out
}

// CleanText strips markup from catalog text so it renders as plain text.
func CleanText(s string) string {
	return strings.TrimSpace(html.UnescapeString(stripPolicy.Sanitize(s)))
}
