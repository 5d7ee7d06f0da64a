package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"
)

// maxPrices is how many quotes the status bar has room for
const maxPrices = 4

// Quote is one named price
type Quote struct {
	Name  string
	Value string
}

// Prices is the daily price board
type Prices struct {
	Date   string
	Quotes []Quote
}

// PriceClient reads the price feed
type PriceClient struct {
	url    string
	client *http.Client
}

// NewPriceClient creates a client for url
func NewPriceClient(url string, timeout time.Duration) *PriceClient {
	return &PriceClient{url: url, client: newHTTPClient(timeout)}
}

type priceResponse struct {
	Date   string                     `json:"date"`
	Prices map[string]json.RawMessage `json:"prices"`
}

// Fetch returns at most four quotes sorted by name. Values that are
// missing or not numeric are shown as the placeholder.
func (c *PriceClient) Fetch(ctx context.Context) (Prices, error) {
	if c.url == "" {
		return Prices{Date: Placeholder}, ErrDisabled
	}
	var resp priceResponse
	if err := getJSON(ctx, c.client, c.url, &resp); err != nil {
		return Prices{Date: Placeholder}, fmt.Errorf("prices: %w", err)
	}

	names := make([]string, 0, len(resp.Prices))
	for name := range resp.Prices {
		names = append(names, name)
	}
	sort.Strings(names)
	if len(names) > maxPrices {
		names = names[:maxPrices]
	}

	out := Prices{Date: resp.Date, Quotes: make([]Quote, len(names))}
	if out.Date == "" {
		out.Date = Placeholder
	}
	for i, name := range names {
		out.Quotes[i] = Quote{Name: name, Value: formatPrice(resp.Prices[name])}
	}
	return out, nil
}

func formatPrice(raw json.RawMessage) string {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return Placeholder
	}
	switch x := v.(type) {
	case float64:
		return strconv.FormatFloat(x, 'f', 2, 64)
	case string:
		f, err := strconv.ParseFloat(x, 64)
		if err != nil {
			return Placeholder
		}
		return strconv.FormatFloat(f, 'f', 2, 64)
	}
	return Placeholder
}
