package renderer

import (
	"github.com/etnz/refdata"
	"github.com/etnz/refdata/date"
)

// Rates is the series of one currency over a range.
type Rates struct {
	Currency refdata.CurrencyCode `json:"currency"`
	Symbol   string               `json:"symbol"`
	Range    date.Range           `json:"range"`
	Rows     []RateRow            `json:"rows"`
}

// RateRow is the rate published on a given day.
type RateRow struct {
	Date date.Date `json:"date"`
	Rate float64   `json:"rate"`
}

// NewRates keeps the points of h within r.
func NewRates(code refdata.CurrencyCode, r date.Range, h *date.History[float64]) *Rates {
	rates := &Rates{Currency: code, Symbol: code.Symbol(), Range: r}
	for day, rate := range h.Values() {
		if r.Contains(day) {
			rates.Rows = append(rates.Rows, RateRow{Date: day, Rate: rate})
		}
	}
	return rates
}

// RenderRates renders a rate series as a markdown table.
func RenderRates(r *Rates) string {
	partials := map[string]string{
		"rates_table": "rates_table.md",
	}
	return renderTemplate("rates", "rates.md", partials, r)
}
