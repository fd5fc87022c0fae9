// Package dto defines the wire representations of Finnhub API responses.
package dto

// QuoteResponse is the /quote response. Field names follow Finnhub's
// single-letter convention: c=current, d=change, dp=change percent.
type QuoteResponse struct {
	Current       float64  `json:"c"`
	Change        float64  `json:"d"`
	ChangePercent *float64 `json:"dp"`
	High          float64  `json:"h"`
	Low           float64  `json:"l"`
	Open          float64  `json:"o"`
	PrevClose     float64  `json:"pc"`
}
