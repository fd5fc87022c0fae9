package dto

// ProfileResponse is the /stock/profile2 response (subset).
// MarketCapitalization is denominated in billions of USD.
type ProfileResponse struct {
	Name                 string  `json:"name"`
	Ticker               string  `json:"ticker"`
	Exchange             string  `json:"exchange"`
	MarketCapitalization float64 `json:"marketCapitalization"`
	Currency             string  `json:"currency"`
	WebURL               string  `json:"weburl"`
}
