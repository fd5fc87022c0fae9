package dto

// SearchResponse is the /search response.
type SearchResponse struct {
	Count  int          `json:"count"`
	Result []SearchItem `json:"result"`
}

// SearchItem is a single symbol match in a search response.
type SearchItem struct {
	Symbol        string `json:"symbol"`
	Description   string `json:"description"`
	DisplaySymbol string `json:"displaySymbol"`
	Type          string `json:"type"`
}
