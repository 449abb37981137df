package meli

// ScanSearchResponse is one page of the seller items scan search.
type ScanSearchResponse struct {
	Results  []string `json:"results"`
	ScrollID string   `json:"scroll_id"`
	Paging   Paging   `json:"paging"`
}

type Paging struct {
	Total int `json:"total"`
}

// ItemEnvelope wraps one item in a multiget response. Only Code 200 bodies
// carry a usable item.
type ItemEnvelope struct {
	Code int     `json:"code"`
	Body RawItem `json:"body"`
}

// RawItem is an item exactly as the marketplace returns it.
type RawItem struct {
	ID                string    `json:"id"`
	Title             string    `json:"title"`
	Price             float64   `json:"price"`
	CurrencyID        string    `json:"currency_id"`
	AvailableQuantity int       `json:"available_quantity"`
	SoldQuantity      int       `json:"sold_quantity"`
	Condition         string    `json:"condition"`
	Thumbnail         string    `json:"thumbnail"`
	Status            string    `json:"status"`
	Permalink         string    `json:"permalink"`
	CategoryID        string    `json:"category_id"`
	Pictures          []Picture `json:"pictures"`
}

type Picture struct {
	ID        string `json:"id"`
	URL       string `json:"url"`
	SecureURL string `json:"secure_url"`
}

// TokenResponse is the OAuth token endpoint response for the
// refresh_token grant.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	Scope        string `json:"scope"`
	UserID       int64  `json:"user_id"`
	RefreshToken string `json:"refresh_token"`
}
