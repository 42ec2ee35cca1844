package domain

// CartItem is one cart line, keyed by product id. Price and name are copied
// from the product at add time so an order snapshot stays stable when the
// catalog changes later.
type CartItem struct {
	ProductID  int64  `json:"productId"`
	Name       string `json:"name"`
	PriceCents int64  `json:"priceCents"`
	ImageURL   string `json:"imageUrl,omitempty"`
	Quantity   int    `json:"quantity"`
}

// ShippingAddress is a plain value object embedded into orders.
type ShippingAddress struct {
	FullName   string `json:"fullName"`
	Address    string `json:"address"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}
