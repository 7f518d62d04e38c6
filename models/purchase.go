package models

// Purchase is the server-side price of a checkout, in the smallest currency unit.
type Purchase struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// LineItem is what the client claims to be buying. Any price the client
// attaches to an item is ignored; only the server prices a purchase.
type LineItem struct {
	ID       string `json:"id"`
	Quantity int64  `json:"quantity"`
}

// demoPurchase is the hardcoded price for this demo storefront.
var demoPurchase = Purchase{Amount: 1099, Currency: "USD"}

// CreatePurchase prices a purchase server-side. Extend this with real
// inventory/cart/order pricing; the signature deliberately takes the client's
// line items but never a client-declared amount.
func CreatePurchase(items []LineItem) Purchase {
	return demoPurchase
}
