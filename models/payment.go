package models

// PaymentMethod is a gateway entry from the backend's live method list.
type PaymentMethod struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Enabled    bool     `json:"enabled"`
	MinAmount  float64  `json:"min_amount,omitempty"`
	MaxAmount  float64  `json:"max_amount,omitempty"`
	Currencies []string `json:"currencies,omitempty"`
}

// SupportsCurrency reports whether the method accepts the given currency.
// An empty list means all currencies are accepted.
func (m PaymentMethod) SupportsCurrency(currency string) bool {
	if len(m.Currencies) == 0 {
		return true
	}
	for _, c := range m.Currencies {
		if c == currency {
			return true
		}
	}
	return false
}

// PaymentInitRequest asks a gateway to start a payment flow for an order.
type PaymentInitRequest struct {
	OrderID   string  `json:"order_id"`
	Method    string  `json:"method"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	ReturnURL string  `json:"return_url,omitempty"`
}

// PaymentInit is the gateway's handle for an initialized payment.
type PaymentInit struct {
	TransactionID string `json:"transaction_id"`
	ClientSecret  string `json:"client_secret,omitempty"`
	RedirectURL   string `json:"redirect_url,omitempty"`
	Status        string `json:"status"`
}
