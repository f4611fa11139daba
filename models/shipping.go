package models

import "time"

// ShippingRate is a priced shipping option. Rates are not guaranteed stable
// across requests; a selected rate must be re-validated against a freshly
// fetched set.
type ShippingRate struct {
	ID            string  `json:"id"`
	MethodID      string  `json:"method_id"` // e.g. "flat_rate", "overnight"
	Label         string  `json:"label"`
	Cost          float64 `json:"cost"`
	Tax           float64 `json:"tax"`
	Currency      string  `json:"currency"`
	Zone          string  `json:"zone,omitempty"`
	EstimatedDays int     `json:"estimated_days,omitempty"`
}

// RateRequest describes the destination and cart a rate set is resolved for.
type RateRequest struct {
	Destination Address    `json:"destination"`
	Items       []CartItem `json:"items"`
	CartTotal   float64    `json:"cart_total"`
	Currency    string     `json:"currency"`
}

// RateSet is a freshly resolved set of shipping rates.
type RateSet struct {
	Rates     []ShippingRate `json:"rates"`
	FetchedAt time.Time      `json:"fetched_at"`
}

// FindRate returns the rate with the given id, or nil.
func (rs RateSet) FindRate(id string) *ShippingRate {
	for i := range rs.Rates {
		if rs.Rates[i].ID == id {
			return &rs.Rates[i]
		}
	}
	return nil
}
