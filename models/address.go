package models

// Address represents a billing or shipping postal address.
type Address struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Company   string `json:"company,omitempty"`
	Address1  string `json:"address_1"`
	Address2  string `json:"address_2,omitempty"`
	City      string `json:"city"`
	State     string `json:"state,omitempty"`
	Postcode  string `json:"postcode,omitempty"`
	Country   string `json:"country"` // ISO 3166-1 alpha-2, e.g. "US"
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// IsEmpty reports whether no meaningful field has been filled in.
func (a Address) IsEmpty() bool {
	return a.FirstName == "" && a.LastName == "" && a.Address1 == "" &&
		a.City == "" && a.Postcode == "" && a.Country == ""
}

// AddressKind distinguishes billing from shipping validation rules.
type AddressKind string

const (
	AddressKindBilling  AddressKind = "billing"
	AddressKindShipping AddressKind = "shipping"
)
