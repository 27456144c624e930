package entity

// Address is the structured result of a reverse-geocode lookup, in the shape
// the geocoding provider reports.
type Address struct {
	FormattedAddress string `json:"formatted_address"`
	BuildingName     string `json:"building_name,omitempty"`
	Street           string `json:"street,omitempty"`
	City             string `json:"city,omitempty"`
	State            string `json:"state,omitempty"`
	Country          string `json:"country,omitempty"`
	PostalCode       string `json:"postal_code,omitempty"`
}
