package booking

import (
	"encoding/json"
	"maps"
)

// Customer is the payload of customers/create. Extra carries any additional
// caller-supplied fields, sent alongside the required ones.
//
// Height and Weight are sent exactly as given: the server accepts "180" as
// well as 180. A nil value counts as missing; zero does not.
type Customer struct {
	FirstName  string `json:"firstname" yaml:"firstname"`
	LastName   string `json:"lastname" yaml:"lastname"`
	Email      string `json:"email" yaml:"email"`
	Phone      string `json:"phone" yaml:"phone"`
	Address    string `json:"adress" yaml:"adress"`
	PostalCode string `json:"postalCode" yaml:"postalCode"`
	City       string `json:"city" yaml:"city"`
	Country    string `json:"country" yaml:"country"`
	Height     any    `json:"height" yaml:"height"`
	Weight     any    `json:"weight" yaml:"weight"`

	Extra map[string]any `json:"-" yaml:",inline"`
}

type requiredField struct {
	name    string
	present func(Customer) bool
	value   func(Customer) any
}

// requiredFields is ordered; validation errors list names in this order
var requiredFields = []requiredField{
	{"firstname", func(c Customer) bool { return c.FirstName != "" }, func(c Customer) any { return c.FirstName }},
	{"lastname", func(c Customer) bool { return c.LastName != "" }, func(c Customer) any { return c.LastName }},
	{"email", func(c Customer) bool { return c.Email != "" }, func(c Customer) any { return c.Email }},
	{"phone", func(c Customer) bool { return c.Phone != "" }, func(c Customer) any { return c.Phone }},
	{"adress", func(c Customer) bool { return c.Address != "" }, func(c Customer) any { return c.Address }},
	{"postalCode", func(c Customer) bool { return c.PostalCode != "" }, func(c Customer) any { return c.PostalCode }},
	{"city", func(c Customer) bool { return c.City != "" }, func(c Customer) any { return c.City }},
	{"country", func(c Customer) bool { return c.Country != "" }, func(c Customer) any { return c.Country }},
	{"height", func(c Customer) bool { return c.Height != nil }, func(c Customer) any { return c.Height }},
	{"weight", func(c Customer) bool { return c.Weight != nil }, func(c Customer) any { return c.Weight }},
}

// RequiredFields returns the names of the required customer fields, in order
func RequiredFields() []string {
	names := make([]string, len(requiredFields))
	for i, f := range requiredFields {
		names[i] = f.name
	}
	return names
}

// MissingFields returns the required fields that are not set, in order
func (c Customer) MissingFields() []string {
	var missing []string
	for _, f := range requiredFields {
		if !f.present(c) {
			missing = append(missing, f.name)
		}
	}
	return missing
}

// Validate returns a KindValidation error when required fields are missing
func (c Customer) Validate() error {
	if missing := c.MissingFields(); len(missing) > 0 {
		return newValidationError(missing)
	}
	return nil
}

// MarshalJSON writes the required fields merged with Extra. Extra never
// overrides a required field.
func (c Customer) MarshalJSON() ([]byte, error) {
	body := make(map[string]any, len(requiredFields)+len(c.Extra))
	maps.Copy(body, c.Extra)
	for _, f := range requiredFields {
		body[f.name] = f.value(c)
	}
	return json.Marshal(body)
}
