package booking

import (
	"encoding/json"
	"fmt"
	"time"
)

// Response is the {success, message, data} envelope every endpoint returns
type Response[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    T      `json:"data"`

	// Raw holds the body exactly as received
	Raw json.RawMessage `json:"-"`
}

// Result returns the payload, or an APIFailureError when the server
// reported success=false
func (r *Response[T]) Result() (T, error) {
	if !r.Success {
		var zero T
		return zero, &APIFailureError{Message: r.Message}
	}
	return r.Data, nil
}

// Instructor represents a moniteur as embedded in slot and stage payloads
type Instructor struct {
	ID        string `json:"id"`
	Name      string `json:"name,omitempty"`
	Role      string `json:"role,omitempty"`
	AvatarURL string `json:"avatarUrl,omitempty"`
	Email     string `json:"email,omitempty"`
}

// InstructorLink is one entry of a "moniteurs" relation list. The nested
// instructor may be absent.
type InstructorLink struct {
	Instructor *Instructor `json:"moniteur,omitempty"`
}

// Slot represents a bookable tandem flight ("biplace")
type Slot struct {
	ID                    string            `json:"id"`
	Date                  time.Time         `json:"date"`
	Duration              int               `json:"duration"`
	Places                int               `json:"places"`
	Categories            []string          `json:"categories,omitempty"`
	AcomptePrice          float64           `json:"acomptePrice,omitempty"`
	AvailablePlaces       *int              `json:"availablePlaces,omitempty"`
	ConfirmedBookings     int               `json:"confirmedBookings,omitempty"`
	TemporaryReservations int               `json:"temporaryReservations,omitempty"`
	Bookings              []json.RawMessage `json:"bookings,omitempty"`
	Instructors           []InstructorLink  `json:"moniteurs"`
}

// Capacity returns the number of places of the slot
func (s Slot) Capacity() int {
	return s.Places
}

// BookingCount returns the number of bookings attached to the slot
func (s Slot) BookingCount() int {
	return len(s.Bookings)
}

// InstructorLinks returns the instructor relations of the slot
func (s Slot) InstructorLinks() []InstructorLink {
	return s.Instructors
}

// When returns the slot date
func (s Slot) When() time.Time {
	return s.Date
}

// UnmarshalJSON accepts a full timestamp or a bare YYYY-MM-DD date
func (s *Slot) UnmarshalJSON(data []byte) error {
	type plain Slot
	aux := struct {
		*plain
		Date apiTime `json:"date"`
	}{plain: (*plain)(s)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	s.Date = aux.Date.Time
	return nil
}

// StageType is the level of a multi-day course
type StageType string

const (
	StageInitiation  StageType = "INITIATION"
	StageProgression StageType = "PROGRESSION"
	StageAutonomie   StageType = "AUTONOMIE"
)

// Stage represents a multi-day course session
type Stage struct {
	ID           string            `json:"id"`
	StartDate    time.Time         `json:"startDate"`
	Duration     int               `json:"duration"`
	Places       int               `json:"places"`
	Price        float64           `json:"price,omitempty"`
	AcomptePrice float64           `json:"acomptePrice,omitempty"`
	Type         StageType         `json:"type,omitempty"`
	Bookings     []json.RawMessage `json:"bookings,omitempty"`
	Instructors  []InstructorLink  `json:"moniteurs"`
}

// Capacity returns the number of places of the stage
func (s Stage) Capacity() int {
	return s.Places
}

// BookingCount returns the number of bookings attached to the stage
func (s Stage) BookingCount() int {
	return len(s.Bookings)
}

// InstructorLinks returns the instructor relations of the stage
func (s Stage) InstructorLinks() []InstructorLink {
	return s.Instructors
}

// When returns the first day of the stage
func (s Stage) When() time.Time {
	return s.StartDate
}

// UnmarshalJSON accepts a full timestamp or a bare YYYY-MM-DD start date
func (s *Stage) UnmarshalJSON(data []byte) error {
	type plain Stage
	aux := struct {
		*plain
		StartDate apiTime `json:"startDate"`
	}{plain: (*plain)(s)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	s.StartDate = aux.StartDate.Time
	return nil
}

// apiTimeLayouts are tried in order when decoding a date
var apiTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// apiTime decodes the date formats the API is known to emit. null and ""
// decode to the zero time.
type apiTime struct {
	time.Time
}

func (t *apiTime) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}

	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	if text == "" {
		return nil
	}

	for _, layout := range apiTimeLayouts {
		if parsed, err := time.Parse(layout, text); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("unsupported date format %q", text)
}

// CustomerRecord is the customer as stored by the server
type CustomerRecord struct {
	ID         string  `json:"id"`
	FirstName  string  `json:"firstName"`
	LastName   string  `json:"lastName"`
	Email      string  `json:"email"`
	Phone      string  `json:"phone"`
	Address    string  `json:"adress"`
	PostalCode string  `json:"postalCode"`
	City       string  `json:"city"`
	Country    string  `json:"country"`
	Height     float64 `json:"height"`
	Weight     float64 `json:"weight"`
}

// Query holds the optional filters accepted by the list endpoints
type Query struct {
	InstructorID string
	Date         string
}
