package sandbox

import "encoding/json"

// Moniteur is an instructor as serialized by the API
type Moniteur struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Role  string `json:"role,omitempty"`
	Email string `json:"email,omitempty"`
}

// MoniteurLink is one entry of a "moniteurs" relation. Moniteur may be nil.
type MoniteurLink struct {
	Moniteur *Moniteur `json:"moniteur,omitempty"`
}

// Slot is a tandem flight slot as served by biplaces/getAll
type Slot struct {
	ID              string            `json:"id"`
	Date            string            `json:"date"`
	Duration        int               `json:"duration"`
	Places          int               `json:"places"`
	Categories      []string          `json:"categories,omitempty"`
	AcomptePrice    float64           `json:"acomptePrice"`
	AvailablePlaces int               `json:"availablePlaces"`
	Bookings        []json.RawMessage `json:"bookings"`
	Moniteurs       []MoniteurLink    `json:"moniteurs"`
}

// Stage is a course session as served by stages/getAll
type Stage struct {
	ID        string            `json:"id"`
	StartDate string            `json:"startDate"`
	Duration  int               `json:"duration"`
	Places    int               `json:"places"`
	Price     float64           `json:"price"`
	Type      string            `json:"type"`
	Bookings  []json.RawMessage `json:"bookings"`
	Moniteurs []MoniteurLink    `json:"moniteurs"`
}

// Customer is a stored customer as returned by customers/create
type Customer struct {
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

var (
	alice = &Moniteur{ID: "mon-alice", Name: "Alice", Role: "MONITEUR", Email: "alice@example.com"}
	bruno = &Moniteur{ID: "mon-bruno", Name: "Bruno", Role: "MONITEUR", Email: "bruno@example.com"}
)

func bookings(n int) []json.RawMessage {
	out := make([]json.RawMessage, n)
	for i := range out {
		out[i] = json.RawMessage(`{"id":"bk"}`)
	}
	return out
}

// DefaultSlots returns the slots a new Server starts with. Two of the four
// still have free places.
func DefaultSlots() []Slot {
	return []Slot{
		{
			ID: "slot-1", Date: "2024-06-15T10:00:00.000Z", Duration: 20, Places: 2,
			Categories: []string{"AVENTURE"}, AcomptePrice: 40, AvailablePlaces: 1,
			Bookings:  bookings(1),
			Moniteurs: []MoniteurLink{{Moniteur: alice}},
		},
		{
			ID: "slot-2", Date: "2024-06-15T14:00:00.000Z", Duration: 20, Places: 1,
			Categories: []string{"AVENTURE"}, AcomptePrice: 40, AvailablePlaces: 0,
			Bookings:  bookings(1),
			Moniteurs: []MoniteurLink{{Moniteur: bruno}},
		},
		{
			ID: "slot-3", Date: "2024-06-16T10:00:00.000Z", Duration: 45, Places: 3,
			Categories: []string{"DUREE", "LONGUE_DUREE"}, AcomptePrice: 60, AvailablePlaces: 3,
			Bookings:  bookings(0),
			Moniteurs: []MoniteurLink{{Moniteur: alice}, {Moniteur: bruno}},
		},
		{
			ID: "slot-4", Date: "2024-06-17T10:00:00.000Z", Duration: 20, Places: 2,
			Categories: []string{"ENFANT"}, AcomptePrice: 40, AvailablePlaces: 0,
			Bookings:  bookings(2),
			Moniteurs: []MoniteurLink{},
		},
	}
}

// DefaultStages returns the stages a new Server starts with
func DefaultStages() []Stage {
	return []Stage{
		{
			ID: "stage-1", StartDate: "2024-06-17T09:00:00.000Z", Duration: 5, Places: 6,
			Price: 700, Type: "INITIATION", Bookings: bookings(2),
			Moniteurs: []MoniteurLink{{Moniteur: alice}},
		},
		{
			ID: "stage-2", StartDate: "2024-06-20T09:00:00.000Z", Duration: 5, Places: 6,
			Price: 700, Type: "PROGRESSION", Bookings: bookings(6),
			Moniteurs: []MoniteurLink{{Moniteur: bruno}},
		},
		{
			ID: "stage-3", StartDate: "2024-07-15T09:00:00.000Z", Duration: 10, Places: 6,
			Price: 1200, Type: "AUTONOMIE", Bookings: bookings(0),
			Moniteurs: []MoniteurLink{},
		},
	}
}
