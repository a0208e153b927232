// Package sandbox is an in-memory stand-in for the public booking API. It
// serves biplaces/getAll, stages/getAll and customers/create behind the same
// x-api-key check as the real service and records every request it sees.
package sandbox

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Request is a request recorded by the Server
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   []byte
}

// Server is a fake booking API
type Server struct {
	apiKey string

	mu        sync.Mutex
	slots     []Slot
	stages    []Stage
	customers []Customer
	requests  []Request
	forced    map[string]int
}

// Option configures a Server
type Option func(*Server)

// WithSlots replaces the default slots
func WithSlots(slots []Slot) Option {
	return func(s *Server) {
		s.slots = slots
	}
}

// WithStages replaces the default stages
func WithStages(stages []Stage) Option {
	return func(s *Server) {
		s.stages = stages
	}
}

// WithStatus makes every request to path answer with the given status code
func WithStatus(path string, status int) Option {
	return func(s *Server) {
		s.forced["/"+strings.TrimPrefix(path, "/")] = status
	}
}

// New creates a Server accepting apiKey
func New(apiKey string, opts ...Option) *Server {
	s := &Server{
		apiKey: apiKey,
		slots:  DefaultSlots(),
		stages: DefaultStages(),
		forced: make(map[string]int),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the HTTP handler serving the API under its root
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(s.record)
	r.Use(s.requireAPIKey)
	r.Use(s.forceStatus)

	r.Get("/biplaces/getAll", s.listSlots)
	r.Get("/stages/getAll", s.listStages)
	r.Post("/customers/create", s.createCustomer)

	return r
}

// Requests returns a copy of every request received so far
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// RequestCount returns the number of requests received so far
func (s *Server) RequestCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

// Customers returns the customers created so far
func (s *Server) Customers() []Customer {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Customer, len(s.customers))
	copy(out, s.customers)
	return out
}

// ─── Middleware ───────────────────────────────────────────────────────────────

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body.Close()
		r.Body = io.NopCloser(strings.NewReader(string(body)))

		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.Query(),
			Header: r.Header.Clone(),
			Body:   body,
		})
		s.mu.Unlock()

		next.ServeHTTP(w, r)
	})
}

func (s *Server) requireAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if key := r.Header.Get("x-api-key"); key == "" || key != s.apiKey {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) forceStatus(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		status, ok := s.forced[r.URL.Path]
		s.mu.Unlock()
		if ok {
			writeJSON(w, status, map[string]string{"error": http.StatusText(status)})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ─── Handlers ─────────────────────────────────────────────────────────────────

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// listSlots handles GET /biplaces/getAll
func (s *Server) listSlots(w http.ResponseWriter, r *http.Request) {
	moniteurID := r.URL.Query().Get("moniteurId")
	date := r.URL.Query().Get("date")

	s.mu.Lock()
	result := make([]Slot, 0, len(s.slots))
	for _, slot := range s.slots {
		if matches(slot.Date, slot.Moniteurs, moniteurID, date) {
			result = append(result, slot)
		}
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, envelope{Success: true, Data: result})
}

// listStages handles GET /stages/getAll
func (s *Server) listStages(w http.ResponseWriter, r *http.Request) {
	moniteurID := r.URL.Query().Get("moniteurId")
	date := r.URL.Query().Get("date")

	s.mu.Lock()
	result := make([]Stage, 0, len(s.stages))
	for _, stage := range s.stages {
		if matches(stage.StartDate, stage.Moniteurs, moniteurID, date) {
			result = append(result, stage)
		}
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, envelope{Success: true, Data: result})
}

// createCustomer handles POST /customers/create
func (s *Server) createCustomer(w http.ResponseWriter, r *http.Request) {
	var in struct {
		FirstName  string `json:"firstname"`
		LastName   string `json:"lastname"`
		Email      string `json:"email"`
		Phone      string `json:"phone"`
		Address    string `json:"adress"`
		PostalCode string `json:"postalCode"`
		City       string `json:"city"`
		Country    string `json:"country"`
		Height     any    `json:"height"`
		Weight     any    `json:"weight"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, envelope{Message: "invalid request body: " + err.Error()})
		return
	}

	height, heightOK := measure(in.Height)
	weight, weightOK := measure(in.Weight)
	if in.FirstName == "" || in.LastName == "" || in.Email == "" || in.Phone == "" ||
		in.Address == "" || in.PostalCode == "" || in.City == "" || in.Country == "" ||
		!heightOK || !weightOK {
		writeJSON(w, http.StatusOK, envelope{Message: "Missing fields"})
		return
	}

	customer := Customer{
		ID:         uuid.New().String(),
		FirstName:  in.FirstName,
		LastName:   in.LastName,
		Email:      in.Email,
		Phone:      in.Phone,
		Address:    in.Address,
		PostalCode: in.PostalCode,
		City:       in.City,
		Country:    in.Country,
		Height:     height,
		Weight:     weight,
	}

	s.mu.Lock()
	s.customers = append(s.customers, customer)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, envelope{
		Success: true,
		Message: "Customer " + customer.FirstName + " " + customer.LastName + " registered",
		Data:    customer,
	})
}

// measure converts a height or weight sent as a JSON number or a numeric
// string. Customers are stored with numbers either way.
func measure(v any) (float64, bool) {
	switch m := v.(type) {
	case float64:
		return m, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(m), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// matches applies the moniteurId and date filters. Dates compare on the
// calendar day of the stored ISO timestamp.
func matches(when string, links []MoniteurLink, moniteurID, date string) bool {
	if date != "" && !strings.HasPrefix(when, date) {
		return false
	}
	if moniteurID == "" {
		return true
	}
	for _, link := range links {
		if link.Moniteur != nil && link.Moniteur.ID == moniteurID {
			return true
		}
	}
	return false
}
