package booking

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scparapente/baptctl/sandbox"
)

const testKey = "test-key"

func newSandboxClient(t *testing.T, opts ...sandbox.Option) (*Client, *sandbox.Server) {
	t.Helper()
	fake := sandbox.New(testKey, opts...)
	server := httptest.NewServer(fake.Handler())
	t.Cleanup(server.Close)

	client, err := NewClient(server.URL, testKey, zerolog.Nop())
	require.NoError(t, err)
	return client, fake
}

func validCustomer() Customer {
	return Customer{
		FirstName:  "Pierre",
		LastName:   "Dubois",
		Email:      "pierre.dubois@email.com",
		Phone:      "+33123456789",
		Address:    "789 Route de la Montagne",
		PostalCode: "05240",
		City:       "La Salle-les-Alpes",
		Country:    "France",
		Height:     180,
		Weight:     75,
	}
}

func TestNewClient(t *testing.T) {
	logger := zerolog.Nop()

	tests := []struct {
		name    string
		baseURL string
		apiKey  string
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid config",
			baseURL: "http://localhost:3000/api/",
			apiKey:  testKey,
		},
		{
			name:    "missing URL",
			apiKey:  testKey,
			wantErr: true,
			errMsg:  "base URL is required",
		},
		{
			name:    "missing API key",
			baseURL: "http://localhost:3000/api",
			wantErr: true,
			errMsg:  "API key is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.baseURL, tt.apiKey, logger)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidConfig)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "http://localhost:3000/api", client.BaseURL())
			assert.Equal(t, DefaultTimeout, client.httpClient.Timeout)
		})
	}
}

func TestClientOptions(t *testing.T) {
	logger := zerolog.Nop()

	t.Run("with timeout", func(t *testing.T) {
		client, err := NewClient("http://localhost", testKey, logger, WithTimeout(5*time.Second))
		require.NoError(t, err)
		assert.Equal(t, 5*time.Second, client.httpClient.Timeout)
	})

	t.Run("with custom http client", func(t *testing.T) {
		custom := &http.Client{Timeout: 10 * time.Second}
		client, err := NewClient("http://localhost", testKey, logger, WithHTTPClient(custom))
		require.NoError(t, err)
		assert.Same(t, custom, client.httpClient)
	})

	t.Run("with user agent", func(t *testing.T) {
		client, err := NewClient("http://localhost", testKey, logger, WithUserAgent("demo/1.0"))
		require.NoError(t, err)
		assert.Equal(t, "demo/1.0", client.userAgent)
	})
}

func TestListBaptemeSlots(t *testing.T) {
	ctx := context.Background()

	t.Run("no filters sends no query", func(t *testing.T) {
		client, fake := newSandboxClient(t)

		resp, err := client.ListBaptemeSlots(ctx, Query{})
		require.NoError(t, err)
		assert.True(t, resp.Success)
		assert.Len(t, resp.Data, 4)

		reqs := fake.Requests()
		require.Len(t, reqs, 1)
		assert.Equal(t, http.MethodGet, reqs[0].Method)
		assert.Equal(t, "/biplaces/getAll", reqs[0].Path)
		assert.Empty(t, reqs[0].Query)
	})

	t.Run("date only", func(t *testing.T) {
		client, fake := newSandboxClient(t)

		resp, err := client.ListBaptemeSlots(ctx, Query{Date: "2024-06-15"})
		require.NoError(t, err)
		assert.Len(t, resp.Data, 2)

		reqs := fake.Requests()
		require.Len(t, reqs, 1)
		assert.Equal(t, "2024-06-15", reqs[0].Query.Get("date"))
		assert.False(t, reqs[0].Query.Has("moniteurId"))
	})

	t.Run("instructor and date", func(t *testing.T) {
		client, fake := newSandboxClient(t)

		_, err := client.ListBaptemeSlots(ctx, Query{InstructorID: "mon-alice", Date: "2024-06-16"})
		require.NoError(t, err)

		q := fake.Requests()[0].Query
		assert.Equal(t, "mon-alice", q.Get("moniteurId"))
		assert.Equal(t, "2024-06-16", q.Get("date"))
	})

	t.Run("decodes slot payload", func(t *testing.T) {
		client, _ := newSandboxClient(t)

		resp, err := client.ListBaptemeSlots(ctx, Query{})
		require.NoError(t, err)

		first := resp.Data[0]
		assert.Equal(t, "slot-1", first.ID)
		assert.Equal(t, 2, first.Places)
		assert.Equal(t, 1, first.BookingCount())
		assert.Equal(t, time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC), first.Date.UTC())
		require.Len(t, first.Instructors, 1)
		assert.Equal(t, "Alice", first.Instructors[0].Instructor.Name)
		require.NotNil(t, first.AvailablePlaces)
		assert.Equal(t, 1, *first.AvailablePlaces)
		assert.NotEmpty(t, resp.Raw)
	})

	t.Run("sends authentication headers", func(t *testing.T) {
		client, fake := newSandboxClient(t)

		_, err := client.ListBaptemeSlots(ctx, Query{})
		require.NoError(t, err)

		h := fake.Requests()[0].Header
		assert.Equal(t, testKey, h.Get("x-api-key"))
		assert.Equal(t, "application/json", h.Get("Content-Type"))
	})
}

func TestListStages(t *testing.T) {
	client, fake := newSandboxClient(t)

	resp, err := client.ListStages(context.Background(), Query{InstructorID: "mon-bruno"})
	require.NoError(t, err)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, StageProgression, resp.Data[0].Type)
	assert.Equal(t, 6, resp.Data[0].BookingCount())

	req := fake.Requests()[0]
	assert.Equal(t, "/stages/getAll", req.Path)
	assert.Equal(t, "mon-bruno", req.Query.Get("moniteurId"))
	assert.False(t, req.Query.Has("date"))
}

func TestCreateCustomer(t *testing.T) {
	ctx := context.Background()

	t.Run("missing fields never reach the network", func(t *testing.T) {
		tests := []struct {
			name   string
			mutate func(*Customer)
			want   []string
		}{
			{
				name:   "single field",
				mutate: func(c *Customer) { c.Email = "" },
				want:   []string{"email"},
			},
			{
				name: "several fields keep declaration order",
				mutate: func(c *Customer) {
					c.Weight = nil
					c.FirstName = ""
					c.Address = ""
				},
				want: []string{"firstname", "adress", "weight"},
			},
			{
				name:   "everything",
				mutate: func(c *Customer) { *c = Customer{} },
				want:   RequiredFields(),
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				client, fake := newSandboxClient(t)
				customer := validCustomer()
				tt.mutate(&customer)

				resp, err := client.CreateCustomer(ctx, customer)
				require.Error(t, err)
				assert.Nil(t, resp)
				assert.ErrorIs(t, err, ErrValidation)

				var bookingErr *Error
				require.True(t, errors.As(err, &bookingErr))
				assert.Equal(t, KindValidation, bookingErr.Kind)
				assert.Equal(t, tt.want, bookingErr.Fields)
				assert.Equal(t, 0, fake.RequestCount())
			})
		}
	})

	t.Run("posts the full record", func(t *testing.T) {
		client, fake := newSandboxClient(t)
		customer := validCustomer()
		customer.Extra = map[string]any{"newsletter": true}

		resp, err := client.CreateCustomer(ctx, customer)
		require.NoError(t, err)
		assert.True(t, resp.Success)
		assert.Equal(t, "Pierre", resp.Data.FirstName)
		assert.NotEmpty(t, resp.Data.ID)

		reqs := fake.Requests()
		require.Len(t, reqs, 1)
		assert.Equal(t, http.MethodPost, reqs[0].Method)
		assert.Equal(t, "/customers/create", reqs[0].Path)

		var got, want map[string]any
		require.NoError(t, json.Unmarshal(reqs[0].Body, &got))
		require.NoError(t, json.Unmarshal([]byte(`{
			"firstname": "Pierre",
			"lastname": "Dubois",
			"email": "pierre.dubois@email.com",
			"phone": "+33123456789",
			"adress": "789 Route de la Montagne",
			"postalCode": "05240",
			"city": "La Salle-les-Alpes",
			"country": "France",
			"height": 180,
			"weight": 75,
			"newsletter": true
		}`), &want))
		assert.Equal(t, want, got)
	})
}

func TestStatusClassification(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		kind     ErrorKind
		sentinel error
	}{
		{"unauthorized", http.StatusUnauthorized, KindAuthentication, ErrUnauthorized},
		{"internal error", http.StatusInternalServerError, KindServer, ErrServer},
		{"forbidden", http.StatusForbidden, KindHTTP, ErrHTTP},
		{"not found", http.StatusNotFound, KindHTTP, ErrHTTP},
		{"bad gateway", http.StatusBadGateway, KindHTTP, ErrHTTP},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newSandboxClient(t, sandbox.WithStatus("biplaces/getAll", tt.status))

			_, err := client.ListBaptemeSlots(context.Background(), Query{})
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.sentinel)

			var bookingErr *Error
			require.True(t, errors.As(err, &bookingErr))
			assert.Equal(t, tt.kind, bookingErr.Kind)
			assert.Equal(t, tt.status, bookingErr.StatusCode)
		})
	}

	t.Run("wrong key", func(t *testing.T) {
		fake := sandbox.New("the-real-key")
		server := httptest.NewServer(fake.Handler())
		defer server.Close()

		client, err := NewClient(server.URL, "stale-key", zerolog.Nop())
		require.NoError(t, err)

		_, err = client.ListStages(context.Background(), Query{})
		assert.Equal(t, KindAuthentication, KindOf(err))
		assert.Equal(t, "authentication failed: check your API key", err.Error())
	})

	t.Run("http error carries status and message", func(t *testing.T) {
		client, _ := newSandboxClient(t, sandbox.WithStatus("stages/getAll", http.StatusForbidden))

		_, err := client.ListStages(context.Background(), Query{})
		assert.EqualError(t, err, "HTTP error 403: Forbidden")
	})
}

func TestNetworkError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client, err := NewClient(url, testKey, zerolog.Nop())
	require.NoError(t, err)

	_, err = client.ListBaptemeSlots(context.Background(), Query{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNetwork)
	assert.Equal(t, KindNetwork, KindOf(err))
	assert.Contains(t, err.Error(), "network error")
}

func TestTimeoutIsNetworkError(t *testing.T) {
	block := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer server.Close()
	defer close(block)

	client, err := NewClient(server.URL, testKey, zerolog.Nop(), WithTimeout(50*time.Millisecond))
	require.NoError(t, err)

	_, err = client.ListStages(context.Background(), Query{})
	assert.Equal(t, KindNetwork, KindOf(err))
}

func TestUnparsableBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>maintenance</html>"))
	}))
	defer server.Close()

	client, err := NewClient(server.URL, testKey, zerolog.Nop())
	require.NoError(t, err)

	resp, err := client.ListBaptemeSlots(context.Background(), Query{})
	require.Error(t, err)
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrNetwork)
	assert.Equal(t, KindNetwork, KindOf(err))
	assert.Contains(t, err.Error(), "network error: failed to parse response")

	body, ok := UndecodedBody(err)
	require.True(t, ok)
	assert.Equal(t, "<html>maintenance</html>", string(body))
}

func TestDateOnlyValues(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/biplaces/getAll":
			w.Write([]byte(`{"success":true,"data":[
				{"id":"a","date":"2024-06-15","places":2,"moniteurs":[]},
				{"id":"b","date":"2024-06-15T09:30:00","places":2,"moniteurs":[]},
				{"id":"c","date":"2024-06-15T09:30:00.000Z","places":2,"moniteurs":[]},
				{"id":"d","date":null,"places":2,"moniteurs":[]}
			]}`))
		default:
			w.Write([]byte(`{"success":true,"data":[{"id":"s","startDate":"2024-07-01","places":6,"moniteurs":[]}]}`))
		}
	}))
	defer server.Close()

	client, err := NewClient(server.URL, testKey, zerolog.Nop())
	require.NoError(t, err)

	slots, err := client.ListBaptemeSlots(context.Background(), Query{})
	require.NoError(t, err)
	require.Len(t, slots.Data, 4)
	assert.Equal(t, time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC), slots.Data[0].Date)
	assert.Equal(t, time.Date(2024, 6, 15, 9, 30, 0, 0, time.UTC), slots.Data[1].Date)
	assert.True(t, slots.Data[2].Date.Equal(time.Date(2024, 6, 15, 9, 30, 0, 0, time.UTC)))
	assert.True(t, slots.Data[3].Date.IsZero())
	assert.Equal(t, 2, slots.Data[0].Places)

	stages, err := client.ListStages(context.Background(), Query{})
	require.NoError(t, err)
	require.Len(t, stages.Data, 1)
	assert.Equal(t, time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), stages.Data[0].StartDate)
	assert.Equal(t, 6, stages.Data[0].Places)
}

func TestUnsupportedDateIsNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"data":[{"id":"a","date":"15/06/2024","places":2}]}`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL, testKey, zerolog.Nop())
	require.NoError(t, err)

	_, err = client.ListBaptemeSlots(context.Background(), Query{})
	assert.Equal(t, KindNetwork, KindOf(err))
	assert.Contains(t, err.Error(), "15/06/2024")
}

func TestSuccessFlagIsNotInterpreted(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"message":"Erreur lors de la récupération des créneaux","data":null}`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL, testKey, zerolog.Nop())
	require.NoError(t, err)

	resp, err := client.ListBaptemeSlots(context.Background(), Query{})
	require.NoError(t, err)
	assert.False(t, resp.Success)

	_, err = resp.Result()
	var failure *APIFailureError
	require.True(t, errors.As(err, &failure))
	assert.Equal(t, "Erreur lors de la récupération des créneaux", failure.Message)
}
