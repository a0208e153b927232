package display

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/scparapente/baptctl/booking"
)

func testSlots() []booking.Slot {
	return []booking.Slot{
		{
			ID:       "slot-1",
			Date:     time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC),
			Duration: 30,
			Places:   2,
			Bookings: []json.RawMessage{json.RawMessage(`{}`)},
			Instructors: []booking.InstructorLink{
				{Instructor: &booking.Instructor{ID: "mon-alice", Name: "Alice"}},
			},
		},
		{
			ID:       "slot-2",
			Date:     time.Date(2024, 6, 16, 9, 0, 0, 0, time.UTC),
			Duration: 45,
			Places:   3,
		},
	}
}

func testStages() []booking.Stage {
	return []booking.Stage{
		{
			ID:        "stage-1",
			StartDate: time.Date(2024, 6, 17, 0, 0, 0, 0, time.UTC),
			Duration:  5,
			Places:    6,
			Price:     650,
			Type:      booking.StageInitiation,
			Instructors: []booking.InstructorLink{
				{Instructor: &booking.Instructor{Name: "Bruno"}},
			},
		},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatTable, false},
		{"table", FormatTable, false},
		{"JSON", FormatJSON, false},
		{" yaml ", FormatYAML, false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSlotsTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New(FormatTable, &buf).Slots(testSlots()))

	out := buf.String()
	upper := strings.ToUpper(out)
	for _, col := range []string{"ID", "DATE", "DURATION", "PLACES", "BOOKED", "FREE", "INSTRUCTORS"} {
		assert.Contains(t, upper, col)
	}
	assert.Contains(t, out, "slot-1")
	assert.Contains(t, out, "2024-06-15 10:00")
	assert.Contains(t, out, "Alice")
	assert.Contains(t, out, "slot-2")
}

func TestStagesTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New(FormatTable, &buf).Stages(testStages()))

	out := buf.String()
	upper := strings.ToUpper(out)
	for _, col := range []string{"START", "TYPE", "DAYS", "PRICE"} {
		assert.Contains(t, upper, col)
	}
	assert.Contains(t, out, "stage-1")
	assert.Contains(t, out, "INITIATION")
	assert.Contains(t, out, "650")
	assert.Contains(t, out, "Bruno")
}

func TestEmptyTables(t *testing.T) {
	var buf bytes.Buffer
	f := New(FormatTable, &buf)

	require.NoError(t, f.Slots(nil))
	require.NoError(t, f.Stages(nil))
	require.NoError(t, f.Groups(nil))

	assert.Equal(t, "No slots found\nNo stages found\nNo slots found\n", buf.String())
}

func TestSlotsJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New(FormatJSON, &buf).Slots(testSlots()))

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "slot-1", decoded[0]["id"])
	assert.Contains(t, decoded[0], "moniteurs")
	assert.True(t, strings.HasPrefix(buf.String(), "[\n  {"))
}

func TestStagesYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New(FormatYAML, &buf).Stages(testStages()))

	var decoded []map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "stage-1", decoded[0]["id"])
	assert.Equal(t, "INITIATION", decoded[0]["type"])
	assert.Contains(t, decoded[0], "startDate")
}

func TestGroupsTable(t *testing.T) {
	slots := testSlots()
	groups := map[string][]booking.Slot{
		"Bruno": {slots[1]},
		"Alice": {slots[0], slots[1]},
	}

	var buf bytes.Buffer
	require.NoError(t, New(FormatTable, &buf).Groups(groups))

	out := buf.String()
	alice := strings.Index(out, "Alice (2 slots)")
	bruno := strings.Index(out, "Bruno (1 slot)")
	require.GreaterOrEqual(t, alice, 0)
	require.GreaterOrEqual(t, bruno, 0)
	assert.Less(t, alice, bruno)
}

func TestGroupsJSON(t *testing.T) {
	slots := testSlots()
	var buf bytes.Buffer
	require.NoError(t, New(FormatJSON, &buf).Groups(map[string][]booking.Slot{"Alice": {slots[0]}}))

	var decoded map[string][]map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded["Alice"], 1)
	assert.Equal(t, "slot-1", decoded["Alice"][0]["id"])
}

func TestCustomer(t *testing.T) {
	record := booking.CustomerRecord{
		ID:        "c-1",
		FirstName: "Pierre",
		LastName:  "Dubois",
		Email:     "pierre.dubois@example.com",
		Height:    180,
		Weight:    75.5,
	}

	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, New(FormatTable, &buf).Customer(record))
		out := buf.String()
		assert.Contains(t, out, "Pierre")
		assert.Contains(t, out, "180")
		assert.Contains(t, out, "75.50")
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, New(FormatYAML, &buf).Customer(record))

		var decoded map[string]any
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
		assert.Equal(t, "Pierre", decoded["firstName"])
		assert.Equal(t, "c-1", decoded["id"])
	})
}

func TestRaw(t *testing.T) {
	t.Run("json is indented", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, New(FormatTable, &buf).Raw([]byte(`{"success":true,"data":[]}`)))
		assert.Equal(t, "{\n  \"success\": true,\n  \"data\": []\n}\n", buf.String())
	})

	t.Run("non json is passed through", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, New(FormatTable, &buf).Raw([]byte("Bad Gateway")))
		assert.Equal(t, "Bad Gateway\n", buf.String())
	})
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "180", formatNumber(180))
	assert.Equal(t, "75.50", formatNumber(75.5))
}

func TestSummary(t *testing.T) {
	s := Summary{Slots: 4, AvailableSlots: 2, FreePlaces: 4, Stages: 3, AvailableStages: 2, Instructors: []string{"Alice", "Bruno"}}

	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, New(FormatTable, &buf).Summary(s))
		out := buf.String()
		assert.Contains(t, out, "Slots")
		assert.Contains(t, out, "Stages")
		assert.Contains(t, out, "Free slot places: 4")
		assert.Contains(t, out, "Instructors: Alice, Bruno")
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, New(FormatJSON, &buf).Summary(s))

		var decoded map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
		assert.EqualValues(t, 2, decoded["availableSlots"])
		assert.EqualValues(t, 3, decoded["stages"])
	})
}
