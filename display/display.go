package display

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"

	"github.com/scparapente/baptctl/booking"
	"github.com/scparapente/baptctl/filter"
)

// Format selects how results are rendered
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

const (
	slotTimeLayout  = "2006-01-02 15:04"
	stageDateLayout = "2006-01-02"
)

// ParseFormat validates an output format name. An empty name means table.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case "":
		return FormatTable, nil
	case FormatTable, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("invalid output format %q: must be one of table, json, yaml", name)
	}
}

// Formatter renders API results to a writer
type Formatter struct {
	Format Format
	Writer io.Writer
}

// New creates a formatter
func New(format Format, w io.Writer) *Formatter {
	return &Formatter{Format: format, Writer: w}
}

// Slots renders a list of slots
func (f *Formatter) Slots(slots []booking.Slot) error {
	switch f.Format {
	case FormatJSON, FormatYAML:
		return f.encode(slots, "slots")
	default:
		return f.slotsTable(slots)
	}
}

// Stages renders a list of stages
func (f *Formatter) Stages(stages []booking.Stage) error {
	switch f.Format {
	case FormatJSON, FormatYAML:
		return f.encode(stages, "stages")
	default:
		return f.stagesTable(stages)
	}
}

// Groups renders slots grouped by instructor name, groups sorted by name
func (f *Formatter) Groups(groups map[string][]booking.Slot) error {
	switch f.Format {
	case FormatJSON, FormatYAML:
		return f.encode(groups, "groups")
	}

	if len(groups) == 0 {
		return f.line("No slots found")
	}

	for i, name := range filter.SortedKeys(groups) {
		if i > 0 {
			if err := f.line(""); err != nil {
				return err
			}
		}
		slots := groups[name]
		if err := f.line(fmt.Sprintf("%s (%d %s)", name, len(slots), plural(len(slots), "slot"))); err != nil {
			return err
		}
		if err := f.slotsTable(slots); err != nil {
			return err
		}
	}
	return nil
}

// Customer renders a created customer record
func (f *Formatter) Customer(c booking.CustomerRecord) error {
	switch f.Format {
	case FormatJSON, FormatYAML:
		return f.encode(c, "customer")
	}

	table := tablewriter.NewWriter(f.Writer)
	table.Header("Field", "Value")

	rows := [][]string{
		{"ID", c.ID},
		{"First name", c.FirstName},
		{"Last name", c.LastName},
		{"Email", c.Email},
		{"Phone", c.Phone},
		{"Address", c.Address},
		{"Postal code", c.PostalCode},
		{"City", c.City},
		{"Country", c.Country},
		{"Height", formatNumber(c.Height)},
		{"Weight", formatNumber(c.Weight)},
	}
	for _, row := range rows {
		_ = table.Append(row)
	}

	return table.Render()
}

// Raw pretty-prints a JSON body with a two-space indent. Bodies that are
// not JSON are written unchanged.
func (f *Formatter) Raw(body []byte) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, body, "", "  "); err != nil {
		buf.Reset()
		buf.Write(body)
	}
	if !bytes.HasSuffix(buf.Bytes(), []byte("\n")) {
		buf.WriteByte('\n')
	}
	_, err := f.Writer.Write(buf.Bytes())
	return err
}

func (f *Formatter) slotsTable(slots []booking.Slot) error {
	if len(slots) == 0 {
		return f.line("No slots found")
	}

	table := tablewriter.NewWriter(f.Writer)
	table.Header("ID", "Date", "Duration", "Places", "Booked", "Free", "Instructors")

	for _, s := range slots {
		_ = table.Append([]string{
			s.ID,
			formatTime(s.Date, slotTimeLayout),
			strconv.Itoa(s.Duration) + " min",
			strconv.Itoa(s.Places),
			strconv.Itoa(s.BookingCount()),
			strconv.Itoa(filter.Remaining(s)),
			strings.Join(filter.InstructorNames(s), ", "),
		})
	}

	return table.Render()
}

func (f *Formatter) stagesTable(stages []booking.Stage) error {
	if len(stages) == 0 {
		return f.line("No stages found")
	}

	table := tablewriter.NewWriter(f.Writer)
	table.Header("ID", "Start", "Type", "Days", "Places", "Booked", "Price", "Instructors")

	for _, s := range stages {
		_ = table.Append([]string{
			s.ID,
			formatTime(s.StartDate, stageDateLayout),
			string(s.Type),
			strconv.Itoa(s.Duration),
			strconv.Itoa(s.Places),
			strconv.Itoa(s.BookingCount()),
			formatNumber(s.Price),
			strings.Join(filter.InstructorNames(s), ", "),
		})
	}

	return table.Render()
}

// encode writes v as indented JSON or as YAML. YAML output goes through
// JSON first so both formats share the wire field names.
func (f *Formatter) encode(v any, what string) error {
	if f.Format == FormatJSON {
		encoder := json.NewEncoder(f.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(v); err != nil {
			return fmt.Errorf("failed to encode %s as JSON: %w", what, err)
		}
		return nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s as YAML: %w", what, err)
	}
	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return fmt.Errorf("failed to encode %s as YAML: %w", what, err)
	}

	encoder := yaml.NewEncoder(f.Writer)
	encoder.SetIndent(2)
	if err := encoder.Encode(generic); err != nil {
		return fmt.Errorf("failed to encode %s as YAML: %w", what, err)
	}
	return encoder.Close()
}

func (f *Formatter) line(s string) error {
	_, err := io.WriteString(f.Writer, s+"\n")
	return err
}
