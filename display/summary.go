package display

import (
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
)

// Summary is the aggregate shown by the overview command
type Summary struct {
	Slots           int      `json:"slots"`
	AvailableSlots  int      `json:"availableSlots"`
	FreePlaces      int      `json:"freePlaces"`
	Stages          int      `json:"stages"`
	AvailableStages int      `json:"availableStages"`
	Instructors     []string `json:"instructors"`
}

// Summary renders an overview of slots and stages
func (f *Formatter) Summary(s Summary) error {
	switch f.Format {
	case FormatJSON, FormatYAML:
		return f.encode(s, "summary")
	}

	table := tablewriter.NewWriter(f.Writer)
	table.Header("Resource", "Total", "Available")
	_ = table.Append([]string{"Slots", strconv.Itoa(s.Slots), strconv.Itoa(s.AvailableSlots)})
	_ = table.Append([]string{"Stages", strconv.Itoa(s.Stages), strconv.Itoa(s.AvailableStages)})
	if err := table.Render(); err != nil {
		return err
	}

	if err := f.line("Free slot places: " + strconv.Itoa(s.FreePlaces)); err != nil {
		return err
	}
	if len(s.Instructors) > 0 {
		return f.line("Instructors: " + strings.Join(s.Instructors, ", "))
	}
	return nil
}
