package filter

import (
	"slices"
	"time"

	"github.com/scparapente/baptctl/booking"
)

// UnknownInstructor is the group name used when an instructor relation has
// no instructor or no name
const UnknownInstructor = "Unknown"

// Bookable is anything with a capacity, bookings and instructors.
// booking.Slot and booking.Stage implement it.
type Bookable interface {
	Capacity() int
	BookingCount() int
	InstructorLinks() []booking.InstructorLink
	When() time.Time
}

// IsAvailable reports whether the item still has at least one free place
func IsAvailable(b Bookable) bool {
	return b.BookingCount() < b.Capacity()
}

// Remaining returns the number of free places, never negative
func Remaining(b Bookable) int {
	return max(0, b.Capacity()-b.BookingCount())
}

// Available returns the items with free places, preserving order
func Available[T Bookable](items []T) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if IsAvailable(item) {
			out = append(out, item)
		}
	}
	return out
}

// InstructorName returns the display name behind a relation
func InstructorName(link booking.InstructorLink) string {
	if link.Instructor == nil || link.Instructor.Name == "" {
		return UnknownInstructor
	}
	return link.Instructor.Name
}

// InstructorNames returns the display names of all relations of an item
func InstructorNames(b Bookable) []string {
	links := b.InstructorLinks()
	names := make([]string, 0, len(links))
	for _, link := range links {
		names = append(names, InstructorName(link))
	}
	return names
}

// GroupByInstructor maps each instructor name to the items they are
// attached to. An item appears once per relation; items without relations
// appear nowhere.
func GroupByInstructor[T Bookable](items []T) map[string][]T {
	groups := make(map[string][]T)
	for _, item := range items {
		for _, link := range item.InstructorLinks() {
			name := InstructorName(link)
			groups[name] = append(groups[name], item)
		}
	}
	return groups
}

// SortedKeys returns the group names in lexical order
func SortedKeys[T any](groups map[string][]T) []string {
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
