package models

import (
	"sort"
	"strconv"
)

// Snapshot is the complete ledger state handed to and from persistence.
type Snapshot struct {
	Rooms         map[string]*Room    `json:"rooms"`
	Logs          Logs                `json:"logs"`
	Totals        Totals              `json:"totals"`
	Bookings      map[string]*Booking `json:"bookings"`
	LastRentCheck string              `json:"last_rent_check,omitempty"`
}

func NewSnapshot() *Snapshot {
	return &Snapshot{
		Rooms:    map[string]*Room{},
		Logs:     NewLogs(),
		Totals:   NewTotals(),
		Bookings: map[string]*Booking{},
	}
}

// DefaultRoomNumbers: ground floor 1-5, 13-20, 23-27; first floor 200-228.
func DefaultRoomNumbers() []string {
	var out []string
	add := func(from, to int) {
		for i := from; i <= to; i++ {
			out = append(out, strconv.Itoa(i))
		}
	}
	add(1, 5)
	add(13, 20)
	add(23, 27)
	add(200, 228)
	return out
}

// Normalize fills every nil map/slice and missing category so callers never
// have to nil-check. Partial rows from a store land here.
func (s *Snapshot) Normalize() {
	if s.Rooms == nil {
		s.Rooms = map[string]*Room{}
	}
	for num, r := range s.Rooms {
		if r == nil {
			s.Rooms[num] = NewVacantRoom(num)
			continue
		}
		r.Number = num
		if r.Status == "" {
			r.Status = RoomVacant
		}
		if r.AddOns == nil {
			r.AddOns = []AddOn{}
		}
	}
	if s.Logs == nil {
		s.Logs = NewLogs()
	}
	for _, c := range LogCategories {
		if s.Logs[c] == nil {
			s.Logs[c] = []LogEntry{}
		}
	}
	if s.Totals == nil {
		s.Totals = NewTotals()
	}
	for _, k := range TotalKeys {
		if _, ok := s.Totals[k]; !ok {
			s.Totals[k] = 0
		}
	}
	if s.Bookings == nil {
		s.Bookings = map[string]*Booking{}
	}
}

// EnsureRooms adds a vacant room for every number not already present.
func (s *Snapshot) EnsureRooms(numbers []string) {
	for _, n := range numbers {
		if _, ok := s.Rooms[n]; !ok {
			s.Rooms[n] = NewVacantRoom(n)
		}
	}
}

func (s *Snapshot) Clone() *Snapshot {
	out := &Snapshot{
		Rooms:         make(map[string]*Room, len(s.Rooms)),
		Logs:          make(Logs, len(s.Logs)),
		Totals:        make(Totals, len(s.Totals)),
		Bookings:      make(map[string]*Booking, len(s.Bookings)),
		LastRentCheck: s.LastRentCheck,
	}
	for k, r := range s.Rooms {
		out.Rooms[k] = r.Clone()
	}
	for c, entries := range s.Logs {
		out.Logs[c] = append([]LogEntry{}, entries...)
	}
	for k, v := range s.Totals {
		out.Totals[k] = v
	}
	for k, b := range s.Bookings {
		out.Bookings[k] = b.Clone()
	}
	return out
}

// RoomNumbers returns every room number, numeric ones first in numeric
// order, the rest lexically.
func (s *Snapshot) RoomNumbers() []string {
	out := make([]string, 0, len(s.Rooms))
	for n := range s.Rooms {
		out = append(out, n)
	}
	SortRoomNumbers(out)
	return out
}

func SortRoomNumbers(nums []string) {
	sort.SliceStable(nums, func(i, j int) bool {
		a, aErr := strconv.Atoi(nums[i])
		b, bErr := strconv.Atoi(nums[j])
		switch {
		case aErr == nil && bErr == nil:
			return a < b
		case aErr == nil:
			return true
		case bErr == nil:
			return false
		default:
			return nums[i] < nums[j]
		}
	})
}
