package services

import (
	"strings"

	"lodge-desk/models"
)

// History is one guest's transactions for a room.
type History struct {
	Cash      []models.LogEntry `json:"cash"`
	Online    []models.LogEntry `json:"online"`
	Refunds   []models.LogEntry `json:"refunds"`
	AddOns    []models.LogEntry `json:"addons"`
	Renewals  []models.LogEntry `json:"renewals"`
	Discounts []models.LogEntry `json:"discounts"`
}

func (s *LedgerService) History(room, guestName string) (*History, error) {
	room = strings.TrimSpace(room)
	guestName = strings.TrimSpace(guestName)
	if room == "" || guestName == "" {
		return nil, invalid("", "room and guest name are required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	pick := func(c models.Category, matchName bool) []models.LogEntry {
		out := []models.LogEntry{}
		for _, e := range s.state.Logs[c] {
			if e.Room != room {
				continue
			}
			if matchName && e.Name != guestName {
				continue
			}
			out = append(out, e)
		}
		return out
	}

	return &History{
		Cash:      pick(models.CategoryCash, true),
		Online:    pick(models.CategoryOnline, true),
		Refunds:   pick(models.CategoryRefunds, true),
		AddOns:    pick(models.CategoryAddOns, false),
		Renewals:  pick(models.CategoryRenewals, true),
		Discounts: pick(models.CategoryDiscounts, true),
	}, nil
}

type RoomIndex struct {
	Rooms  []string            `json:"rooms"`
	Floors map[string][]string `json:"floors"`
}

// floorOf: "215" -> "2"; one- and two-digit rooms are on floor "1".
func floorOf(room string) string {
	if len(room) >= 3 && room[0] >= '0' && room[0] <= '9' {
		return room[:1]
	}
	return "1"
}

func (s *LedgerService) RoomNumbers() RoomIndex {
	s.mu.Lock()
	nums := s.state.RoomNumbers()
	s.mu.Unlock()

	idx := RoomIndex{Rooms: nums, Floors: map[string][]string{}}
	for _, n := range nums {
		f := floorOf(n)
		idx.Floors[f] = append(idx.Floors[f], n)
	}
	return idx
}

type DailyReport struct {
	Date      string                    `json:"date"`
	Sums      map[models.Category]int64 `json:"sums"`
	Counts    map[models.Category]int   `json:"counts"`
	Collected int64                     `json:"collected"`
	Net       int64                     `json:"net"`
	Totals    models.Totals             `json:"totals"`
}

// BuildDailyReport summarises every log entry dated date. Works on any
// snapshot so the CLI can report straight from a store.
func BuildDailyReport(snap *models.Snapshot, date string) (*DailyReport, error) {
	if _, err := parseDate("date", date); err != nil {
		return nil, err
	}
	r := &DailyReport{
		Date:   date,
		Sums:   map[models.Category]int64{},
		Counts: map[models.Category]int{},
		Totals: models.Totals{},
	}
	for _, c := range models.LogCategories {
		r.Sums[c] = 0
		r.Counts[c] = 0
		for _, e := range snap.Logs[c] {
			if e.Date != date {
				continue
			}
			r.Sums[c] += e.Amount
			r.Counts[c]++
		}
	}
	for k, v := range snap.Totals {
		r.Totals[k] = v
	}
	r.Collected = r.Sums[models.CategoryCash] + r.Sums[models.CategoryOnline]
	r.Net = r.Collected - r.Sums[models.CategoryRefunds] - r.Sums[models.CategoryExpenses]
	return r, nil
}

func (s *LedgerService) DailyReport(date string) (*DailyReport, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		date = s.now().Format(DateLayout)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return BuildDailyReport(s.state, date)
}
