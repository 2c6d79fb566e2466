package store

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"lodge-desk/models"
)

// cell returns row[i] trimmed, or "" when the row is short.
func cell(row []string, i int) string {
	if i < len(row) {
		return strings.TrimSpace(row[i])
	}
	return ""
}

// parseAmount accepts "600", "-600" and spreadsheet floats like "600.00";
// anything else is 0.
func parseAmount(s string) int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int64(f)
	}
	return 0
}

func parseInt(s string) int {
	return int(parseAmount(s))
}

// encodeJSON renders structured values stored in a single cell. Empty for nil.
func encodeJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	s := string(b)
	if s == "null" || s == "[]" {
		return "", nil
	}
	return s, nil
}

func decodeJSON(s string, dst any) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return json.Unmarshal([]byte(s), dst)
}

func sortedBookingIDs(bookings map[string]*models.Booking) []string {
	ids := make([]string, 0, len(bookings))
	for id := range bookings {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
