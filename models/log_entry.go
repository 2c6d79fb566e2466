package models

// Category names one ledger log and, for some, the matching running total.
type Category string

const (
	CategoryCash            Category = "cash"
	CategoryOnline          Category = "online"
	CategoryBalance         Category = "balance"
	CategoryAddOns          Category = "add_ons"
	CategoryRefunds         Category = "refunds"
	CategoryRenewals        Category = "renewals"
	CategoryBookingPayments Category = "booking_payments"
	CategoryDiscounts       Category = "discounts"
	CategoryRoomShifts      Category = "room_shifts"
	CategoryExpenses        Category = "expenses"

	// totals-only key
	CategoryAdvanceBookings Category = "advance_bookings"
)

// LogCategories is the fixed, ordered set of log categories.
var LogCategories = []Category{
	CategoryCash,
	CategoryOnline,
	CategoryBalance,
	CategoryAddOns,
	CategoryRefunds,
	CategoryRenewals,
	CategoryBookingPayments,
	CategoryDiscounts,
	CategoryRoomShifts,
	CategoryExpenses,
}

// TotalKeys is the fixed, ordered set of running totals.
var TotalKeys = []Category{
	CategoryCash,
	CategoryOnline,
	CategoryBalance,
	CategoryRefunds,
	CategoryAdvanceBookings,
	CategoryExpenses,
}

func IsLogCategory(c Category) bool {
	for _, k := range LogCategories {
		if k == c {
			return true
		}
	}
	return false
}

func IsTotalKey(c Category) bool {
	for _, k := range TotalKeys {
		if k == c {
			return true
		}
	}
	return false
}

// LogEntry is one append-only ledger record. Room, Name, Amount and Date are
// always set; the rest depend on the category.
type LogEntry struct {
	Room          string `json:"room"`
	Name          string `json:"name"`
	Amount        int64  `json:"amount"`
	Time          string `json:"time,omitempty"`
	Date          string `json:"date"`
	Item          string `json:"item,omitempty"`
	PaymentMethod string `json:"payment_method,omitempty"`
	Note          string `json:"note,omitempty"`
	Day           int    `json:"day,omitempty"`
	BookingID     string `json:"booking_id,omitempty"`

	// set by room transfer
	RoomShifted bool   `json:"room_shifted,omitempty"`
	OldRoom     string `json:"old_room,omitempty"`
	ToRoom      string `json:"to_room,omitempty"`
}

type Logs map[Category][]LogEntry

func NewLogs() Logs {
	logs := make(Logs, len(LogCategories))
	for _, c := range LogCategories {
		logs[c] = []LogEntry{}
	}
	return logs
}

func (l Logs) Append(c Category, e LogEntry) {
	l[c] = append(l[c], e)
}

type Totals map[Category]int64

func NewTotals() Totals {
	t := make(Totals, len(TotalKeys))
	for _, k := range TotalKeys {
		t[k] = 0
	}
	return t
}
