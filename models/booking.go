package models

type BookingStatus string

const (
	BookingConfirmed BookingStatus = "confirmed"
	BookingCheckedIn BookingStatus = "checked_in"
	BookingCancelled BookingStatus = "cancelled"
)

// Booking is an advance reservation. Balance is always TotalAmount - PaidAmount.
type Booking struct {
	ID            string        `json:"id"`
	Room          string        `json:"room"`
	GuestName     string        `json:"guest_name"`
	GuestMobile   string        `json:"guest_mobile"`
	BookingDate   string        `json:"booking_date"`
	CheckInDate   string        `json:"check_in_date"`
	CheckOutDate  string        `json:"check_out_date"`
	Status        BookingStatus `json:"status"`
	TotalAmount   int64         `json:"total_amount"`
	PaidAmount    int64         `json:"paid_amount"`
	Balance       int64         `json:"balance"`
	PaymentMethod string        `json:"payment_method"`
	Notes         string        `json:"notes"`
	PhotoPath     string        `json:"photo_path,omitempty"`
	Guests        int           `json:"guests"`
	CheckedInAt   string        `json:"checked_in_at,omitempty"`
}

// IsActive reports whether the booking still holds its room's dates.
func (b *Booking) IsActive() bool {
	return b.Status == BookingConfirmed
}

func (b *Booking) Recompute() {
	b.Balance = b.TotalAmount - b.PaidAmount
}

func (b *Booking) Clone() *Booking {
	if b == nil {
		return nil
	}
	out := *b
	return &out
}
