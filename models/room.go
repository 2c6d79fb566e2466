package models

type RoomStatus string

const (
	RoomVacant   RoomStatus = "vacant"
	RoomOccupied RoomStatus = "occupied"
)

// Room is one rentable unit keyed by its room number ("23", "200", "101A").
// Balance is signed: positive means the guest owes the property,
// negative is credit the property owes the guest.
type Room struct {
	Number       string     `json:"number"`
	Status       RoomStatus `json:"status"`
	Guest        *Guest     `json:"guest"`
	CheckinTime  string     `json:"checkin_time,omitempty"`
	Balance      int64      `json:"balance"`
	AddOns       []AddOn    `json:"add_ons"`
	RenewalCount int        `json:"renewal_count"`
	Discounts    []Discount `json:"discounts,omitempty"`
}

// AddOn เก็บรายการค่าบริการเสริมของห้อง (ซักรีด, อาหาร ฯลฯ)
type AddOn struct {
	Room          string `json:"room"`
	Item          string `json:"item"`
	Price         int64  `json:"price"`
	Time          string `json:"time"`
	Date          string `json:"date"`
	PaymentMethod string `json:"payment_method"`
}

type Discount struct {
	Amount int64  `json:"amount"`
	Reason string `json:"reason"`
	Time   string `json:"time"`
	Date   string `json:"date"`
}

func NewVacantRoom(number string) *Room {
	return &Room{
		Number: number,
		Status: RoomVacant,
		AddOns: []AddOn{},
	}
}

func (r *Room) IsOccupied() bool {
	return r.Status == RoomOccupied && r.Guest != nil
}

// Reset puts the room back to vacant defaults (checkout / transfer source).
func (r *Room) Reset() {
	*r = *NewVacantRoom(r.Number)
}

func (r *Room) GuestName() string {
	if r.Guest == nil {
		return ""
	}
	return r.Guest.Name
}

func (r *Room) Clone() *Room {
	if r == nil {
		return nil
	}
	out := *r
	if r.Guest != nil {
		g := *r.Guest
		out.Guest = &g
	}
	out.AddOns = append([]AddOn{}, r.AddOns...)
	if r.Discounts != nil {
		out.Discounts = append([]Discount{}, r.Discounts...)
	}
	return &out
}
