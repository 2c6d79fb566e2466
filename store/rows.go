package store

import "gorm.io/datatypes"

// Table rows for the SQL store. Nested room data is kept as JSON columns.

type RoomRow struct {
	Number       string         `gorm:"primaryKey;size:50"`
	Status       string         `gorm:"size:20;not null"`
	Guest        datatypes.JSON `gorm:"type:json"`
	CheckinTime  string         `gorm:"size:32"`
	Balance      int64          `gorm:"not null"`
	AddOns       datatypes.JSON `gorm:"type:json"`
	RenewalCount int            `gorm:"not null"`
	Discounts    datatypes.JSON `gorm:"type:json"`
}

func (RoomRow) TableName() string { return "lodge_rooms" }

type LogRow struct {
	ID       uint           `gorm:"primaryKey;autoIncrement"`
	Category string         `gorm:"size:32;index;not null"`
	Room     string         `gorm:"size:50;index"`
	Name     string         `gorm:"size:255"`
	Amount   int64          `gorm:"not null"`
	Time     string         `gorm:"column:log_time;size:8"`
	Date     string         `gorm:"column:log_date;size:10;index"`
	Note     string         `gorm:"size:255"`
	Details  datatypes.JSON `gorm:"type:json"`
}

func (LogRow) TableName() string { return "lodge_log_entries" }

type TotalRow struct {
	Name   string `gorm:"primaryKey;size:32"`
	Amount int64  `gorm:"not null"`
}

func (TotalRow) TableName() string { return "lodge_totals" }

type BookingRow struct {
	ID            string `gorm:"primaryKey;size:64"`
	Room          string `gorm:"size:50;index"`
	GuestName     string `gorm:"size:255"`
	GuestMobile   string `gorm:"size:50"`
	BookingDate   string `gorm:"size:10"`
	CheckInDate   string `gorm:"size:10;index"`
	CheckOutDate  string `gorm:"size:10"`
	Status        string `gorm:"size:20;index"`
	TotalAmount   int64
	PaidAmount    int64
	Balance       int64
	PaymentMethod string `gorm:"size:20"`
	Notes         string `gorm:"type:text"`
	PhotoPath     string `gorm:"size:512"`
	Guests        int
	CheckedInAt   string `gorm:"size:32"`
}

func (BookingRow) TableName() string { return "lodge_bookings" }

type MetaRow struct {
	Name  string `gorm:"primaryKey;size:64"`
	Value string `gorm:"column:meta_value;size:255"`
}

func (MetaRow) TableName() string { return "lodge_meta" }

// Tables lists the rows AutoMigrate has to know about.
func Tables() []any {
	return []any{&RoomRow{}, &LogRow{}, &TotalRow{}, &BookingRow{}, &MetaRow{}}
}
