package store

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"lodge-desk/models"
)

const batchSize = 200

// GormStore keeps the snapshot in relational tables. Every save replaces the
// tables inside a single transaction.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Migrate creates or updates the lodge_* tables.
func (s *GormStore) Migrate(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(Tables()...)
}

func (s *GormStore) Load(ctx context.Context) (*models.Snapshot, error) {
	db := s.db.WithContext(ctx)
	snap := models.NewSnapshot()

	var rooms []RoomRow
	if err := db.Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("load rooms: %w", err)
	}
	for _, row := range rooms {
		r, err := roomFromRecord(row)
		if err != nil {
			return nil, fmt.Errorf("room %s: %w", row.Number, err)
		}
		snap.Rooms[r.Number] = r
	}

	var logs []LogRow
	if err := db.Order("id").Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("load logs: %w", err)
	}
	for _, row := range logs {
		c := models.Category(row.Category)
		if !models.IsLogCategory(c) {
			continue
		}
		entry := models.LogEntry{
			Room: row.Room, Name: row.Name, Amount: row.Amount,
			Time: row.Time, Date: row.Date, Note: row.Note,
		}
		if len(row.Details) > 0 {
			if err := json.Unmarshal(row.Details, &entry); err != nil {
				return nil, fmt.Errorf("log %d: %w", row.ID, err)
			}
		}
		snap.Logs.Append(c, entry)
	}

	var totals []TotalRow
	if err := db.Find(&totals).Error; err != nil {
		return nil, fmt.Errorf("load totals: %w", err)
	}
	for _, row := range totals {
		if k := models.Category(row.Name); models.IsTotalKey(k) {
			snap.Totals[k] = row.Amount
		}
	}

	var bookings []BookingRow
	if err := db.Find(&bookings).Error; err != nil {
		return nil, fmt.Errorf("load bookings: %w", err)
	}
	for _, row := range bookings {
		b := bookingFromRecord(row)
		snap.Bookings[b.ID] = b
	}

	var meta []MetaRow
	if err := db.Find(&meta).Error; err != nil {
		return nil, fmt.Errorf("load meta: %w", err)
	}
	for _, row := range meta {
		if row.Name == "last_rent_check" {
			snap.LastRentCheck = row.Value
		}
	}

	snap.Normalize()
	return snap, nil
}

func (s *GormStore) Save(ctx context.Context, snap *models.Snapshot) error {
	rooms := make([]RoomRow, 0, len(snap.Rooms))
	for _, num := range snap.RoomNumbers() {
		row, err := roomToRecord(snap.Rooms[num])
		if err != nil {
			return fmt.Errorf("room %s: %w", num, err)
		}
		rooms = append(rooms, row)
	}

	var logs []LogRow
	for _, c := range models.LogCategories {
		for _, e := range snap.Logs[c] {
			details, err := json.Marshal(e)
			if err != nil {
				return fmt.Errorf("log %s: %w", c, err)
			}
			logs = append(logs, LogRow{
				Category: string(c), Room: e.Room, Name: e.Name, Amount: e.Amount,
				Time: e.Time, Date: e.Date, Note: e.Note, Details: datatypes.JSON(details),
			})
		}
	}

	totals := make([]TotalRow, 0, len(models.TotalKeys))
	for _, k := range models.TotalKeys {
		totals = append(totals, TotalRow{Name: string(k), Amount: snap.Totals[k]})
	}

	bookings := make([]BookingRow, 0, len(snap.Bookings))
	for _, id := range sortedBookingIDs(snap.Bookings) {
		bookings = append(bookings, bookingToRecord(snap.Bookings[id]))
	}

	meta := []MetaRow{{Name: "last_rent_check", Value: snap.LastRentCheck}}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		wipe := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		for _, t := range Tables() {
			if err := wipe.Delete(t).Error; err != nil {
				return fmt.Errorf("clear %T: %w", t, err)
			}
		}
		if len(rooms) > 0 {
			if err := tx.CreateInBatches(rooms, batchSize).Error; err != nil {
				return fmt.Errorf("insert rooms: %w", err)
			}
		}
		if len(logs) > 0 {
			if err := tx.CreateInBatches(logs, batchSize).Error; err != nil {
				return fmt.Errorf("insert logs: %w", err)
			}
		}
		if err := tx.Create(&totals).Error; err != nil {
			return fmt.Errorf("insert totals: %w", err)
		}
		if len(bookings) > 0 {
			if err := tx.CreateInBatches(bookings, batchSize).Error; err != nil {
				return fmt.Errorf("insert bookings: %w", err)
			}
		}
		if err := tx.Create(&meta).Error; err != nil {
			return fmt.Errorf("insert meta: %w", err)
		}
		return nil
	})
}

func jsonColumn(v any) (datatypes.JSON, error) {
	s, err := encodeJSON(v)
	if err != nil || s == "" {
		return nil, err
	}
	return datatypes.JSON(s), nil
}

func roomToRecord(r *models.Room) (RoomRow, error) {
	row := RoomRow{
		Number:       r.Number,
		Status:       string(r.Status),
		CheckinTime:  r.CheckinTime,
		Balance:      r.Balance,
		RenewalCount: r.RenewalCount,
	}
	var err error
	if row.Guest, err = jsonColumn(r.Guest); err != nil {
		return row, err
	}
	if row.AddOns, err = jsonColumn(r.AddOns); err != nil {
		return row, err
	}
	if row.Discounts, err = jsonColumn(r.Discounts); err != nil {
		return row, err
	}
	return row, nil
}

func roomFromRecord(row RoomRow) (*models.Room, error) {
	r := models.NewVacantRoom(row.Number)
	if row.Status != "" {
		r.Status = models.RoomStatus(row.Status)
	}
	r.CheckinTime = row.CheckinTime
	r.Balance = row.Balance
	r.RenewalCount = row.RenewalCount
	if len(row.Guest) > 0 {
		r.Guest = &models.Guest{}
		if err := json.Unmarshal(row.Guest, r.Guest); err != nil {
			return nil, fmt.Errorf("guest: %w", err)
		}
	}
	if len(row.AddOns) > 0 {
		if err := json.Unmarshal(row.AddOns, &r.AddOns); err != nil {
			return nil, fmt.Errorf("add-ons: %w", err)
		}
	}
	if len(row.Discounts) > 0 {
		if err := json.Unmarshal(row.Discounts, &r.Discounts); err != nil {
			return nil, fmt.Errorf("discounts: %w", err)
		}
	}
	return r, nil
}

func bookingToRecord(b *models.Booking) BookingRow {
	return BookingRow{
		ID: b.ID, Room: b.Room, GuestName: b.GuestName, GuestMobile: b.GuestMobile,
		BookingDate: b.BookingDate, CheckInDate: b.CheckInDate, CheckOutDate: b.CheckOutDate,
		Status: string(b.Status), TotalAmount: b.TotalAmount, PaidAmount: b.PaidAmount, Balance: b.Balance,
		PaymentMethod: b.PaymentMethod, Notes: b.Notes, PhotoPath: b.PhotoPath, Guests: b.Guests,
		CheckedInAt: b.CheckedInAt,
	}
}

func bookingFromRecord(row BookingRow) *models.Booking {
	return &models.Booking{
		ID: row.ID, Room: row.Room, GuestName: row.GuestName, GuestMobile: row.GuestMobile,
		BookingDate: row.BookingDate, CheckInDate: row.CheckInDate, CheckOutDate: row.CheckOutDate,
		Status: models.BookingStatus(row.Status), TotalAmount: row.TotalAmount, PaidAmount: row.PaidAmount,
		Balance: row.Balance, PaymentMethod: row.PaymentMethod, Notes: row.Notes, PhotoPath: row.PhotoPath,
		Guests: row.Guests, CheckedInAt: row.CheckedInAt,
	}
}
