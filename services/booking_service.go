// services/booking_service.go
package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"lodge-desk/models"
)

type BookingInput struct {
	Room          string
	GuestName     string
	GuestMobile   string
	CheckInDate   string
	CheckOutDate  string
	TotalAmount   int64
	PaidAmount    int64
	PaymentMethod string
	Notes         string
	PhotoPath     string
	Guests        int
}

// BookingPatch: nil fields are left untouched. Payment is an additional
// advance received now.
type BookingPatch struct {
	Payment       int64
	PaymentMethod string

	Room         *string
	GuestName    *string
	GuestMobile  *string
	CheckInDate  *string
	CheckOutDate *string
	TotalAmount  *int64
	Notes        *string
	Guests       *int
}

func parseDate(field, v string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(v))
	if err != nil {
		return time.Time{}, invalid(field, "expected date format YYYY-MM-DD")
	}
	return t, nil
}

func parseRange(checkIn, checkOut string) (time.Time, time.Time, error) {
	start, err := parseDate("check_in_date", checkIn)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := parseDate("check_out_date", checkOut)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if !end.After(start) {
		return time.Time{}, time.Time{}, invalid("check_out_date", "check-out must be after check-in")
	}
	return start, end, nil
}

// overlaps is the half-open [start, end) interval test.
func overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// checkBookingFields validates a complete booking record (new or patched).
func (s *LedgerService) checkBookingFields(b *models.Booking) error {
	if _, err := s.room(b.Room); err != nil {
		return err
	}
	if b.GuestName == "" {
		return invalid("guest_name", "guest name is required")
	}
	if err := checkText("guest_name", b.GuestName, "guest_mobile", b.GuestMobile, "notes", b.Notes); err != nil {
		return err
	}
	if b.Guests < 0 {
		return invalid("guests", "guest count cannot be negative")
	}
	if b.TotalAmount < 0 {
		return invalid("total_amount", "total amount cannot be negative")
	}
	if b.PaidAmount < 0 {
		return invalid("paid_amount", "paid amount cannot be negative")
	}
	if b.PaidAmount > b.TotalAmount {
		return invalid("paid_amount", "paid amount (%d) exceeds total (%d)", b.PaidAmount, b.TotalAmount)
	}
	start, end, err := parseRange(b.CheckInDate, b.CheckOutDate)
	if err != nil {
		return err
	}
	for _, other := range s.state.Bookings {
		if other.ID == b.ID || other.Room != b.Room || !other.IsActive() {
			continue
		}
		oStart, oErr := time.Parse(DateLayout, other.CheckInDate)
		oEnd, eErr := time.Parse(DateLayout, other.CheckOutDate)
		if oErr != nil || eErr != nil {
			continue
		}
		if overlaps(start, end, oStart, oEnd) {
			return invalid("room", "room %s is already booked from %s to %s", b.Room, other.CheckInDate, other.CheckOutDate)
		}
	}
	return nil
}

// logAdvance records an advance booking payment in the method log and in
// booking_payments.
func (s *LedgerService) logAdvance(b *models.Booking, amount int64, method string) {
	date, clock := s.stamp()
	entry := models.LogEntry{
		Room:          b.Room,
		Name:          b.GuestName,
		Amount:        amount,
		Time:          clock,
		Date:          date,
		PaymentMethod: method,
		BookingID:     b.ID,
		Note:          "Advance booking payment",
	}
	s.appendLog(models.Category(method), entry)
	s.appendLog(models.CategoryBookingPayments, entry)
	s.state.Totals[models.Category(method)] += amount
	s.state.Totals[models.CategoryAdvanceBookings] += amount
}

// draftBooking builds the record CreateBooking would store, with no ID yet.
func (s *LedgerService) draftBooking(in BookingInput) (*models.Booking, error) {
	method := strings.ToLower(strings.TrimSpace(in.PaymentMethod))
	if method == "" {
		method = MethodCash
	}
	if in.PaidAmount > 0 && !paymentMethodValid(method, false) {
		return nil, invalid("payment_method", "unknown payment method %q", method)
	}
	guests := in.Guests
	if guests == 0 {
		guests = 1
	}
	b := &models.Booking{
		Room:          strings.TrimSpace(in.Room),
		GuestName:     strings.TrimSpace(in.GuestName),
		GuestMobile:   strings.TrimSpace(in.GuestMobile),
		BookingDate:   s.now().Format(DateLayout),
		CheckInDate:   strings.TrimSpace(in.CheckInDate),
		CheckOutDate:  strings.TrimSpace(in.CheckOutDate),
		Status:        models.BookingConfirmed,
		TotalAmount:   in.TotalAmount,
		PaidAmount:    in.PaidAmount,
		PaymentMethod: method,
		Notes:         strings.TrimSpace(in.Notes),
		PhotoPath:     in.PhotoPath,
		Guests:        guests,
	}
	b.Recompute()
	return b, nil
}

// PrecheckBooking reports whether CreateBooking would accept in, without
// changing anything.
func (s *LedgerService) PrecheckBooking(in BookingInput) error {
	b, err := s.draftBooking(in)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checkBookingFields(b)
}

func (s *LedgerService) CreateBooking(ctx context.Context, in BookingInput) (*Outcome, error) {
	b, err := s.draftBooking(in)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkBookingFields(b); err != nil {
		return nil, err
	}
	b.ID = s.newID()
	method := b.PaymentMethod

	s.state.Bookings[b.ID] = b
	if b.PaidAmount > 0 {
		s.logAdvance(b, b.PaidAmount, method)
	}

	s.logger.Info("booking created",
		zap.String("booking_id", b.ID),
		zap.String("room", b.Room),
		zap.String("check_in", b.CheckInDate),
		zap.String("check_out", b.CheckOutDate))

	return &Outcome{
		Message: fmt.Sprintf("Booking confirmed for %s in room %s", b.GuestName, b.Room),
		Saved:   s.persist(ctx, "create_booking"),
		Booking: b.Clone(),
	}, nil
}

func (s *LedgerService) UpdateBooking(ctx context.Context, id string, patch BookingPatch) (*Outcome, error) {
	method := strings.ToLower(strings.TrimSpace(patch.PaymentMethod))
	if patch.Payment < 0 {
		return nil, invalid("payment", "payment cannot be negative")
	}
	if patch.Payment > 0 {
		if method == "" {
			method = MethodCash
		}
		if !paymentMethodValid(method, false) {
			return nil, invalid("payment_method", "unknown payment method %q", method)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.state.Bookings[strings.TrimSpace(id)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrBookingNotFound, id)
	}
	if !current.IsActive() {
		return nil, invalid("status", "booking is %s and can no longer be changed", current.Status)
	}

	// validate the patched copy; the stored booking changes only if it passes
	next := current.Clone()
	if patch.Room != nil {
		next.Room = strings.TrimSpace(*patch.Room)
	}
	if patch.GuestName != nil {
		next.GuestName = strings.TrimSpace(*patch.GuestName)
	}
	if patch.GuestMobile != nil {
		next.GuestMobile = strings.TrimSpace(*patch.GuestMobile)
	}
	if patch.CheckInDate != nil {
		next.CheckInDate = strings.TrimSpace(*patch.CheckInDate)
	}
	if patch.CheckOutDate != nil {
		next.CheckOutDate = strings.TrimSpace(*patch.CheckOutDate)
	}
	if patch.TotalAmount != nil {
		next.TotalAmount = *patch.TotalAmount
	}
	if patch.Notes != nil {
		next.Notes = strings.TrimSpace(*patch.Notes)
	}
	if patch.Guests != nil {
		next.Guests = *patch.Guests
	}
	next.PaidAmount += patch.Payment
	if patch.Payment > 0 {
		next.PaymentMethod = method
	}
	next.Recompute()
	if err := s.checkBookingFields(next); err != nil {
		return nil, err
	}

	s.state.Bookings[next.ID] = next
	msg := "Booking updated"
	if patch.Payment > 0 {
		s.logAdvance(next, patch.Payment, method)
		msg = fmt.Sprintf("Payment of %d added to booking. Remaining balance: %d", patch.Payment, next.Balance)
	}

	s.logger.Info("booking updated", zap.String("booking_id", next.ID), zap.Int64("payment", patch.Payment))
	return &Outcome{Message: msg, Saved: s.persist(ctx, "update_booking"), Booking: next.Clone()}, nil
}

// CancelBooking releases the dates; an optional refund comes out of the paid amount.
func (s *LedgerService) CancelBooking(ctx context.Context, id string, refund int64, method string) (*Outcome, error) {
	method = strings.ToLower(strings.TrimSpace(method))
	if method == "" {
		method = MethodCash
	}
	if refund < 0 {
		return nil, invalid("refund_amount", "refund cannot be negative")
	}
	if !paymentMethodValid(method, false) {
		return nil, invalid("refund_method", "unknown refund method %q", method)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.state.Bookings[strings.TrimSpace(id)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrBookingNotFound, id)
	}
	if !b.IsActive() {
		return nil, invalid("status", "booking is already %s", b.Status)
	}
	if refund > b.PaidAmount {
		return nil, invalid("refund_amount", "refund (%d) exceeds amount paid (%d)", refund, b.PaidAmount)
	}

	b.Status = models.BookingCancelled
	msg := "Booking cancelled"
	if refund > 0 {
		b.PaidAmount -= refund
		date, clock := s.stamp()
		s.appendLog(models.CategoryRefunds, models.LogEntry{
			Room:          b.Room,
			Name:          b.GuestName,
			Amount:        refund,
			PaymentMethod: method,
			Time:          clock,
			Date:          date,
			BookingID:     b.ID,
			Note:          "Booking cancellation refund",
		})
		s.state.Totals[models.CategoryRefunds] += refund
		msg = fmt.Sprintf("Booking cancelled, refund of %d processed", refund)
	}
	b.Recompute()

	s.logger.Info("booking cancelled", zap.String("booking_id", b.ID), zap.Int64("refund", refund))
	return &Outcome{Message: msg, Saved: s.persist(ctx, "cancel_booking"), Booking: b.Clone()}, nil
}

// ConvertBooking checks a confirmed booking's guest into its (vacant) room.
// What was paid in advance counts toward the price; amountPaid is any money
// taken at the desk on arrival.
func (s *LedgerService) ConvertBooking(ctx context.Context, id string, amountPaid int64, method string) (*Outcome, error) {
	method = strings.ToLower(strings.TrimSpace(method))
	if amountPaid < 0 {
		return nil, invalid("amount_paid", "amount paid cannot be negative")
	}
	if amountPaid > 0 {
		if method == "" {
			method = MethodCash
		}
		if !paymentMethodValid(method, false) {
			return nil, invalid("payment_method", "unknown payment method %q", method)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.state.Bookings[strings.TrimSpace(id)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrBookingNotFound, id)
	}
	if !b.IsActive() {
		return nil, invalid("status", "booking is %s", b.Status)
	}
	room, err := s.room(b.Room)
	if err != nil {
		return nil, err
	}
	if room.Status != models.RoomVacant {
		return nil, invalid("room", "room %s is not vacant", room.Number)
	}

	payment := b.PaymentMethod
	if amountPaid > 0 {
		payment = method
	} else if payment == "" {
		payment = MethodBalance
	}
	guest := models.Guest{
		Name:    b.GuestName,
		Mobile:  b.GuestMobile,
		Price:   b.TotalAmount,
		Guests:  b.Guests,
		Payment: payment,
		Balance: b.TotalAmount - b.PaidAmount - amountPaid,
		Photo:   b.PhotoPath,
	}
	s.settleArrival(room, guest, amountPaid, method)

	b.PaidAmount += amountPaid
	b.Recompute()
	b.Status = models.BookingCheckedIn
	b.CheckedInAt = s.now().Format(CheckinLayout)

	s.logger.Info("booking converted to check-in",
		zap.String("booking_id", b.ID),
		zap.String("room", room.Number),
		zap.Int64("balance", room.Balance))

	return &Outcome{
		Message: fmt.Sprintf("Check-in successful for %s", guest.Name),
		Saved:   s.persist(ctx, "convert_booking"),
		Room:    room.Clone(),
		Booking: b.Clone(),
	}, nil
}

// CheckAvailability lists rooms free for [checkIn, checkOut). Rooms occupied
// right now only count as taken when the stay starts today.
func (s *LedgerService) CheckAvailability(checkIn, checkOut string) ([]string, error) {
	start, end, err := parseRange(checkIn, checkOut)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	taken := map[string]bool{}
	for _, b := range s.state.Bookings {
		if !b.IsActive() {
			continue
		}
		bStart, sErr := time.Parse(DateLayout, b.CheckInDate)
		bEnd, eErr := time.Parse(DateLayout, b.CheckOutDate)
		if sErr != nil || eErr != nil {
			continue
		}
		if overlaps(start, end, bStart, bEnd) {
			taken[b.Room] = true
		}
	}
	startsToday := start.Format(DateLayout) == s.now().Format(DateLayout)

	available := make([]string, 0, len(s.state.Rooms))
	for num, room := range s.state.Rooms {
		if taken[num] {
			continue
		}
		if startsToday && room.Status == models.RoomOccupied {
			continue
		}
		available = append(available, num)
	}
	models.SortRoomNumbers(available)
	return available, nil
}

func (s *LedgerService) GetBooking(id string) (*models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.state.Bookings[strings.TrimSpace(id)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrBookingNotFound, id)
	}
	return b.Clone(), nil
}

// ListBookings returns bookings ordered by check-in date; empty status means all.
func (s *LedgerService) ListBookings(status string) []*models.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*models.Booking, 0, len(s.state.Bookings))
	for _, b := range s.state.Bookings {
		if status != "" && string(b.Status) != status {
			continue
		}
		out = append(out, b.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CheckInDate != out[j].CheckInDate {
			return out[i].CheckInDate < out[j].CheckInDate
		}
		return out[i].ID < out[j].ID
	})
	return out
}
