package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"lodge-desk/models"
)

type CheckInInput struct {
	Room       string
	Name       string
	Mobile     string
	Guests     int
	Price      int64
	AmountPaid int64
	Payment    string
	PhotoPath  string
}

func (in *CheckInInput) normalize() {
	in.Room = strings.TrimSpace(in.Room)
	in.Name = strings.TrimSpace(in.Name)
	in.Mobile = strings.TrimSpace(in.Mobile)
	in.Payment = strings.ToLower(strings.TrimSpace(in.Payment))
	if in.Guests == 0 {
		in.Guests = 1
	}
}

func (in *CheckInInput) validate() error {
	if in.Name == "" {
		return invalid("name", "guest name is required")
	}
	if err := checkText("name", in.Name, "mobile", in.Mobile); err != nil {
		return err
	}
	if in.Guests < 0 {
		return invalid("guests", "guest count cannot be negative")
	}
	if in.Price < 0 {
		return invalid("price", "price cannot be negative")
	}
	if in.AmountPaid < 0 {
		return invalid("amountPaid", "amount paid cannot be negative")
	}
	if !paymentMethodValid(in.Payment, true) {
		return invalid("payment", "unknown payment method %q", in.Payment)
	}
	if in.AmountPaid > 0 && in.Payment == MethodBalance {
		return invalid("payment", "cannot use 'Pay Later' with an amount paid, select cash or online")
	}
	return nil
}

// CheckIn occupies a vacant room. An upfront payment larger than the price
// leaves a negative room balance without lowering totals.balance.
func (s *LedgerService) CheckIn(ctx context.Context, in CheckInInput) (*Outcome, error) {
	in.normalize()
	if err := in.validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	room, err := s.vacantRoom(in.Room)
	if err != nil {
		return nil, err
	}

	guest := models.Guest{
		Name:    in.Name,
		Mobile:  in.Mobile,
		Price:   in.Price,
		Guests:  in.Guests,
		Payment: in.Payment,
		Balance: in.Price - in.AmountPaid,
		Photo:   in.PhotoPath,
	}
	s.settleArrival(room, guest, in.AmountPaid, in.Payment)

	out := &Outcome{Message: fmt.Sprintf("Check-in successful for %s", guest.Name)}
	if guest.Balance < 0 {
		out.Overpayment = -guest.Balance
		s.logger.Warn("check-in overpayment not reflected in balance total",
			zap.String("room", room.Number), zap.Int64("overpayment", out.Overpayment))
	}
	s.logger.Info("check-in",
		zap.String("room", room.Number),
		zap.String("guest", guest.Name),
		zap.Int64("balance", room.Balance))

	out.Saved = s.persist(ctx, "check_in")
	out.Room = room.Clone()
	return out, nil
}

// PrecheckCheckIn reports whether CheckIn would accept in, without changing
// anything.
func (s *LedgerService) PrecheckCheckIn(in CheckInInput) error {
	in.normalize()
	if err := in.validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.vacantRoom(in.Room)
	return err
}

func (s *LedgerService) vacantRoom(number string) (*models.Room, error) {
	room, err := s.room(number)
	if err != nil {
		return nil, err
	}
	if room.Status == models.RoomOccupied {
		return nil, invalid("room", "room %s is already occupied", room.Number)
	}
	return room, nil
}

// settleArrival is the check-in ledger step shared with booking conversion.
func (s *LedgerService) settleArrival(room *models.Room, guest models.Guest, amountPaid int64, method string) {
	date, clock := s.stamp()

	room.Status = models.RoomOccupied
	room.Guest = &guest
	room.CheckinTime = s.now().Format(CheckinLayout)
	room.Balance = guest.Balance
	room.AddOns = []models.AddOn{}
	room.RenewalCount = 0
	room.Discounts = nil

	if amountPaid > 0 {
		s.appendLog(models.Category(method), models.LogEntry{
			Room:   room.Number,
			Name:   guest.Name,
			Amount: amountPaid,
			Time:   clock,
			Date:   date,
		})
		s.state.Totals[models.Category(method)] += amountPaid
	}
	if guest.Balance > 0 {
		s.appendLog(models.CategoryBalance, models.LogEntry{
			Room:   room.Number,
			Name:   guest.Name,
			Amount: guest.Balance,
			Time:   clock,
			Date:   date,
		})
		s.state.Totals[models.CategoryBalance] += guest.Balance
	}
}

// AddCharge records an add-on. Paid now (cash/online) or put on the room
// balance; either way it lands in the room's add-on list and the add_ons log.
func (s *LedgerService) AddCharge(ctx context.Context, roomNumber, item string, price int64, method string) (*Outcome, error) {
	item = strings.TrimSpace(item)
	method = strings.ToLower(strings.TrimSpace(method))
	if method == "" {
		method = MethodBalance
	}
	if item == "" {
		return nil, invalid("item", "item is required")
	}
	if err := checkText("item", item); err != nil {
		return nil, err
	}
	if price <= 0 {
		return nil, invalid("price", "price must be greater than zero")
	}
	if !paymentMethodValid(method, true) {
		return nil, invalid("payment_method", "unknown payment method %q", method)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	room, err := s.occupiedRoom(roomNumber)
	if err != nil {
		return nil, err
	}

	date, clock := s.stamp()
	name := room.GuestName()

	if method == MethodBalance {
		room.Balance += price
		s.state.Totals[models.CategoryBalance] += price
		s.appendLog(models.CategoryBalance, models.LogEntry{
			Room:   room.Number,
			Name:   name,
			Amount: price,
			Time:   clock,
			Date:   date,
			Item:   item,
			Note:   fmt.Sprintf("Added %s to balance", item),
		})
	} else {
		s.appendLog(models.Category(method), models.LogEntry{
			Room:          room.Number,
			Name:          name,
			Amount:        price,
			Time:          clock,
			Date:          date,
			Item:          item,
			PaymentMethod: method,
		})
		s.state.Totals[models.Category(method)] += price
	}

	room.AddOns = append(room.AddOns, models.AddOn{
		Room:          room.Number,
		Item:          item,
		Price:         price,
		Time:          clock,
		Date:          date,
		PaymentMethod: method,
	})
	s.appendLog(models.CategoryAddOns, models.LogEntry{
		Room:          room.Number,
		Name:          name,
		Amount:        price,
		Time:          clock,
		Date:          date,
		Item:          item,
		PaymentMethod: method,
	})

	s.logger.Info("add-on",
		zap.String("room", room.Number),
		zap.String("item", item),
		zap.Int64("price", price),
		zap.String("payment", method))

	msg := fmt.Sprintf("Added %s (%d) to room %s, paid by %s", item, price, room.Number, method)
	if method == MethodBalance {
		msg = fmt.Sprintf("Added %s (%d) to room %s balance", item, price, room.Number)
	}
	return &Outcome{Message: msg, Saved: s.persist(ctx, "add_charge"), Room: room.Clone()}, nil
}

// RenewRent charges the guest's agreed price again for another period.
// renewalCount is the caller's counter; the logged day is renewalCount+1.
func (s *LedgerService) RenewRent(ctx context.Context, roomNumber string, renewalCount int) (*Outcome, error) {
	if renewalCount < 0 {
		return nil, invalid("renewal_count", "renewal count cannot be negative")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	room, err := s.occupiedRoom(roomNumber)
	if err != nil {
		return nil, err
	}

	price := room.Guest.Price
	room.Balance += price
	s.state.Totals[models.CategoryBalance] += price
	room.RenewalCount = renewalCount

	date, clock := s.stamp()
	day := renewalCount + 1
	entry := models.LogEntry{
		Room:   room.Number,
		Name:   room.GuestName(),
		Amount: price,
		Time:   clock,
		Date:   date,
		Note:   fmt.Sprintf("Day %d rent renewal", day),
		Day:    day,
	}
	s.appendLog(models.CategoryBalance, entry)
	s.appendLog(models.CategoryRenewals, entry)
	s.state.LastRentCheck = s.now().Format(RentCheckLayout)

	s.logger.Info("rent renewed", zap.String("room", room.Number), zap.Int("day", day))
	return &Outcome{
		Message: fmt.Sprintf("Rent renewed for Room %s", room.Number),
		Saved:   s.persist(ctx, "renew_rent"),
		Room:    room.Clone(),
	}, nil
}

// TransferRoom moves an occupied room's whole record to a vacant room and
// re-points the guest's historical log entries at the new room.
func (s *LedgerService) TransferRoom(ctx context.Context, from, to string) (*Outcome, error) {
	from = strings.TrimSpace(from)
	to = strings.TrimSpace(to)
	if from == to {
		return nil, invalid("new_room", "source and destination room are the same")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	src, err := s.occupiedRoom(from)
	if err != nil {
		return nil, err
	}
	dst, err := s.room(to)
	if err != nil {
		return nil, err
	}
	if dst.Status != models.RoomVacant {
		return nil, invalid("new_room", "room %s is not vacant", dst.Number)
	}

	guestName := src.GuestName()
	moved := src.Clone()
	moved.Number = dst.Number
	s.state.Rooms[dst.Number] = moved
	src.Reset()

	rewritten := 0
	for _, c := range models.LogCategories {
		if c == models.CategoryRoomShifts || c == models.CategoryExpenses {
			continue
		}
		entries := s.state.Logs[c]
		for i := range entries {
			if entries[i].Room == from && entries[i].Name == guestName {
				entries[i].Room = to
				entries[i].RoomShifted = true
				entries[i].OldRoom = from
				rewritten++
			}
		}
	}

	date, clock := s.stamp()
	s.appendLog(models.CategoryRoomShifts, models.LogEntry{
		Room:    to,
		Name:    guestName,
		Amount:  moved.Balance,
		Time:    clock,
		Date:    date,
		OldRoom: from,
		ToRoom:  to,
		Note:    fmt.Sprintf("Shifted from room %s to room %s", from, to),
	})

	s.logger.Info("room transfer",
		zap.String("from", from),
		zap.String("to", to),
		zap.String("guest", guestName),
		zap.Int("entries_rewritten", rewritten))

	return &Outcome{
		Message: fmt.Sprintf("%s moved from room %s to room %s", guestName, from, to),
		Saved:   s.persist(ctx, "transfer_room"),
		Room:    moved.Clone(),
	}, nil
}

// FinalCheckout vacates a room whose balance is settled. With a refund method a
// remaining credit is logged as a refund; without one the credit is dropped
// and reported as ForfeitedCredit.
func (s *LedgerService) FinalCheckout(ctx context.Context, roomNumber, refundMethod string) (*Outcome, error) {
	refundMethod = strings.ToLower(strings.TrimSpace(refundMethod))
	if refundMethod != "" && !paymentMethodValid(refundMethod, false) {
		return nil, invalid("refund_method", "unknown refund method %q", refundMethod)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	room, err := s.occupiedRoom(roomNumber)
	if err != nil {
		return nil, err
	}
	if room.Balance > 0 {
		return nil, invalid("balance", "please clear the balance of %d before checkout", room.Balance)
	}

	out := &Outcome{Message: "Checkout successful"}
	guestName := room.GuestName()
	if room.Balance < 0 {
		credit := -room.Balance
		if refundMethod != "" {
			date, clock := s.stamp()
			s.appendLog(models.CategoryRefunds, models.LogEntry{
				Room:          room.Number,
				Name:          guestName,
				Amount:        credit,
				PaymentMethod: refundMethod,
				Time:          clock,
				Date:          date,
				Note:          "Checkout refund",
			})
			s.state.Totals[models.CategoryRefunds] += credit
			s.logger.Info("checkout refund", zap.String("room", room.Number), zap.Int64("amount", credit))
		} else {
			out.ForfeitedCredit = credit
			s.logger.Warn("checkout without refund method, guest credit dropped",
				zap.String("room", room.Number), zap.Int64("credit", credit))
		}
	}

	room.Reset()
	s.logger.Info("checkout", zap.String("room", room.Number), zap.String("guest", guestName))

	out.Saved = s.persist(ctx, "final_checkout")
	out.Room = room.Clone()
	return out, nil
}

// UpdateCheckinTime corrects the check-in timestamp and restarts renewal counting.
func (s *LedgerService) UpdateCheckinTime(ctx context.Context, roomNumber, checkinTime string) (*Outcome, error) {
	checkinTime = strings.TrimSpace(checkinTime)
	if _, err := time.Parse(CheckinLayout, checkinTime); err != nil {
		return nil, invalid("checkin_time", "expected format YYYY-MM-DD HH:MM")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	room, err := s.occupiedRoom(roomNumber)
	if err != nil {
		return nil, err
	}
	room.CheckinTime = checkinTime
	room.RenewalCount = 0

	return &Outcome{
		Message: "Check-in time updated successfully.",
		Saved:   s.persist(ctx, "update_checkin_time"),
		Room:    room.Clone(),
	}, nil
}

// AddRoom registers an extra vacant room outside the default set.
func (s *LedgerService) AddRoom(ctx context.Context, number string) (*Outcome, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return nil, invalid("room", "room number is required")
	}
	if err := checkText("room", number); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.state.Rooms[number]; ok {
		return nil, invalid("room", "room %s already exists", number)
	}
	room := models.NewVacantRoom(number)
	s.state.Rooms[number] = room

	s.logger.Info("room added", zap.String("room", number))
	return &Outcome{
		Message: fmt.Sprintf("Room %s added", number),
		Saved:   s.persist(ctx, "add_room"),
		Room:    room.Clone(),
	}, nil
}
