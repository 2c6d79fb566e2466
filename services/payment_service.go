package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"lodge-desk/models"
)

// TakePayment records money received for a room and reconciles its balance.
// Only the portion that clears an outstanding due lowers totals.balance; any
// excess becomes credit (negative room balance).
func (s *LedgerService) TakePayment(ctx context.Context, roomNumber string, amount int64, method string) (*Outcome, error) {
	method = strings.ToLower(strings.TrimSpace(method))
	if amount <= 0 {
		return nil, invalid("amount", "amount must be greater than zero")
	}
	if !paymentMethodValid(method, false) {
		return nil, invalid("payment_mode", "unknown payment method %q", method)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	room, err := s.occupiedRoom(roomNumber)
	if err != nil {
		return nil, err
	}

	date, clock := s.stamp()
	s.appendLog(models.Category(method), models.LogEntry{
		Room:   room.Number,
		Name:   room.GuestName(),
		Amount: amount,
		Time:   clock,
		Date:   date,
	})
	s.state.Totals[models.Category(method)] += amount

	out := &Outcome{Message: "Payment recorded successfully."}
	current := room.Balance
	switch {
	case current <= 0:
		// already settled: the payment banks as further credit
		room.Balance = current - amount
	case amount >= current:
		s.state.Totals[models.CategoryBalance] -= current
		overpayment := amount - current
		room.Balance = -overpayment
		if overpayment > 0 {
			out.Overpayment = overpayment
			out.Message = fmt.Sprintf("Payment of %d received. Balance cleared. Overpayment: %d", amount, overpayment)
		} else {
			out.Message = fmt.Sprintf("Payment of %d received. Balance cleared.", amount)
		}
	default:
		room.Balance = current - amount
		s.state.Totals[models.CategoryBalance] -= amount
	}

	s.logger.Info("payment",
		zap.String("room", room.Number),
		zap.Int64("amount", amount),
		zap.String("method", method),
		zap.Int64("balance", room.Balance))

	out.Saved = s.persist(ctx, "take_payment")
	out.Room = room.Clone()
	return out, nil
}

// ProcessRefund pays back up to abs(balance) and moves the room balance toward zero.
func (s *LedgerService) ProcessRefund(ctx context.Context, roomNumber string, amount int64, method string) (*Outcome, error) {
	method = strings.ToLower(strings.TrimSpace(method))
	if method == "" {
		method = MethodCash
	}
	if amount <= 0 {
		return nil, invalid("amount", "refund amount must be greater than zero")
	}
	if !paymentMethodValid(method, false) {
		return nil, invalid("payment_mode", "unknown refund method %q", method)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	room, err := s.occupiedRoom(roomNumber)
	if err != nil {
		return nil, err
	}
	available := abs(room.Balance)
	if available < amount {
		return nil, invalid("amount", "refund amount (%d) exceeds available balance (%d)", amount, available)
	}

	note := "Full refund"
	if available > amount {
		note = "Partial refund"
	}
	date, clock := s.stamp()
	s.appendLog(models.CategoryRefunds, models.LogEntry{
		Room:          room.Number,
		Name:          room.GuestName(),
		Amount:        amount,
		PaymentMethod: method,
		Time:          clock,
		Date:          date,
		Note:          note,
	})
	s.state.Totals[models.CategoryRefunds] += amount
	room.Balance += amount

	s.logger.Info("refund", zap.String("room", room.Number), zap.Int64("amount", amount), zap.String("method", method))
	return &Outcome{
		Message: fmt.Sprintf("Refund of %d processed successfully", amount),
		Saved:   s.persist(ctx, "process_refund"),
		Room:    room.Clone(),
	}, nil
}

// ApplyDiscount lowers what the guest owes. Against a positive balance it is
// capped at the balance and lowers totals.balance by the same amount; against a
// settled room it deepens the credit and leaves totals.balance alone.
func (s *LedgerService) ApplyDiscount(ctx context.Context, roomNumber string, amount int64, reason string) (*Outcome, error) {
	reason = strings.TrimSpace(reason)
	if amount <= 0 {
		return nil, invalid("amount", "discount must be greater than zero")
	}
	if err := checkText("reason", reason); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	room, err := s.occupiedRoom(roomNumber)
	if err != nil {
		return nil, err
	}

	applied := amount
	if room.Balance > 0 {
		applied = min(room.Balance, amount)
		room.Balance -= applied
		s.state.Totals[models.CategoryBalance] -= applied
	} else {
		room.Balance -= amount
	}

	date, clock := s.stamp()
	room.Discounts = append(room.Discounts, models.Discount{
		Amount: applied,
		Reason: reason,
		Time:   clock,
		Date:   date,
	})
	s.appendLog(models.CategoryDiscounts, models.LogEntry{
		Room:   room.Number,
		Name:   room.GuestName(),
		Amount: applied,
		Time:   clock,
		Date:   date,
		Note:   reason,
	})

	s.logger.Info("discount", zap.String("room", room.Number), zap.Int64("applied", applied), zap.String("reason", reason))
	return &Outcome{
		Message: fmt.Sprintf("Discount of %d applied to room %s", applied, room.Number),
		Saved:   s.persist(ctx, "apply_discount"),
		Room:    room.Clone(),
	}, nil
}

// RecordExpense logs money paid out by the front desk (supplies, repairs).
func (s *LedgerService) RecordExpense(ctx context.Context, description string, amount int64, method string) (*Outcome, error) {
	description = strings.TrimSpace(description)
	method = strings.ToLower(strings.TrimSpace(method))
	if method == "" {
		method = MethodCash
	}
	if description == "" {
		return nil, invalid("description", "description is required")
	}
	if err := checkText("description", description); err != nil {
		return nil, err
	}
	if amount <= 0 {
		return nil, invalid("amount", "amount must be greater than zero")
	}
	if !paymentMethodValid(method, false) {
		return nil, invalid("payment_method", "unknown payment method %q", method)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	date, clock := s.stamp()
	s.appendLog(models.CategoryExpenses, models.LogEntry{
		Amount:        amount,
		Time:          clock,
		Date:          date,
		Item:          description,
		PaymentMethod: method,
	})
	s.state.Totals[models.CategoryExpenses] += amount

	s.logger.Info("expense", zap.String("item", description), zap.Int64("amount", amount))
	return &Outcome{
		Message: fmt.Sprintf("Expense of %d recorded", amount),
		Saved:   s.persist(ctx, "record_expense"),
	}, nil
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
