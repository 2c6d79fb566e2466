package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lodge-desk/models"
)

var fixedNow = time.Date(2025, 1, 2, 14, 30, 0, 0, time.Local)

const today = "2025-01-02"

type fakeStore struct {
	saves   int
	fail    error
	loadErr error
	last    *models.Snapshot
	load    *models.Snapshot
}

func (f *fakeStore) Load(ctx context.Context) (*models.Snapshot, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	if f.load == nil {
		return models.NewSnapshot(), nil
	}
	return f.load, nil
}

func (f *fakeStore) Save(ctx context.Context, snap *models.Snapshot) error {
	if f.fail != nil {
		return f.fail
	}
	f.saves++
	f.last = snap
	return nil
}

func newTestLedger(t *testing.T, opts ...Option) (*LedgerService, *fakeStore) {
	t.Helper()
	snap := models.NewSnapshot()
	snap.EnsureRooms([]string{"101", "102", "103", "200"})
	st := &fakeStore{}
	seq := 0
	base := []Option{
		WithClock(func() time.Time { return fixedNow }),
		WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("bk-%d", seq)
		}),
	}
	return NewLedgerService(snap, st, nil, append(base, opts...)...), st
}

func checkIn(t *testing.T, s *LedgerService, room string, price, paid int64, method string) *Outcome {
	t.Helper()
	out, err := s.CheckIn(context.Background(), CheckInInput{
		Room: room, Name: "Somchai", Mobile: "0812345678", Guests: 2,
		Price: price, AmountPaid: paid, Payment: method,
	})
	require.NoError(t, err)
	return out
}

func TestCheckIn_PartialPayment(t *testing.T) {
	s, st := newTestLedger(t)

	out := checkIn(t, s, "101", 1000, 400, "cash")

	assert.True(t, out.Saved)
	assert.Equal(t, 1, st.saves)
	assert.Equal(t, int64(0), out.Overpayment)

	room, err := s.Room("101")
	require.NoError(t, err)
	assert.Equal(t, models.RoomOccupied, room.Status)
	assert.Equal(t, int64(600), room.Balance)
	assert.Equal(t, "2025-01-02 14:30", room.CheckinTime)
	assert.Equal(t, int64(600), room.Guest.Balance)
	assert.Equal(t, 2, room.Guest.Guests)

	totals := s.Totals()
	assert.Equal(t, int64(400), totals[models.CategoryCash])
	assert.Equal(t, int64(600), totals[models.CategoryBalance])

	snap := s.Snapshot()
	require.Len(t, snap.Logs[models.CategoryCash], 1)
	assert.Equal(t, int64(400), snap.Logs[models.CategoryCash][0].Amount)
	assert.Equal(t, "14:30", snap.Logs[models.CategoryCash][0].Time)
	require.Len(t, snap.Logs[models.CategoryBalance], 1)
	assert.Equal(t, int64(600), snap.Logs[models.CategoryBalance][0].Amount)
}

func TestCheckIn_OverpaymentLeavesBalanceTotalAlone(t *testing.T) {
	s, _ := newTestLedger(t)

	out := checkIn(t, s, "101", 1000, 1200, "online")

	assert.Equal(t, int64(200), out.Overpayment)
	assert.Equal(t, int64(-200), out.Room.Balance)
	totals := s.Totals()
	assert.Equal(t, int64(1200), totals[models.CategoryOnline])
	assert.Equal(t, int64(0), totals[models.CategoryBalance])
	assert.Empty(t, s.Snapshot().Logs[models.CategoryBalance])
}

func TestCheckIn_PayLaterNothingPaid(t *testing.T) {
	s, _ := newTestLedger(t)

	out := checkIn(t, s, "101", 800, 0, "balance")

	assert.Equal(t, int64(800), out.Room.Balance)
	snap := s.Snapshot()
	assert.Empty(t, snap.Logs[models.CategoryCash])
	assert.Equal(t, int64(800), snap.Totals[models.CategoryBalance])
}

func TestCheckIn_Rejections(t *testing.T) {
	s, st := newTestLedger(t)
	checkIn(t, s, "101", 1000, 0, "balance")
	before := s.Snapshot()

	cases := []struct {
		name string
		in   CheckInInput
	}{
		{"occupied room", CheckInInput{Room: "101", Name: "Other", Price: 500, Payment: "cash"}},
		{"missing name", CheckInInput{Room: "102", Price: 500, Payment: "cash"}},
		{"negative price", CheckInInput{Room: "102", Name: "A", Price: -1, Payment: "cash"}},
		{"unknown method", CheckInInput{Room: "102", Name: "A", Price: 500, Payment: "card"}},
		{"pay later with amount", CheckInInput{Room: "102", Name: "A", Price: 500, AmountPaid: 100, Payment: "balance"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.CheckIn(context.Background(), tc.in)
			require.Error(t, err)
			assert.NotNil(t, IsValidationError(err))
		})
	}

	_, err := s.CheckIn(context.Background(), CheckInInput{Room: "999", Name: "A", Price: 1, Payment: "cash"})
	assert.True(t, IsNotFound(err))

	assert.Equal(t, before, s.Snapshot())
	assert.Equal(t, 1, st.saves)
}

func TestAddCharge_OnBalance(t *testing.T) {
	s, _ := newTestLedger(t)
	checkIn(t, s, "101", 1000, 400, "cash")

	out, err := s.AddCharge(context.Background(), "101", "Laundry", 100, "")
	require.NoError(t, err)

	assert.Equal(t, int64(700), out.Room.Balance)
	require.Len(t, out.Room.AddOns, 1)
	assert.Equal(t, "balance", out.Room.AddOns[0].PaymentMethod)

	snap := s.Snapshot()
	assert.Equal(t, int64(700), snap.Totals[models.CategoryBalance])
	assert.Len(t, snap.Logs[models.CategoryAddOns], 1)
	balanceLog := snap.Logs[models.CategoryBalance]
	require.Len(t, balanceLog, 2)
	assert.Equal(t, "Laundry", balanceLog[1].Item)
}

func TestAddCharge_PaidNow(t *testing.T) {
	s, _ := newTestLedger(t)
	checkIn(t, s, "101", 1000, 400, "cash")

	out, err := s.AddCharge(context.Background(), "101", "Breakfast", 150, "cash")
	require.NoError(t, err)

	assert.Equal(t, int64(600), out.Room.Balance)
	snap := s.Snapshot()
	assert.Equal(t, int64(550), snap.Totals[models.CategoryCash])
	assert.Equal(t, int64(600), snap.Totals[models.CategoryBalance])
	assert.Len(t, snap.Logs[models.CategoryAddOns], 1)
}

func TestAddCharge_Rejections(t *testing.T) {
	s, _ := newTestLedger(t)
	checkIn(t, s, "101", 1000, 0, "balance")

	_, err := s.AddCharge(context.Background(), "102", "Laundry", 100, "")
	assert.NotNil(t, IsValidationError(err), "vacant room")

	_, err = s.AddCharge(context.Background(), "101", "", 100, "")
	assert.NotNil(t, IsValidationError(err))

	_, err = s.AddCharge(context.Background(), "101", "Laundry", 0, "")
	assert.NotNil(t, IsValidationError(err))
}

func TestTakePayment_Branches(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestLedger(t)
	checkIn(t, s, "101", 1000, 400, "cash")

	// partial: due 600, pays 200
	out, err := s.TakePayment(ctx, "101", 200, "online")
	require.NoError(t, err)
	assert.Equal(t, int64(400), out.Room.Balance)
	assert.Equal(t, int64(400), s.Totals()[models.CategoryBalance])

	// clears and overpays: due 400, pays 600
	out, err = s.TakePayment(ctx, "101", 600, "cash")
	require.NoError(t, err)
	assert.Equal(t, int64(-200), out.Room.Balance)
	assert.Equal(t, int64(200), out.Overpayment)
	assert.Equal(t, int64(0), s.Totals()[models.CategoryBalance])

	// already in credit: more credit, totals.balance untouched
	out, err = s.TakePayment(ctx, "101", 100, "cash")
	require.NoError(t, err)
	assert.Equal(t, int64(-300), out.Room.Balance)

	totals := s.Totals()
	assert.Equal(t, int64(0), totals[models.CategoryBalance])
	assert.Equal(t, int64(1100), totals[models.CategoryCash])
	assert.Equal(t, int64(200), totals[models.CategoryOnline])
}

func TestTakePayment_ExactAmountClears(t *testing.T) {
	s, _ := newTestLedger(t)
	checkIn(t, s, "101", 1000, 0, "balance")

	out, err := s.TakePayment(context.Background(), "101", 1000, "cash")
	require.NoError(t, err)
	assert.Equal(t, int64(0), out.Room.Balance)
	assert.Equal(t, int64(0), out.Overpayment)
	assert.Equal(t, "Payment of 1000 received. Balance cleared.", out.Message)
}

func TestTakePayment_Rejections(t *testing.T) {
	s, _ := newTestLedger(t)
	checkIn(t, s, "101", 1000, 0, "balance")
	before := s.Snapshot()

	_, err := s.TakePayment(context.Background(), "101", 0, "cash")
	assert.NotNil(t, IsValidationError(err))
	_, err = s.TakePayment(context.Background(), "101", 100, "balance")
	assert.NotNil(t, IsValidationError(err))
	_, err = s.TakePayment(context.Background(), "102", 100, "cash")
	assert.NotNil(t, IsValidationError(err))

	assert.Equal(t, before, s.Snapshot())
}

func TestProcessRefund(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestLedger(t)
	checkIn(t, s, "101", 1000, 1300, "cash") // credit 300

	_, err := s.ProcessRefund(ctx, "101", 400, "cash")
	assert.NotNil(t, IsValidationError(err))

	out, err := s.ProcessRefund(ctx, "101", 100, "")
	require.NoError(t, err)
	assert.Equal(t, int64(-200), out.Room.Balance)

	out, err = s.ProcessRefund(ctx, "101", 200, "online")
	require.NoError(t, err)
	assert.Equal(t, int64(0), out.Room.Balance)

	snap := s.Snapshot()
	refunds := snap.Logs[models.CategoryRefunds]
	require.Len(t, refunds, 2)
	assert.Equal(t, "Partial refund", refunds[0].Note)
	assert.Equal(t, "cash", refunds[0].PaymentMethod)
	assert.Equal(t, "Full refund", refunds[1].Note)
	assert.Equal(t, int64(300), snap.Totals[models.CategoryRefunds])
}

func TestApplyDiscount(t *testing.T) {
	ctx := context.Background()

	t.Run("capped at positive balance", func(t *testing.T) {
		s, _ := newTestLedger(t)
		checkIn(t, s, "101", 1000, 400, "cash")

		out, err := s.ApplyDiscount(ctx, "101", 1000, "loyal guest")
		require.NoError(t, err)
		assert.Equal(t, int64(0), out.Room.Balance)
		require.Len(t, out.Room.Discounts, 1)
		assert.Equal(t, int64(600), out.Room.Discounts[0].Amount)
		assert.Equal(t, int64(0), s.Totals()[models.CategoryBalance])
	})

	t.Run("settled room goes further into credit", func(t *testing.T) {
		s, _ := newTestLedger(t)
		checkIn(t, s, "101", 1000, 1000, "cash")

		out, err := s.ApplyDiscount(ctx, "101", 50, "late checkout apology")
		require.NoError(t, err)
		assert.Equal(t, int64(-50), out.Room.Balance)
		assert.Equal(t, int64(0), s.Totals()[models.CategoryBalance])
		assert.Len(t, s.Snapshot().Logs[models.CategoryDiscounts], 1)
	})
}

func TestRenewRent(t *testing.T) {
	s, _ := newTestLedger(t)
	checkIn(t, s, "101", 1000, 400, "cash")

	out, err := s.RenewRent(context.Background(), "101", 2)
	require.NoError(t, err)

	assert.Equal(t, int64(1600), out.Room.Balance)
	assert.Equal(t, 2, out.Room.RenewalCount)

	snap := s.Snapshot()
	assert.Equal(t, int64(1600), snap.Totals[models.CategoryBalance])
	require.Len(t, snap.Logs[models.CategoryRenewals], 1)
	assert.Equal(t, 3, snap.Logs[models.CategoryRenewals][0].Day)
	assert.Equal(t, "Day 3 rent renewal", snap.Logs[models.CategoryRenewals][0].Note)
	assert.Equal(t, "2025-01-02 14:30:00", snap.LastRentCheck)
}

func TestTransferRoom(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestLedger(t)
	checkIn(t, s, "101", 1000, 400, "cash")
	_, err := s.AddCharge(ctx, "101", "Laundry", 100, "")
	require.NoError(t, err)
	_, err = s.RecordExpense(ctx, "Light bulbs", 80, "cash")
	require.NoError(t, err)

	before, err := s.Room("101")
	require.NoError(t, err)

	out, err := s.TransferRoom(ctx, "101", "102")
	require.NoError(t, err)

	moved, err := s.Room("102")
	require.NoError(t, err)
	want := before.Clone()
	want.Number = "102"
	assert.Equal(t, want, moved)
	assert.Equal(t, want, out.Room)

	src, err := s.Room("101")
	require.NoError(t, err)
	assert.Equal(t, models.RoomVacant, src.Status)
	assert.Nil(t, src.Guest)
	assert.Equal(t, int64(0), src.Balance)

	snap := s.Snapshot()
	for _, c := range []models.Category{models.CategoryCash, models.CategoryBalance, models.CategoryAddOns} {
		for _, e := range snap.Logs[c] {
			assert.Equal(t, "102", e.Room, c)
			assert.True(t, e.RoomShifted, c)
			assert.Equal(t, "101", e.OldRoom, c)
		}
	}
	require.Len(t, snap.Logs[models.CategoryRoomShifts], 1)
	shift := snap.Logs[models.CategoryRoomShifts][0]
	assert.Equal(t, "101", shift.OldRoom)
	assert.Equal(t, "102", shift.ToRoom)
	assert.Equal(t, int64(700), shift.Amount)
	assert.False(t, snap.Logs[models.CategoryExpenses][0].RoomShifted)
	assert.Equal(t, int64(700), snap.Totals[models.CategoryBalance])
}

func TestTransferRoom_LeavesPreviousGuestHistory(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestLedger(t)

	// earlier stay in 101 by someone else
	checkIn(t, s, "101", 500, 200, "cash")
	_, err := s.TakePayment(ctx, "101", 300, "cash")
	require.NoError(t, err)
	_, err = s.FinalCheckout(ctx, "101", "")
	require.NoError(t, err)

	_, err = s.CheckIn(ctx, CheckInInput{Room: "101", Name: "Malee", Price: 900, AmountPaid: 100, Payment: "online"})
	require.NoError(t, err)
	_, err = s.TransferRoom(ctx, "101", "102")
	require.NoError(t, err)

	snap := s.Snapshot()
	seen := map[string]int{}
	for _, c := range []models.Category{models.CategoryCash, models.CategoryOnline, models.CategoryBalance} {
		for _, e := range snap.Logs[c] {
			seen[e.Name]++
			switch e.Name {
			case "Somchai":
				assert.Equal(t, "101", e.Room, c)
				assert.False(t, e.RoomShifted, c)
				assert.Empty(t, e.OldRoom, c)
			case "Malee":
				assert.Equal(t, "102", e.Room, c)
				assert.True(t, e.RoomShifted, c)
			}
		}
	}
	assert.Equal(t, 3, seen["Somchai"], "cash x2 + balance")
	assert.Equal(t, 2, seen["Malee"], "online + balance")
}

// outstanding is totals.balance minus the sum of positive room balances.
func outstandingDrift(s *LedgerService) int64 {
	snap := s.Snapshot()
	var owed int64
	for _, r := range snap.Rooms {
		owed += max(r.Balance, 0)
	}
	return snap.Totals[models.CategoryBalance] - owed
}

func TestBalanceTotalTracksRoomBalances(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestLedger(t)

	steps := []struct {
		name      string
		run       func() error
		wantDrift int64
	}{
		{"check in 101 part paid", func() error {
			_, err := s.CheckIn(ctx, CheckInInput{Room: "101", Name: "A", Price: 1000, AmountPaid: 400, Payment: "cash"})
			return err
		}, 0},
		{"add-on on balance", func() error { _, err := s.AddCharge(ctx, "101", "Laundry", 150, "balance"); return err }, 0},
		{"add-on paid now", func() error { _, err := s.AddCharge(ctx, "101", "Water", 20, "cash"); return err }, 0},
		{"partial payment", func() error { _, err := s.TakePayment(ctx, "101", 300, "online"); return err }, 0},
		{"discount", func() error { _, err := s.ApplyDiscount(ctx, "101", 50, "loyal"); return err }, 0},
		{"renew", func() error { _, err := s.RenewRent(ctx, "101", 1); return err }, 0},
		{"check in 102 pay later", func() error {
			_, err := s.CheckIn(ctx, CheckInInput{Room: "102", Name: "B", Price: 800, Payment: "balance"})
			return err
		}, 0},
		{"transfer 101 to 103", func() error { _, err := s.TransferRoom(ctx, "101", "103"); return err }, 0},
		{"overpay 103", func() error { _, err := s.TakePayment(ctx, "103", 1500, "cash"); return err }, 0},
		{"refund part of the credit", func() error { _, err := s.ProcessRefund(ctx, "103", 40, "cash"); return err }, 0},
		{"checkout 103 with refund", func() error { _, err := s.FinalCheckout(ctx, "103", "cash"); return err }, 0},
		{"discount above balance", func() error { _, err := s.ApplyDiscount(ctx, "102", 1000, "complaint"); return err }, 0},
		{"checkout 102", func() error { _, err := s.FinalCheckout(ctx, "102", ""); return err }, 0},

		// Known deviation: a check-in paid above the price leaves credit on
		// the room that totals.balance never saw. Charges landing on that
		// credit are added to the total in full, so the total runs ahead of
		// the room balances by the overpayment from then on.
		{"check in 101 overpaid", func() error {
			_, err := s.CheckIn(ctx, CheckInInput{Room: "101", Name: "C", Price: 1000, AmountPaid: 1300, Payment: "cash"})
			return err
		}, 0},
		{"renew over the credit", func() error { _, err := s.RenewRent(ctx, "101", 0); return err }, 300},
		{"pay the rest", func() error { _, err := s.TakePayment(ctx, "101", 700, "cash"); return err }, 300},
		{"checkout", func() error { _, err := s.FinalCheckout(ctx, "101", ""); return err }, 300},
	}

	for _, st := range steps {
		require.NoError(t, st.run(), st.name)
		assert.Equal(t, st.wantDrift, outstandingDrift(s), st.name)
	}
}

func TestTransferRoom_Rejections(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestLedger(t)
	checkIn(t, s, "101", 1000, 0, "balance")
	checkIn(t, s, "102", 500, 0, "balance")
	before := s.Snapshot()

	_, err := s.TransferRoom(ctx, "101", "102")
	assert.NotNil(t, IsValidationError(err), "destination occupied")
	_, err = s.TransferRoom(ctx, "103", "200")
	assert.NotNil(t, IsValidationError(err), "source vacant")
	_, err = s.TransferRoom(ctx, "101", "101")
	assert.NotNil(t, IsValidationError(err))
	_, err = s.TransferRoom(ctx, "101", "404")
	assert.True(t, IsNotFound(err))

	assert.Equal(t, before, s.Snapshot())
}

func TestFinalCheckout(t *testing.T) {
	ctx := context.Background()

	t.Run("outstanding balance blocks checkout", func(t *testing.T) {
		s, _ := newTestLedger(t)
		checkIn(t, s, "101", 1000, 400, "cash")
		_, err := s.FinalCheckout(ctx, "101", "")
		require.Error(t, err)
		assert.NotNil(t, IsValidationError(err))
		room, _ := s.Room("101")
		assert.Equal(t, models.RoomOccupied, room.Status)
	})

	t.Run("settled", func(t *testing.T) {
		s, _ := newTestLedger(t)
		checkIn(t, s, "101", 1000, 1000, "cash")
		out, err := s.FinalCheckout(ctx, "101", "")
		require.NoError(t, err)
		assert.Equal(t, models.RoomVacant, out.Room.Status)
		assert.Equal(t, int64(0), out.ForfeitedCredit)
		assert.Empty(t, s.Snapshot().Logs[models.CategoryRefunds])
	})

	t.Run("credit refunded", func(t *testing.T) {
		s, _ := newTestLedger(t)
		checkIn(t, s, "101", 1000, 1250, "cash")
		out, err := s.FinalCheckout(ctx, "101", "online")
		require.NoError(t, err)
		assert.Equal(t, int64(0), out.ForfeitedCredit)
		snap := s.Snapshot()
		require.Len(t, snap.Logs[models.CategoryRefunds], 1)
		assert.Equal(t, int64(250), snap.Logs[models.CategoryRefunds][0].Amount)
		assert.Equal(t, "online", snap.Logs[models.CategoryRefunds][0].PaymentMethod)
		assert.Equal(t, int64(250), snap.Totals[models.CategoryRefunds])
	})

	t.Run("credit without refund method is reported", func(t *testing.T) {
		s, _ := newTestLedger(t)
		checkIn(t, s, "101", 1000, 1250, "cash")
		out, err := s.FinalCheckout(ctx, "101", "")
		require.NoError(t, err)
		assert.Equal(t, int64(250), out.ForfeitedCredit)
		assert.Equal(t, int64(0), s.Totals()[models.CategoryRefunds])
		room, _ := s.Room("101")
		assert.Equal(t, models.RoomVacant, room.Status)
	})
}

func TestSaveFailureKeepsStateAndReportsIt(t *testing.T) {
	s, st := newTestLedger(t)
	st.fail = errors.New("disk full")

	out := checkIn(t, s, "101", 1000, 400, "cash")

	assert.False(t, out.Saved)
	room, err := s.Room("101")
	require.NoError(t, err)
	assert.Equal(t, models.RoomOccupied, room.Status)
	assert.Equal(t, int64(400), s.Totals()[models.CategoryCash])
}

func TestSavedSnapshotIsACopy(t *testing.T) {
	s, st := newTestLedger(t)
	checkIn(t, s, "101", 1000, 400, "cash")
	saved := st.last

	_, err := s.TakePayment(context.Background(), "101", 100, "cash")
	require.NoError(t, err)

	assert.Equal(t, int64(600), saved.Rooms["101"].Balance)
	assert.Equal(t, int64(500), st.last.Rooms["101"].Balance)
}

func TestUpdateCheckinTime(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestLedger(t)
	checkIn(t, s, "101", 1000, 0, "balance")
	_, err := s.RenewRent(ctx, "101", 1)
	require.NoError(t, err)

	_, err = s.UpdateCheckinTime(ctx, "101", "02/01/2025")
	assert.NotNil(t, IsValidationError(err))

	out, err := s.UpdateCheckinTime(ctx, "101", "2025-01-01 09:15")
	require.NoError(t, err)
	assert.Equal(t, "2025-01-01 09:15", out.Room.CheckinTime)
	assert.Equal(t, 0, out.Room.RenewalCount)
}

func TestAddRoom(t *testing.T) {
	s, _ := newTestLedger(t)

	_, err := s.AddRoom(context.Background(), "101A")
	require.NoError(t, err)
	_, err = s.AddRoom(context.Background(), "101A")
	assert.NotNil(t, IsValidationError(err))

	room, err := s.Room("101A")
	require.NoError(t, err)
	assert.Equal(t, models.RoomVacant, room.Status)
	assert.Equal(t, []string{"101", "102", "103", "200", "101A"}, s.RoomNumbers().Rooms)
}

func TestFreeTextIsCapped(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestLedger(t)
	checkIn(t, s, "101", 1000, 0, "balance")
	before := s.Snapshot()
	long := strings.Repeat("ก", MaxTextLen+1)

	_, err := s.ApplyDiscount(ctx, "101", 10, long)
	assert.Equal(t, "reason", IsValidationError(err).Field)
	_, err = s.AddCharge(ctx, "101", long, 10, "")
	assert.Equal(t, "item", IsValidationError(err).Field)
	_, err = s.RecordExpense(ctx, long, 10, "cash")
	assert.Equal(t, "description", IsValidationError(err).Field)
	_, err = s.CheckIn(ctx, CheckInInput{Room: "102", Name: long, Price: 10, Payment: "balance"})
	assert.Equal(t, "name", IsValidationError(err).Field)
	_, err = s.CreateBooking(ctx, BookingInput{
		Room: "103", GuestName: "A", CheckInDate: "2025-01-05", CheckOutDate: "2025-01-06", Notes: long,
	})
	assert.Equal(t, "notes", IsValidationError(err).Field)

	assert.Equal(t, before, s.Snapshot())

	// exactly at the cap is fine
	_, err = s.ApplyDiscount(ctx, "101", 10, strings.Repeat("ก", MaxTextLen))
	require.NoError(t, err)
}

func TestRecordExpense(t *testing.T) {
	s, _ := newTestLedger(t)

	_, err := s.RecordExpense(context.Background(), "", 10, "cash")
	assert.NotNil(t, IsValidationError(err))

	_, err = s.RecordExpense(context.Background(), "Detergent", 250, "")
	require.NoError(t, err)

	snap := s.Snapshot()
	require.Len(t, snap.Logs[models.CategoryExpenses], 1)
	assert.Equal(t, "Detergent", snap.Logs[models.CategoryExpenses][0].Item)
	assert.Equal(t, int64(250), snap.Totals[models.CategoryExpenses])
	assert.Equal(t, int64(0), snap.Totals[models.CategoryCash])
}

func TestBootstrap(t *testing.T) {
	ctx := context.Background()

	t.Run("unreadable store gives defaults and an error", func(t *testing.T) {
		snap, err := Bootstrap(ctx, &fakeStore{loadErr: errors.New("Rooms row 2: add-ons: unexpected end of JSON input")}, []string{"1", "2"}, nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrSnapshotUnreadable)
		assert.Len(t, snap.Rooms, 2)
		assert.Equal(t, models.RoomVacant, snap.Rooms["1"].Status)
	})

	t.Run("empty store is not an error", func(t *testing.T) {
		snap, err := Bootstrap(ctx, &fakeStore{}, []string{"1"}, nil)
		require.NoError(t, err)
		assert.Len(t, snap.Rooms, 1)
	})

	t.Run("loaded rooms kept, defaults added", func(t *testing.T) {
		loaded := models.NewSnapshot()
		occupied := models.NewVacantRoom("1")
		occupied.Status = models.RoomOccupied
		occupied.Guest = &models.Guest{Name: "A"}
		loaded.Rooms["1"] = occupied

		snap, err := Bootstrap(ctx, &fakeStore{load: loaded}, []string{"1", "2"}, nil)
		require.NoError(t, err)
		assert.Len(t, snap.Rooms, 2)
		assert.Equal(t, models.RoomOccupied, snap.Rooms["1"].Status)
	})
}

func TestUnreadableStoreIsNeverOverwritten(t *testing.T) {
	ctx := context.Background()
	st := &fakeStore{loadErr: errors.New("truncated cell")}

	snap, err := Bootstrap(ctx, st, []string{"101", "102"}, nil)
	require.Error(t, err)
	s := NewLedgerService(snap, st, nil,
		WithClock(func() time.Time { return fixedNow }),
		WithSavesSuspended(err),
	)

	out := checkIn(t, s, "102", 500, 500, "cash")
	assert.False(t, out.Saved)
	assert.Equal(t, 0, st.saves)
	assert.Nil(t, st.last)

	// the change still lives in memory
	room, err := s.Room("102")
	require.NoError(t, err)
	assert.Equal(t, models.RoomOccupied, room.Status)
}

func TestPrecheckChangesNothing(t *testing.T) {
	s, st := newTestLedger(t)
	checkIn(t, s, "101", 1000, 0, "balance")
	before := s.Snapshot()
	saves := st.saves

	assert.True(t, IsNotFound(s.PrecheckCheckIn(CheckInInput{Room: "404", Name: "A", Payment: "cash"})))
	assert.NotNil(t, IsValidationError(s.PrecheckCheckIn(CheckInInput{Room: "101", Name: "A", Payment: "cash"})), "occupied")
	assert.NoError(t, s.PrecheckCheckIn(CheckInInput{Room: "102", Name: "A", Price: 10, Payment: "cash"}))

	assert.NotNil(t, IsValidationError(s.PrecheckBooking(BookingInput{Room: "102", GuestName: "A", CheckInDate: "2025-01-06", CheckOutDate: "2025-01-05"})))
	assert.NoError(t, s.PrecheckBooking(BookingInput{Room: "102", GuestName: "A", CheckInDate: "2025-01-05", CheckOutDate: "2025-01-06"}))

	assert.Equal(t, before, s.Snapshot())
	assert.Equal(t, saves, st.saves)
}
