package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"lodge-desk/models"
)

const (
	SheetRooms    = "Rooms"
	SheetLogs     = "Logs"
	SheetTotals   = "Totals"
	SheetBookings = "Bookings"
	SheetMeta     = "Meta"
)

var (
	roomsHeader    = []string{"Room", "Status", "Guest", "Checkin Time", "Balance", "Add-ons", "Renewal Count", "Discounts"}
	logsHeader     = []string{"Category", "Room", "Name", "Amount", "Time", "Date", "Note", "Details"}
	totalsHeader   = []string{"Key", "Value"}
	bookingsHeader = []string{
		"Booking ID", "Room", "Guest Name", "Guest Mobile", "Check-in Date", "Check-out Date", "Status",
		"Total Amount", "Paid Amount", "Balance", "Payment Method", "Notes", "Photo", "Booking Date", "Guests", "Checked-in At",
	}
	metaHeader = []string{"Key", "Value"}
)

// ErrCellTooLong: a value does not fit in one cell. excelize would truncate it
// silently and the JSON inside could no longer be read back.
var ErrCellTooLong = errors.New("cell value too long")

// ExcelStore keeps the ledger in one workbook with a sheet per table; nested
// values (guest, add-ons) are JSON text inside a single cell.
type ExcelStore struct {
	mu   sync.Mutex
	path string
}

func NewExcelStore(path string) *ExcelStore {
	return &ExcelStore{path: path}
}

func (s *ExcelStore) Path() string { return s.path }

// Load reads the workbook. A missing file is an empty snapshot, short rows get
// per-field defaults.
func (s *ExcelStore) Load(ctx context.Context) (*models.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := models.NewSnapshot()
	if _, err := os.Stat(s.path); errors.Is(err, os.ErrNotExist) {
		return snap, nil
	}

	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	rooms, err := readSheet(f, SheetRooms)
	if err != nil {
		return nil, err
	}
	for i, row := range rooms {
		room, err := roomFromRow(row)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", SheetRooms, i+2, err)
		}
		if room != nil {
			snap.Rooms[room.Number] = room
		}
	}

	logs, err := readSheet(f, SheetLogs)
	if err != nil {
		return nil, err
	}
	for i, row := range logs {
		c, entry, ok, err := logFromRow(row)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", SheetLogs, i+2, err)
		}
		if ok {
			snap.Logs.Append(c, entry)
		}
	}

	totals, err := readSheet(f, SheetTotals)
	if err != nil {
		return nil, err
	}
	for _, row := range totals {
		key := models.Category(cell(row, 0))
		if models.IsTotalKey(key) {
			snap.Totals[key] = parseAmount(cell(row, 1))
		}
	}

	bookings, err := readSheet(f, SheetBookings)
	if err != nil {
		return nil, err
	}
	for _, row := range bookings {
		if b := bookingFromRow(row); b != nil {
			snap.Bookings[b.ID] = b
		}
	}

	meta, err := readSheet(f, SheetMeta)
	if err != nil {
		return nil, err
	}
	for _, row := range meta {
		if cell(row, 0) == "last_rent_check" {
			snap.LastRentCheck = cell(row, 1)
		}
	}

	snap.Normalize()
	return snap, nil
}

// Save rewrites the whole workbook through a temp file + rename. Nothing is
// written when a value is too long for its cell.
func (s *ExcelStore) Save(ctx context.Context, snap *models.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := BuildWorkbook(snap)
	if err != nil {
		return err
	}
	defer f.Close()

	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir workbook dir: %w", err)
		}
	}
	ext := filepath.Ext(s.path)
	tmp := strings.TrimSuffix(s.path, ext) + ".tmp" + ext
	if err := f.SaveAs(tmp); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace workbook: %w", err)
	}
	return nil
}

// BuildWorkbook renders a snapshot as an in-memory workbook. The caller closes it.
func BuildWorkbook(snap *models.Snapshot) (*excelize.File, error) {
	f := excelize.NewFile()

	roomRows := make([][]any, 0, len(snap.Rooms))
	for _, num := range snap.RoomNumbers() {
		row, err := roomToRow(snap.Rooms[num])
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("room %s: %w", num, err)
		}
		roomRows = append(roomRows, row)
	}

	logRows := [][]any{}
	for _, c := range models.LogCategories {
		for _, e := range snap.Logs[c] {
			details, err := encodeJSON(e)
			if err != nil {
				f.Close()
				return nil, fmt.Errorf("log %s: %w", c, err)
			}
			logRows = append(logRows, []any{string(c), e.Room, e.Name, e.Amount, e.Time, e.Date, e.Note, details})
		}
	}

	totalRows := make([][]any, 0, len(models.TotalKeys))
	for _, k := range models.TotalKeys {
		totalRows = append(totalRows, []any{string(k), snap.Totals[k]})
	}

	bookingRows := make([][]any, 0, len(snap.Bookings))
	for _, id := range sortedBookingIDs(snap.Bookings) {
		b := snap.Bookings[id]
		bookingRows = append(bookingRows, []any{
			b.ID, b.Room, b.GuestName, b.GuestMobile, b.CheckInDate, b.CheckOutDate, string(b.Status),
			b.TotalAmount, b.PaidAmount, b.Balance, b.PaymentMethod, b.Notes, b.PhotoPath, b.BookingDate, b.Guests, b.CheckedInAt,
		})
	}

	metaRows := [][]any{{"last_rent_check", snap.LastRentCheck}}

	sheets := []struct {
		name   string
		header []string
		rows   [][]any
	}{
		{SheetRooms, roomsHeader, roomRows},
		{SheetLogs, logsHeader, logRows},
		{SheetTotals, totalsHeader, totalRows},
		{SheetBookings, bookingsHeader, bookingRows},
		{SheetMeta, metaHeader, metaRows},
	}
	for _, sh := range sheets {
		if err := writeSheet(f, sh.name, sh.header, sh.rows); err != nil {
			f.Close()
			return nil, err
		}
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		f.Close()
		return nil, fmt.Errorf("delete default sheet: %w", err)
	}
	if idx, err := f.GetSheetIndex(SheetRooms); err == nil && idx >= 0 {
		f.SetActiveSheet(idx)
	}
	return f, nil
}

func writeSheet(f *excelize.File, name string, header []string, rows [][]any) error {
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("create sheet %s: %w", name, err)
	}
	if err := f.SetSheetRow(name, "A1", &header); err != nil {
		return fmt.Errorf("write %s header: %w", name, err)
	}
	for i := range rows {
		for j, v := range rows[i] {
			str, ok := v.(string)
			if !ok {
				continue
			}
			if n := utf8.RuneCountInString(str); n > excelize.TotalCellChars {
				col := fmt.Sprintf("column %d", j+1)
				if j < len(header) {
					col = header[j]
				}
				return fmt.Errorf("%w: %s row %d %s has %d characters (max %d)",
					ErrCellTooLong, name, i+2, col, n, excelize.TotalCellChars)
			}
		}
		addr, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(name, addr, &rows[i]); err != nil {
			return fmt.Errorf("write %s row %d: %w", name, i+2, err)
		}
	}
	return nil
}

// readSheet returns the data rows (header skipped); a missing sheet is empty.
func readSheet(f *excelize.File, name string) ([][]string, error) {
	idx, err := f.GetSheetIndex(name)
	if err != nil || idx < 0 {
		return nil, nil
	}
	rows, err := f.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", name, err)
	}
	if len(rows) <= 1 {
		return nil, nil
	}
	return rows[1:], nil
}

func roomToRow(r *models.Room) ([]any, error) {
	guest, err := encodeJSON(r.Guest)
	if err != nil {
		return nil, err
	}
	addOns, err := encodeJSON(r.AddOns)
	if err != nil {
		return nil, err
	}
	discounts, err := encodeJSON(r.Discounts)
	if err != nil {
		return nil, err
	}
	return []any{r.Number, string(r.Status), guest, r.CheckinTime, r.Balance, addOns, r.RenewalCount, discounts}, nil
}

func roomFromRow(row []string) (*models.Room, error) {
	num := cell(row, 0)
	if num == "" {
		return nil, nil
	}
	r := models.NewVacantRoom(num)
	if st := cell(row, 1); st != "" {
		r.Status = models.RoomStatus(st)
	}
	if g := cell(row, 2); g != "" {
		r.Guest = &models.Guest{}
		if err := decodeJSON(g, r.Guest); err != nil {
			return nil, fmt.Errorf("guest: %w", err)
		}
	}
	r.CheckinTime = cell(row, 3)
	r.Balance = parseAmount(cell(row, 4))
	if err := decodeJSON(cell(row, 5), &r.AddOns); err != nil {
		return nil, fmt.Errorf("add-ons: %w", err)
	}
	r.RenewalCount = parseInt(cell(row, 6))
	if err := decodeJSON(cell(row, 7), &r.Discounts); err != nil {
		return nil, fmt.Errorf("discounts: %w", err)
	}
	if r.AddOns == nil {
		r.AddOns = []models.AddOn{}
	}
	return r, nil
}

func logFromRow(row []string) (models.Category, models.LogEntry, bool, error) {
	c := models.Category(cell(row, 0))
	if !models.IsLogCategory(c) {
		return "", models.LogEntry{}, false, nil
	}
	if details := cell(row, 7); details != "" {
		var e models.LogEntry
		if err := decodeJSON(details, &e); err != nil {
			return "", models.LogEntry{}, false, fmt.Errorf("details: %w", err)
		}
		return c, e, true, nil
	}
	return c, models.LogEntry{
		Room:   cell(row, 1),
		Name:   cell(row, 2),
		Amount: parseAmount(cell(row, 3)),
		Time:   cell(row, 4),
		Date:   cell(row, 5),
		Note:   cell(row, 6),
	}, true, nil
}

func bookingFromRow(row []string) *models.Booking {
	id := cell(row, 0)
	if id == "" {
		return nil
	}
	b := &models.Booking{
		ID:            id,
		Room:          cell(row, 1),
		GuestName:     cell(row, 2),
		GuestMobile:   cell(row, 3),
		CheckInDate:   cell(row, 4),
		CheckOutDate:  cell(row, 5),
		Status:        models.BookingStatus(cell(row, 6)),
		TotalAmount:   parseAmount(cell(row, 7)),
		PaidAmount:    parseAmount(cell(row, 8)),
		Balance:       parseAmount(cell(row, 9)),
		PaymentMethod: cell(row, 10),
		Notes:         cell(row, 11),
		PhotoPath:     cell(row, 12),
		BookingDate:   cell(row, 13),
		Guests:        parseInt(cell(row, 14)),
		CheckedInAt:   cell(row, 15),
	}
	if b.Status == "" {
		b.Status = models.BookingConfirmed
	}
	if b.PaymentMethod == "" {
		b.PaymentMethod = "cash"
	}
	return b
}
