// services/ledger_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"lodge-desk/models"
)

const (
	DateLayout      = "2006-01-02"
	ClockLayout     = "15:04"
	CheckinLayout   = "2006-01-02 15:04"
	RentCheckLayout = "2006-01-02 15:04:05"
)

const (
	MethodCash    = "cash"
	MethodOnline  = "online"
	MethodBalance = "balance" // pay later
)

// SnapshotStore is the persistence collaborator (spreadsheet, SQL, redis).
type SnapshotStore interface {
	Load(ctx context.Context) (*models.Snapshot, error)
	Save(ctx context.Context, snap *models.Snapshot) error
}

// PhotoStore stores guest ID photos and returns a public URL.
type PhotoStore interface {
	Store(ctx context.Context, data []byte, name string) (string, error)
}

// Outcome is what every ledger operation reports back on success.
// Saved=false means the in-memory change stands but persistence failed.
type Outcome struct {
	Message         string          `json:"message"`
	Saved           bool            `json:"saved"`
	Room            *models.Room    `json:"room,omitempty"`
	Booking         *models.Booking `json:"booking,omitempty"`
	Overpayment     int64           `json:"overpayment,omitempty"`
	ForfeitedCredit int64           `json:"forfeited_credit,omitempty"`
}

// LedgerService owns rooms, logs, totals and bookings. Every operation runs
// validate -> mutate -> save under one mutex.
type LedgerService struct {
	mu     sync.Mutex
	state  *models.Snapshot
	store  SnapshotStore
	photos PhotoStore
	logger *zap.Logger
	now    func() time.Time
	newID  func() string

	// set when the store holds data that could not be read; saving would
	// overwrite it with whatever is in memory
	suspended error
}

type Option func(*LedgerService)

func WithClock(now func() time.Time) Option {
	return func(s *LedgerService) { s.now = now }
}

func WithIDGenerator(fn func() string) Option {
	return func(s *LedgerService) { s.newID = fn }
}

func WithPhotoStore(p PhotoStore) Option {
	return func(s *LedgerService) { s.photos = p }
}

// WithSavesSuspended keeps the ledger running in memory but never writes to
// the store. Used when Bootstrap could not read existing data.
func WithSavesSuspended(reason error) Option {
	return func(s *LedgerService) { s.suspended = reason }
}

func NewLedgerService(snap *models.Snapshot, store SnapshotStore, logger *zap.Logger, opts ...Option) *LedgerService {
	if snap == nil {
		snap = models.NewSnapshot()
	}
	snap.Normalize()
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &LedgerService{
		state:  snap,
		store:  store,
		logger: logger,
		now:    time.Now,
		newID:  func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ErrSnapshotUnreadable marks a store that exists but could not be loaded.
var ErrSnapshotUnreadable = errors.New("snapshot store unreadable")

// Bootstrap loads the snapshot from the store. Stores report a missing or
// empty backend as an empty snapshot, so any load error means existing data
// could not be read: Bootstrap then returns the defaults together with an
// error wrapping ErrSnapshotUnreadable, and the caller must not save over the
// store. Either way every room in defaultRooms exists afterwards.
func Bootstrap(ctx context.Context, store SnapshotStore, defaultRooms []string, logger *zap.Logger) (*models.Snapshot, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	var (
		snap    *models.Snapshot
		loadErr error
	)
	if store != nil {
		loaded, err := store.Load(ctx)
		if err != nil {
			loadErr = fmt.Errorf("%w: %v", ErrSnapshotUnreadable, err)
			logger.Error("load snapshot failed, running on default data with saves suspended", zap.Error(err))
		} else {
			snap = loaded
		}
	}
	if snap == nil {
		snap = models.NewSnapshot()
	}
	snap.Normalize()
	snap.EnsureRooms(defaultRooms)
	logger.Info("ledger initialised",
		zap.Int("rooms", len(snap.Rooms)),
		zap.Int("bookings", len(snap.Bookings)))
	return snap, loadErr
}

// ---------------------------
// helpers (callers hold s.mu)
// ---------------------------

func (s *LedgerService) stamp() (date, clock string) {
	t := s.now()
	return t.Format(DateLayout), t.Format(ClockLayout)
}

func (s *LedgerService) room(number string) (*models.Room, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return nil, invalid("room", "room is required")
	}
	r, ok := s.state.Rooms[number]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRoomNotFound, number)
	}
	return r, nil
}

func (s *LedgerService) occupiedRoom(number string) (*models.Room, error) {
	r, err := s.room(number)
	if err != nil {
		return nil, err
	}
	if !r.IsOccupied() {
		return nil, invalid("room", "room %s is not occupied", r.Number)
	}
	return r, nil
}

func (s *LedgerService) appendLog(c models.Category, e models.LogEntry) {
	if e.Date == "" {
		e.Date, e.Time = s.stamp()
	}
	s.state.Logs.Append(c, e)
}

// persist hands a copy of the snapshot to the store. Failures are logged and
// reported through the returned flag, never rolled back.
func (s *LedgerService) persist(ctx context.Context, op string) bool {
	if s.store == nil {
		return false
	}
	if s.suspended != nil {
		s.logger.Error("save skipped, store holds data that could not be loaded",
			zap.String("op", op), zap.Error(s.suspended))
		return false
	}
	if err := s.store.Save(ctx, s.state.Clone()); err != nil {
		s.logger.Error("save snapshot failed, in-memory state kept",
			zap.String("op", op), zap.Error(err))
		return false
	}
	return true
}

func paymentMethodValid(method string, allowBalance bool) bool {
	switch method {
	case MethodCash, MethodOnline:
		return true
	case MethodBalance:
		return allowBalance
	}
	return false
}

// ---------------------------
// read side
// ---------------------------

// Snapshot returns a deep copy of the full ledger state.
func (s *LedgerService) Snapshot() *models.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

func (s *LedgerService) Room(number string) (*models.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, err := s.room(number)
	if err != nil {
		return nil, err
	}
	return r.Clone(), nil
}

func (s *LedgerService) Totals() models.Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(models.Totals, len(s.state.Totals))
	for k, v := range s.state.Totals {
		out[k] = v
	}
	return out
}
