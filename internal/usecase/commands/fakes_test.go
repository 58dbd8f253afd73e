//go:build unit

package commands_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"cabin-booking/internal/domain/availability"
	"cabin-booking/internal/domain/booking"
	"cabin-booking/internal/domain/cabin"
	"cabin-booking/internal/infra"
	"cabin-booking/internal/pkg/clock"
	"cabin-booking/internal/pkg/config"
	"cabin-booking/internal/usecase/commands"
	"cabin-booking/internal/usecase/queries"
	"cabin-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory stand-in for the persistence layer. It mirrors the
// database's behavior at the two boundaries that matter for these tests: the
// conflict boundary (writes entering the active set lazily expire past-due
// pending holds on the colliding range, then reject overlaps with whatever
// is still active, the way the exclusion constraint does) and the
// transaction boundary (a closure returning an error rolls every write in
// that transaction back, the way Postgres aborts).
type memStore struct {
	clk      *clock.MockClock
	cabins   map[uuid.UUID]*cabin.Cabin
	bookings map[uuid.UUID]*booking.Booking
	blocks   map[uuid.UUID][]availability.Block
	events   []shared.PaymentEvent
}

func newMemStore(clk *clock.MockClock) *memStore {
	return &memStore{
		clk:      clk,
		cabins:   make(map[uuid.UUID]*cabin.Cabin),
		bookings: make(map[uuid.UUID]*booking.Booking),
		blocks:   make(map[uuid.UUID][]availability.Block),
	}
}

// UnitOfWork

func (s *memStore) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	snapshot := make(map[uuid.UUID]*booking.Booking, len(s.bookings))
	for id, b := range s.bookings {
		cp := *b
		snapshot[id] = &cp
	}
	appended := len(s.events)

	if err := fn(ctx, s); err != nil {
		s.bookings = snapshot
		s.events = s.events[:appended]
		return err
	}
	return nil
}

func (s *memStore) CommandReads() shared.CommandReads { return s }

// Tx

func (s *memStore) Bookings() shared.BookingRepository           { return s }
func (s *memStore) PaymentEvents() shared.PaymentEventRepository { return s }
func (s *memStore) Reads() shared.CommandReads                   { return s }

// BookingRepository

func (s *memStore) Insert(_ context.Context, b *booking.Booking) error {
	now := s.clk.Now()
	for _, other := range s.bookings {
		if other.CabinID() == b.CabinID() && other.IsDue(now) && other.Stay().Overlaps(b.Stay()) {
			_, _ = other.Expire(now)
		}
	}
	for _, other := range s.bookings {
		if other.CabinID() != b.CabinID() {
			continue
		}
		active := other.Status() == booking.StatusPending || other.Status() == booking.StatusPaid
		if active && other.Stay().Overlaps(b.Stay()) {
			return infra.WrapRepoErr("date range overlaps an active booking", nil, infra.KindConflict)
		}
	}
	s.bookings[b.ID()] = b
	return nil
}

func (s *memStore) Update(_ context.Context, b *booking.Booking, prev booking.Status) error {
	if _, ok := s.bookings[b.ID()]; !ok {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	// The exclusion constraint re-fires when a row re-enters the active set,
	// after stale pending holds on the range are lazily expired, the same as
	// on insert.
	nowActive := b.Status() == booking.StatusPending || b.Status() == booking.StatusPaid
	wasActive := prev == booking.StatusPending || prev == booking.StatusPaid
	if nowActive {
		if !wasActive {
			now := s.clk.Now()
			for _, other := range s.bookings {
				if other.ID() != b.ID() && other.CabinID() == b.CabinID() && other.IsDue(now) && other.Stay().Overlaps(b.Stay()) {
					_, _ = other.Expire(now)
				}
			}
		}
		for _, other := range s.bookings {
			if other.ID() == b.ID() || other.CabinID() != b.CabinID() {
				continue
			}
			active := other.Status() == booking.StatusPending || other.Status() == booking.StatusPaid
			if active && other.Stay().Overlaps(b.Stay()) {
				return infra.WrapRepoErr("date range overlaps an active booking", nil, infra.KindConflict)
			}
		}
	}
	s.bookings[b.ID()] = b
	return nil
}

func (s *memStore) FindByIDForUpdate(_ context.Context, id uuid.UUID) (*booking.Booking, error) {
	b, ok := s.bookings[id]
	if !ok {
		return nil, infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	return b, nil
}

func (s *memStore) FindByTokenForUpdate(_ context.Context, token string) (*booking.Booking, error) {
	for _, b := range s.bookings {
		if b.PaymentToken() != nil && *b.PaymentToken() == token {
			return b, nil
		}
	}
	return nil, infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
}

// PaymentEventRepository

func (s *memStore) Append(_ context.Context, ev shared.PaymentEvent) error {
	s.events = append(s.events, ev)
	return nil
}

// CommandReads

func (s *memStore) CabinByID(_ context.Context, id uuid.UUID) (*cabin.Cabin, error) {
	c, ok := s.cabins[id]
	if !ok {
		return nil, infra.WrapRepoErr("cabin not found", nil, infra.KindNotFound)
	}
	return c, nil
}

func (s *memStore) ActiveWindows(_ context.Context, cabinID uuid.UUID, stay booking.StayRange) ([]availability.BookingWindow, error) {
	var windows []availability.BookingWindow
	for _, b := range s.bookings {
		if b.CabinID() != cabinID {
			continue
		}
		active := b.Status() == booking.StatusPending || b.Status() == booking.StatusPaid
		if active && b.Stay().Overlaps(stay) {
			windows = append(windows, availability.BookingWindow{
				ID:        b.ID(),
				Stay:      b.Stay(),
				Status:    b.Status(),
				ExpiresAt: b.ExpiresAt(),
			})
		}
	}
	return windows, nil
}

func (s *memStore) BlocksOverlapping(_ context.Context, cabinID uuid.UUID, stay booking.StayRange) ([]availability.Block, error) {
	var out []availability.Block
	for _, blk := range s.blocks[cabinID] {
		if blk.Stay.Overlaps(stay) {
			out = append(out, blk)
		}
	}
	return out, nil
}

func (s *memStore) DuePendingIDs(_ context.Context, now time.Time, limit int) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for _, b := range s.bookings {
		if b.IsDue(now) {
			ids = append(ids, b.ID())
			if len(ids) == limit {
				break
			}
		}
	}
	return ids, nil
}

// queries.BookingReadStore

func (s *memStore) FindByID(_ context.Context, id uuid.UUID) (*queries.BookingView, error) {
	b, ok := s.bookings[id]
	if !ok {
		return nil, infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	cabinName := ""
	if c, ok := s.cabins[b.CabinID()]; ok {
		cabinName = c.Name()
	}
	return &queries.BookingView{
		ID:          b.ID(),
		CabinID:     b.CabinID(),
		CabinName:   cabinName,
		StartDate:   b.Stay().Start(),
		EndDate:     b.Stay().End(),
		Nights:      b.Stay().Nights(),
		PartySize:   b.PartySize(),
		JacuzziDays: b.JacuzziDays(),
		Status:      b.Status().String(),
		StatusLabel: b.Status().Label(),
		Total:       b.Total(),
		GuestName:   b.Guest().Name,
		GuestEmail:  b.Guest().Email,
		GuestPhone:  b.Guest().Phone,
		ExpiresAt:   b.ExpiresAt(),
		OrderRef:    b.OrderRef(),
		NeedsReview: b.NeedsReview(),
	}, nil
}

func (s *memStore) ListAll(_ context.Context, limit, _ int32) ([]*queries.BookingListItem, error) {
	items := make([]*queries.BookingListItem, 0)
	for _, b := range s.bookings {
		if int32(len(items)) == limit {
			break
		}
		items = append(items, &queries.BookingListItem{
			ID:      b.ID(),
			CabinID: b.CabinID(),
			Status:  b.Status().String(),
			Total:   b.Total(),
		})
	}
	return items, nil
}

func (s *memStore) WindowsOverlapping(ctx context.Context, cabinID uuid.UUID, from, to time.Time) ([]availability.BookingWindow, error) {
	stay, err := booking.NewStayRange(from, to)
	if err != nil {
		return nil, err
	}
	return s.ActiveWindows(ctx, cabinID, stay)
}

func (s *memStore) eventsOfType(eventType string) []shared.PaymentEvent {
	var out []shared.PaymentEvent
	for _, ev := range s.events {
		if ev.Type == eventType {
			out = append(out, ev)
		}
	}
	return out
}

// Outbound port mocks

type gatewayMock struct {
	mock.Mock
}

func (m *gatewayMock) CreateOrder(ctx context.Context, req commands.CreateOrderRequest) (*commands.CreateOrderResponse, error) {
	args := m.Called(ctx, req)
	if resp := args.Get(0); resp != nil {
		return resp.(*commands.CreateOrderResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *gatewayMock) OrderStatus(ctx context.Context, token string) (commands.OrderState, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(commands.OrderState), args.Error(1)
}

type notifierMock struct {
	mock.Mock
}

func (m *notifierMock) BookingPaid(ctx context.Context, ev commands.BookingPaidEvent) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

type verifierStub struct {
	valid bool
}

func (v *verifierStub) Verify(_, _ string) bool { return v.valid }

// Test harness

var (
	testStart   = time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC)
	testCabinID = uuid.MustParse("6f1a2b3c-4d5e-4f60-8a9b-0c1d2e3f4a5b")
)

type env struct {
	clk      *clock.MockClock
	store    *memStore
	gateway  *gatewayMock
	notifier *notifierMock
	verifier *verifierStub
	holds    commands.HoldCommands
	payments commands.PaymentCommands
	sweeps   commands.SweepCommands
}

func newEnv(t *testing.T, paymentMode string) *env {
	t.Helper()

	clk := clock.NewMockClock(testStart)
	store := newMemStore(clk)

	c, err := cabin.NewCabin(testCabinID, "Forest Cabin", 55000, 25000, 2, 8, 10000)
	require.NoError(t, err)
	store.cabins[testCabinID] = c

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	bookingQueries := queries.NewBookingQueries(store)

	gw := &gatewayMock{}
	nt := &notifierMock{}
	vf := &verifierStub{valid: true}

	payCfg := config.PaymentConfig{
		Mode:          paymentMode,
		Currency:      "HUF",
		WebhookSecret: "test-secret",
		Timeout:       time.Second,
	}

	return &env{
		clk:      clk,
		store:    store,
		gateway:  gw,
		notifier: nt,
		verifier: vf,
		holds:    commands.NewHoldCommands(store, bookingQueries, clk, config.BookingConfig{HoldDuration: 20 * time.Minute}),
		payments: commands.NewPaymentCommands(store, gw, vf, nt, clk, payCfg, logger),
		sweeps:   commands.NewSweepCommands(store, clk, config.SweeperConfig{BatchSize: 100}, logger),
	}
}

func (e *env) createHold(t *testing.T, start, end string) *queries.BookingView {
	t.Helper()
	view, err := e.holds.CreateHold(context.Background(), commands.CreateHoldInput{
		CabinID:   testCabinID,
		StartDate: dayOf(start),
		EndDate:   dayOf(end),
		PartySize: 2,
		Guest:     booking.Guest{Name: "Kovacs Anna", Email: "anna@example.com"},
	})
	require.NoError(t, err)
	return view
}

func (e *env) booking(t *testing.T, id uuid.UUID) *booking.Booking {
	t.Helper()
	b, ok := e.store.bookings[id]
	require.True(t, ok)
	return b
}

func dayOf(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}
