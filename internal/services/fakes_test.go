package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"courtfind/internal/domain"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

const timeout = 2 * time.Second

// fakeUserRepo is an in-memory UserRepository for tests.
type fakeUserRepo struct {
	byID   map[string]*domain.User
	nextID int
	err    error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: make(map[string]*domain.User), nextID: 1}
}

func (f *fakeUserRepo) Create(ctx context.Context, u *domain.User) error {
	if f.err != nil {
		return f.err
	}
	for _, existing := range f.byID {
		if existing.Email == u.Email {
			return domain.ErrDuplicateEmail
		}
	}
	u.ID = fmt.Sprintf("user-%d", f.nextID)
	f.nextID++
	f.byID[u.ID] = u
	return nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUserRepo) Update(ctx context.Context, u *domain.User) error {
	if f.err != nil {
		return f.err
	}
	existing, ok := f.byID[u.ID]
	if !ok {
		return domain.ErrNotFound
	}
	existing.Name, existing.Phone, existing.UpdatedAt = u.Name, u.Phone, u.UpdatedAt
	return nil
}

func (f *fakeUserRepo) UpdatePassword(ctx context.Context, id, hash, salt string) error {
	if f.err != nil {
		return f.err
	}
	u, ok := f.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.PasswordHash, u.Salt = hash, salt
	return nil
}

func (f *fakeUserRepo) add(id, email, name, role string) *domain.User {
	u := &domain.User{ID: id, Email: email, Name: name, Role: role}
	f.byID[id] = u
	return u
}

// fakeResetRepo is an in-memory PasswordResetRepository for tests.
type fakeResetRepo struct {
	tokens map[string]fakeResetToken
	now    func() time.Time
}

type fakeResetToken struct {
	userID    string
	expiresAt time.Time
}

func newFakeResetRepo() *fakeResetRepo {
	return &fakeResetRepo{tokens: make(map[string]fakeResetToken), now: time.Now}
}

func (f *fakeResetRepo) Create(ctx context.Context, userID, tokenHash string, expiresAt time.Time) error {
	f.tokens[tokenHash] = fakeResetToken{userID: userID, expiresAt: expiresAt}
	return nil
}

func (f *fakeResetRepo) Consume(ctx context.Context, tokenHash string) (string, error) {
	t, ok := f.tokens[tokenHash]
	if !ok || !t.expiresAt.After(f.now()) {
		return "", domain.ErrNotFound
	}
	delete(f.tokens, tokenHash)
	return t.userID, nil
}

// fakeArenaRepo is an in-memory ArenaRepository for tests.
type fakeArenaRepo struct {
	byID   map[string]*domain.Arena
	nextID int
}

func newFakeArenaRepo() *fakeArenaRepo {
	return &fakeArenaRepo{byID: make(map[string]*domain.Arena), nextID: 1}
}

func (f *fakeArenaRepo) Create(ctx context.Context, a *domain.Arena) error {
	a.ID = fmt.Sprintf("arena-%d", f.nextID)
	f.nextID++
	f.byID[a.ID] = a
	return nil
}

func (f *fakeArenaRepo) GetByID(ctx context.Context, id string) (*domain.Arena, error) {
	if a, ok := f.byID[id]; ok {
		return a, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeArenaRepo) ListByOwnerID(ctx context.Context, ownerID string) ([]*domain.Arena, error) {
	var out []*domain.Arena
	for _, a := range f.byID {
		if a.OwnerID == ownerID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeArenaRepo) Search(ctx context.Context, filter domain.ArenaSearch, params domain.PaginationParams) ([]*domain.Arena, int, error) {
	var out []*domain.Arena
	for _, a := range f.byID {
		out = append(out, a)
	}
	return out, len(out), nil
}

func (f *fakeArenaRepo) Update(ctx context.Context, id string, name, location, description *string) (*domain.Arena, error) {
	a, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if name != nil {
		a.Name = *name
	}
	if location != nil {
		a.Location = *location
	}
	if description != nil {
		a.Description = *description
	}
	return a, nil
}

func (f *fakeArenaRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

// fakeCourtRepo is an in-memory CourtRepository for tests.
type fakeCourtRepo struct {
	byID   map[string]*domain.Court
	nextID int
}

func newFakeCourtRepo() *fakeCourtRepo {
	return &fakeCourtRepo{byID: make(map[string]*domain.Court), nextID: 1}
}

func (f *fakeCourtRepo) Create(ctx context.Context, c *domain.Court) error {
	c.ID = fmt.Sprintf("court-%d", f.nextID)
	f.nextID++
	f.byID[c.ID] = c
	return nil
}

func (f *fakeCourtRepo) GetByID(ctx context.Context, id string) (*domain.Court, error) {
	if c, ok := f.byID[id]; ok {
		return c, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeCourtRepo) ListByArenaID(ctx context.Context, arenaID string) ([]*domain.Court, error) {
	var out []*domain.Court
	for _, c := range f.byID {
		if c.ArenaID == arenaID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeCourtRepo) Update(ctx context.Context, id string, upd domain.CourtUpdate) (*domain.Court, error) {
	c, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if upd.Name != nil {
		c.Name = *upd.Name
	}
	if upd.HourlyRate != nil {
		c.HourlyRate = *upd.HourlyRate
	}
	if upd.Availability != nil {
		c.Availability = upd.Availability
	}
	return c, nil
}

func (f *fakeCourtRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

// fakeBookingRepo is an in-memory BookingRepository for tests. It enforces the
// no-overlap rule the database exclusion constraint provides.
type fakeBookingRepo struct {
	mu        sync.Mutex
	byID      map[string]*domain.Booking
	nextID    int
	createErr error

	// beforeCancel runs inside Cancel before the row is checked, standing in for a concurrent writer.
	beforeCancel func(b *domain.Booking)
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{byID: make(map[string]*domain.Booking), nextID: 1}
}

func (f *fakeBookingRepo) Create(ctx context.Context, b *domain.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	for _, other := range f.byID {
		if other.CourtID == b.CourtID && other.Date.Equal(b.Date) && other.Status == domain.BookingStatusBooked &&
			other.StartHour < b.EndHour && b.StartHour < other.EndHour {
			return domain.ErrSlotUnavailable
		}
	}
	b.ID = fmt.Sprintf("booking-%d", f.nextID)
	f.nextID++
	f.byID[b.ID] = b
	return nil
}

func (f *fakeBookingRepo) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b, ok := f.byID[id]; ok {
		cp := *b
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeBookingRepo) ListActiveByCourtAndDate(ctx context.Context, courtID string, date time.Time) ([]*domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Booking
	for _, b := range f.byID {
		if b.CourtID == courtID && b.Date.Equal(date) && b.Status == domain.BookingStatusBooked {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartHour < out[j].StartHour })
	return out, nil
}

func (f *fakeBookingRepo) list(match func(*domain.Booking) bool) ([]*domain.Booking, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Booking
	for _, b := range f.byID {
		if match(b) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, len(out), nil
}

func (f *fakeBookingRepo) ListByPlayerID(ctx context.Context, playerID string, params domain.PaginationParams) ([]*domain.Booking, int, error) {
	return f.list(func(b *domain.Booking) bool { return b.PlayerID == playerID })
}

func (f *fakeBookingRepo) ListByOwnerID(ctx context.Context, ownerID, arenaID string, params domain.PaginationParams) ([]*domain.Booking, int, error) {
	return f.list(func(b *domain.Booking) bool {
		return b.OwnerID == ownerID && (arenaID == "" || b.ArenaID == arenaID)
	})
}

func (f *fakeBookingRepo) Cancel(ctx context.Context, id, reason string) (*domain.Booking, error) {
	f.mu.Lock()
	b, ok := f.byID[id]
	var err error
	switch {
	case !ok:
		err = domain.ErrNotFound
	default:
		if f.beforeCancel != nil {
			f.beforeCancel(b)
		}
		switch {
		case b.Status == domain.BookingStatusCancelled:
			err = domain.ErrBookingCancelled
		case b.PaymentStatus == domain.PaymentStatusPaid:
			err = domain.ErrAlreadyPaid
		default:
			b.Status = domain.BookingStatusCancelled
			b.CancelReason = reason
		}
	}
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return f.GetByID(ctx, id)
}

func (f *fakeBookingRepo) MarkPaid(ctx context.Context, id string) (*domain.Booking, error) {
	f.mu.Lock()
	b, ok := f.byID[id]
	var err error
	switch {
	case !ok:
		err = domain.ErrNotFound
	case b.Status == domain.BookingStatusCancelled:
		err = domain.ErrBookingCancelled
	default:
		b.PaymentStatus = domain.PaymentStatusPaid
	}
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return f.GetByID(ctx, id)
}

func (f *fakeBookingRepo) add(b *domain.Booking) *domain.Booking {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b.ID == "" {
		b.ID = fmt.Sprintf("booking-%d", f.nextID)
		f.nextID++
	}
	f.byID[b.ID] = b
	return b
}

// fakePaymentRepo is an in-memory PaymentRepository for tests.
type fakePaymentRepo struct {
	byBooking map[string]*domain.Payment
	createErr error
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{byBooking: make(map[string]*domain.Payment)}
}

func (f *fakePaymentRepo) Create(ctx context.Context, p *domain.Payment) error {
	if err := f.createErr; err != nil {
		f.createErr = nil
		return err
	}
	if existing, ok := f.byBooking[p.BookingID]; ok {
		*p = *existing
		return nil
	}
	p.ID = "pay-" + p.BookingID
	cp := *p
	f.byBooking[p.BookingID] = &cp
	return nil
}

func (f *fakePaymentRepo) GetByBookingID(ctx context.Context, bookingID string) (*domain.Payment, error) {
	if p, ok := f.byBooking[bookingID]; ok {
		return p, nil
	}
	return nil, domain.ErrNotFound
}

// fakeEmailService records sent emails.
type fakeEmailService struct {
	welcome      []*domain.WelcomeEmailData
	confirmation []*domain.BookingConfirmationEmailData
	resets       []*domain.PasswordResetEmailData
	err          error
}

func newFakeEmailService() *fakeEmailService { return &fakeEmailService{} }

func (f *fakeEmailService) SendWelcome(ctx context.Context, data *domain.WelcomeEmailData) error {
	f.welcome = append(f.welcome, data)
	return f.err
}

func (f *fakeEmailService) SendBookingConfirmation(ctx context.Context, data *domain.BookingConfirmationEmailData) error {
	f.confirmation = append(f.confirmation, data)
	return f.err
}

// fakeHasher hashes by concatenation.
type fakeHasher struct{}

func (fakeHasher) GenerateSalt() (string, error) { return "salt", nil }
func (fakeHasher) Hash(salt, password string) (string, error) {
	return "hashed:" + salt + password, nil
}
func (fakeHasher) Compare(hash, salt, password string) error {
	if hash != "hashed:"+salt+password {
		return errors.New("mismatch")
	}
	return nil
}

// fakeTokenIssuer returns a readable token.
type fakeTokenIssuer struct{}

func (fakeTokenIssuer) Issue(userID, email, role string, expiry time.Duration) (string, error) {
	return "token-" + userID + "-" + role, nil
}

// fakeGateway is a PaymentGateway with a settable paid state.
type fakeGateway struct {
	paid      bool
	isPaidErr error
	requests  []domain.CheckoutRequest
}

func (f *fakeGateway) CreateCheckout(ctx context.Context, req domain.CheckoutRequest) (*domain.CheckoutSession, error) {
	f.requests = append(f.requests, req)
	return &domain.CheckoutSession{ID: "cs_" + req.BookingID, URL: "https://pay.example.com/" + req.BookingID}, nil
}

func (f *fakeGateway) IsPaid(ctx context.Context, sessionID, bookingID string) (bool, error) {
	if f.isPaidErr != nil {
		return false, f.isPaidErr
	}
	return f.paid, nil
}

func (f *fakeEmailService) SendPasswordReset(ctx context.Context, data *domain.PasswordResetEmailData) error {
	f.resets = append(f.resets, data)
	return f.err
}
