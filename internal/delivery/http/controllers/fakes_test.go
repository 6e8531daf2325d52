package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"courtfind/internal/availability"
	"courtfind/internal/delivery/http/helpers"
	"courtfind/internal/delivery/http/middleware"
	"courtfind/internal/domain"

	"github.com/stretchr/testify/require"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

// newRequest builds a request with optional JSON body, path values and caller.
func newRequest(method, target, body string, principal *domain.Principal, pathValues map[string]string) *http.Request {
	var rdr io.Reader
	if body != "" {
		rdr = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, "http://test"+target, rdr)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range pathValues {
		req.SetPathValue(k, v)
	}
	if principal != nil {
		req = req.WithContext(middleware.SetPrincipal(req.Context(), principal))
	}
	return req
}

// decodeData decodes the envelope and unmarshals its data into dest.
func decodeData(t *testing.T, rr *httptest.ResponseRecorder, dest any) {
	t.Helper()
	var envelope struct {
		Data  json.RawMessage   `json:"data"`
		Error *helpers.APIError `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
	require.Nil(t, envelope.Error)
	require.NoError(t, json.Unmarshal(envelope.Data, dest))
}

// decodeError decodes the envelope and returns its error object.
func decodeError(t *testing.T, rr *httptest.ResponseRecorder) *helpers.APIError {
	t.Helper()
	var envelope helpers.APIResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
	require.NotNil(t, envelope.Error)
	return envelope.Error
}

var (
	player = &domain.Principal{UserID: "player-1", Email: "p@example.com", Role: domain.RolePlayer}
	owner  = &domain.Principal{UserID: "owner-1", Email: "o@example.com", Role: domain.RoleOwner}
)

// fakeAuthService implements domain.AuthService for handler tests.
type fakeAuthService struct {
	err        error
	user       *domain.User
	token      string
	lastSignUp []string
	lastLogin  []string
}

func (f *fakeAuthService) SignUp(_ context.Context, email, password, name, phone, role string) (*domain.User, error) {
	f.lastSignUp = []string{email, password, name, phone, role}
	if f.err != nil {
		return nil, f.err
	}
	if role == "" {
		role = domain.RolePlayer
	}
	return &domain.User{ID: "user-new", Email: email, Name: name, Phone: phone, Role: role}, nil
}

func (f *fakeAuthService) Login(_ context.Context, email, password string) (string, *domain.User, error) {
	f.lastLogin = []string{email, password}
	if f.err != nil {
		return "", nil, f.err
	}
	return f.token, f.user, nil
}

func (f *fakeAuthService) PasswordStrength(password string) domain.PasswordStrength {
	if len(password) >= 8 {
		return domain.PasswordStrength{Score: 5, Label: domain.StrengthStrong, Variant: "success", Percent: 100}
	}
	return domain.PasswordStrength{Score: 1, Label: domain.StrengthWeak, Variant: "danger", Percent: 33}
}

// fakeUserService implements domain.UserService for handler tests.
type fakeUserService struct {
	err         error
	user        *domain.User
	lastUserID  string
	lastName    *string
	lastPhone   *string
	lastChange  []string
	lastEmail   string
	lastToken   string
	lastNewPass string
}

func (f *fakeUserService) GetByID(_ context.Context, id string) (*domain.User, error) {
	f.lastUserID = id
	if f.err != nil {
		return nil, f.err
	}
	return f.user, nil
}

func (f *fakeUserService) UpdateProfile(_ context.Context, id string, name, phone *string) (*domain.User, error) {
	f.lastUserID, f.lastName, f.lastPhone = id, name, phone
	if f.err != nil {
		return nil, f.err
	}
	u := *f.user
	if name != nil {
		u.Name = *name
	}
	if phone != nil {
		u.Phone = *phone
	}
	return &u, nil
}

func (f *fakeUserService) ChangePassword(_ context.Context, id, currentPassword, newPassword string) error {
	f.lastUserID, f.lastChange = id, []string{currentPassword, newPassword}
	return f.err
}

func (f *fakeUserService) RequestPasswordReset(_ context.Context, email string) error {
	f.lastEmail = email
	return f.err
}

func (f *fakeUserService) ResetPassword(_ context.Context, token, newPassword string) error {
	f.lastToken, f.lastNewPass = token, newPassword
	return f.err
}

// fakeArenaService implements domain.ArenaService for handler tests.
type fakeArenaService struct {
	err          error
	arenas       []*domain.Arena
	court        *domain.Court
	courts       []*domain.Court
	total        int
	lastOwnerID  string
	lastArenaID  string
	lastCourtID  string
	lastFilter   domain.ArenaSearch
	lastParams   domain.PaginationParams
	lastArena    *domain.Arena
	lastCourt    *domain.Court
	lastName     *string
	lastCourtUpd domain.CourtUpdate
	deleteCalled bool
}

func (f *fakeArenaService) CreateArena(_ context.Context, arena *domain.Arena) error {
	f.lastArena = arena
	if f.err != nil {
		return f.err
	}
	arena.ID = "arena-new"
	return nil
}

func (f *fakeArenaService) ListMyArenas(_ context.Context, ownerID string) ([]*domain.Arena, error) {
	f.lastOwnerID = ownerID
	return f.arenas, f.err
}

func (f *fakeArenaService) UpdateArena(_ context.Context, arenaID, ownerID string, name, location, description *string) (*domain.Arena, error) {
	f.lastArenaID, f.lastOwnerID, f.lastName = arenaID, ownerID, name
	if f.err != nil {
		return nil, f.err
	}
	a := &domain.Arena{ID: arenaID, OwnerID: ownerID, Name: "Old"}
	if name != nil {
		a.Name = *name
	}
	return a, nil
}

func (f *fakeArenaService) DeleteArena(_ context.Context, arenaID, ownerID string) error {
	f.lastArenaID, f.lastOwnerID = arenaID, ownerID
	f.deleteCalled = true
	return f.err
}

func (f *fakeArenaService) SearchArenas(_ context.Context, filter domain.ArenaSearch, params domain.PaginationParams) ([]*domain.Arena, int, error) {
	f.lastFilter, f.lastParams = filter, params
	if f.err != nil {
		return nil, 0, f.err
	}
	return f.arenas, f.total, nil
}

func (f *fakeArenaService) CreateCourt(_ context.Context, ownerID string, court *domain.Court) error {
	f.lastOwnerID, f.lastCourt = ownerID, court
	if f.err != nil {
		return f.err
	}
	court.ID = "court-new"
	court.OwnerID = ownerID
	return nil
}

func (f *fakeArenaService) ListCourtsByArena(_ context.Context, arenaID string) ([]*domain.Court, error) {
	f.lastArenaID = arenaID
	return f.courts, f.err
}

func (f *fakeArenaService) GetCourt(_ context.Context, courtID string) (*domain.Court, error) {
	f.lastCourtID = courtID
	if f.err != nil {
		return nil, f.err
	}
	return f.court, nil
}

func (f *fakeArenaService) UpdateCourt(_ context.Context, courtID, ownerID string, upd domain.CourtUpdate) (*domain.Court, error) {
	f.lastCourtID, f.lastOwnerID, f.lastCourtUpd = courtID, ownerID, upd
	if f.err != nil {
		return nil, f.err
	}
	return f.court, nil
}

func (f *fakeArenaService) DeleteCourt(_ context.Context, courtID, ownerID string) error {
	f.lastCourtID, f.lastOwnerID = courtID, ownerID
	f.deleteCalled = true
	return f.err
}

type createBookingCall struct {
	playerID string
	courtID  string
	date     time.Time
	start    availability.Hour
	duration int
}

// fakeBookingService implements domain.BookingService for handler tests.
type fakeBookingService struct {
	err         error
	booked      []availability.BookedInterval
	day         *domain.CourtDayAvailability
	options     *domain.DurationOptions
	bookings    []*domain.Booking
	total       int
	lastCourtID string
	lastDate    time.Time
	lastStart   availability.Hour
	lastCreate  *createBookingCall
	lastParams  domain.PaginationParams
	lastUserID  string
	lastArenaID string
	lastBooking string
	lastReason  string
}

func (f *fakeBookingService) GetBookedIntervals(_ context.Context, courtID string, date time.Time) ([]availability.BookedInterval, error) {
	f.lastCourtID, f.lastDate = courtID, date
	return f.booked, f.err
}

func (f *fakeBookingService) GetDayAvailability(_ context.Context, courtID string, date time.Time) (*domain.CourtDayAvailability, error) {
	f.lastCourtID, f.lastDate = courtID, date
	return f.day, f.err
}

func (f *fakeBookingService) GetDurationOptions(_ context.Context, courtID string, date time.Time, start availability.Hour) (*domain.DurationOptions, error) {
	f.lastCourtID, f.lastDate, f.lastStart = courtID, date, start
	return f.options, f.err
}

func (f *fakeBookingService) CreateBooking(_ context.Context, playerID, courtID string, date time.Time, start availability.Hour, duration int) (*domain.Booking, error) {
	f.lastCreate = &createBookingCall{playerID, courtID, date, start, duration}
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Booking{
		ID: "booking-new", CourtID: courtID, PlayerID: playerID, Date: date,
		StartHour: start, EndHour: start + availability.Hour(duration),
		Status: domain.BookingStatusBooked, PaymentStatus: domain.PaymentStatusPending,
	}, nil
}

func (f *fakeBookingService) ListMyBookings(_ context.Context, playerID string, params domain.PaginationParams) ([]*domain.Booking, int, error) {
	f.lastUserID, f.lastParams = playerID, params
	return f.bookings, f.total, f.err
}

func (f *fakeBookingService) ListOwnerBookings(_ context.Context, ownerID, arenaID string, params domain.PaginationParams) ([]*domain.Booking, int, error) {
	f.lastUserID, f.lastArenaID, f.lastParams = ownerID, arenaID, params
	return f.bookings, f.total, f.err
}

func (f *fakeBookingService) CancelBooking(_ context.Context, bookingID, callerID, reason string) (*domain.Booking, error) {
	f.lastBooking, f.lastUserID, f.lastReason = bookingID, callerID, reason
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Booking{ID: bookingID, Status: domain.BookingStatusCancelled, PaymentStatus: domain.PaymentStatusPending, CancelReason: reason}, nil
}

// fakePaymentService implements domain.PaymentService for handler tests.
type fakePaymentService struct {
	err         error
	session     *domain.CheckoutSession
	lastBooking string
	lastSession string
	lastPlayer  string
}

func (f *fakePaymentService) StartCheckout(_ context.Context, bookingID, playerID string) (*domain.CheckoutSession, error) {
	f.lastBooking, f.lastPlayer = bookingID, playerID
	if f.err != nil {
		return nil, f.err
	}
	return f.session, nil
}

func (f *fakePaymentService) ConfirmPayment(_ context.Context, bookingID, sessionID, playerID string) (*domain.Booking, error) {
	f.lastBooking, f.lastSession, f.lastPlayer = bookingID, sessionID, playerID
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Booking{ID: bookingID, Status: domain.BookingStatusBooked, PaymentStatus: domain.PaymentStatusPaid}, nil
}
