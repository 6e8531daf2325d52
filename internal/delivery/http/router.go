package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"courtfind/internal/delivery/http/controllers"
	"courtfind/internal/delivery/http/middleware"
	"courtfind/internal/domain"
)

// Controllers groups the handlers mounted by NewRouter.
type Controllers struct {
	Auth    *controllers.AuthController
	User    *controllers.UserController
	Arena   *controllers.ArenaController
	Court   *controllers.CourtController
	Booking *controllers.BookingController
	Payment *controllers.PaymentController
}

// NewRouter initializes the HTTP router with all application routes.
// limiter may be nil to disable rate limiting of the auth, password reset and booking endpoints.
func NewRouter(c Controllers, verifier domain.TokenVerifier, limiter *middleware.RateLimiter, logger *slog.Logger) *http.ServeMux {
	mux := http.NewServeMux()

	authed := middleware.RequireAuth(verifier, logger)
	role := func(next http.HandlerFunc, roles ...string) http.HandlerFunc {
		return authed(middleware.RequireRole(roles...)(next))
	}
	limited := func(next http.HandlerFunc) http.HandlerFunc {
		if limiter == nil {
			return next
		}
		return limiter.Limit(next)
	}

	// Auth
	mux.HandleFunc("POST /auth/signup", limited(c.Auth.SignUp))
	mux.HandleFunc("POST /auth/login", limited(c.Auth.Login))
	mux.HandleFunc("POST /auth/password-strength", c.Auth.PasswordStrength)
	mux.HandleFunc("POST /auth/forgot-password", limited(c.User.ForgotPassword))
	mux.HandleFunc("POST /auth/reset-password", limited(c.User.ResetPassword))

	// Users
	mux.HandleFunc("GET /users/me", authed(c.User.GetMe))
	mux.HandleFunc("PATCH /users/me", authed(c.User.UpdateMe))
	mux.HandleFunc("PUT /users/me/password", authed(c.User.ChangePassword))

	// Arenas
	mux.HandleFunc("GET /arenas/search", c.Arena.SearchArenas)
	mux.HandleFunc("POST /arenas", role(c.Arena.CreateArena, domain.RoleOwner))
	mux.HandleFunc("GET /arenas/me", role(c.Arena.ListMyArenas, domain.RoleOwner))
	mux.HandleFunc("PATCH /arenas/{arenaID}", role(c.Arena.UpdateArena, domain.RoleOwner))
	mux.HandleFunc("DELETE /arenas/{arenaID}", role(c.Arena.DeleteArena, domain.RoleOwner))
	mux.HandleFunc("GET /arenas/{arenaID}/courts", c.Arena.ListCourts)
	mux.HandleFunc("POST /arenas/{arenaID}/courts", role(c.Arena.CreateCourt, domain.RoleOwner))

	// Courts and availability
	mux.HandleFunc("GET /courts/{courtID}", c.Court.GetCourt)
	mux.HandleFunc("PATCH /courts/{courtID}", role(c.Court.UpdateCourt, domain.RoleOwner))
	mux.HandleFunc("DELETE /courts/{courtID}", role(c.Court.DeleteCourt, domain.RoleOwner))
	mux.HandleFunc("GET /courts/{courtID}/booked-times", c.Court.BookedTimes)
	mux.HandleFunc("GET /courts/{courtID}/availability", c.Court.DayAvailability)
	mux.HandleFunc("GET /courts/{courtID}/availability/durations", c.Court.DurationOptions)

	// Bookings and payments
	mux.HandleFunc("POST /bookings", limited(role(c.Booking.CreateBooking, domain.RolePlayer)))
	mux.HandleFunc("GET /bookings/me", role(c.Booking.ListMyBookings, domain.RolePlayer))
	mux.HandleFunc("POST /bookings/{bookingID}/cancel", authed(c.Booking.CancelBooking))
	mux.HandleFunc("POST /bookings/{bookingID}/checkout", role(c.Payment.StartCheckout, domain.RolePlayer))
	mux.HandleFunc("POST /bookings/{bookingID}/confirm-payment", role(c.Payment.ConfirmPayment, domain.RolePlayer))
	mux.HandleFunc("GET /owner/bookings", role(c.Booking.ListOwnerBookings, domain.RoleOwner))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}

// NewHandler wraps the router with the request-scoped middleware chain:
// request id, access log and CORS, outermost first.
func NewHandler(mux http.Handler, allowedOrigins []string, logger *slog.Logger) http.Handler {
	return middleware.RequestID(middleware.LoggingMiddleware(logger, middleware.CORS(allowedOrigins, mux)))
}
