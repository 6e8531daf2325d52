package controllers

import (
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	h "courtfind/internal/delivery/http/helpers"
	"courtfind/internal/domain"
)

var emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// SignUpRequest is the request body for POST /auth/signup
type SignUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Role     string `json:"role"` // optional: "player" or "owner" (defaults to "player")
}

// Validate implements Validator.
func (s SignUpRequest) Validate() []string {
	var errs []string
	email := strings.TrimSpace(strings.ToLower(s.Email))
	if email == "" {
		errs = append(errs, "email is required")
	} else if !emailRegexp.MatchString(email) {
		errs = append(errs, "invalid email format")
	}
	if s.Password == "" {
		errs = append(errs, "password is required")
	}
	if strings.TrimSpace(s.Name) == "" {
		errs = append(errs, "name is required")
	}
	role := strings.TrimSpace(strings.ToLower(s.Role))
	if role != "" && role != domain.RolePlayer && role != domain.RoleOwner {
		errs = append(errs, `role must be "player" or "owner"`)
	}
	return errs
}

// LoginRequest is the request body for POST /auth/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate implements Validator.
func (l LoginRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(l.Email) == "" {
		errs = append(errs, "email is required")
	}
	if l.Password == "" {
		errs = append(errs, "password is required")
	}
	return errs
}

// LoginResponse is the response body for POST /auth/login
type LoginResponse struct {
	Token     string       `json:"token"`
	TokenType string       `json:"token_type"`
	User      *domain.User `json:"user"`
}

// PasswordStrengthRequest is the request body for POST /auth/password-strength
type PasswordStrengthRequest struct {
	Password string `json:"password"`
}

// UserSuccessResponse is the success envelope for endpoints returning a user.
type UserSuccessResponse struct {
	Data  *domain.User `json:"data"`
	Error *h.APIError  `json:"error"`
}

// LoginSuccessResponse is the success envelope for POST /auth/login (200).
type LoginSuccessResponse struct {
	Data  LoginResponse `json:"data"`
	Error *h.APIError   `json:"error"`
}

// PasswordStrengthSuccessResponse is the success envelope for POST /auth/password-strength (200).
type PasswordStrengthSuccessResponse struct {
	Data  domain.PasswordStrength `json:"data"`
	Error *h.APIError             `json:"error"`
}

type AuthController struct {
	Logger  *slog.Logger
	Service domain.AuthService
}

func NewAuthController(logger *slog.Logger, svc domain.AuthService) *AuthController {
	return &AuthController{
		Logger:  logger,
		Service: svc,
	}
}

// SignUp godoc
// @Summary Sign up a new user
// @Description Create a player or arena owner account. Role defaults to "player". The password must score at least Moderate.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body SignUpRequest true "Sign-up data"
// @Success 201 {object} controllers.UserSuccessResponse "data contains the created user"
// @Failure 400 {object} h.APIResponse "error.code: bad_request"
// @Failure 409 {object} h.APIResponse "error.code: conflict (email already registered)"
// @Failure 500 {object} h.APIResponse "error.code: internal_error"
// @Router /auth/signup [post]
func (c *AuthController) SignUp(w http.ResponseWriter, r *http.Request) {
	var req SignUpRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	email := strings.TrimSpace(strings.ToLower(req.Email))
	role := strings.TrimSpace(strings.ToLower(req.Role))
	user, err := c.Service.SignUp(r.Context(), email, req.Password, strings.TrimSpace(req.Name), strings.TrimSpace(req.Phone), role)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, user)
}

// Login godoc
// @Summary Log in
// @Description Authenticate with email and password. Returns a JWT carrying user id, email and role.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Login credentials"
// @Success 200 {object} controllers.LoginSuccessResponse "data contains token, token_type and user"
// @Failure 400 {object} h.APIResponse "error.code: bad_request"
// @Failure 401 {object} h.APIResponse "error.code: unauthorized"
// @Failure 500 {object} h.APIResponse "error.code: internal_error"
// @Router /auth/login [post]
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	token, user, err := c.Service.Login(r.Context(), strings.TrimSpace(strings.ToLower(req.Email)), req.Password)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, LoginResponse{Token: token, TokenType: "Bearer", User: user})
}

// PasswordStrength godoc
// @Summary Score a password
// @Description Rates a candidate password as Weak, Moderate or Strong for the sign-up form.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body PasswordStrengthRequest true "Candidate password"
// @Success 200 {object} controllers.PasswordStrengthSuccessResponse
// @Failure 400 {object} h.APIResponse "error.code: bad_request"
// @Router /auth/password-strength [post]
func (c *AuthController) PasswordStrength(w http.ResponseWriter, r *http.Request) {
	var req PasswordStrengthRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, c.Service.PasswordStrength(req.Password))
}
