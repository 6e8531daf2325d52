package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	h "courtfind/internal/delivery/http/helpers"
	"courtfind/internal/delivery/http/middleware"
	"courtfind/internal/domain"
)

// UpdateUserRequest is the request body for PATCH /users/me. Both fields are optional.
type UpdateUserRequest struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
}

// Validate implements Validator.
func (u UpdateUserRequest) Validate() []string {
	var errs []string
	if u.Name == nil && u.Phone == nil {
		errs = append(errs, "nothing to update")
	}
	if u.Name != nil && strings.TrimSpace(*u.Name) == "" {
		errs = append(errs, "name cannot be empty")
	}
	return errs
}

// ChangePasswordRequest is the request body for PUT /users/me/password
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// Validate implements Validator.
func (c ChangePasswordRequest) Validate() []string {
	var errs []string
	if c.CurrentPassword == "" {
		errs = append(errs, "current_password is required")
	}
	if c.NewPassword == "" {
		errs = append(errs, "new_password is required")
	}
	return errs
}

// ForgotPasswordRequest is the request body for POST /auth/forgot-password
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// Validate implements Validator.
func (f ForgotPasswordRequest) Validate() []string {
	email := strings.TrimSpace(strings.ToLower(f.Email))
	if email == "" {
		return []string{"email is required"}
	}
	if !emailRegexp.MatchString(email) {
		return []string{"invalid email format"}
	}
	return nil
}

// ResetPasswordRequest is the request body for POST /auth/reset-password
type ResetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// Validate implements Validator.
func (rp ResetPasswordRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(rp.Token) == "" {
		errs = append(errs, "token is required")
	}
	if rp.Password == "" {
		errs = append(errs, "password is required")
	}
	return errs
}

// MessageResponse carries a human readable confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

// MessageSuccessResponse is the success envelope for endpoints answering with a message.
type MessageSuccessResponse struct {
	Data  MessageResponse `json:"data"`
	Error *h.APIError     `json:"error"`
}

// Messages returned by the password endpoints.
const (
	msgResetRequested  = "If that email is registered, a reset link is on its way."
	msgPasswordReset   = "Password reset successful."
	msgPasswordChanged = "Password changed successfully."
)

// UserController handles the profile and password endpoints.
type UserController struct {
	Logger  *slog.Logger
	Service domain.UserService
}

// NewUserController creates a UserController with the given logger and service.
func NewUserController(logger *slog.Logger, svc domain.UserService) *UserController {
	return &UserController{
		Logger:  logger,
		Service: svc,
	}
}

// GetMe godoc
// @Summary Current user
// @Description Returns the profile of the authenticated user.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.UserSuccessResponse
// @Failure 401 {object} h.APIResponse "error.code: unauthorized"
// @Failure 404 {object} h.APIResponse "error.code: not_found"
// @Failure 500 {object} h.APIResponse "error.code: internal_error"
// @Router /users/me [get]
func (c *UserController) GetMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	user, err := c.Service.GetByID(r.Context(), userID)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, user)
}

// UpdateMe godoc
// @Summary Update current user
// @Description Update the authenticated user's name and/or phone. Email and role cannot be changed here.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body UpdateUserRequest true "Fields to update (name and/or phone)"
// @Success 200 {object} controllers.UserSuccessResponse "data contains the updated user"
// @Failure 400 {object} h.APIResponse "error.code: bad_request"
// @Failure 401 {object} h.APIResponse "error.code: unauthorized"
// @Failure 404 {object} h.APIResponse "error.code: not_found"
// @Failure 500 {object} h.APIResponse "error.code: internal_error"
// @Router /users/me [patch]
func (c *UserController) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req UpdateUserRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	user, err := c.Service.UpdateProfile(r.Context(), userID, req.Name, req.Phone)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, user)
}

// ChangePassword godoc
// @Summary Change password
// @Description Replace the authenticated user's password. The current password must match and the new one must score at least Moderate.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body ChangePasswordRequest true "Current and new password"
// @Success 200 {object} controllers.MessageSuccessResponse
// @Failure 400 {object} h.APIResponse "error.code: bad_request (wrong current password or weak new password)"
// @Failure 401 {object} h.APIResponse "error.code: unauthorized"
// @Failure 500 {object} h.APIResponse "error.code: internal_error"
// @Router /users/me/password [put]
func (c *UserController) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req ChangePasswordRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	if err := c.Service.ChangePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, MessageResponse{Message: msgPasswordChanged})
}

// ForgotPassword godoc
// @Summary Request a password reset
// @Description Emails a single-use reset link when the address is registered. The answer is the same for unknown addresses.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body ForgotPasswordRequest true "Account email"
// @Success 202 {object} controllers.MessageSuccessResponse
// @Failure 400 {object} h.APIResponse "error.code: bad_request"
// @Failure 429 {object} h.APIResponse "error.code: too_many_requests"
// @Failure 500 {object} h.APIResponse "error.code: internal_error"
// @Router /auth/forgot-password [post]
func (c *UserController) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req ForgotPasswordRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	if err := c.Service.RequestPasswordReset(r.Context(), strings.TrimSpace(strings.ToLower(req.Email))); err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusAccepted, MessageResponse{Message: msgResetRequested})
}

// ResetPassword godoc
// @Summary Reset password
// @Description Sets a new password using the token from the reset link. The token works once and expires.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body ResetPasswordRequest true "Reset token and new password"
// @Success 200 {object} controllers.MessageSuccessResponse
// @Failure 400 {object} h.APIResponse "error.code: bad_request (invalid or expired token, weak password)"
// @Failure 429 {object} h.APIResponse "error.code: too_many_requests"
// @Failure 500 {object} h.APIResponse "error.code: internal_error"
// @Router /auth/reset-password [post]
func (c *UserController) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	if err := c.Service.ResetPassword(r.Context(), strings.TrimSpace(req.Token), req.Password); err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, MessageResponse{Message: msgPasswordReset})
}
