package controllers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"courtfind/internal/delivery/http/helpers"
	"courtfind/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserFake(err error) *fakeUserService {
	return &fakeUserService{err: err, user: &domain.User{ID: "player-1", Name: "Pat", Phone: "555-0100"}}
}

func TestUserController_GetMe(t *testing.T) {
	tests := []struct {
		name       string
		principal  *domain.Principal
		fakeErr    error
		wantStatus int
		wantCode   string
	}{
		{name: "success", principal: player, wantStatus: http.StatusOK},
		{name: "no user in context", wantStatus: http.StatusUnauthorized, wantCode: helpers.ErrCodeUnauthorized},
		{name: "user deleted", principal: player, fakeErr: domain.ErrNotFound, wantStatus: http.StatusNotFound, wantCode: helpers.ErrCodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := newUserFake(tt.fakeErr)
			ctrl := NewUserController(testLogger, fake)
			rr := httptest.NewRecorder()

			ctrl.GetMe(rr, newRequest(http.MethodGet, "/users/me", "", tt.principal, nil))

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decodeError(t, rr).Code)
				return
			}
			var user domain.User
			decodeData(t, rr, &user)
			assert.Equal(t, "Pat", user.Name)
			assert.Equal(t, "player-1", fake.lastUserID)
		})
	}
}

func TestUserController_UpdateMe(t *testing.T) {
	tests := []struct {
		name       string
		principal  *domain.Principal
		body       string
		fakeErr    error
		wantStatus int
		wantCode   string
		check      func(t *testing.T, fake *fakeUserService, user domain.User)
	}{
		{
			name:       "phone only",
			principal:  player,
			body:       `{"phone":"555-0199"}`,
			wantStatus: http.StatusOK,
			check: func(t *testing.T, fake *fakeUserService, user domain.User) {
				assert.Nil(t, fake.lastName)
				require.NotNil(t, fake.lastPhone)
				assert.Equal(t, "555-0199", *fake.lastPhone)
				assert.Equal(t, "Pat", user.Name)
				assert.Equal(t, "555-0199", user.Phone)
			},
		},
		{
			name:       "name",
			principal:  player,
			body:       `{"name":"Patricia"}`,
			wantStatus: http.StatusOK,
			check: func(t *testing.T, fake *fakeUserService, user domain.User) {
				assert.Equal(t, "Patricia", user.Name)
				assert.Equal(t, "player-1", fake.lastUserID)
			},
		},
		{name: "empty body object", principal: player, body: `{}`, wantStatus: http.StatusBadRequest, wantCode: helpers.ErrCodeBadRequest},
		{name: "blank name", principal: player, body: `{"name":"  "}`, wantStatus: http.StatusBadRequest, wantCode: helpers.ErrCodeBadRequest},
		{name: "email is not editable", principal: player, body: `{"email":"x@example.com"}`, wantStatus: http.StatusBadRequest, wantCode: helpers.ErrCodeBadRequest},
		{name: "service rejects", principal: player, body: `{"phone":"1"}`, fakeErr: domain.ErrInvalidInput, wantStatus: http.StatusBadRequest, wantCode: helpers.ErrCodeBadRequest},
		{name: "no user in context", body: `{"name":"X"}`, wantStatus: http.StatusUnauthorized, wantCode: helpers.ErrCodeUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := newUserFake(tt.fakeErr)
			ctrl := NewUserController(testLogger, fake)
			rr := httptest.NewRecorder()

			ctrl.UpdateMe(rr, newRequest(http.MethodPatch, "/users/me", tt.body, tt.principal, nil))

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decodeError(t, rr).Code)
				return
			}
			var user domain.User
			decodeData(t, rr, &user)
			tt.check(t, fake, user)
		})
	}
}

func TestUserController_ChangePassword(t *testing.T) {
	tests := []struct {
		name       string
		principal  *domain.Principal
		body       string
		fakeErr    error
		wantStatus int
		wantCode   string
	}{
		{name: "success", principal: player, body: `{"current_password":"Court-Time1","new_password":"Net-Play2025"}`, wantStatus: http.StatusOK},
		{name: "missing fields", principal: player, body: `{"current_password":""}`, wantStatus: http.StatusBadRequest, wantCode: helpers.ErrCodeBadRequest},
		{name: "wrong current password", principal: player, body: `{"current_password":"x","new_password":"Net-Play2025"}`, fakeErr: domain.ErrIncorrectPassword, wantStatus: http.StatusBadRequest, wantCode: helpers.ErrCodeBadRequest},
		{name: "weak new password", principal: player, body: `{"current_password":"Court-Time1","new_password":"abc"}`, fakeErr: domain.ErrWeakPassword, wantStatus: http.StatusBadRequest, wantCode: helpers.ErrCodeBadRequest},
		{name: "no user in context", body: `{"current_password":"a","new_password":"b"}`, wantStatus: http.StatusUnauthorized, wantCode: helpers.ErrCodeUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := newUserFake(tt.fakeErr)
			ctrl := NewUserController(testLogger, fake)
			rr := httptest.NewRecorder()

			ctrl.ChangePassword(rr, newRequest(http.MethodPut, "/users/me/password", tt.body, tt.principal, nil))

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decodeError(t, rr).Code)
				return
			}
			var msg MessageResponse
			decodeData(t, rr, &msg)
			assert.Equal(t, msgPasswordChanged, msg.Message)
			assert.Equal(t, []string{"Court-Time1", "Net-Play2025"}, fake.lastChange)
		})
	}
}

func TestUserController_ForgotPassword(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		fakeErr    error
		wantStatus int
		wantCode   string
	}{
		{name: "accepted", body: `{"email":" Pat@Example.com "}`, wantStatus: http.StatusAccepted},
		{name: "invalid email", body: `{"email":"nope"}`, wantStatus: http.StatusBadRequest, wantCode: helpers.ErrCodeBadRequest},
		{name: "mail failure", body: `{"email":"pat@example.com"}`, fakeErr: errors.New("ses down"), wantStatus: http.StatusInternalServerError, wantCode: helpers.ErrCodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := newUserFake(tt.fakeErr)
			ctrl := NewUserController(testLogger, fake)
			rr := httptest.NewRecorder()

			ctrl.ForgotPassword(rr, newRequest(http.MethodPost, "/auth/forgot-password", tt.body, nil, nil))

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decodeError(t, rr).Code)
				return
			}
			var msg MessageResponse
			decodeData(t, rr, &msg)
			assert.Equal(t, msgResetRequested, msg.Message)
			assert.Equal(t, "pat@example.com", fake.lastEmail)
		})
	}
}

func TestUserController_ResetPassword(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		fakeErr    error
		wantStatus int
		wantCode   string
	}{
		{name: "success", body: `{"token":" abc123 ","password":"Net-Play2025"}`, wantStatus: http.StatusOK},
		{name: "missing token", body: `{"password":"Net-Play2025"}`, wantStatus: http.StatusBadRequest, wantCode: helpers.ErrCodeBadRequest},
		{name: "expired token", body: `{"token":"abc123","password":"Net-Play2025"}`, fakeErr: domain.ErrInvalidResetToken, wantStatus: http.StatusBadRequest, wantCode: helpers.ErrCodeBadRequest},
		{name: "weak password", body: `{"token":"abc123","password":"abc"}`, fakeErr: domain.ErrWeakPassword, wantStatus: http.StatusBadRequest, wantCode: helpers.ErrCodeBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := newUserFake(tt.fakeErr)
			ctrl := NewUserController(testLogger, fake)
			rr := httptest.NewRecorder()

			ctrl.ResetPassword(rr, newRequest(http.MethodPost, "/auth/reset-password", tt.body, nil, nil))

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decodeError(t, rr).Code)
				return
			}
			var msg MessageResponse
			decodeData(t, rr, &msg)
			assert.Equal(t, msgPasswordReset, msg.Message)
			assert.Equal(t, "abc123", fake.lastToken)
			assert.Equal(t, "Net-Play2025", fake.lastNewPass)
		})
	}
}
