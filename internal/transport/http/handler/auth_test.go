package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/scrybe/scrybe-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mock ---

type mockAuthSvc struct{ mock.Mock }

func (m *mockAuthSvc) Signup(ctx context.Context, req domain.SignupRequest) error {
	return m.Called(ctx, req).Error(0)
}
func (m *mockAuthSvc) VerifyOTP(ctx context.Context, req domain.OTPVerifyRequest) error {
	return m.Called(ctx, req).Error(0)
}
func (m *mockAuthSvc) Login(ctx context.Context, username, password string) (*domain.TokenResponse, error) {
	args := m.Called(ctx, username, password)
	if tok, _ := args.Get(0).(*domain.TokenResponse); tok != nil {
		return tok, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockAuthSvc) LoginWithGoogle(ctx context.Context, idToken string) (*domain.TokenResponse, error) {
	args := m.Called(ctx, idToken)
	if tok, _ := args.Get(0).(*domain.TokenResponse); tok != nil {
		return tok, args.Error(1)
	}
	return nil, args.Error(1)
}

// --- Signup ---

func TestSignup_InvalidBody(t *testing.T) {
	h := NewAuthHandler(&mockAuthSvc{})
	r := httptest.NewRequest(http.MethodPost, "/api/signup", strings.NewReader("not-json"))
	rr := httptest.NewRecorder()
	h.Signup(rr, r)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSignup_PasswordMismatch(t *testing.T) {
	svc := &mockAuthSvc{}
	h := NewAuthHandler(svc)
	body, _ := json.Marshal(domain.SignupRequest{
		Username: "alice", Email: "alice@example.com", Password: "one", Password2: "two",
	})
	r := httptest.NewRequest(http.MethodPost, "/api/signup", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	h.Signup(rr, r)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	svc.AssertNotCalled(t, "Signup", mock.Anything, mock.Anything)
}

func TestSignup_Conflict(t *testing.T) {
	svc := &mockAuthSvc{}
	svc.On("Signup", mock.Anything, mock.Anything).Return(domain.ErrConflict)
	h := NewAuthHandler(svc)
	body, _ := json.Marshal(domain.SignupRequest{
		Username: "alice", Email: "alice@example.com", Password: "pw", Password2: "pw",
	})
	r := httptest.NewRequest(http.MethodPost, "/api/signup", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	h.Signup(rr, r)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSignup_HappyPath(t *testing.T) {
	svc := &mockAuthSvc{}
	svc.On("Signup", mock.Anything, mock.Anything).Return(nil)
	h := NewAuthHandler(svc)
	body, _ := json.Marshal(domain.SignupRequest{
		Username: "alice", Email: "alice@example.com", Password: "pw", Password2: "pw",
	})
	r := httptest.NewRequest(http.MethodPost, "/api/signup", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	h.Signup(rr, r)

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp MessageEnvelope
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "Signup successful. OTP sent to email.", resp.Message)
	svc.AssertExpectations(t)
}

// --- VerifyOTP ---

func TestVerifyOTP_HappyPath(t *testing.T) {
	svc := &mockAuthSvc{}
	svc.On("VerifyOTP", mock.Anything, domain.OTPVerifyRequest{Email: "a@b.com", OTP: "123456"}).Return(nil)
	h := NewAuthHandler(svc)
	body, _ := json.Marshal(domain.OTPVerifyRequest{Email: "a@b.com", OTP: "123456"})
	r := httptest.NewRequest(http.MethodPost, "/api/verify-otp", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	h.VerifyOTP(rr, r)

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp MessageEnvelope
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "Email verified successfully.", resp.Message)
}

func TestVerifyOTP_Invalid(t *testing.T) {
	svc := &mockAuthSvc{}
	svc.On("VerifyOTP", mock.Anything, mock.Anything).Return(domain.ErrBadRequest)
	h := NewAuthHandler(svc)
	body, _ := json.Marshal(domain.OTPVerifyRequest{Email: "a@b.com", OTP: "000000"})
	r := httptest.NewRequest(http.MethodPost, "/api/verify-otp", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	h.VerifyOTP(rr, r)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

// --- Login ---

func loginForm(username, password string) *http.Request {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)
	r := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r
}

func TestLogin_MissingFields(t *testing.T) {
	h := NewAuthHandler(&mockAuthSvc{})
	rr := httptest.NewRecorder()
	h.Login(rr, loginForm("alice", ""))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestLogin_BadCredentials(t *testing.T) {
	svc := &mockAuthSvc{}
	svc.On("Login", mock.Anything, "alice", "wrong").Return(nil, domain.ErrUnauthorized)
	h := NewAuthHandler(svc)
	rr := httptest.NewRecorder()
	h.Login(rr, loginForm("alice", "wrong"))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestLogin_HappyPath(t *testing.T) {
	svc := &mockAuthSvc{}
	svc.On("Login", mock.Anything, "alice", "secret").Return(&domain.TokenResponse{
		AccessToken: "token-abc", TokenType: "bearer",
	}, nil)
	h := NewAuthHandler(svc)
	rr := httptest.NewRecorder()
	h.Login(rr, loginForm("alice", "secret"))

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp domain.TokenResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "token-abc", resp.AccessToken)
	assert.Equal(t, "bearer", resp.TokenType)
}

// --- LoginGoogle ---

func TestLoginGoogle_HappyPath(t *testing.T) {
	svc := &mockAuthSvc{}
	svc.On("LoginWithGoogle", mock.Anything, "google-id-token").Return(&domain.TokenResponse{
		AccessToken: "token-abc", TokenType: "bearer",
	}, nil)
	h := NewAuthHandler(svc)
	body, _ := json.Marshal(domain.GoogleTokenRequest{Token: "google-id-token"})
	r := httptest.NewRequest(http.MethodPost, "/api/login/google", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	h.LoginGoogle(rr, r)

	assert.Equal(t, http.StatusOK, rr.Code)
	svc.AssertExpectations(t)
}

func TestLoginGoogle_InvalidToken(t *testing.T) {
	svc := &mockAuthSvc{}
	svc.On("LoginWithGoogle", mock.Anything, "bad").Return(nil, domain.ErrUnauthorized)
	h := NewAuthHandler(svc)
	body, _ := json.Marshal(domain.GoogleTokenRequest{Token: "bad"})
	r := httptest.NewRequest(http.MethodPost, "/api/login/google", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	h.LoginGoogle(rr, r)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
