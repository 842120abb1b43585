package adaptor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"identity-service/internal/apperr"
	"identity-service/internal/dto/request"
	"identity-service/internal/dto/response"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeAuthService struct {
	registerErr   error
	registerCalls int
	loginResp     *response.LoginResponse
	loginErr      error
	verifyErr     error
	verifiedWith  string
}

func (f *fakeAuthService) Register(_ context.Context, _ *request.RegisterRequest) error {
	f.registerCalls++
	return f.registerErr
}

func (f *fakeAuthService) Login(_ context.Context, _ *request.LoginRequest) (*response.LoginResponse, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return f.loginResp, nil
}

func (f *fakeAuthService) VerifyEmail(_ context.Context, token string) error {
	f.verifiedWith = token
	return f.verifyErr
}

func decodeErrorEnvelope(t *testing.T, body []byte) map[string]any {
	t.Helper()
	var envelope struct {
		Error map[string]any `json:"error"`
	}
	require.NoError(t, json.Unmarshal(body, &envelope))
	return envelope.Error
}

const registerBody = `{
	"email": "test@example.com",
	"password": "password123",
	"first_name": "Test",
	"last_name": "User",
	"phone_number": "+8412345678xx"
}`

func TestRegisterCreated(t *testing.T) {
	t.Parallel()

	svc := &fakeAuthService{}
	h := NewAuthHandler(svc, zap.NewNop())

	rec := httptest.NewRecorder()
	h.Register(rec, httptest.NewRequest(http.MethodPost, "/v1/auth/register", strings.NewReader(registerBody)))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 1, svc.registerCalls)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["message"], "successfully registered")
}

func TestRegisterValidationFailure(t *testing.T) {
	t.Parallel()

	svc := &fakeAuthService{}
	h := NewAuthHandler(svc, zap.NewNop())

	rec := httptest.NewRecorder()
	h.Register(rec, httptest.NewRequest(http.MethodPost, "/v1/auth/register",
		strings.NewReader(`{"email":"not-an-email","password":"short"}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	// Service never reached on schema failure.
	assert.Zero(t, svc.registerCalls)

	fields := decodeErrorEnvelope(t, rec.Body.Bytes())
	assert.Equal(t, "Invalid email format", fields["Email"])
}

func TestRegisterDuplicateMapsToConflict(t *testing.T) {
	t.Parallel()

	svc := &fakeAuthService{registerErr: apperr.New(apperr.AlreadyExists, "user already exists")}
	h := NewAuthHandler(svc, zap.NewNop())

	rec := httptest.NewRecorder()
	h.Register(rec, httptest.NewRequest(http.MethodPost, "/v1/auth/register", strings.NewReader(registerBody)))

	assert.Equal(t, http.StatusConflict, rec.Code)
	envelope := decodeErrorEnvelope(t, rec.Body.Bytes())
	assert.Equal(t, "AlreadyExists", envelope["type"])
	assert.Equal(t, "user already exists", envelope["message"])
}

func TestRegisterDispatchFailureHidesDetail(t *testing.T) {
	t.Parallel()

	svc := &fakeAuthService{
		registerErr: apperr.Wrap(apperr.DispatchFailure, "failed to send verification email", assert.AnError),
	}
	h := NewAuthHandler(svc, zap.NewNop())

	rec := httptest.NewRecorder()
	h.Register(rec, httptest.NewRequest(http.MethodPost, "/v1/auth/register", strings.NewReader(registerBody)))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	envelope := decodeErrorEnvelope(t, rec.Body.Bytes())
	assert.Equal(t, "InternalServerError", envelope["type"])
	assert.Equal(t, "An unexpected error occurred.", envelope["message"])
	assert.NotContains(t, rec.Body.String(), assert.AnError.Error())
}

func TestLoginSuccess(t *testing.T) {
	t.Parallel()

	svc := &fakeAuthService{loginResp: &response.LoginResponse{
		Message:     "Login successful",
		AccessToken: "token-abc",
		TokenType:   "bearer",
	}}
	h := NewAuthHandler(svc, zap.NewNop())

	rec := httptest.NewRecorder()
	h.Login(rec, httptest.NewRequest(http.MethodPost, "/v1/auth/login",
		strings.NewReader(`{"email":"test@example.com","password":"password123"}`)))

	assert.Equal(t, http.StatusOK, rec.Code)

	var body response.LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "token-abc", body.AccessToken)
	assert.Equal(t, "bearer", body.TokenType)
}

func TestLoginInvalidCredentialsMapsToUnauthorized(t *testing.T) {
	t.Parallel()

	svc := &fakeAuthService{loginErr: apperr.New(apperr.InvalidCredentials, "invalid credentials")}
	h := NewAuthHandler(svc, zap.NewNop())

	rec := httptest.NewRecorder()
	h.Login(rec, httptest.NewRequest(http.MethodPost, "/v1/auth/login",
		strings.NewReader(`{"email":"test@example.com","password":"password123"}`)))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	envelope := decodeErrorEnvelope(t, rec.Body.Bytes())
	assert.Equal(t, "InvalidCredentials", envelope["type"])
}

func TestVerifyEmailMissingToken(t *testing.T) {
	t.Parallel()

	svc := &fakeAuthService{}
	h := NewAuthHandler(svc, zap.NewNop())

	rec := httptest.NewRecorder()
	h.VerifyEmail(rec, httptest.NewRequest(http.MethodGet, "/v1/auth/verify-email", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, svc.verifiedWith)
}

func TestVerifyEmailPassesToken(t *testing.T) {
	t.Parallel()

	svc := &fakeAuthService{}
	h := NewAuthHandler(svc, zap.NewNop())

	rec := httptest.NewRecorder()
	h.VerifyEmail(rec, httptest.NewRequest(http.MethodGet, "/v1/auth/verify-email?token=tok-123", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "tok-123", svc.verifiedWith)
}

func TestVerifyEmailFailure(t *testing.T) {
	t.Parallel()

	svc := &fakeAuthService{verifyErr: apperr.New(apperr.ValidationFailure, "invalid or expired token")}
	h := NewAuthHandler(svc, zap.NewNop())

	rec := httptest.NewRecorder()
	h.VerifyEmail(rec, httptest.NewRequest(http.MethodGet, "/v1/auth/verify-email?token=stale", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	envelope := decodeErrorEnvelope(t, rec.Body.Bytes())
	assert.Equal(t, "invalid or expired token", envelope["message"])
}
