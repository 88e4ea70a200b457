package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/foundlyhq/foundly-backend/api/middleware"
	"github.com/foundlyhq/foundly-backend/internal/auth"
	"github.com/foundlyhq/foundly-backend/internal/users"
	pkgAuth "github.com/foundlyhq/foundly-backend/pkg/auth"
	"github.com/foundlyhq/foundly-backend/pkg/auth/session"
	"github.com/foundlyhq/foundly-backend/pkg/config"
	"github.com/foundlyhq/foundly-backend/pkg/enums"
	pkgerrors "github.com/foundlyhq/foundly-backend/pkg/errors"
	"github.com/foundlyhq/foundly-backend/pkg/types"
)

type stubAuthService struct {
	user       *users.UserDTO
	loginErr   error
	loggedOut  []string
	currentErr error
}

func (s *stubAuthService) Login(_ context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	if s.loginErr != nil {
		return nil, s.loginErr
	}
	return &auth.LoginResponse{AccessToken: "access", RefreshToken: "refresh", User: s.user}, nil
}

func (s *stubAuthService) Refresh(context.Context, auth.RefreshRequest) (*auth.RefreshResponse, error) {
	return &auth.RefreshResponse{AccessToken: "rotated", RefreshToken: "rotated-refresh"}, nil
}

func (s *stubAuthService) Logout(_ context.Context, accessID string) error {
	s.loggedOut = append(s.loggedOut, accessID)
	return nil
}

func (s *stubAuthService) CurrentUser(context.Context, uuid.UUID) (*users.UserDTO, error) {
	if s.currentErr != nil {
		return nil, s.currentErr
	}
	return s.user, nil
}

type stubRegisterService struct {
	registered []auth.RegisterRequest
	err        error
}

func (s *stubRegisterService) Register(_ context.Context, req auth.RegisterRequest) (*auth.RegisterResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.registered = append(s.registered, req)
	return &auth.RegisterResponse{}, nil
}

func testUser() *users.UserDTO {
	return &users.UserDTO{ID: uuid.New(), Name: "John Doe", Email: "john.doe@campus.edu", CampusID: "S001", Role: enums.UserRoleStudent}
}

func actorContext(req *http.Request, user *users.UserDTO) *http.Request {
	ctx := middleware.WithActor(req.Context(), types.Actor{UserID: user.ID, CampusID: user.CampusID, Role: user.Role})
	return req.WithContext(ctx)
}

func TestAuthLoginReturnsTokens(t *testing.T) {
	svc := &stubAuthService{user: testUser()}
	handler := AuthLogin(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
		strings.NewReader(`{"identifier":"john.doe@campus.edu","password":"student123"}`))
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var envelope struct {
		Data auth.LoginResponse `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.AccessToken != "access" || envelope.Data.User == nil {
		t.Fatalf("unexpected payload %+v", envelope.Data)
	}
}

func TestAuthLoginRejectsMissingFields(t *testing.T) {
	handler := AuthLogin(&stubAuthService{user: testUser()}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"identifier":""}`))
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAuthLoginMapsAuthError(t *testing.T) {
	svc := &stubAuthService{loginErr: pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")}
	handler := AuthLogin(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
		strings.NewReader(`{"identifier":"john.doe@campus.edu","password":"wrong-password"}`))
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthRegisterCreatesAndLogsIn(t *testing.T) {
	registerSvc := &stubRegisterService{}
	handler := AuthRegister(registerSvc, &stubAuthService{user: testUser()}, nil)

	payload := `{"name":"Jane Smith","email":"jane.smith@campus.edu","campus_id":"T001","password":"staff1234","role":"staff"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(registerSvc.registered) != 1 {
		t.Fatalf("expected one register call, got %d", len(registerSvc.registered))
	}
	if registerSvc.registered[0].CampusID != "T001" {
		t.Fatalf("unexpected register payload %+v", registerSvc.registered[0])
	}
}

func TestAuthRegisterSurfacesConflict(t *testing.T) {
	registerSvc := &stubRegisterService{err: pkgerrors.New(pkgerrors.CodeConflict, "email already registered")}
	handler := AuthRegister(registerSvc, &stubAuthService{user: testUser()}, nil)

	payload := `{"name":"Jane Smith","email":"jane.smith@campus.edu","campus_id":"T001","password":"staff1234"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestAuthLogoutRevokesSession(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Issuer: "issuer", ExpirationMinutes: 60}
	accessID := session.NewAccessID()
	token, err := pkgAuth.MintAccessToken(cfg, time.Now(), pkgAuth.AccessTokenPayload{
		UserID:   uuid.New(),
		CampusID: "S001",
		Role:     enums.UserRoleStudent,
		JTI:      accessID,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	svc := &stubAuthService{user: testUser()}
	handler := AuthLogout(svc, cfg, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(svc.loggedOut) != 1 || svc.loggedOut[0] != accessID {
		t.Fatalf("expected session %s revoked, got %v", accessID, svc.loggedOut)
	}
}

func TestAuthLogoutRequiresToken(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Issuer: "issuer", ExpirationMinutes: 60}
	handler := AuthLogout(&stubAuthService{}, cfg, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthMeReturnsProfile(t *testing.T) {
	user := testUser()
	handler := AuthMe(&stubAuthService{user: user}, nil)

	req := actorContext(httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil), user)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var envelope struct {
		Data map[string]*users.UserDTO `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data["user"] == nil || envelope.Data["user"].CampusID != "S001" {
		t.Fatalf("unexpected profile payload %+v", envelope.Data)
	}
}

func TestAuthMeRequiresActor(t *testing.T) {
	handler := AuthMe(&stubAuthService{user: testUser()}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
