package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/notes-service/internal/api/session"
	"github.com/99minutos/notes-service/internal/core/domain"
	"github.com/99minutos/notes-service/internal/core/ports"
)

type stubAuthService struct {
	signUpFn func(ctx context.Context, email, password string) (*ports.AuthResult, error)
	signInFn func(ctx context.Context, email, password string) (*ports.AuthResult, error)
}

func (s *stubAuthService) SignUp(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	return s.signUpFn(ctx, email, password)
}

func (s *stubAuthService) SignIn(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	return s.signInFn(ctx, email, password)
}

type stubLimiter struct {
	wait     time.Duration
	checkErr error
	failures int
	resets   int
}

func (l *stubLimiter) RetryAfter(context.Context, string) (time.Duration, error) {
	return l.wait, l.checkErr
}

func (l *stubLimiter) RecordFailure(context.Context, string) error {
	l.failures++
	return nil
}

func (l *stubLimiter) Reset(context.Context, string) error {
	l.resets++
	return nil
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func newAuthHandler(svc ports.AuthService, limiter LoginLimiter) *AuthHandler {
	return NewAuthHandler(svc, session.NewCookieBuilder(time.Hour, false), limiter, zerolog.Nop())
}

func jsonRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == session.CookieName {
			return c
		}
	}
	t.Fatalf("expected %s cookie in response", session.CookieName)
	return nil
}

func assertHTTPError(t *testing.T, err error, code int) {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected echo.HTTPError, got %v", err)
	}
	if he.Code != code {
		t.Fatalf("expected %d, got %d", code, he.Code)
	}
}

func TestAuthHandler_SignUp_Success(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		signUpFn: func(ctx context.Context, email, password string) (*ports.AuthResult, error) {
			if email != "a@x.com" || password != "pw123456" {
				t.Fatalf("unexpected args: %s %s", email, password)
			}
			return &ports.AuthResult{User: domain.Identity{ID: 1, Email: email}, Token: "token123"}, nil
		},
	}
	handler := newAuthHandler(stub, nil)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/auth/sign-up", `{"email":"a@x.com","password":"pw123456"}`), rec)

	if err := handler.SignUp(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["id"] != float64(1) || resp["email"] != "a@x.com" || len(resp) != 2 {
		t.Fatalf("unexpected payload: %+v", resp)
	}

	cookie := sessionCookie(t, rec)
	if cookie.Value != "token123" || !cookie.HttpOnly {
		t.Fatalf("unexpected cookie: %+v", cookie)
	}
}

func TestAuthHandler_SignUp_UserExists(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		signUpFn: func(context.Context, string, string) (*ports.AuthResult, error) {
			return nil, domain.ErrUserExists
		},
	}
	handler := newAuthHandler(stub, nil)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/auth/sign-up", `{"email":"a@x.com","password":"pw123456"}`), rec)

	if err := handler.SignUp(c); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Fatalf("expected no cookie on conflict")
	}
}

func TestAuthHandler_SignUp_InvalidPayload(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		signUpFn: func(context.Context, string, string) (*ports.AuthResult, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := newAuthHandler(stub, nil)

	for _, body := range []string{
		"not-json",
		`{"email":"not-an-email","password":"pw123456"}`,
		`{"email":"a@x.com","password":"short"}`,
		`{"email":"a@x.com"}`,
	} {
		c := e.NewContext(jsonRequest(http.MethodPost, "/auth/sign-up", body), httptest.NewRecorder())
		assertHTTPError(t, handler.SignUp(c), http.StatusBadRequest)
	}
}

func TestAuthHandler_SignIn_Success(t *testing.T) {
	e := newEcho()
	limiter := &stubLimiter{}
	stub := &stubAuthService{
		signInFn: func(ctx context.Context, email, password string) (*ports.AuthResult, error) {
			if email != "a@x.com" || password != "pw123456" {
				t.Fatalf("unexpected args: %s %s", email, password)
			}
			return &ports.AuthResult{User: domain.Identity{ID: 3, Email: email}, Token: "token123"}, nil
		},
	}
	handler := newAuthHandler(stub, limiter)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/auth/sign-in", `{"email":"a@x.com","password":"pw123456"}`), rec)

	if err := handler.SignIn(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if sessionCookie(t, rec).Value != "token123" {
		t.Fatalf("unexpected cookie value")
	}
	if limiter.resets != 1 {
		t.Fatalf("expected limiter reset, got %d", limiter.resets)
	}
}

func TestAuthHandler_SignIn_InvalidCredentials(t *testing.T) {
	e := newEcho()
	limiter := &stubLimiter{}
	stub := &stubAuthService{
		signInFn: func(context.Context, string, string) (*ports.AuthResult, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	handler := newAuthHandler(stub, limiter)

	c := e.NewContext(jsonRequest(http.MethodPost, "/auth/sign-in", `{"email":"a@x.com","password":"bad"}`), httptest.NewRecorder())

	if err := handler.SignIn(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if limiter.failures != 1 {
		t.Fatalf("expected one recorded failure, got %d", limiter.failures)
	}
}

func TestAuthHandler_SignIn_Locked(t *testing.T) {
	e := newEcho()
	limiter := &stubLimiter{wait: 90 * time.Second}
	stub := &stubAuthService{
		signInFn: func(context.Context, string, string) (*ports.AuthResult, error) {
			t.Fatalf("should not be called while locked")
			return nil, nil
		},
	}
	handler := newAuthHandler(stub, limiter)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/auth/sign-in", `{"email":"a@x.com","password":"pw123456"}`), rec)

	if err := handler.SignIn(c); !errors.Is(err, domain.ErrTooManyAttempts) {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}
	if got := rec.Header().Get("Retry-After"); got != "90" {
		t.Fatalf("expected Retry-After 90, got %q", got)
	}
}

func TestAuthHandler_SignIn_LimiterFailureDoesNotBlock(t *testing.T) {
	e := newEcho()
	limiter := &stubLimiter{checkErr: errors.New("redis down")}
	stub := &stubAuthService{
		signInFn: func(_ context.Context, email, _ string) (*ports.AuthResult, error) {
			return &ports.AuthResult{User: domain.Identity{ID: 1, Email: email}, Token: "t"}, nil
		},
	}
	handler := newAuthHandler(stub, limiter)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/auth/sign-in", `{"email":"a@x.com","password":"pw123456"}`), rec)

	if err := handler.SignIn(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestAuthHandler_SignIn_InvalidPayload(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		signInFn: func(context.Context, string, string) (*ports.AuthResult, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := newAuthHandler(stub, nil)

	for _, body := range []string{"{", `{"email":"a@x.com"}`, `{"password":"x"}`} {
		c := e.NewContext(jsonRequest(http.MethodPost, "/auth/sign-in", body), httptest.NewRecorder())
		assertHTTPError(t, handler.SignIn(c), http.StatusBadRequest)
	}
}

func TestAuthHandler_LogOut(t *testing.T) {
	e := newEcho()
	handler := newAuthHandler(&stubAuthService{}, nil)

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/auth/log-out", nil), rec)

	if err := handler.LogOut(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if strings.TrimSpace(rec.Body.String()) != `{"success":true}` {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
	if !strings.Contains(rec.Header().Get("Set-Cookie"), "Max-Age=0") {
		t.Fatalf("expected clearing cookie, got %q", rec.Header().Get("Set-Cookie"))
	}
}
