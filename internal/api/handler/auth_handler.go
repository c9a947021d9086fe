package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/notes-service/internal/api/metrics"
	"github.com/99minutos/notes-service/internal/api/session"
	"github.com/99minutos/notes-service/internal/core/domain"
	"github.com/99minutos/notes-service/internal/core/ports"
)

// LoginLimiter throttles repeated failed sign-ins per client key.
type LoginLimiter interface {
	// RetryAfter reports how long the key stays locked; zero means allowed.
	RetryAfter(ctx context.Context, key string) (time.Duration, error)
	RecordFailure(ctx context.Context, key string) error
	Reset(ctx context.Context, key string) error
}

type AuthHandler struct {
	authService ports.AuthService
	cookies     *session.CookieBuilder
	limiter     LoginLimiter
	log         zerolog.Logger
}

// NewAuthHandler wires the auth endpoints. limiter may be nil to disable throttling.
func NewAuthHandler(authService ports.AuthService, cookies *session.CookieBuilder, limiter LoginLimiter, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cookies:     cookies,
		limiter:     limiter,
		log:         log,
	}
}

// SignUp registers a new account and opens a session.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signUpRequest  true  "Credentials"
// @Success      201   {object}  userResponse
// @Header       201   {string}  Set-Cookie  "Authentication session cookie"
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /auth/sign-up [post]
func (h *AuthHandler) SignUp(c echo.Context) error {
	var req signUpRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	res, err := h.authService.SignUp(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserExists):
			metrics.AuthAttemptsTotal.WithLabelValues("sign_up", "conflict").Inc()
		default:
			metrics.AuthAttemptsTotal.WithLabelValues("sign_up", "error").Inc()
		}
		return err
	}

	metrics.AuthAttemptsTotal.WithLabelValues("sign_up", "success").Inc()
	c.SetCookie(h.cookies.Session(res.Token))
	return c.JSON(http.StatusCreated, userResponse{ID: res.User.ID, Email: res.User.Email})
}

// SignIn authenticates a user and opens a session.
//
// @Summary      Sign in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signInRequest  true  "Credentials"
// @Success      201   {object}  userResponse
// @Header       201   {string}  Set-Cookie  "Authentication session cookie"
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Router       /auth/sign-in [post]
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req signInRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	key := c.RealIP()

	if wait := h.retryAfter(ctx, key); wait > 0 {
		metrics.AuthAttemptsTotal.WithLabelValues("sign_in", "locked").Inc()
		c.Response().Header().Set("Retry-After", strconv.Itoa(int(wait.Seconds()+0.5)))
		return domain.ErrTooManyAttempts
	}

	res, err := h.authService.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.AuthAttemptsTotal.WithLabelValues("sign_in", "invalid_credentials").Inc()
			h.recordFailure(ctx, key)
		} else {
			metrics.AuthAttemptsTotal.WithLabelValues("sign_in", "error").Inc()
		}
		return err
	}

	metrics.AuthAttemptsTotal.WithLabelValues("sign_in", "success").Inc()
	h.reset(ctx, key)
	c.SetCookie(h.cookies.Session(res.Token))
	return c.JSON(http.StatusCreated, userResponse{ID: res.User.ID, Email: res.User.Email})
}

// LogOut clears the session cookie. The token itself stays valid until it expires.
//
// @Summary      Log out
// @Tags         auth
// @Produce      json
// @Security     CookieAuth
// @Success      201  {object}  logoutResponse
// @Failure      401  {object}  errorResponse
// @Router       /auth/log-out [post]
func (h *AuthHandler) LogOut(c echo.Context) error {
	c.SetCookie(h.cookies.Clear())
	metrics.LogoutsTotal.Inc()
	return c.JSON(http.StatusCreated, logoutResponse{Success: true})
}

// Limiter failures are logged and never block a sign-in.

func (h *AuthHandler) retryAfter(ctx context.Context, key string) time.Duration {
	if h.limiter == nil {
		return 0
	}
	wait, err := h.limiter.RetryAfter(ctx, key)
	if err != nil {
		h.log.Warn().Err(err).Str("client", key).Msg("login limiter check failed, allowing attempt")
		return 0
	}
	return wait
}

func (h *AuthHandler) recordFailure(ctx context.Context, key string) {
	if h.limiter == nil {
		return
	}
	if err := h.limiter.RecordFailure(ctx, key); err != nil {
		h.log.Warn().Err(err).Str("client", key).Msg("failed to record sign-in failure")
	}
}

func (h *AuthHandler) reset(ctx context.Context, key string) {
	if h.limiter == nil {
		return
	}
	if err := h.limiter.Reset(ctx, key); err != nil {
		h.log.Warn().Err(err).Str("client", key).Msg("failed to reset sign-in failures")
	}
}
