package handler

import (
    "database/sql"
    "errors"
    "fmt"
    "net/http"
    "strconv"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/cineplaza/cinema-booking/internal/config"
    "github.com/cineplaza/cinema-booking/internal/model"
    "github.com/cineplaza/cinema-booking/internal/repository"
    "github.com/cineplaza/cinema-booking/internal/service"
    "github.com/cineplaza/cinema-booking/internal/utils"
)

// AuthHandler serves register/login/refresh/logout.  Accounts are
// optional for booking; they exist so returning customers keep their
// history and so logout can drop every seat hold the session owns.
type AuthHandler struct {
    users  *repository.UserRepo
    tokens *repository.TokenRepo
    engine *service.ReservationEngine
    cfg    config.Config
}

// NewAuthHandler wires the auth handler.
func NewAuthHandler(users *repository.UserRepo, tokens *repository.TokenRepo, engine *service.ReservationEngine, cfg config.Config) *AuthHandler {
    return &AuthHandler{users: users, tokens: tokens, engine: engine, cfg: cfg}
}

type registerRequest struct {
    Email    string `json:"email"`
    Password string `json:"password"`
    FullName string `json:"full_name"`
}

// Register handles POST /v1/auth/register.
func (h *AuthHandler) Register(c echo.Context) error {
    var req registerRequest
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid JSON body"})
    }
    req.Email = strings.TrimSpace(req.Email)
    req.FullName = strings.TrimSpace(req.FullName)
    if req.Email == "" || req.FullName == "" || len(req.Password) < 8 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "email, full_name and a password of at least 8 characters are required"})
    }

    id, err := h.users.Create(c.Request().Context(), req.Email, req.Password, req.FullName, model.RoleCustomer, h.cfg.BcryptCost)
    if err != nil {
        if errors.Is(err, repository.ErrEmailExists) {
            return c.JSON(http.StatusConflict, echo.Map{"error": "email already registered"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusCreated, echo.Map{"id": id, "email": strings.ToLower(req.Email)})
}

type loginRequest struct {
    Email    string `json:"email"`
    Password string `json:"password"`
}

// Login handles POST /v1/auth/login.  It returns an access JWT plus a
// refresh token whose hash is stored server-side.
func (h *AuthHandler) Login(c echo.Context) error {
    var req loginRequest
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid JSON body"})
    }

    ctx := c.Request().Context()
    user, err := h.users.GetByEmail(ctx, req.Email)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    if !utils.VerifyPassword(user.PasswordHash, req.Password) {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
    }

    access, err := utils.NewAccessToken(h.cfg.JWTSecret, user.ID, user.Role, h.cfg.AccessTTLMin)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token error"})
    }
    refresh, err := utils.NewRefreshToken(h.cfg.RefreshTTLDays)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token error"})
    }
    if err := h.tokens.StoreRefresh(ctx, user.ID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }

    return c.JSON(http.StatusOK, echo.Map{
        "access_token":  access.Token,
        "expires_at":    access.Exp,
        "refresh_token": refresh.Raw,
    })
}

type refreshRequest struct {
    RefreshToken string `json:"refresh_token"`
}

// Refresh handles POST /v1/auth/refresh.  The presented token is
// rotated: the old hash is revoked and a new pair issued.
func (h *AuthHandler) Refresh(c echo.Context) error {
    var req refreshRequest
    if err := c.Bind(&req); err != nil || req.RefreshToken == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token is required"})
    }

    ctx := c.Request().Context()
    oldHash := utils.HashRefreshRaw(req.RefreshToken)
    userID, err := h.tokens.ValidateRefresh(ctx, oldHash)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    user, err := h.users.GetByID(ctx, userID)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
    }

    access, err := utils.NewAccessToken(h.cfg.JWTSecret, user.ID, user.Role, h.cfg.AccessTTLMin)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token error"})
    }
    refresh, err := utils.NewRefreshToken(h.cfg.RefreshTTLDays)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token error"})
    }
    if err := h.tokens.StoreRefresh(ctx, user.ID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    _ = h.tokens.RevokeByHash(ctx, oldHash)

    return c.JSON(http.StatusOK, echo.Map{
        "access_token":  access.Token,
        "expires_at":    access.Exp,
        "refresh_token": refresh.Raw,
    })
}

// Logout handles POST /v1/auth/logout.  It revokes the presented
// refresh token and drops every seat hold the user's lock session
// owns, so abandoned selections free up immediately.
func (h *AuthHandler) Logout(c echo.Context) error {
    var req refreshRequest
    if err := c.Bind(&req); err != nil || req.RefreshToken == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token is required"})
    }

    ctx := c.Request().Context()
    hash := utils.HashRefreshRaw(req.RefreshToken)
    userID, err := h.tokens.ValidateRefresh(ctx, hash)
    if err == nil {
        _ = h.tokens.RevokeByHash(ctx, hash)
        if h.engine != nil {
            _, _ = h.engine.ReleaseSession(ctx, fmt.Sprintf("user:%d", userID))
        }
    }
    // Logout is idempotent: an unknown token still gets a 200.
    return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

// LogoutAll handles POST /v1/auth/logout-all.  It runs behind JWTAuth,
// revokes every refresh token the user has and drops all of their seat
// holds across showtimes.  Used when a customer suspects their account
// is compromised.
func (h *AuthHandler) LogoutAll(c echo.Context) error {
    userID, ok := currentUserID(c)
    if !ok {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
    }

    ctx := c.Request().Context()
    if err := h.tokens.RevokeAllForUser(ctx, userID); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    if h.engine != nil {
        _, _ = h.engine.ReleaseSession(ctx, fmt.Sprintf("user:%d", userID))
    }
    return c.JSON(http.StatusOK, echo.Map{"message": "all sessions logged out"})
}

// currentUserID reads the JWT subject set by the auth middleware.
// Numeric claims arrive as float64 through encoding/json.
func currentUserID(c echo.Context) (uint64, bool) {
    switch v := c.Get("user_id").(type) {
    case float64:
        if v > 0 {
            return uint64(v), true
        }
    case string:
        if id, err := strconv.ParseUint(v, 10, 64); err == nil && id > 0 {
            return id, true
        }
    }
    return 0, false
}
