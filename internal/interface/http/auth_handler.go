package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-auth-service/internal/application"
	"github.com/oksasatya/go-auth-service/internal/domain/entity"
	"github.com/oksasatya/go-auth-service/internal/interface/middleware"
	"github.com/oksasatya/go-auth-service/pkg/helpers"
	"github.com/oksasatya/go-auth-service/pkg/response"
	"github.com/oksasatya/go-auth-service/pkg/validation"
)

// AuthService is the subset of application.AuthService the handler drives.
type AuthService interface {
	Register(ctx context.Context, in application.RegisterInput) (*application.AuthSession, error)
	Login(ctx context.Context, email, password string) (*application.AuthSession, error)
	GetProfile(ctx context.Context, accessToken string) (*application.UserView, error)
	CheckEmailAvailable(ctx context.Context, email string) (bool, error)
}

type AuthHandler struct {
	Svc     AuthService
	Cookies *helpers.CookieManager
	Logger  *logrus.Logger
}

func NewAuthHandler(svc AuthService, cookies *helpers.CookieManager, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Svc: svc, Cookies: cookies, Logger: logger}
}

type registerRequest struct {
	Email           string `json:"email" binding:"required,email"`
	FirstName       string `json:"first_name" binding:"required,max=50"`
	LastName        string `json:"last_name" binding:"required,max=50"`
	Password        string `json:"password" binding:"required,password"`
	ConfirmPassword string `json:"confirm_password" binding:"required,eqfield=Password"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type emailAvailability struct {
	Email     string `json:"email"`
	Available bool   `json:"available"`
	Message   string `json:"message"`
}

// Register - POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	session, err := h.Svc.Register(c.Request.Context(), application.RegisterInput{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	h.setSessionCookie(c, session)
	response.Success(c, http.StatusOK, session, "registration successful")
}

// Login - POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	session, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.setSessionCookie(c, session)
	response.Success(c, http.StatusOK, session, "login successful")
}

// Logout - POST /api/auth/logout
// Drops the cookie only; issued tokens stay valid until they expire.
func (h *AuthHandler) Logout(c *gin.Context) {
	if h.Cookies != nil {
		h.Cookies.Clear(c)
	}
	response.Success[any](c, http.StatusOK, nil, "logged out")
}

// Profile - GET /api/auth/profile (behind middleware.RequireAccessToken)
func (h *AuthHandler) Profile(c *gin.Context) {
	view, err := h.Svc.GetProfile(c.Request.Context(), c.GetString(middleware.CtxAccessTokenKey))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, view, "profile")
}

// CheckEmail - GET /api/auth/check-email?email=
func (h *AuthHandler) CheckEmail(c *gin.Context) {
	email := strings.TrimSpace(c.Query("email"))
	if email == "" {
		response.Error(c, http.StatusBadRequest, "email is required", nil)
		return
	}
	available, err := h.Svc.CheckEmailAvailable(c.Request.Context(), email)
	if err != nil {
		h.fail(c, err)
		return
	}
	msg := "email is available"
	if !available {
		msg = "email is already taken"
	}
	response.Success(c, http.StatusOK, emailAvailability{Email: email, Available: available, Message: msg}, msg)
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, s *application.AuthSession) {
	if h.Cookies != nil {
		h.Cookies.SetAccess(c, s.AccessToken, s.ExpiresAt)
	}
}

// fail maps service errors onto HTTP statuses. Anything unrecognized is an
// infrastructure failure and is logged, never echoed.
func (h *AuthHandler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, application.ErrEmailTaken):
		response.Error(c, http.StatusBadRequest, "email already exists or registration failed", nil)
	case errors.Is(err, application.ErrInvalidCredentials):
		response.Error(c, http.StatusUnauthorized, "invalid email or password", nil)
	case errors.Is(err, application.ErrInvalidToken):
		response.Error(c, http.StatusUnauthorized, "invalid token", nil)
	case errors.Is(err, application.ErrUserNotFound):
		response.Error(c, http.StatusNotFound, "user not found", nil)
	case errors.Is(err, entity.ErrInvalidEmail):
		response.Error(c, http.StatusBadRequest, "invalid payload", map[string]string{"email": "must be a valid email"})
	case errors.Is(err, entity.ErrInvalidName):
		response.Error(c, http.StatusBadRequest, "invalid payload", map[string]string{"name": "must be 1 to 50 characters"})
	case errors.Is(err, helpers.ErrPasswordTooLong):
		response.Error(c, http.StatusBadRequest, "invalid payload", map[string]string{"password": "must be at most 72 bytes"})
	default:
		if h.Logger != nil {
			h.Logger.WithError(err).WithFields(logrus.Fields{
				"request_id": c.GetString("request_id"),
				"path":       c.FullPath(),
			}).Error("request failed")
		}
		response.Error(c, http.StatusInternalServerError, "internal error", nil)
	}
}
