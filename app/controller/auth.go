package controller

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	httpdto "github.com/vibast-solutions/ms-go-contacts/app/dto/http"
	"github.com/vibast-solutions/ms-go-contacts/app/middleware"
	"github.com/vibast-solutions/ms-go-contacts/app/service"
)

type AuthController struct {
	authService *service.AuthService
}

func NewAuthController(authService *service.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

func (c *AuthController) Signup(ctx echo.Context) error {
	req := new(httpdto.SignupRequest)
	if err := ctx.Bind(req); err != nil {
		logrus.WithError(err).Debug("Failed to bind signup request")
		return ctx.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: "invalid request body"})
	}

	if err := req.Validate(); err != nil {
		logrus.WithField("email", req.Email).Debug("Signup validation failed")
		return ctx.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: err.Error()})
	}

	logrus.WithField("email", req.Email).Info("Signup request received")
	user, err := c.authService.Signup(ctx.Request().Context(), req.Username, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrUserExists) {
			logrus.WithField("email", req.Email).Warn("Signup failed: account already exists")
			return ctx.JSON(http.StatusConflict, httpdto.ErrorResponse{Error: "Account already exists"})
		}
		logrus.WithError(err).WithField("email", req.Email).Error("Signup failed")
		return ctx.JSON(http.StatusInternalServerError, httpdto.ErrorResponse{Error: "internal server error"})
	}

	logrus.WithFields(logrus.Fields{
		"user_id": user.ID,
		"email":   user.Email,
	}).Info("User registered")

	return ctx.JSON(http.StatusCreated, UserResponse(user))
}

func (c *AuthController) Login(ctx echo.Context) error {
	req := new(httpdto.LoginRequest)
	if err := ctx.Bind(req); err != nil {
		logrus.WithError(err).Debug("Failed to bind login request")
		return ctx.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: "invalid request body"})
	}

	if err := req.Validate(); err != nil {
		logrus.WithField("email", req.Email).Debug("Login validation failed")
		return ctx.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: err.Error()})
	}

	logrus.WithField("email", req.Email).Info("Login request received")
	pair, err := c.authService.Login(ctx.Request().Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidEmail):
			logrus.WithField("email", req.Email).Warn("Login failed: unknown email")
			return ctx.JSON(http.StatusUnauthorized, httpdto.ErrorResponse{Error: "Invalid email"})
		case errors.Is(err, service.ErrEmailNotConfirmed):
			logrus.WithField("email", req.Email).Warn("Login failed: email not confirmed")
			return ctx.JSON(http.StatusUnauthorized, httpdto.ErrorResponse{Error: "Email not confirmed"})
		case errors.Is(err, service.ErrInvalidPassword):
			logrus.WithField("email", req.Email).Warn("Login failed: invalid password")
			return ctx.JSON(http.StatusUnauthorized, httpdto.ErrorResponse{Error: "Invalid password"})
		}
		logrus.WithError(err).WithField("email", req.Email).Error("Login failed")
		return ctx.JSON(http.StatusInternalServerError, httpdto.ErrorResponse{Error: "internal server error"})
	}

	logrus.WithField("email", req.Email).Info("Login successful")
	return ctx.JSON(http.StatusOK, tokenResponse(pair))
}

// RefreshToken expects the refresh token as the bearer credential.
func (c *AuthController) RefreshToken(ctx echo.Context) error {
	token, ok := middleware.BearerToken(ctx)
	if !ok {
		logrus.Debug("Refresh token missing from authorization header")
		return ctx.JSON(http.StatusUnauthorized, httpdto.ErrorResponse{Error: "missing authorization header"})
	}

	logrus.Info("Refresh token request received")
	pair, err := c.authService.Refresh(ctx.Request().Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRefreshToken):
			logrus.Warn("Refresh failed: stale refresh token revoked")
			return ctx.JSON(http.StatusUnauthorized, httpdto.ErrorResponse{Error: "Invalid refresh token"})
		case errors.Is(err, service.ErrUnauthorized):
			logrus.Warn("Refresh failed: invalid or expired token")
			return ctx.JSON(http.StatusUnauthorized, httpdto.ErrorResponse{Error: "Could not validate credentials"})
		}
		logrus.WithError(err).Error("Refresh failed")
		return ctx.JSON(http.StatusInternalServerError, httpdto.ErrorResponse{Error: "internal server error"})
	}

	logrus.Info("Refresh token successful")
	return ctx.JSON(http.StatusOK, tokenResponse(pair))
}

func (c *AuthController) ConfirmedEmail(ctx echo.Context) error {
	token := ctx.Param("token")

	logrus.Info("Email confirmation request received")
	alreadyConfirmed, err := c.authService.ConfirmEmail(ctx.Request().Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidEmailToken):
			logrus.Warn("Email confirmation failed: malformed token")
			return ctx.JSON(http.StatusUnprocessableEntity, httpdto.ErrorResponse{Error: "Invalid token for email verification"})
		case errors.Is(err, service.ErrUserNotFound):
			logrus.Warn("Email confirmation failed: unknown email")
			return ctx.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: "Verification error"})
		}
		logrus.WithError(err).Error("Email confirmation failed")
		return ctx.JSON(http.StatusInternalServerError, httpdto.ErrorResponse{Error: "internal server error"})
	}

	if alreadyConfirmed {
		return ctx.JSON(http.StatusOK, httpdto.MessageResponse{Message: "Your email is already confirmed"})
	}

	logrus.Info("Email confirmed")
	return ctx.JSON(http.StatusOK, httpdto.MessageResponse{Message: "Email confirmed"})
}

func (c *AuthController) RequestEmail(ctx echo.Context) error {
	req := new(httpdto.RequestEmailRequest)
	if err := ctx.Bind(req); err != nil {
		logrus.WithError(err).Debug("Failed to bind request email body")
		return ctx.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: "invalid request body"})
	}

	if err := req.Validate(); err != nil {
		logrus.Debug("Request email validation failed")
		return ctx.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: err.Error()})
	}

	logrus.WithField("email", req.Email).Info("Confirmation email requested")
	err := c.authService.RequestConfirmation(ctx.Request().Context(), req.Email)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			logrus.WithField("email", req.Email).Warn("Confirmation email requested for unknown email")
			return ctx.JSON(http.StatusNotFound, httpdto.ErrorResponse{Error: "Verification error"})
		case errors.Is(err, service.ErrAlreadyConfirmed):
			return ctx.JSON(http.StatusOK, httpdto.MessageResponse{Message: "Your email is already confirmed"})
		}
		logrus.WithError(err).WithField("email", req.Email).Error("Request email failed")
		return ctx.JSON(http.StatusInternalServerError, httpdto.ErrorResponse{Error: "internal server error"})
	}

	return ctx.JSON(http.StatusOK, httpdto.MessageResponse{Message: "Check your email for confirmation."})
}
