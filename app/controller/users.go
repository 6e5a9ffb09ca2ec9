package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	httpdto "github.com/vibast-solutions/ms-go-contacts/app/dto/http"
	"github.com/vibast-solutions/ms-go-contacts/app/middleware"
	"github.com/vibast-solutions/ms-go-contacts/app/service"
)

type UserController struct {
	userService *service.UserService
}

func NewUserController(userService *service.UserService) *UserController {
	return &UserController{userService: userService}
}

func (c *UserController) Me(ctx echo.Context) error {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		logrus.Warn("Me failed: missing user in context")
		return ctx.JSON(http.StatusUnauthorized, httpdto.ErrorResponse{Error: "unauthorized"})
	}

	return ctx.JSON(http.StatusOK, UserResponse(user))
}

func (c *UserController) UpdateAvatar(ctx echo.Context) error {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		logrus.Warn("Avatar update failed: missing user in context")
		return ctx.JSON(http.StatusUnauthorized, httpdto.ErrorResponse{Error: "unauthorized"})
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		logrus.WithError(err).Debug("Avatar update missing file part")
		return ctx.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: "file is required"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		logrus.WithError(err).WithField("email", user.Email).Error("Failed to open uploaded avatar")
		return ctx.JSON(http.StatusInternalServerError, httpdto.ErrorResponse{Error: "internal server error"})
	}
	defer file.Close()

	logrus.WithField("email", user.Email).Info("Avatar update request received")
	updated, err := c.userService.UpdateAvatar(ctx.Request().Context(), user, file)
	if err != nil {
		logrus.WithError(err).WithField("email", user.Email).Error("Avatar upload failed")
		return ctx.JSON(http.StatusInternalServerError, httpdto.ErrorResponse{Error: "internal server error"})
	}

	logrus.WithField("email", user.Email).Info("Avatar updated")
	return ctx.JSON(http.StatusOK, UserResponse(updated))
}
