package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	httpdto "github.com/vibast-solutions/ms-go-contacts/app/dto/http"
	"github.com/vibast-solutions/ms-go-contacts/app/middleware"
	"github.com/vibast-solutions/ms-go-contacts/app/service"
)

const (
	defaultListLimit = 10
	maxListLimit     = 500
)

type ContactController struct {
	contactService *service.ContactService
}

func NewContactController(contactService *service.ContactService) *ContactController {
	return &ContactController{contactService: contactService}
}

func (c *ContactController) List(ctx echo.Context) error {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		return ctx.JSON(http.StatusUnauthorized, httpdto.ErrorResponse{Error: "unauthorized"})
	}

	// limit is clamped to [10, 500].
	limit := queryInt(ctx, "limit", defaultListLimit)
	if limit < defaultListLimit {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	offset := queryInt(ctx, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	contacts, err := c.contactService.List(ctx.Request().Context(), user.ID, limit, offset)
	if err != nil {
		logrus.WithError(err).WithField("user_id", user.ID).Error("List contacts failed")
		return ctx.JSON(http.StatusInternalServerError, httpdto.ErrorResponse{Error: "internal server error"})
	}

	return ctx.JSON(http.StatusOK, contactResponses(contacts))
}

func (c *ContactController) Get(ctx echo.Context) error {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		return ctx.JSON(http.StatusUnauthorized, httpdto.ErrorResponse{Error: "unauthorized"})
	}

	id, err := pathID(ctx)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: "invalid contact id"})
	}

	contact, err := c.contactService.Get(ctx.Request().Context(), id, user.ID)
	if err != nil {
		if errors.Is(err, service.ErrContactNotFound) {
			return ctx.JSON(http.StatusNotFound, httpdto.ErrorResponse{Error: "contact not found"})
		}
		logrus.WithError(err).WithField("user_id", user.ID).Error("Get contact failed")
		return ctx.JSON(http.StatusInternalServerError, httpdto.ErrorResponse{Error: "internal server error"})
	}

	return ctx.JSON(http.StatusOK, contactResponse(contact))
}

func (c *ContactController) Create(ctx echo.Context) error {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		return ctx.JSON(http.StatusUnauthorized, httpdto.ErrorResponse{Error: "unauthorized"})
	}

	input, ok, resp := bindContact(ctx)
	if !ok {
		return resp
	}

	contact, err := c.contactService.Create(ctx.Request().Context(), user.ID, input)
	if err != nil {
		logrus.WithError(err).WithField("user_id", user.ID).Error("Create contact failed")
		return ctx.JSON(http.StatusInternalServerError, httpdto.ErrorResponse{Error: "internal server error"})
	}

	logrus.WithFields(logrus.Fields{
		"user_id":    user.ID,
		"contact_id": contact.ID,
	}).Info("Contact created")
	return ctx.JSON(http.StatusCreated, contactResponse(contact))
}

func (c *ContactController) Update(ctx echo.Context) error {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		return ctx.JSON(http.StatusUnauthorized, httpdto.ErrorResponse{Error: "unauthorized"})
	}

	id, err := pathID(ctx)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: "invalid contact id"})
	}

	input, ok, resp := bindContact(ctx)
	if !ok {
		return resp
	}

	contact, err := c.contactService.Update(ctx.Request().Context(), id, user.ID, input)
	if err != nil {
		if errors.Is(err, service.ErrContactNotFound) {
			return ctx.JSON(http.StatusNotFound, httpdto.ErrorResponse{Error: "contact not found"})
		}
		logrus.WithError(err).WithField("user_id", user.ID).Error("Update contact failed")
		return ctx.JSON(http.StatusInternalServerError, httpdto.ErrorResponse{Error: "internal server error"})
	}

	return ctx.JSON(http.StatusOK, contactResponse(contact))
}

func (c *ContactController) Delete(ctx echo.Context) error {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		return ctx.JSON(http.StatusUnauthorized, httpdto.ErrorResponse{Error: "unauthorized"})
	}

	id, err := pathID(ctx)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: "invalid contact id"})
	}

	if err := c.contactService.Delete(ctx.Request().Context(), id, user.ID); err != nil {
		if errors.Is(err, service.ErrContactNotFound) {
			return ctx.JSON(http.StatusNotFound, httpdto.ErrorResponse{Error: "contact not found"})
		}
		logrus.WithError(err).WithField("user_id", user.ID).Error("Delete contact failed")
		return ctx.JSON(http.StatusInternalServerError, httpdto.ErrorResponse{Error: "internal server error"})
	}

	logrus.WithFields(logrus.Fields{
		"user_id":    user.ID,
		"contact_id": id,
	}).Info("Contact deleted")
	return ctx.NoContent(http.StatusNoContent)
}

func (c *ContactController) Search(ctx echo.Context) error {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		return ctx.JSON(http.StatusUnauthorized, httpdto.ErrorResponse{Error: "unauthorized"})
	}

	query := ctx.Param("query")
	contacts, err := c.contactService.Search(ctx.Request().Context(), user.ID, query)
	if err != nil {
		logrus.WithError(err).WithField("user_id", user.ID).Error("Search contacts failed")
		return ctx.JSON(http.StatusInternalServerError, httpdto.ErrorResponse{Error: "internal server error"})
	}

	return ctx.JSON(http.StatusOK, contactResponses(contacts))
}

func (c *ContactController) UpcomingBirthdays(ctx echo.Context) error {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		return ctx.JSON(http.StatusUnauthorized, httpdto.ErrorResponse{Error: "unauthorized"})
	}

	contacts, err := c.contactService.UpcomingBirthdays(ctx.Request().Context(), user.ID)
	if err != nil {
		logrus.WithError(err).WithField("user_id", user.ID).Error("Upcoming birthdays failed")
		return ctx.JSON(http.StatusInternalServerError, httpdto.ErrorResponse{Error: "internal server error"})
	}

	return ctx.JSON(http.StatusOK, contactResponses(contacts))
}

// bindContact binds and validates the contact payload. When ok is false the
// 400 response has already been written and the handler should return resp.
func bindContact(ctx echo.Context) (input *service.ContactInput, ok bool, resp error) {
	req := new(httpdto.ContactRequest)
	if err := ctx.Bind(req); err != nil {
		logrus.WithError(err).Debug("Failed to bind contact request")
		return nil, false, ctx.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: "invalid request body"})
	}

	if err := req.Validate(); err != nil {
		logrus.Debug("Contact validation failed")
		return nil, false, ctx.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: err.Error()})
	}

	birthDate, _ := req.BirthDate()
	return &service.ContactInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		DateOfBirth: birthDate,
		Note:        req.Note,
	}, true, nil
}

func pathID(ctx echo.Context) (uint64, error) {
	return strconv.ParseUint(ctx.Param("id"), 10, 64)
}

func queryInt(ctx echo.Context, name string, defaultValue int) int {
	raw := ctx.QueryParam(name)
	if raw == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return defaultValue
	}
	return n
}
