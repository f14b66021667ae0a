package controller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"orgadmin/internal/models"
	"orgadmin/internal/views"
)

type Service interface {
	ListOrganizations(ctx context.Context) ([]models.Organization, error)
	GetOrganization(ctx context.Context, organizationId string) (models.Organization, error)
	AddOrganization(ctx context.Context, o models.NewOrganization) (models.Organization, error)

	OrganizationMembers(ctx context.Context, organizationId string) ([]models.MemberView, error)
	AddUser(ctx context.Context, organizationId string, u models.NewUser) (models.OrganizationUser, error)
}

// Notification texts shown after form submissions.
const (
	MsgOrganizationCreated  = "Organization created successfully!"
	MsgOrganizationFailed   = "Failed to create organization"
	MsgUserAdded            = "User added successfully!"
	MsgUserFailed           = "Failed to create user"
	MsgMembershipFailed     = "Failed to add user to organization"
	MsgOrganizationNotFound = "Organization not found"
)

type Controller struct {
	service Service
	views   *views.Renderer
}

func NewController(service Service, renderer *views.Renderer) *Controller {
	return &Controller{service: service, views: renderer}
}

// GET /api/ping
func (c *Controller) Ping(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "ok")
}

// Service

type ErrorResponse struct {
	Reason string `json:"reason"`
}

type MessageResponse struct {
	Message      string                   `json:"message"`
	Organization *models.Organization     `json:"organization,omitempty"`
	User         *models.OrganizationUser `json:"user,omitempty"`
}

// errorStatus maps service errors to HTTP status codes. Store classification
// wins over the operation that failed.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, models.ErrInvalidForm):
		return http.StatusUnprocessableEntity
	case errors.Is(err, models.ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, models.ErrNoOrganization), errors.Is(err, models.ErrReference):
		return http.StatusNotFound
	case errors.Is(err, models.ErrIdentityCreation):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// errorMessage is the user facing text of a service error.
func errorMessage(err error) string {
	switch {
	case errors.Is(err, models.ErrMembershipCreation):
		return MsgMembershipFailed
	case errors.Is(err, models.ErrIdentityCreation):
		return MsgUserFailed
	case errors.Is(err, models.ErrOrganizationCreation):
		return MsgOrganizationFailed
	case errors.Is(err, models.ErrNoOrganization):
		return MsgOrganizationNotFound
	case errors.Is(err, models.ErrInvalidForm):
		return err.Error()
	default:
		return "internal server error"
	}
}

func logServiceError(r *http.Request, status int, err error) {
	logger := zerolog.Ctx(r.Context())
	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).Int("status", status).Msg("Request failed")
		return
	}
	logger.Warn().Err(err).Int("status", status).Msg("Request rejected")
}

func (c *Controller) errorResponse(w http.ResponseWriter, status int, text string) {
	c.writeJSON(w, status, ErrorResponse{Reason: text})
}

func (c *Controller) serviceErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	status := errorStatus(err)
	logServiceError(r, status, err)
	c.errorResponse(w, status, errorMessage(err))
}

func (c *Controller) marshalResponse(w http.ResponseWriter, data any) {
	c.writeJSON(w, http.StatusOK, data)
}

func (c *Controller) writeJSON(w http.ResponseWriter, status int, data any) {
	d, err := json.Marshal(data)
	if err != nil {
		status = http.StatusInternalServerError
		d = []byte(`{"reason":"could not marshal response data"}`)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_, err = w.Write(d)
	if err != nil {
		log.Debug().Err(err).Msg("controller.Controller.writeJSON: could not write response")
	}
}

func (c *Controller) readBody(src io.ReadCloser) ([]byte, error) {
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, err
	}
	src.Close()
	return data, nil
}
