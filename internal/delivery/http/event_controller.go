package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"typeevent/internal/delivery/http/helpers"
	"typeevent/internal/delivery/http/middleware"
	"typeevent/internal/domain"
)

const (
	dateLayout = "2006-01-02"

	// maxUploadBytes caps the whole multipart body. The service enforces the
	// 10 MB logo limit; the extra megabyte covers the text fields.
	maxUploadBytes = 11 << 20
)

type EventController struct {
	Service domain.EventService
}

func NewEventController(svc domain.EventService) *EventController {
	return &EventController{Service: svc}
}

// CreateEvent godoc
// @Summary Create an event
// @Description Create an event from a multipart form. Required fields: name, description, start_date (YYYY-MM-DD), end_date, training_hours, color_primary, color_secondary, color_background (hex, e.g. #1a2b3c), and a logo file up to 10 MB. The slug is derived from the name plus a unique suffix.
// @Tags events
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param name formData string true "Event name"
// @Param description formData string true "Event description"
// @Param start_date formData string true "Start date (YYYY-MM-DD)"
// @Param end_date formData string true "End date (YYYY-MM-DD)"
// @Param training_hours formData int true "Training hours (positive)"
// @Param color_primary formData string true "Primary hex color"
// @Param color_secondary formData string true "Secondary hex color"
// @Param color_background formData string true "Background hex color"
// @Param logo formData file true "Logo image"
// @Success 201 {object} helpers.APIResponse "data contains the created event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "authentication required")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid multipart form: "+err.Error())
		return
	}

	in := domain.CreateEventInput{
		CreatorID:       userID,
		Name:            strings.TrimSpace(r.FormValue("name")),
		Description:     strings.TrimSpace(r.FormValue("description")),
		ColorPrimary:    strings.TrimSpace(r.FormValue("color_primary")),
		ColorSecondary:  strings.TrimSpace(r.FormValue("color_secondary")),
		ColorBackground: strings.TrimSpace(r.FormValue("color_background")),
	}

	var errs []string
	var err error
	if in.StartDate, err = time.Parse(dateLayout, r.FormValue("start_date")); err != nil {
		errs = append(errs, "start_date must be a date in YYYY-MM-DD format")
	}
	if in.EndDate, err = time.Parse(dateLayout, r.FormValue("end_date")); err != nil {
		errs = append(errs, "end_date must be a date in YYYY-MM-DD format")
	}
	if in.TrainingHours, err = strconv.Atoi(r.FormValue("training_hours")); err != nil {
		errs = append(errs, "training_hours must be an integer")
	}

	file, header, err := r.FormFile("logo")
	if err != nil {
		errs = append(errs, "logo file is required")
	} else {
		defer file.Close()
		in.Logo, err = io.ReadAll(file)
		if err != nil {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "read logo: "+err.Error())
			return
		}
		in.LogoFilename = header.Filename
	}
	if len(errs) > 0 {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, strings.Join(errs, "; "))
		return
	}

	event, err := c.Service.CreateEvent(r.Context(), in)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}

	helpers.WriteJSONSuccess(w, http.StatusCreated, event)
}

// ListMyEvents godoc
// @Summary List events created by the caller
// @Description List the caller's events, newest first. An optional title query filters by case-insensitive substring match on the name.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param title query string false "Filter by name substring"
// @Success 200 {object} helpers.APIResponse "data contains the event list"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/me [get]
func (c *EventController) ListMyEvents(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "authentication required")
		return
	}
	events, err := c.Service.ListMyEvents(r.Context(), userID, r.URL.Query().Get("title"))
	if err != nil {
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, events)
}

// GetEvent godoc
// @Summary Get an event by slug
// @Description Public event page data, looked up by slug.
// @Tags events
// @Produce json
// @Param slug path string true "Event slug"
// @Success 200 {object} helpers.APIResponse "data contains the event"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{slug} [get]
func (c *EventController) GetEvent(w http.ResponseWriter, r *http.Request) {
	event, err := c.Service.GetEventBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		writeEventError(w, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// Enroll godoc
// @Summary Enroll in an event
// @Description Register the caller as a participant of the event.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Event slug"
// @Success 201 {object} helpers.APIResponse "data contains a confirmation message"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (already registered)"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{slug}/enroll [post]
func (c *EventController) Enroll(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "authentication required")
		return
	}
	if err := c.Service.Enroll(r.Context(), r.PathValue("slug"), userID); err != nil {
		writeEventError(w, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, map[string]string{"message": "enrollment confirmed"})
}

// ListParticipants godoc
// @Summary List event participants
// @Description List the event's participants in enrollment order. Only the event creator may call this; other callers receive 404.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Event slug"
// @Success 200 {object} helpers.APIResponse "data contains the participant list"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{slug}/participants [get]
func (c *EventController) ListParticipants(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "authentication required")
		return
	}
	participants, err := c.Service.ListParticipants(r.Context(), r.PathValue("slug"), userID)
	if err != nil {
		writeEventError(w, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, participants)
}

// ExportRoster godoc
// @Summary Export the participant roster as CSV
// @Description Download the roster as CSV rows of "username,email" with no header, in enrollment order. Only the event creator may call this; other callers receive 404.
// @Tags events
// @Produce text/csv
// @Security BearerAuth
// @Param slug path string true "Event slug"
// @Success 200 {string} string "CSV body"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{slug}/participants/export [get]
func (c *EventController) ExportRoster(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "authentication required")
		return
	}
	slug := r.PathValue("slug")
	csvBody, err := c.Service.ExportRoster(r.Context(), slug, userID)
	if err != nil {
		writeEventError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", slug+"-participants.csv"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(csvBody)
}

// ListEnrolledEvents godoc
// @Summary List events the caller is enrolled in
// @Description List the events the caller participates in, most recently enrolled first. An optional title query filters by name substring.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param title query string false "Filter by name substring"
// @Success 200 {object} helpers.APIResponse "data contains the event list"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /me/events [get]
func (c *EventController) ListEnrolledEvents(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "authentication required")
		return
	}
	events, err := c.Service.ListEnrolledEvents(r.Context(), userID, r.URL.Query().Get("title"))
	if err != nil {
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, events)
}

// writeEventError maps domain errors to HTTP responses.
func writeEventError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
	case errors.Is(err, domain.ErrAlreadyRegistered):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
	default:
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
	}
}
