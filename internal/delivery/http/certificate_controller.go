package http

import (
	"errors"
	"net/http"
	"strings"

	"typeevent/internal/delivery/http/helpers"
	"typeevent/internal/delivery/http/middleware"
	"typeevent/internal/domain"
)

// CertificateURLResponse is the response body for the certificate lookup.
type CertificateURLResponse struct {
	DownloadURL string `json:"download_url"`
}

type CertificateController struct {
	Service domain.CertificateService
}

func NewCertificateController(svc domain.CertificateService) *CertificateController {
	return &CertificateController{Service: svc}
}

// IssueCertificates godoc
// @Summary Issue certificates for an event
// @Description Render and persist one certificate per enrolled participant who does not already hold one. Re-running on a fully issued event performs no writes. Only the event creator may call this; other callers receive 404.
// @Tags certificates
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Event slug"
// @Success 200 {object} helpers.APIResponse "data contains the issuance report"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{slug}/certificates [post]
func (c *CertificateController) IssueCertificates(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "authentication required")
		return
	}
	report, err := c.Service.IssueCertificates(r.Context(), r.PathValue("slug"), userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
			return
		}
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, report)
}

// FindCertificate godoc
// @Summary Look up a participant's certificate
// @Description Return the download URL of the certificate held by the participant with the given email, scoped to the event. Only the event creator may call this; a missing event, a non-creator caller, and a missing certificate all yield 404.
// @Tags certificates
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Event slug"
// @Param email query string true "Participant email"
// @Success 200 {object} helpers.APIResponse "data contains the certificate URL"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{slug}/certificates [get]
func (c *CertificateController) FindCertificate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "authentication required")
		return
	}
	email := strings.TrimSpace(strings.ToLower(r.URL.Query().Get("email")))
	if email == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "email query parameter is required")
		return
	}
	url, err := c.Service.FindCertificate(r.Context(), r.PathValue("slug"), email, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "certificate not found")
			return
		}
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, CertificateURLResponse{DownloadURL: url})
}

// ListMyCertificates godoc
// @Summary List the caller's certificates
// @Description List the certificates the caller holds across all events, newest first.
// @Tags certificates
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains the certificate list"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /me/certificates [get]
func (c *CertificateController) ListMyCertificates(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "authentication required")
		return
	}
	certs, err := c.Service.ListMyCertificates(r.Context(), userID)
	if err != nil {
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, certs)
}
