package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"typeevent/internal/domain"
)

type staticVerifier struct{ userID string }

func (v staticVerifier) Verify(string) (string, error) { return v.userID, nil }

func newTestRouter(t *testing.T) *http.ServeMux {
	t.Helper()
	return NewRouter(
		NewAuthController(&fakeAuthService{user: sampleUser(), token: "tok"}),
		NewEventController(&fakeEventService{event: sampleEvent(), events: []*domain.Event{sampleEvent()}}),
		NewCertificateController(&fakeCertificateService{report: &domain.IssuanceReport{EventID: "ev-1"}}),
		staticVerifier{userID: "creator-1"},
		t.TempDir(),
	)
}

func TestRouterRoutesEventsMeBeforeSlug(t *testing.T) {
	mux := newTestRouter(t)

	// /events/me must hit the authenticated listing, not the slug lookup.
	req := httptest.NewRequest(http.MethodGet, "/events/me", nil)
	req.Header.Set("Authorization", "Bearer tok")
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotContains(t, rr.Body.String(), `"slug":"me"`)

	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/events/go-conf-abc", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"slug":"go-conf-abc"`)
}

func TestRouterProtectedRoutesRequireToken(t *testing.T) {
	mux := newTestRouter(t)

	protected := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/events"},
		{http.MethodGet, "/events/me"},
		{http.MethodPost, "/events/go-conf-abc/enroll"},
		{http.MethodGet, "/events/go-conf-abc/participants"},
		{http.MethodGet, "/events/go-conf-abc/participants/export"},
		{http.MethodPost, "/events/go-conf-abc/certificates"},
		{http.MethodGet, "/events/go-conf-abc/certificates"},
		{http.MethodGet, "/me/events"},
		{http.MethodGet, "/me/certificates"},
	}
	for _, route := range protected {
		rr := httptest.NewRecorder()
		mux.ServeHTTP(rr, httptest.NewRequest(route.method, route.path, nil))
		assert.Equal(t, http.StatusUnauthorized, rr.Code, "%s %s without a token", route.method, route.path)
	}

	// The public event page needs no token.
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/events/go-conf-abc", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}
