package http

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"typeevent/internal/delivery/http/middleware"
	"typeevent/internal/domain"
)

// NewRouter initializes the HTTP router with all application routes.
// mediaDir is served under /media/ for logo and certificate downloads.
func NewRouter(
	authController *AuthController,
	eventController *EventController,
	certificateController *CertificateController,
	verifier domain.TokenVerifier,
	mediaDir string,
) *http.ServeMux {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(verifier)

	// Auth
	mux.HandleFunc("POST /auth/signup", authController.SignUp)
	mux.HandleFunc("POST /auth/login", authController.Login)

	// Events. "/events/me" is more specific than "/events/{slug}", so the
	// ServeMux routes it first.
	mux.HandleFunc("POST /events", auth(eventController.CreateEvent))
	mux.HandleFunc("GET /events/me", auth(eventController.ListMyEvents))
	mux.HandleFunc("GET /events/{slug}", eventController.GetEvent)
	mux.HandleFunc("POST /events/{slug}/enroll", auth(eventController.Enroll))
	mux.HandleFunc("GET /events/{slug}/participants", auth(eventController.ListParticipants))
	mux.HandleFunc("GET /events/{slug}/participants/export", auth(eventController.ExportRoster))

	// Certificates
	mux.HandleFunc("POST /events/{slug}/certificates", auth(certificateController.IssueCertificates))
	mux.HandleFunc("GET /events/{slug}/certificates", auth(certificateController.FindCertificate))
	mux.HandleFunc("GET /me/events", auth(eventController.ListEnrolledEvents))
	mux.HandleFunc("GET /me/certificates", auth(certificateController.ListMyCertificates))

	// Static media (logos and rendered certificates)
	mux.Handle("GET /media/", http.StripPrefix("/media/", http.FileServer(http.Dir(mediaDir))))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
