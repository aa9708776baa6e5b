// Package router assembles the HTTP surface: public login and reset
// endpoints behind per-IP rate limiting, authenticated OTP and post
// endpoints behind JWT verification.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/go-chi/jwtauth/v5"

	loginapi "github.com/chirper-app/gatekit/pkg/login/api"
	loginhistoryapi "github.com/chirper-app/gatekit/pkg/loginhistory/api"
	postapi "github.com/chirper-app/gatekit/pkg/post/api"
	"github.com/chirper-app/gatekit/pkg/tokengenerator"
	verificationapi "github.com/chirper-app/gatekit/pkg/verification/api"
)

// Config carries the handlers and auth settings for route setup.
type Config struct {
	LoginHandler        *loginapi.Handler
	VerificationHandler *verificationapi.Handler
	PostHandler         *postapi.Handler
	HistoryHandler      *loginhistoryapi.Handler
	JwtAuth             *jwtauth.JWTAuth

	// PublicRequestsPerMinute limits unauthenticated endpoints per IP.
	// Zero disables the limiter.
	PublicRequestsPerMinute int
}

// SetupRoutes builds the chi router for the gate service.
func SetupRoutes(cfg Config) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Route("/api", func(api chi.Router) {
		// Public: login, step-up, password reset.
		api.Group(func(public chi.Router) {
			if cfg.PublicRequestsPerMinute > 0 {
				public.Use(httprate.LimitByIP(cfg.PublicRequestsPerMinute, time.Minute))
			}
			cfg.LoginHandler.Routes(public)
		})

		// Authenticated: audio and language OTP flows, guarded publish,
		// login history.
		api.Group(func(authenticated chi.Router) {
			authenticated.Use(jwtauth.Verify(cfg.JwtAuth, jwtauth.TokenFromHeader, tokenFromAccessCookie))
			authenticated.Use(jwtauth.Authenticator(cfg.JwtAuth))
			cfg.VerificationHandler.Routes(authenticated)
			cfg.PostHandler.Routes(authenticated)
			cfg.HistoryHandler.Routes(authenticated)
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	return r
}

// tokenFromAccessCookie reads the JWT from the login cookie so browser
// clients do not need to set an Authorization header.
func tokenFromAccessCookie(r *http.Request) string {
	cookie, err := r.Cookie(tokengenerator.AccessTokenName)
	if err != nil {
		return ""
	}
	return cookie.Value
}
