// Package web exposes the job marketplace over HTTP. Pages are server
// rendered, clients are identified by a session cookie.
package web

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gorilla/csrf"
	"github.com/gorilla/schema"
	"github.com/pawmatch/pawmatch/internal/auth"
	"github.com/pawmatch/pawmatch/internal/errorz"
	"github.com/pawmatch/pawmatch/internal/krypto"
	"github.com/pawmatch/pawmatch/internal/market"
	"github.com/pawmatch/pawmatch/internal/web/sessions"
)

const (
	csrfTokenField      = "csrf_token"
	csrfTokenCookieName = "pm-csrf"
)

// ViewRenderer renders named views with the given data.
type ViewRenderer interface {
	Render(w io.Writer, name string, data any) error
}

// ServerDeps are the dependencies for the server.
type ServerDeps struct {
	Logger       *slog.Logger
	ViewRenderer ViewRenderer
	Service      *market.Service
	SessionStore *sessions.Store
	DistFS       http.FileSystem
}

// ServerConfig is the configuration for the server.
type ServerConfig struct {
	CSRFKey      krypto.Key
	SecureCookie bool
}

type Server struct {
	deps    *ServerDeps
	mux     *http.ServeMux
	decoder *schema.Decoder
	handler http.Handler
}

func NewServer(deps *ServerDeps, cfg ServerConfig) *Server {
	s := &Server{
		deps:    deps,
		mux:     http.NewServeMux(),
		decoder: schema.NewDecoder(),
	}

	// Most non-static endpoints below are created using the newHandler functions.
	// These functions return handlers that automatically map between HTTP requests, target functions and HTTP responses.
	// The request mapping and response writing is customizable.

	// Homepage endpoint.
	s.public("GET /{$}", newViewHandler(s, "home"))

	// Register user endpoints.
	{
		s.publicOnly("GET /register", newViewHandler(s, "register-user"))
	}
	{
		const route = "POST /register"
		h := newHandler(s, deps.Service.Register)
		h.onSuccess(func(r result[market.Registration, auth.Identity]) error {
			startSession(r, r.out)

			err := r.s.deps.SessionStore.Save(r.r, r.w, r.sess)
			if err != nil {
				return err
			}

			http.Redirect(r.w, r.r, "/login", http.StatusFound)
			return nil
		})

		s.publicOnly(route, h)
	}

	// Login user endpoints.
	{
		s.publicOnly("GET /login", newViewHandler(s, "login-user"))
	}
	{
		const route = "POST /login"
		h := newHandler(s, deps.Service.Authenticate)
		h.onSuccess(func(r result[market.Credentials, auth.Identity]) error {
			startSession(r, r.out)

			err := r.s.deps.SessionStore.Save(r.r, r.w, r.sess)
			if err != nil {
				return err
			}

			http.Redirect(r.w, r.r, roleHome(r.out.UserType), http.StatusFound)
			return nil
		})

		s.publicOnly(route, h)
	}

	// Logout endpoint. Destroying an anonymous session is fine, no
	// login requirement here.
	{
		const route = "GET /logout"
		h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := sessionFromCtx(r.Context())
			if err != nil {
				s.handleError(w, r, err)
				return
			}

			sess.Destroy()
			err = s.deps.SessionStore.Save(r, w, sess)
			if err != nil {
				s.deps.Logger.Error("failed to destroy session", "url", r.URL.String(), "error", err)
				http.Error(w, "could not end session", http.StatusBadRequest)
				return
			}

			http.Redirect(w, r, "/login", http.StatusFound)
		})

		s.public(route, h)
	}

	// Job listing endpoint.
	{
		const route = "GET /jobs"
		h := newHandler(s, func(ctx context.Context, _ struct{}) ([]market.JobListing, error) {
			return deps.Service.OpenJobs(ctx, identityFromCtx(ctx))
		})
		h.onSuccess(func(r result[struct{}, []market.JobListing]) error {
			return r.s.writeView(r.w, r.r, "job-listing", r.out)
		})

		s.loggedIn(route, h)
	}

	// Profile endpoints.
	{
		const route = "GET /edit-profile"
		h := newHandler(s, func(ctx context.Context, _ struct{}) (market.Profile, error) {
			return deps.Service.Profile(ctx, identityFromCtx(ctx))
		})
		h.onSuccess(func(r result[struct{}, market.Profile]) error {
			return r.s.writeView(r.w, r.r, "edit-profile", r.out)
		})

		s.loggedIn(route, h)
	}
	{
		const route = "POST /edit-profile"
		h := newInputHandler(s, func(ctx context.Context, update market.ProfileUpdate) error {
			return deps.Service.UpdateProfile(ctx, identityFromCtx(ctx), update)
		})
		h.onSuccess(func(r result[market.ProfileUpdate, struct{}]) error {
			r.sess.AddFlash("Your profile has been updated.")
			err := r.s.deps.SessionStore.Save(r.r, r.w, r.sess)
			if err != nil {
				return err
			}

			http.Redirect(r.w, r.r, "/edit-profile", http.StatusFound)
			return nil
		})

		s.loggedIn(route, h)
	}
	{
		const route = "POST /edit-profile/add-pet"
		h := newHandler(s, func(ctx context.Context, newPet market.NewPet) (market.Pet, error) {
			return deps.Service.AddPet(ctx, identityFromCtx(ctx), newPet)
		})
		h.onSuccess(func(r result[market.NewPet, market.Pet]) error {
			r.sess.AddFlash("Pet added to your profile.")
			err := r.s.deps.SessionStore.Save(r.r, r.w, r.sess)
			if err != nil {
				return err
			}

			http.Redirect(r.w, r.r, "/edit-profile", http.StatusFound)
			return nil
		})

		s.loggedIn(route, h)
	}

	s.mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(s.deps.DistFS)))

	// Wrap the mux with global middlewares.
	csrfMW := csrf.Protect(
		cfg.CSRFKey.SecretValue(),
		csrf.CookieName(csrfTokenCookieName),
		csrf.FieldName(csrfTokenField),
		csrf.Secure(cfg.SecureCookie),
	)

	middlewares := []func(http.Handler) http.Handler{
		csrfMW,
		sessionMiddleware(s),
	}
	s.handler = s.mux
	for i := len(middlewares) - 1; i >= 0; i-- {
		s.handler = middlewares[i](s.handler)
	}

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// startSession stores the identity in the session after a login or
// registration.
//
// The CSRF token cookie is cleared to provide defense in depth against
// fixation attacks. If an attacker somehow gained access to the CSRF
// token before the user logged in, it's worthless afterwards. A new
// token is generated on the next GET request.
func startSession[IN any](r result[IN, auth.Identity], ident auth.Identity) {
	http.SetCookie(r.w, &http.Cookie{
		Name:   csrfTokenCookieName,
		MaxAge: -1,
	})

	r.sess.SetIdentity(ident)
}

func (s *Server) handleError(w http.ResponseWriter, r *http.Request, err error) {
	var invalidInput errorz.InvalidInput
	switch {
	case errors.As(err, &invalidInput):
		http.Error(w, "invalid input", http.StatusBadRequest)
	case errors.Is(err, errorz.ErrInvalidCredentials):
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
	case errors.Is(err, errorz.ErrUnauthenticated):
		http.Error(w, "login required", http.StatusUnauthorized)
	case errors.Is(err, errorz.ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	default:
		// ErrNotFound ends up here on purpose. The service only
		// returns it when a row that must exist is missing, that is an
		// integrity failure, not a client error.
		s.deps.Logger.Error("internal server error", "url", r.URL.String(), "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
