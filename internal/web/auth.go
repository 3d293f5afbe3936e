package web

import (
	"net/http"

	"github.com/pawmatch/pawmatch/internal/auth"
)

func (s *Server) public(pattern string, handler http.Handler) {
	s.mux.Handle(pattern, handler)
}

// publicOnly redirects authenticated clients to their role's home
// page. Login and registration pages have nothing to offer them.
func (s *Server) publicOnly(pattern string, handler http.Handler) {
	s.mux.Handle(pattern, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ident := identityFromCtx(r.Context())
		if !ident.IsAnonymous() {
			http.Redirect(w, r, roleHome(ident.UserType), http.StatusFound)
			return
		}

		handler.ServeHTTP(w, r)
	}))
}

func (s *Server) loggedIn(pattern string, handler http.Handler) {
	s.mux.Handle(pattern, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ident := identityFromCtx(r.Context())
		if err := auth.Authenticated(ident); err != nil {
			s.handleError(w, r, err)
			return
		}

		handler.ServeHTTP(w, r)
	}))
}

// roleHome is where a client ends up after logging in. Freelancers go
// browse jobs, employers go manage their profile and pets.
func roleHome(userType auth.UserType) string {
	if userType == auth.UserTypeFreelancer {
		return "/jobs"
	}

	return "/edit-profile"
}
