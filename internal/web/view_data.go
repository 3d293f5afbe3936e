package web

import (
	"net/http"

	"github.com/gorilla/csrf"
	"github.com/pawmatch/pawmatch/internal"
	"github.com/pawmatch/pawmatch/internal/auth"
)

// viewData is the envelope passed to every view. The view specific
// data sits in Data.
type viewData struct {
	Version    string
	CSRFToken  string
	IsLoggedIn bool
	Identity   auth.Identity
	Flashes    []any
	Data       any
}

// writeView renders the named view. It saves the session first because
// consuming the flashes modifies it.
func (s *Server) writeView(w http.ResponseWriter, r *http.Request, name string, data any) error {
	sess, err := sessionFromCtx(r.Context())
	if err != nil {
		return err
	}

	ident, loggedIn := sess.Identity()

	vd := viewData{
		Version:    internal.BuildRevision,
		CSRFToken:  csrf.Token(r),
		IsLoggedIn: loggedIn,
		Identity:   ident,
		Flashes:    sess.ConsumeFlashes(),
		Data:       data,
	}

	err = s.deps.SessionStore.Save(r, w, sess)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return s.deps.ViewRenderer.Render(w, name, vd)
}
