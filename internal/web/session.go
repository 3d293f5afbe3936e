package web

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pawmatch/pawmatch/internal/auth"
	"github.com/pawmatch/pawmatch/internal/web/sessions"
)

// sessionMiddleware injects the session in the context. If the session
// carries an identity, that is injected as well.
func sessionMiddleware(srv *Server) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := srv.deps.SessionStore.Get(r)
			if err != nil {
				srv.handleError(w, r, err)
				return
			}

			ctx := ctxWithSession(r.Context(), sess)
			if ident, ok := sess.Identity(); ok {
				ctx = ctxWithIdentity(ctx, ident)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

type ctxKey string

const (
	sessionCtxKey  ctxKey = "_session"
	identityCtxKey ctxKey = "_identity"
)

func ctxWithSession(ctx context.Context, sess *sessions.Session) context.Context {
	return context.WithValue(ctx, sessionCtxKey, sess)
}

func sessionFromCtx(ctx context.Context) (*sessions.Session, error) {
	sess, ok := ctx.Value(sessionCtxKey).(*sessions.Session)
	if !ok {
		return nil, fmt.Errorf("could not get session from context")
	}

	return sess, nil
}

func ctxWithIdentity(ctx context.Context, ident auth.Identity) context.Context {
	return context.WithValue(ctx, identityCtxKey, ident)
}

// identityFromCtx returns the identity of the requesting client. The
// zero value is the anonymous identity.
func identityFromCtx(ctx context.Context) auth.Identity {
	ident, ok := ctx.Value(identityCtxKey).(auth.Identity)
	if !ok {
		return auth.Identity{}
	}

	return ident
}
