package web

import (
	"context"
	"net/http"

	"github.com/pawmatch/pawmatch/internal/web/sessions"
)

// shared is the request scoped state every mapping function gets
// access to.
type shared struct {
	s    *Server
	w    http.ResponseWriter
	r    *http.Request
	sess *sessions.Session
}

// result is the result of a succesful request.
// it contains all relevant data because we can't know
// in advance what we will need to construct a response.
type result[IN, OUT any] struct {
	shared
	in  IN
	out OUT
}

// mapper is a generic HTTP handler that maps requests to target
// function calls and writes the output to the response.
type mapper[IN, OUT any] struct {
	s             *Server
	reqToInFunc   func(shared) (IN, error)
	targetFunc    func(context.Context, IN) (OUT, error)
	onSuccessFunc func(result[IN, OUT]) error
	onFailFunc    func(shared, error)
}

// onSuccess overwrites the function that writes the output to the response.
func (m *mapper[IN, OUT]) onSuccess(fn func(result[IN, OUT]) error) *mapper[IN, OUT] {
	m.onSuccessFunc = fn
	return m
}

func (m *mapper[IN, OUT]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sess, err := sessionFromCtx(r.Context())
	if err != nil {
		// No session middleware in front of us, nothing sensible to
		// render either.
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	sh := shared{
		s:    m.s,
		w:    w,
		r:    r,
		sess: sess,
	}

	in, err := m.reqToInFunc(sh)
	if err != nil {
		m.onFailFunc(sh, err)
		return
	}

	out, err := m.targetFunc(r.Context(), in)
	if err != nil {
		m.onFailFunc(sh, err)
		return
	}

	res := result[IN, OUT]{
		shared: sh,
		in:     in,
		out:    out,
	}

	err = m.onSuccessFunc(res)
	if err != nil {
		m.onFailFunc(sh, err)
	}
}
