package web

import (
	"context"
	"errors"
	"net/http"

	"github.com/gorilla/schema"
	"github.com/pawmatch/pawmatch/internal/errorz"
)

// newViewHandler creates a HTTP Handler that renders the view with the given name.
func newViewHandler(s *Server, name string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		err := s.writeView(w, r, name, nil)
		if err != nil {
			s.handleError(w, r, err)
			return
		}
	})
}

// newHandler creates a HTTP Handler that:
// 1. Maps the request to a value of input type IN.
// 2. Calls the target func with that value.
// 3. Writes the output of type OUT to the response.
//
// Errors are written using the server error handler.
func newHandler[IN, OUT any](srv *Server, targetFunc func(context.Context, IN) (OUT, error)) *mapper[IN, OUT] {
	return &mapper[IN, OUT]{
		s: srv,
		reqToInFunc: func(sh shared) (IN, error) {
			return defaultReqToIn[IN](srv, sh)
		},
		targetFunc: targetFunc,
		onSuccessFunc: func(res result[IN, OUT]) error {
			return defaultSuccess(srv, res)
		},
		onFailFunc: func(sh shared, err error) {
			srv.handleError(sh.w, sh.r, err)
		},
	}
}

// newInputHandler creates a HTTP Handler that:
// 1. Maps the request to a value of type IN.
// 2. Calls the target func with that value.
// 3. Writes a status 200 response to the client if target func was successful.
//
// Errors are written using the server error handler.
func newInputHandler[IN any](srv *Server, targetFunc func(context.Context, IN) error) *mapper[IN, struct{}] {
	return &mapper[IN, struct{}]{
		s: srv,
		reqToInFunc: func(sh shared) (IN, error) {
			return defaultReqToIn[IN](srv, sh)
		},
		targetFunc: func(ctx context.Context, in IN) (struct{}, error) {
			err := targetFunc(ctx, in)
			if err != nil {
				return struct{}{}, err
			}

			return struct{}{}, nil
		},
		onSuccessFunc: func(res result[IN, struct{}]) error {
			return defaultSuccess(srv, res)
		},
		onFailFunc: func(sh shared, err error) {
			srv.handleError(sh.w, sh.r, err)
		},
	}
}

// defaultReqToIn is the default way to map a request to a struct.
func defaultReqToIn[IN any](srv *Server, sh shared) (IN, error) {
	var in IN
	err := sh.r.ParseForm()
	if err != nil {
		return in, err
	}

	// Remove the CSRF token from the form, it won't need to be mapped
	// to any target types and the decoder will fail on it.
	sh.r.Form.Del(csrfTokenField)

	// Empty inputs are treated as absent. Optional fields decode to
	// nil pointers instead of zero values this way.
	for key, vals := range sh.r.Form {
		if len(vals) == 1 && vals[0] == "" {
			sh.r.Form.Del(key)
		}
	}

	err = srv.decoder.Decode(&in, sh.r.Form)
	return in, decodeError(err)
}

func decodeError(err error) error {
	if err == nil {
		return nil
	}

	var multiErr schema.MultiError
	if errors.As(err, &multiErr) {
		var invalidInput errorz.InvalidInput
		for key, e := range multiErr {
			invalidInput = append(invalidInput, errorz.Keyed{
				Key: key,
				Err: e,
			})
		}

		return invalidInput
	}

	return err
}

// defaultSuccess is the default way to write a response to the client.
// Endpoints that render a view or redirect overwrite this via onSuccess.
func defaultSuccess[IN, OUT any](_ *Server, _ result[IN, OUT]) error {
	return nil
}
