package main

import (
	"context"
	"net/http"

	"github.com/nhan10132020/filmlist/internal/data"
)

type ctxKey struct{}

// contextSetUser returns a copy of r carrying the caller, anonymous or not.
func (app *application) contextSetUser(r *http.Request, user *data.User) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), ctxKey{}, user))
}

// contextGetUser panics when authenticate has not run, since every route sits behind it.
func (app *application) contextGetUser(r *http.Request) *data.User {
	user, ok := r.Context().Value(ctxKey{}).(*data.User)
	if !ok {
		panic("missing user value in request context")
	}
	return user
}
