// Package servemux wraps a chi router with the permissive CORS headers the
// relay serves on its plain HTTP routes.
package servemux

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type S struct {
	chi.Router
}

func New() (c *S) {
	c = &S{chi.NewRouter()}
	return
}

func (c *S) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE")
	w.Header().Set(
		"Access-Control-Allow-Headers", "Content-Type, Authorization",
	)
	if r.Method == http.MethodOptions {
		return
	}
	c.Router.ServeHTTP(w, r)
}
