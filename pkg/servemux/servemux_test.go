package servemux

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPreflight(t *testing.T) {
	m := New()
	var handled bool
	m.Get(
		"/x", func(w http.ResponseWriter, r *http.Request) {
			handled = true
		},
	)
	rec := httptest.NewRecorder()
	m.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/x", nil))
	require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	require.False(t, handled, "preflight must not reach the handler")

	rec = httptest.NewRecorder()
	m.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	require.True(t, handled)
	require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
