// Package relay runs the visualization relay server: an HTTP listener that
// upgrades websocket connections and bridges the prism source to the
// visualization sink.
package relay

import (
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/cors"

	"prismview.dev/pkg/app/config"
	"prismview.dev/pkg/app/relay/roles"
	"prismview.dev/pkg/servemux"
	"prismview.dev/pkg/utils/chk"
	"prismview.dev/pkg/utils/context"
	"prismview.dev/pkg/utils/log"
)

// Server is the relay process: role table, HTTP listener and status API.
type Server struct {
	Ctx    context.T
	Cancel context.F

	// Addr is the bound listen address, available once Start has signalled
	// the started channels.
	Addr string

	mux        *servemux.S
	httpServer *http.Server
	roles      *roles.R
	started    time.Time
	*config.C
}

// ServerParams carries what NewServer needs: a root context with its cancel,
// and the configuration.
type ServerParams struct {
	Ctx    context.T
	Cancel context.F
	*config.C
}

// NewServer creates a Server with an empty role table and mounts the status
// API on the provided mux.
func NewServer(sp *ServerParams, serveMux *servemux.S) (
	s *Server, err error,
) {
	s = &Server{
		Ctx:     sp.Ctx,
		Cancel:  sp.Cancel,
		mux:     serveMux,
		roles:   roles.New(),
		started: time.Now(),
		C:       sp.C,
	}
	s.registerAPI()
	return
}

// ServeHTTP routes websocket upgrade requests on the root path to the relay
// and everything else to the mux.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/" && r.Header.Get("Upgrade") == "websocket" {
		s.handleWebsocket(w, r)
		return
	}
	s.mux.ServeHTTP(w, r)
}

// Start listens on host:port and serves until Shutdown. Any started
// channels are closed once the listener is bound, at which point Addr holds
// the real bound address.
func (s *Server) Start(
	host string, port int, started ...chan bool,
) (err error) {
	addr := net.JoinHostPort(host, strconv.Itoa(port))
	log.I.F("starting relay listener at %s", addr)
	var ln net.Listener
	if ln, err = net.Listen("tcp", addr); chk.E(err) {
		return
	}
	s.Addr = ln.Addr().String()
	s.httpServer = &http.Server{
		Handler:           cors.Default().Handler(s),
		Addr:              s.Addr,
		ReadHeaderTimeout: 7 * time.Second,
		IdleTimeout:       28 * time.Second,
	}
	for _, startedC := range started {
		close(startedC)
	}
	if err = s.httpServer.Serve(ln); errors.Is(err, http.ErrServerClosed) {
		err = nil
	} else {
		chk.E(err)
	}
	return
}

// Shutdown stops the listener and closes every live connection.
func (s *Server) Shutdown() {
	log.I.Ln("shutting down relay")
	s.Cancel()
	s.roles.CloseAll()
	if s.httpServer != nil {
		log.W.Ln("shutting down relay listener")
		chk.E(s.httpServer.Shutdown(context.Bg()))
	}
}

// Context returns the server's root context.
func (s *Server) Context() context.T { return s.Ctx }

// Roles returns the relay's role table.
func (s *Server) Roles() *roles.R { return s.roles }

// Config returns the active configuration.
func (s *Server) Config() *config.C { return s.C }
