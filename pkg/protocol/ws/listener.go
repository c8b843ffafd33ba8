// Package ws wraps inbound relay websockets with serialized writes, and
// provides the outbound client used by the command line peers.
package ws

import (
	"net/http"
	"strings"
	"sync"

	"github.com/fasthttp/websocket"

	"go.uber.org/atomic"
)

// Listener is a websocket implementation for a relay listener.
type Listener struct {
	mutex   sync.Mutex
	Conn    *websocket.Conn
	Request *http.Request
	remote  atomic.String
}

// NewListener creates a new Listener for an inbound relay connection.
func NewListener(conn *websocket.Conn, req *http.Request) (l *Listener) {
	l = &Listener{Conn: conn, Request: req}
	if req != nil {
		l.remote.Store(GetRemoteFromReq(req))
	}
	if l.remote.Load() == "" && conn != nil {
		// no proxy headers, use the socket peer address
		l.remote.Store(conn.NetConn().RemoteAddr().String())
	}
	return
}

// Write a text message to send to a client.
func (l *Listener) Write(p []byte) (n int, err error) {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	err = l.Conn.WriteMessage(websocket.TextMessage, p)
	if err != nil {
		n = len(p)
		if strings.Contains(err.Error(), "close sent") {
			_ = l.Conn.Close()
			err = nil
			return
		}
	}
	return
}

// WriteMessage is a wrapper around the websocket WriteMessage, which includes
// a websocket message type identifier.
func (l *Listener) WriteMessage(t int, b []byte) error {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	return l.Conn.WriteMessage(t, b)
}

// Remote returns the stored remote address of the client.
func (l *Listener) Remote() string { return l.remote.Load() }

// Req returns the http.Request associated with the client connection to the
// Listener.
func (l *Listener) Req() *http.Request { return l.Request }

// Close the Listener connection from the relay side.
func (l *Listener) Close() (err error) { return l.Conn.Close() }

// GetRemoteFromReq returns the client address for a request, preferring the
// forwarding headers a reverse proxy populates.
func GetRemoteFromReq(r *http.Request) (rr string) {
	remoteAddress := r.Header.Get("X-Forwarded-For")
	if remoteAddress == "" {
		return r.RemoteAddr
	}
	split := strings.Split(remoteAddress, ",")
	if len(split) > 0 {
		rr = strings.TrimSpace(split[0])
	}
	return
}
