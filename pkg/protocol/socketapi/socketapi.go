// Package socketapi runs the websocket side of the relay: it upgrades
// inbound connections, registers them with the role table, keeps them alive
// with pings, and feeds everything they send to the relay for forwarding.
package socketapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/fasthttp/websocket"

	"prismview.dev/pkg/app/relay/roles"
	"prismview.dev/pkg/interfaces/server"
	"prismview.dev/pkg/protocol/ws"
	"prismview.dev/pkg/utils/chk"
	"prismview.dev/pkg/utils/context"
	"prismview.dev/pkg/utils/log"
	"prismview.dev/pkg/utils/units"
)

const (
	DefaultWriteWait      = 10 * time.Second
	DefaultPongWait       = 60 * time.Second
	DefaultPingWait       = DefaultPongWait / 2
	DefaultMaxMessageSize = 1 * units.Mb
)

// A ties one websocket connection to the relay: a context for its lifetime,
// the listener wrapper, and the server interface.
type A struct {
	Ctx context.T
	*ws.Listener
	server.I
}

// Serve upgrades an HTTP request to a websocket, registers the connection
// with the role table and runs its read loop until the peer disconnects or
// the relay shuts down. Every connection gets a read loop regardless of
// role: the prism's messages relay, everyone else's are observed only so
// disconnects free slots promptly.
func (a *A) Serve(w http.ResponseWriter, r *http.Request, s server.I) {
	var err error
	ticker := time.NewTicker(DefaultPingWait)
	var cancel context.F
	a.Ctx, cancel = context.Cancel(s.Context())
	var conn *websocket.Conn
	conn, err = Upgrader.Upgrade(w, r, nil)
	if chk.E(err) {
		log.E.F("failed to upgrade websocket: %v", err)
		return
	}
	a.Listener = ws.NewListener(conn, r)
	s.Roles().Receive(&roles.W{Listener: a.Listener, Stop: cancel})
	defer func() {
		cancel()
		ticker.Stop()
		s.Roles().Receive(&roles.W{Cancel: true, Listener: a.Listener})
		chk.D(a.Listener.Close())
	}()
	conn.SetReadLimit(DefaultMaxMessageSize)
	chk.E(conn.SetReadDeadline(time.Now().Add(DefaultPongWait)))
	conn.SetPongHandler(
		func(string) error {
			chk.E(conn.SetReadDeadline(time.Now().Add(DefaultPongWait)))
			return nil
		},
	)
	go a.Pinger(a.Ctx, ticker, cancel)
	var message []byte
	var typ int
	for {
		select {
		case <-a.Ctx.Done():
			return
		default:
		}
		if typ, message, err = conn.ReadMessage(); err != nil {
			if strings.Contains(
				err.Error(), "use of closed network connection",
			) {
				return
			}
			if websocket.IsUnexpectedCloseError(
				err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseNoStatusReceived,
				websocket.CloseAbnormalClosure,
			) {
				log.W.F(
					"unexpected close error from %s: %v",
					a.Listener.Remote(), err,
				)
			}
			return
		}
		// forwarding happens on this goroutine so relay order matches read
		// order
		a.HandleMessage(typ, message)
	}
}
