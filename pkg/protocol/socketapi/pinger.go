package socketapi

import (
	"time"

	"github.com/fasthttp/websocket"

	"prismview.dev/pkg/utils/context"
	"prismview.dev/pkg/utils/log"
)

// Pinger sends periodic websocket pings so dead peers are noticed and their
// slots freed. When a ping fails or the context ends it closes the
// connection, which unblocks the read loop.
func (a *A) Pinger(ctx context.T, ticker *time.Ticker, cancel context.F) {
	defer func() {
		cancel()
		ticker.Stop()
		_ = a.Listener.Close()
	}()
	var err error
	for {
		select {
		case <-ticker.C:
			err = a.Listener.Conn.WriteControl(
				websocket.PingMessage, nil,
				time.Now().Add(DefaultPingWait),
			)
			if err != nil {
				log.D.F(
					"error writing ping to %s: %v; closing websocket",
					a.Listener.Remote(), err,
				)
				return
			}
		case <-ctx.Done():
			return
		}
	}
}
