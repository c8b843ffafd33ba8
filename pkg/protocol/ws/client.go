package ws

import (
	"net/http"
	"sync"

	"github.com/coder/websocket"
	"go.uber.org/atomic"

	"prismview.dev/pkg/utils/chk"
	"prismview.dev/pkg/utils/context"
	"prismview.dev/pkg/utils/errorf"
	"prismview.dev/pkg/utils/units"
)

type writeRequest struct {
	msg    []byte
	answer chan error
}

// Client is an outbound connection to the relay. Writes are serialized
// through a queue and every received message is delivered on the Messages
// channel, which closes when the connection ends.
type Client struct {
	URL           string
	RequestHeader http.Header

	Messages chan []byte

	conn       *websocket.Conn
	writeQueue chan writeRequest
	ctx        context.T
	cancel     context.F
	connErr    atomic.Error
	closeOnce  sync.Once
}

// Dial connects a Client to a relay url. The context bounds the life of the
// whole connection, not just the handshake.
func Dial(c context.T, url string, hdr ...http.Header) (cl *Client, err error) {
	ctx, cancel := context.Cancel(c)
	var h http.Header
	if len(hdr) > 0 {
		h = hdr[0]
	}
	var conn *websocket.Conn
	if conn, _, err = websocket.Dial(
		ctx, url, &websocket.DialOptions{HTTPHeader: h},
	); chk.E(err) {
		cancel()
		return
	}
	conn.SetReadLimit(units.Mb)
	cl = &Client{
		URL:           url,
		RequestHeader: h,
		Messages:      make(chan []byte, 32),
		conn:          conn,
		writeQueue:    make(chan writeRequest),
		ctx:           ctx,
		cancel:        cancel,
	}
	go cl.readPump()
	go cl.writePump()
	return
}

func (cl *Client) readPump() {
	defer func() {
		cl.cancel()
		close(cl.Messages)
	}()
	for {
		_, b, err := cl.conn.Read(cl.ctx)
		if err != nil {
			cl.connErr.Store(err)
			return
		}
		select {
		case cl.Messages <- b:
		case <-cl.ctx.Done():
			return
		}
	}
}

func (cl *Client) writePump() {
	for {
		select {
		case wr := <-cl.writeQueue:
			err := cl.conn.Write(cl.ctx, websocket.MessageText, wr.msg)
			wr.answer <- err
			if err != nil {
				cl.connErr.Store(err)
				cl.cancel()
				return
			}
		case <-cl.ctx.Done():
			return
		}
	}
}

// Write sends a text message and waits for the write to complete.
func (cl *Client) Write(msg []byte) (err error) {
	wr := writeRequest{msg: msg, answer: make(chan error, 1)}
	select {
	case cl.writeQueue <- wr:
	case <-cl.ctx.Done():
		return errorf.W("write to closed connection %s", cl.URL)
	}
	select {
	case err = <-wr.answer:
	case <-cl.ctx.Done():
		err = cl.Err()
	}
	return
}

// Err returns the error that ended the connection, if any.
func (cl *Client) Err() (err error) { return cl.connErr.Load() }

// Done closes when the connection has ended.
func (cl *Client) Done() <-chan struct{} { return cl.ctx.Done() }

// Close performs a normal websocket closure.
func (cl *Client) Close() (err error) {
	cl.closeOnce.Do(
		func() {
			err = cl.conn.Close(websocket.StatusNormalClosure, "")
			cl.cancel()
		},
	)
	return
}
