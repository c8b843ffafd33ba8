// Package publisher defines the seam between the websocket read loops and
// the component that decides where messages go.
package publisher

import (
	"prismview.dev/pkg/interfaces/typer"
	"prismview.dev/pkg/protocol/ws"
)

// Message is a control message carrying listener lifecycle information.
type Message = typer.T

type I interface {
	typer.T
	// Deliver hands a payload read from a listener to the relay for
	// forwarding. The payload is opaque and must not be modified.
	Deliver(from *ws.Listener, typ int, msg []byte)
	// Receive processes a listener lifecycle message (registration or
	// removal).
	Receive(msg Message)
}
