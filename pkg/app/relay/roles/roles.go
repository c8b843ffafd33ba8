// Package roles owns the two peer slots of the relay: the visualization
// sink, which receives everything, and the prism source, whose messages are
// forwarded. Roles are granted strictly by arrival order: the first
// connection becomes the visualization, the second the prism. Connections
// beyond the second are held as spectators and take over a slot when one
// frees up.
package roles

import (
	"sync"

	"github.com/puzpuzpuz/xsync/v3"
	"go.uber.org/atomic"

	"prismview.dev/pkg/interfaces/publisher"
	"prismview.dev/pkg/protocol/ws"
	"prismview.dev/pkg/utils/context"
	"prismview.dev/pkg/utils/log"
)

// Role is the part a connection plays in the relay.
type Role int

const (
	RoleNone Role = iota
	RoleVisualization
	RolePrism
	RoleSpectator
)

func (r Role) String() string {
	switch r {
	case RoleVisualization:
		return "visualization"
	case RolePrism:
		return "prism"
	case RoleSpectator:
		return "spectator"
	}
	return "none"
}

// State is the relay's position in the two-slot assignment sequence.
type State int

const (
	// StateAwaitingVisualization means the visualization slot is empty.
	StateAwaitingVisualization State = iota
	// StateAwaitingPrism means the visualization slot is held but the prism
	// slot is empty.
	StateAwaitingPrism
	// StateConnected means both slots are held and relaying is live.
	StateConnected
)

func (s State) String() string {
	switch s {
	case StateAwaitingPrism:
		return "awaiting prism"
	case StateConnected:
		return "connected"
	}
	return "awaiting visualization"
}

// Type identifies roles control messages.
const Type = "roles"

// W is the lifecycle message a read loop sends to register or remove its
// listener.
type W struct {
	*ws.Listener

	// Cancel indicates the listener has disconnected and its slot, if any,
	// must be freed.
	Cancel bool

	// Stop cancels the listener's read loop; held so every connection can be
	// shut down at relay shutdown.
	Stop context.F
}

func (w *W) Type() (typeName string) { return Type }

// R is the role table. A single mutex guards the slots and the spectator
// queue; counters are atomic so the status endpoint reads them without
// taking the lock.
type R struct {
	mx            sync.Mutex
	visualization *ws.Listener
	prism         *ws.Listener
	spectators    []*ws.Listener
	stops         *xsync.MapOf[*ws.Listener, context.F]

	// Forwarded counts messages relayed to the visualization peer.
	Forwarded atomic.Int64
	// ForwardedBytes counts payload bytes relayed.
	ForwardedBytes atomic.Int64
	// Dropped counts prism messages that could not be delivered.
	Dropped atomic.Int64
}

// New creates an empty role table.
func New() (r *R) {
	return &R{stops: xsync.NewMapOf[*ws.Listener, context.F]()}
}

var _ publisher.I = &R{}

func (r *R) Type() (typeName string) { return Type }

// Receive handles listener lifecycle messages: registration assigns the
// first free role in arrival order, removal frees the slot and promotes the
// oldest spectator into it.
func (r *R) Receive(msg publisher.Message) {
	w, ok := msg.(*W)
	if !ok {
		return
	}
	if w.Cancel {
		r.remove(w.Listener)
		return
	}
	if w.Stop != nil {
		r.stops.Store(w.Listener, w.Stop)
	}
	r.mx.Lock()
	role := r.assign(w.Listener)
	r.mx.Unlock()
	log.I.F("%s connected as %s", w.Listener.Remote(), role)
}

// assign grants the first free role. Caller holds the mutex.
func (r *R) assign(l *ws.Listener) (role Role) {
	switch {
	case r.visualization == nil:
		r.visualization = l
		return RoleVisualization
	case r.prism == nil:
		r.prism = l
		return RolePrism
	default:
		r.spectators = append(r.spectators, l)
		return RoleSpectator
	}
}

// remove frees whatever part the listener held. A freed slot goes to the
// oldest spectator, if any.
func (r *R) remove(l *ws.Listener) {
	r.stops.Delete(l)
	r.mx.Lock()
	defer r.mx.Unlock()
	switch l {
	case r.visualization:
		r.visualization = r.popSpectator()
		if r.visualization != nil {
			log.I.F(
				"%s disconnected, %s promoted to visualization",
				l.Remote(), r.visualization.Remote(),
			)
			return
		}
		log.I.F("visualization %s disconnected", l.Remote())
	case r.prism:
		r.prism = r.popSpectator()
		if r.prism != nil {
			log.I.F(
				"%s disconnected, %s promoted to prism",
				l.Remote(), r.prism.Remote(),
			)
			return
		}
		log.I.F("prism %s disconnected", l.Remote())
	default:
		for i, s := range r.spectators {
			if s == l {
				r.spectators = append(
					r.spectators[:i], r.spectators[i+1:]...,
				)
				log.D.F("spectator %s disconnected", l.Remote())
				return
			}
		}
	}
}

// popSpectator shifts the oldest spectator off the queue. Caller holds the
// mutex.
func (r *R) popSpectator() (l *ws.Listener) {
	if len(r.spectators) == 0 {
		return
	}
	l = r.spectators[0]
	r.spectators = r.spectators[1:]
	return
}

// Deliver forwards a payload read from a listener. Only messages from the
// prism peer relay, and only while a visualization peer is present; anything
// else is dropped without an error reaching the sender.
func (r *R) Deliver(from *ws.Listener, typ int, msg []byte) {
	r.mx.Lock()
	prism, viz := r.prism, r.visualization
	r.mx.Unlock()
	if from != prism {
		log.T.F("ignoring %d byte message from %s peer", len(msg), r.RoleOf(from))
		return
	}
	if viz == nil {
		r.Dropped.Inc()
		log.D.F("no visualization peer, dropping %d byte message", len(msg))
		return
	}
	if err := viz.WriteMessage(typ, msg); err != nil {
		// best effort: the visualization read loop frees the slot when it
		// notices the disconnect
		r.Dropped.Inc()
		log.W.F(
			"failed to forward %d bytes to %s: %v", len(msg), viz.Remote(),
			err,
		)
		return
	}
	r.Forwarded.Inc()
	r.ForwardedBytes.Add(int64(len(msg)))
}

// RoleOf reports the part the listener currently plays.
func (r *R) RoleOf(l *ws.Listener) (role Role) {
	r.mx.Lock()
	defer r.mx.Unlock()
	switch l {
	case nil:
	case r.visualization:
		return RoleVisualization
	case r.prism:
		return RolePrism
	default:
		for _, s := range r.spectators {
			if s == l {
				return RoleSpectator
			}
		}
	}
	return RoleNone
}

// State reports the assignment state.
func (r *R) State() (s State) {
	r.mx.Lock()
	defer r.mx.Unlock()
	switch {
	case r.visualization == nil:
		return StateAwaitingVisualization
	case r.prism == nil:
		return StateAwaitingPrism
	}
	return StateConnected
}

// Snapshot is a point in time view of the role table for the status API.
type Snapshot struct {
	State          State
	Visualization  string
	Prism          string
	Spectators     int
	Forwarded      int64
	ForwardedBytes int64
	Dropped        int64
}

// Snapshot returns the current assignments and counters.
func (r *R) Snapshot() (snap Snapshot) {
	r.mx.Lock()
	if r.visualization != nil {
		snap.Visualization = r.visualization.Remote()
	}
	if r.prism != nil {
		snap.Prism = r.prism.Remote()
	}
	snap.Spectators = len(r.spectators)
	switch {
	case r.visualization == nil:
		snap.State = StateAwaitingVisualization
	case r.prism == nil:
		snap.State = StateAwaitingPrism
	default:
		snap.State = StateConnected
	}
	r.mx.Unlock()
	snap.Forwarded = r.Forwarded.Load()
	snap.ForwardedBytes = r.ForwardedBytes.Load()
	snap.Dropped = r.Dropped.Load()
	return
}

// CloseAll cancels every live read loop, used at relay shutdown.
func (r *R) CloseAll() {
	r.stops.Range(
		func(l *ws.Listener, stop context.F) bool {
			stop()
			return true
		},
	)
}
