// Package server defines the interface the socket API uses to reach the
// relay without importing it.
package server

import (
	"prismview.dev/pkg/app/config"
	"prismview.dev/pkg/app/relay/roles"
	"prismview.dev/pkg/utils/context"
)

type I interface {
	// Context returns the server's root context, done at shutdown.
	Context() context.T
	// Roles returns the relay's role table.
	Roles() *roles.R
	// Config returns the active configuration.
	Config() *config.C
	// Shutdown stops the server and closes all connections.
	Shutdown()
}
