// Package main is a websocket relay that bridges a prism node to its
// blockchain visualization: the first connection becomes the visualization
// sink, the second the prism source, and every message from the source is
// forwarded verbatim to the sink. Configuration is via environment variables
// or an optional .env file.
package main

import (
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/pkg/profile"

	"prismview.dev/pkg/app/config"
	"prismview.dev/pkg/app/relay"
	"prismview.dev/pkg/servemux"
	"prismview.dev/pkg/utils/chk"
	"prismview.dev/pkg/utils/context"
	"prismview.dev/pkg/utils/interrupt"
	"prismview.dev/pkg/utils/log"
	"prismview.dev/pkg/utils/lol"
	"prismview.dev/pkg/version"
)

func main() {
	var err error
	var cfg *config.C
	if cfg, err = config.New(); chk.T(err) {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n\n", err)
		config.PrintHelp(cfg, os.Stderr)
		os.Exit(1)
	}
	if config.GetEnv() {
		config.PrintEnv(cfg, os.Stdout)
		os.Exit(0)
	}
	if config.HelpRequested() {
		config.PrintHelp(cfg, os.Stderr)
		os.Exit(0)
	}
	lol.SetLogLevel(cfg.LogLevel)
	log.I.F("starting %s %s", cfg.AppName, version.V)
	if cfg.Pprof {
		defer profile.Start(profile.MemProfile).Stop()
		go func() {
			chk.E(http.ListenAndServe("127.0.0.1:6060", nil))
		}()
	}
	c, cancel := context.Cancel(context.Bg())
	var server *relay.Server
	serverParams := &relay.ServerParams{
		Ctx:    c,
		Cancel: cancel,
		C:      cfg,
	}
	if server, err = relay.NewServer(serverParams, servemux.New()); chk.E(err) {
		os.Exit(1)
	}
	interrupt.AddHandler(func() { server.Shutdown() })
	if err = server.Start(cfg.Listen, cfg.Port); chk.E(err) {
		log.F.F("server terminated: %v", err)
	}
}
