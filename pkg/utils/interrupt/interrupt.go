// Package interrupt runs registered cleanup handlers when the process
// receives an interrupt or termination signal.
package interrupt

import (
	"os"
	"os/signal"
	"sync"
	"syscall"

	"prismview.dev/pkg/utils/log"
)

var (
	mx       sync.Mutex
	handlers []func()
	once     sync.Once
)

// AddHandler registers a function to run when the process is interrupted.
// Handlers run in reverse registration order, then the process exits.
func AddHandler(f func()) {
	once.Do(listen)
	mx.Lock()
	handlers = append(handlers, f)
	mx.Unlock()
}

func listen() {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-ch
		log.I.F("received %v, shutting down", sig)
		mx.Lock()
		hs := make([]func(), len(handlers))
		copy(hs, handlers)
		mx.Unlock()
		for i := len(hs) - 1; i >= 0; i-- {
			hs[i]()
		}
		os.Exit(0)
	}()
}
