// Command vizwatch connects to the relay as the visualization peer and
// prints every relayed message to stdout. Run it before the prism side so it
// takes the first-connection visualization slot.
package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/alexflint/go-arg"

	"prismview.dev/pkg/protocol/ws"
	"prismview.dev/pkg/utils/chk"
	"prismview.dev/pkg/utils/context"
	"prismview.dev/pkg/utils/log"
)

var args struct {
	URL string `arg:"positional" default:"ws://127.0.0.1:9000/" help:"relay websocket url"`
}

func main() {
	arg.MustParse(&args)
	ctx, cancel := signal.NotifyContext(context.Bg(), os.Interrupt)
	defer cancel()
	cl, err := ws.Dial(ctx, args.URL)
	if chk.F(err) {
		os.Exit(1)
	}
	defer func() { chk.D(cl.Close()) }()
	log.I.F("watching %s", args.URL)
	for {
		select {
		case msg, ok := <-cl.Messages:
			if !ok {
				chk.E(cl.Err())
				return
			}
			fmt.Println(string(msg))
		case <-ctx.Done():
			return
		}
	}
}
