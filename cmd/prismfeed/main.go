// Command prismfeed connects to the relay as the prism peer and streams
// visualization feed messages: generated demo blocks by default, or lines
// from stdin. Connect a visualization (or vizwatch) first so the feed has
// somewhere to go.
package main

import (
	"bufio"
	"os"
	"os/signal"
	"time"

	"github.com/alexflint/go-arg"

	"prismview.dev/pkg/protocol/demofeed"
	"prismview.dev/pkg/protocol/ws"
	"prismview.dev/pkg/utils/chk"
	"prismview.dev/pkg/utils/context"
	"prismview.dev/pkg/utils/log"
)

var args struct {
	URL      string        `arg:"positional" default:"ws://127.0.0.1:9000/" help:"relay websocket url"`
	Interval time.Duration `arg:"-i,--interval" default:"1s" help:"delay between generated messages"`
	Count    int           `arg:"-n,--count" help:"stop after this many messages, 0 runs until interrupted"`
	Chains   int           `arg:"-c,--chains" default:"10" help:"number of voter chains in the generated feed"`
	Stdin    bool          `arg:"--stdin" help:"relay lines from stdin instead of generated blocks"`
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
	log.I.F("feeding %s", args.URL)
	if args.Stdin {
		feedStdin(ctx, cl)
		return
	}
	feedGenerated(ctx, cl)
}

func feedStdin(ctx context.T, cl *ws.Client) {
	scan := bufio.NewScanner(os.Stdin)
	var sent int
	for scan.Scan() {
		select {
		case <-ctx.Done():
			return
		default:
		}
		if err := cl.Write([]byte(scan.Text())); chk.E(err) {
			return
		}
		sent++
		if args.Count > 0 && sent >= args.Count {
			return
		}
	}
	chk.E(scan.Err())
}

func feedGenerated(ctx context.T, cl *ws.Client) {
	g := demofeed.NewGenerator(args.Chains)
	ticker := time.NewTicker(args.Interval)
	defer ticker.Stop()
	var sent int
	for {
		select {
		case <-ticker.C:
			msg := g.Next()
			if len(msg) == 0 {
				continue
			}
			if err := cl.Write(msg); chk.E(err) {
				return
			}
			sent++
			log.D.F("sent %d byte message (%d total)", len(msg), sent)
			if args.Count > 0 && sent >= args.Count {
				return
			}
		case <-ctx.Done():
			return
		case <-cl.Done():
			chk.E(cl.Err())
			return
		}
	}
}
