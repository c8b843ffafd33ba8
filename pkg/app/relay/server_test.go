package relay

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"prismview.dev/pkg/app/config"
	"prismview.dev/pkg/app/relay/roles"
	"prismview.dev/pkg/protocol/ws"
	"prismview.dev/pkg/servemux"
	"prismview.dev/pkg/utils/context"
)

func startTestRelay(t *testing.T) (srv *Server) {
	t.Helper()
	ctx, cancel := context.Cancel(context.Bg())
	srv, err := NewServer(
		&ServerParams{
			Ctx: ctx, Cancel: cancel,
			C: &config.C{AppName: "prismview-test", Listen: "127.0.0.1"},
		},
		servemux.New(),
	)
	require.NoError(t, err)
	started := make(chan bool)
	go func() { _ = srv.Start("127.0.0.1", 0, started) }()
	<-started
	t.Cleanup(srv.Shutdown)
	return
}

func dialPeer(t *testing.T, srv *Server) (cl *ws.Client) {
	t.Helper()
	cl, err := ws.Dial(context.Bg(), "ws://"+srv.Addr+"/")
	require.NoError(t, err)
	t.Cleanup(func() { _ = cl.Close() })
	return
}

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	require.Eventually(t, cond, 2*time.Second, 10*time.Millisecond, msg)
}

func waitForState(t *testing.T, srv *Server, want roles.State) {
	t.Helper()
	waitFor(
		t, func() bool { return srv.Roles().State() == want },
		fmt.Sprintf("relay never reached state %v", want),
	)
}

func recv(t *testing.T, cl *ws.Client) (msg []byte) {
	t.Helper()
	select {
	case msg = <-cl.Messages:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for relayed message")
	}
	return
}

func expectSilence(t *testing.T, cl *ws.Client) {
	t.Helper()
	select {
	case msg, ok := <-cl.Messages:
		if ok {
			t.Fatalf("unexpected message relayed: %s", msg)
		}
	case <-time.After(300 * time.Millisecond):
	}
}

func TestArrivalOrderAssignment(t *testing.T) {
	srv := startTestRelay(t)
	dialPeer(t, srv)
	waitForState(t, srv, roles.StateAwaitingPrism)
	dialPeer(t, srv)
	waitForState(t, srv, roles.StateConnected)
	snap := srv.Roles().Snapshot()
	require.NotEmpty(t, snap.Visualization)
	require.NotEmpty(t, snap.Prism)
	require.Zero(t, snap.Spectators)
}

func TestForwardVerbatimInOrder(t *testing.T) {
	srv := startTestRelay(t)
	viz := dialPeer(t, srv)
	waitForState(t, srv, roles.StateAwaitingPrism)
	prism := dialPeer(t, srv)
	waitForState(t, srv, roles.StateConnected)
	require.NoError(t, prism.Write([]byte("hello")))
	require.Equal(t, "hello", string(recv(t, viz)))
	require.NoError(t, prism.Write([]byte("world")))
	require.Equal(t, "world", string(recv(t, viz)))
	require.EqualValues(t, 2, srv.Roles().Forwarded.Load())
}

func TestVisualizationMessagesNotForwarded(t *testing.T) {
	srv := startTestRelay(t)
	viz := dialPeer(t, srv)
	waitForState(t, srv, roles.StateAwaitingPrism)
	// the sole peer holds the visualization slot, so its messages have no
	// handler and go nowhere
	require.NoError(t, viz.Write([]byte("ping")))
	expectSilence(t, viz)
	require.Zero(t, srv.Roles().Forwarded.Load())
	require.Zero(t, srv.Roles().Dropped.Load())
}

func TestNoVisualizationDropsMessages(t *testing.T) {
	srv := startTestRelay(t)
	viz := dialPeer(t, srv)
	waitForState(t, srv, roles.StateAwaitingPrism)
	prism := dialPeer(t, srv)
	waitForState(t, srv, roles.StateConnected)
	require.NoError(t, viz.Close())
	waitForState(t, srv, roles.StateAwaitingVisualization)
	require.NoError(t, prism.Write([]byte("ping")))
	waitFor(
		t, func() bool { return srv.Roles().Dropped.Load() == 1 },
		"message to empty visualization slot was not counted as dropped",
	)
	require.Zero(t, srv.Roles().Forwarded.Load())
}

func TestThirdConnectionIsSpectator(t *testing.T) {
	srv := startTestRelay(t)
	viz := dialPeer(t, srv)
	waitForState(t, srv, roles.StateAwaitingPrism)
	prism := dialPeer(t, srv)
	waitForState(t, srv, roles.StateConnected)
	third := dialPeer(t, srv)
	waitFor(
		t, func() bool { return srv.Roles().Snapshot().Spectators == 1 },
		"third connection was not registered as a spectator",
	)
	require.NoError(t, third.Write([]byte("intruder")))
	expectSilence(t, viz)
	require.NoError(t, prism.Write([]byte("real")))
	require.Equal(t, "real", string(recv(t, viz)))
}

func TestDisconnectFreesPrismSlot(t *testing.T) {
	srv := startTestRelay(t)
	viz := dialPeer(t, srv)
	waitForState(t, srv, roles.StateAwaitingPrism)
	prism := dialPeer(t, srv)
	waitForState(t, srv, roles.StateConnected)
	require.NoError(t, prism.Close())
	waitForState(t, srv, roles.StateAwaitingPrism)
	next := dialPeer(t, srv)
	waitForState(t, srv, roles.StateConnected)
	require.NoError(t, next.Write([]byte("fresh")))
	require.Equal(t, "fresh", string(recv(t, viz)))
}

func TestSpectatorPromotion(t *testing.T) {
	srv := startTestRelay(t)
	viz := dialPeer(t, srv)
	waitForState(t, srv, roles.StateAwaitingPrism)
	prism := dialPeer(t, srv)
	waitForState(t, srv, roles.StateConnected)
	third := dialPeer(t, srv)
	waitFor(
		t, func() bool { return srv.Roles().Snapshot().Spectators == 1 },
		"third connection was not registered as a spectator",
	)
	require.NoError(t, prism.Close())
	waitFor(
		t, func() bool {
			snap := srv.Roles().Snapshot()
			return snap.State == roles.StateConnected && snap.Spectators == 0
		}, "spectator was not promoted into the prism slot",
	)
	require.NoError(t, third.Write([]byte("promoted")))
	require.Equal(t, "promoted", string(recv(t, viz)))
}

func TestForwardOrderUnderLoad(t *testing.T) {
	srv := startTestRelay(t)
	viz := dialPeer(t, srv)
	waitForState(t, srv, roles.StateAwaitingPrism)
	prism := dialPeer(t, srv)
	waitForState(t, srv, roles.StateConnected)
	const n = 100
	var g errgroup.Group
	g.Go(
		func() error {
			for i := 0; i < n; i++ {
				if err := prism.Write(
					[]byte(fmt.Sprintf("msg-%03d", i)),
				); err != nil {
					return err
				}
			}
			return nil
		},
	)
	for i := 0; i < n; i++ {
		require.Equal(t, fmt.Sprintf("msg-%03d", i), string(recv(t, viz)))
	}
	require.NoError(t, g.Wait())
}

func TestStatusEndpoint(t *testing.T) {
	srv := startTestRelay(t)
	viz := dialPeer(t, srv)
	waitForState(t, srv, roles.StateAwaitingPrism)
	prism := dialPeer(t, srv)
	waitForState(t, srv, roles.StateConnected)
	require.NoError(t, prism.Write([]byte("hello")))
	require.Equal(t, "hello", string(recv(t, viz)))

	res, err := http.Get("http://" + srv.Addr + "/api/status")
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)
	var body StatusBody
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	require.Equal(t, "prismview-test", body.Name)
	require.Equal(t, "connected", body.State)
	require.NotEmpty(t, body.Visualization)
	require.NotEmpty(t, body.Prism)
	require.EqualValues(t, 1, body.Forwarded)
	require.EqualValues(t, 5, body.ForwardedBytes)

	res2, err := http.Get("http://" + srv.Addr + "/api/healthz")
	require.NoError(t, err)
	defer res2.Body.Close()
	require.Equal(t, http.StatusOK, res2.StatusCode)
}
