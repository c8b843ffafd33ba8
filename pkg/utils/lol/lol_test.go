package lol

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLevelGating(t *testing.T) {
	defer SetLogLevel("info")
	var buf bytes.Buffer
	l := New(&buf)
	SetLogLevel("trace")
	l.I.F("hello %d", 1)
	require.Contains(t, buf.String(), "hello 1")
	require.Contains(t, buf.String(), "INF")

	buf.Reset()
	SetLogLevel("error")
	l.I.F("should not appear")
	l.D.Ln("nor this")
	require.Empty(t, buf.String())
	l.E.F("but this does")
	require.Contains(t, buf.String(), "but this does")
}

func TestClosureOnlyRunsWhenEnabled(t *testing.T) {
	defer SetLogLevel("info")
	var buf bytes.Buffer
	l := New(&buf)
	SetLogLevel("warn")
	var ran bool
	l.T.C(
		func() string {
			ran = true
			return "trace text"
		},
	)
	require.False(t, ran)
	l.W.C(func() string { return "warn text" })
	require.Contains(t, buf.String(), "warn text")
}

func TestChk(t *testing.T) {
	defer SetLogLevel("info")
	var buf bytes.Buffer
	l := New(&buf)
	SetLogLevel("error")
	require.False(t, l.E.Chk(nil))
	require.True(t, l.E.Chk(errors.New("boom")))
	require.Contains(t, buf.String(), "boom")
}

func TestGetLogLevel(t *testing.T) {
	require.Equal(t, Trace, GetLogLevel("trace"))
	require.Equal(t, Off, GetLogLevel("off"))
	require.Equal(t, Info, GetLogLevel("unknown"))
}
