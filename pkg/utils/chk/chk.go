// Package chk is a set of one-letter error checks that log a non-nil error
// at the corresponding level and report whether it fired, so checks read as
// `if chk.E(err) { return }`.
package chk

import (
	"prismview.dev/pkg/utils/lol"
)

var (
	F = lol.Main.F.Chk
	E = lol.Main.E.Chk
	W = lol.Main.W.Chk
	D = lol.Main.D.Chk
	T = lol.Main.T.Chk
)
