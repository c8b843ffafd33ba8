// Package log exposes the level printers of the shared lol logger under
// their usual short names.
package log

import (
	"prismview.dev/pkg/utils/lol"
)

var (
	F = lol.Main.F
	E = lol.Main.E
	W = lol.Main.W
	I = lol.Main.I
	D = lol.Main.D
	T = lol.Main.T
)
