// Package errorf creates formatted errors that are also logged at the
// corresponding level when they are created.
package errorf

import (
	"fmt"

	"prismview.dev/pkg/utils/lol"
)

// E creates an error like fmt.Errorf and logs it at error level.
func E(format string, a ...any) (err error) {
	err = fmt.Errorf(format, a...)
	lol.Main.E.Ln(err)
	return
}

// W creates an error like fmt.Errorf and logs it at warn level.
func W(format string, a ...any) (err error) {
	err = fmt.Errorf(format, a...)
	lol.Main.W.Ln(err)
	return
}
