package socketapi

import (
	"fmt"

	"prismview.dev/pkg/utils/log"
)

// HandleMessage hands one received payload to the role table. The payload is
// opaque: no parsing, no schema, forwarded byte for byte when the sender is
// the prism peer and dropped otherwise.
func (a *A) HandleMessage(typ int, msg []byte) {
	log.T.C(
		func() string {
			return fmt.Sprintf(
				"%s received %d byte message:\n%s", a.Listener.Remote(),
				len(msg), string(msg),
			)
		},
	)
	a.Roles().Deliver(a.Listener, typ, msg)
}
