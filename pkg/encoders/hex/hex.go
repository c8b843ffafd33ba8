// Package hex encodes bytes to lowercase hexadecimal using the SIMD
// accelerated templexxx codec.
package hex

import (
	"encoding/hex"

	"github.com/templexxx/xhex"
)

// Enc returns the lowercase hex encoding of b.
func Enc(b []byte) (s string) {
	dst := make([]byte, len(b)*2)
	xhex.Encode(dst, b)
	return string(dst)
}

// Dec decodes a hex string.
func Dec(s string) (b []byte, err error) {
	return hex.DecodeString(s)
}
