package transaction

import "bytes"

// writeShortVecLen writes n in the compact-u16 encoding used by the Solana
// wire format as a length prefix: little-endian base-128 with the high bit
// of each byte marking continuation.
func writeShortVecLen(w *bytes.Buffer, n int) {
	v := uint16(n)
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v == 0 {
			w.WriteByte(b)
			return
		}
		w.WriteByte(b | 0x80)
	}
}
