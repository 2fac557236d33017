// Key encoding for history entries.
//
// Keys are the 8-byte big-endian form of the bucket sequence, so bbolt's
// byte-wise key order equals numeric order and a reverse cursor walk yields
// newest-first.
package bbolt

import "encoding/binary"

const keySize = 8

func encodeKey(id uint64) []byte {
	k := make([]byte, keySize)
	binary.BigEndian.PutUint64(k, id)
	return k
}

func decodeKey(k []byte) uint64 {
	if len(k) != keySize {
		return 0
	}
	return binary.BigEndian.Uint64(k)
}
