package engine

import (
	"github.com/minio/highwayhash"
)

var hashKey = []byte("0123456789ABCDEF0123456789ABCDEF")

// Digest computes a stable 64-bit content digest.
func Digest(data []byte) uint64 {
	h, err := highwayhash.New64(hashKey)
	if err != nil {
		// the key is a fixed 32-byte constant, New64 cannot fail on it
		panic(err)
	}
	_, _ = h.Write(data)
	return h.Sum64()
}
