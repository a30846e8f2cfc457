package hashkit

import "encoding/binary"

const (
	mul  uint64 = 0xc6a4a7935bd1e995
	rtt  uint32 = 47
	seed uint64 = 19780211
)

// Murmur64 is MurmurHash64A with a fixed seed.
func Murmur64(data []byte) uint64 {
	length := uint64(len(data))
	hash := seed ^ (length * mul)

	for ; len(data) >= 8; data = data[8:] {
		num := binary.LittleEndian.Uint64(data)
		num *= mul
		num ^= num >> rtt
		num *= mul

		hash ^= num
		hash *= mul
	}

	if rest := len(data); rest > 0 {
		for i := rest - 1; i >= 0; i-- {
			hash ^= uint64(data[i]) << (8 * uint(i))
		}
		hash *= mul
	}

	hash ^= hash >> rtt
	hash *= mul
	hash ^= hash >> rtt
	return hash
}
