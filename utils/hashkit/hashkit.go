package hashkit

import (
	"errors"
	"fmt"
	"hash/fnv"
	"sort"

	"github.com/aviddiviner/go-murmur"
)

var ErrUnknownHash = errors.New("unknown hash")

const (
	Jenkins32Name = "jenkins"
	FNV32Name     = "fnv"
	Murmur32Name  = "murmur"
	Murmur64Name  = "murmur64"
)

type (
	HashFn   func([]byte) uint32
	Hash64Fn func([]byte) uint64
)

func FNV32(data []byte) uint32 {
	h := fnv.New32a()
	h.Write(data)
	return h.Sum32()
}

// Murmur32Seed is fixed so fingerprints stay comparable between processes.
const Murmur32Seed uint32 = 0x9747b28c

func Murmur32(data []byte) uint32 {
	h := murmur.New32(Murmur32Seed)
	h.Write(data)
	return h.Sum32()
}

var hash32Fns = map[string]HashFn{
	Jenkins32Name: Jenkins,
	FNV32Name:     FNV32,
	Murmur32Name:  Murmur32,
}

// Lookup32 returns the 32-bit hash registered under name.
func Lookup32(name string) (HashFn, error) {
	if fn, ok := hash32Fns[name]; ok {
		return fn, nil
	}
	return nil, fmt.Errorf("%w: %v", ErrUnknownHash, name)
}

// Sum64 hashes data with any registered hash, widening 32-bit results.
func Sum64(name string, data []byte) (uint64, error) {
	if name == Murmur64Name {
		return Murmur64(data), nil
	}
	fn, err := Lookup32(name)
	if err != nil {
		return 0, err
	}
	return uint64(fn(data)), nil
}

func Names() []string {
	names := []string{Murmur64Name}
	for name := range hash32Fns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
