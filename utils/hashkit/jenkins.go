package hashkit

import "hash"

const (
	DefaultSum32 = 0
)

// Jenkins one-at-a-time hash, streaming form.
type sum32 uint32

func (s *sum32) BlockSize() int { return 1 }
func (s *sum32) Reset()         { *s = DefaultSum32 }
func (s *sum32) Size() int      { return 4 }
func (s *sum32) Sum(in []byte) []byte {
	v := s.Sum32()
	return append(in, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}

// Sum32 finalizes a copy of the running state, so Write may continue after.
func (s *sum32) Sum32() uint32 { return jenkinsFinal(uint32(*s)) }

func (s *sum32) Write(data []byte) (int, error) {
	*s = sum32(jenkinsMix(uint32(*s), data))
	return len(data), nil
}

func NewJenkins32() hash.Hash32 {
	var s sum32 = DefaultSum32
	return &s
}

func jenkinsMix[T ~string | ~[]byte](hash uint32, data T) uint32 {
	for i := 0; i < len(data); i++ {
		hash += uint32(data[i])
		hash += hash << 10
		hash ^= hash >> 6
	}
	return hash
}

func jenkinsFinal(hash uint32) uint32 {
	hash += hash << 3
	hash ^= hash >> 11
	hash += hash << 15
	return hash
}

func Jenkins(data []byte) uint32 {
	return jenkinsFinal(jenkinsMix(DefaultSum32, data))
}

func JenkinsString(data string) uint32 {
	return jenkinsFinal(jenkinsMix(DefaultSum32, data))
}
