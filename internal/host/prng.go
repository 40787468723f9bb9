package host

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
)

// Stream is the random source behind weather rolls. A stream is keyed by a seed and a
// label, so the same world and seed replay the same sky.
type Stream struct {
	key   uint64
	state uint64
}

// NewStream keys a stream by seed and label, e.g. NewStream(seed, "world:Skyrim").
func NewStream(seed int64, label string) *Stream {
	return streamFromKey(keyFor(uint64(seed), label))
}

func streamFromKey(key uint64) *Stream { return &Stream{key: key, state: key} }

// keyFor mixes label into seed with HMAC-SHA256 and keeps the first eight bytes.
func keyFor(seed uint64, label string) uint64 {
	var raw [8]byte
	binary.LittleEndian.PutUint64(raw[:], seed)
	mac := hmac.New(sha256.New, raw[:])
	mac.Write([]byte(label))
	return binary.LittleEndian.Uint64(mac.Sum(nil))
}

// Fork returns an independent stream for a sub-system ("sky", "travel").
// Forking does not advance s.
func (s *Stream) Fork(label string) *Stream { return streamFromKey(keyFor(s.key, label)) }

// step advances the SplitMix64 state.
func (s *Stream) step() uint64 {
	s.state += 0x9E3779B97F4A7C15
	x := s.state
	x = (x ^ x>>30) * 0xBF58476D1CE4E5B9
	x = (x ^ x>>27) * 0x94D049BB133111EB
	return x ^ x>>31
}

// Uint64n rolls in [0,n); n == 0 rolls 0.
func (s *Stream) Uint64n(n uint64) uint64 {
	if n == 0 {
		return 0
	}
	return s.step() % n
}
