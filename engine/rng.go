package engine

import (
	"hash/fnv"
	"math/big"
	"math/rand"
	"sync"
)

// engineRNG mints reproducible 128-bit instance identifiers. It is the
// engine's own RNG — processes needing randomness should get their own via
// NewProcessRNG rather than sharing this one (see the kernel's RNG
// determinism design note).
type engineRNG struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func newEngineRNG(seed int64) *engineRNG {
	return &engineRNG{rng: rand.New(rand.NewSource(seed))}
}

// next128 draws 128 random bits and renders them as a hex instance
// identifier, the Go analogue of Python's random.getrandbits(128).
func (r *engineRNG) next128() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	hi := r.rng.Uint64()
	lo := r.rng.Uint64()
	v := new(big.Int).Lsh(new(big.Int).SetUint64(hi), 64)
	v.Or(v, new(big.Int).SetUint64(lo))
	return v.Text(16)
}

// NewProcessRNG returns an RNG seeded from the FNV-1a hash of seed alone,
// independent of any engine's RNG — for processes that need their own
// randomness and should not share the engine's. The same seed always
// derives the same sequence.
func NewProcessRNG(seed string) *rand.Rand {
	h := fnv.New64a()
	_, _ = h.Write([]byte(seed))
	return rand.New(rand.NewSource(int64(h.Sum64())))
}
