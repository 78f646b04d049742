package village

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	mrand "math/rand/v2"
	"sync"
)

// Roller yields uniform values in [0,1).
type Roller interface {
	Float64() float64
}

type RandRoller struct {
	mu  sync.Mutex
	rnd *mrand.Rand
}

func NewRandRoller(seed uint64) *RandRoller {
	return &RandRoller{rnd: mrand.New(mrand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (r *RandRoller) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rnd.Float64()
}

// NewSeed reads a seed from crypto/rand.
func NewSeed() (uint64, error) {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}
