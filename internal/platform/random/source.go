package random

import (
	"math/rand/v2"
	"sync"
)

// Source is the draw interface the simulator depends on.
type Source interface {
	Float64() float64
	IntN(n int) int
}

type lockedSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New returns a seeded PCG source that is safe for concurrent use.
func New(seed uint64) Source {
	return &lockedSource{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *lockedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

func (s *lockedSource) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.IntN(n)
}

// Scripted replays fixed draws before falling back to another source.
// Fallback defaults to draws that never trigger a probabilistic event.
type Scripted struct {
	mu       sync.Mutex
	floats   []float64
	ints     []int
	Fallback Source
}

func NewScripted(floats []float64, ints []int) *Scripted {
	return &Scripted{floats: append([]float64(nil), floats...), ints: append([]int(nil), ints...)}
}

func (s *Scripted) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.floats) > 0 {
		v := s.floats[0]
		s.floats = s.floats[1:]
		return v
	}
	if s.Fallback != nil {
		return s.Fallback.Float64()
	}
	return 0.999999
}

func (s *Scripted) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.ints) > 0 {
		v := s.ints[0]
		s.ints = s.ints[1:]
		if v < 0 {
			v = 0
		}
		return v % n
	}
	if s.Fallback != nil {
		return s.Fallback.IntN(n)
	}
	return 0
}
