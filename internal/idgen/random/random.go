package random

import (
	"context"
	"math/rand/v2"
	"sync"
)

const (
	minID = 10000
	maxID = 99999
)

// Generator hands out 5-digit ids drawn uniformly from [10000, 99999].
// Collisions are possible and not tracked.
type Generator struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func New() *Generator {
	return NewWithSource(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

func NewWithSource(src rand.Source) *Generator {
	//nolint:exhaustruct
	return &Generator{rnd: rand.New(src)} //nolint:gosec // receipt ids are not secrets
}

func (g *Generator) GetID(_ context.Context) (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	return minID + g.rnd.IntN(maxID-minID+1), nil
}
