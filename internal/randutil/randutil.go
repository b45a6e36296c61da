// Package randutil provides a concurrency-safe random source shared by
// the detector and scorer. Both declare their own single-method
// interface; this is the production implementation behind them.
package randutil

import (
	"math/rand"
	"sync"
)

type LockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

func New(seed int64) *LockedRand {
	return &LockedRand{r: rand.New(rand.NewSource(seed))}
}

func (l *LockedRand) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Float64()
}
