package randutil

import (
	"sync"
	"testing"
)

func TestLockedRand_Range(t *testing.T) {
	r := New(42)
	for i := 0; i < 1000; i++ {
		v := r.Float64()
		if v < 0 || v >= 1 {
			t.Fatalf("Value %v outside [0,1)", v)
		}
	}
}

func TestLockedRand_SeededSequencesMatch(t *testing.T) {
	a, b := New(7), New(7)
	for i := 0; i < 100; i++ {
		if a.Float64() != b.Float64() {
			t.Fatal("Same seed produced diverging sequences")
		}
	}
}

func TestLockedRand_ConcurrentUse(t *testing.T) {
	r := New(1)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				r.Float64()
			}
		}()
	}
	wg.Wait()
}
