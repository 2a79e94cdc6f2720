package main

import "testing"

func TestPickSeedRange(t *testing.T) {
	seen := make(map[int64]bool)
	for range 5000 {
		s := pickSeed()
		if s < 0 || s >= randomSeeds {
			t.Fatalf("seed %d outside [0, %d)", s, randomSeeds)
		}
		seen[s] = true
	}
	if len(seen) < randomSeeds/2 {
		t.Errorf("only %d distinct seeds in 5000 draws", len(seen))
	}
}
