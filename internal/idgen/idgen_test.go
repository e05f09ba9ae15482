package idgen

import "testing"

func TestRandomNext(t *testing.T) {
	gen := NewRandom()

	seen := make(map[uint32]bool)
	for i := 0; i < 1000; i++ {
		n, err := gen.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		seen[n] = true
	}

	// 1000 draws from a 32-bit space collapsing to a handful of values
	// would mean the generator is broken, not unlucky.
	if len(seen) < 990 {
		t.Errorf("got only %d distinct numbers out of 1000 draws", len(seen))
	}
}
