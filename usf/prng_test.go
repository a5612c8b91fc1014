package usf

import "testing"

func TestPRNG_Determinism(t *testing.T) {
	a := defaultSeed
	b := defaultSeed

	for i := 0; i < 10; i++ {
		va := a.next()
		vb := b.next()
		if va != vb {
			t.Fatalf("step %d diverged: %v != %v", i, va, vb)
		}
		if va < 0 || va >= 1 {
			t.Fatalf("step %d out of [0,1): %v", i, va)
		}
	}
}

// TestPRNG_GoldenSequence pins the first 10 outputs of the fixed
// default seed, so a future change to next() or defaultSeed that
// silently alters the stream is caught here rather than only by the
// looser determinism/bounds checks above.
func TestPRNG_GoldenSequence(t *testing.T) {
	want := [10]float64{
		0.29271507539861097,
		0.439411132916099,
		0.7459171272539408,
		0.4829967118905799,
		0.9796018948373515,
		0.04528978591968724,
		0.27608083037575704,
		0.6848578759339621,
		0.9751174673236847,
		0.42022497876881215,
	}
	s := defaultSeed
	for i, w := range want {
		if got := s.next(); got != w {
			t.Errorf("step %d = %v, want %v", i, got, w)
		}
	}
}

func TestPRNG_SeedNonZero(t *testing.T) {
	var zero prngState
	if defaultSeed == zero {
		t.Fatal("default seed must not be all-zero")
	}
}

func TestPRNG_StateNeverGoesAllZero(t *testing.T) {
	s := defaultSeed
	var zero prngState
	for i := 0; i < 1000; i++ {
		s.next()
		if s == zero {
			t.Fatalf("state went all-zero at step %d", i)
		}
	}
}
