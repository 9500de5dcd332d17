package rng

import (
	"math"
	"testing"
)

func draw(s *Stream, n int) []uint64 {
	out := make([]uint64, n)
	for i := range out {
		out[i] = s.Uint64()
	}
	return out
}

func TestGetCachesStream(t *testing.T) {
	m := New(42)
	a := m.Get(Timing)
	b := m.Get(Timing)
	if a != b {
		t.Fatal("Get returned different streams for the same name")
	}
	if got := m.Names(); len(got) != 1 || got[0] != Timing {
		t.Errorf("Names() = %v, want [%s]", got, Timing)
	}
}

func TestStreamsIndependentOfRequestOrder(t *testing.T) {
	m1 := New(1234567890)
	g1 := m1.Get(Genetics)
	t1 := m1.Get(Timing)

	m2 := New(1234567890)
	t2 := m2.Get(Timing)
	m2.Get(Scan)
	g2 := m2.Get(Genetics)

	// Interleave draws differently in each manager.
	var gen1, gen2, tim1, tim2 []uint64
	for i := 0; i < 50; i++ {
		gen1 = append(gen1, g1.Uint64())
		tim1 = append(tim1, t1.Uint64())
	}
	tim2 = draw(t2, 50)
	gen2 = draw(g2, 50)

	for i := range gen1 {
		if gen1[i] != gen2[i] {
			t.Fatalf("genetics draw %d differs: %d vs %d", i, gen1[i], gen2[i])
		}
		if tim1[i] != tim2[i] {
			t.Fatalf("timing draw %d differs: %d vs %d", i, tim1[i], tim2[i])
		}
	}
}

func TestStreamsDiffer(t *testing.T) {
	m := New(7)
	a := draw(m.Get(Genetics), 8)
	b := draw(m.Get(Timing), 8)
	same := 0
	for i := range a {
		if a[i] == b[i] {
			same++
		}
	}
	if same == len(a) {
		t.Error("two named streams produced identical sequences")
	}
}

func TestSeedChangesSequence(t *testing.T) {
	a := draw(New(1).Get(Resource), 4)
	b := draw(New(2).Get(Resource), 4)
	if a[0] == b[0] && a[1] == b[1] && a[2] == b[2] && a[3] == b[3] {
		t.Error("different master seeds produced the same stream")
	}
}

func TestDistributions(t *testing.T) {
	s := New(99).Get(Timing)
	const n = 20000

	var sumExp, sumAbs float64
	for i := 0; i < n; i++ {
		e := s.Exponential(2.0)
		if e < 0 {
			t.Fatalf("Exponential returned negative value %v", e)
		}
		sumExp += e

		a := s.AbsNormal(0, 1)
		if a < 0 {
			t.Fatalf("AbsNormal returned negative value %v", a)
		}
		sumAbs += a

		u := s.Uniform(1, 4)
		if u < 1 || u >= 4 {
			t.Fatalf("Uniform(1,4) = %v out of range", u)
		}

		r := s.IntRange(0, 5)
		if r < 0 || r > 5 {
			t.Fatalf("IntRange(0,5) = %d out of range", r)
		}
	}

	if mean := sumExp / n; math.Abs(mean-0.5) > 0.05 {
		t.Errorf("Exponential(2) mean = %v, want ~0.5", mean)
	}
	// E|Z| = sqrt(2/pi)
	if mean := sumAbs / n; math.Abs(mean-math.Sqrt(2/math.Pi)) > 0.05 {
		t.Errorf("AbsNormal(0,1) mean = %v, want ~0.798", mean)
	}
}

func TestDrawsCounts(t *testing.T) {
	s := New(3).Get(Scan)
	if s.Draws() != 0 {
		t.Fatalf("fresh stream Draws() = %d, want 0", s.Draws())
	}
	s.Uint64()
	s.Coin()
	if s.Draws() != 2 {
		t.Errorf("Draws() = %d, want 2", s.Draws())
	}
}

func TestPick(t *testing.T) {
	s := New(5).Get(Genetics)
	seenA, seenB := false, false
	for i := 0; i < 100; i++ {
		switch s.Pick(1, 2) {
		case 1:
			seenA = true
		case 2:
			seenB = true
		default:
			t.Fatal("Pick returned a value that was not offered")
		}
	}
	if !seenA || !seenB {
		t.Errorf("Pick never chose one side: a=%v b=%v", seenA, seenB)
	}
}
