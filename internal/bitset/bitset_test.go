package bitset

import "testing"

func TestSetAndTest(t *testing.T) {
	s := New(130)
	s.Set(0)
	s.Set(63)
	s.Set(64)
	s.Set(129)

	for _, i := range []int{0, 63, 64, 129} {
		if !s.Test(i) {
			t.Errorf("expected bit %d set", i)
		}
	}
	for _, i := range []int{1, 62, 65, 128} {
		if s.Test(i) {
			t.Errorf("expected bit %d clear", i)
		}
	}
	if got := s.Popcount(); got != 4 {
		t.Errorf("Popcount() = %d, want 4", got)
	}
}

func TestNewFullMasksTail(t *testing.T) {
	s := NewFull(70)
	if got := s.Popcount(); got != 70 {
		t.Errorf("Popcount() = %d, want 70", got)
	}
	for i := 70; i < 128; i++ {
		if s.Test(i) {
			t.Errorf("bit %d beyond logical length must be clear", i)
		}
	}
}

func TestAndAndNotOr(t *testing.T) {
	a := New(8)
	for _, i := range []int{0, 1, 2, 3} {
		a.Set(i)
	}
	b := New(8)
	for _, i := range []int{2, 3, 4, 5} {
		b.Set(i)
	}

	and := a.Clone().And(b)
	if got := and.Slice(); !equalInts(got, []int{2, 3}) {
		t.Errorf("And() = %v, want [2 3]", got)
	}

	andNot := a.Clone().AndNot(b)
	if got := andNot.Slice(); !equalInts(got, []int{0, 1}) {
		t.Errorf("AndNot() = %v, want [0 1]", got)
	}

	or := a.Clone().Or(b)
	if got := or.Slice(); !equalInts(got, []int{0, 1, 2, 3, 4, 5}) {
		t.Errorf("Or() = %v, want [0 1 2 3 4 5]", got)
	}
}

func TestEachEarlyStop(t *testing.T) {
	s := New(10)
	for i := 0; i < 10; i++ {
		s.Set(i)
	}
	var seen []int
	s.Each(func(i int) bool {
		seen = append(seen, i)
		return i < 3
	})
	if !equalInts(seen, []int{0, 1, 2, 3}) {
		t.Errorf("Each() with early stop = %v, want [0 1 2 3]", seen)
	}
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
