package geometry

import (
	"math"
	"testing"
)

func TestPointAdd(t *testing.T) {
	p1 := NewPoint(1, 2)
	p2 := NewPoint(4, 5)
	result := p1.Add(p2)

	expected := NewPoint(5, 7)
	if result != expected {
		t.Errorf("Add failed: expected %v, got %v", expected, result)
	}
}

func TestPointDistance(t *testing.T) {
	p1 := NewPoint(0, 0)
	p2 := NewPoint(3, 4)

	if d := p1.Distance(p2); math.Abs(d-5.0) > 1e-10 {
		t.Errorf("Distance failed: expected 5, got %v", d)
	}
	if d := p2.Distance(p1); math.Abs(d-5.0) > 1e-10 {
		t.Errorf("Distance should be symmetric, got %v", d)
	}
}

func TestPointIsFinite(t *testing.T) {
	if !NewPoint(1, -2).IsFinite() {
		t.Error("expected finite point")
	}
	if NewPoint(math.NaN(), 0).IsFinite() {
		t.Error("NaN coordinate should not be finite")
	}
	if NewPoint(0, math.Inf(-1)).IsFinite() {
		t.Error("infinite coordinate should not be finite")
	}
}

func TestSegmentLength(t *testing.T) {
	s := NewSegment(10, 10, 110, 10)

	if l := s.Length(); math.Abs(l-100.0) > 1e-10 {
		t.Errorf("Length failed: expected 100, got %v", l)
	}
}

func TestSegmentMidpoint(t *testing.T) {
	s := NewSegment(0, 0, 4, 6)

	expected := NewPoint(2, 3)
	if mid := s.Midpoint(); mid != expected {
		t.Errorf("Midpoint failed: expected %v, got %v", expected, mid)
	}
}
