package core

import "testing"

func TestPositionArithmetic(t *testing.T) {
	p := NewPosition(2, 3).Add(NewPosition(5, 5))
	if !p.Equals(NewPosition(7, 8)) {
		t.Errorf("expected (7,8), got %v", p)
	}
	if got := p.Sub(NewPosition(7, 8)); !got.Equals(Origin) {
		t.Errorf("expected origin, got %v", got)
	}
	if !NewPosition(9, 0).Before(NewPosition(0, 1)) {
		t.Error("row-major order: (9,0) comes before (0,1)")
	}
}

func TestRelativePlacement(t *testing.T) {
	label := NewRect(0, 2, 11, 1)
	if got := TopRightOf(label); !got.Equals(NewPosition(11, 2)) {
		t.Errorf("expected (11,2), got %v", got)
	}
	if got := BottomLeftOf(label); !got.Equals(NewPosition(0, 3)) {
		t.Errorf("expected (0,3), got %v", got)
	}
}

func TestNewSizeClampsNegative(t *testing.T) {
	s := NewSize(-3, 4)
	if s.Width != 0 || s.Height != 4 {
		t.Errorf("expected 0x4, got %v", s)
	}
	if !s.IsEmpty() {
		t.Error("zero width size should be empty")
	}
	if s.Area() != 0 {
		t.Errorf("expected area 0, got %d", s.Area())
	}
}

func TestRectContains(t *testing.T) {
	r := NewRect(5, 5, 10, 4)
	tests := []struct {
		pos  Position
		want bool
	}{
		{NewPosition(5, 5), true},
		{NewPosition(14, 8), true},
		{NewPosition(15, 8), false},
		{NewPosition(14, 9), false},
		{NewPosition(4, 5), false},
	}
	for _, tt := range tests {
		if got := r.Contains(tt.pos); got != tt.want {
			t.Errorf("Contains(%v): expected %v, got %v", tt.pos, tt.want, got)
		}
	}
}

func TestRectContainsRect(t *testing.T) {
	outer := NewRect(0, 0, 48, 20)
	if !outer.ContainsRect(NewRect(0, 1, 20, 1)) {
		t.Error("label should fit inside panel")
	}
	if !outer.ContainsRect(outer) {
		t.Error("rect should contain itself")
	}
	if outer.ContainsRect(NewRect(40, 0, 10, 1)) {
		t.Error("overhanging rect should not be contained")
	}
}

func TestRectIntersects(t *testing.T) {
	a := NewRect(0, 1, 20, 1)
	b := NewRect(0, 2, 10, 1)
	if a.Intersects(b) {
		t.Error("adjacent rows should not intersect")
	}
	c := NewRect(5, 1, 3, 3)
	if !a.Intersects(c) {
		t.Error("overlapping rects should intersect")
	}
	if got := a.Intersection(c); !got.Equals(NewRect(5, 1, 3, 1)) {
		t.Errorf("unexpected intersection %v", got)
	}
	if a.Intersects(NewRect(2, 1, 0, 0)) {
		t.Error("empty rect should never intersect")
	}
}
