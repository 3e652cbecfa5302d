package core

import "testing"

func TestRectOverlap(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Rect
		expected bool
	}{
		{
			name:     "overlapping rects",
			a:        NewRect(0, 0, 10, 10),
			b:        NewRect(5, 5, 10, 10),
			expected: true,
		},
		{
			name:     "non-overlapping horizontal",
			a:        NewRect(0, 0, 10, 10),
			b:        NewRect(15, 0, 10, 10),
			expected: false,
		},
		{
			name:     "adjacent horizontal (no overlap)",
			a:        NewRect(0, 0, 10, 10),
			b:        NewRect(10, 0, 10, 10),
			expected: false,
		},
		{
			name:     "adjacent vertical (no overlap)",
			a:        NewRect(0, 0, 10, 10),
			b:        NewRect(0, 10, 10, 10),
			expected: false,
		},
		{
			name:     "contained rect",
			a:        NewRect(0, 0, 20, 20),
			b:        NewRect(5, 5, 5, 5),
			expected: true,
		},
		{
			name:     "empty rect never intersects",
			a:        NewRect(0, 0, 20, 20),
			b:        NewRect(5, 5, 0, 5),
			expected: false,
		},
		{
			name:     "pipe above screen top",
			a:        NewRect(230, 350, 68, 48),
			b:        NewRect(230, -340, 104, 640),
			expected: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := !tc.a.Intersection(tc.b).Empty()
			if result != tc.expected {
				t.Errorf("overlap = %v, expected %v", result, tc.expected)
			}
			resultReverse := !tc.b.Intersection(tc.a).Empty()
			if resultReverse != tc.expected {
				t.Errorf("overlap (reversed) = %v, expected %v", resultReverse, tc.expected)
			}
		})
	}
}

func TestRectIntersection(t *testing.T) {
	a := NewRect(0, 0, 10, 10)
	b := NewRect(6, 4, 10, 10)

	got := a.Intersection(b)
	want := NewRect(6, 4, 4, 6)
	if got != want {
		t.Errorf("Intersection() = %+v, expected %+v", got, want)
	}

	if !a.Intersection(NewRect(20, 20, 1, 1)).Empty() {
		t.Error("Intersection of disjoint rects should be empty")
	}
}

func TestRound(t *testing.T) {
	tests := []struct {
		in       float64
		expected int
	}{
		{351.4, 351},
		{351.5, 352},
		{352.5, 352},
		{-0.5, 0},
		{-1.5, -2},
	}

	for _, tc := range tests {
		if got := Round(tc.in); got != tc.expected {
			t.Errorf("Round(%v) = %d, expected %d", tc.in, got, tc.expected)
		}
	}
}

func TestMinMax(t *testing.T) {
	if Min(5, 10) != 5 || Min(10, 5) != 5 {
		t.Error("Min should return the smaller value")
	}
	if Max(5, 10) != 10 || Max(10, 5) != 10 {
		t.Error("Max should return the larger value")
	}
}
