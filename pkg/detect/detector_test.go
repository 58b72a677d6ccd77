package detect

import "testing"

func TestSelectLargest_Empty(t *testing.T) {
	if got := SelectLargest(nil); got != nil {
		t.Errorf("empty input: got %v, want nil", got)
	}
}

func TestSelectLargest_Single(t *testing.T) {
	faces := []Face{{X: 10, Y: 10, W: 50, H: 60, Confidence: 0.9}}
	got := SelectLargest(faces)
	if got == nil || *got != faces[0] {
		t.Errorf("single input: got %v, want %v", got, faces[0])
	}
}

func TestSelectLargest_PicksMaxArea(t *testing.T) {
	faces := []Face{
		{X: 0, Y: 0, W: 20, H: 20},   // area 400
		{X: 0, Y: 0, W: 50, H: 40},   // area 2000 <- largest
		{X: 0, Y: 0, W: 30, H: 30},   // area 900
	}
	got := SelectLargest(faces)
	if got == nil || got.W != 50 {
		t.Errorf("got %v, want the 50x40 face", got)
	}
}

func TestSelectLargest_TieKeepsFirst(t *testing.T) {
	faces := []Face{
		{X: 1, Y: 1, W: 30, H: 30},
		{X: 9, Y: 9, W: 30, H: 30}, // same area, later in order
	}
	got := SelectLargest(faces)
	if got == nil || got.X != 1 {
		t.Errorf("tie: got %v, want the first face", got)
	}
}

func TestFace_Area(t *testing.T) {
	f := Face{W: 12, H: 10}
	if f.Area() != 120 {
		t.Errorf("Area: got %d, want 120", f.Area())
	}
}
