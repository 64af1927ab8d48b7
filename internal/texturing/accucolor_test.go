package texturing

import (
	"testing"

	"github.com/AntiCG/AliceVision/internal/imgio"
)

func TestAccuColorAverage(t *testing.T) {
	var a AccuColor
	if got := a.Average(); got != (imgio.Color{}) {
		t.Errorf("empty accumulator average = %v, want black", got)
	}

	a.Add(10, 20, 30)
	a.Add(20, 40, 50)
	want := imgio.Color{15, 30, 40}
	if got := a.Average(); got != want {
		t.Errorf("average = %v, want %v", got, want)
	}
	if a.Count != 2 {
		t.Errorf("count = %d, want 2", a.Count)
	}
}
