package texturing

import "testing"

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func TestPadEdgesDilates(t *testing.T) {
	const side = 8
	kind := make([]uint8, side*side)
	ref := make([]int32, side*side)
	seed := 3*side + 3
	kind[seed] = texelValid
	ref[seed] = int32(seed)

	padEdges(kind, ref, side, 2)

	valid := 0
	for i, k := range kind {
		if k == texelPending {
			t.Fatalf("texel %d left pending after the final round", i)
		}
		if k != texelValid {
			continue
		}
		valid++
		// Chains must collapse: every padded texel reads the seed directly.
		if ref[i] != int32(seed) {
			t.Errorf("texel %d resolves to %d, want %d", i, ref[i], seed)
		}
		x, y := i%side, i/side
		if d := absInt(x-3) + absInt(y-3); d > 2 {
			t.Errorf("texel (%d,%d) at distance %d exceeds the 2-round dilation", x, y, d)
		}
	}
	if valid != 13 {
		t.Errorf("valid texels = %d, want 13", valid)
	}
}

func TestPadEdgesZeroPadding(t *testing.T) {
	const side = 4
	kind := make([]uint8, side*side)
	ref := make([]int32, side*side)
	kind[5] = texelValid
	ref[5] = 5

	padEdges(kind, ref, side, 0)

	for i, k := range kind {
		want := texelUnset
		if i == 5 {
			want = texelValid
		}
		if k != want {
			t.Errorf("texel %d kind = %d, want %d", i, k, want)
		}
	}
}
