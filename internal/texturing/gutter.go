package texturing

// Texel validity tags for gutter repair.
const (
	texelUnset uint8 = iota
	texelValid
	texelPending
)

// padEdges dilates the sampled texels into the unset gutter, one texel per
// round. A round first marks unset interior texels next to a valid one as
// pending with the neighbor's offset, then resolves the marks to the
// neighbor's accumulator reference. Pending texels never seed the round
// that created them.
func padEdges(kind []uint8, ref []int32, side, padding int) {
	for g := 0; g < padding; g++ {
		for y := 1; y < side-1; y++ {
			yoff := y * side
			for x := 1; x < side-1; x++ {
				xy := yoff + x
				if kind[xy] != texelUnset {
					continue
				}
				switch {
				case kind[xy-1] == texelValid:
					kind[xy] = texelPending
					ref[xy] = int32(xy - 1)
				case kind[xy+1] == texelValid:
					kind[xy] = texelPending
					ref[xy] = int32(xy + 1)
				case kind[xy+side] == texelValid:
					kind[xy] = texelPending
					ref[xy] = int32(xy + side)
				case kind[xy-side] == texelValid:
					kind[xy] = texelPending
					ref[xy] = int32(xy - side)
				}
			}
		}
		for i := range kind {
			if kind[i] == texelPending {
				kind[i] = texelValid
				ref[i] = ref[ref[i]]
			}
		}
	}
}
