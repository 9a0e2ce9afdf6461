package wsi

// Tile is an accepted tile placement in slide pixel space (level 0).
// ID is the sequence index assigned at acceptance time, Coverage the
// mask-space tissue fraction measured during validation.
type Tile struct {
	ID       int
	X        int
	Y        int
	W        int
	H        int
	Coverage float64
}

// IoU returns the intersection-over-union of two tiles. Rectangles are
// half-open [x, x+w) x [y, y+h), so tiles that merely share an edge have
// zero intersection and an IoU of 0.
func (t Tile) IoU(o Tile) float64 {
	ax1, ay1 := t.X+t.W, t.Y+t.H
	bx1, by1 := o.X+o.W, o.Y+o.H
	iw := min(ax1, bx1) - max(t.X, o.X)
	ih := min(ay1, by1) - max(t.Y, o.Y)
	if iw <= 0 || ih <= 0 {
		return 0
	}
	inter := iw * ih
	union := t.W*t.H + o.W*o.H - inter
	return float64(inter) / float64(union)
}
