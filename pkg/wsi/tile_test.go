package wsi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTile_IoU(t *testing.T) {
	a := Tile{X: 0, Y: 0, W: 100, H: 100}

	assert.Equal(t, 1.0, a.IoU(a), "identical tiles")

	b := Tile{X: 200, Y: 200, W: 100, H: 100}
	assert.Equal(t, 0.0, a.IoU(b), "disjoint tiles")

	// Half-open rectangles: a shared edge is not an intersection.
	c := Tile{X: 100, Y: 0, W: 100, H: 100}
	assert.Equal(t, 0.0, a.IoU(c), "edge-adjacent tiles")

	// 50x100 intersection over 150x100 union.
	d := Tile{X: 50, Y: 0, W: 100, H: 100}
	assert.InDelta(t, 5000.0/15000.0, a.IoU(d), 1e-12)
	assert.Equal(t, a.IoU(d), d.IoU(a), "IoU is symmetric")
}
