package segment

import (
	"inventory-scanner/pkg/geometry"
)

// blob accumulates the bounding extents and pixel footprint of one
// connected component during labeling. It never escapes this package.
type blob struct {
	minX, maxX int
	minY, maxY int
	pixels     int
}

func (b blob) toRect() geometry.RectInt {
	return geometry.RectInt{
		X:      b.minX,
		Y:      b.minY,
		Width:  b.maxX - b.minX + 1,
		Height: b.maxY - b.minY + 1,
	}
}

// unionFind is a flat arena of parent indices with path compression.
type unionFind struct {
	parent []int32
}

func newUnionFind(capacity int) *unionFind {
	return &unionFind{parent: make([]int32, 0, capacity)}
}

// makeSet creates a new singleton set and returns its label.
func (u *unionFind) makeSet() int32 {
	label := int32(len(u.parent))
	u.parent = append(u.parent, label)
	return label
}

// find returns the root of a label, compressing the path as it walks.
func (u *unionFind) find(label int32) int32 {
	root := label
	for u.parent[root] != root {
		root = u.parent[root]
	}
	for u.parent[label] != root {
		label, u.parent[label] = u.parent[label], root
	}
	return root
}

// union merges the sets containing a and b.
func (u *unionFind) union(a, b int32) {
	ra, rb := u.find(a), u.find(b)
	if ra != rb {
		u.parent[rb] = ra
	}
}

// labelComponents finds 4-connected foreground components in the mask.
// Two passes: assign provisional labels from the left/top neighbors,
// unifying on conflict, then resolve roots and accumulate per-root blobs.
func labelComponents(mask []uint8, w, h int) []blob {
	labels := make([]int32, w*h)
	for i := range labels {
		labels[i] = -1
	}
	uf := newUnionFind(1024)

	// Pass 1: provisional labels.
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			idx := y*w + x
			if mask[idx] == 0 {
				continue
			}

			left := int32(-1)
			if x > 0 {
				left = labels[idx-1]
			}
			top := int32(-1)
			if y > 0 {
				top = labels[idx-w]
			}

			switch {
			case left < 0 && top < 0:
				labels[idx] = uf.makeSet()
			case left >= 0 && top < 0:
				labels[idx] = left
			case left < 0 && top >= 0:
				labels[idx] = top
			default:
				labels[idx] = left
				if left != top {
					uf.union(left, top)
				}
			}
		}
	}

	// Pass 2: resolve roots and grow blob extents.
	blobs := make(map[int32]*blob)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			label := labels[y*w+x]
			if label < 0 {
				continue
			}
			root := uf.find(label)
			b, ok := blobs[root]
			if !ok {
				b = &blob{minX: x, maxX: x, minY: y, maxY: y}
				blobs[root] = b
			} else {
				if x < b.minX {
					b.minX = x
				}
				if x > b.maxX {
					b.maxX = x
				}
				if y < b.minY {
					b.minY = y
				}
				if y > b.maxY {
					b.maxY = y
				}
			}
			b.pixels++
		}
	}

	result := make([]blob, 0, len(blobs))
	for _, b := range blobs {
		result = append(result, *b)
	}
	return result
}
