package bvh

import (
	"time"

	"github.com/achilleasa/hybris/log"
	"github.com/achilleasa/hybris/scene"
	"github.com/achilleasa/hybris/types"
)

// The firstChild value of a leaf node.
const leafNode int32 = -1

// Octree construction options.
type Options struct {
	// Leafs at this depth are never split.
	MaxDepth int

	// A leaf is split into eight children once it holds more than this
	// many triangles.
	MaxLeafItems int
}

// Get the default octree construction options.
func DefaultOptions() Options {
	return Options{
		MaxDepth:     10,
		MaxLeafItems: 8,
	}
}

// Octree statistics.
type Stats struct {
	Triangles    int
	Nodes        int
	Leaves       int
	EmptyLeaves  int
	MaxDepth     int
	MaxLeafItems int
	AvgLeafItems float32
	BuildTime    time.Duration
}

// An octree node. Leafs store triangle indices; internal nodes store the
// index of the first of their eight contiguous children and no items.
type node struct {
	volume Volume

	// The octant split point and half extents of the cell this node covers.
	center   types.Vec3
	halfSize types.Vec3

	firstChild int32
	depth      int32
	items      []int32
}

// An octree of seven-axis bounding volumes over a triangle list. Nodes are
// stored in a flat arena and reference each other by index; the root is
// always node 0. The tree references triangles by their index in the slice
// passed to Build which must not be modified while the tree is in use.
//
// A built tree is immutable and safe for concurrent traversal.
type Tree struct {
	logger log.Logger

	tris  []scene.Triangle
	nodes []node
	opts  Options
	stats Stats
}

// Build an octree over a list of triangles. The triangles are inserted one by
// one into an octree spanning their global bounds and the node volumes are
// then refitted bottom-up.
func Build(tris []scene.Triangle, opts Options) *Tree {
	if opts.MaxLeafItems < 1 {
		opts.MaxLeafItems = 1
	}
	if opts.MaxDepth < 0 {
		opts.MaxDepth = 0
	}

	t := &Tree{
		logger: log.New("bvh"),
		tris:   tris,
		nodes:  make([]node, 0, 1+len(tris)/opts.MaxLeafItems),
		opts:   opts,
	}

	start := time.Now()

	bounds := EmptyVolume()
	for index := range tris {
		bounds.ExtendTriangle(&tris[index])
	}

	var center, halfSize types.Vec3
	if !bounds.Empty() {
		bbox := bounds.BBox()
		center = bbox[0].Add(bbox[1]).Mul(0.5)
		halfSize = bbox[1].Sub(bbox[0]).Mul(0.5)
	}
	t.nodes = append(t.nodes, node{
		volume:     bounds,
		center:     center,
		halfSize:   halfSize,
		firstChild: leafNode,
	})

	for index := range tris {
		t.insert(0, int32(index))
	}
	t.refit()

	t.stats = t.collectStats()
	t.stats.BuildTime = time.Since(start)
	t.logger.Debugf(
		"octree build time: %d ms, triangles: %d, nodes: %d, leafs: %d, maxDepth: %d, maxLeafItems: %d",
		t.stats.BuildTime.Nanoseconds()/1e6,
		t.stats.Triangles, t.stats.Nodes, t.stats.Leaves, t.stats.MaxDepth, t.stats.MaxLeafItems,
	)
	return t
}

// Get the triangles indexed by the tree.
func (t *Tree) Triangles() []scene.Triangle {
	return t.tris
}

// Get the tree statistics collected at build time.
func (t *Tree) Stats() Stats {
	return t.stats
}

// Insert a triangle starting at the given node.
func (t *Tree) insert(nodeIndex, triIndex int32) {
	centroid := t.tris[triIndex].Center()
	for {
		n := &t.nodes[nodeIndex]
		if n.firstChild != leafNode {
			nodeIndex = n.firstChild + octant(n.center, centroid)
			continue
		}

		n.items = append(n.items, triIndex)
		if len(n.items) > t.opts.MaxLeafItems && int(n.depth) < t.opts.MaxDepth {
			t.split(nodeIndex)
		}
		return
	}
}

// Convert a leaf into an internal node with eight children and redistribute
// its items.
func (t *Tree) split(nodeIndex int32) {
	parent := t.nodes[nodeIndex]
	childHalf := parent.halfSize.Mul(0.5)

	firstChild := int32(len(t.nodes))
	for oct := int32(0); oct < 8; oct++ {
		offset := types.Vec3{-childHalf[0], -childHalf[1], -childHalf[2]}
		if oct&1 != 0 {
			offset[0] = childHalf[0]
		}
		if oct&2 != 0 {
			offset[1] = childHalf[1]
		}
		if oct&4 != 0 {
			offset[2] = childHalf[2]
		}
		t.nodes = append(t.nodes, node{
			volume:     EmptyVolume(),
			center:     parent.center.Add(offset),
			halfSize:   childHalf,
			firstChild: leafNode,
			depth:      parent.depth + 1,
		})
	}

	// t.nodes may have been reallocated by the appends above
	n := &t.nodes[nodeIndex]
	n.firstChild = firstChild
	n.items = nil

	for _, item := range parent.items {
		t.insert(firstChild+octant(parent.center, t.tris[item].Center()), item)
	}
}

// Recompute node volumes. Children are always appended after their parent so
// visiting the arena in reverse order processes every child before its parent.
func (t *Tree) refit() {
	for index := len(t.nodes) - 1; index >= 0; index-- {
		n := &t.nodes[index]
		n.volume = EmptyVolume()
		if n.firstChild == leafNode {
			for _, item := range n.items {
				n.volume.ExtendTriangle(&t.tris[item])
			}
			n.volume.inflate()
			continue
		}

		for child := n.firstChild; child < n.firstChild+8; child++ {
			n.volume.Extend(&t.nodes[child].volume)
		}
	}
}

func (t *Tree) collectStats() Stats {
	stats := Stats{
		Triangles: len(t.tris),
		Nodes:     len(t.nodes),
	}

	var itemCount int
	for index := range t.nodes {
		n := &t.nodes[index]
		if int(n.depth) > stats.MaxDepth {
			stats.MaxDepth = int(n.depth)
		}
		if n.firstChild != leafNode {
			continue
		}

		stats.Leaves++
		if len(n.items) == 0 {
			stats.EmptyLeaves++
		}
		if len(n.items) > stats.MaxLeafItems {
			stats.MaxLeafItems = len(n.items)
		}
		itemCount += len(n.items)
	}

	if nonEmpty := stats.Leaves - stats.EmptyLeaves; nonEmpty > 0 {
		stats.AvgLeafItems = float32(itemCount) / float32(nonEmpty)
	}
	return stats
}

// Select the child octant for a point.
func octant(center, p types.Vec3) int32 {
	var oct int32
	if p[0] >= center[0] {
		oct |= 1
	}
	if p[1] >= center[1] {
		oct |= 2
	}
	if p[2] >= center[2] {
		oct |= 4
	}
	return oct
}
