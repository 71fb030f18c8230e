package bvh

import (
	"container/heap"
	"sync"

	"github.com/achilleasa/hybris/scene"
	"github.com/chewxy/math32"
)

type queueEntry struct {
	node int32
	dist float32
}

// A min-heap of nodes ordered by ray entry distance.
type nodeQueue []queueEntry

func (q nodeQueue) Len() int           { return len(q) }
func (q nodeQueue) Less(i, j int) bool { return q[i].dist < q[j].dist }
func (q nodeQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }

func (q *nodeQueue) Push(x interface{}) {
	*q = append(*q, x.(queueEntry))
}

func (q *nodeQueue) Pop() interface{} {
	old := *q
	last := len(old) - 1
	entry := old[last]
	*q = old[:last]
	return entry
}

var queuePool = sync.Pool{
	New: func() interface{} {
		q := make(nodeQueue, 0, 64)
		return &q
	},
}

// Find the closest intersection between the ray and the tree triangles. The
// Primitive field of the returned HitInfo is set to the triangle index.
func (t *Tree) Intersect(ray scene.Ray) scene.HitInfo {
	return t.IntersectMax(ray, math32.Inf(1))
}

// Find the closest intersection that is not farther than tMax.
func (t *Tree) IntersectMax(ray scene.Ray, tMax float32) scene.HitInfo {
	return t.IntersectRange(ray, 0, tMax)
}

// Find the closest intersection with a distance in the (tMin, tMax] range.
//
// Nodes are visited best-first in order of their volume entry distance.
// Since no primitive inside a volume can be hit before the ray enters that
// volume, traversal stops as soon as the next queued entry distance exceeds
// the closest hit found so far.
func (t *Tree) IntersectRange(ray scene.Ray, tMin, tMax float32) scene.HitInfo {
	best := scene.Miss()
	if len(t.tris) == 0 {
		return best
	}

	tNear, _, ok := t.nodes[0].volume.Intersect(ray)
	if !ok || tNear > tMax {
		return best
	}

	qp := queuePool.Get().(*nodeQueue)
	q := (*qp)[:0]
	heap.Push(&q, queueEntry{node: 0, dist: math32.Max(tNear, 0)})

	for q.Len() > 0 {
		entry := heap.Pop(&q).(queueEntry)
		if best.Hit() && entry.dist > best.T {
			break
		}

		n := &t.nodes[entry.node]
		if n.firstChild == leafNode {
			for _, item := range n.items {
				hit := t.tris[item].Intersect(ray)
				if !hit.Hit() || hit.T <= tMin || hit.T > tMax {
					continue
				}
				hit.Primitive = item
				if closer(hit, best) {
					best = hit
				}
			}
			continue
		}

		limit := tMax
		if best.Hit() && best.T < limit {
			limit = best.T
		}
		for child := n.firstChild; child < n.firstChild+8; child++ {
			childNear, _, ok := t.nodes[child].volume.Intersect(ray)
			if !ok {
				continue
			}
			childNear = math32.Max(childNear, 0)
			if childNear > limit {
				continue
			}
			heap.Push(&q, queueEntry{node: child, dist: childNear})
		}
	}

	*qp = q[:0]
	queuePool.Put(qp)
	return best
}

// Returns true if hit should replace best. Hits at the same distance are
// resolved in favor of the lowest triangle index so that the result matches
// a linear scan over the triangle list.
func closer(hit, best scene.HitInfo) bool {
	if !best.Hit() || hit.T < best.T {
		return true
	}
	return hit.T == best.T && hit.Primitive < best.Primitive
}
