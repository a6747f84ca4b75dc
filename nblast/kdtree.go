package nblast

import (
	"container/heap"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/brain-map/reneu/reneu"
)

// kdNodeKind tags a kdNode as an Inner or Leaf variant. Go has no
// polymorphic dynamic-cast story, so the tree is represented as an arena
// of tagged-variant nodes addressed by integer handle rather than a
// pointer graph of dynamically downcast node types, the same arena-of-nodes
// style TrevorS-hdbscan's BallTree uses for its own spatial index.
type kdNodeKind uint8

const (
	kindLeaf kdNodeKind = iota
	kindInner
)

type kdNode struct {
	kind kdNodeKind

	// Inner fields.
	pivot int
	axis  int
	left  int32
	right int32

	// Leaf fields.
	indices []int
}

// KDTree is a static 3-D spatial index over a PointSet's first three
// columns, built by median splits on cyclically rotating axes (x,y,z,x,…).
// Grounded on the KDTree class in include/xiuli/neuron/nblast.hpp, with two
// deliberate departures from it: the tree is a flat node arena rather than
// shared_ptr-linked polymorphic nodes, and nearest/k-NN queries backtrack to
// guarantee an exact result — a pure single-leaf descent cannot guarantee
// that nearest() matches a brute-force baseline once a query sits near a
// split boundary.
type KDTree struct {
	points   PointSet
	nodes    []kdNode
	root     int32
	leafSize int
}

// NewKDTree builds a tree over points. leafSize is the partition size at
// or below which recursion stops and a leaf is emitted; a good default is
// the neighbor count k used by downstream queries.
func NewKDTree(points PointSet, leafSize int) (*KDTree, error) {
	if points.N == 0 {
		return nil, reneu.NewError(reneu.EmptyInput, "cannot build a kd-tree over an empty point set")
	}
	if leafSize < 1 {
		leafSize = 1
	}
	t := &KDTree{points: points, leafSize: leafSize}
	indices := make([]int, points.N)
	for i := range indices {
		indices[i] = i
	}
	t.root = t.build(indices, 0)
	return t, nil
}

func (t *KDTree) build(indices []int, axis int) int32 {
	if len(indices) <= t.leafSize {
		return t.newLeaf(indices)
	}
	sort.Slice(indices, func(i, j int) bool {
		return t.points.Axis(indices[i], axis) < t.points.Axis(indices[j], axis)
	})
	mid := len(indices) / 2
	pivot := indices[mid]
	left := append([]int(nil), indices[:mid]...)
	right := append([]int(nil), indices[mid+1:]...)
	nextAxis := (axis + 1) % 3

	leftChild := t.build(left, nextAxis)
	rightChild := t.build(right, nextAxis)
	return t.newInner(pivot, axis, leftChild, rightChild)
}

func (t *KDTree) newLeaf(indices []int) int32 {
	t.nodes = append(t.nodes, kdNode{kind: kindLeaf, indices: indices})
	return int32(len(t.nodes) - 1)
}

func (t *KDTree) newInner(pivot, axis int, left, right int32) int32 {
	t.nodes = append(t.nodes, kdNode{kind: kindInner, pivot: pivot, axis: axis, left: left, right: right})
	return int32(len(t.nodes) - 1)
}

// squaredDist uses gonum/floats for the subtract-then-dot reduction rather
// than three hand-rolled multiplies, the same library the local-PCA step in
// vectorcloud.go leans on for its own vector arithmetic.
func squaredDist(a, b [3]float64) float64 {
	diff := a
	floats.Sub(diff[:], b[:])
	return floats.Dot(diff[:], diff[:])
}

// Nearest returns the index of the closest point to q and its Euclidean
// distance, searched by exact backtracking descent.
func (t *KDTree) Nearest(q [3]float64) (index int, dist float64) {
	best := -1
	bestSq := math.MaxFloat64
	t.searchNearest(t.root, q, &best, &bestSq)
	return best, math.Sqrt(bestSq)
}

func (t *KDTree) searchNearest(node int32, q [3]float64, best *int, bestSq *float64) {
	n := &t.nodes[node]
	if n.kind == kindLeaf {
		for _, idx := range n.indices {
			d := squaredDist(t.points.Coord(idx), q)
			if d < *bestSq {
				*bestSq = d
				*best = idx
			}
		}
		return
	}

	d := squaredDist(t.points.Coord(n.pivot), q)
	if d < *bestSq {
		*bestSq = d
		*best = n.pivot
	}

	planeCoord := t.points.Axis(n.pivot, n.axis)
	near, far := n.left, n.right
	if q[n.axis] >= planeCoord {
		near, far = n.right, n.left
	}
	t.searchNearest(near, q, best, bestSq)

	planeDist := q[n.axis] - planeCoord
	if planeDist*planeDist < *bestSq {
		t.searchNearest(far, q, best, bestSq)
	}
}

// Neighbor is one result of a k-NN query.
type Neighbor struct {
	Index int
	Dist  float64
}

// KNN returns the k nearest neighbors of q, nearest first, by correct
// backtracking search with a bounded max-heap of size k: the sibling
// subtree is revisited whenever the axis-aligned distance to the
// splitting plane is less than the current k-th radius.
func (t *KDTree) KNN(q [3]float64, k int) []Neighbor {
	if k < 1 {
		k = 1
	}
	h := &neighborHeap{}
	t.searchKNN(t.root, q, k, h)

	out := make([]Neighbor, len(*h))
	for i, e := range *h {
		out[i] = Neighbor{Index: e.Index, Dist: math.Sqrt(e.sq)}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Dist < out[j].Dist })
	return out
}

func (t *KDTree) searchKNN(node int32, q [3]float64, k int, h *neighborHeap) {
	n := &t.nodes[node]
	if n.kind == kindLeaf {
		for _, idx := range n.indices {
			d := squaredDist(t.points.Coord(idx), q)
			considerNeighbor(h, k, idx, d)
		}
		return
	}

	d := squaredDist(t.points.Coord(n.pivot), q)
	considerNeighbor(h, k, n.pivot, d)

	planeCoord := t.points.Axis(n.pivot, n.axis)
	near, far := n.left, n.right
	if q[n.axis] >= planeCoord {
		near, far = n.right, n.left
	}
	t.searchKNN(near, q, k, h)

	planeDist := q[n.axis] - planeCoord
	if h.Len() < k || planeDist*planeDist < (*h)[0].sq {
		t.searchKNN(far, q, k, h)
	}
}

// neighborHeapEntry stores squared distance to avoid a sqrt per candidate;
// Euclidean distance is only materialized once KNN assembles its result.
type neighborHeapEntry struct {
	Index int
	sq    float64
}

type neighborHeap []neighborHeapEntry

func (h neighborHeap) Len() int            { return len(h) }
func (h neighborHeap) Less(i, j int) bool  { return h[i].sq > h[j].sq } // max-heap: largest sq on top
func (h neighborHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *neighborHeap) Push(x interface{}) { *h = append(*h, x.(neighborHeapEntry)) }
func (h *neighborHeap) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

func considerNeighbor(h *neighborHeap, k int, idx int, sq float64) {
	if h.Len() < k {
		heap.Push(h, neighborHeapEntry{Index: idx, sq: sq})
		return
	}
	if sq < (*h)[0].sq {
		heap.Pop(h)
		heap.Push(h, neighborHeapEntry{Index: idx, sq: sq})
	}
}
