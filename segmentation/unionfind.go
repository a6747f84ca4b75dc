package segmentation

import "github.com/brain-map/reneu/reneu"

// DisjointSets is a forest over reneu.Label with union-by-rank and path
// compression, grounded on the original reneu::DisjointSets (itself a thin
// wrapper over boost::disjoint_sets) but implemented as a flat hash-map
// arena rather than pulling in an external forest library: the pack
// contains no disjoint-set package, and Ekats-Mycelica's hand-rolled
// map-backed UnionFind is the closest idiomatic match in this corpus.
//
// Label 0 (background) is never inserted; MakeSet silently ignores it so
// callers can loop over a label histogram without special-casing it.
type DisjointSets struct {
	parent map[reneu.Label]reneu.Label
	rank   map[reneu.Label]int
}

// NewDisjointSets returns an empty forest.
func NewDisjointSets() *DisjointSets {
	return &DisjointSets{
		parent: make(map[reneu.Label]reneu.Label),
		rank:   make(map[reneu.Label]int),
	}
}

// MakeSet inserts x as its own singleton class. It is idempotent: calling
// it again on an already-present label is a no-op. Background is ignored.
func (ds *DisjointSets) MakeSet(x reneu.Label) {
	if x == reneu.Background {
		return
	}
	if _, ok := ds.parent[x]; ok {
		return
	}
	ds.parent[x] = x
	ds.rank[x] = 0
}

// FindSet returns the representative of x's class. A label never
// make_set-d is returned unchanged, as is a label whose stored root is
// background (which cannot legitimately occur, but is guarded against to
// preserve the background-free contract).
func (ds *DisjointSets) FindSet(x reneu.Label) reneu.Label {
	if x == reneu.Background {
		return x
	}
	orig := x
	if _, ok := ds.parent[x]; !ok {
		return x
	}
	root := x
	for ds.parent[root] != root {
		root = ds.parent[root]
	}
	// path compression
	for ds.parent[x] != root {
		next := ds.parent[x]
		ds.parent[x] = root
		x = next
	}
	if root == reneu.Background {
		return orig
	}
	return root
}

// UnionSet merges the classes containing a and b by rank. Labels not yet
// present are auto-inserted, matching reneu's make_and_union_set
// convenience — an unknown label is never an error here, just an implicit
// make_set.
func (ds *DisjointSets) UnionSet(a, b reneu.Label) {
	ds.MakeSet(a)
	ds.MakeSet(b)
	ra, rb := ds.FindSet(a), ds.FindSet(b)
	if ra == rb {
		return
	}
	rankA, rankB := ds.rank[ra], ds.rank[rb]
	switch {
	case rankA < rankB:
		ds.parent[ra] = rb
	case rankA > rankB:
		ds.parent[rb] = ra
	default:
		ds.parent[rb] = ra
		ds.rank[ra]++
	}
}

// CompressSets flattens the parent pointer of every label in labels to its
// representative, amortizing the per-voxel find_set calls a full relabel
// pass would otherwise perform one at a time.
func (ds *DisjointSets) CompressSets(labels []reneu.Label) {
	for _, l := range labels {
		root := ds.FindSet(l)
		if _, ok := ds.parent[l]; ok {
			ds.parent[l] = root
		}
	}
}

// CountSets returns the number of distinct representatives among labels.
func (ds *DisjointSets) CountSets(labels []reneu.Label) int {
	seen := make(map[reneu.Label]struct{}, len(labels))
	for _, l := range labels {
		seen[ds.FindSet(l)] = struct{}{}
	}
	return len(seen)
}
