package segmentation

import (
	"sort"

	"github.com/brain-map/reneu/reneu"
	"github.com/brain-map/reneu/rlog"
)

// RegionEdge accumulates an affinity sample count and sum between two
// regions, grounded directly on reneu::RegionEdge.
type RegionEdge struct {
	Count float64
	Sum   float64
}

// Mean returns Sum/Count. It is only meaningful when Count > 0.
func (e RegionEdge) Mean() float64 {
	return e.Sum / e.Count
}

// absorb folds o into e and clears o, mirroring RegionEdge::absorb.
func (e *RegionEdge) absorb(o *RegionEdge) {
	e.Count += o.Count
	e.Sum += o.Sum
	o.Count = 0
	o.Sum = 0
}

// RegionProps is a region's voxel count and its canonical-min adjacency
// map: an adjacency {a,b} is stored once, at the endpoint with the smaller
// label.
type RegionProps struct {
	Label      reneu.Label
	VoxelCount int
	Neighbors  map[reneu.Label]*RegionEdge
}

func newRegionProps(label reneu.Label) *RegionProps {
	return &RegionProps{Label: label, Neighbors: make(map[reneu.Label]*RegionEdge)}
}

func (p *RegionProps) hasNeighbor(l reneu.Label) bool {
	_, ok := p.Neighbors[l]
	return ok
}

// RegionGraph is a weighted adjacency graph over fragment labels, built
// once from an affinity/fragment pair and then mutated only by merge,
// grounded on reneu::RegionGraph (cpp/include/reneu/segmentation/region_graph.hpp).
type RegionGraph struct {
	regions map[reneu.Label]*RegionProps
}

// BuildRegionGraph constructs a RegionGraph from an affinity map and a
// fragment labeling. Background voxels (label 0) never enter the graph.
func BuildRegionGraph(affs AffinityMap, frag Segmentation) (*RegionGraph, error) {
	if !affs.Dims.Equal(frag.Dims) {
		return nil, reneu.NewError(reneu.ShapeMismatch,
			"affinity dims %+v do not match fragment dims %+v", affs.Dims, frag.Dims)
	}

	rg := &RegionGraph{regions: make(map[reneu.Label]*RegionProps)}

	voxelCount := make(map[reneu.Label]int)
	for _, l := range frag.Data {
		if l != reneu.Background {
			voxelCount[l]++
		}
	}
	if len(voxelCount) == 0 {
		return nil, reneu.NewError(reneu.EmptyInput, "fragment volume has no nonzero labels")
	}
	for l, n := range voxelCount {
		props := newRegionProps(l)
		props.VoxelCount = n
		rg.regions[l] = props
	}

	timer := rlog.NewTimeLog()
	d := frag.Dims
	for z := 0; z < d.Z; z++ {
		for y := 0; y < d.Y; y++ {
			for x := 0; x < d.X; x++ {
				s := frag.At(z, y, x)
				if s == reneu.Background {
					continue
				}
				if z > 0 {
					rg.accumulateEdge(s, frag.At(z-1, y, x), affs.At(2, z, y, x))
				}
				if y > 0 {
					rg.accumulateEdge(s, frag.At(z, y-1, x), affs.At(1, z, y, x))
				}
				if x > 0 {
					rg.accumulateEdge(s, frag.At(z, y, x-1), affs.At(0, z, y, x))
				}
			}
		}
	}
	timer.Infof("accumulated affinity edges over %d regions", len(rg.regions))
	return rg, nil
}

// accumulateEdge folds one affinity sample into the canonical-min
// adjacency between s and t, ignoring background and self edges.
func (rg *RegionGraph) accumulateEdge(s, t reneu.Label, aff float64) {
	if t == reneu.Background || s == t {
		return
	}
	u, v := s, t
	if u > v {
		u, v = v, u
	}
	props := rg.regions[u]
	e, ok := props.Neighbors[v]
	if !ok {
		e = &RegionEdge{}
		props.Neighbors[v] = e
	}
	e.Count++
	e.Sum += aff
}

// edgeOf returns the canonical edge between a and b, creating it if absent.
func (rg *RegionGraph) edgeOf(a, b reneu.Label) *RegionEdge {
	u, v := a, b
	if u > v {
		u, v = v, u
	}
	props := rg.regions[u]
	e, ok := props.Neighbors[v]
	if !ok {
		e = &RegionEdge{}
		props.Neighbors[v] = e
	}
	return e
}

// Regions returns the live region labels, in ascending order.
func (rg *RegionGraph) Regions() []reneu.Label {
	out := make([]reneu.Label, 0, len(rg.regions))
	for l, p := range rg.regions {
		if p.VoxelCount > 0 {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Edges calls fn once per live adjacency {u,v}, u<v, with its current mean.
func (rg *RegionGraph) Edges(fn func(u, v reneu.Label, mean float64)) {
	for u, props := range rg.regions {
		if props.VoxelCount == 0 {
			continue
		}
		for v, e := range props.Neighbors {
			if e.Count > 0 {
				fn(u, v, e.Mean())
			}
		}
	}
}

// VoxelCount returns the voxel count of a live region, or 0 if absent.
func (rg *RegionGraph) VoxelCount(l reneu.Label) int {
	if p, ok := rg.regions[l]; ok {
		return p.VoxelCount
	}
	return 0
}

// Merge absorbs one of a, b into the other — the larger-voxelCount region
// wins, ties broken toward the larger label for determinism — and
// re-points every neighbor's adjacency accordingly. It is a precondition
// violation to merge a region into itself or to merge a region that has
// already been absorbed by an earlier call; Merge panics in that case as a
// local precondition failure, not a recoverable runtime error.
//
// Grounded on RegionGraph::merge in region_graph.hpp. No reverse index of
// neighbors is kept: the regions q < loser that hold loser as a neighbor
// are found by scanning every region, so each call is O(|V|).
func (rg *RegionGraph) Merge(a, b reneu.Label) {
	pa, oka := rg.regions[a]
	pb, okb := rg.regions[b]
	if a == b || !oka || !okb || pa.VoxelCount == 0 || pb.VoxelCount == 0 {
		panic("segmentation: Merge called on identical or non-live regions")
	}

	winner, loser := a, b
	if pa.VoxelCount > pb.VoxelCount || (pa.VoxelCount == pb.VoxelCount && a > b) {
		winner, loser = a, b
	} else {
		winner, loser = b, a
	}
	w := rg.regions[winner]
	l := rg.regions[loser]

	w.VoxelCount += l.VoxelCount
	for m, e := range l.Neighbors {
		if m == winner {
			continue
		}
		rg.edgeOf(winner, m).absorb(e)
	}

	for q, props := range rg.regions {
		if q == loser || q == winner || props.VoxelCount == 0 {
			continue
		}
		if q >= loser {
			continue
		}
		e, ok := props.Neighbors[loser]
		if !ok {
			continue
		}
		rg.edgeOf(winner, q).absorb(e)
		delete(props.Neighbors, loser)
	}

	// the direct winner-loser edge itself is discarded, not absorbed; if
	// it was canonically stored at winner (winner < loser) it would
	// otherwise survive as a stale reference to a dead region.
	delete(w.Neighbors, loser)

	l.VoxelCount = 0
	l.Neighbors = nil
}
