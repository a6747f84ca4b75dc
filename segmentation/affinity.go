package segmentation

import (
	"sort"

	"github.com/brain-map/reneu/reneu"
)

// AffinityMap is a read-only view over a flat [3,Z,Y,X] affinity volume.
// Channel 0 is the x-edge affinity, channel 1 the y-edge, channel 2 the
// z-edge. The core never parses a file format: construction wraps a
// caller-decoded buffer.
type AffinityMap struct {
	Data []float64
	Dims reneu.Dims
}

// NewAffinityMap wraps data as a [3,Z,Y,X] affinity volume.
func NewAffinityMap(data []float64, dims reneu.Dims) (AffinityMap, error) {
	if len(data) != 3*dims.Voxels() {
		return AffinityMap{}, reneu.NewError(reneu.ShapeMismatch,
			"affinity data length %d does not match 3*%dx%dx%d", len(data), dims.Z, dims.Y, dims.X)
	}
	return AffinityMap{Data: data, Dims: dims}, nil
}

// At returns the affinity of the given channel (0=x,1=y,2=z) at (z,y,x).
func (a AffinityMap) At(channel, z, y, x int) float64 {
	stride := a.Dims.Voxels()
	return a.Data[channel*stride+(z*a.Dims.Y+y)*a.Dims.X+x]
}

// Segmentation is a mutable [Z,Y,X] label volume. Label 0 is background.
type Segmentation struct {
	Data []reneu.Label
	Dims reneu.Dims
}

// NewSegmentation wraps data as a [Z,Y,X] label volume.
func NewSegmentation(data []reneu.Label, dims reneu.Dims) (Segmentation, error) {
	if len(data) != dims.Voxels() {
		return Segmentation{}, reneu.NewError(reneu.ShapeMismatch,
			"segmentation data length %d does not match %dx%dx%d", len(data), dims.Z, dims.Y, dims.X)
	}
	return Segmentation{Data: data, Dims: dims}, nil
}

// At returns the label at (z,y,x).
func (s Segmentation) At(z, y, x int) reneu.Label {
	return s.Data[(z*s.Dims.Y+y)*s.Dims.X+x]
}

// Set assigns the label at (z,y,x).
func (s Segmentation) Set(z, y, x int, l reneu.Label) {
	s.Data[(z*s.Dims.Y+y)*s.Dims.X+x] = l
}

// Clone returns an independent copy of s, used whenever a pipeline must
// leave the caller's input volume untouched.
func (s Segmentation) Clone() Segmentation {
	data := make([]reneu.Label, len(s.Data))
	copy(data, s.Data)
	return Segmentation{Data: data, Dims: s.Dims}
}

// NonzeroLabels returns the distinct nonzero labels present in s, in
// ascending order.
func (s Segmentation) NonzeroLabels() []reneu.Label {
	seen := make(map[reneu.Label]struct{})
	for _, l := range s.Data {
		if l != reneu.Background {
			seen[l] = struct{}{}
		}
	}
	out := make([]reneu.Label, 0, len(seen))
	for l := range seen {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
