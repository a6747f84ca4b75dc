package nblast

import "github.com/brain-map/reneu/reneu"

// PointSet is a read-only [N,>=3] row-major array; only the first three
// columns (x,y,z) are used. Coordinates are physical units (nanometers).
type PointSet struct {
	Data []float64
	N    int
	Cols int
}

// NewPointSet wraps data as an [N,cols] point array.
func NewPointSet(data []float64, n, cols int) (PointSet, error) {
	if cols < 3 {
		return PointSet{}, reneu.NewError(reneu.ShapeMismatch,
			"point matrix has %d columns, need at least 3", cols)
	}
	if len(data) != n*cols {
		return PointSet{}, reneu.NewError(reneu.ShapeMismatch,
			"point data length %d does not match %dx%d", len(data), n, cols)
	}
	if n == 0 {
		return PointSet{}, reneu.NewError(reneu.EmptyInput, "point set is empty")
	}
	return PointSet{Data: data, N: n, Cols: cols}, nil
}

// Coord returns the (x,y,z) of point i.
func (p PointSet) Coord(i int) [3]float64 {
	base := i * p.Cols
	return [3]float64{p.Data[base], p.Data[base+1], p.Data[base+2]}
}

// Axis returns the single coordinate of point i along axis (0=x,1=y,2=z).
func (p PointSet) Axis(i, axis int) float64 {
	return p.Data[i*p.Cols+axis]
}
