package nblast

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// VectorCloud owns a PointSet, a KDTree over it, and a parallel per-point
// unit tangent extracted from the first principal component of each
// point's k nearest neighbors, grounded on the VectorCloud class in
// include/xiuli/neuron/nblast.hpp. The local covariance eigendecomposition
// itself is delegated to gonum/mat (mat.EigenSym), the linear-algebra
// library already grounded in this corpus by
// cm68-traces/internal/alignment/transform.go, rather than hand-rolling a
// 3x3 Jacobi eigensolver.
type VectorCloud struct {
	Points   PointSet
	KD       *KDTree
	Tangents [][3]float64
}

// NewVectorCloud builds a VectorCloud over points using the k nearest
// neighbors of each point to estimate its local tangent direction.
// leafSize controls the underlying KDTree's leaf threshold;
// config.NBLASTConfig.ResolvedLeafSize recommends leafSize == k as a
// sensible default when a caller has no reason to pick otherwise.
func NewVectorCloud(points PointSet, k, leafSize int) (*VectorCloud, error) {
	if k < 1 {
		k = 1
	}
	kd, err := NewKDTree(points, leafSize)
	if err != nil {
		return nil, err
	}
	vc := &VectorCloud{Points: points, KD: kd, Tangents: make([][3]float64, points.N)}
	for i := 0; i < points.N; i++ {
		vc.Tangents[i] = localTangent(points, kd, i, k)
	}
	return vc, nil
}

// localTangent gathers the k nearest neighbors of point i, centers them,
// and returns the unit eigenvector of their covariance matrix belonging to
// the largest eigenvalue. Its sign is arbitrary — NBLAST only ever
// consumes |t_i . t_j|.
func localTangent(points PointSet, kd *KDTree, i, k int) [3]float64 {
	neighbors := kd.KNN(points.Coord(i), k)

	var centroid [3]float64
	coords := make([][3]float64, len(neighbors))
	for j, nb := range neighbors {
		c := points.Coord(nb.Index)
		coords[j] = c
		centroid[0] += c[0]
		centroid[1] += c[1]
		centroid[2] += c[2]
	}
	n := float64(len(coords))
	centroid[0] /= n
	centroid[1] /= n
	centroid[2] /= n

	cov := mat.NewSymDense(3, nil)
	for _, c := range coords {
		d := [3]float64{c[0] - centroid[0], c[1] - centroid[1], c[2] - centroid[2]}
		for a := 0; a < 3; a++ {
			for b := a; b < 3; b++ {
				cov.SetSym(a, b, cov.At(a, b)+d[a]*d[b])
			}
		}
	}

	var eig mat.EigenSym
	ok := eig.Factorize(cov, true)
	if !ok {
		return [3]float64{1, 0, 0}
	}
	values := eig.Values(nil)
	var vectors mat.Dense
	eig.VectorsTo(&vectors)

	maxIdx := 0
	for idx := 1; idx < len(values); idx++ {
		if values[idx] > values[maxIdx] {
			maxIdx = idx
		}
	}
	return [3]float64{vectors.At(0, maxIdx), vectors.At(1, maxIdx), vectors.At(2, maxIdx)}
}

// DefaultNearestNodeNum is the default neighbor count k, used both for
// local-PCA tangent extraction and as the k-d tree leaf threshold when a
// caller does not have a more specific config.NBLASTConfig.
const DefaultNearestNodeNum = 20

// NewVectorCloudDefault builds a VectorCloud with k = DefaultNearestNodeNum
// used as both the tangent neighborhood size and the k-d tree leaf
// threshold.
func NewVectorCloudDefault(points PointSet) (*VectorCloud, error) {
	return NewVectorCloud(points, DefaultNearestNodeNum, DefaultNearestNodeNum)
}

// Size returns the number of points in the cloud.
func (vc *VectorCloud) Size() int {
	return vc.Points.N
}

// QueryBy scores this cloud (the target) against query, asymmetrically:
// for each query point q_j with tangent u_j, it finds the nearest point i
// in the target and its distance d_j, computes a_j = |u_j . t_i| using the
// target's tangent at that true nearest index, and accumulates
// scoreTable(d_j, a_j) over every query point.
//
// A.QueryBy(B) is asymmetric in general: A.QueryBy(B) != B.QueryBy(A).
func (target *VectorCloud) QueryBy(query *VectorCloud, table *ScoreTable) float64 {
	var raw float64
	for j := 0; j < query.Size(); j++ {
		q := query.Points.Coord(j)
		nearestIdx, dist := target.KD.Nearest(q)

		u := query.Tangents[j]
		t := target.Tangents[nearestIdx]
		adp := absFloat(dot(u, t))

		raw += table.Score(dist, adp)
	}
	return raw
}

func dot(a, b [3]float64) float64 {
	return floats.Dot(a[:], b[:])
}

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
