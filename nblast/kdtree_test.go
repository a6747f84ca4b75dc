package nblast

import (
	"math"
	"math/rand"
	"sort"
	"testing"
)

func randomPointSet(t *testing.T, n int, seed int64) PointSet {
	t.Helper()
	r := rand.New(rand.NewSource(seed))
	data := make([]float64, n*3)
	for i := range data {
		data[i] = r.Float64() * 1000
	}
	ps, err := NewPointSet(data, n, 3)
	if err != nil {
		t.Fatalf("NewPointSet: %v", err)
	}
	return ps
}

func bruteNearest(ps PointSet, q [3]float64) (int, float64) {
	best, bestSq := -1, math.MaxFloat64
	for i := 0; i < ps.N; i++ {
		d := squaredDist(ps.Coord(i), q)
		if d < bestSq {
			bestSq, best = d, i
		}
	}
	return best, math.Sqrt(bestSq)
}

func bruteKNN(ps PointSet, q [3]float64, k int) []Neighbor {
	all := make([]Neighbor, ps.N)
	for i := 0; i < ps.N; i++ {
		all[i] = Neighbor{Index: i, Dist: math.Sqrt(squaredDist(ps.Coord(i), q))}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Dist < all[j].Dist })
	if k > len(all) {
		k = len(all)
	}
	return all[:k]
}

func TestNewKDTreeRejectsEmptyPointSet(t *testing.T) {
	ps := PointSet{Data: nil, N: 0, Cols: 3}
	if _, err := NewKDTree(ps, 5); err == nil {
		t.Fatal("expected EmptyInput error for empty point set")
	}
}

func TestKDTreeNearestMatchesBruteForce(t *testing.T) {
	ps := randomPointSet(t, 200, 1)
	tree, err := NewKDTree(ps, 8)
	if err != nil {
		t.Fatalf("NewKDTree: %v", err)
	}

	r := rand.New(rand.NewSource(2))
	for i := 0; i < 1000; i++ {
		q := [3]float64{r.Float64() * 1000, r.Float64() * 1000, r.Float64() * 1000}
		gotIdx, gotDist := tree.Nearest(q)
		wantIdx, wantDist := bruteNearest(ps, q)
		if gotIdx != wantIdx {
			// Multiple points can tie exactly; require matching distance instead.
			if math.Abs(gotDist-wantDist) > 1e-9 {
				t.Fatalf("query %d: Nearest = (%d,%v), brute-force = (%d,%v)", i, gotIdx, gotDist, wantIdx, wantDist)
			}
			continue
		}
		if math.Abs(gotDist-wantDist) > 1e-9 {
			t.Fatalf("query %d: dist %v != brute-force dist %v", i, gotDist, wantDist)
		}
	}
}

func TestKDTreeKNNMatchesBruteForce(t *testing.T) {
	ps := randomPointSet(t, 150, 3)
	tree, err := NewKDTree(ps, 5)
	if err != nil {
		t.Fatalf("NewKDTree: %v", err)
	}

	r := rand.New(rand.NewSource(4))
	const k = 7
	for i := 0; i < 200; i++ {
		q := [3]float64{r.Float64() * 1000, r.Float64() * 1000, r.Float64() * 1000}
		got := tree.KNN(q, k)
		want := bruteKNN(ps, q, k)
		if len(got) != len(want) {
			t.Fatalf("query %d: KNN returned %d results, want %d", i, len(got), len(want))
		}
		for j := range got {
			if math.Abs(got[j].Dist-want[j].Dist) > 1e-9 {
				t.Fatalf("query %d, rank %d: dist %v != brute-force dist %v", i, j, got[j].Dist, want[j].Dist)
			}
		}
	}
}

func TestKDTreeKNNSortedAscending(t *testing.T) {
	ps := randomPointSet(t, 50, 5)
	tree, err := NewKDTree(ps, 4)
	if err != nil {
		t.Fatalf("NewKDTree: %v", err)
	}
	got := tree.KNN([3]float64{500, 500, 500}, 10)
	for i := 1; i < len(got); i++ {
		if got[i].Dist < got[i-1].Dist {
			t.Fatalf("KNN result not sorted ascending: %v", got)
		}
	}
}

func TestKDTreeKNNClampsKToPopulation(t *testing.T) {
	ps := randomPointSet(t, 5, 6)
	tree, err := NewKDTree(ps, 2)
	if err != nil {
		t.Fatalf("NewKDTree: %v", err)
	}
	got := tree.KNN([3]float64{0, 0, 0}, 100)
	if len(got) != 5 {
		t.Fatalf("KNN with k > N returned %d results, want %d", len(got), 5)
	}
}

func TestKDTreeSinglePoint(t *testing.T) {
	ps, err := NewPointSet([]float64{1, 2, 3}, 1, 3)
	if err != nil {
		t.Fatalf("NewPointSet: %v", err)
	}
	tree, err := NewKDTree(ps, 5)
	if err != nil {
		t.Fatalf("NewKDTree: %v", err)
	}
	idx, dist := tree.Nearest([3]float64{10, 10, 10})
	if idx != 0 {
		t.Fatalf("Nearest on single-point tree = %d, want 0", idx)
	}
	want := math.Sqrt(9*9 + 8*8 + 7*7)
	if math.Abs(dist-want) > 1e-9 {
		t.Fatalf("Nearest dist = %v, want %v", dist, want)
	}
}
