package segmentation

import (
	"testing"

	"github.com/brain-map/reneu/reneu"
)

func TestMakeSetIdempotent(t *testing.T) {
	ds := NewDisjointSets()
	ds.MakeSet(5)
	ds.MakeSet(5)
	if got := ds.FindSet(5); got != 5 {
		t.Fatalf("FindSet(5) = %d, want 5", got)
	}
}

func TestMakeSetIgnoresBackground(t *testing.T) {
	ds := NewDisjointSets()
	ds.MakeSet(reneu.Background)
	if got := ds.FindSet(reneu.Background); got != reneu.Background {
		t.Fatalf("FindSet(Background) = %d, want Background", got)
	}
}

func TestUnionSetMergesClasses(t *testing.T) {
	ds := NewDisjointSets()
	ds.UnionSet(1, 2)
	ds.UnionSet(2, 3)

	r1, r2, r3 := ds.FindSet(1), ds.FindSet(2), ds.FindSet(3)
	if r1 != r2 || r2 != r3 {
		t.Fatalf("expected 1, 2, 3 in same class, got %d %d %d", r1, r2, r3)
	}
}

func TestUnionSetAutoInserts(t *testing.T) {
	ds := NewDisjointSets()
	ds.UnionSet(10, 20)
	if ds.FindSet(10) != ds.FindSet(20) {
		t.Fatal("expected auto-inserted labels to be unioned")
	}
}

func TestFindSetUnknownLabelReturnsItself(t *testing.T) {
	ds := NewDisjointSets()
	if got := ds.FindSet(99); got != 99 {
		t.Fatalf("FindSet(99) = %d, want 99 (never make_set-d)", got)
	}
}

func TestCountSetsAfterUnions(t *testing.T) {
	ds := NewDisjointSets()
	labels := []reneu.Label{1, 2, 3, 4, 5}
	for _, l := range labels {
		ds.MakeSet(l)
	}
	ds.UnionSet(1, 2)
	ds.UnionSet(3, 4)

	if got := ds.CountSets(labels); got != 3 {
		t.Fatalf("CountSets = %d, want 3", got)
	}
}

func TestCompressSetsFlattensToRoot(t *testing.T) {
	ds := NewDisjointSets()
	labels := []reneu.Label{1, 2, 3, 4}
	for _, l := range labels {
		ds.MakeSet(l)
	}
	ds.UnionSet(1, 2)
	ds.UnionSet(2, 3)
	ds.UnionSet(3, 4)

	root := ds.FindSet(1)
	ds.CompressSets(labels)
	for _, l := range labels {
		if ds.parent[l] != root {
			t.Fatalf("label %d not flattened to root %d after compress, got %d", l, root, ds.parent[l])
		}
	}
}

func TestUnionSetByRankKeepsTreesShallow(t *testing.T) {
	ds := NewDisjointSets()
	// Build two balanced trees of rank 1, then union them: the result
	// should have rank 2, and every member should resolve in O(1) hops
	// (after compression) regardless of ties.
	ds.UnionSet(1, 2)
	ds.UnionSet(3, 4)
	ds.UnionSet(1, 3)

	labels := []reneu.Label{1, 2, 3, 4}
	rep := ds.FindSet(1)
	for _, l := range labels {
		if ds.FindSet(l) != rep {
			t.Fatalf("label %d not in the unioned class", l)
		}
		if ds.parent[l] != rep {
			t.Fatalf("label %d not one hop from root %d after FindSet, parent = %d", l, rep, ds.parent[l])
		}
	}
	if ds.rank[rep] != 2 {
		t.Fatalf("rank of root %d = %d, want 2", rep, ds.rank[rep])
	}
}
