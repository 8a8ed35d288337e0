package service

import (
	"testing"

	"github.com/GRAF231/brigada/internal/entity"
)

func strPtr(s string) *string { return &s }

func flatItems() []entity.EstimateItem {
	return []entity.EstimateItem{
		{ID: "works", Name: "Отделочные работы"},
		{ID: "walls", Name: "Стены", ParentID: strPtr("works")},
		{ID: "plaster", Name: "Штукатурка", ParentID: strPtr("walls")},
		{ID: "paint", Name: "Покраска", ParentID: strPtr("walls")},
		{ID: "materials", Name: "Материалы"},
	}
}

func TestBuildItemTree_NestedChain(t *testing.T) {
	roots := BuildItemTree(flatItems())

	if len(roots) != 2 {
		t.Fatalf("expected 2 roots, got %d", len(roots))
	}
	if roots[0].ID != "works" || roots[1].ID != "materials" {
		t.Fatalf("unexpected root order: %s, %s", roots[0].ID, roots[1].ID)
	}

	works := roots[0]
	if len(works.Children) != 1 || works.Children[0].ID != "walls" {
		t.Fatalf("expected walls under works, got %+v", works.Children)
	}

	walls := works.Children[0]
	if len(walls.Children) != 2 {
		t.Fatalf("expected 2 items under walls, got %d", len(walls.Children))
	}
	if walls.Children[0].ID != "plaster" || walls.Children[1].ID != "paint" {
		t.Fatalf("children order not preserved: %s, %s", walls.Children[0].ID, walls.Children[1].ID)
	}
}

func TestBuildItemTree_PreservesAllItems(t *testing.T) {
	items := flatItems()
	roots := BuildItemTree(items)

	seen := map[string]bool{}
	var walk func(nodes []*EstimateItemNode)
	walk = func(nodes []*EstimateItemNode) {
		for _, n := range nodes {
			if seen[n.ID] {
				t.Fatalf("item %s appears twice in tree", n.ID)
			}
			seen[n.ID] = true
			walk(n.Children)
		}
	}
	walk(roots)

	if len(seen) != len(items) {
		t.Fatalf("tree lost items: %d of %d", len(seen), len(items))
	}
	for _, it := range items {
		if !seen[it.ID] {
			t.Fatalf("item %s missing from tree", it.ID)
		}
	}
}

func TestBuildItemTree_MissingParentBecomesRoot(t *testing.T) {
	items := []entity.EstimateItem{
		{ID: "a", Name: "А"},
		{ID: "orphan", Name: "Сирота", ParentID: strPtr("deleted-parent")},
	}
	roots := BuildItemTree(items)

	if len(roots) != 2 {
		t.Fatalf("expected orphan at top level, got %d roots", len(roots))
	}
	if roots[1].ID != "orphan" {
		t.Fatalf("orphan not at top level: %s", roots[1].ID)
	}
}

func TestBuildItemTree_Empty(t *testing.T) {
	roots := BuildItemTree(nil)
	if roots == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(roots) != 0 {
		t.Fatalf("expected no roots, got %d", len(roots))
	}
}

func TestBuildItemTree_ChildrenNeverNil(t *testing.T) {
	roots := BuildItemTree(flatItems())

	var walk func(nodes []*EstimateItemNode)
	walk = func(nodes []*EstimateItemNode) {
		for _, n := range nodes {
			if n.Children == nil {
				t.Fatalf("item %s has nil children", n.ID)
			}
			walk(n.Children)
		}
	}
	walk(roots)
}

func TestCollectSubtreeIDs(t *testing.T) {
	ids := collectSubtreeIDs(flatItems(), "walls")

	want := map[string]bool{"walls": true, "plaster": true, "paint": true}
	if len(ids) != len(want) {
		t.Fatalf("expected %d ids, got %d: %v", len(want), len(ids), ids)
	}
	for _, id := range ids {
		if !want[id] {
			t.Fatalf("unexpected id %s in subtree", id)
		}
	}
}

func TestCollectSubtreeIDs_Leaf(t *testing.T) {
	ids := collectSubtreeIDs(flatItems(), "paint")
	if len(ids) != 1 || ids[0] != "paint" {
		t.Fatalf("expected only the leaf itself, got %v", ids)
	}
}

func TestCalcAmount(t *testing.T) {
	cases := []struct {
		quantity, price float64
	}{
		{10, 250},
		{0, 100},
		{2.5, 99.99},
		{3, 0.1},
	}
	// Сумма хранится ровно как произведение, без округления
	for _, tc := range cases {
		want := tc.quantity * tc.price
		if got := calcAmount(tc.quantity, tc.price); got != want {
			t.Errorf("calcAmount(%v, %v) = %v, want %v", tc.quantity, tc.price, got, want)
		}
	}
}
