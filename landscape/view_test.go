package landscape

import (
	"errors"
	"testing"
)

func flatLandscape(t *testing.T, rows, cols int) *Landscape {
	t.Helper()
	l := newTestLandscape(t, rows, cols)
	l.Each(func(c *Cell) { c.Level = 1 })
	return l
}

func TestFoldViewVisitsRays(t *testing.T) {
	l := flatLandscape(t, 10, 10)
	type hit struct{ x, y, dist int }
	got, err := FoldView(l, 5, 5, 3, Cardinals[:], []hit(nil), func(acc []hit, c *Cell, dist int) []hit {
		return append(acc, hit{c.X, c.Y, dist})
	})
	if err != nil {
		t.Fatalf("FoldView: %v", err)
	}
	want := []hit{
		{5, 6, 1}, {5, 7, 2}, {5, 8, 3},
		{6, 5, 1}, {7, 5, 2}, {8, 5, 3},
		{5, 4, 1}, {5, 3, 2}, {5, 2, 3},
		{4, 5, 1}, {3, 5, 2}, {2, 5, 3},
	}
	if len(got) != len(want) {
		t.Fatalf("visited %d cells, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("visit %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestFoldViewOcclusion(t *testing.T) {
	l := flatLandscape(t, 10, 10)
	// vision 2 from a level-1 cell: anything above level 3 blocks the ray.
	l.Cell(5, 6).Level = 4
	l.Cell(7, 5).Level = 3

	count, err := FoldView(l, 5, 5, 2, []Direction{{0, 1}, {1, 0}}, 0, func(acc int, c *Cell, dist int) int {
		return acc + 1
	})
	if err != nil {
		t.Fatalf("FoldView: %v", err)
	}
	// South ray is blocked at its first cell; east ray sees both cells.
	if count != 2 {
		t.Errorf("visited %d cells, want 2", count)
	}
}

func TestFoldViewWraps(t *testing.T) {
	l := flatLandscape(t, 3, 3)
	last, _ := FoldView(l, 2, 2, 1, []Direction{{1, 0}}, (*Cell)(nil), func(_ *Cell, c *Cell, _ int) *Cell { return c })
	if last.X != 0 || last.Y != 2 {
		t.Errorf("east of (2,2) = (%d,%d), want (0,2)", last.X, last.Y)
	}
}

func TestFoldMoore(t *testing.T) {
	l := flatLandscape(t, 5, 5)
	n, err := FoldMoore(l, 0, 0, 0, func(acc int, c *Cell) int {
		if c.X == 0 && c.Y == 0 {
			t.Error("Moore neighbourhood included the centre")
		}
		return acc + 1
	})
	if err != nil {
		t.Fatalf("FoldMoore: %v", err)
	}
	if n != 8 {
		t.Errorf("visited %d cells, want 8", n)
	}
}

func TestFoldNilVisitor(t *testing.T) {
	l := flatLandscape(t, 3, 3)
	if _, err := FoldView[int](l, 0, 0, 1, Cardinals[:], 0, nil); !errors.Is(err, ErrInvalidVisitor) {
		t.Errorf("FoldView(nil) err = %v, want ErrInvalidVisitor", err)
	}
	if _, err := FoldMoore[int](l, 0, 0, 0, nil); !errors.Is(err, ErrInvalidVisitor) {
		t.Errorf("FoldMoore(nil) err = %v, want ErrInvalidVisitor", err)
	}
}
