package telemetry

import (
	"path/filepath"
	"testing"
)

func TestHallOfFameRanking(t *testing.T) {
	hof := NewHallOfFame(3)

	in := []LifetimeStats{
		{ID: 1, Children: 1, Lifespan: 10},
		{ID: 2, Children: 3, Lifespan: 5},
		{ID: 3, Children: 1, Lifespan: 20},
		{ID: 4, Children: 0, Lifespan: 99},
		{ID: 5, Children: 3, Lifespan: 5},
	}
	added := make([]bool, len(in))
	for i := range in {
		added[i] = hof.Consider(&in[i])
	}

	// 4 ranks below a full hall of three better entries
	if added[3] {
		t.Error("childless entry should not enter a full hall")
	}

	var ids []uint64
	for _, e := range hof.Entries() {
		ids = append(ids, e.ID)
	}
	want := []uint64{2, 5, 3}
	if len(ids) != len(want) {
		t.Fatalf("ids = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("ids = %v, want %v", ids, want)
		}
	}

	best, ok := hof.Best()
	if !ok || best.ID != 2 {
		t.Errorf("Best() = %d, %v", best.ID, ok)
	}
}

func TestHallOfFameEmpty(t *testing.T) {
	hof := NewHallOfFame(0)
	if _, ok := hof.Best(); ok {
		t.Error("empty hall has a best entry")
	}
	if hof.Consider(nil) {
		t.Error("nil lifetime accepted")
	}
}

func TestHallOfFameRoundTrip(t *testing.T) {
	hof := NewHallOfFame(5)
	for i := 0; i < 4; i++ {
		hof.Consider(&LifetimeStats{ID: uint64(i), Children: i, Lifespan: float64(10 * i), Cause: "starvation"})
	}

	path := filepath.Join(t.TempDir(), "hall_of_fame.json")
	om := &OutputManager{dir: filepath.Dir(path)}
	if err := om.WriteHallOfFame(hof); err != nil {
		t.Fatalf("WriteHallOfFame: %v", err)
	}

	loaded, err := LoadHallOfFameFromFile(path)
	if err != nil {
		t.Fatalf("LoadHallOfFameFromFile: %v", err)
	}
	got, want := loaded.Entries(), hof.Entries()
	if len(got) != len(want) {
		t.Fatalf("loaded %d entries, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}
