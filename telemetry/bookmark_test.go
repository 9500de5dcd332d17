package telemetry

import (
	"testing"

	"github.com/Rodrun/sugarscape/config"
)

func testBookmarks() config.BookmarksConfig {
	return config.Default().Bookmarks
}

func hasBookmark(bookmarks []Bookmark, typ BookmarkType) bool {
	for _, b := range bookmarks {
		if b.Type == typ {
			return true
		}
	}
	return false
}

func TestBookmarkDetector_PopulationCrash(t *testing.T) {
	bd := NewBookmarkDetector(testBookmarks())

	for i := 0; i < 5; i++ {
		bd.Check(WindowStats{WindowEnd: float64(i * 10), Population: 100})
	}

	// 40% drop from the peak of 100
	bookmarks := bd.Check(WindowStats{WindowEnd: 50, Population: 60})
	if !hasBookmark(bookmarks, BookmarkPopulationCrash) {
		t.Fatal("expected population_crash bookmark")
	}

	// peak was reset, so a small further drop is not another crash
	bookmarks = bd.Check(WindowStats{WindowEnd: 60, Population: 55})
	if hasBookmark(bookmarks, BookmarkPopulationCrash) {
		t.Error("crash reported twice")
	}
}

func TestBookmarkDetector_NoCrashOnSmallDrop(t *testing.T) {
	bd := NewBookmarkDetector(testBookmarks())

	for i := 0; i < 5; i++ {
		bd.Check(WindowStats{WindowEnd: float64(i * 10), Population: 100})
	}
	bookmarks := bd.Check(WindowStats{WindowEnd: 50, Population: 80})
	if hasBookmark(bookmarks, BookmarkPopulationCrash) {
		t.Error("20% drop should not be a crash")
	}
}

func TestBookmarkDetector_Extinction(t *testing.T) {
	bd := NewBookmarkDetector(testBookmarks())

	bd.Check(WindowStats{WindowEnd: 10, Population: 3})
	bookmarks := bd.Check(WindowStats{WindowEnd: 20, Population: 0, Starved: 3})
	if !hasBookmark(bookmarks, BookmarkExtinction) {
		t.Fatal("expected extinction bookmark")
	}

	bookmarks = bd.Check(WindowStats{WindowEnd: 30, Population: 0})
	if hasBookmark(bookmarks, BookmarkExtinction) {
		t.Error("extinction reported twice")
	}
}

func TestBookmarkDetector_BabyBoom(t *testing.T) {
	bd := NewBookmarkDetector(testBookmarks())

	for i := 0; i < 5; i++ {
		bd.Check(WindowStats{WindowEnd: float64(i * 10), Population: 100, Births: 4})
	}

	bookmarks := bd.Check(WindowStats{WindowEnd: 50, Population: 110, Births: 20})
	if !hasBookmark(bookmarks, BookmarkBabyBoom) {
		t.Error("expected baby_boom bookmark")
	}
}

func TestBookmarkDetector_ForageBreakthrough(t *testing.T) {
	bd := NewBookmarkDetector(testBookmarks())

	for i := 0; i < 5; i++ {
		bd.Check(WindowStats{WindowEnd: float64(i * 10), Population: 100, Moves: 100, Harvested: 50})
	}

	bookmarks := bd.Check(WindowStats{WindowEnd: 50, Population: 100, Moves: 100, Harvested: 200})
	if !hasBookmark(bookmarks, BookmarkForageBreakthrough) {
		t.Error("expected forage_breakthrough bookmark")
	}
}

func TestBookmarkDetector_StablePopulation(t *testing.T) {
	cfg := testBookmarks()
	bd := NewBookmarkDetector(cfg)

	var triggered int
	for i := 0; i < cfg.StableWindows+3; i++ {
		pop := 100 + i%2 // tiny oscillation
		if hasBookmark(bd.Check(WindowStats{WindowEnd: float64(i * 10), Population: pop}), BookmarkStablePopulation) {
			triggered++
		}
	}

	if triggered != 1 {
		t.Errorf("stable_population triggered %d times, want 1", triggered)
	}
}

func TestBookmarkDetector_HistoryOrder(t *testing.T) {
	bd := NewBookmarkDetector(config.BookmarksConfig{HistoryWindows: 3})

	for i := 1; i <= 5; i++ {
		bd.Check(WindowStats{WindowEnd: float64(i)})
	}

	h := bd.getHistory()
	if len(h) != 3 {
		t.Fatalf("history length = %d, want 3", len(h))
	}
	for i, want := range []float64{3, 4, 5} {
		if h[i].WindowEnd != want {
			t.Errorf("history[%d].WindowEnd = %v, want %v", i, h[i].WindowEnd, want)
		}
	}
}
