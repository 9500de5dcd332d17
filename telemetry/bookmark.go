package telemetry

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/Rodrun/sugarscape/config"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkPopulationCrash    BookmarkType = "population_crash"
	BookmarkExtinction         BookmarkType = "extinction"
	BookmarkBabyBoom           BookmarkType = "baby_boom"
	BookmarkStablePopulation   BookmarkType = "stable_population"
	BookmarkForageBreakthrough BookmarkType = "forage_breakthrough"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type" json:"type"`
	Time        float64      `csv:"time" json:"time"`
	Description string       `csv:"description" json:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"time", b.Time,
		"description", b.Description,
	)
}

// BookmarkDetector detects interesting moments in the simulation.
type BookmarkDetector struct {
	cfg config.BookmarksConfig

	// Rolling history (circular buffer, oldest first once full)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	recentPeak int  // peak population since the last crash
	extinct    bool // extinction already reported
	stable     bool // previous window was stable
}

// NewBookmarkDetector creates a detector using the given thresholds.
func NewBookmarkDetector(cfg config.BookmarksConfig) *BookmarkDetector {
	size := cfg.HistoryWindows
	if size < cfg.StableWindows {
		size = cfg.StableWindows
	}
	if size < 3 {
		size = 3
	}
	return &BookmarkDetector{
		cfg:         cfg,
		history:     make([]WindowStats, size),
		historySize: size,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	// Extinction is reported once, whatever the history
	if b := bd.checkExtinction(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	if bd.historyFull || bd.historyIdx > 0 {
		// Population crash: dropped more than CrashDrop from recent peak
		if b := bd.checkCrash(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}

		// Baby boom: births over BoomMultiplier times the rolling average
		if b := bd.checkBabyBoom(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}

		// Forage breakthrough: harvest per move over BoomMultiplier times average
		if b := bd.checkForageBreakthrough(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}

	bd.addToHistory(stats)

	// Stability looks at the window just added
	if b := bd.checkStable(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	if stats.Population > bd.recentPeak {
		bd.recentPeak = stats.Population
	}

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

// getHistory returns the recorded windows oldest first.
func (bd *BookmarkDetector) getHistory() []WindowStats {
	if !bd.historyFull {
		return bd.history[:bd.historyIdx]
	}
	out := make([]WindowStats, 0, bd.historySize)
	out = append(out, bd.history[bd.historyIdx:]...)
	return append(out, bd.history[:bd.historyIdx]...)
}

func (bd *BookmarkDetector) checkExtinction(stats WindowStats) *Bookmark {
	if stats.Population > 0 {
		bd.extinct = false
		return nil
	}
	if bd.extinct {
		return nil
	}
	bd.extinct = true
	return &Bookmark{
		Type:        BookmarkExtinction,
		Time:        stats.WindowEnd,
		Description: fmt.Sprintf("Population extinct (%d starved, %d aged in final window)", stats.Starved, stats.Aged),
	}
}

func (bd *BookmarkDetector) checkCrash(stats WindowStats) *Bookmark {
	if bd.recentPeak == 0 || stats.Population == 0 {
		return nil
	}

	drop := 1.0 - float64(stats.Population)/float64(bd.recentPeak)
	if drop > bd.cfg.CrashDrop && stats.Population < bd.recentPeak-10 {
		// Reset peak after crash
		oldPeak := bd.recentPeak
		bd.recentPeak = stats.Population

		return &Bookmark{
			Type:        BookmarkPopulationCrash,
			Time:        stats.WindowEnd,
			Description: fmt.Sprintf("Population crashed %.0f%% from peak %d to %d", drop*100, oldPeak, stats.Population),
		}
	}

	return nil
}

func (bd *BookmarkDetector) checkBabyBoom(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total int
	for _, h := range history {
		total += h.Births
	}
	avg := float64(total) / float64(len(history))
	if avg == 0 {
		return nil
	}

	if float64(stats.Births) > avg*bd.cfg.BoomMultiplier && stats.Births >= 5 {
		return &Bookmark{
			Type:        BookmarkBabyBoom,
			Time:        stats.WindowEnd,
			Description: fmt.Sprintf("%d births is %.1fx average (%.1f)", stats.Births, float64(stats.Births)/avg, avg),
		}
	}

	return nil
}

func harvestPerMove(s WindowStats) float64 {
	if s.Moves == 0 {
		return 0
	}
	return s.Harvested / float64(s.Moves)
}

func (bd *BookmarkDetector) checkForageBreakthrough(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total float64
	for _, h := range history {
		total += harvestPerMove(h)
	}
	avg := total / float64(len(history))
	if avg == 0 {
		return nil
	}

	current := harvestPerMove(stats)
	if current > avg*bd.cfg.BoomMultiplier && stats.Moves >= 10 {
		return &Bookmark{
			Type:        BookmarkForageBreakthrough,
			Time:        stats.WindowEnd,
			Description: fmt.Sprintf("Harvest per move %.2f is %.1fx average (%.2f)", current, current/avg, avg),
		}
	}

	return nil
}

func (bd *BookmarkDetector) checkStable(stats WindowStats) *Bookmark {
	n := bd.cfg.StableWindows
	history := bd.getHistory()
	if stats.Population < 10 || n < 2 || len(history) < n {
		bd.stable = false
		return nil
	}

	recent := history[len(history)-n:]
	var sum float64
	for _, h := range recent {
		sum += float64(h.Population)
	}
	mean := sum / float64(n)

	var variance float64
	for _, h := range recent {
		d := float64(h.Population) - mean
		variance += d * d
	}
	variance /= float64(n)

	cv := math.Sqrt(variance) / mean
	wasStable := bd.stable
	bd.stable = cv < bd.cfg.StableCV

	// Trigger once on entering a stable stretch
	if bd.stable && !wasStable {
		return &Bookmark{
			Type:        BookmarkStablePopulation,
			Time:        stats.WindowEnd,
			Description: fmt.Sprintf("Stable population around %.0f over %d windows (cv %.3f)", mean, n, cv),
		}
	}

	return nil
}
