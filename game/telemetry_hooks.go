package game

import "github.com/Rodrun/sugarscape/telemetry"

// archiveWindow stores a flushed telemetry window in the run archive.
func (g *Game) archiveWindow(w telemetry.WindowStats) {
	if g.archive == nil {
		return
	}
	g.check(g.archive.RecordSample(g.runID, w))
}

// archiveDeath stores a finished lifetime in the run archive.
func (g *Game) archiveDeath(ls *telemetry.LifetimeStats) {
	if g.archive == nil {
		return
	}
	g.check(g.archive.RecordDeath(g.runID, ls))
}
