package game

import (
	"fmt"

	"github.com/Rodrun/sugarscape/render"
	"github.com/Rodrun/sugarscape/sim"
)

// textMap renders the current landscape the way the config asks for.
func (g *Game) textMap() string {
	view := sim.ViewAgents
	if g.cfg.Render.ShowSugar {
		view = sim.ViewSugar
	}
	return render.Map(g.sim.Snapshot(view), g.glyphs, g.cfg.Render.NumberLines)
}

// intro prints the seed and the opening statistics.
func (g *Game) intro() {
	fmt.Fprintf(g.out, "Seed: %d\n", g.sim.Seed())
	fmt.Fprint(g.out, render.Statistics(g.sim.Stats()))
}

// outro prints the closing statistics, the requested maps and a summary.
func (g *Game) outro() {
	t := g.sim.Now()
	fmt.Fprint(g.out, render.Statistics(g.sim.Stats()))

	if g.opts.Compare {
		fmt.Fprintf(g.out, "Comparison of initial (t=0) and final maps (t=%g), respectively:\n", t)
		fmt.Fprint(g.out, render.Compare(g.initialMap, g.textMap()))
	}
	if g.opts.Terrain {
		fmt.Fprintln(g.out, "Terrain:")
		fmt.Fprint(g.out, render.Map(g.sim.Snapshot(sim.ViewTerrain), g.glyphs, g.cfg.Render.NumberLines))
	}
	fmt.Fprintln(g.out, render.Summary(g.sim, g.events, g.elapsed))
}
