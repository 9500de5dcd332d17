package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/Rodrun/sugarscape/event"
	"github.com/Rodrun/sugarscape/sim"
)

// progressSteps is the resolution of the progress bar over [0, until].
const progressSteps = 1000

// RunHeadless prints the opening statistics, runs to the stop time and
// prints the closing report. It stops early when ctx is done or the console
// quits; a console quit is not an error.
func (g *Game) RunHeadless(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g.stop = cancel
	defer func() { g.stop = nil }()

	g.intro()

	if g.opts.Progress {
		bar := progressbar.Default(progressSteps, "simulating")
		g.sim.AddObserver(sim.ObserverFunc(func(s *sim.Simulation, _ event.Event) {
			bar.Set(progressFor(s.Now(), g.until))
		}))
		defer bar.Finish()
	}

	g.started = time.Now()
	n, err := g.sim.Run(ctx, g.until)
	g.events += n
	g.elapsed += time.Since(g.started)

	if err != nil && !(g.quit && errors.Is(err, context.Canceled)) {
		slog.Warn("run interrupted", "time", g.sim.Now(), "events", g.events, "error", err)
		return err
	}
	g.outro()
	return nil
}

// advance handles up to n events without passing the stop time.
func (g *Game) advance(n int) int {
	handled := 0
	for ; handled < n; handled++ {
		next, ok := g.sim.Calendar().PeekNextTime()
		if !ok || next > g.until {
			g.finished = true
			break
		}
		g.sim.Step()
	}
	g.events += handled
	return handled
}

// animate prints the map after every event.
func (g *Game) animate(s *sim.Simulation, _ event.Event) {
	fmt.Fprintf(g.out, "t = %g, alive = %d\n%s", s.Now(), s.Population().Len(), g.textMap())
}

func progressFor(now, until float64) int {
	if until <= 0 || math.IsInf(until, 1) {
		return 0
	}
	return int(math.Min(now/until, 1) * progressSteps)
}
