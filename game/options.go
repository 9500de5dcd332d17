package game

import (
	"io"

	"github.com/Rodrun/sugarscape/config"
)

// Options configures one run.
type Options struct {
	Config      *config.Config // nil uses config.Default()
	Seed        uint64         // 0 uses the config seed
	Until       float64        // 0 uses the config horizon
	OutputDir   string         // CSV/JSON artifacts; empty disables
	TracePath   string         // event trace; empty disables
	ArchivePath string         // SQLite run archive; empty disables
	LogStats    bool
	Progress    bool // progress bar over simulated time (headless)

	// Text output, mirroring the command line runner.
	Pause   bool // interactive console after every event (headless)
	Animate bool // print the map after every event
	Compare bool // print the initial and final maps side by side
	Terrain bool // print the terrain map at the end

	Headless bool

	In  io.Reader // console input; nil uses os.Stdin
	Out io.Writer // text output; nil uses os.Stdout
}
