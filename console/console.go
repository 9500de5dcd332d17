// Package console is an interactive prompt that inspects a paused
// simulation. It only reads state.
package console

import (
	"bufio"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/Rodrun/sugarscape/event"
	"github.com/Rodrun/sugarscape/render"
	"github.com/Rodrun/sugarscape/sim"
)

type command struct {
	format  string
	summary string
	run     func(c *Console, s *sim.Simulation, args []string)
}

var commands map[string]command

func init() {
	commands = map[string]command{
		"help":      {"[command name]", "Display available commands and summaries", (*Console).help},
		"cell":      {"<x> <y>", "Get specific cell info", (*Console).cell},
		"agent":     {"<id>", "Get specific agent info", (*Console).agent},
		"alive":     {"", "Show all alive agent IDs", (*Console).alive},
		"stats":     {"", "Show population statistics", (*Console).stats},
		"visualize": {"", "Show agent and sugar maps of the current state", (*Console).visualize},
		"terrain":   {"", "Show the terrain map", (*Console).terrain},
		"quit":      {"", "Stop pausing; the run is cancelled", (*Console).quitCmd},
	}
}

// Console reads commands from in and writes answers to out.
type Console struct {
	in          *bufio.Scanner
	out         io.Writer
	glyphs      render.Glyphs
	numberLines bool
	quit        bool

	// OnQuit runs once when the quit command is given.
	OnQuit func()
}

// New creates a console.
func New(in io.Reader, out io.Writer, glyphs render.Glyphs, numberLines bool) *Console {
	return &Console{
		in:          bufio.NewScanner(in),
		out:         out,
		glyphs:      glyphs,
		numberLines: numberLines,
	}
}

// Quit reports whether the quit command was given or input ended.
func (c *Console) Quit() bool { return c.quit }

// Observe implements sim.Observer by pausing after every event.
func (c *Console) Observe(s *sim.Simulation, ev event.Event) {
	if c.quit {
		return
	}
	var id uint64
	if ev.Owner != nil {
		id = ev.Owner.ID()
	}
	fmt.Fprintf(c.out, "t = %g: %s agent %d (population %d)\n", ev.Time, ev.Type, id, s.Population().Len())
	c.Pause(s)
}

// Pause prompts for commands until a blank line, quit or end of input.
func (c *Console) Pause(s *sim.Simulation) {
	for !c.quit {
		fmt.Fprint(c.out, "> ")
		if !c.in.Scan() {
			c.stop()
			return
		}
		if !c.Interpret(s, c.in.Text()) {
			return
		}
	}
}

// Interpret runs one command line. It returns false for a blank line.
func (c *Console) Interpret(s *sim.Simulation, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	cmd, ok := commands[fields[0]]
	if !ok {
		fmt.Fprintf(c.out, "Unknown command '%s'; type 'help' for a list of commands\n", fields[0])
		return true
	}
	cmd.run(c, s, fields[1:])
	return true
}

func (c *Console) stop() {
	if c.quit {
		return
	}
	c.quit = true
	if c.OnQuit != nil {
		c.OnQuit()
	}
}

func (c *Console) usage(name string) {
	cmd := commands[name]
	fmt.Fprintf(c.out, "%s %s\n%s\n", name, cmd.format, cmd.summary)
}

func (c *Console) help(_ *sim.Simulation, args []string) {
	if len(args) == 0 {
		names := make([]string, 0, len(commands))
		for name := range commands {
			names = append(names, name)
		}
		slices.Sort(names)
		fmt.Fprintln(c.out, strings.Join(names, " "))
		return
	}
	if _, ok := commands[args[0]]; !ok {
		fmt.Fprintf(c.out, "Unknown command name '%s'.\n", args[0])
		return
	}
	c.usage(args[0])
}

func (c *Console) cell(s *sim.Simulation, args []string) {
	if len(args) != 2 {
		c.usage("cell")
		return
	}
	x, errX := strconv.Atoi(args[0])
	y, errY := strconv.Atoi(args[1])
	if errX != nil || errY != nil {
		fmt.Fprintf(c.out, "Coordinates must be integers, got %q %q\n", args[0], args[1])
		return
	}
	fmt.Fprint(c.out, render.Cell(s.CellInfo(x, y)))
}

func (c *Console) agent(s *sim.Simulation, args []string) {
	if len(args) != 1 {
		c.usage("agent")
		return
	}
	id, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		fmt.Fprintf(c.out, "Agent id must be a non-negative integer, got %q\n", args[0])
		return
	}
	info, ok := s.AgentInfo(id)
	if !ok {
		fmt.Fprintf(c.out, "No live agent %d\n", id)
		return
	}
	fmt.Fprint(c.out, render.Agent(info))
}

func (c *Console) alive(s *sim.Simulation, _ []string) {
	for _, id := range s.AliveIDs() {
		fmt.Fprintln(c.out, id)
	}
}

func (c *Console) stats(s *sim.Simulation, _ []string) {
	fmt.Fprint(c.out, render.Statistics(s.Stats()))
}

func (c *Console) visualize(s *sim.Simulation, _ []string) {
	fmt.Fprint(c.out, render.Compare(
		render.Map(s.Snapshot(sim.ViewAgents), c.glyphs, c.numberLines),
		render.Map(s.Snapshot(sim.ViewSugar), c.glyphs, c.numberLines),
	))
}

func (c *Console) terrain(s *sim.Simulation, _ []string) {
	fmt.Fprint(c.out, render.Map(s.Snapshot(sim.ViewTerrain), c.glyphs, c.numberLines))
}

func (c *Console) quitCmd(*sim.Simulation, []string) { c.stop() }
