// Package commands parses and runs the in-game console commands.
package commands

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/alecthomas/kong"
)

// Target is what console commands act on.
type Target interface {
	Reset() error
	SetGravity(y float64)
	SetGridVisible(visible bool)
	SetShowFPS(show bool)
	SetFreeCamera(free bool)
	SetPaused(paused bool)
}

type toggle struct {
	State string `arg:"" optional:"" default:"on" enum:"on,off" help:"on or off."`
}

func (t toggle) on() bool { return t.State != "off" }

type grammar struct {
	Reset   struct{} `cmd:"" help:"Put the car back at its start position."`
	Gravity struct {
		Y float64 `arg:"" help:"Vertical gravity in m/s^2, e.g. -9.82."`
	} `cmd:"" help:"Set vertical gravity."`
	Grid   toggle `cmd:"" help:"Show or hide the ground grid."`
	Fps    toggle `cmd:"" help:"Show or hide the FPS counter."`
	Pause  toggle `cmd:"" help:"Pause or resume the simulation."`
	Camera struct {
		Mode string `arg:"" enum:"chase,free" help:"chase or free."`
	} `cmd:"" help:"Switch between the chase and free camera."`
	Help struct{} `cmd:"" help:"List commands."`
}

// Console runs command lines against a target.
type Console struct {
	target Target
}

// New returns a console driving target.
func New(target Target) *Console {
	return &Console{target: target}
}

func (c *Console) parser(g *grammar, out *bytes.Buffer) (*kong.Kong, error) {
	return kong.New(g,
		kong.Name("console"),
		kong.Exit(func(int) {}),
		kong.Writers(out, out),
		kong.NoDefaultHelp(),
	)
}

// Execute parses line and runs it. It returns text to show to the user, if any.
func (c *Console) Execute(line string) (string, error) {
	args := strings.Fields(line)
	if len(args) == 0 {
		return "", errors.New("empty command")
	}
	var g grammar
	var out bytes.Buffer
	parser, err := c.parser(&g, &out)
	if err != nil {
		return "", err
	}
	// Console commands take no flags; "--" keeps negative numbers positional.
	if len(args) > 1 {
		args = append([]string{args[0], "--"}, args[1:]...)
	}
	ctx, err := parser.Parse(args)
	if err != nil {
		return "", err
	}

	switch name := strings.Fields(ctx.Command())[0]; name {
	case "reset":
		if err := c.target.Reset(); err != nil {
			return "", fmt.Errorf("reset: %w", err)
		}
		return "car reset", nil
	case "gravity":
		c.target.SetGravity(g.Gravity.Y)
		return fmt.Sprintf("gravity %.2f", g.Gravity.Y), nil
	case "grid":
		c.target.SetGridVisible(g.Grid.on())
		return "grid " + g.Grid.State, nil
	case "fps":
		c.target.SetShowFPS(g.Fps.on())
		return "fps " + g.Fps.State, nil
	case "pause":
		c.target.SetPaused(g.Pause.on())
		return "pause " + g.Pause.State, nil
	case "camera":
		c.target.SetFreeCamera(g.Camera.Mode == "free")
		return "camera " + g.Camera.Mode, nil
	case "help":
		return Help(parser), nil
	default:
		return "", fmt.Errorf("unknown command: %s", name)
	}
}

// Help lists every command with its summary, one per line.
func Help(k *kong.Kong) string {
	var b strings.Builder
	for _, n := range k.Model.Children {
		fmt.Fprintf(&b, "%-8s %s\n", n.Name, n.Help)
	}
	return strings.TrimRight(b.String(), "\n")
}
