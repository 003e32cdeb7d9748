package main

import (
	"fmt"
	"os"

	"raycast-car/internal/config"
	"raycast-car/internal/logger"

	"github.com/alecthomas/kong"
)

var CLI struct {
	Debug   bool   `help:"Whether to enable debug logging."`
	LogFile string `help:"Append logs to this file; empty disables it." default:"logs/drive.txt"`

	Run struct {
		Profile string `help:"Profile YAML file; defaults are used for missing fields." type:"existingfile"`
		Terrain bool   `help:"Scatter noise terrain blocks around the origin."`
		Seed    int64  `help:"Terrain seed; 0 picks one from the clock."`
	} `cmd:"" default:"1" help:"Open a window and drive the car."`

	Headless struct {
		Profile  string  `help:"Profile YAML file." type:"existingfile"`
		Seconds  float64 `help:"Simulated seconds." default:"5"`
		FPS      float64 `name:"fps" help:"Frames per second fed to the stepper." default:"60"`
		Throttle bool    `help:"Hold the throttle for the whole run."`
		Steer    string  `help:"Hold a steer key." enum:"none,left,right" default:"none"`
		Record   string  `help:"Write a CBOR telemetry trace to this file."`
	} `cmd:"" help:"Simulate without a window and log telemetry."`

	Config struct {
		Profile string `help:"Profile YAML file to merge over the defaults." type:"existingfile"`
	} `cmd:"" help:"Write the effective profile to standard output."`
}

func writeError(err error) {
	fmt.Fprintf(os.Stderr, "%s\n", err)
	os.Exit(1)
}

// loadProfile merges the optional profile file and the environment over the defaults.
func loadProfile(path string) (config.Profile, error) {
	p := config.Default()
	if path != "" {
		var err error
		if p, err = config.Load(path); err != nil {
			return p, err
		}
	}
	if err := config.ApplyEnv(&p); err != nil {
		return p, err
	}
	return p, p.Validate()
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("drive"),
		kong.Description("a raycast-vehicle driving sandbox"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}))

	if ctx.Command() == "config" {
		p, err := loadProfile(CLI.Config.Profile)
		if err != nil {
			writeError(err)
		}
		out, err := config.Marshal(p)
		if err != nil {
			writeError(err)
		}
		os.Stdout.Write(out)
		return
	}

	log, err := logger.New(CLI.LogFile, CLI.Debug)
	if err != nil {
		writeError(err)
	}
	defer log.Close()
	if CLI.Debug {
		log.Warn().Msg("debug logging enabled")
	}

	switch ctx.Command() {
	case "run":
		p, err := loadProfile(CLI.Run.Profile)
		if err != nil {
			writeError(err)
		}
		if CLI.Run.Terrain {
			p.Terrain.Enabled = true
			p.Terrain.Seed = CLI.Run.Seed
		}
		err = runViewer(log, p)
		if err != nil {
			writeError(err)
		}
	case "headless":
		p, err := loadProfile(CLI.Headless.Profile)
		if err != nil {
			writeError(err)
		}
		err = runHeadless(log, p, headlessOptions{
			Seconds:  CLI.Headless.Seconds,
			FPS:      CLI.Headless.FPS,
			Throttle: CLI.Headless.Throttle,
			Steer:    CLI.Headless.Steer,
			Record:   CLI.Headless.Record,
		})
		if err != nil {
			writeError(err)
		}
	default:
		writeError(fmt.Errorf("unknown command %q", ctx.Command()))
	}
}
