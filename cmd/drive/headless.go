package main

import (
	"errors"
	"fmt"
	"math"
	"os"

	"raycast-car/internal/config"
	"raycast-car/internal/controls"
	"raycast-car/internal/logger"
	"raycast-car/internal/sim"
	"raycast-car/internal/trace"
)

type headlessOptions struct {
	Seconds  float64
	FPS      float64
	Throttle bool
	Steer    string
	Record   string
}

// runHeadless drives the car at a fixed frame rate without a window, logging telemetry
// once per simulated second and optionally recording every frame.
func runHeadless(log *logger.Logger, p config.Profile, opts headlessOptions) (err error) {
	if !(opts.FPS > 0) || !(opts.Seconds > 0) {
		return errors.New("headless: fps and seconds must be positive")
	}
	s, err := sim.New(p, log.Logger)
	if err != nil {
		return err
	}

	var rec *trace.Recorder
	if opts.Record != "" {
		f, ferr := os.Create(opts.Record)
		if ferr != nil {
			return fmt.Errorf("headless: %w", ferr)
		}
		defer func() {
			if cerr := f.Close(); err == nil {
				err = cerr
			}
		}()
		if rec, err = trace.NewRecorder(f); err != nil {
			return err
		}
	}

	in := controls.Input{
		Accelerate: opts.Throttle,
		SteerLeft:  opts.Steer == "left",
		SteerRight: opts.Steer == "right",
	}
	dt := 1 / opts.FPS
	frames := int(math.Ceil(opts.Seconds * opts.FPS))
	perSecond := int(math.Max(1, math.Round(opts.FPS)))

	for i := 1; i <= frames; i++ {
		s.Tick(in, dt)
		snap := s.Snapshot()
		if rec != nil {
			if err := rec.Record(trace.FromSnapshot(snap)); err != nil {
				return err
			}
		}
		if i%perSecond == 0 || i == frames {
			pos := snap.Chassis.Position
			log.Info().
				Float64("t", snap.Time).
				Float64("x", pos.X()).
				Float64("y", pos.Y()).
				Float64("z", pos.Z()).
				Float64("kmh", snap.SpeedKmHour).
				Bool("grounded", snap.Grounded()).
				Msg("telemetry")
		}
	}
	if rec != nil {
		log.Info().Int("frames", rec.Frames()).Str("file", opts.Record).Msg("trace written")
	}
	return nil
}
