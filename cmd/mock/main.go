// SPDX-License-Identifier: BSD-3-Clause

// Command mock runs the motion and thermal controllers against in-memory
// mockhw collaborators, for local development and the scenarios in
// SPEC_FULL.md §8 that need both controllers wired together under one
// supervision tree. It has no network surface: the two controllers talk to
// nothing but their local mock hardware and each other's in-process Owner.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"cirello.io/oversight/v2"
	"github.com/arunsworld/nursery"

	"github.com/tinycore/firmware/pkg/log"
	"github.com/tinycore/firmware/pkg/mockhw"
	"github.com/tinycore/firmware/pkg/process"
	"github.com/tinycore/firmware/service/motionctl"
	"github.com/tinycore/firmware/service/thermalctl"
)

func main() {
	debug.SetMemoryLimit(64 * 1024 * 1024)

	logger := log.NewDefaultLogger()
	log.RedirectStdLog(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	thermalOwner, err := buildThermalOwner(logger)
	if err != nil {
		logger.Error("building thermal controller", "error", err)
		os.Exit(1)
	}

	motionOwner, err := buildMotionOwner(logger)
	if err != nil {
		logger.Error("building motion controller", "error", err)
		os.Exit(1)
	}

	supervisionTree := oversight.New(
		oversight.NeverHalt(),
		oversight.DefaultRestartStrategy(),
		oversight.WithLogger(log.NewOversightLogger(logger)),
	)

	if err := supervisionTree.Add(process.New(thermalOwner), oversight.Transient(), oversight.Timeout(10*time.Second), thermalOwner.Name()); err != nil {
		logger.Error("adding thermal controller to supervision tree", "error", err)
		os.Exit(1)
	}
	if err := supervisionTree.Add(process.New(motionOwner), oversight.Transient(), oversight.Timeout(10*time.Second), motionOwner.Name()); err != nil {
		logger.Error("adding motion controller to supervision tree", "error", err)
		os.Exit(1)
	}

	logger.Info("starting control core", "service", "mock")

	supervise := func(ctx context.Context, c chan error) {
		c <- supervisionTree.Start(ctx)
	}

	if err := nursery.RunConcurrentlyWithContext(ctx, supervise); err != nil {
		logger.Error("control core stopped", "error", err)
		os.Exit(1)
	}
}

// buildThermalOwner wires a thermalctl.Owner to mockhw's PWM and ADC, with
// the ADC scripted to ramp from room temperature up to the default setpoint
// so the heater supervisor has something to regulate against.
func buildThermalOwner(logger *slog.Logger) (*thermalctl.Owner, error) {
	cfg := thermalctl.DefaultConfig()

	pwm := mockhw.NewPWM(1, 2000)
	adc := mockhw.NewADC()
	adc.Set(cfg.Sensor.Channel, rampSequence(22, cfg.Setpoint, 60)...)

	return thermalctl.New(cfg, pwm, adc, logger)
}

// buildMotionOwner wires a motionctl.Owner to mockhw's in-memory collaborator
// set: an empty line source (no G-code queued), a zero-latency planner and TX
// buffer, and an untripped limit switch.
func buildMotionOwner(logger *slog.Logger) (*motionctl.Owner, error) {
	cfg := motionctl.DefaultConfig()
	cfg.Logger = logger
	cfg.LineSource = mockhw.NewLineSource()
	cfg.GCodeParser = mockhw.NewEchoParser("ok ")
	cfg.TextParser = mockhw.NewEchoParser("ok ")
	cfg.JSONParser = mockhw.NewEchoParser("")
	cfg.Planner = mockhw.NewPlanner(16)
	cfg.TXBuffer = mockhw.NewTXBuffer(0)
	cfg.Stepper = mockhw.NewStepper()
	cfg.LimitSwitch = mockhw.NewLimitSwitch()
	cfg.LED = mockhw.NewStatusLED()
	cfg.Resetter = mockhw.NewResetter()
	cfg.BootloaderJumper = mockhw.NewBootloaderJumper()

	return motionctl.New(cfg)
}

// rampSequence returns n raw ADC samples linearly interpolated from start to
// end, so the sensor sampler sees a plausible warm-up curve instead of an
// instantaneous step.
func rampSequence(start, end float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		frac := float64(i) / float64(n-1)
		out[i] = start + frac*(end-start)
	}
	return out
}
