// SPDX-License-Identifier: BSD-3-Clause

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tinycore/firmware/pkg/config"
	"github.com/tinycore/firmware/pkg/mockhw"
	"github.com/tinycore/firmware/service/motionctl"
	"github.com/tinycore/firmware/service/thermalctl"
)

const sampleTOML = `
[thermal]
service_name = "hotend0"
setpoint_celsius = 215.5

[thermal.pid]
kp = 10
ki = 0.4
kd = 50
output_min = 0
output_max = 100
dt_seconds = 0.1
epsilon = 0.02
strict_anti_windup = true

[thermal.heater]
pwm_frequency = 2000
tick_interval_ms = 100
ambient_timeout_ms = 45000
regulation_timeout_ms = 180000
ambient_temperature = 35
overheat_temperature = 290

[motion]
service_name = "motionctl0"
build_id = "v1.2.3"
line_buffer_size = 512
planner_headroom = 8
alarm_blink_hz = 8
`

func writeTemp(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoadDecodesFile(t *testing.T) {
	path := writeTemp(t, sampleTOML)
	f, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if f.Thermal == nil || f.Thermal.ServiceName != "hotend0" {
		t.Fatalf("Thermal = %+v, want ServiceName hotend0", f.Thermal)
	}
	if f.Motion == nil || f.Motion.ServiceName != "motionctl0" {
		t.Fatalf("Motion = %+v, want ServiceName motionctl0", f.Motion)
	}
}

func TestLoadMissingFileErrors(t *testing.T) {
	if _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatal("Load() on a missing file = nil error, want an error")
	}
}

func TestApplyThermalOverridesDefaults(t *testing.T) {
	path := writeTemp(t, sampleTOML)
	f, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	owner, err := thermalctl.New(thermalctl.DefaultConfig(), mockhw.NewPWM(1, 2000), mockhw.NewADC(), nil, f.ApplyThermal()...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if owner.Name() != "hotend0" {
		t.Fatalf("Name() = %q, want %q", owner.Name(), "hotend0")
	}
}

func TestApplyThermalOnNilFileIsNoop(t *testing.T) {
	var f *config.File
	if opts := f.ApplyThermal(); opts != nil {
		t.Fatalf("ApplyThermal() on nil File = %v, want nil", opts)
	}
}

func TestApplyMotionOverridesOnlySetFields(t *testing.T) {
	path := writeTemp(t, sampleTOML)
	f, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	cfg := motionctl.DefaultConfig()
	originalTXLowWater := cfg.TXLowWater
	f.ApplyMotion(cfg)

	if cfg.ServiceName != "motionctl0" {
		t.Fatalf("ServiceName = %q, want %q", cfg.ServiceName, "motionctl0")
	}
	if cfg.BuildID != "v1.2.3" {
		t.Fatalf("BuildID = %q, want %q", cfg.BuildID, "v1.2.3")
	}
	if cfg.LineBufferSize != 512 {
		t.Fatalf("LineBufferSize = %d, want 512", cfg.LineBufferSize)
	}
	if cfg.PlannerHeadroom != 8 {
		t.Fatalf("PlannerHeadroom = %d, want 8", cfg.PlannerHeadroom)
	}
	if cfg.AlarmBlinkHz != 8 {
		t.Fatalf("AlarmBlinkHz = %v, want 8", cfg.AlarmBlinkHz)
	}
	// TXLowWater was never set in the [motion] table, so it must keep the
	// compiled-in default rather than being zeroed.
	if cfg.TXLowWater != originalTXLowWater {
		t.Fatalf("TXLowWater = %d, want unchanged default %d", cfg.TXLowWater, originalTXLowWater)
	}
}

func TestApplyMotionOnNilMotionTableIsNoop(t *testing.T) {
	f := &config.File{}
	cfg := motionctl.DefaultConfig()
	wantServiceName, wantLineBufferSize := cfg.ServiceName, cfg.LineBufferSize
	f.ApplyMotion(cfg)
	if cfg.ServiceName != wantServiceName || cfg.LineBufferSize != wantLineBufferSize {
		t.Fatalf("ApplyMotion with nil Motion table mutated cfg: ServiceName=%q LineBufferSize=%d",
			cfg.ServiceName, cfg.LineBufferSize)
	}
}
