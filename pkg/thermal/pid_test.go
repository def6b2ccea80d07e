// SPDX-License-Identifier: BSD-3-Clause

package thermal_test

import (
	"math"
	"testing"

	"github.com/tinycore/firmware/pkg/thermal"
)

func testPIDConfig() thermal.PIDConfig {
	return thermal.PIDConfig{
		Kp: 2, Ki: 0.5, Kd: 1,
		OutputMin: 0, OutputMax: 100,
		DT:      0.1,
		Epsilon: 0.01,
	}
}

func TestPIDOffReturnsZero(t *testing.T) {
	pid, err := thermal.NewPID(testPIDConfig())
	if err != nil {
		t.Fatalf("NewPID: %v", err)
	}
	if out := pid.Calculate(200, 20); out != 0 {
		t.Fatalf("Calculate while off = %v, want 0", out)
	}
}

func TestPIDClampsToOutputBounds(t *testing.T) {
	pid, err := thermal.NewPID(testPIDConfig())
	if err != nil {
		t.Fatalf("NewPID: %v", err)
	}
	pid.On()

	out := pid.Calculate(1000, 0)
	if out != 100 {
		t.Fatalf("Calculate with huge error = %v, want clamped to 100", out)
	}

	out = pid.Calculate(-1000, 0)
	if out != 0 {
		t.Fatalf("Calculate with huge negative error = %v, want clamped to 0", out)
	}
}

func TestPIDEpsilonSuppressesIntegration(t *testing.T) {
	cfg := testPIDConfig()
	cfg.Epsilon = 5
	pid, err := thermal.NewPID(cfg)
	if err != nil {
		t.Fatalf("NewPID: %v", err)
	}
	pid.On()

	// Error of 1 is within the 5-degree dead zone: repeated calls must not
	// accumulate an integral term, so the output stays constant. The first
	// call is a priming call: its derivative term is taken against a zero
	// previous error, so it is not compared.
	pid.Calculate(200, 199)
	first := pid.Calculate(200, 199)
	second := pid.Calculate(200, 199)
	if first != second {
		t.Fatalf("output drifted inside epsilon dead zone: %v != %v", first, second)
	}
}

func TestPIDStrictAntiWindupSuppressesAtSaturation(t *testing.T) {
	cfg := testPIDConfig()
	cfg.StrictAntiWindup = true
	cfg.Ki = 10
	pid, err := thermal.NewPID(cfg)
	if err != nil {
		t.Fatalf("NewPID: %v", err)
	}
	pid.On()

	// Drive the output to saturation in the same direction repeatedly.
	for i := 0; i < 5; i++ {
		pid.Calculate(1000, 0)
	}
	saturatedOutput := pid.LastOutput()
	if saturatedOutput != cfg.OutputMax {
		t.Fatalf("expected saturation at OutputMax, got %v", saturatedOutput)
	}

	// One more call at the same saturated error should not push the
	// (already clamped) output any further, since integration is suppressed.
	pid.Calculate(1000, 0)
	if pid.LastOutput() != cfg.OutputMax {
		t.Fatalf("expected output to remain clamped at OutputMax, got %v", pid.LastOutput())
	}
}

func TestPIDResetClearsAccumulatedState(t *testing.T) {
	pid, err := thermal.NewPID(testPIDConfig())
	if err != nil {
		t.Fatalf("NewPID: %v", err)
	}
	pid.On()
	pid.Calculate(200, 50)
	pid.Calculate(200, 60)

	pid.Reset()
	pid.Off()
	pid.On()
	afterReset := pid.Calculate(200, 50)

	pid2, _ := thermal.NewPID(testPIDConfig())
	pid2.On()
	fresh := pid2.Calculate(200, 50)

	if math.Abs(afterReset-fresh) > 1e-9 {
		t.Fatalf("Reset did not clear accumulated state: got %v, want %v", afterReset, fresh)
	}
}

func TestPIDConfigValidate(t *testing.T) {
	cases := []struct {
		name string
		cfg  thermal.PIDConfig
		ok   bool
	}{
		{"valid", testPIDConfig(), true},
		{"min-greater-than-max", thermal.PIDConfig{OutputMin: 10, OutputMax: 0, DT: 0.1}, false},
		{"zero-dt", thermal.PIDConfig{OutputMax: 100, DT: 0}, false},
		{"negative-epsilon", thermal.PIDConfig{OutputMax: 100, DT: 0.1, Epsilon: -1}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if (err == nil) != tc.ok {
				t.Fatalf("Validate() error = %v, want ok=%v", err, tc.ok)
			}
		})
	}
}
