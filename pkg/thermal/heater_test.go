// SPDX-License-Identifier: BSD-3-Clause

package thermal_test

import (
	"context"
	"testing"
	"time"

	"github.com/tinycore/firmware/pkg/mockhw"
	"github.com/tinycore/firmware/pkg/thermal"
)

func testHeaterConfig() thermal.HeaterConfig {
	return thermal.HeaterConfig{
		PWMFrequency:        1000,
		TickInterval:        100 * time.Millisecond,
		AmbientTimeout:      300 * time.Millisecond,
		RegulationTimeout:   time.Second,
		AmbientTemperature:  40,
		OverheatTemperature: 280,
	}
}

func newTestHeater(t *testing.T, adc *mockhw.ADC) (*thermal.Heater, *mockhw.PWM, *thermal.Sensor) {
	t.Helper()
	pwm := mockhw.NewPWM(1, 2000)
	pid, err := thermal.NewPID(testPIDConfig())
	if err != nil {
		t.Fatalf("NewPID: %v", err)
	}
	sensor, err := thermal.NewSensor(testSensorConfig(), adc)
	if err != nil {
		t.Fatalf("NewSensor: %v", err)
	}
	heater, err := thermal.NewHeater(testHeaterConfig(), pwm, pid, sensor)
	if err != nil {
		t.Fatalf("NewHeater: %v", err)
	}
	return heater, pwm, sensor
}

// reachHasData drives sensor's 10ms ticks until it reaches HAS_DATA.
func reachHasData(sensor *thermal.Sensor) {
	sensor.StartReading()
	for i := 0; i < testSensorConfig().SamplesPerReading; i++ {
		sensor.Tick(context.Background())
	}
}

func TestHeaterOnEnablesPWM(t *testing.T) {
	adc := mockhw.NewADC()
	adc.Set(0, 20, 21, 22)
	heater, pwm, _ := newTestHeater(t, adc)

	if err := heater.On(200); err != nil {
		t.Fatalf("On: %v", err)
	}
	if heater.State() != thermal.HeaterHeating {
		t.Fatalf("state = %v, want HEATING", heater.State())
	}
	if !pwm.Enabled() {
		t.Fatal("PWM should be enabled after On")
	}
}

func TestHeaterReachesAtTarget(t *testing.T) {
	adc := mockhw.NewADC()
	adc.Set(0, 200, 200, 200)
	heater, _, sensor := newTestHeater(t, adc)

	if err := heater.On(200); err != nil {
		t.Fatalf("On: %v", err)
	}
	reachHasData(sensor)
	if err := heater.Tick(context.Background()); err != nil {
		t.Fatalf("Tick: %v", err)
	}

	if heater.State() != thermal.HeaterAtTarget {
		t.Fatalf("state = %v, want AT_TARGET", heater.State())
	}
}

func TestHeaterOverheatShutsDown(t *testing.T) {
	adc := mockhw.NewADC()
	adc.Set(0, 300, 300, 300)
	heater, pwm, sensor := newTestHeater(t, adc)

	if err := heater.On(200); err != nil {
		t.Fatalf("On: %v", err)
	}
	reachHasData(sensor)
	if err := heater.Tick(context.Background()); err != nil {
		t.Fatalf("Tick: %v", err)
	}

	if heater.State() != thermal.HeaterShutdown {
		t.Fatalf("state = %v, want SHUTDOWN", heater.State())
	}
	if heater.Code() != thermal.HeaterCodeOverheat {
		t.Fatalf("code = %v, want HeaterCodeOverheat", heater.Code())
	}
	if pwm.Enabled() {
		t.Fatal("PWM should be disabled after overheat shutdown")
	}
}

func TestHeaterAmbientTimeout(t *testing.T) {
	adc := mockhw.NewADC()
	adc.Set(0, 20, 20, 20)
	heater, _, sensor := newTestHeater(t, adc)

	if err := heater.On(200); err != nil {
		t.Fatalf("On: %v", err)
	}

	// AmbientTimeout is 300ms = 3 TickInterval (100ms) periods.
	for i := 0; i < 4; i++ {
		reachHasData(sensor)
		if err := heater.Tick(context.Background()); err != nil {
			t.Fatalf("Tick %d: %v", i, err)
		}
		if heater.State() == thermal.HeaterShutdown {
			break
		}
	}

	if heater.State() != thermal.HeaterShutdown {
		t.Fatalf("state = %v, want SHUTDOWN after ambient timeout", heater.State())
	}
	if heater.Code() != thermal.HeaterCodeAmbientTimedOut {
		t.Fatalf("code = %v, want HeaterCodeAmbientTimedOut", heater.Code())
	}
}

func TestHeaterTickIsNoopOnceShutdown(t *testing.T) {
	adc := mockhw.NewADC()
	adc.Set(0, 300, 300, 300)
	heater, _, sensor := newTestHeater(t, adc)

	if err := heater.On(200); err != nil {
		t.Fatalf("On: %v", err)
	}
	reachHasData(sensor)
	if err := heater.Tick(context.Background()); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if heater.State() != thermal.HeaterShutdown {
		t.Fatalf("precondition failed: state = %v", heater.State())
	}

	// A further Tick while SHUTDOWN must be a no-op.
	if err := heater.Tick(context.Background()); err != nil {
		t.Fatalf("Tick after shutdown: %v", err)
	}
	if heater.State() != thermal.HeaterShutdown {
		t.Fatalf("state changed after shutdown: %v", heater.State())
	}
}
