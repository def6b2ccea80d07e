// SPDX-License-Identifier: BSD-3-Clause

package thermal_test

import (
	"context"
	"testing"

	"github.com/tinycore/firmware/pkg/mockhw"
	"github.com/tinycore/firmware/pkg/thermal"
)

func testSensorConfig() thermal.SensorConfig {
	return thermal.SensorConfig{
		Channel:                0,
		Slope:                  1,
		Offset:                 0,
		SamplesPerReading:      3,
		Variance:               10,
		Retries:                2,
		DisconnectTemperature:  400,
		NoPowerTemperature:     -10,
		HotSentinelTemperature: 999999,
	}
}

func TestSensorAccumulatesToHasData(t *testing.T) {
	adc := mockhw.NewADC()
	adc.Set(0, 200, 201, 199)
	sensor, err := thermal.NewSensor(testSensorConfig(), adc)
	if err != nil {
		t.Fatalf("NewSensor: %v", err)
	}
	sensor.On()

	for i := 0; i < 3; i++ {
		sensor.Tick(context.Background())
	}

	if sensor.State() != thermal.SensorHasData {
		t.Fatalf("state = %v, want HAS_DATA", sensor.State())
	}
	if sensor.Code() != thermal.CodeReadingComplete {
		t.Fatalf("code = %v, want CodeReadingComplete", sensor.Code())
	}
	got := sensor.GetTemperature()
	if got < 199 || got > 201 {
		t.Fatalf("filtered temperature = %v, want within [199,201]", got)
	}
}

func TestSensorOffReturnsHotSentinel(t *testing.T) {
	adc := mockhw.NewADC()
	sensor, err := thermal.NewSensor(testSensorConfig(), adc)
	if err != nil {
		t.Fatalf("NewSensor: %v", err)
	}
	if got := sensor.GetTemperature(); got != testSensorConfig().HotSentinelTemperature {
		t.Fatalf("GetTemperature while OFF = %v, want hot sentinel", got)
	}
}

func TestSensorDisconnectClassification(t *testing.T) {
	adc := mockhw.NewADC()
	adc.Set(0, 450, 451, 452)
	sensor, err := thermal.NewSensor(testSensorConfig(), adc)
	if err != nil {
		t.Fatalf("NewSensor: %v", err)
	}
	sensor.On()
	for i := 0; i < 3; i++ {
		sensor.Tick(context.Background())
	}

	if sensor.State() != thermal.SensorNoData {
		t.Fatalf("state = %v, want NO_DATA", sensor.State())
	}
	if sensor.Code() != thermal.CodeReadingFailedDisconnected {
		t.Fatalf("code = %v, want CodeReadingFailedDisconnected", sensor.Code())
	}
	if got := sensor.GetTemperature(); got != testSensorConfig().HotSentinelTemperature {
		t.Fatalf("GetTemperature after disconnect = %v, want hot sentinel", got)
	}
}

func TestSensorRejectsOutlierWithinRetries(t *testing.T) {
	cfg := testSensorConfig()
	cfg.Retries = 2
	adc := mockhw.NewADC()
	// First sample opens the period unconditionally; the second is a wild
	// outlier rejected by the variance filter, but a retry recovers.
	adc.Set(0, 200, 9000, 201, 202)
	sensor, err := thermal.NewSensor(cfg, adc)
	if err != nil {
		t.Fatalf("NewSensor: %v", err)
	}
	sensor.On()
	for i := 0; i < 3; i++ {
		sensor.Tick(context.Background())
	}

	if sensor.State() != thermal.SensorHasData {
		t.Fatalf("state = %v, want HAS_DATA after outlier retry recovered", sensor.State())
	}
}

func TestSensorBadReadingsAfterExhaustedRetries(t *testing.T) {
	cfg := testSensorConfig()
	cfg.Retries = 1
	adc := mockhw.NewADC()
	adc.FailNext(0, 5)
	sensor, err := thermal.NewSensor(cfg, adc)
	if err != nil {
		t.Fatalf("NewSensor: %v", err)
	}
	sensor.On()
	sensor.Tick(context.Background())

	if sensor.State() != thermal.SensorNoData {
		t.Fatalf("state = %v, want NO_DATA", sensor.State())
	}
	if sensor.Code() != thermal.CodeReadingFailedBadReadings {
		t.Fatalf("code = %v, want CodeReadingFailedBadReadings", sensor.Code())
	}
}

func TestSensorSentinelIntactByDefault(t *testing.T) {
	adc := mockhw.NewADC()
	sensor, err := thermal.NewSensor(testSensorConfig(), adc)
	if err != nil {
		t.Fatalf("NewSensor: %v", err)
	}
	if !sensor.Sentinel().Intact() {
		t.Fatal("fresh sensor's sentinel should be intact")
	}
}
