// SPDX-License-Identifier: BSD-3-Clause

package thermalctl

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/tinycore/firmware/pkg/assert"
	"github.com/tinycore/firmware/pkg/telemetry"
	"github.com/tinycore/firmware/pkg/thermal"
	"github.com/tinycore/firmware/pkg/tick"
)

// Owner is the thermal controller's single process-wide owner: the PID
// regulator, sensor sampler, and heater supervisor it owns are explicitly
// constructed once here and threaded through every tick callback, rather
// than living as package-level globals.
type Owner struct {
	cfg *Config

	pid    *thermal.PID
	sensor *thermal.Sensor
	heater *thermal.Heater

	source *tick.Source
	cb     *tick.Callback

	monitor *assert.Monitor
	logger  *slog.Logger

	alarmCounter metric.Int64Counter

	mu      sync.Mutex
	started bool
}

// New constructs an Owner from cfg, a PWM actuator, and an ADC reader. pwm
// and adc are the narrow hardware-facing collaborators; the only
// implementations in this module are pkg/mockhw's in-memory ones, used by
// tests and cmd/mock.
func New(cfg *Config, pwm thermal.PWM, adc thermal.ADC, logger *slog.Logger, opts ...Option) (*Owner, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	pid, err := thermal.NewPID(cfg.PID)
	if err != nil {
		return nil, fmt.Errorf("thermalctl: building PID: %w", err)
	}
	sensor, err := thermal.NewSensor(cfg.Sensor, adc)
	if err != nil {
		return nil, fmt.Errorf("thermalctl: building sensor: %w", err)
	}
	heater, err := thermal.NewHeater(cfg.Heater, pwm, pid, sensor)
	if err != nil {
		return nil, fmt.Errorf("thermalctl: building heater: %w", err)
	}

	meter := telemetry.GetMeter(cfg.ServiceName)
	alarmCounter, err := meter.Int64Counter("thermalctl_alarms_total",
		metric.WithDescription("count of thermal controller shutdowns and integrity failures"))
	if err != nil {
		return nil, fmt.Errorf("thermalctl: creating alarm counter: %w", err)
	}

	o := &Owner{
		cfg:          cfg,
		pid:          pid,
		sensor:       sensor,
		heater:       heater,
		source:       tick.NewSource(cfg.TickInterval),
		logger:       logger,
		alarmCounter: alarmCounter,
	}

	o.monitor = assert.NewMonitor(logger)
	o.monitor.Register("thermalctl.pid", func() assert.Sentinel { return pid.Sentinel() })
	o.monitor.Register("thermalctl.sensor", func() assert.Sentinel { return sensor.Sentinel() })
	o.monitor.Register("thermalctl.heater", func() assert.Sentinel { return heater.Sentinel() })

	o.cb = &tick.Callback{
		Tick10ms:  func() { sensor.Tick(context.Background()) },
		Tick100ms: o.tick100ms,
	}

	return o, nil
}

// Name implements service.Service.
func (o *Owner) Name() string { return o.cfg.ServiceName }

// Heater exposes the underlying heater supervisor for callers that need to
// command it (On/Off) outside the tick loop, e.g. in response to a G-code
// M104/M109-equivalent command from the motion side.
func (o *Owner) Heater() *thermal.Heater { return o.heater }

// Run implements service.Service: it starts the tick source and drives the
// cooperative dispatch loop until ctx is canceled or an integrity violation
// raises a hard alarm.
func (o *Owner) Run(ctx context.Context) error {
	o.mu.Lock()
	if o.started {
		o.mu.Unlock()
		return ErrServiceAlreadyStarted
	}
	o.started = true
	o.mu.Unlock()

	defer func() {
		o.mu.Lock()
		o.started = false
		o.mu.Unlock()
	}()

	sourceErr := make(chan error, 1)
	go func() { sourceErr <- o.source.Run(ctx) }()

	if err := o.heater.On(o.cfg.Setpoint); err != nil {
		return fmt.Errorf("thermalctl: initial heater on: %w", err)
	}

	ticker := time.NewTicker(time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-sourceErr:
			return fmt.Errorf("thermalctl: tick source stopped: %w", err)
		case <-ticker.C:
			cycleCtx, span := telemetry.StartSpan(ctx, o.cfg.ServiceName, "thermalctl.dispatch_cycle")
			o.cb.Run(o.source)
			if err := o.monitor.Run(); err != nil {
				o.raiseAlarm(cycleCtx, err)
				if s := o.heater.State(); s == thermal.HeaterHeating || s == thermal.HeaterAtTarget {
					_ = o.heater.Off(thermal.HeaterOff, thermal.HeaterCodeNone)
				}
				span.End()
				return fmt.Errorf("%w: %v", ErrIntegrityViolation, err)
			}
			span.End()
		}
	}
}

func (o *Owner) tick100ms() {
	if err := o.heater.Tick(context.Background()); err != nil {
		o.logger.Error("heater tick failed", "error", err, "heater_state", o.heater.State().String())
		o.alarmCounter.Add(context.Background(), 1, metric.WithAttributes(
			attribute.String("reason", "heater_tick_error"),
		))
		return
	}
	if o.heater.State() == thermal.HeaterShutdown {
		o.logger.Warn("heater shut down",
			"code", o.heater.Code(),
			"temperature", o.heater.Temperature(),
			"alarm_id", uuid.NewString(),
		)
		o.alarmCounter.Add(context.Background(), 1, metric.WithAttributes(
			attribute.String("reason", "heater_shutdown"),
		))
	}
}

func (o *Owner) raiseAlarm(ctx context.Context, err error) {
	telemetry.RecordError(ctx, err, "thermal integrity violation")
	o.logger.Error("thermal integrity violation", "error", err, "alarm_id", uuid.NewString())
	o.alarmCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", "integrity_violation")))
}
