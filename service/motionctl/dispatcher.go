// SPDX-License-Identifier: BSD-3-Clause

package motionctl

import (
	"context"
	"fmt"
	"sync"
	"time"

	"log/slog"

	"github.com/samber/lo"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/tinycore/firmware/pkg/assert"
	"github.com/tinycore/firmware/pkg/log"
	"github.com/tinycore/firmware/pkg/telemetry"
)

// Owner is the motion controller's service.Service: it assembles the fixed,
// priority-ordered handler list (spec §4.6) and drives it from a single
// cooperative loop. Nothing outside Owner ever reorders or skips a handler.
type Owner struct {
	cfg  *Config
	ctrl *Controller
	cmd  *CommandDispatcher

	monitor  *assert.Monitor
	handlers []Handler
	logger   *slog.Logger

	cycleCounter  metric.Int64Counter
	eagainCounter metric.Int64Counter
	alarmCounter  metric.Int64Counter

	mu      sync.Mutex
	started bool
}

// New builds an Owner from cfg. All of cfg's required collaborators must be
// set; see Config.Validate.
func New(cfg *Config) (*Owner, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ctrl, err := NewController(cfg)
	if err != nil {
		return nil, err
	}

	meter := telemetry.GetMeter(cfg.ServiceName)
	cycleCounter, err := meter.Int64Counter("motionctl_cycles_total",
		metric.WithDescription("count of HSM dispatcher cycles run"))
	if err != nil {
		return nil, fmt.Errorf("motionctl: creating cycle counter: %w", err)
	}
	eagainCounter, err := meter.Int64Counter("motionctl_eagain_total",
		metric.WithDescription("count of cycles short-circuited by EAGAIN, by handler"))
	if err != nil {
		return nil, fmt.Errorf("motionctl: creating eagain counter: %w", err)
	}
	alarmCounter, err := meter.Int64Counter("motionctl_alarms_total",
		metric.WithDescription("count of ALARM/SHUTDOWN transitions and integrity failures"))
	if err != nil {
		return nil, fmt.Errorf("motionctl: creating alarm counter: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.NewDefaultLogger()
	}

	o := &Owner{
		cfg:           cfg,
		ctrl:          ctrl,
		cmd:           newCommandDispatcher(ctrl, cfg.LineSource, cfg.GCodeParser, cfg.TextParser, cfg.JSONParser),
		monitor:       assert.NewMonitor(logger),
		logger:        logger,
		cycleCounter:  cycleCounter,
		eagainCounter: eagainCounter,
		alarmCounter:  alarmCounter,
	}
	o.monitor.Register(cfg.ServiceName+".controller", func() assert.Sentinel { return ctrl.Sentinel() })
	o.handlers = o.buildHandlers()
	return o, nil
}

// Name implements service.Service.
func (o *Owner) Name() string { return o.cfg.ServiceName }

// Controller exposes the underlying Controller for callers that need to
// drive it directly (e.g. a GPIO edge-watcher calling RaiseAlarm, or an
// admin transport calling RequestHardReset).
func (o *Owner) Controller() *Controller { return o.ctrl }

// buildHandlers assembles the fixed 19-entry priority list from spec §4.6,
// highest priority first. A handler list built once at construction rather
// than re-derived every cycle keeps the total order visibly fixed, the "flat
// ordered []Handler slice" option from spec §9 chosen over a tagged-union
// match.
func (o *Owner) buildHandlers() []Handler {
	c := o.cfg
	return []Handler{
		{Name: "hard_reset", Run: o.hardResetHandler},
		{Name: "bootloader", Run: o.bootloaderHandler},
		{Name: "shutdown_idler", Run: o.shutdownIdler},
		{Name: "limit_switch", Run: o.limitSwitchHandler},
		{Name: "feedhold_sequencing", Run: callbackOrNoop(c.FeedholdSequencing)},
		{Name: "feedhold_planning", Run: callbackOrNoop(c.FeedholdPlanning)},
		{Name: "system_assertions", Run: o.systemAssertions, Emergency: true},
		{Name: "stepper_power", Run: o.stepperPower},
		{Name: "status_report", Run: statusReporterOrNoop(c.StatusReport)},
		{Name: "queue_report", Run: queueReporterOrNoop(c.QueueReport)},
		{Name: "arc_generator", Run: callbackOrNoop(c.ArcGenerator)},
		{Name: "homing", Run: callbackOrNoop(c.Homing)},
		{Name: "jogging", Run: callbackOrNoop(c.Jogging)},
		{Name: "probe", Run: callbackOrNoop(c.Probe)},
		{Name: "sync_to_planner", Run: o.syncToPlanner},
		{Name: "sync_to_tx", Run: o.syncToTX},
		{Name: "baud_rate_update", Run: callbackOrNoop(c.BaudRateUpdate)},
		{Name: "command_dispatcher", Run: o.commandDispatcher},
		{Name: "normal_idler", Run: o.normalIdler},
	}
}

func callbackOrNoop(cb Callback) func() (Status, error) {
	if cb == nil {
		return func() (Status, error) { return StatusNOOP, nil }
	}
	return cb
}

func statusReporterOrNoop(cb StatusReporter) func() (Status, error) {
	if cb == nil {
		return func() (Status, error) { return StatusNOOP, nil }
	}
	return cb
}

func queueReporterOrNoop(cb QueueReporter) func() (Status, error) {
	if cb == nil {
		return func() (Status, error) { return StatusNOOP, nil }
	}
	return cb
}

// HandlerNames returns the priority-ordered handler names, for diagnostics
// and tests that assert on the fixed order rather than its implementation.
func (o *Owner) HandlerNames() []string {
	return lo.Map(o.handlers, func(h Handler, _ int) string { return h.Name })
}

// RunCycle runs the fixed priority list once, stopping at the first handler
// that returns EAGAIN or at an Emergency handler's error (spec §4.6, §4.5).
// It returns the short-circuiting handler's name (empty if the full list
// ran) and any error from an Emergency handler.
func (o *Owner) RunCycle(ctx context.Context) (haltedAt string, err error) {
	o.cycleCounter.Add(ctx, 1)

	for _, h := range o.handlers {
		status, herr := h.Run()
		if herr != nil {
			if h.Emergency {
				o.raiseFatal(ctx, h.Name, herr)
				return h.Name, fmt.Errorf("%w: %s: %w", ErrIntegrityViolation, h.Name, herr)
			}
			// Non-emergency handler errors are operational faults (spec
			// §7c): latched as a state transition by the handler itself,
			// logged here, and folded into the cycle; RunCycle does not
			// stop the cycle for them.
			o.logger.Warn("handler reported fault", "handler", h.Name, "error", herr)
			continue
		}
		if status == StatusEAGAIN {
			o.eagainCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("handler", h.Name)))
			return h.Name, nil
		}
	}
	return "", nil
}

func (o *Owner) raiseFatal(ctx context.Context, handler string, err error) {
	o.alarmCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("handler", handler)))
	_ = o.ctrl.RaiseFatal(ctx)
}

// Run implements service.Service: it starts the run-state machine and
// drives RunCycle forever until ctx is canceled. The loop is paced by a
// short ticker rather than a true busy-spin so the goroutine yields
// regularly; nothing in the priority list may itself block.
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

	if err := o.ctrl.Start(ctx); err != nil {
		return fmt.Errorf("motionctl: starting run-state machine: %w", err)
	}

	ticker := time.NewTicker(time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			cycleCtx, span := telemetry.StartSpan(ctx, o.cfg.ServiceName, "motionctl.dispatch_cycle")
			_, err := o.RunCycle(cycleCtx)
			if err != nil {
				telemetry.RecordError(cycleCtx, err, "dispatch cycle failed")
				span.End()
				return err
			}
			span.End()
		}
	}
}
