// SPDX-License-Identifier: BSD-3-Clause

package motionctl

import (
	"context"
	"fmt"
)

// hardResetHandler is priority slot 1 (spec §4.6 item 1): the highest
// priority in the dispatcher, serviced even from ALARM/SHUTDOWN.
func (o *Owner) hardResetHandler() (Status, error) {
	if !o.ctrl.consumeHardReset() {
		return StatusNOOP, nil
	}
	o.cfg.Resetter.Reset()
	return StatusOK, nil
}

// bootloaderHandler is priority slot 2 (spec §4.6 item 2).
func (o *Owner) bootloaderHandler() (Status, error) {
	if !o.ctrl.consumeBootloader() {
		return StatusNOOP, nil
	}
	o.cfg.BootloaderJumper.JumpToBootloader()
	return StatusOK, nil
}

// shutdownIdler is priority slot 3 (spec §4.6 item 3): while latched into
// either fault state, blink the LED at the alarm rate and return EAGAIN so
// nothing below it runs except the reset/bootloader handlers already
// checked above it. This is the mechanism behind the invariant in spec §3:
// "once ALARM is entered ... only reset or bootloader actions are
// serviced."
func (o *Owner) shutdownIdler() (Status, error) {
	if !o.ctrl.InAlarmOrShutdown() {
		return StatusNOOP, nil
	}
	o.cfg.LED.SetBlinkRate(o.cfg.AlarmBlinkHz)
	o.ctrl.IncrementLEDTicks()
	return StatusEAGAIN, nil
}

// limitSwitchHandler is priority slot 4 (spec §4.6 item 4). The source
// lineage carries two consecutive return statements here, of which only the
// first is reachable (spec §9 Open Question (b)); this port keeps a single
// return, full stop.
func (o *Owner) limitSwitchHandler() (Status, error) {
	if !o.cfg.LimitSwitch.Thrown() {
		return StatusNOOP, nil
	}
	if o.ctrl.InAlarmOrShutdown() {
		return StatusNOOP, nil
	}
	o.cfg.LimitSwitch.Clear()
	if err := o.ctrl.RaiseAlarm(context.Background()); err != nil {
		return StatusNOOP, fmt.Errorf("motionctl: raising alarm on limit switch: %w", err)
	}
	return StatusNOOP, fmt.Errorf("%w", ErrLimitSwitchHit)
}

// systemAssertions is priority slot 7 (spec §4.6 item 7, §4.5): the
// integrity monitor, wrapped by RunCycle's emergency-propagation path. Any
// failure here escalates unconditionally via Owner.raiseFatal: to ALARM
// from STARTUP or READY, and to SHUTDOWN when already in ALARM.
func (o *Owner) systemAssertions() (Status, error) {
	if err := o.monitor.Run(); err != nil {
		return StatusNOOP, err
	}
	return StatusOK, nil
}

// stepperPower is priority slot 8 (spec §4.6 item 8): the stepper motors
// are only powered while the run-state is outside ALARM/SHUTDOWN. SetPower
// is idempotent on the stepper side, so this calls it unconditionally
// rather than tracking a shadow copy of the requested state.
func (o *Owner) stepperPower() (Status, error) {
	want := !o.ctrl.InAlarmOrShutdown()
	if err := o.cfg.Stepper.SetPower(want); err != nil {
		return StatusNOOP, fmt.Errorf("motionctl: stepper power: %w", err)
	}
	return StatusOK, nil
}

// syncToPlanner is priority slot 15 (spec §4.6 item 15): backpressure
// upstream of the command dispatcher. EAGAIN here means the parser must not
// be handed another line until the planner has headroom again.
func (o *Owner) syncToPlanner() (Status, error) {
	if o.cfg.Planner.FreeBufferCount() < o.cfg.PlannerHeadroom {
		return StatusEAGAIN, nil
	}
	return StatusOK, nil
}

// syncToTX is priority slot 16 (spec §4.6 item 16): backpressure on the
// serial transmit buffer, also ahead of the command dispatcher.
func (o *Owner) syncToTX() (Status, error) {
	if o.cfg.TXBuffer.Occupancy() >= o.cfg.TXLowWater {
		return StatusEAGAIN, nil
	}
	return StatusOK, nil
}

// commandDispatcher is priority slot 18 (spec §4.6 item 18, §4.7). On a
// successfully dispatched line it also fires the controller's
// STARTUP->READY transition (spec §4.8).
func (o *Owner) commandDispatcher() (Status, error) {
	status, err := o.cmd.Run()
	if err != nil {
		return status, err
	}
	if status == StatusOK {
		if err := o.ctrl.NoteCommandOK(context.Background()); err != nil {
			o.logger.Warn("run-state transition on command OK failed", "error", err)
		}
	}
	return status, nil
}

// normalIdler is priority slot 19 (spec §4.6 item 19): the lowest-priority
// handler, run only when every handler above it had nothing left to do this
// cycle.
func (o *Owner) normalIdler() (Status, error) {
	o.cfg.LED.SetBlinkRate(o.cfg.NormalBlinkHz)
	o.ctrl.IncrementLEDTicks()
	return StatusNOOP, nil
}
