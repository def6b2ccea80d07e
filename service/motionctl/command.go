// SPDX-License-Identifier: BSD-3-Clause

package motionctl

import "fmt"

// jsonWrapPrefix and jsonWrapSuffix frame a raw G-code line as a JSON
// command when the sticky response mode is JSON (spec §4.7 step 3,
// §10 headroom note).
const (
	jsonWrapPrefix = `{"gc":"`
	jsonWrapSuffix = `"}`
)

// CommandDispatcher implements the command dispatcher (spec §4.7): read one
// line from the primary input source, detect mode, route on the first
// character, and invoke the mode-coerced parser. It is priority slot 18 in
// the HSM dispatcher's handler list.
type CommandDispatcher struct {
	ctrl   *Controller
	source LineSource
	gcode  GCodeParser
	text   TextParser
	json   JSONParser
}

func newCommandDispatcher(ctrl *Controller, source LineSource, gcode GCodeParser, text TextParser, json JSONParser) *CommandDispatcher {
	return &CommandDispatcher{ctrl: ctrl, source: source, gcode: gcode, text: text, json: json}
}

// Run executes one command-dispatcher cycle.
func (d *CommandDispatcher) Run() (Status, error) {
	n, status, err := d.source.ReadLine(d.ctrl.lineBuf)
	if err != nil {
		return status, fmt.Errorf("motionctl: reading line: %w", err)
	}

	switch status {
	case StatusEOF:
		d.source.ResetToDefault()
		d.reportEOF()
		return StatusEOF, nil
	case StatusOK:
		// fall through to dispatch below
	default:
		// EAGAIN (not yet a complete line) or any other transient status:
		// pass it straight back up so it short-circuits the cycle.
		return status, nil
	}

	line := append(d.ctrl.lastLine[:0], d.ctrl.lineBuf[:n]...)
	d.ctrl.lastLine = line
	d.ctrl.lineLen = n

	d.dispatch(line)
	return StatusOK, nil
}

func (d *CommandDispatcher) reportEOF() {
	if d.ctrl.mode == JSONMode {
		d.respond(d.json.ParseJSON([]byte(`{"er":"eof"}`)))
		return
	}
	d.respond(d.text.ParseText([]byte("eof\n")))
}

// respond records a parser's outcome on the controller for reporting.
// Parser failures are input errors (spec §7b): reported to the caller, not
// propagated as a dispatcher-level fault.
func (d *CommandDispatcher) respond(resp []byte, err error) {
	if err != nil {
		d.ctrl.lastError = err
		return
	}
	d.ctrl.lastError = nil
	d.ctrl.lastResponse = resp
}

func (d *CommandDispatcher) dispatch(line []byte) {
	if len(line) == 0 {
		if d.ctrl.mode == TextMode {
			d.respond([]byte("ok\n"), nil)
		}
		return
	}

	switch line[0] {
	case '!':
		d.ctrl.RequestFeedhold()
	case '%':
		d.ctrl.RequestQueueFlush()
	case '~':
		d.ctrl.RequestCycleStart()
	case '$', '?', 'H', 'h':
		d.ctrl.mode = TextMode
		d.respond(d.text.ParseText(line))
	case '{':
		d.ctrl.mode = JSONMode
		d.respond(d.json.ParseJSON(line))
	default:
		if d.ctrl.mode == JSONMode {
			d.respond(d.json.ParseJSON(wrapAsJSON(line, d.ctrl.cfg.LineBufferSize)))
		} else {
			d.respond(d.gcode.ParseGCode(line))
		}
	}
}

// wrapAsJSON frames line as {"gc":"<line>"}, truncating line if needed so
// the wrapped form never exceeds bufCap — the fixed input buffer has no
// room to grow just because a line got wrapped (spec §4.7 edge case, §10).
func wrapAsJSON(line []byte, bufCap int) []byte {
	headroom := len(jsonWrapPrefix) + len(jsonWrapSuffix)
	if max := bufCap - headroom; max > 0 && len(line) > max {
		line = line[:max]
	}
	wrapped := make([]byte, 0, len(line)+headroom)
	wrapped = append(wrapped, jsonWrapPrefix...)
	wrapped = append(wrapped, line...)
	wrapped = append(wrapped, jsonWrapSuffix...)
	return wrapped
}
