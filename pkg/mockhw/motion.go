// SPDX-License-Identifier: BSD-3-Clause

package mockhw

import (
	"fmt"
	"sync"

	"github.com/tinycore/firmware/service/motionctl"
)

// LineSource is an in-memory motionctl.LineSource fed by a caller-supplied
// queue of lines. Feed appends a line that ReadLine will return complete in
// one call, FeedEOF marks the end of input, and ReadLine returns EAGAIN
// while the queue is empty, as the XIO layer does while a line is still
// arriving.
type LineSource struct {
	mu      sync.Mutex
	lines   [][]byte
	atEOF   bool
	pending []byte
}

// NewLineSource constructs an empty LineSource.
func NewLineSource() *LineSource {
	return &LineSource{}
}

// Feed enqueues a complete line to be returned by a future ReadLine call.
func (s *LineSource) Feed(line string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = append(s.lines, []byte(line))
}

// FeedEOF marks the source exhausted once the queued lines are drained.
func (s *LineSource) FeedEOF() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.atEOF = true
}

// ReadLine implements motionctl.LineSource.
func (s *LineSource) ReadLine(buf []byte) (int, motionctl.Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.lines) == 0 {
		if s.atEOF {
			return 0, motionctl.StatusEOF, nil
		}
		return 0, motionctl.StatusEAGAIN, nil
	}

	line := s.lines[0]
	s.lines = s.lines[1:]
	if len(line) > len(buf) {
		return 0, motionctl.StatusEAGAIN, fmt.Errorf("mockhw: line exceeds buffer capacity")
	}
	n := copy(buf, line)
	return n, motionctl.StatusOK, nil
}

// ResetToDefault implements motionctl.LineSource; the mock has only one
// source, so this just clears the EOF latch.
func (s *LineSource) ResetToDefault() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.atEOF = false
}

// EchoParser is a trivial motionctl.GCodeParser / TextParser / JSONParser
// that echoes the input line back as the response, optionally returning a
// configured error on a matching line, for exercising the input-error path.
type EchoParser struct {
	mu     sync.Mutex
	prefix string
	failOn map[string]error
}

// NewEchoParser constructs an EchoParser that prefixes every response with
// prefix (e.g. "ok" for text/G-code, "" for JSON echo).
func NewEchoParser(prefix string) *EchoParser {
	return &EchoParser{prefix: prefix, failOn: make(map[string]error)}
}

// FailOn makes the parser return err whenever it is asked to parse line.
func (p *EchoParser) FailOn(line string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failOn[line] = err
}

func (p *EchoParser) parse(line []byte) ([]byte, error) {
	p.mu.Lock()
	err := p.failOn[string(line)]
	p.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return append([]byte(p.prefix), line...), nil
}

func (p *EchoParser) ParseGCode(line []byte) ([]byte, error) { return p.parse(line) }
func (p *EchoParser) ParseText(line []byte) ([]byte, error)  { return p.parse(line) }
func (p *EchoParser) ParseJSON(line []byte) ([]byte, error)  { return p.parse(line) }

// Planner is an in-memory motionctl.Planner with a settable free-buffer
// count.
type Planner struct {
	mu    sync.Mutex
	count int
}

// NewPlanner constructs a Planner reporting count free buffers.
func NewPlanner(count int) *Planner { return &Planner{count: count} }

func (p *Planner) FreeBufferCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.count
}

// SetFreeBufferCount updates the reported headroom.
func (p *Planner) SetFreeBufferCount(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.count = n
}

// TXBuffer is an in-memory motionctl.TXBuffer with a settable occupancy.
type TXBuffer struct {
	mu        sync.Mutex
	occupancy int
}

// NewTXBuffer constructs a TXBuffer reporting occupancy.
func NewTXBuffer(occupancy int) *TXBuffer { return &TXBuffer{occupancy: occupancy} }

func (t *TXBuffer) Occupancy() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.occupancy
}

// SetOccupancy updates the reported TX buffer occupancy.
func (t *TXBuffer) SetOccupancy(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.occupancy = n
}

// Stepper is an in-memory motionctl.Stepper recording the last requested
// power state.
type Stepper struct {
	mu      sync.Mutex
	powered bool
}

// NewStepper constructs a Stepper, initially unpowered.
func NewStepper() *Stepper { return &Stepper{} }

func (s *Stepper) SetPower(enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.powered = enabled
	return nil
}

// Powered reports the last requested power state.
func (s *Stepper) Powered() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.powered
}

// LimitSwitch is an in-memory motionctl.LimitSwitch. Trip latches Thrown
// until Clear is called, mirroring the real GPIO edge-watcher's contract.
type LimitSwitch struct {
	mu     sync.Mutex
	thrown bool
}

// NewLimitSwitch constructs an untripped LimitSwitch.
func NewLimitSwitch() *LimitSwitch { return &LimitSwitch{} }

// Trip latches the switch as thrown, as if a GPIO edge fired.
func (l *LimitSwitch) Trip() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.thrown = true
}

func (l *LimitSwitch) Thrown() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.thrown
}

func (l *LimitSwitch) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.thrown = false
}

// StatusLED is an in-memory motionctl.StatusLED recording the last
// requested blink rate.
type StatusLED struct {
	mu   sync.Mutex
	rate float64
}

// NewStatusLED constructs a StatusLED, initially off.
func NewStatusLED() *StatusLED { return &StatusLED{} }

func (l *StatusLED) SetBlinkRate(hz float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rate = hz
}

// Rate returns the last requested blink rate, in Hz.
func (l *StatusLED) Rate() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rate
}

// Resetter is an in-memory motionctl.Resetter counting how many times Reset
// was called.
type Resetter struct {
	mu    sync.Mutex
	count int
}

// NewResetter constructs a Resetter.
func NewResetter() *Resetter { return &Resetter{} }

func (r *Resetter) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.count++
}

// Count returns the number of times Reset was called.
func (r *Resetter) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// BootloaderJumper is an in-memory motionctl.BootloaderJumper counting how
// many times JumpToBootloader was called.
type BootloaderJumper struct {
	mu    sync.Mutex
	count int
}

// NewBootloaderJumper constructs a BootloaderJumper.
func NewBootloaderJumper() *BootloaderJumper { return &BootloaderJumper{} }

func (j *BootloaderJumper) JumpToBootloader() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.count++
}

// Count returns the number of times JumpToBootloader was called.
func (j *BootloaderJumper) Count() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.count
}
