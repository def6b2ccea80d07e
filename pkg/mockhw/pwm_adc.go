// SPDX-License-Identifier: BSD-3-Clause

package mockhw

import (
	"context"
	"fmt"
	"sync"
)

// PWM is an in-memory stand-in for the heater's PWM actuator (thermal.PWM).
type PWM struct {
	mu      sync.Mutex
	enabled bool
	freq    float64
	duty    float64
	minRes  float64
	maxRes  float64
}

// NewPWM constructs a PWM clamped to [minRes, maxRes] Hz.
func NewPWM(minRes, maxRes float64) *PWM {
	return &PWM{minRes: minRes, maxRes: maxRes}
}

func (p *PWM) On(freq, duty float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.enabled = true
	p.freq = clamp(freq, p.minRes, p.maxRes)
	p.duty = clamp(duty, 0, 100)
	return nil
}

func (p *PWM) Off() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.enabled = false
	p.duty = 0
	return nil
}

func (p *PWM) SetFreq(freq float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.freq = clamp(freq, p.minRes, p.maxRes)
	return nil
}

func (p *PWM) SetDuty(duty float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.duty = clamp(duty, 0, 100)
	return nil
}

// Enabled, Freq, and Duty observe the PWM's current state, for tests and
// cmd/mock's status output.
func (p *PWM) Enabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.enabled
}

func (p *PWM) Freq() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.freq
}

func (p *PWM) Duty() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.duty
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ADC is an in-memory stand-in for the sensor's ADC reader (thermal.ADC). It
// plays back a caller-supplied sequence of raw readings per channel,
// repeating the last value once the sequence is exhausted, so tests can
// script a thermocouple ramp, a disconnect spike, or a stuck-low fault
// deterministically.
type ADC struct {
	mu       sync.Mutex
	sequence map[int][]float64
	index    map[int]int
	failNext map[int]int
}

// NewADC constructs an ADC with no configured channels; Set must be called
// before Read is exercised for a given channel.
func NewADC() *ADC {
	return &ADC{
		sequence: make(map[int][]float64),
		index:    make(map[int]int),
		failNext: make(map[int]int),
	}
}

// Set configures the sequence of raw values Read returns for channel,
// repeating the final value once exhausted.
func (a *ADC) Set(channel int, values ...float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.sequence[channel] = values
	a.index[channel] = 0
}

// FailNext makes the next n reads on channel return an error, simulating a
// transient bus fault.
func (a *ADC) FailNext(channel int, n int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.failNext[channel] = n
}

func (a *ADC) Read(ctx context.Context, channel int) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.failNext[channel] > 0 {
		a.failNext[channel]--
		return 0, fmt.Errorf("mockhw: simulated ADC fault on channel %d", channel)
	}

	values := a.sequence[channel]
	if len(values) == 0 {
		return 0, nil
	}
	i := a.index[channel]
	if i >= len(values) {
		i = len(values) - 1
	} else {
		a.index[channel] = i + 1
	}
	return values[i], nil
}
