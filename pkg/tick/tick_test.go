// SPDX-License-Identifier: BSD-3-Clause

package tick

import "testing"

func TestCallbackRunIsNoopWithoutPendingTick(t *testing.T) {
	src := NewSource(0)
	cb := &Callback{}
	if cb.Run(src) {
		t.Fatal("Run() = true with no pending tick, want false")
	}
}

func TestCallbackCascades10msTo100msTo1sec(t *testing.T) {
	src := NewSource(0)

	var ticks10, ticks100, ticks1s int
	cb := &Callback{
		Tick10ms:  func() { ticks10++ },
		Tick100ms: func() { ticks100++ },
		Tick1sec:  func() { ticks1s++ },
	}

	const totalTicks = Ratio1sec
	for i := 0; i < totalTicks; i++ {
		src.flag.Store(true)
		if !cb.Run(src) {
			t.Fatalf("Run() = false at tick %d, want true (tick was pending)", i)
		}
	}

	if ticks10 != totalTicks {
		t.Fatalf("Tick10ms fired %d times, want %d", ticks10, totalTicks)
	}
	wantTicks100 := totalTicks / Ratio100ms
	if ticks100 != wantTicks100 {
		t.Fatalf("Tick100ms fired %d times, want %d", ticks100, wantTicks100)
	}
	if ticks1s != 1 {
		t.Fatalf("Tick1sec fired %d times, want 1", ticks1s)
	}
}

func TestCallbackToleratesNilCallbacks(t *testing.T) {
	src := NewSource(0)
	cb := &Callback{}

	src.flag.Store(true)
	if !cb.Run(src) {
		t.Fatal("Run() = false with a pending tick and nil callbacks, want true")
	}
}

func TestConsumeClearsFlag(t *testing.T) {
	src := NewSource(0)
	src.flag.Store(true)
	if !src.Consume() {
		t.Fatal("Consume() = false, want true on first call")
	}
	if src.Consume() {
		t.Fatal("Consume() = true on second call, want false (flag already cleared)")
	}
}
