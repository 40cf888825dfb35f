package main

import (
	"testing"
	"time"

	"dscheirer.com/segclock/effects"
	"dscheirer.com/segclock/max72xx"
	"gotest.tools/assert"
)

/* what runDisplay does every frame:

clears the write buffer
draws the indicator, the uptime counter and the clock, in that order
flips and pushes the frame out to the chain
publishes the frame for the status service
sleeps out the rest of the period

*/

const dFrame = 25 * time.Millisecond

func TestRefreshPeriod(t *testing.T) {
	assert.Equal(t, refreshPeriod(40), dFrame)
	assert.Equal(t, refreshPeriod(0), dFrame)
	assert.Equal(t, refreshPeriod(-3), dFrame)
	assert.Equal(t, refreshPeriod(10), 100*time.Millisecond)
	// capped at 50 frames a second
	assert.Equal(t, refreshPeriod(90), 20*time.Millisecond)
}

func TestUntilWake(t *testing.T) {
	wake := testStart.Add(dFrame)
	assert.Equal(t, untilWake(wake, testStart), dFrame)
	assert.Equal(t, untilWake(wake, testStart.Add(10*time.Millisecond)), 15*time.Millisecond)
	assert.Equal(t, untilWake(wake, wake), time.Duration(0))
	// running late never means a negative sleep
	assert.Equal(t, untilWake(wake, wake.Add(time.Second)), time.Duration(0))
}

func TestDigitalClockFrames(t *testing.T) {
	rt, clock, _ := testRuntime()

	wg.Add(1)
	go runDisplay(rt)
	clock.BlockUntil(1)

	// odd second, no points
	snap := rt.status.snapshot()
	assert.Equal(t, snap.Frames, 1)
	assert.Equal(t, snap.Mode, effects.SecondsDigital)
	assert.Equal(t, snap.Position, 1)
	assert.DeepEqual(t, snap.Frame, textFrame(8, "070509", 1))
	// the emulated chips latched the same thing
	assert.DeepEqual(t, rt.chain.Registers(), snap.Frame)
	assert.DeepEqual(t, rt.chain.Lit(), snap.Frame)

	testBlockDuration(clock, dFrame, time.Second)

	snap = rt.status.snapshot()
	assert.Equal(t, snap.Frames, 41)
	assert.Equal(t, snap.Overruns, 0)
	assert.Assert(t, snap.Updated.Equal(testStart.Add(time.Second)))
	assert.DeepEqual(t, snap.Frame, textFrame(8, "07.05.10", 1))
	assert.DeepEqual(t, rt.chain.Registers(), snap.Frame)

	// done
	testQuit(rt, clock)
}

func TestClockModeChange(t *testing.T) {
	rt, clock, comms := testRuntime()

	wg.Add(1)
	go runDisplay(rt)
	clock.BlockUntil(1)

	comms.clockMode <- effects.SecondsNone
	testBlockDuration(clock, dFrame, dFrame)

	snap := rt.status.snapshot()
	assert.Equal(t, snap.Mode, effects.SecondsNone)
	assert.DeepEqual(t, snap.Frame, textFrame(8, "0705", 1))

	// the rim needs 32 digits, stays on none
	comms.clockMode <- effects.SecondsBorder
	testBlockDuration(clock, dFrame, dFrame)

	snap = rt.status.snapshot()
	assert.Equal(t, snap.Mode, effects.SecondsNone)
	assert.DeepEqual(t, snap.Frame, textFrame(8, "0705", 1))

	testQuit(rt, clock)
}

func TestBadConfiguredMode(t *testing.T) {
	// border on 8 digits falls back to digital
	rt, clock, _ := testRuntimeWith(map[string]interface{}{sClockMode: "border"})

	wg.Add(1)
	go runDisplay(rt)
	clock.BlockUntil(1)

	snap := rt.status.snapshot()
	assert.Equal(t, snap.Mode, effects.SecondsDigital)
	assert.DeepEqual(t, snap.Frame, textFrame(8, "070509", 1))

	testQuit(rt, clock)
}

func TestBorderFrame(t *testing.T) {
	rt, clock, _ := testRuntimeWith(map[string]interface{}{
		sDigits:    32,
		sClockMode: "border",
	})

	wg.Add(1)
	go runDisplay(rt)
	clock.BlockUntil(1)

	want := textFrame(32, "0705", 14)
	// second 9 is on the top edge
	want[26] = 0x40

	snap := rt.status.snapshot()
	assert.Equal(t, snap.Position, 14)
	assert.DeepEqual(t, snap.Frame, want)
	assert.DeepEqual(t, rt.chain.Registers(), want)

	testQuit(rt, clock)
}

func TestUptimeAndIndicator(t *testing.T) {
	rt, clock, _ := testRuntimeWith(map[string]interface{}{
		sDigits:    32,
		sClockPos:  1,
		sUptime:    true,
		sUptimePos: 19,
		sIndicator: true,
	})

	wg.Add(1)
	go runDisplay(rt)
	clock.BlockUntil(1)

	snap := rt.status.snapshot()
	// the indicator starts on the far left
	assert.Equal(t, snap.Frame[0], byte(0x01))
	assert.DeepEqual(t, snap.Frame[19:], textFrame(13, "000 00 00 00.0", 0))

	testBlockDuration(clock, dFrame, time.Second)

	snap = rt.status.snapshot()
	// moved on, and the clock digits have written over where it's been
	assert.Equal(t, snap.Frame[0], byte(0))
	assert.Equal(t, snap.Frame[8], byte(0x01))
	assert.DeepEqual(t, snap.Frame[19:], textFrame(13, "000 00 00 01.0", 0))
	assert.Equal(t, snap.Frame[1], max72xx.Encode('0'))

	testQuit(rt, clock)
}

func TestTimezone(t *testing.T) {
	rt, clock, _ := testRuntimeWith(map[string]interface{}{
		sClockMode: "none",
	})
	rt.location = time.FixedZone("UTC+3", 3*3600)

	wg.Add(1)
	go runDisplay(rt)
	clock.BlockUntil(1)

	assert.DeepEqual(t, rt.status.snapshot().Frame, textFrame(8, "1005", 1))

	testQuit(rt, clock)
}

func TestQuit(t *testing.T) {
	rt, clock, _ := testRuntime()

	wg.Add(1)
	go runDisplay(rt)
	clock.BlockUntil(1)

	testQuit(rt, clock)
	frames := rt.status.snapshot().Frames

	// nothing more once it's gone
	clock.Advance(time.Second)
	assert.Equal(t, rt.status.snapshot().Frames, frames)
}
