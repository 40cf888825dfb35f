package main

import (
	"testing"
	"time"

	"dscheirer.com/segclock/max72xx"
	"gotest.tools/assert"
)

func TestSimHardware(t *testing.T) {
	hw, err := openHardware(copySettings(map[string]interface{}{sDigits: 20}))
	assert.NilError(t, err)
	defer hw.Close()

	// rounded up to 3 chips
	assert.Assert(t, hw.chain != nil)
	assert.Equal(t, hw.chain.Len(), 3)

	d := max72xx.New(hw.tx, &max72xx.Opts{Digits: 20, TestDuration: -1})
	d.Print("segclock", 8)
	d.Flip(true)
	assert.DeepEqual(t, hw.chain.Registers(), d.Visible())
}

func TestLogHardware(t *testing.T) {
	hw, err := openHardware(copySettings(map[string]interface{}{sDriver: drvLog, sDigits: 16}))
	assert.NilError(t, err)
	assert.Assert(t, hw.chain == nil)
	assert.NilError(t, hw.Close())

	ld := hw.tx.(*logDisplay)
	level := byte(4)
	d := max72xx.New(ld, &max72xx.Opts{Digits: 16, Intensity: &level, TestDuration: -1})

	// init goes out as one word per chip, last chip first
	audit := ld.Audit()
	assert.Equal(t, len(audit), 6)
	assert.Equal(t, audit[1], "0a04 0a04")

	d.Set(0, 0x11)
	d.Set(15, 0x22)
	d.Flip(true)
	assert.DeepEqual(t, ld.Digits(), d.Visible())

	audit = ld.Audit()
	assert.Equal(t, len(audit), 14)
	// chip 1's digit 0 is blank, chip 0's is 0x11
	assert.Equal(t, audit[6], "0100 0111")
	assert.Equal(t, audit[13], "0822 0800")
}

func TestLogDisplayBadFrame(t *testing.T) {
	ld := newLogDisplay(8, false)
	assert.ErrorContains(t, ld.Transfer([]byte{0x01, 0x02, 0x03, 0x04}), "1 drivers")
}

func TestLogDisplayAuditCapped(t *testing.T) {
	ld := newLogDisplay(8, false)
	for i := 0; i < auditMax+10; i++ {
		assert.NilError(t, ld.Transfer([]byte{0x01, byte(i)}))
	}
	audit := ld.Audit()
	assert.Equal(t, len(audit), auditMax)
	assert.Equal(t, audit[0], "010a")
}

func TestUnknownDriver(t *testing.T) {
	_, err := openHardware(copySettings(map[string]interface{}{sDriver: "carrier-pigeon"}))
	assert.Error(t, err, `unknown driver "carrier-pigeon"`)
}

func TestOpenDisplayIntensity(t *testing.T) {
	rt, _, _ := testRuntime()

	// from the test config
	chip := rt.chain.Chip(0)
	assert.Equal(t, chip.Intensity, byte(3))
	assert.Assert(t, !chip.Test)
	assert.Assert(t, !chip.Shutdown)
	assert.Equal(t, rt.display.Len(), 8)
}

func TestUptimeSource(t *testing.T) {
	rt, clock, _ := testRuntime()
	assert.Equal(t, rt.uptime.Uptime(), time.Duration(0))
	clock.Advance(90 * time.Second)
	assert.Equal(t, rt.uptime.Uptime(), 90*time.Second)
}

func TestQuitOnce(t *testing.T) {
	comms := initCommChannels()
	comms.stop()
	comms.stop()
	_, open := <-comms.quit
	assert.Assert(t, !open)
}
