// Package max72xx drives a chain of MAX7219/MAX7221 7-segment drivers.
//
// Each chip drives 8 digits. The display keeps a double buffer of segment
// masks: everything is drawn into the write buffer, Flip makes it visible
// and Update shifts the visible buffer out to the chain.
package max72xx

import (
	"log"
	"time"
)

// opcodes for the MAX7219 and MAX7221
const opNOOP = 0x00
const opDIGIT0 = 0x01
const opDECODEMODE = 0x09
const opINTENSITY = 0x0A
const opSCANLIMIT = 0x0B
const opSHUTDOWN = 0x0C
const opDISPLAYTEST = 0x0F

// one chip, 8 digits
const DigitsPerDriver = 8

const INTENSITY_MAX = 0x0F
const INTENSITY_HALF = 0x07

// Transport shifts one frame out to the chain: select low, bytes MSB
// first in the order given, select high to latch.
type Transport interface {
	Transfer(wire []byte) error
}

// Opts is the configuration of a display chain.
type Opts struct {
	// Digits is rounded up to a multiple of 8, 0 means 8
	Digits int
	// Intensity 0x0 -> 0xF, default INTENSITY_HALF
	Intensity *byte
	// how long to leave display test on during init, default 1s
	TestDuration time.Duration
	// Sleep is used for the display test pause, default time.Sleep
	Sleep func(time.Duration)
}

type Display struct {
	tx      Transport
	digits  int
	drivers int
	buffer  []byte // both halves of the double buffer
	write   int    // which half gets drawn into, the other one is live
	dirty   bool
	frame   []byte // (data, opcode) per driver
	wire    []byte // frame in shift order
	dump    bool
}

// RoundDigits gives the number of digits a chain really has for a
// requested count.
func RoundDigits(n int) int {
	if n <= 0 || n%DigitsPerDriver != 0 {
		if n < 0 {
			n = 0
		}
		n = DigitsPerDriver * ((n / DigitsPerDriver) + 1)
	}
	return n
}

// New allocates the buffers and runs the chip init sequence. A nil opts
// gives a single 8 digit driver.
func New(tx Transport, opts *Opts) *Display {
	if opts == nil {
		opts = &Opts{}
	}
	digits := RoundDigits(opts.Digits)
	drivers := digits / DigitsPerDriver

	this := &Display{
		tx:      tx,
		digits:  digits,
		drivers: drivers,
		buffer:  make([]byte, 2*digits),
		write:   1,
		dirty:   false,
		frame:   make([]byte, 2*drivers),
		wire:    make([]byte, 2*drivers),
	}

	intensity := byte(INTENSITY_HALF)
	if opts.Intensity != nil {
		intensity = *opts.Intensity
	}
	testFor := opts.TestDuration
	if testFor == 0 {
		testFor = time.Second
	}
	sleep := opts.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	this.sendAll(opDECODEMODE, 0x00) // raw segments, no BCD decode
	this.SetIntensity(intensity)
	this.sendAll(opSCANLIMIT, 0x07) // all 8 digits
	this.sendAll(opSHUTDOWN, 0x01)  // normal operation
	this.sendAll(opDISPLAYTEST, 0x01)
	if testFor > 0 {
		sleep(testFor)
	}
	this.sendAll(opDISPLAYTEST, 0x00)

	return this
}

func (d *Display) DebugDump(on bool) {
	d.dump = on
}

// Len is the number of digits in the chain
func (d *Display) Len() int {
	return d.digits
}

// Drivers is the number of chips in the chain
func (d *Display) Drivers() int {
	return d.drivers
}

// the half of the double buffer that gets drawn into
func (d *Display) writeBuf() []byte {
	return d.buffer[d.write*d.digits : (d.write+1)*d.digits]
}

// the half of the double buffer that is (or will be) on the chips
func (d *Display) liveBuf() []byte {
	live := 1 - d.write
	return d.buffer[live*d.digits : (live+1)*d.digits]
}

// Fill sets the write buffer, or both halves when writeOnly is false, to
// v. Returns the number of bytes touched.
func (d *Display) Fill(v byte, writeOnly bool) int {
	buf := d.buffer
	if writeOnly {
		buf = d.writeBuf()
	}
	for i := range buf {
		buf[i] = v
	}
	return len(buf)
}

func (d *Display) Clear(writeOnly bool) int {
	return d.Fill(0, writeOnly)
}

// Set replaces the segments of one digit. Out of range is ignored.
func (d *Display) Set(addr int, v byte) bool {
	if addr < 0 || addr >= d.digits {
		return false
	}
	d.writeBuf()[addr] = v
	return true
}

// Overlay turns on extra segments of one digit.
func (d *Display) Overlay(addr int, v byte) bool {
	if addr < 0 || addr >= d.digits {
		return false
	}
	d.writeBuf()[addr] |= v
	return true
}

// Xor toggles segments of one digit.
func (d *Display) Xor(addr int, v byte) bool {
	if addr < 0 || addr >= d.digits {
		return false
	}
	d.writeBuf()[addr] ^= v
	return true
}

// Get reads one digit back from the write buffer.
func (d *Display) Get(addr int) (byte, bool) {
	if addr < 0 || addr >= d.digits {
		return 0, false
	}
	return d.writeBuf()[addr], true
}

// Visible is a copy of the buffer that was last flipped live.
func (d *Display) Visible() []byte {
	out := make([]byte, d.digits)
	copy(out, d.liveBuf())
	return out
}

// Print writes as much of msg as fits, starting at addr. A '.' or ':'
// doesn't take a digit, it lights the decimal point of the digit before
// it. Returns where the cursor ended up.
func (d *Display) Print(msg string, addr int) int {
	cursor := addr
	for i := 0; i < len(msg); i++ {
		if msg[i] == '.' || msg[i] == ':' {
			d.Overlay(cursor-1, SEG_DP)
			continue
		}
		if cursor < 0 || cursor >= d.digits {
			return cursor
		}
		d.Set(cursor, Encode(msg[i]))
		cursor++
	}
	return cursor
}

// Flip swaps the write and live halves. With update the new live half is
// sent right away, otherwise it waits for a call to Update.
func (d *Display) Flip(update bool) {
	d.write = 1 - d.write
	d.dirty = true
	if update {
		d.Update()
	}
}

// Update sends the live buffer to the chips, one digit register at a
// time across the whole chain. Returns false if nothing changed since the
// last update.
func (d *Display) Update() bool {
	if !d.dirty {
		return false
	}
	live := d.liveBuf()
	for pos := 0; pos < DigitsPerDriver; pos++ {
		for chip := 0; chip < d.drivers; chip++ {
			d.frame[2*chip] = live[DigitsPerDriver*chip+pos]
			d.frame[2*chip+1] = byte(opDIGIT0 + pos)
		}
		d.send()
	}
	d.dirty = false

	if d.dump {
		log.Println(Dump(live))
	}
	return true
}

// SetIntensity sets the same brightness on every chip.
func (d *Display) SetIntensity(level byte) {
	if level > INTENSITY_MAX {
		level = INTENSITY_MAX
	}
	d.sendAll(opINTENSITY, level)
}

// Shutdown blanks the chain (the digit registers are kept).
func (d *Display) Shutdown(off bool) {
	var v byte = 0x01
	if off {
		v = 0x00
	}
	d.sendAll(opSHUTDOWN, v)
}

// same command to every driver in the chain
func (d *Display) sendAll(cmd byte, data byte) {
	for i := 0; i < d.drivers; i++ {
		d.frame[2*i] = data
		d.frame[2*i+1] = cmd
	}
	d.send()
}

// the last chip in the chain has to be shifted out first, so by the time
// select goes high every chip holds its own word
func (d *Display) send() {
	n := len(d.frame)
	for i := 0; i < n; i++ {
		d.wire[i] = d.frame[n-1-i]
	}
	if err := d.tx.Transfer(d.wire); err != nil {
		// nothing to retry against, the chips don't talk back
		log.Printf("max72xx: transfer: %v", err)
	}
}
