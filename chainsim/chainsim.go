// Package chainsim emulates a chain of MAX7219 chips on the end of three
// GPIO lines, for running without hardware and for checking what actually
// got latched.
package chainsim

import (
	"log"
	"sync"
)

// register addresses
const regNOOP = 0x00
const regDIGIT0 = 0x01
const regDIGIT7 = 0x08
const regDECODEMODE = 0x09
const regINTENSITY = 0x0A
const regSCANLIMIT = 0x0B
const regSHUTDOWN = 0x0C
const regDISPLAYTEST = 0x0F

// Chip is the register state of one driver.
type Chip struct {
	Digits    [8]byte
	Decode    byte
	Intensity byte
	ScanLimit byte
	Shutdown  bool // powers up in shutdown
	Test      bool
}

type Chain struct {
	mu      sync.Mutex
	chips   []Chip
	shift   []uint16 // 16 bit shift register per chip, chip 0 is on DIN
	din     bool
	clk     bool
	cs      bool
	clocked int // bits clocked in since select went low
	latches int
	log     bool
	onLatch func()
}

// New gives a chain of n chips in their power up state.
func New(n int) *Chain {
	if n < 1 {
		n = 1
	}
	c := &Chain{
		chips: make([]Chip, n),
		shift: make([]uint16, n),
		cs:    true,
	}
	for i := range c.chips {
		c.chips[i].Shutdown = true
	}
	return c
}

func (c *Chain) DebugLog(on bool) {
	c.mu.Lock()
	c.log = on
	c.mu.Unlock()
}

// OnLatch is called (without the lock held) every time select goes high.
func (c *Chain) OnLatch(f func()) {
	c.mu.Lock()
	c.onLatch = f
	c.mu.Unlock()
}

// Line is one input pin of the chain.
type Line struct {
	c   *Chain
	set func(c *Chain, high bool)
}

func (l Line) High() { l.set(l.c, true) }
func (l Line) Low() { l.set(l.c, false) }

// DIN, CLK and CS are the three inputs of the first chip. Each has High()
// and Low() so they drop straight into a bit-bang shifter.
func (c *Chain) DIN() Line { return Line{c: c, set: (*Chain).setDIN} }
func (c *Chain) CLK() Line { return Line{c: c, set: (*Chain).setCLK} }
func (c *Chain) CS() Line { return Line{c: c, set: (*Chain).setCS} }

func (c *Chain) setDIN(high bool) {
	c.mu.Lock()
	c.din = high
	c.mu.Unlock()
}

// data moves on the rising edge of the clock while select is low
func (c *Chain) setCLK(high bool) {
	c.mu.Lock()
	rising := high && !c.clk
	c.clk = high
	if rising && !c.cs {
		var carry uint16
		if c.din {
			carry = 1
		}
		for i := range c.shift {
			out := c.shift[i] >> 15
			c.shift[i] = c.shift[i]<<1 | carry
			carry = out
		}
		c.clocked++
	}
	c.mu.Unlock()
}

// every chip loads its shift register on the rising edge of select
func (c *Chain) setCS(high bool) {
	c.mu.Lock()
	rising := high && !c.cs
	c.cs = high
	if !high {
		c.clocked = 0
	}
	var cb func()
	if rising {
		for i := range c.chips {
			c.apply(i, c.shift[i])
		}
		if c.log {
			log.Printf("chainsim: latch %d (%d bits)", c.latches, c.clocked)
		}
		c.latches++
		cb = c.onLatch
	}
	c.mu.Unlock()
	if cb != nil {
		cb()
	}
}

func (c *Chain) apply(i int, word uint16) {
	chip := &c.chips[i]
	reg := byte(word>>8) & 0x0F
	data := byte(word)
	switch {
	case reg == regNOOP:
	case reg >= regDIGIT0 && reg <= regDIGIT7:
		chip.Digits[reg-regDIGIT0] = data
	case reg == regDECODEMODE:
		chip.Decode = data
	case reg == regINTENSITY:
		chip.Intensity = data & 0x0F
	case reg == regSCANLIMIT:
		chip.ScanLimit = data & 0x07
	case reg == regSHUTDOWN:
		chip.Shutdown = data&0x01 == 0
	case reg == regDISPLAYTEST:
		chip.Test = data&0x01 != 0
	default:
		// 0x0D, 0x0E are unused
	}
}

// Len is the number of chips
func (c *Chain) Len() int {
	return len(c.chips)
}

// Chip is a copy of one chip's registers, chip 0 is nearest the host.
func (c *Chain) Chip(i int) Chip {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.chips[i]
}

// Latches counts select rising edges.
func (c *Chain) Latches() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.latches
}

// Registers is every digit register, addressed the way the display
// addresses them (chip*8 + digit).
func (c *Chain) Registers() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]byte, 0, 8*len(c.chips))
	for _, chip := range c.chips {
		out = append(out, chip.Digits[:]...)
	}
	return out
}

// Lit is what would actually be lit: display test lights everything,
// shutdown blanks the chip and digits past the scan limit are dark.
func (c *Chain) Lit() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]byte, 0, 8*len(c.chips))
	for _, chip := range c.chips {
		for d := 0; d < 8; d++ {
			var v byte
			switch {
			case chip.Test:
				v = 0xFF
			case chip.Shutdown:
				v = 0
			case d > int(chip.ScanLimit):
				v = 0
			default:
				v = chip.Digits[d]
			}
			out = append(out, v)
		}
	}
	return out
}
