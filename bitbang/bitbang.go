// Package bitbang shifts bytes out over plain GPIO output pins, the way
// the MAX72xx family expects them: select low, MSB first on the rising
// clock edge, select high to latch.
package bitbang

import (
	"fmt"
	"log"
	"strings"
)

// Pin is an output line. rpio.Pin already fits, the other GPIO libraries
// get a small adapter.
type Pin interface {
	High()
	Low()
}

type Shifter struct {
	data  Pin
	clock Pin
	cs    Pin
	dump  bool
	close func() error
}

// New parks clock low and select high (deselected) and returns a shifter
// for the three lines.
func New(data, clock, cs Pin) *Shifter {
	clock.Low()
	cs.High()
	return &Shifter{data: data, clock: clock, cs: cs}
}

func logWrite(buf []byte) {
	var sb strings.Builder
	for i := 0; i < len(buf); i++ {
		sb.WriteString(fmt.Sprintf("%02x ", buf[i]))
	}
	log.Printf("bitbang: write : %s", sb.String())
}

func (s *Shifter) DebugDump(on bool) {
	s.dump = on
}

// Transfer sends buf as one latched frame. Plain GPIO can't fail in a way
// we'd see, so this always returns nil.
func (s *Shifter) Transfer(buf []byte) error {
	if s.dump {
		logWrite(buf)
	}
	s.cs.Low()
	for _, b := range buf {
		s.shiftOut(b)
	}
	s.cs.High()
	return nil
}

func (s *Shifter) shiftOut(v byte) {
	for bit := 7; bit >= 0; bit-- {
		if v&(1<<uint(bit)) != 0 {
			s.data.High()
		} else {
			s.data.Low()
		}
		s.clock.High()
		s.clock.Low()
	}
}

// Close releases whatever the pin backend opened.
func (s *Shifter) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}
